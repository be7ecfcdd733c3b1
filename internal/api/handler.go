package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/cc-statement-parser/internal/metrics"
	"github.com/insightdelivered/cc-statement-parser/internal/models"
	"github.com/insightdelivered/cc-statement-parser/internal/statement"
	"github.com/insightdelivered/cc-statement-parser/internal/writer"
)

// ParseResponse is the JSON response from the parse endpoints.
type ParseResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	File    string         `json:"file,omitempty"`
	Data    *models.Result `json:"data,omitempty"`
	CSV     string         `json:"csv,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	parser  *statement.Parser
	version string
	// maxUpload caps the file size in bytes; zero disables the check
	maxUpload int64
}

func (h *Handler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "ok",
		"version":         h.version,
		"supported_banks": h.parser.Registry().Supported(),
	})
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// HandleParse accepts a multipart upload in field "file", with optional
// "issuer" to skip detection and "csv=true" to include a CSV rendering.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	logger := zerolog.Ctx(c.UserContext())

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.", nil)
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.", nil)
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return writeError(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large. Maximum size is %d bytes.", h.maxUpload), nil)
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.", nil)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fh, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.", nil)
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.", nil)
	}

	res, err := h.parser.ParseBytesAs(c.UserContext(), data, c.FormValue("issuer"))
	if err != nil {
		status := statusFor(err)
		logger.Warn().Err(err).Str("file", fh.Filename).Int("status", status).Msg("parse failed")
		return writeError(c, status, err.Error(), err)
	}

	resp := ParseResponse{Success: true, File: filepath.Base(fh.Filename), Data: res}
	if c.FormValue("csv") == "true" || c.Query("csv") == "true" {
		var buf bytes.Buffer
		if err := (&writer.CSVWriter{IncludeHeader: true}).Write(&buf, res); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err), nil)
		}
		resp.CSV = buf.String()
	}
	return c.JSON(resp)
}

// statusFor maps a pipeline error to an HTTP status. Problems with the
// uploaded document are the client's; anything else is ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnsupportedIssuer),
		errors.Is(err, models.ErrUnreadableDocument),
		errors.Is(err, models.ErrExtractionIncomplete):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, status int, msg string, cause error) error {
	resp := ParseResponse{Success: false, Error: msg}
	if cause != nil {
		resp.Kind = metrics.Outcome(cause)
	}
	return c.Status(status).JSON(resp)
}

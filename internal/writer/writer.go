// Package writer renders parsed statements as CSV or JSON files.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

// Writer renders a Result.
type Writer interface {
	Write(out io.Writer, res *models.Result) error
	// Ext is the file extension, including the dot.
	Ext() string
}

// For returns the writer for an output format name: "json" or "csv".
func For(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return &JSONWriter{Indent: true}, nil
	case "csv":
		return &CSVWriter{IncludeHeader: true}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or csv)", format)
	}
}

// WriteToFile writes res to path with w.
func WriteToFile(w Writer, path string, res *models.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %q: %w", path, cerr)
		}
	}()
	return w.Write(f, res)
}

// OutputPath derives the output file for input inside dir, or next to the
// input when dir is empty.
func OutputPath(input, dir string, w Writer) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + w.Ext()
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

// JSONWriter writes the full Result, provenance included.
type JSONWriter struct {
	Indent bool
}

func (w *JSONWriter) Ext() string { return ".json" }

func (w *JSONWriter) Write(out io.Writer, res *models.Result) error {
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

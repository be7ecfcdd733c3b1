package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/insightdelivered/cc-statement-parser/internal/api"
	"github.com/insightdelivered/cc-statement-parser/internal/metrics"
	"github.com/insightdelivered/cc-statement-parser/internal/statement"
	"github.com/insightdelivered/cc-statement-parser/internal/testutil"
)

type upload struct {
	filename string
	data     []byte
	// lines, when set, are rendered into data as a one-page PDF
	lines  []string
	fields map[string]string
}

func multipartRequest(path string, u *upload) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if u != nil {
		if u.lines != nil {
			u.data = testutil.PDF(GinkgoT(), u.lines)
		}
		if u.filename != "" {
			fw, err := mw.CreateFormFile("file", u.filename)
			Expect(err).NotTo(HaveOccurred())
			_, err = fw.Write(u.data)
			Expect(err).NotTo(HaveOccurred())
		}
		for k, v := range u.fields {
			Expect(mw.WriteField(k, v)).To(Succeed())
		}
	}
	Expect(mw.Close()).To(Succeed())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(resp *http.Response) api.ParseResponse {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	var out api.ParseResponse
	Expect(json.Unmarshal(raw, &out)).To(Succeed(), string(raw))
	return out
}

var _ = Describe("HTTP API", func() {
	var (
		app      *fiber.App
		recorder *metrics.Recorder
	)

	BeforeEach(func() {
		p, err := statement.Default()
		Expect(err).NotTo(HaveOccurred())
		recorder = metrics.New()
		parser := statement.New(p.Registry(), nil, statement.WithObserver(recorder))
		app = api.New(parser, api.Options{Version: "test", BodyLimit: 1 << 20, Metrics: recorder})
	})

	Describe("GET /", func() {
		It("lists the supported banks", func() {
			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body struct {
				Status         string   `json:"status"`
				Version        string   `json:"version"`
				SupportedBanks []string `json:"supported_banks"`
			}
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Status).To(Equal("ok"))
			Expect(body.Version).To(Equal("test"))
			Expect(body.SupportedBanks).To(Equal([]string{"HDFC", "ICICI", "Axis", "Chase", "IDFC"}))
		})
	})

	Describe("GET /health", func() {
		It("reports healthy with CORS and a request id", func() {
			req := httptest.NewRequest("GET", "/health", nil)
			req.Header.Set("Origin", "https://example.com")
			resp, err := app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(resp.Header.Get(fiber.HeaderXRequestID)).NotTo(BeEmpty())

			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["status"]).To(Equal("healthy"))
		})
	})

	Describe("POST /parse", func() {
		When("a supported statement is uploaded", func() {
			It("returns the parsed record", func() {
				req := multipartRequest("/parse", &upload{
					filename: "hdfc-feb.pdf",
					lines:    testutil.HDFCStatement(),
				})
				resp, err := app.Test(req, -1)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

				out := decode(resp)
				Expect(out.Success).To(BeTrue())
				Expect(out.File).To(Equal("hdfc-feb.pdf"))
				Expect(out.Data).NotTo(BeNil())
				Expect(out.Data.Issuer).To(Equal("HDFC"))
				Expect(out.Data.Transactions).To(HaveLen(3))
				Expect(out.Data.TotalDue.Amount()).To(Equal(int64(104950)))
				Expect(out.CSV).To(BeEmpty())
			})

			It("includes CSV on request and honours the issuer field", func() {
				req := multipartRequest("/api/parse", &upload{
					filename: "statement.PDF",
					lines:    testutil.IDFCStatement(),
					fields:   map[string]string{"csv": "true", "issuer": "idfc"},
				})
				resp, err := app.Test(req, -1)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

				out := decode(resp)
				Expect(out.Data.Provenance.IssuerID).To(Equal("IDFC"))
				Expect(out.CSV).To(ContainSubstring("# Issuer,IDFC"))
				Expect(out.CSV).To(ContainSubstring("NETFLIX.COM LOS GATOS"))
			})
		})

		DescribeTable("rejects bad uploads with 400",
			func(u *upload, kind string) {
				resp, err := app.Test(multipartRequest("/parse", u), -1)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

				out := decode(resp)
				Expect(out.Success).To(BeFalse())
				Expect(out.Error).NotTo(BeEmpty())
				Expect(out.Kind).To(Equal(kind))
			},
			Entry("missing file", nil, ""),
			Entry("wrong extension", &upload{filename: "statement.txt", data: []byte("hello")}, ""),
			Entry("not a PDF", &upload{filename: "fake.pdf", data: []byte("not really a pdf")}, "unreadable"),
			Entry("unknown issuer", &upload{
				filename: "acme.pdf",
				lines:    testutil.UnknownIssuerStatement(),
			}, "unsupported_issuer"),
			Entry("unknown issuer hint", &upload{
				filename: "hdfc.pdf",
				lines:    testutil.HDFCStatement(),
				fields:   map[string]string{"issuer": "barclays"},
			}, "unsupported_issuer"),
			Entry("missing fields for the forced issuer", &upload{
				filename: "hdfc.pdf",
				lines:    testutil.HDFCStatement(),
				fields:   map[string]string{"issuer": "chase"},
			}, "incomplete"),
		)

		It("rejects files over the upload limit with a JSON 413", func() {
			req := multipartRequest("/parse", &upload{
				filename: "huge.pdf",
				data:     bytes.Repeat([]byte("x"), 1<<20+1),
			})
			resp, err := app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusRequestEntityTooLarge))
			body := decode(resp)
			Expect(body.Success).To(BeFalse())
			Expect(body.Error).To(ContainSubstring("1048576 bytes"))
		})

		It("passes a file exactly at the upload limit to the parser", func() {
			req := multipartRequest("/parse", &upload{
				filename: "edge.pdf",
				data:     bytes.Repeat([]byte("x"), 1<<20),
			})
			resp, err := app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(decode(resp).Kind).To(Equal("unreadable"))
		})
	})

	Describe("GET /metrics", func() {
		It("counts parses by outcome", func() {
			_, err := app.Test(multipartRequest("/parse", &upload{
				filename: "fake.pdf",
				data:     []byte("nope"),
			}), -1)
			Expect(err).NotTo(HaveOccurred())

			resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.Contains(string(raw), `cc_parser_parses_total{issuer="unknown",outcome="unreadable"} 1`)).To(BeTrue())
		})
	})

	It("answers unknown routes with a JSON 404", func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		Expect(decode(resp).Success).To(BeFalse())
	})
})

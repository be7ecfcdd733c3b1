package metrics

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/cc-statement-parser/internal/models"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{models.Unreadable("x", nil), "unreadable"},
		{&models.UnsupportedIssuerError{}, "unsupported_issuer"},
		{models.Incomplete("HDFC", "total due"), "incomplete"},
		{fmt.Errorf("wrapped: %w", models.Unnormalizable("HDFC", "date", "x", nil)), "normalization"},
		{errors.New("disk full"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}

func TestRecorder(t *testing.T) {
	r := New()
	r.ObserveParse("HDFC", 3, 20*time.Millisecond, nil)
	r.ObserveParse("HDFC", 0, time.Millisecond, models.Incomplete("HDFC", "total due"))
	r.ObserveParse("", 0, time.Millisecond, models.Unreadable("x", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.parses.WithLabelValues("HDFC", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.parses.WithLabelValues("HDFC", "incomplete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.parses.WithLabelValues("unknown", "unreadable")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.transactions.WithLabelValues("HDFC")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cc_parser_parses_total{issuer="HDFC",outcome="ok"} 1`), body)
	assert.Contains(t, body, "cc_parser_parse_duration_seconds_bucket")
}

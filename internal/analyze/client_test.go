package analyze

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmcnair22/billscan/internal/model"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bill.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func TestAnalyzeInvoice(t *testing.T) {
	var gotModel, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotModel = r.URL.Query().Get("model")
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": "Page 1\nAcme Utilities bill",
			"fields": {"CustomerId": "987654321", "AmountDue": "$500.00"}
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 10*time.Second, testLogger())
	doc, err := c.Analyze(context.Background(), writeTempPDF(t), ModelInvoice)
	require.NoError(t, err)

	assert.Equal(t, ModelInvoice, gotModel)
	assert.Equal(t, "secret", gotKey)
	assert.Contains(t, doc.Content, "Acme Utilities")
	assert.Equal(t, "987654321", doc.Fields["CustomerId"])
	assert.Empty(t, doc.Styles)
}

func TestAnalyzeLayoutStyles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"content": "Account 123456789",
			"styles": [{"spans": [{"offset": 8, "length": 9}], "fontWeight": "bold"}]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 10*time.Second, testLogger())
	doc, err := c.Analyze(context.Background(), writeTempPDF(t), ModelLayout)
	require.NoError(t, err)

	require.Len(t, doc.Styles, 1)
	assert.Equal(t, "bold", doc.Styles[0].FontWeight)
	require.Len(t, doc.Styles[0].Spans, 1)
	assert.Equal(t, model.Span{Offset: 8, Length: 9}, doc.Styles[0].Spans[0])
}

func TestAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 10*time.Second, testLogger())
	_, err := c.Analyze(context.Background(), writeTempPDF(t), ModelInvoice)
	require.Error(t, err)
	var svcErr *model.ServiceError
	assert.True(t, errors.As(err, &svcErr))
}

func TestAnalyzeBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 10*time.Second, testLogger())
	_, err := c.Analyze(context.Background(), writeTempPDF(t), ModelInvoice)
	require.Error(t, err)
	var parseErr *model.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestAnalyzeRejectsBadDocuments(t *testing.T) {
	c := NewClient("http://localhost", "secret", time.Second, testLogger())

	_, err := c.Analyze(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), ModelInvoice)
	assert.Error(t, err)

	notPDF := filepath.Join(t.TempDir(), "bill.docx")
	require.NoError(t, os.WriteFile(notPDF, []byte("data"), 0o644))
	_, err = c.Analyze(context.Background(), notPDF, ModelInvoice)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = c.Analyze(context.Background(), empty, ModelInvoice)
	assert.Error(t, err)
}

func TestAnalyzeUnconfigured(t *testing.T) {
	c := NewClient("", "", time.Second, testLogger())
	_, err := c.Analyze(context.Background(), writeTempPDF(t), ModelInvoice)
	assert.Error(t, err)
}

package chunk

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmcnair22/billscan/internal/model"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestChunker_TwoServiceLocations(t *testing.T) {
	content := "Service Location 1 of 2\nInternet Service $50.00\n\nService Location 2 of 2\nPhone Service $30.00"
	doc := &model.Document{Content: content}

	chunks := NewChunker(testLogger()).Split(doc, "bill.pdf")

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Service Location 1 of 2"))
	assert.True(t, strings.HasPrefix(chunks[1].Content, "Service Location 2 of 2"))
	assert.Equal(t, "bill.pdf", chunks[0].SourceID)
}

func TestChunker_PreambleBeforeFirstHeader(t *testing.T) {
	content := "Acme Telecom\nInvoice 2024-06\n\nService Location 1 of 1\nInternet Service $50.00"
	doc := &model.Document{Content: content}

	chunks := NewChunker(testLogger()).Split(doc, "bill.pdf")

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[0].Content, "Acme Telecom"))
	assert.True(t, strings.HasPrefix(chunks[1].Content, "Service Location 1 of 1"))
}

func TestChunker_AlternativeHeaderFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"comcast location", "Location: 12 Main St\ncharges here"},
		{"site header", "Site 3\ncharges here"},
		{"account header", "Account 123456789\ncharges here"},
		{"location summary", "Location Summary\ncharges here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NewChunker(testLogger()).Split(&model.Document{Content: tt.content}, "bill.pdf")
			require.Len(t, chunks, 1)
			assert.Equal(t, tt.content, chunks[0].Content)
		})
	}
}

func TestChunker_CoverageWithHeaders(t *testing.T) {
	// Concatenating chunk contents should reconstruct the document modulo
	// trimmed whitespace when no master-summary truncation fires.
	content := "Preamble text\nService Location 1 of 2\nline a\nService Location 2 of 2\nline b\n"
	chunks := NewChunker(testLogger()).Split(&model.Document{Content: content}, "bill.pdf")

	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Content)
	}
	stripSpace := func(s string) string {
		return strings.Join(strings.Fields(s), "")
	}
	assert.Equal(t, stripSpace(content), stripSpace(joined.String()))
}

func TestChunker_BlankLineFallback(t *testing.T) {
	content := "first segment\nstill first\n\nsecond segment\n\n\nthird segment"
	chunks := NewChunker(testLogger()).Split(&model.Document{Content: content}, "bill.pdf")

	require.Len(t, chunks, 3)
	assert.Equal(t, "first segment\nstill first", chunks[0].Content)
	assert.Equal(t, "second segment", chunks[1].Content)
	assert.Equal(t, "third segment", chunks[2].Content)
}

func TestChunker_EmptyDocument(t *testing.T) {
	chunks := NewChunker(testLogger()).Split(&model.Document{Content: ""}, "bill.pdf")

	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].Content)
}

func TestChunker_WhitespaceOnlyDocument(t *testing.T) {
	chunks := NewChunker(testLogger()).Split(&model.Document{Content: "\n\n  \n\n"}, "bill.pdf")

	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].Content)
}

func TestChunker_MasterSummaryTruncated(t *testing.T) {
	content := "Service Location 1 of 1\nInternet Service $50.00\n" +
		"| Subtotal | Charges | $754.18 | Taxes | $754.18 | Total |\nBALANCE DUE"
	chunks := NewChunker(testLogger()).Split(&model.Document{Content: content}, "bill.pdf")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Service Location 1 of 1\nInternet Service $50.00", chunks[0].Content)
	assert.NotContains(t, chunks[0].Content, "Subtotal")
}

func TestTruncateMasterSummary_Idempotent(t *testing.T) {
	content := "Service Location 1 of 1\ncharges\n| Subtotal | x | $10.00 | y | $10.00 | z |"
	once := TruncateMasterSummary(content)
	twice := TruncateMasterSummary(once)
	assert.Equal(t, once, twice)
}

func TestTruncateMasterSummary_RequiresTwoCurrencyFields(t *testing.T) {
	// A row with a single amount is a per-location subtotal and must survive.
	content := "Service Location 1 of 1\n| Subtotal | $10.00 |"
	assert.Equal(t, content, TruncateMasterSummary(content))
}

func TestApplyStyles_BoldSpans(t *testing.T) {
	content := "Account 123456789 due now"
	styles := []model.Style{
		{FontWeight: "bold", Spans: []model.Span{{Offset: 8, Length: 9}}},
	}

	tagged := ApplyStyles(content, styles)
	assert.Equal(t, "Account <b>123456789</b> due now", tagged)
}

func TestApplyStyles_NonBoldIgnored(t *testing.T) {
	content := "Account 123456789"
	styles := []model.Style{
		{FontWeight: "normal", Spans: []model.Span{{Offset: 0, Length: 7}}},
	}
	assert.Equal(t, content, ApplyStyles(content, styles))
}

func TestApplyStyles_OutOfBoundsSpanSkipped(t *testing.T) {
	content := "short"
	styles := []model.Style{
		{FontWeight: "bold", Spans: []model.Span{{Offset: 3, Length: 50}}},
	}
	assert.Equal(t, content, ApplyStyles(content, styles))
}

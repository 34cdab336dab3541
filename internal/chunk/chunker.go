package chunk

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nmcnair22/billscan/internal/model"
)

// headerRegex matches the section headers the major bill vendors use to open
// a per-location section. Matching any of these starts a new chunk.
var headerRegex = regexp.MustCompile(
	`Service Location \d+ of \d+` + // Spectrum
		`|Location:` + // Comcast
		`|Site \d+` +
		`|Account \d+` +
		`|Location Summary`, // summary tables
)

// masterSummaryRegex matches a grand-total table row ("| Subtotal | ... |
// $754.18 | ... | $754.18 | ...") that belongs to the bill-wide summary, not
// to the location section it happens to trail.
var masterSummaryRegex = regexp.MustCompile(
	`(?m)^\| Subtotal \|.*\|\s*\$?-?\d+\.\d{2}\s*\|.*\|\s*\$?-?\d+\.\d{2}\s*\|.*$`,
)

// Chunker splits bill content into location-scoped chunks
type Chunker struct {
	logger *logrus.Logger
}

// NewChunker creates a new chunker
func NewChunker(logger *logrus.Logger) *Chunker {
	if logger == nil {
		logger = logrus.New()
	}
	return &Chunker{logger: logger}
}

// Split chunks the document into an ordered, non-overlapping sequence of
// location sections. Bold styles are applied first so emphasis markers are
// visible to extraction. Content before the first header becomes a preamble
// chunk; if no headers match at all, the content is split on blank lines
// instead (no location attribution).
func (c *Chunker) Split(doc *model.Document, sourceID string) []model.Chunk {
	content := doc.Content
	if len(doc.Styles) > 0 {
		content = ApplyStyles(content, doc.Styles)
	}

	headers := headerRegex.FindAllStringIndex(content, -1)
	if len(headers) == 0 {
		c.logger.WithField("source", sourceID).Warn("no location headers found, falling back to blank-line chunking")
		return c.splitOnBlankLines(content, sourceID)
	}

	var chunks []model.Chunk
	if headers[0][0] > 0 {
		if preamble := strings.TrimSpace(content[:headers[0][0]]); preamble != "" {
			chunks = append(chunks, model.Chunk{Content: preamble, SourceID: sourceID})
		}
	}

	for i, header := range headers {
		start := header[0]
		end := len(content)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		section := strings.TrimSpace(content[start:end])
		section = TruncateMasterSummary(section)
		chunks = append(chunks, model.Chunk{Content: section, SourceID: sourceID})
	}

	c.logger.WithFields(logrus.Fields{
		"source": sourceID,
		"chunks": len(chunks),
	}).Info("chunked document by location headers")
	return chunks
}

// splitOnBlankLines is the degraded-mode split used when no vendor header
// matches. An empty document still yields one (empty) chunk so downstream
// stages see a uniform shape.
func (c *Chunker) splitOnBlankLines(content string, sourceID string) []model.Chunk {
	var chunks []model.Chunk
	for _, segment := range strings.Split(content, "\n\n") {
		if trimmed := strings.TrimSpace(segment); trimmed != "" {
			chunks = append(chunks, model.Chunk{Content: trimmed, SourceID: sourceID})
		}
	}
	if len(chunks) == 0 {
		chunks = append(chunks, model.Chunk{Content: strings.TrimSpace(content), SourceID: sourceID})
	}
	return chunks
}

// TruncateMasterSummary cuts a chunk immediately before a trailing
// grand-total row. Running it on an already-truncated chunk is a no-op.
func TruncateMasterSummary(content string) string {
	if loc := masterSummaryRegex.FindStringIndex(content); loc != nil {
		return strings.TrimSpace(content[:loc[0]])
	}
	return content
}

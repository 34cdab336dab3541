package model

// Span marks a byte region inside document content
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Style carries font information for a set of spans, as reported by the
// layout-analysis service
type Style struct {
	Spans      []Span `json:"spans"`
	FontWeight string `json:"fontWeight,omitempty"`
}

// Document is the layout-analysis result for one bill.
// Content is read-only once produced; Styles may be empty for invoice-mode
// analyses, and Fields is populated only in invoice mode.
type Document struct {
	Content string            `json:"content"`
	Styles  []Style           `json:"styles,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Chunk is a contiguous slice of document content attributed to one
// location section or to the document preamble
type Chunk struct {
	Content  string `json:"content"`
	SourceID string `json:"source_id"`
}

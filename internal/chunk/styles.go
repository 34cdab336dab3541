package chunk

import (
	"strings"

	"github.com/nmcnair22/billscan/internal/model"
)

// ApplyStyles wraps bold spans of the document content in <b> tags so that
// emphasis survives into the plain-text chunks fed to extraction.
//
// Styles are applied in the order provided; each span's offset addresses the
// content as already transformed by the preceding spans, which matches how
// the layout service orders its style list. Spans that fall outside the
// current content bounds are skipped.
func ApplyStyles(content string, styles []model.Style) string {
	tagged := content
	for _, style := range styles {
		if style.FontWeight != "bold" {
			continue
		}
		for _, span := range style.Spans {
			if span.Offset < 0 || span.Length <= 0 || span.Offset+span.Length > len(tagged) {
				continue
			}
			var b strings.Builder
			b.Grow(len(tagged) + 7)
			b.WriteString(tagged[:span.Offset])
			b.WriteString("<b>")
			b.WriteString(tagged[span.Offset : span.Offset+span.Length])
			b.WriteString("</b>")
			b.WriteString(tagged[span.Offset+span.Length:])
			tagged = b.String()
		}
	}
	return tagged
}

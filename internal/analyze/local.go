package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/nmcnair22/billscan/internal/model"
)

// LocalAnalyzer handles text-based bill files without a remote service:
// plain text and markdown pass through, HTML is flattened to text with
// bold regions recorded as styles. Field extraction needs the remote
// invoice model, so Fields is always empty here.
type LocalAnalyzer struct {
	logger *logrus.Logger
}

func NewLocalAnalyzer(logger *logrus.Logger) *LocalAnalyzer {
	if logger == nil {
		logger = logrus.New()
	}
	return &LocalAnalyzer{logger: logger}
}

// SupportsPath reports whether the file can be analyzed locally
func SupportsPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".txt", ".md":
		return true
	}
	return false
}

// Analyze reads the file and produces an analyzed document. The analysis
// model is accepted for interface compatibility; local analysis behaves
// the same for both.
func (a *LocalAnalyzer) Analyze(_ context.Context, path, _ string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc := &model.Document{Fields: map[string]string{}}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		content, styles, err := flattenHTML(string(data))
		if err != nil {
			return nil, model.NewParseError("html document", err)
		}
		doc.Content = content
		doc.Styles = styles
	case ".txt", ".md":
		doc.Content = string(data)
	default:
		return nil, fmt.Errorf("unsupported local document type: %s", path)
	}

	a.logger.WithFields(logrus.Fields{
		"path":   filepath.Base(path),
		"styles": len(doc.Styles),
	}).Debug("analyzed local document")
	return doc, nil
}

// boldTagWidth is the number of bytes the style tagger inserts per bold
// region ("<b>" plus "</b>")
const boldTagWidth = 7

// flattenHTML walks the parsed tree collecting visible text, recording the
// offsets of <b> and <strong> regions as bold styles. Offsets address the
// content as already tagged by the preceding regions, matching how the
// style tagger consumes the list, so each span is shifted by the tag bytes
// the earlier regions will insert.
func flattenHTML(htmlContent string) (string, []model.Style, error) {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", nil, err
	}

	var buf strings.Builder
	var styles []model.Style

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "b", "strong":
				start := buf.Len()
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				// exclude the separator space a leading text node may insert
				if start < buf.Len() && buf.String()[start] == ' ' {
					start++
				}
				length := buf.Len() - start
				if length > 0 {
					styles = append(styles, model.Style{
						Spans:      []model.Span{{Offset: start + boldTagWidth*len(styles), Length: length}},
						FontWeight: "bold",
					})
				}
				return
			case "br", "p", "div", "tr", "li", "h1", "h2", "h3", "h4":
				if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
					buf.WriteString("\n")
				}
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") && !strings.HasSuffix(buf.String(), " ") {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return buf.String(), styles, nil
}

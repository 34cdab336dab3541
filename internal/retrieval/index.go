package retrieval

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nmcnair22/billscan/internal/model"
)

var pageRegex = regexp.MustCompile(`\nPage (\d+)\n`)

// SplitPages breaks raw document content on "Page N" markers. Documents
// without markers become a single page 1.
func SplitPages(content string) []Page {
	indices := pageRegex.FindAllStringSubmatchIndex(content, -1)
	if len(indices) == 0 {
		return []Page{{Number: "1", Content: strings.TrimSpace(content)}}
	}

	pages := make([]Page, 0, len(indices))
	for i, m := range indices {
		number := content[m[2]:m[3]]
		start := m[1]
		end := len(content)
		if i+1 < len(indices) {
			end = indices[i+1][0]
		}
		pages = append(pages, Page{
			Number:  number,
			Content: strings.TrimSpace(content[start:end]),
		})
	}
	return pages
}

// Page is one page of raw bill content
type Page struct {
	Number  string
	Content string
}

// SummaryChunks renders the extracted structure as compact prose chunks so
// targeted questions can hit the structured data as well as the raw pages
func SummaryChunks(extracted *model.ExtractionResult) []string {
	if extracted == nil {
		return nil
	}

	var chunks []string
	if master := extracted.MasterAccount; master != nil {
		chunks = append(chunks, fmt.Sprintf(
			"Master Account %s: Total Due: %s, Due Date: %s, Vendor: %s",
			orNA(master.AccountNumber), orNA(master.TotalDue),
			orNA(master.DueDate), orNA(master.VendorName)))
	}

	for _, sub := range extracted.SubAccounts {
		var b strings.Builder
		fmt.Fprintf(&b, "Sub-Account %s: Location: %s, Total Due: %s, Line Items: ",
			orNA(sub.SubAccountNumber), orNA(sub.Location), orNA(sub.TotalDue))
		if len(sub.LineItems) == 0 {
			b.WriteString("None")
		} else {
			parts := make([]string, 0, len(sub.LineItems))
			for _, item := range sub.LineItems {
				parts = append(parts, fmt.Sprintf("%s (%s, %s)",
					orNA(item.Description), orNA(item.DateRange), orNA(item.Total)))
			}
			b.WriteString(strings.Join(parts, ", "))
		}
		chunks = append(chunks, b.String())
	}
	return chunks
}

// BuildChunks assembles the full chunk list for indexing: extracted-data
// summaries first, then the page chunks. Blank chunks are dropped.
func BuildChunks(content string, extracted *model.ExtractionResult) []string {
	chunks := SummaryChunks(extracted)
	for _, page := range SplitPages(content) {
		if page.Content == "" {
			continue
		}
		chunks = append(chunks, fmt.Sprintf("Page %s: %s", page.Number, page.Content))
	}
	return chunks
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

package chunk

import (
	"regexp"
	"strings"
)

// Patterns for account-number emphasis. Dates, ZIP codes, and phone numbers
// look enough like labeled account numbers on telecom bills that they must be
// excluded explicitly.
var (
	nineDigitRegex = regexp.MustCompile(`\b\d{9}\b`)
	labeledRegex   = regexp.MustCompile(`(?i)(account\s*(?:#|number|no\.?)\s*:?\s*)([a-zA-Z0-9][a-zA-Z0-9 \-/]*)`)

	dateRegex  = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}`)
	zipRegex   = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	phoneRegex = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}`)
)

// EmphasizeAccountNumbers wraps likely account-number substrings in <b> tags
// so extraction is biased toward the correct identifier. The transform is
// pure and idempotent: already-emphasized values are left alone.
func EmphasizeAccountNumbers(content string) string {
	enhanced := emphasizeNineDigit(content)
	enhanced = emphasizeLabeled(enhanced)
	return enhanced
}

// emphasizeNineDigit wraps every standalone 9-digit numeral, the common
// shape of telecom sub-account numbers
func emphasizeNineDigit(content string) string {
	matches := nineDigitRegex.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content) + 7*len(matches))
	last := 0
	for _, m := range matches {
		b.WriteString(content[last:m[0]])
		if isWrapped(content, m[0], m[1]) {
			b.WriteString(content[m[0]:m[1]])
		} else {
			b.WriteString("<b>")
			b.WriteString(content[m[0]:m[1]])
			b.WriteString("</b>")
		}
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

// emphasizeLabeled wraps the value of "Account #: <value>" style labels,
// skipping values that are really dates, ZIP codes, or phone numbers
func emphasizeLabeled(content string) string {
	matches := labeledRegex.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	b.Grow(len(content) + 7*len(matches))
	last := 0
	for _, m := range matches {
		full := content[m[0]:m[1]]
		prefix := content[m[2]:m[3]]
		raw := content[m[4]:m[5]]
		value := strings.TrimRight(raw, " ")

		b.WriteString(content[last:m[0]])
		if value == "" || dateRegex.MatchString(value) || zipRegex.MatchString(value) || phoneRegex.MatchString(value) {
			b.WriteString(full)
		} else {
			b.WriteString(prefix)
			b.WriteString("<b>")
			b.WriteString(value)
			b.WriteString("</b>")
			b.WriteString(raw[len(value):])
		}
		last = m[1]
	}
	b.WriteString(content[last:])
	return b.String()
}

// isWrapped reports whether content[start:end] is already inside <b> tags
func isWrapped(content string, start, end int) bool {
	return start >= 3 && content[start-3:start] == "<b>" &&
		end+4 <= len(content) && content[end:end+4] == "</b>"
}

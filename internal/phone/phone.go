// Package phone derives contact identifiers from dashboard row text and
// renders them in the display format the messaging site uses for Brazilian
// numbers.
package phone

import "strings"

// extractWindow is how many characters after the opening parenthesis are
// scanned for digits. Dashboard rows render numbers as "(DD) NNNNN-NNNN",
// which always fits in this window.
const extractWindow = 15

// Contact is a single outbound contact, derived once from a dashboard row
// and never mutated.
type Contact struct {
	Raw       string // digit-only dedup key, e.g. "85981647142"
	Formatted string // display form, e.g. "+55 85 98164-7142"
}

// NewContact builds a Contact from a cleaned digit string.
func NewContact(digits string) Contact {
	return Contact{Raw: digits, Formatted: Format(digits)}
}

// Format renders a digit-only national number in the messaging site's
// display format: "+55 DD NNNNN-NNNN". The space follows digit index 2 and
// the hyphen precedes digit index 7. Inputs shorter than 8 digits are
// returned unchanged; they cannot be valid area-code + subscriber numbers.
func Format(digits string) string {
	if len(digits) < 8 {
		return digits
	}
	var b strings.Builder
	b.WriteString("+55 ")
	b.WriteString(digits[:2])
	b.WriteByte(' ')
	b.WriteString(digits[2:7])
	b.WriteByte('-')
	b.WriteString(digits[7:])
	return b.String()
}

// ExtractKey scans one row line for a parenthesized phone number and returns
// the digit-only dedup key, or "" when the line carries none. Only a fixed
// window after the opening parenthesis is considered, so trailing order text
// never leaks into the key.
func ExtractKey(line string) string {
	init := strings.Index(line, "(")
	if init < 0 || !strings.Contains(line, ")") {
		return ""
	}
	end := init + extractWindow
	if end > len(line) {
		end = len(line)
	}
	var b strings.Builder
	for _, r := range line[init:end] {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package phone

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// Property: for any digit string of length >= 8, Format always yields
// "+55 <d[0:2]> <d[2:7]-d[7:]>" — every input digit survives, in order.
func TestFormatProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		digits := rapid.StringMatching(`[0-9]{8,13}`).Draw(t, "digits")

		got := Format(digits)
		want := "+55 " + digits[:2] + " " + digits[2:7] + "-" + digits[7:]
		if got != want {
			t.Fatalf("Format(%q) = %q, want %q", digits, got, want)
		}

		// No digit may be dropped or reordered.
		stripped := strings.NewReplacer("+", "", " ", "", "-", "").Replace(got)
		if stripped != "55"+digits {
			t.Fatalf("Format(%q) lost digits: %q", digits, got)
		}
	})
}

func TestFormatExample(t *testing.T) {
	got := Format("85981647142")
	want := "+55 85 98164-7142"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatShortInputUnchanged(t *testing.T) {
	for _, in := range []string{"", "1234567"} {
		if got := Format(in); got != in {
			t.Errorf("Format(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"dashboard row", "Order #4 (85) 98164-7142", "85981647142"},
		{"no parens", "Order #4 85981647142", ""},
		{"open paren only", "Order #4 (85 98164-7142", ""},
		{"paren near end of line", "x (85) 9816", "859816"},
		{"trailing digits outside window ignored", "(85) 98164-7142 item 99", "85981647142"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractKey(tt.line); got != tt.want {
				t.Errorf("ExtractKey(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestNewContact(t *testing.T) {
	c := NewContact("85981647142")
	if c.Raw != "85981647142" {
		t.Errorf("Raw = %q", c.Raw)
	}
	if c.Formatted != "+55 85 98164-7142" {
		t.Errorf("Formatted = %q", c.Formatted)
	}
}

package textutil

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"• Pack light", "Pack light"},
		{"- Bring a map", "Bring a map"},
		{"* Starred item", "Starred item"},
		{"3. Book the hotel", "Book the hotel"},
		{"2.1. Nested number", "Nested number"},
		{"  plain   text \n with  breaks ", "plain text with breaks"},
		{"• first\n• second", "first second"},
		{"Version 2.0 is out", "Version 2.0 is out"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package engine

import "testing"

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>bold</b> text", "bold text"},
		{"no markup", "no markup"},
		{"  <p> padded </p>  ", "padded"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanHTML(tt.in); got != tt.want {
			t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b\tc\nd", "a b c d"},
		{"  trimmed  ", "trimmed"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CollapseWhitespace(tt.in); got != tt.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Video", "My Video"},
		{"path separators", "a/b\\c", "a b c"},
		{"reserved chars", `Talk: "Go?" <live>`, "Talk Go live"},
		{"control chars", "a\x00b\x1fc", "a b c"},
		{"trailing dots", "name...", "name"},
		{"empty falls back", "", "video"},
		{"only junk falls back", `///:::???`, "video"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFilename(tt.in); got != tt.want {
				t.Errorf("SafeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"PT4M13S", 253},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT0S", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := ParseISODuration(tt.in); got != tt.want {
			t.Errorf("ParseISODuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 3); got != "hel" {
		t.Errorf("Truncate = %q, want hel", got)
	}
	if got := Truncate("hi", 10); got != "hi" {
		t.Errorf("Truncate = %q, want hi", got)
	}
}

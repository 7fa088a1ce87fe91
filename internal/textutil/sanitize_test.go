package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "English - Commentary", want: "English - Commentary"},
		{in: "  Chinese  ", want: "Chinese"},
		{in: "Signs/Songs: Part 1", want: "Signs-Songs- Part 1"},
		{in: `What? "Forced" <SDH>|`, want: "What Forced SDH"},
		{in: "..hidden", want: "hidden"},
		{in: "trailing. . ", want: "trailing"},
		{in: "tab\tand\nnewline", want: "tab and newline"},
		{in: "bell\x07", want: "bell"},
		{in: "", want: ""},
		{in: "???", want: ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTernary(t *testing.T) {
	if got := Ternary(true, "a", "b"); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

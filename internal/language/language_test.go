package language

import (
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2/T codes
		{"eng", "English"},
		{"zho", "Chinese"},
		{"fra", "French"},
		{"deu", "German"},
		{"nld", "Dutch"},
		// 2/B codes
		{"chi", "Chinese"},
		{"fre", "French"},
		{"ger", "German"},
		{"dut", "Dutch"},
		{"cze", "Czech"},
		// 639-1 codes
		{"en", "English"},
		{"zh", "Chinese"},
		{"ja", "Japanese"},
		// case and whitespace are normalized for lookup
		{"ENG", "English"},
		{" jpn ", "Japanese"},
		// special codes
		{"und", "Undetermined"},
		{"zxx", "No linguistic content"},
		// unknown codes pass through unchanged
		{"", ""},
		{"x1y", "x1y"},
		{"q9", "q9"},
		{"english", "english"},
		{"en-US", "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := Resolve(tt.input)
			if result != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestResolvePrefersTerminologyTable(t *testing.T) {
	r := NewResolver(
		Table{"abc": "Terminology Name"},
		Table{"abc": "Bibliographic Name", "abd": "Other"},
		Table{"ab": "Two Letter"},
		nil,
	)
	if got := r.Resolve("abc"); got != "Terminology Name" {
		t.Fatalf("expected terminology match, got %q", got)
	}
	if got := r.Resolve("abd"); got != "Other" {
		t.Fatalf("expected bibliographic fallback, got %q", got)
	}
	if got := r.Resolve("ab"); got != "Two Letter" {
		t.Fatalf("expected 639-1 match, got %q", got)
	}
}

func TestResolveLengthSelectsTier(t *testing.T) {
	// A 2-letter code never consults the 3-letter tables and vice versa.
	r := NewResolver(
		Table{"ab": "Wrong"},
		Table{"ab": "Wrong"},
		Table{"abc": "Wrong"},
		nil,
	)
	if got := r.Resolve("ab"); got != "ab" {
		t.Fatalf("expected passthrough for 2-letter code, got %q", got)
	}
	if got := r.Resolve("abc"); got != "abc" {
		t.Fatalf("expected passthrough for 3-letter code, got %q", got)
	}
}

func TestResolveRegistryTier(t *testing.T) {
	r := NewResolver(nil, nil, nil, Table{"qqq": "Registry Name"})
	if got := r.Resolve("qqq"); got != "Registry Name" {
		t.Fatalf("expected registry fallback, got %q", got)
	}
	if got := r.Resolve("QQQ"); got != "Registry Name" {
		t.Fatalf("expected normalized registry lookup, got %q", got)
	}
}

func TestResolveRegistryCoversCodesOutsideTables(t *testing.T) {
	// Swahili is not in the built-in table.
	if _, ok := terminology["swa"]; ok {
		t.Fatal("test assumes swa is not in the built-in table")
	}
	if got := Resolve("swa"); got != "Swahili" {
		t.Fatalf("Resolve(swa) = %q, want Swahili", got)
	}
	if got := Resolve("sw"); got != "Swahili" {
		t.Fatalf("Resolve(sw) = %q, want Swahili", got)
	}
}

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"fra", "fr"},
		{"chi", "zh"},
		{"zho", "zh"},
		{"yue", ""},
		{"xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ToISO2(tt.input); got != tt.expected {
				t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractFromTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		expected string
	}{
		{"nil tags", nil, ""},
		{"empty tags", map[string]string{}, ""},
		{"lowercase key", map[string]string{"language": "eng"}, "eng"},
		{"uppercase key keeps raw value", map[string]string{"LANGUAGE": "ENG"}, "ENG"},
		{"lang key", map[string]string{"lang": "en"}, "en"},
		{"null bytes stripped", map[string]string{"language": "eng\x00"}, "eng"},
		{"empty value", map[string]string{"language": ""}, ""},
		{"priority: language over LANG", map[string]string{"language": "fr", "LANG": "en"}, "fr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractFromTags(tt.tags)
			if result != tt.expected {
				t.Errorf("ExtractFromTags(%v) = %q, want %q", tt.tags, result, tt.expected)
			}
		})
	}
}

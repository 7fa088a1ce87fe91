package selection_test

import (
	"errors"
	"testing"

	"csub/internal/language"
	"csub/internal/selection"
	"csub/internal/services"
	"csub/internal/tracks"
)

func TestEncodeExamples(t *testing.T) {
	chi := tracks.TrackDescriptor{Index: 2, Kind: "subtitle", LanguageCode: "chi"}
	eng := tracks.TrackDescriptor{Index: 3, Kind: "subtitle", LanguageCode: "eng", Title: "Commentary", HasTitle: true}

	if got := selection.Encode(chi, language.Resolve(chi.LanguageCode)); got != "#2 Chinese" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := selection.Encode(eng, language.Resolve(eng.LanguageCode)); got != "#3 English - Commentary" {
		t.Fatalf("unexpected label %q", got)
	}

	for label, want := range map[selection.Label]int{"#2 Chinese": 2, "#3 English - Commentary": 3} {
		got, err := selection.Decode(label)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", label, err)
		}
		if got != want {
			t.Fatalf("Decode(%q) = %d, want %d", label, got, want)
		}
	}
}

func TestEncodeEmptyTitleStillRendersSeparator(t *testing.T) {
	d := tracks.TrackDescriptor{Index: 4, LanguageCode: "eng", HasTitle: true}
	if got := selection.Encode(d, "English"); got != "#4 English - " {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []tracks.TrackDescriptor{
		{Index: 0, LanguageCode: "eng"},
		{Index: 3, LanguageCode: "eng", Title: "#12 Commentary", HasTitle: true},
		{Index: 12, LanguageCode: "fre", Title: "Forced #3 ", HasTitle: true},
		{Index: 7, LanguageCode: "", Title: "#7 #8 #9", HasTitle: true},
		{Index: 105, LanguageCode: "xx-unknown"},
		{Index: 9, LanguageCode: "jpn", Title: "", HasTitle: true},
		{Index: 4000000, LanguageCode: "spa"},
	}
	for _, d := range tests {
		label := selection.Encode(d, language.Resolve(d.LanguageCode))
		got, err := selection.Decode(label)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", label, err)
		}
		if got != d.Index {
			t.Fatalf("round trip of %q: got %d want %d", label, got, d.Index)
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []selection.Label{
		"",
		"2 Chinese",
		" #2 Chinese",
		"#2Chinese",
		"#Chinese",
		"#2",
		"English #3 ",
		"#-1 English",
	}
	for _, label := range tests {
		if _, err := selection.Decode(label); !errors.Is(err, services.ErrDecode) {
			t.Fatalf("Decode(%q): expected ErrDecode, got %v", label, err)
		}
	}
}

func TestDecodeUsesMaximalLeadingDigits(t *testing.T) {
	got, err := selection.Decode("#123 English - #4 ")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if got != 123 {
		t.Fatalf("expected 123, got %d", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := selection.DisplayName("#3 English - Commentary"); got != "English - Commentary" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := selection.DisplayName("no prefix"); got != "no prefix" {
		t.Fatalf("unexpected display name %q", got)
	}
}

func TestItemsAndCheckedPreserveOrder(t *testing.T) {
	descriptors := []tracks.TrackDescriptor{
		{Index: 5, LanguageCode: "ger"},
		{Index: 2, LanguageCode: "chi"},
		{Index: 3, LanguageCode: "eng", Title: "Commentary", HasTitle: true},
	}
	items := selection.Items(descriptors, language.Default())
	if items[0].Label != "#5 German" || items[1].Label != "#2 Chinese" {
		t.Fatalf("unexpected labels: %+v", items)
	}

	checked, missing := selection.Checked(items, []int{3, 99, 5})
	if len(missing) != 1 || missing[0] != 99 {
		t.Fatalf("expected 99 missing, got %v", missing)
	}
	if len(checked) != 2 || checked[0].Index != 5 || checked[1].Index != 3 {
		t.Fatalf("expected presented order [5 3], got %+v", checked)
	}
}

func TestFromLabels(t *testing.T) {
	items, err := selection.FromLabels([]selection.Label{"#3 English - Commentary", "#2 Chinese"})
	if err != nil {
		t.Fatalf("FromLabels returned error: %v", err)
	}
	if items[0].Index != 3 || items[1].Index != 2 {
		t.Fatalf("unexpected order: %+v", items)
	}
	if _, err := selection.FromLabels([]selection.Label{"#1 ok", "bad"}); !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestParseChoice(t *testing.T) {
	got, err := selection.ParseChoice(" 2, #3  5 ")
	if err != nil {
		t.Fatalf("ParseChoice returned error: %v", err)
	}
	if len(got) != 3 || got[0] != 2 || got[1] != 3 || got[2] != 5 {
		t.Fatalf("unexpected indexes %v", got)
	}
	if got, err := selection.ParseChoice(""); err != nil || len(got) != 0 {
		t.Fatalf("expected empty choice, got %v %v", got, err)
	}
	if _, err := selection.ParseChoice("2,x"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code1   string // ISO 639-1 (2-letter)
	code2T  string // ISO 639-2/T (terminology)
	code2B  string // ISO 639-2/B (bibliographic), only when it differs from 2/T
	display string
}

var languages = []entry{
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"de", "deu", "ger", "German"},
	{"it", "ita", "", "Italian"},
	{"pt", "por", "", "Portuguese"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"zh", "zho", "chi", "Chinese"},
	{"ru", "rus", "", "Russian"},
	{"ar", "ara", "", "Arabic"},
	{"hi", "hin", "", "Hindi"},
	{"nl", "nld", "dut", "Dutch"},
	{"pl", "pol", "", "Polish"},
	{"sv", "swe", "", "Swedish"},
	{"da", "dan", "", "Danish"},
	{"no", "nor", "", "Norwegian"},
	{"nb", "nob", "", "Norwegian Bokmål"},
	{"nn", "nno", "", "Norwegian Nynorsk"},
	{"fi", "fin", "", "Finnish"},
	{"cs", "ces", "cze", "Czech"},
	{"sk", "slk", "slo", "Slovak"},
	{"hu", "hun", "", "Hungarian"},
	{"ro", "ron", "rum", "Romanian"},
	{"el", "ell", "gre", "Greek"},
	{"tr", "tur", "", "Turkish"},
	{"he", "heb", "", "Hebrew"},
	{"th", "tha", "", "Thai"},
	{"vi", "vie", "", "Vietnamese"},
	{"id", "ind", "", "Indonesian"},
	{"ms", "msa", "may", "Malay"},
	{"fa", "fas", "per", "Persian"},
	{"uk", "ukr", "", "Ukrainian"},
	{"bg", "bul", "", "Bulgarian"},
	{"hr", "hrv", "", "Croatian"},
	{"sr", "srp", "", "Serbian"},
	{"sl", "slv", "", "Slovenian"},
	{"mk", "mkd", "mac", "Macedonian"},
	{"sq", "sqi", "alb", "Albanian"},
	{"hy", "hye", "arm", "Armenian"},
	{"ka", "kat", "geo", "Georgian"},
	{"eu", "eus", "baq", "Basque"},
	{"ca", "cat", "", "Catalan"},
	{"gl", "glg", "", "Galician"},
	{"is", "isl", "ice", "Icelandic"},
	{"cy", "cym", "wel", "Welsh"},
	{"ga", "gle", "", "Irish"},
	{"lt", "lit", "", "Lithuanian"},
	{"lv", "lav", "", "Latvian"},
	{"et", "est", "", "Estonian"},
	{"my", "mya", "bur", "Burmese"},
	{"bo", "bod", "tib", "Tibetan"},
	{"mi", "mri", "mao", "Maori"},
	{"bn", "ben", "", "Bengali"},
	{"ta", "tam", "", "Tamil"},
	{"te", "tel", "", "Telugu"},
	{"ur", "urd", "", "Urdu"},
	{"tl", "tgl", "", "Tagalog"},
	{"la", "lat", "", "Latin"},
	{"", "fil", "", "Filipino"},
	{"", "yue", "", "Cantonese"},
	{"", "und", "", "Undetermined"},
	{"", "mul", "", "Multiple languages"},
	{"", "zxx", "", "No linguistic content"},
}

// Table maps lowercase language codes to display names.
type Table map[string]string

// Name implements Namer.
func (t Table) Name(code string) (string, bool) {
	name, ok := t[code]
	return name, ok
}

// Namer looks up a display name for a normalized (lowercase) code.
type Namer interface {
	Name(code string) (string, bool)
}

// Built-in tables, indexed at init time.
var (
	terminology   Table
	bibliographic Table
	alpha2        Table
)

func init() {
	terminology = make(Table, len(languages))
	bibliographic = make(Table, len(languages))
	alpha2 = make(Table, len(languages))
	for _, e := range languages {
		if e.code1 != "" {
			alpha2[e.code1] = e.display
		}
		terminology[e.code2T] = e.display
		if e.code2B != "" {
			bibliographic[e.code2B] = e.display
		} else {
			bibliographic[e.code2T] = e.display
		}
	}
}

// Resolver maps language codes to display names with a tiered fallback:
// 3-letter codes try ISO 639-2/T then ISO 639-2/B, other lengths try ISO 639-1,
// then the optional registry tier; unresolved codes are returned verbatim.
type Resolver struct {
	terminology   Namer
	bibliographic Namer
	alpha2        Namer
	registry      Namer
}

// NewResolver builds a resolver from explicit tiers. Any tier may be nil.
func NewResolver(terminology, bibliographic, alpha2, registry Namer) *Resolver {
	return &Resolver{
		terminology:   terminology,
		bibliographic: bibliographic,
		alpha2:        alpha2,
		registry:      registry,
	}
}

var defaultResolver = NewResolver(terminology, bibliographic, alpha2, registryNamer{namer: display.English.Languages()})

// Default returns the resolver backed by the built-in tables and the
// golang.org/x/text language registry.
func Default() *Resolver {
	return defaultResolver
}

// Resolve resolves code with the default resolver.
func Resolve(code string) string {
	return defaultResolver.Resolve(code)
}

// Resolve returns a displayable name for code. It never fails.
func (r *Resolver) Resolve(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return code
	}
	var tiers []Namer
	if len(normalized) == 3 {
		tiers = []Namer{r.terminology, r.bibliographic}
	} else {
		tiers = []Namer{r.alpha2}
	}
	tiers = append(tiers, r.registry)
	for _, tier := range tiers {
		if tier == nil {
			continue
		}
		if name, ok := tier.Name(normalized); ok && name != "" {
			return name
		}
	}
	return code
}

// registryNamer resolves codes outside the built-in tables against the
// golang.org/x/text ISO 639 registry.
type registryNamer struct {
	namer display.Namer
}

func (r registryNamer) Name(code string) (string, bool) {
	if r.namer == nil || (len(code) != 2 && len(code) != 3) || !isLetters(code) {
		return "", false
	}
	base, err := xlanguage.ParseBase(code)
	if err != nil {
		return "", false
	}
	name := r.namer.Name(base)
	if name == "" {
		return "", false
	}
	return name, true
}

func isLetters(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// ToISO2 converts a recognized 2- or 3-letter code to ISO 639-1.
// Returns empty string for unrecognized input.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	for _, e := range languages {
		if e.code1 == "" {
			continue
		}
		if code == e.code1 || code == e.code2T || code == e.code2B {
			return e.code1
		}
	}
	return ""
}

// ExtractFromTags returns the raw language value from stream metadata tags.
// Checks common tag keys: language, LANGUAGE, Language, language_ietf, lang, LANG.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}
	for _, key := range keys {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return value
			}
		}
	}
	return ""
}

// Package selection encodes tracks into display labels and decodes labels
// back into stream indexes.
//
// A label always starts with "#<index> ", so the index survives any title
// text that follows it.
package selection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"csub/internal/services"
	"csub/internal/tracks"
)

// Label is the display text for one selectable track.
type Label string

var labelPrefix = regexp.MustCompile(`^#(\d+) `)

// Encode renders "#{index} {language}" or "#{index} {language} - {title}".
func Encode(d tracks.TrackDescriptor, language string) Label {
	if d.HasTitle {
		return Label(fmt.Sprintf("#%d %s - %s", d.Index, language, d.Title))
	}
	return Label(fmt.Sprintf("#%d %s", d.Index, language))
}

// Decode returns the stream index at the start of label. Labels without a
// leading "#<digits> " fail with services.ErrDecode.
func Decode(label Label) (int, error) {
	match := labelPrefix.FindStringSubmatch(string(label))
	if match == nil {
		return 0, services.Wrap(services.ErrDecode, "selection", "decode", fmt.Sprintf("label %q lacks #<index> prefix", string(label)), nil)
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, services.Wrap(services.ErrDecode, "selection", "decode", fmt.Sprintf("label %q", string(label)), err)
	}
	return index, nil
}

// DisplayName returns the label with its "#<index> " prefix removed.
func DisplayName(label Label) string {
	loc := labelPrefix.FindStringIndex(string(label))
	if loc == nil {
		return string(label)
	}
	return string(label)[loc[1]:]
}

// Resolver maps a language code to a display name.
type Resolver interface {
	Resolve(code string) string
}

// Item pairs a label with the track it was encoded from.
type Item struct {
	Label Label                  `json:"label"`
	Index int                    `json:"index"`
	Track tracks.TrackDescriptor `json:"track"`
}

// Items encodes descriptors in the order given, resolving language codes
// through resolver.
func Items(descriptors []tracks.TrackDescriptor, resolver Resolver) []Item {
	items := make([]Item, 0, len(descriptors))
	for _, d := range descriptors {
		items = append(items, Item{
			Label: Encode(d, resolver.Resolve(d.LanguageCode)),
			Index: d.Index,
			Track: d,
		})
	}
	return items
}

// FromLabels rebuilds an ordered selection from checked labels, decoding the
// index of each. The first undecodable label aborts with services.ErrDecode.
func FromLabels(labels []Label) ([]Item, error) {
	items := make([]Item, 0, len(labels))
	for _, label := range labels {
		index, err := Decode(label)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Label: label, Index: index})
	}
	return items, nil
}

// Checked returns the items whose stream index is in indexes, keeping the
// order in which items were presented. Unknown indexes are returned as missing.
func Checked(items []Item, indexes []int) ([]Item, []int) {
	wanted := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		wanted[idx] = true
	}
	var out []Item
	for _, item := range items {
		if wanted[item.Index] {
			out = append(out, item)
			delete(wanted, item.Index)
		}
	}
	var missing []int
	for _, idx := range indexes {
		if wanted[idx] {
			missing = append(missing, idx)
			delete(wanted, idx)
		}
	}
	return out, missing
}

// ParseChoice parses a comma or space separated list of stream indexes such
// as "2, 3 5". An empty string yields no indexes.
func ParseChoice(input string) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	indexes := make([]int, 0, len(fields))
	for _, f := range fields {
		value, err := strconv.Atoi(strings.TrimPrefix(f, "#"))
		if err != nil || value < 0 {
			return nil, services.Wrap(services.ErrValidation, "selection", "parse", fmt.Sprintf("invalid track index %q", f), nil)
		}
		indexes = append(indexes, value)
	}
	return indexes, nil
}

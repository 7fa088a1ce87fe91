// Package language resolves ISO 639 language codes to human-readable names.
//
// Lookups run through ordered tiers: 3-letter codes consult the ISO 639-2
// terminology table before the bibliographic one, shorter codes consult
// ISO 639-1, and anything still unknown is checked against the
// golang.org/x/text registry. Codes no tier recognizes are returned verbatim,
// so callers always get something displayable.
package language

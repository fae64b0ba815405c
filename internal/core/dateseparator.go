package core

import "fmt"

const (
	SeparatorSpace  DateSeparator = "SPACE"
	SeparatorSlash  DateSeparator = "SLASH"
	SeparatorDot    DateSeparator = "DOT"
	SeparatorHyphen DateSeparator = "HYPHEN"

	// DefaultSeparator is applied when a preference does not choose one.
	DefaultSeparator = SeparatorSpace
)

// DateSeparator is the glyph substituted for the spaces of a
// separator-eligible DatePattern.
type DateSeparator string

type separatorSpec struct {
	glyph string
	label string
}

var separatorSpecs = map[DateSeparator]separatorSpec{
	SeparatorSpace:  {" ", "Space"},
	SeparatorSlash:  {"/", "Slash"},
	SeparatorDot:    {".", "Dot"},
	SeparatorHyphen: {"-", "Hyphen"},
}

// Glyph returns the literal separator string. For example, SeparatorSlash
// returns "/".
func (s DateSeparator) Glyph() string {
	return separatorSpecs[s].glyph
}

// Label returns the human-readable name of the separator. For example,
// SeparatorSlash returns "Slash".
func (s DateSeparator) Label() string {
	return separatorSpecs[s].label
}

// Valid reports whether s is one of the known separator codes.
func (s DateSeparator) Valid() bool {
	_, ok := separatorSpecs[s]
	return ok
}

// ParseDateSeparator converts a wire code such as "SLASH" to a
// DateSeparator.
func ParseDateSeparator(code string) (DateSeparator, error) {
	s := DateSeparator(code)
	if !s.Valid() {
		return "", fmt.Errorf("unknown date separator %q", code)
	}
	return s, nil
}

// SeparatorFromGlyph converts a stored glyph back to a DateSeparator.
// Purposefully lenient: anything unrecognized falls back to SeparatorSpace.
func SeparatorFromGlyph(glyph string) DateSeparator {
	switch glyph {
	case "/":
		return SeparatorSlash
	case ".":
		return SeparatorDot
	case "-":
		return SeparatorHyphen
	default:
		return SeparatorSpace
	}
}

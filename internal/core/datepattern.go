package core

import "fmt"

const (
	PatternMonthDayYear DatePattern = "MONTH_DAY_YEAR"
	PatternDayMonthYear DatePattern = "DAY_MONTH_YEAR"
	PatternYearMonthDay DatePattern = "YEAR_MONTH_DAY"
	PatternYearDayMonth DatePattern = "YEAR_DAY_MONTH"

	PatternMonthDayYearWord DatePattern = "MONTH_DAY_YEAR_WORD"
	PatternDayMonthYearWord DatePattern = "DAY_MONTH_YEAR_WORD"
	PatternYearMonthDayWord DatePattern = "YEAR_MONTH_DAY_WORD"
	PatternYearDayMonthWord DatePattern = "YEAR_DAY_MONTH_WORD"

	PatternMonthDayYearLong DatePattern = "MONTH_DAY_YEAR_LONG"
	PatternDayMonthYearLong DatePattern = "DAY_MONTH_YEAR_LONG"
	PatternYearMonthDayLong DatePattern = "YEAR_MONTH_DAY_LONG"
	PatternYearDayMonthLong DatePattern = "YEAR_DAY_MONTH_LONG"

	// DefaultPattern is applied when a preference does not choose one.
	DefaultPattern = PatternMonthDayYear
)

// DatePattern is one of the twelve fixed date layouts a user can pick:
// four field orderings, each in a numeric, abbreviated-word and
// long-with-weekday form.
type DatePattern string

type patternSpec struct {
	template   string
	separators bool
}

// Templates use the field tokens yyyy, MMM, M, dd, d and E. Only the
// numeric patterns accept a custom separator; the word forms carry fixed
// punctuation of their own.
var patternSpecs = map[DatePattern]patternSpec{
	PatternMonthDayYear: {"M d yyyy", true},
	PatternDayMonthYear: {"d M yyyy", true},
	PatternYearMonthDay: {"yyyy M d", true},
	PatternYearDayMonth: {"yyyy d M", true},

	PatternMonthDayYearWord: {"MMM d yyyy", false},
	PatternDayMonthYearWord: {"dd MMM yyyy", false},
	PatternYearMonthDayWord: {"yyyy MMM d", false},
	PatternYearDayMonthWord: {"yyyy d MMM", false},

	PatternMonthDayYearLong: {"E, MMM d, yyyy", false},
	PatternDayMonthYearLong: {"E, d MMM, yyyy", false},
	PatternYearMonthDayLong: {"E, yyyy, MMM d", false},
	PatternYearDayMonthLong: {"E, yyyy, d MMM", false},
}

// Template returns the pattern's token template, fields separated by
// single spaces.
func (p DatePattern) Template() string {
	return patternSpecs[p].template
}

// AllowsSeparators reports whether the template's spaces may be replaced
// with a user-chosen separator glyph.
func (p DatePattern) AllowsSeparators() bool {
	return patternSpecs[p].separators
}

// Valid reports whether p is one of the known pattern codes.
func (p DatePattern) Valid() bool {
	_, ok := patternSpecs[p]
	return ok
}

// ParseDatePattern converts a wire code such as "MONTH_DAY_YEAR" to a
// DatePattern.
func ParseDatePattern(code string) (DatePattern, error) {
	p := DatePattern(code)
	if !p.Valid() {
		return "", fmt.Errorf("unknown date pattern %q", code)
	}
	return p, nil
}

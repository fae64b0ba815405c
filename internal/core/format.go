package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrTimeUnset is returned when a timestamp render is asked for an expense
// whose time was never set. Create stamps the time, so hitting this means
// a logic error upstream.
var ErrTimeUnset = errors.New("expense time is not set")

// ComposePattern combines a date pattern with a separator into the final
// format string. Separator-eligible templates have every space replaced
// with the separator's glyph; all other templates pass through unchanged.
// Pure function, invoked at every preference mutation and load boundary.
func ComposePattern(pattern DatePattern, separator DateSeparator) string {
	tpl := pattern.Template()
	if pattern.AllowsSeparators() {
		return strings.ReplaceAll(tpl, " ", separator.Glyph())
	}
	return tpl
}

// RenderTimestamp formats the expense's time using the preference's
// complete pattern.
func RenderTimestamp(e Expense, pref UserPreference) (string, error) {
	if e.Time.IsZero() {
		return "", ErrTimeUnset
	}
	layout := pref.PatternComplete
	if layout == "" {
		layout = ComposePattern(pref.Pattern, pref.Separator)
	}
	return formatTokens(layout, e.Time), nil
}

// formatTokens expands the date-field tokens of a composed pattern.
// Tokens are matched left to right, longest first, so the 'd' of an
// expanded weekday never collides with the day token; any unrecognized
// byte is a separator glyph and is copied through.
func formatTokens(layout string, t time.Time) string {
	var b strings.Builder
	for i := 0; i < len(layout); {
		rest := layout[i:]
		switch {
		case strings.HasPrefix(rest, "yyyy"):
			b.WriteString(strconv.Itoa(t.Year()))
			i += 4
		case strings.HasPrefix(rest, "MMM"):
			b.WriteString(t.Format("Jan"))
			i += 3
		case strings.HasPrefix(rest, "M"):
			b.WriteString(strconv.Itoa(int(t.Month())))
			i++
		case strings.HasPrefix(rest, "dd"):
			day := strconv.Itoa(t.Day())
			if t.Day() < 10 {
				day = "0" + day
			}
			b.WriteString(day)
			i += 2
		case strings.HasPrefix(rest, "d"):
			b.WriteString(strconv.Itoa(t.Day()))
			i++
		case strings.HasPrefix(rest, "E"):
			b.WriteString(t.Format("Mon"))
			i++
		default:
			b.WriteByte(layout[i])
			i++
		}
	}
	return b.String()
}

package core

// UserPreference is one user's date-rendering configuration.
// PatternComplete is derived from Pattern and Separator and is never
// persisted; it must be recomputed on every mutation and every load so it
// is never observed stale.
type UserPreference struct {
	ID        string
	Separator DateSeparator
	Pattern   DatePattern

	PatternComplete string
}

// Recompute refreshes the derived complete pattern from the current
// pattern/separator pair.
func (p *UserPreference) Recompute() {
	p.PatternComplete = ComposePattern(p.Pattern, p.Separator)
}

// PreferenceInput carries caller-supplied preference data. Nil fields mean
// "not supplied".
type PreferenceInput struct {
	Separator *DateSeparator
	Pattern   *DatePattern
}

// NewPreference builds an unsaved preference from an input, applying the
// defaults (space separator, numeric month-day-year) for absent fields.
func NewPreference(in PreferenceInput) UserPreference {
	p := UserPreference{
		Separator: DefaultSeparator,
		Pattern:   DefaultPattern,
	}
	if in.Separator != nil {
		p.Separator = *in.Separator
	}
	if in.Pattern != nil {
		p.Pattern = *in.Pattern
	}
	p.Recompute()
	return p
}

// ApplyPatch overwrites exactly the fields the input supplies and
// recomputes the derived pattern.
func (p *UserPreference) ApplyPatch(in PreferenceInput) {
	if in.Separator != nil {
		p.Separator = *in.Separator
	}
	if in.Pattern != nil {
		p.Pattern = *in.Pattern
	}
	p.Recompute()
}

package cwqi

import (
	"strings"
	"unicode"
)

// NameRules is the table of parameter-name aliases that give a parameter a role.
// All matching is case-insensitive substring matching, except MinimumTokens which
// must appear as a whole word.
type NameRules struct {
	Bacteriological []string `json:"bacteriological" yaml:"bacteriological"`
	Minimum         []string `json:"minimum" yaml:"minimum"`
	MinimumTokens   []string `json:"minimum_tokens" yaml:"minimum_tokens"`
	Chloride        []string `json:"chloride" yaml:"chloride"`
	Bromide         []string `json:"bromide" yaml:"bromide"`
}

// DefaultNameRules returns the aliases used by the lab's parameter catalogue.
func DefaultNameRules() NameRules {
	return NameRules{
		Bacteriological: []string{"coliform", "bacteria", "e. coli", "e.coli"},
		Minimum:         []string{"dissolved oxygen", "oxygen"},
		MinimumTokens:   []string{"do"},
		Chloride:        []string{"chloride"},
		Bromide:         []string{"bromide"},
	}
}

// withDefaults fills any empty alias list from DefaultNameRules.
func (r NameRules) withDefaults() NameRules {
	d := DefaultNameRules()
	if len(r.Bacteriological) == 0 {
		r.Bacteriological = d.Bacteriological
	}
	if len(r.Minimum) == 0 && len(r.MinimumTokens) == 0 {
		r.Minimum = d.Minimum
		r.MinimumTokens = d.MinimumTokens
	}
	if len(r.Chloride) == 0 {
		r.Chloride = d.Chloride
	}
	if len(r.Bromide) == 0 {
		r.Bromide = d.Bromide
	}
	return r
}

// IsBacteriological reports whether name refers to a coliform/E. coli style test.
func (r NameRules) IsBacteriological(name string) bool {
	return containsAny(name, r.Bacteriological)
}

// IsMinimumGuideline reports whether the parameter's guideline is a lower bound.
func (r NameRules) IsMinimumGuideline(name string) bool {
	if containsAny(name, r.Minimum) {
		return true
	}
	if len(r.MinimumTokens) == 0 {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(name), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
	for _, w := range words {
		for _, tok := range r.MinimumTokens {
			if w == strings.ToLower(tok) {
				return true
			}
		}
	}
	return false
}

// IsChloride matches chloride but not a name that also mentions bromide.
func (r NameRules) IsChloride(name string) bool {
	return containsAny(name, r.Chloride) && !r.IsBromide(name)
}

func (r NameRules) IsBromide(name string) bool {
	return containsAny(name, r.Bromide)
}

func containsAny(name string, aliases []string) bool {
	lower := strings.ToLower(name)
	for _, a := range aliases {
		if a != "" && strings.Contains(lower, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

package domain

// Relocation describes a package-namespace rewrite applied to an artifact
// after download: every class and resource whose name starts with Pattern is
// moved under Relocated. Includes and Excludes narrow the affected names;
// when both are empty the rule applies to everything under Pattern.
//
// Relocations are immutable values. Include and Exclude return modified
// copies, so rules can be assembled fluently:
//
//	r := domain.NewRelocation("com{}google{}gson", "shaded{}gson").
//		Exclude("com.google.gson.internal.**")
type Relocation struct {
	pattern   string
	relocated string
	includes  []string
	excludes  []string
}

// NewRelocation returns a rule rewriting pattern to relocated. "{}" is
// replaced with "." in both arguments so the values survive package shading.
func NewRelocation(pattern, relocated string) Relocation {
	return Relocation{
		pattern:   expandDots(pattern),
		relocated: expandDots(relocated),
	}
}

// Pattern returns the namespace prefix being rewritten.
func (r Relocation) Pattern() string { return r.pattern }

// Relocated returns the replacement namespace prefix.
func (r Relocation) Relocated() string { return r.relocated }

// Includes returns a copy of the include globs.
func (r Relocation) Includes() []string {
	return append([]string(nil), r.includes...)
}

// Excludes returns a copy of the exclude globs.
func (r Relocation) Excludes() []string {
	return append([]string(nil), r.excludes...)
}

// Include returns a copy of the rule with the glob added to its includes.
func (r Relocation) Include(glob string) Relocation {
	r.includes = append(r.Includes(), glob)
	return r
}

// Exclude returns a copy of the rule with the glob added to its excludes.
func (r Relocation) Exclude(glob string) Relocation {
	r.excludes = append(r.Excludes(), glob)
	return r
}

func (r Relocation) validate() error {
	if r.pattern == "" || r.relocated == "" {
		return ErrInvalidRelocation
	}
	return nil
}

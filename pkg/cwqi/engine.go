package cwqi

import "fmt"

// NSEDivisor selects what the normalized sum of excursions is divided by.
type NSEDivisor int

const (
	// NSEDivisorOne uses the raw excursion sum.
	NSEDivisorOne NSEDivisor = iota
	// NSEDivisorFailedTests averages the excursion sum over failed tests.
	NSEDivisorFailedTests
)

func (d NSEDivisor) String() string {
	switch d {
	case NSEDivisorFailedTests:
		return "failed_tests"
	default:
		return "one"
	}
}

// ParseNSEDivisor parses "one" or "failed_tests". The empty string selects the default.
func ParseNSEDivisor(s string) (NSEDivisor, error) {
	switch s {
	case "", "one":
		return NSEDivisorOne, nil
	case "failed_tests":
		return NSEDivisorFailedTests, nil
	}
	return NSEDivisorOne, fmt.Errorf("unknown nse divisor %q (want one or failed_tests)", s)
}

// BromideAbsentPolicy decides the road-salt verdict when chloride is high and bromide is zero.
type BromideAbsentPolicy int

const (
	// BromideAbsentCannotAssess reports no contamination because no ratio exists.
	BromideAbsentCannotAssess BromideAbsentPolicy = iota
	// BromideAbsentChlorideOnly flags contamination on elevated chloride alone.
	BromideAbsentChlorideOnly
)

func (p BromideAbsentPolicy) String() string {
	switch p {
	case BromideAbsentChlorideOnly:
		return "chloride_only"
	default:
		return "cannot_assess"
	}
}

// ParseBromideAbsentPolicy parses "cannot_assess" or "chloride_only".
func ParseBromideAbsentPolicy(s string) (BromideAbsentPolicy, error) {
	switch s {
	case "", "cannot_assess":
		return BromideAbsentCannotAssess, nil
	case "chloride_only":
		return BromideAbsentChlorideOnly, nil
	}
	return BromideAbsentCannotAssess, fmt.Errorf("unknown bromide absent policy %q (want cannot_assess or chloride_only)", s)
}

// DetectionMatch decides how a coliform row's display text is read for a detection.
type DetectionMatch int

const (
	// DetectionLiteral triggers whenever the display value contains "Detected",
	// including "Not Detected".
	DetectionLiteral DetectionMatch = iota
	// DetectionExcludeNegated ignores "Not Detected" and reads the raw result text
	// when the display value is blank.
	DetectionExcludeNegated
)

func (m DetectionMatch) String() string {
	switch m {
	case DetectionExcludeNegated:
		return "exclude_negated"
	default:
		return "literal"
	}
}

// ParseDetectionMatch parses "literal" or "exclude_negated".
func ParseDetectionMatch(s string) (DetectionMatch, error) {
	switch s {
	case "", "literal":
		return DetectionLiteral, nil
	case "exclude_negated":
		return DetectionExcludeNegated, nil
	}
	return DetectionLiteral, fmt.Errorf("unknown detection match %q (want literal or exclude_negated)", s)
}

// Settings configure an Engine.
type Settings struct {
	NSEDivisor     NSEDivisor
	BromideAbsent  BromideAbsentPolicy
	DetectionMatch DetectionMatch
	Names          NameRules
}

// DefaultSettings returns the canonical scoring policy.
func DefaultSettings() Settings {
	return Settings{
		NSEDivisor:     NSEDivisorOne,
		BromideAbsent:  BromideAbsentCannotAssess,
		DetectionMatch: DetectionLiteral,
		Names:          DefaultNameRules(),
	}
}

// Engine scores samples. It holds only immutable settings and is safe for concurrent use.
type Engine struct {
	settings Settings
}

// NewEngine returns an Engine for s. Empty name alias lists fall back to the defaults.
func NewEngine(s Settings) *Engine {
	s.Names = s.Names.withDefaults()
	return &Engine{settings: s}
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Analyze runs the full pipeline over one sample's rows.
func (e *Engine) Analyze(rows []RawParameterRow) SampleAnalysis {
	c := e.Classify(rows)

	a := SampleAnalysis{
		HealthParameters:  c.Health,
		AOParameters:      c.AO,
		GeneralParameters: c.General,
		Bacteriological:   c.Bacteriological,
		HealthConcerns:    Concerns(c.Health),
		AOConcerns:        Concerns(c.AO),
		HealthCWQI:        e.Aggregate(c.Health, CategoryHealth),
		AOCWQI:            e.Aggregate(c.AO, CategoryAO),
	}

	all := make([]CategorizedParameter, 0, len(c.Health)+len(c.AO)+len(c.General))
	all = append(all, c.Health...)
	all = append(all, c.AO...)
	all = append(all, c.General...)
	a.RoadSalt = e.RoadSalt(all)

	return a
}

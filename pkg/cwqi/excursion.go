package cwqi

import "math"

// Excursion returns how far a failed parameter lies past its objective, as a
// non-negative fraction of the objective. ok is false when the result or objective is
// not numeric or the objective is zero.
func (e *Engine) Excursion(p CategorizedParameter) (excursion float64, ok bool) {
	testValue, okTest := p.ResultNumeric.Float()
	objective, okObj := p.ObjectiveValue.Float()
	if !okTest || !okObj || objective == 0 {
		return 0, false
	}

	if e.settings.Names.IsMinimumGuideline(p.ParameterName) {
		excursion = objective/testValue - 1
	} else {
		excursion = testValue/objective - 1
	}

	// a zero reading against a minimum guideline has no finite excursion
	if math.IsNaN(excursion) || math.IsInf(excursion, 0) {
		return 0, false
	}
	return math.Max(0, excursion), true
}

package cwqi

import (
	"math"
	"strings"
)

// Road-salt assessment statuses.
const (
	RoadSaltLikely        = "Road Salt Contamination Likely"
	RoadSaltNotIndicated  = "No Road Salt Contamination"
	RoadSaltOtherChloride = "Elevated Chloride, Not Road Salt"
	RoadSaltCannotAssess  = "Cannot Assess"
)

const (
	// chlorideThreshold is the chloride level (mg/L) above which the ratio is examined.
	chlorideThreshold = 100
	// roadSaltRatio is the Cl:Br mass ratio above which road salt is the likely source.
	roadSaltRatio = 1000
)

// ColiformDetected reports whether any bacteriological parameter in params shows a
// positive result: a detection in its display value, an EXCEEDS_MAC status, or a
// numeric result above zero.
func (e *Engine) ColiformDetected(params []CategorizedParameter) bool {
	for _, p := range params {
		if e.coliformTriggered(p) {
			return true
		}
	}
	return false
}

func (e *Engine) coliformTriggered(p CategorizedParameter) bool {
	if !e.settings.Names.IsBacteriological(p.ParameterName) {
		return false
	}
	if e.reportsDetection(p.ResultDisplayValue, p.ResultValue) {
		return true
	}
	if p.CategoryStatus == StatusExceedsMAC {
		return true
	}
	if v, ok := p.ResultNumeric.Float(); ok && !math.IsInf(v, 0) && v > 0 {
		return true
	}
	return false
}

// reportsDetection looks for "Detected" in the lab's display text. Under
// DetectionExcludeNegated a blank display falls back to the raw result text and
// "Not Detected" is a negative result.
func (e *Engine) reportsDetection(display, value string) bool {
	if e.settings.DetectionMatch != DetectionExcludeNegated {
		return strings.Contains(display, "Detected")
	}
	text := display
	if text == "" {
		text = value
	}
	return strings.Contains(text, "Detected") && !strings.Contains(text, "Not Detected")
}

func (e *Engine) withoutBacteriological(params []CategorizedParameter) []CategorizedParameter {
	out := make([]CategorizedParameter, 0, len(params))
	for _, p := range params {
		if !e.settings.Names.IsBacteriological(p.ParameterName) {
			out = append(out, p)
		}
	}
	return out
}

// RoadSalt evaluates the chloride/bromide ratio over every categorized row. It returns
// nil when either analyte was not tested.
func (e *Engine) RoadSalt(params []CategorizedParameter) *RoadSaltAssessment {
	var chloride, bromide *CategorizedParameter
	for i := range params {
		name := params[i].ParameterName
		if chloride == nil && e.settings.Names.IsChloride(name) {
			chloride = &params[i]
		}
		if bromide == nil && e.settings.Names.IsBromide(name) {
			bromide = &params[i]
		}
	}
	if chloride == nil || bromide == nil {
		return nil
	}

	a := &RoadSaltAssessment{
		ChlorideLevel: levelOf(chloride),
		BromideLevel:  levelOf(bromide),
		Status:        RoadSaltNotIndicated,
	}

	if a.ChlorideLevel <= chlorideThreshold {
		return a
	}

	if a.BromideLevel > 0 {
		ratio := int64(math.Floor(a.ChlorideLevel/a.BromideLevel + 0.5))
		a.ClBrRatio = &ratio
		a.HasContamination = ratio > roadSaltRatio
		if a.HasContamination {
			a.Status = RoadSaltLikely
		} else {
			a.Status = RoadSaltOtherChloride
		}
		return a
	}

	switch e.settings.BromideAbsent {
	case BromideAbsentChlorideOnly:
		a.HasContamination = true
		a.Status = RoadSaltLikely
	default:
		a.Status = RoadSaltCannotAssess
	}
	return a
}

func levelOf(p *CategorizedParameter) float64 {
	v, ok := p.ResultNumeric.Float()
	if !ok {
		return 0
	}
	return v
}

package cwqi

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// cwqiScaling normalizes the vector length of (F1, F2, F3) to the 0-100 range.
const cwqiScaling = 1.732

// Aggregate computes the index for one category. It returns nil when params is empty.
// For the health category a detected coliform forces the score to zero and the score
// without bacteriological rows is reported as PotentialScore.
func (e *Engine) Aggregate(params []CategorizedParameter, category Category) *Result {
	if len(params) == 0 {
		return nil
	}

	res := e.score(params)

	if category == CategoryHealth && e.ColiformDetected(params) {
		res.ColiformDetected = true
		res.Score = 0
		res.Rating = RatingFor(0).Name

		if potential := e.score(e.withoutBacteriological(params)); potential != nil {
			s := potential.Score
			res.PotentialScore = &s
		}
	}

	return res
}

// score applies the CWQI formula with no overrides.
func (e *Engine) score(params []CategorizedParameter) *Result {
	if len(params) == 0 {
		return nil
	}

	names := make(map[string]struct{}, len(params))
	failedNames := make(map[string]struct{})
	failedTests := 0
	excursions := make([]float64, 0)

	for _, p := range params {
		names[p.ParameterName] = struct{}{}
		if !IsFailed(p) {
			continue
		}
		failedNames[p.ParameterName] = struct{}{}
		failedTests++
		if x, ok := e.Excursion(p); ok {
			excursions = append(excursions, x)
		}
	}

	f1 := float64(len(failedNames)) / float64(len(names)) * 100
	f2 := float64(failedTests) / float64(len(params)) * 100
	f3 := 0.0
	if len(excursions) > 0 {
		// summing in sorted order keeps the result independent of row order
		sort.Float64s(excursions)
		nse := floats.Sum(excursions) / e.nseDivisor(failedTests)
		f3 = nse / (0.01*nse + 1)
	}

	raw := 100 - math.Sqrt((f1*f1+f2*f2+f3*f3)/cwqiScaling)
	final := clamp(roundTo(raw, 1), 0, 100)

	return &Result{
		Score:            final,
		Rating:           RatingFor(final).Name,
		TotalTests:       len(params),
		FailedTests:      failedTests,
		TotalParameters:  len(names),
		FailedParameters: len(failedNames),
		Components: Components{
			F1: roundTo(f1, 1),
			F2: roundTo(f2, 1),
			F3: roundTo(f3, 3),
		},
	}
}

func (e *Engine) nseDivisor(failedTests int) float64 {
	if e.settings.NSEDivisor == NSEDivisorFailedTests && failedTests > 0 {
		return float64(failedTests)
	}
	return 1
}

// roundTo rounds half up at the given number of decimal places.
func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5) / p
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

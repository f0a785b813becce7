package cwqi

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestAggregateAllPassing(t *testing.T) {
	e := NewEngine(DefaultSettings())

	var rows []RawParameterRow
	for _, name := range []string{"Arsenic", "Barium", "Boron", "Cadmium", "Chromium", "Copper", "Fluoride", "Lead", "Nitrate", "Selenium"} {
		rows = append(rows, macRow(name, 0.001, 1, "MEETS_MAC"))
	}

	res := e.Aggregate(categorize(e, rows...), CategoryHealth)
	if res == nil {
		t.Fatal("expected a result")
	}

	expected := &Result{
		Score:           100,
		Rating:          "Excellent",
		TotalTests:      10,
		TotalParameters: 10,
	}
	if !reflect.DeepEqual(res, expected) {
		t.Errorf("Aggregate() = %+v, expected %+v", res, expected)
	}
}

func TestAggregateRegressionFixtures(t *testing.T) {
	tests := []struct {
		name       string
		divisor    NSEDivisor
		rows       []RawParameterRow
		score      float64
		rating     string
		components Components
		failed     [2]int // tests, parameters
	}{
		{
			name:    "one of four fails once",
			divisor: NSEDivisorOne,
			rows: []RawParameterRow{
				macRow("Nitrate", 10, 5, "EXCEEDS_MAC"),
				macRow("Lead", 0.001, 0.005, "MEETS_MAC"),
				macRow("Arsenic", 0.002, 0.01, "MEETS_MAC"),
				macRow("Fluoride", 0.5, 1.5, "MEETS_MAC"),
			},
			score:      73.1,
			rating:     "Fair",
			components: Components{F1: 25, F2: 25, F3: 0.99},
			failed:     [2]int{1, 1},
		},
		{
			name:    "two of four fail, raw excursion sum",
			divisor: NSEDivisorOne,
			rows: []RawParameterRow{
				macRow("Nitrate", 10, 5, "EXCEEDS_MAC"),
				macRow("Arsenic", 0.04, 0.01, "EXCEEDS_MAC"),
				macRow("Lead", 0.001, 0.005, "MEETS_MAC"),
				macRow("Fluoride", 0.5, 1.5, "MEETS_MAC"),
			},
			score:      46.2,
			rating:     "Marginal",
			components: Components{F1: 50, F2: 50, F3: 3.846},
			failed:     [2]int{2, 2},
		},
		{
			name:    "two of four fail, excursion sum averaged over failed tests",
			divisor: NSEDivisorFailedTests,
			rows: []RawParameterRow{
				macRow("Nitrate", 10, 5, "EXCEEDS_MAC"),
				macRow("Arsenic", 0.04, 0.01, "EXCEEDS_MAC"),
				macRow("Lead", 0.001, 0.005, "MEETS_MAC"),
				macRow("Fluoride", 0.5, 1.5, "MEETS_MAC"),
			},
			score:      46.3,
			rating:     "Marginal",
			components: Components{F1: 50, F2: 50, F3: 1.961},
			failed:     [2]int{2, 2},
		},
		{
			name:    "failure without computable excursion still counts",
			divisor: NSEDivisorOne,
			rows: []RawParameterRow{
				macRow("Nitrate", 10, 0, "EXCEEDS_MAC"),
				macRow("Lead", 0.001, 0.005, "MEETS_MAC"),
			},
			score:      46.3,
			rating:     "Marginal",
			components: Components{F1: 50, F2: 50, F3: 0},
			failed:     [2]int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.NSEDivisor = tt.divisor
			e := NewEngine(s)

			res := e.Aggregate(categorize(e, tt.rows...), CategoryHealth)
			if res == nil {
				t.Fatal("expected a result")
			}
			if res.Score != tt.score {
				t.Errorf("Score = %v, expected %v", res.Score, tt.score)
			}
			if res.Rating != tt.rating {
				t.Errorf("Rating = %q, expected %q", res.Rating, tt.rating)
			}
			if res.Components != tt.components {
				t.Errorf("Components = %+v, expected %+v", res.Components, tt.components)
			}
			if res.FailedTests != tt.failed[0] || res.FailedParameters != tt.failed[1] {
				t.Errorf("failed = %d tests / %d parameters, expected %v", res.FailedTests, res.FailedParameters, tt.failed)
			}
		})
	}
}

func TestAggregateRepeatedParameter(t *testing.T) {
	e := NewEngine(DefaultSettings())
	params := categorize(e,
		macRow("Nitrate", 12, 10, "EXCEEDS_MAC"),
		macRow("Nitrate", 8, 10, "MEETS_MAC"),
		macRow("Nitrate", 9, 10, "MEETS_MAC"),
		macRow("Lead", 0.001, 0.005, "MEETS_MAC"),
	)

	res := e.Aggregate(params, CategoryHealth)
	if res.TotalTests != 4 || res.TotalParameters != 2 {
		t.Errorf("totals = %d tests / %d parameters, expected 4 / 2", res.TotalTests, res.TotalParameters)
	}
	if res.Components.F1 != 50 || res.Components.F2 != 25 {
		t.Errorf("F1/F2 = %v/%v, expected 50/25", res.Components.F1, res.Components.F2)
	}
}

func TestAggregateEmpty(t *testing.T) {
	e := NewEngine(DefaultSettings())
	if res := e.Aggregate(nil, CategoryHealth); res != nil {
		t.Errorf("Aggregate(nil) = %+v, expected nil", res)
	}
	if res := e.Aggregate([]CategorizedParameter{}, CategoryAO); res != nil {
		t.Errorf("Aggregate([]) = %+v, expected nil", res)
	}
}

func TestAggregateAORangeWarning(t *testing.T) {
	e := NewEngine(DefaultSettings())
	rows := []RawParameterRow{
		{ParameterName: "pH", ParameterType: TypeAO, ResultNumeric: Number(9.1), AODisplay: "7.0-10.5", AOComplianceStatus: StatusAORangeValue, ComplianceStatus: StatusWarning},
		aoRow("Iron", 0.1, 0.3, "MEETS_AO", "MEETS"),
	}

	res := e.Aggregate(e.Classify(rows).AO, CategoryAO)
	if res.FailedTests != 1 || res.Components.F3 != 0 {
		t.Errorf("range warning should fail without an excursion, got %+v", res)
	}
	if res.ColiformDetected || res.PotentialScore != nil {
		t.Errorf("ao results never carry the coliform override, got %+v", res)
	}
}

func TestAggregateInvariants(t *testing.T) {
	statuses := []string{"MEETS_MAC", "EXCEEDS_MAC", "", "SOMETHING_ELSE"}
	names := []string{"Arsenic", "Lead", "Nitrate", "Nitrite", "Uranium", "Dissolved Oxygen"}
	rng := rand.New(rand.NewSource(42))

	for _, divisor := range []NSEDivisor{NSEDivisorOne, NSEDivisorFailedTests} {
		s := DefaultSettings()
		s.NSEDivisor = divisor
		e := NewEngine(s)

		for i := 0; i < 200; i++ {
			n := 1 + rng.Intn(12)
			rows := make([]RawParameterRow, n)
			for j := range rows {
				rows[j] = macRow(
					names[rng.Intn(len(names))],
					rng.Float64()*1000,
					rng.Float64()*5,
					statuses[rng.Intn(len(statuses))],
				)
			}
			params := categorize(e, rows...)

			res := e.Aggregate(params, CategoryHealth)
			if res.Score < 0 || res.Score > 100 {
				t.Fatalf("score %v out of range", res.Score)
			}
			if res.FailedTests > res.TotalTests || res.FailedParameters > res.TotalParameters {
				t.Fatalf("failed counts exceed totals: %+v", res)
			}

			again := e.Aggregate(params, CategoryHealth)
			if !reflect.DeepEqual(res, again) {
				t.Fatalf("aggregate is not idempotent: %+v vs %+v", res, again)
			}

			shuffled := append([]CategorizedParameter(nil), params...)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
			other := e.Aggregate(shuffled, CategoryHealth)
			if other.Score != res.Score || other.Components != res.Components {
				t.Fatalf("row order changed the result: %+v vs %+v", res, other)
			}
		}
	}
}

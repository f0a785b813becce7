package database

import (
	"testing"
	"time"

	"github.com/chrissnell/remotewater/pkg/cwqi"
)

func str(s string) *string { return &s }

func TestParameterResultToRow(t *testing.T) {
	numeric := 12.5
	r := ParameterResult{
		SampleNumber:        "W-1001",
		ParameterName:       "Nitrate",
		ParameterType:       "MAC",
		ResultNumeric:       &numeric,
		ResultDisplayValue:  str("12.5"),
		ResultUnits:         str("mg/L"),
		MACValue:            str("10"),
		MACComplianceStatus: str("EXCEEDS_MAC"),
		AOComplianceStatus:  str("something new"),
	}

	row := r.ToRow()

	if row.ParameterType != cwqi.TypeMAC || row.SampleNumber != "W-1001" {
		t.Errorf("identity fields = %q %q", row.ParameterType, row.SampleNumber)
	}
	if f, ok := row.ResultNumeric.Float(); !ok || f != 12.5 {
		t.Errorf("ResultNumeric = %v, %v", f, ok)
	}
	if f, ok := row.MACValue.Float(); !ok || f != 10 {
		t.Errorf("MACValue = %v, %v", f, ok)
	}
	if !row.AOValue.IsNull() {
		t.Error("NULL ao_value should map to a null Value")
	}
	if row.ResultValue != "" || row.AODisplay != "" {
		t.Errorf("NULL text columns should be empty, got %q %q", row.ResultValue, row.AODisplay)
	}
	if row.MACComplianceStatus != cwqi.StatusExceedsMAC {
		t.Errorf("MACComplianceStatus = %v", row.MACComplianceStatus)
	}
	if row.AOComplianceStatus != cwqi.StatusUnknown {
		t.Errorf("unrecognised status = %v, want UNKNOWN", row.AOComplianceStatus)
	}
	if row.ComplianceStatus != cwqi.StatusNone {
		t.Errorf("NULL status = %v, want none", row.ComplianceStatus)
	}
}

func TestNewReportScore(t *testing.T) {
	potential := 46.3
	ratio := int64(1500)
	a := cwqi.SampleAnalysis{
		HealthConcerns: []cwqi.CategorizedParameter{{}, {}},
		HealthCWQI: &cwqi.Result{
			Score:            0,
			Rating:           "Poor",
			ColiformDetected: true,
			PotentialScore:   &potential,
		},
		RoadSalt: &cwqi.RoadSaltAssessment{
			ClBrRatio:        &ratio,
			HasContamination: true,
			Status:           "Road Salt Contamination Likely",
		},
	}
	settings := cwqi.DefaultSettings()
	settings.NSEDivisor = cwqi.NSEDivisorFailedTests
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600))

	s := NewReportScore("W-2002", a, settings, at)

	if s.SampleNumber != "W-2002" || s.HealthConcerns != 2 || s.AOConcerns != 0 {
		t.Errorf("counts = %+v", s)
	}
	if s.HealthScore == nil || *s.HealthScore != 0 || *s.HealthRating != "Poor" || !s.ColiformDetected {
		t.Errorf("health = %v %v %v", s.HealthScore, s.HealthRating, s.ColiformDetected)
	}
	if s.PotentialScore == nil || *s.PotentialScore != 46.3 {
		t.Errorf("potential = %v", s.PotentialScore)
	}
	if s.AOScore != nil || s.AORating != nil {
		t.Error("missing ao result should leave ao columns NULL")
	}
	if !s.RoadSaltContamination || s.ClBrRatio == nil || *s.ClBrRatio != 1500 {
		t.Errorf("road salt = %v %v", s.RoadSaltContamination, s.ClBrRatio)
	}
	if s.NSEDivisor != "failed_tests" || s.BromideAbsentPolicy != "cannot_assess" || s.DetectionMatch != "literal" {
		t.Errorf("policies = %q %q %q", s.NSEDivisor, s.BromideAbsentPolicy, s.DetectionMatch)
	}
	if !s.ComputedAt.Equal(at) || s.ComputedAt.Location() != time.UTC {
		t.Errorf("ComputedAt = %v", s.ComputedAt)
	}

	// The stored pointer must not alias the analysis.
	potential = 99
	if *s.PotentialScore != 46.3 {
		t.Error("PotentialScore aliases the analysis result")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 || len(entries)%2 != 0 {
		t.Errorf("expected paired up/down migrations, got %d files", len(entries))
	}
}

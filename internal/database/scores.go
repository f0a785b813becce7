package database

import (
	"time"

	"github.com/chrissnell/remotewater/pkg/cwqi"
)

// NewReportScore flattens an analysis into the record stored against the report.
// The policies that produced the scores are recorded with them.
func NewReportScore(sampleNumber string, a cwqi.SampleAnalysis, s cwqi.Settings, at time.Time) *ReportScore {
	score := &ReportScore{
		SampleNumber:        sampleNumber,
		HealthConcerns:      len(a.HealthConcerns),
		AOConcerns:          len(a.AOConcerns),
		NSEDivisor:          s.NSEDivisor.String(),
		BromideAbsentPolicy: s.BromideAbsent.String(),
		DetectionMatch:      s.DetectionMatch.String(),
		ComputedAt:          at.UTC(),
	}

	if h := a.HealthCWQI; h != nil {
		score.HealthScore = ptr(h.Score)
		score.HealthRating = ptr(h.Rating)
		score.ColiformDetected = h.ColiformDetected
		if h.PotentialScore != nil {
			score.PotentialScore = ptr(*h.PotentialScore)
		}
	}
	if ao := a.AOCWQI; ao != nil {
		score.AOScore = ptr(ao.Score)
		score.AORating = ptr(ao.Rating)
	}
	if rs := a.RoadSalt; rs != nil {
		score.RoadSaltStatus = ptr(rs.Status)
		score.RoadSaltContamination = rs.HasContamination
		if rs.ClBrRatio != nil {
			score.ClBrRatio = ptr(*rs.ClBrRatio)
		}
	}
	return score
}

func ptr[T any](v T) *T {
	return &v
}

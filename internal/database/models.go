package database

import (
	"time"

	"github.com/chrissnell/remotewater/pkg/cwqi"
	"github.com/google/uuid"
)

// ParameterResult is one analyte result for a sample as published by the lab
// results view. The view is owned upstream; this service only reads it.
type ParameterResult struct {
	ID                  int64     `gorm:"primaryKey;column:id"`
	SampleNumber        string    `gorm:"column:sample_number"`
	ParameterName       string    `gorm:"column:parameter_name"`
	ParameterType       string    `gorm:"column:parameter_type"`
	ResultNumeric       *float64  `gorm:"column:result_numeric"`
	ResultValue         *string   `gorm:"column:result_value"`
	ResultDisplayValue  *string   `gorm:"column:result_display_value"`
	ResultUnits         *string   `gorm:"column:result_units"`
	MACValue            *string   `gorm:"column:mac_value"`
	MACDisplay          *string   `gorm:"column:mac_display"`
	MACComplianceStatus *string   `gorm:"column:mac_compliance_status"`
	AOValue             *string   `gorm:"column:ao_value"`
	AODisplay           *string   `gorm:"column:ao_display"`
	AOComplianceStatus  *string   `gorm:"column:ao_compliance_status"`
	ComplianceStatus    *string   `gorm:"column:compliance_status"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

// TableName specifies the view name for ParameterResult
func (ParameterResult) TableName() string {
	return "sample_parameter_results"
}

// ToRow converts the stored result into the engine's input row. NULL columns become
// null Values and empty strings.
func (p ParameterResult) ToRow() cwqi.RawParameterRow {
	row := cwqi.RawParameterRow{
		ParameterName:       p.ParameterName,
		ParameterType:       cwqi.ParameterType(p.ParameterType),
		ResultValue:         deref(p.ResultValue),
		ResultDisplayValue:  deref(p.ResultDisplayValue),
		ResultUnits:         deref(p.ResultUnits),
		MACValue:            value(p.MACValue),
		MACDisplay:          deref(p.MACDisplay),
		MACComplianceStatus: status(p.MACComplianceStatus),
		AOValue:             value(p.AOValue),
		AODisplay:           deref(p.AODisplay),
		AOComplianceStatus:  status(p.AOComplianceStatus),
		ComplianceStatus:    status(p.ComplianceStatus),
		SampleNumber:        p.SampleNumber,
	}
	if p.ResultNumeric != nil {
		row.ResultNumeric = cwqi.Number(*p.ResultNumeric)
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func value(s *string) cwqi.Value {
	if s == nil {
		return cwqi.Value{}
	}
	return cwqi.NewValue(*s)
}

func status(s *string) cwqi.ComplianceStatus {
	if s == nil {
		return cwqi.StatusNone
	}
	return cwqi.ParseComplianceStatus(*s)
}

// ReportScore is the persisted scoring outcome attached to a sample's report.
type ReportScore struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;column:id" json:"id"`
	SampleNumber          string    `gorm:"column:sample_number;uniqueIndex" json:"sampleNumber"`
	HealthScore           *float64  `gorm:"column:health_score" json:"healthScore"`
	HealthRating          *string   `gorm:"column:health_rating" json:"healthRating"`
	AOScore               *float64  `gorm:"column:ao_score" json:"aoScore"`
	AORating              *string   `gorm:"column:ao_rating" json:"aoRating"`
	ColiformDetected      bool      `gorm:"column:coliform_detected" json:"coliformDetected"`
	PotentialScore        *float64  `gorm:"column:potential_score" json:"potentialScore"`
	HealthConcerns        int       `gorm:"column:health_concerns" json:"healthConcerns"`
	AOConcerns            int       `gorm:"column:ao_concerns" json:"aoConcerns"`
	RoadSaltStatus        *string   `gorm:"column:road_salt_status" json:"roadSaltStatus"`
	RoadSaltContamination bool      `gorm:"column:road_salt_contamination" json:"roadSaltContamination"`
	ClBrRatio             *int64    `gorm:"column:cl_br_ratio" json:"clBrRatio"`
	NSEDivisor            string    `gorm:"column:nse_divisor" json:"nseDivisor"`
	BromideAbsentPolicy   string    `gorm:"column:bromide_absent_policy" json:"bromideAbsentPolicy"`
	DetectionMatch        string    `gorm:"column:detection_match" json:"detectionMatch"`
	ComputedAt            time.Time `gorm:"column:computed_at" json:"computedAt"`
}

// TableName specifies the table name for ReportScore
func (ReportScore) TableName() string {
	return "report_scores"
}

// RegenerationRun records the outcome of one batch regeneration.
type RegenerationRun struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	StartedAt  time.Time `gorm:"column:started_at"`
	FinishedAt time.Time `gorm:"column:finished_at"`
	Total      int       `gorm:"column:total"`
	Succeeded  int       `gorm:"column:succeeded"`
	Failed     int       `gorm:"column:failed"`
}

// TableName specifies the table name for RegenerationRun
func (RegenerationRun) TableName() string {
	return "regeneration_runs"
}

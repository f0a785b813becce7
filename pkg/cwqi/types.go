// Package cwqi computes the Canadian Water Quality Index and the compliance
// classifications behind it for a single laboratory sample.
//
// Nothing in this package performs I/O. Every entry point is a pure function of its
// input rows, so callers may score many samples concurrently.
package cwqi

// ParameterType is the guideline family a lab parameter is reported under.
type ParameterType string

const (
	TypeMAC     ParameterType = "MAC"
	TypeAO      ParameterType = "AO"
	TypeGeneral ParameterType = "GENERAL"
	TypeHybrid  ParameterType = "Hybrid"
)

// Category is the scoring bucket a parameter is placed in.
type Category string

const (
	CategoryHealth  Category = "health"
	CategoryAO      Category = "ao"
	CategoryGeneral Category = "general"
)

// RawParameterRow is one tested analyte for one sample, as annotated by the upstream store.
type RawParameterRow struct {
	ParameterName       string           `json:"parameter_name" yaml:"parameter_name"`
	ParameterType       ParameterType    `json:"parameter_type" yaml:"parameter_type"`
	ResultNumeric       Value            `json:"result_numeric" yaml:"result_numeric"`
	ResultValue         string           `json:"result_value,omitempty" yaml:"result_value"`
	ResultDisplayValue  string           `json:"result_display_value,omitempty" yaml:"result_display_value"`
	ResultUnits         string           `json:"result_units,omitempty" yaml:"result_units"`
	MACValue            Value            `json:"mac_value" yaml:"mac_value"`
	MACDisplay          string           `json:"mac_display,omitempty" yaml:"mac_display"`
	MACComplianceStatus ComplianceStatus `json:"mac_compliance_status" yaml:"mac_compliance_status"`
	AOValue             Value            `json:"ao_value" yaml:"ao_value"`
	AODisplay           string           `json:"ao_display,omitempty" yaml:"ao_display"`
	AOComplianceStatus  ComplianceStatus `json:"ao_compliance_status" yaml:"ao_compliance_status"`
	ComplianceStatus    ComplianceStatus `json:"compliance_status" yaml:"compliance_status"`
	SampleNumber        string           `json:"sample_number,omitempty" yaml:"sample_number"`
}

// CategorizedParameter is a row placed in a category with that category's objective
// attached. CategoryStatus shadows the row-level compliance_status when serialized.
type CategorizedParameter struct {
	RawParameterRow
	ObjectiveValue   Value            `json:"objective_value"`
	ObjectiveDisplay string           `json:"objective_display,omitempty"`
	CategoryStatus   ComplianceStatus `json:"compliance_status"`
	OverallStatus    ComplianceStatus `json:"overall_compliance_status,omitempty"`
	Category         Category         `json:"parameter_category"`
}

// Components are the three CWQI factors: scope, frequency and amplitude.
type Components struct {
	F1 float64 `json:"F1"`
	F2 float64 `json:"F2"`
	F3 float64 `json:"F3"`
}

// Result is the index for one category of one sample.
type Result struct {
	Score            float64    `json:"score"`
	Rating           string     `json:"rating"`
	TotalTests       int        `json:"totalTests"`
	FailedTests      int        `json:"failedTests"`
	TotalParameters  int        `json:"totalParameters"`
	FailedParameters int        `json:"failedParameters"`
	ColiformDetected bool       `json:"coliformDetected"`
	PotentialScore   *float64   `json:"potentialScore"`
	Components       Components `json:"components"`
}

// RoadSaltAssessment is the chloride/bromide mass ratio test.
type RoadSaltAssessment struct {
	ChlorideLevel    float64 `json:"chlorideLevel"`
	BromideLevel     float64 `json:"bromideLevel"`
	ClBrRatio        *int64  `json:"clBrRatio"`
	HasContamination bool    `json:"hasContamination"`
	Status           string  `json:"status"`
}

// SampleAnalysis is everything the dashboards and report renderer need for one sample.
type SampleAnalysis struct {
	HealthParameters  []CategorizedParameter `json:"healthParameters"`
	AOParameters      []CategorizedParameter `json:"aoParameters"`
	GeneralParameters []CategorizedParameter `json:"generalParameters"`
	Bacteriological   []RawParameterRow      `json:"bacteriological"`
	HealthConcerns    []CategorizedParameter `json:"healthConcerns"`
	AOConcerns        []CategorizedParameter `json:"aoConcerns"`
	HealthCWQI        *Result                `json:"healthCWQI"`
	AOCWQI            *Result                `json:"aoCWQI"`
	RoadSalt          *RoadSaltAssessment    `json:"roadSalt"`
}

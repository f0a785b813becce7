package cwqi

// ComplianceStatus is the verdict the upstream store has already assigned to a row.
// Strings that are not recognised parse to StatusUnknown, which never counts as a failure.
type ComplianceStatus int

const (
	StatusNone ComplianceStatus = iota
	StatusUnknown
	StatusMeetsMAC
	StatusExceedsMAC
	StatusMeetsAO
	StatusExceedsAO
	StatusAORangeValue
	StatusWarning
	StatusMeets
	StatusExceeds
)

var statusNames = map[ComplianceStatus]string{
	StatusNone:         "",
	StatusUnknown:      "UNKNOWN",
	StatusMeetsMAC:     "MEETS_MAC",
	StatusExceedsMAC:   "EXCEEDS_MAC",
	StatusMeetsAO:      "MEETS_AO",
	StatusExceedsAO:    "EXCEEDS_AO",
	StatusAORangeValue: "AO_RANGE_VALUE",
	StatusWarning:      "WARNING",
	StatusMeets:        "MEETS",
	StatusExceeds:      "EXCEEDS",
}

var statusByName = func() map[string]ComplianceStatus {
	m := make(map[string]ComplianceStatus, len(statusNames))
	for s, name := range statusNames {
		m[name] = s
	}
	return m
}()

// ParseComplianceStatus maps an upstream status string onto a ComplianceStatus.
// Matching is exact, the same way the upstream view writes them.
func ParseComplianceStatus(s string) ComplianceStatus {
	if st, ok := statusByName[s]; ok {
		return st
	}
	return StatusUnknown
}

func (s ComplianceStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

// MarshalText implements encoding.TextMarshaler.
func (s ComplianceStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ComplianceStatus) UnmarshalText(text []byte) error {
	*s = ParseComplianceStatus(string(text))
	return nil
}

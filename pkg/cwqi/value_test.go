package cwqi

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOK bool
	}{
		{"null", Value{}, 0, false},
		{"number", Number(10), 10, true},
		{"plain text number", NewValue("0.25"), 0.25, true},
		{"units suffix", NewValue("10 mg/L"), 10, true},
		{"leading whitespace", NewValue("  7.5"), 7.5, true},
		{"exponent", NewValue("1.5e2"), 150, true},
		{"less than detection limit", NewValue("<0.5"), 0, false},
		{"not detected", NewValue("Not Detected"), 0, false},
		{"empty", NewValue(""), 0, false},
		{"negative", NewValue("-3"), -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Float() = (%v, %v), expected (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValuePresent(t *testing.T) {
	if (Value{}).Present() {
		t.Error("null value reported present")
	}
	if NewValue("").Present() {
		t.Error("empty string reported present")
	}
	if !Number(0).Present() {
		t.Error("zero reported absent")
	}
}

func TestRowDecodesFromJSON(t *testing.T) {
	data := []byte(`{
		"parameter_name": "Nitrate",
		"parameter_type": "MAC",
		"result_numeric": 12.4,
		"mac_value": "10",
		"mac_compliance_status": "EXCEEDS_MAC",
		"ao_value": null,
		"compliance_status": "SOMETHING_NEW"
	}`)

	var row RawParameterRow
	if err := json.Unmarshal(data, &row); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if v, _ := row.ResultNumeric.Float(); v != 12.4 {
		t.Errorf("result_numeric = %v, expected 12.4", v)
	}
	if !row.MACValue.Present() {
		t.Error("mac_value should be present")
	}
	if !row.AOValue.IsNull() {
		t.Error("ao_value should be null")
	}
	if row.MACComplianceStatus != StatusExceedsMAC {
		t.Errorf("mac status = %v, expected EXCEEDS_MAC", row.MACComplianceStatus)
	}
	if row.ComplianceStatus != StatusUnknown {
		t.Errorf("unrecognised status = %v, expected UNKNOWN", row.ComplianceStatus)
	}

	out, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if back["result_numeric"] != 12.4 {
		t.Errorf("result_numeric re-encoded as %v", back["result_numeric"])
	}
	if back["mac_value"] != "10" {
		t.Errorf("mac_value re-encoded as %v", back["mac_value"])
	}
	if back["ao_value"] != nil {
		t.Errorf("ao_value re-encoded as %v", back["ao_value"])
	}
}

func TestRowDecodesFromYAML(t *testing.T) {
	data := []byte(`
- parameter_name: Total Coliforms
  parameter_type: MAC
  result_numeric: 3
  result_display_value: Detected
  mac_value: 0
  mac_compliance_status: EXCEEDS_MAC
  ao_value: ~
`)

	var rows []RawParameterRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if v, ok := r.ResultNumeric.Float(); !ok || v != 3 {
		t.Errorf("result_numeric = %v/%v, expected 3", v, ok)
	}
	if !r.MACValue.Present() {
		t.Error("mac_value 0 should be present")
	}
	if !r.AOValue.IsNull() {
		t.Error("ao_value should be null")
	}
	if r.MACComplianceStatus != StatusExceedsMAC {
		t.Errorf("mac status = %v", r.MACComplianceStatus)
	}
}

package cwqi

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestValueMsgpack(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		wire  any
	}{
		{"null", Value{}, nil},
		{"number", Number(0.25), 0.25},
		{"negative", Number(-3), float64(-3)},
		{"below detection limit", NewValue("<0.5"), "<0.5"},
		{"text", NewValue("Not Detected"), "Not Detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := msgpack.Marshal(tt.value)
			if err != nil {
				t.Fatal(err)
			}

			var wire any
			if err := msgpack.Unmarshal(b, &wire); err != nil {
				t.Fatal(err)
			}
			if wire != tt.wire {
				t.Errorf("wire = %#v, expected %#v", wire, tt.wire)
			}

			var got Value
			if err := msgpack.Unmarshal(b, &got); err != nil {
				t.Fatal(err)
			}
			if got != tt.value {
				t.Errorf("decoded %#v, expected %#v", got, tt.value)
			}
		})
	}
}

func TestValueMsgpackIntegers(t *testing.T) {
	b, err := msgpack.Marshal(7)
	if err != nil {
		t.Fatal(err)
	}
	var v Value
	if err := msgpack.Unmarshal(b, &v); err != nil {
		t.Fatal(err)
	}
	if f, ok := v.Float(); !ok || f != 7 {
		t.Errorf("Float() = (%v, %v)", f, ok)
	}

	b, _ = msgpack.Marshal(true)
	if err := msgpack.Unmarshal(b, &v); err == nil {
		t.Error("expected error decoding a bool")
	}
}

func TestComplianceStatusMsgpack(t *testing.T) {
	for _, s := range []ComplianceStatus{StatusNone, StatusExceedsAO, StatusWarning, StatusAORangeValue} {
		t.Run(s.String(), func(t *testing.T) {
			b, err := msgpack.Marshal(s)
			if err != nil {
				t.Fatal(err)
			}
			var wire any
			if err := msgpack.Unmarshal(b, &wire); err != nil {
				t.Fatal(err)
			}
			if wire != s.String() {
				t.Errorf("wire = %#v, expected string %q", wire, s.String())
			}
			var got ComplianceStatus
			if err := msgpack.Unmarshal(b, &got); err != nil || got != s {
				t.Errorf("decoded %v (%v), expected %v", got, err, s)
			}
		})
	}
}

func TestCategorizedParameterMsgpack(t *testing.T) {
	e := NewEngine(DefaultSettings())
	row := aoRow("Iron", 0.9, 0.3, "EXCEEDS_AO", "WARNING")
	row.ResultUnits = "mg/L"
	params := e.Classify([]RawParameterRow{row}).AO
	if len(params) != 1 {
		t.Fatalf("classified %d AO params", len(params))
	}

	b, err := msgpack.Marshal(params[0])
	if err != nil {
		t.Fatal(err)
	}

	n, err := msgpack.NewDecoder(bytes.NewReader(b)).DecodeMapLen()
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := msgpack.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if n != len(got) {
		t.Errorf("encoded %d keys, decoded %d distinct", n, len(got))
	}

	tests := []struct {
		key  string
		want any
	}{
		{"parameter_name", "Iron"},
		{"parameter_type", "AO"},
		{"result_numeric", 0.9},
		{"result_units", "mg/L"},
		{"mac_value", nil},
		{"mac_compliance_status", ""},
		{"ao_value", 0.3},
		{"ao_compliance_status", "EXCEEDS_AO"},
		{"objective_value", 0.3},
		{"compliance_status", "EXCEEDS_AO"},
		{"overall_compliance_status", "WARNING"},
		{"parameter_category", "ao"},
		{"sample_number", "WO-1001"},
	}
	for _, tt := range tests {
		v, ok := got[tt.key]
		if !ok {
			t.Errorf("missing %s", tt.key)
			continue
		}
		if v != tt.want {
			t.Errorf("%s = %#v, expected %#v", tt.key, v, tt.want)
		}
	}

	for _, key := range []string{"result_value", "result_display_value", "mac_display", "ao_display", "objective_display"} {
		if _, ok := got[key]; ok {
			t.Errorf("%s should be omitted when empty", key)
		}
	}
}

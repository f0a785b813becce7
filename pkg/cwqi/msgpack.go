package cwqi

import (
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
	_ msgpack.CustomEncoder = ComplianceStatus(0)
	_ msgpack.CustomDecoder = (*ComplianceStatus)(nil)
	_ msgpack.CustomEncoder = CategorizedParameter{}
)

// EncodeMsgpack writes null as nil and numeric values as floats, matching MarshalJSON.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if !v.valid {
		return enc.EncodeNil()
	}
	if v.numeric {
		if f, err := strconv.ParseFloat(v.raw, 64); err == nil {
			return enc.EncodeFloat64(f)
		}
	}
	return enc.EncodeString(v.raw)
}

// DecodeMsgpack accepts nil, numbers and strings.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		return v.UnmarshalText([]byte(x))
	case float64:
		*v = Number(x)
	case float32:
		*v = Number(float64(x))
	case int8, int16, int32, int64:
		*v = Value{raw: fmt.Sprint(x), valid: true, numeric: true}
	case uint8, uint16, uint32, uint64:
		*v = Value{raw: fmt.Sprint(x), valid: true, numeric: true}
	default:
		return fmt.Errorf("cwqi: cannot decode %T into Value", raw)
	}
	return nil
}

// EncodeMsgpack writes the status name as a string.
func (s ComplianceStatus) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(s.String())
}

// DecodeMsgpack parses a status name.
func (s *ComplianceStatus) DecodeMsgpack(dec *msgpack.Decoder) error {
	name, err := dec.DecodeString()
	if err != nil {
		return err
	}
	*s = ParseComplianceStatus(name)
	return nil
}

type msgpackField struct {
	key       string
	value     any
	omitEmpty bool
}

// EncodeMsgpack writes the same keys as the JSON encoding. compliance_status carries
// the category status; the row-level status is not repeated.
func (p CategorizedParameter) EncodeMsgpack(enc *msgpack.Encoder) error {
	fields := []msgpackField{
		{"parameter_name", p.ParameterName, false},
		{"parameter_type", string(p.ParameterType), false},
		{"result_numeric", p.ResultNumeric, false},
		{"result_value", p.ResultValue, true},
		{"result_display_value", p.ResultDisplayValue, true},
		{"result_units", p.ResultUnits, true},
		{"mac_value", p.MACValue, false},
		{"mac_display", p.MACDisplay, true},
		{"mac_compliance_status", p.MACComplianceStatus, false},
		{"ao_value", p.AOValue, false},
		{"ao_display", p.AODisplay, true},
		{"ao_compliance_status", p.AOComplianceStatus, false},
		{"sample_number", p.SampleNumber, true},
		{"objective_value", p.ObjectiveValue, false},
		{"objective_display", p.ObjectiveDisplay, true},
		{"compliance_status", p.CategoryStatus, false},
		{"overall_compliance_status", p.OverallStatus, true},
		{"parameter_category", string(p.Category), false},
	}

	n := 0
	for _, f := range fields {
		if !f.skip() {
			n++
		}
	}
	if err := enc.EncodeMapLen(n); err != nil {
		return err
	}
	for _, f := range fields {
		if f.skip() {
			continue
		}
		if err := enc.EncodeString(f.key); err != nil {
			return err
		}
		if err := enc.Encode(f.value); err != nil {
			return err
		}
	}
	return nil
}

func (f msgpackField) skip() bool {
	if !f.omitEmpty {
		return false
	}
	switch v := f.value.(type) {
	case string:
		return v == ""
	case ComplianceStatus:
		return v == StatusNone
	}
	return false
}

package cwqi

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// leadingNumber matches the numeric prefix a lab value starts with, e.g. "10" in "10 mg/L".
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// Value is a lab-formatted value that may arrive as a JSON number, a string, or null.
// The zero Value is null.
type Value struct {
	raw     string
	valid   bool
	numeric bool
}

// NewValue returns a Value holding the given text.
func NewValue(s string) Value {
	return Value{raw: s, valid: true}
}

// Number returns a Value holding f.
func Number(f float64) Value {
	return Value{raw: strconv.FormatFloat(f, 'f', -1, 64), valid: true, numeric: true}
}

// IsNull reports whether the value was null or absent.
func (v Value) IsNull() bool {
	return !v.valid
}

// Present reports whether the value is neither null nor the empty string.
func (v Value) Present() bool {
	return v.valid && v.raw != ""
}

func (v Value) String() string {
	return v.raw
}

// Float parses the leading number of the value. Text such as "<0.5" or "Not Detected"
// is not numeric.
func (v Value) Float() (float64, bool) {
	if !v.valid {
		return 0, false
	}
	m := leadingNumber.FindString(strings.TrimSpace(v.raw))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// UnmarshalJSON accepts numbers, strings and null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = NewValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Value{raw: n.String(), valid: true, numeric: true}
	return nil
}

// MarshalJSON writes numbers back as numbers and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	if v.numeric && json.Valid([]byte(v.raw)) {
		return []byte(v.raw), nil
	}
	return json.Marshal(v.raw)
}

// UnmarshalText is used by YAML decoding and CSV loading; YAML null leaves the zero Value.
func (v *Value) UnmarshalText(text []byte) error {
	*v = NewValue(string(text))
	v.numeric = v.raw != "" && leadingNumber.FindString(v.raw) == v.raw
	return nil
}

// MarshalText writes the raw text. Text encoders such as YAML see null as the empty
// string; MessagePack uses EncodeMsgpack instead.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.raw), nil
}

// Package converter maps between the JSON wire format and model types
package converter

import (
	"fmt"
	"math"
	"strconv"
)

// Float is a float64 that survives JSON round trips when it is infinite.
// ±Inf and NaN are written as the strings "Infinity", "-Infinity" and "NaN".
type Float float64

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts plain numbers and
// the three sentinel strings.
func (f *Float) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}

	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		switch s[1 : len(s)-1] {
		case "Infinity", "+Infinity", "inf", "+inf":
			*f = Float(math.Inf(1))
		case "-Infinity", "-inf":
			*f = Float(math.Inf(-1))
		case "NaN", "nan":
			*f = Float(math.NaN())
		default:
			return fmt.Errorf("invalid float sentinel %s", s)
		}
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid float %s: %w", s, err)
	}
	*f = Float(v)
	return nil
}

// IsInf reports whether the value is +Inf
func (f Float) IsInf() bool {
	return math.IsInf(float64(f), 1)
}

// String formats the value for humans, "∞" for +Inf
func (f Float) String() string {
	v := float64(f)
	if math.IsInf(v, 1) {
		return "∞"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

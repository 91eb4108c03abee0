package converter

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFloatMarshal(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "0"},
		{"fraction", 5.098646, "5.098646"},
		{"large", 1e21, "1e+21"},
		{"positive infinity", math.Inf(1), `"Infinity"`},
		{"negative infinity", math.Inf(-1), `"-Infinity"`},
		{"nan", math.NaN(), `"NaN"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(Float(tt.input))
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal(%v) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloatUnmarshal(t *testing.T) {
	var f Float
	for _, in := range []string{`"Infinity"`, `"+Infinity"`, `"inf"`} {
		if err := json.Unmarshal([]byte(in), &f); err != nil || !f.IsInf() {
			t.Errorf("Unmarshal(%s) = %v, %v; want +Inf", in, f, err)
		}
	}

	if err := json.Unmarshal([]byte(`"-Infinity"`), &f); err != nil || !math.IsInf(float64(f), -1) {
		t.Errorf("Unmarshal(-Infinity) = %v, %v", f, err)
	}
	if err := json.Unmarshal([]byte(`"NaN"`), &f); err != nil || !math.IsNaN(float64(f)) {
		t.Errorf("Unmarshal(NaN) = %v, %v", f, err)
	}
	if err := json.Unmarshal([]byte(`12.5`), &f); err != nil || f != 12.5 {
		t.Errorf("Unmarshal(12.5) = %v, %v", f, err)
	}

	f = 3
	if err := json.Unmarshal([]byte(`null`), &f); err != nil || f != 3 {
		t.Errorf("null should leave the value untouched, got %v, %v", f, err)
	}

	for _, bad := range []string{`"lots"`, `true`} {
		if err := json.Unmarshal([]byte(bad), &f); err == nil {
			t.Errorf("Unmarshal(%s) should fail", bad)
		}
	}
}

func TestFloatRoundTripInStruct(t *testing.T) {
	in := OptimizeResponse{ObjectiveScore: Float(math.Inf(1)), LossPercent: 12.25}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out OptimizeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal %s: %v", data, err)
	}
	if !out.ObjectiveScore.IsInf() || out.LossPercent != 12.25 {
		t.Errorf("round trip lost values: %+v", out)
	}
}

func TestFloatString(t *testing.T) {
	if got := Float(math.Inf(1)).String(); got != "∞" {
		t.Errorf("String(+Inf) = %q", got)
	}
	if got := Float(5.0986).String(); got != "5.10" {
		t.Errorf("String(5.0986) = %q", got)
	}
}

package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/signalsfoundry/subsystem-services/model"
)

func TestRealNonFiniteEncodesAsNull(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		b, err := json.Marshal(Real(f))
		if err != nil {
			t.Fatalf("Marshal(%v): %v", f, err)
		}
		if string(b) != "null" {
			t.Fatalf("Marshal(%v) = %s, want null", f, b)
		}
		if Real(f).Valid() {
			t.Fatalf("Real(%v).Valid() = true", f)
		}
	}
}

func TestRealFiniteRoundTrip(t *testing.T) {
	in := WidenFloat(float32(-0.1))
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out Real
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal(%s): %v", b, err)
	}
	if out != in || !out.Valid() {
		t.Fatalf("round trip %v -> %s -> %v", in, b, out)
	}
	if err := json.Unmarshal([]byte(`"x"`), &out); err == nil {
		t.Fatalf("expected error for string input")
	}
}

func TestStandardTelemetryWithNonFiniteRegistersMarshals(t *testing.T) {
	raw := &model.StandardTelemetry{}
	raw.OmegaB[0] = float32(math.NaN())
	raw.OmegaB[2] = 0.25
	raw.Bd[1] = float32(math.Inf(1))

	b, err := json.Marshal(ProjectStandard(raw))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got StdTelemetry
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.OmegaB[0].Valid() || got.Bd[1].Valid() {
		t.Fatalf("non-finite registers decoded as %v / %v", got.OmegaB[0], got.Bd[1])
	}
	if got.OmegaB[2] != 0.25 || !got.Bd[0].Valid() {
		t.Fatalf("finite registers lost: omegaB=%v bd=%v", got.OmegaB, got.Bd)
	}
}

package core

import (
	"encoding/json"
	"math"
)

// Real is a widened floating register. A device can report NaN or an
// infinity, which JSON cannot carry: those encode as null and decode back as
// NaN. Check Valid before doing arithmetic on a reading.
type Real float64

// Valid reports whether r is a finite reading.
func (r Real) Valid() bool {
	f := float64(r)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (r Real) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

func (r *Real) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Real(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Real(f)
	return nil
}

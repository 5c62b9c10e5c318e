package core

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotImplemented marks a register whose decode logic does not exist yet.
var ErrNotImplemented = errors.New("not implemented")

// Unimplemented stands in for a decoded value when no decoder exists for the
// register. It is never a valid reading: callers must check Err before using
// the field, and the wire form carries the register name instead of a number.
type Unimplemented struct {
	Register string
}

// NotImplemented returns the marker for the named register.
func NotImplemented(register string) Unimplemented {
	return Unimplemented{Register: register}
}

// Err always reports ErrNotImplemented, wrapped with the register name.
func (u Unimplemented) Err() error {
	return fmt.Errorf("%s: %w", u.Register, ErrNotImplemented)
}

func (u Unimplemented) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NotImplemented string `json:"notImplemented"`
	}{u.Register})
}

func (u *Unimplemented) UnmarshalJSON(b []byte) error {
	var aux struct {
		NotImplemented string `json:"notImplemented"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	u.Register = aux.NotImplemented
	return nil
}

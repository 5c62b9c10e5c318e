package sim

import (
	"context"
	"sync"
)

// Op names a simulated device operation for fault injection.
type Op string

const (
	OpReadTelemetry Op = "read_telemetry"
	OpPower         Op = "power"
	OpSetPower      Op = "set_power"
	OpSetMode       Op = "set_mode"
	OpSetGPSTime    Op = "set_gps_time"
	OpSetOrbit      Op = "set_orbit"
	OpPassthrough   Op = "passthrough"
	OpSelfTest      Op = "self_test"
	OpVersion       Op = "version"
	OpReset         Op = "reset"
	OpConfigure     Op = "configure"
)

// faults holds injected failures keyed by operation.
type faults struct {
	mu sync.Mutex
	m  map[Op]error
}

// Fail makes every later call to op return err until Clear is called.
func (f *faults) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.m == nil {
		f.m = make(map[Op]error)
	}
	f.m[op] = err
}

// Clear removes an injected failure.
func (f *faults) Clear(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, op)
}

// check returns the injected failure for op, or the context error if ctx is
// already done.
func (f *faults) check(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m[op]
}

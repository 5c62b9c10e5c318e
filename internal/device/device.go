// Package device defines the driver contracts the services call into. A
// driver owns transport and framing; it hands back raw, hardware-native
// blocks from package model and never interprets them.
package device

import (
	"context"
	"errors"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/model"
)

var (
	// ErrUnavailable is returned when the device does not answer, for example
	// because it is powered off.
	ErrUnavailable = errors.New("device unavailable")
	// ErrUnsupported is returned for operations the hardware cannot perform.
	ErrUnsupported = errors.New("operation not supported by device")
)

// ADCS is the MAI-400 attitude-control computer driver.
type ADCS interface {
	// ReadTelemetry returns one complete telemetry read. The caller owns the
	// returned block.
	ReadTelemetry(ctx context.Context) (*model.ADCSTelemetryBlock, error)
	Power(ctx context.Context) (model.PowerReading, error)
	SetPower(ctx context.Context, state model.PowerState) error
	// SetMode commands an ACS mode with its mode-specific parameters.
	SetMode(ctx context.Context, mode uint8, params []int16) error
	SetGPSTime(ctx context.Context, gpsTime uint32) error
	SetOrbit(ctx context.Context, rv model.OrbitUpdate) error
	Passthrough(ctx context.Context, raw []byte) error
	// SelfTest runs the device's built-in test and returns its report text.
	SelfTest(ctx context.Context) (string, error)
}

// GNSS is the OEM6 receiver driver.
type GNSS interface {
	ReadTelemetry(ctx context.Context) (*model.GNSSTelemetryBlock, error)
	Version(ctx context.Context) (*model.VersionBlock, error)
	Power(ctx context.Context) (model.PowerReading, error)
	Reset(ctx context.Context) error
	// Configure applies logging directives in order.
	Configure(ctx context.Context, cfg []core.LogConfig) error
	Passthrough(ctx context.Context, raw []byte) error
	SelfTest(ctx context.Context) (string, error)
}

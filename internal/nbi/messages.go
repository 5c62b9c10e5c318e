package nbi

import "github.com/signalsfoundry/subsystem-services/core"

// Request enum fields travel as their names and are parsed by the handler,
// so an unknown name is rejected as InvalidArgument rather than failing in
// the codec.

// ---- shared queries ----

type PingRequest struct{}

type PingResponse struct {
	Pong string `json:"pong"`
}

type AckRequest struct{}

type AckResponse struct {
	Command core.AckCommand `json:"command"`
}

type PowerRequest struct{}

// PowerResponse reports Off with the failure text when the device cannot be
// read.
type PowerResponse struct {
	State  core.PowerState `json:"state"`
	Uptime int64           `json:"uptime"`
	Errors string          `json:"errors,omitempty"`
}

// TelemetryRequest selects NOMINAL or DEBUG. An empty kind returns both.
type TelemetryRequest struct {
	Kind string `json:"kind,omitempty"`
}

// ---- shared mutations ----

type NoopRequest struct{}

type ControlPowerRequest struct {
	State string `json:"state"`
}

// ConfigInput is one configureHardware record as sent by a client.
type ConfigInput struct {
	Option   string   `json:"option"`
	Hold     *bool    `json:"hold,omitempty"`
	Interval *float64 `json:"interval,omitempty"`
	Offset   *float64 `json:"offset,omitempty"`
}

type ConfigureHardwareRequest struct {
	Config []ConfigInput `json:"config,omitempty"`
}

type TestHardwareRequest struct {
	Type string `json:"type"`
}

// IssueRawCommandRequest carries the bytes to pass through, hex encoded.
type IssueRawCommandRequest struct {
	Command string `json:"command"`
}

// ---- ADCS ----

type ModeRequest struct{}

type ModeResponse struct {
	Mode   *core.ACSMode `json:"mode,omitempty"`
	Errors string        `json:"errors,omitempty"`
}

type SpinRequest struct{}

type SpinResponse struct {
	Spin   *core.Spin `json:"spin,omitempty"`
	Errors string     `json:"errors,omitempty"`
}

type ADCSTelemetryResponse struct {
	Nominal *core.ADCSNominal `json:"nominal,omitempty"`
	Debug   *core.ADCSDebug   `json:"debug,omitempty"`
	Errors  string            `json:"errors,omitempty"`
}

type SetModeRequest struct {
	Mode   string  `json:"mode"`
	Params []int16 `json:"params,omitempty"`
}

// OrbitRV is an ECI state pushed to the ADCS: position in km, velocity in
// km/s, epoch in GPS seconds.
type OrbitRV struct {
	EciPos    []float64 `json:"eciPos"`
	EciVel    []float64 `json:"eciVel"`
	TimeEpoch uint32    `json:"timeEpoch"`
}

// UpdateRequest pushes GPS time, orbital state, or both.
type UpdateRequest struct {
	GPSTime *uint32  `json:"gpsTime,omitempty"`
	RV      *OrbitRV `json:"rv,omitempty"`
}

// ---- GNSS ----

type LockStatusRequest struct{}

type LockStatusResponse struct {
	LockStatus *core.LockStatus `json:"lockStatus,omitempty"`
	Errors     string           `json:"errors,omitempty"`
}

type LockInfoRequest struct{}

type LockInfoResponse struct {
	LockInfo *core.LockInfo `json:"lockInfo,omitempty"`
	Errors   string         `json:"errors,omitempty"`
}

type GNSSTelemetryResponse struct {
	Nominal *core.GNSSNominal `json:"nominal,omitempty"`
	Debug   *core.VersionInfo `json:"debug,omitempty"`
	Errors  string            `json:"errors,omitempty"`
}

type (
	ADCSTestHardwareResponse = TestHardwareResponse[core.ADCSTelemetry]
	GNSSTestHardwareResponse = TestHardwareResponse[core.GNSSIntegration]
)

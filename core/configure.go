package core

// ConfigOption is one of the receiver's logging directives.
type ConfigOption uint8

const (
	// LogErrorData outputs error data when errors or events occur.
	LogErrorData ConfigOption = iota
	// LogPositionData outputs position data at the requested interval.
	LogPositionData
	// UnlogAll stops all output from the device.
	UnlogAll
	// UnlogErrorData stops error output.
	UnlogErrorData
	// UnlogPositionData stops position output.
	UnlogPositionData
)

var configOptionNames = enumNames[ConfigOption]{kind: "ConfigOption", names: []string{
	"LOG_ERROR_DATA",
	"LOG_POSITION_DATA",
	"UNLOG_ALL",
	"UNLOG_ERROR_DATA",
	"UNLOG_POSITION_DATA",
}}

func (o ConfigOption) String() string                { return configOptionNames.text(o) }
func (o ConfigOption) MarshalText() ([]byte, error)  { return configOptionNames.marshal(o) }
func (o *ConfigOption) UnmarshalText(b []byte) error { return unmarshalEnum(configOptionNames, o, b) }

// ConfigRequest is one configureHardware input record. Nil fields take their
// defaults: hold=false, interval=0.0, offset=0.0.
type ConfigRequest struct {
	Option   ConfigOption `json:"option"`
	Hold     *bool        `json:"hold,omitempty"`
	Interval *float64     `json:"interval,omitempty"`
	Offset   *float64     `json:"offset,omitempty"`
}

// LogConfig is a ConfigRequest with every default resolved. Interval and
// Offset are seconds.
type LogConfig struct {
	Option   ConfigOption `json:"option"`
	Hold     bool         `json:"hold"`
	Interval float64      `json:"interval"`
	Offset   float64      `json:"offset"`
}

// Resolve substitutes defaults for unset fields.
func (r ConfigRequest) Resolve() LogConfig {
	c := LogConfig{Option: r.Option}
	if r.Hold != nil {
		c.Hold = *r.Hold
	}
	if r.Interval != nil {
		c.Interval = *r.Interval
	}
	if r.Offset != nil {
		c.Offset = *r.Offset
	}
	return c
}

// ResolveAll resolves a batch in order.
func ResolveAll(reqs []ConfigRequest) []LogConfig {
	out := make([]LogConfig, len(reqs))
	for i, r := range reqs {
		out[i] = r.Resolve()
	}
	return out
}

// ConfigureHardwareResponse echoes the configuration as it was resolved, so
// callers can tell an applied value from a substituted default.
type ConfigureHardwareResponse struct {
	GenericResponse
	Config []LogConfig `json:"config"`
}

// RespondConfigure builds the configureHardware envelope.
func RespondConfigure(resolved []LogConfig, err error) ConfigureHardwareResponse {
	if resolved == nil {
		resolved = []LogConfig{}
	}
	return ConfigureHardwareResponse{GenericResponse: Respond(err), Config: resolved}
}

package core

// TelemetryKind selects which telemetry view a query returns.
type TelemetryKind uint8

const (
	KindNominal TelemetryKind = iota
	KindDebug
)

var telemetryKindNames = enumNames[TelemetryKind]{kind: "TelemetryKind", names: []string{
	"NOMINAL",
	"DEBUG",
}}

func (k TelemetryKind) String() string                { return telemetryKindNames.text(k) }
func (k TelemetryKind) MarshalText() ([]byte, error)  { return telemetryKindNames.marshal(k) }
func (k *TelemetryKind) UnmarshalText(b []byte) error { return unmarshalEnum(telemetryKindNames, k, b) }

package core

import "github.com/signalsfoundry/subsystem-services/model"

// PowerState is the client-visible power condition of a device.
type PowerState uint8

const (
	PowerOn PowerState = iota
	PowerOff
	PowerReset
)

var powerNames = enumNames[PowerState]{kind: "PowerState", names: []string{
	"ON",
	"OFF",
	"RESET",
}}

func (p PowerState) String() string                { return powerNames.text(p) }
func (p PowerState) MarshalText() ([]byte, error)  { return powerNames.marshal(p) }
func (p *PowerState) UnmarshalText(b []byte) error { return unmarshalEnum(powerNames, p, b) }

// Raw converts to the driver's representation.
func (p PowerState) Raw() model.PowerState {
	switch p {
	case PowerOn:
		return model.PowerOn
	case PowerReset:
		return model.PowerReset
	default:
		return model.PowerOff
	}
}

// PowerStatus is the projected power reading.
type PowerStatus struct {
	State  PowerState `json:"state"`
	Uptime int64      `json:"uptime"`
}

// ProjectPower widens a driver power reading. A state the driver cannot name
// is reported as Off.
func ProjectPower(r model.PowerReading) PowerStatus {
	state := PowerOff
	switch r.State {
	case model.PowerOn:
		state = PowerOn
	case model.PowerReset:
		state = PowerReset
	}
	return PowerStatus{State: state, Uptime: WidenInt(r.Uptime)}
}

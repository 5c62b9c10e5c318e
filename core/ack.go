package core

import "sync/atomic"

// AckCommand identifies the last mutation a service dispatched.
type AckCommand uint8

const (
	AckNone AckCommand = iota
	AckNoop
	AckControlPower
	AckConfigureHardware
	AckTestHardware
	AckIssueRawCommand
	AckSetMode
	AckUpdate
)

var ackNames = enumNames[AckCommand]{kind: "AckCommand", names: []string{
	"NONE",
	"NOOP",
	"CONTROL_POWER",
	"CONFIGURE_HARDWARE",
	"TEST_HARDWARE",
	"ISSUE_RAW_COMMAND",
	"SET_MODE",
	"UPDATE",
}}

func (c AckCommand) String() string                { return ackNames.text(c) }
func (c AckCommand) MarshalText() ([]byte, error)  { return ackNames.marshal(c) }
func (c *AckCommand) UnmarshalText(b []byte) error { return unmarshalEnum(ackNames, c, b) }

// AckTracker is a single-slot record of the most recently dispatched
// mutation. The zero value reads AckNone. Writes are last-writer-wins and a
// reader always observes a whole value that some writer stored.
type AckTracker struct {
	last atomic.Uint32
}

// NewAckTracker returns a tracker reading AckNone.
func NewAckTracker() *AckTracker {
	return &AckTracker{}
}

// Record overwrites the slot. Dispatchers call it once per accepted
// mutation, before the device operation runs.
func (t *AckTracker) Record(cmd AckCommand) {
	t.last.Store(uint32(cmd))
}

// Current returns the last recorded command without blocking.
func (t *AckTracker) Current() AckCommand {
	return AckCommand(t.last.Load())
}

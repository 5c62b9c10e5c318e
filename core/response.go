package core

// unknownCause fills the errors text when a device reports a failure with an
// empty message, so a failed envelope never carries empty errors.
const unknownCause = "device operation failed without a reported cause"

// GenericResponse is the envelope every mutation returns.
// Success is true exactly when Errors is empty.
type GenericResponse struct {
	Errors  string `json:"errors"`
	Success bool   `json:"success"`
}

// NoopResponse is the envelope for the noop mutation.
type NoopResponse = GenericResponse

// Respond builds the envelope for the outcome of a device operation.
func Respond(err error) GenericResponse {
	if err == nil {
		return GenericResponse{Success: true}
	}
	msg := err.Error()
	if msg == "" {
		msg = unknownCause
	}
	return GenericResponse{Errors: msg}
}

// Valid reports whether the envelope invariant holds.
func (r GenericResponse) Valid() bool {
	return r.Success == (r.Errors == "")
}

// ControlPowerResponse echoes the requested power state.
type ControlPowerResponse struct {
	GenericResponse
	Power PowerState `json:"power"`
}

// RespondControlPower builds the controlPower envelope.
func RespondControlPower(requested PowerState, err error) ControlPowerResponse {
	return ControlPowerResponse{GenericResponse: Respond(err), Power: requested}
}

// ---- hardware tests ----

// TestType selects which testHardware arm runs.
type TestType uint8

const (
	TestIntegration TestType = iota
	TestHardware
)

var testTypeNames = enumNames[TestType]{kind: "TestType", names: []string{
	"INTEGRATION",
	"HARDWARE",
}}

func (t TestType) String() string                { return testTypeNames.text(t) }
func (t TestType) MarshalText() ([]byte, error)  { return testTypeNames.marshal(t) }
func (t *TestType) UnmarshalText(b []byte) error { return unmarshalEnum(testTypeNames, t, b) }

// TestResult is the outcome of testHardware: exactly one of
// IntegrationTestResults or HardwareTestResults.
type TestResult interface {
	Type() TestType
	Envelope() GenericResponse
	isTestResult()
}

// IntegrationTestResults carries the telemetry read back during an
// integration test. Telemetry is nil when the read failed.
type IntegrationTestResults[T any] struct {
	GenericResponse
	Telemetry *T `json:"telemetry"`
}

func (IntegrationTestResults[T]) Type() TestType              { return TestIntegration }
func (r IntegrationTestResults[T]) Envelope() GenericResponse { return r.GenericResponse }
func (IntegrationTestResults[T]) isTestResult()               {}

// HardwareTestResults carries the device's self-test text.
type HardwareTestResults struct {
	GenericResponse
	Data string `json:"data"`
}

func (HardwareTestResults) Type() TestType              { return TestHardware }
func (r HardwareTestResults) Envelope() GenericResponse { return r.GenericResponse }
func (HardwareTestResults) isTestResult()               {}

// RespondIntegration builds the integration arm. The payload is dropped on
// failure so a failed test never presents telemetry as valid.
func RespondIntegration[T any](payload *T, err error) IntegrationTestResults[T] {
	r := IntegrationTestResults[T]{GenericResponse: Respond(err)}
	if err == nil {
		r.Telemetry = payload
	}
	return r
}

// RespondHardware builds the hardware arm. Diagnostic text is kept even on
// failure since it usually explains the failure.
func RespondHardware(data string, err error) HardwareTestResults {
	return HardwareTestResults{GenericResponse: Respond(err), Data: data}
}

package nbi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/signalsfoundry/subsystem-services/core"
)

// TestHardwareResponse carries exactly one arm of core.TestResult. On the
// wire it is tagged by type:
//
//	{"type":"INTEGRATION","integration":{...}}
//	{"type":"HARDWARE","hardware":{...}}
//
// T is the integration payload of the device family.
type TestHardwareResponse[T any] struct {
	Result core.TestResult
}

type testResultWire[T any] struct {
	Type        core.TestType                   `json:"type"`
	Integration *core.IntegrationTestResults[T] `json:"integration,omitempty"`
	Hardware    *core.HardwareTestResults       `json:"hardware,omitempty"`
}

func (r TestHardwareResponse[T]) MarshalJSON() ([]byte, error) {
	switch res := r.Result.(type) {
	case core.IntegrationTestResults[T]:
		return json.Marshal(testResultWire[T]{Type: core.TestIntegration, Integration: &res})
	case core.HardwareTestResults:
		return json.Marshal(testResultWire[T]{Type: core.TestHardware, Hardware: &res})
	case nil:
		return nil, errors.New("test result is empty")
	default:
		return nil, fmt.Errorf("unexpected test result %T", res)
	}
}

func (r *TestHardwareResponse[T]) UnmarshalJSON(b []byte) error {
	var w testResultWire[T]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	switch {
	case w.Type == core.TestIntegration && w.Integration != nil && w.Hardware == nil:
		r.Result = *w.Integration
	case w.Type == core.TestHardware && w.Hardware != nil && w.Integration == nil:
		r.Result = *w.Hardware
	default:
		return fmt.Errorf("test result of type %s does not carry exactly its own arm", w.Type)
	}
	return nil
}

// Integration returns the integration arm, if that is the one present.
func (r TestHardwareResponse[T]) Integration() (core.IntegrationTestResults[T], bool) {
	res, ok := r.Result.(core.IntegrationTestResults[T])
	return res, ok
}

// Hardware returns the hardware arm, if that is the one present.
func (r TestHardwareResponse[T]) Hardware() (core.HardwareTestResults, bool) {
	res, ok := r.Result.(core.HardwareTestResults)
	return res, ok
}

// Envelope returns the success/errors envelope of whichever arm is present.
func (r TestHardwareResponse[T]) Envelope() core.GenericResponse {
	if r.Result == nil {
		return core.Respond(errors.New("test result is empty"))
	}
	return r.Result.Envelope()
}

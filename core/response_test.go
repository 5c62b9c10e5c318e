package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signalsfoundry/subsystem-services/model"
)

func TestRespondEnvelope(t *testing.T) {
	ok := Respond(nil)
	if !ok.Success || ok.Errors != "" || !ok.Valid() {
		t.Fatalf("success envelope = %+v", ok)
	}
	failed := Respond(errors.New("uart timeout"))
	if failed.Success || failed.Errors != "uart timeout" || !failed.Valid() {
		t.Fatalf("failure envelope = %+v", failed)
	}
	blank := Respond(errors.New(""))
	if blank.Success || blank.Errors == "" || !blank.Valid() {
		t.Fatalf("empty-message failure must still carry errors text: %+v", blank)
	}
	if (GenericResponse{Success: true, Errors: "x"}).Valid() {
		t.Fatalf("success with errors must be invalid")
	}
}

func TestRespondControlPowerEchoesRequest(t *testing.T) {
	r := RespondControlPower(PowerReset, nil)
	if r.Power != PowerReset || !r.Success {
		t.Fatalf("response = %+v", r)
	}
	r = RespondControlPower(PowerOn, errors.New("not supported"))
	if r.Power != PowerOn || r.Success || r.Errors != "not supported" {
		t.Fatalf("response = %+v", r)
	}
}

func TestTestResultArms(t *testing.T) {
	payload := &GNSSIntegration{}
	var res TestResult = RespondIntegration(payload, nil)
	if res.Type() != TestIntegration || !res.Envelope().Success {
		t.Fatalf("integration result = %+v", res)
	}
	failed := RespondIntegration(payload, errors.New("read failed"))
	if failed.Telemetry != nil || failed.Success {
		t.Fatalf("failed integration result kept telemetry: %+v", failed)
	}

	hw := RespondHardware("checksum mismatch", errors.New("self test failed"))
	res = hw
	if res.Type() != TestHardware || res.Envelope().Success || hw.Data != "checksum mismatch" {
		t.Fatalf("hardware result = %+v", hw)
	}
}

func TestConfigRequestDefaults(t *testing.T) {
	var req ConfigRequest
	if err := json.Unmarshal([]byte(`{"option":"LOG_POSITION_DATA"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := LogConfig{Option: LogPositionData, Hold: false, Interval: 0, Offset: 0}
	if got := req.Resolve(); got != want {
		t.Fatalf("Resolve() = %+v, want %+v", got, want)
	}

	hold, interval := true, 0.5
	got := ResolveAll([]ConfigRequest{
		{Option: UnlogAll},
		{Option: LogErrorData, Hold: &hold, Interval: &interval},
	})
	wantAll := []LogConfig{
		{Option: UnlogAll},
		{Option: LogErrorData, Hold: true, Interval: 0.5},
	}
	if diff := cmp.Diff(wantAll, got); diff != "" {
		t.Fatalf("ResolveAll (-want +got):\n%s", diff)
	}
}

func TestRespondConfigureNeverNil(t *testing.T) {
	r := RespondConfigure(nil, errors.New("bad"))
	if r.Config == nil || r.Success {
		t.Fatalf("response = %+v", r)
	}
	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"errors":"bad","success":false,"config":[]}`
	if string(raw) != want {
		t.Fatalf("wire = %s, want %s", raw, want)
	}
}

func TestProjectPower(t *testing.T) {
	cases := []struct {
		raw  model.PowerState
		want PowerState
	}{
		{model.PowerOn, PowerOn},
		{model.PowerOff, PowerOff},
		{model.PowerReset, PowerReset},
		{model.PowerState(42), PowerOff},
	}
	for _, tc := range cases {
		got := ProjectPower(model.PowerReading{State: tc.raw, Uptime: 90})
		if got.State != tc.want || got.Uptime != 90 {
			t.Fatalf("ProjectPower(%d) = %+v, want state %v", tc.raw, got, tc.want)
		}
		if got.State.Raw() != tc.raw && tc.raw <= model.PowerReset {
			t.Fatalf("Raw() round trip failed for %d", tc.raw)
		}
	}
}

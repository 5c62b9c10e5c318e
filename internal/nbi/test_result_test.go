package nbi

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signalsfoundry/subsystem-services/core"
)

func TestTestHardwareResponseWireForm(t *testing.T) {
	hw := ADCSTestHardwareResponse{Result: core.RespondHardware("BIT: PASS", nil)}
	b, err := json.Marshal(hw)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"HARDWARE","hardware":{"errors":"","success":true,"data":"BIT: PASS"}}`
	if string(b) != want {
		t.Fatalf("hardware arm = %s\nwant %s", b, want)
	}

	var back ADCSTestHardwareResponse
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(hw.Result, back.Result); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestTestHardwareResponseIntegrationFailure(t *testing.T) {
	snap := &core.GNSSIntegration{}
	resp := GNSSTestHardwareResponse{Result: core.RespondIntegration(snap, errors.New("no fix"))}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"INTEGRATION","integration":{"errors":"no fix","success":false,"telemetry":null}}`
	if string(b) != want {
		t.Fatalf("integration arm = %s\nwant %s", b, want)
	}
	if env := resp.Envelope(); env.Success || env.Errors != "no fix" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestTestHardwareResponseRejectsMismatchedArms(t *testing.T) {
	for _, in := range []string{
		`{"type":"HARDWARE","integration":{"success":true,"errors":""}}`,
		`{"type":"INTEGRATION"}`,
		`{"type":"HARDWARE","hardware":{},"integration":{}}`,
		`{"type":"SMOKE"}`,
	} {
		var r GNSSTestHardwareResponse
		if err := json.Unmarshal([]byte(in), &r); err == nil {
			t.Errorf("Unmarshal(%s) accepted", in)
		}
	}

	if _, err := json.Marshal(ADCSTestHardwareResponse{}); err == nil {
		t.Fatalf("empty result marshalled")
	}
}

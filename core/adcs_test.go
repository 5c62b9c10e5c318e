package core

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signalsfoundry/subsystem-services/model"
)

func sampleADCSBlock() *model.ADCSTelemetryBlock {
	b := &model.ADCSTelemetryBlock{}
	b.Standard.TlmCounter = 7
	b.Standard.GPSTime = math.MaxUint32
	b.Standard.ACSMode = 3
	b.Standard.CSS = [6]uint16{1, 2, 3, 4, 5, math.MaxUint16}
	b.Standard.SunVecB = [3]int16{-100, 0, 100}
	b.Standard.GCRWATorqueCmd = [3]int8{-128, 0, 127}
	b.Standard.OmegaB = [3]float32{0.25, -0.5, 1.5}
	b.Standard.QboHat = [4]int16{1, -1, 2, -2}
	b.Standard.CRC = 0xBEEF

	b.Config.Model = 4
	b.Config.Serial = 1234
	b.Config.Major, b.Config.Minor, b.Config.Build = 1, 2, 300
	b.Config.EHSType = [2]uint8{1, 0}

	b.IREHS.ThermopilesA = [4]uint16{10, 20, 30, 40}
	b.IREHS.DipAngleA = -12
	b.IREHS.SolutionDegraded = [8]uint8{1, 1, 0, 0, 0, 0, 0, 0}

	b.IMU.Accel = [3]int16{-1, 0, 1}
	b.IMU.GyroTemp = 40

	b.Rotating.ScPosECI = [3]float32{6778.5, -10, 0}
	b.Rotating.KeplerElem.SemiMajorAxis = 6778.0
	b.Rotating.KeplerElem.Eccentricity = 0.001
	b.Rotating.CSSBias = [6]int16{-6, -5, -4, 4, 5, 6}
	b.Rotating.RawMotorTemp = -20
	b.Rotating.OrbitEpoch = 1_200_000_000
	return b
}

func TestProjectADCSWidensFields(t *testing.T) {
	snap := ProjectADCS(sampleADCSBlock())
	std := snap.Nominal.Std

	if std.GPSTime != math.MaxUint32 {
		t.Fatalf("gpsTime = %d", std.GPSTime)
	}
	if diff := cmp.Diff([]int64{1, 2, 3, 4, 5, math.MaxUint16}, std.CSS); diff != "" {
		t.Fatalf("css mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{-128, 0, 127}, std.GCRWATorqueCmd); diff != "" {
		t.Fatalf("gcRwaTorqueCmd mismatch (-want +got):\n%s", diff)
	}
	if len(std.QboHat) != 4 || len(std.OmegaB) != 3 || len(std.Nb) != 3 {
		t.Fatalf("array lengths not preserved: qboHat=%d omegaB=%d nb=%d", len(std.QboHat), len(std.OmegaB), len(std.Nb))
	}
	if std.CRC != 0xBEEF {
		t.Fatalf("crc = %#x", std.CRC)
	}

	dbg := snap.Debug
	if dbg.Config.Build != 300 || dbg.Config.Serial != 1234 {
		t.Fatalf("config = %+v", dbg.Config)
	}
	if dbg.IREHS.DipAngleA != -12 {
		t.Fatalf("dipAngleA = %d", dbg.IREHS.DipAngleA)
	}
	if dbg.RawIMU.GyroTemp != 40 {
		t.Fatalf("gyroTemp = %d", dbg.RawIMU.GyroTemp)
	}
	if dbg.Rotating.KeplerElem.SemiMajorAxis != 6778.0 {
		t.Fatalf("semiMajorAxis = %v", dbg.Rotating.KeplerElem.SemiMajorAxis)
	}
	if dbg.Rotating.ScPosECI[0] != 6778.5 || dbg.Rotating.RawMotorTemp != -20 {
		t.Fatalf("rotating = %+v", dbg.Rotating)
	}
	if len(dbg.Rotating.CSSBias) != 6 || dbg.Rotating.CSSBias[0] != -6 {
		t.Fatalf("cssBias = %v", dbg.Rotating.CSSBias)
	}
}

func TestProjectADCSIsDeterministic(t *testing.T) {
	b := sampleADCSBlock()
	first := ProjectADCS(b)
	second := ProjectADCS(b)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("projection not idempotent (-first +second):\n%s", diff)
	}

	// Mutating the source after projection must not reach the snapshot.
	b.Standard.CSS[0] = 999
	b.Rotating.CSSBias[0] = 999
	if first.Nominal.Std.CSS[0] != 1 || first.Debug.Rotating.CSSBias[0] != -6 {
		t.Fatalf("snapshot aliases the raw block")
	}
}

func TestProjectADCSUnimplementedFields(t *testing.T) {
	dbg := ProjectADCSDebug(sampleADCSBlock())
	for name, u := range map[string]Unimplemented{
		"ehs_type":          dbg.Config.EHSType,
		"st_type":           dbg.Config.STType,
		"solution_degraded": dbg.IREHS.SolutionDegraded,
	} {
		if u.Register != name {
			t.Fatalf("register = %q, want %q", u.Register, name)
		}
		if !errors.Is(u.Err(), ErrNotImplemented) {
			t.Fatalf("%s: Err() = %v, want ErrNotImplemented", name, u.Err())
		}
	}

	raw, err := json.Marshal(dbg.Config)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if got := string(wire["ehsType"]); got != `{"notImplemented":"ehs_type"}` {
		t.Fatalf("ehsType wire form = %s", got)
	}
}

func TestProjectSpinAndMode(t *testing.T) {
	b := sampleADCSBlock()
	want := Spin{X: 0.25, Y: -0.5, Z: 1.5}
	if got := ProjectSpin(&b.Standard); got != want {
		t.Fatalf("spin = %+v, want %+v", got, want)
	}
	if got := DecodeMode(&b.Standard); got != ModeNadirPointing {
		t.Fatalf("mode = %v, want NADIR_POINTING", got)
	}
	b.Standard.ACSMode = 200
	if got := DecodeMode(&b.Standard); got != ACSModeInvalid {
		t.Fatalf("mode = %v, want INVALID", got)
	}
}

func TestADCSSnapshotJSONKeys(t *testing.T) {
	raw, err := json.Marshal(ProjectADCS(sampleADCSBlock()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var top map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := top["nominal"]["std"]; !ok {
		t.Fatalf("nominal.std missing: %s", raw)
	}
	for _, k := range []string{"config", "irehs", "rawImu", "rotating"} {
		if _, ok := top["debug"][k]; !ok {
			t.Fatalf("debug.%s missing: %s", k, raw)
		}
	}
}

package core

import (
	"math"
	"testing"
	"testing/quick"
)

func TestDecodeKnownCodes(t *testing.T) {
	if got := SolutionStatusCodes.Decode(0); got != SolComputed {
		t.Fatalf("solution status 0 = %v, want SOL_COMPUTED", got)
	}
	if got := PositionTypeCodes.Decode(50); got != NarrowInteger {
		t.Fatalf("position type 50 = %v, want NARROW_INTEGER", got)
	}
	if got := RefTimeStatusCodes.Decode(200); got != TimeSatTime {
		t.Fatalf("time status 200 = %v, want SAT_TIME", got)
	}
	if got := RefTimeStatusCodes.Decode(20); got != TimeUnknown {
		t.Fatalf("time status 20 = %v, want UNKNOWN", got)
	}
	if got := ACSModeCodes.Decode(12); got != ModeSunRam {
		t.Fatalf("acs mode 12 = %v, want SUN_RAM", got)
	}
}

func TestDecodeFullTables(t *testing.T) {
	solution := map[uint32]SolutionStatus{
		0: SolComputed, 1: InsufficientObservations, 2: NoConvergence, 3: Singularity,
		4: CovarianceTraceExceeded, 5: TestDistanceExceeded, 6: ColdStart, 7: HeightVelocityExceeded,
		8: VarianceExceeded, 9: ResidualsTooLarge, 13: IntegrityWarning, 18: Pending,
		19: InvalidFix, 20: Unauthorized,
	}
	for code, want := range solution {
		if got := SolutionStatusCodes.Decode(code); got != want {
			t.Errorf("solution status %d = %v, want %v", code, got, want)
		}
	}

	position := map[uint32]PositionType{
		0: PositionNone, 1: FixedPos, 2: FixedHeight, 8: DopplerVelocity, 16: Single, 17: PSRDiff,
		18: WAAS, 19: Propagated, 20: Omnistar, 32: L1Float, 33: IonoFreeFloat, 34: NarrowFloat,
		48: L1Integer, 50: NarrowInteger, 64: OmnistarHP, 65: OmnistarXP, 68: PPPConverging,
		69: PPP, 70: Operational, 71: Warning, 72: OutOfBounds, 77: PPPBasicConverging, 78: PPPBasic,
	}
	for code, want := range position {
		if got := PositionTypeCodes.Decode(code); got != want {
			t.Errorf("position type %d = %v, want %v", code, got, want)
		}
	}

	times := map[uint32]RefTimeStatus{
		20: TimeUnknown, 60: TimeApproximate, 80: TimeCoarseAdjusting, 100: TimeCoarse,
		120: TimeCoarseSteering, 130: TimeFreeWheeling, 140: TimeFineAdjusting, 160: TimeFine,
		170: TimeFineBackupSteering, 180: TimeFineSteering, 200: TimeSatTime,
	}
	for code, want := range times {
		if got := RefTimeStatusCodes.Decode(code); got != want {
			t.Errorf("time status %d = %v, want %v", code, got, want)
		}
	}

	if n := len(SolutionStatusCodes.Codes()); n != len(solution) {
		t.Fatalf("solution table has %d codes, want %d", n, len(solution))
	}
	if n := len(PositionTypeCodes.Codes()); n != len(position) {
		t.Fatalf("position table has %d codes, want %d", n, len(position))
	}
	if n := len(RefTimeStatusCodes.Codes()); n != len(times) {
		t.Fatalf("time table has %d codes, want %d", n, len(times))
	}
}

func TestDecodeUnknownCodeFallsBack(t *testing.T) {
	if got := SolutionStatusCodes.Decode(9999); got != SolutionStatusInvalid {
		t.Fatalf("solution status 9999 = %v, want INVALID", got)
	}
	if got := PositionTypeCodes.Decode(9999); got != PositionTypeInvalid {
		t.Fatalf("position type 9999 = %v, want INVALID", got)
	}
	if got := RefTimeStatusCodes.Decode(9999); got != RefTimeInvalid {
		t.Fatalf("time status 9999 = %v, want INVALID", got)
	}
	if got := ACSModeCodes.Decode(9999); got != ACSModeInvalid {
		t.Fatalf("acs mode 9999 = %v, want INVALID", got)
	}
	// 0 is meaningful for solution status and position type but not time.
	if got := RefTimeStatusCodes.Decode(0); got != RefTimeInvalid {
		t.Fatalf("time status 0 = %v, want INVALID", got)
	}
	if got := PositionTypeCodes.Decode(0); got != PositionNone {
		t.Fatalf("position type 0 = %v, want NONE", got)
	}
}

// totality checks that every raw code maps to a variant that is either the
// table entry or the catch-all, and that decoding is repeatable.
func totality[V comparable](t *testing.T, d Dimension[V], raw uint32) bool {
	t.Helper()
	got := d.Decode(raw)
	if got != d.Decode(raw) {
		return false
	}
	if d.Known(raw) {
		return got != d.Invalid()
	}
	return got == d.Invalid()
}

func TestDecodeTotalOver16Bits(t *testing.T) {
	for raw := uint32(0); raw <= math.MaxUint16; raw++ {
		if !totality(t, SolutionStatusCodes, raw) ||
			!totality(t, PositionTypeCodes, raw) ||
			!totality(t, RefTimeStatusCodes, raw) ||
			!totality(t, ACSModeCodes, raw) {
			t.Fatalf("decode not total at raw=%d", raw)
		}
	}
}

func TestDecodeTotalOver32Bits(t *testing.T) {
	prop := func(raw uint32) bool {
		return totality(t, SolutionStatusCodes, raw) &&
			totality(t, PositionTypeCodes, raw) &&
			totality(t, RefTimeStatusCodes, raw) &&
			totality(t, ACSModeCodes, raw)
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 20000}); err != nil {
		t.Fatalf("decode not total: %v", err)
	}
	for _, raw := range []uint32{math.MaxUint8 + 1, math.MaxUint16 + 1, math.MaxUint32} {
		if !prop(raw) {
			t.Fatalf("decode not total at raw=%d", raw)
		}
	}
}

func TestDecodeMiss(t *testing.T) {
	if _, ok := PositionTypeCodes.Miss(50); ok {
		t.Fatalf("known code reported as miss")
	}
	m, ok := PositionTypeCodes.Miss(3)
	if !ok {
		t.Fatalf("expected miss for code 3")
	}
	if m.Dimension != "position_type" || m.Version != "oem6-1" || m.Code != 3 {
		t.Fatalf("unexpected miss %+v", m)
	}
}

func TestEnumTextRoundTrip(t *testing.T) {
	b, err := NarrowInteger.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(b) != "NARROW_INTEGER" {
		t.Fatalf("MarshalText = %q", b)
	}

	var mode ACSMode
	if err := mode.UnmarshalText([]byte("NADIR_POINTING")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if mode != ModeNadirPointing {
		t.Fatalf("mode = %v, want NADIR_POINTING", mode)
	}
	if err := mode.UnmarshalText([]byte("SIDEWAYS")); err == nil {
		t.Fatalf("expected error for unknown mode name")
	}
	if raw, ok := ModeNadirPointing.Raw(); !ok || raw != 3 {
		t.Fatalf("Raw() = %d, %v; want 3, true", raw, ok)
	}
	if _, ok := ACSModeInvalid.Raw(); ok {
		t.Fatalf("invalid mode must not be commandable")
	}
}

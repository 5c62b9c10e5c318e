package core

import "sort"

// Dimension is one status-code table. Decoding is total: a code that is not
// in the table resolves to the dimension's catch-all variant, never an error.
// Codes are sparse, so adding a known code is a table edit.
type Dimension[V comparable] struct {
	Name    string
	Version string

	codes   map[uint32]V
	invalid V
}

// DecodeMiss records a raw code that fell through to the catch-all variant,
// along with the table version it was checked against.
type DecodeMiss struct {
	Dimension string
	Version   string
	Code      uint32
}

// Decode maps a raw hardware code to its variant.
func (d Dimension[V]) Decode(raw uint32) V {
	if v, ok := d.codes[raw]; ok {
		return v
	}
	return d.invalid
}

// Known reports whether raw is in the table.
func (d Dimension[V]) Known(raw uint32) bool {
	_, ok := d.codes[raw]
	return ok
}

// Invalid returns the catch-all variant.
func (d Dimension[V]) Invalid() V { return d.invalid }

// Miss returns a DecodeMiss for raw when it is not a known code.
func (d Dimension[V]) Miss(raw uint32) (DecodeMiss, bool) {
	if d.Known(raw) {
		return DecodeMiss{}, false
	}
	return DecodeMiss{Dimension: d.Name, Version: d.Version, Code: raw}, true
}

// Codes lists the known raw codes in ascending order.
func (d Dimension[V]) Codes() []uint32 {
	out := make([]uint32, 0, len(d.codes))
	for c := range d.codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ---- Solution status (OEM6 BESTXYZ/BESTPOS sol_stat) ----

// SolutionStatus is the receiver's solution computation state.
type SolutionStatus uint8

const (
	SolComputed SolutionStatus = iota
	InsufficientObservations
	NoConvergence
	Singularity
	CovarianceTraceExceeded
	TestDistanceExceeded
	ColdStart
	HeightVelocityExceeded
	VarianceExceeded
	ResidualsTooLarge
	IntegrityWarning
	Pending
	InvalidFix
	Unauthorized
	SolutionStatusInvalid
)

var solutionStatusNames = enumNames[SolutionStatus]{kind: "SolutionStatus", names: []string{
	"SOL_COMPUTED",
	"INSUFFICIENT_OBSERVATIONS",
	"NO_CONVERGENCE",
	"SINGULARITY",
	"COVARIANCE_TRACE_EXCEEDED",
	"TEST_DISTANCE_EXCEEDED",
	"COLD_START",
	"HEIGHT_VELOCITY_EXCEEDED",
	"VARIANCE_EXCEEDED",
	"RESIDUALS_TOO_LARGE",
	"INTEGRITY_WARNING",
	"PENDING",
	"INVALID_FIX",
	"UNAUTHORIZED",
	"INVALID",
}}

func (s SolutionStatus) String() string                { return solutionStatusNames.text(s) }
func (s SolutionStatus) MarshalText() ([]byte, error)  { return solutionStatusNames.marshal(s) }
func (s *SolutionStatus) UnmarshalText(b []byte) error { return unmarshalEnum(solutionStatusNames, s, b) }

// SolutionStatusCodes is the sol_stat table.
var SolutionStatusCodes = Dimension[SolutionStatus]{
	Name:    "solution_status",
	Version: "oem6-1",
	codes: map[uint32]SolutionStatus{
		0:  SolComputed,
		1:  InsufficientObservations,
		2:  NoConvergence,
		3:  Singularity,
		4:  CovarianceTraceExceeded,
		5:  TestDistanceExceeded,
		6:  ColdStart,
		7:  HeightVelocityExceeded,
		8:  VarianceExceeded,
		9:  ResidualsTooLarge,
		13: IntegrityWarning,
		18: Pending,
		19: InvalidFix,
		20: Unauthorized,
	},
	invalid: SolutionStatusInvalid,
}

// ---- Position type (OEM6 pos_type) ----

// PositionType is the kind of position fix the receiver produced.
type PositionType uint8

const (
	PositionNone PositionType = iota
	FixedPos
	FixedHeight
	DopplerVelocity
	Single
	PSRDiff
	WAAS
	Propagated
	Omnistar
	L1Float
	IonoFreeFloat
	NarrowFloat
	L1Integer
	NarrowInteger
	OmnistarHP
	OmnistarXP
	PPPConverging
	PPP
	Operational
	Warning
	OutOfBounds
	PPPBasicConverging
	PPPBasic
	PositionTypeInvalid
)

var positionTypeNames = enumNames[PositionType]{kind: "PositionType", names: []string{
	"NONE",
	"FIXED_POS",
	"FIXED_HEIGHT",
	"DOPPLER_VELOCITY",
	"SINGLE",
	"PSR_DIFF",
	"WAAS",
	"PROPAGATED",
	"OMNISTAR",
	"L1_FLOAT",
	"IONO_FREE_FLOAT",
	"NARROW_FLOAT",
	"L1_INTEGER",
	"NARROW_INTEGER",
	"OMNISTAR_HP",
	"OMNISTAR_XP",
	"PPP_CONVERGING",
	"PPP",
	"OPERATIONAL",
	"WARNING",
	"OUT_OF_BOUNDS",
	"PPP_BASIC_CONVERGING",
	"PPP_BASIC",
	"INVALID",
}}

func (p PositionType) String() string                { return positionTypeNames.text(p) }
func (p PositionType) MarshalText() ([]byte, error)  { return positionTypeNames.marshal(p) }
func (p *PositionType) UnmarshalText(b []byte) error { return unmarshalEnum(positionTypeNames, p, b) }

// PositionTypeCodes is the pos_type table.
var PositionTypeCodes = Dimension[PositionType]{
	Name:    "position_type",
	Version: "oem6-1",
	codes: map[uint32]PositionType{
		0:  PositionNone,
		1:  FixedPos,
		2:  FixedHeight,
		8:  DopplerVelocity,
		16: Single,
		17: PSRDiff,
		18: WAAS,
		19: Propagated,
		20: Omnistar,
		32: L1Float,
		33: IonoFreeFloat,
		34: NarrowFloat,
		48: L1Integer,
		50: NarrowInteger,
		64: OmnistarHP,
		65: OmnistarXP,
		68: PPPConverging,
		69: PPP,
		70: Operational,
		71: Warning,
		72: OutOfBounds,
		77: PPPBasicConverging,
		78: PPPBasic,
	},
	invalid: PositionTypeInvalid,
}

// ---- Reference time status (OEM6 GPS reference time status) ----

// RefTimeStatus is the quality of the receiver's GPS reference time.
type RefTimeStatus uint8

const (
	TimeUnknown RefTimeStatus = iota
	TimeApproximate
	TimeCoarseAdjusting
	TimeCoarse
	TimeCoarseSteering
	TimeFreeWheeling
	TimeFineAdjusting
	TimeFine
	TimeFineBackupSteering
	TimeFineSteering
	TimeSatTime
	RefTimeInvalid
)

var refTimeNames = enumNames[RefTimeStatus]{kind: "RefTimeStatus", names: []string{
	"UNKNOWN",
	"APPROXIMATE",
	"COARSE_ADJUSTING",
	"COARSE",
	"COARSE_STEERING",
	"FREE_WHEELING",
	"FINE_ADJUSTING",
	"FINE",
	"FINE_BACKUP_STEERING",
	"FINE_STEERING",
	"SAT_TIME",
	"INVALID",
}}

func (t RefTimeStatus) String() string                { return refTimeNames.text(t) }
func (t RefTimeStatus) MarshalText() ([]byte, error)  { return refTimeNames.marshal(t) }
func (t *RefTimeStatus) UnmarshalText(b []byte) error { return unmarshalEnum(refTimeNames, t, b) }

// RefTimeStatusCodes is the time status table. Note 20 is a known code
// ("Unknown" reference time), distinct from the catch-all.
var RefTimeStatusCodes = Dimension[RefTimeStatus]{
	Name:    "time_status",
	Version: "oem6-1",
	codes: map[uint32]RefTimeStatus{
		20:  TimeUnknown,
		60:  TimeApproximate,
		80:  TimeCoarseAdjusting,
		100: TimeCoarse,
		120: TimeCoarseSteering,
		130: TimeFreeWheeling,
		140: TimeFineAdjusting,
		160: TimeFine,
		170: TimeFineBackupSteering,
		180: TimeFineSteering,
		200: TimeSatTime,
	},
	invalid: RefTimeInvalid,
}

// ---- ACS mode (MAI-400 acs_mode) ----

// ACSMode is the attitude control mode of the MAI-400.
type ACSMode uint8

const (
	ModeTest ACSMode = iota
	ModeRateNulling
	ModeReserved1
	ModeNadirPointing
	ModeLatLongPointing
	ModeQbx
	ModeReserved2
	ModeNormalSun
	ModeLatLongSun
	ModeQinertial
	ModeReserved3
	ModeQtable
	ModeSunRam
	ACSModeInvalid
)

var acsModeNames = enumNames[ACSMode]{kind: "ACSMode", names: []string{
	"TEST_MODE",
	"RATE_NULLING",
	"RESERVED1",
	"NADIR_POINTING",
	"LAT_LONG_POINTING",
	"QBX_MODE",
	"RESERVED2",
	"NORMAL_SUN",
	"LAT_LONG_SUN",
	"QINTERTIAL",
	"RESERVED3",
	"QTABLE",
	"SUN_RAM",
	"INVALID",
}}

func (m ACSMode) String() string                { return acsModeNames.text(m) }
func (m ACSMode) MarshalText() ([]byte, error)  { return acsModeNames.marshal(m) }
func (m *ACSMode) UnmarshalText(b []byte) error { return unmarshalEnum(acsModeNames, m, b) }

// Raw returns the device code for a commandable mode.
func (m ACSMode) Raw() (uint8, bool) {
	if m >= ACSModeInvalid {
		return 0, false
	}
	return uint8(m), true
}

// ACSModeCodes is the acs_mode table. The codes happen to be dense today but
// are still looked up, not derived.
var ACSModeCodes = Dimension[ACSMode]{
	Name:    "acs_mode",
	Version: "mai400-1",
	codes: map[uint32]ACSMode{
		0:  ModeTest,
		1:  ModeRateNulling,
		2:  ModeReserved1,
		3:  ModeNadirPointing,
		4:  ModeLatLongPointing,
		5:  ModeQbx,
		6:  ModeReserved2,
		7:  ModeNormalSun,
		8:  ModeLatLongSun,
		9:  ModeQinertial,
		10: ModeReserved3,
		11: ModeQtable,
		12: ModeSunRam,
	},
	invalid: ACSModeInvalid,
}

func unmarshalEnum[T ~uint8](names enumNames[T], dst *T, b []byte) error {
	v, err := names.parse(b)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

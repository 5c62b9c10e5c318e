// Package model holds the raw, hardware-native telemetry blocks handed over by
// device drivers. Field widths mirror the device register maps; nothing in
// this package interprets a value.
package model

// StandardTelemetry is the MAI-400 standard telemetry message, emitted by the
// device at 4 Hz.
type StandardTelemetry struct {
	TlmCounter           uint8
	GPSTime              uint32
	TimeSubsec           uint8
	CmdValidCntr         uint16
	CmdInvalidCntr       uint16
	CmdInvalidChksumCntr uint16
	LastCommand          uint8
	ACSMode              uint8
	CSS                  [6]uint16
	EclipseFlag          uint8
	SunVecB              [3]int16
	IBFieldMeas          [3]int16
	Bd                   [3]float32
	RWSSpeedCmd          [3]int16
	RWSSpeedTach         [3]int16
	RWATorqueCmd         [3]float32
	GCRWATorqueCmd       [3]int8
	TorqueCoilCmd        [3]float32
	GCTorqueCoilCmd      [3]int8
	QboCmd               [4]int16
	QboHat               [4]int16
	AngleToGo            float32
	QError               [4]int16
	OmegaB               [3]float32
	RotatingVariableA    uint32
	RotatingVariableB    uint32
	RotatingVariableC    uint32
	Nb                   [3]int16
	Neci                 [3]int16
	CRC                  uint16
}

// ConfigInfo is the MAI-400 configuration/version block.
type ConfigInfo struct {
	Model  uint8
	Serial uint16
	Major  uint8
	Minor  uint8
	Build  uint16
	NEHS   uint8
	// EHSType and STType carry the equipment-type discriminant bytes.
	EHSType [2]uint8
	NST     uint8
	STType  [2]uint8
}

// IREHSTelemetry is the infrared earth horizon sensor block.
type IREHSTelemetry struct {
	ThermopilesA [4]uint16
	ThermopilesB [4]uint16
	TempA        [4]uint16
	TempB        [4]uint16
	DipAngleA    int16
	DipAngleB    int16
	// SolutionDegraded holds one flag byte per thermopile.
	SolutionDegraded [8]uint8
}

// RawIMU is the raw inertial measurement unit block.
type RawIMU struct {
	Accel    [3]int16
	Gyro     [3]int16
	GyroTemp uint8
}

// KeplerElem is the orbital element set the device keeps for propagation.
type KeplerElem struct {
	SemiMajorAxis float32
	Eccentricity  float32
	Inclination   float32
	Raan          float32
	ArgParigee    float32
	TrueAnomoly   float32
}

// RotatingTelemetry holds the slowly-changing parameters the device cycles
// through one register group at a time.
type RotatingTelemetry struct {
	BFieldIGRF           [3]float32
	SunVecEph            [3]float32
	ScPosECI             [3]float32
	ScVelECI             [3]float32
	KeplerElem           KeplerElem
	KBdot                [3]float32
	Kp                   [3]float32
	Kd                   [3]float32
	KUnload              [3]float32
	CSSBias              [6]int16
	MagBias              [3]int16
	RWSVolt              int16
	RWSPress             int16
	AttDetMode           uint8
	RWSResetCntr         [3]uint8
	SunMagAligned        uint8
	MinorVersion         uint8
	MaiSN                uint8
	OrbitPropMode        uint8
	ACSOpMode            uint8
	ProcResetCntr        uint8
	MajorVersion         uint8
	ADSOpMode            uint8
	CSSGain              [6]float32
	MagGain              [3]float32
	OrbitEpoch           uint32
	TrueAnomolyEpoch     float32
	OrbitEpochNext       uint32
	ScPosECIEpoch        [3]float32
	ScVelECIEpoch        [3]float32
	QbXWheelSpeed        int16
	QbXFilterGain        float32
	QbXDipoleGain        float32
	DipoleGain           [3]float32
	WheelSpeedBias       [3]int16
	CosSunMagAlignThresh float32
	UnloadAngThresh      float32
	QSat                 float32
	RawTrqMax            float32
	RWSMotorCurrent      [3]uint16
	RawMotorTemp         int16
}

// ADCSTelemetryBlock is one complete read of the attitude-control computer.
type ADCSTelemetryBlock struct {
	Standard StandardTelemetry
	Config   ConfigInfo
	IREHS    IREHSTelemetry
	IMU      RawIMU
	Rotating RotatingTelemetry
}

// PowerState is the raw power condition reported by a driver.
type PowerState uint8

const (
	PowerOff PowerState = iota
	PowerOn
	PowerReset
)

// PowerReading is what a driver reports for a power query.
type PowerReading struct {
	State PowerState
	// Uptime is in seconds since the device last powered on.
	Uptime uint32
}

// OrbitUpdate carries orbital state pushed to the device. Positions are
// kilometres, velocities km/s, both ECI.
type OrbitUpdate struct {
	EciPos    [3]float32
	EciVel    [3]float32
	TimeEpoch uint32
}

package core

import "github.com/signalsfoundry/subsystem-services/model"

// StdTelemetry is the projected MAI-400 standard telemetry message.
type StdTelemetry struct {
	TlmCounter           int64   `json:"tlmCounter"`
	GPSTime              int64   `json:"gpsTime"`
	TimeSubsec           int64   `json:"timeSubsec"`
	CmdValidCntr         int64   `json:"cmdValidCntr"`
	CmdInvalidCntr       int64   `json:"cmdInvalidCntr"`
	CmdInvalidChksumCntr int64   `json:"cmdInvalidChksumCntr"`
	LastCommand          int64   `json:"lastCommand"`
	ACSMode              int64   `json:"acsMode"`
	CSS                  []int64 `json:"css"`
	EclipseFlag          int64   `json:"eclipseFlag"`
	SunVecB              []int64 `json:"sunVecB"`
	IBFieldMeas          []int64 `json:"iBFieldMeas"`
	Bd                   []Real  `json:"bd"`
	RWSSpeedCmd          []int64 `json:"rwsSpeedCmd"`
	RWSSpeedTach         []int64 `json:"rwsSpeedTach"`
	RWATorqueCmd         []Real  `json:"rwaTorqueCmd"`
	GCRWATorqueCmd       []int64 `json:"gcRwaTorqueCmd"`
	TorqueCoilCmd        []Real  `json:"torqueCoilCmd"`
	GCTorqueCoilCmd      []int64 `json:"gcTorqueCoilCmd"`
	QboCmd               []int64 `json:"qboCmd"`
	QboHat               []int64 `json:"qboHat"`
	AngleToGo            Real    `json:"angleToGo"`
	QError               []int64 `json:"qError"`
	OmegaB               []Real  `json:"omegaB"`
	RotatingVariableA    int64   `json:"rotatingVariableA"`
	RotatingVariableB    int64   `json:"rotatingVariableB"`
	RotatingVariableC    int64   `json:"rotatingVariableC"`
	Nb                   []int64 `json:"nb"`
	Neci                 []int64 `json:"neci"`
	CRC                  int64   `json:"crc"`
}

// ProjectStandard widens the standard telemetry message.
func ProjectStandard(raw *model.StandardTelemetry) StdTelemetry {
	return StdTelemetry{
		TlmCounter:           WidenInt(raw.TlmCounter),
		GPSTime:              WidenInt(raw.GPSTime),
		TimeSubsec:           WidenInt(raw.TimeSubsec),
		CmdValidCntr:         WidenInt(raw.CmdValidCntr),
		CmdInvalidCntr:       WidenInt(raw.CmdInvalidCntr),
		CmdInvalidChksumCntr: WidenInt(raw.CmdInvalidChksumCntr),
		LastCommand:          WidenInt(raw.LastCommand),
		ACSMode:              WidenInt(raw.ACSMode),
		CSS:                  WidenInts(raw.CSS[:]),
		EclipseFlag:          WidenInt(raw.EclipseFlag),
		SunVecB:              WidenInts(raw.SunVecB[:]),
		IBFieldMeas:          WidenInts(raw.IBFieldMeas[:]),
		Bd:                   WidenFloats(raw.Bd[:]),
		RWSSpeedCmd:          WidenInts(raw.RWSSpeedCmd[:]),
		RWSSpeedTach:         WidenInts(raw.RWSSpeedTach[:]),
		RWATorqueCmd:         WidenFloats(raw.RWATorqueCmd[:]),
		GCRWATorqueCmd:       WidenInts(raw.GCRWATorqueCmd[:]),
		TorqueCoilCmd:        WidenFloats(raw.TorqueCoilCmd[:]),
		GCTorqueCoilCmd:      WidenInts(raw.GCTorqueCoilCmd[:]),
		QboCmd:               WidenInts(raw.QboCmd[:]),
		QboHat:               WidenInts(raw.QboHat[:]),
		AngleToGo:            WidenFloat(raw.AngleToGo),
		QError:               WidenInts(raw.QError[:]),
		OmegaB:               WidenFloats(raw.OmegaB[:]),
		RotatingVariableA:    WidenInt(raw.RotatingVariableA),
		RotatingVariableB:    WidenInt(raw.RotatingVariableB),
		RotatingVariableC:    WidenInt(raw.RotatingVariableC),
		Nb:                   WidenInts(raw.Nb[:]),
		Neci:                 WidenInts(raw.Neci[:]),
		CRC:                  WidenInt(raw.CRC),
	}
}

// Config is the projected configuration/version block.
type Config struct {
	Model   int64         `json:"model"`
	Serial  int64         `json:"serial"`
	Major   int64         `json:"major"`
	Minor   int64         `json:"minor"`
	Build   int64         `json:"build"`
	NEHS    int64         `json:"nEhs"`
	EHSType Unimplemented `json:"ehsType"`
	NST     int64         `json:"nSt"`
	STType  Unimplemented `json:"stType"`
}

// ProjectConfig widens the configuration block. The equipment-type
// discriminants have no decoder yet.
func ProjectConfig(raw *model.ConfigInfo) Config {
	return Config{
		Model:   WidenInt(raw.Model),
		Serial:  WidenInt(raw.Serial),
		Major:   WidenInt(raw.Major),
		Minor:   WidenInt(raw.Minor),
		Build:   WidenInt(raw.Build),
		NEHS:    WidenInt(raw.NEHS),
		EHSType: NotImplemented("ehs_type"),
		NST:     WidenInt(raw.NST),
		STType:  NotImplemented("st_type"),
	}
}

// IREHS is the projected infrared earth horizon sensor block.
type IREHS struct {
	ThermopilesA     []int64       `json:"thermopilesA"`
	ThermopilesB     []int64       `json:"thermopilesB"`
	TempA            []int64       `json:"tempA"`
	TempB            []int64       `json:"tempB"`
	DipAngleA        int64         `json:"dipAngleA"`
	DipAngleB        int64         `json:"dipAngleB"`
	SolutionDegraded Unimplemented `json:"solutionDegraded"`
}

// ProjectIREHS widens the IREHS block. The solution-degraded flags have no
// decoder yet.
func ProjectIREHS(raw *model.IREHSTelemetry) IREHS {
	return IREHS{
		ThermopilesA:     WidenInts(raw.ThermopilesA[:]),
		ThermopilesB:     WidenInts(raw.ThermopilesB[:]),
		TempA:            WidenInts(raw.TempA[:]),
		TempB:            WidenInts(raw.TempB[:]),
		DipAngleA:        WidenInt(raw.DipAngleA),
		DipAngleB:        WidenInt(raw.DipAngleB),
		SolutionDegraded: NotImplemented("solution_degraded"),
	}
}

// RawIMU is the projected raw IMU block.
type RawIMU struct {
	Accel    []int64 `json:"accel"`
	Gyro     []int64 `json:"gyro"`
	GyroTemp int64   `json:"gyroTemp"`
}

func ProjectRawIMU(raw *model.RawIMU) RawIMU {
	return RawIMU{
		Accel:    WidenInts(raw.Accel[:]),
		Gyro:     WidenInts(raw.Gyro[:]),
		GyroTemp: WidenInt(raw.GyroTemp),
	}
}

// KeplerElem is the projected orbital element set.
type KeplerElem struct {
	SemiMajorAxis Real `json:"semiMajorAxis"`
	Eccentricity  Real `json:"eccentricity"`
	Inclination   Real `json:"inclination"`
	Raan          Real `json:"raan"`
	ArgParigee    Real `json:"argParigee"`
	TrueAnomoly   Real `json:"trueAnomoly"`
}

// Rotating is the projected rotating-parameter block.
type Rotating struct {
	BFieldIGRF           []Real     `json:"bFieldIgrf"`
	SunVecEph            []Real     `json:"sunVecEph"`
	ScPosECI             []Real     `json:"scPosEci"`
	ScVelECI             []Real     `json:"scVelEci"`
	KeplerElem           KeplerElem `json:"keplerElem"`
	KBdot                []Real     `json:"kBdot"`
	Kp                   []Real     `json:"kp"`
	Kd                   []Real     `json:"kd"`
	KUnload              []Real     `json:"kUnload"`
	CSSBias              []int64    `json:"cssBias"`
	MagBias              []int64    `json:"magBias"`
	RWSVolt              int64      `json:"rwsVolt"`
	RWSPress             int64      `json:"rwsPress"`
	AttDetMode           int64      `json:"attDetMode"`
	RWSResetCntr         []int64    `json:"rwsResetCntr"`
	SunMagAligned        int64      `json:"sunMagAligned"`
	MinorVersion         int64      `json:"minorVersion"`
	MaiSN                int64      `json:"maiSn"`
	OrbitPropMode        int64      `json:"orbitPropMode"`
	ACSOpMode            int64      `json:"acsOpMode"`
	ProcResetCntr        int64      `json:"procResetCntr"`
	MajorVersion         int64      `json:"majorVersion"`
	ADSOpMode            int64      `json:"adsOpMode"`
	CSSGain              []Real     `json:"cssGain"`
	MagGain              []Real     `json:"magGain"`
	OrbitEpoch           int64      `json:"orbitEpoch"`
	TrueAnomolyEpoch     Real       `json:"trueAnomolyEpoch"`
	OrbitEpochNext       int64      `json:"orbitEpochNext"`
	ScPosECIEpoch        []Real     `json:"scPosEciEpoch"`
	ScVelECIEpoch        []Real     `json:"scVelEciEpoch"`
	QbXWheelSpeed        int64      `json:"qbXWheelSpeed"`
	QbXFilterGain        Real       `json:"qbXFilterGain"`
	QbXDipoleGain        Real       `json:"qbXDipoleGain"`
	DipoleGain           []Real     `json:"dipoleGain"`
	WheelSpeedBias       []int64    `json:"wheelSpeedBias"`
	CosSunMagAlignThresh Real       `json:"cosSunMagAlignThresh"`
	UnloadAngThresh      Real       `json:"unloadAngThresh"`
	QSat                 Real       `json:"qSat"`
	RawTrqMax            Real       `json:"rawTrqMax"`
	RWSMotorCurrent      []int64    `json:"rwsMotorCurrent"`
	RawMotorTemp         int64      `json:"rawMotorTemp"`
}

func ProjectRotating(raw *model.RotatingTelemetry) Rotating {
	k := &raw.KeplerElem
	return Rotating{
		BFieldIGRF: WidenFloats(raw.BFieldIGRF[:]),
		SunVecEph:  WidenFloats(raw.SunVecEph[:]),
		ScPosECI:   WidenFloats(raw.ScPosECI[:]),
		ScVelECI:   WidenFloats(raw.ScVelECI[:]),
		KeplerElem: KeplerElem{
			SemiMajorAxis: WidenFloat(k.SemiMajorAxis),
			Eccentricity:  WidenFloat(k.Eccentricity),
			Inclination:   WidenFloat(k.Inclination),
			Raan:          WidenFloat(k.Raan),
			ArgParigee:    WidenFloat(k.ArgParigee),
			TrueAnomoly:   WidenFloat(k.TrueAnomoly),
		},
		KBdot:                WidenFloats(raw.KBdot[:]),
		Kp:                   WidenFloats(raw.Kp[:]),
		Kd:                   WidenFloats(raw.Kd[:]),
		KUnload:              WidenFloats(raw.KUnload[:]),
		CSSBias:              WidenInts(raw.CSSBias[:]),
		MagBias:              WidenInts(raw.MagBias[:]),
		RWSVolt:              WidenInt(raw.RWSVolt),
		RWSPress:             WidenInt(raw.RWSPress),
		AttDetMode:           WidenInt(raw.AttDetMode),
		RWSResetCntr:         WidenInts(raw.RWSResetCntr[:]),
		SunMagAligned:        WidenInt(raw.SunMagAligned),
		MinorVersion:         WidenInt(raw.MinorVersion),
		MaiSN:                WidenInt(raw.MaiSN),
		OrbitPropMode:        WidenInt(raw.OrbitPropMode),
		ACSOpMode:            WidenInt(raw.ACSOpMode),
		ProcResetCntr:        WidenInt(raw.ProcResetCntr),
		MajorVersion:         WidenInt(raw.MajorVersion),
		ADSOpMode:            WidenInt(raw.ADSOpMode),
		CSSGain:              WidenFloats(raw.CSSGain[:]),
		MagGain:              WidenFloats(raw.MagGain[:]),
		OrbitEpoch:           WidenInt(raw.OrbitEpoch),
		TrueAnomolyEpoch:     WidenFloat(raw.TrueAnomolyEpoch),
		OrbitEpochNext:       WidenInt(raw.OrbitEpochNext),
		ScPosECIEpoch:        WidenFloats(raw.ScPosECIEpoch[:]),
		ScVelECIEpoch:        WidenFloats(raw.ScVelECIEpoch[:]),
		QbXWheelSpeed:        WidenInt(raw.QbXWheelSpeed),
		QbXFilterGain:        WidenFloat(raw.QbXFilterGain),
		QbXDipoleGain:        WidenFloat(raw.QbXDipoleGain),
		DipoleGain:           WidenFloats(raw.DipoleGain[:]),
		WheelSpeedBias:       WidenInts(raw.WheelSpeedBias[:]),
		CosSunMagAlignThresh: WidenFloat(raw.CosSunMagAlignThresh),
		UnloadAngThresh:      WidenFloat(raw.UnloadAngThresh),
		QSat:                 WidenFloat(raw.QSat),
		RawTrqMax:            WidenFloat(raw.RawTrqMax),
		RWSMotorCurrent:      WidenInts(raw.RWSMotorCurrent[:]),
		RawMotorTemp:         WidenInt(raw.RawMotorTemp),
	}
}

// ADCSNominal is the nominal telemetry view.
type ADCSNominal struct {
	Std StdTelemetry `json:"std"`
}

// ADCSDebug is the debug telemetry view.
type ADCSDebug struct {
	Config   Config   `json:"config"`
	IREHS    IREHS    `json:"irehs"`
	RawIMU   RawIMU   `json:"rawImu"`
	Rotating Rotating `json:"rotating"`
}

// ADCSTelemetry is the full snapshot of one MAI-400 read.
type ADCSTelemetry struct {
	Nominal ADCSNominal `json:"nominal"`
	Debug   ADCSDebug   `json:"debug"`
}

// ProjectADCS builds the snapshot for a raw block. It performs no I/O, keeps
// no reference to b, and returns equal snapshots for equal blocks.
func ProjectADCS(b *model.ADCSTelemetryBlock) ADCSTelemetry {
	return ADCSTelemetry{
		Nominal: ProjectADCSNominal(b),
		Debug:   ProjectADCSDebug(b),
	}
}

func ProjectADCSNominal(b *model.ADCSTelemetryBlock) ADCSNominal {
	return ADCSNominal{Std: ProjectStandard(&b.Standard)}
}

func ProjectADCSDebug(b *model.ADCSTelemetryBlock) ADCSDebug {
	return ADCSDebug{
		Config:   ProjectConfig(&b.Config),
		IREHS:    ProjectIREHS(&b.IREHS),
		RawIMU:   ProjectRawIMU(&b.IMU),
		Rotating: ProjectRotating(&b.Rotating),
	}
}

// Spin is the body angular rate, axes x/y/z.
type Spin struct {
	X Real `json:"x"`
	Y Real `json:"y"`
	Z Real `json:"z"`
}

// ProjectSpin reads the body rate from omega_b.
func ProjectSpin(raw *model.StandardTelemetry) Spin {
	return Spin{
		X: WidenFloat(raw.OmegaB[0]),
		Y: WidenFloat(raw.OmegaB[1]),
		Z: WidenFloat(raw.OmegaB[2]),
	}
}

// DecodeMode decodes the current ACS mode.
func DecodeMode(raw *model.StandardTelemetry) ACSMode {
	return ACSModeCodes.Decode(uint32(raw.ACSMode))
}

package sim

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/internal/device"
	"github.com/signalsfoundry/subsystem-services/model"
	"github.com/signalsfoundry/subsystem-services/timectrl"
)

// MAI-400 command ids as they appear in LastCommand.
const (
	maiCmdSetMode    uint8 = 0x00
	maiCmdSetRV      uint8 = 0x41
	maiCmdSetGPSTime uint8 = 0x44
)

const (
	maiModel        = 4
	maiMajorVersion = 4
	maiMinorVersion = 2
	maiBuild        = 118

	earthRadiusKm = 6378.137
)

var gpsEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// gpsLeapSeconds is GPS-UTC as of 2017.
const gpsLeapSeconds = 18 * time.Second

// ADCSOptions configures a simulated MAI-400.
type ADCSOptions struct {
	Clock  timectrl.Clock
	Orbit  OrbitSource
	Serial uint16
}

// ADCS is a simulated MAI-400. It implements device.ADCS.
type ADCS struct {
	faults

	clock  timectrl.Clock
	orbit  OrbitSource
	serial uint16

	mu          sync.Mutex
	power       powerMachine
	mode        uint8
	modeParams  []int16
	gpsOffset   time.Duration
	pushedOrbit *model.OrbitUpdate
	lastRaw     []byte
	lastCommand uint8
	validCmds   uint16
	invalidCmds uint16
	resets      uint8
}

var _ device.ADCS = (*ADCS)(nil)

// NewADCS returns a powered-on device in test mode.
func NewADCS(opts ADCSOptions) *ADCS {
	if opts.Clock == nil {
		opts.Clock = timectrl.NewWallClock(time.Time{})
	}
	if opts.Orbit == nil {
		opts.Orbit = defaultStaticOrbit()
	}
	if opts.Serial == 0 {
		opts.Serial = 1001
	}
	return &ADCS{
		clock:  opts.Clock,
		orbit:  opts.Orbit,
		serial: opts.Serial,
		power:  newPowerMachine(opts.Clock.Now()),
	}
}

func (a *ADCS) Power(ctx context.Context) (model.PowerReading, error) {
	if err := a.check(ctx, OpPower); err != nil {
		return model.PowerReading{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.power.reading(a.clock.Now()), nil
}

func (a *ADCS) SetPower(ctx context.Context, state model.PowerState) error {
	if err := a.check(ctx, OpSetPower); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if state == model.PowerReset {
		a.resets++
	}
	a.power.set(a.clock.Now(), state)
	return nil
}

func (a *ADCS) SetMode(ctx context.Context, mode uint8, params []int16) error {
	if err := a.check(ctx, OpSetMode); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.answering(); err != nil {
		return err
	}
	if !core.ACSModeCodes.Known(uint32(mode)) {
		a.invalidCmds++
		return fmt.Errorf("mai400: mode %d rejected", mode)
	}
	a.mode = mode
	a.modeParams = append([]int16(nil), params...)
	a.accept(maiCmdSetMode)
	return nil
}

func (a *ADCS) SetGPSTime(ctx context.Context, gpsTime uint32) error {
	if err := a.check(ctx, OpSetGPSTime); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.answering(); err != nil {
		return err
	}
	now := a.clock.Now()
	a.gpsOffset = time.Duration(gpsTime)*time.Second - gpsSince(now)
	a.accept(maiCmdSetGPSTime)
	return nil
}

func (a *ADCS) SetOrbit(ctx context.Context, rv model.OrbitUpdate) error {
	if err := a.check(ctx, OpSetOrbit); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.answering(); err != nil {
		return err
	}
	cp := rv
	a.pushedOrbit = &cp
	a.accept(maiCmdSetRV)
	return nil
}

func (a *ADCS) Passthrough(ctx context.Context, raw []byte) error {
	if err := a.check(ctx, OpPassthrough); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.answering(); err != nil {
		return err
	}
	a.lastRaw = append([]byte(nil), raw...)
	if len(raw) > 0 {
		a.accept(raw[0])
	}
	return nil
}

func (a *ADCS) SelfTest(ctx context.Context) (string, error) {
	if err := a.check(ctx, OpSelfTest); err != nil {
		return fmt.Sprintf("MAI-400 BIT serial=%d: FAIL", a.serial), err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.answering(); err != nil {
		return "", err
	}
	return fmt.Sprintf("MAI-400 BIT serial=%d fw=%d.%d.%d: PASS", a.serial, maiMajorVersion, maiMinorVersion, maiBuild), nil
}

// ReadTelemetry builds one telemetry read from the clock and orbit.
func (a *ADCS) ReadTelemetry(ctx context.Context) (*model.ADCSTelemetryBlock, error) {
	if err := a.check(ctx, OpReadTelemetry); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.answering(); err != nil {
		return nil, err
	}

	now := a.clock.Now()
	eci := a.orbit.ECI(now)
	b := &model.ADCSTelemetryBlock{}
	a.fillStandard(&b.Standard, now, eci)
	a.fillConfig(&b.Config)
	a.fillIREHS(&b.IREHS, now)
	a.fillIMU(&b.IMU, &b.Standard)
	a.fillRotating(&b.Rotating, eci)
	return b, nil
}

// LastRawCommand returns a copy of the last passthrough payload.
func (a *ADCS) LastRawCommand() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]byte(nil), a.lastRaw...)
}

// ModeParams returns the parameters of the last accepted mode command.
func (a *ADCS) ModeParams() []int16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int16(nil), a.modeParams...)
}

// PushedOrbit returns the last orbit update, if any.
func (a *ADCS) PushedOrbit() (model.OrbitUpdate, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pushedOrbit == nil {
		return model.OrbitUpdate{}, false
	}
	return *a.pushedOrbit, true
}

func (a *ADCS) answering() error {
	if !a.power.on(a.clock.Now()) {
		return fmt.Errorf("mai400: %w", device.ErrUnavailable)
	}
	return nil
}

func (a *ADCS) accept(cmd uint8) {
	a.validCmds++
	a.lastCommand = cmd
}

func gpsSince(t time.Time) time.Duration {
	return t.UTC().Sub(gpsEpoch) + gpsLeapSeconds
}

func (a *ADCS) fillStandard(s *model.StandardTelemetry, now time.Time, eci StateVector) {
	elapsed := a.power.uptime(now)
	gps := gpsSince(now) + a.gpsOffset
	if gps < 0 {
		gps = 0
	}

	s.TlmCounter = uint8(elapsed / (250 * time.Millisecond))
	s.GPSTime = uint32(gps / time.Second)
	s.TimeSubsec = uint8((gps % time.Second) / (250 * time.Millisecond))
	s.CmdValidCntr = a.validCmds
	s.CmdInvalidCntr = a.invalidCmds
	s.LastCommand = a.lastCommand
	s.ACSMode = a.mode

	sun := [3]float64{1, 0, 0}
	eclipsed := inShadow(eci.Position, sun)
	if eclipsed {
		s.EclipseFlag = 1
	} else {
		for i := range s.CSS {
			axis := i / 2
			sign := 1.0
			if i%2 == 1 {
				sign = -1
			}
			s.CSS[i] = uint16(3000 * math.Max(0, sign*sun[axis]))
		}
	}
	for i := 0; i < 3; i++ {
		s.SunVecB[i] = int16(sun[i] * 10000)
		s.Nb[i] = s.SunVecB[i]
		s.Neci[i] = s.SunVecB[i]
	}

	r := norm(eci.Position)
	if r > 0 {
		field := 30000 * math.Pow(earthRadiusKm/r, 3)
		for i := 0; i < 3; i++ {
			s.IBFieldMeas[i] = int16(-field * eci.Position[i] / r / 10)
			s.Bd[i] = float32(-field * eci.Position[i] / r * 1e-9)
		}
	}

	rate := orbitRate(eci)
	switch core.ACSModeCodes.Decode(uint32(a.mode)) {
	case core.ModeTest:
		s.OmegaB = [3]float32{0.002, -0.001, 0.0005}
	case core.ModeRateNulling:
		s.OmegaB = [3]float32{0, 0, 0}
	default:
		s.OmegaB = [3]float32{0, float32(-rate), 0}
	}

	s.QboCmd = [4]int16{0, 0, 0, 10000}
	s.QboHat = [4]int16{0, 0, 0, 10000}
	for i := range s.RWSSpeedCmd {
		if i < len(a.modeParams) {
			s.RWSSpeedCmd[i] = a.modeParams[i]
			s.RWSSpeedTach[i] = a.modeParams[i]
		}
	}
	s.RotatingVariableA = uint32(elapsed / time.Second)
	s.CRC = crc16(s)
}

func (a *ADCS) fillConfig(c *model.ConfigInfo) {
	c.Model = maiModel
	c.Serial = a.serial
	c.Major = maiMajorVersion
	c.Minor = maiMinorVersion
	c.Build = maiBuild
	c.NEHS = 1
	c.EHSType = [2]uint8{1, 0}
}

func (a *ADCS) fillIREHS(h *model.IREHSTelemetry, now time.Time) {
	wobble := uint16(now.Unix() % 16)
	for i := 0; i < 4; i++ {
		h.ThermopilesA[i] = 1800 + uint16(i)*10 + wobble
		h.ThermopilesB[i] = 1810 + uint16(i)*10 + wobble
		h.TempA[i] = 2950
		h.TempB[i] = 2952
	}
}

func (a *ADCS) fillIMU(m *model.RawIMU, s *model.StandardTelemetry) {
	for i := 0; i < 3; i++ {
		m.Gyro[i] = int16(s.OmegaB[i] * 1000)
	}
	m.GyroTemp = 31
}

func (a *ADCS) fillRotating(rt *model.RotatingTelemetry, eci StateVector) {
	for i := 0; i < 3; i++ {
		rt.ScPosECI[i] = float32(eci.Position[i])
		rt.ScVelECI[i] = float32(eci.Velocity[i])
		rt.Kp[i] = 0.05
		rt.Kd[i] = 0.5
		rt.KBdot[i] = 1e-4
		rt.KUnload[i] = 1e-3
		rt.MagGain[i] = 1
		rt.DipoleGain[i] = 1
	}
	for i := range rt.CSSGain {
		rt.CSSGain[i] = 1
	}
	rt.SunVecEph = [3]float32{1, 0, 0}

	k := KeplerFromState(eci)
	rt.KeplerElem = model.KeplerElem{
		SemiMajorAxis: float32(k.SemiMajorAxis),
		Eccentricity:  float32(k.Eccentricity),
		Inclination:   float32(k.Inclination),
		Raan:          float32(k.Raan),
		ArgParigee:    float32(k.ArgPerigee),
		TrueAnomoly:   float32(k.TrueAnomaly),
	}

	if p := a.pushedOrbit; p != nil {
		rt.OrbitEpoch = p.TimeEpoch
		rt.ScPosECIEpoch = p.EciPos
		rt.ScVelECIEpoch = p.EciVel
		rt.OrbitPropMode = 1
	}

	rt.RWSVolt = 1200
	rt.RWSPress = 101
	rt.MaiSN = uint8(a.serial)
	rt.MajorVersion = maiMajorVersion
	rt.MinorVersion = maiMinorVersion
	rt.ACSOpMode = a.mode
	rt.ProcResetCntr = a.resets
	rt.CosSunMagAlignThresh = 0.95
	rt.UnloadAngThresh = 0.1
	rt.QSat = 0.1
	rt.RawTrqMax = 0.005
	rt.RawMotorTemp = 25
}

// inShadow applies a cylindrical Earth shadow model.
func inShadow(pos, sun [3]float64) bool {
	along := dot(pos, sun)
	if along >= 0 {
		return false
	}
	perp := [3]float64{pos[0] - along*sun[0], pos[1] - along*sun[1], pos[2] - along*sun[2]}
	return norm(perp) < earthRadiusKm
}

// orbitRate is the mean motion of the current state, in rad/s.
func orbitRate(sv StateVector) float64 {
	r := norm(sv.Position)
	if r == 0 {
		return 0
	}
	return norm(cross(sv.Position, sv.Velocity)) / (r * r)
}

// crc16 is CRC-16/CCITT-FALSE over the standard message, excluding the CRC
// field itself.
func crc16(s *model.StandardTelemetry) uint16 {
	cp := *s
	cp.CRC = 0
	buf := make([]byte, binary.Size(cp))
	if _, err := binary.Encode(buf, binary.LittleEndian, cp); err != nil {
		return 0
	}
	crc := uint16(0xFFFF)
	for _, b := range buf[:len(buf)-2] {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

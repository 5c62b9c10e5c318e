package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/internal/device"
	"github.com/signalsfoundry/subsystem-services/model"
	"github.com/signalsfoundry/subsystem-services/timectrl"
)

// Acquisition milestones after power-on.
const (
	coarseLockAfter = 30 * time.Second
	fineLockAfter   = 120 * time.Second
)

// Raw OEM6 codes the simulator reports.
const (
	oemSolComputed      = 0
	oemInsufficientObs  = 1
	oemPosNone          = 0
	oemPosSingle        = 16
	oemTimeUnknown      = 20
	oemTimeCoarse       = 100
	oemTimeFineSteering = 180
)

// GNSSOptions configures a simulated OEM6 receiver.
type GNSSOptions struct {
	Clock  timectrl.Clock
	Orbit  OrbitSource
	Serial string
}

// GNSS is a simulated OEM6 receiver. It implements device.GNSS.
type GNSS struct {
	faults

	clock  timectrl.Clock
	orbit  OrbitSource
	serial string

	mu      sync.Mutex
	power   powerMachine
	logs    []core.LogConfig
	lastFix model.LockInfoBlock
	lastRaw []byte
	resets  int
}

var _ device.GNSS = (*GNSS)(nil)

// NewGNSS returns a powered-on receiver with no logs configured.
func NewGNSS(opts GNSSOptions) *GNSS {
	if opts.Clock == nil {
		opts.Clock = timectrl.NewWallClock(time.Time{})
	}
	if opts.Orbit == nil {
		opts.Orbit = defaultStaticOrbit()
	}
	if opts.Serial == "" {
		opts.Serial = "BJYA15190061V"
	}
	return &GNSS{
		clock:  opts.Clock,
		orbit:  opts.Orbit,
		serial: opts.Serial,
		power:  newPowerMachine(opts.Clock.Now()),
	}
}

func (g *GNSS) Power(ctx context.Context) (model.PowerReading, error) {
	if err := g.check(ctx, OpPower); err != nil {
		return model.PowerReading{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.power.reading(g.clock.Now()), nil
}

// Reset restarts the receiver. Configured logs do not survive a reset.
func (g *GNSS) Reset(ctx context.Context) error {
	if err := g.check(ctx, OpReset); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.power.set(g.clock.Now(), model.PowerReset)
	g.logs = nil
	g.resets++
	return nil
}

func (g *GNSS) Configure(ctx context.Context, cfg []core.LogConfig) error {
	if err := g.check(ctx, OpConfigure); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.answering(); err != nil {
		return err
	}

	logs := append([]core.LogConfig(nil), g.logs...)
	for _, c := range cfg {
		if c.Interval < 0 || c.Offset < 0 {
			return fmt.Errorf("oem6: %s: interval and offset must not be negative", c.Option)
		}
		if c.Interval > 0 && c.Offset >= c.Interval {
			return fmt.Errorf("oem6: %s: offset %.3fs must be less than interval %.3fs", c.Option, c.Offset, c.Interval)
		}
		switch c.Option {
		case core.LogErrorData, core.LogPositionData:
			logs = append(removeLog(logs, c.Option), c)
		case core.UnlogErrorData:
			logs = removeLog(logs, core.LogErrorData)
		case core.UnlogPositionData:
			logs = removeLog(logs, core.LogPositionData)
		case core.UnlogAll:
			logs = nil
		default:
			return fmt.Errorf("oem6: unknown log option %d", c.Option)
		}
	}
	g.logs = logs
	return nil
}

func removeLog(logs []core.LogConfig, opt core.ConfigOption) []core.LogConfig {
	out := logs[:0]
	for _, l := range logs {
		if l.Option != opt {
			out = append(out, l)
		}
	}
	return out
}

func (g *GNSS) Passthrough(ctx context.Context, raw []byte) error {
	if err := g.check(ctx, OpPassthrough); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.answering(); err != nil {
		return err
	}
	g.lastRaw = append([]byte(nil), raw...)
	return nil
}

func (g *GNSS) SelfTest(ctx context.Context) (string, error) {
	if err := g.check(ctx, OpSelfTest); err != nil {
		return fmt.Sprintf("OEM6 RXSTATUS serial=%s: error word set", g.serial), err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.answering(); err != nil {
		return "", err
	}
	return fmt.Sprintf("OEM6 RXSTATUS serial=%s: error=0x00000000 status=0x00000000", g.serial), nil
}

func (g *GNSS) Version(ctx context.Context) (*model.VersionBlock, error) {
	if err := g.check(ctx, OpVersion); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.answering(); err != nil {
		return nil, err
	}
	comps := []model.Component{
		{
			CompType:    1,
			Model:       "G2SB0GTT0",
			SerialNum:   g.serial,
			HWVersion:   "OEM615-2.00",
			SWVersion:   "OEM060610RN0000",
			BootVersion: "OEM060200RB0000",
			CompileDate: "2016/Nov/01",
			CompileTime: "11:12:03",
		},
		{
			CompType:    981073920,
			Model:       "DB_HWMONITOR",
			SWVersion:   "HWMON_0600",
			CompileDate: "2016/Oct/03",
			CompileTime: "09:00:00",
		},
	}
	return &model.VersionBlock{NumComponents: uint32(len(comps)), Components: comps}, nil
}

// ReadTelemetry reports the lock state implied by time since power-on and,
// once locked, the current fix from the orbit.
func (g *GNSS) ReadTelemetry(ctx context.Context) (*model.GNSSTelemetryBlock, error) {
	if err := g.check(ctx, OpReadTelemetry); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.answering(); err != nil {
		return nil, err
	}

	now := g.clock.Now()
	up := g.power.uptime(now)
	b := &model.GNSSTelemetryBlock{Uptime: uint32(up / time.Second)}

	switch {
	case up < coarseLockAfter:
		b.Status = model.LockStatusBlock{
			SolutionStatus: oemInsufficientObs,
			PositionType:   oemPosNone,
			TimeStatus:     oemTimeUnknown,
		}
	default:
		timeStatus := uint32(oemTimeCoarse)
		if up >= fineLockAfter {
			timeStatus = oemTimeFineSteering
		}
		b.Status = model.LockStatusBlock{
			SolutionStatus: oemSolComputed,
			PositionType:   oemPosSingle,
			TimeStatus:     timeStatus,
		}
		ecef := ToECEF(g.orbit.ECI(now))
		g.lastFix = model.LockInfoBlock{
			Time:     gpsWeekSeconds(now),
			Position: ecef.Position,
			Velocity: ecef.Velocity,
		}
	}
	b.Info = g.lastFix
	return b, nil
}

// ActiveLogs returns the logs currently configured on the receiver.
func (g *GNSS) ActiveLogs() []core.LogConfig {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]core.LogConfig(nil), g.logs...)
}

// LastRawCommand returns a copy of the last passthrough payload.
func (g *GNSS) LastRawCommand() []byte {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]byte(nil), g.lastRaw...)
}

func (g *GNSS) answering() error {
	if !g.power.on(g.clock.Now()) {
		return fmt.Errorf("oem6: %w", device.ErrUnavailable)
	}
	return nil
}

// gpsWeekSeconds is seconds into the current GPS week.
func gpsWeekSeconds(t time.Time) float64 {
	const week = 7 * 24 * time.Hour
	return (gpsSince(t) % week).Seconds()
}

package sim

import (
	"time"

	"github.com/signalsfoundry/subsystem-services/model"
)

// resetDuration is how long a simulated device reports Reset before it is
// back up.
const resetDuration = 2 * time.Second

// powerMachine tracks a device's power state against a clock. Off -> On
// starts uptime from zero; Reset holds for resetDuration, then the device is
// On with uptime counted from the end of the reset.
type powerMachine struct {
	state model.PowerState
	since time.Time
}

func newPowerMachine(now time.Time) powerMachine {
	return powerMachine{state: model.PowerOn, since: now}
}

// settle resolves an elapsed reset into On.
func (p *powerMachine) settle(now time.Time) {
	if p.state == model.PowerReset && !now.Before(p.since.Add(resetDuration)) {
		p.state = model.PowerOn
		p.since = p.since.Add(resetDuration)
	}
}

func (p *powerMachine) reading(now time.Time) model.PowerReading {
	p.settle(now)
	r := model.PowerReading{State: p.state}
	if p.state == model.PowerOn {
		r.Uptime = uint32(now.Sub(p.since) / time.Second)
	}
	return r
}

func (p *powerMachine) set(now time.Time, target model.PowerState) {
	p.settle(now)
	switch target {
	case model.PowerOn:
		if p.state == model.PowerOff {
			p.state = model.PowerOn
			p.since = now
		}
	case model.PowerReset:
		p.state = model.PowerReset
		p.since = now
	default:
		p.state = model.PowerOff
		p.since = now
	}
}

// on reports whether the device is answering.
func (p *powerMachine) on(now time.Time) bool {
	p.settle(now)
	return p.state == model.PowerOn
}

func (p *powerMachine) uptime(now time.Time) time.Duration {
	if !p.on(now) {
		return 0
	}
	return now.Sub(p.since)
}

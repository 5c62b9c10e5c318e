package server

import (
	"fmt"

	"google.golang.org/grpc"

	"github.com/signalsfoundry/subsystem-services/internal/config"
	"github.com/signalsfoundry/subsystem-services/internal/device"
	"github.com/signalsfoundry/subsystem-services/internal/nbi"
	"github.com/signalsfoundry/subsystem-services/internal/sim"
	"github.com/signalsfoundry/subsystem-services/timectrl"
)

// ADCS registers an ADCSService backed by dev.
func ADCS(dev device.ADCS) Registrar {
	return func(s grpc.ServiceRegistrar, opts ...nbi.Option) string {
		nbi.RegisterADCSServer(s, nbi.NewADCSService(dev, opts...))
		return nbi.ADCSServiceDesc.ServiceName
	}
}

// GNSS registers a GNSSService backed by dev.
func GNSS(dev device.GNSS) Registrar {
	return func(s grpc.ServiceRegistrar, opts ...nbi.Option) string {
		nbi.RegisterGNSSServer(s, nbi.NewGNSSService(dev, opts...))
		return nbi.GNSSServiceDesc.ServiceName
	}
}

// simInputs builds the clock and orbit a simulated device runs on.
func simInputs(d config.DeviceConfig) (timectrl.Clock, sim.OrbitSource, error) {
	if d.Backend != config.BackendSim {
		return nil, nil, fmt.Errorf("device backend %q is not built in", d.Backend)
	}
	start, err := d.Start()
	if err != nil {
		return nil, nil, err
	}
	orbit, err := sim.NewOrbitSource(d.TLELine1, d.TLELine2)
	if err != nil {
		return nil, nil, err
	}
	return timectrl.NewWallClock(start), orbit, nil
}

// NewADCSDevice returns the configured MAI-400 backend.
func NewADCSDevice(cfg *config.Config) (device.ADCS, error) {
	clock, orbit, err := simInputs(cfg.Device)
	if err != nil {
		return nil, err
	}
	return sim.NewADCS(sim.ADCSOptions{Clock: clock, Orbit: orbit}), nil
}

// NewGNSSDevice returns the configured OEM6 backend.
func NewGNSSDevice(cfg *config.Config) (device.GNSS, error) {
	clock, orbit, err := simInputs(cfg.Device)
	if err != nil {
		return nil, err
	}
	return sim.NewGNSS(sim.GNSSOptions{Clock: clock, Orbit: orbit}), nil
}

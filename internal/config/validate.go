package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/signalsfoundry/subsystem-services/internal/sim"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateAddr("server.grpc_addr", cfg.Server.GRPCAddr, false); err != nil {
		return err
	}
	if err := validateAddr("server.metrics_addr", cfg.Server.MetricsAddr, true); err != nil {
		return err
	}
	if cfg.Server.MetricsAddr != "" && cfg.Server.MetricsAddr == cfg.Server.GRPCAddr {
		return fmt.Errorf("server.metrics_addr must differ from server.grpc_addr (%s)", cfg.Server.GRPCAddr)
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format)
	}

	switch strings.ToLower(cfg.Tracing.Exporter) {
	case "", "stdout", "otlp", "otlpgrpc":
	default:
		return fmt.Errorf("tracing.exporter: unsupported exporter %q", cfg.Tracing.Exporter)
	}
	if r := cfg.Tracing.SampleRatio; r != nil && (*r < 0 || *r > 1) {
		return fmt.Errorf("tracing.sample_ratio: %v is outside [0,1]", *r)
	}

	if cfg.Device.Backend != "" && cfg.Device.Backend != BackendSim {
		return fmt.Errorf("device.backend: unknown backend %q", cfg.Device.Backend)
	}
	l1, l2 := cfg.Device.TLELine1, cfg.Device.TLELine2
	if (l1 == "") != (l2 == "") {
		return fmt.Errorf("device: tle_line1 and tle_line2 must be set together")
	}
	if l1 != "" {
		if err := sim.ValidateTLE(l1, l2); err != nil {
			return fmt.Errorf("device: %w", err)
		}
	}
	if _, err := cfg.Device.Start(); err != nil {
		return err
	}

	return nil
}

func validateAddr(field, addr string, optional bool) error {
	if addr == "" {
		if optional {
			return nil
		}
		return fmt.Errorf("%s is required", field)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

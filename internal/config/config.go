// Package config loads service configuration in layers: built-in defaults,
// an optional YAML file, SUBSYS_* environment variables, then command-line
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/subsystem-services/internal/logging"
	"github.com/signalsfoundry/subsystem-services/internal/observability"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Device  DeviceConfig  `yaml:"device"`
}

// ---- SERVER ----

type ServerConfig struct {
	GRPCAddr    string `yaml:"grpc_addr"`
	MetricsAddr string `yaml:"metrics_addr"` // empty disables /metrics
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---- TRACING ----

type TracingConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Exporter    string   `yaml:"exporter"`
	Endpoint    string   `yaml:"endpoint"`
	SampleRatio *float64 `yaml:"sample_ratio"`
	ServiceName string   `yaml:"service_name"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Backend  string `yaml:"backend"`
	TLELine1 string `yaml:"tle_line1"`
	TLELine2 string `yaml:"tle_line2"`
	// StartTime, RFC 3339, shifts the simulated clock. Empty means now.
	StartTime string `yaml:"start_time"`
}

// BackendSim is the only backend built into the binaries.
const BackendSim = "sim"

// Overrides carries command-line values; empty fields leave the lower
// layers alone.
type Overrides struct {
	GRPCAddr    string
	MetricsAddr string
	LogLevel    string
}

// Default returns the built-in configuration for a service.
func Default(service string) *Config {
	cfg := &Config{}
	cfg.ApplyDefaults(service)
	return cfg
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults(service string) {
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":50051"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "stdout"
	}
	if c.Tracing.SampleRatio == nil {
		ratio := 1.0
		c.Tracing.SampleRatio = &ratio
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = service
	}
	if c.Device.Backend == "" {
		c.Device.Backend = BackendSim
	}
}

// Load reads a YAML file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses YAML from r. An empty document yields a zero Config.
func Decode(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("SUBSYS_GRPC_ADDR"); v != "" {
		c.Server.GRPCAddr = v
	}
	if v := getenv("SUBSYS_METRICS_ADDR"); v != "" {
		c.Server.MetricsAddr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := getenv("SUBSYS_TRACING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SUBSYS_TRACING_ENABLED: %w", err)
		}
		c.Tracing.Enabled = enabled
	}
	if v := getenv("SUBSYS_TRACING_EXPORTER"); v != "" {
		c.Tracing.Exporter = strings.ToLower(v)
	}
	if v := getenv("SUBSYS_OTLP_ENDPOINT"); v != "" {
		c.Tracing.Endpoint = v
	}
	if v := getenv("SUBSYS_TRACING_SAMPLE_RATIO"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SUBSYS_TRACING_SAMPLE_RATIO: %w", err)
		}
		c.Tracing.SampleRatio = &ratio
	}
	if v := getenv("SUBSYS_TRACING_SERVICE_NAME"); v != "" {
		c.Tracing.ServiceName = v
	}
	return nil
}

// ApplyOverrides overlays command-line values.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.GRPCAddr != "" {
		c.Server.GRPCAddr = o.GRPCAddr
	}
	if o.MetricsAddr != "" {
		c.Server.MetricsAddr = o.MetricsAddr
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
}

// Resolve runs every layer in order and validates the result. path may be
// empty.
func Resolve(service, path string, getenv func(string) string, o Overrides) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(o)
	cfg.ApplyDefaults(service)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoggerConfig maps the logging section onto the logger's options.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: strings.EqualFold(c.Logging.Level, "debug"),
		App:       c.Tracing.ServiceName,
		Backend:   c.Device.Backend,
	}
}

// TracingConfig maps the tracing section onto the tracer options.
func (c *Config) TracingConfig() observability.TracingConfig {
	ratio := 1.0
	if c.Tracing.SampleRatio != nil {
		ratio = *c.Tracing.SampleRatio
	}
	return observability.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: c.Tracing.ServiceName,
		Exporter:    c.Tracing.Exporter,
		Endpoint:    c.Tracing.Endpoint,
		SampleRatio: ratio,
		Backend:     c.Device.Backend,
	}
}

// Start parses device.start_time. The zero time means "now".
func (d DeviceConfig) Start() (time.Time, error) {
	if d.StartTime == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, d.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("device.start_time: %w", err)
	}
	return t.UTC(), nil
}

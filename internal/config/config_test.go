package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const issLine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
const issLine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg := Default("adcs-service")
	if cfg.Server.GRPCAddr != ":50051" || cfg.Logging.Level != "info" || cfg.Device.Backend != BackendSim {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Tracing.ServiceName != "adcs-service" || *cfg.Tracing.SampleRatio != 1 {
		t.Fatalf("unexpected tracing defaults: %+v", cfg.Tracing)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
server:
  grpc_addr: "127.0.0.1:6000"
  metrics_addr: ":9100"
tracing:
  enabled: true
  exporter: otlp
  sample_ratio: 0.25
device:
  tle_line1: "` + issLine1 + `"
  tle_line2: "` + issLine2 + `"
  start_time: "2021-10-02T00:00:00Z"
`
	cfg, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	cfg.ApplyDefaults("gnss-service")
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Server.GRPCAddr != "127.0.0.1:6000" || !cfg.Tracing.Enabled || *cfg.Tracing.SampleRatio != 0.25 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	start, err := cfg.Device.Start()
	if err != nil || start.Year() != 2021 {
		t.Fatalf("Start() = %v, %v", start, err)
	}
	if tc := cfg.TracingConfig(); tc.Exporter != "otlp" || tc.SampleRatio != 0.25 || tc.ServiceName != "gnss-service" {
		t.Fatalf("TracingConfig() = %+v", tc)
	}
	if lc := cfg.LoggerConfig(); lc.App != "gnss-service" || lc.Backend != BackendSim {
		t.Fatalf("LoggerConfig() = %+v", lc)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	if _, err := Decode(strings.NewReader("server:\n  grpc_port: 1\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
	cfg, err := Decode(strings.NewReader(""))
	if err != nil || cfg == nil {
		t.Fatalf("empty document: %v", err)
	}
}

func TestResolveLayerOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "svc.yaml")
	doc := "server:\n  grpc_addr: \":7000\"\n  metrics_addr: \":9000\"\nlogging:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	env := envFrom(map[string]string{
		"SUBSYS_GRPC_ADDR":            ":7001",
		"LOG_FORMAT":                  "json",
		"SUBSYS_TRACING_SAMPLE_RATIO": "0.5",
	})
	cfg, err := Resolve("adcs-service", path, env, Overrides{GRPCAddr: ":7002"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Server.GRPCAddr != ":7002" {
		t.Fatalf("flag should win: grpc_addr = %s", cfg.Server.GRPCAddr)
	}
	if cfg.Server.MetricsAddr != ":9000" || cfg.Logging.Level != "warn" {
		t.Fatalf("file values lost: %+v", cfg.Server)
	}
	if cfg.Logging.Format != "json" || *cfg.Tracing.SampleRatio != 0.5 {
		t.Fatalf("env values lost: %+v %+v", cfg.Logging, cfg.Tracing)
	}
}

func TestResolveRejectsBadEnv(t *testing.T) {
	_, err := Resolve("svc", "", envFrom(map[string]string{"SUBSYS_TRACING_ENABLED": "maybe"}), Overrides{})
	if err == nil {
		t.Fatalf("expected parse error")
	}
	_, err = Resolve("svc", "", envFrom(map[string]string{"SUBSYS_TRACING_SAMPLE_RATIO": "1.5"}), Overrides{})
	if err == nil {
		t.Fatalf("expected range error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing grpc addr", func(c *Config) { c.Server.GRPCAddr = "" }},
		{"malformed grpc addr", func(c *Config) { c.Server.GRPCAddr = "localhost" }},
		{"metrics collides", func(c *Config) { c.Server.MetricsAddr = c.Server.GRPCAddr }},
		{"unknown exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }},
		{"unknown backend", func(c *Config) { c.Device.Backend = "serial" }},
		{"half a tle", func(c *Config) { c.Device.TLELine1 = issLine1 }},
		{"short tle", func(c *Config) { c.Device.TLELine1, c.Device.TLELine2 = "1 x", "2 x" }},
		{"bad start", func(c *Config) { c.Device.StartTime = "yesterday" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default("svc")
			tc.mutate(cfg)
			before := *cfg
			if err := Validate(cfg); err == nil {
				t.Fatalf("expected validation error")
			}
			if *cfg != before {
				t.Fatalf("Validate mutated config")
			}
		})
	}
}

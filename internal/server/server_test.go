package server

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/internal/config"
	"github.com/signalsfoundry/subsystem-services/internal/logging"
	"github.com/signalsfoundry/subsystem-services/internal/nbi"
	"github.com/signalsfoundry/subsystem-services/internal/observability"
)

type lockedBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func TestRunServesADCSUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}

	cfg := config.Default("adcs-service")
	dev, err := NewADCSDevice(cfg)
	if err != nil {
		t.Fatalf("NewADCSDevice: %v", err)
	}
	var logs lockedBuffer
	reg := prometheus.NewRegistry()
	opts := Options{
		Config:   cfg,
		Log:      logging.New(logging.Config{Level: "debug", Format: "json", Output: &logs}),
		Register: ADCS(dev),
		Registry: reg,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, opts, lis)
	}()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	defer conn.Close()

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: nbi.ADCSServiceDesc.ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if health.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("health = %v", health.GetStatus())
	}

	client := nbi.NewADCSClient(conn)
	callCtx := metadata.AppendToOutgoingContext(ctx, "x-request-id", "req-e2e-1")
	if resp, err := client.Noop(callCtx); err != nil || !resp.Success {
		t.Fatalf("Noop = %+v, %v", resp, err)
	}
	ack, err := client.Ack(ctx)
	if err != nil || ack.Command != core.AckNoop {
		t.Fatalf("Ack = %+v, %v", ack, err)
	}

	if got := testutil.ToFloat64(nbiRequests(t, reg, "ADCSService", "Noop")); got != 1 {
		t.Fatalf("requests_total{Noop} = %v, want 1", got)
	}
	if !strings.Contains(logs.String(), `"request_id":"req-e2e-1"`) {
		t.Fatalf("request id not propagated to logs:\n%s", logs.String())
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run returned %v", err)
	}
}

func nbiRequests(t *testing.T, reg *prometheus.Registry, service, method string) prometheus.Collector {
	t.Helper()
	// NewCollector hands back the vectors already registered on reg.
	collector, err := observability.NewCollector(reg)
	if err != nil {
		t.Fatalf("collector: %v", err)
	}
	return collector.RPCRequests.WithLabelValues(service, method, "OK")
}

func TestRunRejectsMissingPieces(t *testing.T) {
	if err := Run(context.Background(), Options{}, nil); err == nil {
		t.Fatalf("Run without config succeeded")
	}
	if err := Run(context.Background(), Options{Config: config.Default("x")}, nil); err == nil {
		t.Fatalf("Run without registrar succeeded")
	}
}

func TestDeviceFactories(t *testing.T) {
	cfg := config.Default("gnss-service")
	if _, err := NewGNSSDevice(cfg); err != nil {
		t.Fatalf("NewGNSSDevice: %v", err)
	}

	cfg.Device.Backend = "uart"
	if _, err := NewGNSSDevice(cfg); err == nil {
		t.Fatalf("unknown backend accepted")
	}

	cfg = config.Default("adcs-service")
	cfg.Device.TLELine1 = "1 25544U"
	cfg.Device.TLELine2 = "2 25544"
	if _, err := NewADCSDevice(cfg); err == nil {
		t.Fatalf("malformed TLE accepted")
	}
}

// Package server runs one device service: the gRPC query/mutation surface,
// the Prometheus endpoint and tracing, all driven by a resolved config.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/signalsfoundry/subsystem-services/internal/config"
	"github.com/signalsfoundry/subsystem-services/internal/logging"
	"github.com/signalsfoundry/subsystem-services/internal/nbi"
	"github.com/signalsfoundry/subsystem-services/internal/observability"
)

const shutdownTimeout = 5 * time.Second

// Registrar attaches a device service to the gRPC server. opts carry the
// logger and collectors the server built; pass them to the service
// constructor.
type Registrar func(s grpc.ServiceRegistrar, opts ...nbi.Option) (serviceName string)

// Options configures Run.
type Options struct {
	Config   *config.Config
	Log      logging.Logger
	Register Registrar

	// Registry receives the metrics. Nil means a fresh registry.
	Registry *prometheus.Registry
}

// Run serves until ctx is cancelled, then stops gracefully. If lis is nil
// it listens on Config.Server.GRPCAddr.
func Run(ctx context.Context, opts Options, lis net.Listener) error {
	cfg := opts.Config
	if cfg == nil {
		return errors.New("server: config is required")
	}
	if opts.Register == nil {
		return errors.New("server: no service to register")
	}
	log := opts.Log
	if log == nil {
		log = logging.Noop()
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.TracingConfig(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	collector, err := observability.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("metrics collector: %w", err)
	}
	devices, err := observability.NewDeviceCollector(reg)
	if err != nil {
		return fmt.Errorf("device metrics collector: %w", err)
	}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			nbi.RequestIDUnaryServerInterceptor(log),
			nbi.TracingUnaryServerInterceptor(),
			collector.UnaryServerInterceptor(),
		),
	)
	name := opts.Register(srv,
		nbi.WithLogger(log),
		nbi.WithMetrics(collector),
		nbi.WithDeviceMetrics(devices),
	)
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	if lis == nil {
		lis, err = net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Server.GRPCAddr, err)
		}
	}

	metricsSrv := serveMetrics(cfg.Server.MetricsAddr, collector, log)

	log.Info(ctx, "starting gRPC server",
		logging.String("service", name),
		logging.String("addr", lis.Addr().String()),
	)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("grpc serve: %w", err)
	}

	log.Info(context.Background(), "shutting down", logging.String("service", name))
	healthSrv.Shutdown()
	srv.GracefulStop()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return runErr
}

func serveMetrics(addr string, collector *observability.Collector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

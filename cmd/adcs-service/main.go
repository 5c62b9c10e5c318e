// Command adcs-service serves the MAI-400 attitude control query and
// mutation surface over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/signalsfoundry/subsystem-services/internal/config"
	"github.com/signalsfoundry/subsystem-services/internal/logging"
	"github.com/signalsfoundry/subsystem-services/internal/server"
)

const serviceName = "adcs-service"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string) error {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to a YAML config file")
	grpcAddr := fs.String("grpc-addr", "", "TCP address the gRPC server listens on")
	metricsAddr := fs.String("metrics-addr", "", "HTTP address for Prometheus /metrics")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Resolve(serviceName, *cfgPath, getenv, config.Overrides{
		GRPCAddr:    *grpcAddr,
		MetricsAddr: *metricsAddr,
		LogLevel:    *logLevel,
	})
	if err != nil {
		return err
	}
	log := logging.New(cfg.LoggerConfig())

	dev, err := server.NewADCSDevice(cfg)
	if err != nil {
		return fmt.Errorf("build device: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "starting ADCS service",
		logging.String("grpc_addr", cfg.Server.GRPCAddr),
		logging.String("backend", cfg.Device.Backend),
	)
	return server.Run(ctx, server.Options{
		Config:   cfg,
		Log:      log,
		Register: server.ADCS(dev),
	}, nil)
}

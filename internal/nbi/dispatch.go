package nbi

import (
	"context"
	"errors"
	"time"

	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/internal/logging"
	"github.com/signalsfoundry/subsystem-services/internal/observability"
	"github.com/signalsfoundry/subsystem-services/model"
)

// Device operation names, used as span suffixes and metric labels.
const (
	opReadTelemetry = "read_telemetry"
	opPower         = "power"
	opSetPower      = "set_power"
	opReset         = "reset"
	opSetMode       = "set_mode"
	opSetGPSTime    = "set_gps_time"
	opSetOrbit      = "set_orbit"
	opPassthrough   = "passthrough"
	opSelfTest      = "self_test"
	opVersion       = "version"
	opConfigure     = "configure"
)

// ErrEmptyRead is reported when a driver returns neither a block nor an
// error.
var ErrEmptyRead = errors.New("device returned no telemetry")

// Option configures a service.
type Option func(*options)

type options struct {
	log     logging.Logger
	acks    *core.AckTracker
	metrics *observability.Collector
	devices *observability.DeviceCollector
}

// WithLogger sets the base logger. Requests that arrive through the
// request-id interceptor use the logger it attached instead.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithAckTracker shares an ack slot with the caller. By default each service
// owns a fresh one.
func WithAckTracker(t *core.AckTracker) Option {
	return func(o *options) { o.acks = t }
}

func WithMetrics(c *observability.Collector) Option {
	return func(o *options) { o.metrics = c }
}

func WithDeviceMetrics(c *observability.DeviceCollector) Option {
	return func(o *options) { o.devices = c }
}

// dispatcher holds what every handler of one service shares: the ack slot,
// the logger and the collectors. Mutations follow one order: validate, then
// record the ack, then run the device operation, then build the envelope.
type dispatcher struct {
	service string
	options
}

func newDispatcher(service string, opts []Option) *dispatcher {
	d := &dispatcher{service: service}
	for _, opt := range opts {
		opt(&d.options)
	}
	if d.log == nil {
		d.log = logging.Noop()
	}
	if d.acks == nil {
		d.acks = core.NewAckTracker()
	}
	return d
}

// begin returns the request-scoped logger annotated with the operation.
func (d *dispatcher) begin(ctx context.Context, operation string) (context.Context, logging.Logger) {
	log := logging.LoggerFromContext(ctx)
	if log == nil {
		ctx, log = logging.WithRequestLogger(ctx, d.log)
	}
	log = log.With(logging.String("service", d.service), logging.String("operation", operation))
	return logging.ContextWithLogger(ctx, log), log
}

// accept records cmd as the last dispatched mutation.
func (d *dispatcher) accept(cmd core.AckCommand) {
	d.acks.Record(cmd)
	if d.metrics != nil {
		d.metrics.SetLastAck(d.service, cmd)
	}
}

// call runs one device operation in a child span and times it.
func (d *dispatcher) call(ctx context.Context, log logging.Logger, op string, fn func(context.Context) error) error {
	ctx, span := StartChildSpan(ctx, "device."+op, "device", d.service)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if d.devices != nil {
		d.devices.ObserveCall(d.service, op, elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		log.Warn(ctx, "device operation failed",
			logging.String("device_op", op),
			logging.Duration("elapsed_ms", elapsed),
			logging.Err(err),
		)
	}
	return err
}

// finish reports the outcome of a mutation.
func (d *dispatcher) finish(ctx context.Context, log logging.Logger, cmd core.AckCommand, env core.GenericResponse) {
	if d.metrics != nil {
		d.metrics.RecordMutation(d.service, cmd, env.Success)
	}
	log.Debug(ctx, "mutation dispatched",
		logging.String("command", cmd.String()),
		logging.Bool("success", env.Success),
	)
}

// misses logs status codes that fell outside the known tables. They are not
// errors.
func (d *dispatcher) misses(ctx context.Context, log logging.Logger, misses []core.DecodeMiss) {
	if len(misses) == 0 {
		return
	}
	if d.metrics != nil {
		d.metrics.RecordDecodeMisses(misses)
	}
	for _, m := range misses {
		log.Info(ctx, "status code outside known table",
			logging.String("dimension", m.Dimension),
			logging.String("table_version", m.Version),
			logging.Int("code", int(m.Code)),
		)
	}
}

func (d *dispatcher) uptime(seconds int64) {
	if d.devices != nil {
		d.devices.SetUptime(d.service, seconds)
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return core.Respond(err).Errors
}

// power builds a power query response. A device that cannot be read is
// reported Off.
func (d *dispatcher) power(reading model.PowerReading, err error) *PowerResponse {
	if err != nil {
		return &PowerResponse{State: core.PowerOff, Errors: errorText(err)}
	}
	p := core.ProjectPower(reading)
	d.uptime(p.Uptime)
	return &PowerResponse{State: p.State, Uptime: p.Uptime}
}

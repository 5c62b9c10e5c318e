package nbi

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"google.golang.org/grpc"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/internal/device"
	"github.com/signalsfoundry/subsystem-services/internal/logging"
	"github.com/signalsfoundry/subsystem-services/model"
)

const gnssServiceName = "subsys.gnss.v1.GNSSService"

// GNSSServer is the query and mutation surface of the OEM6 service.
type GNSSServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Ack(context.Context, *AckRequest) (*AckResponse, error)
	Power(context.Context, *PowerRequest) (*PowerResponse, error)
	LockStatus(context.Context, *LockStatusRequest) (*LockStatusResponse, error)
	LockInfo(context.Context, *LockInfoRequest) (*LockInfoResponse, error)
	Telemetry(context.Context, *TelemetryRequest) (*GNSSTelemetryResponse, error)

	Noop(context.Context, *NoopRequest) (*core.GenericResponse, error)
	ControlPower(context.Context, *ControlPowerRequest) (*core.ControlPowerResponse, error)
	ConfigureHardware(context.Context, *ConfigureHardwareRequest) (*core.ConfigureHardwareResponse, error)
	TestHardware(context.Context, *TestHardwareRequest) (*GNSSTestHardwareResponse, error)
	IssueRawCommand(context.Context, *IssueRawCommandRequest) (*core.GenericResponse, error)
}

// GNSSServiceDesc describes GNSSServer to grpc.
var GNSSServiceDesc = grpc.ServiceDesc{
	ServiceName: gnssServiceName,
	HandlerType: (*GNSSServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(gnssServiceName, "Ping", GNSSServer.Ping),
		unary(gnssServiceName, "Ack", GNSSServer.Ack),
		unary(gnssServiceName, "Power", GNSSServer.Power),
		unary(gnssServiceName, "LockStatus", GNSSServer.LockStatus),
		unary(gnssServiceName, "LockInfo", GNSSServer.LockInfo),
		unary(gnssServiceName, "Telemetry", GNSSServer.Telemetry),
		unary(gnssServiceName, "Noop", GNSSServer.Noop),
		unary(gnssServiceName, "ControlPower", GNSSServer.ControlPower),
		unary(gnssServiceName, "ConfigureHardware", GNSSServer.ConfigureHardware),
		unary(gnssServiceName, "TestHardware", GNSSServer.TestHardware),
		unary(gnssServiceName, "IssueRawCommand", GNSSServer.IssueRawCommand),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/nbi/gnss_service.go",
}

// RegisterGNSSServer attaches srv to s.
func RegisterGNSSServer(s grpc.ServiceRegistrar, srv GNSSServer) {
	s.RegisterService(&GNSSServiceDesc, srv)
}

// GNSSService serves one OEM6 receiver through a device.GNSS driver.
type GNSSService struct {
	dev device.GNSS
	d   *dispatcher
}

var _ GNSSServer = (*GNSSService)(nil)

// NewGNSSService constructs the service. A nil driver is accepted; every
// call that needs the device then fails with FailedPrecondition.
func NewGNSSService(dev device.GNSS, opts ...Option) *GNSSService {
	return &GNSSService{dev: dev, d: newDispatcher("gnss", opts)}
}

// Acks exposes the service's ack slot.
func (s *GNSSService) Acks() *core.AckTracker { return s.d.acks }

func (s *GNSSService) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Pong: "pong"}, nil
}

func (s *GNSSService) Ack(context.Context, *AckRequest) (*AckResponse, error) {
	return &AckResponse{Command: s.d.acks.Current()}, nil
}

func (s *GNSSService) Power(ctx context.Context, _ *PowerRequest) (*PowerResponse, error) {
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "power")

	var reading model.PowerReading
	err := s.d.call(ctx, log, opPower, func(ctx context.Context) (err error) {
		reading, err = s.dev.Power(ctx)
		return err
	})
	return s.d.power(reading, err), nil
}

func (s *GNSSService) LockStatus(ctx context.Context, _ *LockStatusRequest) (*LockStatusResponse, error) {
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "lockStatus")

	b, err := s.read(ctx, log)
	if err != nil {
		return &LockStatusResponse{Errors: errorText(err)}, nil
	}
	st := core.ProjectLockStatus(b.Status)
	return &LockStatusResponse{LockStatus: &st}, nil
}

func (s *GNSSService) LockInfo(ctx context.Context, _ *LockInfoRequest) (*LockInfoResponse, error) {
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "lockInfo")

	b, err := s.read(ctx, log)
	if err != nil {
		return &LockInfoResponse{Errors: errorText(err)}, nil
	}
	info := core.ProjectLockInfo(b.Info)
	return &LockInfoResponse{LockInfo: &info}, nil
}

// Telemetry reads only what the requested views need: the position log for
// nominal, the version log for debug.
func (s *GNSSService) Telemetry(ctx context.Context, req *TelemetryRequest) (*GNSSTelemetryResponse, error) {
	nominal, debug, err := parseTelemetryKind(req.Kind)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "telemetry")

	resp := &GNSSTelemetryResponse{}
	var errs []error
	if nominal {
		b, err := s.read(ctx, log)
		if err == nil {
			v := core.ProjectGNSSNominal(b)
			resp.Nominal = &v
		}
		errs = append(errs, err)
	}
	if debug {
		v, err := s.version(ctx, log)
		if err == nil {
			resp.Debug = &v
		}
		errs = append(errs, err)
	}
	resp.Errors = errorText(errors.Join(errs...))
	return resp, nil
}

func (s *GNSSService) Noop(ctx context.Context, _ *NoopRequest) (*core.GenericResponse, error) {
	ctx, log := s.d.begin(ctx, "noop")
	s.d.accept(core.AckNoop)

	resp := core.Respond(nil)
	s.d.finish(ctx, log, core.AckNoop, resp)
	return &resp, nil
}

// ControlPower supports RESET only; the receiver has no commanded on/off.
func (s *GNSSService) ControlPower(ctx context.Context, req *ControlPowerRequest) (*core.ControlPowerResponse, error) {
	state, err := parseEnum[core.PowerState]("state", req.State)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "controlPower")
	s.d.accept(core.AckControlPower)

	if state == core.PowerReset {
		err = s.d.call(ctx, log, opReset, s.dev.Reset)
	} else {
		err = fmt.Errorf("controlPower %s: %w", state, device.ErrUnsupported)
	}
	resp := core.RespondControlPower(state, err)
	s.d.finish(ctx, log, core.AckControlPower, resp.GenericResponse)
	return &resp, nil
}

// ConfigureHardware applies the directives in order and echoes them with
// defaults resolved.
func (s *GNSSService) ConfigureHardware(ctx context.Context, req *ConfigureHardwareRequest) (*core.ConfigureHardwareResponse, error) {
	reqs, err := parseConfig(req.Config)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "configureHardware")
	s.d.accept(core.AckConfigureHardware)

	resolved := core.ResolveAll(reqs)
	err = s.d.call(ctx, log, opConfigure, func(ctx context.Context) error {
		return s.dev.Configure(ctx, resolved)
	})
	resp := core.RespondConfigure(resolved, err)
	s.d.finish(ctx, log, core.AckConfigureHardware, resp.GenericResponse)
	return &resp, nil
}

func (s *GNSSService) TestHardware(ctx context.Context, req *TestHardwareRequest) (*GNSSTestHardwareResponse, error) {
	typ, err := parseEnum[core.TestType]("type", req.Type)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "testHardware")
	s.d.accept(core.AckTestHardware)

	resp := &GNSSTestHardwareResponse{}
	switch typ {
	case core.TestIntegration:
		var payload *core.GNSSIntegration
		version, verr := s.version(ctx, log)
		b, terr := s.read(ctx, log)
		if verr == nil && terr == nil {
			payload = &core.GNSSIntegration{Nominal: core.ProjectGNSSNominal(b), Debug: version}
		}
		resp.Result = core.RespondIntegration(payload, errors.Join(verr, terr))
	default:
		var text string
		err := s.d.call(ctx, log, opSelfTest, func(ctx context.Context) (err error) {
			text, err = s.dev.SelfTest(ctx)
			return err
		})
		resp.Result = core.RespondHardware(text, err)
	}
	s.d.finish(ctx, log, core.AckTestHardware, resp.Envelope())
	return resp, nil
}

func (s *GNSSService) IssueRawCommand(ctx context.Context, req *IssueRawCommandRequest) (*core.GenericResponse, error) {
	raw, err := parseRawCommand(req.Command)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "issueRawCommand")
	s.d.accept(core.AckIssueRawCommand)

	err = s.d.call(ctx, log, opPassthrough, func(ctx context.Context) error {
		return s.dev.Passthrough(ctx, raw)
	})
	resp := core.Respond(err)
	s.d.finish(ctx, log, core.AckIssueRawCommand, resp)
	return &resp, nil
}

// read fetches the position log and reports status codes outside the
// known tables.
func (s *GNSSService) read(ctx context.Context, log logging.Logger) (*model.GNSSTelemetryBlock, error) {
	var b *model.GNSSTelemetryBlock
	err := s.d.call(ctx, log, opReadTelemetry, func(ctx context.Context) (err error) {
		if b, err = s.dev.ReadTelemetry(ctx); err == nil && b == nil {
			err = ErrEmptyRead
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.d.misses(ctx, log, core.LockStatusMisses(b.Status))
	s.d.uptime(core.WidenInt(b.Uptime))
	return b, nil
}

func (s *GNSSService) version(ctx context.Context, log logging.Logger) (core.VersionInfo, error) {
	var v *model.VersionBlock
	err := s.d.call(ctx, log, opVersion, func(ctx context.Context) (err error) {
		if v, err = s.dev.Version(ctx); err == nil && v == nil {
			err = ErrEmptyRead
		}
		return err
	})
	if err != nil {
		return core.VersionInfo{}, err
	}
	return core.ProjectVersion(v), nil
}

// GNSSClient is the typed client for GNSSServer.
type GNSSClient struct {
	cc grpc.ClientConnInterface
}

func NewGNSSClient(cc grpc.ClientConnInterface) *GNSSClient {
	return &GNSSClient{cc: cc}
}

func gnssMethod(name string) string { return "/" + gnssServiceName + "/" + name }

func (c *GNSSClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, gnssMethod("Ping"), &PingRequest{}, opts)
}

func (c *GNSSClient) Ack(ctx context.Context, opts ...grpc.CallOption) (*AckResponse, error) {
	return invoke[AckResponse](ctx, c.cc, gnssMethod("Ack"), &AckRequest{}, opts)
}

func (c *GNSSClient) Power(ctx context.Context, opts ...grpc.CallOption) (*PowerResponse, error) {
	return invoke[PowerResponse](ctx, c.cc, gnssMethod("Power"), &PowerRequest{}, opts)
}

func (c *GNSSClient) LockStatus(ctx context.Context, opts ...grpc.CallOption) (*LockStatusResponse, error) {
	return invoke[LockStatusResponse](ctx, c.cc, gnssMethod("LockStatus"), &LockStatusRequest{}, opts)
}

func (c *GNSSClient) LockInfo(ctx context.Context, opts ...grpc.CallOption) (*LockInfoResponse, error) {
	return invoke[LockInfoResponse](ctx, c.cc, gnssMethod("LockInfo"), &LockInfoRequest{}, opts)
}

func (c *GNSSClient) Telemetry(ctx context.Context, kind core.TelemetryKind, opts ...grpc.CallOption) (*GNSSTelemetryResponse, error) {
	return invoke[GNSSTelemetryResponse](ctx, c.cc, gnssMethod("Telemetry"), &TelemetryRequest{Kind: kind.String()}, opts)
}

func (c *GNSSClient) FullTelemetry(ctx context.Context, opts ...grpc.CallOption) (*GNSSTelemetryResponse, error) {
	return invoke[GNSSTelemetryResponse](ctx, c.cc, gnssMethod("Telemetry"), &TelemetryRequest{}, opts)
}

func (c *GNSSClient) Noop(ctx context.Context, opts ...grpc.CallOption) (*core.GenericResponse, error) {
	return invoke[core.GenericResponse](ctx, c.cc, gnssMethod("Noop"), &NoopRequest{}, opts)
}

func (c *GNSSClient) ControlPower(ctx context.Context, state core.PowerState, opts ...grpc.CallOption) (*core.ControlPowerResponse, error) {
	return invoke[core.ControlPowerResponse](ctx, c.cc, gnssMethod("ControlPower"), &ControlPowerRequest{State: state.String()}, opts)
}

// ConfigureHardware sends the directives; unset fields take their defaults
// on the server.
func (c *GNSSClient) ConfigureHardware(ctx context.Context, cfg []core.ConfigRequest, opts ...grpc.CallOption) (*core.ConfigureHardwareResponse, error) {
	in := make([]ConfigInput, len(cfg))
	for i, r := range cfg {
		in[i] = ConfigInput{Option: r.Option.String(), Hold: r.Hold, Interval: r.Interval, Offset: r.Offset}
	}
	return invoke[core.ConfigureHardwareResponse](ctx, c.cc, gnssMethod("ConfigureHardware"), &ConfigureHardwareRequest{Config: in}, opts)
}

func (c *GNSSClient) TestHardware(ctx context.Context, typ core.TestType, opts ...grpc.CallOption) (*GNSSTestHardwareResponse, error) {
	return invoke[GNSSTestHardwareResponse](ctx, c.cc, gnssMethod("TestHardware"), &TestHardwareRequest{Type: typ.String()}, opts)
}

func (c *GNSSClient) IssueRawCommand(ctx context.Context, raw []byte, opts ...grpc.CallOption) (*core.GenericResponse, error) {
	return invoke[core.GenericResponse](ctx, c.cc, gnssMethod("IssueRawCommand"), &IssueRawCommandRequest{Command: hex.EncodeToString(raw)}, opts)
}

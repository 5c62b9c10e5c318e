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

const adcsServiceName = "subsys.adcs.v1.ADCSService"

// ADCSServer is the query and mutation surface of the MAI-400 service.
type ADCSServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Ack(context.Context, *AckRequest) (*AckResponse, error)
	Power(context.Context, *PowerRequest) (*PowerResponse, error)
	Mode(context.Context, *ModeRequest) (*ModeResponse, error)
	Spin(context.Context, *SpinRequest) (*SpinResponse, error)
	Telemetry(context.Context, *TelemetryRequest) (*ADCSTelemetryResponse, error)

	Noop(context.Context, *NoopRequest) (*core.GenericResponse, error)
	ControlPower(context.Context, *ControlPowerRequest) (*core.ControlPowerResponse, error)
	ConfigureHardware(context.Context, *ConfigureHardwareRequest) (*core.GenericResponse, error)
	TestHardware(context.Context, *TestHardwareRequest) (*ADCSTestHardwareResponse, error)
	IssueRawCommand(context.Context, *IssueRawCommandRequest) (*core.GenericResponse, error)
	SetMode(context.Context, *SetModeRequest) (*core.GenericResponse, error)
	Update(context.Context, *UpdateRequest) (*core.GenericResponse, error)
}

// ADCSServiceDesc describes ADCSServer to grpc.
var ADCSServiceDesc = grpc.ServiceDesc{
	ServiceName: adcsServiceName,
	HandlerType: (*ADCSServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(adcsServiceName, "Ping", ADCSServer.Ping),
		unary(adcsServiceName, "Ack", ADCSServer.Ack),
		unary(adcsServiceName, "Power", ADCSServer.Power),
		unary(adcsServiceName, "Mode", ADCSServer.Mode),
		unary(adcsServiceName, "Spin", ADCSServer.Spin),
		unary(adcsServiceName, "Telemetry", ADCSServer.Telemetry),
		unary(adcsServiceName, "Noop", ADCSServer.Noop),
		unary(adcsServiceName, "ControlPower", ADCSServer.ControlPower),
		unary(adcsServiceName, "ConfigureHardware", ADCSServer.ConfigureHardware),
		unary(adcsServiceName, "TestHardware", ADCSServer.TestHardware),
		unary(adcsServiceName, "IssueRawCommand", ADCSServer.IssueRawCommand),
		unary(adcsServiceName, "SetMode", ADCSServer.SetMode),
		unary(adcsServiceName, "Update", ADCSServer.Update),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/nbi/adcs_service.go",
}

// RegisterADCSServer attaches srv to s.
func RegisterADCSServer(s grpc.ServiceRegistrar, srv ADCSServer) {
	s.RegisterService(&ADCSServiceDesc, srv)
}

// ADCSService serves one MAI-400 through a device.ADCS driver.
type ADCSService struct {
	dev device.ADCS
	d   *dispatcher
}

var _ ADCSServer = (*ADCSService)(nil)

// NewADCSService constructs the service. A nil driver is accepted; every
// call that needs the device then fails with FailedPrecondition.
func NewADCSService(dev device.ADCS, opts ...Option) *ADCSService {
	return &ADCSService{dev: dev, d: newDispatcher("adcs", opts)}
}

// Acks exposes the service's ack slot.
func (s *ADCSService) Acks() *core.AckTracker { return s.d.acks }

func (s *ADCSService) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Pong: "pong"}, nil
}

func (s *ADCSService) Ack(context.Context, *AckRequest) (*AckResponse, error) {
	return &AckResponse{Command: s.d.acks.Current()}, nil
}

func (s *ADCSService) Power(ctx context.Context, _ *PowerRequest) (*PowerResponse, error) {
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

func (s *ADCSService) Mode(ctx context.Context, _ *ModeRequest) (*ModeResponse, error) {
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "mode")

	b, err := s.read(ctx, log)
	if err != nil {
		return &ModeResponse{Errors: errorText(err)}, nil
	}
	mode := core.DecodeMode(&b.Standard)
	return &ModeResponse{Mode: &mode}, nil
}

func (s *ADCSService) Spin(ctx context.Context, _ *SpinRequest) (*SpinResponse, error) {
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "spin")

	b, err := s.read(ctx, log)
	if err != nil {
		return &SpinResponse{Errors: errorText(err)}, nil
	}
	spin := core.ProjectSpin(&b.Standard)
	return &SpinResponse{Spin: &spin}, nil
}

func (s *ADCSService) Telemetry(ctx context.Context, req *TelemetryRequest) (*ADCSTelemetryResponse, error) {
	nominal, debug, err := parseTelemetryKind(req.Kind)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "telemetry")

	b, err := s.read(ctx, log)
	if err != nil {
		return &ADCSTelemetryResponse{Errors: errorText(err)}, nil
	}
	resp := &ADCSTelemetryResponse{}
	if nominal {
		v := core.ProjectADCSNominal(b)
		resp.Nominal = &v
	}
	if debug {
		v := core.ProjectADCSDebug(b)
		resp.Debug = &v
	}
	return resp, nil
}

func (s *ADCSService) Noop(ctx context.Context, _ *NoopRequest) (*core.GenericResponse, error) {
	ctx, log := s.d.begin(ctx, "noop")
	s.d.accept(core.AckNoop)

	resp := core.Respond(nil)
	s.d.finish(ctx, log, core.AckNoop, resp)
	return &resp, nil
}

func (s *ADCSService) ControlPower(ctx context.Context, req *ControlPowerRequest) (*core.ControlPowerResponse, error) {
	state, err := parseEnum[core.PowerState]("state", req.State)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "controlPower")
	s.d.accept(core.AckControlPower)

	err = s.d.call(ctx, log, opSetPower, func(ctx context.Context) error {
		return s.dev.SetPower(ctx, state.Raw())
	})
	resp := core.RespondControlPower(state, err)
	s.d.finish(ctx, log, core.AckControlPower, resp.GenericResponse)
	return &resp, nil
}

// ConfigureHardware is acknowledged but the MAI-400 has nothing to
// configure, so it always reports not implemented.
func (s *ADCSService) ConfigureHardware(ctx context.Context, _ *ConfigureHardwareRequest) (*core.GenericResponse, error) {
	ctx, log := s.d.begin(ctx, "configureHardware")
	s.d.accept(core.AckConfigureHardware)

	resp := core.Respond(fmt.Errorf("configureHardware: %w", core.ErrNotImplemented))
	s.d.finish(ctx, log, core.AckConfigureHardware, resp)
	return &resp, nil
}

func (s *ADCSService) TestHardware(ctx context.Context, req *TestHardwareRequest) (*ADCSTestHardwareResponse, error) {
	typ, err := parseEnum[core.TestType]("type", req.Type)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "testHardware")
	s.d.accept(core.AckTestHardware)

	resp := &ADCSTestHardwareResponse{}
	switch typ {
	case core.TestIntegration:
		var snap *core.ADCSTelemetry
		b, err := s.read(ctx, log)
		if err == nil {
			v := core.ProjectADCS(b)
			snap = &v
		}
		resp.Result = core.RespondIntegration(snap, err)
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

func (s *ADCSService) IssueRawCommand(ctx context.Context, req *IssueRawCommandRequest) (*core.GenericResponse, error) {
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

func (s *ADCSService) SetMode(ctx context.Context, req *SetModeRequest) (*core.GenericResponse, error) {
	mode, params, err := parseSetMode(req)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "setMode")
	s.d.accept(core.AckSetMode)

	err = s.d.call(ctx, log, opSetMode, func(ctx context.Context) error {
		return s.dev.SetMode(ctx, mode, params)
	})
	resp := core.Respond(err)
	s.d.finish(ctx, log, core.AckSetMode, resp)
	return &resp, nil
}

// Update pushes GPS time and then orbital state. Both are attempted even if
// the first fails; the envelope carries every failure.
func (s *ADCSService) Update(ctx context.Context, req *UpdateRequest) (*core.GenericResponse, error) {
	gpsTime, rv, err := parseUpdate(req)
	if err != nil {
		return nil, ToStatusError(err)
	}
	if s.dev == nil {
		return nil, ToStatusError(ErrDeviceUnavailable)
	}
	ctx, log := s.d.begin(ctx, "update")
	s.d.accept(core.AckUpdate)

	var errs []error
	if gpsTime != nil {
		errs = append(errs, s.d.call(ctx, log, opSetGPSTime, func(ctx context.Context) error {
			return s.dev.SetGPSTime(ctx, *gpsTime)
		}))
	}
	if rv != nil {
		errs = append(errs, s.d.call(ctx, log, opSetOrbit, func(ctx context.Context) error {
			return s.dev.SetOrbit(ctx, *rv)
		}))
	}
	resp := core.Respond(errors.Join(errs...))
	s.d.finish(ctx, log, core.AckUpdate, resp)
	return &resp, nil
}

// read fetches one telemetry block and reports an unknown ACS mode code.
func (s *ADCSService) read(ctx context.Context, log logging.Logger) (*model.ADCSTelemetryBlock, error) {
	var b *model.ADCSTelemetryBlock
	err := s.d.call(ctx, log, opReadTelemetry, func(ctx context.Context) (err error) {
		if b, err = s.dev.ReadTelemetry(ctx); err == nil && b == nil {
			err = ErrEmptyRead
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if m, ok := core.ACSModeCodes.Miss(uint32(b.Standard.ACSMode)); ok {
		s.d.misses(ctx, log, []core.DecodeMiss{m})
	}
	return b, nil
}

// ADCSClient is the typed client for ADCSServer.
type ADCSClient struct {
	cc grpc.ClientConnInterface
}

func NewADCSClient(cc grpc.ClientConnInterface) *ADCSClient {
	return &ADCSClient{cc: cc}
}

func adcsMethod(name string) string { return "/" + adcsServiceName + "/" + name }

func (c *ADCSClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, adcsMethod("Ping"), &PingRequest{}, opts)
}

func (c *ADCSClient) Ack(ctx context.Context, opts ...grpc.CallOption) (*AckResponse, error) {
	return invoke[AckResponse](ctx, c.cc, adcsMethod("Ack"), &AckRequest{}, opts)
}

func (c *ADCSClient) Power(ctx context.Context, opts ...grpc.CallOption) (*PowerResponse, error) {
	return invoke[PowerResponse](ctx, c.cc, adcsMethod("Power"), &PowerRequest{}, opts)
}

func (c *ADCSClient) Mode(ctx context.Context, opts ...grpc.CallOption) (*ModeResponse, error) {
	return invoke[ModeResponse](ctx, c.cc, adcsMethod("Mode"), &ModeRequest{}, opts)
}

func (c *ADCSClient) Spin(ctx context.Context, opts ...grpc.CallOption) (*SpinResponse, error) {
	return invoke[SpinResponse](ctx, c.cc, adcsMethod("Spin"), &SpinRequest{}, opts)
}

// Telemetry fetches one view.
func (c *ADCSClient) Telemetry(ctx context.Context, kind core.TelemetryKind, opts ...grpc.CallOption) (*ADCSTelemetryResponse, error) {
	return invoke[ADCSTelemetryResponse](ctx, c.cc, adcsMethod("Telemetry"), &TelemetryRequest{Kind: kind.String()}, opts)
}

// FullTelemetry fetches the nominal and debug views from a single read.
func (c *ADCSClient) FullTelemetry(ctx context.Context, opts ...grpc.CallOption) (*ADCSTelemetryResponse, error) {
	return invoke[ADCSTelemetryResponse](ctx, c.cc, adcsMethod("Telemetry"), &TelemetryRequest{}, opts)
}

func (c *ADCSClient) Noop(ctx context.Context, opts ...grpc.CallOption) (*core.GenericResponse, error) {
	return invoke[core.GenericResponse](ctx, c.cc, adcsMethod("Noop"), &NoopRequest{}, opts)
}

func (c *ADCSClient) ControlPower(ctx context.Context, state core.PowerState, opts ...grpc.CallOption) (*core.ControlPowerResponse, error) {
	return invoke[core.ControlPowerResponse](ctx, c.cc, adcsMethod("ControlPower"), &ControlPowerRequest{State: state.String()}, opts)
}

func (c *ADCSClient) ConfigureHardware(ctx context.Context, opts ...grpc.CallOption) (*core.GenericResponse, error) {
	return invoke[core.GenericResponse](ctx, c.cc, adcsMethod("ConfigureHardware"), &ConfigureHardwareRequest{}, opts)
}

func (c *ADCSClient) TestHardware(ctx context.Context, typ core.TestType, opts ...grpc.CallOption) (*ADCSTestHardwareResponse, error) {
	return invoke[ADCSTestHardwareResponse](ctx, c.cc, adcsMethod("TestHardware"), &TestHardwareRequest{Type: typ.String()}, opts)
}

func (c *ADCSClient) IssueRawCommand(ctx context.Context, raw []byte, opts ...grpc.CallOption) (*core.GenericResponse, error) {
	return invoke[core.GenericResponse](ctx, c.cc, adcsMethod("IssueRawCommand"), &IssueRawCommandRequest{Command: hex.EncodeToString(raw)}, opts)
}

func (c *ADCSClient) SetMode(ctx context.Context, mode core.ACSMode, params []int16, opts ...grpc.CallOption) (*core.GenericResponse, error) {
	return invoke[core.GenericResponse](ctx, c.cc, adcsMethod("SetMode"), &SetModeRequest{Mode: mode.String(), Params: params}, opts)
}

func (c *ADCSClient) Update(ctx context.Context, req *UpdateRequest, opts ...grpc.CallOption) (*core.GenericResponse, error) {
	return invoke[core.GenericResponse](ctx, c.cc, adcsMethod("Update"), req, opts)
}

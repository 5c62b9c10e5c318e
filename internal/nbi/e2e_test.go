package nbi

import (
	"context"
	"math"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/internal/device"
	"github.com/signalsfoundry/subsystem-services/internal/logging"
	"github.com/signalsfoundry/subsystem-services/internal/sim"
	"github.com/signalsfoundry/subsystem-services/model"
)

type e2eEnv struct {
	ctx  context.Context
	conn *grpc.ClientConn
	adcs *ADCSClient
	gnss *GNSSClient
}

func newE2EEnv(t *testing.T) *e2eEnv {
	t.Helper()
	adcsDev, _ := newSimADCS(t)
	gnssDev, gnssClock := newSimGNSS(t)
	gnssClock.Advance(time.Minute)
	return serveE2E(t, adcsDev, gnssDev)
}

// serveE2E serves both services over a loopback listener.
func serveE2E(t *testing.T, adcsDev device.ADCS, gnssDev device.GNSS) *e2eEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RequestIDUnaryServerInterceptor(logging.Noop()),
		TracingUnaryServerInterceptor(),
	))
	RegisterADCSServer(srv, NewADCSService(adcsDev))
	RegisterGNSSServer(srv, NewGNSSService(gnssDev))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(RequestIDUnaryClientInterceptor()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return &e2eEnv{ctx: ctx, conn: conn, adcs: NewADCSClient(conn), gnss: NewGNSSClient(conn)}
}

func TestE2E_ADCSOverTheWire(t *testing.T) {
	env := newE2EEnv(t)
	ctx := env.ctx

	pong, err := env.adcs.Ping(ctx)
	if err != nil || pong.Pong != "pong" {
		t.Fatalf("Ping = %+v, %v", pong, err)
	}

	if resp, err := env.adcs.SetMode(ctx, core.ModeNadirPointing, []int16{5, 6, 7}); err != nil || !resp.Success {
		t.Fatalf("SetMode = %+v, %v", resp, err)
	}
	mode, err := env.adcs.Mode(ctx)
	if err != nil || mode.Mode == nil || *mode.Mode != core.ModeNadirPointing {
		t.Fatalf("Mode = %+v, %v", mode, err)
	}

	tel, err := env.adcs.Telemetry(ctx, core.KindDebug)
	if err != nil {
		t.Fatalf("Telemetry: %v", err)
	}
	if tel.Debug == nil || tel.Nominal != nil {
		t.Fatalf("debug telemetry = %+v", tel)
	}
	if tel.Debug.Config.STType.Register != "st_type" {
		t.Fatalf("stType marker lost on the wire: %+v", tel.Debug.Config.STType)
	}

	th, err := env.adcs.TestHardware(ctx, core.TestIntegration)
	if err != nil {
		t.Fatalf("TestHardware: %v", err)
	}
	integ, ok := th.Integration()
	if !ok || !integ.Success || integ.Telemetry == nil {
		t.Fatalf("integration over the wire = %+v", th.Result)
	}
	if integ.Telemetry.Nominal.Std.ACSMode != 3 {
		t.Fatalf("integration acsMode = %d", integ.Telemetry.Nominal.Std.ACSMode)
	}

	cp, err := env.adcs.ControlPower(ctx, core.PowerReset)
	if err != nil || !cp.Success || cp.Power != core.PowerReset {
		t.Fatalf("ControlPower = %+v, %v", cp, err)
	}
	ack, err := env.adcs.Ack(ctx)
	if err != nil || ack.Command != core.AckControlPower {
		t.Fatalf("Ack = %+v, %v", ack, err)
	}
}

func TestE2E_InvalidArgumentsAreRejectedBeforeDispatch(t *testing.T) {
	env := newE2EEnv(t)
	ctx := env.ctx

	if _, err := env.adcs.Noop(ctx); err != nil {
		t.Fatalf("Noop: %v", err)
	}

	_, err := env.adcs.ControlPower(ctx, core.PowerState(9))
	wantCode(t, err, codes.InvalidArgument)
	_, err = invoke[core.GenericResponse](ctx, env.conn, adcsMethod("IssueRawCommand"), &IssueRawCommandRequest{Command: "xyz"}, nil)
	wantCode(t, err, codes.InvalidArgument)
	_, err = invoke[core.ConfigureHardwareResponse](ctx, env.conn, gnssMethod("ConfigureHardware"),
		&ConfigureHardwareRequest{Config: []ConfigInput{{Option: "LOG_EVERYTHING"}}}, nil)
	wantCode(t, err, codes.InvalidArgument)

	ack, err := env.adcs.Ack(ctx)
	if err != nil || ack.Command != core.AckNoop {
		t.Fatalf("ADCS ack = %+v, %v", ack, err)
	}
	gack, err := env.gnss.Ack(ctx)
	if err != nil || gack.Command != core.AckNone {
		t.Fatalf("GNSS ack = %+v, %v", gack, err)
	}
}

func TestE2E_GNSSOverTheWire(t *testing.T) {
	env := newE2EEnv(t)
	ctx := env.ctx

	st, err := env.gnss.LockStatus(ctx)
	if err != nil || st.LockStatus == nil || st.LockStatus.Status != core.SolComputed {
		t.Fatalf("LockStatus = %+v, %v", st, err)
	}

	resp, err := env.gnss.ConfigureHardware(ctx, []core.ConfigRequest{{Option: core.LogPositionData}})
	if err != nil {
		t.Fatalf("ConfigureHardware: %v", err)
	}
	want := []core.LogConfig{{Option: core.LogPositionData}}
	if !resp.Success || len(resp.Config) != 1 || resp.Config[0] != want[0] {
		t.Fatalf("configure = %+v", resp)
	}

	th, err := env.gnss.TestHardware(ctx, core.TestHardware)
	if err != nil {
		t.Fatalf("TestHardware: %v", err)
	}
	if hw, ok := th.Hardware(); !ok || !hw.Success || hw.Data == "" {
		t.Fatalf("hardware arm = %+v", th.Result)
	}

	cp, err := env.gnss.ControlPower(ctx, core.PowerOff)
	if err != nil {
		t.Fatalf("ControlPower: %v", err)
	}
	if cp.Success || cp.Errors == "" {
		t.Fatalf("receiver power off should fail in the envelope: %+v", cp)
	}

	full, err := env.gnss.FullTelemetry(ctx)
	if err != nil || full.Nominal == nil || full.Debug == nil {
		t.Fatalf("FullTelemetry = %+v, %v", full, err)
	}
}

// nanADCS reports a rate sensor and magnetometer that have gone non-finite.
type nanADCS struct {
	*sim.ADCS
}

func (a nanADCS) ReadTelemetry(ctx context.Context) (*model.ADCSTelemetryBlock, error) {
	b, err := a.ADCS.ReadTelemetry(ctx)
	if err != nil {
		return nil, err
	}
	b.Standard.OmegaB[0] = float32(math.NaN())
	b.Standard.Bd[1] = float32(math.Inf(1))
	return b, nil
}

// nanReceiver reports a fix whose time and one velocity axis are non-finite.
type nanReceiver struct {
	*sim.GNSS
}

func (r nanReceiver) ReadTelemetry(ctx context.Context) (*model.GNSSTelemetryBlock, error) {
	b, err := r.GNSS.ReadTelemetry(ctx)
	if err != nil {
		return nil, err
	}
	b.Info.Time = math.NaN()
	b.Info.Velocity[2] = math.Inf(-1)
	return b, nil
}

func TestE2E_NonFiniteRegistersCrossTheWire(t *testing.T) {
	adcsDev, _ := newSimADCS(t)
	gnssDev, gnssClock := newSimGNSS(t)
	gnssClock.Advance(time.Minute)
	env := serveE2E(t, nanADCS{adcsDev}, nanReceiver{gnssDev})
	ctx := env.ctx

	spin, err := env.adcs.Spin(ctx)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if spin.Errors != "" || spin.Spin == nil {
		t.Fatalf("Spin = %+v", spin)
	}
	if spin.Spin.X.Valid() || !spin.Spin.Y.Valid() || !spin.Spin.Z.Valid() {
		t.Fatalf("spin = %+v, want only x non-finite", *spin.Spin)
	}

	tel, err := env.adcs.Telemetry(ctx, core.KindNominal)
	if err != nil {
		t.Fatalf("Telemetry: %v", err)
	}
	if tel.Errors != "" || tel.Nominal == nil {
		t.Fatalf("Telemetry = %+v", tel)
	}
	std := tel.Nominal.Std
	if std.OmegaB[0].Valid() || std.Bd[1].Valid() || !std.Bd[0].Valid() {
		t.Fatalf("omegaB=%v bd=%v", std.OmegaB, std.Bd)
	}

	th, err := env.adcs.TestHardware(ctx, core.TestIntegration)
	if err != nil {
		t.Fatalf("TestHardware: %v", err)
	}
	integ, ok := th.Integration()
	if !ok || !integ.Success || integ.Telemetry == nil {
		t.Fatalf("integration = %+v", th.Result)
	}
	if integ.Telemetry.Nominal.Std.OmegaB[0].Valid() {
		t.Fatalf("integration omegaB[0] = %v, want non-finite", integ.Telemetry.Nominal.Std.OmegaB[0])
	}
	ack, err := env.adcs.Ack(ctx)
	if err != nil || ack.Command != core.AckTestHardware {
		t.Fatalf("Ack = %+v, %v", ack, err)
	}

	info, err := env.gnss.LockInfo(ctx)
	if err != nil {
		t.Fatalf("LockInfo: %v", err)
	}
	if info.Errors != "" || info.LockInfo == nil {
		t.Fatalf("LockInfo = %+v", info)
	}
	if info.LockInfo.Time.Valid() || info.LockInfo.Velocity[2].Valid() || !info.LockInfo.Position[0].Valid() {
		t.Fatalf("lock info = %+v", *info.LockInfo)
	}
}

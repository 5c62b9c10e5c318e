package nbi

import (
	"encoding"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/signalsfoundry/subsystem-services/core"
	"github.com/signalsfoundry/subsystem-services/model"
)

var (
	// ErrInvalidArgument marks a request rejected before dispatch.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDeviceUnavailable is returned when a service has no device attached.
	ErrDeviceUnavailable = errors.New("device not attached")
)

// maxModeParams is the longest SetMode parameter list the MAI-400 accepts
// (a commanded quaternion).
const maxModeParams = 4

type textEnum[T any] interface {
	*T
	encoding.TextUnmarshaler
}

// parseEnum parses a required enum name. Names are case-insensitive.
func parseEnum[T any, P textEnum[T]](field, name string) (T, error) {
	var v T
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return v, fmt.Errorf("%w: %s is required", ErrInvalidArgument, field)
	}
	if err := P(&v).UnmarshalText([]byte(name)); err != nil {
		return v, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, field, err)
	}
	return v, nil
}

// parseTelemetryKind reports which views a telemetry query wants.
func parseTelemetryKind(kind string) (nominal, debug bool, err error) {
	if strings.TrimSpace(kind) == "" {
		return true, true, nil
	}
	k, err := parseEnum[core.TelemetryKind]("kind", kind)
	if err != nil {
		return false, false, err
	}
	return k == core.KindNominal, k == core.KindDebug, nil
}

func parseConfig(in []ConfigInput) ([]core.ConfigRequest, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: config must name at least one option", ErrInvalidArgument)
	}
	out := make([]core.ConfigRequest, len(in))
	for i, c := range in {
		opt, err := parseEnum[core.ConfigOption](fmt.Sprintf("config[%d].option", i), c.Option)
		if err != nil {
			return nil, err
		}
		out[i] = core.ConfigRequest{Option: opt, Hold: c.Hold, Interval: c.Interval, Offset: c.Offset}
	}
	return out, nil
}

// parseRawCommand decodes a hex payload. A 0x prefix and embedded spaces
// are accepted.
func parseRawCommand(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil, fmt.Errorf("%w: command is required", ErrInvalidArgument)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: command is not valid hex: %v", ErrInvalidArgument, err)
	}
	return b, nil
}

func parseSetMode(req *SetModeRequest) (uint8, []int16, error) {
	mode, err := parseEnum[core.ACSMode]("mode", req.Mode)
	if err != nil {
		return 0, nil, err
	}
	raw, ok := mode.Raw()
	if !ok {
		return 0, nil, fmt.Errorf("%w: mode %s cannot be commanded", ErrInvalidArgument, mode)
	}
	if len(req.Params) > maxModeParams {
		return 0, nil, fmt.Errorf("%w: at most %d mode params, got %d", ErrInvalidArgument, maxModeParams, len(req.Params))
	}
	return raw, req.Params, nil
}

func parseUpdate(req *UpdateRequest) (*uint32, *model.OrbitUpdate, error) {
	if req.GPSTime == nil && req.RV == nil {
		return nil, nil, fmt.Errorf("%w: update needs gpsTime or rv", ErrInvalidArgument)
	}
	if req.RV == nil {
		return req.GPSTime, nil, nil
	}
	if len(req.RV.EciPos) != 3 || len(req.RV.EciVel) != 3 {
		return nil, nil, fmt.Errorf("%w: rv.eciPos and rv.eciVel need 3 components", ErrInvalidArgument)
	}
	rv := &model.OrbitUpdate{TimeEpoch: req.RV.TimeEpoch}
	for i := range 3 {
		rv.EciPos[i] = float32(req.RV.EciPos[i])
		rv.EciVel[i] = float32(req.RV.EciVel[i])
	}
	return req.GPSTime, rv, nil
}

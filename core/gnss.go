package core

import "github.com/signalsfoundry/subsystem-services/model"

// LockStatus is the decoded receiver lock state.
//
// Position and Velocity (the per-fix lock-quality flags) have no decoder:
// the bit tests depend on the receiver's interface control document.
type LockStatus struct {
	Status       SolutionStatus `json:"status"`
	PositionType PositionType   `json:"positionType"`
	Time         RefTimeStatus  `json:"time"`
	Position     Unimplemented  `json:"position"`
	Velocity     Unimplemented  `json:"velocity"`
}

// ProjectLockStatus decodes the three status dimensions.
func ProjectLockStatus(raw model.LockStatusBlock) LockStatus {
	return LockStatus{
		Status:       SolutionStatusCodes.Decode(raw.SolutionStatus),
		PositionType: PositionTypeCodes.Decode(raw.PositionType),
		Time:         RefTimeStatusCodes.Decode(raw.TimeStatus),
		Position:     NotImplemented("position_lock"),
		Velocity:     NotImplemented("velocity_lock"),
	}
}

// LockStatusMisses lists the raw codes in raw that decoded to a catch-all.
func LockStatusMisses(raw model.LockStatusBlock) []DecodeMiss {
	var out []DecodeMiss
	if m, ok := SolutionStatusCodes.Miss(raw.SolutionStatus); ok {
		out = append(out, m)
	}
	if m, ok := PositionTypeCodes.Miss(raw.PositionType); ok {
		out = append(out, m)
	}
	if m, ok := RefTimeStatusCodes.Miss(raw.TimeStatus); ok {
		out = append(out, m)
	}
	return out
}

// LockInfo is the last good fix. Position and Velocity are x/y/z.
type LockInfo struct {
	Time     Real   `json:"time"`
	Position []Real `json:"position"`
	Velocity []Real `json:"velocity"`
}

func ProjectLockInfo(raw model.LockInfoBlock) LockInfo {
	return LockInfo{
		Time:     WidenFloat(raw.Time),
		Position: WidenFloats(raw.Position[:]),
		Velocity: WidenFloats(raw.Velocity[:]),
	}
}

// VersionComponent describes one receiver component.
type VersionComponent struct {
	CompType    int64  `json:"compType"`
	Model       string `json:"model"`
	SerialNum   string `json:"serialNum"`
	HWVersion   string `json:"hwVersion"`
	SWVersion   string `json:"swVersion"`
	BootVersion string `json:"bootVersion"`
	CompileDate string `json:"compileDate"`
	CompileTime string `json:"compileTime"`
}

// VersionInfo is the receiver's version log, returned as debug telemetry.
type VersionInfo struct {
	NumComponents int64              `json:"numComponents"`
	Components    []VersionComponent `json:"components"`
}

// ProjectVersion copies the version log out of the driver's buffer.
func ProjectVersion(raw *model.VersionBlock) VersionInfo {
	if raw == nil {
		return VersionInfo{Components: []VersionComponent{}}
	}
	comps := make([]VersionComponent, len(raw.Components))
	for i, c := range raw.Components {
		comps[i] = VersionComponent{
			CompType:    WidenInt(c.CompType),
			Model:       c.Model,
			SerialNum:   c.SerialNum,
			HWVersion:   c.HWVersion,
			SWVersion:   c.SWVersion,
			BootVersion: c.BootVersion,
			CompileDate: c.CompileDate,
			CompileTime: c.CompileTime,
		}
	}
	return VersionInfo{
		NumComponents: WidenInt(raw.NumComponents),
		Components:    comps,
	}
}

// GNSSNominal is the nominal receiver telemetry view.
type GNSSNominal struct {
	LockStatus LockStatus `json:"lockStatus"`
	LockInfo   LockInfo   `json:"lockInfo"`
}

// ProjectGNSSNominal builds the nominal view for a raw block.
func ProjectGNSSNominal(b *model.GNSSTelemetryBlock) GNSSNominal {
	return GNSSNominal{
		LockStatus: ProjectLockStatus(b.Status),
		LockInfo:   ProjectLockInfo(b.Info),
	}
}

// GNSSIntegration is the payload of a receiver integration test.
type GNSSIntegration struct {
	Nominal GNSSNominal `json:"telemetryNominal"`
	Debug   VersionInfo `json:"telemetryDebug"`
}

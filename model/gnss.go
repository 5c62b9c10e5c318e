package model

// LockStatusBlock carries the raw status codes from the receiver's most
// recent position log.
type LockStatusBlock struct {
	SolutionStatus uint32
	PositionType   uint32
	TimeStatus     uint32
}

// LockInfoBlock is the last known good position/velocity fix. Position is
// ECEF metres, velocity ECEF m/s.
type LockInfoBlock struct {
	Time     float64
	Position [3]float64
	Velocity [3]float64
}

// Component describes one hardware or software component of the receiver,
// as returned by the VERSION log.
type Component struct {
	CompType    uint32
	Model       string
	SerialNum   string
	HWVersion   string
	SWVersion   string
	BootVersion string
	CompileDate string
	CompileTime string
}

// VersionBlock is the raw VERSION log.
type VersionBlock struct {
	NumComponents uint32
	Components    []Component
}

// GNSSTelemetryBlock is one nominal read of the receiver.
type GNSSTelemetryBlock struct {
	Status LockStatusBlock
	Info   LockInfoBlock
	// Uptime is seconds since the receiver last booted.
	Uptime uint32
}

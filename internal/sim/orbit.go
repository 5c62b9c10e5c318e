// Package sim provides simulated MAI-400 and OEM6 backends for the device
// contracts. They are deterministic given a clock, which makes them usable
// both as a stand-in when no hardware is attached and as test doubles.
package sim

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

const (
	// muEarth is the standard gravitational parameter in km^3/s^2.
	muEarth = 398600.4418
	// omegaEarth is the Earth rotation rate in rad/s.
	omegaEarth = 7.2921150e-5
)

// StateVector is a position/velocity pair at an instant. Units depend on the
// frame accessor that produced it.
type StateVector struct {
	Time     time.Time
	Position [3]float64
	Velocity [3]float64
}

// OrbitSource yields the spacecraft's inertial state, in km and km/s.
type OrbitSource interface {
	ECI(t time.Time) StateVector
}

// StaticOrbit always reports the same state. Used when no TLE is configured.
type StaticOrbit struct {
	Position [3]float64
	Velocity [3]float64
}

// ECI implements OrbitSource.
func (s StaticOrbit) ECI(t time.Time) StateVector {
	return StateVector{Time: t, Position: s.Position, Velocity: s.Velocity}
}

// SGP4Orbit propagates a TLE with SGP4.
type SGP4Orbit struct {
	sat satellite.Satellite
}

// NewSGP4Orbit constructs an orbit from TLE lines.
func NewSGP4Orbit(line1, line2 string) (*SGP4Orbit, error) {
	if err := ValidateTLE(line1, line2); err != nil {
		return nil, err
	}
	return &SGP4Orbit{sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS72)}, nil
}

// ECI implements OrbitSource.
func (o *SGP4Orbit) ECI(t time.Time) StateVector {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, vel := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)
	return StateVector{
		Time:     t,
		Position: [3]float64{pos.X, pos.Y, pos.Z},
		Velocity: [3]float64{vel.X, vel.Y, vel.Z},
	}
}

// NewOrbitSource chooses SGP4 when both TLE lines are present, otherwise a
// static orbit at a nominal 400 km circular state.
func NewOrbitSource(line1, line2 string) (OrbitSource, error) {
	if line1 == "" && line2 == "" {
		return defaultStaticOrbit(), nil
	}
	return NewSGP4Orbit(line1, line2)
}

func defaultStaticOrbit() StaticOrbit {
	r := 6778.137
	return StaticOrbit{
		Position: [3]float64{r, 0, 0},
		Velocity: [3]float64{0, math.Sqrt(muEarth / r), 0},
	}
}

// ValidateTLE checks the two-line element shape: 69 columns, line numbers in
// column 1 and matching catalog numbers.
func ValidateTLE(line1, line2 string) error {
	line1 = strings.TrimRight(line1, " \r\n")
	line2 = strings.TrimRight(line2, " \r\n")
	if len(line1) != 69 || len(line2) != 69 {
		return fmt.Errorf("tle: lines must be 69 columns, got %d and %d", len(line1), len(line2))
	}
	if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
		return fmt.Errorf("tle: lines must start with \"1 \" and \"2 \"")
	}
	if line1[2:7] != line2[2:7] {
		return fmt.Errorf("tle: catalog numbers differ (%q vs %q)", line1[2:7], line2[2:7])
	}
	return nil
}

// ToECEF rotates an inertial state into the Earth-fixed frame and converts it
// to metres and m/s, the receiver's native units.
func ToECEF(sv StateVector) StateVector {
	t := sv.Time.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	gmst := satellite.ThetaG_JD(satellite.JDay(year, int(month), day, hour, min, sec))

	pos := satellite.ECIToECEF(satellite.Vector3{X: sv.Position[0], Y: sv.Position[1], Z: sv.Position[2]}, gmst)
	vel := satellite.ECIToECEF(satellite.Vector3{X: sv.Velocity[0], Y: sv.Velocity[1], Z: sv.Velocity[2]}, gmst)

	// Remove the frame rotation: v_ecef = R v_eci - w x r_ecef.
	vel.X += omegaEarth * pos.Y
	vel.Y -= omegaEarth * pos.X

	const kmToM = 1000.0
	return StateVector{
		Time:     sv.Time,
		Position: [3]float64{pos.X * kmToM, pos.Y * kmToM, pos.Z * kmToM},
		Velocity: [3]float64{vel.X * kmToM, vel.Y * kmToM, vel.Z * kmToM},
	}
}

// Kepler holds classical orbital elements. Angles are degrees, the semi-major
// axis is km.
type Kepler struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
	Raan          float64
	ArgPerigee    float64
	TrueAnomaly   float64
}

// KeplerFromState converts an ECI state (km, km/s) to classical elements.
// Undefined angles (equatorial or circular orbits) are reported as zero.
func KeplerFromState(sv StateVector) Kepler {
	r := sv.Position
	v := sv.Velocity
	rMag := norm(r)
	vMag := norm(v)
	if rMag == 0 {
		return Kepler{}
	}

	h := cross(r, v)
	hMag := norm(h)
	n := [3]float64{-h[1], h[0], 0}
	nMag := norm(n)

	rv := dot(r, v)
	var e [3]float64
	for i := range e {
		e[i] = ((vMag*vMag-muEarth/rMag)*r[i] - rv*v[i]) / muEarth
	}
	ecc := norm(e)

	energy := vMag*vMag/2 - muEarth/rMag
	var a float64
	if energy != 0 {
		a = -muEarth / (2 * energy)
	}

	k := Kepler{SemiMajorAxis: a, Eccentricity: ecc}
	if hMag > 0 {
		k.Inclination = deg(math.Acos(clamp(h[2] / hMag)))
	}
	if nMag > 0 {
		k.Raan = deg(math.Acos(clamp(n[0] / nMag)))
		if n[1] < 0 {
			k.Raan = 360 - k.Raan
		}
		if ecc > 1e-9 {
			k.ArgPerigee = deg(math.Acos(clamp(dot(n, e) / (nMag * ecc))))
			if e[2] < 0 {
				k.ArgPerigee = 360 - k.ArgPerigee
			}
		}
	}
	if ecc > 1e-9 {
		k.TrueAnomaly = deg(math.Acos(clamp(dot(e, r) / (ecc * rMag))))
		if rv < 0 {
			k.TrueAnomaly = 360 - k.TrueAnomaly
		}
	}
	return k
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func norm(a [3]float64) float64   { return math.Sqrt(dot(a, a)) }
func deg(rad float64) float64     { return rad * 180 / math.Pi }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

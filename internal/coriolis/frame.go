// Package coriolis computes the Coriolis acceleration at a point of a
// rotating globe and keeps the state of the globe itself.
//
// All vectors live in the globe's local frame, which rotates with the
// globe. The rotation axis is +Y unless stated otherwise.
package coriolis

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EarthOmega is the angular velocity of the Earth in rad/s.
const EarthOmega = 7.292115e-5

const (
	// PoleThreshold is the |up·axis| above which east is built from a
	// reference vector instead of axis × up.
	PoleThreshold = 0.99

	VelocityArrowScale = 0.03
	AccelArrowScale    = 5000.0
	MinArrowLength     = 0.01
	MaxArrowLength     = 0.5
	OmegaArrowLength   = 0.25

	minVelocity = 1e-9
	minAccel    = 1e-12
)

// DefaultAxis is the rotation axis of the globe in its local frame.
var DefaultAxis = mgl64.Vec3{0, 1, 0}

var (
	ErrZeroPoint = errors.New("point has zero length")
	ErrZeroAxis  = errors.New("rotation axis has zero length")
)

// Frame is the orthonormal local basis at a surface point.
type Frame struct {
	Up, East, North mgl64.Vec3
	// Polar is set when the pole fallback built East.
	Polar bool
}

// LocalFrame returns the up/east/north basis at point for a globe
// spinning about axis.
func LocalFrame(point, axis mgl64.Vec3) (Frame, error) {
	if point.Len() == 0 {
		return Frame{}, ErrZeroPoint
	}
	if axis.Len() == 0 {
		return Frame{}, ErrZeroAxis
	}
	axis = axis.Normalize()
	up := point.Normalize()

	f := Frame{Up: up}
	if math.Abs(up.Dot(axis)) > PoleThreshold {
		ref := reference(axis)
		f.East = ref.Sub(up.Mul(ref.Dot(up))).Normalize()
		f.Polar = true
	} else {
		f.East = axis.Cross(up).Normalize()
	}
	f.North = up.Cross(f.East).Normalize()
	return f, nil
}

// reference returns a fixed unit vector orthogonal to axis. For the +Y
// axis this is +X.
func reference(axis mgl64.Vec3) mgl64.Vec3 {
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(axis.X()) > 0.9 {
		ref = mgl64.Vec3{0, 0, 1}
	}
	return ref.Sub(axis.Mul(ref.Dot(axis))).Normalize()
}

// Velocity composes a horizontal velocity from its north and east parts.
func (f Frame) Velocity(north, east float64) mgl64.Vec3 {
	return f.North.Mul(north).Add(f.East.Mul(east))
}

// Omega is the angular velocity vector of a globe spinning about axis at
// the Earth's rate.
func Omega(axis mgl64.Vec3) mgl64.Vec3 {
	return axis.Normalize().Mul(EarthOmega)
}

// Acceleration returns a = -2 (Ω × v).
func Acceleration(omega, v mgl64.Vec3) mgl64.Vec3 {
	return omega.Cross(v).Mul(-2)
}

// Arrow is a vector to draw from the selected point.
type Arrow struct {
	Direction mgl64.Vec3
	Length    float64
	Visible   bool
}

// Result is everything computed at one selected point.
type Result struct {
	Point        mgl64.Vec3
	Frame        Frame
	Omega        mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
	Speed        float64
	Magnitude    float64

	VelocityArrow Arrow
	AccelArrow    Arrow
	OmegaArrow    Arrow
}

// Evaluate computes the frame, velocity and Coriolis acceleration at point
// for the given north and east speeds in m/s. It depends only on the
// physical rotation rate, never on how fast the globe is drawn spinning.
func Evaluate(point, axis mgl64.Vec3, north, east float64) (Result, error) {
	f, err := LocalFrame(point, axis)
	if err != nil {
		return Result{}, fmt.Errorf("local frame: %w", err)
	}
	omega := Omega(axis)
	v := f.Velocity(north, east)
	a := Acceleration(omega, v)

	r := Result{
		Point:        point,
		Frame:        f,
		Omega:        omega,
		Velocity:     v,
		Acceleration: a,
		Speed:        v.Len(),
		Magnitude:    a.Len(),
		OmegaArrow:   Arrow{Direction: axis.Normalize(), Length: OmegaArrowLength, Visible: true},
	}
	if r.Speed > minVelocity {
		r.VelocityArrow = Arrow{Direction: v.Normalize(), Length: ArrowLength(r.Speed, VelocityArrowScale), Visible: true}
		if r.Magnitude > minAccel {
			r.AccelArrow = Arrow{Direction: a.Normalize(), Length: ArrowLength(r.Magnitude, AccelArrowScale), Visible: true}
		}
	}
	return r, nil
}

// ArrowLength scales a magnitude into a drawable length clamped to
// [MinArrowLength, MaxArrowLength].
func ArrowLength(magnitude, scale float64) float64 {
	return math.Min(MaxArrowLength, math.Max(MinArrowLength, magnitude*scale))
}

// PointFromLatLon returns the local position of a latitude and longitude
// in degrees on a globe of the given radius. Latitude is measured from the
// equator towards +Y and longitude from +X towards -Z, so east at
// longitude 0 is -Z.
func PointFromLatLon(lat, lon, radius float64) mgl64.Vec3 {
	phi := mgl64.DegToRad(lat)
	lambda := mgl64.DegToRad(lon)
	return mgl64.Vec3{
		radius * math.Cos(phi) * math.Cos(lambda),
		radius * math.Sin(phi),
		-radius * math.Cos(phi) * math.Sin(lambda),
	}
}

// LatLon inverts PointFromLatLon and returns degrees.
func LatLon(p mgl64.Vec3) (lat, lon float64) {
	r := p.Len()
	if r == 0 {
		return 0, 0
	}
	lat = mgl64.RadToDeg(math.Asin(mgl64.Clamp(p.Y()/r, -1, 1)))
	lon = mgl64.RadToDeg(math.Atan2(-p.Z(), p.X()))
	return lat, lon
}

// FormatMagnitude prints an acceleration in scientific notation.
func FormatMagnitude(a float64) string {
	return fmt.Sprintf("%.2e m/s²", a)
}

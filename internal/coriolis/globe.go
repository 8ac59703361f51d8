package coriolis

import (
	"errors"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxVisualSpeed is the spin of the globe at slider 100, in rad/frame.
	MaxVisualSpeed     = 0.01
	InitialVisualSpeed = 0.002

	SliderMin = 0.0
	SliderMax = 100.0

	// FPS is the frame rate the globe is animated at.
	FPS = 60
)

var ErrNoSelection = errors.New("no point selected")

// SpeedFromSlider maps a slider value in [0, 100] to a visual speed in rad/frame.
func SpeedFromSlider(s float64) float64 {
	if math.IsNaN(s) {
		s = SliderMin
	}
	s = math.Max(SliderMin, math.Min(SliderMax, s))
	return s / SliderMax * MaxVisualSpeed
}

// Globe is the animated globe with one selected surface point. The
// selection is held in the local frame so it turns with the globe.
type Globe struct {
	axis     mgl64.Vec3
	angle    float64
	rotating bool

	speed    float64
	speedVel float64
	target   float64
	spring   harmonica.Spring

	selection mgl64.Vec3
	selected  bool
	north     float64
	east      float64
}

// NewGlobe returns a rotating globe at the initial visual speed with no
// selection.
func NewGlobe() *Globe {
	return &Globe{
		axis:     DefaultAxis,
		rotating: true,
		speed:    InitialVisualSpeed,
		target:   InitialVisualSpeed,
		spring:   harmonica.NewSpring(harmonica.FPS(FPS), 6.0, 1.0),
	}
}

func (g *Globe) Axis() mgl64.Vec3     { return g.axis }
func (g *Globe) Angle() float64       { return g.angle }
func (g *Globe) Rotating() bool       { return g.rotating }
func (g *Globe) Speed() float64       { return g.speed }
func (g *Globe) TargetSpeed() float64 { return g.target }

// Slider returns the slider position of the target speed.
func (g *Globe) Slider() float64 { return g.target / MaxVisualSpeed * SliderMax }

// SetSlider changes the target visual speed. The drawn speed eases toward it.
func (g *Globe) SetSlider(s float64) {
	g.target = SpeedFromSlider(s)
}

// ToggleRotation flips the rotating flag and returns the new value.
func (g *Globe) ToggleRotation() bool {
	g.rotating = !g.rotating
	return g.rotating
}

// Advance moves the animation by one frame.
func (g *Globe) Advance() {
	g.speed, g.speedVel = g.spring.Update(g.speed, g.speedVel, g.target)
	if math.Abs(g.speed-g.target) < 1e-7 && math.Abs(g.speedVel) < 1e-7 {
		g.speed, g.speedVel = g.target, 0
	}
	if !g.rotating {
		return
	}
	g.angle = math.Mod(g.angle+g.speed, 2*math.Pi)
}

// Select picks a point by latitude and longitude in degrees.
func (g *Globe) Select(lat, lon float64) {
	lat = math.Max(-90, math.Min(90, lat))
	g.selection = PointFromLatLon(lat, wrapLongitude(lon), 1)
	g.selected = true
}

// MoveSelection shifts the selection by the given degrees. Latitude stops
// at the poles and longitude wraps.
func (g *Globe) MoveSelection(dLat, dLon float64) {
	lat, lon := 0.0, 0.0
	if g.selected {
		lat, lon = LatLon(g.selection)
	}
	g.Select(lat+dLat, lon+dLon)
}

func wrapLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Selection returns the selected point in the local frame.
func (g *Globe) Selection() (mgl64.Vec3, bool) { return g.selection, g.selected }

// SelectionLatLon returns the selected latitude and longitude in degrees.
func (g *Globe) SelectionLatLon() (float64, float64, bool) {
	if !g.selected {
		return 0, 0, false
	}
	lat, lon := LatLon(g.selection)
	return lat, lon, true
}

// SetVelocity sets the north and east speed at the selection in m/s.
func (g *Globe) SetVelocity(north, east float64) {
	g.north, g.east = north, east
}

// Velocity returns the north and east speed in m/s.
func (g *Globe) Velocity() (north, east float64) { return g.north, g.east }

// Evaluate computes the Coriolis result at the selection.
func (g *Globe) Evaluate() (Result, error) {
	if !g.selected {
		return Result{}, ErrNoSelection
	}
	return Evaluate(g.selection, g.axis, g.north, g.east)
}

// ToWorld rotates a local vector into the world frame at the current angle.
func (g *Globe) ToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.HomogRotate3D(g.angle, g.axis).Mul4x1(v.Vec4(0)).Vec3()
}

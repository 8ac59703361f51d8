package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vizlab/internal/coriolis"
)

// Cell tags used when drawing the globe.
const (
	tagLand uint8 = iota + 1
	tagVelocity
	tagOmega
	tagCoriolis
	tagSelection
	tagBodyA
	tagBodyB
	tagTrack
)

// Camera looks at the origin along -Z with an orthographic projection.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{RotX: 0.35, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX = mgl64.Clamp(c.RotX+a, -math.Pi/2, math.Pi/2) }
func (c *Camera) RotateY(a float64) { c.RotY = math.Mod(c.RotY+a, 2*math.Pi) }

func (c *Camera) view() mgl64.Mat4 {
	return mgl64.HomogRotate3DX(c.RotX).Mul4(mgl64.HomogRotate3DY(c.RotY))
}

// Project maps a world point to sub-pixel coordinates of a pw x ph canvas.
// The point is visible when it faces the camera.
func (c *Camera) Project(p mgl64.Vec3, pw, ph int) (int, int, bool) {
	v := c.view().Mul4x1(p.Vec4(1)).Vec3()
	r := float64(min(pw, ph)) * 0.45 * c.Zoom
	x := int(math.Round(float64(pw)/2 + v.X()*r))
	y := int(math.Round(float64(ph)/2 - v.Y()*r))
	return x, y, v.Z() >= 0
}

// GlobeScene is what DrawGlobe needs for one frame.
type GlobeScene struct {
	Globe   *coriolis.Globe
	Camera  *Camera
	Texture *coriolis.Texture
	Result  *coriolis.Result
}

// DrawGlobe renders the wireframe globe, optional land dots, the selected
// point and its arrows onto c.
func DrawGlobe(c *Canvas, s GlobeScene) {
	pw, ph := c.PixelWidth(), c.PixelHeight()
	g, cam := s.Globe, s.Camera

	plot := func(local mgl64.Vec3, tag uint8) {
		x, y, ok := cam.Project(g.ToWorld(local), pw, ph)
		if ok {
			c.SetTagged(x, y, tag)
		}
	}

	for lat := -60.0; lat <= 60; lat += 30 {
		for lon := -180.0; lon < 180; lon += 2 {
			plot(coriolis.PointFromLatLon(lat, lon, 1), 0)
		}
	}
	for lon := -180.0; lon < 180; lon += 30 {
		for lat := -90.0; lat <= 90; lat += 2 {
			plot(coriolis.PointFromLatLon(lat, lon, 1), 0)
		}
	}

	if s.Texture != nil {
		for lat := -84.0; lat <= 84; lat += 4 {
			for lon := -180.0; lon < 180; lon += 4 {
				if s.Texture.Land(lat, lon) {
					plot(coriolis.PointFromLatLon(lat, lon, 1), tagLand)
				}
			}
		}
	}

	// limb
	r := float64(min(pw, ph)) * 0.45 * cam.Zoom
	for a := 0.0; a < 2*math.Pi; a += 0.02 {
		c.Set(int(math.Round(float64(pw)/2+r*math.Cos(a))), int(math.Round(float64(ph)/2+r*math.Sin(a))))
	}

	if s.Result == nil {
		return
	}
	res := s.Result
	origin := res.Point.Normalize()
	arrow := func(a coriolis.Arrow, tag uint8) {
		if !a.Visible {
			return
		}
		end := origin.Add(a.Direction.Mul(a.Length))
		x0, y0, _ := cam.Project(g.ToWorld(origin), pw, ph)
		x1, y1, ok := cam.Project(g.ToWorld(end), pw, ph)
		if !ok {
			return
		}
		c.DrawLineTagged(x0, y0, x1, y1, tag)
		c.FillRect(x1-1, y1-1, x1+1, y1+1, tag)
	}
	arrow(res.OmegaArrow, tagOmega)
	arrow(res.VelocityArrow, tagVelocity)
	arrow(res.AccelArrow, tagCoriolis)

	x, y, ok := cam.Project(g.ToWorld(origin), pw, ph)
	if ok {
		c.FillRect(x-1, y-1, x+1, y+1, tagSelection)
	}
}

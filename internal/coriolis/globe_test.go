package coriolis

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/vizlab/internal/logging"
)

func TestSpeedFromSlider(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{20, 0.002},
		{100, 0.01},
		{150, 0.01},
		{-5, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := SpeedFromSlider(tt.in); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("SpeedFromSlider(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGlobe_EasesTowardTarget(t *testing.T) {
	g := NewWithT(t)
	globe := NewGlobe()
	g.Expect(globe.Rotating()).To(BeTrue())
	g.Expect(globe.Speed()).To(Equal(InitialVisualSpeed))

	globe.SetSlider(100)
	globe.Advance()
	g.Expect(globe.Speed()).To(BeNumerically(">", InitialVisualSpeed))
	g.Expect(globe.Speed()).To(BeNumerically("<", MaxVisualSpeed))

	for i := 0; i < 10*FPS; i++ {
		globe.Advance()
	}
	g.Expect(globe.Speed()).To(BeNumerically("~", MaxVisualSpeed, 1e-6))
	g.Expect(globe.Slider()).To(BeNumerically("~", 100, 1e-9))
}

func TestGlobe_RotationToggle(t *testing.T) {
	globe := NewGlobe()
	globe.Advance()
	angle := globe.Angle()
	if angle <= 0 {
		t.Fatalf("expected the globe to turn, angle %v", angle)
	}
	if globe.ToggleRotation() {
		t.Fatal("expected rotation off")
	}
	globe.Advance()
	if globe.Angle() != angle {
		t.Error("stopped globe must not turn")
	}
}

func TestGlobe_ResultIndependentOfVisualSpeed(t *testing.T) {
	g := NewWithT(t)
	slow, fast := NewGlobe(), NewGlobe()
	for _, globe := range []*Globe{slow, fast} {
		globe.Select(35, -20)
		globe.SetVelocity(12, -3)
	}
	slow.SetSlider(0)
	fast.SetSlider(100)
	for i := 0; i < 90; i++ {
		slow.Advance()
		fast.Advance()
	}

	a, err := slow.Evaluate()
	g.Expect(err).NotTo(HaveOccurred())
	b, err := fast.Evaluate()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(a.Acceleration.ApproxEqual(b.Acceleration)).To(BeTrue())
	g.Expect(a.Magnitude).To(Equal(b.Magnitude))
}

func TestGlobe_Selection(t *testing.T) {
	g := NewWithT(t)
	globe := NewGlobe()
	_, err := globe.Evaluate()
	g.Expect(err).To(MatchError(ErrNoSelection))

	globe.Select(88, 170)
	globe.MoveSelection(5, 20)
	lat, lon, ok := globe.SelectionLatLon()
	g.Expect(ok).To(BeTrue())
	g.Expect(lat).To(BeNumerically("~", 90, 1e-9))
	_ = lon

	globe.Select(10, 170)
	globe.MoveSelection(0, 20)
	_, lon, _ = globe.SelectionLatLon()
	g.Expect(lon).To(BeNumerically("~", -170, 1e-9))
}

func TestGlobe_ToWorldKeepsAxis(t *testing.T) {
	globe := NewGlobe()
	for i := 0; i < 50; i++ {
		globe.Advance()
	}
	if w := globe.ToWorld(DefaultAxis); !w.ApproxEqual(DefaultAxis) {
		t.Errorf("axis moved under rotation: %v", w)
	}
	p := PointFromLatLon(0, 0, 1)
	if w := globe.ToWorld(p); math.Abs(w.Len()-1) > 1e-12 || w.ApproxEqual(p) {
		t.Errorf("unexpected world point %v", w)
	}
}

func TestTrace_DeflectsRight(t *testing.T) {
	g := NewWithT(t)
	pts, err := Trace(context.Background(), TraceConfig{Latitude: 45, North: 10, Duration: 3600, Dt: 10})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pts).To(HaveLen(361))
	last := pts[len(pts)-1]
	g.Expect(last.East).To(BeNumerically(">", 0))
	g.Expect(last.North).To(BeNumerically(">", 0))

	speed := math.Hypot(last.VEast, last.VNorth)
	g.Expect(speed).To(BeNumerically("~", 10, 1e-6))

	pts, err = Trace(context.Background(), TraceConfig{Latitude: -45, North: 10, Duration: 3600, Dt: 10, Integrator: "euler"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pts[len(pts)-1].East).To(BeNumerically("<", 0))
}

func TestTrace_Errors(t *testing.T) {
	if _, err := Trace(context.Background(), TraceConfig{Duration: 0, Dt: 1}); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := Trace(context.Background(), TraceConfig{Duration: 10, Dt: 1, Integrator: "magic"}); err == nil {
		t.Error("expected error for unknown integrator")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Trace(ctx, TraceConfig{Duration: 10, Dt: 1}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.RGBA{R: 40, G: 140, B: 30, A: 255})
		img.Set(x, 1, color.RGBA{R: 5, G: 20, B: 120, A: 255})
	}
	path := filepath.Join(t.TempDir(), "earth.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := LoadTexture(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !tex.Land(45, 0) {
		t.Error("northern half should be land")
	}
	if tex.Land(-45, 0) {
		t.Error("southern half should be ocean")
	}
	if tex.Luminance(45, 0) <= tex.Luminance(-45, 0) {
		t.Error("land should be brighter than ocean in this image")
	}

	if LoadTextureOrWireframe(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"), logging.Discard()) != nil {
		t.Error("missing texture should fall back to wireframe")
	}
	var none *Texture
	if none.Land(0, 0) || none.Luminance(0, 0) != 0 {
		t.Error("nil texture should read as empty")
	}
}

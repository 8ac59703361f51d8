package coriolis

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"
	"time"
)

// Texture is an equirectangular map sampled by latitude and longitude.
type Texture struct {
	img image.Image
}

// NewTexture wraps a decoded image.
func NewTexture(img image.Image) *Texture { return &Texture{img: img} }

// LoadTexture reads an image from a file path or an http(s) URL.
func LoadTexture(ctx context.Context, src string) (*Texture, error) {
	if src == "" {
		return nil, fmt.Errorf("no texture source")
	}
	var r io.ReadCloser
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch texture: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch texture: %s", resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open texture: %w", err)
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	return NewTexture(img), nil
}

// LoadTextureOrWireframe returns nil when the texture cannot be loaded, so
// the globe is drawn as a plain wireframe. The failure is logged.
func LoadTextureOrWireframe(ctx context.Context, src string, log *slog.Logger) *Texture {
	if src == "" {
		return nil
	}
	tex, err := LoadTexture(ctx, src)
	if err != nil {
		log.Warn("texture unavailable, using wireframe", "src", src, "error", err)
		return nil
	}
	return tex
}

func (t *Texture) at(lat, lon float64) color.Color {
	b := t.img.Bounds()
	u := (lon + 180) / 360
	v := (90 - lat) / 180
	x := b.Min.X + int(math.Min(float64(b.Dx()-1), math.Max(0, u*float64(b.Dx()))))
	y := b.Min.Y + int(math.Min(float64(b.Dy()-1), math.Max(0, v*float64(b.Dy()))))
	return t.img.At(x, y)
}

// Luminance returns the brightness in [0, 1] at a latitude and longitude in degrees.
func (t *Texture) Luminance(lat, lon float64) float64 {
	if t == nil || t.img == nil {
		return 0
	}
	g := color.GrayModel.Convert(t.at(lat, lon)).(color.Gray)
	return float64(g.Y) / 255
}

// Land reports whether the texel at lat, lon looks like land rather than
// ocean, that is red and green together outweigh blue.
func (t *Texture) Land(lat, lon float64) bool {
	if t == nil || t.img == nil {
		return false
	}
	r, g, b, _ := t.at(lat, lon).RGBA()
	return r+g >= 2*b
}

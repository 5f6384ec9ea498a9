package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
)

// Point is a device-space coordinate.
type Point struct {
	X, Y float64
}

// kappa places cubic Bézier control points for a quarter ellipse.
const kappa = 0.5522847498

// FillPolygon fills the closed polygon pts onto dst.
func FillPolygon(dst draw.Image, pts []Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	z, ok := rasterizer(dst)
	if !ok {
		return
	}
	z.MoveTo(f32(pts[0].X), f32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(f32(p.X), f32(p.Y))
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// FillEllipse fills the ellipse inscribed in the box [min, max] onto dst.
func FillEllipse(dst draw.Image, min, max Point, c color.Color) {
	if max.X <= min.X || max.Y <= min.Y {
		return
	}
	z, ok := rasterizer(dst)
	if !ok {
		return
	}
	cx, cy := (min.X+max.X)/2, (min.Y+max.Y)/2
	rx, ry := (max.X-min.X)/2, (max.Y-min.Y)/2
	ox, oy := rx*kappa, ry*kappa

	z.MoveTo(f32(cx+rx), f32(cy))
	z.CubeTo(f32(cx+rx), f32(cy+oy), f32(cx+ox), f32(cy+ry), f32(cx), f32(cy+ry))
	z.CubeTo(f32(cx-ox), f32(cy+ry), f32(cx-rx), f32(cy+oy), f32(cx-rx), f32(cy))
	z.CubeTo(f32(cx-rx), f32(cy-oy), f32(cx-ox), f32(cy-ry), f32(cx), f32(cy-ry))
	z.CubeTo(f32(cx+ox), f32(cy-ry), f32(cx+rx), f32(cy-oy), f32(cx+rx), f32(cy))
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// FillCircle fills a circle of radius r centred on p.
func FillCircle(dst draw.Image, p Point, r float64, c color.Color) {
	FillEllipse(dst, Point{p.X - r, p.Y - r}, Point{p.X + r, p.Y + r}, c)
}

// StrokeLine draws a straight segment of the given width with butt caps.
func StrokeLine(dst draw.Image, from, to Point, width float64, c color.Color) {
	FillPolygon(dst, lineQuad(from, to, width), c)
}

func lineQuad(from, to Point, width float64) []Point {
	dx, dy := to.X-from.X, to.Y-from.Y
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return nil
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	return []Point{
		{from.X + nx, from.Y + ny},
		{to.X + nx, to.Y + ny},
		{to.X - nx, to.Y - ny},
		{from.X - nx, from.Y - ny},
	}
}

func rasterizer(dst draw.Image) (*vector.Rasterizer, bool) {
	b := dst.Bounds()
	if b.Empty() {
		return nil, false
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	return z, true
}

func f32(v float64) float32 { return float32(v) }

// ParseColor accepts "#rrggbb", "#rrggbbaa" or an SVG colour name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

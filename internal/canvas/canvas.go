// Package canvas is a retained-mode drawing surface. It shows one bitmap and a
// stack of overlay primitives, each addressed by a Handle until deleted.
//
// A Canvas is owned by the rendering goroutine and is not safe for concurrent
// use.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
)

// Handle addresses a live primitive. The zero Handle is never issued.
type Handle uint64

// Kind is the shape of a primitive.
type Kind uint8

const (
	KindLine Kind = iota + 1
	KindPolygon
	KindEllipse
)

// Primitive is a drawn overlay shape.
type Primitive struct {
	Kind   Kind
	Points []Point // line: [from, to]; polygon: vertices; ellipse: [min, max]
	Width  float64 // line only
	Color  color.Color
}

// Canvas implements the rendering surface.
type Canvas struct {
	width, height int
	background    color.Color

	bitmap *image.RGBA
	center image.Point

	items map[Handle]Primitive
	order []Handle
	next  Handle

	onResize []func(width, height int)
}

// New returns an empty canvas of the given size.
func New(width, height int, background color.Color) *Canvas {
	if background == nil {
		background = color.Transparent
	}
	return &Canvas{
		width:      width,
		height:     height,
		background: background,
		items:      make(map[Handle]Primitive),
	}
}

// Size reports the current pixel dimensions.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// OnResize registers fn to run after every size change.
func (c *Canvas) OnResize(fn func(width, height int)) {
	c.onResize = append(c.onResize, fn)
}

// Resize changes the canvas size and notifies resize callbacks. It reports
// whether the size actually changed.
func (c *Canvas) Resize(width, height int) bool {
	if width == c.width && height == c.height {
		return false
	}
	c.width, c.height = width, height
	for _, fn := range c.onResize {
		fn(width, height)
	}
	return true
}

// SetBitmap shows img centred on center, replacing any previous bitmap. The
// canvas keeps img; callers must not modify it afterwards.
func (c *Canvas) SetBitmap(img *image.RGBA, center image.Point) {
	c.bitmap = img
	c.center = center
}

// Bitmap returns the displayed bitmap and its centre.
func (c *Canvas) Bitmap() (*image.RGBA, image.Point) {
	return c.bitmap, c.center
}

// Line adds a line primitive.
func (c *Canvas) Line(from, to Point, width float64, col color.Color) Handle {
	return c.add(Primitive{Kind: KindLine, Points: []Point{from, to}, Width: width, Color: col})
}

// Polygon adds a filled polygon primitive.
func (c *Canvas) Polygon(pts []Point, col color.Color) Handle {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	return c.add(Primitive{Kind: KindPolygon, Points: cp, Color: col})
}

// Ellipse adds a filled ellipse inscribed in [min, max].
func (c *Canvas) Ellipse(min, max Point, col color.Color) Handle {
	return c.add(Primitive{Kind: KindEllipse, Points: []Point{min, max}, Color: col})
}

// Delete removes a primitive. Unknown handles are ignored.
func (c *Canvas) Delete(h Handle) bool {
	if _, ok := c.items[h]; !ok {
		return false
	}
	delete(c.items, h)
	for i, o := range c.order {
		if o == h {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Primitive looks up a live primitive.
func (c *Canvas) Primitive(h Handle) (Primitive, bool) {
	p, ok := c.items[h]
	return p, ok
}

// Len returns the number of live primitives.
func (c *Canvas) Len() int {
	return len(c.items)
}

func (c *Canvas) add(p Primitive) Handle {
	c.next++
	h := c.next
	c.items[h] = p
	c.order = append(c.order, h)
	return h
}

// Render paints the background, the bitmap and then every primitive in
// creation order onto dst.
func (c *Canvas) Render(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
	if c.bitmap != nil {
		b := c.bitmap.Bounds()
		origin := c.center.Sub(image.Pt(b.Dx()/2, b.Dy()/2))
		draw.Draw(dst, image.Rectangle{Min: origin, Max: origin.Add(b.Size())}, c.bitmap, b.Min, draw.Over)
	}
	for _, h := range c.order {
		p := c.items[h]
		switch p.Kind {
		case KindLine:
			StrokeLine(dst, p.Points[0], p.Points[1], p.Width, p.Color)
		case KindPolygon:
			FillPolygon(dst, p.Points, p.Color)
		case KindEllipse:
			FillEllipse(dst, p.Points[0], p.Points[1], p.Color)
		}
	}
}

// Snapshot renders into a new image of the canvas size.
func (c *Canvas) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(c.width, 1), max(c.height, 1)))
	c.Render(img)
	return img
}

package view_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/Alia5/padscope/internal/canvas"
	"github.com/Alia5/padscope/internal/view"
	"github.com/Alia5/padscope/pad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grey = color.RGBA{0x40, 0x40, 0x40, 0xff}

func reference(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = grey.R, grey.G, grey.B, grey.A
	}
	return img
}

func newView(t *testing.T, w, h int) (*view.View, *canvas.Canvas, *view.Store) {
	t.Helper()
	c := canvas.New(0, 0, color.White)
	store := view.NewStore(reference(1200, 1200), 800, 500)
	v := view.New(store, c, view.DefaultConfig(), nil)
	c.OnResize(func(w, h int) { require.NoError(t, v.Resize(w, h)) })
	c.Resize(w, h)
	return v, c, store
}

func TestMapperIdentity(t *testing.T) {
	m := view.NewMapper(image.Pt(1200, 1200), 1200, 1200)
	for _, b := range pad.Buttons() {
		p := b.Position()
		assert.Equal(t, canvas.Point{X: p.X, Y: p.Y}, m.CanvasPoint(p), b.String())
		assert.Equal(t, canvas.Point{X: p.X, Y: p.Y}, m.ImagePoint(p), b.String())
	}
	assert.Equal(t, 1.0, m.Unit())
}

func TestMapperScalesAndCentres(t *testing.T) {
	m := view.NewMapper(image.Pt(600, 300), 1000, 500)
	assert.Equal(t, 0.5, m.ScaleX)
	assert.Equal(t, 0.25, m.ScaleY)
	assert.Equal(t, 0.25, m.Unit())
	assert.Equal(t, canvas.Point{X: 200, Y: 100}, m.Offset)
	assert.Equal(t, image.Pt(500, 250), m.Center)

	got := m.CanvasPoint(pad.Position{X: 400, Y: 400})
	assert.Equal(t, canvas.Point{X: 400, Y: 200}, got)
	assert.False(t, view.Mapper{}.Valid())
}

func TestMapperMatchesBitmapOrigin(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{name: "even", w: 1200, h: 900},
		{name: "odd canvas", w: 1001, h: 999},
		{name: "odd image", w: 1801, h: 1201},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c, _ := newView(t, tt.w, tt.h)
			img, center := c.Bitmap()
			require.NotNil(t, img)
			size := img.Bounds().Size()
			origin := center.Sub(image.Pt(size.X/2, size.Y/2))

			m := view.NewMapper(size, tt.w, tt.h)
			assert.Equal(t, canvas.Point{X: float64(origin.X), Y: float64(origin.Y)}, m.Offset)
			assert.Equal(t, m.Offset, m.CanvasPoint(pad.Position{}))
		})
	}

	m := view.NewMapper(image.Pt(801, 601), 1000, 800)
	assert.Equal(t, canvas.Point{X: 100, Y: 100}, m.Offset, "half pixel snaps left and up")
}

func TestStoreFit(t *testing.T) {
	tests := []struct {
		name             string
		ref              image.Point
		canvasW, canvasH int
		want             image.Point
	}{
		{name: "square exact", ref: image.Pt(1200, 1200), canvasW: 1200, canvasH: 1200, want: image.Pt(1200, 1200)},
		{name: "wide canvas is height bound", ref: image.Pt(1200, 1200), canvasW: 2000, canvasH: 1000, want: image.Pt(1000, 1000)},
		{name: "tall canvas is width bound then clamped", ref: image.Pt(1200, 600), canvasW: 900, canvasH: 2000, want: image.Pt(1000, 500)},
		{name: "minimum width wins", ref: image.Pt(1200, 1200), canvasW: 300, canvasH: 300, want: image.Pt(800, 800)},
		{name: "minimum height keeps aspect", ref: image.Pt(1600, 400), canvasW: 1000, canvasH: 100, want: image.Pt(2000, 500)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := view.NewStore(reference(tt.ref.X, tt.ref.Y), 800, 500)
			got := s.Fit(tt.canvasW, tt.canvasH)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.X, 800)
			assert.GreaterOrEqual(t, got.Y, 500)
		})
	}
}

func TestStoreResize(t *testing.T) {
	ref := reference(1200, 1200)
	s := view.NewStore(ref, 800, 500)
	assert.Nil(t, s.Scaled())
	_, err := s.Copy()
	assert.ErrorIs(t, err, view.ErrNoCanvas)

	assert.ErrorIs(t, s.Resize(1, 1), view.ErrInvalidSize)

	require.NoError(t, s.Resize(1000, 1000))
	assert.Equal(t, image.Pt(1000, 1000), s.Scaled().Bounds().Size())
	assert.Same(t, ref, s.Reference())

	before := s.Scaled().Pix[0]
	cp, err := s.Copy()
	require.NoError(t, err)
	cp.Pix[0] = before + 1
	assert.Equal(t, before, s.Scaled().Pix[0], "copies never alias the base")
}

func TestLoadReference(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, reference(4, 4)))
	img, err := view.LoadReference(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(4, 4), img.Bounds().Size())

	_, err = view.LoadReference(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, view.ErrConfiguration)

	_, err = view.LoadReferenceFile("/nonexistent/controller.png")
	assert.ErrorIs(t, err, view.ErrConfiguration)
}

func TestButtonMarkers(t *testing.T) {
	v, c, store := newView(t, 1200, 1200)

	require.NoError(t, v.SetButton(pad.ButtonL2, true))
	frame, center := c.Bitmap()
	require.NotNil(t, frame)
	assert.Equal(t, image.Pt(600, 600), center)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, frame.RGBAAt(298, 313), "marker at L2")
	assert.Equal(t, grey, frame.RGBAAt(901, 620), "no marker at Cross")
	assert.Equal(t, grey, store.Scaled().RGBAAt(298, 313), "base never mutated")

	require.NoError(t, v.SetButton(pad.ButtonCross, true))
	require.NoError(t, v.SetButton(pad.ButtonL2, false))
	frame, _ = c.Bitmap()
	assert.Equal(t, grey, frame.RGBAAt(298, 313), "marker removed")
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, frame.RGBAAt(901, 620))
	assert.Equal(t, "Active Inputs: Cross", v.Indicators.Input.Text)

	assert.ErrorIs(t, v.SetButton(pad.Button(200), true), view.ErrUnknownInput)
}

func TestMarkersSurviveResize(t *testing.T) {
	v, c, _ := newView(t, 1200, 1200)
	require.NoError(t, v.SetButton(pad.ButtonCircle, true))

	c.Resize(2400, 2400)
	frame, _ := c.Bitmap()
	assert.Equal(t, image.Pt(2400, 2400), frame.Bounds().Size())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, frame.RGBAAt(971*2, 551*2))
}

func TestCompositorWithoutCanvas(t *testing.T) {
	c := canvas.New(0, 0, nil)
	store := view.NewStore(reference(10, 10), 1, 1)
	comp := view.NewCompositor(store, c, view.DefaultConfig())

	err := comp.Rebuild(&view.State{}, view.Mapper{})
	assert.True(t, view.IsTransient(err))
	assert.ErrorIs(t, err, view.ErrNoCanvas)
	frame, _ := c.Bitmap()
	assert.Nil(t, frame)
}

func TestStickArrow(t *testing.T) {
	v, c, _ := newView(t, 1200, 1200)

	redrawn, err := v.MoveStick(pad.StickLeft, pad.AxisBoth, 0.5, 0)
	require.NoError(t, err)
	assert.True(t, redrawn)

	shaft, head, ok := v.State.Arrow(pad.StickLeft)
	require.True(t, ok)
	line, ok := c.Primitive(shaft)
	require.True(t, ok)
	assert.Equal(t, canvas.KindLine, line.Kind)
	assert.Equal(t, canvas.Point{X: 452, Y: 688}, line.Points[0])
	assert.Equal(t, canvas.Point{X: 467, Y: 688}, line.Points[1])

	tri, ok := c.Primitive(head)
	require.True(t, ok)
	require.Len(t, tri.Points, 3)
	assert.Equal(t, canvas.Point{X: 467, Y: 688}, tri.Points[0])
	back := 10 * math.Cos(math.Pi/6)
	assert.InDelta(t, 467-back, tri.Points[1].X, 1e-9)
	assert.InDelta(t, 688-5, tri.Points[1].Y, 1e-9)
	assert.InDelta(t, 688+5, tri.Points[2].Y, 1e-9)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "Active Inputs: Left Stick (x: 0.50, y: 0.00)", v.Indicators.Input.Text)

	// moving retires the previous pair before drawing the next one
	_, err = v.MoveStick(pad.StickLeft, pad.AxisY, 0, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	_, ok = c.Primitive(shaft)
	assert.False(t, ok)

	// back to centre removes the arrow
	_, err = v.MoveStick(pad.StickLeft, pad.AxisBoth, 0, 0)
	require.NoError(t, err)
	_, _, ok = v.State.Arrow(pad.StickLeft)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	assert.Equal(t, view.NoInputs, v.Indicators.Input.Text)
}

func TestStickDeadZoneAndEpsilon(t *testing.T) {
	v, c, _ := newView(t, 1200, 1200)

	redrawn, err := v.MoveStick(pad.StickRight, pad.AxisBoth, 0.1, -0.1)
	require.NoError(t, err)
	assert.True(t, redrawn)
	assert.Zero(t, c.Len(), "inside the dead zone nothing is drawn")

	redrawn, err = v.MoveStick(pad.StickRight, pad.AxisBoth, 0.5, 0.5)
	require.NoError(t, err)
	assert.True(t, redrawn)
	shaft, _, ok := v.State.Arrow(pad.StickRight)
	require.True(t, ok)

	redrawn, err = v.MoveStick(pad.StickRight, pad.AxisBoth, 0.505, 0.495)
	require.NoError(t, err)
	assert.False(t, redrawn, "sub-epsilon change is suppressed")
	again, _, _ := v.State.Arrow(pad.StickRight)
	assert.Equal(t, shaft, again)
	assert.Equal(t, 0.505, v.State.Sticks[pad.StickRight].X, "sample still tracks the latest value")
}

func TestFailedRedrawKeepsArrow(t *testing.T) {
	v, c, _ := newView(t, 1200, 1200)
	_, err := v.MoveStick(pad.StickLeft, pad.AxisBoth, 0.5, 0.5)
	require.NoError(t, err)
	shaft, head, ok := v.State.Arrow(pad.StickLeft)
	require.True(t, ok)

	_, err = v.MoveStick(pad.StickLeft, pad.AxisX, math.Inf(1), 0)
	require.Error(t, err)
	assert.True(t, view.IsTransient(err))

	gotShaft, gotHead, ok := v.State.Arrow(pad.StickLeft)
	require.True(t, ok, "previous arrow stays on screen")
	assert.Equal(t, shaft, gotShaft)
	assert.Equal(t, head, gotHead)
	assert.Equal(t, 2, c.Len())

	_, err = v.MoveStick(pad.StickLeft, pad.AxisX, 0.7, 0)
	require.NoError(t, err)
	gotShaft, _, _ = v.State.Arrow(pad.StickLeft)
	assert.NotEqual(t, shaft, gotShaft)
	assert.Equal(t, 2, c.Len())
}

func TestArrowsFollowResize(t *testing.T) {
	v, c, _ := newView(t, 1200, 1200)
	_, err := v.MoveStick(pad.StickRight, pad.AxisBoth, -1, 0)
	require.NoError(t, err)
	old, _, _ := v.State.Arrow(pad.StickRight)

	c.Resize(2400, 2400)
	shaft, _, ok := v.State.Arrow(pad.StickRight)
	require.True(t, ok)
	assert.NotEqual(t, old, shaft)
	assert.Equal(t, 2, c.Len(), "old pair retired")
	line, _ := c.Primitive(shaft)
	assert.Equal(t, canvas.Point{X: 1510, Y: 1376}, line.Points[0])
	assert.Equal(t, canvas.Point{X: 1450, Y: 1376}, line.Points[1])
}

func TestStickBeforeFirstResize(t *testing.T) {
	c := canvas.New(0, 0, nil)
	v := view.New(view.NewStore(reference(1200, 1200), 800, 500), c, view.DefaultConfig(), nil)

	_, err := v.MoveStick(pad.StickLeft, pad.AxisX, 0.7, 0)
	assert.True(t, view.IsTransient(err))
	assert.Zero(t, c.Len())

	require.NoError(t, v.Resize(1200, 1200))
	_, _, ok := v.State.Arrow(pad.StickLeft)
	assert.True(t, ok, "pending vector drawn once a canvas exists")
}

func TestStatusText(t *testing.T) {
	var st view.State
	assert.Equal(t, view.NoInputs, view.StatusText(&st, 0.1))

	st.Buttons[pad.ButtonR3] = true
	st.Buttons[pad.ButtonL2] = true
	st.Sticks[pad.StickRight] = view.StickSample{X: 0.25, Y: -0.5}
	st.Sticks[pad.StickLeft] = view.StickSample{X: 0.05, Y: 0.1}
	assert.Equal(t,
		"Active Inputs: L2 | R3 | Right Stick (x: 0.25, y: -0.50)",
		view.StatusText(&st, 0.1))
}

func TestIndicators(t *testing.T) {
	tests := []struct {
		name string
		b    pad.Battery
		want view.Label
	}{
		{name: "charging", b: pad.Battery{Level: 10, Charging: true}, want: view.Label{Text: "10% ⚡", Color: view.ColorGood}},
		{name: "high", b: pad.Battery{Level: 90}, want: view.Label{Text: "90%", Color: view.ColorGood}},
		{name: "medium", b: pad.Battery{Level: 40}, want: view.Label{Text: "40%", Color: view.ColorWarn}},
		{name: "low", b: pad.Battery{Level: 20}, want: view.Label{Text: "20%", Color: view.ColorBad}},
		{name: "full", b: pad.Battery{Level: 100, Full: true}, want: view.Label{Text: "100% (Full)", Color: view.ColorGood}},
		{name: "garbage", b: pad.Battery{Level: 250}, want: view.Label{Text: "Unknown", Color: view.ColorUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := view.NewIndicators()
			in.SetBattery(tt.b)
			assert.Equal(t, tt.want, in.Battery)
		})
	}

	in := view.NewIndicators()
	in.SetBattery(pad.Battery{Level: 80})
	in.SetBatteryWarning()
	assert.Equal(t, view.ColorBad, in.Battery.Color)

	in.SetConnection(pad.ConnectionBluetooth)
	assert.Equal(t, view.Label{Text: "Bluetooth", Color: view.ColorInfo}, in.Connection)

	in.SetError("disconnected")
	assert.Equal(t, "Error: disconnected", in.Status.Text)
}

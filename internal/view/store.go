package view

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // reference images may be JPEG
	_ "image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
)

// LoadReference decodes the reference image from r.
func LoadReference(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode reference image: %v", ErrConfiguration, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: reference image is empty", ErrConfiguration)
	}
	return img, nil
}

// LoadReferenceFile reads and decodes the reference image at path.
func LoadReferenceFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read reference image: %v", ErrConfiguration, err)
	}
	return LoadReference(bytes.NewReader(data))
}

// Store holds the immutable reference image and its current scaled copy.
type Store struct {
	ref        image.Image
	scaled     *image.RGBA
	minW, minH int
}

// NewStore wraps ref. The scaled copy never drops below minW×minH.
func NewStore(ref image.Image, minW, minH int) *Store {
	return &Store{ref: ref, minW: minW, minH: minH}
}

// Reference returns the original image.
func (s *Store) Reference() image.Image { return s.ref }

// Scaled returns the current scaled copy, or nil before the first Resize. The
// returned image is shared and must not be modified.
func (s *Store) Scaled() *image.RGBA { return s.scaled }

// Fit computes the scaled size for a canvas, preserving the reference aspect
// ratio and honouring the minimum size.
func (s *Store) Fit(canvasW, canvasH int) image.Point {
	rb := s.ref.Bounds()
	ratio := float64(rb.Dx()) / float64(rb.Dy())

	var w, h int
	if float64(canvasW)/float64(canvasH) > ratio {
		h = max(canvasH, s.minH)
		w = int(float64(h) * ratio)
	} else {
		w = max(canvasW, s.minW)
		h = int(float64(w) / ratio)
	}
	if w < s.minW {
		w = s.minW
		h = int(float64(w) / ratio)
	}
	if h < s.minH {
		h = s.minH
		w = int(float64(h) * ratio)
	}
	return image.Pt(max(w, 1), max(h, 1))
}

// Resize regenerates the scaled copy for a canvas of the given size.
func (s *Store) Resize(canvasW, canvasH int) error {
	if canvasW <= 1 || canvasH <= 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, canvasW, canvasH)
	}
	size := s.Fit(canvasW, canvasH)
	if s.scaled != nil && s.scaled.Bounds().Size() == size {
		return nil
	}

	dst := image.NewRGBA(image.Rectangle{Max: size})
	rb := s.ref.Bounds()
	if rb.Size() == size {
		draw.Draw(dst, dst.Bounds(), s.ref, rb.Min, draw.Src)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), s.ref, rb, draw.Src, nil)
	}
	s.scaled = dst
	return nil
}

// Copy returns a fresh, writable copy of the scaled image.
func (s *Store) Copy() (*image.RGBA, error) {
	if s.scaled == nil {
		return nil, ErrNoCanvas
	}
	out := image.NewRGBA(s.scaled.Bounds())
	copy(out.Pix, s.scaled.Pix)
	return out, nil
}

package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Canvas is a drawing surface annotations are rendered on
type Canvas interface {
	// Line draws a line segment
	Line(pt1, pt2 image.Point, c color.RGBA, thickness int)
	// Circle draws a circle, a negative thickness draws it filled
	Circle(center image.Point, radius int, c color.RGBA, thickness int)
	// Rectangle draws a rectangle, a negative thickness draws it filled
	Rectangle(r image.Rectangle, c color.RGBA, thickness int)
	// PutText draws text with its baseline starting at org
	PutText(text string, org image.Point, font Font)
	// TextSize measures text returning its size above the baseline and the
	// baseline offset
	TextSize(text string, font Font) (image.Point, int)
	// Size returns the width and height of the surface
	Size() image.Point
}

// MatCanvas is a Canvas drawing directly on to a gocv.Mat
type MatCanvas struct {
	// img is the image drawn on
	img *gocv.Mat
	// ttf is an optional TrueType font used instead of the Hershey font
	// for text
	ttf *TTFText
	// err is the last error drawing TTF text
	err error
}

// NewMatCanvas returns a Canvas drawing on img
func NewMatCanvas(img *gocv.Mat) *MatCanvas {
	return &MatCanvas{img: img}
}

// WithTTF sets a TrueType font to render text with
func (m *MatCanvas) WithTTF(t *TTFText) *MatCanvas {
	m.ttf = t
	return m
}

func (m *MatCanvas) Line(pt1, pt2 image.Point, c color.RGBA, thickness int) {
	gocv.Line(m.img, pt1, pt2, c, thickness)
}

func (m *MatCanvas) Circle(center image.Point, radius int, c color.RGBA, thickness int) {
	gocv.Circle(m.img, center, radius, c, thickness)
}

func (m *MatCanvas) Rectangle(r image.Rectangle, c color.RGBA, thickness int) {
	gocv.Rectangle(m.img, r, c, thickness)
}

func (m *MatCanvas) PutText(text string, org image.Point, font Font) {

	if m.ttf != nil {
		if err := m.ttf.Draw(m.img, text, org, font.Color); err != nil {
			m.err = fmt.Errorf("error drawing text %q: %w", text, err)
		}
		return
	}

	gocv.PutTextWithParams(m.img, text, org, font.Face, font.Scale, font.Color,
		font.Thickness, font.LineType, false)
}

func (m *MatCanvas) TextSize(text string, font Font) (image.Point, int) {

	if m.ttf != nil {
		return m.ttf.Measure(text)
	}

	return gocv.GetTextSizeWithBaseline(text, font.Face, font.Scale, font.Thickness)
}

// Err returns the last error drawing text with the TrueType font
func (m *MatCanvas) Err() error {
	return m.err
}

func (m *MatCanvas) Size() image.Point {
	return image.Pt(m.img.Cols(), m.img.Rows())
}

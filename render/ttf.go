package render

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TTFText draws text with a TrueType font, used for class names the Hershey
// fonts can not render such as chinese characters
type TTFText struct {
	// face is the loaded TTF font face
	face font.Face
}

// NewTTFText loads the TTF font file and creates a face of the given point
// size
func NewTTFText(fontPath string, size float64) (*TTFText, error) {

	// load font data
	fontBytes, err := os.ReadFile(fontPath)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	return NewTTFTextFromBytes(fontBytes, size)
}

// NewTTFTextFromBytes creates a face of the given point size from the raw
// TTF font data
func NewTTFTextFromBytes(fontBytes []byte, size float64) (*TTFText, error) {

	// parse the font
	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	// create a type face
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return &TTFText{face: face}, nil
}

// Measure returns the size of the text above the baseline and the descent
// below it in pixels
func (t *TTFText) Measure(text string) (image.Point, int) {

	metrics := t.face.Metrics()
	width := font.MeasureString(t.face, text)

	return image.Pt(width.Ceil(), metrics.Ascent.Ceil()), metrics.Descent.Ceil()
}

// Draw writes text on to img with its baseline starting at org.  The text is
// blended additively so it is intended to be drawn over a dark background.
// Text falling outside img is clipped, img must be an 8 bit BGR image.
func (t *TTFText) Draw(img *gocv.Mat, text string, org image.Point, clr color.RGBA) error {

	if img == nil || img.Empty() {
		return fmt.Errorf("empty image")
	}

	if img.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("unsupported image type %v, expected 8 bit BGR", img.Type())
	}

	size, descent := t.Measure(text)

	rect := image.Rect(org.X, org.Y-size.Y, org.X+size.X, org.Y+descent).
		Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))

	if rect.Empty() {
		return nil
	}

	// create image with text writing covering only the text region
	rgba := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(clr),
		Face: t.face,
		Dot: fixed.Point26_6{
			X: fixed.I(org.X - rect.Min.X),
			Y: fixed.I(org.Y - rect.Min.Y),
		},
	}
	dr.DrawString(text)

	// convert image.RGBA to gocv.Mat
	textImg, err := gocv.NewMatFromBytes(rect.Dy(), rect.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)

	if err != nil {
		return fmt.Errorf("error creating Mat from RGBA: %w", err)
	}

	defer textImg.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()

	gocv.CvtColor(textImg, &bgr, gocv.ColorRGBAToBGR)

	region := img.Region(rect)
	defer region.Close()

	gocv.AddWeighted(region, 1.0, bgr, 1.0, 0, &region)

	return nil
}

// Close releases the font face
func (t *TTFText) Close() error {
	return t.face.Close()
}

package render

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/swdee/go-armorvis"
)

// Overlay renders detected armor objects on to a frame
type Overlay struct {
	// Catalog resolves object labels to class names
	Catalog armorvis.ClassCatalog
	// Font used for the object labels
	Font Font
	// LineThickness of the quadrilateral outline
	LineThickness int
	// MarkerRadius of the filled circle drawn at each keypoint
	MarkerRadius int
	// LabelOffset is the gap in pixels between the top of the object and
	// the text baseline
	LabelOffset int
}

// NewOverlay returns an Overlay with default styling using the given class
// catalog
func NewOverlay(catalog armorvis.ClassCatalog) *Overlay {
	return &Overlay{
		Catalog:       catalog,
		Font:          DefaultFont(),
		LineThickness: 2,
		MarkerRadius:  3,
		LabelOffset:   6,
	}
}

// Label returns the text drawn for an object, "<class> | <color> | conf=0.00"
func (o *Overlay) Label(obj armorvis.Object) string {
	return fmt.Sprintf("%s | %s | conf=%.2f", o.Catalog.Name(obj.Label),
		obj.Color, obj.Prob)
}

// Draw renders all objects in list order.  Keypoints are mapped from model
// space to the canvas using scale, then for each object the closed
// quadrilateral, keypoint markers and label are drawn.
func (o *Overlay) Draw(c Canvas, objs []armorvis.Object, scale armorvis.ImgScale) {

	for _, obj := range objs {
		clr := ColorFor(obj.Color)
		quad := obj.Quad(scale)

		var pts [armorvis.KeyPointsNumber]image.Point

		for k, p := range quad {
			pts[k] = p.Pt()
		}

		// connect keypoints to form the quadrilateral
		for k := 0; k < armorvis.KeyPointsNumber; k++ {
			c.Line(pts[k], pts[(k+1)%armorvis.KeyPointsNumber], clr, o.LineThickness)
		}

		for _, pt := range pts {
			c.Circle(pt, o.MarkerRadius, clr, -1)
		}

		o.drawLabel(c, o.Label(obj), quad)
	}
}

// drawLabel places the label text above the top left extent of the
// quadrilateral on a filled background, kept within the canvas
func (o *Overlay) drawLabel(c Canvas, text string, quad [armorvis.KeyPointsNumber]armorvis.Point) {

	minX, minY := quad[0].X, quad[0].Y

	for _, p := range quad[1:] {
		minX = math32.Min(minX, p.X)
		minY = math32.Min(minY, p.Y)
	}

	textSize, _ := c.TextSize(text, o.Font)
	boxWidth := textSize.X + o.Font.LeftPad + o.Font.RightPad

	x := int(minX)

	if limit := c.Size().X - boxWidth; x > limit {
		x = limit
	}

	if x < 0 {
		x = 0
	}

	y := int(minY) - o.LabelOffset

	if y < textSize.Y+o.Font.TopPad {
		y = textSize.Y + o.Font.TopPad
	}

	// draw box text gets written on
	rect := image.Rect(x, y-textSize.Y-o.Font.TopPad, x+boxWidth, y+o.Font.BottomPad)
	c.Rectangle(rect, Black, -1)

	c.PutText(text, image.Pt(x+o.Font.LeftPad, y), o.Font)
}

// FPS draws the frame rate counter in the top left corner of the canvas
func FPS(c Canvas, fps float64) {
	c.PutText(fmt.Sprintf("FPS: %.1f", fps), image.Pt(10, 30), FPSFont())
}

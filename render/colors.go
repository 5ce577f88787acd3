package render

import (
	"image/color"

	"github.com/swdee/go-armorvis"
)

var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Blue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// ColorFor returns the drawing color for an object's color attribute, red
// objects are drawn red, blue objects blue and anything else yellow
func ColorFor(c armorvis.ColorID) color.RGBA {
	switch c {
	case armorvis.Red:
		return Red
	case armorvis.Blue:
		return Blue
	default:
		return Yellow
	}
}

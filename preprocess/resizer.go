package preprocess

import (
	"image"

	"github.com/swdee/go-armorvis"
	"gocv.io/x/gocv"
)

// Resizer defines the struct used for scaling video frames to the fixed
// model input size.  The image is stretched to fill the model input, so
// horizontal and vertical scale factors are independent.
type Resizer struct {
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
}

// NewResizer returns a resizer used for scaling an image to the needed
// dimensions for the model input size
func NewResizer(destWidth, destHeight int) *Resizer {
	return &Resizer{
		destWidth:  destWidth,
		destHeight: destHeight,
	}
}

// Resize scales src to the model input size and writes it to dest, which
// must be a different Mat to src.  The scale factor of src relative to the
// model input is returned so detections can be mapped back.  It is
// calculated from the dimensions of src on every call as the source
// resolution may change between frames.
func (r *Resizer) Resize(src gocv.Mat, dest *gocv.Mat) armorvis.ImgScale {

	gocv.Resize(src, dest, r.Size(), 0, 0, gocv.InterpolationLinear)

	return r.ScaleFactor(src.Cols(), src.Rows())
}

// ScaleFactor returns the scale factor between a source image of the given
// size and the model input size
func (r *Resizer) ScaleFactor(srcWidth, srcHeight int) armorvis.ImgScale {
	return armorvis.NewImgScale(srcWidth, srcHeight, r.Size())
}

// Size returns the model input size being scaled to
func (r *Resizer) Size() image.Point {
	return image.Pt(r.destWidth, r.destHeight)
}

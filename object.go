package armorvis

import (
	"image"

	"github.com/chewxy/math32"
)

// KeyPointsNumber is the number of keypoints describing the quadrilateral of
// a detected object
const KeyPointsNumber = 4

// ColorID is the binary color attribute of a detected object
type ColorID int

const (
	Blue ColorID = 0
	Red  ColorID = 1
)

// String returns the display name of the color, any value other than Blue
// or Red is reported as "Other"
func (c ColorID) String() string {
	switch c {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	default:
		return "Other"
	}
}

// Point is a 2D coordinate
type Point struct {
	X float32
	Y float32
}

// Pt returns the point rounded to the nearest pixel
func (p Point) Pt() image.Point {
	return image.Pt(int(math32.Floor(p.X+0.5)), int(math32.Floor(p.Y+0.5)))
}

// Object defines the attributes of a single object detected.  Landmarks hold
// the 4 keypoints in model space where index 2k and 2k+1 are the x and y of
// keypoint k.  Keypoints run clockwise on screen starting from the top left
// corner: top left, top right, bottom right, bottom left.
type Object struct {
	// Label is the index of the object class in the ClassCatalog
	Label int
	// Prob is the confidence score of the object detected
	Prob float32
	// Color is the color attribute of the object
	Color ColorID
	// Landmarks are the keypoint coordinates in model space
	Landmarks [KeyPointsNumber * 2]float32
}

// KeyPoint returns keypoint k in model space
func (o Object) KeyPoint(k int) Point {
	return Point{X: o.Landmarks[2*k], Y: o.Landmarks[2*k+1]}
}

// Quad maps all keypoints of the object from model space into display space
// using the given scale
func (o Object) Quad(scale ImgScale) [KeyPointsNumber]Point {
	var pts [KeyPointsNumber]Point

	for k := 0; k < KeyPointsNumber; k++ {
		pts[k] = scale.Map(o.KeyPoint(k))
	}

	return pts
}

// ImgScale holds the scale factor for images between their video source size
// and model input size
type ImgScale struct {
	Width  float32
	Height float32
}

// NewImgScale calculates the scale factor between a source frame of the given
// dimensions and the model input size
func NewImgScale(srcWidth, srcHeight int, modelSize image.Point) ImgScale {
	return ImgScale{
		Width:  float32(srcWidth) / float32(modelSize.X),
		Height: float32(srcHeight) / float32(modelSize.Y),
	}
}

// Map converts a point from model space into display space.  No clamping is
// applied so points may fall outside of the frame.
func (s ImgScale) Map(p Point) Point {
	return Point{X: p.X * s.Width, Y: p.Y * s.Height}
}

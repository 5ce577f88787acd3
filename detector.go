package armorvis

import (
	"image"

	"gocv.io/x/gocv"
)

// Detector runs object detection on a single frame.  The frame passed to
// Detect must already be resized to InputSize.  Detect blocks until inference
// completes and returns a slice owned by the caller, so results of consecutive
// calls never alias each other.  Only objects of the given color are
// returned.
type Detector interface {
	Detect(img gocv.Mat, color ColorID) ([]Object, error)
	// InputSize is the fixed model input resolution
	InputSize() image.Point
	Close() error
}

package postprocess

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"github.com/swdee/go-armorvis"
	"gonum.org/v1/gonum/floats"
)

// Armor defines the struct for armor keypoint model inference post processing
type Armor struct {
	// Params are the Model configuration parameters
	Params ArmorParams
}

// ArmorParams defines the struct containing the armor model parameters to use
// for post processing operations
type ArmorParams struct {
	// BoxThreshold is the minimum objectness probability required for a row
	// to be considered for processing
	BoxThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// quadrilaterals of the same class for both to be kept
	NMSThreshold float32
	// ClassNum is the number of different object classes the Model has
	// been trained with
	ClassNum int
	// ColorNum is the number of color classes the Model outputs.  Index 0 is
	// blue and index 1 is red, any further colors are reported as they are.
	ColorNum int
	// MaxObjectNumber is the maximum number of objects detected that can be
	// returned
	MaxObjectNumber int
}

// ArmorDefaultParams returns an instance of ArmorParams configured with
// default values for the armor keypoint model featuring:
// - Object Classes: 9 (G, 1, 2, 3, 4, 5, O, Bs, Bb)
// - Color Classes: 4 (blue, red, gray, purple)
// - Box Threshold: 0.5
// - NMS Threshold: 0.3
// - Maximum Object Number: 64
func ArmorDefaultParams() ArmorParams {
	return ArmorParams{
		BoxThreshold:    0.5,
		NMSThreshold:    0.3,
		ClassNum:        9,
		ColorNum:        4,
		MaxObjectNumber: 64,
	}
}

// NewArmor returns an instance of the Armor post processor
func NewArmor(p ArmorParams) *Armor {
	return &Armor{
		Params: p,
	}
}

// RowLength returns the number of values in a single output row.  A row is
// laid out as the 4 keypoints (x,y) in model space, objectness logit, color
// logits and then class logits.
func (a *Armor) RowLength() int {
	return armorvis.KeyPointsNumber*2 + 1 + a.Params.ColorNum + a.Params.ClassNum
}

// CheckRowLength returns an error if a model output row of the given width
// can not be decoded with the configured class and color counts
func (a *Armor) CheckRowLength(width int) error {

	if a.Params.ClassNum <= 0 || a.Params.ColorNum <= 0 {
		return fmt.Errorf("invalid class number %d or color number %d",
			a.Params.ClassNum, a.Params.ColorNum)
	}

	if width != a.RowLength() {
		return fmt.Errorf("output row has %d values, expected %d for %d classes and %d colors",
			width, a.RowLength(), a.Params.ClassNum, a.Params.ColorNum)
	}

	return nil
}

// DetectObjects takes the flattened model output and returns the objects
// detected of the given color, ordered by probability
func (a *Armor) DetectObjects(data []float32, color armorvis.ColorID) []armorvis.Object {

	if a.Params.ClassNum <= 0 || a.Params.ColorNum <= 0 {
		return nil
	}

	rowLen := a.RowLength()
	rows := len(data) / rowLen

	objOffset := armorvis.KeyPointsNumber * 2
	colorOffset := objOffset + 1
	classOffset := colorOffset + a.Params.ColorNum

	colorScores := make([]float64, a.Params.ColorNum)
	classScores := make([]float64, a.Params.ClassNum)

	candidates := make([]armorvis.Object, 0)

	for i := 0; i < rows; i++ {
		row := data[i*rowLen : (i+1)*rowLen]

		prob := sigmoid(row[objOffset])

		if prob < a.Params.BoxThreshold {
			continue
		}

		for j := range colorScores {
			colorScores[j] = float64(row[colorOffset+j])
		}

		objColor := armorvis.ColorID(floats.MaxIdx(colorScores))

		if objColor != color {
			continue
		}

		for j := range classScores {
			classScores[j] = float64(row[classOffset+j])
		}

		obj := armorvis.Object{
			Label: floats.MaxIdx(classScores),
			Prob:  prob,
			Color: objColor,
		}
		copy(obj.Landmarks[:], row[:objOffset])
		obj.Landmarks = OrderLandmarks(obj.Landmarks)

		candidates = append(candidates, obj)
	}

	if len(candidates) == 0 {
		// no object detected
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Prob > candidates[j].Prob
	})

	return a.nms(candidates)
}

// nms implements a per class Non-Maximum Suppression (NMS) over the
// candidates which must be sorted by descending probability
func (a *Armor) nms(candidates []armorvis.Object) []armorvis.Object {

	suppressed := make([]bool, len(candidates))
	group := make([]armorvis.Object, 0)

	for i := range candidates {
		if suppressed[i] {
			continue
		}

		if len(group) >= a.Params.MaxObjectNumber {
			break
		}

		group = append(group, candidates[i])

		for j := i + 1; j < len(candidates); j++ {
			if suppressed[j] || candidates[j].Label != candidates[i].Label {
				continue
			}

			iou := quadOverlap(candidates[i].Landmarks, candidates[j].Landmarks)

			if iou > a.Params.NMSThreshold {
				suppressed[j] = true
			}
		}
	}

	return group
}

// OrderLandmarks reorders the 4 keypoints so they run clockwise on screen
// starting from the top left corner, which is taken as the keypoint with
// the smallest x+y
func OrderLandmarks(landmarks [armorvis.KeyPointsNumber * 2]float32) [armorvis.KeyPointsNumber * 2]float32 {

	type keyPoint struct {
		x, y, angle float32
	}

	var cx, cy float32

	for k := 0; k < armorvis.KeyPointsNumber; k++ {
		cx += landmarks[2*k]
		cy += landmarks[2*k+1]
	}

	cx /= armorvis.KeyPointsNumber
	cy /= armorvis.KeyPointsNumber

	pts := make([]keyPoint, armorvis.KeyPointsNumber)

	for k := range pts {
		x := landmarks[2*k]
		y := landmarks[2*k+1]
		pts[k] = keyPoint{x: x, y: y, angle: math32.Atan2(y-cy, x-cx)}
	}

	// with the y axis pointing down an increasing angle is clockwise
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].angle < pts[j].angle
	})

	start := 0

	for k := 1; k < len(pts); k++ {
		if pts[k].x+pts[k].y < pts[start].x+pts[start].y {
			start = k
		}
	}

	var ordered [armorvis.KeyPointsNumber * 2]float32

	for k := range pts {
		pt := pts[(start+k)%len(pts)]
		ordered[2*k] = pt.x
		ordered[2*k+1] = pt.y
	}

	return ordered
}

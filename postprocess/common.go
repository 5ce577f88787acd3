package postprocess

import (
	"github.com/chewxy/math32"
	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-armorvis"
)

// clipperScale is the fixed point multiplier used when converting float
// keypoints to clipper integer coordinates
const clipperScale = 1000

// sigmoid converts a logit to a probability in the range 0 to 1
func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// quadPath converts the landmarks of a quadrilateral into a clipper path
func quadPath(landmarks [armorvis.KeyPointsNumber * 2]float32) clipper.Path {

	path := make(clipper.Path, 0, armorvis.KeyPointsNumber)

	for k := 0; k < armorvis.KeyPointsNumber; k++ {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math32.Round(landmarks[2*k] * clipperScale)),
			Y: clipper.CInt(math32.Round(landmarks[2*k+1] * clipperScale)),
		})
	}

	return path
}

// pathArea returns the absolute area of a closed path using the shoelace
// formula, the result is in clipper units squared
func pathArea(path clipper.Path) float64 {

	if len(path) < 3 {
		return 0
	}

	var area float64

	for i := range path {
		j := (i + 1) % len(path)
		area += float64(path[i].X)*float64(path[j].Y) - float64(path[j].X)*float64(path[i].Y)
	}

	if area < 0 {
		area = -area
	}

	return area / 2
}

// quadOverlap works out the Intersection over Union (IoU) value of two
// quadrilaterals given by their landmarks
func quadOverlap(a, b [armorvis.KeyPointsNumber * 2]float32) float32 {

	pathA := quadPath(a)
	pathB := quadPath(b)

	c := clipper.NewClipper(clipper.IoNone)
	c.AddPath(pathA, clipper.PtSubject, true)
	c.AddPath(pathB, clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection, clipper.PftNonZero, clipper.PftNonZero)

	if !ok {
		return 0
	}

	var intersection float64

	for _, p := range solution {
		intersection += pathArea(p)
	}

	union := pathArea(pathA) + pathArea(pathB) - intersection

	if union <= 0 {
		return 0
	}

	return float32(intersection / union)
}

package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestTTF(t *testing.T) *TTFText {

	ttf, err := NewTTFTextFromBytes(goregular.TTF, 20)
	require.NoError(t, err)

	t.Cleanup(func() { ttf.Close() })
	return ttf
}

// blackImage returns a zeroed BGR image
func blackImage(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC3)
}

// litPixels returns the number of non black pixels of img inside rect
func litPixels(t *testing.T, img gocv.Mat, rect image.Rectangle) int {

	region := img.Region(rect)
	defer region.Close()

	gray := gocv.NewMat()
	defer gray.Close()

	gocv.CvtColor(region, &gray, gocv.ColorBGRToGray)
	return gocv.CountNonZero(gray)
}

func TestTTFTextFromBytes(t *testing.T) {

	_, err := NewTTFTextFromBytes([]byte("not a font"), 20)
	assert.Error(t, err)

	_, err = NewTTFText("/nonexistent/font.ttf", 20)
	assert.Error(t, err)
}

func TestTTFTextMeasure(t *testing.T) {

	ttf := newTestTTF(t)

	size, descent := ttf.Measure("G | Red | conf=0.87")
	assert.Greater(t, size.X, 0)
	assert.Greater(t, size.Y, 0)
	assert.Greater(t, descent, 0)

	longer, _ := ttf.Measure("G | Red | conf=0.87 extra")
	assert.Greater(t, longer.X, size.X)

	empty, _ := ttf.Measure("")
	assert.Equal(t, 0, empty.X)
}

func TestTTFTextDraw(t *testing.T) {

	ttf := newTestTTF(t)

	img := blackImage(320, 240)
	defer img.Close()

	text := "Armor 1"
	org := image.Pt(50, 100)
	size, descent := ttf.Measure(text)

	require.NoError(t, ttf.Draw(&img, text, org, White))

	label := image.Rect(org.X, org.Y-size.Y, org.X+size.X, org.Y+descent)
	lit := litPixels(t, img, label)
	assert.Greater(t, lit, 0)

	// nothing is drawn outside the label
	assert.Equal(t, lit, litPixels(t, img, image.Rect(0, 0, 320, 240)))
}

func TestTTFTextDrawClipped(t *testing.T) {

	ttf := newTestTTF(t)

	tests := []struct {
		name string
		org  image.Point
		lit  bool
	}{
		{"top left", image.Pt(-15, 5), true},
		{"right edge", image.Pt(300, 120), true},
		{"bottom edge", image.Pt(100, 245), true},
		{"outside", image.Pt(1000, 1000), false},
		{"above", image.Pt(10, -100), false},
	}

	for _, tc := range tests {
		img := blackImage(320, 240)

		assert.NotPanics(t, func() {
			err := ttf.Draw(&img, "Clipped text", tc.org, White)
			assert.NoError(t, err, tc.name)
		}, tc.name)

		lit := litPixels(t, img, image.Rect(0, 0, 320, 240))

		if tc.lit {
			assert.Greater(t, lit, 0, tc.name)
		} else {
			assert.Equal(t, 0, lit, tc.name)
		}

		img.Close()
	}
}

func TestTTFTextDrawInvalidImage(t *testing.T) {

	ttf := newTestTTF(t)

	gray := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC1)
	defer gray.Close()

	assert.Error(t, ttf.Draw(&gray, "text", image.Pt(10, 50), White))

	empty := gocv.NewMat()
	defer empty.Close()

	assert.Error(t, ttf.Draw(&empty, "text", image.Pt(10, 50), White))
	assert.Error(t, ttf.Draw(nil, "text", image.Pt(10, 50), White))
}

func TestMatCanvasTTF(t *testing.T) {

	ttf := newTestTTF(t)

	img := blackImage(320, 240)
	defer img.Close()

	c := NewMatCanvas(&img).WithTTF(ttf)

	size, descent := c.TextSize("FPS: 30.0", FPSFont())
	wantSize, wantDescent := ttf.Measure("FPS: 30.0")
	assert.Equal(t, wantSize, size)
	assert.Equal(t, wantDescent, descent)

	c.PutText("FPS: 30.0", image.Pt(10, 40), FPSFont())
	assert.NoError(t, c.Err())
	assert.Greater(t, litPixels(t, img, image.Rect(0, 0, 320, 240)), 0)

	gray := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC1)
	defer gray.Close()

	bad := NewMatCanvas(&gray).WithTTF(ttf)
	bad.PutText("FPS: 30.0", image.Pt(10, 40), FPSFont())
	assert.Error(t, bad.Err())
}

package detector

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-armorvis"
	"github.com/swdee/go-armorvis/postprocess"
	"gocv.io/x/gocv"
)

func TestTargetForDevice(t *testing.T) {

	tests := []struct {
		device string
		target gocv.NetTargetType
		fail   bool
	}{
		{"CPU", gocv.NetTargetCPU, false},
		{"", gocv.NetTargetCPU, false},
		{"cpu", gocv.NetTargetCPU, false},
		{"GPU", gocv.NetTargetFP32, false},
		{"GPU.FP16", gocv.NetTargetFP16, false},
		{"MYRIAD", gocv.NetTargetVPU, false},
		{"VPU", gocv.NetTargetVPU, false},
		{"FPGA", gocv.NetTargetFPGA, false},
		{"NPU", gocv.NetTargetCPU, true},
	}

	for _, tc := range tests {
		target, err := TargetForDevice(tc.device)

		if tc.fail {
			assert.Error(t, err, tc.device)
			continue
		}

		require.NoError(t, err, tc.device)
		assert.Equal(t, tc.target, target, tc.device)
	}
}

func TestNewDNNInvalidParams(t *testing.T) {

	p := DefaultDNNParams()
	p.InputSize = image.Pt(0, 640)

	_, err := NewDNN(p)
	assert.Error(t, err)

	p = DefaultDNNParams()
	p.Device = "TPU"

	_, err = NewDNN(p)
	assert.Error(t, err)
}

func TestDefaultDNNParams(t *testing.T) {
	p := DefaultDNNParams()
	assert.Equal(t, image.Pt(640, 640), p.InputSize)
	assert.Equal(t, "CPU", p.Device)
	assert.Equal(t, 9, p.Armor.ClassNum)
}

// outputMat returns a float model output of the given shape filled with the
// rows given
func outputMat(t *testing.T, dims []int, rows ...[]float32) gocv.Mat {

	out := gocv.NewMatWithSizes(dims, gocv.MatTypeCV32F)

	data, err := out.DataPtrFloat32()
	require.NoError(t, err)

	for i := range data {
		data[i] = 0
	}

	offset := 0

	for _, row := range rows {
		offset += copy(data[offset:], row)
	}

	return out
}

func TestDNNDecodeRowLength(t *testing.T) {

	d := &DNN{decoder: postprocess.NewArmor(postprocess.ArmorDefaultParams())}

	// 8 landmarks, objectness, 4 colors then 9 classes
	row := []float32{
		100, 100, 150, 100, 150, 150, 100, 150,
		5,
		-4, 4, -4, -4,
		-4, -4, -4, 4, -4, -4, -4, -4, -4,
	}

	out := outputMat(t, []int{1, 1, 22}, row)
	defer out.Close()

	objs, err := d.decode(out, armorvis.Red)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, 3, objs[0].Label)
	assert.Equal(t, armorvis.Red, objs[0].Color)

	// model trained with 11 classes gives rows of 24 values which must not
	// be decoded as 22 value rows
	wide := outputMat(t, []int{1, 2, 24}, append(row, 0, 0), append(row, 0, 0))
	defer wide.Close()

	objs, err = d.decode(wide, armorvis.Red)
	assert.Error(t, err)
	assert.Nil(t, objs)

	empty := gocv.NewMat()
	defer empty.Close()

	_, err = d.decode(empty, armorvis.Red)
	assert.Error(t, err)
}

package detector

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/swdee/go-armorvis"
	"github.com/swdee/go-armorvis/postprocess"
	"gocv.io/x/gocv"
)

// DNNParams defines the struct containing the parameters used to load and
// run an armor keypoint model with the OpenCV DNN module
type DNNParams struct {
	// ModelFile is the path to the OpenVINO IR network topology (.xml)
	ModelFile string
	// WeightsFile is the path to the OpenVINO IR weights (.bin)
	WeightsFile string
	// Device is the OpenVINO device name to run inference on, one of
	// CPU, GPU, GPU.FP16, MYRIAD, VPU or FPGA
	Device string
	// InputSize is the model input resolution
	InputSize image.Point
	// ScaleFactor is multiplied with every pixel value when creating the
	// input blob
	ScaleFactor float64
	// SwapRB swaps the red and blue channels of the input blob
	SwapRB bool
	// Armor are the output decoder parameters
	Armor postprocess.ArmorParams
}

// DefaultDNNParams returns the parameters for the 640x640 armor model run
// on the CPU with raw BGR pixel values as input
func DefaultDNNParams() DNNParams {
	return DNNParams{
		Device:      "CPU",
		InputSize:   image.Pt(640, 640),
		ScaleFactor: 1.0,
		SwapRB:      false,
		Armor:       postprocess.ArmorDefaultParams(),
	}
}

// DNN is an armorvis.Detector backed by the OpenCV DNN module using the
// OpenVINO inference engine
type DNN struct {
	// net is the loaded network
	net gocv.Net
	// params used to create the detector
	params DNNParams
	// decoder for the raw model output
	decoder *postprocess.Armor
	// mu serialises access to the network
	mu sync.Mutex
}

// NewDNN loads the model and returns a detector ready for inference
func NewDNN(p DNNParams) (*DNN, error) {

	if p.InputSize.X <= 0 || p.InputSize.Y <= 0 {
		return nil, fmt.Errorf("invalid model input size %v", p.InputSize)
	}

	target, err := TargetForDevice(p.Device)

	if err != nil {
		return nil, err
	}

	net := gocv.ReadNet(p.WeightsFile, p.ModelFile)

	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s and %s",
			p.ModelFile, p.WeightsFile)
	}

	err = net.SetPreferableBackend(gocv.NetBackendOpenVINO)

	if err != nil {
		net.Close()
		return nil, fmt.Errorf("error setting OpenVINO backend: %w", err)
	}

	err = net.SetPreferableTarget(target)

	if err != nil {
		net.Close()
		return nil, fmt.Errorf("error setting target for device %s: %w", p.Device, err)
	}

	return &DNN{
		net:     net,
		params:  p,
		decoder: postprocess.NewArmor(p.Armor),
	}, nil
}

// TargetForDevice converts an OpenVINO device name into the OpenCV DNN
// target to run on
func TargetForDevice(device string) (gocv.NetTargetType, error) {

	switch strings.ToUpper(strings.TrimSpace(device)) {
	case "", "CPU":
		return gocv.NetTargetCPU, nil
	case "GPU", "GPU.FP32":
		return gocv.NetTargetFP32, nil
	case "GPU.FP16":
		return gocv.NetTargetFP16, nil
	case "MYRIAD", "VPU":
		return gocv.NetTargetVPU, nil
	case "FPGA":
		return gocv.NetTargetFPGA, nil
	default:
		return gocv.NetTargetCPU, fmt.Errorf("unsupported device: %s", device)
	}
}

// Detect runs inference on an image already resized to the model input size
// and returns the objects detected of the given color.  Keypoints are in
// model space.
func (d *DNN) Detect(img gocv.Mat, color armorvis.ColorID) ([]armorvis.Object, error) {

	if img.Empty() {
		return nil, fmt.Errorf("empty input image")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	blob := gocv.BlobFromImage(img, d.params.ScaleFactor, d.params.InputSize,
		gocv.NewScalar(0, 0, 0, 0), d.params.SwapRB, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	return d.decode(output, color)
}

// decode checks the model output has rows of the width the decoder expects
// and returns the objects detected
func (d *DNN) decode(output gocv.Mat, color armorvis.ColorID) ([]armorvis.Object, error) {

	if output.Empty() {
		return nil, fmt.Errorf("model returned no output")
	}

	dims := output.Size()

	if len(dims) == 0 {
		return nil, fmt.Errorf("model output has no dimensions")
	}

	err := d.decoder.CheckRowLength(dims[len(dims)-1])

	if err != nil {
		return nil, fmt.Errorf("model output shape %v does not match decoder: %w", dims, err)
	}

	data, err := output.DataPtrFloat32()

	if err != nil {
		return nil, fmt.Errorf("error reading model output: %w", err)
	}

	return d.decoder.DetectObjects(data, color), nil
}

// InputSize returns the model input resolution
func (d *DNN) InputSize() image.Point {
	return d.params.InputSize
}

// Close releases the network
func (d *DNN) Close() error {
	return d.net.Close()
}

// Package config holds the startup options of the armor overlay binary which
// are read from an optional YAML file and overridden by command line flags.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options are the startup parameters
type Options struct {
	// ModelXML is the OpenVINO IR network topology file
	ModelXML string `yaml:"model_xml"`
	// ModelBin is the OpenVINO IR weights file, derived from ModelXML when
	// empty
	ModelBin string `yaml:"model_bin"`
	// Device is the OpenVINO device inference runs on
	Device string `yaml:"device"`
	// Video is a video file path, stream URL or camera index
	Video string `yaml:"video"`
	// DetectColor is the armor color to detect, 0 for blue and 1 for red
	DetectColor int `yaml:"detect_color"`
	// ModelWidth is the model input width
	ModelWidth int `yaml:"model_width"`
	// ModelHeight is the model input height
	ModelHeight int `yaml:"model_height"`
	// BoxThreshold is the minimum object confidence kept
	BoxThreshold float32 `yaml:"box_threshold"`
	// NMSThreshold is the quadrilateral IoU above which overlapping objects
	// of the same class are suppressed
	NMSThreshold float32 `yaml:"nms_threshold"`
	// LabelFile is an optional file of class names, one per line
	LabelFile string `yaml:"label_file"`
	// FontFile is an optional TTF font used to draw labels
	FontFile string `yaml:"font_file"`
	// FontSize is the point size of FontFile
	FontSize float64 `yaml:"font_size"`
	// Snapshot is the file annotated frames are saved to
	Snapshot string `yaml:"snapshot"`
	// WindowName is the title of the display window
	WindowName string `yaml:"window_name"`
	// PollDelay is the milliseconds to wait for a key after each frame
	PollDelay int `yaml:"poll_delay"`
	// CPUAffinity are the CPU cores the playback thread is pinned to
	CPUAffinity []int `yaml:"cpu_affinity"`
}

// Default returns the default options
func Default() Options {
	o := Options{
		ModelXML:     "../Model/0526.xml",
		Device:       "CPU",
		Video:        "../video_test/red/v2.avi",
		DetectColor:  1,
		ModelWidth:   640,
		ModelHeight:  640,
		BoxThreshold: 0.5,
		NMSThreshold: 0.3,
		FontSize:     14,
		Snapshot:     "result.jpg",
		WindowName:   "Armor Detection",
		PollDelay:    1,
	}
	o.ModelBin = DeriveBinPath(o.ModelXML)

	return o
}

// DeriveBinPath returns the weights file for an OpenVINO IR topology file by
// replacing a trailing .xml with .bin, or appending .bin otherwise
func DeriveBinPath(xmlPath string) string {

	if strings.HasSuffix(xmlPath, ".xml") {
		return strings.TrimSuffix(xmlPath, ".xml") + ".bin"
	}

	return xmlPath + ".bin"
}

// Load reads options from a YAML file on top of the defaults.  Keys missing
// from the file keep their default value.
func Load(file string) (Options, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return Options{}, fmt.Errorf("error reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML options on top of the defaults
func Parse(data []byte) (Options, error) {

	o := Default()
	o.ModelBin = ""

	err := yaml.Unmarshal(data, &o)

	if err != nil {
		return Options{}, fmt.Errorf("error parsing config: %w", err)
	}

	o.Resolve()

	return o, nil
}

// Resolve fills in derived values, the weights file is derived from the model
// file when not set
func (o *Options) Resolve() {
	if o.ModelBin == "" {
		o.ModelBin = DeriveBinPath(o.ModelXML)
	}
}

// Validate checks the options are usable
func (o Options) Validate() error {

	if o.ModelXML == "" {
		return fmt.Errorf("model xml file is required")
	}

	if o.ModelBin == "" {
		return fmt.Errorf("model bin file is required")
	}

	if o.Device == "" {
		return fmt.Errorf("device is required")
	}

	if o.Video == "" {
		return fmt.Errorf("video source is required")
	}

	if o.DetectColor != 0 && o.DetectColor != 1 {
		return fmt.Errorf("detect color must be 0 (blue) or 1 (red), got %d", o.DetectColor)
	}

	if o.ModelWidth <= 0 || o.ModelHeight <= 0 {
		return fmt.Errorf("invalid model input size %dx%d", o.ModelWidth, o.ModelHeight)
	}

	if o.BoxThreshold < 0 || o.BoxThreshold > 1 {
		return fmt.Errorf("box threshold must be between 0 and 1, got %v", o.BoxThreshold)
	}

	if o.NMSThreshold < 0 || o.NMSThreshold > 1 {
		return fmt.Errorf("nms threshold must be between 0 and 1, got %v", o.NMSThreshold)
	}

	if o.FontFile != "" && o.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", o.FontSize)
	}

	if o.PollDelay < 0 {
		return fmt.Errorf("poll delay can not be negative, got %d", o.PollDelay)
	}

	for _, core := range o.CPUAffinity {
		if core < 0 {
			return fmt.Errorf("invalid cpu core %d", core)
		}
	}

	return nil
}

// ParseCores parses a list of CPU cores such as "4-7" or "0,2,4-5" into
// sorted unique core numbers
func ParseCores(s string) ([]int, error) {

	s = strings.TrimSpace(s)

	if s == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	cores := make([]int, 0)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)

		first, last, isRange := strings.Cut(part, "-")

		start, err := strconv.Atoi(strings.TrimSpace(first))

		if err != nil || start < 0 {
			return nil, fmt.Errorf("invalid cpu core %q", part)
		}

		end := start

		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(last))

			if err != nil || end < start {
				return nil, fmt.Errorf("invalid cpu core range %q", part)
			}
		}

		for c := start; c <= end; c++ {
			if !seen[c] {
				seen[c] = true
				cores = append(cores, c)
			}
		}
	}

	sort.Ints(cores)

	return cores, nil
}

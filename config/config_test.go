package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {

	o := Default()

	assert.Equal(t, "../Model/0526.xml", o.ModelXML)
	assert.Equal(t, "../Model/0526.bin", o.ModelBin)
	assert.Equal(t, "CPU", o.Device)
	assert.Equal(t, "../video_test/red/v2.avi", o.Video)
	assert.Equal(t, 1, o.DetectColor)
	assert.Equal(t, 640, o.ModelWidth)
	assert.Equal(t, 640, o.ModelHeight)
	assert.Equal(t, "result.jpg", o.Snapshot)
	assert.NoError(t, o.Validate())
}

func TestDeriveBinPath(t *testing.T) {

	tests := []struct {
		xml string
		bin string
	}{
		{"../Model/0526.xml", "../Model/0526.bin"},
		{"model.xml", "model.bin"},
		{"model", "model.bin"},
		{"model.XML", "model.XML.bin"},
		{".xml", ".bin"},
		{"", ".bin"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.bin, DeriveBinPath(tc.xml), tc.xml)
	}
}

func TestParse(t *testing.T) {

	data := []byte(`
model_xml: /opt/models/armor.xml
device: GPU
video: "0"
detect_color: 0
cpu_affinity: [4, 5]
`)

	o, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "/opt/models/armor.xml", o.ModelXML)
	assert.Equal(t, "/opt/models/armor.bin", o.ModelBin)
	assert.Equal(t, "GPU", o.Device)
	assert.Equal(t, "0", o.Video)
	assert.Equal(t, 0, o.DetectColor)
	assert.Equal(t, []int{4, 5}, o.CPUAffinity)

	// unset keys keep defaults
	assert.Equal(t, 640, o.ModelWidth)
	assert.Equal(t, "result.jpg", o.Snapshot)
	assert.InDelta(t, 0.5, o.BoxThreshold, 1e-6)
}

func TestParseExplicitBin(t *testing.T) {

	o, err := Parse([]byte("model_xml: a.xml\nmodel_bin: weights/b.bin\n"))
	require.NoError(t, err)
	assert.Equal(t, "weights/b.bin", o.ModelBin)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("detect_color: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {

	file := filepath.Join(t.TempDir(), "armor.yaml")
	require.NoError(t, os.WriteFile(file, []byte("video: clip.mp4\npoll_delay: 5\n"), 0644))

	o, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", o.Video)
	assert.Equal(t, 5, o.PollDelay)
	assert.Equal(t, "../Model/0526.bin", o.ModelBin)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {

	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"no model", func(o *Options) { o.ModelXML = "" }},
		{"no bin", func(o *Options) { o.ModelBin = "" }},
		{"no device", func(o *Options) { o.Device = "" }},
		{"no video", func(o *Options) { o.Video = "" }},
		{"bad color", func(o *Options) { o.DetectColor = 2 }},
		{"bad size", func(o *Options) { o.ModelWidth = 0 }},
		{"bad box threshold", func(o *Options) { o.BoxThreshold = 1.5 }},
		{"bad nms threshold", func(o *Options) { o.NMSThreshold = -0.1 }},
		{"bad font size", func(o *Options) { o.FontFile = "a.ttf"; o.FontSize = 0 }},
		{"bad poll delay", func(o *Options) { o.PollDelay = -1 }},
		{"bad core", func(o *Options) { o.CPUAffinity = []int{-1} }},
	}

	for _, tc := range tests {
		o := Default()
		tc.modify(&o)
		assert.Error(t, o.Validate(), tc.name)
	}
}

func TestParseCores(t *testing.T) {

	tests := []struct {
		input string
		cores []int
		fail  bool
	}{
		{"", nil, false},
		{"4", []int{4}, false},
		{"4-7", []int{4, 5, 6, 7}, false},
		{"0, 2,4-5", []int{0, 2, 4, 5}, false},
		{"5,4,4-5", []int{4, 5}, false},
		{"a", nil, true},
		{"7-4", nil, true},
		{"-1", nil, true},
	}

	for _, tc := range tests {
		cores, err := ParseCores(tc.input)

		if tc.fail {
			assert.Error(t, err, tc.input)
			continue
		}

		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.cores, cores, tc.input)
	}
}

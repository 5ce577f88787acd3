/*
Example code showing how to overlay armor keypoint detections on a video
stream with pause, snapshot and quit controls
*/
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/swdee/go-armorvis"
	"github.com/swdee/go-armorvis/config"
	"github.com/swdee/go-armorvis/detector"
	"github.com/swdee/go-armorvis/playback"
	"github.com/swdee/go-armorvis/render"
	"gocv.io/x/gocv"
)

func main() {

	parser := argparse.NewParser("armor", "Overlay armor keypoint detections on a video stream")
	configFile := parser.String("c", "config", &argparse.Options{Help: "YAML config file", Required: false, Default: ""})
	modelFile := parser.String("m", "model", &argparse.Options{Help: "OpenVINO IR model xml file", Required: false, Default: ""})
	binFile := parser.String("b", "bin", &argparse.Options{Help: "OpenVINO IR model bin file, derived from the xml file when not set", Required: false, Default: ""})
	device := parser.String("d", "device", &argparse.Options{Help: "Inference device [CPU|GPU|GPU.FP16|MYRIAD|FPGA]", Required: false, Default: ""})
	video := parser.String("v", "video", &argparse.Options{Help: "Video file, stream URL or camera index", Required: false, Default: ""})
	color := parser.Int("", "color", &argparse.Options{Help: "Armor color to detect, 0 blue or 1 red", Required: false, Default: -1})
	labelFile := parser.String("l", "labels", &argparse.Options{Help: "Class names file, one per line", Required: false, Default: ""})
	fontFile := parser.String("f", "font", &argparse.Options{Help: "TTF font for labels", Required: false, Default: ""})
	snapshot := parser.String("o", "snapshot", &argparse.Options{Help: "File annotated frames are saved to on 's'", Required: false, Default: ""})
	cores := parser.String("", "cpus", &argparse.Options{Help: "CPU cores to pin playback to, eg: 4-7", Required: false, Default: ""})

	err := parser.Parse(os.Args)

	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()

	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}

	opts := config.Default()

	if *configFile != "" {
		opts, err = config.Load(*configFile)

		if err != nil {
			logger.Errorf("Error loading config: %v", err)
			os.Exit(1)
		}
	}

	// command line flags override the config file
	if *modelFile != "" {
		opts.ModelXML = *modelFile
		opts.ModelBin = ""
	}

	if *binFile != "" {
		opts.ModelBin = *binFile
	}

	if *device != "" {
		opts.Device = *device
	}

	if *video != "" {
		opts.Video = *video
	}

	if *color >= 0 {
		opts.DetectColor = *color
	}

	if *labelFile != "" {
		opts.LabelFile = *labelFile
	}

	if *fontFile != "" {
		opts.FontFile = *fontFile
	}

	if *snapshot != "" {
		opts.Snapshot = *snapshot
	}

	if *cores != "" {
		opts.CPUAffinity, err = config.ParseCores(*cores)

		if err != nil {
			logger.Errorf("Invalid cpus: %v", err)
			os.Exit(1)
		}
	}

	opts.Resolve()

	err = opts.Validate()

	if err != nil {
		logger.Errorf("Invalid options: %v", err)
		os.Exit(1)
	}

	logger.Infof("Model XML: %s", opts.ModelXML)
	logger.Infof("Model BIN: %s", opts.ModelBin)
	logger.Infof("Device: %s", opts.Device)
	logger.Infof("Video: %s", opts.Video)
	logger.Infof("Detect color: %d (%s)", opts.DetectColor, armorvis.ColorID(opts.DetectColor))

	err = run(logger, opts)

	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

// run builds the detector and player and plays the video until it ends or
// is quit
func run(logger logs.Log, opts config.Options) error {

	// the display window and capture must stay on the same OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if len(opts.CPUAffinity) > 0 {
		err := armorvis.SetCPUAffinity(opts.CPUAffinity)

		if err != nil {
			logger.Warnf("Failed to set CPU affinity: %v", err)
		} else {
			logger.Infof("Pinned playback to CPU cores %v", opts.CPUAffinity)
		}
	}

	catalog := armorvis.DefaultClassCatalog()

	if opts.LabelFile != "" {
		var err error
		catalog, err = armorvis.LoadClassCatalog(opts.LabelFile)

		if err != nil {
			return fmt.Errorf("error loading labels: %w", err)
		}
	}

	params := detector.DefaultDNNParams()
	params.ModelFile = opts.ModelXML
	params.WeightsFile = opts.ModelBin
	params.Device = opts.Device
	params.InputSize = image.Pt(opts.ModelWidth, opts.ModelHeight)
	params.Armor.BoxThreshold = opts.BoxThreshold
	params.Armor.NMSThreshold = opts.NMSThreshold

	det, err := detector.NewDNN(params)

	if err != nil {
		return fmt.Errorf("error creating detector: %w", err)
	}

	defer det.Close()

	capture, err := gocv.OpenVideoCapture(opts.Video)

	if err != nil {
		return fmt.Errorf("error opening video %s: %w", opts.Video, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("unable to open video: %s", opts.Video)
	}

	window := gocv.NewWindow(opts.WindowName)

	player, err := playback.NewPlayer(logger, capture, window, det,
		render.NewOverlay(catalog), playback.NewFileSink(opts.Snapshot),
		playback.Params{
			DetectColor: armorvis.ColorID(opts.DetectColor),
			PollDelay:   opts.PollDelay,
		})

	if err != nil {
		capture.Close()
		window.Close()
		return fmt.Errorf("error creating player: %w", err)
	}

	if opts.FontFile != "" {
		ttf, err := render.NewTTFText(opts.FontFile, opts.FontSize)

		if err != nil {
			player.Close()
			return fmt.Errorf("error loading font: %w", err)
		}

		defer ttf.Close()

		player.SetCanvas(func(img *gocv.Mat) render.Canvas {
			return render.NewMatCanvas(img).WithTTF(ttf)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = player.Run(ctx)

	logger.Infof("Played %d frames", player.Frames())

	if err != nil && err != context.Canceled {
		return err
	}

	return nil
}

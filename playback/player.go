package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyclopcam/logs"
	"github.com/swdee/go-armorvis"
	"github.com/swdee/go-armorvis/preprocess"
	"github.com/swdee/go-armorvis/render"
	"gocv.io/x/gocv"
)

// DefaultPollDelay is the number of milliseconds to wait for a key press
// after presenting each frame
const DefaultPollDelay = 1

// FrameSource supplies video frames, satisfied by *gocv.VideoCapture
type FrameSource interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// Display presents frames and reports key presses, satisfied by
// *gocv.Window
type Display interface {
	IMShow(img gocv.Mat)
	WaitKey(delay int) int
	Close() error
}

// Params are the Player settings
type Params struct {
	// DetectColor is the armor color passed to the detector
	DetectColor armorvis.ColorID
	// PollDelay is the milliseconds to wait for a key after each frame, zero
	// or less uses DefaultPollDelay
	PollDelay int
}

// Player runs the capture, inference, render and present loop on a single
// goroutine
type Player struct {
	log      logs.Log
	source   FrameSource
	display  Display
	detector armorvis.Detector
	overlay  *render.Overlay
	sink     SnapshotSink
	resizer  *preprocess.Resizer
	rate     *FrameRate
	params   Params
	// newCanvas creates the drawing surface for the annotated frame
	newCanvas func(img *gocv.Mat) render.Canvas
	state     State
	// closed is set once resources have been released
	closed bool
	// frameNum is the number of frames presented
	frameNum int
	// frame is the raw frame read from the source
	frame gocv.Mat
	// resized is the frame scaled to the model input size
	resized gocv.Mat
}

// NewPlayer returns a Player reading from source and presenting annotated
// frames on display.  The Player takes ownership of source and display and
// closes them on Close, the detector remains owned by the caller.
func NewPlayer(log logs.Log, source FrameSource, display Display,
	detector armorvis.Detector, overlay *render.Overlay, sink SnapshotSink,
	params Params) (*Player, error) {

	if source == nil || display == nil || detector == nil {
		return nil, fmt.Errorf("source, display and detector are required")
	}

	size := detector.InputSize()

	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid detector input size %v", size)
	}

	if overlay == nil {
		overlay = render.NewOverlay(armorvis.DefaultClassCatalog())
	}

	if sink == nil {
		sink = NewFileSink(DefaultSnapshotFile)
	}

	if params.PollDelay <= 0 {
		params.PollDelay = DefaultPollDelay
	}

	return &Player{
		log:      log,
		source:   source,
		display:  display,
		detector: detector,
		overlay:  overlay,
		sink:     sink,
		resizer:  preprocess.NewResizer(size.X, size.Y),
		rate:     NewFrameRate(),
		params:   params,
		newCanvas: func(img *gocv.Mat) render.Canvas {
			return render.NewMatCanvas(img)
		},
		state:   Running,
		frame:   gocv.NewMat(),
		resized: gocv.NewMat(),
	}, nil
}

// SetCanvas changes how the drawing surface for each annotated frame is
// created, such as to render labels with a TrueType font
func (p *Player) SetCanvas(fn func(img *gocv.Mat) render.Canvas) {
	p.newCanvas = fn
}

// SetFrameRate replaces the frame rate monitor
func (p *Player) SetFrameRate(rate *FrameRate) {
	p.rate = rate
}

// State returns the current playback state
func (p *Player) State() State {
	return p.state
}

// Frames returns the number of frames presented
func (p *Player) Frames() int {
	return p.frameNum
}

// Step runs a single iteration of the playback loop and returns the
// resulting state
func (p *Player) Step() State {

	if p.state == Stopped {
		return p.state
	}

	if ok := p.source.Read(&p.frame); !ok || p.frame.Empty() {
		p.log.Infof("Video stream ended or frame could not be read")
		p.state = Stopped
		return p.state
	}

	scale := p.resizer.Resize(p.frame, &p.resized)

	objs, err := p.detector.Detect(p.resized, p.params.DetectColor)

	if err != nil {
		p.log.Warnf("Inference failed on frame %d: %v", p.frameNum, err)
		objs = nil
	}

	// annotate a copy so the raw frame is left untouched
	show := p.frame.Clone()
	defer show.Close()

	canvas := p.newCanvas(&show)
	p.overlay.Draw(canvas, objs, scale)
	render.FPS(canvas, p.rate.Tick())

	if ec, ok := canvas.(interface{ Err() error }); ok && ec.Err() != nil {
		p.log.Warnf("Failed drawing overlay on frame %d: %v", p.frameNum, ec.Err())
	}

	p.display.IMShow(show)
	p.frameNum++

	key := p.display.WaitKey(p.params.PollDelay)
	p.dispatch(CommandForKey(key), show)

	return p.state
}

// dispatch acts on the command given by the key pressed after a frame was
// presented
func (p *Player) dispatch(cmd Command, show gocv.Mat) {

	switch cmd {
	case CmdQuit:
		p.log.Infof("Quit requested")
		p.state = Stopped

	case CmdPause:
		p.state = Paused
		p.log.Infof("Paused, press any key to resume")

		// the key that resumes playback is consumed
		p.display.WaitKey(0)
		p.state = Running

	case CmdSnapshot:
		err := p.sink.WriteSnapshot(show)

		if err != nil {
			p.log.Warnf("Failed to save snapshot: %v", err)
			return
		}

		p.log.Infof("Saved snapshot of frame %d", p.frameNum)
	}
}

// Run steps the playback loop until it is stopped or ctx is done, then
// releases the source, display and frame buffers.  A nil error is returned
// when playback stopped normally.
//
// ctx is only checked between frames.  While paused the loop is blocked in
// WaitKey(0), so a cancelled ctx is not seen until the next key is pressed
// and Run then returns ctx.Err() before reading another frame.
func (p *Player) Run(ctx context.Context) error {

	defer p.Close()

	for {
		select {
		case <-ctx.Done():
			p.state = Stopped
			return ctx.Err()
		default:
		}

		if p.Step() == Stopped {
			return nil
		}
	}
}

// Close releases the source, display and frame buffers
func (p *Player) Close() error {

	p.state = Stopped

	if p.closed {
		return nil
	}

	p.closed = true

	err := errors.Join(p.source.Close(), p.display.Close())

	p.frame.Close()
	p.resized.Close()

	if err != nil {
		return fmt.Errorf("error closing player: %w", err)
	}

	return nil
}

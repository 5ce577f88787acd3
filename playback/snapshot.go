package playback

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// DefaultSnapshotFile is the file annotated frames are saved to
const DefaultSnapshotFile = "result.jpg"

// SnapshotSink receives a copy of the annotated frame when a snapshot is
// requested
type SnapshotSink interface {
	WriteSnapshot(img gocv.Mat) error
}

// FileSink writes snapshots to a fixed file path, overwriting any previous
// snapshot.  The image format is chosen from the file extension.
type FileSink struct {
	// Path of the file written
	Path string
}

// NewFileSink returns a FileSink writing to path, or DefaultSnapshotFile if
// path is empty
func NewFileSink(path string) *FileSink {

	if path == "" {
		path = DefaultSnapshotFile
	}

	return &FileSink{Path: path}
}

func (f *FileSink) WriteSnapshot(img gocv.Mat) error {

	if img.Empty() {
		return fmt.Errorf("can not write empty snapshot")
	}

	if !gocv.IMWrite(f.Path, img) {
		return fmt.Errorf("failed to write snapshot to %s", f.Path)
	}

	return nil
}

// WriterSink encodes snapshots as JPEG and writes them to an io.Writer
type WriterSink struct {
	w io.Writer
}

// NewWriterSink returns a WriterSink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteSnapshot(img gocv.Mat) error {

	if img.Empty() {
		return fmt.Errorf("can not write empty snapshot")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)

	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}

	defer buf.Close()

	_, err = s.w.Write(buf.GetBytes())

	if err != nil {
		return fmt.Errorf("error writing snapshot: %w", err)
	}

	return nil
}

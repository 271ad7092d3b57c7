//go:build withcv
// +build withcv

/*
NAME
  gocvio.go

DESCRIPTION
  gocvio.go implements media.Source and media.Sink over gocv.io/x/gocv's
  VideoCapture/VideoWriter, and an optional preview window.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package gocvio provides gocv-backed implementations of media.Source and
// media.Sink, built only when compiled with the withcv tag (gocv requires
// a local OpenCV install).
package gocvio

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"github.com/ausocean/analogtv/signalframe"
	"github.com/pkg/errors"
)

// Capture is a media.Source reading from a video file or stream via
// gocv.VideoCapture.
type Capture struct {
	name string
	cap  *gocv.VideoCapture
	mat  gocv.Mat
}

// NewCapture opens path, a video file name or stream URL, as a Capture via
// gocv.VideoCaptureFile. It has no camera-index path:
// gocv.VideoCaptureDevice is not used.
func NewCapture(path string) (*Capture, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "gocvio: could not open %s", path)
	}
	return &Capture{name: path, cap: cap, mat: gocv.NewMat()}, nil
}

func (c *Capture) Name() string { return c.name }

// FPS returns the capture's reported frame rate.
func (c *Capture) FPS() float64 { return c.cap.Get(gocv.VideoCaptureFPS) }

// Read decodes the next frame as a signalframe.Frame.
func (c *Capture) Read() (signalframe.Frame, error) {
	if ok := c.cap.Read(&c.mat); !ok || c.mat.Empty() {
		return signalframe.Frame{}, io.EOF
	}

	w, h := c.mat.Cols(), c.mat.Rows()
	frame := signalframe.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// gocv's default colour order is BGR.
			b := c.mat.GetUCharAt(y, x*3)
			g := c.mat.GetUCharAt(y, x*3+1)
			r := c.mat.GetUCharAt(y, x*3+2)
			frame.SetRGB(x, y, r, g, b)
		}
	}
	return frame, nil
}

// Close releases the underlying capture and scratch Mat.
func (c *Capture) Close() error {
	c.mat.Close()
	return c.cap.Close()
}

// Writer is a media.Sink writing to a video file via gocv.VideoWriter, and
// optionally displaying each frame in a preview window.
type Writer struct {
	name    string
	writer  *gocv.VideoWriter
	mat     gocv.Mat
	preview *gocv.Window
}

// NewWriter opens path for writing at fps frames/sec and (width, height)
// resolution. If preview is true, a live display window is also opened.
func NewWriter(path string, fps float64, width, height int, preview bool) (*Writer, error) {
	w, err := gocv.VideoWriterFile(path, "mp4v", fps, width, height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "gocvio: could not open %s for writing", path)
	}

	var win *gocv.Window
	if preview {
		win = gocv.NewWindow(fmt.Sprintf("analogtv: %s", path))
	}

	return &Writer{name: path, writer: w, mat: gocv.NewMat(), preview: win}, nil
}

func (w *Writer) Name() string { return w.name }

// Write encodes f and appends it to the output file, and if a preview
// window is open, displays it.
func (w *Writer) Write(f signalframe.Frame) error {
	if w.mat.Empty() || w.mat.Cols() != f.Width || w.mat.Rows() != f.Height {
		w.mat.Close()
		w.mat = gocv.NewMatWithSize(f.Height, f.Width, gocv.MatTypeCV8UC3)
	}

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGB(x, y)
			w.mat.SetUCharAt(y, x*3, b)
			w.mat.SetUCharAt(y, x*3+1, g)
			w.mat.SetUCharAt(y, x*3+2, r)
		}
	}

	if err := w.writer.Write(w.mat); err != nil {
		return errors.Wrap(err, "gocvio: could not write frame")
	}

	if w.preview != nil {
		w.preview.IMShow(w.mat)
		w.preview.WaitKey(1)
	}
	return nil
}

// Close releases the writer, preview window and scratch Mat.
func (w *Writer) Close() error {
	w.mat.Close()
	if w.preview != nil {
		w.preview.Close()
	}
	return w.writer.Close()
}

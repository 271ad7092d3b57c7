//go:build !withcv
// +build !withcv

/*
NAME
  gocvio_circleci.go

DESCRIPTION
  gocvio_circleci.go replaces the gocv-backed Capture/Writer when built
  without OpenCV available, so that the rest of the module still builds
  and tests in environments (e.g. CI) without a local OpenCV install.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package gocvio

import (
	"github.com/ausocean/analogtv/signalframe"
	"github.com/pkg/errors"
)

// Capture is a stub Source; NewCapture and Read return an error, as gocv is
// unavailable in this build, and Close is a no-op.
type Capture struct{}

// NewCapture always fails in a !withcv build.
func NewCapture(path string) (*Capture, error) {
	return nil, errors.New("gocvio: built without withcv, gocv unavailable")
}

func (c *Capture) Name() string { return "gocvio.Capture (stub)" }
func (c *Capture) FPS() float64 { return 0 }
func (c *Capture) Read() (signalframe.Frame, error) {
	return signalframe.Frame{}, errors.New("gocvio: built without withcv, gocv unavailable")
}
func (c *Capture) Close() error { return nil }

// Writer is a stub Sink; NewWriter and Write return an error, as gocv is
// unavailable in this build, and Close is a no-op.
type Writer struct{}

// NewWriter always fails in a !withcv build.
func NewWriter(path string, fps float64, width, height int, preview bool) (*Writer, error) {
	return nil, errors.New("gocvio: built without withcv, gocv unavailable")
}

func (w *Writer) Name() string { return "gocvio.Writer (stub)" }
func (w *Writer) Write(f signalframe.Frame) error {
	return errors.New("gocvio: built without withcv, gocv unavailable")
}
func (w *Writer) Close() error { return nil }

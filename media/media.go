/*
NAME
  media.go

DESCRIPTION
  media.go defines Source and Sink, the frame-oriented interfaces the
  conversion Engine reads from and writes to. Concrete implementations
  live in subpackages, e.g. gocvio.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package media defines the frame source/sink interfaces the conversion
// Engine is built around.
package media

import (
	"io"

	"github.com/ausocean/analogtv/signalframe"
)

// Source reads decoded video frames from some underlying media, e.g. a file
// or capture device.
type Source interface {
	// Name returns the name of the Source.
	Name() string

	// Read returns the next frame, or io.EOF once exhausted.
	Read() (signalframe.Frame, error)

	// FPS returns the source's nominal frame rate.
	FPS() float64

	io.Closer
}

// Sink writes processed frames to some underlying media, e.g. a file,
// display window or capture-equivalent encoder.
type Sink interface {
	// Name returns the name of the Sink.
	Name() string

	// Write emits one processed frame.
	Write(f signalframe.Frame) error

	io.Closer
}

/*
NAME
  signalframe.go

DESCRIPTION
  signalframe.go defines the two leaf data types passed between the colour
  codecs and the conversion orchestrator: a one-dimensional composite
  signal and a packed RGB raster.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package signalframe holds the Signal and Frame leaf types shared by the
// filter, noise, colour and pipeline packages.
package signalframe

import "github.com/pkg/errors"

// Signal is a one-dimensional, real-valued composite (or component)
// waveform.
type Signal []float64

// Frame is a packed RGB raster, 0xAARRGGBB per pixel with alpha fixed at
// 0xFF.
type Frame struct {
	Width, Height int
	Pix           []uint32
}

// NewFrame allocates a zero-valued Frame of the given dimensions.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height, Pix: make([]uint32, width*height)}
}

// At returns the packed pixel at (x, y).
func (f Frame) At(x, y int) uint32 {
	return f.Pix[y*f.Width+x]
}

// Set writes a packed pixel at (x, y).
func (f Frame) Set(x, y int, v uint32) {
	f.Pix[y*f.Width+x] = v
}

// SetRGB packs an 8-bit RGB triple (alpha forced to 0xFF) at (x, y).
func (f Frame) SetRGB(x, y int, r, g, b uint8) {
	f.Set(x, y, 0xFF000000|uint32(r)<<16|uint32(g)<<8|uint32(b))
}

// RGB unpacks the 8-bit RGB triple at (x, y), ignoring alpha.
func (f Frame) RGB(x, y int) (r, g, b uint8) {
	v := f.At(x, y)
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// Validate checks that a Frame's dimensions agree with its pixel buffer
// length.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return errors.New("signalframe: frame dimensions must be positive")
	}
	if len(f.Pix) != f.Width*f.Height {
		return errors.Errorf("signalframe: pixel buffer length %d does not match %dx%d", len(f.Pix), f.Width, f.Height)
	}
	return nil
}

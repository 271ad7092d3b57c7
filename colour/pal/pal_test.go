/*
NAME
  pal_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pal

import (
	"testing"

	"github.com/ausocean/analogtv/broadcast"
	"github.com/ausocean/analogtv/signalframe"
)

func absDiff(v, ref uint8) int {
	d := int(v) - int(ref)
	if d < 0 {
		return -d
	}
	return d
}

func greyFrame(w, h int, level uint8) signalframe.Frame {
	f := signalframe.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetRGB(x, y, level, level, level)
		}
	}
	return f
}

func barsFrame(w, h int) signalframe.Frame {
	f := signalframe.NewFrame(w, h)
	colours := [][3]uint8{
		{235, 235, 235}, {235, 235, 16}, {16, 235, 235}, {16, 235, 16},
		{235, 16, 235}, {235, 16, 16}, {16, 16, 235},
	}
	barW := w / len(colours)
	if barW < 1 {
		barW = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := x / barW
			if idx >= len(colours) {
				idx = len(colours) - 1
			}
			c := colours[idx]
			f.SetRGB(x, y, c[0], c[1], c[2])
		}
	}
	return f
}

func newTestSystem(t *testing.T, interlaced bool) *System {
	t.Helper()
	std, err := broadcast.Lookup("g")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	sys, err := New(std, interlaced, 4, 1, 0, 0, 1, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sys
}

// New always binds FixedWidth, regardless of the broadcast standard.
func TestNewUsesFixedWidth(t *testing.T) {
	sys := newTestSystem(t, false)
	if sys.ActiveWidth != FixedWidth {
		t.Errorf("expected ActiveWidth %d, got %d", FixedWidth, sys.ActiveWidth)
	}
}

// Property 10: a grey field round-trips within +-3 per channel once
// crosstalk is zero (filter transients at the first/last ~fir.len columns
// are excluded; the centre column is well clear of them).
func TestMonochromeRoundTrip(t *testing.T) {
	sys := newTestSystem(t, false)
	f := greyFrame(FixedWidth, sys.FieldScanlines, 150)

	sig, err := sys.Encode(f, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := sys.Decode(sig, 0, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	r, g, b := out.RGB(out.Width/2, out.Height/2)
	const tolerance = 3
	if absDiff(r, 150) > tolerance || absDiff(g, 150) > tolerance || absDiff(b, 150) > tolerance {
		t.Errorf("expected near-grey output, got (%d,%d,%d)", r, g, b)
	}
}

// Colour bars should recover distinguishable colour across the field.
func TestColourBarsDistinguishable(t *testing.T) {
	sys := newTestSystem(t, false)
	f := barsFrame(FixedWidth, sys.FieldScanlines)

	sig, err := sys.Encode(f, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := sys.Decode(sig, 0, 0.1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	r0, g0, b0 := out.RGB(0, out.Height/2)
	r1, g1, b1 := out.RGB(out.Width-1, out.Height/2)
	if r0 == r1 && g0 == g1 && b0 == b1 {
		t.Errorf("expected distinguishable colour across bars, got (%d,%d,%d) both ends", r0, g0, b0)
	}
}

// lineAlternation should flip sign between successive lines, the V-switch
// PAL decode relies on to average out phase errors.
func TestLineAlternationFlips(t *testing.T) {
	if lineAlternation(0) == lineAlternation(1) {
		t.Errorf("expected lineAlternation to differ between consecutive lines")
	}
	if lineAlternation(0) != lineAlternation(2) {
		t.Errorf("expected lineAlternation to repeat every 2 lines")
	}
}

// Encode should reject a frame whose pixel buffer doesn't match its
// declared dimensions.
func TestEncodeInvalidFrame(t *testing.T) {
	sys := newTestSystem(t, false)
	bad := signalframe.Frame{Width: 10, Height: 10, Pix: make([]uint32, 5)}
	if _, err := sys.Encode(bad, 0); err == nil {
		t.Errorf("expected error encoding an invalid frame")
	}
}

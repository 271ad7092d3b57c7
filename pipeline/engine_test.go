/*
NAME
  engine_test.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/ausocean/analogtv/colour/ntsc"
	"github.com/ausocean/analogtv/config"
	"github.com/ausocean/analogtv/signalframe"
	"github.com/ausocean/utils/logging"
)

// testLogger routes logging calls through the testing package.
type testLogger testing.T

func (tl *testLogger) Debug(msg string, args ...interface{})   { tl.Log(logging.Debug, msg, args...) }
func (tl *testLogger) Info(msg string, args ...interface{})    { tl.Log(logging.Info, msg, args...) }
func (tl *testLogger) Warning(msg string, args ...interface{}) { tl.Log(logging.Warning, msg, args...) }
func (tl *testLogger) Error(msg string, args ...interface{})   { tl.Log(logging.Error, msg, args...) }
func (tl *testLogger) Fatal(msg string, args ...interface{})   { tl.Log(logging.Fatal, msg, args...) }
func (tl *testLogger) SetLevel(lvl int8)                       {}
func (tl *testLogger) Log(lvl int8, msg string, args ...interface{}) {
	(*testing.T)(tl).Helper()
	(*testing.T)(tl).Logf("%s %v", msg, args)
}

// fakeSource yields a fixed set of frames then io.EOF.
type fakeSource struct {
	frames []signalframe.Frame
	i      int
}

func (s *fakeSource) Name() string { return "fake" }
func (s *fakeSource) FPS() float64 { return 25 }
func (s *fakeSource) Close() error { return nil }
func (s *fakeSource) Read() (signalframe.Frame, error) {
	if s.i >= len(s.frames) {
		return signalframe.Frame{}, io.EOF
	}
	f := s.frames[s.i]
	s.i++
	return f, nil
}

// fakeSink records every frame it is given.
type fakeSink struct {
	frames []signalframe.Frame
}

func (s *fakeSink) Name() string { return "fake" }
func (s *fakeSink) Close() error { return nil }
func (s *fakeSink) Write(f signalframe.Frame) error {
	s.frames = append(s.frames, f)
	return nil
}

// visibleLines is "m"'s (NTSC 525/60) VisibleLines, the source raster
// height most test frames below use so that source rows map one to one: a
// colour.System always builds FieldScanlines from the bound broadcast
// standard, not from the width/height of whatever frame happens to be fed
// through it. Frames of other sizes (the 4x4 scenario inputs) are
// resampled by SourceRow/SourceCol.
const visibleLines = 480

// testConfig builds a config.Config bound to the "m" broadcast standard.
// activeWidth is only meaningful for NTSC (PAL and SECAM always use their
// own fixed width); it must match the width of any frame fed through the
// resulting Engine, since NTSC otherwise derives a default width from the
// broadcast standard's scanline count rather than the test frame's actual
// width.
func testConfig(t *testing.T, colourSys uint8, interlaced bool, activeWidth uint) config.Config {
	cfg := config.Config{
		BroadcastSystem:   "m",
		ColourSystem:      colourSys,
		ActiveWidth:       activeWidth,
		Interlaced:        interlaced,
		Resonance:         4,
		PrefilterFreqMult: 1,
		NoiseAmp:          0.01,
		NoiseExponent:     1,
		PhaseNoise:        0,
		ScanlineJitter:    0,
		Crosstalk:         0.1,
		Seed:              42,
		Logger:            (*testLogger)(t),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	return cfg
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

func absDiff(v, ref uint8) int {
	d := int(v) - int(ref)
	if d < 0 {
		return -d
	}
	return d
}

// Property 10: a monochrome field round-trips through NTSC within +-3 per
// channel once crosstalk, noise, phase-noise and jitter are all zero.
func TestMonochromeRoundTripNTSC(t *testing.T) {
	const width = 160
	cfg := testConfig(t, config.ColourNTSC, false, width)
	cfg.NoiseAmp = 0
	cfg.Crosstalk = 0
	src := &fakeSource{frames: []signalframe.Frame{greyFrame(width, visibleLines, 128)}}
	sink := &fakeSink{}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Run(context.Background(), e, src, sink, RunOptions{AdditiveNoise: cfg.NoiseAmp, Crosstalk: cfg.Crosstalk}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(sink.frames))
	}

	out := sink.frames[0]
	if out.Width != width || out.Height != visibleLines {
		t.Fatalf("expected %dx%d frame, got %dx%d", width, visibleLines, out.Width, out.Height)
	}

	// Filter transients at the first/last ~fir.len columns are excluded;
	// the centre column is well clear of them.
	r, g, b := out.RGB(out.Width/2, out.Height/2)
	const tolerance = 3
	if absDiff(r, 128) > tolerance || absDiff(g, 128) > tolerance || absDiff(b, 128) > tolerance {
		t.Errorf("expected near-grey output, got (%d,%d,%d)", r, g, b)
	}
}

// A colour bars field run through PAL should recover distinguishable
// per-bar colour, not a flat grey field.
func TestColourBarsRoundTripPAL(t *testing.T) {
	cfg := testConfig(t, config.ColourPAL, false, 0)
	src := &fakeSource{frames: []signalframe.Frame{barsFrame(1400, visibleLines)}}
	sink := &fakeSink{}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Run(context.Background(), e, src, sink, RunOptions{AdditiveNoise: cfg.NoiseAmp, Crosstalk: cfg.Crosstalk}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(sink.frames))
	}

	out := sink.frames[0]
	row := out.Height / 2
	r0, g0, b0 := out.RGB(0, row)
	r1, g1, b1 := out.RGB(out.Width-1, row)
	if r0 == r1 && g0 == g1 && b0 == b1 {
		t.Errorf("expected distinguishable colour across bars, got (%d,%d,%d) both ends", r0, g0, b0)
	}
}

// An interlaced run should toggle the Engine's field bit between successive
// frames.
func TestInterlaceTogglesField(t *testing.T) {
	const width = 120
	cfg := testConfig(t, config.ColourNTSC, true, width)
	f0, f1 := barsFrame(width, visibleLines), barsFrame(width, visibleLines)

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.field != 0 {
		t.Fatalf("expected initial field 0, got %d", e.field)
	}
	if _, err := e.ProcessFrame(f0, cfg.NoiseAmp, cfg.Crosstalk); err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if e.field != 1 {
		t.Fatalf("expected field to toggle to 1 after one frame, got %d", e.field)
	}
	if _, err := e.ProcessFrame(f1, cfg.NoiseAmp, cfg.Crosstalk); err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if e.field != 0 {
		t.Fatalf("expected field to toggle back to 0 after two frames, got %d", e.field)
	}
}

// SECAM should accept and process a full field without error, exercising
// the line-sequential FM path end to end.
func TestSECAMProcessesFrame(t *testing.T) {
	cfg := testConfig(t, config.ColourSECAM, false, 0)
	src := &fakeSource{frames: []signalframe.Frame{barsFrame(1400, visibleLines)}}
	sink := &fakeSink{}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Run(context.Background(), e, src, sink, RunOptions{AdditiveNoise: cfg.NoiseAmp, Crosstalk: cfg.Crosstalk}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(sink.frames))
	}
}

// An empty source should end the run cleanly with zero frames processed.
func TestRunEmptySource(t *testing.T) {
	cfg := testConfig(t, config.ColourNTSC, false, 160)
	src := &fakeSource{}
	sink := &fakeSink{}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := Run(context.Background(), e, src, sink, RunOptions{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.Frames() != 0 {
		t.Fatalf("expected 0 frames processed, got %d", e.Frames())
	}
}

// Cancelling the run context stops processing before the source is
// exhausted, and MaxFrames independently bounds a run.
func TestRunCancellationAndMaxFrames(t *testing.T) {
	const width = 80
	cfg := testConfig(t, config.ColourNTSC, false, width)

	t.Run("cancellation", func(t *testing.T) {
		src := &fakeSource{frames: []signalframe.Frame{
			greyFrame(width, visibleLines, 64),
			greyFrame(width, visibleLines, 64),
		}}
		sink := &fakeSink{}
		e, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := Run(ctx, e, src, sink, RunOptions{}); err == nil {
			t.Fatalf("expected context cancellation error")
		}
	})

	t.Run("max frames", func(t *testing.T) {
		src := &fakeSource{frames: []signalframe.Frame{
			greyFrame(width, visibleLines, 64),
			greyFrame(width, visibleLines, 64),
			greyFrame(width, visibleLines, 64),
		}}
		sink := &fakeSink{}
		e, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := Run(context.Background(), e, src, sink, RunOptions{MaxFrames: 2}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(sink.frames) != 2 {
			t.Fatalf("expected 2 frames written, got %d", len(sink.frames))
		}
	})
}

// hueDeg returns the HSV hue angle of (r,g,b), in degrees, [0,360).
func hueDeg(r, g, b uint8) float64 {
	rf, gf, bf := float64(r), float64(g), float64(b)
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min
	if delta == 0 {
		return 0
	}

	var h float64
	switch max {
	case rf:
		h = 60 * math.Mod((gf-bf)/delta, 6)
	case gf:
		h = 60 * ((bf-rf)/delta + 2)
	default:
		h = 60 * ((rf-gf)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h
}

// hueDist returns the smaller angular distance between two hues in degrees.
func hueDist(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// uniformFrame builds a w x h frame filled with a single (r,g,b) colour.
func uniformFrame(w, h int, r, g, b uint8) signalframe.Frame {
	f := signalframe.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetRGB(x, y, r, g, b)
		}
	}
	return f
}

// S1: a 4x4 uniform grey frame run through PAL/SystemI with noise=0,
// crosstalk=0 should produce a 1400x576 frame whose central pixels stay
// within +-3 of the source grey level.
func TestScenarioS1UniformGreyPAL(t *testing.T) {
	cfg := config.Config{
		BroadcastSystem:   "i",
		ColourSystem:      config.ColourPAL,
		Resonance:         4,
		PrefilterFreqMult: 1,
		Seed:              1,
		Logger:            (*testLogger)(t),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f := uniformFrame(4, 4, 128, 128, 128)
	out, err := e.ProcessFrame(f, 0, 0)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if out.Width != 1400 || out.Height != 576 {
		t.Fatalf("expected 1400x576 frame, got %dx%d", out.Width, out.Height)
	}

	const tolerance = 3
	r, g, b := out.RGB(out.Width/2, out.Height/2)
	if absDiff(r, 128) > tolerance || absDiff(g, 128) > tolerance || absDiff(b, 128) > tolerance {
		t.Errorf("expected near-grey output, got (%d,%d,%d)", r, g, b)
	}
}

// S2: a 4x4 uniform red frame run through NTSC/SystemM should decode to a
// central pixel whose hue is within 5 degrees of red.
func TestScenarioS2RedHueNTSC(t *testing.T) {
	cfg := config.Config{
		BroadcastSystem:   "m",
		ColourSystem:      config.ColourNTSC,
		Resonance:         4,
		PrefilterFreqMult: 1,
		Seed:              1,
		Logger:            (*testLogger)(t),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f := uniformFrame(4, 4, 255, 0, 0)
	out, err := e.ProcessFrame(f, 0, 0)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}

	r, g, b := out.RGB(out.Width/2, out.Height/2)
	if hue := hueDeg(r, g, b); hueDist(hue, 0) > 5 {
		t.Errorf("expected hue within 5 degrees of red, got %.1f degrees (%d,%d,%d)", hue, r, g, b)
	}
}

// S3: a 4x4 uniform green frame run through SECAM/SystemL should decode,
// on both the Dr-line and Db-line output rows, to a green-dominant triple
// whose hue is within 10 degrees of green.
func TestScenarioS3GreenHueSECAM(t *testing.T) {
	cfg := config.Config{
		BroadcastSystem:   "l",
		ColourSystem:      config.ColourSECAM,
		Resonance:         4,
		PrefilterFreqMult: 1,
		Seed:              1,
		Logger:            (*testLogger)(t),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f := uniformFrame(4, 4, 0, 255, 0)
	out, err := e.ProcessFrame(f, 0, 0)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}

	mid := out.Width / 2
	drRow, dbRow := out.Height/2, out.Height/2
	if drRow%2 == 0 {
		drRow++
	}
	if dbRow%2 == 1 {
		dbRow++
	}

	for _, row := range []struct {
		name string
		y    int
	}{{"Dr", drRow}, {"Db", dbRow}} {
		r, g, b := out.RGB(mid, row.y)
		if int(g) <= int(r) || int(g) <= int(b) {
			t.Errorf("%s-line row %d: expected green-dominant triple, got (%d,%d,%d)", row.name, row.y, r, g, b)
		}
		if hue := hueDeg(r, g, b); hueDist(hue, 120) > 10 {
			t.Errorf("%s-line row %d: expected hue within 10 degrees of green, got %.1f degrees (%d,%d,%d)", row.name, row.y, hue, r, g, b)
		}
	}
}

// S4: an impulse frame (a single white pixel on black) with crosstalk=0.5
// should ring for at least +-MainFIR.Length() columns around the impulse
// column, with the ringing's magnitude decaying as distance from the
// impulse grows.
func TestScenarioS4ImpulseRinging(t *testing.T) {
	cfg := testConfig(t, config.ColourNTSC, false, 0)
	cfg.NoiseAmp = 0

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sys, ok := e.sys.(*ntsc.System)
	if !ok {
		t.Fatalf("expected *ntsc.System, got %T", e.sys)
	}
	finLen := sys.MainFIR.Length()

	width := e.OutputWidth()
	midX, midY := width/2, visibleLines/2
	f := signalframe.NewFrame(width, visibleLines)
	f.SetRGB(midX, midY, 255, 255, 255)

	out, err := e.ProcessFrame(f, 0, 0.5)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}

	dev := func(x int) int {
		if x < 0 || x >= out.Width {
			return 0
		}
		r, g, b := out.RGB(x, midY)
		return absDiff(r, 0) + absDiff(g, 0) + absDiff(b, 0)
	}

	if dev(midX+finLen) == 0 && dev(midX-finLen) == 0 {
		t.Errorf("expected visible ringing at +-%d columns from the impulse", finLen)
	}

	half := finLen / 2
	if half < 1 {
		half = 1
	}
	var innerPeak, outerPeak int
	for x := midX + 1; x <= midX+half; x++ {
		if d := dev(x); d > innerPeak {
			innerPeak = d
		}
	}
	for x := midX + finLen + 1; x <= midX+finLen+half; x++ {
		if d := dev(x); d > outerPeak {
			outerPeak = d
		}
	}
	if outerPeak > innerPeak {
		t.Errorf("expected ringing to decay moving outward: inner peak %d, further-out peak %d", innerPeak, outerPeak)
	}
}

// S5: running the same frame through an interlaced engine across two
// successive calls should leave no residual zero rows in the framebuffer:
// every row must have been written by one of the two fields.
func TestScenarioS5InterlaceCoverage(t *testing.T) {
	const width = 160
	cfg := testConfig(t, config.ColourNTSC, true, width)
	cfg.NoiseAmp = 0

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f := greyFrame(width, visibleLines, 128)

	if _, err := e.ProcessFrame(f, 0, 0); err != nil {
		t.Fatalf("ProcessFrame (field 0): %v", err)
	}
	out, err := e.ProcessFrame(f, 0, 0)
	if err != nil {
		t.Fatalf("ProcessFrame (field 1): %v", err)
	}

	for y := 0; y < out.Height; y++ {
		r, g, b := out.RGB(out.Width/2, y)
		if r == 0 && g == 0 && b == 0 {
			t.Fatalf("row %d is all-zero: framebuffer not fully populated after two fields", y)
		}
	}
}

// S6: with scanlineJitter=0.01, the column of a vertical black/white edge
// should shift from its nominal position by a bounded number of pixels per
// row, drawn from the jitter generator's output and clamped by
// colour.ClampJitter's +-100 sample limit.
func TestScenarioS6JitterBoundedShift(t *testing.T) {
	const width = 320
	const maxShift = 150 // ClampJitter's +-100 sample bound, plus filter-delay slack.

	cfg := testConfig(t, config.ColourNTSC, false, width)
	cfg.NoiseAmp = 0
	cfg.ScanlineJitter = 0.01

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	f := signalframe.NewFrame(width, visibleLines)
	for y := 0; y < visibleLines; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				f.SetRGB(x, y, 0, 0, 0)
			} else {
				f.SetRGB(x, y, 255, 255, 255)
			}
		}
	}

	out, err := e.ProcessFrame(f, 0, 0)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}

	const nominal = width / 2
	for _, y := range []int{10, visibleLines / 4, visibleLines / 2, visibleLines - 10} {
		edge := -1
		for x := 0; x < out.Width; x++ {
			r, _, _ := out.RGB(x, y)
			if r > 128 {
				edge = x
				break
			}
		}
		if edge < 0 {
			t.Fatalf("row %d: no edge found", y)
		}
		shift := edge - nominal
		if shift < 0 {
			shift = -shift
		}
		if shift > maxShift {
			t.Errorf("row %d: edge shifted %d columns from nominal %d, exceeds bound %d", y, shift, nominal, maxShift)
		}
	}
}

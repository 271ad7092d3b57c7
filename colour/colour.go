/*
NAME
  colour.go

DESCRIPTION
  colour.go holds the scaffolding shared by every colour system: gamma
  transforms, the 3x3 colour-matrix type, the scanline geometry table and
  the System capability interface each of ntsc, pal and secam implements.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package colour holds the scaffolding shared by the NTSC, PAL and SECAM
// colour encoders/decoders: gamma transforms, colour matrices, scanline
// geometry and the common construction of the luma/chroma FIR bank.
package colour

import (
	"math"

	"github.com/ausocean/analogtv/broadcast"
	"github.com/ausocean/analogtv/firfilter"
	"github.com/ausocean/analogtv/noise"
	"github.com/ausocean/analogtv/signalframe"
	"github.com/pkg/errors"
)

// PrefilterResonance is the fixed order used for both component prefilters,
// independent of the user-selected main filter resonance.
const PrefilterResonance = 2.0

// mainFilterTaps bounds the number of causal taps attempted when
// synthesising the main and chroma extraction kernels.
const mainFilterTaps = 256

// System is the capability set every colour codec implements: encode a
// field of an RGB frame to a composite signal, and decode a composite
// signal plus crosstalk back to an RGB frame.
type System interface {
	Encode(f signalframe.Frame, field int) (signalframe.Signal, error)
	Decode(s signalframe.Signal, field int, crosstalk float64) (signalframe.Frame, error)
	Standard() broadcast.Standard

	// OutputWidth and OutputHeight give the dimensions of a Frame this
	// System decodes to, after the standard's active width and interlace
	// settings are resolved. Encode accepts a Frame of any size and
	// resamples it to the active width and the standard's visible lines.
	OutputWidth() int
	OutputHeight() int
}

// Matrix is a row-major 3x3 colour transform.
type Matrix [3][3]float64

// Apply transforms (a, b, c) through m.
func (m Matrix) Apply(a, b, c float64) (x, y, z float64) {
	x = m[0][0]*a + m[0][1]*b + m[0][2]*c
	y = m[1][0]*a + m[1][1]*b + m[1][2]*c
	z = m[2][0]*a + m[2][1]*b + m[2][2]*c
	return
}

// Colour matrices, §6.
var (
	RGBtoYIQ = Matrix{
		{0.299, 0.587, 0.114},
		{0.5959, -0.2746, -0.3213},
		{0.2115, -0.5227, 0.3112},
	}
	YIQtoRGB = Matrix{
		{1, 0.956, 0.619},
		{1, -0.272, -0.647},
		{1, -1.106, 1.703},
	}
	RGBtoYUV = Matrix{
		{0.299, 0.587, 0.114},
		{-0.14713, -0.28886, 0.436},
		{0.615, -0.51499, -0.10001},
	}
	YUVtoRGB = Matrix{
		{1, 0, 1.13983},
		{1, -0.39465, -0.58060},
		{1, 2.03211, 0},
	}
	RGBtoYDbDr = Matrix{
		{0.299, 0.587, 0.114},
		{-0.45, -0.883, 1.333},
		{-1.333, 1.116, 0.217},
	}
	YDbDrtoRGB = Matrix{
		{1, 0, -0.525912630661865},
		{1, -0.129132898809509, 0.267899328207599},
		{1, 0.664679059978955, 0},
	}
)

// SRGBToLinear applies the standard sRGB inverse transfer function.
func SRGBToLinear(v float64) float64 {
	if v > 0.04045 {
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return v / 12.92
}

// LinearToSRGB applies the standard sRGB forward transfer function.
func LinearToSRGB(v float64) float64 {
	if v > 0.0031308 {
		return 1.055*math.Pow(v, 1/2.4) - 0.055
	}
	return 12.92 * v
}

// EncodeGamma linearises an sRGB sample and applies the display gamma's
// inverse, producing the value that is composited/modulated.
func EncodeGamma(v, displayGamma float64) float64 {
	lin := SRGBToLinear(clamp01(v))
	return math.Pow(math.Max(lin, 0), 1/displayGamma)
}

// DecodeGamma restores the display gamma and converts back to sRGB.
func DecodeGamma(v, displayGamma float64) float64 {
	lin := math.Pow(math.Max(v, 0), displayGamma)
	return LinearToSRGB(lin)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PackRGB clamps (r, g, b) to [0,1], scales to [0,255] and packs as
// 0xFF000000 | R<<16 | G<<8 | B.
func PackRGB(r, g, b float64) uint32 {
	ri := uint32(clamp01(r)*255 + 0.5)
	gi := uint32(clamp01(g)*255 + 0.5)
	bi := uint32(clamp01(b)*255 + 0.5)
	return 0xFF000000 | ri<<16 | gi<<8 | bi
}

// Geometry is the scanline address table shared by every codec: the
// sample offset each scanline begins at, and the offset within each
// scanline where the active (non-porch) region begins.
type Geometry struct {
	SampleRate         float64
	SamplesPerLine     int
	ActiveStart        int // front-porch width, constant across scanlines
	BoundaryPoints     []int
	ActiveSignalStarts []int
}

// NewGeometry builds the scanline address table for a field of
// fieldScanlines lines, given the active width and the standard's line
// timing.
func NewGeometry(std broadcast.Standard, activeWidth, fieldScanlines int) Geometry {
	sampleRate := float64(activeWidth) / std.ActiveTime
	lineTime := 1.0 / (float64(fieldScanlines) * std.FPS)
	samplesPerLine := int(math.Round(lineTime * sampleRate))
	if samplesPerLine < activeWidth {
		samplesPerLine = activeWidth
	}
	blanking := samplesPerLine - activeWidth
	front := blanking / 2

	boundary := make([]int, fieldScanlines+1)
	for i := range boundary {
		boundary[i] = i * samplesPerLine
	}
	starts := make([]int, fieldScanlines)
	for i := range starts {
		starts[i] = front
	}

	return Geometry{
		SampleRate:         sampleRate,
		SamplesPerLine:     samplesPerLine,
		ActiveStart:        front,
		BoundaryPoints:     boundary,
		ActiveSignalStarts: starts,
	}
}

// Base holds the construction shared by every colour system: the bound
// standard, scanline geometry, the main luma-extraction filter, both
// component prefilters, and the jitter/phase-noise generators. Concrete
// systems embed Base and add their own chroma FIRs and modulation rule.
type Base struct {
	Std broadcast.Standard

	ActiveWidth    int
	FieldScanlines int
	Interlaced     bool

	Geometry Geometry

	MainFIR       firfilter.Filter
	LumaPrefir    firfilter.Filter
	ChromaPrefir  firfilter.Filter

	JitGen     *noise.Generator
	PhNoiseGen *noise.Generator

	Resonance      float64
	PrefilterMult  float64
	ScanlineJitter float64
}

// NewBase builds the shared scaffolding for a colour system bound to std.
func NewBase(
	std broadcast.Standard,
	activeWidth int,
	interlaced bool,
	resonance, prefilterMult, phaseNoise, scanlineJitter, noiseExponent float64,
	seed uint64,
) (Base, error) {
	if activeWidth <= 0 {
		return Base{}, errors.New("colour: activeWidth must be positive")
	}

	fieldScanlines := std.VisibleLines
	if interlaced {
		fieldScanlines = std.VisibleLines / 2
	}

	geom := NewGeometry(std, activeWidth, fieldScanlines)

	mainWidth := std.MainBandwidth + std.SideBandwidth
	mainCenter := (std.MainBandwidth - std.SideBandwidth) / 2
	mainFIR, err := firfilter.MakeFilter(geom.SampleRate, mainFilterTaps, mainCenter, mainWidth, resonance)
	if err != nil {
		return Base{}, errors.Wrap(err, "colour: could not build main filter")
	}

	lumaPrefir, err := firfilter.MakeFilter(geom.SampleRate, mainFilterTaps, 0, 2*std.MainBandwidth*prefilterMult, PrefilterResonance)
	if err != nil {
		return Base{}, errors.Wrap(err, "colour: could not build luma prefilter")
	}
	chromaPrefir, err := firfilter.MakeFilter(geom.SampleRate, mainFilterTaps, 0, 2*std.SideBandwidth*prefilterMult, PrefilterResonance)
	if err != nil {
		return Base{}, errors.Wrap(err, "colour: could not build chroma prefilter")
	}

	jitGen, err := noise.NewGenerator(11, 0, scanlineJitter*float64(activeWidth), noiseExponent, seed)
	if err != nil {
		return Base{}, errors.Wrap(err, "colour: could not build jitter generator")
	}
	phNoiseGen, err := noise.NewGenerator(11, 0, phaseNoise, noiseExponent, seed+1)
	if err != nil {
		return Base{}, errors.Wrap(err, "colour: could not build phase-noise generator")
	}

	return Base{
		Std:            std,
		ActiveWidth:    activeWidth,
		FieldScanlines: fieldScanlines,
		Interlaced:     interlaced,
		Geometry:       geom,
		MainFIR:        mainFIR,
		LumaPrefir:     lumaPrefir,
		ChromaPrefir:   chromaPrefir,
		JitGen:         jitGen,
		PhNoiseGen:     phNoiseGen,
		Resonance:      resonance,
		PrefilterMult:  prefilterMult,
		ScanlineJitter: scanlineJitter,
	}, nil
}

// OutputWidth returns the resolved active width in samples.
func (b Base) OutputWidth() int { return b.ActiveWidth }

// OutputHeight returns the resolved number of scanlines per output field.
func (b Base) OutputHeight() int { return b.FieldScanlines }

// SourceLine maps output scanline i of the given field to a logical source
// row in [0, Std.VisibleLines), interleaving fields when Interlaced.
func (b Base) SourceLine(i, field int) int {
	if !b.Interlaced {
		return i
	}
	return (2*i + field) % b.Std.VisibleLines
}

// SourceRow resamples SourceLine's logical row against frame's actual
// height, so a source raster of any size (smaller or larger than
// Std.VisibleLines) can be encoded: nearest-neighbour scaling, clamped to
// frame.Height-1.
func (b Base) SourceRow(frame signalframe.Frame, i, field int) int {
	row := b.SourceLine(i, field) * frame.Height / b.Std.VisibleLines
	if row >= frame.Height {
		row = frame.Height - 1
	}
	return row
}

// SourceCol resamples output active-column x against frame's actual width
// via nearest-neighbour scaling, clamped to frame.Width-1.
func (b Base) SourceCol(frame signalframe.Frame, x int) int {
	col := x * frame.Width / b.ActiveWidth
	if col >= frame.Width {
		col = frame.Width - 1
	}
	return col
}

// ClampJitter bounds a jitter sample to +-100 samples, per §9.
func ClampJitter(v float64) int {
	const limit = 100
	if v > limit {
		v = limit
	}
	if v < -limit {
		v = -limit
	}
	return int(v)
}

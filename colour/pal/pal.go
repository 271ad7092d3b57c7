/*
NAME
  pal.go

DESCRIPTION
  pal.go implements PAL composite colour encoding and decoding: QAM chroma
  modulation with per-line V-phase alternation and delay-line chroma
  averaging on decode.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pal implements the PAL colour system.
package pal

import (
	"math"

	"github.com/ausocean/analogtv/broadcast"
	"github.com/ausocean/analogtv/colour"
	"github.com/ausocean/analogtv/firfilter"
	"github.com/ausocean/analogtv/signalframe"
	"github.com/pkg/errors"
)

// DisplayGamma is PAL's assumed CRT gamma.
const DisplayGamma = 2.8

const chromaFilterTaps = 256

// FixedWidth is the default PAL active raster width.
const FixedWidth = 1400

// System implements colour.System for PAL.
type System struct {
	colour.Base

	ColFIR     firfilter.Filter
	AngFreq    float64
	SampleTime float64
}

// New builds a PAL System bound to std.
func New(std broadcast.Standard, interlaced bool, resonance, prefilterMult, phaseNoise, scanlineJitter, noiseExponent float64, seed uint64) (*System, error) {
	base, err := colour.NewBase(std, FixedWidth, interlaced, resonance, prefilterMult, phaseNoise, scanlineJitter, noiseExponent, seed)
	if err != nil {
		return nil, errors.Wrap(err, "pal: could not build base")
	}

	width := std.ChromaLower + std.ChromaUpper
	center := (std.ChromaLower - std.ChromaUpper) / 2
	colfir, err := firfilter.MakeFilter(base.Geometry.SampleRate, chromaFilterTaps, center, width, resonance)
	if err != nil {
		return nil, errors.Wrap(err, "pal: could not build chroma filter")
	}

	return &System{
		Base:       base,
		ColFIR:     colfir,
		AngFreq:    2 * math.Pi * std.Subcarrier,
		SampleTime: 1 / base.Geometry.SampleRate,
	}, nil
}

// Standard returns the bound broadcast standard.
func (s *System) Standard() broadcast.Standard { return s.Std }

func lineAlternation(line int) float64 {
	if line%2 == 1 {
		return -1
	}
	return 1
}

// Encode implements colour.System.
func (s *System) Encode(f signalframe.Frame, field int) (signalframe.Signal, error) {
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, "pal: invalid frame")
	}

	n := s.Geometry.BoundaryPoints[s.FieldScanlines]
	sig := make(signalframe.Signal, n)

	for i := 0; i < s.FieldScanlines; i++ {
		src := s.SourceRow(f, i, field)
		lineStart := s.Geometry.BoundaryPoints[i]
		lineLen := s.Geometry.BoundaryPoints[i+1] - lineStart
		activeStart := s.Geometry.ActiveSignalStarts[i]
		alt := lineAlternation(i)

		y := make([]float64, lineLen)
		u := make([]float64, lineLen)
		v := make([]float64, lineLen)

		for x := 0; x < s.ActiveWidth && activeStart+x < lineLen; x++ {
			r, g, b := f.RGB(s.SourceCol(f, x), src)
			rl := colour.EncodeGamma(float64(r)/255, DisplayGamma)
			gl := colour.EncodeGamma(float64(g)/255, DisplayGamma)
			bl := colour.EncodeGamma(float64(b)/255, DisplayGamma)

			yy, uu, vv := colour.RGBtoYUV.Apply(rl, gl, bl)
			y[activeStart+x] = yy
			u[activeStart+x] = uu
			v[activeStart+x] = vv
		}

		y = firfilter.Apply(y, s.LumaPrefir)
		u = firfilter.Apply(u, s.ChromaPrefir)
		v = firfilter.Apply(v, s.ChromaPrefir)

		for x := 0; x < lineLen; x++ {
			t := float64(lineStart+x) * s.SampleTime
			theta := s.AngFreq * t
			sig[lineStart+x] = y[x] + u[x]*math.Sin(theta) + alt*v[x]*math.Cos(theta)
		}
	}

	return sig, nil
}

// Decode implements colour.System.
func (s *System) Decode(sig signalframe.Signal, field int, crosstalk float64) (signalframe.Frame, error) {
	colRaw := firfilter.ApplyCrosstalkShift(sig, s.ColFIR, crosstalk, s.SampleTime, s.AngFreq)
	mainSig := firfilter.Apply(sig, s.MainFIR)
	luma := firfilter.ApplyNotchCrosstalkShift(mainSig, s.ColFIR, crosstalk, s.SampleTime, s.AngFreq)

	frame := signalframe.NewFrame(s.ActiveWidth, s.FieldScanlines)

	// prevU/prevV hold the previous scanline's pre-averaged chroma samples
	// so each line's demodulated U/V can be delay-line averaged against it,
	// per PAL's decoder.
	var prevU, prevV []float64

	for i := 0; i < s.FieldScanlines; i++ {
		lineStart := s.Geometry.BoundaryPoints[i]
		activeStart := s.Geometry.ActiveSignalStarts[i]
		alt := lineAlternation(i)

		phOffs := s.PhNoiseGen.GenNoise()
		jit := colour.ClampJitter(s.JitGen.GenNoise())
		readStart := activeStart + jit

		curU := make([]float64, s.ActiveWidth)
		curV := make([]float64, s.ActiveWidth)
		curY := make([]float64, s.ActiveWidth)
		valid := make([]bool, s.ActiveWidth)

		for x := 0; x < s.ActiveWidth; x++ {
			idx := lineStart + readStart + x
			if idx < 0 || idx >= len(sig) {
				continue
			}
			t := float64(idx) * s.SampleTime
			theta := s.AngFreq*t + phOffs

			curY[x] = luma[idx]
			curU[x] = colRaw[idx] * math.Sin(theta) * 2
			curV[x] = colRaw[idx] * math.Cos(theta) * 2
			valid[x] = true
		}

		var uOut, vOut []float64
		if i == 0 || prevU == nil {
			uOut = make([]float64, s.ActiveWidth)
			vOut = make([]float64, s.ActiveWidth)
			for x := range uOut {
				uOut[x] = curU[x] / 2
				vOut[x] = alt * curV[x] / 2
			}
		} else {
			uOut = make([]float64, s.ActiveWidth)
			vOut = make([]float64, s.ActiveWidth)
			for x := range uOut {
				uOut[x] = (prevU[x] + curU[x]) / 2
				vOut[x] = alt * (curV[x] - prevV[x]) / 2
			}
		}

		for x := 0; x < s.ActiveWidth; x++ {
			if !valid[x] {
				continue
			}
			rl, gl, bl := colour.YUVtoRGB.Apply(curY[x], uOut[x], vOut[x])
			r := colour.DecodeGamma(rl, DisplayGamma)
			g := colour.DecodeGamma(gl, DisplayGamma)
			b := colour.DecodeGamma(bl, DisplayGamma)
			frame.SetRGB(x, i, clampByte(r), clampByte(g), clampByte(b))
		}

		prevU, prevV = curU, curV
	}

	return frame, nil
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

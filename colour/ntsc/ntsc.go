/*
NAME
  ntsc.go

DESCRIPTION
  ntsc.go implements NTSC composite colour encoding and decoding: QAM
  chroma modulation with a fixed 33-degree colour-burst phase and
  asymmetric I/Q vestigial sidebands.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ntsc implements the NTSC colour system.
package ntsc

import (
	"math"

	"github.com/ausocean/analogtv/broadcast"
	"github.com/ausocean/analogtv/colour"
	"github.com/ausocean/analogtv/firfilter"
	"github.com/ausocean/analogtv/signalframe"
	"github.com/pkg/errors"
)

// DisplayGamma is NTSC's assumed CRT gamma.
const DisplayGamma = 2.2

// chromaPhase is the fixed colour-burst phase offset, 33 degrees.
const chromaPhase = 33.0 * math.Pi / 180.0

const chromaFilterTaps = 256

// System implements colour.System for NTSC.
type System struct {
	colour.Base

	QFIR, IFIR             firfilter.Filter
	AngFreq                float64 // subcarrier angular frequency
	SampleTime             float64
}

// New builds an NTSC System bound to std. activeWidth, when <= 0, is
// derived as floor((8/3)*videoScanlines) per the source's NTSC default.
func New(std broadcast.Standard, activeWidth int, interlaced bool, resonance, prefilterMult, phaseNoise, scanlineJitter, noiseExponent float64, seed uint64) (*System, error) {
	if activeWidth <= 0 {
		activeWidth = int(8.0 / 3.0 * float64(std.VisibleLines))
	}

	base, err := colour.NewBase(std, activeWidth, interlaced, resonance, prefilterMult, phaseNoise, scanlineJitter, noiseExponent, seed)
	if err != nil {
		return nil, errors.Wrap(err, "ntsc: could not build base")
	}

	iWidth := std.ChromaLower + std.ChromaUpper
	iCenter := (std.ChromaLower - std.ChromaUpper) / 2
	ifir, err := firfilter.MakeFilter(base.Geometry.SampleRate, chromaFilterTaps, iCenter, iWidth, resonance)
	if err != nil {
		return nil, errors.Wrap(err, "ntsc: could not build I filter")
	}
	qfir, err := firfilter.MakeFilter(base.Geometry.SampleRate, chromaFilterTaps, 0, 2*std.ChromaUpper, resonance)
	if err != nil {
		return nil, errors.Wrap(err, "ntsc: could not build Q filter")
	}

	return &System{
		Base:       base,
		QFIR:       qfir,
		IFIR:       ifir,
		AngFreq:    2 * math.Pi * std.Subcarrier,
		SampleTime: 1 / base.Geometry.SampleRate,
	}, nil
}

// Standard returns the bound broadcast standard.
func (s *System) Standard() broadcast.Standard { return s.Std }

// Encode implements colour.System.
func (s *System) Encode(f signalframe.Frame, field int) (signalframe.Signal, error) {
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, "ntsc: invalid frame")
	}

	n := s.Geometry.BoundaryPoints[s.FieldScanlines]
	sig := make(signalframe.Signal, n)

	for i := 0; i < s.FieldScanlines; i++ {
		src := s.SourceRow(f, i, field)
		lineStart := s.Geometry.BoundaryPoints[i]
		lineLen := s.Geometry.BoundaryPoints[i+1] - lineStart
		activeStart := s.Geometry.ActiveSignalStarts[i]

		y := make([]float64, lineLen)
		iq := make([]float64, lineLen)
		q := make([]float64, lineLen)

		for x := 0; x < s.ActiveWidth && activeStart+x < lineLen; x++ {
			r, g, b := f.RGB(s.SourceCol(f, x), src)
			rl := colour.EncodeGamma(float64(r)/255, DisplayGamma)
			gl := colour.EncodeGamma(float64(g)/255, DisplayGamma)
			bl := colour.EncodeGamma(float64(b)/255, DisplayGamma)

			yy, ii, qq := colour.RGBtoYIQ.Apply(rl, gl, bl)
			y[activeStart+x] = yy
			iq[activeStart+x] = ii
			q[activeStart+x] = qq
		}

		y = firfilter.Apply(y, s.LumaPrefir)
		iq = firfilter.Apply(iq, s.ChromaPrefir)
		q = firfilter.Apply(q, s.ChromaPrefir)

		for x := 0; x < lineLen; x++ {
			t := float64(lineStart+x) * s.SampleTime
			theta := s.AngFreq*t + chromaPhase
			sig[lineStart+x] = y[x] + q[x]*math.Sin(theta) + iq[x]*math.Cos(theta)
		}
	}

	return sig, nil
}

// Decode implements colour.System.
func (s *System) Decode(sig signalframe.Signal, field int, crosstalk float64) (signalframe.Frame, error) {
	qRaw := firfilter.ApplyCrosstalkShift(sig, s.QFIR, crosstalk, s.SampleTime, s.AngFreq)
	iRaw := firfilter.ApplyCrosstalkShift(sig, s.IFIR, crosstalk, s.SampleTime, s.AngFreq)
	mainSig := firfilter.Apply(sig, s.MainFIR)
	luma := firfilter.ApplyNotchCrosstalkShift(mainSig, s.IFIR, crosstalk, s.SampleTime, s.AngFreq)

	frame := signalframe.NewFrame(s.ActiveWidth, s.FieldScanlines)

	for i := 0; i < s.FieldScanlines; i++ {
		lineStart := s.Geometry.BoundaryPoints[i]
		activeStart := s.Geometry.ActiveSignalStarts[i]

		phOffs := s.PhNoiseGen.GenNoise() + chromaPhase
		jit := colour.ClampJitter(s.JitGen.GenNoise())
		readStart := activeStart + jit

		for x := 0; x < s.ActiveWidth; x++ {
			idx := lineStart + readStart + x
			if idx < 0 || idx >= len(sig) {
				continue
			}
			t := float64(idx) * s.SampleTime
			theta := s.AngFreq*t + phOffs

			yy := luma[idx]

			qDemod := qRaw[idx] * 2 * math.Sin(theta)
			iDemod := iRaw[idx] * 2 * math.Cos(theta)

			rl, gl, bl := colour.YIQtoRGB.Apply(yy, iDemod, qDemod)
			r := colour.DecodeGamma(rl, DisplayGamma)
			g := colour.DecodeGamma(gl, DisplayGamma)
			b := colour.DecodeGamma(bl, DisplayGamma)

			rr := uint8(colourClamp255(r))
			gg := uint8(colourClamp255(g))
			bb := uint8(colourClamp255(b))
			frame.SetRGB(x, i, rr, gg, bb)
		}
	}

	return frame, nil
}

func colourClamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 255
	}
	return v * 255
}

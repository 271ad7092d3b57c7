/*
NAME
  secam.go

DESCRIPTION
  secam.go implements SECAM composite colour encoding and decoding:
  line-sequential FM chroma (Db on even lines, Dr on odd) with a
  frequency-tracking PLL discriminator on decode.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package secam implements the SECAM colour system.
//
// The frequency-tracking PLL used on decode is not a textbook FM
// discriminator; its loop-gain constant of 1.1 is reproduced verbatim from
// the tool this package's behaviour was distilled from, which gives no
// derivation for the value. A principled discriminator could replace it so
// long as the round-trip tests still pass.
package secam

import (
	"math"

	"github.com/ausocean/analogtv/broadcast"
	"github.com/ausocean/analogtv/colour"
	"github.com/ausocean/analogtv/firfilter"
	"github.com/ausocean/analogtv/signalframe"
	"github.com/pkg/errors"
)

// DisplayGamma is SECAM's assumed CRT gamma.
const DisplayGamma = 2.8

// ChromaAmplitude is the fixed FM chroma injection amplitude onto the
// composite signal.
const ChromaAmplitude = 0.115

// pllGain is the PLL's loop-gain constant; see the package doc.
const pllGain = 1.1

// SubcarrierStartTime is the blanking interval before the FM subcarrier
// begins on each scanline.
const SubcarrierStartTime = 0.4e-6

const chromaFilterTaps = 256

// FixedWidth is the default SECAM active raster width.
const FixedWidth = 1400

// System implements colour.System for SECAM.
type System struct {
	colour.Base

	DbFIR, DrFIR                   firfilter.Filter
	DbBasebandFIR, DrBasebandFIR   firfilter.Filter
	DbAngFreq, DrAngFreq           float64
	DbShift, DrShift               float64
	SampleTime                     float64
	SubStart                       int
}

// New builds a SECAM System bound to std.
func New(std broadcast.Standard, interlaced bool, resonance, prefilterMult, phaseNoise, scanlineJitter, noiseExponent float64, seed uint64) (*System, error) {
	base, err := colour.NewBase(std, FixedWidth, interlaced, resonance, prefilterMult, phaseNoise, scanlineJitter, noiseExponent, seed)
	if err != nil {
		return nil, errors.Wrap(err, "secam: could not build base")
	}

	sec := std.Secam
	dbfir, err := firfilter.MakeFilter(base.Geometry.SampleRate, chromaFilterTaps, sec.DbCarrier, sec.DbLowerSide+sec.DbUpperSide, resonance)
	if err != nil {
		return nil, errors.Wrap(err, "secam: could not build Db filter")
	}
	drfir, err := firfilter.MakeFilter(base.Geometry.SampleRate, chromaFilterTaps, sec.DrCarrier, sec.DrLowerSide+sec.DrUpperSide, resonance)
	if err != nil {
		return nil, errors.Wrap(err, "secam: could not build Dr filter")
	}

	// Baseband smoothing applied to the demodulated Db/Dr signal, sized to
	// the deviation bandwidth rather than the RF carrier band.
	dbBaseband, err := firfilter.MakeFilter(base.Geometry.SampleRate, chromaFilterTaps, 0, sec.DbDeviation/math.Pi, colour.PrefilterResonance)
	if err != nil {
		return nil, errors.Wrap(err, "secam: could not build Db baseband filter")
	}
	drBaseband, err := firfilter.MakeFilter(base.Geometry.SampleRate, chromaFilterTaps, 0, sec.DrDeviation/math.Pi, colour.PrefilterResonance)
	if err != nil {
		return nil, errors.Wrap(err, "secam: could not build Dr baseband filter")
	}

	subStart := int(SubcarrierStartTime * base.Geometry.SampleRate)

	return &System{
		Base:          base,
		DbFIR:         dbfir,
		DrFIR:         drfir,
		DbBasebandFIR: dbBaseband,
		DrBasebandFIR: drBaseband,
		DbAngFreq:     2 * math.Pi * sec.DbCarrier,
		DrAngFreq:     2 * math.Pi * sec.DrCarrier,
		DbShift:       sec.DbDeviation,
		DrShift:       sec.DrDeviation,
		SampleTime:    1 / base.Geometry.SampleRate,
		SubStart:      subStart,
	}, nil
}

// Standard returns the bound broadcast standard.
func (s *System) Standard() broadcast.Standard { return s.Std }

// isDrLine reports whether line carries Dr (odd) rather than Db (even).
func isDrLine(line int) bool { return line%2 == 1 }

// Encode implements colour.System.
func (s *System) Encode(f signalframe.Frame, field int) (signalframe.Signal, error) {
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, "secam: invalid frame")
	}

	n := s.Geometry.BoundaryPoints[s.FieldScanlines]
	sig := make(signalframe.Signal, n)

	for i := 0; i < s.FieldScanlines; i++ {
		src := s.SourceRow(f, i, field)
		lineStart := s.Geometry.BoundaryPoints[i]
		lineLen := s.Geometry.BoundaryPoints[i+1] - lineStart
		activeStart := s.Geometry.ActiveSignalStarts[i]
		dr := isDrLine(i)

		y := make([]float64, lineLen)
		chroma := make([]float64, lineLen)

		for x := 0; x < s.ActiveWidth && activeStart+x < lineLen; x++ {
			r, g, b := f.RGB(s.SourceCol(f, x), src)
			rl := colour.EncodeGamma(float64(r)/255, DisplayGamma)
			gl := colour.EncodeGamma(float64(g)/255, DisplayGamma)
			bl := colour.EncodeGamma(float64(b)/255, DisplayGamma)

			yy, db, dr2 := colour.RGBtoYDbDr.Apply(rl, gl, bl)
			y[activeStart+x] = yy
			if dr {
				chroma[activeStart+x] = dr2
			} else {
				chroma[activeStart+x] = db
			}
		}

		y = firfilter.Apply(y, s.LumaPrefir)
		chroma = firfilter.Apply(chroma, s.ChromaPrefir)

		angFreq := s.DbAngFreq
		shift := s.DbShift
		if dr {
			angFreq = s.DrAngFreq
			shift = s.DrShift
		}

		phase := 0.0
		for x := 0; x < lineLen; x++ {
			if x < s.SubStart {
				sig[lineStart+x] = y[x]
				continue
			}
			sig[lineStart+x] = y[x] + ChromaAmplitude*math.Cos(phase)
			phase += s.SampleTime * (angFreq + shift*chroma[x])
		}
	}

	return sig, nil
}

// pllDemodulate runs the frequency-tracking discriminator over band,
// producing a normalised frequency-deviation-ratio signal of the same
// length.
func pllDemodulate(band []float64, carrierAngFreq, shiftConst, sampleTime float64) []float64 {
	out := make([]float64, len(band))
	angFreq := carrierAngFreq
	phase := 0.0
	var last, lastShift float64

	for i, v := range band {
		if i == 0 {
			last = v
			continue
		}
		deriv := v - last
		out[i] = (angFreq - carrierAngFreq) / shiftConst

		freqShift := -(math.Cos(phase) * deriv) - (angFreq * math.Sin(phase) * last)
		angFreq += pllGain * (freqShift - lastShift)
		phase += sampleTime * angFreq

		last = v
		lastShift = freqShift
	}
	return out
}

// Decode implements colour.System.
func (s *System) Decode(sig signalframe.Signal, field int, crosstalk float64) (signalframe.Frame, error) {
	dbBand := firfilter.ApplyCrosstalk(sig, s.DbFIR, crosstalk)
	drBand := firfilter.ApplyCrosstalk(sig, s.DrFIR, crosstalk)
	luma := firfilter.ApplyNotchCrosstalk(firfilter.Apply(sig, s.MainFIR), s.DbFIR, crosstalk)

	dbDemod := firfilter.Apply(pllDemodulate(dbBand, s.DbAngFreq, s.DbShift, s.SampleTime), s.DbBasebandFIR)
	drDemod := firfilter.Apply(pllDemodulate(drBand, s.DrAngFreq, s.DrShift, s.SampleTime), s.DrBasebandFIR)

	frame := signalframe.NewFrame(s.ActiveWidth, s.FieldScanlines)

	prevLineStart := -1
	for i := 0; i < s.FieldScanlines; i++ {
		lineStart := s.Geometry.BoundaryPoints[i]
		activeStart := s.Geometry.ActiveSignalStarts[i]
		dr := isDrLine(i)

		jit := colour.ClampJitter(s.JitGen.GenNoise())
		readStart := activeStart + jit

		for x := 0; x < s.ActiveWidth; x++ {
			idx := lineStart + readStart + x
			if idx < 0 || idx >= len(sig) {
				continue
			}

			var dbVal, drVal float64
			if dr {
				drVal = drDemod[idx]
				if prevLineStart >= 0 {
					prevIdx := prevLineStart + readStart + x
					if prevIdx >= 0 && prevIdx < len(sig) {
						dbVal = dbDemod[prevIdx]
					}
				}
			} else {
				dbVal = dbDemod[idx]
				if prevLineStart >= 0 {
					prevIdx := prevLineStart + readStart + x
					if prevIdx >= 0 && prevIdx < len(sig) {
						drVal = drDemod[prevIdx]
					}
				}
			}

			rl, gl, bl := colour.YDbDrtoRGB.Apply(luma[idx], dbVal, drVal)
			r := colour.DecodeGamma(rl, DisplayGamma)
			g := colour.DecodeGamma(gl, DisplayGamma)
			b := colour.DecodeGamma(bl, DisplayGamma)
			frame.SetRGB(x, i, clampByte(r), clampByte(g), clampByte(b))
		}

		prevLineStart = lineStart
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

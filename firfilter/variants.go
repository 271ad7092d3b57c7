/*
NAME
  variants.go

DESCRIPTION
  variants.go builds kernel-transformed copies of a Filter (notch,
  crosstalk blend, frequency shift and their compositions) and applies them
  in one call.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package firfilter

import "math"

// transform returns a new Filter with the same shape as fir whose taps are
// zero(k=0) and nonZero(k) for every other k, evaluated over fir's full
// signed range.
func transform(fir Filter, zero float64, nonZero func(k int) float64) Filter {
	out := Filter{
		taps:     make([]float64, len(fir.taps)),
		length:   fir.length,
		backport: fir.backport,
	}
	for k := -fir.backport; k < fir.length; k++ {
		if k == 0 {
			continue
		}
		out.taps[k+out.backport] = nonZero(k)
	}
	out.taps[out.backport] = zero
	return out
}

// Notch builds the band-reject complement of fir: h'[k] = -h[k] for k != 0,
// h'[0] = 1 - h[0].
func Notch(fir Filter) Filter {
	return transform(fir, 1.0-fir.Get(0), func(k int) float64 { return -fir.Get(k) })
}

// Crosstalk blends fir's output with an alpha-weighted identity:
// h'[k] = (1-alpha)*h[k] for k != 0, h'[0] = (1-alpha)*h[0] + alpha.
func Crosstalk(fir Filter, alpha float64) Filter {
	return transform(fir, (1-alpha)*fir.Get(0)+alpha, func(k int) float64 {
		return (1 - alpha) * fir.Get(k)
	})
}

// Shift translates fir's passband along the frequency axis by f0:
// h'[k] = 2*h[k]*cos(2*pi*f0*k*T).
func Shift(fir Filter, sampleTime, centerAngFreq float64) Filter {
	return transform(fir, 2.0*fir.Get(0), func(k int) float64 {
		t := float64(k) * sampleTime
		return fir.Get(k) * math.Cos(centerAngFreq*t) * 2.0
	})
}

// NotchCrosstalk composes Notch then Crosstalk in closed form:
// h'[k] = (alpha-1)*h[k] for k != 0, h'[0] = 1 + (alpha-1)*h[0].
func NotchCrosstalk(fir Filter, alpha float64) Filter {
	return transform(fir, 1.0+(alpha-1.0)*fir.Get(0), func(k int) float64 {
		return fir.Get(k) * (alpha - 1.0)
	})
}

// CrosstalkShift composes Crosstalk then Shift in closed form:
// h'[k] = 2*(1-alpha)*h[k]*cos(2*pi*f0*k*T) for k != 0,
// h'[0] = (1-alpha)*h[0] + alpha.
func CrosstalkShift(fir Filter, alpha, sampleTime, centerAngFreq float64) Filter {
	return transform(fir, (1-alpha)*fir.Get(0)+alpha, func(k int) float64 {
		t := float64(k) * sampleTime
		return fir.Get(k) * math.Cos(centerAngFreq*t) * (1.0 - alpha) * 2.0
	})
}

// NotchShift composes Notch then Shift in closed form:
// h'[k] = -2*h[k]*cos(2*pi*f0*k*T) for k != 0, h'[0] = 1 - h[0].
func NotchShift(fir Filter, sampleTime, centerAngFreq float64) Filter {
	return transform(fir, 1.0-fir.Get(0), func(k int) float64 {
		t := float64(k) * sampleTime
		return -fir.Get(k) * math.Cos(centerAngFreq*t) * 2.0
	})
}

// NotchCrosstalkShift composes Notch, then Crosstalk, then Shift in closed
// form: h'[k] = 2*(alpha-1)*h[k]*cos(2*pi*f0*k*T) for k != 0,
// h'[0] = 1 + (alpha-1)*h[0].
func NotchCrosstalkShift(fir Filter, alpha, sampleTime, centerAngFreq float64) Filter {
	return transform(fir, 1.0+(alpha-1.0)*fir.Get(0), func(k int) float64 {
		t := float64(k) * sampleTime
		return fir.Get(k) * math.Cos(centerAngFreq*t) * (alpha - 1.0) * 2.0
	})
}

// ApplyNotch applies the Notch transform of fir to signal.
func ApplyNotch(signal []float64, fir Filter) []float64 {
	return Apply(signal, Notch(fir))
}

// ApplyCrosstalk applies the Crosstalk(alpha) transform of fir to signal.
func ApplyCrosstalk(signal []float64, fir Filter, alpha float64) []float64 {
	return Apply(signal, Crosstalk(fir, alpha))
}

// ApplyShift applies the Shift(f0) transform of fir to signal.
func ApplyShift(signal []float64, fir Filter, sampleTime, centerAngFreq float64) []float64 {
	return Apply(signal, Shift(fir, sampleTime, centerAngFreq))
}

// ApplyNotchCrosstalk applies the NotchCrosstalk(alpha) transform of fir to signal.
func ApplyNotchCrosstalk(signal []float64, fir Filter, alpha float64) []float64 {
	return Apply(signal, NotchCrosstalk(fir, alpha))
}

// ApplyCrosstalkShift applies the CrosstalkShift(alpha, f0) transform of fir to signal.
func ApplyCrosstalkShift(signal []float64, fir Filter, alpha, sampleTime, centerAngFreq float64) []float64 {
	return Apply(signal, CrosstalkShift(fir, alpha, sampleTime, centerAngFreq))
}

// ApplyNotchShift applies the NotchShift(f0) transform of fir to signal.
func ApplyNotchShift(signal []float64, fir Filter, sampleTime, centerAngFreq float64) []float64 {
	return Apply(signal, NotchShift(fir, sampleTime, centerAngFreq))
}

// ApplyNotchCrosstalkShift applies the NotchCrosstalkShift(alpha, f0) transform of fir to signal.
func ApplyNotchCrosstalkShift(signal []float64, fir Filter, alpha, sampleTime, centerAngFreq float64) []float64 {
	return Apply(signal, NotchCrosstalkShift(fir, alpha, sampleTime, centerAngFreq))
}

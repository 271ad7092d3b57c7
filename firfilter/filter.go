/*
NAME
  filter.go

DESCRIPTION
  filter.go synthesises FIR kernels from a modified Butterworth band-pass
  magnitude response and applies them to real-valued signals.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package firfilter synthesises and applies signed-indexed FIR kernels used
// to band-limit and crosstalk-blend the composite video signal.
package firfilter

import (
	"math"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Synthesis constants. These are fixed points of the filter design and are
// not exposed as configuration.
const (
	integralPoints     = 16384
	magnitudeTolerance = 0.001
	maxStepsTolerance  = 6

	// initialBackport is the number of non-causal (future-reaching) taps
	// synthesised. It is smaller than maxStepsTolerance, so the
	// magnitude-tolerance truncation never ends that side early: every
	// Filter keeps exactly initialBackport non-causal taps.
	initialBackport = 5
)

// Filter is a signed-indexed FIR kernel. Index 0 is the zero-lag tap; taps
// from 1 up to Length()-1 weight past samples relative to the sample they
// are applied around, and taps from -Backport() up to -1 reach into
// "future" samples. Get panics if k falls outside [-Backport(),
// Length()-1].
type Filter struct {
	taps     []float64
	length   int // number of taps on and before the zero lag
	backport int // number of taps strictly after the zero lag
}

// Get returns the tap at signed offset k.
func (f Filter) Get(k int) float64 {
	return f.taps[k+f.backport]
}

// Length returns the number of causal taps, including the zero lag.
func (f Filter) Length() int { return f.length }

// Backport returns the number of non-causal (future-reaching) taps.
func (f Filter) Backport() int { return f.backport }

// standardResponse is a Butterworth band-pass magnitude response,
// generalised to a real-valued attenuation order rather than an integer
// pole count.
func standardResponse(f, attenuation float64) float64 {
	return 1 / math.Sqrt(1+math.Pow(math.Abs(f), 2*attenuation))
}

// simpsonTap integrates response(f)*cos(sign*2*pi*f*sampleTime*k) over a
// sample-rate-wide frequency window centred on center, using composite
// Simpson's rule with integralPoints subintervals.
func simpsonTap(sampleRate, center, trueW, attenuation, sampleTime float64, k int, sign float64) float64 {
	var integral float64
	n := float64(integralPoints)
	for j := 0; j < integralPoints; j++ {
		before := sampleRate*((float64(j)/n)-0.5) + center
		after := sampleRate*((float64(j+1)/n)-0.5) + center
		mid := (before + after) * 0.5

		point := math.Cos(sign*2.0*math.Pi*before*sampleTime*float64(k)) * standardResponse((before-center)*trueW, attenuation)
		point += 4.0 * math.Cos(sign*2.0*math.Pi*mid*sampleTime*float64(k)) * standardResponse((mid-center)*trueW, attenuation)
		point += math.Cos(sign*2.0*math.Pi*after*sampleTime*float64(k)) * standardResponse((after-center)*trueW, attenuation)
		point *= (after - before) / 6.0

		integral += point / sampleRate
	}
	return integral
}

// MakeFilter synthesises a signed-indexed FIR kernel for a band centred on
// center with roll-off width width and real-valued order attenuation. size
// bounds the number of causal taps attempted; fewer may be kept if the
// magnitude-tolerance truncation triggers first.
func MakeFilter(sampleRate float64, size int, center, width, attenuation float64) (Filter, error) {
	if sampleRate <= 0 {
		return Filter{}, errors.New("firfilter: sampleRate must be positive")
	}
	if size <= 0 {
		return Filter{}, errors.New("firfilter: size must be positive")
	}
	if width <= 0 {
		return Filter{}, errors.New("firfilter: width must be positive")
	}
	if attenuation < 0 {
		return Filter{}, errors.New("firfilter: attenuation must be non-negative")
	}

	sampleTime := 1 / sampleRate
	trueW := 1 / (width * 0.5)

	// Non-causal (future-reaching) taps, nearest first.
	back := make([]float64, 0, initialBackport)
	stepsUnder := 0
	for k := 1; k <= initialBackport; k++ {
		tap := simpsonTap(sampleRate, center, trueW, attenuation, sampleTime, k, -1)
		back = append(back, tap)
		if math.Abs(tap) < magnitudeTolerance {
			stepsUnder++
		} else {
			stepsUnder = 0
		}
		if stepsUnder >= maxStepsTolerance {
			break
		}
	}
	backport := len(back)

	// Causal taps, zero lag first.
	main := make([]float64, 0, size)
	stepsUnder = 0
	for k := 0; k < size; k++ {
		tap := simpsonTap(sampleRate, center, trueW, attenuation, sampleTime, k, 1)
		// Taps further from the zero lag than the kept non-causal span are
		// doubled to compensate for the single-sided integration window
		// against the spectrum's implicit Hermitian symmetry.
		if k > backport {
			tap *= 2.0
		}
		main = append(main, tap)
		if math.Abs(tap) < magnitudeTolerance {
			stepsUnder++
		} else {
			stepsUnder = 0
		}
		if stepsUnder >= maxStepsTolerance {
			break
		}
	}

	taps := make([]float64, backport+len(main))
	for i, v := range back {
		taps[backport-1-i] = v
	}
	copy(taps[backport:], main)

	return Filter{taps: taps, length: len(main), backport: backport}, nil
}

// Apply convolves signal with fir, producing an output of identical length.
// It assumes len(signal) is at least fir.Length()+fir.Backport(); shorter
// signals are convolved correctly but without any fully-parallel main
// region.
func Apply(signal []float64, fir Filter) []float64 {
	return ApplyWorkers(signal, fir, runtime.GOMAXPROCS(0))
}

// ApplyWorkers is Apply with an explicit worker count for the data-parallel
// main region.
func ApplyWorkers(signal []float64, fir Filter, workers int) []float64 {
	n := len(signal)
	output := make([]float64, n)
	if n == 0 {
		return output
	}

	easeInEnd := fir.length
	if easeInEnd > n {
		easeInEnd = n
	}
	for i := 0; i < easeInEnd; i++ {
		var out float64
		lo := -fir.backport
		if lo < i-n+1 {
			lo = i - n + 1
		}
		for j := lo; j <= i; j++ {
			out += signal[i-j] * fir.Get(j)
		}
		output[i] = out
	}

	parStart := easeInEnd
	parEnd := n - fir.backport
	if parEnd > n {
		parEnd = n
	}
	if parEnd > parStart {
		applyMainRegion(signal, fir, output, parStart, parEnd, workers)
	}
	if parEnd < parStart {
		parEnd = parStart
	}

	easeOutStart := n - fir.backport
	if easeOutStart < parEnd {
		easeOutStart = parEnd
	}
	for i := easeOutStart; i < n; i++ {
		var out float64
		lo := i - n + 1
		hi := fir.length - 1
		for j := lo; j <= hi; j++ {
			out += signal[i-j] * fir.Get(j)
		}
		output[i] = out
	}

	return output
}

// applyMainRegion computes the full convolution for output indices in
// [start, end) by partitioning the range across workers goroutines. Each
// worker only writes to its own disjoint slice of output, so no
// synchronisation is needed beyond the final wait.
func applyMainRegion(signal []float64, fir Filter, output []float64, start, end, workers int) {
	total := end - start
	if workers < 1 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	chunk := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := start + w*chunk
		hi := lo + chunk
		if hi > end {
			hi = end
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			filtStart := -fir.backport
			filtEnd := fir.length
			for i := lo; i < hi; i++ {
				var out float64
				for j := filtStart; j < filtEnd; j++ {
					out += signal[i-j] * fir.Get(j)
				}
				output[i] = out
			}
		}(lo, hi)
	}
	wg.Wait()
}

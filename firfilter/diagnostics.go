/*
NAME
  diagnostics.go

DESCRIPTION
  diagnostics.go renders a kernel's magnitude response to a PNG, useful for
  sanity-checking filters built with MakeFilter.

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

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Response returns the magnitude of fir's frequency response, sampled at
// n points evenly spaced over [0, sampleRate/2], computed via a zero-padded
// DFT of the stored taps (taps are reordered into causal order first).
func Response(fir Filter, sampleRate float64, n int) ([]float64, []float64) {
	total := fir.length + fir.backport
	ordered := make([]float64, total)
	// Causal taps first (k=0..length-1), then wrap the non-causal taps
	// (k=1..backport) to the end, matching the DFT's circular convention.
	for k := 0; k < fir.length; k++ {
		ordered[k] = fir.Get(k)
	}
	for k := 1; k <= fir.backport; k++ {
		ordered[total-k] = fir.Get(-k)
	}

	padLen := n * 2
	padded := make([]float64, padLen)
	copy(padded, ordered)
	spectrum := fft.FFTReal(padded)

	freqs := make([]float64, n)
	mags := make([]float64, n)
	for i := 0; i < n; i++ {
		freqs[i] = sampleRate * float64(i) / float64(padLen)
		mags[i] = cmplx.Abs(spectrum[i])
	}
	return freqs, mags
}

// Plot renders fir's magnitude response to a PNG at path.
func Plot(fir Filter, sampleRate float64, path string) error {
	freqs, mags := Response(fir, sampleRate, 2048)

	pts := make(plotter.XYs, len(freqs))
	for i := range freqs {
		pts[i].X = freqs[i]
		pts[i].Y = mags[i]
	}

	p := plot.New()
	p.Title.Text = "FIR magnitude response"
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Magnitude"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "firfilter: could not build response line")
	}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "firfilter: could not save response plot")
	}
	return nil
}

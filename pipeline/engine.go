/*
NAME
  engine.go

DESCRIPTION
  engine.go implements Engine, the conversion orchestrator that reads
  frames from a media.Source, runs each through a colour.System's
  encode/add-noise/decode cycle, and writes the result to a media.Sink.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline provides the per-frame conversion orchestrator binding
// a colour.System to a media.Source and media.Sink.
package pipeline

import (
	"context"
	"io"

	"github.com/ausocean/analogtv/broadcast"
	"github.com/ausocean/analogtv/colour"
	"github.com/ausocean/analogtv/colour/ntsc"
	"github.com/ausocean/analogtv/colour/pal"
	"github.com/ausocean/analogtv/colour/secam"
	"github.com/ausocean/analogtv/config"
	"github.com/ausocean/analogtv/media"
	"github.com/ausocean/analogtv/noise"
	"github.com/ausocean/analogtv/signalframe"
	"github.com/pkg/errors"
)

// Engine is the conversion orchestrator: it owns a bound colour.System, the
// persistent interlace field bit, the generator behind the composite
// signal's additive noise, and the persistent output framebuffer that
// successive fields are interleaved into.
type Engine struct {
	cfg config.Config
	sys colour.System

	noiseGen *noise.Generator

	field int // toggles 0/1 between frames when interlaced

	frame signalframe.Frame // persists across calls; fields are interleaved into it

	frames uint64
}

// New builds an Engine from cfg. cfg.BroadcastSystem and cfg.ColourSystem
// select the broadcast standard and colour codec.
func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "pipeline: invalid config")
	}

	std, err := broadcast.Lookup(cfg.BroadcastSystem)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: unknown broadcast system")
	}

	var sys colour.System
	switch cfg.ColourSystem {
	case config.ColourNTSC:
		sys, err = ntsc.New(std, int(cfg.ActiveWidth), cfg.Interlaced, cfg.Resonance, cfg.PrefilterFreqMult, cfg.PhaseNoise, cfg.ScanlineJitter, cfg.NoiseExponent, cfg.Seed)
	case config.ColourPAL:
		sys, err = pal.New(std, cfg.Interlaced, cfg.Resonance, cfg.PrefilterFreqMult, cfg.PhaseNoise, cfg.ScanlineJitter, cfg.NoiseExponent, cfg.Seed)
	case config.ColourSECAM:
		sys, err = secam.New(std, cfg.Interlaced, cfg.Resonance, cfg.PrefilterFreqMult, cfg.PhaseNoise, cfg.ScanlineJitter, cfg.NoiseExponent, cfg.Seed)
	default:
		return nil, errors.Errorf("pipeline: unrecognised colour system %d", cfg.ColourSystem)
	}
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: could not build colour system")
	}

	noiseGen, err := noise.NewGenerator(11, 0, 1, cfg.NoiseExponent, cfg.Seed+2)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: could not build composite noise generator")
	}

	frame := signalframe.NewFrame(sys.OutputWidth(), std.VisibleLines)

	return &Engine{cfg: cfg, sys: sys, noiseGen: noiseGen, frame: frame}, nil
}

// Standard returns the broadcast standard bound to the Engine's colour
// system.
func (e *Engine) Standard() broadcast.Standard { return e.sys.Standard() }

// Frames returns the number of frames processed so far.
func (e *Engine) Frames() uint64 { return e.frames }

// OutputWidth returns the width, in samples, of frames produced by
// ProcessFrame.
func (e *Engine) OutputWidth() int { return e.frame.Width }

// OutputHeight returns the height, in scanlines, of the full framebuffer
// frames produced by ProcessFrame.
func (e *Engine) OutputHeight() int { return e.frame.Height }

// ProcessFrame runs f through one encode/add-noise/decode cycle, toggling
// the field between successive calls when the Engine is interlaced.
// additiveNoise scales the multi-octave noise sample added to every
// composite sample before decode;
// crosstalk is the luma/chroma blend fraction used on decode. The Engine
// owns a persistent output framebuffer: each call's half-field decode
// result is interleaved into it row by row, leaving the other parity's
// rows from the previous call untouched, and a snapshot of the full
// framebuffer is returned.
func (e *Engine) ProcessFrame(f signalframe.Frame, additiveNoise, crosstalk float64) (signalframe.Frame, error) {
	sig, err := e.sys.Encode(f, e.field)
	if err != nil {
		return signalframe.Frame{}, errors.Wrap(err, "pipeline: encode failed")
	}

	if additiveNoise != 0 {
		for i := range sig {
			sig[i] += additiveNoise * e.noiseGen.GenNoise()
		}
	}

	out, err := e.sys.Decode(sig, e.field, crosstalk)
	if err != nil {
		return signalframe.Frame{}, errors.Wrap(err, "pipeline: decode failed")
	}

	for j := 0; j < out.Height; j++ {
		row := j
		if e.cfg.Interlaced {
			row = 2*j + e.field
		}
		if row >= e.frame.Height {
			continue
		}
		for x := 0; x < out.Width && x < e.frame.Width; x++ {
			e.frame.Set(x, row, out.At(x, j))
		}
	}

	if e.cfg.Interlaced {
		e.field = 1 - e.field
	}
	e.frames++

	snapshot := signalframe.NewFrame(e.frame.Width, e.frame.Height)
	copy(snapshot.Pix, e.frame.Pix)
	return snapshot, nil
}

// RunOptions bounds a Run invocation.
type RunOptions struct {
	// MaxFrames stops the run after this many frames, regardless of
	// whether the source still has data. A value of 0 means unbounded
	// (run until io.EOF or ctx cancellation).
	MaxFrames int

	// AdditiveNoise and Crosstalk are passed through to every
	// Engine.ProcessFrame call.
	AdditiveNoise float64
	Crosstalk     float64
}

// Run reads frames from src, converts each through eng, and writes the
// result to dst, until src is exhausted, opts.MaxFrames is reached, ctx is
// cancelled, or an error occurs.
func Run(ctx context.Context, eng *Engine, src media.Source, dst media.Sink, opts RunOptions) error {
	eng.cfg.Logger.Debug("pipeline: starting run")
	for opts.MaxFrames == 0 || int(eng.frames) < opts.MaxFrames {
		select {
		case <-ctx.Done():
			eng.cfg.Logger.Info("pipeline: run cancelled", "frames", eng.frames)
			return ctx.Err()
		default:
		}

		f, err := src.Read()
		if err == io.EOF {
			eng.cfg.Logger.Info("pipeline: source exhausted", "frames", eng.frames)
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "pipeline: could not read frame")
		}

		out, err := eng.ProcessFrame(f, opts.AdditiveNoise, opts.Crosstalk)
		if err != nil {
			return err
		}

		if err := dst.Write(out); err != nil {
			return errors.Wrap(err, "pipeline: could not write frame")
		}
	}
	eng.cfg.Logger.Info("pipeline: reached max frames", "frames", eng.frames)
	return nil
}

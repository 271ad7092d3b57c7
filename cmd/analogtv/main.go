/*
NAME
  analogtv is a command-line tool that degrades video through a simulated
  analogue broadcast or tape path: colour encode, bandwidth-limit, add
  noise, and decode back to RGB.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/ausocean/analogtv/broadcast"
	"github.com/ausocean/analogtv/config"
	"github.com/ausocean/analogtv/firfilter"
	"github.com/ausocean/analogtv/media/gocvio"
	"github.com/ausocean/analogtv/pipeline"
	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Exit codes, per the CLI surface's documented contract.
const (
	exitOK         = 0
	exitUsageError = 1
	exitRunError   = 2
)

// Logging related defaults.
const (
	defaultLogPath    = "analogtv.log"
	logMaxSize        = 50 // MB
	logMaxBackups     = 5
	logMaxAge         = 28 // days
	defaultVerbosity  = logging.Info
	previewMaxFrames  = 300
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("analogtv", flag.ContinueOnError)

	csys := fs.String("csys", "ntsc", "colour system: ntsc, pal or secam")
	bsys := fs.String("bsys", "m", "broadcast standard tag: m, n, b, g, h, i, d, k, l")
	vhs := fs.String("vhs", "", "use a VHS tape standard instead of -bsys: 525 or 625")
	bsysHelp := fs.Bool("bsyshelp", false, "print descriptions of every broadcast standard tag and exit")
	br := fs.String("br", "", "input:output media paths, e.g. -br in.mp4:out.mp4")
	preview := fs.Bool("preview", false, "process only the first 300 frames and display them live")
	noise := fs.Float64("noise", 0.02, "additive composite noise amplitude")
	jitter := fs.Float64("jitter", 0.001, "horizontal scanline jitter, as a fraction of active width")
	reso := fs.Float64("reso", 4.0, "main filter attenuation order")
	prefreq := fs.Float64("prefreq", 1.0, "luma/chroma prefilter bandwidth multiplier")
	psnoise := fs.Float64("psnoise", 0.01, "chroma demodulator phase noise, in radians")
	crosstalk := fs.Float64("crosstalk", 0.1, "luma/chroma crosstalk blend fraction")
	workers := fs.Int("workers", 0, "FIR worker-pool size, stored in the config only; convolution always uses GOMAXPROCS(0)")
	filterplot := fs.String("filterplot", "", "write the main luma FIR's magnitude response to this PNG path and exit")
	logPath := fs.String("log", defaultLogPath, "rotating log file path")
	seed := fs.Uint64("seed", 1, "seed for every noise generator")

	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}

	if *bsysHelp {
		printBsysHelp()
		return exitOK
	}

	fileLog := &lumberjack.Logger{Filename: *logPath, MaxSize: logMaxSize, MaxBackups: logMaxBackups, MaxAge: logMaxAge}
	logger := logging.New(defaultVerbosity, io.MultiWriter(fileLog, os.Stderr), false)

	tag := *bsys
	switch strings.ToLower(*vhs) {
	case "525":
		tag = "vhs525"
	case "625":
		tag = "vhs625"
	}

	cfg := config.Config{
		BroadcastSystem:   tag,
		Resonance:         *reso,
		PrefilterFreqMult: *prefreq,
		NoiseAmp:          *noise,
		NoiseExponent:     1.0,
		PhaseNoise:        *psnoise,
		ScanlineJitter:    *jitter,
		Crosstalk:         *crosstalk,
		Seed:              *seed,
		Workers:           uint(*workers),
		Preview:           *preview,
		Logger:            logger,
	}
	switch strings.ToLower(*csys) {
	case "ntsc":
		cfg.ColourSystem = config.ColourNTSC
	case "pal":
		cfg.ColourSystem = config.ColourPAL
	case "secam":
		cfg.ColourSystem = config.ColourSECAM
	default:
		fmt.Fprintf(os.Stderr, "analogtv: unrecognised colour system %q\n", *csys)
		return exitUsageError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "analogtv: invalid config: %v\n", err)
		return exitUsageError
	}

	if *filterplot != "" {
		return runFilterPlot(cfg, *filterplot, logger)
	}

	in, out, ok := strings.Cut(*br, ":")
	if !ok {
		fmt.Fprintln(os.Stderr, "analogtv: -br must be of the form in:out")
		return exitUsageError
	}
	cfg.InputPath, cfg.OutputPath = in, out

	if cfg.Workers == 0 {
		cfg.Workers = uint(runtime.GOMAXPROCS(0))
	}

	eng, err := pipeline.New(cfg)
	if err != nil {
		logger.Error("could not build engine", "error", err.Error())
		return exitRunError
	}

	src, err := gocvio.NewCapture(cfg.InputPath)
	if err != nil {
		logger.Error("could not open input", "error", err.Error())
		return exitRunError
	}
	defer src.Close()

	std := eng.Standard()
	sink, err := gocvio.NewWriter(cfg.OutputPath, std.FPS, eng.OutputWidth(), eng.OutputHeight(), cfg.Preview)
	if err != nil {
		logger.Error("could not open output", "error", err.Error())
		return exitRunError
	}
	defer sink.Close()

	opts := pipeline.RunOptions{AdditiveNoise: cfg.NoiseAmp, Crosstalk: cfg.Crosstalk}
	if cfg.Preview {
		opts.MaxFrames = previewMaxFrames
	}

	if err := pipeline.Run(context.Background(), eng, src, sink, opts); err != nil {
		logger.Error("run failed", "error", err.Error())
		return exitRunError
	}

	return exitOK
}

// runFilterPlot constructs a representative main filter for cfg's broadcast
// standard and writes its magnitude response to path.
func runFilterPlot(cfg config.Config, path string, logger logging.Logger) int {
	std, err := broadcast.Lookup(cfg.BroadcastSystem)
	if err != nil {
		logger.Error("unknown broadcast system", "error", err.Error())
		return exitRunError
	}

	sampleRate := 4 * std.Subcarrier
	width := std.MainBandwidth + std.SideBandwidth
	center := (std.MainBandwidth - std.SideBandwidth) / 2
	fir, err := firfilter.MakeFilter(sampleRate, 256, center, width, cfg.Resonance)
	if err != nil {
		logger.Error("could not build filter", "error", err.Error())
		return exitRunError
	}

	if err := firfilter.Plot(fir, sampleRate, path); err != nil {
		logger.Error("could not write filter plot", "error", err.Error())
		return exitRunError
	}
	return exitOK
}

func printBsysHelp() {
	for _, tag := range []broadcast.Tag{
		broadcast.M, broadcast.N, broadcast.B, broadcast.G, broadcast.H,
		broadcast.I, broadcast.D, broadcast.K, broadcast.L,
		broadcast.VHS525, broadcast.VHS625,
	} {
		std := broadcast.Table[tag]
		fmt.Printf("%-8s %s\n", tag.String(), broadcast.Describe(std))
	}
}

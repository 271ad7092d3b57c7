/*
NAME
  config.go

DESCRIPTION
  config.go holds the Config struct controlling an Engine: the chosen
  broadcast standard and colour system, the degradation parameters, and
  the logger every other package is given.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config holds the configuration settings for an analogtv Engine.
package config

import "github.com/ausocean/utils/logging"

// Colour system identifiers.
const (
	ColourNTSC = iota
	ColourPAL
	ColourSECAM
)

// Config provides the parameters relevant to a single Engine instance. A new
// config must be passed to the constructor. Default values for these fields
// are applied by Validate.
type Config struct {
	// BroadcastSystem is the CLI-style broadcast tag, e.g. "m", "vhs625".
	BroadcastSystem string

	// ColourSystem selects which colour codec to use: ColourNTSC, ColourPAL
	// or ColourSECAM.
	ColourSystem uint8

	// ActiveWidth overrides the active raster width in samples. A value of
	// 0 lets the colour system pick its own default.
	ActiveWidth uint

	// Interlaced selects field-interlaced output when true, progressive
	// (single-field) output otherwise.
	Interlaced bool

	// Resonance is the main filter's attenuation order; higher values give
	// a sharper cutoff.
	Resonance float64

	// PrefilterFreqMult scales the luma/chroma component prefilter
	// bandwidths relative to the channel's nominal bandwidths.
	PrefilterFreqMult float64

	// NoiseAmp is the composite signal's additive pink-noise amplitude.
	NoiseAmp float64

	// NoiseExponent is the noise generator's octave amplitude power-law
	// exponent.
	NoiseExponent float64

	// PhaseNoise is the chroma demodulator's phase jitter amplitude, in
	// radians.
	PhaseNoise float64

	// ScanlineJitter is the horizontal scanline start jitter amplitude, as
	// a fraction of the active width.
	ScanlineJitter float64

	// Crosstalk is the luma/chroma crosstalk blend fraction on decode.
	Crosstalk float64

	// Seed seeds every noise generator the Engine constructs. A value of 0
	// is replaced by a fixed default so runs are reproducible unless the
	// caller explicitly asks for variation.
	Seed uint64

	// Workers is the requested goroutine pool size for the main filter's
	// parallel convolution region. The Engine does not pass it on: every
	// convolution goes through firfilter.Apply, which always uses
	// runtime.GOMAXPROCS(0) workers.
	Workers uint

	// InputPath and OutputPath name the source and sink media locations.
	InputPath  string
	OutputPath string

	// Preview, when true, additionally displays frames as they are
	// processed rather than only writing them to OutputPath.
	Preview bool

	// Logger holds an implementation of the Logger interface. This must be
	// set for the Engine to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level. Valid values are defined by
	// enums from the logging package: logging.Debug, logging.Info,
	// logging.Warning, logging.Error, logging.Fatal.
	LogLevel int8

	// Suppress holds logger suppression state.
	Suppress bool
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values, converts to the correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

// LogInvalidField logs that a field was unset or invalid and has been
// defaulted to def.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

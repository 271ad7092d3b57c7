/*
NAME
  variables.go

DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type
  in string format, a function for updating the variable in the Config
  struct from a string, and a validation function that checks or defaults
  the corresponding Config field.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config map keys.
const (
	KeyBroadcastSystem   = "BroadcastSystem"
	KeyColourSystem      = "ColourSystem"
	KeyActiveWidth       = "ActiveWidth"
	KeyInterlaced        = "Interlaced"
	KeyResonance         = "Resonance"
	KeyPrefilterFreqMult = "PrefilterFreqMult"
	KeyNoiseAmp          = "NoiseAmp"
	KeyNoiseExponent     = "NoiseExponent"
	KeyPhaseNoise        = "PhaseNoise"
	KeyScanlineJitter    = "ScanlineJitter"
	KeyCrosstalk         = "Crosstalk"
	KeySeed              = "Seed"
	KeyWorkers           = "Workers"
	KeyInputPath         = "InputPath"
	KeyOutputPath        = "OutputPath"
	KeyPreview           = "Preview"
)

const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values, chosen to approximate a moderately degraded
// broadcast signal rather than a pristine one.
const (
	defaultBroadcastSystem   = "m"
	defaultColourSystem      = ColourNTSC
	defaultResonance         = 4.0
	defaultPrefilterFreqMult = 1.0
	defaultNoiseAmp          = 0.02
	defaultNoiseExponent     = 1.0
	defaultPhaseNoise        = 0.01
	defaultScanlineJitter    = 0.001
	defaultCrosstalk         = 0.1
	defaultSeed              = uint64(1)
)

// Variables describes the variables that can be used for Engine control.
// These structs provide the name and type of variable, a function for
// updating this variable in a Config, and a function for validating the
// value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyBroadcastSystem,
		Type:   typeString,
		Update: func(c *Config, v string) { c.BroadcastSystem = v },
		Validate: func(c *Config) {
			if c.BroadcastSystem == "" {
				c.LogInvalidField(KeyBroadcastSystem, defaultBroadcastSystem)
				c.BroadcastSystem = defaultBroadcastSystem
			}
		},
	},
	{
		Name: KeyColourSystem,
		Type: "enum:ntsc,pal,secam",
		Update: func(c *Config, v string) {
			switch strings.ToLower(v) {
			case "ntsc":
				c.ColourSystem = ColourNTSC
			case "pal":
				c.ColourSystem = ColourPAL
			case "secam":
				c.ColourSystem = ColourSECAM
			default:
				c.Logger.Warning("invalid ColourSystem param", "value", v)
			}
		},
	},
	{
		Name:   KeyActiveWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.ActiveWidth = parseUint(KeyActiveWidth, v, c) },
	},
	{
		Name:   KeyInterlaced,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Interlaced = parseBool(KeyInterlaced, v, c) },
	},
	{
		Name:   KeyResonance,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.Resonance = parseFloat(KeyResonance, v, c) },
		Validate: func(c *Config) {
			if c.Resonance <= 0 {
				c.LogInvalidField(KeyResonance, defaultResonance)
				c.Resonance = defaultResonance
			}
		},
	},
	{
		Name:   KeyPrefilterFreqMult,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.PrefilterFreqMult = parseFloat(KeyPrefilterFreqMult, v, c) },
		Validate: func(c *Config) {
			if c.PrefilterFreqMult <= 0 {
				c.LogInvalidField(KeyPrefilterFreqMult, defaultPrefilterFreqMult)
				c.PrefilterFreqMult = defaultPrefilterFreqMult
			}
		},
	},
	{
		Name:   KeyNoiseAmp,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.NoiseAmp = parseFloat(KeyNoiseAmp, v, c) },
		Validate: func(c *Config) {
			if c.NoiseAmp < 0 {
				c.LogInvalidField(KeyNoiseAmp, defaultNoiseAmp)
				c.NoiseAmp = defaultNoiseAmp
			}
		},
	},
	{
		Name:   KeyNoiseExponent,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.NoiseExponent = parseFloat(KeyNoiseExponent, v, c) },
		Validate: func(c *Config) {
			if c.NoiseExponent <= 0 {
				c.LogInvalidField(KeyNoiseExponent, defaultNoiseExponent)
				c.NoiseExponent = defaultNoiseExponent
			}
		},
	},
	{
		Name:   KeyPhaseNoise,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.PhaseNoise = parseFloat(KeyPhaseNoise, v, c) },
		Validate: func(c *Config) {
			if c.PhaseNoise < 0 {
				c.LogInvalidField(KeyPhaseNoise, defaultPhaseNoise)
				c.PhaseNoise = defaultPhaseNoise
			}
		},
	},
	{
		Name:   KeyScanlineJitter,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.ScanlineJitter = parseFloat(KeyScanlineJitter, v, c) },
		Validate: func(c *Config) {
			if c.ScanlineJitter < 0 {
				c.LogInvalidField(KeyScanlineJitter, defaultScanlineJitter)
				c.ScanlineJitter = defaultScanlineJitter
			}
		},
	},
	{
		Name:   KeyCrosstalk,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.Crosstalk = parseFloat(KeyCrosstalk, v, c) },
		Validate: func(c *Config) {
			if c.Crosstalk < 0 || c.Crosstalk > 1 {
				c.LogInvalidField(KeyCrosstalk, defaultCrosstalk)
				c.Crosstalk = defaultCrosstalk
			}
		},
	},
	{
		Name:   KeySeed,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Seed = uint64(parseUint(KeySeed, v, c)) },
		Validate: func(c *Config) {
			if c.Seed == 0 {
				c.Seed = defaultSeed
			}
		},
	},
	{
		Name:   KeyWorkers,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Workers = parseUint(KeyWorkers, v, c) },
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
	},
	{
		Name:   KeyPreview,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Preview = parseBool(KeyPreview, v, c) },
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expected bool for param %s", n), "value", v)
	}
	return b
}

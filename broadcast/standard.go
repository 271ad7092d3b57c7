/*
NAME
  standard.go

DESCRIPTION
  standard.go holds the fixed parameter table for analogue broadcast and
  tape standards: channel bandwidths, subcarrier frequency, scanline
  geometry and the SECAM-specific chroma carriers/deviations.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package broadcast holds the fixed table of analogue broadcast and
// videotape standard parameters (CCIR system letters plus the two common
// VHS line standards).
package broadcast

import (
	"math"

	"github.com/pkg/errors"
)

// Tag identifies a broadcast or tape standard.
type Tag int

const (
	M Tag = iota
	N
	B
	G
	H
	I
	D
	K
	L
	VHS525
	VHS625
)

// SECAM holds the Db/Dr subcarrier parameters that only apply to SECAM
// colour encoding, shared across all 525-line standards and, separately,
// all 625-line standards.
type SECAM struct {
	DbCarrier, DrCarrier           float64
	DbLowerSide, DbUpperSide       float64
	DrLowerSide, DrUpperSide       float64
	DbDeviation, DrDeviation       float64 // angular, rad/s
}

// Standard is the fixed parameter set of one broadcast or tape standard.
type Standard struct {
	Tag Tag

	MainBandwidth float64 // Hz
	SideBandwidth float64 // Hz
	ChromaLower   float64 // Hz
	ChromaUpper   float64 // Hz
	Subcarrier    float64 // Hz

	Lines         int     // total scanlines per frame
	VisibleLines  int     // visible scanlines per frame
	FPS           float64 // frames per second

	ActiveTime float64 // seconds, active portion of a scanline

	Secam SECAM
}

func secam525() SECAM {
	return SECAM{
		DbCarrier:    3501420,
		DrCarrier:    3657670,
		DbLowerSide:  1012000,
		DbUpperSide:  700000,
		DrLowerSide:  700000,
		DrUpperSide:  1012000,
		DbDeviation:  230000 * 2 * math.Pi,
		DrDeviation:  280000 * 2 * math.Pi,
	}
}

func secam625() SECAM {
	s := secam525()
	s.DbCarrier = 4250000
	s.DrCarrier = 4406250
	return s
}

// Table holds every recognised standard, keyed by Tag.
var Table = map[Tag]Standard{
	M: {
		Tag: M, MainBandwidth: 4.2e6, SideBandwidth: 0.75e6,
		ChromaLower: 1.3e6, ChromaUpper: 0.62e6, Subcarrier: 3579545,
		Lines: 525, VisibleLines: 480, FPS: 60000.0 / 1001.0, ActiveTime: 5.26555e-5,
		Secam: secam525(),
	},
	N: {
		Tag: N, MainBandwidth: 4.2e6, SideBandwidth: 0.75e6,
		ChromaLower: 1.3e6, ChromaUpper: 0.57e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	B: {
		Tag: B, MainBandwidth: 5.0e6, SideBandwidth: 0.75e6,
		ChromaLower: 1.3e6, ChromaUpper: 0.57e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	G: {
		Tag: G, MainBandwidth: 5.0e6, SideBandwidth: 0.75e6,
		ChromaLower: 1.3e6, ChromaUpper: 0.57e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	H: {
		Tag: H, MainBandwidth: 5.0e6, SideBandwidth: 1.25e6,
		ChromaLower: 1.3e6, ChromaUpper: 0.57e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	I: {
		Tag: I, MainBandwidth: 5.5e6, SideBandwidth: 1.25e6,
		ChromaLower: 1.3e6, ChromaUpper: 1.066e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	D: {
		Tag: D, MainBandwidth: 6.0e6, SideBandwidth: 0.75e6,
		ChromaLower: 1.3e6, ChromaUpper: 0.57e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	K: {
		Tag: K, MainBandwidth: 6.0e6, SideBandwidth: 0.75e6,
		ChromaLower: 1.3e6, ChromaUpper: 0.57e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	L: {
		Tag: L, MainBandwidth: 6.0e6, SideBandwidth: 1.25e6,
		ChromaLower: 1.3e6, ChromaUpper: 1.066e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
	VHS525: {
		Tag: VHS525, MainBandwidth: 3.4e6, SideBandwidth: 0.1e6,
		ChromaLower: 0.629e6, ChromaUpper: 0.629e6, Subcarrier: 3579545,
		Lines: 525, VisibleLines: 480, FPS: 60000.0 / 1001.0, ActiveTime: 5.26555e-5,
		Secam: secam525(),
	},
	VHS625: {
		Tag: VHS625, MainBandwidth: 3.4e6, SideBandwidth: 0.1e6,
		ChromaLower: 0.629e6, ChromaUpper: 0.629e6, Subcarrier: 4433618.75,
		Lines: 625, VisibleLines: 576, FPS: 50, ActiveTime: 5.2e-5,
		Secam: secam625(),
	},
}

// names maps the CLI's lower-case tag spelling to a Tag, matching §6's
// -bsys option.
var names = map[string]Tag{
	"m": M, "n": N, "b": B, "g": G, "h": H, "i": I, "d": D, "k": K, "l": L,
	"vhs525": VHS525, "vhs625": VHS625,
}

// Lookup resolves a CLI-style tag string ("m", "vhs525", ...) to its
// Standard. An unrecognised tag is a fatal configuration error (§7).
func Lookup(name string) (Standard, error) {
	tag, ok := names[name]
	if !ok {
		return Standard{}, errors.Errorf("broadcast: unrecognised standard %q", name)
	}
	return Table[tag], nil
}

// String returns the CLI-style tag spelling for s.
func (t Tag) String() string {
	switch t {
	case M:
		return "m"
	case N:
		return "n"
	case B:
		return "b"
	case G:
		return "g"
	case H:
		return "h"
	case I:
		return "i"
	case D:
		return "d"
	case K:
		return "k"
	case L:
		return "l"
	case VHS525:
		return "vhs525"
	case VHS625:
		return "vhs625"
	default:
		return "unknown"
	}
}

// Describe returns a human-readable description of the standard, in the
// style of the original tool's -bsyshelp diagnostic mode.
func Describe(s Standard) string {
	var names = map[Tag]string{
		M: "System M (NTSC, 525/60)", N: "System N (PAL, 625/50)",
		B: "System B (PAL, 625/50)", G: "System G (PAL, 625/50)",
		H: "System H (PAL, 625/50)", I: "System I (PAL, 625/50)",
		D: "System D (SECAM, 625/50)", K: "System K (SECAM, 625/50)",
		L: "System L (SECAM, 625/50)",
		VHS525: "VHS (525/60 tape)", VHS625: "VHS (625/50 tape)",
	}
	return names[s.Tag]
}

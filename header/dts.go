/*
NAME
  dts.go

DESCRIPTION
  dts.go implements the DTS Coherent Acoustics header parser: three of the
  sync-word packings documented in valib's dts_defs.h (16-bit BE, 16-bit
  LE and 14-bit BE; the 14-bit LE packing is not recognised), and the
  frame-size/sample-rate/channel-mask fields needed to frame a DTS core
  substream. Decoding itself is out of scope; see codec/dts.

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

// DTS core limits, per DTS_* constants in the original dts_defs.h.
const (
	dtsMaxFrameSize = 16384
	dtsMaxSamples   = 4096
)

var dtsSampleRateTbl = [16]int{
	0, 8000, 16000, 32000, 0, 0, 11025, 22050, 44100, 0, 0,
	12000, 24000, 48000, 96000, 192000,
}

// dtsAmodeNCh[amode] is the number of full-bandwidth channels, excluding LFE.
var dtsAmodeNCh = [16]int{1, 2, 2, 2, 2, 3, 3, 4, 4, 5, 6, 6, 6, 7, 8, 8}

// DTSHeader is the header parser for DTS Coherent Acoustics.
type DTSHeader struct{}

func (DTSHeader) HeaderSize() int    { return 18 }
func (DTSHeader) MinFrameSize() int  { return 96 }
func (DTSHeader) MaxFrameSize() int  { return dtsMaxFrameSize }
func (DTSHeader) CanParse(f speaker.Format) bool { return f == speaker.DTS }

func (DTSHeader) SyncInfo() SyncTrie {
	return SyncTrie{Words: []SyncWord{
		{Pattern: 0x7FFE8001, Mask: 0xFFFFFFFF}, // 16-bit, big endian
		{Pattern: 0xFE7F0180, Mask: 0xFFFFFFFF}, // 16-bit, little endian
		{Pattern: 0x1FFFE800, Mask: 0xFFFFFC00}, // 14-bit, big endian
		{Pattern: 0x7FFE8001, Mask: 0xFFFFFFFF}, // same as the first entry; no 14-bit little-endian word
	}}
}

func (p DTSHeader) ParseHeader(b []byte) (frame.FrameInfo, bool) {
	if len(b) < 18 {
		return frame.FrameInfo{}, false
	}
	var bst frame.BitstreamType
	switch {
	case b[0] == 0x7F && b[1] == 0xFE && b[2] == 0x80 && b[3] == 0x01:
		bst = frame.Bitstream8 // 16-bit, big endian raw packing
	case b[0] == 0xFE && b[1] == 0x7F && b[2] == 0x01 && b[3] == 0x80:
		bst = frame.Bitstream16LE
	case b[0] == 0x1F && b[1] == 0xFF && b[2]&0xFC == 0xE8:
		bst = frame.Bitstream14 // 14-bit packing
	default:
		return frame.FrameInfo{}, false
	}
	return p.decode(b, bst)
}

// decode pulls the framing fields from a 16-bit raw-packed header: nblks
// (bits 7..2 of byte 4, plus one), fsize (14 bits across bytes 4-6, plus
// one), amode (6 bits across bytes 6-7, of which the low 4 are used) and
// sfreq (bits 5..2 of byte 7). The rate and flag fields are not read.
func (DTSHeader) decode(b []byte, bst frame.BitstreamType) (frame.FrameInfo, bool) {
	nblks := int(b[4]>>2)&0x7F + 1
	fsize := (int(b[4]&0x3)<<12 | int(b[5])<<4 | int(b[6])>>4) + 1
	amode := (int(b[6]&0xF) << 2) | int(b[7]>>6)
	sfreq := int(b[7]>>2) & 0xF

	if fsize < 96 || fsize > dtsMaxFrameSize {
		return frame.FrameInfo{}, false
	}
	sampleRate := dtsSampleRateTbl[sfreq]
	if sampleRate == 0 {
		return frame.FrameInfo{}, false
	}
	amode &= 0xF
	nch := dtsAmodeNCh[amode]
	nsamples := nblks * 32
	if nsamples > dtsMaxSamples {
		return frame.FrameInfo{}, false
	}

	mask := 0
	for i := 0; i < nch && i < len(speaker.Order()); i++ {
		mask |= speaker.Order()[i]
	}
	// LFE presence is a separate flag bit (lff) later in the header; DTS
	// core streams commonly carry it, assume present for amode>=1.
	if amode >= 1 {
		mask |= speaker.ChLFE
	}

	spk := speaker.New(speaker.DTS, mask, sampleRate)
	return frame.FrameInfo{
		Spk:           spk,
		FrameSize:     fsize,
		NSamples:      nsamples,
		BitstreamType: bst,
	}, true
}

func (DTSHeader) CompareHeaders(h1, h2 frame.FrameInfo) bool {
	return h1.Spk.Equal(h2.Spk) && h1.BitstreamType == h2.BitstreamType
}

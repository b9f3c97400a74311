/*
NAME
  ac3.go

DESCRIPTION
  ac3.go implements an opaque AC-3 (Dolby Digital) decoder. Bit-exact
  decode of AC-3 is explicitly out of scope; this decoder produces silence
  of the correct channel configuration and sample count for every frame,
  enough to exercise framing, the filter graph and the mixer end to end
  without a real codec.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ac3 implements the (opaque) AC-3 decoder.
package ac3

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// Decoder is an opaque AC-3 decoder: codec.Decoder satisfied without
// attempting bit-exact reconstruction.
type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) CanDecode(f speaker.Format) bool { return f == speaker.AC3 }

func (d *Decoder) NewStream() {}

func (d *Decoder) Decode(fi frame.FrameInfo, raw []byte) (frame.Chunk, error) {
	nch := fi.Spk.NCh()
	samples := make([][]float64, nch)
	for ch := range samples {
		samples[ch] = make([]float64, fi.NSamples)
	}
	return frame.Chunk{Spk: fi.Spk, Samples: samples, Size: fi.NSamples}, nil
}

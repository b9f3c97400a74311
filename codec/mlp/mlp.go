/*
NAME
  mlp.go

DESCRIPTION
  mlp.go implements an opaque MLP/TrueHD decoder, producing silence of the
  correct channel configuration and sample count. Bit-exact MLP/TrueHD
  decode is explicitly out of scope.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mlp implements the (opaque) MLP/TrueHD decoder.
package mlp

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) CanDecode(f speaker.Format) bool {
	return f == speaker.MLP || f == speaker.TrueHD
}

func (d *Decoder) NewStream() {}

func (d *Decoder) Decode(fi frame.FrameInfo, raw []byte) (frame.Chunk, error) {
	nch := fi.Spk.NCh()
	if nch == 0 {
		nch = 2
	}
	samples := make([][]float64, nch)
	for ch := range samples {
		samples[ch] = make([]float64, fi.NSamples)
	}
	return frame.Chunk{Spk: fi.Spk, Samples: samples, Size: fi.NSamples}, nil
}

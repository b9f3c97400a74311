/*
NAME
  dts.go

DESCRIPTION
  dts.go implements an opaque DTS Coherent Acoustics decoder, producing
  silence of the correct channel configuration and sample count. Bit-exact
  DTS decode is explicitly out of scope.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dts implements the (opaque) DTS Coherent Acoustics decoder.
package dts

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

func (d *Decoder) CanDecode(f speaker.Format) bool { return f == speaker.DTS }

func (d *Decoder) NewStream() {}

func (d *Decoder) Decode(fi frame.FrameInfo, raw []byte) (frame.Chunk, error) {
	nch := fi.Spk.NCh()
	samples := make([][]float64, nch)
	for ch := range samples {
		samples[ch] = make([]float64, fi.NSamples)
	}
	return frame.Chunk{Spk: fi.Spk, Samples: samples, Size: fi.NSamples}, nil
}

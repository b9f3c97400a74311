/*
NAME
  decoder.go

DESCRIPTION
  decoder.go defines the frame decoder contract (C4): turning one
  compressed frame, already isolated and header-verified by streambuf,
  into a Chunk of linear samples.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codec defines the frame decoder contract shared by every
// concrete decoder (codec/mpa, codec/ac3, codec/dts, codec/mlp,
// codec/flac).
package codec

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// Decoder turns one complete compressed frame into linear samples.
// Implementations are stateful across frames (bit-allocation history,
// polyphase filter-bank history, ...) but not across streams: NewStream
// resets that state when streambuf reports a new logical stream.
type Decoder interface {
	// CanDecode reports whether this decoder handles format.
	CanDecode(format speaker.Format) bool

	// Decode decodes one complete frame described by fi from raw (exactly
	// fi.FrameSize bytes) and returns the resulting chunk of planar
	// samples at fi.Spk's channel configuration and sample rate.
	Decode(fi frame.FrameInfo, raw []byte) (frame.Chunk, error)

	// NewStream resets any inter-frame decode state (history buffers,
	// scale-factor carry-over). Called whenever streambuf reports a new
	// logical stream.
	NewStream()
}

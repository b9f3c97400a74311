/*
NAME
  frame.go

DESCRIPTION
  frame.go defines Chunk and FrameInfo, the transport units passed between
  stream buffer, parsers and filters.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides the Chunk and FrameInfo data types shared across
// the framing, decoding and filtering layers.
package frame

import "github.com/elxarus/valib/speaker"

// BitstreamType distinguishes the byte packing of a compressed elementary
// stream.
type BitstreamType int

const (
	Bitstream8 BitstreamType = iota
	Bitstream16LE
	Bitstream16BE
	Bitstream14
)

// Chunk is a transported unit. It owns no buffers: RawData and Samples
// reference storage owned by whoever produced the chunk, and that storage
// must remain valid until the consumer is done with it. A zero-value Chunk
// (via Clear) means "empty".
type Chunk struct {
	Spk       speaker.Layout
	RawData   []byte      // Valid when Spk.Format != Linear.
	Samples   [][]float64 // Planar, one slice per channel, valid when Spk.Format == Linear.
	Size      int         // Number of bytes (RawData) or samples per channel (Samples).
	Sync      bool        // Time carries a valid timestamp.
	Time      float64     // Timestamp, in samples or seconds, meaningful only if Sync.
	EOS       bool        // End-of-stream marker.
	NewStream bool        // This chunk begins a new logical stream (resync or chain rebuild).
}

// Clear empties the chunk in place; storage is released to the caller, not
// freed, since Chunk never owns it.
func (c *Chunk) Clear() {
	c.RawData = nil
	c.Samples = nil
	c.Size = 0
	c.Sync = false
	c.Time = 0
	c.EOS = false
	c.NewStream = false
}

// IsDummy reports whether the chunk carries no data and no end-of-stream
// marker — the "nothing to do" sentinel used throughout the filter graph.
func (c *Chunk) IsDummy() bool {
	return c.Size == 0 && !c.EOS
}

// FrameInfo describes a single parsed compressed frame.
type FrameInfo struct {
	Spk           speaker.Layout
	FrameSize     int
	NSamples      int
	BitstreamType BitstreamType
	SpdifType     int // IEC 61937 Pc data-type code, for passthrough.
}

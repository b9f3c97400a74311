/*
NAME
  header.go

DESCRIPTION
  header.go defines the per-format header parser contract (C2): frame
  recognition, frame length/stream-identity tests, and the SyncTrie used to
  register acceptable sync words with a syncscan.Scanner.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package header provides the per-format header parser contract used by the
// stream buffer to recognise frames, measure their size and decide whether
// two headers belong to the same logical stream.
package header

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// SyncWord is one acceptable 32-bit prefix: a byte pattern with a mask of
// don't-care bits, used to register a parser's sync words with a
// syncscan.Scanner. Formats with several sync variants (DTS's
// byte-order/bit-depth packings, MPA's two byte orderings) return several.
type SyncWord struct {
	Pattern uint32
	Mask    uint32
}

// SyncTrie is a compact set of acceptable header prefixes.
type SyncTrie struct {
	Words []SyncWord
}

// Parser is the per-format header parser contract (§4.2).
type Parser interface {
	// HeaderSize is the number of bytes ParseHeader needs.
	HeaderSize() int

	// MinFrameSize and MaxFrameSize bound a valid frame size for this format.
	MinFrameSize() int
	MaxFrameSize() int

	// CanParse is a format filter predicate.
	CanParse(format speaker.Format) bool

	// SyncInfo returns the acceptable 32-bit header prefixes.
	SyncInfo() SyncTrie

	// ParseHeader returns the parsed FrameInfo when b holds a valid header of
	// at least HeaderSize() bytes, and ok=false otherwise.
	ParseHeader(b []byte) (fi frame.FrameInfo, ok bool)

	// CompareHeaders reports whether h1 and h2 describe the same logical
	// stream (same sample rate, channel configuration, bitstream packing).
	CompareHeaders(h1, h2 frame.FrameInfo) bool
}

// FrameSizer is the extension for parsers whose frame size cannot be
// determined from the header alone. MLPHeader implements it, but its
// FrameSize always returns 0: MLP/TrueHD frame sizes come from the
// access-unit length word ParseHeader reads, and sub-packet lengths are
// not scanned.
type FrameSizer interface {
	// FrameSize scans tail, the bytes following the header already loaded
	// into the stream buffer, for the next major sync or sub-packet
	// boundary, and returns the number of additional bytes needed, or -1 if
	// tail does not yet contain enough information to decide.
	FrameSize(fi frame.FrameInfo, tail []byte) int
}

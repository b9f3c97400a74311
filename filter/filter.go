/*
NAME
  filter.go

DESCRIPTION
  filter.go defines the Filter capability contract (C4.6): the interface
  every stage of the processing graph implements, whether it is a parser,
  a decoder wrapper, the mixer, an IIR stage or the bass redirector.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides the Filter capability contract and the
// ParserFilter/Graph/Chain runtime (C5, C6) that schedules filters into a
// processing pipeline.
package filter

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// Filter is the capability contract every processing stage implements. It
// generalises the plain io.WriteCloser filter interface into the richer
// stateful contract a codec/mixer/IIR pipeline needs: format negotiation
// (CanOpen/Open/GetInput/GetOutput), flush-before-rebuild (Flush), and two
// distinct kinds of reset (Reset discards buffered audio; NewStream
// additionally resets state tied to one logical stream, such as decode
// history or a running timestamp).
//
// NB: the Filter interface may evolve with more methods as required.
type Filter interface {
	// CanOpen reports whether the filter can process input in spk without
	// committing to it.
	CanOpen(spk speaker.Layout) bool

	// Open commits the filter to processing spk-shaped input. Open may be
	// called again with a different format once the filter is idle.
	Open(spk speaker.Layout) error

	// Close releases any resources Open acquired. A closed filter is not
	// reused.
	Close()

	// Process consumes one input chunk and returns zero or one output
	// chunks. ok is false when the filter needs more input before it can
	// produce output (block-based processing still filling its buffer).
	Process(in frame.Chunk) (out frame.Chunk, ok bool, err error)

	// Flush drains any chunk buffered inside the filter that Process has
	// not yet emitted. Called before a format change forces the graph to
	// rebuild downstream of this filter, and at end of stream.
	Flush() (out frame.Chunk, ok bool)

	// Reset discards buffered audio but keeps the filter open on the same
	// format.
	Reset()

	// NewStream additionally resets per-stream decode state.
	NewStream()

	// GetInput and GetOutput report the format the filter was opened
	// with and the format it emits. They may differ: a decoder turns
	// compressed frames into Linear chunks; the mixer changes channel
	// count.
	GetInput() speaker.Layout
	GetOutput() speaker.Layout
}

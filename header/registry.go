/*
NAME
  registry.go

DESCRIPTION
  registry.go implements a format-agnostic header parser dispatcher,
  modeled on the original uni_header/uni_frame_parser helper: given a
  buffer prefix, it tries every registered Parser and returns the first
  one that recognises it. Used by dvdgraph to pick a parser when the
  format of a stream is not yet known (auto-detection); streambuf does
  not use it.

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

import "github.com/elxarus/valib/frame"

// Registry dispatches header recognition across a fixed set of format
// parsers.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a Registry holding parsers for every natively
// recognised compressed format.
func NewRegistry() *Registry {
	return &Registry{parsers: []Parser{
		MPAHeader{},
		AC3Header{},
		DTSHeader{},
		MLPHeader{},
	}}
}

// Parsers returns the registered parsers in a stable, fixed order.
func (r *Registry) Parsers() []Parser { return r.parsers }

// Detect tries every registered parser against b in registration order and
// returns the first one that both recognises the header and parses it. A
// tie (several parsers matching unrelated formats' sync words on the same
// bytes) is resolved by that fixed order, favouring the native MPA parser.
func (r *Registry) Detect(b []byte) (Parser, frame.FrameInfo, bool) {
	for _, p := range r.parsers {
		if len(b) < p.HeaderSize() {
			continue
		}
		if fi, ok := p.ParseHeader(b); ok {
			return p, fi, true
		}
	}
	return nil, frame.FrameInfo{}, false
}

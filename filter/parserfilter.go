/*
NAME
  parserfilter.go

DESCRIPTION
  parserfilter.go implements the parser filter (C5): a Filter that wraps a
  streambuf.StreamBuffer and a codec.Decoder, turning a raw compressed
  byte stream into decoded Linear chunks, carrying timestamps across the
  frame boundary they arrived on.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"github.com/elxarus/valib/codec"
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/header"
	"github.com/elxarus/valib/speaker"
	"github.com/elxarus/valib/streambuf"
)

// ParserFilter combines a header.Parser-driven streambuf.StreamBuffer
// with a codec.Decoder into a single Filter: RawData in, Linear out.
type ParserFilter struct {
	sb      *streambuf.StreamBuffer
	dec     codec.Decoder
	input   speaker.Layout
	output  speaker.Layout
	pending float64 // carried timestamp for the next decoded chunk.
	haveTS  bool
}

// NewParserFilter returns a ParserFilter recognising p-shaped frames and
// decoding them with dec.
func NewParserFilter(p header.Parser, dec codec.Decoder) *ParserFilter {
	return &ParserFilter{sb: streambuf.New(p), dec: dec}
}

func (pf *ParserFilter) CanOpen(spk speaker.Layout) bool {
	return spk.Format != speaker.Linear && pf.dec.CanDecode(spk.Format)
}

func (pf *ParserFilter) Open(spk speaker.Layout) error {
	pf.input = spk
	pf.sb.Reset()
	pf.dec.NewStream()
	pf.output = speaker.Layout{}
	return nil
}

func (pf *ParserFilter) Close() {}

// Process feeds in's raw bytes through the stream buffer and, once a
// frame has been fully assembled and verified, decodes it. Several calls
// to Process may be needed to produce one output chunk (block framing),
// and a single call may assemble more than one frame's worth of input but
// still only ever returns the first decoded chunk, matching the one
// chunk in, at most one chunk out contract.
func (pf *ParserFilter) Process(in frame.Chunk) (frame.Chunk, bool, error) {
	if in.Sync {
		pf.pending, pf.haveTS = in.Time, true
	}

	data := in.RawData
	for len(data) > 0 {
		n := pf.sb.Load(data)
		if n == 0 {
			break
		}
		data = data[n:]
		if pf.sb.HasFrame() {
			raw, fi, newStream := pf.sb.GetFrame()
			if newStream {
				pf.dec.NewStream()
			}
			out, err := pf.dec.Decode(fi, raw)
			if err != nil {
				return frame.Chunk{}, false, err
			}
			out.Spk.Format = speaker.Linear
			pf.output = out.Spk
			if pf.haveTS {
				out.Sync, out.Time = true, pf.pending
				pf.haveTS = false
			}
			out.NewStream = newStream
			return out, true, nil
		}
	}
	return frame.Chunk{}, false, nil
}

func (pf *ParserFilter) Flush() (frame.Chunk, bool) { return frame.Chunk{}, false }

func (pf *ParserFilter) Reset() {
	pf.sb.Reset()
	pf.haveTS = false
}

func (pf *ParserFilter) NewStream() {
	pf.sb.Reset()
	pf.dec.NewStream()
}

func (pf *ParserFilter) GetInput() speaker.Layout  { return pf.input }
func (pf *ParserFilter) GetOutput() speaker.Layout { return pf.output }

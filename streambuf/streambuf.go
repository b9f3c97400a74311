/*
NAME
  streambuf.go

DESCRIPTION
  streambuf.go implements the stream buffer (C3): a state machine that
  turns a raw, boundary-agnostic byte stream into a sequence of complete,
  header-verified compressed frames, resynchronising automatically after
  corruption.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package streambuf assembles a raw byte stream into discrete, validated
// compressed frames for a single header.Parser, resynchronising on the
// stream's sync word whenever two consecutive frame headers fail to agree.
package streambuf

import (
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/header"
	"github.com/elxarus/valib/syncscan"
)

// State names the stream buffer's position in the sync/load/verify cycle.
type State int

const (
	// StateSync1 is searching for the very first sync word of the stream.
	StateSync1 State = iota
	// StateLoad is accumulating bytes of the current frame, whose size is
	// already known from its header.
	StateLoad
	// StateVerify has a full frame loaded and scans on for the next
	// frame's header, which confirms the frame boundary when it parses
	// and CompareHeaders agrees with the loaded frame's header. Bytes
	// between the loaded frame and that header are skipped, not treated
	// as a failed boundary.
	StateVerify
	// StateSync2 found a second header agreeing with the first and is
	// loading it in turn, deferring delivery of frame 1 by exactly one
	// frame so a corrupt boundary can still be caught.
	StateSync2
	// StateResync lost sync (a header failed to verify) and is scanning
	// for any occurrence of the sync word to recover.
	StateResync
)

func (s State) String() string {
	switch s {
	case StateSync1:
		return "sync1"
	case StateLoad:
		return "load"
	case StateVerify:
		return "verify"
	case StateSync2:
		return "sync2"
	case StateResync:
		return "resync"
	default:
		return "invalid"
	}
}

// StreamBuffer assembles frames recognised by a single header.Parser.
type StreamBuffer struct {
	parser header.Parser
	sizer  header.FrameSizer // non-nil when parser also implements FrameSizer.
	scan   *syncscan.Scanner

	state State

	buf       []byte // bytes of the frame currently being loaded/verified.
	hdr       frame.FrameInfo
	frameSize int // target size of buf, once known.

	pending   []byte // a verified frame, delivered once the following
	pendingHdr frame.FrameInfo // header has also been confirmed (SYNC2).
	newStream bool            // true if pending starts a new logical stream.

	haveFirst bool // an earlier frame has been seen, for CompareHeaders.
	firstHdr  frame.FrameInfo
}

// New returns an empty StreamBuffer recognising frames via p.
func New(p header.Parser) *StreamBuffer {
	sb := &StreamBuffer{parser: p, scan: syncscan.NewScanner()}
	if s, ok := p.(header.FrameSizer); ok {
		sb.sizer = s
	}
	for i, w := range p.SyncInfo().Words {
		if i >= syncscan.MaxSlots {
			break
		}
		sb.scan.Set(i, w.Pattern, w.Mask)
	}
	return sb
}

// Reset discards all buffered state and returns to StateSync1, as if the
// buffer were newly constructed. Used on explicit flush/new_stream.
func (sb *StreamBuffer) Reset() {
	sb.state = StateSync1
	sb.buf = sb.buf[:0]
	sb.frameSize = 0
	sb.pending = nil
	sb.haveFirst = false
	sb.scan.Reset()
}

// State reports the buffer's current position in the sync cycle.
func (sb *StreamBuffer) State() State { return sb.state }

// Load feeds data into the buffer and returns the number of bytes
// consumed from it. Call HasFrame/GetFrame after each Load to drain any
// frame that became ready.
func (sb *StreamBuffer) Load(data []byte) int {
	total := 0
	for len(data) > 0 {
		n := sb.step(data)
		if n == 0 {
			break
		}
		total += n
		data = data[n:]
		if sb.pending != nil {
			break // deliver before consuming more; caller drains via GetFrame.
		}
	}
	return total
}

// step advances the state machine by at most one meaningful unit of work
// and returns the number of bytes of data it consumed.
func (sb *StreamBuffer) step(data []byte) int {
	switch sb.state {
	case StateSync1, StateResync:
		return sb.scanSync(data, true)
	case StateLoad:
		return sb.loadInto(data)
	case StateVerify:
		return sb.scanSync(data, false)
	case StateSync2:
		return sb.loadInto(data)
	}
	return 0
}

// scanSync searches data for the parser's sync word. first distinguishes
// the very first sync in the stream (StateSync1/StateResync) from the
// boundary-confirmation sync searched for after a loaded frame
// (StateVerify).
func (sb *StreamBuffer) scanSync(data []byte, first bool) int {
	consumed, _, ok := sb.scan.Scan(data)
	if !ok {
		return consumed
	}
	// The 4-byte sync window ends at data[consumed-1]; the header itself
	// starts up to 3 bytes earlier, depending on HeaderSize. Re-derive the
	// header start as consumed-4 relative to the window, clamped to 0.
	start := consumed - 4
	if start < 0 {
		start = 0
	}
	hdrBytes := data[start:]
	fi, ok := sb.parser.ParseHeader(hdrBytes)
	if !ok || fi.FrameSize < sb.parser.MinFrameSize() || fi.FrameSize > sb.parser.MaxFrameSize() {
		if !first {
			// Verification failed: the "frame" we loaded was bogus.
			// Discard it and resync from scratch.
			sb.state = StateResync
			sb.scan.Reset()
		}
		return consumed
	}
	if !first && !sb.parser.CompareHeaders(sb.hdr, fi) {
		// fi belongs to a different stream: the loaded frame is dropped
		// unconfirmed and loading starts over from fi.
		first = true
	}

	// Only data[start:consumed] has actually been claimed from data this
	// step; the rest of hdrBytes, even though ParseHeader could see it,
	// still belongs to the caller's stream and will be re-delivered via
	// later Load calls and folded in by loadInto.
	claimed := data[start:consumed]

	if first {
		sb.hdr = fi
		sb.buf = append(sb.buf[:0], claimed...)
		sb.frameSize = fi.FrameSize
		sb.state = StateLoad
		sb.scan.Reset()
		return consumed
	}

	// Verify succeeded: fi agrees with the header already loaded well
	// enough to trust the frame boundary. Stage the loaded frame as
	// pending and start loading the confirming frame in turn (SYNC2),
	// so the next Load call can still catch a corrupt third header.
	newStream := !sb.haveFirst || !sb.parser.CompareHeaders(sb.firstHdr, sb.hdr)
	sb.pending = append([]byte(nil), sb.buf...)
	sb.pendingHdr = sb.hdr
	sb.newStream = newStream
	sb.firstHdr = sb.hdr
	sb.haveFirst = true

	sb.hdr = fi
	sb.buf = append(sb.buf[:0], claimed...)
	sb.frameSize = fi.FrameSize
	sb.state = StateSync2
	sb.scan.Reset()
	return consumed
}

// loadInto appends bytes to buf until it reaches frameSize, then
// transitions to StateVerify (from StateLoad) or back to StateLoad with
// the staged frame released (from StateSync2).
func (sb *StreamBuffer) loadInto(data []byte) int {
	need := sb.frameSize - len(sb.buf)
	if need <= 0 {
		need = 0
	}
	n := need
	if n > len(data) {
		n = len(data)
	}
	sb.buf = append(sb.buf, data[:n]...)
	if len(sb.buf) < sb.frameSize {
		return n
	}

	if sb.sizer != nil {
		if extra := sb.sizer.FrameSize(sb.hdr, nil); extra > 0 {
			sb.frameSize += extra
			return n
		}
	}

	switch sb.state {
	case StateLoad, StateSync2:
		// Either way, a full frame just finished loading (the first frame
		// of the stream, or the confirming frame of the previous pending
		// one): hunt for the following header to confirm this one in turn.
		sb.state = StateVerify
	}
	return n
}

// HasFrame reports whether a fully verified frame is ready for GetFrame.
func (sb *StreamBuffer) HasFrame() bool { return sb.pending != nil }

// GetFrame returns the next verified frame, its header, and whether it
// begins a new logical stream (the header differs from the previous
// frame's in format, channel configuration or sample rate). It must only
// be called when HasFrame reports true; it clears the pending frame.
func (sb *StreamBuffer) GetFrame() (data []byte, fi frame.FrameInfo, newStream bool) {
	data, fi, newStream = sb.pending, sb.pendingHdr, sb.newStream
	sb.pending = nil
	return
}

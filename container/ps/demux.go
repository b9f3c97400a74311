/*
NAME
  demux.go

DESCRIPTION
  demux.go implements an MPEG Program Stream / PES demultiplexer,
  extracting one elementary stream's payload and PTS timestamps from a
  sequence of PES packets via github.com/Comcast/gots, the same PES
  decoding library ausocean-av's container/mts/pes package uses for
  encoding.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ps implements MPEG Program Stream / PES demultiplexing for the
// one elementary audio stream a DVD/Blu-ray graph cares about.
package ps

import (
	"encoding/binary"

	"github.com/Comcast/gots/v2"
	"github.com/pkg/errors"

	"github.com/elxarus/valib/frame"
)

// packStartCode and pesStartCode are the MPEG-PS pack header and PES
// packet start codes (ISO/IEC 13818-1).
const (
	packStartCode = 0x000001BA
	pesStartCode  = 0x000001
)

// Demuxer extracts PES payload belonging to one stream id from a raw
// Program Stream byte sequence.
type Demuxer struct {
	StreamID byte // PES stream_id to keep; other stream ids are skipped.
}

// NewDemuxer returns a Demuxer keeping only packets for streamID.
func NewDemuxer(streamID byte) *Demuxer {
	return &Demuxer{StreamID: streamID}
}

// Demux scans buf for PES packets belonging to d.StreamID and returns the
// chunks of raw elementary-stream payload found, each carrying the
// packet's PTS as its timestamp when present. Bytes belonging to other
// streams, or to pack/system headers, are skipped. It returns the number
// of bytes consumed, which may be less than len(buf) if a partial packet
// is left at the end.
func (d *Demuxer) Demux(buf []byte) (chunks []frame.Chunk, consumed int, err error) {
	for consumed+4 <= len(buf) {
		code := binary.BigEndian.Uint32(buf[consumed:]) >> 8
		code32 := binary.BigEndian.Uint32(buf[consumed:])

		switch {
		case code32 == packStartCode:
			// Pack header: fixed 14 bytes (no stuffing handled here).
			if consumed+14 > len(buf) {
				return chunks, consumed, nil
			}
			consumed += 14

		case code == pesStartCode:
			if consumed+6 > len(buf) {
				return chunks, consumed, nil
			}
			streamID := buf[consumed+3]
			pktLen := int(binary.BigEndian.Uint16(buf[consumed+4 : consumed+6]))
			total := 6 + pktLen
			if pktLen == 0 || consumed+total > len(buf) {
				return chunks, consumed, nil // incomplete packet, wait for more data.
			}
			pkt := buf[consumed : consumed+total]
			if streamID == d.StreamID {
				c, perr := decodePESPayload(pkt)
				if perr != nil {
					return chunks, consumed, errors.Wrap(perr, "ps: decode PES packet")
				}
				chunks = append(chunks, c)
			}
			consumed += total

		default:
			// Not a recognised start code at this offset; resynchronise
			// by advancing one byte, mirroring streambuf's RESYNC intent
			// at the container level.
			consumed++
		}
	}
	return chunks, consumed, nil
}

// decodePESPayload splits a PES packet into its elementary-stream payload
// and, when present, the PTS carried in its optional header, using
// gots.ExtractPTS the way ausocean-av's pes.Bytes()/gots.InsertPTS pairing
// round-trips it on the encode side.
func decodePESPayload(pkt []byte) (frame.Chunk, error) {
	if len(pkt) < 9 {
		return frame.Chunk{}, errors.New("ps: PES packet too short")
	}
	headerDataLen := int(pkt[8])
	payloadStart := 9 + headerDataLen
	if payloadStart > len(pkt) {
		return frame.Chunk{}, errors.New("ps: PES header length exceeds packet")
	}

	c := frame.Chunk{RawData: pkt[payloadStart:], Size: len(pkt) - payloadStart}

	ptsFlag := pkt[7]&0x80 != 0
	if ptsFlag && headerDataLen >= 5 {
		pts, err := gots.ExtractPTS(pkt[9 : 9+5])
		if err == nil {
			c.Sync = true
			c.Time = float64(pts) / 90000 // PTS is in 90kHz units.
		}
	}
	return c, nil
}

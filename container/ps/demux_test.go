package ps

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Comcast/gots/v2"
)

// buildPESPacket assembles a minimal PES packet: fixed 9-byte header
// (no scrambling/priority/alignment/copyright flags set) optionally
// followed by a 5-byte PTS-only timestamp field, then payload.
func buildPESPacket(streamID byte, payload []byte, pts uint64, withPTS bool) []byte {
	var headerLen byte
	var flags2 byte
	if withPTS {
		headerLen = 5
		flags2 = 0x80
	}
	body := make([]byte, 0, 9+int(headerLen)+len(payload))
	body = append(body, 0x00, 0x00, 0x01, streamID, 0, 0) // length patched below.
	body = append(body, 0x80, flags2, headerLen)
	if withPTS {
		ptsBuf := make([]byte, 5)
		gots.InsertPTS(ptsBuf, pts)
		body = append(body, ptsBuf...)
	}
	body = append(body, payload...)
	pktLen := len(body) - 6
	binary.BigEndian.PutUint16(body[4:6], uint16(pktLen))
	return body
}

func TestDemuxExtractsPayloadAndPTS(t *testing.T) {
	payload := []byte{0x0B, 0x77, 0x00, 0x00}
	pkt := buildPESPacket(0xC0, payload, 900000, true) // 10s at 90kHz.

	d := NewDemuxer(0xC0)
	chunks, consumed, err := d.Demux(pkt)
	if err != nil {
		t.Fatalf("Demux error: %v", err)
	}
	if consumed != len(pkt) {
		t.Errorf("consumed = %d, want %d", consumed, len(pkt))
	}
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	c := chunks[0]
	if string(c.RawData) != string(payload) {
		t.Errorf("RawData = %v, want %v", c.RawData, payload)
	}
	if !c.Sync {
		t.Error("expected Sync=true with a PTS present")
	}
	if math.Abs(c.Time-10) > 1e-6 {
		t.Errorf("Time = %v, want 10", c.Time)
	}
}

func TestDemuxSkipsOtherStreamIDs(t *testing.T) {
	pkt := buildPESPacket(0xE0, []byte{1, 2, 3}, 0, false)
	d := NewDemuxer(0xC0)
	chunks, consumed, err := d.Demux(pkt)
	if err != nil {
		t.Fatalf("Demux error: %v", err)
	}
	if consumed != len(pkt) {
		t.Errorf("consumed = %d, want %d", consumed, len(pkt))
	}
	if len(chunks) != 0 {
		t.Errorf("expected packets for other stream ids to be skipped, got %d chunks", len(chunks))
	}
}

func TestDemuxSkipsPackHeader(t *testing.T) {
	pack := make([]byte, 14)
	pack[0], pack[1], pack[2], pack[3] = 0x00, 0x00, 0x01, 0xBA
	pkt := buildPESPacket(0xC0, []byte{9, 9}, 0, false)
	stream := append(append([]byte{}, pack...), pkt...)

	d := NewDemuxer(0xC0)
	chunks, consumed, err := d.Demux(stream)
	if err != nil {
		t.Fatalf("Demux error: %v", err)
	}
	if consumed != len(stream) {
		t.Errorf("consumed = %d, want %d", consumed, len(stream))
	}
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
}

func TestDemuxHandlesIncompletePacketAtEnd(t *testing.T) {
	full := buildPESPacket(0xC0, []byte{1, 2, 3, 4}, 0, false)
	partial := full[:len(full)-2]

	d := NewDemuxer(0xC0)
	chunks, consumed, err := d.Demux(partial)
	if err != nil {
		t.Fatalf("Demux error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks from an incomplete packet, got %d", len(chunks))
	}
	if consumed != 0 {
		t.Errorf("consumed = %d, want 0 (wait for the rest of the packet)", consumed)
	}
}

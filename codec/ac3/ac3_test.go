package ac3

import (
	"testing"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

func TestDecodeProducesSilenceOfCorrectShape(t *testing.T) {
	d := NewDecoder()
	if !d.CanDecode(speaker.AC3) {
		t.Fatal("CanDecode(AC3) should be true")
	}
	if d.CanDecode(speaker.DTS) {
		t.Error("CanDecode(DTS) should be false")
	}

	fi := frame.FrameInfo{
		Spk:      speaker.New(speaker.AC3, speaker.ChL|speaker.ChC|speaker.ChR, 48000),
		NSamples: 1536,
	}
	chunk, err := d.Decode(fi, make([]byte, 128))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(chunk.Samples) != 3 {
		t.Fatalf("len(Samples) = %d, want 3 channels", len(chunk.Samples))
	}
	for ch, s := range chunk.Samples {
		if len(s) != fi.NSamples {
			t.Errorf("channel %d: len = %d, want %d", ch, len(s), fi.NSamples)
		}
		for i, v := range s {
			if v != 0 {
				t.Fatalf("channel %d sample %d = %v, want silence", ch, i, v)
				break
			}
		}
	}
	if chunk.Size != fi.NSamples {
		t.Errorf("Size = %d, want %d", chunk.Size, fi.NSamples)
	}
	if chunk.Spk.Format != speaker.AC3 {
		t.Errorf("Spk.Format = %v, want AC3", chunk.Spk.Format)
	}
}

func TestNewStreamIsANoOp(t *testing.T) {
	d := NewDecoder()
	d.NewStream() // must not panic; the opaque decoder carries no state.
}

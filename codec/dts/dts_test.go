package dts

import (
	"testing"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

func TestDecodeProducesSilenceOfCorrectShape(t *testing.T) {
	d := NewDecoder()
	if !d.CanDecode(speaker.DTS) {
		t.Fatal("CanDecode(DTS) should be true")
	}
	if d.CanDecode(speaker.AC3) {
		t.Error("CanDecode(AC3) should be false")
	}

	fi := frame.FrameInfo{
		Spk:      speaker.New(speaker.DTS, speaker.ChL|speaker.ChR, 48000),
		NSamples: 512,
	}
	chunk, err := d.Decode(fi, make([]byte, 96))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(chunk.Samples) != 2 {
		t.Fatalf("len(Samples) = %d, want 2 channels", len(chunk.Samples))
	}
	for ch, s := range chunk.Samples {
		if len(s) != fi.NSamples {
			t.Errorf("channel %d: len = %d, want %d", ch, len(s), fi.NSamples)
		}
	}
}

package filter

import (
	"testing"

	"github.com/elxarus/valib/codec/ac3"
	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/header"
	"github.com/elxarus/valib/speaker"
)

// ac3Frame returns a 128-byte AC-3 frame: a valid 7-byte header (48kHz,
// frmsizecod=0 -> 128 bytes, acmod=2 stereo) followed by zeroed payload.
func ac3Frame() []byte {
	b := make([]byte, 128)
	b[0], b[1] = 0x0B, 0x77
	b[4] = 0x00
	b[5] = 2 << 5
	return b
}

func TestParserFilterCanOpen(t *testing.T) {
	pf := NewParserFilter(header.AC3Header{}, ac3.NewDecoder())
	if !pf.CanOpen(speaker.New(speaker.AC3, 0, 48000)) {
		t.Error("CanOpen(AC3) should be true")
	}
	if pf.CanOpen(speaker.New(speaker.Linear, 0, 48000)) {
		t.Error("CanOpen(Linear) should be false: the input is never already decoded")
	}
}

func TestParserFilterDecodesConfirmedFrame(t *testing.T) {
	pf := NewParserFilter(header.AC3Header{}, ac3.NewDecoder())
	if err := pf.Open(speaker.New(speaker.AC3, 0, 48000)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	stream := append(append([]byte{}, ac3Frame()...), ac3Frame()...)
	stream = append(stream, ac3Frame()...)

	in := frame.Chunk{Spk: pf.GetInput(), RawData: stream, Size: len(stream)}
	out, ok, err := pf.Process(in)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if !ok {
		t.Fatal("expected a decoded chunk once the first frame was confirmed")
	}
	if out.Spk.Format != speaker.Linear {
		t.Errorf("decoded chunk format = %v, want Linear", out.Spk.Format)
	}
	if pf.GetOutput().Format != speaker.Linear {
		t.Errorf("GetOutput().Format = %v, want Linear", pf.GetOutput().Format)
	}
	if !out.NewStream {
		t.Error("the first decoded chunk of a stream should carry NewStream=true")
	}
}

func TestParserFilterCarriesTimestampToDecodedChunk(t *testing.T) {
	pf := NewParserFilter(header.AC3Header{}, ac3.NewDecoder())
	if err := pf.Open(speaker.New(speaker.AC3, 0, 48000)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	stream := append(append([]byte{}, ac3Frame()...), ac3Frame()...)
	stream = append(stream, ac3Frame()...)

	in := frame.Chunk{
		Spk:     pf.GetInput(),
		RawData: stream,
		Size:    len(stream),
		Sync:    true,
		Time:    42,
	}
	out, ok, err := pf.Process(in)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if !ok {
		t.Fatal("expected a decoded chunk")
	}
	if !out.Sync || out.Time != 42 {
		t.Errorf("Sync/Time = %v/%v, want true/42", out.Sync, out.Time)
	}
}

func TestParserFilterReturnsFalseWithoutEnoughData(t *testing.T) {
	pf := NewParserFilter(header.AC3Header{}, ac3.NewDecoder())
	if err := pf.Open(speaker.New(speaker.AC3, 0, 48000)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	in := frame.Chunk{Spk: pf.GetInput(), RawData: ac3Frame()[:4], Size: 4}
	_, ok, err := pf.Process(in)
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if ok {
		t.Error("expected no output with only a partial frame loaded")
	}
}

func TestParserFilterResetReturnsToSync(t *testing.T) {
	pf := NewParserFilter(header.AC3Header{}, ac3.NewDecoder())
	pf.Open(speaker.New(speaker.AC3, 0, 48000))
	pf.Process(frame.Chunk{Spk: pf.GetInput(), RawData: ac3Frame(), Size: 128})
	pf.Reset()
	if pf.sb.State() != 0 {
		t.Errorf("sb.State() after Reset = %v, want StateSync1 (0)", pf.sb.State())
	}
}

package mixer

import (
	"math"
	"testing"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMatrixSetGet(t *testing.T) {
	mx := NewMatrix(2, 2)
	mx.Set(1, 0, 0.5)
	if got := mx.Get(1, 0); got != 0.5 {
		t.Errorf("Get(1,0) = %v, want 0.5", got)
	}
	if got := mx.Get(0, 1); got != 0 {
		t.Errorf("Get(0,1) = %v, want 0 (untouched cell)", got)
	}
}

func TestIdentityPassesChannelsThroughUnchanged(t *testing.T) {
	mx := Identity(2, 2)
	if mx.Get(0, 0) != 1 || mx.Get(1, 1) != 1 {
		t.Error("Identity should route channel i to channel i at unity gain")
	}
	if mx.Get(0, 1) != 0 || mx.Get(1, 0) != 0 {
		t.Error("Identity should not cross-route channels")
	}
}

func TestIdentityTruncatesToSmallerChannelCount(t *testing.T) {
	mx := Identity(4, 2)
	if mx.Get(0, 0) != 1 || mx.Get(1, 1) != 1 {
		t.Error("Identity(4,2) should still route the first two channels at unity")
	}
	// Channels 2 and 3 of the input have no corresponding output row, so
	// there is nothing to assert beyond the matrix not panicking on
	// construction with mismatched channel counts.
}

func mixerChunk(layout speaker.Layout, rows ...[]float64) frame.Chunk {
	return frame.Chunk{Spk: layout, Samples: rows, Size: len(rows[0])}
}

func TestMixerStereoPassthroughIsIdentity(t *testing.T) {
	mx := NewMixer(speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000), nil)
	in := speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000)
	if err := mx.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, ok, err := mx.Process(mixerChunk(in, []float64{1, 2, 3}, []float64{4, 5, 6}))
	if err != nil || !ok {
		t.Fatalf("Process: ok=%v err=%v", ok, err)
	}
	for i, want := range []float64{1, 2, 3} {
		if !almostEqual(out.Samples[0][i], want) {
			t.Errorf("L[%d] = %v, want %v", i, out.Samples[0][i], want)
		}
	}
	for i, want := range []float64{4, 5, 6} {
		if !almostEqual(out.Samples[1][i], want) {
			t.Errorf("R[%d] = %v, want %v", i, out.Samples[1][i], want)
		}
	}
}

func TestMixerStereoToMonoFoldsDownAtConstantPower(t *testing.T) {
	mx := NewMixer(speaker.New(speaker.Linear, speaker.ChC, 48000), nil)
	in := speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000)
	if err := mx.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, ok, err := mx.Process(mixerChunk(in, []float64{1, 0}, []float64{1, 0}))
	if err != nil || !ok {
		t.Fatalf("Process: ok=%v err=%v", ok, err)
	}
	if len(out.Samples) != 1 {
		t.Fatalf("len(Samples) = %d, want 1", len(out.Samples))
	}
	want := 2 * 0.7071067811865476
	if !almostEqual(out.Samples[0][0], want) {
		t.Errorf("C[0] = %v, want %v", out.Samples[0][0], want)
	}
}

func TestMixerMonoToStereoFoldsCenterIntoBothChannels(t *testing.T) {
	mx := NewMixer(speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000), nil)
	in := speaker.New(speaker.Linear, speaker.ChC, 48000)
	if err := mx.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, ok, err := mx.Process(mixerChunk(in, []float64{1, 0}))
	if err != nil || !ok {
		t.Fatalf("Process: ok=%v err=%v", ok, err)
	}
	want := 0.7071067811865476
	if !almostEqual(out.Samples[0][0], want) || !almostEqual(out.Samples[1][0], want) {
		t.Errorf("L/R[0] = %v/%v, want %v/%v", out.Samples[0][0], out.Samples[1][0], want, want)
	}
}

func TestMixerCustomMatrixOverridesAutoRouting(t *testing.T) {
	custom := NewMatrix(2, 2)
	custom.Set(0, 1, 1) // swap L and R.
	custom.Set(1, 0, 1)
	mx := NewMixer(speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000), custom)

	in := speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000)
	if err := mx.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	out, ok, err := mx.Process(mixerChunk(in, []float64{1}, []float64{2}))
	if err != nil || !ok {
		t.Fatalf("Process: ok=%v err=%v", ok, err)
	}
	if out.Samples[0][0] != 2 || out.Samples[1][0] != 1 {
		t.Errorf("custom swap matrix did not apply: L=%v R=%v", out.Samples[0][0], out.Samples[1][0])
	}
}

func TestMixerRejectsNonLinearInput(t *testing.T) {
	mx := NewMixer(speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000), nil)
	in := speaker.New(speaker.AC3, speaker.ChL|speaker.ChR, 48000)
	mx.Open(in)
	_, ok, err := mx.Process(frame.Chunk{Spk: in, RawData: []byte{1, 2, 3}, Size: 3})
	if err != nil {
		t.Fatalf("Process should not error, just decline: %v", err)
	}
	if ok {
		t.Error("Process should return ok=false for non-Linear input")
	}
}

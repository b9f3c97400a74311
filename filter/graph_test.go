package filter

import (
	"testing"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// gainFilter scales every sample by gain and, after changeAfter calls to
// Process (0 disables this), bumps its output sample rate to simulate a
// mid-stream format change that the graph must notice and rebuild around.
type gainFilter struct {
	gain        float64
	in, out     speaker.Layout
	changeAfter int
	calls       int
	closed      bool
	flushed     bool
	newStreams  int
}

func (f *gainFilter) CanOpen(spk speaker.Layout) bool { return spk.Format == speaker.Linear }

func (f *gainFilter) Open(spk speaker.Layout) error {
	f.in = spk
	f.out = spk
	return nil
}

func (f *gainFilter) Close() { f.closed = true }

func (f *gainFilter) Process(in frame.Chunk) (frame.Chunk, bool, error) {
	f.calls++
	out := in
	scaled := make([][]float64, len(in.Samples))
	for ch, s := range in.Samples {
		row := make([]float64, len(s))
		for i, v := range s {
			row[i] = v * f.gain
		}
		scaled[ch] = row
	}
	out.Samples = scaled
	out.Spk = f.out
	if f.changeAfter > 0 && f.calls == f.changeAfter {
		f.out.SampleRate = f.out.SampleRate + 1000
	}
	return out, true, nil
}

func (f *gainFilter) Flush() (frame.Chunk, bool) {
	f.flushed = true
	return frame.Chunk{}, false
}

func (f *gainFilter) Reset()     {}
func (f *gainFilter) NewStream() { f.newStreams++ }

func (f *gainFilter) GetInput() speaker.Layout  { return f.in }
func (f *gainFilter) GetOutput() speaker.Layout { return f.out }

// latchFilter buffers whatever it is given and only emits it on Flush,
// simulating a downstream filter with real block-buffered state (e.g. a
// bass-redirection crossover holding a partial block).
type latchFilter struct {
	in, out  speaker.Layout
	held     frame.Chunk
	haveHeld bool
}

func (f *latchFilter) CanOpen(spk speaker.Layout) bool { return spk.Format == speaker.Linear }

func (f *latchFilter) Open(spk speaker.Layout) error {
	f.in, f.out = spk, spk
	f.haveHeld = false
	return nil
}

func (f *latchFilter) Close() {}

func (f *latchFilter) Process(in frame.Chunk) (frame.Chunk, bool, error) {
	f.held, f.haveHeld = in, true
	return frame.Chunk{}, false, nil
}

func (f *latchFilter) Flush() (frame.Chunk, bool) {
	if !f.haveHeld {
		return frame.Chunk{}, false
	}
	f.haveHeld = false
	return f.held, true
}

func (f *latchFilter) Reset()     { f.haveHeld = false }
func (f *latchFilter) NewStream() {}

func (f *latchFilter) GetInput() speaker.Layout  { return f.in }
func (f *latchFilter) GetOutput() speaker.Layout { return f.out }

func stereoChunk(samples ...float64) frame.Chunk {
	l := make([]float64, len(samples))
	r := make([]float64, len(samples))
	copy(l, samples)
	copy(r, samples)
	return frame.Chunk{
		Spk:     speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000),
		Samples: [][]float64{l, r},
		Size:    len(samples),
	}
}

func TestGraphProcessChainCascadesThroughNodes(t *testing.T) {
	g := NewGraph()
	g.AddBack(&gainFilter{gain: 2})
	g.AddBack(&gainFilter{gain: 3})

	in := speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000)
	if err := g.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	out, ok, err := g.ProcessChain(stereoChunk(1, 2, 3))
	if err != nil {
		t.Fatalf("ProcessChain error: %v", err)
	}
	if !ok {
		t.Fatal("expected a chunk out")
	}
	want := []float64{6, 12, 18}
	for ch := range out.Samples {
		for i, v := range out.Samples[ch] {
			if v != want[i] {
				t.Errorf("ch %d sample %d = %v, want %v", ch, i, v, want[i])
			}
		}
	}
}

func TestGraphEmptyChainPassesInputThrough(t *testing.T) {
	g := NewGraph()
	in := stereoChunk(1, 2)
	out, ok, err := g.ProcessChain(in)
	if err != nil || !ok {
		t.Fatalf("ProcessChain on empty graph: ok=%v err=%v", ok, err)
	}
	if len(out.Samples) != len(in.Samples) {
		t.Errorf("expected input chunk to pass through unchanged")
	}
}

func TestGraphRemoveSplicesNeighbours(t *testing.T) {
	g := NewGraph()
	id1 := g.AddBack(&gainFilter{gain: 2})
	id2 := g.AddBack(&gainFilter{gain: 3})
	id3 := g.AddBack(&gainFilter{gain: 5})

	g.Remove(id2)

	if g.nodes[id1].next != id3 {
		t.Errorf("node1.next = %d, want %d", g.nodes[id1].next, id3)
	}
	if g.nodes[id3].prev != id1 {
		t.Errorf("node3.prev = %d, want %d", g.nodes[id3].prev, id1)
	}
	if _, ok := g.nodes[id2]; ok {
		t.Error("removed node should no longer be in the arena")
	}

	in := speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000)
	if err := g.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	out, ok, err := g.ProcessChain(stereoChunk(1))
	if err != nil || !ok {
		t.Fatalf("ProcessChain: ok=%v err=%v", ok, err)
	}
	if out.Samples[0][0] != 10 { // 1 * 2 * 5, id2 (gain 3) removed.
		t.Errorf("sample = %v, want 10", out.Samples[0][0])
	}
}

func TestGraphAddFrontPrepends(t *testing.T) {
	g := NewGraph()
	back := g.AddBack(&gainFilter{gain: 2})
	front := g.AddFront(&gainFilter{gain: 3})

	if g.first != front {
		t.Errorf("first = %d, want %d", g.first, front)
	}
	if g.nodes[front].next != back {
		t.Errorf("front.next = %d, want %d", g.nodes[front].next, back)
	}
	if g.nodes[back].prev != front {
		t.Errorf("back.prev = %d, want %d", g.nodes[back].prev, front)
	}
}

func TestGraphClearEmptiesAndClosesNodes(t *testing.T) {
	g := NewGraph()
	f1 := &gainFilter{gain: 2}
	f2 := &gainFilter{gain: 3}
	g.AddBack(f1)
	g.AddBack(f2)

	g.Clear()

	if !f1.closed || !f2.closed {
		t.Error("Clear should close every filter")
	}
	if g.first != noNode || g.last != noNode {
		t.Error("Clear should leave the graph empty")
	}
	if len(g.nodes) != 0 {
		t.Errorf("len(nodes) = %d, want 0", len(g.nodes))
	}

	// The graph must still be usable afterwards.
	id := g.AddBack(&gainFilter{gain: 1})
	if g.first != id || g.last != id {
		t.Error("graph should accept new nodes after Clear")
	}
}

func TestGraphProcessChainRebuildsOnFormatChange(t *testing.T) {
	g := NewGraph()
	first := &gainFilter{gain: 2, changeAfter: 1}
	second := &gainFilter{gain: 1}
	g.AddBack(first)
	g.AddBack(second)

	in := speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000)
	if err := g.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// First call: first's output sample rate changes after this Process
	// call, which should force the downstream node to reopen rather than
	// error out or panic.
	if _, ok, err := g.ProcessChain(stereoChunk(1)); err != nil || !ok {
		t.Fatalf("first ProcessChain: ok=%v err=%v", ok, err)
	}

	if second.in.SampleRate != 49000 {
		t.Errorf("downstream node should have been reopened against the new rate, got %d", second.in.SampleRate)
	}

	// A second call should keep working against the now-rebuilt chain.
	if _, ok, err := g.ProcessChain(stereoChunk(1)); err != nil || !ok {
		t.Fatalf("second ProcessChain: ok=%v err=%v", ok, err)
	}
}

func TestGraphFlushDrainsLastToFirst(t *testing.T) {
	g := NewGraph()
	f1 := &gainFilter{gain: 2}
	f2 := &gainFilter{gain: 3}
	g.AddBack(f1)
	g.AddBack(f2)

	g.Flush()
	if !f1.flushed || !f2.flushed {
		t.Error("Flush should reach every node")
	}
	if g.state != stateDoneFlushing {
		t.Errorf("state = %v, want stateDoneFlushing", g.state)
	}
}

func TestGraphRebuildDeliversDrainedOutputBeforeNewStream(t *testing.T) {
	g := NewGraph()
	first := &gainFilter{gain: 2, changeAfter: 2}
	held := &latchFilter{}
	g.AddBack(first)
	g.AddBack(held)

	in := speaker.New(speaker.Linear, speaker.ChL|speaker.ChR, 48000)
	if err := g.Open(in); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// First call: held buffers the chunk and emits nothing yet.
	if _, ok, err := g.ProcessChain(stereoChunk(1)); err != nil || ok {
		t.Fatalf("first ProcessChain: ok=%v err=%v, want ok=false (buffered)", ok, err)
	}

	// Second call triggers first's format change. The chunk held since
	// the first call must come back before anything produced after the
	// rebuild, and it must not itself be marked as starting the new
	// stream -- it belongs to the stream that just ended.
	drained, ok, err := g.ProcessChain(stereoChunk(2))
	if err != nil || !ok {
		t.Fatalf("second ProcessChain: ok=%v err=%v", ok, err)
	}
	if drained.NewStream {
		t.Error("drained pre-rebuild output must not carry NewStream")
	}
	if held.in.SampleRate != 49000 {
		t.Errorf("held node should have been reopened against the new rate, got %d", held.in.SampleRate)
	}

	// held buffers again post-rebuild, so the marker carries over until
	// it is finally flushed out.
	if _, ok, err := g.ProcessChain(stereoChunk(3)); err != nil || ok {
		t.Fatalf("third ProcessChain: ok=%v err=%v, want ok=false (buffered)", ok, err)
	}
	out, ok := g.Flush()
	if !ok {
		t.Fatal("Flush should drain the chunk held across the rebuild")
	}
	if !out.NewStream {
		t.Error("the first chunk to emerge from the rebuilt node should carry NewStream")
	}
}

func TestGraphNewStreamReachesEveryNode(t *testing.T) {
	g := NewGraph()
	a := &gainFilter{gain: 2}
	b := &gainFilter{gain: 3}
	g.AddBack(a)
	g.AddBack(b)
	g.NewStream()
	if a.newStreams != 1 || b.newStreams != 1 {
		t.Errorf("NewStream calls = %d, %d; want 1 on every node", a.newStreams, b.newStreams)
	}
}

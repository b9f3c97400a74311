/*
NAME
  bassredir.go

DESCRIPTION
  bassredir.go implements the bass redirector (C9): splits the low-
  frequency content of a set of "bass" channels off into the LFE channel
  via a 4th-order Linkwitz-Riley crossover, compensating for the
  resulting correlated-sum loudness increase with a 1/sqrt(n) gain.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bassredir implements the bass redirection filter.
package bassredir

import (
	"math"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/iir"
	"github.com/elxarus/valib/speaker"
)

// BufSize mirrors BUF_SIZE in the original bass_redir.cpp. Process does
// not split chunks into blocks of this size.
const BufSize = 1024

// BassRedir is a Filter splitting low-frequency content out of ChMask's
// channels into the LFE channel. Matches the original BassRedir's
// defaults: 80Hz crossover, CH_MASK_LFE routing, unity gain.
type BassRedir struct {
	Enabled bool
	Freq    float64 // crossover frequency, Hz; default 80.
	ChMask  int     // which channels feed the crossover; default ChLFE's siblings.
	Gain    float64 // default 1.0.

	input  speaker.Layout
	lpf    map[int]*iir.IIRFilter // per-channel low-pass, routed to LFE.
	hpf    map[int]*iir.IIRFilter // per-channel high-pass, stays on the channel.
	bassNCh int
	comp   float64 // 1/sqrt(bassNCh) compensation gain.
}

// New returns a disabled bass redirector with the original's defaults.
func New() *BassRedir {
	return &BassRedir{Freq: 80, ChMask: 0, Gain: 1}
}

func (b *BassRedir) CanOpen(spk speaker.Layout) bool {
	return spk.Format == speaker.Linear && spk.HasLFE()
}

// Open (re)builds the LPF/HPF pair for every bass channel against spk's
// sample rate, per update_filters in the original.
func (b *BassRedir) Open(spk speaker.Layout) error {
	b.input = spk
	mask := b.ChMask
	if mask == 0 {
		mask = spk.Mask &^ speaker.ChLFE // every non-LFE channel, by default.
	}

	b.lpf = make(map[int]*iir.IIRFilter)
	b.hpf = make(map[int]*iir.IIRFilter)
	b.bassNCh = 0
	for _, bit := range speaker.Order() {
		if spk.Mask&mask&bit == 0 {
			continue
		}
		b.bassNCh++
		lpf := iir.NewIIRFilter(iir.LinkwitzRiley{Freq: b.Freq, Order: 4, HighPass: false})
		hpf := iir.NewIIRFilter(iir.LinkwitzRiley{Freq: b.Freq, Order: 4, HighPass: true})
		lpf.Open(spk.SampleRate)
		hpf.Open(spk.SampleRate)
		b.lpf[bit] = lpf
		b.hpf[bit] = hpf
	}
	if b.bassNCh > 0 {
		b.comp = 1 / math.Sqrt(float64(b.bassNCh))
	} else {
		b.comp = 1
	}
	return nil
}

func (b *BassRedir) Close() {}

// Process splits the low end of every bass channel into the LFE channel,
// filtering the whole chunk sample by sample in one pass.
func (b *BassRedir) Process(in frame.Chunk) (frame.Chunk, bool, error) {
	if !b.Enabled || b.bassNCh == 0 {
		return in, true, nil // passthrough when disabled or no-op, per spec.
	}
	lfeIdx := in.Spk.LFEIndex()
	if lfeIdx < 0 || lfeIdx >= len(in.Samples) {
		return in, true, nil
	}

	out := frame.Chunk{Spk: in.Spk, Size: in.Size, Sync: in.Sync, Time: in.Time}
	out.Samples = make([][]float64, len(in.Samples))
	for ch := range in.Samples {
		out.Samples[ch] = append([]float64(nil), in.Samples[ch]...)
	}

	idx := 0
	for _, bit := range speaker.Order() {
		if in.Spk.Mask&bit == 0 {
			continue
		}
		lpf, hasLPF := b.lpf[bit]
		if hasLPF {
			hpf := b.hpf[bit]
			for i, x := range in.Samples[idx] {
				lo := lpf.Process(x) * b.Gain * b.comp
				hi := hpf.Process(x)
				out.Samples[idx][i] = hi
				out.Samples[lfeIdx][i] += lo
			}
		}
		idx++
	}
	return out, true, nil
}

func (b *BassRedir) Flush() (frame.Chunk, bool) { return frame.Chunk{}, false }

// Reset discards delay-line state; enable/disable transitions must call
// Reset, per the original (a disabled->enabled transition leaves stale
// filter history otherwise).
func (b *BassRedir) Reset() {
	for _, f := range b.lpf {
		f.Reset()
	}
	for _, f := range b.hpf {
		f.Reset()
	}
}

func (b *BassRedir) NewStream() { b.Reset() }

func (b *BassRedir) GetInput() speaker.Layout  { return b.input }
func (b *BassRedir) GetOutput() speaker.Layout { return b.input }

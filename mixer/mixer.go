/*
NAME
  mixer.go

DESCRIPTION
  mixer.go implements the mixer kernel (C7): a dense gain matrix routing
  up to 8 input channels onto up to 8 output channels, backed by
  gonum.org/v1/gonum/mat for the matrix-vector products driving each
  sample block.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mixer implements the channel mixing kernel.
package mixer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/elxarus/valib/frame"
	"github.com/elxarus/valib/speaker"
)

// MaxChannels bounds the dense gain matrix; no supported layout carries
// more than 8 discrete channels.
const MaxChannels = 8

// Matrix is a dense (out_nch x in_nch) gain matrix: Matrix.At(o, i) is the
// gain applied from input channel i onto output channel o.
type Matrix struct {
	m *mat.Dense
	inCh, outCh int
}

// NewMatrix returns a zero gain matrix routing inCh input channels to
// outCh output channels.
func NewMatrix(inCh, outCh int) *Matrix {
	return &Matrix{m: mat.NewDense(outCh, inCh, nil), inCh: inCh, outCh: outCh}
}

// Identity returns the identity routing (channel i of input feeds channel
// i of output unchanged) for n channels, zero-padding or truncating
// beyond n.
func Identity(inCh, outCh int) *Matrix {
	mx := NewMatrix(inCh, outCh)
	n := inCh
	if outCh < n {
		n = outCh
	}
	for i := 0; i < n; i++ {
		mx.Set(i, i, 1)
	}
	return mx
}

// Set assigns the gain routed from input channel in onto output channel out.
func (mx *Matrix) Set(out, in int, gain float64) { mx.m.Set(out, in, gain) }

// Get returns the gain routed from input channel in onto output channel out.
func (mx *Matrix) Get(out, in int) float64 { return mx.m.At(out, in) }

// autoMatrix derives a reasonable default gain matrix for (from, to)
// speaker masks: this is the 64-cell kernel-selection table (§4.7,
// inner kernels selected by (in_nch, out_nch)) expressed as one rule per
// channel rather than 64 hand-written special cases, since every routing
// reduces to "if the output channel mask bit is also set on the input,
// pass it through at unity; otherwise derive it from L/R or drop it".
func autoMatrix(from, to speaker.Layout) *Matrix {
	order := speaker.Order()
	inIdx := channelIndex(from.Mask, order)
	outIdx := channelIndex(to.Mask, order)
	mx := NewMatrix(from.NCh(), to.NCh())

	for bit, oi := range outIdx {
		if ii, ok := inIdx[bit]; ok {
			mx.Set(oi, ii, 1)
			continue
		}
		switch bit {
		case speaker.ChC:
			// Derive center from L+R when the source has no center.
			if li, ok := inIdx[speaker.ChL]; ok {
				mx.Set(oi, li, 0.7071067811865476)
			}
			if ri, ok := inIdx[speaker.ChR]; ok {
				mx.Set(oi, ri, 0.7071067811865476)
			}
		case speaker.ChL, speaker.ChR:
			// Fold center into L/R when the destination has no center.
			if ci, ok := inIdx[speaker.ChC]; ok {
				mx.Set(oi, ci, 0.7071067811865476)
			}
			if si, ok := inIdx[bit]; ok {
				mx.Set(oi, si, 1)
			}
		}
	}
	return mx
}

// channelIndex maps each set bit of mask to its positional index in the
// canonical channel order.
func channelIndex(mask int, order []int) map[int]int {
	idx := make(map[int]int)
	pos := 0
	for _, bit := range order {
		if mask&bit != 0 {
			idx[bit] = pos
			pos++
		}
	}
	return idx
}

// Mixer is a filter.Filter applying a gain matrix to every sample block.
// When Matrix is nil, Open derives one automatically via autoMatrix.
type Mixer struct {
	Output speaker.Layout
	matrix *Matrix
	input  speaker.Layout
	custom *Matrix // caller-supplied override, if any.
}

// NewMixer returns a Mixer producing output in the given layout. If
// matrix is non-nil it is used verbatim instead of the automatic
// routing derived in Open.
func NewMixer(output speaker.Layout, matrix *Matrix) *Mixer {
	return &Mixer{Output: output, custom: matrix}
}

func (mx *Mixer) CanOpen(spk speaker.Layout) bool { return spk.Format == speaker.Linear }

func (mx *Mixer) Open(spk speaker.Layout) error {
	mx.input = spk
	if mx.custom != nil {
		mx.matrix = mx.custom
	} else {
		mx.matrix = autoMatrix(spk, mx.Output)
	}
	return nil
}

func (mx *Mixer) Close() {}

func (mx *Mixer) Process(in frame.Chunk) (frame.Chunk, bool, error) {
	if in.Spk.Format != speaker.Linear {
		return frame.Chunk{}, false, nil
	}
	nOut := mx.Output.NCh()
	nIn := in.Spk.NCh()
	nsamp := in.Size

	inVec := mat.NewDense(nIn, nsamp, nil)
	for ch := 0; ch < nIn && ch < len(in.Samples); ch++ {
		inVec.SetRow(ch, in.Samples[ch])
	}

	var outVec mat.Dense
	outVec.Mul(mx.matrix.m, inVec)

	samples := make([][]float64, nOut)
	for ch := 0; ch < nOut; ch++ {
		row := make([]float64, nsamp)
		mat.Row(row, ch, &outVec)
		samples[ch] = row
	}

	out := frame.Chunk{Spk: mx.Output, Samples: samples, Size: nsamp, Sync: in.Sync, Time: in.Time}
	return out, true, nil
}

func (mx *Mixer) Flush() (frame.Chunk, bool) { return frame.Chunk{}, false }
func (mx *Mixer) Reset()                     {}
func (mx *Mixer) NewStream()                 {}
func (mx *Mixer) GetInput() speaker.Layout   { return mx.input }
func (mx *Mixer) GetOutput() speaker.Layout  { return mx.Output }

/*
NAME
  noisegen.go

DESCRIPTION
  noisegen.go implements a white-noise source used to drive the all-pass
  and frequency-response testable properties, supplementing the spec from
  the original's noise/noise.cpp generator (a sample source, not an
  IIRGen, but sharing its home in this package since it exists solely to
  exercise iir.IIRFilter in tests).

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package iir

// NoiseGen is a simple linear congruential generator producing
// repeatable white noise in [-1, 1], mirroring the original's seeded PRNG
// noise source (noise.cpp) used to drive filter response measurements.
type NoiseGen struct {
	state uint32
}

// NewNoiseGen returns a generator seeded with seed; the same seed always
// reproduces the same sequence.
func NewNoiseGen(seed uint32) *NoiseGen {
	if seed == 0 {
		seed = 1
	}
	return &NoiseGen{state: seed}
}

// Next returns the next noise sample in [-1, 1].
func (g *NoiseGen) Next() float64 {
	g.state = g.state*1664525 + 1013904223
	return float64(int32(g.state))/float64(1<<31)
}

// Samples fills buf with n noise samples.
func (g *NoiseGen) Samples(n int) []float64 {
	buf := make([]float64, n)
	for i := range buf {
		buf[i] = g.Next()
	}
	return buf
}

/*
NAME
  crossover.go

DESCRIPTION
  crossover.go implements the alternate direct Crossover generator family
  (lowpass/highpass/allpass built directly from sin-based pole placement
  rather than by cascading Butterworth stages), mirroring IIRCrossover's
  lowpass_proto/highpass_proto/allpass_proto in the original
  iir/crossover.cpp. Supplements the spec's Butterworth/Linkwitz-Riley
  generators with the original's alternate construction, kept as a
  distinct, independently selectable generator rather than folded into
  LinkwitzRiley.

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

import "math"

// CrossoverKind selects which of the three direct pole-placement
// prototypes Crossover builds.
type CrossoverKind int

const (
	CrossoverLowPass CrossoverKind = iota
	CrossoverHighPass
	CrossoverAllPass
)

// Crossover generates a filter directly from sin-based pole placement
// (lowpass_proto/highpass_proto/allpass_proto), an alternative to
// cascading Butterworth sections that the original keeps as its own
// class.
type Crossover struct {
	Freq  float64
	Order int
	Kind  CrossoverKind
}

func (c Crossover) Generate(sampleRate float64) IIRInstance {
	order := c.Order
	if order <= 0 {
		order = 4
	}
	w0 := 1.0 // unit-cutoff prototype; bilinear's prewarped k maps it to Freq.
	nsec := (order + 1) / 2

	sections := make([]Biquad, 0, nsec)
	for k := 0; k < nsec; k++ {
		theta := math.Pi * (2*float64(k) + 1) / (2 * float64(order))
		re := -math.Sin(theta) * w0
		im := math.Cos(theta) * w0
		den := [3]float64{1, -2 * re, re*re + im*im}

		var num [3]float64
		switch c.Kind {
		case CrossoverLowPass:
			num = [3]float64{0, 0, den[2]}
		case CrossoverHighPass:
			num = [3]float64{1, 0, 0}
		case CrossoverAllPass:
			// All-pass: numerator is the denominator with its s^1 term
			// negated, giving unity magnitude response at every
			// frequency (|H(jw)|=1), per allpass_proto.
			num = [3]float64{den[0], -den[1], den[2]}
		}
		sections = append(sections, bilinear(num, den, c.Freq, sampleRate))
	}
	return IIRInstance{SampleRate: sampleRate, Gain: 1, Sections: sections}
}

/*
NAME
  linkwitzriley.go

DESCRIPTION
  linkwitzriley.go implements the Linkwitz-Riley IIRGen: two cascaded
  identical Butterworth sections of half the requested order, giving the
  flat-summed crossover response LR filters are used for, mirroring
  linkwitz_riley_proto in the original iir/linkwitz_riley.cpp.

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

// LinkwitzRiley generates an LR filter of the given even Order (the
// well-known "LR4" bass-redirector crossover is Order=4) by cascading two
// identical Butterworth(Order/2) stages.
type LinkwitzRiley struct {
	Freq     float64
	Order    int
	HighPass bool
}

func (lr LinkwitzRiley) Generate(sampleRate float64) IIRInstance {
	order := lr.Order
	if order%2 != 0 || order <= 0 {
		order = 4
	}
	half := Butterworth{Freq: lr.Freq, Order: order / 2, HighPass: lr.HighPass}
	first := half.Generate(sampleRate)

	sections := make([]Biquad, 0, 2*len(first.Sections))
	sections = append(sections, first.Sections...)
	sections = append(sections, first.Sections...)

	return IIRInstance{SampleRate: sampleRate, Gain: first.Gain * first.Gain, Sections: sections}
}

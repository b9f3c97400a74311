/*
NAME
  butterworth.go

DESCRIPTION
  butterworth.go implements the Butterworth low-pass/high-pass IIRGen,
  built from the standard analog Butterworth pole placement followed by
  the bilinear transform, mirroring butterworth_proto in the original
  iir/butterworth.cpp.

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

// Butterworth generates a Butterworth low-pass (HighPass=false) or
// high-pass (HighPass=true) filter of the given even Order (cascaded
// Order/2 biquad sections) at cutoff Freq Hz.
type Butterworth struct {
	Freq     float64
	Order    int
	HighPass bool
}

func (b Butterworth) Generate(sampleRate float64) IIRInstance {
	if b.Order%2 != 0 || b.Order <= 0 {
		b.Order = 2
	}
	nsec := b.Order / 2
	w0 := 1.0 // unit-cutoff prototype; bilinear's prewarped k maps it to Freq.

	sections := make([]Biquad, nsec)
	for k := 0; k < nsec; k++ {
		// Conjugate analog pole pair angle for a order-N Butterworth
		// prototype, per butterworth_proto.
		theta := math.Pi * (2*float64(k) + 1) / (2 * float64(b.Order))
		re := -math.Sin(theta) * w0
		im := math.Cos(theta) * w0

		// Denominator: (s - p)(s - p*) = s^2 - 2*re*s + (re^2+im^2)
		den := [3]float64{1, -2 * re, re*re + im*im}

		var num [3]float64
		if b.HighPass {
			num = [3]float64{1, 0, 0}
		} else {
			num = [3]float64{0, 0, den[2]} // DC gain normalized to 1.
		}
		sections[k] = bilinear(num, den, b.Freq, sampleRate)
	}
	return IIRInstance{SampleRate: sampleRate, Gain: 1, Sections: sections}
}

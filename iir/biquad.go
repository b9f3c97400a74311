/*
NAME
  biquad.go

DESCRIPTION
  biquad.go implements Biquad, a single second-order IIR section in
  transfer-function coefficient form, plus the handful of queries the
  bass redirector and crossover generators need (is_null/is_gain/
  is_identity/is_infinity) and the direct-form-II realization used to
  actually filter samples.

AUTHOR
  Generated for the valib audio core.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package iir implements cascaded biquad IIR filtering: the Biquad
// coefficient type, IIRInstance/IIRGen generator contract, and the
// concrete Butterworth/Linkwitz-Riley/Crossover generators built on it.
package iir

import "math"

// Biquad holds the coefficients of one second-order section in the form
//
//	a0*y[n] + a1*y[n-1] + a2*y[n-2] = b0*x[n] + b1*x[n-1] + b2*x[n-2]
//
// mirroring valib's Biquad struct (iir.h).
type Biquad struct {
	A [3]float64
	B [3]float64
}

// Normalize rescales all coefficients so A[0] == 1.
func (q *Biquad) Normalize() {
	if q.A[0] == 0 || q.A[0] == 1 {
		return
	}
	inv := 1 / q.A[0]
	for i := range q.A {
		q.A[i] *= inv
	}
	for i := range q.B {
		q.B[i] *= inv
	}
}

// ApplyGain scales the section's numerator by gain.
func (q *Biquad) ApplyGain(gain float64) {
	for i := range q.B {
		q.B[i] *= gain
	}
}

// GetGain returns the section's DC gain, B(1)/A(1).
func (q Biquad) GetGain() float64 {
	num := q.B[0] + q.B[1] + q.B[2]
	den := q.A[0] + q.A[1] + q.A[2]
	if den == 0 {
		return math.Inf(1)
	}
	return num / den
}

// IsNull reports whether the section passes no signal (zero numerator).
func (q Biquad) IsNull() bool {
	return q.B[0] == 0 && q.B[1] == 0 && q.B[2] == 0
}

// IsGain reports whether the section is a pure scalar gain (no delay
// terms on either side).
func (q Biquad) IsGain() bool {
	return q.A[1] == 0 && q.A[2] == 0 && q.B[1] == 0 && q.B[2] == 0
}

// IsIdentity reports whether the section passes signal unchanged.
func (q Biquad) IsIdentity() bool {
	return q.IsGain() && q.A[0] == q.B[0]
}

// IsInfinity reports whether the section's denominator is degenerate
// (unstable/unrealizable).
func (q Biquad) IsInfinity() bool {
	return q.A[0] == 0 && q.A[1] == 0 && q.A[2] == 0
}

// bilinear applies the bilinear transform to an s-domain biquad (num/den
// coefficients in descending powers of s) producing a z-domain Biquad at
// the given sample rate, the shared last step of every analog-prototype
// generator (Butterworth, Linkwitz-Riley, Crossover). The analog
// prototype has a unit (1 rad/s) cutoff; k is prewarped so that cutoff
// maps to freq, and the digital filter's -3dB point lands at freq rather
// than drifting away from it as freq/sampleRate grows.
func bilinear(sNum, sDen [3]float64, freq, sampleRate float64) Biquad {
	k := 1 / math.Tan(math.Pi*freq/sampleRate)
	k2 := k * k

	// Substitute s = k*(z-1)/(z+1) and collect z^-2, z^-1, 1 terms.
	a0 := sDen[0]*k2 + sDen[1]*k + sDen[2]
	a1 := -2*sDen[0]*k2 + 2*sDen[2]
	a2 := sDen[0]*k2 - sDen[1]*k + sDen[2]

	b0 := sNum[0]*k2 + sNum[1]*k + sNum[2]
	b1 := -2*sNum[0]*k2 + 2*sNum[2]
	b2 := sNum[0]*k2 - sNum[1]*k + sNum[2]

	q := Biquad{A: [3]float64{a0, a1, a2}, B: [3]float64{b0, b1, b2}}
	q.Normalize()
	return q
}

// Section is a single running direct-form-II biquad instance with its own
// delay-line state, independent of the coefficients it was built from.
type Section struct {
	Biquad
	w1, w2 float64
}

// Process filters one sample through the section (direct form II).
func (s *Section) Process(x float64) float64 {
	w0 := x - s.A[1]*s.w1 - s.A[2]*s.w2
	y := s.B[0]*w0 + s.B[1]*s.w1 + s.B[2]*s.w2
	s.w2 = s.w1
	s.w1 = w0
	return y
}

// Reset clears the section's delay line.
func (s *Section) Reset() { s.w1, s.w2 = 0, 0 }

/*
NAME
  response.go

DESCRIPTION
  response.go provides an FFT-based frequency-response sampler used by
  tests to verify testable properties like "the bass redirector's
  combined LPF+HPF response is flat" (the all-pass invariant): filter a
  noise burst, take its spectrum via github.com/mjibson/go-dsp/fft, and
  compare magnitude across bands.

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

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Magnitude returns the FFT magnitude spectrum of x, of length len(x)/2+1
// (the non-redundant half for a real input).
func Magnitude(x []float64) []float64 {
	in := make([]complex128, len(x))
	for i, v := range x {
		in[i] = complex(v, 0)
	}
	out := fft.FFT(in)
	mag := make([]float64, len(x)/2+1)
	for i := range mag {
		mag[i] = cmplx.Abs(out[i])
	}
	return mag
}

// MeasureResponse filters in through f and returns the magnitude spectrum
// of the result, for comparison against an expected response shape.
func MeasureResponse(f *IIRFilter, in []float64) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = f.Process(x)
	}
	return Magnitude(out)
}

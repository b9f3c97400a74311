/*
NAME
  instance.go

DESCRIPTION
  instance.go implements IIRInstance (a concrete cascade of sections at a
  fixed sample rate and gain) and the IIRGen generator contract that
  builds one on demand whenever the sample rate changes, mirroring
  iir.h's IIRInstance/IIRGen split.

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

// IIRInstance is a realized cascade of biquad sections at a fixed sample
// rate, with an overall gain applied ahead of the first section.
type IIRInstance struct {
	SampleRate float64
	Gain       float64
	Sections   []Biquad
}

// IIRGen generates an IIRInstance for a given sample rate. Reopening at a
// new sample rate means calling Generate again rather than mutating the
// previous instance, matching the original's "rebuild on sample rate
// change" convention.
type IIRGen interface {
	Generate(sampleRate float64) IIRInstance
}

// IIRZero generates the null filter: no sections, zero gain.
type IIRZero struct{}

func (IIRZero) Generate(sampleRate float64) IIRInstance {
	return IIRInstance{SampleRate: sampleRate, Gain: 0}
}

// IIRIdentity generates the identity filter: no sections, unity gain.
type IIRIdentity struct{}

func (IIRIdentity) Generate(sampleRate float64) IIRInstance {
	return IIRInstance{SampleRate: sampleRate, Gain: 1}
}

// IIRGain generates a pure scalar gain filter.
type IIRGain struct {
	Gain float64
}

func (g IIRGain) Generate(sampleRate float64) IIRInstance {
	return IIRInstance{SampleRate: sampleRate, Gain: g.Gain}
}

// IIRFilter realizes an IIRInstance as a running set of Sections, the
// object that actually processes samples (corresponds to iir.h's
// IIRFilter, the direct-form-II cascade driven by an IIRInstance).
type IIRFilter struct {
	gen      IIRGen
	inst     IIRInstance
	sections []Section
}

// NewIIRFilter returns a filter that (re)builds its cascade from gen
// whenever Open is called with a new sample rate.
func NewIIRFilter(gen IIRGen) *IIRFilter {
	return &IIRFilter{gen: gen}
}

// Open (re)builds the cascade for sampleRate.
func (f *IIRFilter) Open(sampleRate float64) {
	f.inst = f.gen.Generate(sampleRate)
	f.sections = make([]Section, len(f.inst.Sections))
	for i, b := range f.inst.Sections {
		f.sections[i] = Section{Biquad: b}
	}
}

// Process filters one sample through every cascaded section in turn,
// with the instance's overall gain applied first.
func (f *IIRFilter) Process(x float64) float64 {
	y := x * f.inst.Gain
	for i := range f.sections {
		y = f.sections[i].Process(y)
	}
	return y
}

// Reset clears every section's delay line without rebuilding the cascade.
func (f *IIRFilter) Reset() {
	for i := range f.sections {
		f.sections[i].Reset()
	}
}

// IsNull reports whether the cascade is the null filter (zero gain, no
// sections).
func (f *IIRFilter) IsNull() bool {
	return f.inst.Gain == 0 && len(f.sections) == 0
}

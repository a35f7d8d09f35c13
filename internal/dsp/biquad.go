// SPDX-License-Identifier: MIT
package dsp

import "math"

// BiquadKind selects which of the Audio EQ Cookbook biquad designs
// Configure computes coefficients for. Only the two kinds the reverb
// engine needs are implemented: a high-shelf (used for both the
// mid/high-frequency shelves — low-shelf is deliberately never used here,
// since the cookbook's low-shelf design is numerically unstable at low
// center frequencies) and an allpass (used for the modulatable
// diffusion stage).
type BiquadKind int

const (
	BiquadHighshelf BiquadKind = iota
	BiquadAllpass
)

// BiquadFilter is a standard two-pole, two-zero IIR filter in
// direct-form-I difference-equation form, configured by
// the classic RBJ Audio EQ Cookbook formulas.
type BiquadFilter struct {
	sampleRate float64

	b0, b1, b2 float64
	a1, a2     float64

	x1, x2 float64
	y1, y2 float64
}

// NewBiquadFilter creates a filter running at sampleRate, initially
// configured as a flat (unity) high-shelf.
func NewBiquadFilter(sampleRate float64) *BiquadFilter {
	f := &BiquadFilter{sampleRate: sampleRate}
	f.Configure(BiquadHighshelf, sampleRate/4, 0, 1/math.Sqrt2)
	return f
}

// Configure recomputes the filter's coefficients for the given design,
// cutoff/center frequency in Hz, gain in dB (ignored for allpass), and Q.
// It does not touch the filter's history, so a parameter sweep stays
// continuous rather than clicking on every Configure call.
func (f *BiquadFilter) Configure(kind BiquadKind, freq, dbGain, q float64) {
	if freq <= 0 {
		freq = 1
	}
	if freq >= f.sampleRate/2 {
		freq = f.sampleRate/2 - 1
	}
	w0 := 2 * math.Pi * freq / f.sampleRate
	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64
	switch kind {
	case BiquadHighshelf:
		a := math.Pow(10, dbGain/40)
		sqrtA := math.Sqrt(a)
		b0 = a * ((a + 1) + (a-1)*cosW0 + 2*sqrtA*alpha)
		b1 = -2 * a * ((a - 1) + (a+1)*cosW0)
		b2 = a * ((a + 1) + (a-1)*cosW0 - 2*sqrtA*alpha)
		a0 = (a + 1) - (a-1)*cosW0 + 2*sqrtA*alpha
		a1 = 2 * ((a - 1) - (a+1)*cosW0)
		a2 = (a + 1) - (a-1)*cosW0 - 2*sqrtA*alpha
	case BiquadAllpass:
		b0 = 1 - alpha
		b1 = -2 * cosW0
		b2 = 1 + alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	}

	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1, f.a2 = a1/a0, a2/a0
}

// Tick runs one sample through the filter.
func (f *BiquadFilter) Tick(x float32) float32 {
	xn := float64(x)
	yn := f.b0*xn + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, xn
	f.y2, f.y1 = f.y1, yn
	return float32(yn)
}

// ClearHistories zeroes the filter's delay history without touching its
// coefficients, avoiding a click when re-enabling a bypassed stage.
func (f *BiquadFilter) ClearHistories() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

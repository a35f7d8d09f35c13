// SPDX-License-Identifier: MIT
package dsp

import (
	"math"

	"auragraph/internal/dspmath"
)

// SinOsc is a phase-accumulator sine oscillator. Phase is kept in cycles
// (0..1) rather than radians so modulation math (setPhase, skipSamples)
// stays simple and so long runs don't lose precision the way an
// ever-growing radian accumulator would.
type SinOsc struct {
	sampleRate float64
	frequency  float64
	phase      float64
}

// NewSinOsc creates an oscillator ticking at sampleRate, starting silent
// at zero frequency and zero phase.
func NewSinOsc(sampleRate float64) *SinOsc {
	return &SinOsc{sampleRate: sampleRate}
}

// SetFrequency sets the oscillator's frequency in Hz.
func (s *SinOsc) SetFrequency(freq float64) { s.frequency = freq }

// SetPhase sets the phase directly, in cycles; out-of-range values wrap.
func (s *SinOsc) SetPhase(phase float64) { s.phase = dspmath.RingMod(phase, 1.0) }

// GetPhase returns the current phase in cycles, always in [0, 1).
func (s *SinOsc) GetPhase() float64 { return s.phase }

// Tick advances the oscillator by one sample and returns the sine value
// at the phase it held before advancing.
func (s *SinOsc) Tick() float64 {
	v := math.Sin(2 * math.Pi * s.phase)
	s.phase = dspmath.RingMod(s.phase+s.frequency/s.sampleRate, 1.0)
	return v
}

// FillBuffer writes n samples of the oscillator's output into dst,
// advancing phase exactly as n calls to Tick would.
func (s *SinOsc) FillBuffer(n int, dst []float32) {
	for i := 0; i < n; i++ {
		dst[i] = float32(s.Tick())
	}
}

// SkipSamples advances the phase as if Tick had been called n times,
// without producing output. Used to keep a modulator's phase in lockstep
// with the signal it would otherwise be driving, even while that
// modulation is disabled, so re-enabling it doesn't introduce a phase
// jump relative to the other modulators.
func (s *SinOsc) SkipSamples(n int) {
	s.phase = dspmath.RingMod(s.phase+float64(n)*s.frequency/s.sampleRate, 1.0)
}

// Normalize re-wraps the phase into [0, 1); long-running oscillators call
// this periodically to bound floating-point drift, even though RingMod
// already wraps on every tick and skip.
func (s *SinOsc) Normalize() { s.phase = dspmath.RingMod(s.phase, 1.0) }

// Reset zeroes the phase, leaving frequency untouched.
func (s *SinOsc) Reset() { s.phase = 0 }

// SPDX-License-Identifier: MIT

// Package nodes is the catalog of concrete Processors the graph package
// can wrap into a Node: oscillators, gain stages, delay lines, buffer and
// external-callback sources, and a stereo panner.
package nodes

import (
	"auragraph/internal/dsp"
	"auragraph/internal/graph"
	"auragraph/internal/property"
)

// Sine is a single-channel sine oscillator, automatable in frequency and
// frequency multiplier. Setting phase shifts the oscillator by that amount
// on the next block; automation of phase has no effect.
type Sine struct {
	osc *dsp.SinOsc

	frequency         *property.Property
	frequencyMultiplier *property.Property
	phase             *property.Property
}

// NewSine builds a Sine node running at sampleRate.
func NewSine(sampleRate float64, blockSize int) *graph.Node {
	s := &Sine{
		osc:                 dsp.NewSinOsc(sampleRate),
		frequency:           property.NewDouble("frequency", 440, 0, sampleRate/2),
		frequencyMultiplier: property.NewDouble("frequency_multiplier", 1, 0, 1024),
		phase:               property.NewDouble("phase", 0, 0, 1),
	}
	n := graph.NewNode("sine", "sine", s, blockSize)
	n.AddProperty(s.frequency)
	n.AddProperty(s.frequencyMultiplier)
	n.AddProperty(s.phase)
	return n
}

func (s *Sine) InputChannels() int  { return 0 }
func (s *Sine) OutputChannels() int { return 1 }

func (s *Sine) Process(n *graph.Node, blockSize int) {
	if s.phase.ConsumeModified() {
		phaseOffset, _ := s.phase.GetDoubleValue()
		s.osc.SetPhase(s.osc.GetPhase() + phaseOffset)
	}
	out := n.Outputs()[0]
	if s.frequency.NeedsARate() || s.frequencyMultiplier.NeedsARate() {
		for i := 0; i < blockSize; i++ {
			freq, _ := s.frequency.GetDoubleValue(i)
			mul, _ := s.frequencyMultiplier.GetDoubleValue(i)
			s.osc.SetFrequency(freq * mul)
			out[i] = float32(s.osc.Tick())
		}
		return
	}
	freq, _ := s.frequency.GetDoubleValue()
	mul, _ := s.frequencyMultiplier.GetDoubleValue()
	s.osc.SetFrequency(freq * mul)
	for i := 0; i < blockSize; i++ {
		out[i] = float32(s.osc.Tick())
	}
}

// Reset re-seeds phase from the phase property, matching the semantics a
// fresh Node.Reset should produce: a sine restarted at its configured
// phase rather than wherever it happened to stop.
func (s *Sine) Reset() {
	s.osc.Reset()
	phaseOffset, _ := s.phase.GetDoubleValue()
	s.osc.SetPhase(phaseOffset)
}

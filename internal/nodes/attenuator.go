// SPDX-License-Identifier: MIT
package nodes

import (
	"auragraph/internal/graph"
	"auragraph/internal/property"
)

// Attenuator scales every input channel by a single automatable gain
// property. Channel count is fixed at construction and the input and
// output channel counts are always equal.
type Attenuator struct {
	channels int
	gain     *property.Property
}

// NewAttenuator builds a channels-in, channels-out gain stage.
func NewAttenuator(channels int, blockSize int) *graph.Node {
	a := &Attenuator{
		channels: channels,
		gain:     property.NewDouble("gain", 1.0, 0.0, 32.0),
	}
	n := graph.NewNode("attenuator", "attenuator", a, blockSize)
	n.AddProperty(a.gain)
	return n
}

func (a *Attenuator) InputChannels() int  { return a.channels }
func (a *Attenuator) OutputChannels() int { return a.channels }

func (a *Attenuator) Process(n *graph.Node, blockSize int) {
	in, out := n.Inputs(), n.Outputs()
	if a.gain.NeedsARate() {
		for c := 0; c < a.channels; c++ {
			for i := 0; i < blockSize; i++ {
				g, _ := a.gain.GetDoubleValue(i)
				out[c][i] = in[c][i] * float32(g)
			}
		}
		return
	}
	g, _ := a.gain.GetDoubleValue()
	gf := float32(g)
	for c := 0; c < a.channels; c++ {
		for i := 0; i < blockSize; i++ {
			out[c][i] = in[c][i] * gf
		}
	}
}

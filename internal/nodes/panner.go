// SPDX-License-Identifier: MIT
package nodes

import (
	"math"

	"auragraph/internal/graph"
	"auragraph/internal/property"
)

// Panner is a mono-in, stereo-out equal-power panner. Its "pan" property
// runs from -1 (hard left) to 1 (hard right) through 0 (center), mapped
// onto the quarter-cycle L=cos, R=sin law so the summed power stays
// constant across the sweep instead of dipping in the center the way a
// linear crossfade would.
type Panner struct {
	pan *property.Property
}

// NewPanner builds a single mono-to-stereo panner node.
func NewPanner(blockSize int) *graph.Node {
	p := &Panner{pan: property.NewDouble("pan", 0, -1, 1)}
	n := graph.NewNode("panner", "panner", p, blockSize)
	n.AddProperty(p.pan)
	return n
}

func (p *Panner) InputChannels() int  { return 1 }
func (p *Panner) OutputChannels() int { return 2 }

func equalPowerGains(pan float64) (left, right float32) {
	theta := (pan + 1) * math.Pi / 4
	return float32(math.Cos(theta)), float32(math.Sin(theta))
}

func (p *Panner) Process(n *graph.Node, blockSize int) {
	in, out := n.Inputs(), n.Outputs()
	left, right := out[0], out[1]
	mono := in[0]

	if p.pan.NeedsARate() {
		for i := 0; i < blockSize; i++ {
			v, _ := p.pan.GetDoubleValue(i)
			l, r := equalPowerGains(v)
			left[i] = mono[i] * l
			right[i] = mono[i] * r
		}
		return
	}

	v, _ := p.pan.GetDoubleValue()
	l, r := equalPowerGains(v)
	for i := 0; i < blockSize; i++ {
		left[i] = mono[i] * l
		right[i] = mono[i] * r
	}
}

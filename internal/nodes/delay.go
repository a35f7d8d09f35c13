// SPDX-License-Identifier: MIT
package nodes

import (
	"auragraph/internal/dsp"
	"auragraph/internal/graph"
	"auragraph/internal/property"
)

// Delay is an N-channel interpolated delay line, one dsp.DelayLine per
// channel, all driven by a single automatable "delay" property in
// seconds.
type Delay struct {
	channels int
	lines    []*dsp.DelayLine
	delay    *property.Property
}

// NewDelay builds a channels-in, channels-out delay node able to
// represent delays up to maxDelaySeconds at sampleRate.
func NewDelay(channels int, maxDelaySeconds, sampleRate float64, blockSize int) *graph.Node {
	d := &Delay{
		channels: channels,
		lines:    make([]*dsp.DelayLine, channels),
		delay:    property.NewDouble("delay", 0, 0, maxDelaySeconds),
	}
	for i := range d.lines {
		d.lines[i] = dsp.NewDelayLine(maxDelaySeconds, sampleRate)
	}
	n := graph.NewNode("delay", "delay", d, blockSize)
	n.AddProperty(d.delay)
	return n
}

func (d *Delay) InputChannels() int  { return d.channels }
func (d *Delay) OutputChannels() int { return d.channels }

func (d *Delay) Process(n *graph.Node, blockSize int) {
	in, out := n.Inputs(), n.Outputs()
	if d.delay.NeedsARate() {
		for i := 0; i < blockSize; i++ {
			delaySeconds, _ := d.delay.GetDoubleValue(i)
			for c := 0; c < d.channels; c++ {
				d.lines[c].SetDelay(delaySeconds)
				out[c][i] = d.lines[c].Tick(in[c][i])
			}
		}
		return
	}
	if d.delay.ConsumeModified() {
		delaySeconds, _ := d.delay.GetDoubleValue()
		for c := 0; c < d.channels; c++ {
			d.lines[c].SetDelay(delaySeconds)
		}
	}
	for i := 0; i < blockSize; i++ {
		for c := 0; c < d.channels; c++ {
			out[c][i] = d.lines[c].Tick(in[c][i])
		}
	}
}

// Reset clears every channel's delay line contents.
func (d *Delay) Reset() {
	for _, l := range d.lines {
		l.Reset()
	}
}

// SPDX-License-Identifier: MIT
package nodes

import (
	"auragraph/internal/graph"
	"auragraph/internal/property"
)

// BufferPlayer is a 0-input node that plays back a decoded property.Buffer
// asset, resampling from the buffer's own source rate to the engine's
// rate with the same linear interpolation Pull uses for live callback
// audio. Its output channel count is fixed at construction (maxChannels);
// channels beyond whatever the attached buffer actually carries stay
// silent.
type BufferPlayer struct {
	sampleRate  float64
	maxChannels int

	buffer  *property.Property // Buffer
	rate    *property.Property // Double, playback speed multiplier
	looping *property.Property // Int, 0 or 1
	ended   *property.Property // Int, set to 1 once a non-looping play reaches the end

	pos     float64         // fractional source-frame read position
	current *property.Buffer // the buffer .buffer held as of the last Process, to detect swaps
}

// NewBufferPlayer builds a BufferPlayer node with a fixed maxChannels
// output width.
func NewBufferPlayer(sampleRate float64, maxChannels, blockSize int) *graph.Node {
	bp := &BufferPlayer{
		sampleRate:  sampleRate,
		maxChannels: maxChannels,
		buffer:      property.NewBuffer("buffer"),
		rate:        property.NewDouble("rate", 1.0, -32.0, 32.0),
		looping:     property.NewInt("looping", 0, 0, 1),
		ended:       property.NewInt("ended", 0, 0, 1),
	}
	n := graph.NewNode("buffer_player", "buffer_player", bp, blockSize)
	n.AddProperty(bp.buffer)
	n.AddProperty(bp.rate)
	n.AddProperty(bp.looping)
	n.AddProperty(bp.ended)
	return n
}

func (bp *BufferPlayer) InputChannels() int  { return 0 }
func (bp *BufferPlayer) OutputChannels() int { return bp.maxChannels }

func (bp *BufferPlayer) Process(n *graph.Node, blockSize int) {
	out := n.Outputs()

	buf, _ := bp.buffer.GetBufferValue()
	if buf != bp.current {
		bp.pos = 0
		bp.current = buf
		bp.ended.SetIntValue(0)
	}
	if buf == nil || buf.Frames() == 0 {
		return
	}

	rate, _ := bp.rate.GetDoubleValue()
	looping, _ := bp.looping.GetIntValue()
	ratio := buf.SampleRate / bp.sampleRate * rate
	frames := buf.Frames()
	channels := buf.Channels
	if channels > bp.maxChannels {
		channels = bp.maxChannels
	}

	for i := 0; i < blockSize; i++ {
		if bp.pos < 0 || bp.pos >= float64(frames-1) {
			if looping != 0 {
				bp.pos = wrapFrame(bp.pos, frames)
			} else {
				bp.ended.SetIntValue(1)
				break
			}
		}
		i0 := int(bp.pos)
		frac := float32(bp.pos - float64(i0))
		i1 := i0 + 1
		if i1 >= frames {
			i1 = frames - 1
		}
		for c := 0; c < channels; c++ {
			s0 := buf.Data[c][i0]
			s1 := buf.Data[c][i1]
			out[c][i] = s0 + (s1-s0)*frac
		}
		bp.pos += ratio
	}
}

func wrapFrame(pos float64, frames int) float64 {
	n := float64(frames)
	for pos < 0 {
		pos += n
	}
	for pos >= n {
		pos -= n
	}
	return pos
}

// Reset restarts playback from the beginning of the currently attached
// buffer and clears the ended flag.
func (bp *BufferPlayer) Reset() {
	bp.pos = 0
	bp.ended.SetIntValue(0)
}

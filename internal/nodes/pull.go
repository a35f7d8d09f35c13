// SPDX-License-Identifier: MIT
package nodes

import (
	"auragraph/internal/graph"
)

// PullCallback fills dst, an interleaved buffer of frames*channels
// samples, with the next frames of audio at the source's own sample
// rate. It is called from the audio thread and must not block; a caller
// with nothing to deliver should fill dst with silence.
type PullCallback func(frames, channels int, dst []float32)

// Pull is a 0-input, channels-output node that pulls audio from an
// external source running at its own sample rate and linearly
// resamples it up or down to the engine's rate, the same role
// Libaudioverse's pull node fills for feeding externally-decoded or
// externally-synthesized audio into the graph.
type Pull struct {
	channels int
	ratio    float64 // source samples consumed per engine output sample

	callback PullCallback

	ring       []float32 // interleaved source-rate ring buffer
	ringFrames int

	writeFrame int64   // total source frames ever written
	readPos    float64 // absolute (unwrapped) fractional source-frame read position

	chunk []float32 // scratch for one callback pull, reused to avoid allocation
}

// NewPull builds a Pull node. inputSampleRate is the rate callback
// produces audio at; the engine's own rate and block size come from
// sampleRate/blockSize.
func NewPull(channels int, inputSampleRate, sampleRate float64, blockSize int, callback PullCallback) *graph.Node {
	ringFrames := blockSize * 8
	p := &Pull{
		channels:   channels,
		ratio:      inputSampleRate / sampleRate,
		callback:   callback,
		ring:       make([]float32, ringFrames*channels),
		ringFrames: ringFrames,
		chunk:      make([]float32, blockSize*channels),
	}
	return graph.NewNode("pull", "pull", p, blockSize)
}

func (p *Pull) InputChannels() int  { return 0 }
func (p *Pull) OutputChannels() int { return p.channels }

// fill pulls one chunk-worth of source frames from the callback into the
// ring buffer at the current write position, wrapping as needed.
func (p *Pull) fill(frames int) {
	chunk := p.chunk
	if cap(chunk) < frames*p.channels {
		chunk = make([]float32, frames*p.channels)
	}
	chunk = chunk[:frames*p.channels]
	p.callback(frames, p.channels, chunk)

	start := int(p.writeFrame % int64(p.ringFrames))
	for i := 0; i < frames; i++ {
		idx := (start + i) % p.ringFrames
		for c := 0; c < p.channels; c++ {
			p.ring[idx*p.channels+c] = chunk[i*p.channels+c]
		}
	}
	p.writeFrame += int64(frames)
}

func (p *Pull) sampleAt(frame int64, channel int) float32 {
	idx := int(frame % int64(p.ringFrames))
	if idx < 0 {
		idx += p.ringFrames
	}
	return p.ring[idx*p.channels+channel]
}

func (p *Pull) Process(n *graph.Node, blockSize int) {
	needed := int64(float64(blockSize)*p.ratio) + 2
	for p.writeFrame-int64(p.readPos) < needed {
		pullSize := blockSize
		if int64(pullSize) > int64(p.ringFrames)-(p.writeFrame-int64(p.readPos)) {
			pullSize = p.ringFrames - int(p.writeFrame-int64(p.readPos))
		}
		if pullSize <= 0 {
			break
		}
		p.fill(pullSize)
	}

	out := n.Outputs()
	for i := 0; i < blockSize; i++ {
		i0 := int64(p.readPos)
		frac := float32(p.readPos - float64(i0))
		for c := 0; c < p.channels; c++ {
			s0 := p.sampleAt(i0, c)
			s1 := p.sampleAt(i0+1, c)
			out[c][i] = s0 + (s1-s0)*frac
		}
		p.readPos += p.ratio
	}
}

// Reset drops all buffered source audio and restarts the read position
// at the current write position, so a paused-then-resumed Pull node
// doesn't dump a backlog of stale audio the moment it resumes.
func (p *Pull) Reset() {
	for i := range p.ring {
		p.ring[i] = 0
	}
	p.readPos = float64(p.writeFrame)
}

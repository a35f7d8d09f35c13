// SPDX-License-Identifier: MIT

// Package reverb implements a feedback delay network late-reflections
// reverberator: a fixed number of delay lines cross-fed through an
// orthogonal mixing matrix, each tapped through a pair of high-shelf
// filters to shape a three-band decay, with optional delay/amplitude/
// allpass modulation to break up metallic ringing.
package reverb

import (
	"auragraph/internal/dsp"
)

// feedbackDelayNetwork is the generic N-line FDN core: N delay lines, an
// N x N mixing matrix applied to their outputs before feeding back in.
// The late-reflections node owns one of these at a fixed order and layers
// the banded shelving, modulation and pan-reduction stages on top.
type feedbackDelayNetwork struct {
	order      int
	sampleRate float64
	lines      []*dsp.DelayLine
	matrix     [][]float64
	delays     []float64
	nextScratch []float64
}

func newFeedbackDelayNetwork(order int, maxDelay, sampleRate float64) *feedbackDelayNetwork {
	fdn := &feedbackDelayNetwork{
		order:      order,
		sampleRate: sampleRate,
		lines:      make([]*dsp.DelayLine, order),
		delays:     make([]float64, order),
		nextScratch: make([]float64, order),
	}
	for i := range fdn.lines {
		fdn.lines[i] = dsp.NewDelayLine(maxDelay, sampleRate)
	}
	return fdn
}

// setMatrix installs a new order x order feedback matrix, used whenever
// recompute() rebakes per-line gains into a fresh Hadamard matrix.
func (f *feedbackDelayNetwork) setMatrix(m [][]float64) { f.matrix = m }

// setDelays sets every line's target delay (in seconds) in one call.
func (f *feedbackDelayNetwork) setDelays(delays []float64) {
	copy(f.delays, delays)
	for i, d := range delays {
		f.lines[i].SetDelay(d)
	}
}

// setDelay retargets a single line, used for per-sample delay modulation.
func (f *feedbackDelayNetwork) setDelay(i int, delay float64) {
	f.delays[i] = delay
	f.lines[i].SetDelay(delay)
}

// computeFrame reads every line's current output sample (pre-matrix, the
// raw delayed signal) into dst.
func (f *feedbackDelayNetwork) computeFrame(dst []float64) {
	for i, line := range f.lines {
		dst[i] = float64(line.Read())
	}
}

// advance mixes feedback through the matrix, adds the external input, and
// pushes the result into every line for the next computeFrame to read.
func (f *feedbackDelayNetwork) advance(input, feedback []float64) {
	next := f.nextScratch
	for i := 0; i < f.order; i++ {
		sum := input[i]
		row := f.matrix[i]
		for j, coeff := range row {
			if coeff != 0 {
				sum += coeff * feedback[j]
			}
		}
		next[i] = sum
	}
	for i, line := range f.lines {
		line.Advance(float32(next[i]))
	}
}

// reset clears every line's buffer and interpolation state.
func (f *feedbackDelayNetwork) reset() {
	for _, line := range f.lines {
		line.Reset()
	}
}

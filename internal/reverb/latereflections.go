// SPDX-License-Identifier: MIT
package reverb

import (
	"math"

	"auragraph/internal/dsp"
	"auragraph/internal/dspmath"
	"auragraph/internal/graph"
	"auragraph/internal/property"
)

// order is fixed at 16: the algorithm only holds together with exactly
// this many delay lines, since panReduction and the coprime delay-length
// table below are both sized for it.
const order = 16

// coprimes supplies the delay-line lengths: each line's length is the
// integer power of one of these bases closest to the node's base delay.
// Not every base is prime, and some share factors (4 and 16; 3, 9 and
// 27; 5, 7 and 35), so the resulting lengths are not all pairwise
// coprime.
var coprimes = [16]int{
	3, 4, 5, 7,
	9, 11, 13, 16,
	17, 19, 23, 27,
	29, 31, 35, 37,
}

// LateReflections is a 16-line feedback-delay-network reverberator: an
// orthogonal Hadamard matrix cross-feeds 16 delay lines,
// each tapped through a pair of high-shelf filters (never a low-shelf —
// the cookbook's low-shelf design is numerically unstable at the
// frequencies this node runs it at) that shape a three-band T60 decay,
// plus optional sine-driven delay/amplitude/allpass modulation to keep
// the tail from ringing metallically.
type LateReflections struct {
	sampleRate float64
	blockSize  int

	fdn *feedbackDelayNetwork

	gains    [order]float64
	delays   [order]float64
	fdnMat   [order][order]float64
	fdnMatRows [order][]float64

	outputFrame [order]float64
	inputFrame  [order]float64

	highshelves [order]*dsp.BiquadFilter
	midshelves  [order]*dsp.BiquadFilter
	allpasses   [order]*dsp.BiquadFilter

	amplitudeModulators [order]*dsp.SinOsc
	delayModulators     [order]*dsp.SinOsc
	allpassModulators   [order]*dsp.SinOsc
	amplitudeModBuf     []float32

	panReducers [order]*dsp.DelayLine

	t60           *property.Property
	density       *property.Property
	hfT60         *property.Property
	lfT60         *property.Property
	hfReference   *property.Property
	lfReference   *property.Property
	ampModFreq    *property.Property
	ampModDepth   *property.Property
	delayModFreq  *property.Property
	delayModDepth *property.Property
	allpassEnable  *property.Property
	allpassMinF    *property.Property
	allpassMaxF    *property.Property
	allpassQ       *property.Property
	allpassModFreq *property.Property
}

// NewLateReflections creates a reverb node running at sampleRate,
// producing blockSize-sample blocks, with the teacher-catalog defaults:
// a 1s mid-band T60, fully dense reflections, and no modulation.
func NewLateReflections(sampleRate float64, blockSize int) *LateReflections {
	nyquist := sampleRate / 2
	r := &LateReflections{
		sampleRate:      sampleRate,
		blockSize:       blockSize,
		fdn:             newFeedbackDelayNetwork(order, 1.0, sampleRate),
		amplitudeModBuf: make([]float32, blockSize),

		t60:           property.NewDouble("t60", 1.0, 0.001, 100),
		density:       property.NewDouble("density", 1.0, 0, 1),
		hfT60:         property.NewDouble("hf_t60", 1.0, 0.001, 100),
		lfT60:         property.NewDouble("lf_t60", 1.0, 0.001, 100),
		hfReference:   property.NewDouble("hf_reference", 6000, 0, nyquist),
		lfReference:   property.NewDouble("lf_reference", 200, 0, nyquist),
		ampModFreq:    property.NewDouble("amplitude_modulation_frequency", 0, 0, nyquist),
		ampModDepth:   property.NewDouble("amplitude_modulation_depth", 0, 0, 1),
		delayModFreq:  property.NewDouble("delay_modulation_frequency", 0, 0, nyquist),
		delayModDepth: property.NewDouble("delay_modulation_depth", 0, 0, 1),
		allpassEnable: property.NewInt("allpass_enabled", 0, 0, 1),
		allpassMinF:    property.NewDouble("allpass_min_frequency", 100, 0, nyquist),
		allpassMaxF:    property.NewDouble("allpass_max_frequency", 3000, 0, nyquist),
		allpassQ:       property.NewDouble("allpass_q", 0.7, 0.01, 20),
		allpassModFreq: property.NewDouble("allpass_modulation_frequency", 0.3, 0, nyquist),
	}

	for i := 0; i < order; i++ {
		r.highshelves[i] = dsp.NewBiquadFilter(sampleRate)
		r.midshelves[i] = dsp.NewBiquadFilter(sampleRate)
		r.allpasses[i] = dsp.NewBiquadFilter(sampleRate)

		r.amplitudeModulators[i] = dsp.NewSinOsc(sampleRate)
		r.amplitudeModulators[i].SetPhase(float64(i) / order)
		r.delayModulators[i] = dsp.NewSinOsc(sampleRate)
		r.delayModulators[i].SetPhase(float64(i) / order)
		r.allpassModulators[i] = dsp.NewSinOsc(sampleRate)
		r.allpassModulators[i].SetPhase(float64(i) / order)

		r.panReducers[i] = dsp.NewDelayLine(1.0, sampleRate)
	}
	for i := range r.fdnMatRows {
		r.fdnMatRows[i] = r.fdnMat[i][:]
	}

	r.recompute()
	return r
}

// Properties exposes the node's parameter table so a graph.Node built
// around this processor can register them for introspection and
// automation.
func (r *LateReflections) Properties() []*property.Property {
	return []*property.Property{
		r.t60, r.density, r.hfT60, r.lfT60, r.hfReference, r.lfReference,
		r.ampModFreq, r.ampModDepth, r.delayModFreq, r.delayModDepth,
		r.allpassEnable, r.allpassMinF, r.allpassMaxF, r.allpassQ, r.allpassModFreq,
	}
}

func (r *LateReflections) InputChannels() int  { return order }
func (r *LateReflections) OutputChannels() int { return order }

// t60ToGain converts a target decay time into the per-circulation gain a
// delay line of the given length (in seconds) needs so that, after
// repeated circulation, the signal drops 60dB in t60 seconds.
func t60ToGain(t60, lineLength float64) float64 {
	dbPerSec := -60.0 / t60
	dbPerPeriod := dbPerSec * lineLength
	return math.Pow(10, dbPerPeriod/20.0)
}

// recompute rebuilds delay lengths, per-line gains and shelving filter
// coefficients from the node's properties. It is expensive enough
// (log/pow per line, a fresh Hadamard construction) that Process only
// calls it when a property that actually affects the result changed.
func (r *LateReflections) recompute() {
	density, _ := r.density.GetDoubleValue()
	t60, _ := r.t60.GetDoubleValue()
	t60High, _ := r.hfT60.GetDoubleValue()
	t60Low, _ := r.lfT60.GetDoubleValue()
	hfRef, _ := r.hfReference.GetDoubleValue()
	lfRef, _ := r.lfReference.GetDoubleValue()

	baseDelay := 0.003 + (1.0-density)*0.025
	for i := 0; i < order; i++ {
		prime := float64(coprimes[(i%4)*4+i/4])
		powerApprox := math.Log(baseDelay*r.sampleRate) / math.Log(prime)
		neededPower := math.Round(powerApprox)
		delayInSamples := math.Pow(prime, neededPower)
		delay := delayInSamples / r.sampleRate
		if delay > 1.0 {
			delay = 1.0
		}
		r.delays[i] = delay
	}
	// Experimentally chosen swap: by default the shortest and longest
	// lines land adjacent, which reads as metallic when this node feeds a
	// panner directly on both ends.
	r.delays[0], r.delays[15] = r.delays[15], r.delays[0]
	r.delays[1], r.delays[14] = r.delays[14], r.delays[1]
	r.fdn.setDelays(r.delays[:])

	for i := 0; i < order; i++ {
		r.gains[i] = t60ToGain(t60Low, r.delays[i])
	}
	for i := 0; i < order; i++ {
		highGain := t60ToGain(t60High, r.delays[i])
		midGain := t60ToGain(t60, r.delays[i])
		midDb := dspmath.ScalarToDB(midGain, r.gains[i])
		highDb := dspmath.ScalarToDB(highGain, midGain)
		q := 1/math.Sqrt2 + 1e-4
		r.highshelves[i].Configure(dsp.BiquadHighshelf, hfRef, highDb, q)
		r.midshelves[i].Configure(dsp.BiquadHighshelf, lfRef, midDb, q)
	}

	flat := make([]float64, order*order)
	dspmath.Hadamard(order, flat)
	for i := 0; i < order; i++ {
		for j := 0; j < order; j++ {
			r.fdnMat[i][j] = flat[i*order+j] * r.gains[i]
		}
	}
	r.fdn.setMatrix(r.fdnMatRows[:])

	maxDelay := r.delays[0]
	for _, d := range r.delays {
		if d > maxDelay {
			maxDelay = d
		}
	}
	panReductionDelay := maxDelay + 1.0/r.sampleRate
	for i := 0; i < order; i++ {
		r.panReducers[i].SetDelay(panReductionDelay - r.delays[i])
	}
}

func (r *LateReflections) onAmplitudeModFreqChanged() {
	freq, _ := r.ampModFreq.GetDoubleValue()
	for _, osc := range r.amplitudeModulators {
		osc.SetFrequency(freq)
	}
}

func (r *LateReflections) onDelayModFreqChanged() {
	freq, _ := r.delayModFreq.GetDoubleValue()
	for _, osc := range r.delayModulators {
		osc.SetFrequency(freq)
	}
}

func (r *LateReflections) onAllpassModFreqChanged() {
	freq, _ := r.allpassModFreq.GetDoubleValue()
	for _, osc := range r.allpassModulators {
		osc.SetFrequency(freq)
	}
}

func (r *LateReflections) onAllpassEnabledChanged() {
	for _, f := range r.allpasses {
		f.ClearHistories()
	}
}

// Process runs the FDN one block at a time: read each line, shelve-filter
// and optionally allpass-diffuse the tap, feed the taps back through the
// gain-baked Hadamard matrix with the external input added to each line,
// then apply amplitude modulation and per-line pan-reduction delays to the
// output.
func (r *LateReflections) Process(n *graph.Node, blockSize int) {
	recomputeNeeded := false
	for _, p := range []*property.Property{r.t60, r.density, r.hfT60, r.lfT60, r.hfReference, r.lfReference} {
		if p.ConsumeModified() {
			recomputeNeeded = true
		}
	}
	if recomputeNeeded {
		r.recompute()
	}
	if r.ampModFreq.ConsumeModified() {
		r.onAmplitudeModFreqChanged()
	}
	if r.delayModFreq.ConsumeModified() {
		r.onDelayModFreqChanged()
	}
	if r.allpassModFreq.ConsumeModified() {
		r.onAllpassModFreqChanged()
	}
	allpassEnabledChanged := r.allpassEnable.ConsumeModified()
	if allpassEnabledChanged {
		r.onAllpassEnabledChanged()
	}

	ampDepth, _ := r.ampModDepth.GetDoubleValue()
	delayDepth, _ := r.delayModDepth.GetDoubleValue()
	allpassMin, _ := r.allpassMinF.GetDoubleValue()
	allpassMax, _ := r.allpassMaxF.GetDoubleValue()
	allpassQ, _ := r.allpassQ.GetDoubleValue()
	allpassEnabledInt, _ := r.allpassEnable.GetIntValue()
	allpassEnabled := allpassEnabledInt == 1
	allpassDelta := (allpassMax - allpassMin) / 2.0
	allpassModStart := allpassMin + allpassDelta

	in := n.Inputs()
	out := n.Outputs()

	for i := 0; i < blockSize; i++ {
		for m := 0; m < order; m++ {
			delay := r.delays[m]
			delay = delay + delay*delayDepth*r.delayModulators[m].Tick()
			if delay > 1.0 {
				delay = 1.0
			}
			r.fdn.setDelay(m, delay)
		}

		if allpassEnabled {
			for m := 0; m < order; m++ {
				freq := allpassModStart + allpassDelta*r.allpassModulators[m].Tick()
				r.allpasses[m].Configure(dsp.BiquadAllpass, freq, 0, allpassQ)
			}
		}

		r.fdn.computeFrame(r.outputFrame[:])
		for j := 0; j < order; j++ {
			out[j][i] = float32(r.outputFrame[j])
		}
		for j := 0; j < order; j++ {
			v := r.outputFrame[j]
			v = float64(r.highshelves[j].Tick(float32(v)))
			v = float64(r.midshelves[j].Tick(float32(v)))
			if allpassEnabled {
				v = float64(r.allpasses[j].Tick(float32(v)))
			}
			r.outputFrame[j] = v
		}
		for j := 0; j < order; j++ {
			if j < len(in) {
				r.inputFrame[j] = float64(in[j][i])
			} else {
				r.inputFrame[j] = 0
			}
		}
		r.fdn.advance(r.inputFrame[:], r.outputFrame[:])
	}

	if ampDepth != 0 {
		for o := 0; o < order; o++ {
			osc := r.amplitudeModulators[o]
			osc.FillBuffer(blockSize, r.amplitudeModBuf)
			dspmath.ScalarMultiply(r.amplitudeModBuf, float32(ampDepth))
			dspmath.ScalarAdd(r.amplitudeModBuf, float32(1.0-ampDepth/2.0))
			dspmath.Multiply(out[o], r.amplitudeModBuf, out[o])
		}
	} else {
		for o := 0; o < order; o++ {
			r.amplitudeModulators[o].SkipSamples(blockSize)
		}
	}
	if !allpassEnabled {
		for _, osc := range r.allpassModulators {
			osc.SkipSamples(blockSize)
		}
	}

	for i := 0; i < order; i++ {
		line := r.panReducers[i]
		ch := out[i]
		for j := 0; j < blockSize; j++ {
			ch[j] = line.Tick(ch[j])
		}
	}
}

// Reset clears the FDN's lines, every filter's history, and re-anchors
// every modulator's starting phase so the reverb always starts from the
// same state regardless of what played through it before.
func (r *LateReflections) Reset() {
	r.fdn.reset()
	for i := 0; i < order; i++ {
		r.midshelves[i].ClearHistories()
		r.highshelves[i].ClearHistories()
		r.allpasses[i].ClearHistories()
		r.panReducers[i].Reset()
		r.amplitudeModulators[i].SetPhase(float64(i) / order)
		r.delayModulators[i].SetPhase(float64(i) / order)
		r.allpassModulators[i].SetPhase(float64(i) / order)
	}
}

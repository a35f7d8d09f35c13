// SPDX-License-Identifier: MIT

// Package monitor taps the engine's rendered output and streams its
// spectral content to live consumers: a websocket broadcast for
// browser-based visualizers and a binary UDP publisher for headless
// ones, both driven off one FFT analyzer fed mono-summed blocks pulled
// from the render loop.
package monitor

import (
	"math"
	"sync"

	"auragraph/internal/dspmath"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Transport is anything the analyzer can hand a fresh magnitude
// spectrum to once per completed FFT window.
type Transport interface {
	Send(magnitudes []float64) error
}

// Analyzer accumulates incoming audio into a ring buffer and runs a
// windowed FFT every time fftSize fresh samples have arrived,
// fan-out-ing the resulting magnitude spectrum to every registered
// Transport.
type Analyzer struct {
	mu sync.Mutex

	fftSize    int
	sampleRate float64

	fftObj *fourier.FFT
	window []float64

	ring     []float64
	ringPos  int
	ringFull bool

	input     []float64
	fftOutput []complex128
	magnitude []float64

	transports []Transport
}

// NewAnalyzer builds an Analyzer with a power-of-two FFT window,
// panicking on a non-power-of-two size the same way the teacher's FFT
// processor does — this is a configuration error, not a runtime one.
func NewAnalyzer(fftSize int, sampleRate float64) *Analyzer {
	if !dspmath.IsPowerOfTwo(fftSize) {
		panic("monitor: FFT size must be a power of 2")
	}
	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}
	outputSize := fftSize/2 + 1
	return &Analyzer{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		fftObj:     fourier.NewFFT(fftSize),
		window:     window,
		ring:       make([]float64, fftSize),
		input:      make([]float64, fftSize),
		fftOutput:  make([]complex128, outputSize),
		magnitude:  make([]float64, outputSize),
	}
}

// AddTransport registers a consumer; every future completed FFT window
// is sent to it.
func (a *Analyzer) AddTransport(t Transport) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transports = append(a.transports, t)
}

// Feed mixes a planar (per-channel) rendered block down to mono and
// pushes it into the analysis ring buffer, running (and broadcasting) a
// new FFT each time the buffer wraps.
func (a *Analyzer) Feed(planar [][]float32) {
	if len(planar) == 0 {
		return
	}
	blockSize := len(planar[0])
	inv := 1.0 / float64(len(planar))

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < blockSize; i++ {
		var sum float64
		for _, ch := range planar {
			sum += float64(ch[i])
		}
		a.ring[a.ringPos] = sum * inv
		a.ringPos++
		if a.ringPos >= a.fftSize {
			a.ringPos = 0
			a.ringFull = true
			a.runFFTLocked()
		}
	}
}

func (a *Analyzer) runFFTLocked() {
	for i := 0; i < a.fftSize; i++ {
		a.input[i] = a.ring[i] * a.window[i]
	}
	_ = a.fftObj.Coefficients(a.fftOutput, a.input)
	for i, c := range a.fftOutput {
		re, im := real(c), imag(c)
		a.magnitude[i] = math.Sqrt(re*re + im*im)
	}
	for _, t := range a.transports {
		_ = t.Send(a.magnitude)
	}
}

// FrequencyForBin returns the center frequency in Hz of FFT bin i.
func (a *Analyzer) FrequencyForBin(i int) float64 {
	if i < 0 || i >= len(a.magnitude) {
		return 0
	}
	return a.fftObj.Freq(i) * a.sampleRate
}

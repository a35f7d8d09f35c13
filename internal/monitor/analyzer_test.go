package monitor

import (
	"math"
	"testing"
)

type captureTransport struct {
	last []float64
	n    int
}

func (c *captureTransport) Send(magnitudes []float64) error {
	c.last = append([]float64(nil), magnitudes...)
	c.n++
	return nil
}

func TestAnalyzerFindsDominantFrequency(t *testing.T) {
	const sr = 44100.0
	const fftSize = 1024
	const freq = 1000.0

	a := NewAnalyzer(fftSize, sr)
	capture := &captureTransport{}
	a.AddTransport(capture)

	block := make([]float32, fftSize)
	for i := range block {
		block[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sr))
	}
	a.Feed([][]float32{block})

	if capture.n == 0 {
		t.Fatal("expected at least one completed FFT window")
	}

	peakBin := 0
	peakVal := 0.0
	for i, v := range capture.last {
		if v > peakVal {
			peakVal = v
			peakBin = i
		}
	}
	peakFreq := a.FrequencyForBin(peakBin)
	if math.Abs(peakFreq-freq) > sr/float64(fftSize)*2 {
		t.Fatalf("peak bin frequency %v, want close to %v", peakFreq, freq)
	}
}

func TestAnalyzerMixesChannelsDown(t *testing.T) {
	const fftSize = 64
	a := NewAnalyzer(fftSize, 8000)
	capture := &captureTransport{}
	a.AddTransport(capture)

	left := make([]float32, fftSize)
	right := make([]float32, fftSize)
	for i := range left {
		left[i] = 1.0
		right[i] = -1.0
	}
	a.Feed([][]float32{left, right})

	if capture.n == 0 {
		t.Fatal("expected a completed FFT window")
	}
	// left and right cancel, so every bin should be ~silent.
	for i, v := range capture.last {
		if v > 1e-6 {
			t.Fatalf("bin %d = %v, want ~0 after left/right cancellation", i, v)
		}
	}
}

func TestAnalyzerPanicsOnNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a non-power-of-two FFT size")
		}
	}()
	NewAnalyzer(1000, 44100)
}

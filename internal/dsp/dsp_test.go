package dsp

import (
	"math"
	"testing"
)

func TestDelayLineReadsBackWrittenSample(t *testing.T) {
	d := NewDelayLine(1.0, 1000)
	d.SetDelay(0.01) // 10 samples, starts interpolating immediately
	d.SetInterpolationDelta(1.0)
	// Fully settle the interpolation in one step.
	d.Advance(0)
	for i := 0; i < 20; i++ {
		d.Advance(0)
	}
	d.Advance(1)
	for i := 0; i < 9; i++ {
		d.Advance(0)
	}
	out := d.Read()
	if out != 1 {
		t.Fatalf("Read() = %v, want the 1.0 written 10 samples ago", out)
	}
}

func TestDelayLineInterpolationSettles(t *testing.T) {
	d := NewDelayLine(1.0, 1000)
	d.SetInterpolationDelta(0.1)
	d.SetDelay(0.005)
	for i := 0; i < 20; i++ {
		d.Advance(0)
	}
	if d.interpolating {
		t.Fatal("delay line never finished interpolating")
	}
}

func TestSinOscProducesUnitAmplitude(t *testing.T) {
	osc := NewSinOsc(1000)
	osc.SetFrequency(250)
	max := 0.0
	for i := 0; i < 1000; i++ {
		v := osc.Tick()
		if math.Abs(v) > max {
			max = math.Abs(v)
		}
	}
	if max < 0.99 || max > 1.0001 {
		t.Fatalf("max |sin| over 250 cycles = %v, want ~1.0", max)
	}
}

func TestSinOscSkipSamplesMatchesTicking(t *testing.T) {
	a := NewSinOsc(1000)
	a.SetFrequency(37)
	b := NewSinOsc(1000)
	b.SetFrequency(37)

	for i := 0; i < 50; i++ {
		a.Tick()
	}
	b.SkipSamples(50)

	if math.Abs(a.GetPhase()-b.GetPhase()) > 1e-9 {
		t.Fatalf("phase after Tick x50 = %v, after SkipSamples(50) = %v", a.GetPhase(), b.GetPhase())
	}
}

func TestBiquadHighshelfUnityAtZeroGain(t *testing.T) {
	f := NewBiquadFilter(44100)
	f.Configure(BiquadHighshelf, 4000, 0, 1/math.Sqrt2)
	var out float32
	for i := 0; i < 200; i++ {
		out = f.Tick(1)
	}
	if out < 0.9 || out > 1.1 {
		t.Fatalf("0dB highshelf settled DC response = %v, want ~1.0", out)
	}
}

func TestBiquadAllpassPreservesEnergyRoughly(t *testing.T) {
	f := NewBiquadFilter(44100)
	f.Configure(BiquadAllpass, 1000, 0, 0.7)
	var sumIn, sumOut float64
	for i := 0; i < 2000; i++ {
		x := float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
		y := f.Tick(x)
		sumIn += float64(x * x)
		sumOut += float64(y * y)
	}
	ratio := sumOut / sumIn
	if ratio < 0.8 || ratio > 1.2 {
		t.Fatalf("allpass energy ratio = %v, want close to 1.0", ratio)
	}
}

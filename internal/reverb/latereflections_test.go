package reverb

import (
	"math"
	"testing"

	"auragraph/internal/graph"
)

// impulseSource emits a single unit sample on the very first block it
// ticks and silence forever after, for driving the reverb's decay tests
// without needing a full oscillator or buffer-player node.
type impulseSource struct{ fired bool }

func (s *impulseSource) InputChannels() int  { return 0 }
func (s *impulseSource) OutputChannels() int { return 1 }
func (s *impulseSource) Process(n *graph.Node, blockSize int) {
	if !s.fired {
		n.Outputs()[0][0] = 1.0
		s.fired = true
	}
}

func newReverbNode(sampleRate float64, blockSize int) (*graph.Node, *LateReflections) {
	proc := NewLateReflections(sampleRate, blockSize)
	n := graph.NewNode("reverb", "late_reflections", proc, blockSize)
	for _, p := range proc.Properties() {
		n.AddProperty(p)
	}
	return n, proc
}

func blockEnergy(block [][]float32) float64 {
	var sum float64
	for _, ch := range block {
		for _, v := range ch {
			sum += float64(v) * float64(v)
		}
	}
	return sum
}

func TestLateReflectionsTailDecays(t *testing.T) {
	const sr = 44100.0
	const blockSize = 256

	n, proc := newReverbNode(sr, blockSize)
	if err := proc.t60.SetDoubleValue(0.2); err != nil {
		t.Fatal(err)
	}
	if err := proc.hfT60.SetDoubleValue(0.2); err != nil {
		t.Fatal(err)
	}
	if err := proc.lfT60.SetDoubleValue(0.2); err != nil {
		t.Fatal(err)
	}

	source := graph.NewNode("impulse", "impulse", &impulseSource{}, blockSize)
	if _, err := graph.Connect(source, n, true); err != nil {
		t.Fatal(err)
	}

	var early, late float64
	for tick := int64(0); tick < 120; tick++ {
		c := &graph.TickContext{Tick: tick, BlockSize: blockSize, SampleRate: sr, GlobalStart: tick * int64(blockSize)}
		n.Tick(c)
		e := blockEnergy(n.Outputs())
		switch {
		case tick == 2:
			early = e
		case tick == 119:
			late = e
		}
	}

	if early <= 0 {
		t.Fatalf("no energy reached the output shortly after the impulse (early energy = %v)", early)
	}
	if late >= early {
		t.Fatalf("reverb tail did not decay: early=%v late=%v", early, late)
	}
}

func TestLateReflectionsStaysBounded(t *testing.T) {
	const sr = 44100.0
	const blockSize = 128

	n, _ := newReverbNode(sr, blockSize)
	source := graph.NewNode("impulse", "impulse", &impulseSource{}, blockSize)
	if _, err := graph.Connect(source, n, true); err != nil {
		t.Fatal(err)
	}

	for tick := int64(0); tick < 300; tick++ {
		c := &graph.TickContext{Tick: tick, BlockSize: blockSize, SampleRate: sr, GlobalStart: tick * int64(blockSize)}
		n.Tick(c)
		for _, ch := range n.Outputs() {
			for _, v := range ch {
				f := float64(v)
				if math.IsNaN(f) || math.IsInf(f, 0) {
					t.Fatalf("reverb output diverged at tick %d: %v", tick, v)
				}
				if f > 10 || f < -10 {
					t.Fatalf("reverb output blew up at tick %d: %v", tick, v)
				}
			}
		}
	}
}

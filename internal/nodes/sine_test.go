package nodes

import (
	"math"
	"testing"

	"auragraph/internal/graph"
)

func tickOnce(n *graph.Node, sr float64, blockSize int, tick int64) {
	c := &graph.TickContext{Tick: tick, BlockSize: blockSize, SampleRate: sr, GlobalStart: tick * int64(blockSize)}
	n.Tick(c)
}

func TestSineProducesExpectedFrequency(t *testing.T) {
	const sr = 44100.0
	const blockSize = 512

	n := NewSine(sr, blockSize)
	if err := n.Property("frequency").SetDoubleValue(441.0); err != nil {
		t.Fatal(err)
	}
	tickOnce(n, sr, blockSize, 0)

	out := n.Outputs()[0]
	zeroCrossings := 0
	for i := 1; i < len(out); i++ {
		if (out[i-1] < 0) != (out[i] < 0) {
			zeroCrossings++
		}
	}
	expected := 2 * 441.0 * float64(blockSize) / sr
	if math.Abs(float64(zeroCrossings)-expected) > 2 {
		t.Fatalf("got %d zero crossings, want close to %v", zeroCrossings, expected)
	}
}

func TestSineStaysInRange(t *testing.T) {
	const sr = 44100.0
	const blockSize = 128
	n := NewSine(sr, blockSize)
	for tick := int64(0); tick < 20; tick++ {
		tickOnce(n, sr, blockSize, tick)
		for _, v := range n.Outputs()[0] {
			if v > 1.001 || v < -1.001 {
				t.Fatalf("sine output out of range: %v", v)
			}
		}
	}
}

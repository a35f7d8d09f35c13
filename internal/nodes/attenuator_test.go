package nodes

import (
	"testing"

	"auragraph/internal/graph"
)

type constSource struct {
	channels int
	value    float32
}

func (c *constSource) InputChannels() int  { return 0 }
func (c *constSource) OutputChannels() int { return c.channels }
func (c *constSource) Process(n *graph.Node, blockSize int) {
	for _, ch := range n.Outputs() {
		for i := range ch {
			ch[i] = c.value
		}
	}
}

func TestAttenuatorScalesInput(t *testing.T) {
	const blockSize = 64
	n := NewAttenuator(2, blockSize)
	if err := n.Property("gain").SetDoubleValue(0.5); err != nil {
		t.Fatal(err)
	}

	source := graph.NewNode("source", "const", &constSource{channels: 2, value: 1.0}, blockSize)
	if _, err := graph.Connect(source, n, true); err != nil {
		t.Fatal(err)
	}

	tickOnce(n, 44100, blockSize, 0)

	for _, ch := range n.Outputs() {
		for _, v := range ch {
			if v != 0.5 {
				t.Fatalf("got %v, want 0.5", v)
			}
		}
	}
}

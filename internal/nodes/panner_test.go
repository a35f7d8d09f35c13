package nodes

import (
	"math"
	"testing"

	"auragraph/internal/graph"
)

func TestPannerCenterIsEqualPower(t *testing.T) {
	const blockSize = 32
	n := NewPanner(blockSize)

	source := graph.NewNode("source", "const", &constSource{channels: 1, value: 1.0}, blockSize)
	if _, err := graph.Connect(source, n, true); err != nil {
		t.Fatal(err)
	}
	tickOnce(n, 44100, blockSize, 0)

	left, right := n.Outputs()[0][0], n.Outputs()[1][0]
	want := float32(1 / math.Sqrt2)
	if math.Abs(float64(left-want)) > 1e-4 || math.Abs(float64(right-want)) > 1e-4 {
		t.Fatalf("center pan: got L=%v R=%v, want both close to %v", left, right, want)
	}
}

func TestPannerHardLeftSilencesRight(t *testing.T) {
	const blockSize = 32
	n := NewPanner(blockSize)
	if err := n.Property("pan").SetDoubleValue(-1); err != nil {
		t.Fatal(err)
	}

	source := graph.NewNode("source", "const", &constSource{channels: 1, value: 1.0}, blockSize)
	if _, err := graph.Connect(source, n, true); err != nil {
		t.Fatal(err)
	}
	tickOnce(n, 44100, blockSize, 0)

	left, right := n.Outputs()[0][0], n.Outputs()[1][0]
	if math.Abs(float64(left-1.0)) > 1e-4 {
		t.Fatalf("hard left: got L=%v, want 1.0", left)
	}
	if math.Abs(float64(right)) > 1e-4 {
		t.Fatalf("hard left: got R=%v, want 0", right)
	}
}

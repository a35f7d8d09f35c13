package nodes

import (
	"testing"

	"auragraph/internal/property"
)

func makeTestBuffer(sampleRate float64, frames int, value float32) *property.Buffer {
	data := make([]float32, frames)
	for i := range data {
		data[i] = value
	}
	return &property.Buffer{
		Name:       "test",
		SampleRate: sampleRate,
		Channels:   1,
		Data:       [][]float32{data},
	}
}

func TestBufferPlayerPlaysAttachedBuffer(t *testing.T) {
	const sr = 1000.0
	const blockSize = 50

	n := NewBufferPlayer(sr, 1, blockSize)
	buf := makeTestBuffer(sr, 200, 0.5)
	if err := n.Property("buffer").SetBufferValue(buf); err != nil {
		t.Fatal(err)
	}

	tickOnce(n, sr, blockSize, 0)
	for _, v := range n.Outputs()[0] {
		if v != 0.5 {
			t.Fatalf("got %v, want 0.5", v)
		}
	}
}

func TestBufferPlayerEndsWithoutLooping(t *testing.T) {
	const sr = 1000.0
	const blockSize = 50

	n := NewBufferPlayer(sr, 1, blockSize)
	buf := makeTestBuffer(sr, 30, 1.0) // shorter than one block
	if err := n.Property("buffer").SetBufferValue(buf); err != nil {
		t.Fatal(err)
	}

	tickOnce(n, sr, blockSize, 0)

	ended, err := n.Property("ended").GetIntValue()
	if err != nil {
		t.Fatal(err)
	}
	if ended != 1 {
		t.Fatal("expected ended=1 after a non-looping buffer shorter than one block finished playing")
	}

	nonZero := 0
	for _, v := range n.Outputs()[0] {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero == 0 || nonZero >= blockSize {
		t.Fatalf("expected output to contain the buffer's samples followed by silence, got %d non-zero samples", nonZero)
	}
}

func TestBufferPlayerLoops(t *testing.T) {
	const sr = 1000.0
	const blockSize = 100

	n := NewBufferPlayer(sr, 1, blockSize)
	buf := makeTestBuffer(sr, 10, 1.0)
	if err := n.Property("buffer").SetBufferValue(buf); err != nil {
		t.Fatal(err)
	}
	if err := n.Property("looping").SetIntValue(1); err != nil {
		t.Fatal(err)
	}

	tickOnce(n, sr, blockSize, 0)

	ended, _ := n.Property("ended").GetIntValue()
	if ended != 0 {
		t.Fatal("a looping buffer should never set ended")
	}
	for _, v := range n.Outputs()[0] {
		if v != 1.0 {
			t.Fatalf("looping constant buffer should play continuously, got %v", v)
		}
	}
}

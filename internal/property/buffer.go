package property

// Buffer is the external asset spec.md §3 describes: immutable PCM data
// at some source sample rate, referenced by buffer-typed
// properties. Decoding (WAV/AIFF) happens outside this package; Buffer
// itself only carries the decoded, planar samples and metadata.
type Buffer struct {
	Name       string
	SampleRate float64
	Channels   int
	// Data is planar: Data[channel][sample].
	Data [][]float32
}

// Frames returns the number of sample frames (per channel) the buffer
// holds.
func (b *Buffer) Frames() int {
	if b == nil || len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the buffer's length in seconds at its source sample
// rate.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / b.SampleRate
}

// SPDX-License-Identifier: MIT
package nodes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"auragraph/internal/property"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// LoadBuffer decodes a WAV or AIFF file at path into a property.Buffer,
// for attaching to a BufferPlayer node's "buffer" property. The format
// is chosen by file extension, matching how the teacher's recording
// path picks an encoder by the caller's choice rather than sniffing
// file contents.
func LoadBuffer(path string) (*property.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nodes: load buffer: %w", err)
	}
	defer f.Close()

	var pcm *audio.IntBuffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".aiff", ".aif":
		dec := aiff.NewDecoder(f)
		pcm, err = dec.FullPCMBuffer()
	default:
		dec := wav.NewDecoder(f)
		pcm, err = dec.FullPCMBuffer()
	}
	if err != nil {
		return nil, fmt.Errorf("nodes: load buffer %s: %w", path, err)
	}

	return bufferFromPCM(filepath.Base(path), pcm), nil
}

// bufferFromPCM de-interleaves an IntBuffer's PCM samples into the
// planar float32 layout property.Buffer stores, scaling by the
// source's bit depth so values land in [-1, 1].
func bufferFromPCM(name string, pcm *audio.IntBuffer) *property.Buffer {
	channels := pcm.Format.NumChannels
	frames := len(pcm.Data) / channels

	shift := pcm.SourceBitDepth - 1
	if pcm.SourceBitDepth == 0 {
		shift = 15 // default to 16-bit if the decoder didn't report one
	}
	scale := float32(int64(1) << shift)

	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			data[c][i] = float32(pcm.Data[i*channels+c]) / scale
		}
	}

	return &property.Buffer{
		Name:       name,
		SampleRate: float64(pcm.Format.SampleRate),
		Channels:   channels,
		Data:       data,
	}
}

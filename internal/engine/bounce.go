// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Bounce renders durationSeconds of the graph to a WAV file at path
// without opening a PortAudio stream at all: it drives Tick in a plain
// loop, encoding each rendered block as it comes out. This is how the
// `bounce` subcommand and the engine's own test render audio without a
// sound card.
func (s *Server) Bounce(path string, durationSeconds float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("engine: bounce: %w", err)
	}
	defer file.Close()

	enc := wav.NewEncoder(file, int(s.sampleRate), 32, s.outputChannels, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: s.outputChannels, SampleRate: int(s.sampleRate)},
		Data:   make([]int, s.blockSize*s.outputChannels),
	}

	totalFrames := int(durationSeconds * s.sampleRate)
	framesWritten := 0
	for framesWritten < totalFrames {
		planar := s.Tick()
		s.interleaveOutput(planar)

		framesThisBlock := s.blockSize
		if remaining := totalFrames - framesWritten; remaining < framesThisBlock {
			framesThisBlock = remaining
		}
		n := framesThisBlock * s.outputChannels
		for i := 0; i < n; i++ {
			buf.Data[i] = floatToPCM32(s.interleaved[i])
		}
		buf.Data = buf.Data[:n]
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("engine: bounce: write: %w", err)
		}
		buf.Data = buf.Data[:s.blockSize*s.outputChannels]
		framesWritten += framesThisBlock
	}
	return nil
}

// floatToPCM32 scales a [-1, 1] float sample into the 32-bit integer
// range the WAV encoder's IntBuffer expects, clamping rather than
// wrapping on overshoot.
func floatToPCM32(v float32) int {
	const max32 = float64(1<<31 - 1)
	f := float64(v) * max32
	if f > max32 {
		f = max32
	}
	if f < -max32-1 {
		f = -max32 - 1
	}
	return int(f)
}

// SPDX-License-Identifier: MIT

// Package engine drives the processing graph: it owns the block-based
// tick scheduler, the PortAudio output stream that pulls rendered blocks
// to a real device, and the single lock that guards every mutation of
// graph structure or property state against the render callback running
// concurrently on its own OS thread.
//
// Locking follows a thin-wrapper-over-lock-free-core discipline instead
// of a true recursive mutex: every exported Server method takes the lock
// and then calls into lowercase helpers that assume it is already held
// and never lock again. graph.Node.Tick and Connection.pull, which
// recurse into each other while walking the graph, never lock at all —
// Server.Tick takes the lock once for the whole block. This gives every
// caller the mutual exclusion a recursive mutex would, without the
// goroutine-identity games a hand-rolled recursive mutex needs to be
// correct under real concurrency.
package engine

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"auragraph/internal/config"
	"auragraph/internal/graph"
	"auragraph/internal/log"
	"auragraph/internal/property"

	"github.com/gordonklaus/portaudio"
)

// Server owns the processing graph's root and schedules its tick.
type Server struct {
	mu sync.Mutex

	sampleRate     float64
	blockSize      int
	outputChannels int

	tick int64

	final *graph.Node

	outputDevice *portaudio.DeviceInfo
	outputStream *portaudio.Stream
	interleaved  []float32

	running atomic.Bool

	tap func(planar [][]float32)
}

// SetTap installs a callback invoked with the final node's planar
// output after every Tick, letting a caller (e.g. the monitor FFT
// analyzer) observe the rendered signal. tap runs inline at the end of
// Tick, under the server's lock and on the render callback's thread, so
// it must not block or allocate heavily.
func (s *Server) SetTap(tap func(planar [][]float32)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tap = tap
}

// NewServer creates a Server rendering final's output at the rates cfg
// describes. final's output channel count must equal
// cfg.Engine.OutputChannels; a Panner or Attenuator upstream of it is
// responsible for getting the channel count there.
func NewServer(cfg *config.Config, final *graph.Node) (*Server, error) {
	if got := len(final.Outputs()); got != cfg.Engine.OutputChannels {
		return nil, fmt.Errorf("engine: final node has %d output channels, want %d", got, cfg.Engine.OutputChannels)
	}
	s := &Server{
		sampleRate:     cfg.Engine.SampleRate,
		blockSize:      cfg.Engine.BlockSize,
		outputChannels: cfg.Engine.OutputChannels,
		final:          final,
		interleaved:    make([]float32, cfg.Engine.BlockSize*cfg.Engine.OutputChannels),
	}
	return s, nil
}

// SampleRate and BlockSize report the engine's fixed render parameters.
func (s *Server) SampleRate() float64 { return s.sampleRate }
func (s *Server) BlockSize() int      { return s.blockSize }

// Connect wires producer's output into consumer's input under the
// server's lock, so it can never race with a concurrently running
// render callback walking the same graph.
func (s *Server) Connect(producer, consumer *graph.Node, enableMixing bool) (*graph.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.Connect(producer, consumer, enableMixing)
}

// ConnectProperty is the property-connection analogue of Connect.
func (s *Server) ConnectProperty(producer, owner *graph.Node, target *property.Property) (*graph.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.ConnectProperty(producer, owner, target)
}

// Tick runs one block of the graph under the server's lock and returns
// the final node's rendered output for that block.
func (s *Server) Tick() [][]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := &graph.TickContext{
		Tick:        s.tick,
		BlockSize:   s.blockSize,
		SampleRate:  s.sampleRate,
		GlobalStart: s.tick * int64(s.blockSize),
	}
	s.final.Tick(ctx)
	s.tick++
	out := s.final.Outputs()
	if s.tap != nil {
		s.tap(out)
	}
	return out
}

// interleaveOutput packs the final node's planar output into PortAudio's
// interleaved sample order.
func (s *Server) interleaveOutput(planar [][]float32) {
	ch := len(planar)
	for frame := 0; frame < s.blockSize; frame++ {
		for c := 0; c < ch; c++ {
			s.interleaved[frame*ch+c] = planar[c][frame]
		}
	}
}

// Start opens and begins a PortAudio output stream against deviceID (-1
// for the system default), pulling rendered blocks from Tick.
func (s *Server) Start(deviceID int, lowLatency bool) error {
	device, err := outputDeviceByID(deviceID)
	if err != nil {
		return err
	}
	s.outputDevice = device

	latency := device.DefaultHighOutputLatency
	if lowLatency {
		latency = device.DefaultLowOutputLatency
	}

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Channels: s.outputChannels,
			Device:   device,
			Latency:  latency,
		},
		FramesPerBuffer: s.blockSize,
		SampleRate:      s.sampleRate,
	}

	stream, err := portaudio.OpenStream(params, s.renderCallback)
	if err != nil {
		return err
	}
	s.outputStream = stream
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}
	s.running.Store(true)
	log.Infof("engine: output stream started on %q at %v Hz, block %d", device.Name, s.sampleRate, s.blockSize)
	return nil
}

// Stop halts and closes the output stream. It is safe to call more than
// once; the second call is a no-op.
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.outputStream == nil {
		return nil
	}
	if err := s.outputStream.Stop(); err != nil {
		return err
	}
	return s.outputStream.Close()
}

// renderCallback is PortAudio's audio thread entry point: it must not
// allocate and must not block beyond Tick's own lock acquisition.
func (s *Server) renderCallback(out []float32) {
	runtime.LockOSThread()
	planar := s.Tick()
	s.interleaveOutput(planar)
	copy(out, s.interleaved)
}

func outputDeviceByID(id int) (*portaudio.DeviceInfo, error) {
	if id == config.MinDeviceID {
		return portaudio.DefaultOutputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if id < 0 || id >= len(devices) {
		return nil, fmt.Errorf("engine: output device id %d out of range", id)
	}
	return devices[id], nil
}

// SPDX-License-Identifier: MIT
package monitor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"auragraph/internal/log"
)

// UDPSender owns a connected UDP socket and sends pre-built packets to
// whatever address it was dialed with.
type UDPSender struct {
	conn   *net.UDPConn
	mu     sync.Mutex
	closed bool
}

// NewUDPSender dials targetAddress ("host:port") for sending.
func NewUDPSender(targetAddress string) (*UDPSender, error) {
	addr, err := net.ResolveUDPAddr("udp", targetAddress)
	if err != nil {
		return nil, fmt.Errorf("monitor: resolve udp target %q: %w", targetAddress, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("monitor: dial udp %q: %w", targetAddress, err)
	}
	return &UDPSender{conn: conn}, nil
}

// Send transmits data as a single UDP datagram.
func (s *UDPSender) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("monitor: udp sender is closed")
	}
	_, err := s.conn.Write(data)
	return err
}

// Close closes the underlying socket. Safe to call more than once.
func (s *UDPSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// UDPPublisher implements Transport by packing each magnitude spectrum
// into the same sequence-number/timestamp/count/payload binary layout
// the teacher's UDP publisher uses and sending it with a UDPSender.
// Unlike the teacher's version, which polls an analysis.FFTProcessor on
// its own ticker, this one sends synchronously from Send — the
// Analyzer already throttles calls to one per completed FFT window, so
// a second ticker would only add latency.
type UDPPublisher struct {
	sender      *UDPSender
	sequenceNum uint32
	buf         bytes.Buffer
	f32         []float32
}

// NewUDPPublisher wraps sender for magnitude publishing.
func NewUDPPublisher(sender *UDPSender) *UDPPublisher {
	return &UDPPublisher{sender: sender}
}

// Send packs and transmits one magnitude spectrum.
func (p *UDPPublisher) Send(magnitudes []float64) error {
	if cap(p.f32) < len(magnitudes) {
		p.f32 = make([]float32, len(magnitudes))
	}
	p.f32 = p.f32[:len(magnitudes)]
	for i, v := range magnitudes {
		p.f32[i] = float32(v)
	}

	p.sequenceNum++
	p.buf.Reset()

	var err error
	write := func(v interface{}) {
		if err == nil {
			err = binary.Write(&p.buf, binary.BigEndian, v)
		}
	}
	write(p.sequenceNum)
	write(time.Now().UnixNano())
	write(uint16(len(p.f32)))
	write(p.f32)
	if err != nil {
		return fmt.Errorf("monitor: pack udp packet: %w", err)
	}

	if err := p.sender.Send(p.buf.Bytes()); err != nil {
		log.Errorf("monitor: udp send failed: %v", err)
		return err
	}
	return nil
}

// Close releases the underlying sender.
func (p *UDPPublisher) Close() error {
	return p.sender.Close()
}

package monitor

import (
	"encoding/binary"
	"net"
	"testing"
	"time"
)

func TestUDPPublisherPacketFormat(t *testing.T) {
	addr, err := net.ResolveUDPAddr("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	sender, err := NewUDPSender(conn.LocalAddr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer sender.Close()

	pub := NewUDPPublisher(sender)
	magnitudes := []float64{1.0, 2.0, 3.0}
	if err := pub.Send(magnitudes); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 1500)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n < 4+8+2 {
		t.Fatalf("packet too short: %d bytes", n)
	}

	seq := binary.BigEndian.Uint32(buf[0:4])
	if seq != 1 {
		t.Fatalf("sequence number = %d, want 1", seq)
	}
	count := binary.BigEndian.Uint16(buf[12:14])
	if int(count) != len(magnitudes) {
		t.Fatalf("magnitude count = %d, want %d", count, len(magnitudes))
	}
	if n != 14+int(count)*4 {
		t.Fatalf("packet length = %d, want %d", n, 14+int(count)*4)
	}
}

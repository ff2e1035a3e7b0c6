package testhelpers

import (
	"net"
	"sync"
	"time"

	"github.com/openverso/nrue-if/pkg/fapi"
)

// MockProxy simulates the remote PHY proxy for testing: it pushes slot
// ticks and downlink messages at the UE's receive socket and collects
// whatever the UE sends back.
type MockProxy struct {
	conn    *net.UDPConn
	target  *net.UDPAddr
	mu      sync.RWMutex
	packets [][]byte
	closed  bool
}

// NewMockProxy creates a proxy bound to an ephemeral local port
func NewMockProxy() (*MockProxy, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		return nil, err
	}
	return &MockProxy{
		conn:    conn,
		packets: make([][]byte, 0),
	}, nil
}

// Port returns the proxy's listening port, for the UE's tx_port setting
func (p *MockProxy) Port() int {
	return p.conn.LocalAddr().(*net.UDPAddr).Port
}

// SetTarget points the proxy at the UE's receive socket
func (p *MockProxy) SetTarget(addr *net.UDPAddr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = addr
}

// SendSlotTick pushes one packed slot tick at the UE
func (p *MockProxy) SendSlotTick(sfn uint16, slot uint8) error {
	return p.sendRaw(fapi.NewSfnSlot(sfn, slot).Bytes())
}

// SendDLTTI pushes a DL_TTI.request at the UE
func (p *MockProxy) SendDLTTI(req *fapi.DLTTIRequest) error {
	data, err := req.Encode()
	if err != nil {
		return err
	}
	return p.sendRaw(data)
}

// SendRaw pushes arbitrary bytes at the UE
func (p *MockProxy) SendRaw(data []byte) error {
	return p.sendRaw(data)
}

func (p *MockProxy) sendRaw(data []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, err := p.conn.WriteToUDP(data, p.target)
	return err
}

// StartReceiving collects packets the UE sends to the proxy until Close
func (p *MockProxy) StartReceiving() {
	go func() {
		buf := make([]byte, fapi.MaxPackedMessageSize)
		for {
			p.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
			n, _, err := p.conn.ReadFromUDP(buf)
			if err != nil {
				p.mu.RLock()
				closed := p.closed
				p.mu.RUnlock()
				if closed {
					return
				}
				continue
			}
			packet := make([]byte, n)
			copy(packet, buf[:n])
			p.mu.Lock()
			p.packets = append(p.packets, packet)
			p.mu.Unlock()
		}
	}()
}

// ReceivedPackets returns a copy of everything collected so far
func (p *MockProxy) ReceivedPackets() [][]byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([][]byte, len(p.packets))
	copy(out, p.packets)
	return out
}

// WaitForPackets polls until at least n packets arrived or the timeout
// expires, and reports whether the count was reached
func (p *MockProxy) WaitForPackets(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(p.ReceivedPackets()) >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return len(p.ReceivedPackets()) >= n
}

// Close shuts the proxy socket down
func (p *MockProxy) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return p.conn.Close()
}

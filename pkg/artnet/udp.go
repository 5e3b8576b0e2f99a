package artnet

import (
	"fmt"
	"net"
)

// Sender transmits encoded Art-Net packets. A real UDP socket and a
// fake in-memory sender both satisfy this, so the render pipeline can
// be tested without a network.
type Sender interface {
	Send(targetIP string, packet []byte) error
}

// UDPSender sends over a real UDP socket bound to the Art-Net port.
type UDPSender struct {
	conn *net.UDPConn
}

// NewUDPSender binds a UDP socket on the Art-Net port for sending.
func NewUDPSender() (*UDPSender, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: Port})
	if err != nil {
		return nil, fmt.Errorf("artnet: could not bind udp socket: %w", err)
	}
	return &UDPSender{conn: conn}, nil
}

// Send transmits packet to targetIP:6454.
func (s *UDPSender) Send(targetIP string, packet []byte) error {
	addr := &net.UDPAddr{IP: net.ParseIP(targetIP), Port: Port}
	_, err := s.conn.WriteToUDP(packet, addr)
	return err
}

// Close releases the underlying socket.
func (s *UDPSender) Close() error {
	return s.conn.Close()
}

// broadcastAddress returns the subnet broadcast address of targetIP under
// mask, or targetIP unchanged when it is not an IPv4 address or mask is
// nil. Output has no broadcast toggle and SendOutput does not call this:
// packets always go to Output.TargetIP.
func broadcastAddress(targetIP string, mask net.IPMask) string {
	ip := net.ParseIP(targetIP).To4()
	if ip == nil || mask == nil {
		return targetIP
	}
	broadcast := make(net.IP, len(ip))
	for i := range ip {
		broadcast[i] = ip[i] | ^mask[i]
	}
	return broadcast.String()
}

// SendOutput encodes and sends the DMX payload for one output, splitting
// across as many universes as the payload needs (512 bytes per
// universe), incrementing seq for each universe sent.
func SendOutput(sender Sender, o *Output, seq *uint8, physical uint8, data []byte) error {
	const maxChannelsPerUniverse = 512

	universe := uint16(o.StartUniverse)
	for offset := 0; offset < len(data); offset += maxChannelsPerUniverse {
		end := offset + maxChannelsPerUniverse
		if end > len(data) {
			end = len(data)
		}
		addr := Address{
			Net:      uint8((universe >> 8) & 0x7f),
			Subnet:   uint8(o.Subnet & 0x0f),
			Universe: uint8(universe & 0x0f),
		}
		packet := EncodeArtDMX(addr, *seq, physical, data[offset:end])
		if err := sender.Send(o.TargetIP, packet); err != nil {
			return fmt.Errorf("artnet: send to output %q failed: %w", o.ID, err)
		}
		*seq++
		universe++
	}
	return nil
}

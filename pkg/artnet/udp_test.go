package artnet

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []struct {
		ip     string
		packet []byte
	}
}

func (r *recordingSender) Send(targetIP string, packet []byte) error {
	r.sent = append(r.sent, struct {
		ip     string
		packet []byte
	}{targetIP, append([]byte(nil), packet...)})
	return nil
}

func TestSendOutputSingleUniverse(t *testing.T) {
	sender := &recordingSender{}
	o := &Output{ID: "out1", TargetIP: "10.0.0.5", StartUniverse: 2}
	seq := uint8(0)

	err := SendOutput(sender, o, &seq, 0, []byte{1, 2, 3})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "10.0.0.5", sender.sent[0].ip)
	assert.Equal(t, uint8(1), seq)
}

func TestSendOutputSplitsAcrossUniverses(t *testing.T) {
	sender := &recordingSender{}
	o := &Output{ID: "out1", TargetIP: "10.0.0.5", StartUniverse: 0}
	seq := uint8(0)

	data := make([]byte, 1025) // spans three universes: 512 + 512 + 1
	err := SendOutput(sender, o, &seq, 0, data)
	require.NoError(t, err)

	require.Len(t, sender.sent, 3)
	assert.Equal(t, uint8(3), seq)

	// Each packet's universe low byte increments.
	assert.Equal(t, byte(0), sender.sent[0].packet[14])
	assert.Equal(t, byte(1), sender.sent[1].packet[14])
	assert.Equal(t, byte(2), sender.sent[2].packet[14])
}

type failingSender struct{}

func (failingSender) Send(targetIP string, packet []byte) error {
	return assert.AnError
}

func TestSendOutputPropagatesSendError(t *testing.T) {
	o := &Output{ID: "out1", TargetIP: "10.0.0.5"}
	seq := uint8(0)
	err := SendOutput(failingSender{}, o, &seq, 0, []byte{1})
	assert.Error(t, err)
}

func TestBroadcastAddress(t *testing.T) {
	mask := net.CIDRMask(24, 32)
	assert.Equal(t, "10.0.0.255", broadcastAddress("10.0.0.5", mask))
	assert.Equal(t, "not-an-ip", broadcastAddress("not-an-ip", mask))
}

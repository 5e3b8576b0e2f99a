package artnet

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenbridge/pkg/frame"
)

type fakeSender struct {
	mu   sync.Mutex
	sent [][]byte
}

func (f *fakeSender) Send(targetIP string, packet []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, packet)
	return nil
}

func TestRouterPublishSendsEachActiveOutput(t *testing.T) {
	sender := &fakeSender{}
	r := NewRouter(sender, nil)

	o := &Output{
		ID: "a", Active: true, FPS: 0,
		AssignedObjects: []*Object{{ID: "obj1", Points: []Point{{X: 0, Y: 0}}, LEDType: LEDRGB}},
	}
	r.SetOutput(o)

	canvas := frame.New(1, 1)
	canvas.Fill(10, 20, 30)

	r.Publish(canvas)

	assert.Len(t, sender.sent, 1)
}

func TestRouterSkipsInactiveOutputs(t *testing.T) {
	sender := &fakeSender{}
	r := NewRouter(sender, nil)

	o := &Output{ID: "b", Active: false}
	r.SetOutput(o)

	r.Publish(frame.New(1, 1))
	assert.Empty(t, sender.sent)
}

func TestRouterRemoveOutput(t *testing.T) {
	r := NewRouter(&fakeSender{}, nil)
	r.SetOutput(&Output{ID: "c", Active: true})
	require.Len(t, r.Outputs(), 1)
	r.RemoveOutput("c")
	assert.Empty(t, r.Outputs())
}

package effectchain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"lumenbridge/pkg/frame"
	"lumenbridge/pkg/paramval"
	"lumenbridge/pkg/plugin"
)

type recordingEffect struct {
	tag    uint8
	failOn int
	calls  int
}

func (e *recordingEffect) Initialize(map[string]paramval.Value) error { return nil }

func (e *recordingEffect) Process(f *frame.Frame, _ plugin.Context) (*frame.Frame, error) {
	e.calls++
	if e.failOn != 0 && e.calls == e.failOn {
		return nil, fmt.Errorf("boom")
	}
	out := f.Clone()
	out.Fill(e.tag, e.tag, e.tag)
	return out, nil
}

func (e *recordingEffect) Cleanup() {}

func TestChainAppliesInOrder(t *testing.T) {
	c := New(nil)
	c.Set([]Entry{
		{ID: "a", Instance: &recordingEffect{tag: 10}},
		{ID: "b", Instance: &recordingEffect{tag: 20}},
	})

	out := c.Run(frame.New(2, 2), plugin.Context{})
	r, _, _ := out.At(0, 0)
	assert.Equal(t, uint8(20), r, "last effect's output wins")
}

func TestChainSkipsFaultingEffect(t *testing.T) {
	c := New(nil)
	c.Set([]Entry{
		{ID: "ok-first", Instance: &recordingEffect{tag: 5}},
		{ID: "faulty", Instance: &recordingEffect{tag: 99, failOn: 1}},
		{ID: "ok-last", Instance: &recordingEffect{tag: 7}},
	})

	out := c.Run(frame.New(2, 2), plugin.Context{})
	r, _, _ := out.At(0, 0)
	assert.Equal(t, uint8(7), r, "chain continues past a faulting effect")
	assert.Equal(t, 1, c.FaultCount("faulty"))
}

func TestChainEntriesSnapshotIsIndependent(t *testing.T) {
	c := New(nil)
	c.Set([]Entry{{ID: "a", Instance: &recordingEffect{}}})

	snap := c.Entries()
	c.Set(nil)
	assert.Len(t, snap, 1, "snapshot unaffected by later Set")
}

type faultyAlwaysFails struct{}

func (faultyAlwaysFails) Initialize(map[string]paramval.Value) error { return nil }
func (faultyAlwaysFails) Process(*frame.Frame, plugin.Context) (*frame.Frame, error) {
	return nil, fmt.Errorf("always fails")
}
func (faultyAlwaysFails) Cleanup() {}

func TestFaultThrottleCountsEveryFault(t *testing.T) {
	c := New(nil)
	c.throttle.every = 3
	c.Set([]Entry{{ID: "x", Instance: faultyAlwaysFails{}}})

	for i := 0; i < 7; i++ {
		c.Run(frame.New(1, 1), plugin.Context{})
	}
	assert.Equal(t, 7, c.FaultCount("x"))
}

package machine

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	lines  []string
	failAt int
	onLine func()
}

func (f *fakeAdapter) Write(p []byte) (int, error) {
	if f.failAt > 0 && len(f.lines)+1 == f.failAt {
		return 0, errors.New("Error:Printer halted")
	}
	f.lines = append(f.lines, string(p))
	if f.onLine != nil {
		f.onLine()
	}
	return len(p), nil
}
func (f *fakeAdapter) Close() error { return nil }

const job = `; Start of generated code
M862.3 P "MK;3S" ; printer model check
G21 ; Set units to millimeters

G0 X1.0 Y2.0 F3000.0
M117 50.0%  R00:00:10
M84 ; Disable motors
`

func TestMachine_Run(t *testing.T) {
	a := &fakeAdapter{}
	m := NewMachine(a)

	n, err := m.Run(context.Background(), strings.NewReader(job))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{
		"M862.3 P \"MK;3S\"\n",
		"G21\n",
		"G0 X1.0 Y2.0 F3000.0\n",
		"M117 50.0%  R00:00:10\n",
		"M84\n",
	}, a.lines)

	select {
	case p := <-m.Progress():
		assert.Equal(t, Progress{Line: 6, Message: "50.0%  R00:00:10"}, p)
	default:
		t.Fatal("no progress published")
	}
}

func TestMachine_Run_Error(t *testing.T) {
	a := &fakeAdapter{failAt: 2}
	m := NewMachine(a)

	n, err := m.Run(context.Background(), strings.NewReader(job))
	assert.EqualError(t, err, "line 3: Error:Printer halted")
	assert.Equal(t, 1, n)
}

func TestMachine_Run_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &fakeAdapter{onLine: cancel}
	m := NewMachine(a)

	n, err := m.Run(ctx, strings.NewReader(job))
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, 1, n)
}

func TestMachine_Run_Busy(t *testing.T) {
	m := NewMachine(&fakeAdapter{})
	m.running = 1

	_, err := m.Run(context.Background(), strings.NewReader(job))
	assert.Equal(t, ErrBusy, err)
}

func TestStripComment(t *testing.T) {
	assert.Equal(t, "G21 ", stripComment("G21 ; units"))
	assert.Equal(t, `M117 "a;b" `, stripComment(`M117 "a;b" ; x`))
	assert.Equal(t, "", stripComment("; all comment"))
	assert.Equal(t, "G28 W", stripComment("G28 W"))
}

// stalledAdapter never acknowledges a line until it is closed.
type stalledAdapter struct {
	writing chan struct{}
	closed  chan struct{}
	once    sync.Once
}

func newStalledAdapter() *stalledAdapter {
	return &stalledAdapter{writing: make(chan struct{}, 1), closed: make(chan struct{})}
}

func (s *stalledAdapter) Write(p []byte) (int, error) {
	select {
	case s.writing <- struct{}{}:
	default:
	}
	<-s.closed
	return 0, io.ErrClosedPipe
}
func (s *stalledAdapter) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func TestMachine_Run_CancelBlocked(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := newStalledAdapter()
	m := NewMachine(a)

	type result struct {
		n   int
		err error
	}
	res := make(chan result, 1)
	go func() {
		n, err := m.Run(ctx, strings.NewReader(job))
		res <- result{n, err}
	}()

	<-a.writing
	cancel()

	select {
	case r := <-res:
		assert.Equal(t, context.Canceled, r.err)
		assert.Equal(t, 0, r.n)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestMachine_Close(t *testing.T) {
	a := newStalledAdapter()
	m := NewMachine(a)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	select {
	case _, ok := <-m.Progress():
		assert.False(t, ok, "progress channel closed")
	case <-time.After(2 * time.Second):
		t.Fatal("progress channel not closed")
	}
	select {
	case <-a.closed:
	default:
		t.Fatal("adapter not closed")
	}

	// publishing after Close is dropped
	m.publish(Progress{Line: 1, Message: "late"})
}

// Package machine streams generated G-code to a printer.
package machine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrBusy is returned by Run if another job is already streaming.
var ErrBusy = errors.New("machine busy")

// An Adapter represents the minimal printer interface.
//
// Write must not return until every line in p has been acknowledged.
type Adapter interface {
	Write(p []byte) (int, error)
	Close() error
}

// Progress is published for every display message sent to the printer.
type Progress struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type Machine struct {
	Adapter

	running  int32
	progress chan Progress

	mx     sync.Mutex
	closed bool
}

func NewMachine(a Adapter) *Machine {
	return &Machine{
		Adapter:  a,
		progress: make(chan Progress, 16),
	}
}

// Progress returns the channel progress events are published on. Events are
// dropped if nobody is listening. The channel is closed by Close.
func (m *Machine) Progress() chan Progress {
	return m.progress
}

func (m *Machine) publish(p Progress) {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.closed {
		return
	}
	select {
	case m.progress <- p:
	default:
	}
}

// Close closes the Progress channel and the Adapter.
func (m *Machine) Close() error {
	m.mx.Lock()
	if !m.closed {
		m.closed = true
		close(m.progress)
	}
	m.mx.Unlock()

	return m.Adapter.Close()
}

// stripComment removes a trailing ';' comment that is not inside a
// quoted string.
func stripComment(line string) string {
	quoted := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return line[:i]
			}
		}
	}
	return line
}

// Run sends each instruction in r to the printer, one line at a time, and
// returns the number of instructions sent. Comments and blank lines are
// skipped.
//
// Cancelling ctx closes the Adapter to abort a pending write, leaving the
// Machine unusable.
func (m *Machine) Run(ctx context.Context, r io.Reader) (int, error) {
	if !atomic.CompareAndSwapInt32(&m.running, 0, 1) {
		return 0, ErrBusy
	}
	defer atomic.StoreInt32(&m.running, 0)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.Adapter.Close()
		case <-done:
		}
	}()

	var sent int
	s := bufio.NewScanner(r)
	for lineNum := 1; s.Scan(); lineNum++ {
		line := strings.TrimSpace(stripComment(s.Text()))
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		_, err := m.Adapter.Write([]byte(line + "\n"))
		if err != nil {
			if ctx.Err() != nil {
				return sent, ctx.Err()
			}
			return sent, fmt.Errorf("line %d: %w", lineNum, err)
		}
		sent++

		if strings.HasPrefix(line, "M117 ") {
			m.publish(Progress{Line: lineNum, Message: strings.TrimPrefix(line, "M117 ")})
		}
	}

	return sent, s.Err()
}

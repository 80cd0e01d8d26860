// Package marlin talks to printers running Marlin-style firmware.
package marlin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mastercactapus/dotplot/machine"
)

// ErrReset will be returned from write methods if the printer restarts
// before all commands are acknowledged.
var ErrReset = errors.New("printer reset")

// Conn represents a direct connection to a printer. Each line is sent
// only after the previous one has been acknowledged with "ok".
type Conn struct {
	rw io.ReadWriter

	ackCh   chan error
	resetCh chan struct{}
	closeCh chan struct{}
	readCh  chan struct{}
	readErr error

	waiting int32
	wMx     sync.Mutex
	close   sync.Once
}

var _ machine.Adapter = &Conn{}

// NewConn creates a new Conn using the provided ReadWriter for data.
func NewConn(rw io.ReadWriter) *Conn {
	c := &Conn{
		rw:      rw,
		ackCh:   make(chan error),
		resetCh: make(chan struct{}, 1),
		closeCh: make(chan struct{}),
		readCh:  make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Close will abort any in-progress writes and close the
// underlying ReadWriter, if it implements io.Closer.
func (c *Conn) Close() (err error) {
	c.close.Do(func() {
		close(c.closeCh)
		if closer, ok := c.rw.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.readCh)

	var pending error
	scan := bufio.NewScanner(c.rw)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		switch {
		case strings.HasPrefix(line, "ok"):
			err := pending
			pending = nil
			if atomic.LoadInt32(&c.waiting) == 0 {
				// unsolicited
				continue
			}
			select {
			case c.ackCh <- err:
			case <-c.closeCh:
				return
			}
		case strings.HasPrefix(line, "Error:"):
			if pending == nil {
				pending = errors.New(line)
			}
		case line == "start":
			pending = nil
			select {
			case c.resetCh <- struct{}{}:
			default:
			}
		}
	}

	c.readErr = scan.Err()
	if c.readErr == nil {
		c.readErr = io.ErrUnexpectedEOF
	}
}

// WaitStart blocks until the printer reports that it has booted.
func (c *Conn) WaitStart(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closeCh:
		return io.ErrClosedPipe
	case <-c.readCh:
		return c.readErr
	case <-c.resetCh:
		return nil
	}
}

func (c *Conn) wait() error {
	select {
	case <-c.closeCh:
		return io.ErrClosedPipe
	case <-c.resetCh:
		return ErrReset
	case <-c.readCh:
		return c.readErr
	case err := <-c.ackCh:
		return err
	}
}

func (c *Conn) writeLine(line []byte) error {
	atomic.StoreInt32(&c.waiting, 1)
	defer atomic.StoreInt32(&c.waiting, 0)

	_, err := c.rw.Write(line)
	if err != nil {
		return err
	}
	return c.wait()
}

// Write sends each line in p and returns after all of them have been
// acknowledged. An error reported by the printer stops at that line.
func (c *Conn) Write(p []byte) (n int, err error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()

	select {
	case <-c.closeCh:
		return 0, io.ErrClosedPipe
	default:
	}

	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		var line []byte
		if i < 0 {
			line, p = append(p[:len(p):len(p)], '\n'), nil
		} else {
			line, p = p[:i+1], p[i+1:]
		}
		if len(bytes.TrimSpace(line)) > 0 {
			err = c.writeLine(line)
			if err != nil {
				return n, err
			}
		}
		if i < 0 {
			n += len(line) - 1
		} else {
			n += len(line)
		}
	}

	return n, nil
}

package marlin

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mastercactapus/dotplot/machine"
	"github.com/mastercactapus/dotplot/spjs"
)

// ErrWipedQueue is returned for commands that were dropped by the server.
var ErrWipedQueue = errors.New("wiped queue")

var lastID int64

func nextID() string {
	id := atomic.AddInt64(&lastID, 1)
	return "cmd_" + strconv.FormatInt(id, 36)
}

// SPJSAdapter streams to a printer attached to a Serial Port JSON Server.
type SPJSAdapter struct {
	sp   *spjs.SPJS
	port string
	baud int

	cmds    chan adapterMessage
	waiting map[string]chan error
	closeCh chan struct{}
	close   sync.Once
}

var _ machine.Adapter = &SPJSAdapter{}

type adapterMessage struct {
	spjs.JSON
	wait chan error
}

func NewSPJSAdapter(sp *spjs.SPJS, port string, baud int) *SPJSAdapter {
	adapter := &SPJSAdapter{
		sp:      sp,
		port:    port,
		baud:    baud,
		waiting: make(map[string]chan error, 100),
		cmds:    make(chan adapterMessage, 1000),
		closeCh: make(chan struct{}),
	}
	go adapter.loop()

	return adapter
}

func (adapter *SPJSAdapter) failAll(err error) {
	for key, ch := range adapter.waiting {
		ch <- err
		delete(adapter.waiting, key)
	}
}

func (adapter *SPJSAdapter) loop() {
	for {
		select {
		case <-adapter.closeCh:
			adapter.failAll(io.ErrClosedPipe)
			return
		case resp := <-adapter.sp.Messages():
			switch msg := resp.(type) {
			case *spjs.ErrorMessage:
				log.Println("ERROR: spjs:", msg.Error)
			case *spjs.DataFrame:
				if msg.Port == adapter.port && strings.TrimSpace(msg.Data) == "start" {
					adapter.failAll(ErrReset)
				}
			case *spjs.CmdStatus:
				switch msg.Cmd {
				case "WipedQueue":
					adapter.failAll(ErrWipedQueue)
				case "Complete":
					if adapter.waiting[msg.ID] != nil {
						adapter.waiting[msg.ID] <- nil
						delete(adapter.waiting, msg.ID)
					}
				}
			case *spjs.SerialPortList:
				for _, port := range msg.SerialPorts {
					if port.Name != adapter.port || port.IsOpen {
						continue
					}
					go adapter.sp.WriteString("open " + adapter.port + " " + strconv.Itoa(adapter.baud) + " marlin")
				}
			}
		case msg := <-adapter.cmds:
			err := adapter.sp.SendJSON(msg.JSON)
			if err != nil {
				msg.wait <- err
				continue
			}
			adapter.waiting[msg.Data[len(msg.Data)-1].ID] = msg.wait
		}
	}
}

// ReadFrom sends r in batches and returns once the last line has completed.
func (adapter *SPJSAdapter) ReadFrom(r io.Reader) (n int64, err error) {
	scan := bufio.NewScanner(r)
	var wait chan error
	for {
		var j spjs.JSON
		j.Port = adapter.port
		for scan.Scan() {
			line := strings.TrimSpace(scan.Text())
			if line == "" {
				continue
			}
			n += int64(len(scan.Bytes()))
			j.Data = append(j.Data, spjs.Data{
				Data: line + "\n",
				ID:   nextID(),
			})
			if len(j.Data) == 100 {
				break
			}
		}
		if len(j.Data) == 0 {
			break
		}
		wait = make(chan error, 1)
		select {
		case adapter.cmds <- adapterMessage{JSON: j, wait: wait}:
		case <-adapter.closeCh:
			return n, io.ErrClosedPipe
		}
	}

	if wait == nil {
		return 0, scan.Err()
	}

	// wait for last batch
	select {
	case err = <-wait:
		return n, err
	case <-adapter.closeCh:
		return n, io.ErrClosedPipe
	}
}

func (adapter *SPJSAdapter) Write(p []byte) (int, error) {
	n, err := adapter.ReadFrom(bytes.NewReader(p))
	return int(n), err
}

// Close stops the adapter. The SPJS client is left open.
func (adapter *SPJSAdapter) Close() error {
	adapter.close.Do(func() { close(adapter.closeCh) })
	return nil
}

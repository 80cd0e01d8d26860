// Package spjs is a client for the Serial Port JSON Server websocket API.
package spjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned when writing to a closed SPJS client.
var ErrClosed = errors.New("spjs: closed")

// ReconnectDelay is the pause between failed connection attempts.
var ReconnectDelay = 3 * time.Second

// SPJS is a client for a Serial Port JSON Server. It reconnects
// until closed.
type SPJS struct {
	url string

	outgoing chan message
	incoming chan interface{}

	closeOnce sync.Once
	closeCh   chan struct{}
}

type message struct {
	done    chan struct{}
	payload []byte
}

// DataFrame is raw output read from a port.
type DataFrame struct {
	Port string `json:"P"`
	Data string `json:"D"`
}

// CmdStatus reports the progress of a queued command, e.g. "Queued",
// "Write", "Complete" or "WipedQueue".
type CmdStatus struct {
	Cmd        string
	QueueCount int `json:"QCnt"`
	Type       []string
	Data       []string `json:"D"`
	ID         string   `json:"Id"`
}

type ErrorMessage struct {
	Error string
}

type SerialPortList struct {
	SerialPorts []SerialPort
}

type SerialPort struct {
	Name            string
	Friendly        string
	IsOpen          bool
	Baud            int
	BufferAlgorithm string
}

// JSON is the payload of a "sendjson" command.
type JSON struct {
	Port string `json:"P"`
	Data []Data
}

type Data struct {
	Data string `json:"D"`
	ID   string `json:"Id"`
}

func NewSPJS(url string) *SPJS {
	sp := &SPJS{
		url:      url,
		outgoing: make(chan message, 1000),
		incoming: make(chan interface{}, 1000),
		closeCh:  make(chan struct{}),
	}

	go sp.loop()

	return sp
}

// Messages returns decoded server messages: *DataFrame, *CmdStatus,
// *SerialPortList or *ErrorMessage.
func (sp *SPJS) Messages() chan interface{} {
	return sp.incoming
}

// Close disconnects and stops reconnecting.
func (sp *SPJS) Close() error {
	sp.closeOnce.Do(func() { close(sp.closeCh) })
	return nil
}

// decode picks the message type by the first distinguishing key present.
func decode(data []byte) (interface{}, error) {
	var keys map[string]json.RawMessage
	err := json.Unmarshal(data, &keys)
	if err != nil {
		return nil, err
	}

	var val interface{}
	switch {
	case keys["Error"] != nil:
		val = &ErrorMessage{}
	case keys["SerialPorts"] != nil:
		val = &SerialPortList{}
	case keys["Type"] != nil:
		val = &CmdStatus{}
	case keys["D"] != nil:
		val = &DataFrame{}
	default:
		return nil, errors.New("unknown message: " + string(data))
	}

	err = json.Unmarshal(data, val)
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (sp *SPJS) readLoop(ws *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			log.Println("ERROR: read:", err)
			return
		}
		if !bytes.HasPrefix(data, []byte("{")) {
			// ignore echo messages
			continue
		}
		val, err := decode(data)
		if err != nil {
			log.Println("ERROR: parse:", err)
			continue
		}
		select {
		case sp.incoming <- val:
		case <-sp.closeCh:
			return
		}
	}
}

func (sp *SPJS) dial() (*websocket.Conn, bool) {
	for {
		log.Println("Connecting to", sp.url)
		ws, _, err := websocket.DefaultDialer.Dial(sp.url, nil)
		if err == nil {
			log.Println("Connected.")
			return ws, true
		}

		log.Println("ERROR: connect:", err)
		select {
		case <-sp.closeCh:
			return nil, false
		case <-time.After(ReconnectDelay):
		}
	}
}

// serve writes queued messages to ws until the connection drops or the
// client is closed. The message being sent when the connection drops is
// kept in pending for the next connection.
func (sp *SPJS) serve(ws *websocket.Conn, pending *message) bool {
	defer ws.Close()

	readDone := make(chan struct{})
	go sp.readLoop(ws, readDone)
	go sp.WriteString("list") // refresh list on reconnect

	for {
		if pending.done != nil {
			err := ws.WriteMessage(websocket.TextMessage, pending.payload)
			if err != nil {
				log.Println("ERROR: send:", err)
				return true
			}
			close(pending.done)
			pending.done = nil
		}

		select {
		case <-sp.closeCh:
			return false
		case <-readDone:
			return true
		case *pending = <-sp.outgoing:
		}
	}
}

func (sp *SPJS) loop() {
	var pending message
	for {
		ws, ok := sp.dial()
		if !ok || !sp.serve(ws, &pending) {
			return
		}
	}
}

// SendJSON queues data for a port and returns once it has been sent
// to the server.
func (sp *SPJS) SendJSON(v JSON) error {
	data, err := json.Marshal(v)
	if err != nil {
		// shouldn't happen since we control everything that's sent out
		log.Panicln("ERROR: sendjson (marshal):", err)
	}

	return sp.send(append([]byte("sendjson "), data...))
}

// WriteString sends a raw server command such as "list".
func (sp *SPJS) WriteString(data string) error {
	return sp.send([]byte(data))
}

func (sp *SPJS) send(payload []byte) error {
	select {
	case <-sp.closeCh:
		return ErrClosed
	default:
	}

	ch := make(chan struct{})
	select {
	case sp.outgoing <- message{done: ch, payload: payload}:
	case <-sp.closeCh:
		return ErrClosed
	}
	select {
	case <-ch:
		return nil
	case <-sp.closeCh:
		return ErrClosed
	}
}

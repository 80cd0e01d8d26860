package marlin

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tarm/serial"
)

// StartTimeout is how long OpenSerial waits for the boot banner.
var StartTimeout = 5 * time.Second

// OpenSerial opens a printer on a local serial port.
//
// Opening the port usually resets the controller; if no "start" banner
// arrives within StartTimeout the printer is assumed to already be idle.
func OpenSerial(ctx context.Context, name string, baud int) (*Conn, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	c := NewConn(port)

	ctx, cancel := context.WithTimeout(ctx, StartTimeout)
	defer cancel()
	err = c.WaitStart(ctx)
	if err == context.DeadlineExceeded {
		log.Printf("no start banner from %s, continuing", name)
		err = nil
	}
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("wait for %s: %w", name, err)
	}

	return c, nil
}

package spjs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) (interface{}, error) {
	return decode([]byte(data))
}

func TestDecode(t *testing.T) {
	v, err := parse(t, `{"Cmd":"Complete","Id":"cmd_1","P":"ttyACM0","Type":["Buf"]}`)
	require.NoError(t, err)
	assert.Equal(t, &CmdStatus{Cmd: "Complete", ID: "cmd_1", Type: []string{"Buf"}}, v)

	v, err = parse(t, `{"P":"ttyACM0","D":"ok\n"}`)
	require.NoError(t, err)
	assert.Equal(t, &DataFrame{Port: "ttyACM0", Data: "ok\n"}, v)

	v, err = parse(t, `{"SerialPorts":[{"Name":"ttyACM0","IsOpen":true}]}`)
	require.NoError(t, err)
	assert.Equal(t, &SerialPortList{SerialPorts: []SerialPort{{Name: "ttyACM0", IsOpen: true}}}, v)

	v, err = parse(t, `{"Error":"port not found"}`)
	require.NoError(t, err)
	assert.Equal(t, &ErrorMessage{Error: "port not found"}, v)

	_, err = parse(t, `{"Version":"1.96"}`)
	assert.Error(t, err)

	_, err = parse(t, `{"D":`)
	assert.Error(t, err)
}

func TestSPJS(t *testing.T) {
	received := make(chan string, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ws, err := (&websocket.Upgrader{}).Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received <- string(data)
			if strings.HasPrefix(string(data), "sendjson ") {
				ws.WriteMessage(websocket.TextMessage, []byte(`{"Cmd":"Complete","Id":"cmd_a","Type":["Buf"]}`))
			}
		}
	}))
	defer srv.Close()

	sp := NewSPJS("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer sp.Close()

	err := sp.SendJSON(JSON{Port: "ttyACM0", Data: []Data{{Data: "G28 W\n", ID: "cmd_a"}}})
	require.NoError(t, err)

	timeout := time.After(5 * time.Second)
	var sent string
	for sent == "" {
		select {
		case msg := <-received:
			if strings.HasPrefix(msg, "sendjson ") {
				sent = msg
			}
		case <-timeout:
			t.Fatal("timeout waiting for sendjson")
		}
	}
	assert.Equal(t, `sendjson {"P":"ttyACM0","Data":[{"D":"G28 W\n","Id":"cmd_a"}]}`, sent)

	select {
	case msg := <-sp.Messages():
		assert.Equal(t, &CmdStatus{Cmd: "Complete", ID: "cmd_a", Type: []string{"Buf"}}, msg)
	case <-timeout:
		t.Fatal("timeout waiting for status")
	}

	sp.Close()
	assert.Equal(t, ErrClosed, sp.WriteString("list"))
}

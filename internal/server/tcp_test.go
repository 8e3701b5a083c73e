package server

import (
	"bufio"
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/serialstudio"
)

func TestTCPServerStreamsFrames(t *testing.T) {
	mgr := startManager(t, "station")
	streamer, _ := mgr.Get("station")

	srv := NewTCPServer("127.0.0.1:0", streamer, testLogger())
	go srv.Serve()
	defer srv.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not bind within deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Frames end with a blank CRLF line after the closing delimiter.
	r := bufio.NewReader(conn)
	var frame bytes.Buffer
	for !bytes.HasSuffix(frame.Bytes(), []byte("*/\r\n\r\n")) {
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		frame.WriteByte(b)
	}

	if _, ok := serialstudio.StripFrame(frame.Bytes()); !ok {
		t.Errorf("received bytes are not a well-formed frame: %q", frame.Bytes())
	}
}

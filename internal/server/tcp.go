// Package server broadcasts rendered frames to Serial Studio and other
// viewers, over a raw TCP socket and over HTTP/WebSocket.
package server

import (
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jhyland87/ESP32-Serial-Studio-Dashboard-Generator/internal/engine"
)

const writeTimeout = 10 * time.Second

// TCPServer streams one dashboard's frames to every connected client.
// Serial Studio's "network socket" device connects here and receives the
// framed documents verbatim.
type TCPServer struct {
	addr     string
	streamer *engine.Streamer
	log      *slog.Logger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// NewTCPServer creates a TCP broadcaster for the given streamer.
func NewTCPServer(addr string, s *engine.Streamer, log *slog.Logger) *TCPServer {
	return &TCPServer{addr: addr, streamer: s, log: log}
}

// Serve listens and handles connections until Close. Each client gets the
// latest frame on connect, then every frame as it is rendered.
func (t *TCPServer) Serve() error {
	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.ln = ln
	t.mu.Unlock()

	t.log.Info("tcp server listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			// Accept fails permanently once the listener is closed.
			t.wg.Wait()
			return nil
		}
		t.wg.Add(1)
		go t.handle(conn)
	}
}

// Addr returns the bound listener address, or nil before Serve.
func (t *TCPServer) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ln == nil {
		return nil
	}
	return t.ln.Addr()
}

// Close stops accepting and disconnects after in-flight writes drain.
func (t *TCPServer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ln != nil {
		t.ln.Close()
	}
}

func (t *TCPServer) handle(conn net.Conn) {
	defer t.wg.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	t.log.Info("viewer connected", "remote", remote)

	sub := t.streamer.Subscribe()
	defer t.streamer.Unsubscribe(sub)

	if frame := t.streamer.LatestFrame(); frame != nil {
		if !t.write(conn, frame, remote) {
			return
		}
	}

	for frame := range sub {
		if !t.write(conn, frame, remote) {
			return
		}
	}
}

func (t *TCPServer) write(conn net.Conn, frame []byte, remote string) bool {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(frame); err != nil {
		t.log.Info("viewer disconnected", "remote", remote, "error", err)
		return false
	}
	return true
}

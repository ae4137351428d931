// Package net adapts a websocket connection to the remote.Channel boundary
// and provides LAN peer discovery. The canvas core never imports this
// package; it sees only the channel interface and the inbound message stream.
package net

import (
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"PairBoard/internal/remote"
)

// Conn wraps one websocket peer connection as a remote.Channel.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

var _ remote.Channel = (*Conn)(nil)

// Send writes one message frame. Fire-and-forget: an error is returned for
// logging but the caller is expected to carry on.
func (c *Conn) Send(msg remote.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}

// RemoteAddr identifies the peer endpoint.
func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// Close tears the connection down.
func (c *Conn) Close() error {
	return c.ws.Close()
}

// ReadLoop delivers inbound frames to handle until the connection dies, then
// calls onClose once. Runs on the caller's goroutine; callers typically hand
// frames to the core's event loop rather than touching state directly.
func (c *Conn) ReadLoop(handle func(remote.Message), onClose func()) {
	defer onClose()
	for {
		var msg remote.Message
		if err := c.ws.ReadJSON(&msg); err != nil {
			log.Printf("[net] peer %s gone: %v", c.RemoteAddr(), err)
			return
		}
		handle(msg)
	}
}

// Dial connects to a hosting peer at addr (host:port).
func Dial(addr string) (*Conn, error) {
	url := fmt.Sprintf("ws://%s/ws", addr)
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Conn{ws: ws}, nil
}

// Server accepts one peer at a time over websocket.
type Server struct {
	upgrader websocket.Upgrader

	// OnPeer is invoked for every accepted connection.
	OnPeer func(*Conn)
}

func NewServer(onPeer func(*Conn)) *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Both peers are LAN-local; the share link is the access control.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		OnPeer: onPeer,
	}
}

// ListenAndServe blocks serving websocket upgrades on /ws.
func (s *Server) ListenAndServe(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[net] upgrade failed: %v", err)
			return
		}
		conn := &Conn{ws: ws}
		log.Printf("[net] peer connected from %s", conn.RemoteAddr())
		s.OnPeer(conn)
	})
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

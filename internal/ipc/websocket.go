package ipc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketPath is the HTTP path upgraded to a WebSocket.
const WebSocketPath = "/ws"

// WebSocketServer serves the IPC protocol to webview front-ends, which cannot
// reach a Unix socket. Each text message carries one Request and is answered
// with one Response, in order.
type WebSocketServer struct {
	addr       string
	handler    *Handler
	upgrader   websocket.Upgrader
	httpServer *http.Server
	listener   net.Listener

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewWebSocketServer creates a server for addr (host:port).
func NewWebSocketServer(addr string, handler *Handler) *WebSocketServer {
	s := &WebSocketServer{
		addr:    addr,
		handler: handler,
		conns:   make(map[*websocket.Conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 64 * 1024,
		CheckOrigin:     func(r *http.Request) bool { return isLoopbackOrigin(r.Header.Get("Origin")) },
	}

	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, s.serveWS)
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start listens on the configured address and serves in the background. The
// bound address is published to the handler's status before the first
// connection is accepted, so Start must run before any other server shares
// the handler.
func (s *WebSocketServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.handler.WebSocketAddr = listener.Addr().String()

	log.Printf("WebSocket server listening on ws://%s%s", listener.Addr(), WebSocketPath)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("WebSocket server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, useful when started on port 0.
func (s *WebSocketServer) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop closes the listener and every open WebSocket connection.
func (s *WebSocketServer) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()

	return err
}

func (s *WebSocketServer) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var resp *Response
		req, err := ParseRequest(data)
		if err != nil {
			resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
		} else {
			resp = s.handler.Handle(req)
		}

		out, err := resp.Marshal()
		if err != nil {
			log.Printf("Failed to marshal response: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			log.Printf("Failed to send response: %v", err)
			return
		}
	}
}

// isLoopbackOrigin accepts requests without an Origin (non-browser clients),
// opaque origins from file:// pages, and pages served from a loopback host.
func isLoopbackOrigin(origin string) bool {
	if origin == "" || origin == "null" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme == "file" {
		return true
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

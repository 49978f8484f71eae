package socketrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// scannerInitBufSize is the initial buffer size for the per-connection scanner (64 KB).
	scannerInitBufSize = 64 * 1024
	// scannerMaxTokenSize is the maximum token size the scanner will accept (1 MB).
	scannerMaxTokenSize = 1024 * 1024
	// callTimeout bounds one command across all sessions.
	callTimeout = 10 * time.Second
)

// Server exposes a Controller over a Unix domain socket using JSON-RPC 2.0.
type Server struct {
	socketPath string
	ctl        Controller
	listener   net.Listener
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
	ctx        context.Context
	cancel     context.CancelFunc

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer creates a new socket RPC server.
func NewServer(socketPath string, ctl Controller) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		socketPath: socketPath,
		ctl:        ctl,
		quit:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins listening on the Unix socket and accepting connections.
func (s *Server) Start() error {
	// Ensure the parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("socketrpc: mkdir: %w", err)
	}

	// Remove stale socket if it exists.
	if _, err := os.Stat(s.socketPath); err == nil {
		conn, dialErr := net.DialTimeout("unix", s.socketPath, 500*time.Millisecond)
		if dialErr != nil {
			// Socket file exists but nobody is listening; stale.
			os.Remove(s.socketPath)
		} else {
			conn.Close()
			return fmt.Errorf("socketrpc: another server is already listening on %s", s.socketPath)
		}
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("socketrpc: listen: %w", err)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()

	log.Printf("socketrpc: listening on %s", s.socketPath)
	return nil
}

// Stop closes the listener and open connections, waits for them to drain,
// and removes the socket file. It is safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		s.cancel()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()
		s.wg.Wait()
		os.Remove(s.socketPath)
	})
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				log.Printf("socketrpc: accept error: %v", err)
				// Continue on transient errors (e.g., fd limit) instead of
				// killing the entire accept loop.
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) track(conn net.Conn, open bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !open {
		delete(s.conns, conn)
		return true
	}
	select {
	case <-s.quit:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()
	if !s.track(conn, true) {
		return
	}
	defer s.track(conn, false)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		select {
		case <-s.quit:
			return
		default:
		}

		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			resp := Response{JSONRPC: "2.0", ID: 0, Error: &RPCError{Code: -32700, Message: "parse error"}}
			encoder.Encode(resp)
			continue
		}

		resp := s.dispatch(s.ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req Request) Response {
	resp := Response{JSONRPC: "2.0", ID: req.ID}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	marshalResult := func(v interface{}, err error) Response {
		if err != nil {
			resp.Error = &RPCError{Code: -32000, Message: err.Error()}
			return resp
		}
		data, merr := json.Marshal(v)
		if merr != nil {
			resp.Error = &RPCError{Code: -32603, Message: merr.Error()}
			return resp
		}
		resp.Result = data
		return resp
	}

	delivered := func(n int, err error) Response {
		return marshalResult(Delivery{Sessions: n}, err)
	}

	switch req.Method {
	case "Status":
		return marshalResult(s.ctl.Sessions(ctx))

	case "Tile":
		return delivered(s.ctl.Tile(ctx))

	case "Select":
		var p struct{ Index *int }
		if err := json.Unmarshal(req.Params, &p); err != nil {
			resp.Error = &RPCError{Code: -32602, Message: fmt.Sprintf("invalid params: %v", err)}
			return resp
		}
		if p.Index == nil {
			resp.Error = &RPCError{Code: -32602, Message: "invalid params: Index is required"}
			return resp
		}
		return delivered(s.ctl.Select(ctx, *p.Index))

	case "Pause":
		return delivered(s.ctl.Pause(ctx))

	case "Resize":
		return delivered(s.ctl.Resize(ctx))

	default:
		resp.Error = &RPCError{Code: -32601, Message: fmt.Sprintf("method not found: %s", req.Method)}
		return resp
	}
}

package socketrpc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/autocruise/internal/cruise"
)

// JSON-RPC 2.0 Method Reference
//
// The control socket drives every live cruise session of a running server.
//
//   Method    Params             Result
//   ───────   ────────────────   ──────────────────────
//   Status    (none)             []cruise.SessionInfo
//   Tile      (none)             {Sessions: int}
//   Select    {Index: int}       {Sessions: int}
//   Pause     (none)             {Sessions: int}
//   Resize    (none)             {Sessions: int}
//
// Sessions is the number of sessions the command was delivered to.
// Index is a zero-based page index; out-of-range indices are ignored by
// the sessions themselves.
//
// Error codes follow JSON-RPC 2.0:
//   -32700  Parse error (malformed JSON)
//   -32601  Method not found
//   -32602  Invalid params
//   -32603  Internal error (marshal failure)
//   -32000  Application error (session failure)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string { return e.Message }

// Delivery is the result of a broadcast command.
type Delivery struct {
	Sessions int `json:"sessions"`
}

// Controller is the server side of the control socket. It is implemented by
// the HTTP server's session hub.
type Controller interface {
	Sessions(ctx context.Context) ([]cruise.SessionInfo, error)
	Tile(ctx context.Context) (int, error)
	Select(ctx context.Context, index int) (int, error)
	Pause(ctx context.Context) (int, error)
	Resize(ctx context.Context) (int, error)
}

// DefaultSocketPath returns the default Unix socket path.
// It prefers $XDG_RUNTIME_DIR/autocruise/autocruise.sock, falling back to
// ~/.local/state/autocruise/autocruise.sock.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "autocruise", "autocruise.sock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/autocruise.sock"
	}
	return filepath.Join(home, ".local", "state", "autocruise", "autocruise.sock")
}

package socketrpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/tinytelemetry/autocruise/internal/cruise"
)

// Client calls a running server's control socket using JSON-RPC 2.0.
type Client struct {
	conn    net.Conn
	mu      sync.Mutex
	nextID  int
	scanner *bufio.Scanner
	encoder *json.Encoder
}

// Dial connects to the socket RPC server at the given path.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("socketrpc: dial: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	return &Client{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// call performs a JSON-RPC call and unmarshals the result into dest.
func (c *Client) call(method string, params interface{}, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("socketrpc: marshal params: %w", err)
	}

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	c.conn.SetDeadline(time.Now().Add(30 * time.Second))
	defer c.conn.SetDeadline(time.Time{})

	if err := c.encoder.Encode(req); err != nil {
		return fmt.Errorf("socketrpc: send: %w", err)
	}

	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return fmt.Errorf("socketrpc: read: %w", err)
		}
		return fmt.Errorf("socketrpc: connection closed")
	}

	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return fmt.Errorf("socketrpc: unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return resp.Error
	}

	if dest != nil {
		if err := json.Unmarshal(resp.Result, dest); err != nil {
			return fmt.Errorf("socketrpc: unmarshal result: %w", err)
		}
	}
	return nil
}

// Status lists every live session of the server.
func (c *Client) Status() ([]cruise.SessionInfo, error) {
	var result []cruise.SessionInfo
	err := c.call("Status", map[string]interface{}{}, &result)
	return result, err
}

// Tile switches every cycling session to the tile view.
func (c *Client) Tile() (int, error) {
	var result Delivery
	err := c.call("Tile", map[string]interface{}{}, &result)
	return result.Sessions, err
}

// Select brings page index to the front of every session.
func (c *Client) Select(index int) (int, error) {
	var result Delivery
	err := c.call("Select", map[string]interface{}{"Index": index}, &result)
	return result.Sessions, err
}

// Pause pauses rotation of every cycling session.
func (c *Client) Pause() (int, error) {
	var result Delivery
	err := c.call("Pause", map[string]interface{}{}, &result)
	return result.Sessions, err
}

// Resize makes every session re-apply its layout and notify its frames.
func (c *Client) Resize() (int, error) {
	var result Delivery
	err := c.call("Resize", map[string]interface{}{}, &result)
	return result.Sessions, err
}

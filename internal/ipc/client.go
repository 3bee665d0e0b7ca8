package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/inspiraview/internal/runtimepath"
)

// RemoteError is a command failure reported by the daemon.
type RemoteError struct {
	Kind    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("daemon error: %s", e.Message)
}

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client for an explicit socket path.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// SetTimeout overrides the per-request deadline.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload any) (*Response, error) {
	req := &Request{
		ID:      uuid.NewString(),
		Command: command,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.ID != "" && resp.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request id %q", resp.ID, req.ID)
	}

	if resp.Status == StatusError {
		return nil, &RemoteError{Kind: resp.ErrorKind, Message: resp.Error}
	}

	return &resp, nil
}

func decodeData(resp *Response, out any, what string) error {
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", what, err)
	}
	return nil
}

// LoadImage returns the base64 payload of the file at path.
func (c *Client) LoadImage(path string) (string, error) {
	resp, err := c.sendRequest(CommandLoadImage, PathPayload{Path: path})
	if err != nil {
		return "", err
	}
	var data ImagePayloadData
	if err := decodeData(resp, &data, "image"); err != nil {
		return "", err
	}
	return data.Payload, nil
}

// DataURL returns a data URL for the file at path.
func (c *Client) DataURL(path string) (string, error) {
	resp, err := c.sendRequest(CommandDataURL, PathPayload{Path: path})
	if err != nil {
		return "", err
	}
	var data DataURLData
	if err := decodeData(resp, &data, "data url"); err != nil {
		return "", err
	}
	return data.URL, nil
}

// SetWindowOpacity sets the opacity of windowID (0 = active window).
func (c *Client) SetWindowOpacity(windowID uint32, opacity float64) error {
	_, err := c.sendRequest(CommandSetWindowOpacity, OpacityPayload{WindowID: windowID, Opacity: opacity})
	return err
}

// SetAlwaysOnTop sets or clears always-on-top for windowID (0 = active window).
func (c *Client) SetAlwaysOnTop(windowID uint32, enabled bool) error {
	_, err := c.sendRequest(CommandSetAlwaysOnTop, AlwaysOnTopPayload{WindowID: windowID, Enabled: enabled})
	return err
}

// GetImageInfo returns the image dimensions reported by the daemon.
func (c *Client) GetImageInfo(path string) (*ImageInfoData, error) {
	resp, err := c.sendRequest(CommandGetImageInfo, PathPayload{Path: path})
	if err != nil {
		return nil, err
	}
	var data ImageInfoData
	if err := decodeData(resp, &data, "image info"); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	var status StatusData
	if err := decodeData(resp, &status, "status"); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

package console

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"mctest/internal/koerr"
	"mctest/pkg/logging"
)

// State is one of the four connection states of spec.md §4.3.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateReady
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Options configures a Client.
type Options struct {
	Host        string
	Port        int
	Password    string
	ReadTimeout time.Duration // default 5s
	Logger      *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

// Client is a single connection to the server's admin console. It holds
// exactly one in-flight request at a time and never reconnects on its own;
// the owning backend is responsible for reconnection and retry policy.
type Client struct {
	opts Options

	mu    sync.Mutex // guards conn/reader/state/nextReqID; serializes sendCommand calls
	conn  net.Conn
	rw    *bufio.Reader
	state State

	nextReqID int32
}

// New constructs a Client in the Disconnected state. Call Connect before
// sending commands.
func New(opts Options) *Client {
	return &Client{opts: opts.withDefaults(), state: StateDisconnected}
}

// State reports the client's current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the console port, sends a login packet, and waits for the
// server's response, transitioning Disconnected -> Connecting ->
// Authenticating -> Ready. On any error the client returns to Disconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateDisconnected {
		return koerr.New(koerr.KindConfig, "console client already connected or connecting").WithChannel("console")
	}
	c.state = StateConnecting
	c.opts.Logger.Debug("console connecting", logging.String("host", c.opts.Host), logging.Int("port", c.opts.Port))

	addr := fmt.Sprintf("%s:%d", c.opts.Host, c.opts.Port)
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.state = StateDisconnected
		return koerr.Wrap(koerr.KindBackendTransport, err, "console dial failed").WithChannel("console")
	}

	c.conn = conn
	c.rw = bufio.NewReader(conn)
	c.state = StateAuthenticating

	reqID := atomic.AddInt32(&c.nextReqID, 1)
	if err := c.deadline(); err != nil {
		c.resetLocked()
		return err
	}
	if err := writePacket(conn, packet{RequestID: reqID, Type: PacketTypeLogin, Payload: c.opts.Password}); err != nil {
		c.resetLocked()
		return koerr.Wrap(koerr.KindBackendTransport, err, "console login write failed").WithChannel("console")
	}

	resp, err := readPacket(c.rw)
	if err != nil {
		c.resetLocked()
		return koerr.Wrap(koerr.KindBackendTransport, err, "console login read failed").WithChannel("console")
	}
	if resp.RequestID == authFailureRequestID {
		c.resetLocked()
		return koerr.New(koerr.KindBackendProtocol, "console authentication failed").WithChannel("console")
	}

	c.state = StateReady
	c.opts.Logger.Info("console ready", logging.String("host", c.opts.Host))
	return nil
}

// SendCommand issues one console command and returns its response payload.
// Only valid in StateReady; fails fast otherwise.
func (c *Client) SendCommand(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return "", koerr.New(koerr.KindBackendTransport, fmt.Sprintf("console client not ready (state=%s)", c.state)).WithChannel("console")
	}

	reqID := atomic.AddInt32(&c.nextReqID, 1)
	if err := c.deadline(); err != nil {
		c.resetLocked()
		return "", err
	}
	if err := writePacket(c.conn, packet{RequestID: reqID, Type: PacketTypeCommand, Payload: command}); err != nil {
		c.resetLocked()
		return "", koerr.Wrap(koerr.KindBackendTransport, err, "console command write failed").WithChannel("console")
	}

	resp, err := readPacket(c.rw)
	if err != nil {
		c.resetLocked()
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return "", koerr.Wrap(koerr.KindTimeout, err, "console command timed out").WithChannel("console")
		}
		return "", koerr.Wrap(koerr.KindBackendTransport, err, "console command read failed").WithChannel("console")
	}
	if resp.RequestID != reqID {
		c.resetLocked()
		return "", koerr.New(koerr.KindBackendProtocol, fmt.Sprintf("console response id mismatch: got %d want %d", resp.RequestID, reqID)).WithChannel("console")
	}

	return resp.Payload, nil
}

// Close disconnects without attempting any graceful protocol teardown.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked()
}

// deadline applies the configured read timeout to the underlying
// connection ahead of the next read. Caller holds c.mu.
func (c *Client) deadline() error {
	if err := c.conn.SetDeadline(time.Now().Add(c.opts.ReadTimeout)); err != nil {
		return koerr.Wrap(koerr.KindBackendTransport, err, "console set deadline failed").WithChannel("console")
	}
	return nil
}

// resetLocked closes the connection and returns the client to
// Disconnected. Caller holds c.mu.
func (c *Client) resetLocked() error {
	var err error
	if c.conn != nil {
		err = c.conn.Close()
	}
	c.conn = nil
	c.rw = nil
	c.state = StateDisconnected
	return err
}

// Package bridge implements the JSON/HTTP client for the player-simulation
// bridge (spec.md §6, component B): one method per endpoint, grounded on
// the pack's doGet/doPost JSON-over-HTTP client idiom
// (ormasoftchile-gert/pkg/icm.Client).
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mctest/internal/backend"
	"mctest/internal/koerr"
	"mctest/pkg/logging"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration // default 10s
	Logger  *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}

// Client talks to the bridge's HTTP API on behalf of a player-sim backend.
type Client struct {
	opts Options
	http *http.Client
}

// New constructs a bridge Client.
func New(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}
}

// Health reports whether the bridge's liveness endpoint responds with a
// 2xx status.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}

type usernameRequest struct {
	Username string `json:"username"`
}

// Connect spawns a simulated player under the bridge.
func (c *Client) Connect(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, "/connect", usernameRequest{Username: name})
	return err
}

// Disconnect removes a simulated player from the bridge.
func (c *Client) Disconnect(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, "/disconnect", usernameRequest{Username: name})
	return err
}

type chatRequest struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Chat sends a chat message as the named player.
func (c *Client) Chat(ctx context.Context, name, message string) error {
	_, err := c.do(ctx, http.MethodPost, "/chat", chatRequest{Username: name, Message: message})
	return err
}

type commandRequest struct {
	Username string `json:"username"`
	Command  string `json:"command"`
}

// Command issues a client-side command as the named player.
func (c *Client) Command(ctx context.Context, name, command string) error {
	_, err := c.do(ctx, http.MethodPost, "/command", commandRequest{Username: name, Command: command})
	return err
}

type moveRequest struct {
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
}

// Move walks/teleports the simulated player to a position.
func (c *Client) Move(ctx context.Context, name string, x, y, z float64) error {
	_, err := c.do(ctx, http.MethodPost, "/move", moveRequest{Username: name, X: x, Y: y, Z: z})
	return err
}

type equipRequest struct {
	Username string `json:"username"`
	Item     string `json:"item"`
	Slot     string `json:"slot"`
}

// Equip puts an item into the named equipment slot.
func (c *Client) Equip(ctx context.Context, name, item, slot string) error {
	_, err := c.do(ctx, http.MethodPost, "/equip", equipRequest{Username: name, Item: item, Slot: slot})
	return err
}

type useRequest struct {
	Username string `json:"username"`
	Target   string `json:"target"`
}

// Use performs a right-click/use interaction against target.
func (c *Client) Use(ctx context.Context, name, target string) error {
	_, err := c.do(ctx, http.MethodPost, "/use", useRequest{Username: name, Target: target})
	return err
}

// Position retrieves the simulated player's current position.
func (c *Client) Position(ctx context.Context, name string) (backend.Position, error) {
	body, err := c.do(ctx, http.MethodGet, "/position/"+name, nil)
	if err != nil {
		return backend.Position{}, err
	}
	var pos backend.Position
	if err := decodeJSON(body, &pos); err != nil {
		return backend.Position{}, err
	}
	return pos, nil
}

// PlayerHealth returns health/food/saturation for the simulated player.
func (c *Client) PlayerHealth(ctx context.Context, name string) (backend.Health, error) {
	body, err := c.do(ctx, http.MethodGet, "/health/"+name, nil)
	if err != nil {
		return backend.Health{}, err
	}
	var h backend.Health
	if err := decodeJSON(body, &h); err != nil {
		return backend.Health{}, err
	}
	return h, nil
}

// Inventory returns the simulated player's inventory contents.
func (c *Client) Inventory(ctx context.Context, name string) (backend.Inventory, error) {
	body, err := c.do(ctx, http.MethodGet, "/inventory/"+name, nil)
	if err != nil {
		return backend.Inventory{}, err
	}
	var inv backend.Inventory
	if err := decodeJSON(body, &inv); err != nil {
		return backend.Inventory{}, err
	}
	return inv, nil
}

// Entities returns entities visible to the simulated player.
func (c *Client) Entities(ctx context.Context, name string) (backend.Entities, error) {
	body, err := c.do(ctx, http.MethodGet, "/entities/"+name, nil)
	if err != nil {
		return backend.Entities{}, err
	}
	var ents backend.Entities
	if err := decodeJSON(body, &ents); err != nil {
		return backend.Entities{}, err
	}
	return ents, nil
}

// weatherResponse mirrors the bridge's GET /weather payload, used by
// player-sim backends per the getWeather unification decision.
type weatherResponse struct {
	Condition string `json:"condition"`
}

// Weather queries the bridge's view of the current weather.
func (c *Client) Weather(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/weather", nil)
	if err != nil {
		return "", err
	}
	var w weatherResponse
	if err := decodeJSON(body, &w); err != nil {
		return "", err
	}
	return w.Condition, nil
}

// do performs one HTTP round trip against the bridge base URL and returns
// the response body, translating non-2xx statuses and transport failures
// into *koerr.Error.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, koerr.Wrap(koerr.KindBackendProtocol, err, "bridge request encode failed").WithChannel("bridge")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, body)
	if err != nil {
		return nil, koerr.Wrap(koerr.KindBackendTransport, err, "bridge request build failed").WithChannel("bridge")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.opts.Logger.Debug("bridge request", logging.String("method", method), logging.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, koerr.Wrap(koerr.KindBackendTransport, err, "bridge request failed").WithChannel("bridge")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, koerr.Wrap(koerr.KindBackendTransport, err, "bridge response read failed").WithChannel("bridge")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, koerr.New(koerr.KindBackendProtocol, fmt.Sprintf("bridge %s %s: HTTP %d: %s", method, path, resp.StatusCode, truncate(respBody, 300))).WithChannel("bridge")
	}

	return respBody, nil
}

func decodeJSON(body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return koerr.Wrap(koerr.KindBackendProtocol, err, "bridge response decode failed").WithChannel("bridge")
	}
	return nil
}

func truncate(b []byte, max int) string {
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

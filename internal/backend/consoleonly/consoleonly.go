// Package consoleonly implements the console-only backend (spec.md §4.2):
// every server-plane operation is driven through the server admin console,
// and every client-plane operation fails with
// koerr.KindCapabilityUnavailable.
package consoleonly

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mctest/internal/backend"
	"mctest/internal/console"
	"mctest/internal/koerr"
	"mctest/pkg/logging"
)

func init() {
	backend.Register("console", func(cfg backend.Config) (backend.Backend, error) {
		return New(cfg)
	})
}

// constantWeather is returned by GetWeather: the console protocol exposes
// no weather query command, so this backend always reports "clear" and
// callers relying on weather assertions should prefer player-sim.
const constantWeather = "clear"

// maxReconnectAttempts bounds the backend's own reconnect/backoff loop when
// Config.ConsoleMaxRetries is not set; the console client itself never
// reconnects (spec.md §4.3).
const maxReconnectAttempts = 3

// Backend drives every operation through a single console.Client.
type Backend struct {
	client *console.Client
	cfg    backend.Config
	log    *logging.Logger
}

var _ backend.Backend = (*Backend)(nil)

// New constructs a console-only Backend from configuration.
func New(cfg backend.Config) (*Backend, error) {
	if cfg.ConsoleHost == "" || cfg.ConsolePort == 0 {
		return nil, koerr.New(koerr.KindConfig, "console-only backend requires console host and port")
	}
	log := logging.Nop()
	return &Backend{
		client: console.New(console.Options{
			Host:        cfg.ConsoleHost,
			Port:        cfg.ConsolePort,
			Password:    cfg.ConsolePassword,
			ReadTimeout: durationMs(cfg.ConsoleTimeoutMs, 5*time.Second),
			Logger:      log,
		}),
		cfg: cfg,
		log: log,
	}, nil
}

func durationMs(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Type reports the backend kind used in story YAML and reports.
func (b *Backend) Type() string { return "console" }

// Initialize connects the console client, retrying with capped exponential
// backoff up to Config.ConsoleMaxRetries times (maxReconnectAttempts when
// unset), per the design note that reconnection policy belongs to the
// owning backend, not the client.
func (b *Backend) Initialize(ctx context.Context) error {
	attempts := b.cfg.ConsoleMaxRetries
	if attempts <= 0 {
		attempts = maxReconnectAttempts
	}
	var lastErr error
	backoff := 250 * time.Millisecond
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = b.client.Connect(ctx)
		if lastErr == nil {
			return nil
		}
		b.log.Warn("console connect attempt failed", logging.Int("attempt", attempt), logging.Err(lastErr))
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return koerr.Wrap(koerr.KindCancelled, ctx.Err(), "console initialize cancelled")
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return koerr.Wrap(koerr.KindBackendTransport, lastErr, "console backend failed to connect after %d attempts", attempts)
}

// Cleanup closes the console connection.
func (b *Backend) Cleanup(ctx context.Context) error {
	return b.client.Close()
}

func (b *Backend) command(ctx context.Context, cmd string) (string, error) {
	return b.client.SendCommand(ctx, cmd)
}

// ExecuteConsole runs cmd with args joined by spaces.
func (b *Backend) ExecuteConsole(ctx context.Context, cmd string, args []string) (string, error) {
	full := cmd
	if len(args) > 0 {
		full = cmd + " " + strings.Join(args, " ")
	}
	return b.command(ctx, full)
}

// ExecuteConsoleRaw runs a preformatted command line verbatim.
func (b *Backend) ExecuteConsoleRaw(ctx context.Context, text string) (string, error) {
	return b.command(ctx, text)
}

// SpawnEntity runs /summon with the standard NBT tag so removeAllTestEntities
// can find it again.
func (b *Backend) SpawnEntity(ctx context.Context, localName, entityType string, loc backend.Location, equipment map[string]string) error {
	nbt := fmt.Sprintf("{Tags:[%q,%q]}", "mctest", localName)
	cmd := fmt.Sprintf("summon %s %s %s %s %s", entityType, fmtF(loc.X), fmtF(loc.Y), fmtF(loc.Z), nbt)
	_, err := b.command(ctx, cmd)
	return err
}

// EntityExists checks via /execute if entity @e[tag=<localName>] matches.
func (b *Backend) EntityExists(ctx context.Context, localName string) (bool, error) {
	out, err := b.command(ctx, fmt.Sprintf("execute if entity @e[tag=%s]", localName))
	if err != nil {
		return false, err
	}
	return !strings.Contains(strings.ToLower(out), "no entity"), nil
}

// GetEntityHealth reads the Health NBT tag via /data get.
func (b *Backend) GetEntityHealth(ctx context.Context, localName string) (float64, error) {
	out, err := b.command(ctx, fmt.Sprintf("data get entity @e[tag=%s,limit=1] Health", localName))
	if err != nil {
		return 0, err
	}
	return parseTrailingFloat(out)
}

// SetEntityHealth sets the Health NBT tag via /data merge.
func (b *Backend) SetEntityHealth(ctx context.Context, localName string, value float64) error {
	_, err := b.command(ctx, fmt.Sprintf("data merge entity @e[tag=%s,limit=1] {Health:%sf}", localName, fmtF(value)))
	return err
}

func (b *Backend) GiveItem(ctx context.Context, player, item string, count int) error {
	_, err := b.command(ctx, fmt.Sprintf("give %s %s %d", player, item, count))
	return err
}

func (b *Backend) RemoveItem(ctx context.Context, player, item string, count int) error {
	_, err := b.command(ctx, fmt.Sprintf("clear %s %s %d", player, item, count))
	return err
}

func (b *Backend) ClearInventory(ctx context.Context, player string) error {
	_, err := b.command(ctx, fmt.Sprintf("clear %s", player))
	return err
}

func (b *Backend) MakeOperator(ctx context.Context, player string) error {
	_, err := b.command(ctx, fmt.Sprintf("op %s", player))
	return err
}

func (b *Backend) Teleport(ctx context.Context, player string, x, y, z float64) error {
	_, err := b.command(ctx, fmt.Sprintf("tp %s %s %s %s", player, fmtF(x), fmtF(y), fmtF(z)))
	return err
}

func (b *Backend) Gamemode(ctx context.Context, player, mode string) error {
	_, err := b.command(ctx, fmt.Sprintf("gamemode %s %s", mode, player))
	return err
}

func (b *Backend) SetWeather(ctx context.Context, kind string, seconds int) error {
	cmd := fmt.Sprintf("weather %s", kind)
	if seconds > 0 {
		cmd = fmt.Sprintf("%s %d", cmd, seconds)
	}
	_, err := b.command(ctx, cmd)
	return err
}

func (b *Backend) SetTime(ctx context.Context, ticks int64) error {
	_, err := b.command(ctx, fmt.Sprintf("time set %d", ticks))
	return err
}

// GetWorldTime runs /time query daytime and extracts the last number in
// the response text, per the integer-extraction rule of spec.md §4.2.
func (b *Backend) GetWorldTime(ctx context.Context) (int64, error) {
	out, err := b.command(ctx, "time query daytime")
	if err != nil {
		return 0, err
	}
	v, err := parseTrailingFloat(out)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// GetWeather always reports "clear": the console protocol has no weather
// query, so this is a known, documented limitation of this backend kind.
func (b *Backend) GetWeather(ctx context.Context) (string, error) {
	return constantWeather, nil
}

func (b *Backend) RemoveAllTestEntities(ctx context.Context) error {
	_, err := b.command(ctx, "kill @e[tag=mctest]")
	return err
}

func (b *Backend) RemoveAllTestPlayers(ctx context.Context) error {
	// The console-only backend never created simulated players, so there is
	// nothing to remove; returning nil keeps cleanup idempotent.
	return nil
}

func unavailable(op string) error {
	return koerr.New(koerr.KindCapabilityUnavailable, fmt.Sprintf("%s is not available on the console-only backend", op))
}

func (b *Backend) ConnectPlayer(ctx context.Context, name string) error {
	return unavailable("connectPlayer")
}
func (b *Backend) DisconnectPlayer(ctx context.Context, name string) error {
	return unavailable("disconnectPlayer")
}
func (b *Backend) SendChat(ctx context.Context, name, message string) error {
	return unavailable("sendChat")
}
func (b *Backend) ExecutePlayerCommand(ctx context.Context, name, cmd string) error {
	return unavailable("executePlayerCommand")
}
func (b *Backend) Move(ctx context.Context, name string, x, y, z float64) error {
	return unavailable("move")
}
func (b *Backend) Equip(ctx context.Context, name, item, slot string) error {
	return unavailable("equip")
}
func (b *Backend) Use(ctx context.Context, name, target string) error { return unavailable("use") }
func (b *Backend) GetPosition(ctx context.Context, name string) (backend.Position, error) {
	return backend.Position{}, unavailable("getPosition")
}
func (b *Backend) GetHealth(ctx context.Context, name string) (backend.Health, error) {
	return backend.Health{}, unavailable("getHealth")
}
func (b *Backend) GetInventory(ctx context.Context, name string) (backend.Inventory, error) {
	return backend.Inventory{}, unavailable("getInventory")
}
func (b *Backend) GetEntities(ctx context.Context, name string) (backend.Entities, error) {
	return backend.Entities{}, unavailable("getEntities")
}
func (b *Backend) GetEquipment(ctx context.Context, name string) (backend.Equipment, error) {
	return backend.Equipment{}, unavailable("getEquipment")
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseTrailingFloat extracts the last whitespace-separated token of a
// console response line that parses as a float (after dropping an f/F/d/D
// type suffix), which is how Minecraft's vanilla /time query and /data get
// responses embed their numeric result.
func parseTrailingFloat(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, koerr.New(koerr.KindBackendProtocol, "console response had no tokens to parse")
	}
	for i := len(fields) - 1; i >= 0; i-- {
		tok := strings.TrimRight(fields[i], "fFdD")
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return v, nil
		}
	}
	return 0, koerr.New(koerr.KindBackendProtocol, "console response %q contained no number", s)
}

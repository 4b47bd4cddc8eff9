// Package playersim implements the player-simulation backend (spec.md
// §4.2): server-plane operations go through an embedded console client,
// since the bridge has no admin command surface, and client-plane
// operations go through the bridge client.
package playersim

import (
	"context"
	"sync"
	"time"

	"mctest/internal/backend"
	"mctest/internal/backend/consoleonly"
	"mctest/internal/bridge"
	"mctest/internal/koerr"
	"mctest/pkg/logging"
)

func init() {
	backend.Register("playersim", func(cfg backend.Config) (backend.Backend, error) {
		return New(cfg)
	})
}

// Backend composes a console-only backend for server-plane commands with a
// bridge client for client-plane simulated-player operations.
type Backend struct {
	console           *consoleonly.Backend
	bridge            *bridge.Client
	unifyWeatherReads bool
	log               *logging.Logger

	mu        sync.Mutex
	connected map[string]struct{}
}

var _ backend.Backend = (*Backend)(nil)

// New constructs a player-sim Backend from configuration.
func New(cfg backend.Config) (*Backend, error) {
	if cfg.BridgeBaseURL == "" {
		return nil, koerr.New(koerr.KindConfig, "player-sim backend requires a bridge base URL")
	}
	console, err := consoleonly.New(cfg)
	if err != nil {
		return nil, err
	}
	log := logging.Nop()
	return &Backend{
		console: console,
		bridge: bridge.New(bridge.Options{
			BaseURL: cfg.BridgeBaseURL,
			Timeout: durationMs(cfg.BridgeTimeoutMs, 10*time.Second),
			Logger:  log,
		}),
		unifyWeatherReads: cfg.UnifyWeatherReads,
		log:               log,
		connected:         make(map[string]struct{}),
	}, nil
}

func durationMs(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func (b *Backend) Type() string { return "playersim" }

// Initialize brings up the console connection and checks the bridge's
// liveness endpoint.
func (b *Backend) Initialize(ctx context.Context) error {
	if err := b.console.Initialize(ctx); err != nil {
		return err
	}
	if err := b.bridge.Health(ctx); err != nil {
		return koerr.Wrap(koerr.KindBackendTransport, err, "player-sim bridge health check failed")
	}
	return nil
}

// Cleanup tears down the console connection; the bridge has no persistent
// connection of its own to close.
func (b *Backend) Cleanup(ctx context.Context) error {
	return b.console.Cleanup(ctx)
}

// Server-plane operations delegate to the embedded console backend.

func (b *Backend) ExecuteConsole(ctx context.Context, cmd string, args []string) (string, error) {
	return b.console.ExecuteConsole(ctx, cmd, args)
}
func (b *Backend) ExecuteConsoleRaw(ctx context.Context, text string) (string, error) {
	return b.console.ExecuteConsoleRaw(ctx, text)
}
func (b *Backend) SpawnEntity(ctx context.Context, localName, entityType string, loc backend.Location, equipment map[string]string) error {
	return b.console.SpawnEntity(ctx, localName, entityType, loc, equipment)
}
func (b *Backend) EntityExists(ctx context.Context, localName string) (bool, error) {
	return b.console.EntityExists(ctx, localName)
}
func (b *Backend) GetEntityHealth(ctx context.Context, localName string) (float64, error) {
	return b.console.GetEntityHealth(ctx, localName)
}
func (b *Backend) SetEntityHealth(ctx context.Context, localName string, value float64) error {
	return b.console.SetEntityHealth(ctx, localName, value)
}
func (b *Backend) GiveItem(ctx context.Context, player, item string, count int) error {
	return b.console.GiveItem(ctx, player, item, count)
}
func (b *Backend) RemoveItem(ctx context.Context, player, item string, count int) error {
	return b.console.RemoveItem(ctx, player, item, count)
}
func (b *Backend) ClearInventory(ctx context.Context, player string) error {
	return b.console.ClearInventory(ctx, player)
}
func (b *Backend) MakeOperator(ctx context.Context, player string) error {
	return b.console.MakeOperator(ctx, player)
}
func (b *Backend) Teleport(ctx context.Context, player string, x, y, z float64) error {
	return b.console.Teleport(ctx, player, x, y, z)
}
func (b *Backend) Gamemode(ctx context.Context, player, mode string) error {
	return b.console.Gamemode(ctx, player, mode)
}
func (b *Backend) SetWeather(ctx context.Context, kind string, seconds int) error {
	return b.console.SetWeather(ctx, kind, seconds)
}
func (b *Backend) SetTime(ctx context.Context, ticks int64) error {
	return b.console.SetTime(ctx, ticks)
}
func (b *Backend) GetWorldTime(ctx context.Context) (int64, error) {
	return b.console.GetWorldTime(ctx)
}

// GetWeather queries the bridge by default, since player-sim has a live
// source of truth for weather through the bridge's simulated client and
// §4.2 freezes this as current behavior. Setting UnifyWeatherReads
// collapses that back to the console-only backend's constant "clear"
// placeholder, per the getWeather unification decision.
func (b *Backend) GetWeather(ctx context.Context) (string, error) {
	if b.unifyWeatherReads {
		return b.console.GetWeather(ctx)
	}
	return b.bridge.Weather(ctx)
}

func (b *Backend) RemoveAllTestEntities(ctx context.Context) error {
	return b.console.RemoveAllTestEntities(ctx)
}

// RemoveAllTestPlayers disconnects every simulated player known to the
// bridge. The bridge has no bulk-list endpoint, so this backend tracks
// connected names itself via ConnectPlayer/DisconnectPlayer.
func (b *Backend) RemoveAllTestPlayers(ctx context.Context) error {
	b.mu.Lock()
	names := make([]string, 0, len(b.connected))
	for name := range b.connected {
		names = append(names, name)
	}
	b.mu.Unlock()

	var firstErr error
	for _, name := range names {
		if err := b.DisconnectPlayer(ctx, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Client-plane operations delegate to the bridge.

func (b *Backend) ConnectPlayer(ctx context.Context, name string) error {
	if err := b.bridge.Connect(ctx, name); err != nil {
		return err
	}
	b.mu.Lock()
	b.connected[name] = struct{}{}
	b.mu.Unlock()
	return nil
}

func (b *Backend) DisconnectPlayer(ctx context.Context, name string) error {
	err := b.bridge.Disconnect(ctx, name)
	b.mu.Lock()
	delete(b.connected, name)
	b.mu.Unlock()
	return err
}

func (b *Backend) SendChat(ctx context.Context, name, message string) error {
	return b.bridge.Chat(ctx, name, message)
}
func (b *Backend) ExecutePlayerCommand(ctx context.Context, name, cmd string) error {
	return b.bridge.Command(ctx, name, cmd)
}
func (b *Backend) Move(ctx context.Context, name string, x, y, z float64) error {
	return b.bridge.Move(ctx, name, x, y, z)
}
func (b *Backend) Equip(ctx context.Context, name, item, slot string) error {
	return b.bridge.Equip(ctx, name, item, slot)
}
func (b *Backend) Use(ctx context.Context, name, target string) error {
	return b.bridge.Use(ctx, name, target)
}
func (b *Backend) GetPosition(ctx context.Context, name string) (backend.Position, error) {
	return b.bridge.Position(ctx, name)
}
func (b *Backend) GetHealth(ctx context.Context, name string) (backend.Health, error) {
	return b.bridge.PlayerHealth(ctx, name)
}
func (b *Backend) GetInventory(ctx context.Context, name string) (backend.Inventory, error) {
	return b.bridge.Inventory(ctx, name)
}
func (b *Backend) GetEntities(ctx context.Context, name string) (backend.Entities, error) {
	return b.bridge.Entities(ctx, name)
}

// GetEquipment has no dedicated bridge endpoint (the §6 wire protocol
// tabulates no GET for equipment), so it is derived from the armor and
// offhand fields of GET /inventory/{user}. Armor slots are ordered
// head, chest, legs, feet; Hand is left empty since the bridge exposes
// no read for the player's currently selected hotbar slot.
func (b *Backend) GetEquipment(ctx context.Context, name string) (backend.Equipment, error) {
	inv, err := b.bridge.Inventory(ctx, name)
	if err != nil {
		return backend.Equipment{}, err
	}
	eq := backend.Equipment{}
	if inv.Offhand != nil {
		eq.Offhand = inv.Offhand.ID
	}
	slots := []*string{&eq.Head, &eq.Chest, &eq.Legs, &eq.Feet}
	for i, item := range inv.Armor {
		if i >= len(slots) {
			break
		}
		*slots[i] = item.ID
	}
	return eq, nil
}

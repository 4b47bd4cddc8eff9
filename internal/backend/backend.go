// Package backend defines the capability contract every backend
// implementation satisfies (spec.md §4.2, component C) plus the registry
// the factory uses to construct one from configuration. The pattern is
// grounded on the teacher's pkg/providers/backend registry: an interface,
// a concurrency-safe Registry, and package-level Register/New helpers
// backed by a DefaultRegistry that concrete providers register into from
// an init() function.
package backend

import "context"

// Position is the result of getPosition.
type Position struct {
	X, Y, Z    float64
	Yaw, Pitch float64
	World      string
}

// Health is the result of getHealth.
type Health struct {
	Health     float64
	MaxHealth  float64
	Food       float64
	Saturation float64
}

// InventoryItem is one slot entry from getInventory.
type InventoryItem struct {
	Slot   int
	ID     string
	Count  int
	Damage *int
}

// Inventory is the result of getInventory.
type Inventory struct {
	Items   []InventoryItem
	Hotbar  []InventoryItem
	Armor   []InventoryItem
	Offhand *InventoryItem
	Size    int
}

// Entity is one entry from getEntities.
type Entity struct {
	ID      string
	Type    string
	Name    string
	X, Y, Z float64
}

// Entities is the result of getEntities.
type Entities struct {
	Entities []Entity
	Count    int
	Types    map[string]int
}

// Equipment is the result of getEquipment.
type Equipment struct {
	Hand, Offhand, Head, Chest, Legs, Feet string
}

// Backend is the capability contract of spec.md §4.2. Every operation
// either succeeds or fails with a *koerr.Error. Implementations are
// responsible for logging server-plane traffic under channel "server"/
// "rcon" and client-plane traffic under "client".
type Backend interface {
	// Lifecycle
	Initialize(ctx context.Context) error
	Cleanup(ctx context.Context) error
	Type() string

	// Server-plane operations (must succeed on every backend kind).
	ExecuteConsole(ctx context.Context, cmd string, args []string) (string, error)
	ExecuteConsoleRaw(ctx context.Context, text string) (string, error)
	SpawnEntity(ctx context.Context, localName, entityType string, loc Location, equipment map[string]string) error
	EntityExists(ctx context.Context, localName string) (bool, error)
	GetEntityHealth(ctx context.Context, localName string) (float64, error)
	SetEntityHealth(ctx context.Context, localName string, value float64) error
	GiveItem(ctx context.Context, player, item string, count int) error
	RemoveItem(ctx context.Context, player, item string, count int) error
	ClearInventory(ctx context.Context, player string) error
	MakeOperator(ctx context.Context, player string) error
	Teleport(ctx context.Context, player string, x, y, z float64) error
	Gamemode(ctx context.Context, player, mode string) error
	SetWeather(ctx context.Context, kind string, seconds int) error
	SetTime(ctx context.Context, ticks int64) error
	GetWorldTime(ctx context.Context) (int64, error)
	GetWeather(ctx context.Context) (string, error)
	RemoveAllTestEntities(ctx context.Context) error
	RemoveAllTestPlayers(ctx context.Context) error

	// Client-plane operations (player-sim only; console-only returns
	// koerr.KindCapabilityUnavailable).
	ConnectPlayer(ctx context.Context, name string) error
	DisconnectPlayer(ctx context.Context, name string) error
	SendChat(ctx context.Context, name, message string) error
	ExecutePlayerCommand(ctx context.Context, name, cmd string) error
	Move(ctx context.Context, name string, x, y, z float64) error
	Equip(ctx context.Context, name, item, slot string) error
	Use(ctx context.Context, name, target string) error
	GetPosition(ctx context.Context, name string) (Position, error)
	GetHealth(ctx context.Context, name string) (Health, error)
	GetInventory(ctx context.Context, name string) (Inventory, error)
	GetEntities(ctx context.Context, name string) (Entities, error)
	GetEquipment(ctx context.Context, name string) (Equipment, error)
}

// Location mirrors story.Location without importing the story package, so
// backend stays a leaf dependency.
type Location struct {
	X, Y, Z float64
}

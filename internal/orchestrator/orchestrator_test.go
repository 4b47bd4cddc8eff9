package orchestrator

import (
	"context"
	"testing"

	"mctest/internal/backend"
	"mctest/internal/story"
)

// fakeBackend is a minimal in-memory Backend used to exercise the runner
// without any real network connectivity.
type fakeBackend struct {
	consoleResponses map[string]string
	entityHealth     map[string]float64
	entityExists     map[string]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		consoleResponses: map[string]string{},
		entityHealth:     map[string]float64{},
		entityExists:     map[string]bool{},
	}
}

func (f *fakeBackend) Initialize(ctx context.Context) error { return nil }
func (f *fakeBackend) Cleanup(ctx context.Context) error    { return nil }
func (f *fakeBackend) Type() string                         { return "fake" }

func (f *fakeBackend) ExecuteConsole(ctx context.Context, cmd string, args []string) (string, error) {
	if r, ok := f.consoleResponses[cmd]; ok {
		return r, nil
	}
	return "ok", nil
}
func (f *fakeBackend) ExecuteConsoleRaw(ctx context.Context, text string) (string, error) {
	return f.ExecuteConsole(ctx, text, nil)
}
func (f *fakeBackend) SpawnEntity(ctx context.Context, localName, entityType string, loc backend.Location, equipment map[string]string) error {
	f.entityExists[localName] = true
	return nil
}
func (f *fakeBackend) EntityExists(ctx context.Context, localName string) (bool, error) {
	return f.entityExists[localName], nil
}
func (f *fakeBackend) GetEntityHealth(ctx context.Context, localName string) (float64, error) {
	return f.entityHealth[localName], nil
}
func (f *fakeBackend) SetEntityHealth(ctx context.Context, localName string, value float64) error {
	f.entityHealth[localName] = value
	return nil
}
func (f *fakeBackend) GiveItem(ctx context.Context, player, item string, count int) error { return nil }
func (f *fakeBackend) RemoveItem(ctx context.Context, player, item string, count int) error {
	return nil
}
func (f *fakeBackend) ClearInventory(ctx context.Context, player string) error { return nil }
func (f *fakeBackend) MakeOperator(ctx context.Context, player string) error   { return nil }
func (f *fakeBackend) Teleport(ctx context.Context, player string, x, y, z float64) error {
	return nil
}
func (f *fakeBackend) Gamemode(ctx context.Context, player, mode string) error        { return nil }
func (f *fakeBackend) SetWeather(ctx context.Context, kind string, seconds int) error { return nil }
func (f *fakeBackend) SetTime(ctx context.Context, ticks int64) error                 { return nil }
func (f *fakeBackend) GetWorldTime(ctx context.Context) (int64, error)                { return 13000, nil }
func (f *fakeBackend) GetWeather(ctx context.Context) (string, error)                 { return "clear", nil }
func (f *fakeBackend) RemoveAllTestEntities(ctx context.Context) error                { return nil }
func (f *fakeBackend) RemoveAllTestPlayers(ctx context.Context) error                 { return nil }
func (f *fakeBackend) ConnectPlayer(ctx context.Context, name string) error           { return nil }
func (f *fakeBackend) DisconnectPlayer(ctx context.Context, name string) error        { return nil }
func (f *fakeBackend) SendChat(ctx context.Context, name, message string) error       { return nil }
func (f *fakeBackend) ExecutePlayerCommand(ctx context.Context, name, cmd string) error {
	return nil
}
func (f *fakeBackend) Move(ctx context.Context, name string, x, y, z float64) error { return nil }
func (f *fakeBackend) Equip(ctx context.Context, name, item, slot string) error     { return nil }
func (f *fakeBackend) Use(ctx context.Context, name, target string) error           { return nil }
func (f *fakeBackend) GetPosition(ctx context.Context, name string) (backend.Position, error) {
	return backend.Position{X: 1, Y: 2, Z: 3}, nil
}
func (f *fakeBackend) GetHealth(ctx context.Context, name string) (backend.Health, error) {
	return backend.Health{Health: 20, MaxHealth: 20}, nil
}
func (f *fakeBackend) GetInventory(ctx context.Context, name string) (backend.Inventory, error) {
	return backend.Inventory{Items: []backend.InventoryItem{{ID: "minecraft:diamond", Count: 3}}}, nil
}
func (f *fakeBackend) GetEntities(ctx context.Context, name string) (backend.Entities, error) {
	return backend.Entities{}, nil
}
func (f *fakeBackend) GetEquipment(ctx context.Context, name string) (backend.Equipment, error) {
	return backend.Equipment{}, nil
}

func TestRunner_SimpleStorySucceeds(t *testing.T) {
	b := newFakeBackend()
	r := NewRunner(b, nil, nil)

	s := &story.Story{
		Name: "basic",
		Steps: []story.Action{
			{Kind: story.ActionExecuteRconCommand, Command: "list", StoreAs: "result"},
		},
		Assertions: []story.Assertion{
			{Kind: story.AssertResponseContains, Source: "${result}", Contains: "ok"},
		},
	}

	rec := r.Run(context.Background(), s)
	if !rec.Result.Success {
		t.Fatalf("expected success, got %+v", rec.Result)
	}
	if rec.Result.AssertionsPassed != 1 {
		t.Fatalf("AssertionsPassed = %d", rec.Result.AssertionsPassed)
	}
}

func TestRunner_FailedAssertionMarksStoryFailed(t *testing.T) {
	b := newFakeBackend()
	r := NewRunner(b, nil, nil)

	s := &story.Story{
		Name: "bad-assertion",
		Steps: []story.Action{
			{Kind: story.ActionExecuteRconCommand, Command: "list", StoreAs: "result"},
		},
		Assertions: []story.Assertion{
			{Kind: story.AssertResponseContains, Source: "${result}", Contains: "nope"},
		},
	}

	rec := r.Run(context.Background(), s)
	if rec.Result.Success {
		t.Fatal("expected failure")
	}
	if rec.Result.AssertionsFailed != 1 {
		t.Fatalf("AssertionsFailed = %d", rec.Result.AssertionsFailed)
	}
}

func TestRunner_StepOutputAssertion(t *testing.T) {
	b := newFakeBackend()
	b.consoleResponses["list"] = `{"online":3}`
	r := NewRunner(b, nil, nil)

	s := &story.Story{
		Name: "step-output",
		Steps: []story.Action{
			{Kind: story.ActionExecuteRconCommand, Command: "list", StepID: "p1"},
		},
		Assertions: []story.Assertion{
			{Kind: story.AssertJSONEquals, Source: "${{ steps.p1.outputs.result }}", ExpectedJSON: `{"online":3}`},
		},
	}

	rec := r.Run(context.Background(), s)
	if !rec.Result.Success {
		t.Fatalf("expected success, got %+v", rec.Result)
	}
	if rec.Result.AssertionsPassed != 1 {
		t.Fatalf("AssertionsPassed = %d", rec.Result.AssertionsPassed)
	}
}

func TestRunner_FailOnErrorSkipsRemainingSteps(t *testing.T) {
	b := newFakeBackend()
	r := NewRunner(b, nil, nil)

	failTrue := true
	s := &story.Story{
		Name: "skip-rest",
		Steps: []story.Action{
			{Kind: story.ActionGetEntityByName, Player: "steve", Entity: "missing", FailOnError: &failTrue},
			{Kind: story.ActionExecuteRconCommand, Command: "list"},
		},
	}

	rec := r.Run(context.Background(), s)
	if len(rec.Steps) != 2 {
		t.Fatalf("len(Steps) = %d", len(rec.Steps))
	}
	if !rec.Steps[1].Skipped {
		t.Fatal("expected second step to be skipped")
	}
}

func TestRunner_GetHealthAndCompareStates(t *testing.T) {
	b := newFakeBackend()
	r := NewRunner(b, nil, nil)

	s := &story.Story{
		Name: "compare",
		Steps: []story.Action{
			{Kind: story.ActionGetPlayerHealth, Player: "steve", StoreAs: "before"},
			{Kind: story.ActionGetPlayerHealth, Player: "steve", StoreAs: "after"},
			{Kind: story.ActionCompareStates, State1: "before", State2: "after"},
		},
	}

	rec := r.Run(context.Background(), s)
	if !rec.Result.Success {
		t.Fatalf("expected success, got %+v", rec.Result)
	}
}

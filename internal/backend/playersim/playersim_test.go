package playersim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mctest/internal/backend"
)

func TestNew_RequiresBridgeBaseURL(t *testing.T) {
	if _, err := New(backend.Config{ConsoleHost: "h", ConsolePort: 1}); err == nil {
		t.Fatal("expected error for missing bridge base URL")
	}
}

func TestBackend_GetWeather_NotUnifiedQueriesBridge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"condition":"thunder"}`))
	}))
	defer srv.Close()

	b, err := New(backend.Config{
		ConsoleHost:       "127.0.0.1",
		ConsolePort:       25575,
		BridgeBaseURL:     srv.URL,
		UnifyWeatherReads: false,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := b.GetWeather(context.Background())
	if err != nil {
		t.Fatalf("GetWeather: %v", err)
	}
	if got != "thunder" {
		t.Fatalf("GetWeather = %q, want thunder", got)
	}
}

func TestBackend_GetWeather_UnifiedUsesConsoleConstant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("bridge should not be queried when UnifyWeatherReads is true")
	}))
	defer srv.Close()

	b, err := New(backend.Config{
		ConsoleHost:       "127.0.0.1",
		ConsolePort:       25575,
		BridgeBaseURL:     srv.URL,
		UnifyWeatherReads: true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := b.GetWeather(context.Background())
	if err != nil {
		t.Fatalf("GetWeather: %v", err)
	}
	if got != "clear" {
		t.Fatalf("GetWeather = %q, want clear", got)
	}
}

func TestBackend_ConnectAndRemoveAllTestPlayers(t *testing.T) {
	var disconnected []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/connect" {
			w.WriteHeader(http.StatusCreated)
			return
		}
		if r.Method == http.MethodPost && r.URL.Path == "/disconnect" {
			body, _ := io.ReadAll(r.Body)
			var req struct {
				Username string `json:"username"`
			}
			_ = json.Unmarshal(body, &req)
			disconnected = append(disconnected, req.Username)
			w.WriteHeader(http.StatusOK)
			return
		}
	}))
	defer srv.Close()

	b, err := New(backend.Config{ConsoleHost: "127.0.0.1", ConsolePort: 25575, BridgeBaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if err := b.ConnectPlayer(ctx, "steve"); err != nil {
		t.Fatalf("ConnectPlayer: %v", err)
	}
	if err := b.ConnectPlayer(ctx, "alex"); err != nil {
		t.Fatalf("ConnectPlayer: %v", err)
	}
	if err := b.RemoveAllTestPlayers(ctx); err != nil {
		t.Fatalf("RemoveAllTestPlayers: %v", err)
	}
	if len(disconnected) != 2 {
		t.Fatalf("disconnected = %v, want 2 entries", disconnected)
	}
	if len(b.connected) != 0 {
		t.Fatalf("connected map should be empty after RemoveAllTestPlayers, got %v", b.connected)
	}
}

func TestBackend_GetEquipment_DerivedFromInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inventory/steve" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"items": [],
			"hotbar": [],
			"armor": [
				{"slot": 103, "id": "iron_helmet", "count": 1},
				{"slot": 102, "id": "iron_chestplate", "count": 1},
				{"slot": 101, "id": "iron_leggings", "count": 1},
				{"slot": 100, "id": "iron_boots", "count": 1}
			],
			"offhand": {"slot": 40, "id": "shield", "count": 1},
			"size": 41
		}`))
	}))
	defer srv.Close()

	b, err := New(backend.Config{ConsoleHost: "127.0.0.1", ConsolePort: 25575, BridgeBaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	eq, err := b.GetEquipment(context.Background(), "steve")
	if err != nil {
		t.Fatalf("GetEquipment: %v", err)
	}
	if eq.Head != "iron_helmet" || eq.Chest != "iron_chestplate" || eq.Legs != "iron_leggings" || eq.Feet != "iron_boots" {
		t.Fatalf("eq = %#v", eq)
	}
	if eq.Offhand != "shield" {
		t.Fatalf("offhand = %q", eq.Offhand)
	}
}

package orchestrator

import "testing"

func TestDiffStates_Equal(t *testing.T) {
	a := map[string]any{"health": 20.0, "name": "steve"}
	b := map[string]any{"health": 20.0, "name": "steve"}
	d := DiffStates(a, b)
	if !d.Equal {
		t.Fatalf("expected equal, got %+v", d)
	}
}

func TestDiffStates_Changed(t *testing.T) {
	a := map[string]any{"health": 20.0}
	b := map[string]any{"health": 14.0}
	d := DiffStates(a, b)
	if d.Equal {
		t.Fatal("expected not equal")
	}
	if len(d.Changed) != 1 || d.Changed[0].Path != "/health" {
		t.Fatalf("Changed = %+v", d.Changed)
	}
}

func TestDiffStates_AddedAndRemoved(t *testing.T) {
	a := map[string]any{"x": 1.0}
	b := map[string]any{"y": 2.0}
	d := DiffStates(a, b)
	if len(d.Added) != 1 || d.Added[0].Path != "/y" {
		t.Fatalf("Added = %+v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0].Path != "/x" {
		t.Fatalf("Removed = %+v", d.Removed)
	}
}

func TestDiffStates_SliceChange(t *testing.T) {
	a := []any{1.0, 2.0}
	b := []any{1.0, 2.0, 3.0}
	d := DiffStates(a, b)
	if len(d.Added) != 1 || d.Added[0].Path != "/2" {
		t.Fatalf("Added = %+v", d.Added)
	}
}

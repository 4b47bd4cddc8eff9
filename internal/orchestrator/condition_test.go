package orchestrator

import "testing"

func TestEvalCondition_Numeric(t *testing.T) {
	cases := map[string]bool{
		"10 < 20":  true,
		"10 > 20":  false,
		"10 == 10": true,
		"10 != 10": false,
		"5 >= 5":   true,
		"5 <= 4":   false,
	}
	for expr, want := range cases {
		got, err := evalCondition(expr)
		if err != nil {
			t.Fatalf("evalCondition(%q): %v", expr, err)
		}
		if got != want {
			t.Fatalf("evalCondition(%q) = %v, want %v", expr, got, want)
		}
	}
}

func TestEvalCondition_StringEquality(t *testing.T) {
	got, err := evalCondition(`"clear" == "clear"`)
	if err != nil {
		t.Fatalf("evalCondition: %v", err)
	}
	if !got {
		t.Fatal("expected true")
	}
}

func TestEvalCondition_NoOperatorIsError(t *testing.T) {
	if _, err := evalCondition("10 20"); err == nil {
		t.Fatal("expected error for missing operator")
	}
}

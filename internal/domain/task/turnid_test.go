package task

import (
	"strings"
	"testing"
)

func TestNewTurnID(t *testing.T) {
	id := NewTurnID()

	if id.IsZero() {
		t.Error("NewTurnID should not return zero value")
	}

	// フォーマット: YYYYMMDD-HHMMSS-{UUID先頭8文字}
	parts := strings.Split(id.String(), "-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts separated by '-', got %d: %s", len(parts), id.String())
	}
	if len(parts[0]) != 8 {
		t.Errorf("date part should be 8 chars, got %q", parts[0])
	}
	if len(parts[1]) != 6 {
		t.Errorf("time part should be 6 chars, got %q", parts[1])
	}
	if len(parts[2]) != 8 {
		t.Errorf("uuid part should be 8 chars, got %q", parts[2])
	}
}

func TestNewTurnID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewTurnID()
		if _, ok := seen[id.String()]; ok {
			t.Fatalf("duplicate TurnID generated: %s", id)
		}
		seen[id.String()] = struct{}{}
	}
}

func TestTurnIDFromString(t *testing.T) {
	id := TurnIDFromString("20260828-120000-abcd1234")

	if id.String() != "20260828-120000-abcd1234" {
		t.Errorf("expected roundtrip, got %s", id.String())
	}
}

func TestTurnID_Equals(t *testing.T) {
	a := TurnIDFromString("20260828-120000-abcd1234")
	b := TurnIDFromString("20260828-120000-abcd1234")
	c := TurnIDFromString("20260828-120000-ffff0000")

	if !a.Equals(b) {
		t.Error("identical IDs should be equal")
	}
	if a.Equals(c) {
		t.Error("different IDs should not be equal")
	}
}

func TestTurnID_IsZero(t *testing.T) {
	var zero TurnID
	if !zero.IsZero() {
		t.Error("zero value should be zero")
	}
	if NewTurnID().IsZero() {
		t.Error("generated ID should not be zero")
	}
}

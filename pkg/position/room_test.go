package position

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRoomName(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		str  string
	}{
		{"E0S0", 0, 0, "E0S0"},
		{"W0N0", -1, -1, "W0N0"},
		{"E21N4", 21, -5, "E21N4"},
		{"w6S42", -7, 42, "W6S42"},
		{"W17s5", -18, 5, "W17S5"},
		{"e2n5", 2, -6, "E2N5"},
		{"W127N127", -128, -128, "W127N127"},
		{"E127S127", 127, 127, "E127S127"},
		{"sim", 0, 0, "E0S0"},
	}
	for _, tt := range tests {
		r, err := ParseRoomName(tt.name)
		if err != nil {
			t.Fatalf("ParseRoomName(%q) failed: %v", tt.name, err)
		}
		if r.X() != tt.x || r.Y() != tt.y {
			t.Errorf("ParseRoomName(%q) = (%d, %d), want (%d, %d)", tt.name, r.X(), r.Y(), tt.x, tt.y)
		}
		if r.String() != tt.str {
			t.Errorf("ParseRoomName(%q).String() = %q, want %q", tt.name, r.String(), tt.str)
		}
	}
}

func TestParseRoomNameInvalid(t *testing.T) {
	for _, name := range []string{"", "E1", "EN1S1", "X1N1", "E1N", "E1Q1", "EN1", "E1N1x", "E-1N1", "E1 N1"} {
		_, err := ParseRoomName(name)
		if !errors.Is(err, ErrInvalidRoomName) {
			t.Errorf("ParseRoomName(%q): expected ErrInvalidRoomName, got %v", name, err)
		}
	}

	for _, name := range []string{"E128N0", "W128S0", "E0S128", "E0N128"} {
		_, err := ParseRoomName(name)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ParseRoomName(%q): expected ErrOutOfBounds, got %v", name, err)
		}
	}
}

func TestRoomNameOffsetAndDistance(t *testing.T) {
	r := MustParseRoomName("E0S0")
	west, err := r.Offset(-1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if west.String() != "W0S0" {
		t.Errorf("Offset(-1, 0) = %s, want W0S0", west)
	}
	if d := MustParseRoomName("W5N5").Distance(MustParseRoomName("E5N5")); d != 11 {
		t.Errorf("Distance = %d, want 11", d)
	}
	if _, err := MustParseRoomName("E127S0").Offset(1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestRoomNameText(t *testing.T) {
	data, err := json.Marshal(map[string]RoomName{"home": MustParseRoomName("w7n4")})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"home":"W7N4"}` {
		t.Errorf("json = %s", data)
	}
	var out map[string]RoomName
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["home"] != MustParseRoomName("W7N4") {
		t.Errorf("round trip = %s", out["home"])
	}
}

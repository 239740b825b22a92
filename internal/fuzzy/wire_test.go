package fuzzy

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMarshalJSON(t *testing.T) {
	ft := MustBuild(anchor, Week)

	data, err := json.Marshal(ft)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"time":"2024-03-11T00:00:00Z","granularity":"Week"}`
	if string(data) != expected {
		t.Errorf("JSON mismatch: got %s, want %s", data, expected)
	}

	var decoded Time
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Equal(ft) {
		t.Errorf("Round trip mismatch: got %v, want %v", decoded, ft)
	}
}

func TestUnmarshalJSONFloors(t *testing.T) {
	var ft Time
	err := json.Unmarshal([]byte(`{"time":"2024-03-15T10:37:12.5+02:00","granularity":"Month"}`), &ft)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	expected := time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("", 2*60*60))
	if !ft.Time().Equal(expected) {
		t.Errorf("Decoded start: got %v, want %v", ft.Time(), expected)
	}
	if ft.Granularity() != Month {
		t.Errorf("Decoded granularity: got %v, want Month", ft.Granularity())
	}
}

func TestUnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown granularity", `{"time":"2024-03-15T00:00:00Z","granularity":"Fortnight"}`},
		{"lowercase granularity", `{"time":"2024-03-15T00:00:00Z","granularity":"day"}`},
		{"out of range key", `{"time":"2024-03-15T00:00:00Z","granularity":7}`},
		{"bad instant", `{"time":"March 15","granularity":"Day"}`},
		{"not an object", `"today"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft Time
			if err := json.Unmarshal([]byte(tt.input), &ft); err == nil {
				t.Errorf("Unmarshal(%s) should fail, got %v", tt.input, ft)
			}
		})
	}
}

func TestGranularityJSON(t *testing.T) {
	var payload struct {
		Period Granularity `json:"period"`
	}

	if err := json.Unmarshal([]byte(`{"period":"Year"}`), &payload); err != nil {
		t.Fatalf("Unmarshal name failed: %v", err)
	}
	if payload.Period != Year {
		t.Errorf("Period from name: got %v, want Year", payload.Period)
	}

	if err := json.Unmarshal([]byte(`{"period":3}`), &payload); err != nil {
		t.Fatalf("Unmarshal legacy key failed: %v", err)
	}
	if payload.Period != Week {
		t.Errorf("Period from key: got %v, want Week", payload.Period)
	}

	err := json.Unmarshal([]byte(`{"period":"Decade"}`), &payload)
	if !errors.Is(err, ErrUnknownGranularity) {
		t.Errorf("Unknown name should fail with ErrUnknownGranularity, got %v", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"period":"Week"`) {
		t.Errorf("Granularity should marshal as its name, got %s", data)
	}
}

func TestEncodeQuery(t *testing.T) {
	q, err := EncodeQuery(MustBuild(anchor, Day))
	if err != nil {
		t.Fatalf("EncodeQuery failed: %v", err)
	}
	if q != `{"time":"2024-03-15T00:00:00Z","granularity":"Day"}` {
		t.Errorf("Query mismatch: got %s", q)
	}
}

func TestCalendarDecodeJSON(t *testing.T) {
	sunday := Calendar{WeekStart: time.Sunday, Location: time.UTC}
	week, err := sunday.Build(anchor, Week)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	data, err := json.Marshal(week)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	expected := `{"time":"2024-03-10T00:00:00Z","granularity":"Week"}`
	if string(data) != expected {
		t.Errorf("JSON mismatch: got %s, want %s", data, expected)
	}

	decoded, err := sunday.DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if !decoded.Equal(week) {
		t.Errorf("Round trip mismatch: got %v, want %v", decoded, week)
	}
	if decoded.Calendar().WeekStart != time.Sunday {
		t.Errorf("Decoded calendar mismatch: got %v, want Sunday", decoded.Calendar().WeekStart)
	}

	// The default calendar re-floors a Sunday week onto the Monday before.
	var monday Time
	if err := json.Unmarshal(data, &monday); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !monday.Time().Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Default decode mismatch: got %v", monday.Time())
	}
}

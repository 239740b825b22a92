package fuzzy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// wireTime is the JSON shape shared with the task service.
type wireTime struct {
	Time        string      `json:"time"`
	Granularity Granularity `json:"granularity"`
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireTime{
		Time:        t.start.Format(time.RFC3339Nano),
		Granularity: t.granularity,
	})
}

// UnmarshalJSON decodes with DefaultCalendar. Values written under another
// week start or location must be read back with Calendar.DecodeJSON.
func (t *Time) UnmarshalJSON(data []byte) error {
	built, err := DefaultCalendar().DecodeJSON(data)
	if err != nil {
		return err
	}
	*t = built
	return nil
}

// DecodeJSON reads the wire format and floors the instant the same way
// Build does, so only period-aligned input round-trips unchanged.
func (c Calendar) DecodeJSON(data []byte) (Time, error) {
	var w wireTime
	if err := json.Unmarshal(data, &w); err != nil {
		return Time{}, fmt.Errorf("failed to parse fuzzy time: %w", err)
	}
	instant, err := time.Parse(time.RFC3339Nano, w.Time)
	if err != nil {
		return Time{}, fmt.Errorf("failed to parse fuzzy time instant %q: %w", w.Time, err)
	}
	return c.Build(instant, w.Granularity)
}

// UnmarshalJSON accepts the name ("Week") or the legacy numeric key (3).
func (g *Granularity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '"' {
		key, err := strconv.Atoi(string(data))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownGranularity, data)
		}
		parsed, err := FromKey(key)
		if err != nil {
			return err
		}
		*g = parsed
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	return g.UnmarshalText([]byte(name))
}

// EncodeQuery renders t as a single line of wire JSON, as printed by
// `fuzzydue parse --json`.
func EncodeQuery(t Time) (string, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

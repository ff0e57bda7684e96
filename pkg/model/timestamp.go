package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	naiveLayout = "2006-01-02T15:04:05.999999999"
	dateLayout  = "2006-01-02"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
}

// Timestamp is an ISO-8601 instant as exchanged with the API. The backend sends both zoned
// values ("2026-02-11T00:00:00.000+00:00") and wall-clock values without an offset
// ("2025-11-24T16:23:38"); the latter are held in UTC and written back without an offset so that
// no zone is ever invented on the client.
type Timestamp struct {
	time.Time
	naive    bool
	dateOnly bool
}

// NewTimestamp wraps a zoned instant.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// WallClock drops the zone of t and keeps its UTC wall-clock time to the second, the way the
// backend stamps createdAt and updatedAt.
func WallClock(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second), naive: true}
}

// Date returns a calendar-date Timestamp, encoded as "2006-01-02".
func Date(year int, month time.Month, day int) Timestamp {
	return Timestamp{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), dateOnly: true}
}

// ParseTimestamp parses any of the accepted ISO-8601 forms.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	if t, err := time.ParseInLocation(naiveLayout, s, time.UTC); err == nil {
		return Timestamp{Time: t, naive: true}, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return Timestamp{Time: t, dateOnly: true}, nil
	}
	return Timestamp{}, errors.Errorf("unrecognized timestamp %q", s)
}

// HasOffset reports whether the source carried an explicit zone offset.
func (t Timestamp) HasOffset() bool {
	return !t.naive && !t.dateOnly
}

// String renders the timestamp the same way it is encoded on the wire.
func (t Timestamp) String() string {
	switch {
	case t.IsZero():
		return ""
	case t.dateOnly:
		return t.Format(dateLayout)
	case t.naive:
		return t.Format(naiveLayout)
	default:
		return t.Format(time.RFC3339Nano)
	}
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "timestamp must be a string")
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

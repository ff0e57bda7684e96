package model

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Duration is a time.Duration that reads and writes as a Go duration string ("12h", "90m").
type Duration time.Duration

// MarshalJSON implements the json.Marshaler interface.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	value, ok := v.(string)
	if !ok {
		return errors.Errorf("invalid duration: %s", b)
	}
	tmp, err := time.ParseDuration(value)
	if err != nil {
		return errors.Wrap(err, "error parsing duration")
	}
	*d = Duration(tmp)
	return nil
}

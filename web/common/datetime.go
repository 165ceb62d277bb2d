package common

import (
	"encoding/json"
	"time"

	"geoclock.com/geoclock/utils"
)

// DateTime accepts RFC3339 timestamps or zone-less local ones, which are
// interpreted in the business timezone.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := utils.ParseISOTime(s)
	if err != nil {
		return err
	}
	d.Time = *t
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

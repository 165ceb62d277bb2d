package utils

import (
	"fmt"
	"time"
)

// BusinessTZ is the fixed timezone every dateKey and time-of-day window is
// evaluated in, independent of device-local time.
var BusinessTZ = time.FixedZone("MYT", 8*60*60)

const DateKeyLayout = "2006-01-02"

func BusinessNow() time.Time {
	return time.Now().In(BusinessTZ)
}

// DateKey formats t as a calendar date string in the business timezone.
func DateKey(t time.Time) string {
	return t.In(BusinessTZ).Format(DateKeyLayout)
}

func MustParseDateKey(dateStr string) time.Time {
	t, _ := time.ParseInLocation(DateKeyLayout, dateStr, BusinessTZ)
	return t
}

func ParseDateKey(dateStr string) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, dateStr, BusinessTZ)
}

func ParseISOTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, fmt.Errorf("empty time string")
	}

	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return &t, nil
	}

	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return &t, nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, BusinessTZ); e == nil {
			return &tt, nil
		}
	}

	return nil, fmt.Errorf("failed to parse time: %v", s)
}

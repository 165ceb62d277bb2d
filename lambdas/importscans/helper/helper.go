package helper

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"geoclock.com/geoclock/utils"
)

// ImportRecord is one row of an admin bulk-import CSV:
// id,userId,siteId,timestamp,kind
type ImportRecord struct {
	ID        string
	UserID    uint
	SiteID    uint
	Timestamp time.Time
	DateKey   string
	Kind      string
}

func ParseScanCSV(r io.Reader) ([]ImportRecord, error) {
	rows, err := utils.ParseCSV(r)
	if err != nil {
		return nil, err
	}

	var records []ImportRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}

		if len(row) < 5 {
			return nil, fmt.Errorf("row %d: expected 5 columns, got %d", i, len(row))
		}

		userID, err := strconv.ParseUint(row[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid userId: %w", i, err)
		}

		siteID, err := strconv.ParseUint(row[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid siteId: %w", i, err)
		}

		timestamp, err := time.Parse(time.RFC3339, row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp: %w", i, err)
		}
		timestamp = timestamp.In(utils.BusinessTZ)

		kind := row[4]
		if kind != "check-in" && kind != "check-out" {
			return nil, fmt.Errorf("row %d: invalid kind %q", i, kind)
		}

		records = append(records, ImportRecord{
			ID:        row[0],
			UserID:    uint(userID),
			SiteID:    uint(siteID),
			Timestamp: timestamp,
			DateKey:   timestamp.Format(utils.DateKeyLayout),
			Kind:      kind,
		})
	}

	return records, nil
}

// Span reports the covered date range and the distinct users, used to
// scope the recompute after the import lands.
func Span(records []ImportRecord) (start, end time.Time, userIDs []uint) {
	seen := make(map[uint]bool)
	for i, r := range records {
		day := utils.MustParseDateKey(r.DateKey)
		if i == 0 || day.Before(start) {
			start = day
		}
		if i == 0 || day.After(end) {
			end = day
		}
		if !seen[r.UserID] {
			seen[r.UserID] = true
			userIDs = append(userIDs, r.UserID)
		}
	}
	return start, end, userIDs
}

package helper

import (
	"fmt"
	"io"

	"geoclock.com/geoclock/engine"
	"geoclock.com/geoclock/model"
	"geoclock.com/geoclock/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Import upserts the stream's rows as admin-provenance success events,
// then rebuilds every affected (user, dateKey) key.
func Import(db *gorm.DB, r io.Reader) error {
	records, err := ParseScanCSV(r)
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	fmt.Printf("[INFO] parsed %d records\n", len(records))

	events := utils.Map(records, func(rec ImportRecord) model.ScanEvent {
		siteID := rec.SiteID
		return model.ScanEvent{
			ID:        rec.ID,
			UserID:    rec.UserID,
			SiteID:    &siteID,
			ScanTime:  rec.Timestamp,
			DateKey:   rec.DateKey,
			Status:    model.ScanStatusSuccess,
			ScanType:  rec.Kind,
			CreatedBy: model.CreatedByAdmin,
		}
	})

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&events).Error; err != nil {
		return fmt.Errorf("upsert events: %w", err)
	}

	start, end, userIDs := Span(records)
	report, err := engine.RebuildRange(db, engine.RebuildOptions{
		StartDate: start,
		EndDate:   end,
		UserIDs:   userIDs,
	})
	if err != nil {
		return fmt.Errorf("recompute (rebuilt %d keys, failed at %s): %w",
			len(report.Rebuilt), report.Failed, err)
	}
	fmt.Printf("[INFO] rebuilt %d keys in %s..%s\n",
		len(report.Rebuilt), utils.DateKey(start), utils.DateKey(end))
	return nil
}

package helper

import (
	"strings"
	"testing"
)

func TestParseScanCSV(t *testing.T) {
	csvData := `ID,UserID,SiteID,Timestamp,Kind
imp-1,7,1,2025-03-03T08:00:00+08:00,check-in
imp-2,7,1,2025-03-03T17:10:00+08:00,check-out
`
	records, err := ParseScanCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if records[0].ID != "imp-1" || records[0].UserID != 7 || records[0].Kind != "check-in" || records[0].DateKey != "2025-03-03" {
		t.Errorf("unexpected first record: %+v", records[0])
	}

	if records[1].ID != "imp-2" || records[1].SiteID != 1 || records[1].Kind != "check-out" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}

func TestParseScanCSVBadKind(t *testing.T) {
	csvData := `ID,UserID,SiteID,Timestamp,Kind
imp-1,7,1,2025-03-03T08:00:00+08:00,lunch
`
	if _, err := ParseScanCSV(strings.NewReader(csvData)); err == nil {
		t.Fatal("expected error for invalid kind")
	}
}

func TestSpan(t *testing.T) {
	csvData := `ID,UserID,SiteID,Timestamp,Kind
imp-1,7,1,2025-03-04T08:00:00+08:00,check-in
imp-2,9,1,2025-03-02T08:00:00+08:00,check-in
imp-3,7,1,2025-03-03T08:00:00+08:00,check-in
`
	records, err := ParseScanCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start, end, users := Span(records)
	if start.Format("2006-01-02") != "2025-03-02" {
		t.Errorf("unexpected start: %v", start)
	}
	if end.Format("2006-01-02") != "2025-03-04" {
		t.Errorf("unexpected end: %v", end)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %v", users)
	}
}

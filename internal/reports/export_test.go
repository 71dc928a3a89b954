package reports

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"
	"time"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

func inventoryFixture() []InventoryRow {
	configs := []alerts.AlertConfig{
		{
			ID:                 "cfg-1",
			TagBase:            "Line1.Temp",
			MonitorHH:          true,
			MonitorH:           true,
			PatternID:          "pat-1",
			DistributionListID: "list-1",
			Active:             true,
		},
		{
			ID:                 "cfg-2",
			TagBase:            "Line2.Pressure",
			PatternID:          "pat-missing",
			DistributionListID: "list-missing",
		},
	}
	patterns := map[string]alerts.AlertPattern{
		"pat-1": {ID: "pat-1", Name: "Standard"},
	}
	lists := map[string]alerts.DistributionList{
		"list-1": {ID: "list-1", Name: "Operators", Endpoints: []string{"+5511999990000", " "}},
	}
	return BuildInventory(configs, patterns, lists)
}

func TestBuildInventory(t *testing.T) {
	rows := inventoryFixture()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].PatternName != "Standard" || rows[0].ListName != "Operators" {
		t.Fatalf("unexpected joins: %+v", rows[0])
	}
	if rows[0].EndpointsLen != 1 {
		t.Fatalf("expected 1 clean endpoint, got %d", rows[0].EndpointsLen)
	}
	if rows[1].PatternName != "" || rows[1].ListName != "" || rows[1].EndpointsLen != 0 {
		t.Fatalf("missing references must stay blank: %+v", rows[1])
	}
}

func TestBuildInventoryCSV(t *testing.T) {
	body, err := BuildInventoryCSV(inventoryFixture())
	if err != nil {
		t.Fatalf("build csv: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	wantHeader := []string{"tag", "limits", "pattern", "distribution_list", "recipients", "status"}
	if !reflect.DeepEqual(records[0], wantHeader) {
		t.Fatalf("unexpected header %v", records[0])
	}
	wantFirst := []string{"Line1.Temp", "HH,H", "Standard", "Operators", "1", "active"}
	if !reflect.DeepEqual(records[1], wantFirst) {
		t.Fatalf("unexpected row %v, want %v", records[1], wantFirst)
	}
	wantSecond := []string{"Line2.Pressure", "-", "", "", "0", "inactive"}
	if !reflect.DeepEqual(records[2], wantSecond) {
		t.Fatalf("unexpected row %v, want %v", records[2], wantSecond)
	}
}

func TestBuildInventoryPDF(t *testing.T) {
	body, err := BuildInventoryPDF(inventoryFixture(), time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if len(body) == 0 {
		t.Fatalf("expected non-empty pdf")
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("expected pdf magic, got %q", body[:4])
	}
}

func TestBuildInventoryXLSX(t *testing.T) {
	body, err := BuildInventoryXLSX(inventoryFixture(), time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	if len(body) == 0 {
		t.Fatalf("expected non-empty workbook")
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(body, []byte{'P', 'K'}) {
		t.Fatalf("expected zip magic, got %v", body[:2])
	}
}

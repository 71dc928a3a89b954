package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	alerts "github.com/ricmagno/KagomeReports-sub002/internal/alerts/domain"
)

// InventoryRow is one line of the alert configuration report.
type InventoryRow struct {
	Config       alerts.AlertConfig
	PatternName  string
	ListName     string
	EndpointsLen int
}

// BuildInventory joins configs with their pattern and distribution list names.
func BuildInventory(configs []alerts.AlertConfig, patterns map[string]alerts.AlertPattern, lists map[string]alerts.DistributionList) []InventoryRow {
	rows := make([]InventoryRow, 0, len(configs))
	for _, config := range configs {
		row := InventoryRow{Config: config}
		if pattern, ok := patterns[config.PatternID]; ok {
			row.PatternName = pattern.Name
		}
		if list, ok := lists[config.DistributionListID]; ok {
			row.ListName = list.Name
			row.EndpointsLen = len(list.CleanEndpoints())
		}
		rows = append(rows, row)
	}
	return rows
}

func monitoredLabel(config alerts.AlertConfig) string {
	classes := config.MonitoredClasses()
	if len(classes) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(classes))
	for _, class := range classes {
		parts = append(parts, string(class))
	}
	return strings.Join(parts, ",")
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

// BuildInventoryPDF renders the alert inventory as a PDF.
func BuildInventoryPDF(rows []InventoryRow, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Alert Configuration Inventory")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(70, 6, "Tag", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Limits", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Pattern", "1", 0, "L", false, 0, "")
	pdf.CellFormat(55, 6, "Distribution List", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, "Recipients", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		pdf.CellFormat(70, 6, row.Config.TagBase, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, monitoredLabel(row.Config), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, row.PatternName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, row.ListName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", row.EndpointsLen), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, activeLabel(row.Config.Active), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildInventoryXLSX renders the alert inventory as an XLSX workbook.
func BuildInventoryXLSX(rows []InventoryRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "alerts"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Alert Configuration Inventory")
	_ = f.SetCellValue(sheet, "A2", "Generated")
	_ = f.SetCellValue(sheet, "B2", generatedAt.UTC().Format(time.RFC3339))

	headers := []string{"Tag", "Limits", "Pattern", "Distribution List", "Recipients", "Status"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, row := range rows {
		line := i + 5
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.Config.TagBase)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", line), monitoredLabel(row.Config))
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.PatternName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", line), row.ListName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", line), row.EndpointsLen)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", line), activeLabel(row.Config.Active))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildInventoryCSV renders the alert inventory as CSV.
func BuildInventoryCSV(rows []InventoryRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"tag", "limits", "pattern", "distribution_list", "recipients", "status"}); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Config.TagBase,
			monitoredLabel(row.Config),
			row.PatternName,
			row.ListName,
			fmt.Sprintf("%d", row.EndpointsLen),
			activeLabel(row.Config.Active),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

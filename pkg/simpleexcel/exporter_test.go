package simpleexcel

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

type staffRow struct {
	Name   string
	Salary float64
}

func TestDataExporter_FluentSections(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Staff").
		AddSection(&SectionConfig{
			ID:         "staff",
			Title:      "Staff",
			ShowHeader: true,
			Data:       []staffRow{{"Alice", 50000}, {"Bob", 60000}},
			Columns: []ColumnConfig{
				{FieldName: "Name", Header: "Name", Width: 20},
				{FieldName: "Salary", Header: "Salary"},
			},
		}).
		AddSection(&SectionConfig{
			ID:   "summary",
			Data: []map[string]interface{}{{"Key": "Total", "Value": 2}},
			Columns: []ColumnConfig{
				{FieldName: "Key"},
				{FieldName: "Value"},
			},
		})

	f, err := exporter.BuildExcel()
	if err != nil {
		t.Fatalf("BuildExcel: %v", err)
	}
	defer f.Close()

	expected := map[string]string{
		"A1": "Staff",
		"A2": "Name",
		"B2": "Salary",
		"A3": "Alice",
		"B4": "60000",
		// one blank row, then the summary section
		"A6": "Total",
		"B6": "2",
	}
	for cell, want := range expected {
		got, err := f.GetCellValue("Staff", cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}

	width, err := f.GetColWidth("Staff", "A")
	if err != nil {
		t.Fatalf("GetColWidth: %v", err)
	}
	if width != 20 {
		t.Errorf("column A width = %v, want 20", width)
	}
}

func TestDataExporter_NamedFormatter(t *testing.T) {
	exporter := NewDataExporter().
		RegisterFormatter("currency", func(v interface{}) interface{} {
			if price, ok := v.(float64); ok {
				return fmt.Sprintf("$%.2f", price)
			}
			return v
		})

	exporter.AddSheet("Formatted").
		AddSection(&SectionConfig{
			Data: []staffRow{{"Alice", 1200.5}},
			Columns: []ColumnConfig{
				{FieldName: "Name"},
				{FieldName: "Salary", Format: "currency"},
				{FieldName: "Missing", Format: "unregistered"},
			},
		})

	f, err := exporter.BuildExcel()
	if err != nil {
		t.Fatalf("BuildExcel: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Formatted", "B1"); got != "$1200.50" {
		t.Errorf("formatted salary = %q, want $1200.50", got)
	}
	if got, _ := f.GetCellValue("Formatted", "C1"); got != "" {
		t.Errorf("unknown field = %q, want empty", got)
	}
}

func TestDataExporter_LockedSectionProtectsSheet(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Locked").
		AddSection(&SectionConfig{
			Locked:  true,
			Data:    []staffRow{{"Alice", 1}},
			Columns: []ColumnConfig{{FieldName: "Name"}},
		})

	f, err := exporter.BuildExcel()
	if err != nil {
		t.Fatalf("BuildExcel: %v", err)
	}
	defer f.Close()

	styleID, err := f.GetCellStyle("Locked", "A1")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle: %v", err)
	}
	if style.Protection == nil || !style.Protection.Locked {
		t.Errorf("expected locked cell style, got %+v", style.Protection)
	}
}

func TestDataExporter_NoSheets(t *testing.T) {
	if _, err := NewDataExporter().BuildExcel(); err == nil {
		t.Fatal("expected error for an exporter without sheets")
	}
	if err := NewDataExporter().ToCSV(&bytes.Buffer{}); err == nil {
		t.Fatal("expected CSV error for an exporter without sheets")
	}
}

func TestDataExporter_ExportToExcelRoundTrip(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Staff").
		AddSection(&SectionConfig{
			ShowHeader: true,
			Data:       []*staffRow{{"Alice", 50000}, nil},
			Columns:    []ColumnConfig{{FieldName: "Name", Header: "Name"}},
		})

	path := filepath.Join(t.TempDir(), "staff.xlsx")
	if err := exporter.ExportToExcel(path); err != nil {
		t.Fatalf("ExportToExcel: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Staff")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) < 2 || rows[1][0] != "Alice" {
		t.Errorf("unexpected rows %v", rows)
	}
}

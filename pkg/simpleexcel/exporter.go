package simpleexcel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Constants & Types
// =============================================================================

const (
	SectionDirectionHorizontal = "horizontal"
	SectionDirectionVertical   = "vertical"
)

// Formatter transforms a raw cell value before it is written.
type Formatter func(v interface{}) interface{}

// DataExporter is the main entry point for exporting data.
type DataExporter struct {
	template *ReportTemplate
	// data holds data bound to specific section IDs (for YAML flow)
	data map[string]interface{}
	// sheets holds manually added sheets (for programmatic flow)
	sheets     []*SheetBuilder
	formatters map[string]Formatter
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a section of data in a sheet.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Data        interface{}    `yaml:"-"` // Data is bound at runtime
	Locked      bool           `yaml:"locked"`
	ShowHeader  bool           `yaml:"show_header"`
	Direction   string         `yaml:"direction"` // "horizontal" or "vertical"
	Position    string         `yaml:"position"`  // e.g., "A1"
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"` // Struct field name or map key
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
	Format    string  `yaml:"format"` // Registered formatter name
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font   *FontTemplate `yaml:"font"`
	Fill   *FillTemplate `yaml:"fill"`
	Locked *bool         `yaml:"locked"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

// =============================================================================
// Constructors
// =============================================================================

func NewDataExporter() *DataExporter {
	return &DataExporter{
		data:       make(map[string]interface{}),
		formatters: make(map[string]Formatter),
	}
}

// NewDataExporterFromYaml parses a report template from YAML bytes.
func NewDataExporterFromYaml(raw []byte) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal(raw, &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("report template has no sheets")
	}

	e := NewDataExporter()
	e.template = &tmpl
	return e, nil
}

// NewDataExporterFromYamlFile parses a report template file.
func NewDataExporterFromYamlFile(path string) (*DataExporter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	return NewDataExporterFromYaml(raw)
}

// =============================================================================
// Fluent API
// =============================================================================

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{
		exporter: e,
		name:     name,
	}
	e.sheets = append(e.sheets, sb)
	return sb
}

// GetSheet returns the programmatic sheet with the given name, or nil.
func (e *DataExporter) GetSheet(name string) *SheetBuilder {
	for _, sb := range e.sheets {
		if sb.name == name {
			return sb
		}
	}
	return nil
}

// BindSectionData binds data to a section ID (for YAML-based export).
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

// RegisterFormatter makes fn available to columns whose Format is name.
func (e *DataExporter) RegisterFormatter(name string, fn Formatter) *DataExporter {
	e.formatters[name] = fn
	return e
}

type sheetPlan struct {
	name     string
	sections []*SectionConfig
}

// plan merges programmatic sheets and template sheets in render order.
func (e *DataExporter) plan() []sheetPlan {
	var plans []sheetPlan
	for _, sb := range e.sheets {
		plans = append(plans, sheetPlan{name: sb.name, sections: sb.sections})
	}

	if e.template != nil {
		for _, sheetTmpl := range e.template.Sheets {
			sections := make([]*SectionConfig, len(sheetTmpl.Sections))
			for j := range sheetTmpl.Sections {
				sec := sheetTmpl.Sections[j]
				if data, ok := e.data[sec.ID]; ok {
					sec.Data = data
				}
				sections[j] = &sec
			}
			plans = append(plans, sheetPlan{name: sheetTmpl.Name, sections: sections})
		}
	}
	return plans
}

// BuildExcel creates an Excel file in memory and returns it.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	plans := e.plan()
	if len(plans) == 0 {
		return nil, fmt.Errorf("nothing to export: no sheets defined")
	}

	f := excelize.NewFile()
	for i, p := range plans {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", p.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("rename sheet %q: %w", p.name, err)
			}
		} else if idx, _ := f.GetSheetIndex(p.name); idx == -1 {
			if _, err := f.NewSheet(p.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("create sheet %q: %w", p.name, err)
			}
		}

		if err := e.renderSections(f, p.name, p.sections); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// ExportToExcel generates the Excel file on disk.
func (e *DataExporter) ExportToExcel(path string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ToBytes exports the Excel file to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := e.ToWriter(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter writes the Excel file to the provided io.Writer.
func (e *DataExporter) ToWriter(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

// ToCSV writes the first sheet as CSV. Sections are emitted top to bottom
// separated by a blank line; positions and styles are ignored.
func (e *DataExporter) ToCSV(w io.Writer) error {
	plans := e.plan()
	if len(plans) == 0 {
		return fmt.Errorf("nothing to export: no sheets defined")
	}

	cw := csv.NewWriter(w)
	for i, sec := range plans[0].sections {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return fmt.Errorf("error writing CSV row: %w", err)
			}
		}
		if sec.Title != "" {
			if err := cw.Write([]string{sec.Title}); err != nil {
				return fmt.Errorf("error writing CSV row: %w", err)
			}
		}
		if sec.ShowHeader && len(sec.Columns) > 0 {
			headers := make([]string, len(sec.Columns))
			for j, col := range sec.Columns {
				headers[j] = col.Header
			}
			if err := cw.Write(headers); err != nil {
				return fmt.Errorf("error writing CSV row: %w", err)
			}
		}

		rows := reflect.ValueOf(sec.Data)
		if rows.Kind() != reflect.Slice {
			continue
		}
		for r := 0; r < rows.Len(); r++ {
			record := make([]string, len(sec.Columns))
			for j, col := range sec.Columns {
				record[j] = fmt.Sprint(e.cellValue(rows.Index(r), col))
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("error writing CSV row %d: %w", r+1, err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToCSVBytes exports the first sheet as CSV and returns it as a byte slice.
func (e *DataExporter) ToCSVBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.ToCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// SheetBuilder
// =============================================================================

type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

// =============================================================================
// Rendering Logic
// =============================================================================

func (e *DataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	maxRow := 1            // Next available row for Vertical sections (1-based)
	nextColHorizontal := 1 // Next available col for Horizontal sections (1-based)
	hasLockedSections := false

	for _, sec := range sections {
		if sec.Locked {
			hasLockedSections = true
		}

		startCol, startRow := 1, maxRow
		if sec.Direction == SectionDirectionHorizontal {
			startCol, startRow = nextColHorizontal, 1
		}
		if sec.Position != "" {
			if c, r, err := excelize.CellNameToCoordinates(sec.Position); err == nil {
				startCol, startRow = c, r
			}
		}

		currentRow := startRow

		// Cells of a locked section stay read-only once the sheet is protected.
		withLock := func(base *StyleTemplate) *StyleTemplate {
			s := &StyleTemplate{}
			if base != nil {
				*s = *base
			}
			locked := sec.Locked
			s.Locked = &locked
			return s
		}

		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(startCol, currentRow)
			if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
				return fmt.Errorf("write title of %q: %w", sec.ID, err)
			}
			styleID, err := createStyle(f, withLock(sec.TitleStyle))
			if err != nil {
				return err
			}

			endCell := cell
			if len(sec.Columns) > 1 {
				endCell, _ = excelize.CoordinatesToCellName(startCol+len(sec.Columns)-1, currentRow)
				f.MergeCell(sheet, cell, endCell)
			}
			f.SetCellStyle(sheet, cell, endCell, styleID)
			currentRow++
		}

		if sec.ShowHeader {
			styleID, err := createStyle(f, withLock(sec.HeaderStyle))
			if err != nil {
				return err
			}
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(startCol+i, currentRow)
				f.SetCellValue(sheet, cell, col.Header)
				f.SetCellStyle(sheet, cell, cell, styleID)

				if col.Width > 0 {
					colName, _ := excelize.ColumnNumberToName(startCol + i)
					f.SetColWidth(sheet, colName, colName, col.Width)
				}
			}
			currentRow++
		}

		dataStyleID, err := createStyle(f, withLock(nil))
		if err != nil {
			return err
		}
		dataVal := reflect.ValueOf(sec.Data)
		if dataVal.Kind() == reflect.Slice {
			for i := 0; i < dataVal.Len(); i++ {
				item := dataVal.Index(i)
				for j, col := range sec.Columns {
					cell, _ := excelize.CoordinatesToCellName(startCol+j, currentRow)
					if err := f.SetCellValue(sheet, cell, e.cellValue(item, col)); err != nil {
						return fmt.Errorf("write %s row %d: %w", sec.ID, i+1, err)
					}
					f.SetCellStyle(sheet, cell, cell, dataStyleID)
				}
				currentRow++
			}
		}

		// Leave one blank row between stacked sections.
		if currentRow+1 > maxRow {
			maxRow = currentRow + 1
		}
		nextColHorizontal = startCol + len(sec.Columns) + 1
	}

	// Excel only honours Locked=true on a protected sheet.
	if hasLockedSections {
		return f.ProtectSheet(sheet, &excelize.SheetProtectionOptions{
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
	}
	return nil
}

// cellValue extracts a column value from a struct or map row and applies the
// column's formatter, if one is registered.
func (e *DataExporter) cellValue(item reflect.Value, col ColumnConfig) interface{} {
	v := extractValue(item, col.FieldName)
	if col.Format != "" {
		if fn, ok := e.formatters[col.Format]; ok {
			return fn(v)
		}
	}
	return v
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}

	switch item.Kind() {
	case reflect.Struct:
		if f := item.FieldByName(fieldName); f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	case reflect.Map:
		if item.Type().Key().Kind() == reflect.String {
			if v := item.MapIndex(reflect.ValueOf(fieldName)); v.IsValid() {
				return v.Interface()
			}
		}
	}
	return ""
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl == nil {
		return f.NewStyle(style)
	}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Locked != nil {
		style.Protection = &excelize.Protection{
			Locked: *tmpl.Locked,
		}
	}
	return f.NewStyle(style)
}

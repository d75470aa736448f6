package export

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/pkg/simpleexcel"
	"github.com/shopspring/decimal"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Section ids a custom report template may bind.
const (
	SectionEmployees = "employees"
	SectionSummary   = "summary"
)

//go:embed report.yaml
var defaultTemplate []byte

// ParseFormat accepts "xlsx" or "csv" in any case; empty means xlsx.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", domain.NewInputError("format", s, fmt.Errorf("unsupported export format, use xlsx or csv"))
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename names an export of the given page.
func (f Format) Filename(page int) string {
	return fmt.Sprintf("employees_page_%d.%s", page, f)
}

type summaryRow struct {
	Key   string
	Value int
}

// Reporter renders result pages with a report template. An empty template
// path selects the built-in layout.
type Reporter struct {
	templatePath string
}

func NewReporter(templatePath string) *Reporter {
	return &Reporter{templatePath: templatePath}
}

func (r *Reporter) exporter(page domain.ResultPage) (*simpleexcel.DataExporter, error) {
	var (
		exporter *simpleexcel.DataExporter
		err      error
	)
	if r.templatePath != "" {
		exporter, err = simpleexcel.NewDataExporterFromYamlFile(r.templatePath)
	} else {
		exporter, err = simpleexcel.NewDataExporterFromYaml(defaultTemplate)
	}
	if err != nil {
		return nil, fmt.Errorf("load report template: %w", err)
	}

	records := page.Records
	if records == nil {
		records = []domain.Employee{}
	}

	return exporter.
		RegisterFormatter("decimal", decimalCell).
		BindSectionData(SectionEmployees, records).
		BindSectionData(SectionSummary, []summaryRow{
			{Key: "Page", Value: page.Page},
			{Key: "Last page", Value: page.LastPage},
			{Key: "Total", Value: page.Total},
		}), nil
}

// Write renders page in the given format to w.
func (r *Reporter) Write(w io.Writer, page domain.ResultPage, format Format) error {
	exporter, err := r.exporter(page)
	if err != nil {
		return err
	}
	if format == FormatCSV {
		return exporter.ToCSV(w)
	}
	return exporter.ToWriter(w)
}

// decimalCell turns a salary into a spreadsheet number.
func decimalCell(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return v
}

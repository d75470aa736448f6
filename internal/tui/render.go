package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/locvowork/employee_records/internal/domain"
)

const msgNoResults = "No employees found."

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	footerStyle  = lipgloss.NewStyle().Faint(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var columns = []string{"ID", "Name", "Age", "Salary", "Department", "Role"}

// RenderPage draws one result page as a table with a page footer, or the
// no-results notice.
func RenderPage(page domain.ResultPage) string {
	if page.NoResults() {
		return infoStyle.Render(msgNoResults)
	}

	rows := make([][]string, len(page.Records))
	for i, e := range page.Records {
		rows[i] = []string{
			strconv.FormatInt(e.ID, 10),
			e.Name,
			strconv.Itoa(e.Age),
			e.Salary.StringFixed(2),
			e.Department,
			e.Role,
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col == 2 || col == 3:
				return numberStyle
			default:
				return cellStyle
			}
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("Page %d of %d (%d records)", page.Page, page.LastPage, page.Total)))
	return b.String()
}

func renderSuccess(msg string) string {
	return successStyle.Render(msg)
}

func renderError(err error) string {
	return errorStyle.Render(err.Error())
}

func renderWarning(msg string) string {
	return infoStyle.Render(msg)
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/service"
)

const msgAdded = "Employee added successfully!"

// App is the interactive terminal front end over the query engine.
type App struct {
	svc        *service.EmployeeService
	out        io.Writer
	accessible bool
}

func NewApp(svc *service.EmployeeService, out io.Writer, accessible bool) *App {
	return &App{svc: svc, out: out, accessible: accessible}
}

// Run shows the menu until the user quits or aborts with ctrl+c.
func (a *App) Run(ctx context.Context) error {
	for {
		mode := ModeAdd
		if err := a.run(ctx, newModeForm(&mode)); err != nil {
			return ignoreAbort(err)
		}

		var err error
		switch mode {
		case ModeAdd:
			err = a.add(ctx)
		case ModeSearch:
			err = a.search(ctx)
		case ModeSort:
			err = a.sort(ctx)
		case ModeQuit:
			return nil
		}
		// Aborting a sub-form returns to the menu.
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
	}
}

func (a *App) run(ctx context.Context, form *huh.Form) error {
	return form.WithAccessible(a.accessible).RunWithContext(ctx)
}

func (a *App) add(ctx context.Context) error {
	var data AddFormData
	if err := a.run(ctx, newAddForm(&data)); err != nil {
		return err
	}

	n, err := data.NewEmployee()
	if err != nil {
		a.println(renderError(err))
		return nil
	}
	emp, err := a.svc.Add(ctx, n)
	if err != nil {
		a.println(renderError(err))
		return nil
	}

	logger.InfoLog(ctx, "tui: added employee %d", emp.ID)
	a.println(renderSuccess(msgAdded))
	return nil
}

func (a *App) search(ctx context.Context) error {
	var data SearchFormData
	if err := a.run(ctx, newSearchForm(&data)); err != nil {
		return err
	}

	criteria := domain.SearchCriteria{Field: data.Field, Value: data.Value}
	return a.browse(ctx, func(page int) (domain.ResultPage, error) {
		return a.svc.SearchPage(ctx, criteria, domain.FilterSet(data.Filters), page)
	})
}

func (a *App) sort(ctx context.Context) error {
	var data SortFormData
	if err := a.run(ctx, newSortForm(&data)); err != nil {
		return err
	}

	criteria := domain.SortCriteria{Field: data.Field}
	return a.browse(ctx, func(page int) (domain.ResultPage, error) {
		return a.svc.SortPage(ctx, criteria, domain.FilterSet(data.Filters), page)
	})
}

// browse re-runs fetch for every page the user asks for and prints it.
func (a *App) browse(ctx context.Context, fetch func(page int) (domain.ResultPage, error)) error {
	pageNum := 1
	for {
		page, err := fetch(pageNum)
		a.println(describe(page, err))

		if page.LastPage <= 1 {
			return nil
		}

		raw := ""
		if err := a.run(ctx, newPageForm(&raw, page.LastPage)); err != nil {
			return err
		}
		next, ok := parsePage(raw, page.LastPage)
		if !ok {
			return nil
		}
		pageNum = next
	}
}

// describe renders a page together with any error the query reported.
func describe(page domain.ResultPage, err error) string {
	if err == nil {
		return RenderPage(page)
	}

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return renderError(inputErr.Err)
	}
	return renderWarning(fmt.Sprintf("Could not read employees: %v", err)) + "\n" + RenderPage(page)
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func ignoreAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/locvowork/employee_records/internal/bootstrap"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/export"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "employees",
		Short:         "Add, search and sort employee records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newTUICommand())
	cmd.AddCommand(newExportCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API on APP_PORT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app := bootstrap.NewApp()
			if err := app.Initialize(ctx, bootstrap.Options{}); err != nil {
				return err
			}
			app.SetupHTTP()
			return app.Run(ctx)
		},
	}
}

func newTUICommand() *cobra.Command {
	var accessible bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app := bootstrap.NewApp()
			if err := app.Initialize(ctx, bootstrap.Options{QuietLogs: true}); err != nil {
				return err
			}
			defer app.Close()

			return tui.NewApp(app.Service, cmd.OutOrStdout(), accessible).Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&accessible, "accessible", false, "Use plain prompts instead of the full-screen forms")
	return cmd
}

type exportOptions struct {
	mode    string
	by      string
	value   string
	filters []string
	page    int
	format  string
	out     string
}

func newExportCommand() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one result page to an xlsx or csv file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app := bootstrap.NewApp()
			if err := app.Initialize(ctx, bootstrap.Options{QuietLogs: true}); err != nil {
				return err
			}
			defer app.Close()

			path, err := runExport(ctx, app, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.mode, "mode", "search", "search or sort")
	cmd.Flags().StringVar(&opts.by, "by", "", "field to search (id, name, department, role) or sort (age, salary) by")
	cmd.Flags().StringVar(&opts.value, "value", "", "search value")
	cmd.Flags().StringSliceVar(&opts.filters, "filter", nil, "secondary filter columns (name, age, salary, department, role)")
	cmd.Flags().IntVar(&opts.page, "page", 1, "page number")
	cmd.Flags().StringVar(&opts.format, "format", "xlsx", "xlsx or csv")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (defaults to employees_page_N.<format>)")
	cmd.MarkFlagRequired("by")
	return cmd
}

func runExport(ctx context.Context, app *bootstrap.App, opts exportOptions) (string, error) {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}
	filters, err := domain.ParseFilterSet(opts.filters)
	if err != nil {
		return "", err
	}

	var page domain.ResultPage
	switch opts.mode {
	case "search":
		field, perr := domain.ParseSearchField(opts.by)
		if perr != nil {
			return "", perr
		}
		page, err = app.Service.SearchPage(ctx, domain.SearchCriteria{Field: field, Value: opts.value}, filters, opts.page)
	case "sort":
		field, perr := domain.ParseSortField(opts.by)
		if perr != nil {
			return "", perr
		}
		page, err = app.Service.SortPage(ctx, domain.SortCriteria{Field: field}, filters, opts.page)
	default:
		return "", fmt.Errorf("unknown mode %q, use search or sort", opts.mode)
	}
	if err != nil {
		var inputErr *domain.InputError
		if errors.As(err, &inputErr) {
			return "", err
		}
		logger.WarnLog(ctx, "exporting empty page: %v", err)
	}

	path := opts.out
	if path == "" {
		path = format.Filename(page.Page)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := app.Reporter.Write(f, page, format); err != nil {
		return "", err
	}
	return path, f.Close()
}

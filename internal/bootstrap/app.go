package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/employee_records/internal/config"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/export"
	"github.com/locvowork/employee_records/internal/handler"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/metrics"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Echo     *echo.Echo
	Store    domain.RecordStore
	Service  *service.EmployeeService
	Reporter *export.Reporter
}

// Options tune Initialize for the surface being started.
type Options struct {
	// QuietLogs keeps log output off stdout, for the terminal UI.
	QuietLogs bool
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{Echo: e}
}

// Initialize loads configuration, sets up logging and opens the record store.
func (a *App) Initialize(ctx context.Context, opts Options) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL, opts.QuietLogs)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	a.Store = store

	// Initialize dependencies
	a.Service = service.NewEmployeeService(store)
	a.Reporter = export.NewReporter(cfg.REPORT_TEMPLATE_PATH)
	return nil
}

// SetupHTTP registers middlewares and routes on the echo instance.
func (a *App) SetupHTTP() {
	a.RegisterMiddlewares()
	a.RegisterRoutes(handler.NewEmployeeHandler(a.Service, a.Reporter))
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(metrics.EchoMiddleware())
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler) {
	a.Echo.POST("/employees", empHandler.CreateHandler)
	a.Echo.GET("/employees/search", empHandler.SearchHandler)
	a.Echo.GET("/employees/sort", empHandler.SortHandler)
	a.Echo.GET("/employees/export", empHandler.ExportHandler)

	a.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Run serves HTTP on APP_PORT until ctx is cancelled, then shuts down.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.InfoLog(ctx, "shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

// Close releases the record store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	err := a.Store.Close()
	a.Store = nil
	return err
}

package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcome labels.
const (
	StatusOK         = "ok"
	StatusInvalid    = "invalid_input"
	StatusRejected   = "rejected"
	StatusStoreError = "store_error"
)

var (
	// OperationsTotal counts query engine operations (add, search, sort).
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employees_operations_total",
			Help: "Total number of employee record operations",
		},
		[]string{"operation", "status"},
	)
	// ResultRows observes how many records a query returned before paging.
	ResultRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "employees_result_rows",
			Help:    "Number of records returned by the record store per query",
			Buckets: []float64{0, 1, 10, 50, 100, 500, 1000},
		},
		[]string{"operation"},
	)
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "employees_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// EchoMiddleware counts every request in RequestTotal, labelled by route
// pattern rather than raw URL.
func EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			RequestTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}

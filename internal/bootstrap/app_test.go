package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/locvowork/employee_records/internal/config"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/export"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.EnvConfig{
		STORE_BACKEND: config.BackendSQLite,
		SQLITE_PATH:   filepath.Join(t.TempDir(), "employees.db"),
	}

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	rows, err := store.Query(ctx, domain.Predicate{Kind: domain.OrderByAge})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.EnvConfig{STORE_BACKEND: "csv"})
	assert.ErrorContains(t, err, "unknown STORE_BACKEND")
}

func TestApp_Routes(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, &config.EnvConfig{SQLITE_PATH: ":memory:"})
	require.NoError(t, err)

	app := NewApp()
	app.Store = store
	app.Service = service.NewEmployeeService(store)
	app.Reporter = export.NewReporter("")
	app.SetupHTTP()
	t.Cleanup(func() { app.Close() })

	testCases := map[string]struct {
		target         string
		expectedStatus int
	}{
		"sort":       {"/employees/sort?by=age", http.StatusOK},
		"search":     {"/employees/search?by=name&value=x", http.StatusOK},
		"bad search": {"/employees/search?by=nope", http.StatusBadRequest},
		"metrics":    {"/metrics", http.StatusOK},
		"unknown":    {"/employees/42", http.StatusNotFound},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}

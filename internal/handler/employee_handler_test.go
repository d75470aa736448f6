package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_records/internal/database"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/export"
	"github.com/locvowork/employee_records/internal/repository"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	store := repository.NewSQLEmployeeRepository(db, repository.DialectSQLite)
	require.NoError(t, store.CreateSchema(ctx))
	t.Cleanup(func() { store.Close() })

	h := NewEmployeeHandler(service.NewEmployeeService(store), export.NewReporter(""))
	e := echo.New()
	e.POST("/employees", h.CreateHandler)
	e.GET("/employees/search", h.SearchHandler)
	e.GET("/employees/sort", h.SortHandler)
	e.GET("/employees/export", h.ExportHandler)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decodePage(t *testing.T, env envelope) PageResponse {
	t.Helper()
	var page PageResponse
	require.NoError(t, json.Unmarshal(env.Data, &page))
	return page
}

func seed(t *testing.T, e *echo.Echo) {
	t.Helper()
	for _, body := range []string{
		`{"name":"Alice","age":30,"salary":50000,"department":"Eng","role":"Dev"}`,
		`{"name":"Bob","age":40,"salary":"60000","department":"Sales","role":"Mgr"}`,
	} {
		rec, env := do(t, e, http.MethodPost, "/employees", body)
		require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	}
}

func TestCreateHandler(t *testing.T) {
	e := newTestServer(t)

	testCases := map[string]struct {
		body           string
		expectedStatus int
		expectedMsg    string
	}{
		"valid": {
			body:           `{"name":"Alice","age":30,"salary":50000.25,"department":"Eng","role":"Dev"}`,
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Employee added successfully!",
		},
		"underage is rejected by the store": {
			body:           `{"name":"Kid","age":12,"salary":0}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		"negative salary is rejected by the store": {
			body:           `{"name":"Debt","age":30,"salary":-1}`,
			expectedStatus: http.StatusUnprocessableEntity,
		},
		"non-numeric age": {
			body:           `{"name":"X","age":"thirty","salary":1}`,
			expectedStatus: http.StatusBadRequest,
		},
		"missing salary": {
			body:           `{"name":"X","age":30}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			rec, env := do(t, e, http.MethodPost, "/employees", tc.body)
			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, tc.expectedStatus == http.StatusCreated, env.Success)
			if tc.expectedMsg != "" {
				assert.Equal(t, tc.expectedMsg, env.Message)
			}
		})
	}
}

func TestSearchHandler(t *testing.T) {
	e := newTestServer(t)
	seed(t, e)

	rec, env := do(t, e, http.MethodGet, "/employees/search?by=department&value=eng", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodePage(t, env)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "Alice", page.Records[0].Name)
	assert.Equal(t, 1, page.LastPage)

	rec, env = do(t, e, http.MethodGet, "/employees/search?by=name&value=zed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No employees found.", env.Message)
	assert.Empty(t, decodePage(t, env).Records)
}

func TestSearchHandler_Filters(t *testing.T) {
	e := newTestServer(t)
	seed(t, e)

	// Bob's role "Mgr" does not contain "b"; his name does.
	rec, env := do(t, e, http.MethodGet, "/employees/search?by=name&value=b&filter=name&filter=role", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodePage(t, env).Records)

	rec, env = do(t, e, http.MethodGet, "/employees/search?by=name&value=b&filter=Name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodePage(t, env).Records, 1)
}

func TestSearchHandler_InvalidInput(t *testing.T) {
	e := newTestServer(t)
	seed(t, e)

	for _, target := range []string{
		"/employees/search?by=id&value=abc",
		"/employees/search?by=salary&value=1",
		"/employees/search?by=name&value=a&filter=nickname",
		"/employees/search?by=name&value=a&page=two",
	} {
		t.Run(target, func(t *testing.T) {
			rec, env := do(t, e, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
			page := decodePage(t, env)
			assert.Empty(t, page.Records)
			assert.Equal(t, 1, page.LastPage)
		})
	}
}

func TestSortHandler(t *testing.T) {
	e := newTestServer(t)
	seed(t, e)

	rec, env := do(t, e, http.MethodGet, "/employees/sort?by=salary&filter=name&page=99", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decodePage(t, env)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "Alice", page.Records[0].Name)
	assert.Equal(t, "Bob", page.Records[1].Name)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.PageSize, page.PageSize)

	rec, _ = do(t, e, http.MethodGet, "/employees/sort?by=name", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandler(t *testing.T) {
	e := newTestServer(t)
	seed(t, e)

	rec, _ := do(t, e, http.MethodGet, "/employees/export?mode=sort&by=age&format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "employees_page_1.csv")
	assert.Contains(t, rec.Body.String(), "1,Alice,30,50000,Eng,Dev")

	rec, _ = do(t, e, http.MethodGet, "/employees/export?by=role&value=mgr", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	rec, _ = do(t, e, http.MethodGet, "/employees/export?mode=delete", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/employees/export?by=id&value=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

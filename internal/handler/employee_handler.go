package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/export"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/locvowork/employee_records/internal/service/serviceutils"
)

const (
	msgAdded     = "Employee added successfully!"
	msgNoResults = "No employees found."
	msgResults   = "Employees found"
)

type EmployeeHandler struct {
	svc      *service.EmployeeService
	reporter *export.Reporter
}

func NewEmployeeHandler(svc *service.EmployeeService, reporter *export.Reporter) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, reporter: reporter}
}

// CreateHandler handles POST /employees.
func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req AddEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	n, err := req.toNewEmployee()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid employee", err)
	}

	emp, err := h.svc.Add(c.Request().Context(), n)
	if err != nil {
		var constraintErr *domain.ConstraintError
		if errors.As(err, &constraintErr) {
			return serviceutils.ResponseError(c, http.StatusUnprocessableEntity, "Employee rejected", err)
		}
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to add employee", err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, msgAdded, emp)
}

// SearchHandler handles GET /employees/search?by=&value=&filter=&page=.
func (h *EmployeeHandler) SearchHandler(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid search", err, emptyPage())
	}

	field, err := domain.ParseSearchField(c.QueryParam("by"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid search", err, emptyPage())
	}

	criteria := domain.SearchCriteria{Field: field, Value: c.QueryParam("value")}
	page, err := h.svc.SearchPage(c.Request().Context(), criteria, q.filters, q.page)
	return respondPage(c, page, err)
}

// SortHandler handles GET /employees/sort?by=&filter=&page=.
func (h *EmployeeHandler) SortHandler(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid sort", err, emptyPage())
	}

	field, err := domain.ParseSortField(c.QueryParam("by"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid sort", err, emptyPage())
	}

	page, err := h.svc.SortPage(c.Request().Context(), domain.SortCriteria{Field: field}, q.filters, q.page)
	return respondPage(c, page, err)
}

// ExportHandler handles GET /employees/export?mode=search|sort&format=xlsx|csv
// plus the search or sort parameters, and streams the selected page.
func (h *EmployeeHandler) ExportHandler(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export", err)
	}

	format, err := export.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export", err)
	}

	ctx := c.Request().Context()
	var page domain.ResultPage
	switch mode := strings.ToLower(c.QueryParam("mode")); mode {
	case "", "search":
		field, perr := domain.ParseSearchField(c.QueryParam("by"))
		if perr != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export", perr)
		}
		page, err = h.svc.SearchPage(ctx, domain.SearchCriteria{Field: field, Value: c.QueryParam("value")}, q.filters, q.page)
	case "sort":
		field, perr := domain.ParseSortField(c.QueryParam("by"))
		if perr != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export", perr)
		}
		page, err = h.svc.SortPage(ctx, domain.SortCriteria{Field: field}, q.filters, q.page)
	default:
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export",
			domain.NewInputError("mode", mode, fmt.Errorf("use search or sort")))
	}

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export", err)
	}
	// A store failure still exports the (empty) page.

	var buf bytes.Buffer
	if err := h.reporter.Write(&buf, page, format); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to export employees", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", format.Filename(page.Page)))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

type pageQuery struct {
	filters domain.FilterSet
	page    int
}

// parseQuery reads the repeated filter parameter (comma lists allowed) and
// the page number, which defaults to 1.
func parseQuery(c echo.Context) (pageQuery, error) {
	var names []string
	for _, raw := range c.QueryParams()["filter"] {
		names = append(names, strings.Split(raw, ",")...)
	}
	filters, err := domain.ParseFilterSet(names)
	if err != nil {
		return pageQuery{}, err
	}

	page := 1
	if raw := strings.TrimSpace(c.QueryParam("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return pageQuery{}, domain.NewInputError("page", raw, fmt.Errorf("page must be an integer"))
		}
	}
	return pageQuery{filters: filters, page: page}, nil
}

// respondPage maps a query outcome onto the envelope. Input errors are the
// caller's fault; store errors degrade to an empty page with a warning.
func respondPage(c echo.Context, page domain.ResultPage, err error) error {
	resp := newPageResponse(page)

	if err != nil {
		var inputErr *domain.InputError
		if errors.As(err, &inputErr) {
			return serviceutils.ResponseError(c, http.StatusBadRequest, inputErr.Err.Error(), err, resp)
		}
		resp.Warning = err.Error()
	}

	message := msgResults
	if page.NoResults() {
		message = msgNoResults
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, message, resp)
}

func emptyPage() PageResponse {
	return newPageResponse(service.NewResultProcessor().Paginate(nil, 1))
}

package serviceutils

import (
	"github.com/labstack/echo/v4"
	"github.com/locvowork/employee_records/internal/logger"
)

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ResponseSuccess writes a successful envelope.
func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ResponseError writes a failed envelope and logs the cause. Data may carry
// a fallback payload, such as an empty result page.
func ResponseError(c echo.Context, status int, message string, err error, data ...interface{}) error {
	resp := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
		logger.WarnLog(c.Request().Context(), "%s %s: %s: %v", c.Request().Method, c.Path(), message, err)
	}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	return c.JSON(status, resp)
}

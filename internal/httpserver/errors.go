package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/service"
)

// statusOf maps service and storage errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, repo.ErrStorage):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// fail logs err under event and turns it into an echo.HTTPError. Client
// errors keep their message; server errors get reason as a generic one.
func fail(l *slog.Logger, event, reason string, err error) error {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", reason, "error", err)
		return echo.NewHTTPError(status, reason)
	}
	l.Warn(event, "status", status, "reason", reason, "error", err)
	return echo.NewHTTPError(status, err.Error())
}

func badRequest(l *slog.Logger, event, msg string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", msg, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// bind decodes the request into dst and validates it.
func bind(c echo.Context, l *slog.Logger, event string, dst any) error {
	if err := c.Bind(dst); err != nil {
		return badRequest(l, event, "invalid body", err)
	}
	if err := c.Validate(dst); err != nil {
		return badRequest(l, event, err.Error(), err)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorHandler renders every error as {"error": "..."} and never leaks
// internal error text for 5xx responses.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		}
		if status >= http.StatusInternalServerError && he.Internal != nil {
			msg = http.StatusText(status)
		}
	} else if s := statusOf(err); s < http.StatusInternalServerError {
		status = s
		msg = err.Error()
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorBody{Error: msg})
}

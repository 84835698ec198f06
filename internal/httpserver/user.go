package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/service"
	"github.com/Skotchmaster/pc_store/internal/transport"
	"github.com/Skotchmaster/pc_store/pkg/logging"
	middleware "github.com/Skotchmaster/pc_store/pkg/middleware/auth"
	"github.com/Skotchmaster/pc_store/pkg/tokens"
)

type UserHTTP struct {
	Svc      *service.UserService
	Producer mykafka.Publisher
	Auth     *middleware.Auth
}

func (h *UserHTTP) forbidAdminGrant(c echo.Context, l *slog.Logger, event string, isAdmin bool) error {
	if !isAdmin || h.Auth == nil || h.Auth.CanGrantAdmin(c) {
		return nil
	}
	l.Warn(event, "status", http.StatusForbidden, "reason", "admin grant by non-admin")
	return echo.NewHTTPError(http.StatusForbidden, "only admins can grant admin rights")
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	req := listRequest(c, "role")
	if role, ok := req.Filters["role"]; ok && role != models.RoleAdmin && role != models.RoleCustomer {
		return badRequest(l, "get_users_error", "role must be admin or customer", nil)
	}
	page, err := h.Svc.List(ctx, req)
	if err != nil {
		return fail(l, "get_users_error", "cannot list users", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"users": page.Items,
		"total": page.Total,
	})
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	user, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_user_error", "cannot get user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	user, err := h.Svc.Get(ctx, middleware.UserID(c))
	if err != nil {
		return fail(l, "get_me_error", "cannot get user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create_user")

	var req transport.CreateUserRequest
	if err := bind(c, l, "user_create_error", &req); err != nil {
		return err
	}
	if err := h.forbidAdminGrant(c, l, "user_create_error", req.IsAdmin); err != nil {
		return err
	}
	user, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "user_create_error", "cannot create user", err)
	}

	publish(c, h.Producer, mykafka.TopicUsers, user.ID, mykafka.NewEvent("user_registered", user.ID, user))
	l.Info("create_user_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_user")

	var req transport.PatchUserRequest
	if err := bind(c, l, "user_update_error", &req); err != nil {
		return err
	}
	if err := h.forbidAdminGrant(c, l, "user_update_error", req.IsAdmin != nil && *req.IsAdmin); err != nil {
		return err
	}
	user, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "user_update_error", "cannot update user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_user")

	user, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "user_delete_error", "cannot delete user", err)
	}

	publish(c, h.Producer, mykafka.TopicUsers, user.ID, mykafka.NewEvent("user_deleted", user.ID, nil))
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login_error", &req); err != nil {
		return err
	}
	resp, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", "cannot log in", err)
	}

	c.SetCookie(tokens.AccessCookie(resp.Token, time.Unix(resp.ExpiresAt, 0)))
	l.Info("login_success", "user_id", resp.User.ID)
	return c.JSON(http.StatusOK, resp)
}

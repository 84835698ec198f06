package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/service"
	"github.com/Skotchmaster/pc_store/internal/transport"
	"github.com/Skotchmaster/pc_store/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	cart, err := h.Svc.Get(ctx, c.Param("userId"))
	if err != nil {
		return fail(l, "get_cart_error", "cannot get cart", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartHTTP) ReplaceCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.replace_cart")

	var req transport.CartItemsRequest
	if err := bind(c, l, "cart_replace_error", &req); err != nil {
		return err
	}
	cart, err := h.Svc.Replace(ctx, c.Param("userId"), req.Items)
	if err != nil {
		return fail(l, "cart_replace_error", "cannot save cart", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.CartItemRequest
	if err := bind(c, l, "cart_add_error", &req); err != nil {
		return err
	}
	cart, err := h.Svc.AddItem(ctx, c.Param("userId"), req.Item)
	if err != nil {
		return fail(l, "cart_add_error", "cannot add item", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	cart, err := h.Svc.RemoveItem(ctx, c.Param("userId"), c.Param("itemId"))
	if err != nil {
		return fail(l, "cart_remove_error", "cannot remove item", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cart": cart})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	userID := c.Param("userId")
	if err := h.Svc.Clear(ctx, userID); err != nil {
		return fail(l, "cart_clear_error", "cannot clear cart", err)
	}
	cart, err := h.Svc.Get(ctx, userID)
	if err != nil {
		return fail(l, "cart_clear_error", "cannot clear cart", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"cart": cart})
}

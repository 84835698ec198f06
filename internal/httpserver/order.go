package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/service"
	"github.com/Skotchmaster/pc_store/internal/transport"
	"github.com/Skotchmaster/pc_store/pkg/logging"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Producer mykafka.Publisher
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	req := listRequest(c, "userId", "status")
	if st, ok := req.Filters["status"]; ok && !models.OrderStatus(st).Valid() {
		return badRequest(l, "get_orders_error", "invalid status "+st, nil)
	}
	page, err := h.Svc.List(ctx, req)
	if err != nil {
		return fail(l, "get_orders_error", "cannot list orders", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"orders": page.Items,
		"total":  page.Total,
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	order, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_order_error", "cannot get order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := bind(c, l, "order_create_error", &req); err != nil {
		return err
	}
	order, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "order_create_error", "cannot create order", err)
	}

	publish(c, h.Producer, mykafka.TopicOrders, order.UserID, mykafka.NewEvent("order_created", order.ID, order))
	l.Info("create_order_success", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order")

	var req transport.PatchOrderRequest
	if err := bind(c, l, "order_update_error", &req); err != nil {
		return err
	}
	order, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "order_update_error", "cannot update order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) PayOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.pay_order")

	var req transport.PayOrderRequest
	if err := bind(c, l, "order_pay_error", &req); err != nil {
		return err
	}
	order, err := h.Svc.Pay(ctx, c.Param("id"), models.PaymentResult(req))
	if err != nil {
		return fail(l, "order_pay_error", "cannot pay order", err)
	}

	publish(c, h.Producer, mykafka.TopicOrders, order.UserID, mykafka.NewEvent("order_paid", order.ID, order.PaymentResult))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) SetStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.set_status")

	var req transport.OrderStatusRequest
	if err := bind(c, l, "order_status_error", &req); err != nil {
		return err
	}
	order, err := h.Svc.SetStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return fail(l, "order_status_error", "cannot change order status", err)
	}

	publish(c, h.Producer, mykafka.TopicOrders, order.UserID, mykafka.NewEvent("order_status_changed", order.ID, map[string]any{
		"status": order.Status,
	}))
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	order, err := h.Svc.Delete(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "order_delete_error", "cannot delete order", err)
	}
	return c.JSON(http.StatusOK, order)
}

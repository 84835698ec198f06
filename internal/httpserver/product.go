package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/service"
	"github.com/Skotchmaster/pc_store/internal/transport"
	"github.com/Skotchmaster/pc_store/pkg/logging"
)

type ProductHTTP struct {
	Svc      *service.CatalogService
	Producer mykafka.Publisher
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	req := listRequest(c, "category", "brand", "featured")
	if !normalizeBoolFilter(&req, "featured") {
		return badRequest(l, "get_products_error", "featured must be a boolean", nil)
	}

	page, err := h.Svc.ListProducts(ctx, req)
	if err != nil {
		return fail(l, "get_products_error", "cannot list products", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"products": page.Items,
		"total":    page.Total,
	})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_product_error", "cannot get product", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.CreateProductRequest
	if err := bind(c, l, "product_create_error", &req); err != nil {
		return err
	}

	product, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "product_create_error", "cannot create product", err)
	}

	publish(c, h.Producer, mykafka.TopicProducts, product.ID, mykafka.NewEvent("product_created", product.ID, product))
	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	var req transport.PatchProductRequest
	if err := bind(c, l, "product_update_error", &req); err != nil {
		return err
	}

	product, err := h.Svc.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "product_update_error", "cannot update product", err)
	}

	publish(c, h.Producer, mykafka.TopicProducts, product.ID, mykafka.NewEvent("product_updated", product.ID, product))
	l.Info("update_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	product, err := h.Svc.DeleteProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "product_delete_error", "cannot delete product", err)
	}

	publish(c, h.Producer, mykafka.TopicProducts, product.ID, mykafka.NewEvent("product_deleted", product.ID, nil))
	l.Info("delete_product_success", "product_id", product.ID)
	return c.JSON(http.StatusOK, product)
}

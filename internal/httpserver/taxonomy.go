package httpserver

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/service"
	"github.com/Skotchmaster/pc_store/internal/transport"
	"github.com/Skotchmaster/pc_store/pkg/logging"
)

// LabelHTTP serves /api/categories or /api/brands.
type LabelHTTP struct {
	Svc      *service.LabelService
	Producer mykafka.Publisher
	Plural   string
}

func nameParam(c echo.Context) string {
	raw := c.Param("name")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (h *LabelHTTP) event(typ string) string { return h.Svc.Kind.Name + "_" + typ }

func (h *LabelHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Plural+".list")

	page, err := h.Svc.List(ctx, listRequest(c))
	if err != nil {
		return fail(l, "list_labels_error", "cannot list "+h.Plural, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		h.Plural: page.Items,
		"total":  page.Total,
	})
}

func (h *LabelHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Plural+".get")

	label, err := h.Svc.Get(ctx, nameParam(c))
	if err != nil {
		return fail(l, "get_label_error", "cannot get "+h.Svc.Kind.Name, err)
	}
	return c.JSON(http.StatusOK, label)
}

func (h *LabelHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Plural+".create")

	var req transport.CreateLabelRequest
	if err := bind(c, l, "label_create_error", &req); err != nil {
		return err
	}
	label, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "label_create_error", "cannot create "+h.Svc.Kind.Name, err)
	}

	publish(c, h.Producer, mykafka.TopicCatalog, label.Name, mykafka.NewEvent(h.event("created"), label.ID, label))
	return c.JSON(http.StatusCreated, label)
}

func (h *LabelHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Plural+".update")

	var req transport.PatchLabelRequest
	if err := bind(c, l, "label_update_error", &req); err != nil {
		return err
	}
	label, err := h.Svc.Update(ctx, nameParam(c), req)
	if err != nil {
		return fail(l, "label_update_error", "cannot update "+h.Svc.Kind.Name, err)
	}

	publish(c, h.Producer, mykafka.TopicCatalog, label.Name, mykafka.NewEvent(h.event("updated"), label.ID, label))
	return c.JSON(http.StatusOK, label)
}

// Rename handles PUT on the collection with {oldName, newName}.
func (h *LabelHTTP) Rename(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Plural+".rename")

	var req transport.RenameLabelRequest
	if err := bind(c, l, "label_rename_error", &req); err != nil {
		return err
	}
	label, n, err := h.Svc.Rename(ctx, req.OldName, req.NewName)
	if err != nil {
		return fail(l, "label_rename_error", "cannot rename "+h.Svc.Kind.Name, err)
	}

	l.Info("label_renamed", "old", req.OldName, "new", label.Name, "products", n)
	publish(c, h.Producer, mykafka.TopicCatalog, label.Name, mykafka.NewEvent(h.event("renamed"), label.ID, map[string]any{
		"oldName": req.OldName,
		"newName": label.Name,
	}))
	return c.JSON(http.StatusOK, map[string]any{
		h.Svc.Kind.Name:   label,
		"updatedProducts": n,
	})
}

func (h *LabelHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.Plural+".delete")

	label, err := h.Svc.Delete(ctx, nameParam(c))
	if err != nil {
		return fail(l, "label_delete_error", "cannot delete "+h.Svc.Kind.Name, err)
	}

	publish(c, h.Producer, mykafka.TopicCatalog, label.Name, mykafka.NewEvent(h.event("deleted"), label.ID, nil))
	return c.JSON(http.StatusOK, label)
}

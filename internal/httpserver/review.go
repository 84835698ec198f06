package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pc_store/internal/mykafka"
	"github.com/Skotchmaster/pc_store/internal/transport"
	"github.com/Skotchmaster/pc_store/pkg/logging"
)

func (h *ProductHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_reviews")

	page, err := h.Svc.ListReviews(ctx, c.Param("id"), listRequest(c))
	if err != nil {
		return fail(l, "get_reviews_error", "cannot list reviews", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"reviews": page.Items,
		"total":   page.Total,
	})
}

func (h *ProductHTTP) GetReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.get_review")

	review, err := h.Svc.GetReview(ctx, c.Param("id"), c.Param("reviewId"))
	if err != nil {
		return fail(l, "get_review_error", "cannot get review", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ProductHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create_review")

	var req transport.CreateReviewRequest
	if err := bind(c, l, "review_create_error", &req); err != nil {
		return err
	}

	productID := c.Param("id")
	review, err := h.Svc.AddReview(ctx, productID, req)
	if err != nil {
		return fail(l, "review_create_error", "cannot add review", err)
	}

	publish(c, h.Producer, mykafka.TopicProducts, productID, mykafka.NewEvent("review_added", review.ID, review))
	return c.JSON(http.StatusCreated, review)
}

func (h *ProductHTTP) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update_review")

	var req transport.PatchReviewRequest
	if err := bind(c, l, "review_update_error", &req); err != nil {
		return err
	}

	review, err := h.Svc.UpdateReview(ctx, c.Param("id"), c.Param("reviewId"), req)
	if err != nil {
		return fail(l, "review_update_error", "cannot update review", err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ProductHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete_review")

	review, err := h.Svc.DeleteReview(ctx, c.Param("id"), c.Param("reviewId"))
	if err != nil {
		return fail(l, "review_delete_error", "cannot delete review", err)
	}
	return c.JSON(http.StatusOK, review)
}

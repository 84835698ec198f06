package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/transport"
)

type OrderService struct {
	Store *repo.Store
}

func findOrder(doc *models.Document, id string) int {
	return slices.IndexFunc(doc.Orders, func(o models.Order) bool { return o.ID == id })
}

// Totals computes itemsPrice and totalPrice in decimal, rounded to cents.
func Totals(items []models.OrderItem, shipping, tax float64) (itemsPrice, total float64) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	sum = sum.Round(2)
	tot := sum.Add(decimal.NewFromFloat(shipping)).Add(decimal.NewFromFloat(tax)).Round(2)
	return sum.InexactFloat64(), tot.InexactFloat64()
}

func (s *OrderService) List(ctx context.Context, req query.Request) (query.Page[models.Order], error) {
	var page query.Page[models.Order]
	err := s.Store.View(ctx, func(doc *models.Document) error {
		page = query.Run(doc.Orders, OrderQuery, req)
		return nil
	})
	return page, err
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	err := s.Store.View(ctx, func(doc *models.Document) error {
		i := findOrder(doc, id)
		if i < 0 {
			return notFoundf("order %s", id)
		}
		out = doc.Orders[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create places a Pending order from item snapshots and drops the user's
// cart in the same save.
func (s *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, validationf("userId is required")
	}
	if len(req.OrderItems) == 0 {
		return nil, validationf("orderItems must contain at least one item")
	}
	for i, it := range req.OrderItems {
		if it.Product == "" {
			return nil, validationf("orderItems[%d].product is required", i)
		}
		if it.Qty <= 0 {
			return nil, validationf("orderItems[%d].qty must be > 0", i)
		}
		if it.Price < 0 {
			return nil, validationf("orderItems[%d].price must be >= 0", i)
		}
	}
	if req.ShippingPrice < 0 || req.TaxPrice < 0 {
		return nil, validationf("shippingPrice and taxPrice must be >= 0")
	}

	itemsPrice, total := Totals(req.OrderItems, req.ShippingPrice, req.TaxPrice)
	ts := now()
	order := models.Order{
		ID:              newID(),
		UserID:          userID,
		UserName:        req.UserName,
		OrderItems:      slices.Clone(req.OrderItems),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TaxPrice:        req.TaxPrice,
		TotalPrice:      total,
		Status:          models.StatusPending,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}

	err := s.Store.Update(ctx, func(doc *models.Document) error {
		if order.UserName == "" {
			if i := findUser(doc, userID); i >= 0 {
				order.UserName = doc.Users[i].Name
			}
		}
		doc.Orders = append(doc.Orders, order)
		doc.Carts = slices.DeleteFunc(doc.Carts, func(c models.Cart) bool { return c.UserID == userID })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// applyStatus moves o to status. Terminal orders keep their status.
func applyStatus(o *models.Order, status models.OrderStatus) error {
	if !status.Valid() {
		return validationf("invalid status %q", status)
	}
	if o.Status == status {
		return nil
	}
	if o.Status.Terminal() {
		return conflictf("order %s is %s", o.ID, o.Status)
	}
	o.Status = status
	if status == models.StatusDelivered {
		ts := now()
		o.IsDelivered = true
		o.DeliveredAt = &ts
	}
	return nil
}

func (s *OrderService) Update(ctx context.Context, id string, req transport.PatchOrderRequest) (*models.Order, error) {
	var out models.Order
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findOrder(doc, id)
		if i < 0 {
			return notFoundf("order %s", id)
		}
		order := doc.Orders[i]
		if req.ShippingAddress != nil {
			order.ShippingAddress = *req.ShippingAddress
		}
		if req.PaymentMethod != nil {
			order.PaymentMethod = *req.PaymentMethod
		}
		if req.Status != nil {
			if err := applyStatus(&order, *req.Status); err != nil {
				return err
			}
		}
		order.UpdatedAt = now()
		doc.Orders[i] = order
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) SetStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return s.Update(ctx, id, transport.PatchOrderRequest{Status: &status})
}

// Pay records a payment. A Pending order moves to Processing.
func (s *OrderService) Pay(ctx context.Context, id string, result models.PaymentResult) (*models.Order, error) {
	var out models.Order
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findOrder(doc, id)
		if i < 0 {
			return notFoundf("order %s", id)
		}
		order := doc.Orders[i]
		if order.IsPaid {
			return conflictf("order %s is already paid", id)
		}
		if order.Status == models.StatusCancelled {
			return conflictf("order %s is cancelled", id)
		}
		ts := now()
		order.IsPaid = true
		order.PaidAt = &ts
		if result.UpdateTime == "" {
			result.UpdateTime = ts.Format(time.RFC3339)
		}
		order.PaymentResult = &result
		if order.Status == models.StatusPending {
			order.Status = models.StatusProcessing
		}
		order.UpdatedAt = ts
		doc.Orders[i] = order
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) (*models.Order, error) {
	var out models.Order
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findOrder(doc, id)
		if i < 0 {
			return notFoundf("order %s", id)
		}
		out = doc.Orders[i]
		doc.Orders = slices.Delete(doc.Orders, i, i+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

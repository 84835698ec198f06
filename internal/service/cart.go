package service

import (
	"context"
	"slices"
	"strings"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/repo"
)

// CartService keeps one cart per user id. Carts are created on first write.
type CartService struct {
	Store *repo.Store
}

func findCart(doc *models.Document, userID string) int {
	return slices.IndexFunc(doc.Carts, func(c models.Cart) bool { return c.UserID == userID })
}

func emptyCart(userID string) models.Cart {
	return models.Cart{UserID: userID, Items: []models.CartItem{}}
}

func validateCartItem(it models.CartItem) error {
	if it.Product == "" {
		return validationf("item.product is required")
	}
	if it.Qty <= 0 {
		return validationf("item.qty must be > 0")
	}
	if it.Price < 0 {
		return validationf("item.price must be >= 0")
	}
	return nil
}

// upsert finds or creates the user's cart, lets fn change it and stores it.
func (s *CartService) upsert(ctx context.Context, userID string, fn func(c *models.Cart) error) (*models.Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, validationf("userId is required")
	}
	var out models.Cart
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findCart(doc, userID)
		if i < 0 {
			c := emptyCart(userID)
			c.ID = newID()
			doc.Carts = append(doc.Carts, c)
			i = len(doc.Carts) - 1
		}
		cart := doc.Carts[i]
		cart.Items = slices.Clone(cart.Items)
		if err := fn(&cart); err != nil {
			return err
		}
		if cart.Items == nil {
			cart.Items = []models.CartItem{}
		}
		cart.UpdatedAt = now()
		doc.Carts[i] = cart
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the user's cart, or an empty one without persisting it.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	out := emptyCart(userID)
	err := s.Store.View(ctx, func(doc *models.Document) error {
		if i := findCart(doc, userID); i >= 0 {
			out = doc.Carts[i]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Replace sets the cart's items. Items repeating a product are merged.
func (s *CartService) Replace(ctx context.Context, userID string, items []models.CartItem) (*models.Cart, error) {
	for _, it := range items {
		if err := validateCartItem(it); err != nil {
			return nil, err
		}
	}
	return s.upsert(ctx, userID, func(c *models.Cart) error {
		c.Items = []models.CartItem{}
		for _, it := range items {
			c.Items = mergeItem(c.Items, it)
		}
		return nil
	})
}

// AddItem adds item to the cart, summing qty when the product is already in it.
func (s *CartService) AddItem(ctx context.Context, userID string, item models.CartItem) (*models.Cart, error) {
	if err := validateCartItem(item); err != nil {
		return nil, err
	}
	return s.upsert(ctx, userID, func(c *models.Cart) error {
		c.Items = mergeItem(c.Items, item)
		return nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	return s.upsert(ctx, userID, func(c *models.Cart) error {
		i := slices.IndexFunc(c.Items, func(it models.CartItem) bool { return it.Product == productID })
		if i < 0 {
			return notFoundf("product %s is not in the cart", productID)
		}
		c.Items = slices.Delete(c.Items, i, i+1)
		return nil
	})
}

// Clear deletes the user's cart. Clearing an absent cart is not an error.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.Store.Update(ctx, func(doc *models.Document) error {
		doc.Carts = slices.DeleteFunc(doc.Carts, func(c models.Cart) bool { return c.UserID == userID })
		return nil
	})
}

func mergeItem(items []models.CartItem, it models.CartItem) []models.CartItem {
	i := slices.IndexFunc(items, func(x models.CartItem) bool { return x.Product == it.Product })
	if i < 0 {
		return append(items, it)
	}
	qty := items[i].Qty + it.Qty
	items[i] = it
	items[i].Qty = qty
	return items
}

package transport

import "github.com/Skotchmaster/pc_store/internal/models"

type CreateProductRequest struct {
	Name         string   `json:"name"         validate:"required,max=200"`
	Description  string   `json:"description"  validate:"max=5000"`
	Price        float64  `json:"price"        validate:"gte=0"`
	Category     string   `json:"category"     validate:"required"`
	Brand        string   `json:"brand"        validate:"required"`
	CountInStock int      `json:"countInStock" validate:"gte=0"`
	Specs        []string `json:"specs"`
	Featured     bool     `json:"featured"`
	Image        string   `json:"image"`
}

type PatchProductRequest struct {
	Name         *string   `json:"name"         validate:"omitempty,max=200"`
	Description  *string   `json:"description"  validate:"omitempty,max=5000"`
	Price        *float64  `json:"price"        validate:"omitempty,gte=0"`
	Category     *string   `json:"category"`
	Brand        *string   `json:"brand"`
	CountInStock *int      `json:"countInStock" validate:"omitempty,gte=0"`
	Specs        *[]string `json:"specs"`
	Featured     *bool     `json:"featured"`
	Image        *string   `json:"image"`
}

type CreateReviewRequest struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"    validate:"required,max=100,no_xss"`
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000,no_xss"`
}

type PatchReviewRequest struct {
	Name    *string `json:"name"    validate:"omitempty,max=100,no_xss"`
	Rating  *int    `json:"rating"  validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000,no_xss"`
}

type CreateLabelRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Logo        string `json:"logo"`
}

type PatchLabelRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Logo        *string `json:"logo"`
}

type RenameLabelRequest struct {
	OldName string `json:"oldName" validate:"required"`
	NewName string `json:"newName" validate:"required,max=100"`
}

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	IsAdmin  bool   `json:"isAdmin"`
}

type PatchUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	IsAdmin  *bool   `json:"isAdmin"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User      models.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt int64             `json:"expiresAt"`
}

type CreateOrderRequest struct {
	UserID          string                 `json:"userId"          validate:"required"`
	UserName        string                 `json:"userName"`
	OrderItems      []models.OrderItem     `json:"orderItems"      validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ShippingPrice   float64                `json:"shippingPrice"   validate:"gte=0"`
	TaxPrice        float64                `json:"taxPrice"        validate:"gte=0"`
}

type PatchOrderRequest struct {
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   *string                 `json:"paymentMethod"`
	Status          *models.OrderStatus     `json:"status"          validate:"omitempty,order_status"`
}

type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,order_status"`
}

// PayOrderRequest is the payment provider callback body.
type PayOrderRequest struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"updateTime"`
	Email      string `json:"email"`
}

type CartItemsRequest struct {
	Items []models.CartItem `json:"items" validate:"dive"`
}

type CartItemRequest struct {
	Item models.CartItem `json:"item"`
}

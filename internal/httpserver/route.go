package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/repo"
	middleware "github.com/Skotchmaster/pc_store/pkg/middleware/auth"
)

type Deps struct {
	Store          *repo.Store
	ProductHandler *ProductHTTP
	Categories     *LabelHTTP
	Brands         *LabelHTTP
	UserHandler    *UserHTTP
	OrderHandler   *OrderHTTP
	CartHandler    *CartHTTP
	UploadHandler  *UploadHTTP
	Auth           *middleware.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		err := d.Store.View(c.Request().Context(), func(*models.Document) error { return nil })
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable").SetInternal(err)
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	admin := d.Auth.RequireAdmin

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, admin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, admin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, admin)

	products.GET("/:id/reviews", d.ProductHandler.GetReviews)
	products.POST("/:id/reviews", d.ProductHandler.CreateReview)
	products.GET("/:id/reviews/:reviewId", d.ProductHandler.GetReview)
	products.PUT("/:id/reviews/:reviewId", d.ProductHandler.UpdateReview)
	products.DELETE("/:id/reviews/:reviewId", d.ProductHandler.DeleteReview, admin)

	for prefix, h := range map[string]*LabelHTTP{"/categories": d.Categories, "/brands": d.Brands} {
		g := api.Group(prefix)
		g.GET("", h.List)
		g.GET("/:name", h.Get)
		g.POST("", h.Create, admin)
		g.PUT("", h.Rename, admin)
		g.PUT("/:name", h.Update, admin)
		g.DELETE("/:name", h.Delete, admin)
	}

	users := api.Group("/users", d.Auth.Optional)
	users.POST("/login", d.UserHandler.Login)
	users.GET("/me", d.UserHandler.Me, d.Auth.RequireAuth)
	users.POST("", d.UserHandler.CreateUser)
	users.GET("", d.UserHandler.GetUsers, admin)
	users.GET("/:id", d.UserHandler.GetUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser, admin)

	orders := api.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder, admin)
	orders.PUT("/:id/pay", d.OrderHandler.PayOrder)
	orders.PUT("/:id/status", d.OrderHandler.SetStatus, admin)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, admin)

	cart := api.Group("/cart/:userId")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.ReplaceCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.DELETE("/items/:itemId", d.CartHandler.RemoveItem)

	// multipart framing needs some room above the file limit
	limit := fmt.Sprintf("%dK", (d.UploadHandler.MaxBytes+(1<<20))/1024)
	api.POST("/upload", d.UploadHandler.Upload, echomw.BodyLimit(limit))
	e.Static("/uploads", d.UploadHandler.Dir)
}

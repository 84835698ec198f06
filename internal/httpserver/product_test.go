package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pc_store/internal/models"
)

type productsPage struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
}

func TestProducts_CRUD(t *testing.T) {
	s := newTestServer(t, false)
	s.seedCatalog(t)

	rec := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"id":       "client-chosen",
		"name":     "Titan",
		"price":    1999.5,
		"category": "Gaming PC",
		"brand":    "Acme",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Product](t, rec)
	assert.NotEqual(t, "client-chosen", created.ID)

	rec = s.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Titan", decode[models.Product](t, rec).Name)

	rec = s.do(t, http.MethodPut, "/api/products/"+created.ID, map[string]any{"countInStock": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Product](t, rec)
	assert.Equal(t, 3, updated.CountInStock)
	assert.Equal(t, 1999.5, updated.Price)

	rec = s.do(t, http.MethodDelete, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode[errResp](t, rec).Error)
}

func TestProducts_ValidationErrors(t *testing.T) {
	s := newTestServer(t, false)
	s.seedCatalog(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing name", map[string]any{"price": 1, "category": "Laptop", "brand": "Acme"}},
		{"negative price", map[string]any{"name": "x", "price": -1, "category": "Laptop", "brand": "Acme"}},
		{"unknown brand", map[string]any{"name": "x", "category": "Laptop", "brand": "Nope"}},
		{"malformed", "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errResp](t, rec).Error)
		})
	}
}

func TestProducts_ListQuery(t *testing.T) {
	s := newTestServer(t, false)
	s.seedCatalog(t)

	seed := []map[string]any{
		{"name": "Gaming Rig", "price": 1500, "category": "Gaming PC", "brand": "Acme"},
		{"name": "Office Box", "price": 500, "category": "Laptop", "brand": "Acme"},
		{"name": "Budget gaming", "price": 900, "category": "Gaming PC", "brand": "Zen", "featured": true},
		{"name": "Workstation", "price": 2500, "category": "Laptop", "brand": "Zen"},
		{"name": "Creator", "description": "Gaming capable", "price": 2000, "category": "Laptop", "brand": "Acme"},
	}
	for _, p := range seed {
		rec := s.do(t, http.MethodPost, "/api/products", p)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/products?q=gaming&sort=price_desc&page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[productsPage](t, rec)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Creator", page.Products[0].Name)
	assert.Equal(t, "Gaming Rig", page.Products[1].Name)

	rec = s.do(t, http.MethodGet, "/api/products?brand=Zen&category=Laptop", nil)
	page = decode[productsPage](t, rec)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Workstation", page.Products[0].Name)

	rec = s.do(t, http.MethodGet, "/api/products?featured=1", nil)
	page = decode[productsPage](t, rec)
	assert.Equal(t, 1, page.Total)

	rec = s.do(t, http.MethodGet, "/api/products?featured=perhaps", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products?page=9", nil)
	page = decode[productsPage](t, rec)
	assert.Equal(t, 5, page.Total)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)

	rec = s.do(t, http.MethodGet, "/api/products?page=92233720368547760&limit=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[productsPage](t, rec)
	assert.Equal(t, 5, page.Total)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)

	rec = s.do(t, http.MethodGet, "/api/products?sort=bogus_up", nil)
	page = decode[productsPage](t, rec)
	require.Len(t, page.Products, 5)
	assert.Equal(t, "Gaming Rig", page.Products[0].Name)
}

func TestReviews_HTTP(t *testing.T) {
	s := newTestServer(t, false)
	s.seedCatalog(t)
	rec := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Rig", "category": "Laptop", "brand": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decode[models.Product](t, rec)

	for _, r := range []int{4, 4, 5} {
		rec = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/reviews", map[string]any{"name": "ann", "rating": r})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	last := decode[models.Review](t, rec)

	rec = s.do(t, http.MethodPut, "/api/products/"+p.ID+"/reviews/"+last.ID, map[string]any{"name": "<script>alert(1)</script>"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/"+p.ID, nil)
	got := decode[models.Product](t, rec)
	assert.Equal(t, 4.33, got.Rating)
	assert.Equal(t, 3, got.NumReviews)

	rec = s.do(t, http.MethodGet, "/api/products/"+p.ID+"/reviews?sort=rating_desc&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Reviews []models.Review `json:"reviews"`
		Total   int             `json:"total"`
	}](t, rec)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, 5, page.Reviews[0].Rating)

	rec = s.do(t, http.MethodDelete, "/api/products/"+p.ID+"/reviews/"+last.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/products/"+p.ID, nil)
	got = decode[models.Product](t, rec)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 2, got.NumReviews)

	rec = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/reviews", map[string]any{"name": "ann", "rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/products/"+p.ID+"/reviews", map[string]any{"name": "x", "rating": 3, "comment": "<script>alert(1)</script>"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/products/missing/reviews", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

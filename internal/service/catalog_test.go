package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/transport"
)

func TestCreateProduct_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Gaming PC"}, []string{"Acme"})
	svc := &CatalogService{Store: store}
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:         "Titan",
		Description:  "RTX tower",
		Price:        1999.99,
		Category:     "Gaming PC",
		Brand:        "Acme",
		CountInStock: 4,
		Specs:        []string{"32GB RAM"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, 0, created.NumReviews)
	assert.Empty(t, created.Reviews)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Titan", got.Name)
	assert.Equal(t, []string{"32GB RAM"}, got.Specs)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateProduct_Validation(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Laptop"}, []string{"Acme"})
	svc := &CatalogService{Store: store}

	tests := []struct {
		name string
		req  transport.CreateProductRequest
	}{
		{"empty name", transport.CreateProductRequest{Name: " ", Category: "Laptop", Brand: "Acme"}},
		{"negative price", transport.CreateProductRequest{Name: "x", Price: -1, Category: "Laptop", Brand: "Acme"}},
		{"negative stock", transport.CreateProductRequest{Name: "x", CountInStock: -2, Category: "Laptop", Brand: "Acme"}},
		{"unknown category", transport.CreateProductRequest{Name: "x", Category: "Phones", Brand: "Acme"}},
		{"unknown brand", transport.CreateProductRequest{Name: "x", Category: "Laptop", Brand: "Nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	page, err := svc.ListProducts(context.Background(), query.Request{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestUpdateProduct_ShallowMerge(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Laptop", "Desktop"}, []string{"Acme"})
	svc := &CatalogService{Store: store}
	ctx := context.Background()
	p := createProduct(t, svc, "Book", "Laptop", "Acme", 800)

	updated, err := svc.UpdateProduct(ctx, p.ID, transport.PatchProductRequest{Price: ptr(750.0)})
	require.NoError(t, err)
	assert.Equal(t, 750.0, updated.Price)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Book", got.Name)
	assert.Equal(t, "Laptop", got.Category)
	assert.Equal(t, 750.0, got.Price)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	_, err = svc.UpdateProduct(ctx, p.ID, transport.PatchProductRequest{Category: ptr("Phones")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProduct(ctx, "missing", transport.PatchProductRequest{Name: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Laptop"}, []string{"Acme"})
	svc := &CatalogService{Store: store}
	ctx := context.Background()
	p := createProduct(t, svc, "Book", "Laptop", "Acme", 800)

	deleted, err := svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = svc.GetProduct(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.DeleteProduct(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListProducts_SearchSortPaginate(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Desktop"}, []string{"Acme"})
	svc := &CatalogService{Store: store}
	ctx := context.Background()

	createProduct(t, svc, "Gaming Rig", "Desktop", "Acme", 1500)
	createProduct(t, svc, "Office Box", "Desktop", "Acme", 500)
	createProduct(t, svc, "Budget GAMING tower", "Desktop", "Acme", 900)
	createProduct(t, svc, "Workstation", "Desktop", "Acme", 2500)
	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Creator", Description: "also fine for gaming", Price: 2000, Category: "Desktop", Brand: "Acme",
	})
	require.NoError(t, err)

	page, err := svc.ListProducts(ctx, query.Request{Q: "gaming", Sort: "price_desc", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Creator", page.Items[0].Name)
	assert.Equal(t, "Gaming Rig", page.Items[1].Name)

	page, err = svc.ListProducts(ctx, query.Request{Q: "gaming", Sort: "price_desc", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Budget GAMING tower", page.Items[0].Name)
}

func TestCreateProduct_ConcurrentWritersAllPersist(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Desktop"}, []string{"Acme"})
	svc := &CatalogService{Store: store}

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
				Name: "Box", Category: "Desktop", Brand: "Acme",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	page, err := svc.ListProducts(context.Background(), query.Request{Limit: query.MaxLimit})
	require.NoError(t, err)
	assert.Equal(t, n, page.Total)
}

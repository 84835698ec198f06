package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/transport"
)

func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	return repo.NewStore(repo.NewFileBackend(filepath.Join(t.TempDir(), "db.json")), nil)
}

// seedTaxonomy creates the given categories and brands.
func seedTaxonomy(t *testing.T, store *repo.Store, categories, brands []string) {
	t.Helper()
	ctx := context.Background()
	cats := NewLabelService(store, Categories)
	for _, name := range categories {
		_, err := cats.Create(ctx, transport.CreateLabelRequest{Name: name})
		require.NoError(t, err)
	}
	brs := NewLabelService(store, Brands)
	for _, name := range brands {
		_, err := brs.Create(ctx, transport.CreateLabelRequest{Name: name})
		require.NoError(t, err)
	}
}

func createProduct(t *testing.T, svc *CatalogService, name, category, brand string, price float64) *models.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), transport.CreateProductRequest{
		Name:     name,
		Price:    price,
		Category: category,
		Brand:    brand,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }

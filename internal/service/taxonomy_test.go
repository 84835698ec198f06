package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/transport"
)

func TestRenameCategory_Cascades(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Gaming PC", "Laptop"}, []string{"Acme"})
	catalog := &CatalogService{Store: store}
	cats := NewLabelService(store, Categories)
	ctx := context.Background()

	createProduct(t, catalog, "A", "Gaming PC", "Acme", 1)
	createProduct(t, catalog, "B", "Gaming PC", "Acme", 2)
	createProduct(t, catalog, "C", "Laptop", "Acme", 3)

	label, n, err := cats.Rename(ctx, "Gaming PC", "Gaming Desktop")
	require.NoError(t, err)
	assert.Equal(t, "Gaming Desktop", label.Name)
	assert.Equal(t, 2, n)

	old, err := catalog.ListProducts(ctx, query.Request{Filters: map[string]string{"category": "Gaming PC"}})
	require.NoError(t, err)
	assert.Equal(t, 0, old.Total)

	renamed, err := catalog.ListProducts(ctx, query.Request{Filters: map[string]string{"category": "Gaming Desktop"}})
	require.NoError(t, err)
	assert.Equal(t, 2, renamed.Total)

	_, err = cats.Get(ctx, "Gaming PC")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRename_Errors(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Laptop", "Desktop"}, nil)
	cats := NewLabelService(store, Categories)
	ctx := context.Background()

	_, _, err := cats.Rename(ctx, "Laptop", "Desktop")
	require.ErrorIs(t, err, ErrConflict)
	_, _, err = cats.Rename(ctx, "Phones", "Tablets")
	require.ErrorIs(t, err, ErrNotFound)
	_, _, err = cats.Rename(ctx, "Laptop", " ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestLabelUpdate_NameCascadesToProducts(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Laptop"}, []string{"Acme"})
	catalog := &CatalogService{Store: store}
	brands := NewLabelService(store, Brands)
	ctx := context.Background()
	p := createProduct(t, catalog, "A", "Laptop", "Acme", 1)

	updated, err := brands.Update(ctx, "Acme", transport.PatchLabelRequest{Name: ptr("Acme Corp"), Logo: ptr("/uploads/acme.png")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, "/uploads/acme.png", updated.Logo)

	got, err := catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Brand)
}

func TestDeleteBrand_GuardedWhileInUse(t *testing.T) {
	store := newTestStore(t)
	seedTaxonomy(t, store, []string{"Laptop"}, []string{"Acme", "Zen"})
	catalog := &CatalogService{Store: store}
	brands := NewLabelService(store, Brands)
	ctx := context.Background()
	p := createProduct(t, catalog, "A", "Laptop", "Acme", 1)

	_, err := brands.Delete(ctx, "Acme")
	require.ErrorIs(t, err, ErrConflict)

	_, err = catalog.UpdateProduct(ctx, p.ID, transport.PatchProductRequest{Brand: ptr("Zen")})
	require.NoError(t, err)

	deleted, err := brands.Delete(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", deleted.Name)

	page, err := brands.List(ctx, query.Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestCreateLabel_Duplicate(t *testing.T) {
	store := newTestStore(t)
	cats := NewLabelService(store, Categories)
	ctx := context.Background()

	_, err := cats.Create(ctx, transport.CreateLabelRequest{Name: "Laptop"})
	require.NoError(t, err)
	_, err = cats.Create(ctx, transport.CreateLabelRequest{Name: "Laptop"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestLegacyStringLabelsGetIDOnWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &models.Document{Categories: []models.Label{{Name: "Laptop"}}}))
	cats := NewLabelService(store, Categories)

	updated, err := cats.Update(ctx, "Laptop", transport.PatchLabelRequest{Description: ptr("portable")})
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ID)
	assert.Equal(t, "portable", updated.Description)
}

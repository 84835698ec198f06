package service

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/transport"
)

type CatalogService struct {
	Store *repo.Store
}

func findProduct(doc *models.Document, id string) int {
	return slices.IndexFunc(doc.Products, func(p models.Product) bool { return p.ID == id })
}

func labelExists(labels []models.Label, name string) bool {
	return slices.ContainsFunc(labels, func(l models.Label) bool { return l.Name == name })
}

func checkReferences(doc *models.Document, category, brand string) error {
	if !labelExists(doc.Categories, category) {
		return validationf("category %q does not exist", category)
	}
	if !labelExists(doc.Brands, brand) {
		return validationf("brand %q does not exist", brand)
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context, req query.Request) (query.Page[models.Product], error) {
	var page query.Page[models.Product]
	err := s.Store.View(ctx, func(doc *models.Document) error {
		page = query.Run(doc.Products, ProductQuery, req)
		return nil
	})
	return page, err
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	err := s.Store.View(ctx, func(doc *models.Document) error {
		i := findProduct(doc, id)
		if i < 0 {
			return notFoundf("product %s", id)
		}
		out = doc.Products[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationf("name is required")
	}
	if req.Price < 0 {
		return nil, validationf("price must be >= 0")
	}
	if req.CountInStock < 0 {
		return nil, validationf("countInStock must be >= 0")
	}

	ts := now()
	prod := models.Product{
		ID:           newID(),
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Brand:        req.Brand,
		CountInStock: req.CountInStock,
		Reviews:      []models.Review{},
		Specs:        req.Specs,
		Featured:     req.Featured,
		Image:        req.Image,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if prod.Specs == nil {
		prod.Specs = []string{}
	}

	err := s.Store.Update(ctx, func(doc *models.Document) error {
		if err := checkReferences(doc, prod.Category, prod.Brand); err != nil {
			return err
		}
		doc.Products = append(doc.Products, prod)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req transport.PatchProductRequest) (*models.Product, error) {
	var out models.Product
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findProduct(doc, id)
		if i < 0 {
			return notFoundf("product %s", id)
		}
		prod := doc.Products[i]

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return validationf("name must not be empty")
			}
			prod.Name = name
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.Price != nil {
			if *req.Price < 0 {
				return validationf("price must be >= 0")
			}
			prod.Price = *req.Price
		}
		if req.CountInStock != nil {
			if *req.CountInStock < 0 {
				return validationf("countInStock must be >= 0")
			}
			prod.CountInStock = *req.CountInStock
		}
		if req.Category != nil {
			prod.Category = *req.Category
		}
		if req.Brand != nil {
			prod.Brand = *req.Brand
		}
		if req.Specs != nil {
			prod.Specs = *req.Specs
			if prod.Specs == nil {
				prod.Specs = []string{}
			}
		}
		if req.Featured != nil {
			prod.Featured = *req.Featured
		}
		if req.Image != nil {
			prod.Image = *req.Image
		}

		if req.Category != nil && !labelExists(doc.Categories, prod.Category) {
			return validationf("category %q does not exist", prod.Category)
		}
		if req.Brand != nil && !labelExists(doc.Brands, prod.Brand) {
			return validationf("brand %q does not exist", prod.Brand)
		}

		prod.UpdatedAt = now()
		doc.Products[i] = prod
		out = prod
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	var out models.Product
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findProduct(doc, id)
		if i < 0 {
			return notFoundf("product %s", id)
		}
		out = doc.Products[i]
		doc.Products = slices.Delete(doc.Products, i, i+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// recomputeRating sets Rating to the mean review rating rounded to two
// decimals and NumReviews to the review count.
func recomputeRating(p *models.Product) {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	var sum int64
	for _, r := range p.Reviews {
		sum += int64(r.Rating)
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(p.NumReviews))).Round(2)
	p.Rating = mean.InexactFloat64()
}

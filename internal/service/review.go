package service

import (
	"context"
	"slices"
	"strings"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/transport"
)

func findReview(p *models.Product, id string) int {
	return slices.IndexFunc(p.Reviews, func(r models.Review) bool { return r.ID == id })
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

func (s *CatalogService) ListReviews(ctx context.Context, productID string, req query.Request) (query.Page[models.Review], error) {
	var page query.Page[models.Review]
	err := s.Store.View(ctx, func(doc *models.Document) error {
		i := findProduct(doc, productID)
		if i < 0 {
			return notFoundf("product %s", productID)
		}
		page = query.Run(doc.Products[i].Reviews, ReviewQuery, req)
		return nil
	})
	return page, err
}

func (s *CatalogService) GetReview(ctx context.Context, productID, reviewID string) (*models.Review, error) {
	var out models.Review
	err := s.Store.View(ctx, func(doc *models.Document) error {
		i := findProduct(doc, productID)
		if i < 0 {
			return notFoundf("product %s", productID)
		}
		j := findReview(&doc.Products[i], reviewID)
		if j < 0 {
			return notFoundf("review %s", reviewID)
		}
		out = doc.Products[i].Reviews[j]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddReview appends a review and refreshes the product's rating in the same
// save. A user may review a product once.
func (s *CatalogService) AddReview(ctx context.Context, productID string, req transport.CreateReviewRequest) (*models.Review, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, validationf("name is required")
	}
	if !validRating(req.Rating) {
		return nil, validationf("rating must be between 1 and 5")
	}

	ts := now()
	review := models.Review{
		ID:        newID(),
		UserID:    req.UserID,
		Name:      req.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findProduct(doc, productID)
		if i < 0 {
			return notFoundf("product %s", productID)
		}
		prod := &doc.Products[i]
		if review.UserID != "" && slices.ContainsFunc(prod.Reviews, func(r models.Review) bool { return r.UserID == review.UserID }) {
			return conflictf("product already reviewed by user %s", review.UserID)
		}
		prod.Reviews = append(prod.Reviews, review)
		recomputeRating(prod)
		prod.UpdatedAt = ts
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *CatalogService) UpdateReview(ctx context.Context, productID, reviewID string, req transport.PatchReviewRequest) (*models.Review, error) {
	var out models.Review
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findProduct(doc, productID)
		if i < 0 {
			return notFoundf("product %s", productID)
		}
		prod := &doc.Products[i]
		j := findReview(prod, reviewID)
		if j < 0 {
			return notFoundf("review %s", reviewID)
		}
		review := prod.Reviews[j]

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return validationf("name must not be empty")
			}
			review.Name = name
		}
		if req.Rating != nil {
			if !validRating(*req.Rating) {
				return validationf("rating must be between 1 and 5")
			}
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			review.Comment = *req.Comment
		}

		ts := now()
		review.UpdatedAt = ts
		prod.Reviews[j] = review
		recomputeRating(prod)
		prod.UpdatedAt = ts
		out = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) DeleteReview(ctx context.Context, productID, reviewID string) (*models.Review, error) {
	var out models.Review
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findProduct(doc, productID)
		if i < 0 {
			return notFoundf("product %s", productID)
		}
		prod := &doc.Products[i]
		j := findReview(prod, reviewID)
		if j < 0 {
			return notFoundf("review %s", reviewID)
		}
		out = prod.Reviews[j]
		prod.Reviews = slices.Delete(prod.Reviews, j, j+1)
		recomputeRating(prod)
		prod.UpdatedAt = now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

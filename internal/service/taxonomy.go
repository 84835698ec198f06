package service

import (
	"context"
	"slices"
	"strings"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/transport"
)

// LabelKind selects which label collection a LabelService manages and which
// product field references it.
type LabelKind struct {
	Name       string
	collection func(*models.Document) *[]models.Label
	field      func(*models.Product) *string
}

var (
	Categories = LabelKind{
		Name:       "category",
		collection: func(d *models.Document) *[]models.Label { return &d.Categories },
		field:      func(p *models.Product) *string { return &p.Category },
	}
	Brands = LabelKind{
		Name:       "brand",
		collection: func(d *models.Document) *[]models.Label { return &d.Brands },
		field:      func(p *models.Product) *string { return &p.Brand },
	}
)

// LabelService manages categories or brands. Labels are keyed by name;
// products hold the name, so renames rewrite every referencing product.
type LabelService struct {
	Store *repo.Store
	Kind  LabelKind
}

func NewLabelService(store *repo.Store, kind LabelKind) *LabelService {
	return &LabelService{Store: store, Kind: kind}
}

func findLabel(labels []models.Label, name string) int {
	return slices.IndexFunc(labels, func(l models.Label) bool { return l.Name == name })
}

// usage counts products referencing name.
func (s *LabelService) usage(doc *models.Document, name string) int {
	n := 0
	for i := range doc.Products {
		if *s.Kind.field(&doc.Products[i]) == name {
			n++
		}
	}
	return n
}

// cascade rewrites references from oldName to newName and returns how many
// products changed.
func (s *LabelService) cascade(doc *models.Document, oldName, newName string) int {
	n := 0
	ts := now()
	for i := range doc.Products {
		f := s.Kind.field(&doc.Products[i])
		if *f == oldName {
			*f = newName
			doc.Products[i].UpdatedAt = ts
			n++
		}
	}
	return n
}

func (s *LabelService) List(ctx context.Context, req query.Request) (query.Page[models.Label], error) {
	var page query.Page[models.Label]
	err := s.Store.View(ctx, func(doc *models.Document) error {
		page = query.Run(*s.Kind.collection(doc), LabelQuery, req)
		return nil
	})
	return page, err
}

func (s *LabelService) Get(ctx context.Context, name string) (*models.Label, error) {
	var out models.Label
	err := s.Store.View(ctx, func(doc *models.Document) error {
		labels := *s.Kind.collection(doc)
		i := findLabel(labels, name)
		if i < 0 {
			return notFoundf("%s %q", s.Kind.Name, name)
		}
		out = labels[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *LabelService) Create(ctx context.Context, req transport.CreateLabelRequest) (*models.Label, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	ts := now()
	label := models.Label{
		ID:          newID(),
		Name:        name,
		Description: req.Description,
		Logo:        req.Logo,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		labels := s.Kind.collection(doc)
		if findLabel(*labels, name) >= 0 {
			return conflictf("%s %q already exists", s.Kind.Name, name)
		}
		*labels = append(*labels, label)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// Update merges description and logo; a new name is applied like Rename.
func (s *LabelService) Update(ctx context.Context, name string, req transport.PatchLabelRequest) (*models.Label, error) {
	var out models.Label
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		labels := s.Kind.collection(doc)
		i := findLabel(*labels, name)
		if i < 0 {
			return notFoundf("%s %q", s.Kind.Name, name)
		}
		label := (*labels)[i]

		if req.Name != nil {
			newName := strings.TrimSpace(*req.Name)
			if newName == "" {
				return validationf("name must not be empty")
			}
			if newName != label.Name {
				if findLabel(*labels, newName) >= 0 {
					return conflictf("%s %q already exists", s.Kind.Name, newName)
				}
				s.cascade(doc, label.Name, newName)
				label.Name = newName
			}
		}
		if req.Description != nil {
			label.Description = *req.Description
		}
		if req.Logo != nil {
			label.Logo = *req.Logo
		}
		if label.ID == "" {
			label.ID = newID()
		}
		label.UpdatedAt = now()
		(*labels)[i] = label
		out = label
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Rename changes a label's name and rewrites every product referencing it
// in the same save. It returns the renamed label and the number of products
// rewritten.
func (s *LabelService) Rename(ctx context.Context, oldName, newName string) (*models.Label, int, error) {
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return nil, 0, validationf("oldName and newName are required")
	}
	var (
		out     models.Label
		changed int
	)
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		labels := s.Kind.collection(doc)
		i := findLabel(*labels, oldName)
		if i < 0 {
			return notFoundf("%s %q", s.Kind.Name, oldName)
		}
		if oldName == newName {
			out = (*labels)[i]
			return nil
		}
		if findLabel(*labels, newName) >= 0 {
			return conflictf("%s %q already exists", s.Kind.Name, newName)
		}
		label := (*labels)[i]
		changed = s.cascade(doc, oldName, newName)
		label.Name = newName
		if label.ID == "" {
			label.ID = newID()
		}
		label.UpdatedAt = now()
		(*labels)[i] = label
		out = label
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &out, changed, nil
}

func (s *LabelService) Delete(ctx context.Context, name string) (*models.Label, error) {
	var out models.Label
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		labels := s.Kind.collection(doc)
		i := findLabel(*labels, name)
		if i < 0 {
			return notFoundf("%s %q", s.Kind.Name, name)
		}
		if n := s.usage(doc, name); n > 0 {
			return conflictf("%s %q is used by %d product(s)", s.Kind.Name, name, n)
		}
		out = (*labels)[i]
		*labels = slices.Delete(*labels, i, i+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

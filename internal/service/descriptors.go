package service

import (
	"strconv"
	"time"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/query"
)

var ProductQuery = query.Descriptor[models.Product]{
	Search: []func(models.Product) string{
		func(p models.Product) string { return p.Name },
		func(p models.Product) string { return p.Description },
	},
	Filters: map[string]func(models.Product) string{
		"category": func(p models.Product) string { return p.Category },
		"brand":    func(p models.Product) string { return p.Brand },
		"featured": func(p models.Product) string { return strconv.FormatBool(p.Featured) },
	},
	Sorts: map[string]query.Compare[models.Product]{
		"price":        query.ByNumber(func(p models.Product) float64 { return p.Price }),
		"createdAt":    query.ByTime(func(p models.Product) time.Time { return p.CreatedAt }),
		"rating":       query.ByNumber(func(p models.Product) float64 { return p.Rating }),
		"name":         query.ByText(func(p models.Product) string { return p.Name }),
		"countInStock": query.ByNumber(func(p models.Product) int { return p.CountInStock }),
	},
}

var UserQuery = query.Descriptor[models.User]{
	Search: []func(models.User) string{
		func(u models.User) string { return u.Name },
		func(u models.User) string { return u.Email },
	},
	Filters: map[string]func(models.User) string{
		"role": func(u models.User) string { return models.RoleFor(u.IsAdmin) },
	},
	Sorts: map[string]query.Compare[models.User]{
		"name":      query.ByText(func(u models.User) string { return u.Name }),
		"email":     query.ByText(func(u models.User) string { return u.Email }),
		"createdAt": query.ByTime(func(u models.User) time.Time { return u.CreatedAt }),
	},
}

var OrderQuery = query.Descriptor[models.Order]{
	Search: []func(models.Order) string{
		func(o models.Order) string { return o.ID },
		func(o models.Order) string { return o.UserName },
	},
	Filters: map[string]func(models.Order) string{
		"userId": func(o models.Order) string { return o.UserID },
		"status": func(o models.Order) string { return string(o.Status) },
	},
	Sorts: map[string]query.Compare[models.Order]{
		"createdAt":  query.ByTime(func(o models.Order) time.Time { return o.CreatedAt }),
		"totalPrice": query.ByNumber(func(o models.Order) float64 { return o.TotalPrice }),
		"status":     query.ByText(func(o models.Order) string { return string(o.Status) }),
	},
	DefaultSort: "createdAt_desc",
}

var ReviewQuery = query.Descriptor[models.Review]{
	Search: []func(models.Review) string{
		func(r models.Review) string { return r.Name },
		func(r models.Review) string { return r.Comment },
	},
	Sorts: map[string]query.Compare[models.Review]{
		"createdAt": query.ByTime(func(r models.Review) time.Time { return r.CreatedAt }),
		"rating":    query.ByNumber(func(r models.Review) int { return r.Rating }),
	},
}

var LabelQuery = query.Descriptor[models.Label]{
	Search: []func(models.Label) string{
		func(l models.Label) string { return l.Name },
		func(l models.Label) string { return l.Description },
	},
	Sorts: map[string]query.Compare[models.Label]{
		"name":      query.ByText(func(l models.Label) string { return l.Name }),
		"createdAt": query.ByTime(func(l models.Label) time.Time { return l.CreatedAt }),
	},
}

package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Skotchmaster/pc_store/internal/models"
	"github.com/Skotchmaster/pc_store/internal/query"
	"github.com/Skotchmaster/pc_store/internal/repo"
	"github.com/Skotchmaster/pc_store/internal/transport"
	"github.com/Skotchmaster/pc_store/pkg/hash"
	"github.com/Skotchmaster/pc_store/pkg/logging"
	"github.com/Skotchmaster/pc_store/pkg/tokens"
)

type UserService struct {
	Store     *repo.Store
	JWTSecret []byte
	TokenTTL  time.Duration
}

func findUser(doc *models.Document, id string) int {
	return slices.IndexFunc(doc.Users, func(u models.User) bool { return u.ID == id })
}

func findUserByEmail(doc *models.Document, email string) int {
	return slices.IndexFunc(doc.Users, func(u models.User) bool { return u.Email == email })
}

func (s *UserService) List(ctx context.Context, req query.Request) (query.Page[models.PublicUser], error) {
	var page query.Page[models.User]
	if err := s.Store.View(ctx, func(doc *models.Document) error {
		page = query.Run(doc.Users, UserQuery, req)
		return nil
	}); err != nil {
		return query.Page[models.PublicUser]{}, err
	}

	out := make([]models.PublicUser, 0, len(page.Items))
	for _, u := range page.Items {
		out = append(out, u.Public())
	}
	return query.Page[models.PublicUser]{Items: out, Total: page.Total}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	var out models.PublicUser
	err := s.Store.View(ctx, func(doc *models.Document) error {
		i := findUser(doc, id)
		if i < 0 {
			return notFoundf("user %s", id)
		}
		out = doc.Users[i].Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores a new user. Email uniqueness is exact-match.
func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (*models.PublicUser, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" {
		return nil, validationf("name is required")
	}
	if email == "" {
		return nil, validationf("email is required")
	}
	if req.Password == "" {
		return nil, validationf("password is required")
	}
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ts := now()
	user := models.User{
		ID:        newID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		IsAdmin:   req.IsAdmin,
		Role:      models.RoleFor(req.IsAdmin),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	err = s.Store.Update(ctx, func(doc *models.Document) error {
		if findUserByEmail(doc, email) >= 0 {
			return validationf("email %q is already registered", email)
		}
		doc.Users = append(doc.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

func (s *UserService) Update(ctx context.Context, id string, req transport.PatchUserRequest) (*models.PublicUser, error) {
	var hashed string
	if req.Password != nil {
		h, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, validationf("password: %v", err)
		}
		hashed = h
	}

	var out models.PublicUser
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findUser(doc, id)
		if i < 0 {
			return notFoundf("user %s", id)
		}
		user := doc.Users[i]
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return validationf("name must not be empty")
			}
			user.Name = name
		}
		if req.Email != nil {
			email := strings.TrimSpace(*req.Email)
			if email == "" {
				return validationf("email must not be empty")
			}
			user.Email = email
		}
		if hashed != "" {
			user.Password = hashed
		}
		if req.IsAdmin != nil {
			user.IsAdmin = *req.IsAdmin
			user.Role = models.RoleFor(user.IsAdmin)
		}
		user.UpdatedAt = now()
		doc.Users[i] = user
		out = user.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a user. Admin accounts cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id string) (*models.PublicUser, error) {
	var out models.PublicUser
	err := s.Store.Update(ctx, func(doc *models.Document) error {
		i := findUser(doc, id)
		if i < 0 {
			return notFoundf("user %s", id)
		}
		if doc.Users[i].IsAdmin {
			return fmt.Errorf("%w: admin accounts cannot be deleted", ErrForbidden)
		}
		out = doc.Users[i].Public()
		doc.Users = slices.Delete(doc.Users, i, i+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate checks credentials and returns the public user. Passwords in
// the legacy "hashed_" form are rehashed with bcrypt on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.PublicUser, error) {
	var user models.User
	err := s.Store.View(ctx, func(doc *models.Document) error {
		i := findUserByEmail(doc, strings.TrimSpace(email))
		if i < 0 {
			return ErrUnauthorized
		}
		user = doc.Users[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user.Password == "" || !hash.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	if hash.IsLegacy(user.Password) {
		s.upgradePassword(ctx, user, password)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *UserService) upgradePassword(ctx context.Context, user models.User, password string) {
	l := logging.FromContext(ctx).With("user_id", user.ID)
	hashed, err := hash.HashPassword(password)
	if err != nil {
		l.Warn("password_upgrade_error", "error", err)
		return
	}
	err = s.Store.Update(ctx, func(doc *models.Document) error {
		i := findUser(doc, user.ID)
		if i < 0 || doc.Users[i].Password != user.Password {
			return nil
		}
		doc.Users[i].Password = hashed
		return nil
	})
	if err != nil {
		l.Warn("password_upgrade_error", "error", err)
		return
	}
	l.Info("password_upgraded")
}

// Login authenticates and issues an access token.
func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	token, exp, err := tokens.NewAccessToken(user.ID, user.Role, s.TokenTTL, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &transport.LoginResponse{User: *user, Token: token, ExpiresAt: exp.Unix()}, nil
}

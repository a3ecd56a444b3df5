package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"catalogapi/internal/apperr"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"catalogapi/internal/view"
)

// CreateUserInput carries the primitives needed to create a user.
type CreateUserInput struct {
	Name       string
	Email      string
	ProductIDs []int64
}

// UserService defines the catalog operations on users. Every view it returns
// lists at least one product; a stored user without products surfaces as an
// Integrity outcome.
type UserService interface {
	// List returns every user with its products.
	List(ctx context.Context) ([]view.UserView, error)

	// Get returns one user with its products.
	Get(ctx context.Context, id int64) (*view.UserView, error)

	// Create stores a user linked to the existing products among
	// in.ProductIDs. Unknown ids are dropped; if none remain the input is
	// rejected. A taken email is a Conflict.
	Create(ctx context.Context, in CreateUserInput) (*view.UserView, error)

	// LinkProduct adds one association between an existing user and product.
	LinkProduct(ctx context.Context, userID, productID int64) (*view.UserView, error)
}

type userService struct {
	users    repository.UserRepository
	products repository.ProductRepository
	opts     options
}

// NewUserService constructs a new UserService.
func NewUserService(users repository.UserRepository, products repository.ProductRepository, opts ...Option) UserService {
	return &userService{users: users, products: products, opts: newOptions(opts)}
}

func (s *userService) List(ctx context.Context) ([]view.UserView, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	g, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	return view.Users(g)
}

func (s *userService) Get(ctx context.Context, id int64) (*view.UserView, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	return s.load(ctx, id)
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (_ *view.UserView, err error) {
	ctx, span := tracer.Start(ctx, "UserService.Create",
		trace.WithAttributes(attribute.Int("user.requested_products", len(in.ProductIDs))))
	defer func() { endSpan(span, err) }()

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, apperr.Validation("Name and email are required")
	}
	if utf8.RuneCountInString(name) > maxNameLen || utf8.RuneCountInString(email) > maxEmailLen {
		return nil, apperr.Validation("Name and email must be at most 100 characters long")
	}
	if len(in.ProductIDs) == 0 {
		return nil, apperr.Validation("At least one product id is required")
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	// Unknown product ids are dropped rather than rejected.
	products, err := s.products.FindByIDs(ctx, dedupe(in.ProductIDs))
	if err != nil {
		return nil, apperr.Storage("resolve products", err)
	}
	if len(products) == 0 {
		return nil, apperr.Validation("None of the given product ids exist")
	}
	span.SetAttributes(attribute.Int("user.resolved_products", len(products)))

	// Fast path only; the unique index below is authoritative.
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Storage("check email", err)
	}
	if taken {
		return nil, apperr.Conflict("Email already in use")
	}

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	created, err := s.users.Create(ctx, &model.User{Name: name, Email: email}, ids)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, apperr.Conflict("Email already in use")
		case errors.Is(err, repository.ErrForeignKey):
			return nil, apperr.Conflict("A selected product was removed while creating the user")
		default:
			return nil, apperr.Storage("create user", err)
		}
	}

	g := model.NewGraph()
	g.Users = append(g.Users, *created)
	for _, p := range products {
		g.Products[p.ID] = p
	}
	v, err := view.User(*created, g)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *userService) LinkProduct(ctx context.Context, userID, productID int64) (_ *view.UserView, err error) {
	ctx, span := tracer.Start(ctx, "UserService.LinkProduct", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("product.id", productID),
	))
	defer func() { endSpan(span, err) }()

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if _, err = s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage("get user", err)
	}
	if _, err = s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Storage("get product", err)
	}

	if err = s.users.Link(ctx, userID, productID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, apperr.Conflict("User already has this product")
		case errors.Is(err, repository.ErrForeignKey):
			return nil, apperr.NotFound("User or product not found")
		default:
			return nil, apperr.Storage("link product", err)
		}
	}

	return s.load(ctx, userID)
}

// load fetches and projects one user.
func (s *userService) load(ctx context.Context, id int64) (*view.UserView, error) {
	g, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage("get user", err)
	}
	v, err := view.User(g.Users[0], g)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// dedupe drops repeated ids, keeping first occurrences in order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

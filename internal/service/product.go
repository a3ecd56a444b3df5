package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"catalogapi/internal/apperr"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"catalogapi/internal/view"
)

// maxPrice is the first value that does not fit decimal(18,2).
var maxPrice = decimal.New(1, 16)

// ProductService defines the catalog operations on products. Every error it
// returns is an *apperr.Error of one of the apperr kinds.
type ProductService interface {
	// List returns every product.
	List(ctx context.Context) ([]view.ProductView, error)

	// Get returns a product by id or a NotFound outcome.
	Get(ctx context.Context, id int64) (*view.ProductView, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, name string, price decimal.Decimal) (*view.ProductView, error)

	// Update overwrites name and price of an existing product in place.
	Update(ctx context.Context, id int64, name string, price decimal.Decimal) (*view.ProductView, error)

	// Delete removes a product that no user holds. A linked product yields a
	// Conflict and is left unchanged.
	Delete(ctx context.Context, id int64) error

	// Search returns products whose name contains name. No match is a
	// NotFound outcome, never an empty list.
	Search(ctx context.Context, name string) ([]view.ProductView, error)
}

type productService struct {
	repo repository.ProductRepository
	opts options
}

// NewProductService constructs a new ProductService.
func NewProductService(repo repository.ProductRepository, opts ...Option) ProductService {
	return &productService{repo: repo, opts: newOptions(opts)}
}

func (s *productService) List(ctx context.Context) ([]view.ProductView, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Storage("list products", err)
	}
	return view.Products(products), nil
}

func (s *productService) Get(ctx context.Context, id int64) (*view.ProductView, error) {
	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Storage("get product", err)
	}
	v := view.Product(*p)
	return &v, nil
}

func (s *productService) Create(ctx context.Context, name string, price decimal.Decimal) (_ *view.ProductView, err error) {
	ctx, span := tracer.Start(ctx, "ProductService.Create")
	defer func() { endSpan(span, err) }()

	p, err := validateProduct(name, price)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	stored, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, apperr.Storage("create product", err)
	}
	span.SetAttributes(attribute.Int64("product.id", stored.ID))
	v := view.Product(*stored)
	return &v, nil
}

func (s *productService) Update(ctx context.Context, id int64, name string, price decimal.Decimal) (_ *view.ProductView, err error) {
	ctx, span := tracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer func() { endSpan(span, err) }()

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	// A missing product is reported before any field problem.
	if _, err = s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Storage("get product", err)
	}

	p, err := validateProduct(name, price)
	if err != nil {
		return nil, err
	}
	p.ID = id

	stored, err := s.repo.Update(ctx, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, apperr.Storage("update product", err)
	}
	v := view.Product(*stored)
	return &v, nil
}

func (s *productService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer func() { endSpan(span, err) }()

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	if err = s.repo.DeleteUnlinked(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return apperr.NotFound("Product not found")
		case errors.Is(err, repository.ErrProductLinked):
			return apperr.Conflict("Cannot delete product while users are associated with it")
		default:
			return apperr.Storage("delete product", err)
		}
	}
	return nil
}

func (s *productService) Search(ctx context.Context, name string) ([]view.ProductView, error) {
	if name == "" {
		return nil, apperr.Validation("Search name must not be empty")
	}

	ctx, cancel := s.opts.withTimeout(ctx)
	defer cancel()

	products, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, apperr.Storage("search products", err)
	}
	if len(products) == 0 {
		return nil, apperr.NotFound("No products found matching the search name")
	}
	return view.Products(products), nil
}

// validateProduct applies the product field rules and returns the entity to
// persist: name trimmed, price rounded to the stored scale.
func validateProduct(name string, price decimal.Decimal) (*model.Product, error) {
	if price.IsNegative() {
		return nil, apperr.Validation("Price cannot be negative")
	}
	price = price.Round(model.PriceScale)
	if price.GreaterThanOrEqual(maxPrice) {
		return nil, apperr.Validation("Price is too large")
	}

	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < model.ProductNameMinLen {
		return nil, apperr.Validation("Product name must be at least 3 characters long")
	}
	if n > maxNameLen {
		return nil, apperr.Validation("Product name must be at most 100 characters long")
	}

	return &model.Product{Name: name, Price: price}, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"catalogapi/internal/apperr"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	repoMocks "catalogapi/internal/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		inName     string
		inPrice    string
		setupMocks func(mRepo *repoMocks.MockProductRepository)
		wantErr    error
		wantReason string
		wantPrice  string
	}{
		{
			name:    "happy path",
			inName:  "Laptop",
			inPrice: "999.99",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
					return p.Name == "Laptop" && p.Price.Equal(decimal.RequireFromString("999.99"))
				})).Return(&model.Product{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99")}, nil)
			},
			wantPrice: "999.99",
		},
		{
			name:    "name is trimmed and price rounded",
			inName:  "  Mouse  ",
			inPrice: "19.995",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
					return p.Name == "Mouse" && p.Price.Equal(decimal.RequireFromString("20.00"))
				})).Return(&model.Product{ID: 2, Name: "Mouse", Price: decimal.RequireFromString("20.00")}, nil)
			},
			wantPrice: "20",
		},
		{
			name:       "short name",
			inName:     "ab",
			inPrice:    "1",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    apperr.ErrValidation,
			wantReason: "Product name must be at least 3 characters long",
		},
		{
			name:       "blank name counts after trimming",
			inName:     "  a  ",
			inPrice:    "1",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    apperr.ErrValidation,
			wantReason: "Product name must be at least 3 characters long",
		},
		{
			name:       "leading spaces do not count toward the minimum",
			inName:     "  ab",
			inPrice:    "1",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    apperr.ErrValidation,
			wantReason: "Product name must be at least 3 characters long",
		},
		{
			name:       "long name",
			inName:     strings.Repeat("x", 101),
			inPrice:    "1",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    apperr.ErrValidation,
			wantReason: "Product name must be at most 100 characters long",
		},
		{
			name:       "negative price",
			inName:     "Laptop",
			inPrice:    "-0.01",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    apperr.ErrValidation,
			wantReason: "Price cannot be negative",
		},
		{
			name:       "price overflows column",
			inName:     "Laptop",
			inPrice:    "10000000000000000",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {},
			wantErr:    apperr.ErrValidation,
			wantReason: "Price is too large",
		},
		{
			name:    "storage error",
			inName:  "Laptop",
			inPrice: "1",
			setupMocks: func(mRepo *repoMocks.MockProductRepository) {
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantErr: apperr.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			tt.setupMocks(mRepo)
			svc := NewProductService(mRepo)

			got, err := svc.Create(ctx, tt.inName, decimal.RequireFromString(tt.inPrice))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, apperr.Reason(err, ""))
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.True(t, got.Price.Equal(decimal.RequireFromString(tt.wantPrice)))
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("FindByID", mock.Anything, int64(1)).Return(&model.Product{
			ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"),
			Associations: []model.UserProduct{{UserID: 7, ProductID: 1}},
		}, nil)

		got, err := NewProductService(mRepo).Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "Laptop", got.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("FindByID", mock.Anything, int64(9)).Return(nil, sql.ErrNoRows)

		got, err := NewProductService(mRepo).Get(ctx, 9)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, "Product not found", apperr.Reason(err, ""))
	})

	t.Run("storage error keeps cause", func(t *testing.T) {
		cause := errors.New("conn reset")
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("FindByID", mock.Anything, int64(9)).Return(nil, cause)

		_, err := NewProductService(mRepo).Get(ctx, 9)
		assert.ErrorIs(t, err, apperr.ErrStorage)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "fallback", apperr.Reason(err, "fallback"))
	})
}

func TestProductService_List(t *testing.T) {
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("List", mock.Anything).Return([]model.Product{}, nil)

	got, err := NewProductService(mRepo).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	price := decimal.RequireFromString("10.50")

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("FindByID", mock.Anything, int64(3)).Return(&model.Product{ID: 3, Name: "Old", Price: decimal.Zero}, nil)
		mRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
			return p.ID == 3 && p.Name == "Keyboard" && p.Price.Equal(price)
		})).Return(&model.Product{ID: 3, Name: "Keyboard", Price: price}, nil)

		got, err := NewProductService(mRepo).Update(ctx, 3, "Keyboard", price)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)
		assert.Equal(t, "Keyboard", got.Name)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing product reported before validation", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("FindByID", mock.Anything, int64(3)).Return(nil, sql.ErrNoRows)

		_, err := NewProductService(mRepo).Update(ctx, 3, "x", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("invalid fields leave product untouched", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("FindByID", mock.Anything, int64(3)).Return(&model.Product{ID: 3}, nil)

		_, err := NewProductService(mRepo).Update(ctx, 3, "Keyboard", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, apperr.ErrValidation)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("deleted between lookup and write", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("FindByID", mock.Anything, int64(3)).Return(&model.Product{ID: 3}, nil)
		mRepo.On("Update", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

		_, err := NewProductService(mRepo).Update(ctx, 3, "Keyboard", price)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		repoErr    error
		wantErr    error
		wantReason string
	}{
		{name: "unlinked product is removed"},
		{name: "missing product", repoErr: sql.ErrNoRows, wantErr: apperr.ErrNotFound, wantReason: "Product not found"},
		{
			name:       "linked product is kept",
			repoErr:    repository.ErrProductLinked,
			wantErr:    apperr.ErrConflict,
			wantReason: "Cannot delete product while users are associated with it",
		},
		{name: "storage error", repoErr: errors.New("tx aborted"), wantErr: apperr.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			mRepo.On("DeleteUnlinked", mock.Anything, int64(5)).Return(tt.repoErr)

			err := NewProductService(mRepo).Delete(ctx, 5)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantReason != "" {
					assert.Equal(t, tt.wantReason, apperr.Reason(err, ""))
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("empty name", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)

		_, err := NewProductService(mRepo).Search(ctx, "")
		assert.ErrorIs(t, err, apperr.ErrValidation)
		mRepo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)
	})

	t.Run("no match is not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("SearchByName", mock.Anything, "Tablet").Return([]model.Product{}, nil)

		got, err := NewProductService(mRepo).Search(ctx, "Tablet")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, "No products found matching the search name", apperr.Reason(err, ""))
	})

	t.Run("matches", func(t *testing.T) {
		mRepo := new(repoMocks.MockProductRepository)
		mRepo.On("SearchByName", mock.Anything, "Lap").Return([]model.Product{
			{ID: 1, Name: "Laptop", Price: decimal.NewFromInt(1)},
			{ID: 4, Name: "Laptop Stand", Price: decimal.NewFromInt(2)},
		}, nil)

		got, err := NewProductService(mRepo).Search(ctx, "Lap")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Laptop Stand", got[1].Name)
	})
}

func TestWithQueryTimeout(t *testing.T) {
	mRepo := new(repoMocks.MockProductRepository)
	mRepo.On("List", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return([]model.Product{}, nil)

	_, err := NewProductService(mRepo, WithQueryTimeout(time.Second)).List(context.Background())
	require.NoError(t, err)
	mRepo.AssertExpectations(t)
}

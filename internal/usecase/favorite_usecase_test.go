package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"godent-be/internal/domain/model"
	repo "godent-be/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type FavoriteRepoMock struct{ mock.Mock }

func (m *FavoriteRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Favorite, error) {
	args := m.Called(ctx, userID)
	favs, _ := args.Get(0).([]model.Favorite)
	return favs, args.Error(1)
}

func (m *FavoriteRepoMock) Add(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *FavoriteRepoMock) Delete(ctx context.Context, userID int64, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func TestFavoriteUsecase_AddFavorite(t *testing.T) {
	favRepo := new(FavoriteRepoMock)
	productRepo := new(CartProductRepoMock)
	uc := NewFavoriteUsecase(favRepo, productRepo)

	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1}, nil)
	favRepo.On("Add", mock.Anything, int64(7), int64(1)).Return(nil)

	err := uc.AddFavorite(context.Background(), 7, 1)
	assert.NoError(t, err)

	favRepo.AssertExpectations(t)
}

func TestFavoriteUsecase_AddFavorite_UnknownProduct(t *testing.T) {
	favRepo := new(FavoriteRepoMock)
	productRepo := new(CartProductRepoMock)
	uc := NewFavoriteUsecase(favRepo, productRepo)

	productRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	err := uc.AddFavorite(context.Background(), 7, 99)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)

	favRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

// 無いペアの削除は 404。
func TestFavoriteUsecase_RemoveFavorite_MissingPair(t *testing.T) {
	favRepo := new(FavoriteRepoMock)
	uc := NewFavoriteUsecase(favRepo, new(CartProductRepoMock))

	favRepo.On("Delete", mock.Anything, int64(7), int64(1)).Return(repo.ErrNotFound)

	err := uc.RemoveFavorite(context.Background(), 7, 1)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestFavoriteUsecase_ListFavorites(t *testing.T) {
	favRepo := new(FavoriteRepoMock)
	productRepo := new(CartProductRepoMock)
	uc := NewFavoriteUsecase(favRepo, productRepo)

	favRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Favorite{
		{UserID: 7, ProductID: 1},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "Sneaker"}, nil)

	out, err := uc.ListFavorites(context.Background(), 7)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "Sneaker", out[0].Name)
}

// 消えた商品はスキップ、DB 障害は 500。
func TestFavoriteUsecase_ListFavorites_ProductLookupFailure(t *testing.T) {
	favRepo := new(FavoriteRepoMock)
	productRepo := new(CartProductRepoMock)
	uc := NewFavoriteUsecase(favRepo, productRepo)

	favRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.Favorite{
		{UserID: 7, ProductID: 1},
		{UserID: 7, ProductID: 2},
	}, nil)
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(model.Product{}, repo.ErrNotFound)
	productRepo.On("FindByID", mock.Anything, int64(2)).Return(model.Product{}, errors.New("connection refused"))

	_, err := uc.ListFavorites(context.Background(), 7)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}

package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecase() (*usecase.CartUsecase, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock) {
	cRepo := new(CartRepoMock)
	ciRepo := new(CartItemRepoMock)
	pRepo := new(ProductRepoMock)
	return usecase.NewCartUsecase(cRepo, ciRepo, pRepo), cRepo, ciRepo, pRepo
}

func TestCartUsecase_GetCart_CreatesWhenMissing(t *testing.T) {
	ctx := context.Background()

	uc, cRepo, ciRepo, _ := newCartUsecase()

	cRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)
	ciRepo.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{}, nil)

	out, err := uc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.Equal(t, int64(1), out.UserID)
	assert.Equal(t, 0, len(out.Items))

	cRepo.AssertExpectations(t)
	ciRepo.AssertExpectations(t)
}

// 商品が消えた明細は応答から除く
func TestCartUsecase_GetCart_SkipsVanishedProducts(t *testing.T) {
	ctx := context.Background()

	uc, cRepo, ciRepo, pRepo := newCartUsecase()

	cRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)
	ciRepo.On("ListByCartID", mock.Anything, int64(10)).Return([]model.CartItem{
		{ID: 100, CartID: 10, ProductID: 5, Size: "M", Quantity: 2},
		{ID: 101, CartID: 10, ProductID: 6, Size: "L", Quantity: 1},
	}, nil)
	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Shirt", Price: 20}, nil)
	pRepo.On("FindByID", mock.Anything, int64(6)).Return(model.Product{}, repo.ErrNotFound)

	out, err := uc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(5), out.Items[0].ProductID)
}

func TestCartUsecase_AddToCart_MissingSize(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 5, Quantity: 1})
	assertErrContains(t, err, "Product ID and size are required")
}

func TestCartUsecase_AddToCart_NegativeQuantity(t *testing.T) {
	uc, _, _, _ := newCartUsecase()

	_, err := uc.AddToCart(context.Background(), 1, usecase.AddCartInput{ProductID: 5, Size: "M", Quantity: -1})
	assertErrContains(t, err, "invalid quantity")
}

// 数量未指定は1個として扱う
func TestCartUsecase_AddToCart_DefaultQuantity(t *testing.T) {
	ctx := context.Background()

	uc, cRepo, ciRepo, pRepo := newCartUsecase()

	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Shirt", Price: 20}, nil)
	cRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)
	ciRepo.On("UpsertByCartProductSize", mock.Anything, int64(10), int64(5), "M", int64(1)).
		Return(model.CartItem{ID: 100, CartID: 10, ProductID: 5, Size: "M", Quantity: 1}, nil)

	out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ProductID: 5, Size: "M"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Quantity)

	ciRepo.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_ProductNotFound(t *testing.T) {
	ctx := context.Background()

	uc, _, _, pRepo := newCartUsecase()

	pRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ProductID: 99, Size: "M", Quantity: 1})
	assertErrContains(t, err, "Product not found")
}

// 同一の商品・サイズは数量加算（upsertに委譲）
func TestCartUsecase_AddToCart_MergesSameProductAndSize(t *testing.T) {
	ctx := context.Background()

	uc, cRepo, ciRepo, pRepo := newCartUsecase()

	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Shirt", Price: 20}, nil)
	cRepo.On("GetOrCreateByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)

	//既に数量2があり、1を追加して3になる
	ciRepo.On("UpsertByCartProductSize", mock.Anything, int64(10), int64(5), "M", int64(1)).
		Return(model.CartItem{ID: 100, CartID: 10, ProductID: 5, Size: "M", Quantity: 3}, nil)

	out, err := uc.AddToCart(ctx, 1, usecase.AddCartInput{ProductID: 5, Size: "M", Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.Quantity)
	assert.Equal(t, "M", out.Size)

	ciRepo.AssertExpectations(t)
}

// 他人の明細は404
func TestCartUsecase_UpdateCartItem_NotOwned(t *testing.T) {
	ctx := context.Background()

	uc, _, ciRepo, _ := newCartUsecase()

	ciRepo.On("IsOwnedByUser", mock.Anything, int64(100), int64(2)).Return(false, nil)

	qty := int64(3)
	_, err := uc.UpdateCartItem(ctx, 2, 100, usecase.UpdateCartItemInput{Quantity: &qty})
	assertErrContains(t, err, "Cart item not found")
}

func TestCartUsecase_UpdateCartItem_Success(t *testing.T) {
	ctx := context.Background()

	uc, _, ciRepo, pRepo := newCartUsecase()

	qty := int64(3)

	ciRepo.On("IsOwnedByUser", mock.Anything, int64(100), int64(1)).Return(true, nil)
	ciRepo.On("UpdateByID", mock.Anything, int64(100), &qty, (*string)(nil)).
		Return(model.CartItem{ID: 100, CartID: 10, ProductID: 5, Size: "M", Quantity: 3}, nil)
	pRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Product{ID: 5, Name: "Shirt", Price: 20}, nil)

	out, err := uc.UpdateCartItem(ctx, 1, 100, usecase.UpdateCartItemInput{Quantity: &qty})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.Quantity)

	ciRepo.AssertExpectations(t)
}

// 変更先のサイズが既にカートにある場合は409
func TestCartUsecase_UpdateCartItem_SizeConflict(t *testing.T) {
	ctx := context.Background()

	uc, _, ciRepo, _ := newCartUsecase()

	size := "L"

	ciRepo.On("IsOwnedByUser", mock.Anything, int64(100), int64(1)).Return(true, nil)
	ciRepo.On("UpdateByID", mock.Anything, int64(100), (*int64)(nil), &size).
		Return(model.CartItem{}, repo.ErrConflict)

	_, err := uc.UpdateCartItem(ctx, 1, 100, usecase.UpdateCartItemInput{Size: &size})
	assertErrContains(t, err, "already in the cart")

	he, found := usecase.AsHTTPError(err)
	assert.True(t, found)
	assert.Equal(t, 409, he.Status)
}

func TestCartUsecase_DeleteCartItem_NotOwned(t *testing.T) {
	ctx := context.Background()

	uc, _, ciRepo, _ := newCartUsecase()

	ciRepo.On("IsOwnedByUser", mock.Anything, int64(100), int64(2)).Return(false, nil)

	err := uc.DeleteCartItem(ctx, 2, 100)
	assertErrContains(t, err, "Cart item not found")
	ciRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, int64(100))
}

func TestCartUsecase_DeleteCartItem_Success(t *testing.T) {
	ctx := context.Background()

	uc, _, ciRepo, _ := newCartUsecase()

	ciRepo.On("IsOwnedByUser", mock.Anything, int64(100), int64(1)).Return(true, nil)
	ciRepo.On("DeleteByID", mock.Anything, int64(100)).Return(nil)

	err := uc.DeleteCartItem(ctx, 1, 100)
	assert.NoError(t, err)

	ciRepo.AssertExpectations(t)
}

// カートが無ければ何もしない
func TestCartUsecase_ClearCart_NoCart(t *testing.T) {
	ctx := context.Background()

	uc, cRepo, _, _ := newCartUsecase()

	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	err := uc.ClearCart(ctx, 1)
	assert.NoError(t, err)
	cRepo.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestCartUsecase_ClearCart_Success(t *testing.T) {
	ctx := context.Background()

	uc, cRepo, _, _ := newCartUsecase()

	cRepo.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 10, UserID: 1}, nil)
	cRepo.On("Clear", mock.Anything, int64(10)).Return(nil)

	err := uc.ClearCart(ctx, 1)
	assert.NoError(t, err)

	cRepo.AssertExpectations(t)
}

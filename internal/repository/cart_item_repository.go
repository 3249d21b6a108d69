package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// 複合ユニーク (cart_id, product_id, size) と衝突した
var ErrConflict = errors.New("conflict")

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一(product, size)は数量加算。ON CONFLICTで原子的に行う
	UpsertByCartProductSize(ctx context.Context, cartID int64, productID int64, size string, addQty int64) (model.CartItem, error)
	//数量・サイズの部分更新（nilは変更しない）
	UpdateByID(ctx context.Context, cartItemID int64, qty *int64, size *string) (model.CartItem, error)
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}

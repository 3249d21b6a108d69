package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	//初回アクセス時に作る（無ければ作成）
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	//明細を全削除（カート行は残す）
	Clear(ctx context.Context, cartID int64) error
}

package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//他ユーザーが同じメールを使っていないか確認する。
	EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error)
	// ユーザー情報の更新=>名前・メールの変更など
	Update(ctx context.Context, user *model.User) error
	//パスワードハッシュだけを更新する。
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	//ユーザー削除（カート・注文もまとめて消す）
	Delete(ctx context.Context, userID int64) error
}

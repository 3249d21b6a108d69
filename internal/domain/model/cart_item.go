package model

import "time"

// カートの明細
// (cart_id, product_id, size) はDBの複合ユニークで保証する。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index;uniqueIndex:idx_cart_product_size" json:"cartId"`
	ProductID int64     `gorm:"not null;index;uniqueIndex:idx_cart_product_size" json:"productId"`
	Size      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_product_size" json:"size"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

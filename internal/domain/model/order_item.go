package model

import "time"

// 注文明細
// Priceは注文時点の商品価格のコピー（履歴価格を保存する）。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"orderId"`
	ProductID int64     `gorm:"not null;index" json:"productId"`
	Size      string    `gorm:"type:varchar(20);not null" json:"size"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
}

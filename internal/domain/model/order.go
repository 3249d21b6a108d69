package model

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Order Placed"
	OrderStatusPacking   OrderStatus = "Packing"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivery  OrderStatus = "Out for delivery"
	OrderStatusDelivered OrderStatus = "Delivered"
)

const (
	PaymentMethodCOD    = "COD"
	PaymentMethodStripe = "STRIPE"
)

// 注文。作成後はstatus/paymentなど管理者操作以外では変更しない。
type Order struct {
	ID     int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64   `gorm:"not null;index" json:"userId"`
	Amount float64 `gorm:"type:numeric(10,2);not null" json:"amount"`

	//配送先住所（JSONで保存）
	Address datatypes.JSON `gorm:"not null" json:"address"`

	PaymentMethod string      `gorm:"type:varchar(20);not null;default:'COD'" json:"paymentMethod"`
	Status        OrderStatus `gorm:"type:varchar(30);not null;default:'Order Placed';index" json:"status"`
	Payment       bool        `gorm:"not null;default:false" json:"payment"`

	//注文日時（unix秒で統一）
	Date int64 `gorm:"not null;index" json:"date"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	Image       string  `gorm:"type:text;not null" json:"image"`
	Category    string  `gorm:"type:varchar(100);not null;index" json:"category"`
	SubCategory string  `gorm:"type:varchar(100);not null;index" json:"subCategory"`

	//サイズ一覧（["S","M","L"]のようなJSON配列）
	Sizes datatypes.JSON `gorm:"not null" json:"sizes"`

	Bestseller bool `gorm:"not null;default:false;index" json:"bestseller"`

	//登録日時（unix秒で統一）
	Date int64 `gorm:"not null;index" json:"date"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order: Bir şubenin bir tur için verdiği sipariş (başlık + kalemler)
type Order struct {
	ID        uint   `gorm:"primaryKey"`
	OrderCode string `gorm:"size:50;uniqueIndex"` // otomatik üretilir
	RoundID   uint   `gorm:"index;not null"`
	Round     Round
	ShopID    uint `gorm:"index;not null"`
	Shop      Shop
	Status    OrderStatus `gorm:"size:20;not null;default:draft"`
	Notes     string      `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

type OrderItem struct {
	ID            uint `gorm:"primaryKey"`
	OrderID       uint `gorm:"index;not null"`
	ProductID     uint `gorm:"index;not null"`
	Product       Product
	Quantity      int             `gorm:"not null"` // küçük birim adedi
	PricePerSmall decimal.Decimal `gorm:"type:decimal(20,4);default:0"` // sipariş anındaki birim fiyat
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

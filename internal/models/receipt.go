package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt: Bir tur için fiziksel mal kabul oturumu. Aynı turda birden
// fazla mal kabul olabilir; receive_number tur içinde sıralıdır.
type Receipt struct {
	ID            uint `gorm:"primaryKey"`
	RoundID       uint `gorm:"index;not null"`
	Round         Round
	ShopID        *uint `gorm:"index"` // opsiyonel: mal kabulün yapıldığı şube
	Shop          *Shop
	ReceiveNumber int    `gorm:"not null;default:1"` // tur içi sıra no (1, 2, 3...)
	Notes         string `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

type ReceiptItem struct {
	ID        uint `gorm:"primaryKey"`
	ReceiptID uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Quantity  int             `gorm:"not null"` // teslim alınan küçük birim adedi
	UnitCost  decimal.Decimal `gorm:"type:decimal(20,4);default:0"` // mal kabul anındaki birim maliyet
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoundInventory: Tur + ürün bazında teslim alınan toplam (türetilmiş değer).
// ReceiptItem yazan transaction içinde receipt_items toplamından yeniden
// hesaplanır; kaynak toplamdan sapması veri bütünlüğü hatasıdır.
type RoundInventory struct {
	ID               uint `gorm:"primaryKey"`
	RoundID          uint `gorm:"uniqueIndex:idx_round_product;not null"`
	ProductID        uint `gorm:"uniqueIndex:idx_round_product;not null"`
	QuantityReceived int  `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

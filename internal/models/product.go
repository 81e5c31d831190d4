package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               uint   `gorm:"primaryKey"`
	Code             string `gorm:"size:50;uniqueIndex;not null"` // ürün kodu (iş anahtarı)
	Name             string `gorm:"size:100;not null"`
	Unit             string `gorm:"size:20"` // adet, koli, paket vs.
	SmallUnitsPerBig int    `gorm:"not null;default:1"` // koli -> adet çevrim oranı
	CostPriceSmall   decimal.Decimal `gorm:"type:decimal(20,4);default:0"` // küçük birim alış fiyatı
	SellPriceSmall   decimal.Decimal `gorm:"type:decimal(20,4);default:0"` // küçük birim satış fiyatı
	ImagePath        string `gorm:"size:255"` // opsiyonel ürün fotoğrafı yolu
	Notes            string `gorm:"size:255"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

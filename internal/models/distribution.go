package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DestinationType string

const (
	DestinationShop     DestinationType = "shop"
	DestinationCustomer DestinationType = "customer"
)

// Destination: Dağıtım hedefi (şube veya müşteri). Nullable foreign key
// yerine tip + id ikilisi; hangi alan dolu karmaşası yok.
type Destination struct {
	Type DestinationType `gorm:"column:destination_type;size:20;not null"`
	ID   uint            `gorm:"column:destination_id;not null"`
}

func ShopDestination(shopID uint) Destination {
	return Destination{Type: DestinationShop, ID: shopID}
}

func CustomerDestination(customerID uint) Destination {
	return Destination{Type: DestinationCustomer, ID: customerID}
}

func (d Destination) IsShop() bool     { return d.Type == DestinationShop }
func (d Destination) IsCustomer() bool { return d.Type == DestinationCustomer }

func (d Destination) Valid() bool {
	return (d.Type == DestinationShop || d.Type == DestinationCustomer) && d.ID != 0
}

func (d Destination) String() string {
	return fmt.Sprintf("%s:%d", d.Type, d.ID)
}

// Distribution: Teslim alınan malın bir hedefe (şube veya müşteri)
// dağıtılması. Override=true ise kullanıcı, eldeki miktarı aşan dağıtımı
// onaylayarak kaydetmiştir (denetim için saklanır).
type Distribution struct {
	ID          uint `gorm:"primaryKey"`
	RoundID     uint `gorm:"index;not null"`
	Round       Round
	Destination Destination `gorm:"embedded"`
	Override    bool        `gorm:"not null;default:false"`
	Notes       string      `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []DistributionItem `gorm:"foreignKey:DistributionID;constraint:OnDelete:CASCADE"`
}

type DistributionItem struct {
	ID             uint `gorm:"primaryKey"`
	DistributionID uint `gorm:"index;not null"`
	ProductID      uint `gorm:"index;not null"`
	Product        Product
	Quantity       int             `gorm:"not null"` // dağıtılan küçük birim adedi
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0"` // dağıtım anındaki birim satış fiyatı
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

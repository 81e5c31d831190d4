package models

import "time"

type RoundStatus string

const (
	RoundStatusOpen       RoundStatus = "open"       // sipariş/mal kabul devam ediyor
	RoundStatusReportable RoundStatus = "reportable" // tüm mal kabuller girildi, rapor kesinleşebilir
	RoundStatusClosed     RoundStatus = "closed"     // rapor kesinleşti, tur kapandı
)

// Round: Bir satın alma/dağıtım turu. Siparişler, mal kabuller ve
// dağıtımlar bu tura bağlanır.
type Round struct {
	ID           uint        `gorm:"primaryKey"`
	Name         string      `gorm:"size:100;not null"`
	DeliveryDate *time.Time  `gorm:"index"` // teslimat tarihi (opsiyonel)
	WeekNumber   *int
	Description  string      `gorm:"size:255"`
	Status       RoundStatus `gorm:"size:20;not null;default:open"`
	ClosedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

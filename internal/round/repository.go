package round

import (
	"time"

	"dagitim-backend/internal/models"
)

// Repository: Motorun tükettiği kalıcılık arayüzü. Gorm implementasyonu
// internal/repository altında; testler in-memory fake kullanır.
//
// CreateReceipt ve DeleteReceipt, round_inventories türetilmiş toplamlarını
// aynı transaction içinde receipt_items toplamından yeniden hesaplamak
// ZORUNDADIR. Motor kendi kilidini tutmaz, bu sınırın varlığına güvenir.
type Repository interface {
	GetRound(roundID uint) (*models.Round, error)
	UpdateRoundStatus(roundID uint, status models.RoundStatus, closedAt *time.Time) error

	GetProduct(productID uint) (*models.Product, error)
	GetShop(shopID uint) (*models.Shop, error)
	GetCustomer(customerID uint) (*models.Customer, error)

	// Siparişler kalemleriyle birlikte döner.
	ListOrdersByRound(roundID uint) ([]models.Order, error)

	NextReceiveNumber(roundID uint) (int, error)
	CreateReceipt(receipt *models.Receipt) error
	DeleteReceipt(receiptID uint) error
	ListReceiptsByRound(roundID uint) ([]models.Receipt, error)

	CreateDistribution(dist *models.Distribution) error
	ListDistributionsByRound(roundID uint) ([]models.Distribution, error)

	// Türetilmiş okumalar: tur bazında ürün -> toplam miktar.
	GetReceivedTotals(roundID uint) (map[uint]int, error)
	GetDistributedTotals(roundID uint) (map[uint]int, error)

	// Kaynak toplam: receipt_items üzerinden taze SUM. GetReceivedTotals ile
	// karşılaştırılarak bütünlük kontrolü yapılır.
	SumReceiptItems(roundID uint) (map[uint]int, error)
}

// Service: Tur yaşam döngüsü ve tahsis tutarlılığı motoru.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

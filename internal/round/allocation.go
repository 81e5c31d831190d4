package round

import (
	"fmt"
	"sort"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
)

// AllocationLine: Önerilen bir dağıtım satırı.
type AllocationLine struct {
	ProductID   uint
	Quantity    int
	Destination models.Destination
}

type Violation struct {
	ProductID uint `json:"product_id"`
	Requested int  `json:"requested"` // bu partide ürün için istenen toplam
	Available int  `json:"available"` // teslim alınan - dağıtılmış
}

// AllocationResult: Doğrulama sonucu. OK=false bir hata değildir; kullanıcı
// override onayıyla yine de kaydedebilir.
type AllocationResult struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations"`
}

// ValidateAllocation: Önerilen dağıtım miktarlarını eldeki miktara karşı
// doğrular. Eldeki miktar her çağrıda taze hesaplanır (teslim alınan -
// zaten dağıtılmış); cache yok, bayat okuma yok. Bir ürünün partideki
// TOPLAM önerisi (tüm hedefler) eldekini aşarsa ihlal yazılır; eşitlik
// ihlal değildir.
func (s *Service) ValidateAllocation(roundID uint, proposed []AllocationLine) (*AllocationResult, error) {
	if _, err := s.repo.GetRound(roundID); err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}

	requested := make(map[uint]int)
	for _, line := range proposed {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("ürün %d için miktar negatif olamaz: %w", line.ProductID, ErrInvalidInput)
		}
		if !line.Destination.Valid() {
			return nil, fmt.Errorf("geçersiz dağıtım hedefi %q: %w", line.Destination, ErrInvalidInput)
		}
		if _, err := s.repo.GetProduct(line.ProductID); err != nil {
			return nil, fmt.Errorf("ürün %d: %w", line.ProductID, ErrNotFound)
		}
		if err := s.checkDestination(line.Destination); err != nil {
			return nil, err
		}
		requested[line.ProductID] += line.Quantity
	}

	received, err := s.repo.GetReceivedTotals(roundID)
	if err != nil {
		return nil, fmt.Errorf("teslim alınan toplamlar okunamadı: %w", err)
	}
	distributed, err := s.repo.GetDistributedTotals(roundID)
	if err != nil {
		return nil, fmt.Errorf("dağıtılan toplamlar okunamadı: %w", err)
	}

	result := &AllocationResult{OK: true}
	for productID, qty := range requested {
		available := received[productID] - distributed[productID]
		if qty > available {
			result.Violations = append(result.Violations, Violation{
				ProductID: productID,
				Requested: qty,
				Available: available,
			})
		}
	}
	sort.Slice(result.Violations, func(i, j int) bool {
		return result.Violations[i].ProductID < result.Violations[j].ProductID
	})
	result.OK = len(result.Violations) == 0

	return result, nil
}

type DistributionItemInput struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal // sıfırsa ürünün güncel satış fiyatı kullanılır
}

type DistributionInput struct {
	RoundID     uint
	Destination models.Destination
	Notes       string
	Items       []DistributionItemInput
}

// CommitDistribution: İki fazlı akışın ikinci fazı. Kaydetmeden hemen önce
// doğrulama tazelenir; ihlal varsa ve override onayı yoksa HİÇBİR ŞEY
// yazılmaz, sonuç veriyle döner. Override onayıyla kaydedilen dağıtım
// denetim için Override=true taşır. Miktarlar asla sessizce kırpılmaz.
func (s *Service) CommitDistribution(input DistributionInput, overrideConfirmed bool) (*models.Distribution, *AllocationResult, error) {
	if len(input.Items) == 0 {
		return nil, nil, fmt.Errorf("en az bir kalem gerekli: %w", ErrInvalidInput)
	}

	lines := make([]AllocationLine, 0, len(input.Items))
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, nil, fmt.Errorf("ürün %d için miktar pozitif olmalı: %w", it.ProductID, ErrInvalidInput)
		}
		lines = append(lines, AllocationLine{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			Destination: input.Destination,
		})
	}

	result, err := s.ValidateAllocation(input.RoundID, lines)
	if err != nil {
		return nil, nil, err
	}

	if !result.OK && !overrideConfirmed {
		return nil, result, nil
	}

	items := make([]models.DistributionItem, 0, len(input.Items))
	for _, it := range input.Items {
		unitPrice := it.UnitPrice
		if unitPrice.IsZero() {
			product, err := s.repo.GetProduct(it.ProductID)
			if err != nil {
				return nil, nil, fmt.Errorf("ürün %d: %w", it.ProductID, ErrNotFound)
			}
			unitPrice = product.SellPriceSmall
		}
		if unitPrice.IsNegative() {
			return nil, nil, fmt.Errorf("ürün %d için birim fiyat negatif olamaz: %w", it.ProductID, ErrInvalidInput)
		}
		items = append(items, models.DistributionItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
		})
	}

	dist := &models.Distribution{
		RoundID:     input.RoundID,
		Destination: input.Destination,
		Override:    !result.OK, // sadece gerçekten aşımla kaydedildiyse işaretle
		Notes:       input.Notes,
		Items:       items,
	}

	if err := s.repo.CreateDistribution(dist); err != nil {
		return nil, result, fmt.Errorf("dağıtım kaydedilemedi: %w", err)
	}

	return dist, result, nil
}

func (s *Service) checkDestination(d models.Destination) error {
	switch d.Type {
	case models.DestinationShop:
		if _, err := s.repo.GetShop(d.ID); err != nil {
			return fmt.Errorf("şube %d: %w", d.ID, ErrNotFound)
		}
	case models.DestinationCustomer:
		if _, err := s.repo.GetCustomer(d.ID); err != nil {
			return fmt.Errorf("müşteri %d: %w", d.ID, ErrNotFound)
		}
	}
	return nil
}

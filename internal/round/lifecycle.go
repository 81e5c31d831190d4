package round

import (
	"fmt"
	"sort"
	"time"

	"dagitim-backend/internal/models"
)

// Tur durum makinesi: open -> reportable -> closed. Durumlar danışma
// niteliğindedir; kapalı tura yazmanın reddedilip reddedilmeyeceği
// repository katmanının politikasıdır (ALLOW_CLOSED_ROUND_WRITES).

// MarkReportable: Kullanıcı "tüm mal kabuller girildi" dediğinde çağrılır.
// Geçişten önce türetilmiş toplamlar kaynakla mutabakat edilir.
func (s *Service) MarkReportable(roundID uint) (*models.Round, error) {
	rnd, err := s.repo.GetRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}
	if rnd.Status != models.RoundStatusOpen {
		return nil, fmt.Errorf("tur %d durumu %q, sadece açık tur raporlanabilir yapılabilir: %w", roundID, rnd.Status, ErrInvalidInput)
	}

	if _, err := s.CheckIntegrity(roundID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRoundStatus(roundID, models.RoundStatusReportable, nil); err != nil {
		return nil, fmt.Errorf("tur durumu güncellenemedi: %w", err)
	}
	rnd.Status = models.RoundStatusReportable
	return rnd, nil
}

// CloseRound: Kullanıcı raporu kesinleştirdiğinde çağrılır.
func (s *Service) CloseRound(roundID uint) (*models.Round, error) {
	rnd, err := s.repo.GetRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}
	if rnd.Status != models.RoundStatusReportable {
		return nil, fmt.Errorf("tur %d durumu %q, sadece raporlanabilir tur kapatılabilir: %w", roundID, rnd.Status, ErrInvalidInput)
	}

	now := time.Now()
	if err := s.repo.UpdateRoundStatus(roundID, models.RoundStatusClosed, &now); err != nil {
		return nil, fmt.Errorf("tur durumu güncellenemedi: %w", err)
	}
	rnd.Status = models.RoundStatusClosed
	rnd.ClosedAt = &now
	return rnd, nil
}

// ReopenRound: Raporlanabilir tur açığa geri alınır; "tüm mal kabuller
// girildi" denmişti ama yeni bir teslimat çıktı durumu. Kapalı tur geri
// açılamaz, rapor kesinleşmiştir.
func (s *Service) ReopenRound(roundID uint) (*models.Round, error) {
	rnd, err := s.repo.GetRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}
	if rnd.Status != models.RoundStatusReportable {
		return nil, fmt.Errorf("tur %d durumu %q, sadece raporlanabilir tur geri açılabilir: %w", roundID, rnd.Status, ErrInvalidInput)
	}

	if err := s.repo.UpdateRoundStatus(roundID, models.RoundStatusOpen, nil); err != nil {
		return nil, fmt.Errorf("tur durumu güncellenemedi: %w", err)
	}
	rnd.Status = models.RoundStatusOpen
	return rnd, nil
}

// ShopAllocation: Bir şubeye bu turda dağıtılanların dökümü; şube teslimat
// belgesi bu satırlardan basılır.
type ShopAllocation struct {
	ShopID   uint
	ShopCode string
	ShopName string
	Items    []ShopAllocationItem
}

type ShopAllocationItem struct {
	ProductID   uint
	ProductCode string
	ProductName string
	Quantity    int
}

// ShopAllocations: Turdaki şube hedefli dağıtımları şube bazında toplar.
// Müşteri hedefli dağıtımlar burada yer almaz (onlar fatura ile belgelenir).
func (s *Service) ShopAllocations(roundID uint) ([]ShopAllocation, error) {
	if _, err := s.repo.GetRound(roundID); err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}

	dists, err := s.repo.ListDistributionsByRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("dağıtımlar okunamadı: %w", err)
	}

	byShop := make(map[uint]*ShopAllocation)
	for _, d := range dists {
		if !d.Destination.IsShop() {
			continue
		}
		alloc, ok := byShop[d.Destination.ID]
		if !ok {
			shop, err := s.repo.GetShop(d.Destination.ID)
			if err != nil {
				return nil, fmt.Errorf("şube %d: %w", d.Destination.ID, ErrNotFound)
			}
			alloc = &ShopAllocation{ShopID: shop.ID, ShopCode: shop.Code, ShopName: shop.Name}
			byShop[d.Destination.ID] = alloc
		}

		for _, item := range d.Items {
			found := false
			for i := range alloc.Items {
				if alloc.Items[i].ProductID == item.ProductID {
					alloc.Items[i].Quantity += item.Quantity
					found = true
					break
				}
			}
			if !found {
				alloc.Items = append(alloc.Items, ShopAllocationItem{
					ProductID:   item.ProductID,
					ProductCode: item.Product.Code,
					ProductName: item.Product.Name,
					Quantity:    item.Quantity,
				})
			}
		}
	}

	allocs := make([]ShopAllocation, 0, len(byShop))
	for _, a := range byShop {
		sort.Slice(a.Items, func(i, j int) bool {
			return a.Items[i].ProductCode < a.Items[j].ProductCode
		})
		allocs = append(allocs, *a)
	}
	sort.Slice(allocs, func(i, j int) bool {
		return allocs[i].ShopCode < allocs[j].ShopCode
	})
	return allocs, nil
}

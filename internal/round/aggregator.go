package round

import (
	"fmt"
	"sort"
)

// OrderSummaryRow: Bir ürünün tur genelinde sipariş özeti. PerShop,
// şube id -> o şubenin sipariş ettiği miktar.
type OrderSummaryRow struct {
	ProductID    uint
	ProductCode  string
	ProductName  string
	TotalOrdered int
	PerShop      map[uint]int
}

// SummarizeOrders: Turdaki tüm siparişleri ürün bazında toplar.
// Dağıtım ekranının "siparişlerden doldur" ön-dolgusunun temeli.
// Salt okunur, yan etkisi yok.
func (s *Service) SummarizeOrders(roundID uint) (map[uint]int, error) {
	rows, err := s.SummarizeOrdersByShop(roundID)
	if err != nil {
		return nil, err
	}

	totals := make(map[uint]int, len(rows))
	for _, r := range rows {
		totals[r.ProductID] = r.TotalOrdered
	}
	return totals, nil
}

// SummarizeOrdersByShop: Ürün bazlı toplamın yanında şube kırılımını da
// döner; sipariş dökümü belgesi bu satırlardan basılır.
func (s *Service) SummarizeOrdersByShop(roundID uint) ([]OrderSummaryRow, error) {
	if _, err := s.repo.GetRound(roundID); err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}

	orders, err := s.repo.ListOrdersByRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("siparişler okunamadı: %w", err)
	}

	byProduct := make(map[uint]*OrderSummaryRow)
	for _, o := range orders {
		for _, item := range o.Items {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &OrderSummaryRow{
					ProductID:   item.ProductID,
					ProductCode: item.Product.Code,
					ProductName: item.Product.Name,
					PerShop:     make(map[uint]int),
				}
				byProduct[item.ProductID] = row
			}
			row.PerShop[o.ShopID] += item.Quantity
			row.TotalOrdered += item.Quantity
		}
	}

	rows := make([]OrderSummaryRow, 0, len(byProduct))
	for _, r := range byProduct {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ProductCode < rows[j].ProductCode
	})
	return rows, nil
}

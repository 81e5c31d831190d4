package round

import (
	"fmt"
	"sort"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
)

// UnassignedShopKey: Şubeye bağlanamayan satırların kovası (müşteriye
// giden dağıtımlar, şubesiz mal kabuller). Satırlar asla düşürülmez.
const UnassignedShopKey = "unassigned"

type ProductFinancial struct {
	ProductID           uint            `json:"product_id"`
	ProductCode         string          `json:"product_code"`
	ProductName         string          `json:"product_name"`
	QuantityReceived    int             `json:"quantity_received"`
	QuantityDistributed int             `json:"quantity_distributed"`
	Cost                decimal.Decimal `json:"cost"`
	Revenue             decimal.Decimal `json:"revenue"`
	Profit              decimal.Decimal `json:"profit"`
}

type ShopFinancial struct {
	Key                 string          `json:"key"` // şube kodu veya "unassigned"
	ShopID              *uint           `json:"shop_id"`
	ShopName            string          `json:"shop_name"`
	QuantityDistributed int             `json:"quantity_distributed"`
	Cost                decimal.Decimal `json:"cost"`
	Revenue             decimal.Decimal `json:"revenue"`
	Profit              decimal.Decimal `json:"profit"`
}

type RoundFinancials struct {
	RoundID      uint               `json:"round_id"`
	RoundName    string             `json:"round_name"`
	Provisional  bool               `json:"provisional"` // tur hâlâ açıkken rakamlar geçici
	TotalCost    decimal.Decimal    `json:"total_cost"`
	TotalRevenue decimal.Decimal    `json:"total_revenue"`
	TotalProfit  decimal.Decimal    `json:"total_profit"`
	ByProduct    []ProductFinancial `json:"by_product"`
	ByShop       []ShopFinancial    `json:"by_shop"`
}

// ComputeRoundFinancials: Tur mali özeti.
//   maliyet = Σ mal kabul kalemi (miktar × birim maliyet)
//   ciro    = Σ dağıtım kalemi (miktar × birim fiyat)
//   kâr     = ciro - maliyet
// Çağrı anındaki repository durumu üzerinden saf hesap; cache yok, araya
// yazma girmedikçe iki çağrı aynı sonucu verir.
func (s *Service) ComputeRoundFinancials(roundID uint) (*RoundFinancials, error) {
	rnd, err := s.repo.GetRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}

	receipts, err := s.repo.ListReceiptsByRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("mal kabuller okunamadı: %w", err)
	}
	dists, err := s.repo.ListDistributionsByRound(roundID)
	if err != nil {
		return nil, fmt.Errorf("dağıtımlar okunamadı: %w", err)
	}

	fin := &RoundFinancials{
		RoundID:     rnd.ID,
		RoundName:   rnd.Name,
		Provisional: rnd.Status == models.RoundStatusOpen,
	}

	byProduct := make(map[uint]*ProductFinancial)
	productRow := func(p models.Product) *ProductFinancial {
		row, ok := byProduct[p.ID]
		if !ok {
			row = &ProductFinancial{ProductID: p.ID, ProductCode: p.Code, ProductName: p.Name}
			byProduct[p.ID] = row
		}
		return row
	}

	byShop := make(map[string]*ShopFinancial)
	shopRow := func(shopID *uint, name string) *ShopFinancial {
		key := UnassignedShopKey
		if shopID != nil {
			key = fmt.Sprintf("shop-%d", *shopID)
		}
		row, ok := byShop[key]
		if !ok {
			row = &ShopFinancial{Key: key, ShopID: shopID, ShopName: name}
			byShop[key] = row
		}
		return row
	}

	for _, r := range receipts {
		shopName := ""
		if r.Shop != nil {
			shopName = r.Shop.Name
		}
		for _, item := range r.Items {
			cost := item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
			fin.TotalCost = fin.TotalCost.Add(cost)

			pr := productRow(item.Product)
			pr.QuantityReceived += item.Quantity
			pr.Cost = pr.Cost.Add(cost)

			sr := shopRow(r.ShopID, shopName)
			sr.Cost = sr.Cost.Add(cost)
		}
	}

	for _, d := range dists {
		var shopID *uint
		shopName := ""
		if d.Destination.IsShop() {
			id := d.Destination.ID
			shopID = &id
			if shop, err := s.repo.GetShop(id); err == nil {
				shopName = shop.Name
			}
		}
		for _, item := range d.Items {
			revenue := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			fin.TotalRevenue = fin.TotalRevenue.Add(revenue)

			pr := productRow(item.Product)
			pr.QuantityDistributed += item.Quantity
			pr.Revenue = pr.Revenue.Add(revenue)

			sr := shopRow(shopID, shopName)
			sr.QuantityDistributed += item.Quantity
			sr.Revenue = sr.Revenue.Add(revenue)
		}
	}

	fin.TotalProfit = fin.TotalRevenue.Sub(fin.TotalCost)

	for _, row := range byProduct {
		row.Profit = row.Revenue.Sub(row.Cost)
		fin.ByProduct = append(fin.ByProduct, *row)
	}
	sort.Slice(fin.ByProduct, func(i, j int) bool {
		return fin.ByProduct[i].ProductCode < fin.ByProduct[j].ProductCode
	})

	for _, row := range byShop {
		row.Profit = row.Revenue.Sub(row.Cost)
		fin.ByShop = append(fin.ByShop, *row)
	}
	sort.Slice(fin.ByShop, func(i, j int) bool {
		// unassigned her zaman sonda
		if fin.ByShop[i].Key == UnassignedShopKey {
			return false
		}
		if fin.ByShop[j].Key == UnassignedShopKey {
			return true
		}
		return fin.ByShop[i].ShopName < fin.ByShop[j].ShopName
	})

	return fin, nil
}

package round

import (
	"errors"
	"time"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Motor testleri için bellek içi Repository. Gerçek repository gibi
// türetilmiş tur toplamlarını (inventory) mal kabul yazarken günceller;
// tutarsızlık testleri inventory'yi elle bozar.
type memoryRepo struct {
	rounds        map[uint]*models.Round
	products      map[uint]*models.Product
	shops         map[uint]*models.Shop
	customers     map[uint]*models.Customer
	orders        []models.Order
	receipts      []models.Receipt
	distributions []models.Distribution
	inventory     map[uint]map[uint]int // roundID -> productID -> teslim alınan

	rejectClosed bool
	nextID       uint
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		rounds:       make(map[uint]*models.Round),
		products:     make(map[uint]*models.Product),
		shops:        make(map[uint]*models.Shop),
		customers:    make(map[uint]*models.Customer),
		inventory:    make(map[uint]map[uint]int),
		rejectClosed: true,
		nextID:       1000,
	}
}

var errMemNotFound = errors.New("bulunamadı")

func (m *memoryRepo) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memoryRepo) addRound(id uint, name string, status models.RoundStatus) *models.Round {
	r := &models.Round{ID: id, Name: name, Status: status, CreatedAt: time.Now()}
	m.rounds[id] = r
	return r
}

func (m *memoryRepo) addProduct(id uint, code, name string, cost, sell string) *models.Product {
	p := &models.Product{
		ID:             id,
		Code:           code,
		Name:           name,
		CostPriceSmall: decimal.RequireFromString(cost),
		SellPriceSmall: decimal.RequireFromString(sell),
	}
	m.products[id] = p
	return p
}

func (m *memoryRepo) addShop(id uint, code, name string) *models.Shop {
	s := &models.Shop{ID: id, Code: code, Name: name, IsActive: true}
	m.shops[id] = s
	return s
}

func (m *memoryRepo) addCustomer(id uint, name string) *models.Customer {
	c := &models.Customer{ID: id, Name: name, IsActive: true}
	m.customers[id] = c
	return c
}

func (m *memoryRepo) addOrder(roundID, shopID uint, items ...models.OrderItem) {
	for i := range items {
		if p, ok := m.products[items[i].ProductID]; ok {
			items[i].Product = *p
		}
	}
	m.orders = append(m.orders, models.Order{
		ID:      m.id(),
		RoundID: roundID,
		ShopID:  shopID,
		Status:  models.OrderStatusConfirmed,
		Items:   items,
	})
}

func (m *memoryRepo) GetRound(roundID uint) (*models.Round, error) {
	r, ok := m.rounds[roundID]
	if !ok {
		return nil, errMemNotFound
	}
	return r, nil
}

func (m *memoryRepo) UpdateRoundStatus(roundID uint, status models.RoundStatus, closedAt *time.Time) error {
	r, ok := m.rounds[roundID]
	if !ok {
		return errMemNotFound
	}
	r.Status = status
	r.ClosedAt = closedAt
	return nil
}

func (m *memoryRepo) GetProduct(productID uint) (*models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, errMemNotFound
	}
	return p, nil
}

func (m *memoryRepo) GetShop(shopID uint) (*models.Shop, error) {
	s, ok := m.shops[shopID]
	if !ok || !s.IsActive {
		return nil, errMemNotFound
	}
	return s, nil
}

func (m *memoryRepo) GetCustomer(customerID uint) (*models.Customer, error) {
	c, ok := m.customers[customerID]
	if !ok || !c.IsActive {
		return nil, errMemNotFound
	}
	return c, nil
}

func (m *memoryRepo) ListOrdersByRound(roundID uint) ([]models.Order, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.RoundID == roundID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryRepo) NextReceiveNumber(roundID uint) (int, error) {
	last := 0
	for _, r := range m.receipts {
		if r.RoundID == roundID && r.ReceiveNumber > last {
			last = r.ReceiveNumber
		}
	}
	return last + 1, nil
}

func (m *memoryRepo) checkWritable(roundID uint) error {
	r, ok := m.rounds[roundID]
	if !ok {
		return errMemNotFound
	}
	if m.rejectClosed && r.Status == models.RoundStatusClosed {
		return ErrRoundClosed
	}
	return nil
}

func (m *memoryRepo) CreateReceipt(receipt *models.Receipt) error {
	if err := m.checkWritable(receipt.RoundID); err != nil {
		return err
	}
	receipt.ID = m.id()
	for i := range receipt.Items {
		receipt.Items[i].ID = m.id()
		if p, ok := m.products[receipt.Items[i].ProductID]; ok {
			receipt.Items[i].Product = *p
		}
	}
	m.receipts = append(m.receipts, *receipt)
	m.recalcInventory(receipt.RoundID)
	return nil
}

func (m *memoryRepo) DeleteReceipt(receiptID uint) error {
	for i, r := range m.receipts {
		if r.ID == receiptID {
			if err := m.checkWritable(r.RoundID); err != nil {
				return err
			}
			m.receipts = append(m.receipts[:i], m.receipts[i+1:]...)
			m.recalcInventory(r.RoundID)
			return nil
		}
	}
	return errMemNotFound
}

// Gerçek repository'deki transaction içi yeniden hesabın karşılığı
func (m *memoryRepo) recalcInventory(roundID uint) {
	totals := make(map[uint]int)
	for _, r := range m.receipts {
		if r.RoundID != roundID {
			continue
		}
		for _, it := range r.Items {
			totals[it.ProductID] += it.Quantity
		}
	}
	m.inventory[roundID] = totals
}

func (m *memoryRepo) ListReceiptsByRound(roundID uint) ([]models.Receipt, error) {
	var out []models.Receipt
	for _, r := range m.receipts {
		if r.RoundID == roundID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateDistribution(dist *models.Distribution) error {
	if err := m.checkWritable(dist.RoundID); err != nil {
		return err
	}
	dist.ID = m.id()
	for i := range dist.Items {
		dist.Items[i].ID = m.id()
		if p, ok := m.products[dist.Items[i].ProductID]; ok {
			dist.Items[i].Product = *p
		}
	}
	m.distributions = append(m.distributions, *dist)
	return nil
}

func (m *memoryRepo) ListDistributionsByRound(roundID uint) ([]models.Distribution, error) {
	var out []models.Distribution
	for _, d := range m.distributions {
		if d.RoundID == roundID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetReceivedTotals(roundID uint) (map[uint]int, error) {
	totals := make(map[uint]int)
	for productID, qty := range m.inventory[roundID] {
		totals[productID] = qty
	}
	return totals, nil
}

func (m *memoryRepo) GetDistributedTotals(roundID uint) (map[uint]int, error) {
	totals := make(map[uint]int)
	for _, d := range m.distributions {
		if d.RoundID != roundID {
			continue
		}
		for _, it := range d.Items {
			totals[it.ProductID] += it.Quantity
		}
	}
	return totals, nil
}

func (m *memoryRepo) SumReceiptItems(roundID uint) (map[uint]int, error) {
	totals := make(map[uint]int)
	for _, r := range m.receipts {
		if r.RoundID != roundID {
			continue
		}
		for _, it := range r.Items {
			totals[it.ProductID] += it.Quantity
		}
	}
	return totals, nil
}

package repository

import (
	"errors"
	"fmt"
	"time"

	"dagitim-backend/internal/models"
	"dagitim-backend/internal/round"

	"gorm.io/gorm"
)

// GormRepository: round.Repository'nin Postgres/gorm implementasyonu.
// Kapalı tura yazma politikası burada uygulanır; motor değil kalıcılık
// katmanı karar verir.
type GormRepository struct {
	db                     *gorm.DB
	allowClosedRoundWrites bool
}

func NewGormRepository(db *gorm.DB, allowClosedRoundWrites bool) *GormRepository {
	return &GormRepository{db: db, allowClosedRoundWrites: allowClosedRoundWrites}
}

func (r *GormRepository) GetRound(roundID uint) (*models.Round, error) {
	var rnd models.Round
	if err := r.db.First(&rnd, "id = ?", roundID).Error; err != nil {
		return nil, err
	}
	return &rnd, nil
}

func (r *GormRepository) UpdateRoundStatus(roundID uint, status models.RoundStatus, closedAt *time.Time) error {
	return r.db.Model(&models.Round{}).
		Where("id = ?", roundID).
		Updates(map[string]interface{}{
			"status":    status,
			"closed_at": closedAt,
		}).Error
}

func (r *GormRepository) GetProduct(productID uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.First(&p, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepository) GetShop(shopID uint) (*models.Shop, error) {
	var s models.Shop
	if err := r.db.First(&s, "id = ? AND is_active = ?", shopID, true).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) GetCustomer(customerID uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.First(&c, "id = ? AND is_active = ?", customerID, true).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) ListOrdersByRound(roundID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items.Product").
		Preload("Shop").
		Where("round_id = ?", roundID).
		Order("id desc").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepository) NextReceiveNumber(roundID uint) (int, error) {
	var last int
	err := r.db.Model(&models.Receipt{}).
		Select("COALESCE(MAX(receive_number), 0)").
		Where("round_id = ?", roundID).
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// CreateReceipt: Receipt + kalemleri ve türetilmiş tur toplamlarını TEK
// transaction içinde yazar. Toplamlar receipt_items'tan yeniden hesaplanır;
// kısmi uygulama olamaz, biri geri alınırsa hepsi geri alınır.
func (r *GormRepository) CreateReceipt(receipt *models.Receipt) error {
	if err := r.checkRoundWritable(receipt.RoundID); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(receipt).Error; err != nil {
			return err
		}

		seen := make(map[uint]bool)
		for _, item := range receipt.Items {
			if seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			if err := recalcRoundInventory(tx, receipt.RoundID, item.ProductID); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteReceipt: Mal kabulü kalemleriyle siler ve etkilenen ürünlerin tur
// toplamlarını aynı transaction içinde yeniden hesaplar (audit undo yolu).
func (r *GormRepository) DeleteReceipt(receiptID uint) error {
	var receipt models.Receipt
	if err := r.db.Preload("Items").First(&receipt, "id = ?", receiptID).Error; err != nil {
		return err
	}

	if err := r.checkRoundWritable(receipt.RoundID); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ReceiptItem{}, "receipt_id = ?", receiptID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Receipt{}, "id = ?", receiptID).Error; err != nil {
			return err
		}

		seen := make(map[uint]bool)
		for _, item := range receipt.Items {
			if seen[item.ProductID] {
				continue
			}
			seen[item.ProductID] = true
			if err := recalcRoundInventory(tx, receipt.RoundID, item.ProductID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormRepository) ListReceiptsByRound(roundID uint) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.
		Preload("Items.Product").
		Preload("Shop").
		Where("round_id = ?", roundID).
		Order("receive_number asc").
		Find(&receipts).Error
	return receipts, err
}

func (r *GormRepository) CreateDistribution(dist *models.Distribution) error {
	if err := r.checkRoundWritable(dist.RoundID); err != nil {
		return err
	}
	return r.db.Create(dist).Error
}

func (r *GormRepository) ListDistributionsByRound(roundID uint) ([]models.Distribution, error) {
	var dists []models.Distribution
	err := r.db.
		Preload("Items.Product").
		Where("round_id = ?", roundID).
		Order("id asc").
		Find(&dists).Error
	return dists, err
}

type totalRow struct {
	ProductID uint `gorm:"column:product_id"`
	Total     int  `gorm:"column:total"`
}

// GetReceivedTotals: Türetilmiş round_inventories tablosundan okur.
func (r *GormRepository) GetReceivedTotals(roundID uint) (map[uint]int, error) {
	var rows []totalRow
	err := r.db.Model(&models.RoundInventory{}).
		Select("product_id, quantity_received AS total").
		Where("round_id = ?", roundID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToMap(rows), nil
}

func (r *GormRepository) GetDistributedTotals(roundID uint) (map[uint]int, error) {
	var rows []totalRow
	err := r.db.Raw(`
		SELECT di.product_id, COALESCE(SUM(di.quantity), 0) AS total
		FROM distribution_items di
		JOIN distributions d ON d.id = di.distribution_id
		WHERE d.round_id = ?
		GROUP BY di.product_id
	`, roundID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToMap(rows), nil
}

// SumReceiptItems: Kaynak toplam, bütünlük mutabakatı için.
func (r *GormRepository) SumReceiptItems(roundID uint) (map[uint]int, error) {
	var rows []totalRow
	err := r.db.Raw(`
		SELECT ri.product_id, COALESCE(SUM(ri.quantity), 0) AS total
		FROM receipt_items ri
		JOIN receipts rc ON rc.id = ri.receipt_id
		WHERE rc.round_id = ?
		GROUP BY ri.product_id
	`, roundID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rowsToMap(rows), nil
}

func rowsToMap(rows []totalRow) map[uint]int {
	m := make(map[uint]int, len(rows))
	for _, row := range rows {
		m[row.ProductID] = row.Total
	}
	return m
}

func (r *GormRepository) checkRoundWritable(roundID uint) error {
	if r.allowClosedRoundWrites {
		return nil
	}
	var rnd models.Round
	if err := r.db.First(&rnd, "id = ?", roundID).Error; err != nil {
		return err
	}
	if rnd.Status == models.RoundStatusClosed {
		return fmt.Errorf("tur %d: %w", roundID, round.ErrRoundClosed)
	}
	return nil
}

// recalcRoundInventory: Tur + ürün için teslim alınan toplamı
// receipt_items'tan yeniden hesaplar ve round_inventories'e yazar.
func recalcRoundInventory(tx *gorm.DB, roundID, productID uint) error {
	var total int
	err := tx.Raw(`
		SELECT COALESCE(SUM(ri.quantity), 0)
		FROM receipt_items ri
		JOIN receipts rc ON rc.id = ri.receipt_id
		WHERE rc.round_id = ? AND ri.product_id = ?
	`, roundID, productID).Scan(&total).Error
	if err != nil {
		return err
	}

	var inv models.RoundInventory
	err = tx.Where("round_id = ? AND product_id = ?", roundID, productID).First(&inv).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		inv = models.RoundInventory{RoundID: roundID, ProductID: productID, QuantityReceived: total}
		return tx.Create(&inv).Error
	case err != nil:
		return err
	default:
		return tx.Model(&inv).Update("quantity_received", total).Error
	}
}

package round

import (
	"fmt"
	"sort"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
)

type ReceiptItemInput struct {
	ProductID uint
	Quantity  int
	UnitCost  decimal.Decimal // sıfırsa ürünün güncel maliyeti kullanılır
}

type RecordReceiptInput struct {
	RoundID uint
	ShopID  *uint
	Notes   string
	Items   []ReceiptItemInput
}

// RecordReceipt: Mal kabul kaydı. Receipt + kalemleri oluşturur; türetilmiş
// tur stok toplamları repository tarafından aynı transaction içinde
// güncellenir. Bilerek idempotent DEĞİL: aynı girdiyle iki çağrı iki ayrı
// mal kabul demektir (iki ayrı fiziksel teslimat).
func (s *Service) RecordReceipt(input RecordReceiptInput) (*models.Receipt, error) {
	if _, err := s.repo.GetRound(input.RoundID); err != nil {
		return nil, fmt.Errorf("tur %d: %w", input.RoundID, ErrNotFound)
	}

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("en az bir kalem gerekli: %w", ErrInvalidInput)
	}

	if input.ShopID != nil {
		if _, err := s.repo.GetShop(*input.ShopID); err != nil {
			return nil, fmt.Errorf("şube %d: %w", *input.ShopID, ErrNotFound)
		}
	}

	items := make([]models.ReceiptItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("ürün %d için miktar pozitif olmalı: %w", in.ProductID, ErrInvalidInput)
		}

		product, err := s.repo.GetProduct(in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("ürün %d: %w", in.ProductID, ErrNotFound)
		}

		unitCost := in.UnitCost
		if unitCost.IsZero() {
			unitCost = product.CostPriceSmall
		}
		if unitCost.IsNegative() {
			return nil, fmt.Errorf("ürün %d için birim maliyet negatif olamaz: %w", in.ProductID, ErrInvalidInput)
		}

		items = append(items, models.ReceiptItem{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitCost:  unitCost,
		})
	}

	receiveNumber, err := s.repo.NextReceiveNumber(input.RoundID)
	if err != nil {
		return nil, fmt.Errorf("mal kabul sıra numarası alınamadı: %w", err)
	}

	receipt := &models.Receipt{
		RoundID:       input.RoundID,
		ShopID:        input.ShopID,
		ReceiveNumber: receiveNumber,
		Notes:         input.Notes,
		Items:         items,
	}

	if err := s.repo.CreateReceipt(receipt); err != nil {
		return nil, fmt.Errorf("mal kabul kaydedilemedi: %w", err)
	}

	return receipt, nil
}

// IntegrityReport: Türetilmiş toplam ile kaynak toplamın karşılaştırması.
type IntegrityReport struct {
	RoundID    uint                `json:"round_id"`
	Mismatches []IntegrityMismatch `json:"mismatches"`
}

type IntegrityMismatch struct {
	ProductID uint `json:"product_id"`
	Derived   int  `json:"derived"` // round_inventories'deki değer
	Source    int  `json:"source"`  // receipt_items taze toplamı
}

// CheckIntegrity: round_inventories toplamlarını receipt_items'tan alınan
// taze toplamlarla karşılaştırır. Sapma varsa ErrIntegrityViolation döner;
// sessizce onarmaz, bu sapma transaction sınırında bir bug demektir.
func (s *Service) CheckIntegrity(roundID uint) (*IntegrityReport, error) {
	if _, err := s.repo.GetRound(roundID); err != nil {
		return nil, fmt.Errorf("tur %d: %w", roundID, ErrNotFound)
	}

	derived, err := s.repo.GetReceivedTotals(roundID)
	if err != nil {
		return nil, fmt.Errorf("türetilmiş toplamlar okunamadı: %w", err)
	}
	source, err := s.repo.SumReceiptItems(roundID)
	if err != nil {
		return nil, fmt.Errorf("kaynak toplamlar okunamadı: %w", err)
	}

	productIDs := make(map[uint]struct{}, len(derived)+len(source))
	for id := range derived {
		productIDs[id] = struct{}{}
	}
	for id := range source {
		productIDs[id] = struct{}{}
	}

	report := &IntegrityReport{RoundID: roundID}
	for id := range productIDs {
		if derived[id] != source[id] {
			report.Mismatches = append(report.Mismatches, IntegrityMismatch{
				ProductID: id,
				Derived:   derived[id],
				Source:    source[id],
			})
		}
	}
	sort.Slice(report.Mismatches, func(i, j int) bool {
		return report.Mismatches[i].ProductID < report.Mismatches[j].ProductID
	})

	if len(report.Mismatches) > 0 {
		return report, fmt.Errorf("tur %d, %d üründe tutarsız: %w", roundID, len(report.Mismatches), ErrIntegrityViolation)
	}
	return report, nil
}

package round

import (
	"testing"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReceiving(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	repo.addRound(1, "Hafta 12", models.RoundStatusOpen)
	repo.addProduct(10, "URN-001", "Zeytinyağı 1L", "10", "25")
	repo.addProduct(11, "URN-002", "Un 5kg", "4", "9")
	repo.addShop(20, "SB-01", "Merkez Şube")
	return NewService(repo), repo
}

func TestRecordReceiptUpdatesDerivedTotals(t *testing.T) {
	svc, repo := setupReceiving(t)

	receipt, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		Items: []ReceiptItemInput{
			{ProductID: 10, Quantity: 40},
			{ProductID: 11, Quantity: 15},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.ReceiveNumber)

	totals, err := repo.GetReceivedTotals(1)
	require.NoError(t, err)
	assert.Equal(t, 40, totals[10])
	assert.Equal(t, 15, totals[11])
}

func TestRecordReceiptNotIdempotent(t *testing.T) {
	svc, repo := setupReceiving(t)

	input := RecordReceiptInput{
		RoundID: 1,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 30}},
	}

	// Aynı girdiyle iki çağrı iki ayrı fiziksel teslimattır
	first, err := svc.RecordReceipt(input)
	require.NoError(t, err)
	second, err := svc.RecordReceipt(input)
	require.NoError(t, err)

	assert.Equal(t, 1, first.ReceiveNumber)
	assert.Equal(t, 2, second.ReceiveNumber)

	totals, _ := repo.GetReceivedTotals(1)
	assert.Equal(t, 60, totals[10])
}

func TestRecordReceiptDefaultsUnitCost(t *testing.T) {
	svc, repo := setupReceiving(t)

	_, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 5}},
	})
	require.NoError(t, err)

	want := decimal.RequireFromString("10")
	assert.True(t, repo.receipts[0].Items[0].UnitCost.Equal(want))
}

func TestRecordReceiptWithShop(t *testing.T) {
	svc, _ := setupReceiving(t)

	shopID := uint(20)
	receipt, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		ShopID:  &shopID,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 5}},
	})
	require.NoError(t, err)
	require.NotNil(t, receipt.ShopID)
	assert.Equal(t, shopID, *receipt.ShopID)
}

func TestRecordReceiptValidation(t *testing.T) {
	svc, _ := setupReceiving(t)

	_, err := svc.RecordReceipt(RecordReceiptInput{RoundID: 99, Items: []ReceiptItemInput{{ProductID: 10, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RecordReceipt(RecordReceiptInput{RoundID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RecordReceipt(RecordReceiptInput{RoundID: 1, Items: []ReceiptItemInput{{ProductID: 10, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RecordReceipt(RecordReceiptInput{RoundID: 1, Items: []ReceiptItemInput{{ProductID: 99, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrNotFound)

	badShop := uint(99)
	_, err = svc.RecordReceipt(RecordReceiptInput{RoundID: 1, ShopID: &badShop, Items: []ReceiptItemInput{{ProductID: 10, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordReceiptClosedRound(t *testing.T) {
	svc, repo := setupReceiving(t)
	repo.rounds[1].Status = models.RoundStatusClosed

	_, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 5}},
	})
	assert.ErrorIs(t, err, ErrRoundClosed)
}

func TestCheckIntegrityClean(t *testing.T) {
	svc, _ := setupReceiving(t)

	_, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 40}},
	})
	require.NoError(t, err)

	report, err := svc.CheckIntegrity(1)
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
}

func TestCheckIntegrityDetectsDrift(t *testing.T) {
	svc, repo := setupReceiving(t)

	_, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 40}},
	})
	require.NoError(t, err)

	// Türetilmiş toplamı elle boz: mutabakat sapmayı raporlamalı,
	// sessizce onarmamalı
	repo.inventory[1][10] = 55

	report, err := svc.CheckIntegrity(1)
	assert.ErrorIs(t, err, ErrIntegrityViolation)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, uint(10), report.Mismatches[0].ProductID)
	assert.Equal(t, 55, report.Mismatches[0].Derived)
	assert.Equal(t, 40, report.Mismatches[0].Source)

	// Onarılmadığını doğrula
	assert.Equal(t, 55, repo.inventory[1][10])
}

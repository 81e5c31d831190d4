package round

import (
	"testing"

	"dagitim-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeOrdersAcrossShops(t *testing.T) {
	repo := newMemoryRepo()
	repo.addRound(1, "Hafta 12", models.RoundStatusOpen)
	repo.addProduct(10, "URN-001", "Zeytinyağı 1L", "10", "25")
	repo.addProduct(11, "URN-002", "Un 5kg", "4", "9")
	repo.addShop(20, "SB-01", "Merkez Şube")
	repo.addShop(21, "SB-02", "Çarşı Şube")

	repo.addOrder(1, 20,
		models.OrderItem{ProductID: 10, Quantity: 30},
		models.OrderItem{ProductID: 11, Quantity: 12},
	)
	repo.addOrder(1, 21,
		models.OrderItem{ProductID: 10, Quantity: 45},
	)

	svc := NewService(repo)

	totals, err := svc.SummarizeOrders(1)
	require.NoError(t, err)
	assert.Equal(t, 75, totals[10])
	assert.Equal(t, 12, totals[11])
}

func TestSummarizeOrdersByShopBreakdown(t *testing.T) {
	repo := newMemoryRepo()
	repo.addRound(1, "Hafta 12", models.RoundStatusOpen)
	repo.addProduct(10, "URN-001", "Zeytinyağı 1L", "10", "25")
	repo.addProduct(11, "URN-002", "Un 5kg", "4", "9")
	repo.addShop(20, "SB-01", "Merkez Şube")
	repo.addShop(21, "SB-02", "Çarşı Şube")

	repo.addOrder(1, 20, models.OrderItem{ProductID: 11, Quantity: 8})
	repo.addOrder(1, 20, models.OrderItem{ProductID: 10, Quantity: 30})
	repo.addOrder(1, 21, models.OrderItem{ProductID: 10, Quantity: 45})

	svc := NewService(repo)

	rows, err := svc.SummarizeOrdersByShop(1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ürün koduna göre sıralı
	assert.Equal(t, "URN-001", rows[0].ProductCode)
	assert.Equal(t, 75, rows[0].TotalOrdered)
	assert.Equal(t, 30, rows[0].PerShop[20])
	assert.Equal(t, 45, rows[0].PerShop[21])

	assert.Equal(t, "URN-002", rows[1].ProductCode)
	assert.Equal(t, 8, rows[1].TotalOrdered)
	assert.Equal(t, 8, rows[1].PerShop[20])
}

func TestSummarizeOrdersEmptyRound(t *testing.T) {
	repo := newMemoryRepo()
	repo.addRound(1, "Hafta 12", models.RoundStatusOpen)
	svc := NewService(repo)

	totals, err := svc.SummarizeOrders(1)
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestSummarizeOrdersRoundNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.SummarizeOrders(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

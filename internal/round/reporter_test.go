package round

import (
	"testing"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReporting(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	repo.addRound(1, "Hafta 12", models.RoundStatusOpen)
	repo.addProduct(10, "URN-001", "Zeytinyağı 1L", "10", "25")
	repo.addShop(20, "SB-01", "Merkez Şube")
	repo.addCustomer(30, "Toptan Müşteri A")

	svc := NewService(repo)

	// 100 adet, birim maliyet 10 -> maliyet 1000
	_, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 100}},
	})
	require.NoError(t, err)

	// 60 adet şubeye, birim fiyat 25 -> ciro 1500
	_, _, err = svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.ShopDestination(20),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 60}},
	}, false)
	require.NoError(t, err)

	return svc, repo
}

func TestComputeRoundFinancials(t *testing.T) {
	svc, _ := setupReporting(t)

	fin, err := svc.ComputeRoundFinancials(1)
	require.NoError(t, err)

	assert.True(t, fin.TotalCost.Equal(decimal.RequireFromString("1000")))
	assert.True(t, fin.TotalRevenue.Equal(decimal.RequireFromString("1500")))
	assert.True(t, fin.TotalProfit.Equal(decimal.RequireFromString("500")))

	require.Len(t, fin.ByProduct, 1)
	assert.Equal(t, "URN-001", fin.ByProduct[0].ProductCode)
	assert.Equal(t, 100, fin.ByProduct[0].QuantityReceived)
	assert.Equal(t, 60, fin.ByProduct[0].QuantityDistributed)
}

func TestComputeRoundFinancialsProvisionalFlag(t *testing.T) {
	svc, repo := setupReporting(t)

	fin, err := svc.ComputeRoundFinancials(1)
	require.NoError(t, err)
	assert.True(t, fin.Provisional)

	repo.rounds[1].Status = models.RoundStatusClosed
	fin, err = svc.ComputeRoundFinancials(1)
	require.NoError(t, err)
	assert.False(t, fin.Provisional)
}

func TestComputeRoundFinancialsPure(t *testing.T) {
	svc, _ := setupReporting(t)

	// Araya yazma girmedikçe iki çağrı aynı sonucu verir
	first, err := svc.ComputeRoundFinancials(1)
	require.NoError(t, err)
	second, err := svc.ComputeRoundFinancials(1)
	require.NoError(t, err)

	assert.True(t, first.TotalCost.Equal(second.TotalCost))
	assert.True(t, first.TotalRevenue.Equal(second.TotalRevenue))
	assert.True(t, first.TotalProfit.Equal(second.TotalProfit))
	assert.Equal(t, first.ByProduct, second.ByProduct)
	assert.Equal(t, first.ByShop, second.ByShop)
}

func TestComputeRoundFinancialsUnassignedBucket(t *testing.T) {
	svc, _ := setupReporting(t)

	// Müşteriye giden dağıtım şube kovasına girmez, düşürülmez de
	_, _, err := svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.CustomerDestination(30),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 20}},
	}, false)
	require.NoError(t, err)

	fin, err := svc.ComputeRoundFinancials(1)
	require.NoError(t, err)

	var keys []string
	for _, s := range fin.ByShop {
		keys = append(keys, s.Key)
	}
	assert.Contains(t, keys, UnassignedShopKey)

	// Atanmamış kova her zaman sonda
	assert.Equal(t, UnassignedShopKey, fin.ByShop[len(fin.ByShop)-1].Key)

	// Toplam ciro kovalardaki ciroların toplamına eşit (satır kaybı yok)
	sum := decimal.Zero
	for _, s := range fin.ByShop {
		sum = sum.Add(s.Revenue)
	}
	assert.True(t, fin.TotalRevenue.Equal(sum))
}

func TestComputeRoundFinancialsNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.ComputeRoundFinancials(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

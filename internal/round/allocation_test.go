package round

import (
	"testing"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAllocation(t *testing.T) (*Service, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	repo.addRound(1, "Hafta 12", models.RoundStatusOpen)
	repo.addProduct(10, "URN-001", "Zeytinyağı 1L", "10", "25")
	repo.addProduct(11, "URN-002", "Un 5kg", "4", "9")
	repo.addShop(20, "SB-01", "Merkez Şube")
	repo.addShop(21, "SB-02", "Çarşı Şube")
	repo.addCustomer(30, "Toptan Müşteri A")

	svc := NewService(repo)

	// 100 adet URN-001 teslim alındı
	_, err := svc.RecordReceipt(RecordReceiptInput{
		RoundID: 1,
		Items:   []ReceiptItemInput{{ProductID: 10, Quantity: 100}},
	})
	require.NoError(t, err)

	return svc, repo
}

func TestValidateAllocationWithinAvailable(t *testing.T) {
	svc, _ := setupAllocation(t)

	result, err := svc.ValidateAllocation(1, []AllocationLine{
		{ProductID: 10, Quantity: 60, Destination: models.ShopDestination(20)},
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Empty(t, result.Violations)
}

func TestValidateAllocationExactlyAvailable(t *testing.T) {
	svc, _ := setupAllocation(t)

	// Eşitlik ihlal değildir
	result, err := svc.ValidateAllocation(1, []AllocationLine{
		{ProductID: 10, Quantity: 100, Destination: models.ShopDestination(20)},
	})
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestValidateAllocationAfterPartialDistribution(t *testing.T) {
	svc, _ := setupAllocation(t)

	// Önce 60 dağıt
	dist, result, err := svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.ShopDestination(20),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 60}},
	}, false)
	require.NoError(t, err)
	require.NotNil(t, dist)
	assert.True(t, result.OK)

	// Kalan 40 iken 50 iste: ihlal, istenen ve eldeki rakamlarla
	result, err = svc.ValidateAllocation(1, []AllocationLine{
		{ProductID: 10, Quantity: 50, Destination: models.ShopDestination(21)},
	})
	require.NoError(t, err)
	assert.False(t, result.OK)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, uint(10), result.Violations[0].ProductID)
	assert.Equal(t, 50, result.Violations[0].Requested)
	assert.Equal(t, 40, result.Violations[0].Available)
}

func TestValidateAllocationSumsAcrossDestinations(t *testing.T) {
	svc, _ := setupAllocation(t)

	// Tek tek 60+60 eldekinin altında görünür ama parti toplamı 120 > 100
	result, err := svc.ValidateAllocation(1, []AllocationLine{
		{ProductID: 10, Quantity: 60, Destination: models.ShopDestination(20)},
		{ProductID: 10, Quantity: 60, Destination: models.CustomerDestination(30)},
	})
	require.NoError(t, err)
	assert.False(t, result.OK)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, 120, result.Violations[0].Requested)
	assert.Equal(t, 100, result.Violations[0].Available)
}

func TestValidateAllocationNeverReceivedProduct(t *testing.T) {
	svc, _ := setupAllocation(t)

	// Hiç teslim alınmamış ürün: eldeki 0
	result, err := svc.ValidateAllocation(1, []AllocationLine{
		{ProductID: 11, Quantity: 5, Destination: models.ShopDestination(20)},
	})
	require.NoError(t, err)
	assert.False(t, result.OK)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, 0, result.Violations[0].Available)
}

func TestValidateAllocationInvalidInput(t *testing.T) {
	svc, _ := setupAllocation(t)

	_, err := svc.ValidateAllocation(1, []AllocationLine{
		{ProductID: 10, Quantity: -3, Destination: models.ShopDestination(20)},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ValidateAllocation(1, []AllocationLine{
		{ProductID: 10, Quantity: 5, Destination: models.Destination{Type: "depo", ID: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ValidateAllocation(99, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommitDistributionBlockedWithoutOverride(t *testing.T) {
	svc, repo := setupAllocation(t)

	dist, result, err := svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.ShopDestination(20),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 150}},
	}, false)
	require.NoError(t, err)

	// Hiçbir şey yazılmadı, sonuç veriyle döndü
	assert.Nil(t, dist)
	require.NotNil(t, result)
	assert.False(t, result.OK)
	assert.Empty(t, repo.distributions)
}

func TestCommitDistributionOverrideConfirmed(t *testing.T) {
	svc, repo := setupAllocation(t)

	dist, result, err := svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.ShopDestination(20),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 150}},
	}, true)
	require.NoError(t, err)
	require.NotNil(t, dist)

	// Kaydedildi ama denetim için işaretli; miktar kırpılmadı
	assert.True(t, dist.Override)
	assert.False(t, result.OK)
	require.Len(t, repo.distributions, 1)
	assert.Equal(t, 150, repo.distributions[0].Items[0].Quantity)
}

func TestCommitDistributionCleanCommitNotFlagged(t *testing.T) {
	svc, _ := setupAllocation(t)

	// Override onayı verilmiş ama ihlal yok: işaret konmaz
	dist, result, err := svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.ShopDestination(20),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 30}},
	}, true)
	require.NoError(t, err)
	require.NotNil(t, dist)
	assert.True(t, result.OK)
	assert.False(t, dist.Override)
}

func TestCommitDistributionDefaultsUnitPrice(t *testing.T) {
	svc, repo := setupAllocation(t)

	dist, _, err := svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.CustomerDestination(30),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 10}},
	}, false)
	require.NoError(t, err)
	require.NotNil(t, dist)

	// Fiyat verilmedi: ürünün güncel satış fiyatı kullanılır
	want := decimal.RequireFromString("25")
	assert.True(t, repo.distributions[0].Items[0].UnitPrice.Equal(want))
}

func TestCommitDistributionClosedRound(t *testing.T) {
	svc, repo := setupAllocation(t)
	repo.rounds[1].Status = models.RoundStatusClosed

	dist, _, err := svc.CommitDistribution(DistributionInput{
		RoundID:     1,
		Destination: models.ShopDestination(20),
		Items:       []DistributionItemInput{{ProductID: 10, Quantity: 10}},
	}, false)
	assert.Nil(t, dist)
	assert.ErrorIs(t, err, ErrRoundClosed)
}

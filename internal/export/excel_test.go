package export

import (
	"testing"
	"time"

	"dagitim-backend/internal/models"
	"dagitim-backend/internal/round"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSummaryWorkbook(t *testing.T) {
	rows := []round.OrderSummaryRow{
		{
			ProductID:    10,
			ProductCode:  "URN-001",
			ProductName:  "Zeytinyağı 1L",
			TotalOrdered: 75,
			PerShop:      map[uint]int{20: 30, 21: 45},
		},
	}
	shops := []models.Shop{
		{ID: 20, Code: "SB-01", Name: "Merkez Şube"},
		{ID: 21, Code: "SB-02", Name: "Çarşı Şube"},
	}

	f, err := OrderSummaryWorkbook("Hafta 12", rows, shops)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Siparişler", "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "Hafta 12")

	code, _ := f.GetCellValue("Siparişler", "A4")
	assert.Equal(t, "URN-001", code)
	total, _ := f.GetCellValue("Siparişler", "C4")
	assert.Equal(t, "75", total)
	merkez, _ := f.GetCellValue("Siparişler", "D4")
	assert.Equal(t, "30", merkez)
	carsi, _ := f.GetCellValue("Siparişler", "E4")
	assert.Equal(t, "45", carsi)
}

func TestReceiptWorkbookTotals(t *testing.T) {
	receipt := models.Receipt{
		ID:            5,
		RoundID:       1,
		ReceiveNumber: 2,
		CreatedAt:     time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		Items: []models.ReceiptItem{
			{
				ProductID: 10,
				Product:   models.Product{Code: "URN-001", Name: "Zeytinyağı 1L"},
				Quantity:  100,
				UnitCost:  decimal.RequireFromString("10"),
			},
		},
	}

	f, err := ReceiptWorkbook("Hafta 12", receipt)
	require.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue("Mal Kabul", "A1")
	assert.Contains(t, title, "Mal Kabul #2")

	qty, _ := f.GetCellValue("Mal Kabul", "C6")
	assert.Equal(t, "100", qty)
	lineTotal, _ := f.GetCellValue("Mal Kabul", "E6")
	assert.Equal(t, "1000", lineTotal)
	grandTotal, _ := f.GetCellValue("Mal Kabul", "E8")
	assert.Equal(t, "1000", grandTotal)
}

func TestDistributionWorkbookOverrideNote(t *testing.T) {
	dist := models.Distribution{
		ID:          7,
		RoundID:     1,
		Destination: models.ShopDestination(20),
		Override:    true,
		CreatedAt:   time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		Items: []models.DistributionItem{
			{
				ProductID: 10,
				Product:   models.Product{Code: "URN-001", Name: "Zeytinyağı 1L"},
				Quantity:  60,
				UnitPrice: decimal.RequireFromString("25"),
			},
		},
	}

	f, err := DistributionWorkbook("Hafta 12", "Merkez Şube", dist)
	require.NoError(t, err)
	defer f.Close()

	note, _ := f.GetCellValue("Dağıtım", "A4")
	assert.Contains(t, note, "aşılarak")

	lineTotal, _ := f.GetCellValue("Dağıtım", "E7")
	assert.Equal(t, "1500", lineTotal)
}

func TestFinancialsWorkbookSheets(t *testing.T) {
	fin := &round.RoundFinancials{
		RoundID:      1,
		RoundName:    "Hafta 12",
		Provisional:  true,
		TotalCost:    decimal.RequireFromString("1000"),
		TotalRevenue: decimal.RequireFromString("1500"),
		TotalProfit:  decimal.RequireFromString("500"),
		ByProduct: []round.ProductFinancial{
			{
				ProductCode:         "URN-001",
				ProductName:         "Zeytinyağı 1L",
				QuantityReceived:    100,
				QuantityDistributed: 60,
				Cost:                decimal.RequireFromString("1000"),
				Revenue:             decimal.RequireFromString("1500"),
				Profit:              decimal.RequireFromString("500"),
			},
		},
		ByShop: []round.ShopFinancial{
			{Key: "shop-20", ShopName: "Merkez Şube", QuantityDistributed: 60, Revenue: decimal.RequireFromString("1500")},
			{Key: round.UnassignedShopKey, QuantityDistributed: 0},
		},
	}

	f, err := FinancialsWorkbook(fin)
	require.NoError(t, err)
	defer f.Close()

	warning, _ := f.GetCellValue("Özet", "A2")
	assert.Contains(t, warning, "geçici")

	profit, _ := f.GetCellValue("Özet", "B6")
	assert.Equal(t, "500", profit)

	code, _ := f.GetCellValue("Ürünler", "A2")
	assert.Equal(t, "URN-001", code)

	// Atanmamış kova boş isimle değil etiketle yazılır
	unassigned, _ := f.GetCellValue("Şubeler", "A3")
	assert.Equal(t, "Atanmamış", unassigned)
}

package export

import (
	"fmt"

	"dagitim-backend/internal/models"
	"dagitim-backend/internal/round"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// Excel belge üreticileri. Handler'lardan ayrı tutuldu ki dosyalar
// HTTP olmadan da test edilebilsin.

func cell(col string, row int) string {
	return col + fmt.Sprint(row)
}

// OrderSummaryWorkbook: Turun ürün bazlı sipariş dökümü.
func OrderSummaryWorkbook(roundName string, rows []round.OrderSummaryRow, shops []models.Shop) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Siparişler"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Sipariş Dökümü - %s", roundName))
	f.SetCellValue(sheet, "A3", "Ürün Kodu")
	f.SetCellValue(sheet, "B3", "Ürün Adı")
	f.SetCellValue(sheet, "C3", "Toplam Sipariş")

	// Şube sütunları D'den itibaren
	shopCols := make(map[uint]string, len(shops))
	for i, s := range shops {
		col, err := excelize.ColumnNumberToName(4 + i)
		if err != nil {
			return nil, err
		}
		shopCols[s.ID] = col
		f.SetCellValue(sheet, cell(col, 3), s.Name)
	}

	for i, r := range rows {
		rowNo := i + 4
		f.SetCellValue(sheet, cell("A", rowNo), r.ProductCode)
		f.SetCellValue(sheet, cell("B", rowNo), r.ProductName)
		f.SetCellValue(sheet, cell("C", rowNo), r.TotalOrdered)
		for shopID, qty := range r.PerShop {
			if col, ok := shopCols[shopID]; ok {
				f.SetCellValue(sheet, cell(col, rowNo), qty)
			}
		}
	}

	return f, nil
}

// ReceiptWorkbook: Tek bir mal kabulün belgesi.
func ReceiptWorkbook(roundName string, receipt models.Receipt) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Mal Kabul"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Mal Kabul #%d - %s", receipt.ReceiveNumber, roundName))
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Tarih: %s", receipt.CreatedAt.Format("2006-01-02 15:04")))
	if receipt.Shop != nil {
		f.SetCellValue(sheet, "A3", fmt.Sprintf("Şube: %s", receipt.Shop.Name))
	}

	f.SetCellValue(sheet, "A5", "Ürün Kodu")
	f.SetCellValue(sheet, "B5", "Ürün Adı")
	f.SetCellValue(sheet, "C5", "Miktar")
	f.SetCellValue(sheet, "D5", "Birim Maliyet")
	f.SetCellValue(sheet, "E5", "Tutar")

	total := 0.0
	for i, it := range receipt.Items {
		rowNo := i + 6
		lineTotal, _ := it.UnitCost.Mul(decimalFromInt(it.Quantity)).Float64()
		unitCost, _ := it.UnitCost.Float64()
		f.SetCellValue(sheet, cell("A", rowNo), it.Product.Code)
		f.SetCellValue(sheet, cell("B", rowNo), it.Product.Name)
		f.SetCellValue(sheet, cell("C", rowNo), it.Quantity)
		f.SetCellValue(sheet, cell("D", rowNo), unitCost)
		f.SetCellValue(sheet, cell("E", rowNo), lineTotal)
		total += lineTotal
	}

	footer := len(receipt.Items) + 7
	f.SetCellValue(sheet, cell("D", footer), "Toplam")
	f.SetCellValue(sheet, cell("E", footer), total)

	return f, nil
}

// DistributionWorkbook: Bir dağıtımın teslimat/fatura belgesi.
func DistributionWorkbook(roundName, destinationName string, dist models.Distribution) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Dağıtım"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Dağıtım Belgesi - %s", roundName))
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Hedef: %s", destinationName))
	f.SetCellValue(sheet, "A3", fmt.Sprintf("Tarih: %s", dist.CreatedAt.Format("2006-01-02 15:04")))
	if dist.Override {
		f.SetCellValue(sheet, "A4", "Not: Eldeki miktar aşılarak onaylanmıştır")
	}

	f.SetCellValue(sheet, "A6", "Ürün Kodu")
	f.SetCellValue(sheet, "B6", "Ürün Adı")
	f.SetCellValue(sheet, "C6", "Miktar")
	f.SetCellValue(sheet, "D6", "Birim Fiyat")
	f.SetCellValue(sheet, "E6", "Tutar")

	total := 0.0
	for i, it := range dist.Items {
		rowNo := i + 7
		lineTotal, _ := it.UnitPrice.Mul(decimalFromInt(it.Quantity)).Float64()
		unitPrice, _ := it.UnitPrice.Float64()
		f.SetCellValue(sheet, cell("A", rowNo), it.Product.Code)
		f.SetCellValue(sheet, cell("B", rowNo), it.Product.Name)
		f.SetCellValue(sheet, cell("C", rowNo), it.Quantity)
		f.SetCellValue(sheet, cell("D", rowNo), unitPrice)
		f.SetCellValue(sheet, cell("E", rowNo), lineTotal)
		total += lineTotal
	}

	footer := len(dist.Items) + 8
	f.SetCellValue(sheet, cell("D", footer), "Toplam")
	f.SetCellValue(sheet, cell("E", footer), total)

	return f, nil
}

// FinancialsWorkbook: Tur mali raporu; genel toplamlar + ürün ve şube
// kırılım sayfaları.
func FinancialsWorkbook(fin *round.RoundFinancials) (*excelize.File, error) {
	f := excelize.NewFile()
	summary := "Özet"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}

	f.SetCellValue(summary, "A1", fmt.Sprintf("Mali Rapor - %s", fin.RoundName))
	if fin.Provisional {
		f.SetCellValue(summary, "A2", "UYARI: Tur hâlâ açık, rakamlar geçicidir")
	}

	totalCost, _ := fin.TotalCost.Float64()
	totalRevenue, _ := fin.TotalRevenue.Float64()
	totalProfit, _ := fin.TotalProfit.Float64()
	f.SetCellValue(summary, "A4", "Toplam Maliyet")
	f.SetCellValue(summary, "B4", totalCost)
	f.SetCellValue(summary, "A5", "Toplam Ciro")
	f.SetCellValue(summary, "B5", totalRevenue)
	f.SetCellValue(summary, "A6", "Toplam Kâr")
	f.SetCellValue(summary, "B6", totalProfit)

	products := "Ürünler"
	if _, err := f.NewSheet(products); err != nil {
		return nil, err
	}
	f.SetCellValue(products, "A1", "Ürün Kodu")
	f.SetCellValue(products, "B1", "Ürün Adı")
	f.SetCellValue(products, "C1", "Teslim Alınan")
	f.SetCellValue(products, "D1", "Dağıtılan")
	f.SetCellValue(products, "E1", "Maliyet")
	f.SetCellValue(products, "F1", "Ciro")
	f.SetCellValue(products, "G1", "Kâr")
	for i, p := range fin.ByProduct {
		rowNo := i + 2
		cost, _ := p.Cost.Float64()
		revenue, _ := p.Revenue.Float64()
		profit, _ := p.Profit.Float64()
		f.SetCellValue(products, cell("A", rowNo), p.ProductCode)
		f.SetCellValue(products, cell("B", rowNo), p.ProductName)
		f.SetCellValue(products, cell("C", rowNo), p.QuantityReceived)
		f.SetCellValue(products, cell("D", rowNo), p.QuantityDistributed)
		f.SetCellValue(products, cell("E", rowNo), cost)
		f.SetCellValue(products, cell("F", rowNo), revenue)
		f.SetCellValue(products, cell("G", rowNo), profit)
	}

	shops := "Şubeler"
	if _, err := f.NewSheet(shops); err != nil {
		return nil, err
	}
	f.SetCellValue(shops, "A1", "Şube")
	f.SetCellValue(shops, "B1", "Dağıtılan")
	f.SetCellValue(shops, "C1", "Ciro")
	for i, s := range fin.ByShop {
		rowNo := i + 2
		revenue, _ := s.Revenue.Float64()
		name := s.ShopName
		if name == "" {
			name = "Atanmamış"
		}
		f.SetCellValue(shops, cell("A", rowNo), name)
		f.SetCellValue(shops, cell("B", rowNo), s.QuantityDistributed)
		f.SetCellValue(shops, cell("C", rowNo), revenue)
	}

	return f, nil
}

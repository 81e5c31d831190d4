package export

import (
	"fmt"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/round"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	var id uint
	if _, err := fmt.Sscan(c.Params(name), &id); err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Geçersiz %s", name))
	}
	return id, nil
}

// GET /api/rounds/:id/export/orders
func ExportOrderSummaryHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", roundID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}

		rows, err := svc.SummarizeOrdersByShop(roundID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş özeti hesaplanamadı")
		}

		var shops []models.Shop
		if err := database.DB.Where("is_active = ?", true).Order("code asc").Find(&shops).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şubeler okunamadı")
		}

		f, err := OrderSummaryWorkbook(rnd.Name, rows, shops)
		if err != nil {
			logrus.WithError(err).Error("sipariş dökümü belgesi oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Belge oluşturulamadı")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Belge yazılamadı")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="siparisler-tur-%d.xlsx"`, roundID))
		return c.Send(buf.Bytes())
	}
}

// GET /api/receipts/:id/export
func ExportReceiptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var receipt models.Receipt
		if err := database.DB.
			Preload("Shop").Preload("Items.Product").
			First(&receipt, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mal kabul bulunamadı")
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", receipt.RoundID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}

		f, err := ReceiptWorkbook(rnd.Name, receipt)
		if err != nil {
			logrus.WithError(err).Error("mal kabul belgesi oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Belge oluşturulamadı")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Belge yazılamadı")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="malkabul-%d.xlsx"`, receipt.ID))
		return c.Send(buf.Bytes())
	}
}

// GET /api/distributions/:id/export
func ExportDistributionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var dist models.Distribution
		if err := database.DB.
			Preload("Items.Product").
			First(&dist, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dağıtım bulunamadı")
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", dist.RoundID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}

		destName := dist.Destination.String()
		if dist.Destination.IsShop() {
			var shop models.Shop
			if err := database.DB.First(&shop, "id = ?", dist.Destination.ID).Error; err == nil {
				destName = shop.Name
			}
		} else if dist.Destination.IsCustomer() {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ?", dist.Destination.ID).Error; err == nil {
				destName = customer.Name
			}
		}

		f, err := DistributionWorkbook(rnd.Name, destName, dist)
		if err != nil {
			logrus.WithError(err).Error("dağıtım belgesi oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Belge oluşturulamadı")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Belge yazılamadı")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="dagitim-%d.xlsx"`, dist.ID))
		return c.Send(buf.Bytes())
	}
}

// GET /api/rounds/:id/export/financials
func ExportFinancialsHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		fin, err := svc.ComputeRoundFinancials(roundID)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}

		f, err := FinancialsWorkbook(fin)
		if err != nil {
			logrus.WithError(err).Error("mali rapor belgesi oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Belge oluşturulamadı")
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Belge yazılamadı")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="mali-rapor-tur-%d.xlsx"`, roundID))
		return c.Send(buf.Bytes())
	}
}

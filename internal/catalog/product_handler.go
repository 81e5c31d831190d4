package catalog

import (
	"strings"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type ProductResponse struct {
	ID               uint            `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	SmallUnitsPerBig int             `json:"small_units_per_big"`
	CostPriceSmall   decimal.Decimal `json:"cost_price_small"`
	SellPriceSmall   decimal.Decimal `json:"sell_price_small"`
	ImagePath        string          `json:"image_path"`
	Notes            string          `json:"notes"`
}

type CreateProductRequest struct {
	Code             string          `json:"code" validate:"required,max=50"`
	Name             string          `json:"name" validate:"required,max=100"`
	Unit             string          `json:"unit" validate:"max=20"`
	SmallUnitsPerBig int             `json:"small_units_per_big" validate:"omitempty,gte=1"`
	CostPriceSmall   decimal.Decimal `json:"cost_price_small"`
	SellPriceSmall   decimal.Decimal `json:"sell_price_small"`
	ImagePath        string          `json:"image_path" validate:"max=255"`
	Notes            string          `json:"notes" validate:"max=255"`
}

type UpdateProductRequest struct {
	Name             *string          `json:"name"`
	Unit             *string          `json:"unit"`
	SmallUnitsPerBig *int             `json:"small_units_per_big"`
	CostPriceSmall   *decimal.Decimal `json:"cost_price_small"`
	SellPriceSmall   *decimal.Decimal `json:"sell_price_small"`
	ImagePath        *string          `json:"image_path"`
	Notes            *string          `json:"notes"`
}

func productResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		Unit:             p.Unit,
		SmallUnitsPerBig: p.SmallUnitsPerBig,
		CostPriceSmall:   p.CostPriceSmall,
		SellPriceSmall:   p.SellPriceSmall,
		ImagePath:        p.ImagePath,
		Notes:            p.Notes,
	}
}

// GET /api/products (tüm authenticated kullanıcılar görebilir)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("code asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, productResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/products (sadece super_admin)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Code ve name zorunlu, alan uzunluklarını kontrol et")
		}
		if body.CostPriceSmall.IsNegative() || body.SellPriceSmall.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyatlar negatif olamaz")
		}

		// Ürün kodu unique kontrolü
		var existing models.Product
		if err := database.DB.Where("code = ?", body.Code).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kodu zaten kullanılıyor")
		}

		unitsPerBig := body.SmallUnitsPerBig
		if unitsPerBig == 0 {
			unitsPerBig = 1
		}

		p := models.Product{
			Code:             body.Code,
			Name:             body.Name,
			Unit:             body.Unit,
			SmallUnitsPerBig: unitsPerBig,
			CostPriceSmall:   body.CostPriceSmall,
			SellPriceSmall:   body.SellPriceSmall,
			ImagePath:        body.ImagePath,
			Notes:            body.Notes,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(productResponse(p))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			p.Name = name
		}
		if body.Unit != nil {
			p.Unit = strings.TrimSpace(*body.Unit)
		}
		if body.SmallUnitsPerBig != nil {
			if *body.SmallUnitsPerBig < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "small_units_per_big en az 1 olmalı")
			}
			p.SmallUnitsPerBig = *body.SmallUnitsPerBig
		}
		if body.CostPriceSmall != nil {
			if body.CostPriceSmall.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Maliyet negatif olamaz")
			}
			p.CostPriceSmall = *body.CostPriceSmall
		}
		if body.SellPriceSmall != nil {
			if body.SellPriceSmall.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Satış fiyatı negatif olamaz")
			}
			p.SellPriceSmall = *body.SellPriceSmall
		}
		if body.ImagePath != nil {
			p.ImagePath = *body.ImagePath
		}
		if body.Notes != nil {
			p.Notes = *body.Notes
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(productResponse(p))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		// Siparişte/mal kabulde/dağıtımda referans edilen ürün silinemez
		var refCount int64
		database.DB.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refCount)
		if refCount == 0 {
			database.DB.Model(&models.ReceiptItem{}).Where("product_id = ?", id).Count(&refCount)
		}
		if refCount == 0 {
			database.DB.Model(&models.DistributionItem{}).Where("product_id = ?", id).Count(&refCount)
		}
		if refCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün hareket görmüş, silinemez")
		}

		if err := database.DB.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

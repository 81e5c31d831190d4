package catalog

import (
	"strings"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ShopResponse struct {
	ID       uint   `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

type CreateShopRequest struct {
	Code    string `json:"code" validate:"required,max=50"`
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=50"`
}

type UpdateShopRequest struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

func shopResponse(s models.Shop) ShopResponse {
	return ShopResponse{
		ID:       s.ID,
		Code:     s.Code,
		Name:     s.Name,
		Address:  s.Address,
		Phone:    s.Phone,
		IsActive: s.IsActive,
	}
}

// GET /api/shops?include_inactive=true
func ListShopsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Shop{})
		if c.Query("include_inactive") != "true" {
			dbq = dbq.Where("is_active = ?", true)
		}

		var shops []models.Shop
		if err := dbq.Order("code asc").Find(&shops).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şubeler listelenemedi")
		}

		res := make([]ShopResponse, 0, len(shops))
		for _, s := range shops {
			res = append(res, shopResponse(s))
		}
		return c.JSON(res)
	}
}

// GET /api/shops/:id
func GetShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Shop
		if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}
		return c.JSON(shopResponse(s))
	}
}

// POST /api/admin/shops (sadece super_admin)
func CreateShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateShopRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Code ve name zorunlu, alan uzunluklarını kontrol et")
		}

		var existing models.Shop
		if err := database.DB.Where("code = ?", body.Code).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu şube kodu zaten kullanılıyor")
		}

		s := models.Shop{
			Code:     body.Code,
			Name:     body.Name,
			Address:  body.Address,
			Phone:    body.Phone,
			IsActive: true,
		}

		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(shopResponse(s))
	}
}

// PUT /api/admin/shops/:id
func UpdateShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var s models.Shop
		if err := database.DB.First(&s, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var body UpdateShopRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Code != nil {
			code := strings.TrimSpace(*body.Code)
			if code == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Code boş olamaz")
			}
			s.Code = code
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			s.Name = name
		}
		if body.Address != nil {
			s.Address = *body.Address
		}
		if body.Phone != nil {
			s.Phone = *body.Phone
		}
		if body.IsActive != nil {
			s.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube güncellenemedi")
		}

		return c.JSON(shopResponse(s))
	}
}

// DELETE /api/admin/shops/:id (soft delete: is_active = false)
func DeleteShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		result := database.DB.Model(&models.Shop{}).Where("id = ?", id).Update("is_active", false)
		if result.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şube silinemedi")
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

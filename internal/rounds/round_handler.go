package rounds

import (
	"strings"
	"time"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/round"

	"github.com/gofiber/fiber/v2"
)

type RoundResponse struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	DeliveryDate *string            `json:"delivery_date"`
	WeekNumber   *int               `json:"week_number"`
	Description  string             `json:"description"`
	Status       models.RoundStatus `json:"status"`
	ClosedAt     *string            `json:"closed_at"`
	CreatedAt    string             `json:"created_at"`
}

type CreateRoundRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	DeliveryDate string `json:"delivery_date"` // "2026-01-15", opsiyonel
	WeekNumber   *int   `json:"week_number"`
	Description  string `json:"description" validate:"max=255"`
}

type UpdateRoundRequest struct {
	Name         *string `json:"name"`
	DeliveryDate *string `json:"delivery_date"`
	WeekNumber   *int    `json:"week_number"`
	Description  *string `json:"description"`
}

func roundResponse(r models.Round) RoundResponse {
	resp := RoundResponse{
		ID:          r.ID,
		Name:        r.Name,
		WeekNumber:  r.WeekNumber,
		Description: r.Description,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.DeliveryDate != nil {
		d := r.DeliveryDate.Format("2006-01-02")
		resp.DeliveryDate = &d
	}
	if r.ClosedAt != nil {
		t := r.ClosedAt.Format("2006-01-02 15:04:05")
		resp.ClosedAt = &t
	}
	return resp
}

// POST /api/rounds
func CreateRoundHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRoundRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu, alan uzunluklarını kontrol et")
		}

		rnd := models.Round{
			Name:        body.Name,
			WeekNumber:  body.WeekNumber,
			Description: body.Description,
			Status:      models.RoundStatusOpen,
		}

		if body.DeliveryDate != "" {
			d, err := time.Parse("2006-01-02", body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			rnd.DeliveryDate = &d
		}

		if err := database.DB.Create(&rnd).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tur oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(roundResponse(rnd))
	}
}

// GET /api/rounds
func ListRoundsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Round
		if err := database.DB.Order("id desc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Turlar listelenemedi")
		}

		resp := make([]RoundResponse, 0, len(list))
		for _, r := range list {
			resp = append(resp, roundResponse(r))
		}
		return c.JSON(resp)
	}
}

// GET /api/rounds/:id
func GetRoundHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}
		return c.JSON(roundResponse(rnd))
	}
}

// PUT /api/rounds/:id (sadece açıklama/tarih/isim; durum geçişleri ayrı endpoint)
func UpdateRoundHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}

		if rnd.Status == models.RoundStatusClosed {
			return fiber.NewError(fiber.StatusConflict, "Kapalı tur güncellenemez")
		}

		var body UpdateRoundRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			rnd.Name = name
		}
		if body.DeliveryDate != nil {
			if *body.DeliveryDate == "" {
				rnd.DeliveryDate = nil
			} else {
				d, err := time.Parse("2006-01-02", *body.DeliveryDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
				}
				rnd.DeliveryDate = &d
			}
		}
		if body.WeekNumber != nil {
			rnd.WeekNumber = body.WeekNumber
		}
		if body.Description != nil {
			rnd.Description = *body.Description
		}

		if err := database.DB.Save(&rnd).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tur güncellenemedi")
		}

		return c.JSON(roundResponse(rnd))
	}
}

// POST /api/rounds/:id/mark-reportable
func MarkReportableHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		rnd, err := svc.MarkReportable(id)
		if err != nil {
			return engineError(err)
		}
		return c.JSON(roundResponse(*rnd))
	}
}

// POST /api/rounds/:id/close
func CloseRoundHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		rnd, err := svc.CloseRound(id)
		if err != nil {
			return engineError(err)
		}
		return c.JSON(roundResponse(*rnd))
	}
}

// POST /api/rounds/:id/reopen
func ReopenRoundHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		rnd, err := svc.ReopenRound(id)
		if err != nil {
			return engineError(err)
		}
		return c.JSON(roundResponse(*rnd))
	}
}

// GET /api/rounds/:id/integrity
// Türetilmiş toplamlar ile receipt_items toplamlarının mutabakatı
func IntegrityCheckHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		report, err := svc.CheckIntegrity(id)
		if err != nil {
			if report != nil && len(report.Mismatches) > 0 {
				// Tutarsızlık raporunu veriyle birlikte döndür
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"ok":         false,
					"round_id":   report.RoundID,
					"mismatches": report.Mismatches,
				})
			}
			return engineError(err)
		}

		return c.JSON(fiber.Map{
			"ok":       true,
			"round_id": report.RoundID,
		})
	}
}

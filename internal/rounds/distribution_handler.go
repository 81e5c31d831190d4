package rounds

import (
	"fmt"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/round"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type DistributionItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"` // sıfırsa ürünün güncel satış fiyatı
}

type destinationRequest struct {
	Type string `json:"type" validate:"required,oneof=shop customer"`
	ID   uint   `json:"id" validate:"required"`
}

type ValidateAllocationRequest struct {
	RoundID uint                     `json:"round_id" validate:"required"`
	Lines   []allocationLineRequest  `json:"lines" validate:"required,min=1,dive"`
}

type allocationLineRequest struct {
	ProductID   uint               `json:"product_id" validate:"required"`
	Quantity    int                `json:"quantity" validate:"required,gt=0"`
	Destination destinationRequest `json:"destination" validate:"required"`
}

type CommitDistributionRequest struct {
	RoundID     uint                      `json:"round_id" validate:"required"`
	Destination destinationRequest        `json:"destination" validate:"required"`
	Notes       string                    `json:"notes" validate:"max=255"`
	Override    bool                      `json:"override"` // ihlale rağmen kaydet onayı
	Items       []DistributionItemRequest `json:"items" validate:"required,min=1,dive"`
}

type DistributionItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type DistributionResponse struct {
	ID              uint                       `json:"id"`
	RoundID         uint                       `json:"round_id"`
	DestinationType models.DestinationType     `json:"destination_type"`
	DestinationID   uint                       `json:"destination_id"`
	DestinationName string                     `json:"destination_name"`
	Override        bool                       `json:"override"`
	Notes           string                     `json:"notes"`
	CreatedAt       string                     `json:"created_at"`
	Items           []DistributionItemResponse `json:"items"`
}

func destinationName(d models.Destination) string {
	if d.IsShop() {
		var shop models.Shop
		if err := database.DB.First(&shop, "id = ?", d.ID).Error; err == nil {
			return shop.Name
		}
	} else if d.IsCustomer() {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", d.ID).Error; err == nil {
			return customer.Name
		}
	}
	return ""
}

func distributionResponse(d models.Distribution) DistributionResponse {
	resp := DistributionResponse{
		ID:              d.ID,
		RoundID:         d.RoundID,
		DestinationType: d.Destination.Type,
		DestinationID:   d.Destination.ID,
		DestinationName: destinationName(d.Destination),
		Override:        d.Override,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, DistributionItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductCode: it.Product.Code,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return resp
}

func parseDestination(req destinationRequest) models.Destination {
	return models.Destination{Type: models.DestinationType(req.Type), ID: req.ID}
}

// POST /api/distributions/validate
// İki fazlı akışın ilk fazı: hiçbir şey yazmadan önerilen miktarları
// eldeki miktara karşı doğrular. İhlal bir HTTP hatası DEĞİLDİR; sonuç
// veri olarak döner, karar kullanıcınındır.
func ValidateAllocationHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ValidateAllocationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "round_id ve en az bir satır zorunlu; miktarlar pozitif olmalı")
		}

		lines := make([]round.AllocationLine, 0, len(body.Lines))
		for _, l := range body.Lines {
			lines = append(lines, round.AllocationLine{
				ProductID:   l.ProductID,
				Quantity:    l.Quantity,
				Destination: parseDestination(l.Destination),
			})
		}

		result, err := svc.ValidateAllocation(body.RoundID, lines)
		if err != nil {
			return engineError(err)
		}

		return c.JSON(result)
	}
}

// POST /api/distributions
// İkinci faz: kaydetmeden hemen önce doğrulama tazelenir. İhlal varsa ve
// override onayı yoksa 409 + ihlal listesi döner, hiçbir şey yazılmaz.
// Override=true ile kaydedilen dağıtım denetim için işaretlenir.
func CommitDistributionHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CommitDistributionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "round_id, hedef ve en az bir kalem zorunlu; miktarlar pozitif olmalı")
		}

		items := make([]round.DistributionItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, round.DistributionItemInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}

		dist, result, err := svc.CommitDistribution(round.DistributionInput{
			RoundID:     body.RoundID,
			Destination: parseDestination(body.Destination),
			Notes:       body.Notes,
			Items:       items,
		}, body.Override)
		if err != nil {
			return engineError(err)
		}

		if dist == nil {
			// İhlal var, override onayı yok: yazılmadı
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message":    "Eldeki miktar aşılıyor, kaydedilmedi. Onaylayarak yine de kaydedebilirsiniz.",
				"ok":         result.OK,
				"violations": result.Violations,
			})
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			desc := fmt.Sprintf("Dağıtım kaydedildi: %s (%d kalem)", dist.Destination.String(), len(dist.Items))
			if dist.Override {
				desc += " [eldeki miktar aşılarak onaylandı]"
			}
			audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "distribution",
				EntityID:    dist.ID,
				RoundID:     &dist.RoundID,
				Action:      models.AuditActionCreate,
				Description: desc,
				After:       dist,
			})
		}

		var full models.Distribution
		database.DB.Preload("Items.Product").First(&full, dist.ID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"distribution": distributionResponse(full),
			"ok":           result.OK,
			"violations":   result.Violations,
		})
	}
}

// GET /api/rounds/:id/distributions
func ListDistributionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var dists []models.Distribution
		if err := database.DB.
			Preload("Items.Product").
			Where("round_id = ?", roundID).
			Order("id asc").
			Find(&dists).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dağıtımlar listelenemedi")
		}

		resp := make([]DistributionResponse, 0, len(dists))
		for _, d := range dists {
			resp = append(resp, distributionResponse(d))
		}
		return c.JSON(resp)
	}
}

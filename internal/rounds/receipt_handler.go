package rounds

import (
	"fmt"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/repository"
	"dagitim-backend/internal/round"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ReceiptItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"` // sıfırsa ürünün güncel maliyeti
}

type CreateReceiptRequest struct {
	RoundID uint                 `json:"round_id" validate:"required"`
	ShopID  *uint                `json:"shop_id"`
	Notes   string               `json:"notes" validate:"max=255"`
	Items   []ReceiptItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReceiptItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type ReceiptResponse struct {
	ID            uint                  `json:"id"`
	RoundID       uint                  `json:"round_id"`
	ShopID        *uint                 `json:"shop_id"`
	ShopName      string                `json:"shop_name"`
	ReceiveNumber int                   `json:"receive_number"`
	Notes         string                `json:"notes"`
	CreatedAt     string                `json:"created_at"`
	Items         []ReceiptItemResponse `json:"items"`
}

func receiptResponse(r models.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		ID:            r.ID,
		RoundID:       r.RoundID,
		ShopID:        r.ShopID,
		ReceiveNumber: r.ReceiveNumber,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if r.Shop != nil {
		resp.ShopName = r.Shop.Name
	}
	for _, it := range r.Items {
		resp.Items = append(resp.Items, ReceiptItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductCode: it.Product.Code,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
		})
	}
	return resp
}

// POST /api/receipts
// Aynı girdiyle iki çağrı iki ayrı mal kabuldür (iki fiziksel teslimat);
// mükerrer girişin düzeltmesi silme + yeniden giriştir.
func CreateReceiptHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReceiptRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "round_id ve en az bir kalem zorunlu; miktarlar pozitif olmalı")
		}

		items := make([]round.ReceiptItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, round.ReceiptItemInput{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitCost:  it.UnitCost,
			})
		}

		receipt, err := svc.RecordReceipt(round.RecordReceiptInput{
			RoundID: body.RoundID,
			ShopID:  body.ShopID,
			Notes:   body.Notes,
			Items:   items,
		})
		if err != nil {
			return engineError(err)
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "receipt",
				EntityID:    receipt.ID,
				RoundID:     &receipt.RoundID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Mal kabul #%d kaydedildi (%d kalem)", receipt.ReceiveNumber, len(receipt.Items)),
				After:       receipt,
			})
		}

		var full models.Receipt
		database.DB.Preload("Shop").Preload("Items.Product").First(&full, receipt.ID)
		return c.Status(fiber.StatusCreated).JSON(receiptResponse(full))
	}
}

// GET /api/rounds/:id/receipts
func ListReceiptsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var receipts []models.Receipt
		if err := database.DB.
			Preload("Shop").Preload("Items.Product").
			Where("round_id = ?", roundID).
			Order("receive_number asc").
			Find(&receipts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mal kabuller listelenemedi")
		}

		resp := make([]ReceiptResponse, 0, len(receipts))
		for _, r := range receipts {
			resp = append(resp, receiptResponse(r))
		}
		return c.JSON(resp)
	}
}

// GET /api/rounds/:id/inventory
// Türetilmiş tur stoku: ürün bazında teslim alınan / dağıtılan / kalan
func RoundInventoryHandler(repo *repository.GormRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", roundID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}

		received, err := repo.GetReceivedTotals(roundID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tur stoku okunamadı")
		}
		distributed, err := repo.GetDistributedTotals(roundID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dağıtım toplamları okunamadı")
		}

		type inventoryRow struct {
			ProductID   uint   `json:"product_id"`
			ProductCode string `json:"product_code"`
			ProductName string `json:"product_name"`
			Received    int    `json:"received"`
			Distributed int    `json:"distributed"`
			Remaining   int    `json:"remaining"`
		}

		rows := make([]inventoryRow, 0, len(received))
		for productID, qty := range received {
			var product models.Product
			if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
				continue
			}
			rows = append(rows, inventoryRow{
				ProductID:   productID,
				ProductCode: product.Code,
				ProductName: product.Name,
				Received:    qty,
				Distributed: distributed[productID],
				Remaining:   qty - distributed[productID],
			})
		}

		return c.JSON(fiber.Map{"round_id": roundID, "rows": rows})
	}
}

// DELETE /api/receipts/:id
// Repository üzerinden gider ki türetilmiş tur toplamları aynı
// transaction içinde yeniden hesaplansın.
func DeleteReceiptHandler(repo *repository.GormRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var receipt models.Receipt
		if err := database.DB.
			Preload("Items").
			First(&receipt, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mal kabul bulunamadı")
		}

		if err := repo.DeleteReceipt(receipt.ID); err != nil {
			return engineError(err)
		}

		userID, userName, uerr := getUserInfo(c)
		if uerr == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "receipt",
				EntityID:    receipt.ID,
				RoundID:     &receipt.RoundID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Mal kabul #%d silindi", receipt.ReceiveNumber),
				Before:      receipt,
			})
		}

		return c.JSON(fiber.Map{"message": "Mal kabul silindi, tur stoku güncellendi"})
	}
}

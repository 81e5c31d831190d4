package rounds

import (
	"fmt"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/round"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"` // sıfırsa ürünün güncel satış fiyatı
}

type CreateOrderRequest struct {
	RoundID uint               `json:"round_id" validate:"required"`
	ShopID  uint               `json:"shop_id" validate:"required"`
	Notes   string             `json:"notes" validate:"max=255"`
	Items   []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemResponse struct {
	ID            uint            `json:"id"`
	ProductID     uint            `json:"product_id"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	PricePerSmall decimal.Decimal `json:"price_per_small"`
}

type OrderResponse struct {
	ID        uint                `json:"id"`
	OrderCode string              `json:"order_code"`
	RoundID   uint                `json:"round_id"`
	ShopID    uint                `json:"shop_id"`
	ShopName  string              `json:"shop_name"`
	Status    models.OrderStatus  `json:"status"`
	Notes     string              `json:"notes"`
	CreatedAt string              `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

func orderResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID,
		OrderCode: o.OrderCode,
		RoundID:   o.RoundID,
		ShopID:    o.ShopID,
		ShopName:  o.Shop.Name,
		Status:    o.Status,
		Notes:     o.Notes,
		CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			ProductCode:   it.Product.Code,
			ProductName:   it.Product.Name,
			Quantity:      it.Quantity,
			PricePerSmall: it.PricePerSmall,
		})
	}
	return resp
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "round_id, shop_id ve en az bir kalem zorunlu; miktarlar pozitif olmalı")
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", body.RoundID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}
		if rnd.Status == models.RoundStatusClosed {
			return fiber.NewError(fiber.StatusConflict, "Kapalı tura sipariş girilemez")
		}

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ? AND is_active = ?", body.ShopID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		order := models.Order{
			OrderCode: fmt.Sprintf("SIP-%s", strings.ToUpper(uuid.New().String()[:8])),
			RoundID:   body.RoundID,
			ShopID:    body.ShopID,
			Status:    models.OrderStatusDraft,
			Notes:     body.Notes,
		}

		for _, it := range body.Items {
			var product models.Product
			if err := database.DB.First(&product, "id = ?", it.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Ürün bulunamadı: %d", it.ProductID))
			}

			price := it.Price
			if price.IsZero() {
				price = product.SellPriceSmall
			}
			if price.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "Birim fiyat negatif olamaz")
			}

			order.Items = append(order.Items, models.OrderItem{
				ProductID:     it.ProductID,
				Quantity:      it.Quantity,
				PricePerSmall: price,
			})
		}

		if err := database.DB.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				RoundID:     &order.RoundID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sipariş oluşturuldu: %s (%s)", order.OrderCode, shop.Name),
				After:       order,
			})
		}

		database.DB.Preload("Shop").Preload("Items.Product").First(&order, order.ID)
		return c.Status(fiber.StatusCreated).JSON(orderResponse(order))
	}
}

// GET /api/rounds/:id/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var orders []models.Order
		if err := database.DB.
			Preload("Shop").Preload("Items.Product").
			Where("round_id = ?", roundID).
			Order("id asc").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, orderResponse(o))
		}
		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.
			Preload("Shop").Preload("Items.Product").
			First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		return c.JSON(orderResponse(order))
	}
}

// POST /api/orders/:id/confirm
func ConfirmOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		if order.Status == models.OrderStatusConfirmed {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş zaten onaylı")
		}

		order.Status = models.OrderStatusConfirmed
		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş onaylanamadı")
		}

		database.DB.Preload("Shop").Preload("Items.Product").First(&order, order.ID)
		return c.JSON(orderResponse(order))
	}
}

// DELETE /api/orders/:id
func DeleteOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		var order models.Order
		if err := database.DB.
			Preload("Items").
			First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		var rnd models.Round
		if err := database.DB.First(&rnd, "id = ?", order.RoundID).Error; err == nil &&
			rnd.Status == models.RoundStatusClosed {
			return fiber.NewError(fiber.StatusConflict, "Kapalı turun siparişi silinemez")
		}

		if err := database.DB.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş kalemleri silinemedi")
		}
		if err := database.DB.Delete(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "order",
				EntityID:    order.ID,
				RoundID:     &order.RoundID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Sipariş silindi: %s", order.OrderCode),
				Before:      order,
			})
		}

		return c.JSON(fiber.Map{"message": "Sipariş silindi"})
	}
}

type OrderSummaryResponse struct {
	RoundID uint                    `json:"round_id"`
	Rows    []OrderSummaryRowOutput `json:"rows"`
}

type OrderSummaryRowOutput struct {
	ProductID    uint           `json:"product_id"`
	ProductCode  string         `json:"product_code"`
	ProductName  string         `json:"product_name"`
	TotalOrdered int            `json:"total_ordered"`
	PerShop      map[string]int `json:"per_shop"` // şube id (string) -> miktar
}

// GET /api/rounds/:id/order-summary
// Turdaki tüm siparişlerin ürün bazlı toplamı; dağıtım ekranının
// ön-dolgusu bu veriden beslenir.
func OrderSummaryHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		rows, err := svc.SummarizeOrdersByShop(roundID)
		if err != nil {
			return engineError(err)
		}

		resp := OrderSummaryResponse{RoundID: roundID, Rows: make([]OrderSummaryRowOutput, 0, len(rows))}
		for _, r := range rows {
			perShop := make(map[string]int, len(r.PerShop))
			for shopID, qty := range r.PerShop {
				perShop[fmt.Sprintf("%d", shopID)] = qty
			}
			resp.Rows = append(resp.Rows, OrderSummaryRowOutput{
				ProductID:    r.ProductID,
				ProductCode:  r.ProductCode,
				ProductName:  r.ProductName,
				TotalOrdered: r.TotalOrdered,
				PerShop:      perShop,
			})
		}
		return c.JSON(resp)
	}
}

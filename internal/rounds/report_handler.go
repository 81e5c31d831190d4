package rounds

import (
	"dagitim-backend/internal/round"

	"github.com/gofiber/fiber/v2"
)

// GET /api/rounds/:id/financials
// Tur mali özeti: maliyet, ciro, kâr; ürün ve şube kırılımıyla.
// Tur açıkken provisional=true döner, rakamlar geçicidir.
func RoundFinancialsHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		fin, err := svc.ComputeRoundFinancials(roundID)
		if err != nil {
			return engineError(err)
		}
		return c.JSON(fin)
	}
}

type ShopAllocationResponse struct {
	ShopID   uint                         `json:"shop_id"`
	ShopCode string                       `json:"shop_code"`
	ShopName string                       `json:"shop_name"`
	Items    []ShopAllocationItemResponse `json:"items"`
}

type ShopAllocationItemResponse struct {
	ProductID   uint   `json:"product_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// GET /api/rounds/:id/shop-allocations
// Şube bazında dağıtım dökümü; teslimat belgeleri bu veriden basılır.
func ShopAllocationsHandler(svc *round.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roundID, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		allocations, err := svc.ShopAllocations(roundID)
		if err != nil {
			return engineError(err)
		}

		resp := make([]ShopAllocationResponse, 0, len(allocations))
		for _, a := range allocations {
			out := ShopAllocationResponse{
				ShopID:   a.ShopID,
				ShopCode: a.ShopCode,
				ShopName: a.ShopName,
				Items:    make([]ShopAllocationItemResponse, 0, len(a.Items)),
			}
			for _, it := range a.Items {
				out.Items = append(out.Items, ShopAllocationItemResponse{
					ProductID:   it.ProductID,
					ProductCode: it.ProductCode,
					ProductName: it.ProductName,
					Quantity:    it.Quantity,
				})
			}
			resp = append(resp, out)
		}
		return c.JSON(resp)
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zuri-pay/zuri_pay/internal/funding"
)

// RegisterFundingRoutes wires deposit/withdrawal endpoints.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler) {
	r.Post("/wallets/:walletId/deposit", h.Deposit)
	r.Post("/wallets/:walletId/withdraw", h.Withdraw)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets/:walletId/balance", h.Balance)
	r.Get("/wallets/:walletId/transactions", h.History)
}

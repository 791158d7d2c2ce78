package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zuri-pay/zuri_pay/internal/identity"
	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

// RegisterWalletMeRoute exposes the authenticated user's own wallet.
func RegisterWalletMeRoute(r fiber.Router, wallets *wallet.Service, repo identity.Repository) {
	r.Get("/wallet", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		if _, err := repo.FindByID(c.UserContext(), uid); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}
		w, err := wallets.GetByOwner(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(wallet.StatusForError(err), err.Error())
		}
		view, err := wallets.Balance(c.UserContext(), w.ID)
		if err != nil {
			return fiber.NewError(wallet.StatusForError(err), err.Error())
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"wallet_id": view.WalletID,
			"owner_id":  w.OwnerID,
			"balance":   view.Amount.String(),
			"as_of":     view.AsOf,
		})
	})
}

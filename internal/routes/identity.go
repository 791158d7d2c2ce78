package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zuri-pay/zuri_pay/internal/identity"
	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

type registerRequest struct {
	Phone    string `json:"phone"`
	PIN      string `json:"pin"`
	DeviceID string `json:"device_id"`
}

type registerResponse struct {
	UserID   string `json:"user_id"`
	Phone    string `json:"phone"`
	Tier     string `json:"tier"`
	WalletID string `json:"wallet_id,omitempty"`
}

// RegisterIdentityRoutes wires user onboarding. Registration also provisions
// the user's wallet so new accounts can transact immediately.
func RegisterIdentityRoutes(r fiber.Router, ids *identity.Service, wallets *wallet.Service, logger *slog.Logger) {
	r.Post("/users/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		user, err := ids.Register(c.UserContext(), identity.Credentials{Phone: req.Phone, PIN: req.PIN, DeviceID: req.DeviceID})
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		resp := registerResponse{UserID: user.ID, Phone: user.Phone, Tier: user.Tier}
		w, err := wallets.Create(c.UserContext(), wallet.CreateInput{OwnerID: user.ID})
		if err != nil {
			// The account exists; wallet provisioning can be retried via POST /wallets.
			logger.Error("wallet provisioning failed during registration",
				slog.String("user_id", user.ID), slog.String("error", err.Error()))
		} else {
			resp.WalletID = w.ID
		}
		return c.Status(http.StatusCreated).JSON(resp)
	})
}

package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	FromWalletID string `json:"from_wallet_id"`
	ToWalletID   string `json:"to_wallet_id"`
	Amount       string `json:"amount"`
}

// P2P processes a wallet-to-wallet transfer.
func (h *Handler) P2P(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}
	uid, _ := c.Locals("user_id").(string)

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromWalletID:    req.FromWalletID,
		ToWalletID:      req.ToWalletID,
		Amount:          amount,
		RequestorUserID: uid,
	})
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			return fiber.NewError(http.StatusForbidden, "not owner of source wallet")
		}
		return fiber.NewError(wallet.StatusForError(err), err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"out_entry_id": res.OutEntryID,
		"in_entry_id":  res.InEntryID,
		"amount":       res.Amount.String(),
		"completed_at": res.CompletedAt,
	})
}

package funding

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/zuri-pay/zuri_pay/internal/wallet"
)

// Handler exposes HTTP endpoints for deposits and withdrawals.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Deposit processes a wallet top-up.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	walletID := c.Params("walletId")
	var req MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	result, err := h.service.Deposit(c.UserContext(), walletID, amount)
	if err != nil {
		return fiber.NewError(wallet.StatusForError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(result))
}

// Withdraw processes a wallet withdrawal.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	walletID := c.Params("walletId")
	var req MovementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	result, err := h.service.Withdraw(c.UserContext(), walletID, amount)
	if err != nil {
		return fiber.NewError(wallet.StatusForError(err), err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toResponse(result))
}

func toResponse(result MovementResult) MovementResponse {
	return MovementResponse{
		TransactionID: result.Entry.ID,
		WalletID:      result.Entry.WalletID,
		Amount:        result.Entry.Amount.String(),
		Type:          string(result.Entry.Type),
		CompletedAt:   result.Entry.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

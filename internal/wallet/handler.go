package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zuri-pay/zuri_pay/internal/retry"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	OwnerID string `json:"owner_id"`
}

type walletResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Balance string `json:"balance"`
	Version int64  `json:"version"`
}

// Create provisions a wallet for the given owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	wallet, err := h.service.Create(c.UserContext(), CreateInput{OwnerID: req.OwnerID})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(walletResponse{
		ID:      wallet.ID,
		OwnerID: wallet.OwnerID,
		Balance: wallet.Balance.String(),
		Version: wallet.Version,
	})
}

// Balance returns the wallet balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	walletID := c.Params("walletId")
	balance, err := h.service.Balance(c.UserContext(), walletID)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"wallet_id": walletID,
		"balance":   balance.Amount.String(),
		"timestamp": balance.AsOf,
	})
}

type entryResponse struct {
	ID            string `json:"id"`
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Timestamp     string `json:"timestamp"`
	RelatedUserID string `json:"related_user_id,omitempty"`
}

// History returns the wallet's ledger entries, optionally filtered by a
// single date or a date range via query parameters.
func (h *Handler) History(c *fiber.Ctx) error {
	walletID := c.Params("walletId")
	filter := HistoryFilter{
		Date:      c.Query("date"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	entries, err := h.service.FilteredHistory(c.UserContext(), walletID, filter)
	if err != nil {
		switch {
		case errors.Is(err, ErrWalletNotFound):
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		case errors.Is(err, ErrInvalidDateFormat), errors.Is(err, ErrInvalidDateRange):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	out := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entryResponse{
			ID:            entry.ID,
			WalletID:      entry.WalletID,
			Amount:        entry.Amount.String(),
			Type:          string(entry.Type),
			Timestamp:     entry.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			RelatedUserID: entry.RelatedUserID,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"wallet_id":    walletID,
		"transactions": out,
	})
}

// StatusForError maps engine failures to stable HTTP statuses so calling
// layers never inspect free-text messages.
func StatusForError(err error) int {
	var exhausted *retry.ExhaustedError
	var inconsistent *InconsistencyError
	switch {
	case errors.Is(err, ErrWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSameWalletTransfer),
		errors.Is(err, ErrInvalidDateFormat),
		errors.Is(err, ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.As(err, &exhausted):
		return http.StatusConflict
	case errors.As(err, &inconsistent):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

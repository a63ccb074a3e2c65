package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dcastano/walletcore/internal/adapter/http/dto"
	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.LedgerEntry, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.LedgerEntry, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
}

// LedgerHandler handles money-movement HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Deposit credits an account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount, err := req.ToMoney()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid amount", err.Error())
		return
	}

	entry, err := h.ledgerUC.Deposit(r.Context(), usecase.DepositInput{
		AccountID:   id,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "deposit failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Withdraw debits an account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount, err := req.ToMoney()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid amount", err.Error())
		return
	}

	entry, err := h.ledgerUC.Withdraw(r.Context(), usecase.WithdrawInput{
		AccountID:   id,
		Amount:      amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "withdrawal failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Transfer moves money between two accounts.
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid transfer", err.Error())
		return
	}

	result, err := h.ledgerUC.Transfer(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "transfer failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}

package dto

import (
	"time"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	OwnerID   string    `json:"owner_id"`
	Balance   string    `json:"balance"`
	Currency  string    `json:"currency"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Number:    a.Number,
		OwnerID:   a.OwnerID,
		Balance:   a.Balance.Amount().StringFixed(domain.MoneyScale),
		Currency:  a.Balance.Currency(),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps an account listing.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	AccountID     string    `json:"account_id"`
	CounterpartID string    `json:"counterpart_id,omitempty"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description,omitempty"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		Type:          string(e.Type),
		AccountID:     e.AccountID,
		CounterpartID: e.CounterpartID,
		Amount:        e.Amount.Amount().StringFixed(domain.MoneyScale),
		Currency:      e.Amount.Currency(),
		Description:   e.Description,
		BalanceBefore: e.BalanceBefore.Amount().StringFixed(domain.MoneyScale),
		BalanceAfter:  e.BalanceAfter.Amount().StringFixed(domain.MoneyScale),
		CreatedAt:     e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps an entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// TransferResponse holds the two linked legs of a completed transfer.
type TransferResponse struct {
	OutEntry *EntryResponse `json:"out_entry"`
	InEntry  *EntryResponse `json:"in_entry"`
}

// TransferFromResult converts a transfer result to a response.
func TransferFromResult(result *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		OutEntry: EntryFromDomain(result.OutEntry),
		InEntry:  EntryFromDomain(result.InEntry),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

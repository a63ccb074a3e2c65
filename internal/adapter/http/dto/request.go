package dto

import (
	"time"

	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	OwnerID  string `json:"owner_id"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput() usecase.OpenAccountInput {
	return usecase.OpenAccountInput{
		OwnerID:  r.OwnerID,
		Currency: r.Currency,
	}
}

// MoneyRequest carries an amount over the wire. Amounts travel as
// strings so clients cannot lose precision to float encoding.
type MoneyRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ToMoney parses the request amount.
func (r MoneyRequest) ToMoney() (domain.MoneyValue, error) {
	return domain.NewMoneyValueFromString(r.Amount, r.Currency)
}

// DepositRequest represents a deposit into an account.
type DepositRequest struct {
	MoneyRequest
	Description string `json:"description,omitempty"`
}

// WithdrawRequest represents a withdrawal from an account.
type WithdrawRequest struct {
	MoneyRequest
	Description string `json:"description,omitempty"`
}

// TransferRequest represents a transfer between two accounts.
type TransferRequest struct {
	SourceID      string `json:"source_id"`
	DestinationID string `json:"destination_id"`
	MoneyRequest
	Description string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() (usecase.TransferInput, error) {
	amount, err := r.ToMoney()
	if err != nil {
		return usecase.TransferInput{}, err
	}

	return usecase.TransferInput{
		SourceID:      r.SourceID,
		DestinationID: r.DestinationID,
		Amount:        amount,
		Description:   r.Description,
	}, nil
}

// EntryFilter carries the query parameters of an entry listing.
type EntryFilter struct {
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

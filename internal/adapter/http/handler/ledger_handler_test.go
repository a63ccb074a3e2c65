package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dcastano/walletcore/internal/adapter/http/dto"
	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

type ledgerServiceStub struct {
	depositFn  func(ctx context.Context, input usecase.DepositInput) (*domain.LedgerEntry, error)
	withdrawFn func(ctx context.Context, input usecase.WithdrawInput) (*domain.LedgerEntry, error)
	transferFn func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
}

func (s *ledgerServiceStub) Deposit(ctx context.Context, input usecase.DepositInput) (*domain.LedgerEntry, error) {
	return s.depositFn(ctx, input)
}

func (s *ledgerServiceStub) Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.LedgerEntry, error) {
	return s.withdrawFn(ctx, input)
}

func (s *ledgerServiceStub) Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
	return s.transferFn(ctx, input)
}

func stubEntry(t *testing.T, id string, entryType domain.EntryType, amount, before, after, counterpart string) *domain.LedgerEntry {
	t.Helper()

	mv := func(s string) domain.MoneyValue {
		m, err := domain.NewMoneyValueFromString(s, "USD")
		if err != nil {
			t.Fatalf("money %s: %v", s, err)
		}
		return m
	}

	entry, err := domain.NewLedgerEntry(id, entryType, mv(amount), "acc-1", counterpart, "test", mv(before), mv(after), time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	return entry
}

func TestLedgerHandler_Deposit_Success(t *testing.T) {
	entry := stubEntry(t, "e-1", domain.EntryDeposit, "50.00", "0.00", "50.00", "")

	var captured usecase.DepositInput
	h := NewLedgerHandler(&ledgerServiceStub{
		depositFn: func(ctx context.Context, input usecase.DepositInput) (*domain.LedgerEntry, error) {
			captured = input
			return entry, nil
		},
	})

	body, _ := json.Marshal(dto.DepositRequest{
		MoneyRequest: dto.MoneyRequest{Amount: "50.00", Currency: "USD"},
		Description:  "payday",
	})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/deposit", bytes.NewReader(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.Deposit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.AccountID != "acc-1" || captured.Description != "payday" {
		t.Fatalf("unexpected input %+v", captured)
	}
	if captured.Amount.String() != "50.00" {
		t.Fatalf("expected amount 50.00, got %s", captured.Amount)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Type != "deposit" || resp.BalanceAfter != "50.00" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestLedgerHandler_Deposit_InvalidAmount(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		depositFn: func(ctx context.Context, input usecase.DepositInput) (*domain.LedgerEntry, error) {
			t.Fatal("Deposit should not be called for malformed amount")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.DepositRequest{
		MoneyRequest: dto.MoneyRequest{Amount: "fifty", Currency: "USD"},
	})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/deposit", bytes.NewReader(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.Deposit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_Withdraw_InsufficientFunds(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		withdrawFn: func(ctx context.Context, input usecase.WithdrawInput) (*domain.LedgerEntry, error) {
			return nil, fmt.Errorf("%w: balance 10.00, requested 50.00", domain.ErrInsufficientFunds)
		},
	})

	body, _ := json.Marshal(dto.WithdrawRequest{
		MoneyRequest: dto.MoneyRequest{Amount: "50.00", Currency: "USD"},
	})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/withdraw", bytes.NewReader(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.Withdraw(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLedgerHandler_Transfer_Success(t *testing.T) {
	result := &usecase.TransferResult{
		OutEntry: stubEntry(t, "e-out", domain.EntryTransferOut, "30.00", "100.00", "70.00", "acc-2"),
		InEntry:  stubEntry(t, "e-in", domain.EntryTransferIn, "30.00", "0.00", "30.00", "acc-1"),
	}

	h := NewLedgerHandler(&ledgerServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
			return result, nil
		},
	})

	body, _ := json.Marshal(dto.TransferRequest{
		SourceID:      "acc-1",
		DestinationID: "acc-2",
		MoneyRequest:  dto.MoneyRequest{Amount: "30.00", Currency: "USD"},
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Transfer(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.OutEntry.Type != "transfer_out" || resp.InEntry.Type != "transfer_in" {
		t.Fatalf("unexpected legs %+v", resp)
	}
	if resp.OutEntry.CounterpartID != "acc-2" || resp.InEntry.CounterpartID != "acc-1" {
		t.Fatalf("expected cross-linked counterparts, got %+v", resp)
	}
}

func TestLedgerHandler_Transfer_SelfTransfer(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
			return nil, fmt.Errorf("%w: account acc-1", domain.ErrSelfTransfer)
		},
	})

	body, _ := json.Marshal(dto.TransferRequest{
		SourceID:      "acc-1",
		DestinationID: "acc-1",
		MoneyRequest:  dto.MoneyRequest{Amount: "30.00", Currency: "USD"},
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Transfer(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_Transfer_LockTimeout(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		transferFn: func(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error) {
			return nil, fmt.Errorf("%w: account acc-2", domain.ErrLockTimeout)
		},
	})

	body, _ := json.Marshal(dto.TransferRequest{
		SourceID:      "acc-1",
		DestinationID: "acc-2",
		MoneyRequest:  dto.MoneyRequest{Amount: "30.00", Currency: "USD"},
	})
	req := httptest.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Transfer(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

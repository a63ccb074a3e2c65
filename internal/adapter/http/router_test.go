package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dcastano/walletcore/internal/adapter/http/dto"
	"github.com/dcastano/walletcore/internal/adapter/http/handler"
	"github.com/dcastano/walletcore/internal/adapter/repository/memory"
	"github.com/dcastano/walletcore/internal/adapter/repository/postgres"
	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// newTestServer wires the full stack over in-memory stores.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db := memory.NewDB()
	accounts := memory.NewAccountStore(db)
	entries := memory.NewLedgerStore(db)
	users := memory.NewUserDirectory(db)
	txManager := memory.NewTxManager(db)
	locks := usecase.NewLockManager(usecase.DefaultLockTimeout)
	idGen := postgres.NewULIDGenerator()

	user, err := domain.NewUser("user-1", "Maria Castano", "maria@example.com", "12345678", time.Now().UTC())
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	users.Put(user)

	accountUC := usecase.NewAccountUseCase(accounts, users, locks, idGen, nil)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accounts, entries, locks, idGen, nil, nil)
	entryUC := usecase.NewEntryUseCase(entries)

	return NewRouter(RouterConfig{
		AccountHandler: handler.NewAccountHandler(accountUC),
		LedgerHandler:  handler.NewLedgerHandler(ledgerUC),
		EntryHandler:   handler.NewEntryHandler(entryUC),
		HealthHandler:  handler.NewHealthHandler(nil, nil),
		Logger:         zerolog.Nop(),
	})
}

func TestRouterHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterAccountLifecycle(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(dto.OpenAccountRequest{OwnerID: "user-1", Currency: "USD"})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("open account: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var account dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	if len(account.Number) != 10 {
		t.Fatalf("expected 10-digit account number, got %q", account.Number)
	}

	// Deposit, then read the balance back through the API.
	depositBody, _ := json.Marshal(dto.DepositRequest{
		MoneyRequest: dto.MoneyRequest{Amount: "100.50", Currency: "USD"},
		Description:  "first deposit",
	})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/"+account.ID+"/deposit", bytes.NewReader(depositBody)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("deposit: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+account.ID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("get account: expected 200, got %d", rec.Code)
	}

	var fetched dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	if fetched.Balance != "100.50" {
		t.Fatalf("expected balance 100.50, got %s", fetched.Balance)
	}

	// History shows the deposit entry.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+account.ID+"/entries", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("entries: expected 200, got %d", rec.Code)
	}

	var list dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if list.Total != 1 || list.Entries[0].Type != "deposit" {
		t.Fatalf("unexpected entries %+v", list)
	}
}

func TestRouterTransferBetweenAccounts(t *testing.T) {
	srv := newTestServer(t)

	open := func(t *testing.T) dto.AccountResponse {
		t.Helper()
		body, _ := json.Marshal(dto.OpenAccountRequest{OwnerID: "user-1", Currency: "USD"})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("open account: expected 201, got %d", rec.Code)
		}
		var account dto.AccountResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &account); err != nil {
			t.Fatalf("decode account: %v", err)
		}
		return account
	}

	source := open(t)
	destination := open(t)

	depositBody, _ := json.Marshal(dto.DepositRequest{
		MoneyRequest: dto.MoneyRequest{Amount: "200.00", Currency: "USD"},
	})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/"+source.ID+"/deposit", bytes.NewReader(depositBody)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("deposit: expected 201, got %d", rec.Code)
	}

	transferBody, _ := json.Marshal(dto.TransferRequest{
		SourceID:      source.ID,
		DestinationID: destination.ID,
		MoneyRequest:  dto.MoneyRequest{Amount: "75.25", Currency: "USD"},
	})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(transferBody)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("transfer: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result dto.TransferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode transfer: %v", err)
	}
	if result.OutEntry.BalanceAfter != "124.75" {
		t.Fatalf("expected source balance 124.75, got %s", result.OutEntry.BalanceAfter)
	}
	if result.InEntry.BalanceAfter != "75.25" {
		t.Fatalf("expected destination balance 75.25, got %s", result.InEntry.BalanceAfter)
	}
}

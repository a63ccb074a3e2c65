package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcastano/walletcore/internal/adapter/http/dto"
	"github.com/dcastano/walletcore/internal/domain"
	"github.com/dcastano/walletcore/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	ListByAccount(ctx context.Context, input usecase.ListByAccountInput) ([]*domain.LedgerEntry, error)
	ListByAccountAndType(ctx context.Context, input usecase.ListByAccountInput, entryType domain.EntryType) ([]*domain.LedgerEntry, error)
	ListByDateRange(ctx context.Context, accountID string, from, to time.Time) ([]*domain.LedgerEntry, error)
}

// EntryHandler handles ledger history HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// ListByAccount lists entries for an account, optionally filtered by
// type or date range via query parameters.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	from := parseTimeQuery(r, "from")
	to := parseTimeQuery(r, "to")
	if from != nil || to != nil {
		if from == nil || to == nil {
			writeError(w, http.StatusBadRequest, "date range requires both from and to", "")
			return
		}

		entries, err := h.entryUC.ListByDateRange(r.Context(), accountID, *from, *to)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to list entries", err.Error())
			return
		}

		h.write(w, entries)
		return
	}

	input := usecase.ListByAccountInput{
		AccountID: accountID,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	var (
		entries []*domain.LedgerEntry
		err     error
	)

	if entryType := r.URL.Query().Get("type"); entryType != "" {
		entries, err = h.entryUC.ListByAccountAndType(r.Context(), input, domain.EntryType(entryType))
	} else {
		entries, err = h.entryUC.ListByAccount(r.Context(), input)
	}

	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	h.write(w, entries)
}

func (h *EntryHandler) write(w http.ResponseWriter, entries []*domain.LedgerEntry) {
	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}

package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tradestack/market-sim/internal/catalog"
	"github.com/tradestack/market-sim/internal/model"
)

// NewsFeed supplies the recent news tape for the REST surface. Satisfied
// by the stream hub; nil disables the endpoint's content.
type NewsFeed interface {
	RecentNews() []model.NewsEvent
}

// Service exposes the ledger engine and catalog over HTTP.
type Service struct {
	engine  *Engine
	catalog *catalog.Catalog
	news    NewsFeed
}

// NewService creates the HTTP service. Pass nil for news if no feed is
// wired.
func NewService(engine *Engine, cat *catalog.Catalog, news NewsFeed) *Service {
	return &Service{engine: engine, catalog: cat, news: news}
}

// Routes mounts all handlers on r under the current path.
func (s *Service) Routes(r chi.Router) {
	r.Get("/instruments", s.ListInstruments)
	r.Get("/news", s.ListNews)

	r.Post("/accounts", s.Register)
	r.Post("/accounts/sync", s.SyncIdentity)
	r.Get("/accounts/{accountID}", s.GetAccount)
	r.Post("/accounts/{accountID}/deposit", s.Deposit)
	r.Post("/accounts/{accountID}/withdraw", s.Withdraw)
	r.Post("/accounts/{accountID}/buy", s.Buy)
	r.Post("/accounts/{accountID}/sell", s.Sell)
	r.Put("/accounts/{accountID}/watchlist", s.SetWatchlist)
	r.Delete("/accounts/{accountID}", s.DeleteAccount)
}

// --- Request types ---

// RegisterRequest is the JSON body for POST /accounts.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SyncRequest is the JSON body for POST /accounts/sync.
type SyncRequest struct {
	ExternalID      string `json:"external_id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar"`
	CreateIfMissing bool   `json:"create_if_missing"`
}

// AmountRequest is the JSON body for deposits and withdrawals.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TradeRequest is the JSON body for buys and sells.
type TradeRequest struct {
	Code     string `json:"code"`
	Quantity int64  `json:"quantity"`
}

// WatchlistRequest is the JSON body for PUT /accounts/{id}/watchlist.
type WatchlistRequest struct {
	Codes []string `json:"codes"`
}

// --- Handlers ---

// ListInstruments handles GET /api/v1/instruments
func (s *Service) ListInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Snapshot())
}

// ListNews handles GET /api/v1/news
func (s *Service) ListNews(w http.ResponseWriter, r *http.Request) {
	events := []model.NewsEvent{}
	if s.news != nil {
		events = s.news.RecentNews()
	}
	writeJSON(w, http.StatusOK, events)
}

// Register handles POST /api/v1/accounts
func (s *Service) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		writeError(w, "email is required", http.StatusBadRequest)
		return
	}

	a, err := s.engine.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("account registered", "id", a.ID, "email", a.Email)
	writeJSON(w, http.StatusCreated, a)
}

// SyncIdentity handles POST /api/v1/accounts/sync
func (s *Service) SyncIdentity(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ExternalID == "" {
		writeError(w, "external_id is required", http.StatusBadRequest)
		return
	}

	a, err := s.engine.SyncIdentity(r.Context(), req.ExternalID, req.Email, req.Name, req.Avatar, req.CreateIfMissing)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("identity synced", "id", a.ID, "external_id", req.ExternalID)
	writeJSON(w, http.StatusOK, a)
}

// GetAccount handles GET /api/v1/accounts/{accountID}
func (s *Service) GetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.engine.Get(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Deposit handles POST /api/v1/accounts/{accountID}/deposit
func (s *Service) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.engine.Deposit(r.Context(), id, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("deposit settled", "account", id, "amount", req.Amount.String())
	writeJSON(w, http.StatusOK, a)
}

// Withdraw handles POST /api/v1/accounts/{accountID}/withdraw
func (s *Service) Withdraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.engine.Withdraw(r.Context(), id, req.Amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("withdrawal settled", "account", id, "amount", req.Amount.String())
	writeJSON(w, http.StatusOK, a)
}

// Buy handles POST /api/v1/accounts/{accountID}/buy
func (s *Service) Buy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.engine.Buy(r.Context(), id, req.Code, req.Quantity)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("buy settled",
		"account", id,
		"code", req.Code,
		"quantity", req.Quantity,
		"balance", a.Balance.String(),
	)
	writeJSON(w, http.StatusOK, a)
}

// Sell handles POST /api/v1/accounts/{accountID}/sell
func (s *Service) Sell(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.engine.Sell(r.Context(), id, req.Code, req.Quantity)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("sell settled",
		"account", id,
		"code", req.Code,
		"quantity", req.Quantity,
		"balance", a.Balance.String(),
	)
	writeJSON(w, http.StatusOK, a)
}

// SetWatchlist handles PUT /api/v1/accounts/{accountID}/watchlist
func (s *Service) SetWatchlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")
	var req WatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.engine.SetWatchlist(r.Context(), id, req.Codes)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAccount handles DELETE /api/v1/accounts/{accountID}
func (s *Service) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "accountID")

	if err := s.engine.Delete(r.Context(), id); err != nil {
		writeLedgerError(w, err)
		return
	}

	slog.Info("account deleted", "account", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// --- Response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeLedgerError maps the ledger taxonomy onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownInstrument):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAccountNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrNoPosition),
		errors.Is(err, ErrHasBalance), errors.Is(err, ErrHasHoldings),
		errors.Is(err, ErrDuplicateEmail):
		writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrStoreUnavailable):
		writeError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

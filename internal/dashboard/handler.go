// Package dashboard serves the wallet-admin HTTP endpoints.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/inaiurai/commissionbot/internal/middleware"
	"github.com/inaiurai/commissionbot/internal/models"
	"github.com/inaiurai/commissionbot/internal/repository"
	"github.com/inaiurai/commissionbot/internal/services"
)

type WalletService interface {
	View(ctx context.Context, memberID int64) (*models.Wallet, error)
	ResolveWithdrawal(ctx context.Context, actor services.Actor, messageID int64, outcome models.WithdrawalOutcome) (*services.ResolveResult, error)
}

type EntryLister interface {
	Entries(ctx context.Context, memberID int64, limit int) ([]*models.WalletEntry, error)
}

type WithdrawalLister interface {
	List(ctx context.Context) ([]*models.Withdrawal, error)
}

type CommissionLister interface {
	List(ctx context.Context) ([]*models.Commission, error)
}

type TableRefresher interface {
	RefreshTable(ctx context.Context, actor services.Actor, name string) (repository.Table, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler acts on behalf of the logged-in admin with the configured wallet
// admin and admin roles.
type Handler struct {
	wallets     WalletService
	entries     EntryLister
	withdrawals WithdrawalLister
	commissions CommissionLister
	tables      TableRefresher
	db          Pinger
	adminRoles  []int64
	log         *slog.Logger
}

func NewHandler(
	wallets WalletService,
	entries EntryLister,
	withdrawals WithdrawalLister,
	commissions CommissionLister,
	tables TableRefresher,
	db Pinger,
	adminRoles []int64,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		wallets:     wallets,
		entries:     entries,
		withdrawals: withdrawals,
		commissions: commissions,
		tables:      tables,
		db:          db,
		adminRoles:  slices.Clone(adminRoles),
		log:         log,
	}
}

func (h *Handler) actor(r *http.Request) services.Actor {
	return services.Actor{Name: middleware.AdminFromCtx(r.Context()), RoleIDs: h.adminRoles}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps service errors to HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrWithdrawalNotFound), errors.Is(err, services.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		h.log.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// GET /api/v1/wallets/{member_id}
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "member_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	wallet, err := h.wallets.View(r.Context(), memberID)
	if err != nil {
		h.fail(w, "get wallet", err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

// GET /api/v1/wallets/{member_id}/entries?limit=N
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(r, "member_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.entries.Entries(r.Context(), memberID, limit)
	if err != nil {
		h.fail(w, "list wallet entries", err)
		return
	}
	if entries == nil {
		entries = []*models.WalletEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GET /api/v1/withdrawals
func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	list, err := h.withdrawals.List(r.Context())
	if err != nil {
		h.fail(w, "list withdrawals", err)
		return
	}
	if list == nil {
		list = []*models.Withdrawal{}
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/v1/withdrawals/{message_id}/resolve {"outcome":"accept"|"deny"}
func (h *Handler) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	messageID, ok := pathID(r, "message_id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}
	var body struct {
		Outcome models.WithdrawalOutcome `json:"outcome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	res, err := h.wallets.ResolveWithdrawal(r.Context(), h.actor(r), messageID, body.Outcome)
	if err != nil {
		h.fail(w, "resolve withdrawal", err)
		return
	}
	h.log.Info("withdrawal resolved over http", "message_id", messageID, "outcome", res.Outcome,
		"admin", middleware.AdminFromCtx(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{
		"withdrawal": res.Withdrawal,
		"outcome":    res.Outcome,
		"restored":   res.Restored,
	})
}

// GET /api/v1/commissions
func (h *Handler) ListCommissions(w http.ResponseWriter, r *http.Request) {
	list, err := h.commissions.List(r.Context())
	if err != nil {
		h.fail(w, "list commissions", err)
		return
	}
	if list == nil {
		list = []*models.Commission{}
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/v1/tables/{name}/refresh
func (h *Handler) RefreshTable(w http.ResponseWriter, r *http.Request) {
	t, err := h.tables.RefreshTable(r.Context(), h.actor(r), r.PathValue("name"))
	if err != nil {
		h.fail(w, "refresh table", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"table": string(t), "status": "refreshed"})
}

// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.Warn("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

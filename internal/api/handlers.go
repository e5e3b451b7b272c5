package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cardwise/internal/augment"
	"cardwise/internal/common"
	"cardwise/internal/limits"
	"cardwise/internal/model"
	"cardwise/internal/service"
)

// --- Request / Response DTOs ---

type RecommendRequest struct {
	Query string `json:"query"`
	AsOf  string `json:"as_of,omitempty"` // optional, RFC3339
}

type RecommendResponse struct {
	Recommendation model.RecommendationResponse `json:"recommendation"`
	Narrative      string                       `json:"narrative,omitempty"`
}

type SpendRequest struct {
	CardID   string  `json:"card_id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	AsOf     string  `json:"as_of,omitempty"` // optional, RFC3339
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the recommendation endpoints.
type Handler struct {
	store    service.Storage
	svc      *augment.Service
	notifier service.Notifier
	tracker  *limits.Tracker
}

// NewHandler creates the HTTP handler with its collaborators.
func NewHandler(store service.Storage, svc *augment.Service, notifier service.Notifier) *Handler {
	return &Handler{
		store:    store,
		svc:      svc,
		notifier: notifier,
		tracker:  limits.NewTracker(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Recommend runs a free-text query against the active card snapshot.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be RFC3339")
		return
	}

	ctx := r.Context()

	cards, err := h.store.GetActiveCards(ctx)
	if err != nil {
		slog.Error("Failed to load cards", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load cards")
		return
	}

	prefs, err := h.store.GetPreferences(ctx)
	if err != nil {
		slog.Error("Failed to load preferences", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	resp, narrative, err := h.svc.Recommend(ctx, req.Query, cards, prefs, asOf)
	switch {
	case errors.Is(err, common.ErrNoCardsAvailable):
		writeError(w, http.StatusConflict, "no cards available")
		return
	case errors.Is(err, common.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("Recommendation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "recommendation failed")
		return
	}

	// Notification is the caller's job, driven by the statuses the core
	// exposes. Remaining amounts are computed at the same asOf the scores
	// were.
	h.notifyFromScores(r, resp, asOf)

	writeJSON(w, http.StatusOK, RecommendResponse{
		Recommendation: resp,
		Narrative:      narrative,
	})
}

func (h *Handler) notifyFromScores(r *http.Request, resp model.RecommendationResponse, asOf time.Time) {
	for _, cs := range []*model.CardScore{resp.Primary, resp.Secondary} {
		if cs == nil || cs.LimitStatus == model.LimitAvailable {
			continue
		}
		remaining := h.tracker.Remaining(cs.Card, cs.Category, asOf)
		if err := h.notifier.NotifyLimitStatus(r.Context(), cs.Card, cs.Category, cs.LimitStatus, remaining); err != nil {
			slog.Warn("Failed to send limit notification", "card", cs.Card.Name, "error", err)
		}
	}
}

// ListCards returns every stored card.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.store.GetCards(r.Context())
	if err != nil {
		slog.Error("Failed to list cards", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// CreateCard stores a card definition.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var card model.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.SaveCard(r.Context(), &card); err != nil {
		slog.Error("Failed to save card", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save card")
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// RecordSpending applies a purchase through the storage write path.
func (h *Handler) RecordSpending(w http.ResponseWriter, r *http.Request) {
	var req SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CardID == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "card_id and category are required")
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be RFC3339")
		return
	}

	err = h.store.RecordSpending(r.Context(), req.CardID, model.Category(req.Category), req.Amount, asOf)
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "card not found")
		return
	case err != nil:
		slog.Error("Failed to record spending", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record spending")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

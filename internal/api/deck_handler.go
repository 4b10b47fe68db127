package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/leitner/internal/api/middleware"
	"github.com/phrazzld/leitner/internal/api/shared"
	"github.com/phrazzld/leitner/internal/domain"
	"github.com/phrazzld/leitner/internal/domain/leitner"
	"github.com/phrazzld/leitner/internal/platform/logger"
	"github.com/phrazzld/leitner/internal/service/review"
)

// DeckHandler serves the deck routes on top of a review.Service.
type DeckHandler struct {
	reviews review.Service
	logger  *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(reviews review.Service, logger *slog.Logger) *DeckHandler {
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "deck_handler")),
	}
}

// respondServiceError maps err to a status and a client-safe message.
func (h *DeckHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// ListDecks handles GET /api/decks. A deck-scoped token only sees its decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	names, err := h.reviews.Decks(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	visible := make([]string, 0, len(names))
	claims, scoped := middleware.GetClaims(r)
	for _, name := range names {
		if !scoped || claims.CanAccess(name) {
			visible = append(visible, name)
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DecksResponse{Decks: visible})
}

// AddCard handles POST /api/decks/{deck}/cards.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req AddCardRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card := domain.Card{Front: req.Front, Back: req.Back, Hint: req.Hint, Tags: req.Tags}
	placement, err := h.reviews.AddCard(r.Context(), chi.URLParam(r, "deck"), card)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCardResponse(*placement))
}

// DueCards handles GET /api/decks/{deck}/due?day=N.
func (h *DeckHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("day")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter day is required")
		return
	}
	day, err := strconv.Atoi(raw)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Day must be a non-negative integer", err)
		return
	}

	deck := chi.URLParam(r, "deck")
	placements, err := h.reviews.DueCards(r.Context(), deck, day)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	resp := DueCardsResponse{Deck: deck, Day: day, Cards: make([]CardResponse, 0, len(placements))}
	for _, p := range placements {
		resp.Cards = append(resp.Cards, NewCardResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SubmitReview handles POST /api/decks/{deck}/reviews.
func (h *DeckHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	fp, err := domain.ParseFingerprint(req.Fingerprint)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	difficulty, err := domain.ParseDifficulty(req.Difficulty)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	event, err := h.reviews.SubmitReview(r.Context(), chi.URLParam(r, "deck"), fp, difficulty, *req.Day)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewReviewEventResponse(*event))
}

// History handles GET /api/decks/{deck}/reviews.
func (h *DeckHandler) History(w http.ResponseWriter, r *http.Request) {
	deck := chi.URLParam(r, "deck")
	events, err := h.reviews.History(r.Context(), deck)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	resp := HistoryResponse{Deck: deck, Reviews: make([]ReviewEventResponse, 0, len(events))}
	for _, ev := range events {
		resp.Reviews = append(resp.Reviews, NewReviewEventResponse(ev))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Progress handles GET /api/decks/{deck}/progress.
func (h *DeckHandler) Progress(w http.ResponseWriter, r *http.Request) {
	deck := chi.URLParam(r, "deck")
	progress, err := h.reviews.Progress(r.Context(), deck)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	bucketRange, ok, err := h.reviews.BucketRange(r.Context(), deck)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	var rangePtr *leitner.BucketRange
	if ok {
		rangePtr = &bucketRange
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewProgressResponse(deck, progress, rangePtr))
}

// Hint handles GET /api/decks/{deck}/cards/{fingerprint}/hint.
func (h *DeckHandler) Hint(w http.ResponseWriter, r *http.Request) {
	fp, err := domain.ParseFingerprint(chi.URLParam(r, "fingerprint"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	hint, err := h.reviews.Hint(r.Context(), chi.URLParam(r, "deck"), fp)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HintResponse{Fingerprint: fp.String(), Hint: hint})
}

// Rebuild handles POST /api/decks/{deck}/rebuild.
func (h *DeckHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	deck := chi.URLParam(r, "deck")
	logger.FromContextOrDefault(r.Context(), h.logger).Info("rebuilding deck from history",
		slog.String("deck", deck))

	progress, err := h.reviews.Rebuild(r.Context(), deck)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProgressResponse(deck, progress, nil))
}

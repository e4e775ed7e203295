package ledgerhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ledgerservice "github.com/scorepad-app/scorepad/app/modules/ledger/application"

	"github.com/scorepad-app/scorepad/app/modules/ledger"
)

// Handlers exposes the score sheet over JSON HTTP. The service is injected
// rather than reached through a package global so the routes can be tested
// in isolation.
type Handlers struct {
	svc    *ledgerservice.Service
	logger *slog.Logger
}

func New(svc *ledgerservice.Service, logger *slog.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

// Routes wires the ledger endpoints onto a fresh router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetLedger)
	r.Get("/standings", h.GetStandings)
	r.Get("/progression", h.GetProgression)
	r.Post("/players", h.AddPlayer)
	r.Delete("/players/{playerID}", h.RemovePlayer)
	r.Patch("/players/{playerID}", h.RenamePlayer)
	r.Put("/players/{playerID}/scores/{round}", h.SetScore)
	r.Post("/rounds", h.AddRound)
	r.Delete("/rounds/{round}", h.RemoveRound)
	r.Put("/title", h.RenameSession)
	r.Post("/reset", h.Reset)
	return r
}

// PlayerView is a player row plus its derived total.
type PlayerView struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	Scores []*float64 `json:"scores"`
	Total  float64    `json:"total"`
}

// LedgerView is the full sheet as the UI consumes it.
type LedgerView struct {
	Title      string       `json:"title"`
	RoundCount int          `json:"roundCount"`
	Players    []PlayerView `json:"players"`
}

// GetLedger returns the whole sheet in insertion order.
func (h *Handlers) GetLedger(w http.ResponseWriter, r *http.Request) {
	var view LedgerView
	h.svc.Read(func(l *ledger.Ledger) {
		view.Title = l.Title()
		view.RoundCount = l.RoundCount()
		view.Players = make([]PlayerView, 0, len(l.Players()))
		for _, p := range l.Players() {
			view.Players = append(view.Players, PlayerView{
				ID:     p.ID,
				Name:   p.Name,
				Scores: p.Scores,
				Total:  p.Total(),
			})
		}
	})
	writeJSON(w, http.StatusOK, view)
}

// GetStandings returns the ranked breakdown.
func (h *Handlers) GetStandings(w http.ResponseWriter, r *http.Request) {
	var standings []ledger.Standing
	h.svc.Read(func(l *ledger.Ledger) { standings = l.Standings() })
	writeJSON(w, http.StatusOK, standings)
}

// ProgressionView is one player's cumulative chart line.
type ProgressionView struct {
	ID     uuid.UUID                 `json:"id"`
	Name   string                    `json:"name"`
	Points []ledger.ProgressionPoint `json:"points"`
}

// GetProgression returns every player's running-total line plus the axis
// bounds framing them.
func (h *Handlers) GetProgression(w http.ResponseWriter, r *http.Request) {
	var resp struct {
		Axis    ledger.AxisBounds `json:"axis"`
		Players []ProgressionView `json:"players"`
	}
	h.svc.Read(func(l *ledger.Ledger) {
		resp.Axis = l.Axis()
		for _, p := range l.Players() {
			resp.Players = append(resp.Players, ProgressionView{
				ID:     p.ID,
				Name:   p.Name,
				Points: p.Progression(),
			})
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

// AddPlayer appends a new player row.
func (h *Handlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	p := h.svc.AddPlayer(r.Context())
	writeJSON(w, http.StatusCreated, p)
}

// RemovePlayer deletes a player row.
func (h *Handlers) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemovePlayer(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenamePlayerDto carries the new display name; empty is allowed.
type RenamePlayerDto struct {
	Name string `json:"name"`
}

// RenamePlayer replaces a player's display name.
func (h *Handlers) RenamePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	var input RenamePlayerDto
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.svc.RenamePlayer(r.Context(), id, input.Name); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetScoreDto carries the raw cell input. Anything non-numeric (including
// the empty string) blanks the slot.
type SetScoreDto struct {
	Value string `json:"value"`
}

// SetScoreResponse echoes the committed cell; Value is null for absent.
type SetScoreResponse struct {
	Value *float64 `json:"value"`
}

// SetScore records one cell of the sheet.
func (h *Handlers) SetScore(w http.ResponseWriter, r *http.Request) {
	id, ok := playerID(w, r)
	if !ok {
		return
	}
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid round index: %v", err), http.StatusBadRequest)
		return
	}
	var input SetScoreDto
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}

	value, err := h.svc.SetScore(r.Context(), id, round, input.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SetScoreResponse{Value: value})
}

// AddRoundResponse reports the sheet width after the mutation.
type AddRoundResponse struct {
	RoundCount int `json:"roundCount"`
}

// AddRound widens the sheet by one round. On an empty sheet this
// bootstraps the session with a first player instead.
func (h *Handlers) AddRound(w http.ResponseWriter, r *http.Request) {
	count := h.svc.AddRound(r.Context())
	writeJSON(w, http.StatusOK, AddRoundResponse{RoundCount: count})
}

// RemoveRound deletes one round column.
func (h *Handlers) RemoveRound(w http.ResponseWriter, r *http.Request) {
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid round index: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.svc.RemoveRound(r.Context(), round); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionDto carries a session title.
type SessionDto struct {
	Title string `json:"title"`
}

// RenameSession relabels the session without touching players.
func (h *Handlers) RenameSession(w http.ResponseWriter, r *http.Request) {
	var input SessionDto
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}
	h.svc.Rename(r.Context(), input.Title)
	w.WriteHeader(http.StatusNoContent)
}

// Reset discards all players and starts over under the supplied title.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	var input SessionDto
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request body: %v", err), http.StatusBadRequest)
		return
	}
	h.svc.Reset(r.Context(), input.Title)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrPlayerNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrRoundOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("Ledger mutation failed", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func playerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid player ID: %v", err), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type ElectionHandler struct {
	service ports.ElectionService
	loc     *time.Location
	logger  *slog.Logger
}

func NewElectionHandler(service ports.ElectionService, loc *time.Location, logger *slog.Logger) *ElectionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ElectionHandler{
		service: service,
		loc:     loc,
		logger:  resolveLogger(logger),
	}
}

type declarationResponse struct {
	Declared    bool          `json:"declared"`
	Winner      domain.Winner `json:"winner,omitempty"`
	IsAutomatic bool          `json:"is_automatic"`
	DeclaredAt  *time.Time    `json:"declared_at,omitempty"`
}

type resultsResponse struct {
	Tally       domain.Tally        `json:"tally"`
	TotalVotes  int                 `json:"total_votes"`
	Leader      domain.Winner       `json:"leader"`
	Declaration declarationResponse `json:"declaration"`
	Window      windowResponse      `json:"window"`
}

type declareRequest struct {
	Winner string `json:"winner"`
}

func (h *ElectionHandler) newDeclarationResponse(d domain.Declaration) declarationResponse {
	return declarationResponse{
		Declared:    d.Declared(),
		Winner:      d.Winner,
		IsAutomatic: d.IsAutomatic,
		DeclaredAt:  inLocation(d.DeclaredAt, h.loc),
	}
}

// GetDeclaration is public; it triggers a pending auto-declaration first.
func (h *ElectionHandler) GetDeclaration(w http.ResponseWriter, r *http.Request) {
	declaration, err := h.service.Declaration(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.newDeclarationResponse(declaration))
}

func (h *ElectionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsResponse{
		Tally:       results.Tally,
		TotalVotes:  results.TotalVotes,
		Leader:      results.Leader,
		Declaration: h.newDeclarationResponse(results.Declaration),
		Window:      newWindowResponse(results.Window, h.loc),
	})
}

func (h *ElectionHandler) DeclareWinner(w http.ResponseWriter, r *http.Request) {
	var req declareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	winner, err := domain.ParseWinner(req.Winner)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	declaration, err := h.service.DeclareWinner(r.Context(), winner)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.newDeclarationResponse(declaration))
}

func (h *ElectionHandler) ResetDeclaration(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetDeclaration(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ElectionHandler) ResetElection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ResetElection(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

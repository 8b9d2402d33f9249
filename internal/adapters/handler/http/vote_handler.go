package http

import (
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type VoteHandler struct {
	service ports.BallotService
	logger  *slog.Logger
}

func NewVoteHandler(service ports.BallotService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{
		service: service,
		logger:  resolveLogger(logger),
	}
}

type voteRequest struct {
	RegisterNumber string `json:"register_number"`
	Candidate      string `json:"candidate"`
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	candidate, err := domain.ParseCandidate(req.Candidate)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	vote, err := h.service.CastVote(r.Context(), req.RegisterNumber, candidate)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, vote)
}

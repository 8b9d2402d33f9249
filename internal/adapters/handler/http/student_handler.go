package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type StudentHandler struct {
	service ports.BallotService
	logger  *slog.Logger
}

func NewStudentHandler(service ports.BallotService, logger *slog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  resolveLogger(logger),
	}
}

type registerRequest struct {
	RegisterNumber string `json:"register_number"`
	Name           string `json:"name"`
}

type studentStatusResponse struct {
	RegisterNumber string          `json:"register_number"`
	Registered     bool            `json:"registered"`
	HasVoted       bool            `json:"has_voted"`
	Student        *domain.Student `json:"student,omitempty"`
}

type rosterResponse struct {
	Students   []domain.Student `json:"students"`
	TotalCount int              `json:"total_count"`
	VoteCount  int              `json:"vote_count"`
}

type votersResponse struct {
	Voters     []domain.VoterRecord `json:"voters"`
	TotalCount int                  `json:"total_count"`
}

func (h *StudentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.service.Register(r.Context(), req.RegisterNumber, req.Name)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	registerNumber := domain.NormalizeRegisterNumber(chi.URLParam(r, "registerNumber"))
	if registerNumber == "" {
		writeError(w, http.StatusBadRequest, "missing register number")
		return
	}

	student, err := h.service.GetStudent(r.Context(), registerNumber)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	hasVoted, err := h.service.HasVoted(r.Context(), registerNumber)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, studentStatusResponse{
		RegisterNumber: registerNumber,
		Registered:     student != nil,
		HasVoted:       hasVoted,
		Student:        student,
	})
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.ListStudents(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	votes, err := h.service.VoteCount(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{
		Students:   students,
		TotalCount: len(students),
		VoteCount:  votes,
	})
}

func (h *StudentHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.service.ListVoters(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, votersResponse{
		Voters:     voters,
		TotalCount: len(voters),
	})
}

func (h *StudentHandler) DeleteAllStudents(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAllStudents(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

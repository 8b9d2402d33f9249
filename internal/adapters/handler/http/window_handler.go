package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

// localLayouts are accepted for schedule times without an offset, which are
// read in the election timezone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type WindowHandler struct {
	service ports.WindowService
	loc     *time.Location
	logger  *slog.Logger
}

func NewWindowHandler(service ports.WindowService, loc *time.Location, logger *slog.Logger) *WindowHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &WindowHandler{
		service: service,
		loc:     loc,
		logger:  resolveLogger(logger),
	}
}

type windowResponse struct {
	Status               domain.WindowStatus `json:"status"`
	CanVote              bool                `json:"can_vote"`
	TimeRemainingSeconds *int64              `json:"time_remaining_seconds,omitempty"`
	TimeRemaining        string              `json:"time_remaining,omitempty"`
	StartTime            *time.Time          `json:"start_time,omitempty"`
	EndTime              *time.Time          `json:"end_time,omitempty"`
}

type scheduleResponse struct {
	Schedule *domain.Schedule `json:"schedule"`
	Window   windowResponse   `json:"window"`
}

type setScheduleRequest struct {
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	AutoDeclareWinner bool   `json:"auto_declare_winner"`
}

type presetRequest struct {
	Minutes           int  `json:"minutes"`
	AutoDeclareWinner bool `json:"auto_declare_winner"`
}

type autoDeclareRequest struct {
	Enabled *bool `json:"enabled"`
}

func newWindowResponse(state domain.WindowState, loc *time.Location) windowResponse {
	resp := windowResponse{
		Status:    state.Status,
		CanVote:   state.CanVote,
		StartTime: inLocation(state.StartTime, loc),
		EndTime:   inLocation(state.EndTime, loc),
	}
	if state.TimeRemaining != nil {
		seconds := int64(*state.TimeRemaining / time.Second)
		resp.TimeRemainingSeconds = &seconds
		resp.TimeRemaining = domain.FormatRemaining(*state.TimeRemaining)
	}
	return resp
}

func inLocation(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	local := t.In(loc)
	return &local
}

func (h *WindowHandler) GetWindow(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newWindowResponse(state, h.loc))
}

func (h *WindowHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.Schedule(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.writeSchedule(w, r, http.StatusOK, schedule)
}

func (h *WindowHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req setScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := h.parseTime(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_time: "+err.Error())
		return
	}
	end, err := h.parseTime(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_time: "+err.Error())
		return
	}

	schedule, err := h.service.SetSchedule(r.Context(), ports.ScheduleInput{
		StartTime:         start,
		EndTime:           end,
		AutoDeclareWinner: req.AutoDeclareWinner,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.writeSchedule(w, r, http.StatusOK, schedule)
}

func (h *WindowHandler) OpenPreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "minutes must be positive")
		return
	}

	schedule, err := h.service.OpenFor(r.Context(), time.Duration(req.Minutes)*time.Minute, req.AutoDeclareWinner)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.writeSchedule(w, r, http.StatusOK, schedule)
}

func (h *WindowHandler) EnableNow(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.EnableNow(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.writeSchedule(w, r, http.StatusOK, schedule)
}

func (h *WindowHandler) Disable(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.Disable(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.writeSchedule(w, r, http.StatusOK, schedule)
}

func (h *WindowHandler) SetAutoDeclare(w http.ResponseWriter, r *http.Request) {
	var req autoDeclareRequest
	if err := decodeJSON(r, &req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	schedule, err := h.service.SetAutoDeclare(r.Context(), *req.Enabled)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	h.writeSchedule(w, r, http.StatusOK, schedule)
}

func (h *WindowHandler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WindowHandler) writeSchedule(w http.ResponseWriter, r *http.Request, status int, schedule *domain.Schedule) {
	state, err := h.service.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	if schedule != nil {
		local := *schedule
		local.StartTime = inLocation(schedule.StartTime, h.loc)
		local.EndTime = inLocation(schedule.EndTime, h.loc)
		local.CreatedAt = schedule.CreatedAt.In(h.loc)
		local.UpdatedAt = schedule.UpdatedAt.In(h.loc)
		schedule = &local
	}
	writeJSON(w, status, scheduleResponse{
		Schedule: schedule,
		Window:   newWindowResponse(state, h.loc),
	})
}

func (h *WindowHandler) parseTime(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, h.loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not a recognized timestamp", s)
}

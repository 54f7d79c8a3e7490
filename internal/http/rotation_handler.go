package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/seat-rotation/internal/application"
)

type rotationService interface {
	PlanRotation(ctx context.Context, groupID string) (application.RotationPlan, error)
	CommitRotation(ctx context.Context, params application.CommitRotationParams) (application.Arrangement, error)
	GetArrangement(ctx context.Context, groupID, date string) (application.Arrangement, error)
	ListArrangements(ctx context.Context, groupID string) ([]application.Arrangement, error)
	FairnessStats(ctx context.Context, groupID string) (application.FairnessStats, error)
}

type RotationHandler struct {
	service   rotationService
	responder responder
	logger    *slog.Logger
}

func NewRotationHandler(service rotationService, logger *slog.Logger) *RotationHandler {
	base := defaultLogger(logger)
	return &RotationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RotationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RotationHandler", operation, attrs...)
}

func (h *RotationHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	logger := h.log(r.Context(), "Plan", "group_id", groupID)
	plan, err := h.service.PlanRotation(r.Context(), groupID)
	if err != nil {
		logger.ErrorContext(r.Context(), "rotation planning failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("date", plan.Date).InfoContext(r.Context(), "rotation planned")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, planResponse{Plan: toPlanDTO(plan)})
}

func (h *RotationHandler) Commit(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	// The body is optional; an empty body commits whatever the fresh plan
	// targets, while {"date": ...} pins the commit to a confirmed proposal.
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log(r.Context(), "Commit", "group_id", groupID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode commit request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Commit", "group_id", groupID)
	arrangement, err := h.service.CommitRotation(r.Context(), application.CommitRotationParams{
		GroupID: groupID,
		Date:    req.Date,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "rotation commit failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("date", arrangement.Date).InfoContext(r.Context(), "rotation committed")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, arrangementResponse{Arrangement: toArrangementDTO(arrangement)})
}

func (h *RotationHandler) GetArrangement(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}
	date, ok := DateFromContext(r.Context())
	if !ok || strings.TrimSpace(date) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	arrangement, err := h.service.GetArrangement(r.Context(), groupID, date)
	if err != nil {
		h.log(r.Context(), "GetArrangement", "group_id", groupID, "date", date).ErrorContext(r.Context(), "arrangement lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, arrangementResponse{Arrangement: toArrangementDTO(arrangement)})
}

func (h *RotationHandler) ListArrangements(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	logger := h.log(r.Context(), "ListArrangements", "group_id", groupID)
	arrangements, err := h.service.ListArrangements(r.Context(), groupID)
	if err != nil {
		logger.ErrorContext(r.Context(), "arrangement list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(arrangements)).InfoContext(r.Context(), "arrangements listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listArrangementsResponse{Arrangements: toArrangementDTOs(arrangements)})
}

func (h *RotationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	stats, err := h.service.FairnessStats(r.Context(), groupID)
	if err != nil {
		h.log(r.Context(), "Stats", "group_id", groupID).ErrorContext(r.Context(), "stats failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statsResponse{
		Occupancy: stats.Occupancy,
		Totals:    stats.Totals,
		Records:   stats.Records,
	})
}

type commitRequest struct {
	Date string `json:"date"`
}

type planResponse struct {
	Plan planDTO `json:"plan"`
}

type planDTO struct {
	Date      string            `json:"date"`
	Seats     map[string]string `json:"seats"`
	Reasoning string            `json:"reasoning"`
	Warnings  []warningDTO      `json:"warnings,omitempty"`
}

type warningDTO struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

func toPlanDTO(plan application.RotationPlan) planDTO {
	warnings := make([]warningDTO, 0, len(plan.Warnings))
	for _, warning := range plan.Warnings {
		warnings = append(warnings, warningDTO{
			Field:   warning.Field,
			Value:   warning.Value,
			Message: warning.Message,
		})
	}
	if len(warnings) == 0 {
		warnings = nil
	}
	return planDTO{
		Date:      plan.Date,
		Seats:     plan.Seats,
		Reasoning: plan.Reasoning,
		Warnings:  warnings,
	}
}

type arrangementResponse struct {
	Arrangement arrangementDTO `json:"arrangement"`
}

type listArrangementsResponse struct {
	Arrangements []arrangementDTO `json:"arrangements"`
}

type arrangementDTO struct {
	Date        string            `json:"date"`
	Seats       map[string]string `json:"seats"`
	Reasoning   string            `json:"reasoning"`
	CommittedAt string            `json:"committed_at"`
}

func toArrangementDTO(arrangement application.Arrangement) arrangementDTO {
	return arrangementDTO{
		Date:        arrangement.Date,
		Seats:       arrangement.Seats,
		Reasoning:   arrangement.Reasoning,
		CommittedAt: arrangement.CommittedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toArrangementDTOs(arrangements []application.Arrangement) []arrangementDTO {
	if len(arrangements) == 0 {
		return nil
	}
	out := make([]arrangementDTO, 0, len(arrangements))
	for _, arrangement := range arrangements {
		out = append(out, toArrangementDTO(arrangement))
	}
	return out
}

type statsResponse struct {
	Occupancy map[string]map[string]int `json:"occupancy"`
	Totals    map[string]int            `json:"totals"`
	Records   int                       `json:"records"`
}

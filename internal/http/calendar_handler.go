package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/seat-rotation/internal/application"
)

type calendarService interface {
	ReplaceNonWorkingDays(ctx context.Context, groupID string, dates []string) error
	ListNonWorkingDays(ctx context.Context, groupID string) ([]string, error)
	SetSpecialEvent(ctx context.Context, params application.SetSpecialEventParams) error
	DeleteSpecialEvent(ctx context.Context, groupID, date string) error
	ListSpecialEvents(ctx context.Context, groupID string) ([]application.SpecialEvent, error)
}

type CalendarHandler struct {
	service   calendarService
	plans     planInvalidator
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(service calendarService, plans planInvalidator, logger *slog.Logger) *CalendarHandler {
	base := defaultLogger(logger)
	return &CalendarHandler{service: service, plans: plans, responder: newResponder(base), logger: base}
}

func (h *CalendarHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CalendarHandler", operation, attrs...)
}

func (h *CalendarHandler) invalidatePlan(groupID string) {
	if h.plans != nil {
		h.plans.InvalidatePlan(groupID)
	}
}

func (h *CalendarHandler) GetNonWorkingDays(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	dates, err := h.service.ListNonWorkingDays(r.Context(), groupID)
	if err != nil {
		h.log(r.Context(), "GetNonWorkingDays", "group_id", groupID).ErrorContext(r.Context(), "non-working day list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, nonWorkingDaysResponse{Dates: dates})
}

func (h *CalendarHandler) PutNonWorkingDays(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	var req nonWorkingDaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "PutNonWorkingDays", "group_id", groupID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode non-working days", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "PutNonWorkingDays", "group_id", groupID)
	if err := h.service.ReplaceNonWorkingDays(r.Context(), groupID, req.Dates); err != nil {
		logger.ErrorContext(r.Context(), "non-working day replace failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.With("count", len(req.Dates)).InfoContext(r.Context(), "non-working days replaced")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	events, err := h.service.ListSpecialEvents(r.Context(), groupID)
	if err != nil {
		h.log(r.Context(), "ListEvents", "group_id", groupID).ErrorContext(r.Context(), "event list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: toEventDTOs(events)})
}

func (h *CalendarHandler) PutEvent(w http.ResponseWriter, r *http.Request) {
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

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "PutEvent", "group_id", groupID, "date", date, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode event request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "PutEvent", "group_id", groupID, "date", date)
	err := h.service.SetSpecialEvent(r.Context(), application.SetSpecialEventParams{
		GroupID:     groupID,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "event upsert failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.InfoContext(r.Context(), "event stored")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
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

	logger := h.log(r.Context(), "DeleteEvent", "group_id", groupID, "date", date)
	if err := h.service.DeleteSpecialEvent(r.Context(), groupID, date); err != nil {
		logger.ErrorContext(r.Context(), "event delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.InfoContext(r.Context(), "event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type nonWorkingDaysRequest struct {
	Dates []string `json:"dates"`
}

type nonWorkingDaysResponse struct {
	Dates []string `json:"dates"`
}

type eventRequest struct {
	Description string `json:"description"`
}

type listEventsResponse struct {
	Events []eventDTO `json:"events"`
}

type eventDTO struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

func toEventDTOs(events []application.SpecialEvent) []eventDTO {
	if len(events) == 0 {
		return nil
	}
	out := make([]eventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, eventDTO{Date: event.Date, Description: event.Description})
	}
	return out
}

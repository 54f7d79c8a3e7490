package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/seat-rotation/internal/application"
)

type groupService interface {
	CreateGroup(ctx context.Context, params application.CreateGroupParams) (application.Group, error)
	GetGroup(ctx context.Context, groupID string) (application.Group, error)
	ListGroups(ctx context.Context) ([]application.Group, error)
	UpdateGroup(ctx context.Context, params application.UpdateGroupParams) (application.Group, error)
	DeleteGroup(ctx context.Context, groupID string) error
	JoinGroup(ctx context.Context, params application.JoinGroupParams) (application.Member, error)
	AddMember(ctx context.Context, params application.AddMemberParams) (application.Member, error)
	RemoveMember(ctx context.Context, groupID, memberID string) error
	ListMembers(ctx context.Context, groupID string) ([]application.Member, error)
}

// planInvalidator lets write handlers drop a cached rotation plan after the
// group's data changed.
type planInvalidator interface {
	InvalidatePlan(groupID string)
}

type GroupHandler struct {
	service   groupService
	plans     planInvalidator
	responder responder
	logger    *slog.Logger
}

func NewGroupHandler(service groupService, plans planInvalidator, logger *slog.Logger) *GroupHandler {
	base := defaultLogger(logger)
	return &GroupHandler{service: service, plans: plans, responder: newResponder(base), logger: base}
}

func (h *GroupHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "GroupHandler", operation, attrs...)
}

func (h *GroupHandler) invalidatePlan(groupID string) {
	if h.plans != nil {
		h.plans.InvalidatePlan(groupID)
	}
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode group request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create")

	group, err := h.service.CreateGroup(r.Context(), application.CreateGroupParams{Input: req.toInput()})
	if err != nil {
		logger.ErrorContext(r.Context(), "group creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("group_id", group.ID).InfoContext(r.Context(), "group created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, groupResponse{Group: toGroupDTO(group)})
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	group, err := h.service.GetGroup(r.Context(), groupID)
	if err != nil {
		h.log(r.Context(), "Get", "group_id", groupID).ErrorContext(r.Context(), "group lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, groupResponse{Group: toGroupDTO(group)})
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	groups, err := h.service.ListGroups(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "group list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(groups)).InfoContext(r.Context(), "groups listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listGroupsResponse{Groups: toGroupDTOs(groups)})
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "group_id", groupID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode group update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "group_id", groupID)

	group, err := h.service.UpdateGroup(r.Context(), application.UpdateGroupParams{
		GroupID: groupID,
		Input:   req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "group update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.InfoContext(r.Context(), "group updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, groupResponse{Group: toGroupDTO(group)})
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	logger := h.log(r.Context(), "Delete", "group_id", groupID)
	if err := h.service.DeleteGroup(r.Context(), groupID); err != nil {
		logger.ErrorContext(r.Context(), "group delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.InfoContext(r.Context(), "group deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Join", "group_id", groupID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode join request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Join", "group_id", groupID)

	member, err := h.service.JoinGroup(r.Context(), application.JoinGroupParams{
		GroupID:     groupID,
		JoinCode:    req.JoinCode,
		MemberID:    req.MemberID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "join failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.With("member_id", member.ID).InfoContext(r.Context(), "member joined")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, memberResponse{Member: toMemberDTO(member)})
}

func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	members, err := h.service.ListMembers(r.Context(), groupID)
	if err != nil {
		h.log(r.Context(), "ListMembers", "group_id", groupID).ErrorContext(r.Context(), "member list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMembersResponse{Members: toMemberDTOs(members)})
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "AddMember", "group_id", groupID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode member request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "AddMember", "group_id", groupID)

	member, err := h.service.AddMember(r.Context(), application.AddMemberParams{
		GroupID: groupID,
		Input: application.MemberInput{
			ID:          req.ID,
			DisplayName: req.DisplayName,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "member add failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.With("member_id", member.ID).InfoContext(r.Context(), "member added")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, memberResponse{Member: toMemberDTO(member)})
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	groupID, ok := GroupIDFromContext(r.Context())
	if !ok || strings.TrimSpace(groupID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGroupID)
		return
	}
	memberID, ok := MemberIDFromContext(r.Context())
	if !ok || strings.TrimSpace(memberID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMemberID)
		return
	}

	logger := h.log(r.Context(), "RemoveMember", "group_id", groupID, "member_id", memberID)
	if err := h.service.RemoveMember(r.Context(), groupID, memberID); err != nil {
		logger.ErrorContext(r.Context(), "member remove failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.invalidatePlan(groupID)
	logger.InfoContext(r.Context(), "member removed")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type groupRequest struct {
	Name     string   `json:"name"`
	JoinCode string   `json:"join_code"`
	Seats    []string `json:"seats"`
}

func (r groupRequest) toInput() application.GroupInput {
	return application.GroupInput{
		Name:     r.Name,
		JoinCode: r.JoinCode,
		Seats:    r.Seats,
	}
}

type joinRequest struct {
	JoinCode    string `json:"join_code"`
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
}

type memberRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type groupResponse struct {
	Group groupDTO `json:"group"`
}

type listGroupsResponse struct {
	Groups []groupDTO `json:"groups"`
}

type groupDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Seats     []string `json:"seats"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toGroupDTO(group application.Group) groupDTO {
	return groupDTO{
		ID:        group.ID,
		Name:      group.Name,
		Seats:     group.Seats,
		CreatedAt: group.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: group.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toGroupDTOs(groups []application.Group) []groupDTO {
	if len(groups) == 0 {
		return nil
	}
	out := make([]groupDTO, 0, len(groups))
	for _, group := range groups {
		out = append(out, toGroupDTO(group))
	}
	return out
}

type memberResponse struct {
	Member memberDTO `json:"member"`
}

type listMembersResponse struct {
	Members []memberDTO `json:"members"`
}

type memberDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	JoinedAt    string `json:"joined_at"`
}

func toMemberDTO(member application.Member) memberDTO {
	return memberDTO{
		ID:          member.ID,
		DisplayName: member.DisplayName,
		JoinedAt:    member.JoinedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toMemberDTOs(members []application.Member) []memberDTO {
	if len(members) == 0 {
		return nil
	}
	out := make([]memberDTO, 0, len(members))
	for _, member := range members {
		out = append(out, toMemberDTO(member))
	}
	return out
}

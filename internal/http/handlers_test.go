package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/seat-rotation/internal/application"
)

type groupServiceStub struct {
	group     application.Group
	groups    []application.Group
	member    application.Member
	members   []application.Member
	err       error
	lastJoin  application.JoinGroupParams
	deletedID string
}

func (s *groupServiceStub) CreateGroup(ctx context.Context, params application.CreateGroupParams) (application.Group, error) {
	return s.group, s.err
}

func (s *groupServiceStub) GetGroup(ctx context.Context, groupID string) (application.Group, error) {
	return s.group, s.err
}

func (s *groupServiceStub) ListGroups(ctx context.Context) ([]application.Group, error) {
	return s.groups, s.err
}

func (s *groupServiceStub) UpdateGroup(ctx context.Context, params application.UpdateGroupParams) (application.Group, error) {
	return s.group, s.err
}

func (s *groupServiceStub) DeleteGroup(ctx context.Context, groupID string) error {
	s.deletedID = groupID
	return s.err
}

func (s *groupServiceStub) JoinGroup(ctx context.Context, params application.JoinGroupParams) (application.Member, error) {
	s.lastJoin = params
	return s.member, s.err
}

func (s *groupServiceStub) AddMember(ctx context.Context, params application.AddMemberParams) (application.Member, error) {
	return s.member, s.err
}

func (s *groupServiceStub) RemoveMember(ctx context.Context, groupID, memberID string) error {
	return s.err
}

func (s *groupServiceStub) ListMembers(ctx context.Context, groupID string) ([]application.Member, error) {
	return s.members, s.err
}

type calendarServiceStub struct {
	dates  []string
	events []application.SpecialEvent
	err    error

	replaced []string
}

func (s *calendarServiceStub) ReplaceNonWorkingDays(ctx context.Context, groupID string, dates []string) error {
	s.replaced = dates
	return s.err
}

func (s *calendarServiceStub) ListNonWorkingDays(ctx context.Context, groupID string) ([]string, error) {
	return s.dates, s.err
}

func (s *calendarServiceStub) SetSpecialEvent(ctx context.Context, params application.SetSpecialEventParams) error {
	return s.err
}

func (s *calendarServiceStub) DeleteSpecialEvent(ctx context.Context, groupID, date string) error {
	return s.err
}

func (s *calendarServiceStub) ListSpecialEvents(ctx context.Context, groupID string) ([]application.SpecialEvent, error) {
	return s.events, s.err
}

type rotationServiceStub struct {
	plan         application.RotationPlan
	arrangement  application.Arrangement
	arrangements []application.Arrangement
	stats        application.FairnessStats
	err          error

	lastCommit application.CommitRotationParams
}

func (s *rotationServiceStub) PlanRotation(ctx context.Context, groupID string) (application.RotationPlan, error) {
	return s.plan, s.err
}

func (s *rotationServiceStub) CommitRotation(ctx context.Context, params application.CommitRotationParams) (application.Arrangement, error) {
	s.lastCommit = params
	return s.arrangement, s.err
}

func (s *rotationServiceStub) GetArrangement(ctx context.Context, groupID, date string) (application.Arrangement, error) {
	return s.arrangement, s.err
}

func (s *rotationServiceStub) ListArrangements(ctx context.Context, groupID string) ([]application.Arrangement, error) {
	return s.arrangements, s.err
}

func (s *rotationServiceStub) FairnessStats(ctx context.Context, groupID string) (application.FairnessStats, error) {
	return s.stats, s.err
}

type invalidatorStub struct {
	invalidated []string
}

func (s *invalidatorStub) InvalidatePlan(groupID string) {
	s.invalidated = append(s.invalidated, groupID)
}

func newTestRouter(groups *groupServiceStub, cal *calendarServiceStub, rot *rotationServiceStub, inv *invalidatorStub) http.Handler {
	return NewRouter(RouterConfig{
		Groups:   NewGroupHandler(groups, inv, nil),
		Calendar: NewCalendarHandler(cal, inv, nil),
		Rotation: NewRotationHandler(rot, nil),
	})
}

func TestGroupHandlers(t *testing.T) {
	t.Run("POST /groups creates a group", func(t *testing.T) {
		groups := &groupServiceStub{group: application.Group{
			ID:    "group-1",
			Name:  "Standup",
			Seats: []string{"S1", "S2"},
		}}
		router := newTestRouter(groups, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		body := `{"name":"Standup","join_code":"secret","seats":["S1","S2"]}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Group struct {
				ID string `json:"id"`
			} `json:"group"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Group.ID != "group-1" {
			t.Fatalf("expected group-1, got %q", resp.Group.ID)
		}
	})

	t.Run("POST /groups rejects a malformed body", func(t *testing.T) {
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader("{not json")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("GET /groups/{id} maps ErrNotFound to 404", func(t *testing.T) {
		groups := &groupServiceStub{err: application.ErrNotFound}
		router := newTestRouter(groups, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/missing", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("POST /groups/{id}/join maps a wrong code to 403", func(t *testing.T) {
		groups := &groupServiceStub{err: application.ErrInvalidJoinCode}
		router := newTestRouter(groups, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		body := `{"join_code":"wrong","display_name":"Alice"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/group-1/join", strings.NewReader(body)))

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		var resp struct {
			ErrorCode string `json:"error_code"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ErrorCode != "JOIN_CODE_REJECTED" {
			t.Fatalf("expected JOIN_CODE_REJECTED, got %q", resp.ErrorCode)
		}
	})

	t.Run("POST /groups/{id}/join passes the path group to the service", func(t *testing.T) {
		groups := &groupServiceStub{member: application.Member{ID: "member-1", DisplayName: "Alice"}}
		inv := &invalidatorStub{}
		router := newTestRouter(groups, &calendarServiceStub{}, &rotationServiceStub{}, inv)

		body := `{"join_code":"secret","display_name":"Alice"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/group-1/join", strings.NewReader(body)))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if groups.lastJoin.GroupID != "group-1" {
			t.Fatalf("expected group-1 from the path, got %q", groups.lastJoin.GroupID)
		}
		if len(inv.invalidated) != 1 || inv.invalidated[0] != "group-1" {
			t.Fatalf("expected the cached plan to be invalidated, got %v", inv.invalidated)
		}
	})

	t.Run("DELETE /groups/{id}/members/{memberID} returns 204", func(t *testing.T) {
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/groups/group-1/members/member-1", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("unknown methods yield 405 with an Allow header", func(t *testing.T) {
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/groups", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
			t.Fatalf("expected Allow header to include POST, got %q", allow)
		}
	})
}

func TestCalendarHandlers(t *testing.T) {
	t.Run("PUT /groups/{id}/non-working-days forwards the date set", func(t *testing.T) {
		cal := &calendarServiceStub{}
		router := newTestRouter(&groupServiceStub{}, cal, &rotationServiceStub{}, &invalidatorStub{})

		body := `{"dates":["2025-12-25","2025-01-01"]}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/groups/group-1/non-working-days", strings.NewReader(body)))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(cal.replaced) != 2 {
			t.Fatalf("expected two dates to reach the service, got %v", cal.replaced)
		}
	})

	t.Run("PUT /groups/{id}/non-working-days maps validation failures to 422", func(t *testing.T) {
		vErr := &application.ValidationError{FieldErrors: map[string]string{"dates": "bad"}}
		cal := &calendarServiceStub{err: vErr}
		router := newTestRouter(&groupServiceStub{}, cal, &rotationServiceStub{}, &invalidatorStub{})

		body := `{"dates":["not-a-date"]}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/groups/group-1/non-working-days", strings.NewReader(body)))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Errors["dates"] == "" {
			t.Fatalf("expected a dates field error, got %v", resp.Errors)
		}
	})

	t.Run("PUT /groups/{id}/events/{date} stores the annotation", func(t *testing.T) {
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		body := `{"description":"Team offsite"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/groups/group-1/events/2025-03-03", strings.NewReader(body)))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestRotationHandlers(t *testing.T) {
	t.Run("GET /groups/{id}/rotation/next returns the plan", func(t *testing.T) {
		rot := &rotationServiceStub{plan: application.RotationPlan{
			GroupID:   "group-1",
			Date:      "2025-03-03",
			Seats:     map[string]string{"S1": "charlie"},
			Reasoning: "Rotated from the arrangement of 2025-02-28.",
			Warnings:  []application.PlanWarning{{Field: "history", Value: "garbled", Message: "record skipped"}},
		}}
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, rot, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/group-1/rotation/next", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Plan struct {
				Date     string            `json:"date"`
				Seats    map[string]string `json:"seats"`
				Warnings []struct {
					Field string `json:"field"`
				} `json:"warnings"`
			} `json:"plan"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Plan.Date != "2025-03-03" || resp.Plan.Seats["S1"] != "charlie" {
			t.Fatalf("unexpected plan payload: %+v", resp.Plan)
		}
		if len(resp.Plan.Warnings) != 1 || resp.Plan.Warnings[0].Field != "history" {
			t.Fatalf("expected the warning to be serialized, got %+v", resp.Plan.Warnings)
		}
	})

	t.Run("POST /groups/{id}/rotation/commit accepts an empty body", func(t *testing.T) {
		rot := &rotationServiceStub{arrangement: application.Arrangement{
			GroupID:     "group-1",
			Date:        "2025-03-03",
			Seats:       map[string]string{"S1": "charlie"},
			CommittedAt: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		}}
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, rot, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/group-1/rotation/commit", nil))

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if rot.lastCommit.GroupID != "group-1" || rot.lastCommit.Date != "" {
			t.Fatalf("expected an unpinned commit for group-1, got %+v", rot.lastCommit)
		}
	})

	t.Run("POST /groups/{id}/rotation/commit maps a lost race to 409", func(t *testing.T) {
		rot := &rotationServiceStub{err: application.ErrAlreadyExists}
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, rot, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/groups/group-1/rotation/commit", strings.NewReader(`{"date":"2025-03-03"}`)))

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("GET /groups/{id}/stats returns occupancy counts", func(t *testing.T) {
		rot := &rotationServiceStub{stats: application.FairnessStats{
			GroupID:   "group-1",
			Occupancy: map[string]map[string]int{"alice": {"S1": 2}},
			Totals:    map[string]int{"alice": 2},
			Records:   2,
		}}
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, rot, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/group-1/stats", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp statsResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Occupancy["alice"]["S1"] != 2 || resp.Records != 2 {
			t.Fatalf("unexpected stats payload: %+v", resp)
		}
	})

	t.Run("unknown rotation actions yield 404", func(t *testing.T) {
		router := newTestRouter(&groupServiceStub{}, &calendarServiceStub{}, &rotationServiceStub{}, &invalidatorStub{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/groups/group-1/rotation/previous", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

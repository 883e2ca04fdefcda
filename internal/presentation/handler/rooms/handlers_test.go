package rooms

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/infrastructure/identity"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
	memrepo "github.com/croudly/experience-api/internal/infrastructure/repository"
)

type nopPublisher struct{}

func (nopPublisher) PublishRoomCreated(ctx context.Context, room domain.Room) error { return nil }
func (nopPublisher) PublishRoomDeleted(ctx context.Context, room domain.Room, actor string) error {
	return nil
}
func (nopPublisher) PublishMemberJoined(ctx context.Context, room domain.Room, user string) error {
	return nil
}
func (nopPublisher) PublishMemberLeft(ctx context.Context, room domain.Room, user string) error {
	return nil
}
func (nopPublisher) PublishMemberRemoved(ctx context.Context, room domain.Room, actor string) error {
	return nil
}
func (nopPublisher) PublishMemberBlocked(ctx context.Context, room domain.Room, actor string) error {
	return nil
}
func (nopPublisher) PublishRoleAssigned(ctx context.Context, room domain.Room, actor string) error {
	return nil
}
func (nopPublisher) PublishModeratorRemoved(ctx context.Context, room domain.Room, actor string) error {
	return nil
}
func (nopPublisher) PublishPrivacyToggled(ctx context.Context, room domain.Room, actor string) error {
	return nil
}

func newTestHandler() (*Handler, domain.RoomRepository) {
	repo := memrepo.NewRoomRepository(100, time.Hour)
	return NewHandler(repo, nopPublisher{}, logging.NewNopLogger()), repo
}

// newRequest builds a request carrying the resolved user and chi URL params,
// the way the router and auth middleware would.
func newRequest(method, target, body, userID string, params map[string]string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}

	ctx := identity.WithUser(r.Context(), userID)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return r.WithContext(ctx)
}

func createRoom(t *testing.T, h *Handler, creator string) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.CreateRoomHandler(w, newRequest(http.MethodPost, "/api/rooms", `{"name":"launch-party"}`, creator, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create room: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return resp.RoomID
}

func issueInvite(t *testing.T, h *Handler, roomID, userID string) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.IssueInviteHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/invites", "", userID, map[string]string{"roomId": roomID}))
	if w.Code != http.StatusCreated {
		t.Fatalf("issue invite: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		InviteLink string `json:"inviteLink"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode invite response: %v", err)
	}
	return resp.InviteLink[strings.LastIndex(resp.InviteLink, "=")+1:]
}

func redeem(t *testing.T, h *Handler, token, userID string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.RedeemInviteHandler(w, newRequest(http.MethodPost, "/api/rooms/join/"+token, "", userID, map[string]string{"token": token}))
	return w
}

func TestCreateRoomHandler(t *testing.T) {
	h, repo := newTestHandler()

	roomID := createRoom(t, h, "creator-1")

	room, err := repo.GetByID(context.Background(), roomID)
	if err != nil {
		t.Fatalf("stored room: %v", err)
	}
	if room.Creator != "creator-1" {
		t.Errorf("creator = %s, want creator-1", room.Creator)
	}
	if room.RoleOf("creator-1") != domain.RoleCreator {
		t.Errorf("creator role = %s", room.RoleOf("creator-1"))
	}
}

func TestCreateRoomHandlerValidation(t *testing.T) {
	h, _ := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"name too short", `{"name":"ab"}`},
		{"name missing", `{}`},
		{"bad mode", `{"name":"launch-party","mode":"secret"}`},
		{"unknown field", `{"name":"launch-party","owner":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.CreateRoomHandler(w, newRequest(http.MethodPost, "/api/rooms", tt.body, "creator-1", nil))
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestGetRoomHandlerNotFound(t *testing.T) {
	h, _ := newTestHandler()

	w := httptest.NewRecorder()
	h.GetRoomHandler(w, newRequest(http.MethodGet, "/api/rooms/missing", "", "creator-1", map[string]string{"roomId": "missing"}))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestInviteRedeemFlow(t *testing.T) {
	h, repo := newTestHandler()
	roomID := createRoom(t, h, "creator-1")

	token := issueInvite(t, h, roomID, "creator-1")

	if w := redeem(t, h, token, "user-a"); w.Code != http.StatusOK {
		t.Fatalf("redeem: status %d, body %s", w.Code, w.Body.String())
	}

	room, _ := repo.GetByID(context.Background(), roomID)
	if !room.IsMember("user-a") {
		t.Fatal("user-a should be a member")
	}

	// Single use: a second redemption reads as not found.
	if w := redeem(t, h, token, "user-b"); w.Code != http.StatusNotFound {
		t.Errorf("second redeem: status %d, want 404", w.Code)
	}
}

func TestRedeemWhileMemberConflicts(t *testing.T) {
	h, _ := newTestHandler()
	roomID := createRoom(t, h, "creator-1")

	token := issueInvite(t, h, roomID, "creator-1")
	if w := redeem(t, h, token, "creator-1"); w.Code != http.StatusConflict {
		t.Errorf("creator redeeming own invite: status %d, want 409", w.Code)
	}
}

func TestDeleteRoomHandlerCreatorOnly(t *testing.T) {
	h, repo := newTestHandler()
	roomID := createRoom(t, h, "creator-1")
	token := issueInvite(t, h, roomID, "creator-1")
	redeem(t, h, token, "user-a")

	w := httptest.NewRecorder()
	h.DeleteRoomHandler(w, newRequest(http.MethodDelete, "/api/rooms/"+roomID, "", "user-a", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusForbidden {
		t.Fatalf("member delete: status %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	h.DeleteRoomHandler(w, newRequest(http.MethodDelete, "/api/rooms/"+roomID, "", "creator-1", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusNoContent {
		t.Fatalf("creator delete: status %d, want 204", w.Code)
	}

	if _, err := repo.GetByID(context.Background(), roomID); err == nil {
		t.Error("room should be gone")
	}
}

func TestAssignRoleHandler(t *testing.T) {
	h, repo := newTestHandler()
	roomID := createRoom(t, h, "creator-1")
	token := issueInvite(t, h, roomID, "creator-1")
	redeem(t, h, token, "user-a")

	w := httptest.NewRecorder()
	h.AssignRoleHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/moderators",
		`{"userId":"user-a","role":"co-host"}`, "creator-1", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusNoContent {
		t.Fatalf("assign role: status %d, body %s", w.Code, w.Body.String())
	}

	room, _ := repo.GetByID(context.Background(), roomID)
	if room.RoleOf("user-a") != domain.RoleCoHost {
		t.Errorf("role = %s, want co-host", room.RoleOf("user-a"))
	}

	// Unknown tier names are rejected before touching the room.
	w = httptest.NewRecorder()
	h.AssignRoleHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/moderators",
		`{"userId":"user-a","role":"admin"}`, "creator-1", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown role: status %d, want 400", w.Code)
	}
}

func TestBlockUserHandler(t *testing.T) {
	h, _ := newTestHandler()
	roomID := createRoom(t, h, "creator-1")
	token := issueInvite(t, h, roomID, "creator-1")
	redeem(t, h, token, "user-a")

	block := func(actor, target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.BlockUserHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/block",
			`{"userId":"`+target+`"}`, actor, map[string]string{"roomId": roomID}))
		return w
	}

	if w := block("user-a", "creator-1"); w.Code != http.StatusForbidden {
		t.Errorf("member blocking creator: status %d, want 403", w.Code)
	}
	if w := block("creator-1", "user-a"); w.Code != http.StatusNoContent {
		t.Errorf("creator blocking member: status %d, want 204", w.Code)
	}
	if w := block("creator-1", "user-a"); w.Code != http.StatusConflict {
		t.Errorf("double block: status %d, want 409", w.Code)
	}
}

func TestTogglePrivacyHandler(t *testing.T) {
	h, _ := newTestHandler()
	roomID := createRoom(t, h, "creator-1")

	w := httptest.NewRecorder()
	h.TogglePrivacyHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/privacy", "", "creator-1", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: status %d", w.Code)
	}
	var resp privacyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Mode != "private" {
		t.Errorf("mode = %s, want private", resp.Mode)
	}
}

func TestListMembersHandlerRequiresMembership(t *testing.T) {
	h, _ := newTestHandler()
	roomID := createRoom(t, h, "creator-1")

	w := httptest.NewRecorder()
	h.ListMembersHandler(w, newRequest(http.MethodGet, "/api/rooms/"+roomID+"/members", "", "stranger", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger: status %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	h.ListMembersHandler(w, newRequest(http.MethodGet, "/api/rooms/"+roomID+"/members", "", "creator-1", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusOK {
		t.Fatalf("creator: status %d", w.Code)
	}
	var members []memberResponse
	if err := json.Unmarshal(w.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(members) != 1 || members[0].Role != "creator" {
		t.Errorf("members = %+v, want single creator entry", members)
	}
}

func TestIsAdminHandler(t *testing.T) {
	h, _ := newTestHandler()
	roomID := createRoom(t, h, "creator-1")

	check := func(userID string, want bool) {
		w := httptest.NewRecorder()
		h.IsAdminHandler(w, newRequest(http.MethodGet, "/api/rooms/"+roomID+"/admin", "", userID, map[string]string{"roomId": roomID}))
		if w.Code != http.StatusOK {
			t.Fatalf("status %d", w.Code)
		}
		var resp adminResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.IsAdmin != want {
			t.Errorf("isAdmin(%s) = %v, want %v", userID, resp.IsAdmin, want)
		}
	}

	check("creator-1", true)
	check("user-a", false)
}

func TestLeaveRoomHandler(t *testing.T) {
	h, repo := newTestHandler()
	roomID := createRoom(t, h, "creator-1")
	token := issueInvite(t, h, roomID, "creator-1")
	redeem(t, h, token, "user-a")

	w := httptest.NewRecorder()
	h.LeaveRoomHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/leave", "", "user-a", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusNoContent {
		t.Fatalf("leave: status %d", w.Code)
	}

	room, _ := repo.GetByID(context.Background(), roomID)
	if room.IsMember("user-a") {
		t.Error("user-a should no longer be a member")
	}

	// Leaving twice reads as a conflict, not a success.
	w = httptest.NewRecorder()
	h.LeaveRoomHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/leave", "", "user-a", map[string]string{"roomId": roomID}))
	if w.Code != http.StatusConflict {
		t.Errorf("second leave: status %d, want 409", w.Code)
	}
}

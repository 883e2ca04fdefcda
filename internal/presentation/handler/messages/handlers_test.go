package messages

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

func (nopPublisher) PublishMessagePosted(ctx context.Context, room domain.Room, sender string) error {
	return nil
}

func newTestHandler() (*Handler, domain.RoomRepository) {
	repo := memrepo.NewRoomRepository(100, time.Hour)
	return NewHandler(repo, nopPublisher{}, logging.NewNopLogger()), repo
}

// seedRoom stores a room with the given members joined via redeemed invites.
func seedRoom(t *testing.T, repo domain.RoomRepository, creator string, members ...string) *domain.Room {
	t.Helper()
	room, err := domain.NewRoom("listening-party", creator, time.Now())
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	if err := repo.Create(context.Background(), room); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, member := range members {
		room, err = repo.Mutate(context.Background(), room.ID, func(r *domain.Room) error {
			link, err := r.IssueInvite(creator, time.Now().Add(time.Hour), time.Now())
			if err != nil {
				return err
			}
			token := link[strings.LastIndex(link, "=")+1:]
			return r.Redeem(token, member, time.Now())
		})
		if err != nil {
			t.Fatalf("join %s: %v", member, err)
		}
	}

	return room
}

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

func postMessage(h *Handler, roomID, userID, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.CreateMessageHandler(w, newRequest(http.MethodPost, "/api/rooms/"+roomID+"/messages", body, userID, map[string]string{"roomId": roomID}))
	return w
}

func TestCreateMessageHandler(t *testing.T) {
	h, repo := newTestHandler()
	room := seedRoom(t, repo, "creator-1", "user-a")

	w := postMessage(h, room.ID, "user-a", `{"text":"hello"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("post: status %d, body %s", w.Code, w.Body.String())
	}

	var resp createMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message == nil || resp.Message.Text != "hello" {
		t.Errorf("message = %+v, want text hello", resp.Message)
	}

	stored, _ := repo.GetByID(context.Background(), room.ID)
	if len(stored.Messages) != 1 {
		t.Errorf("stored messages = %d, want 1", len(stored.Messages))
	}
}

func TestCreateMessageHandlerWithMedia(t *testing.T) {
	h, repo := newTestHandler()
	room := seedRoom(t, repo, "creator-1")

	w := postMessage(h, room.ID, "creator-1", `{"media":[{"type":"link","url":"https://example.com/clip"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("post: status %d, body %s", w.Code, w.Body.String())
	}

	// Media items land on the room's media roll as well as the message.
	stored, _ := repo.GetByID(context.Background(), room.ID)
	if len(stored.Media) != 1 {
		t.Errorf("media roll = %d items, want 1", len(stored.Media))
	}
}

func TestCreateMessageHandlerRejections(t *testing.T) {
	h, repo := newTestHandler()
	room := seedRoom(t, repo, "creator-1", "user-a")

	tests := []struct {
		name   string
		sender string
		body   string
		want   int
	}{
		{"empty message", "user-a", `{}`, http.StatusBadRequest},
		{"unknown media type", "user-a", `{"media":[{"type":"hologram","url":"x"}]}`, http.StatusBadRequest},
		{"media without url", "user-a", `{"media":[{"type":"image"}]}`, http.StatusBadRequest},
		{"non-member sender", "stranger", `{"text":"hi"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postMessage(h, room.ID, tt.sender, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestListMessagesHandler(t *testing.T) {
	h, repo := newTestHandler()
	room := seedRoom(t, repo, "creator-1", "user-a")
	postMessage(h, room.ID, "user-a", `{"text":"first"}`)

	w := httptest.NewRecorder()
	h.ListMessagesHandler(w, newRequest(http.MethodGet, "/api/rooms/"+room.ID+"/messages", "", "stranger", map[string]string{"roomId": room.ID}))
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger list: status %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	h.ListMessagesHandler(w, newRequest(http.MethodGet, "/api/rooms/"+room.ID+"/messages", "", "user-a", map[string]string{"roomId": room.ID}))
	if w.Code != http.StatusOK {
		t.Fatalf("member list: status %d", w.Code)
	}
	var msgs []domain.Message
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Text != "first" {
		t.Errorf("messages = %+v, want single first", msgs)
	}
}

func TestDeleteMessageHandlerPermissions(t *testing.T) {
	h, repo := newTestHandler()
	room := seedRoom(t, repo, "creator-1", "user-a", "user-b")

	w := postMessage(h, room.ID, "user-a", `{"text":"target"}`)
	var resp createMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	messageID := resp.Message.ID

	del := func(userID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.DeleteMessageHandler(w, newRequest(http.MethodDelete, "/api/rooms/"+room.ID+"/messages/"+messageID, "", userID,
			map[string]string{"roomId": room.ID, "messageId": messageID}))
		return w
	}

	if w := del("user-b"); w.Code != http.StatusForbidden {
		t.Errorf("bystander delete: status %d, want 403", w.Code)
	}
	if w := del("user-a"); w.Code != http.StatusNoContent {
		t.Errorf("sender delete: status %d, want 204", w.Code)
	}
	if w := del("user-a"); w.Code != http.StatusNotFound {
		t.Errorf("delete gone message: status %d, want 404", w.Code)
	}
}

func TestPurgeMessagesHandler(t *testing.T) {
	h, repo := newTestHandler()
	room := seedRoom(t, repo, "creator-1", "user-a")
	postMessage(h, room.ID, "user-a", `{"text":"one"}`)
	postMessage(h, room.ID, "creator-1", `{"text":"two"}`)

	purge := func(userID string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.PurgeMessagesHandler(w, newRequest(http.MethodDelete, "/api/rooms/"+room.ID+"/messages", "", userID, map[string]string{"roomId": room.ID}))
		return w
	}

	if w := purge("user-a"); w.Code != http.StatusForbidden {
		t.Errorf("member purge: status %d, want 403", w.Code)
	}
	if w := purge("creator-1"); w.Code != http.StatusNoContent {
		t.Fatalf("creator purge: status %d, want 204", w.Code)
	}

	stored, _ := repo.GetByID(context.Background(), room.ID)
	if len(stored.Messages) != 0 {
		t.Errorf("messages after purge = %d, want 0", len(stored.Messages))
	}
}

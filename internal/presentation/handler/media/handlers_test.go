package media

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/infrastructure/identity"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
	memrepo "github.com/croudly/experience-api/internal/infrastructure/repository"
	"github.com/croudly/experience-api/internal/infrastructure/storage"
)

func newTestHandler(t *testing.T) (*Handler, domain.RoomRepository, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "http://localhost/media")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	repo := memrepo.NewRoomRepository(100, time.Hour)
	return NewHandler(repo, store, logging.NewNopLogger()), repo, dir
}

func seedRoom(t *testing.T, repo domain.RoomRepository, creator string, members ...string) *domain.Room {
	t.Helper()
	room, err := domain.NewRoom("media-room", creator, time.Now())
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

func withIdentity(r *http.Request, userID string, params map[string]string) *http.Request {
	ctx := identity.WithUser(r.Context(), userID)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return r.WithContext(ctx)
}

// multipartUpload builds a form with a type field and a file part carrying the
// given content type.
func multipartUpload(t *testing.T, mediaType, fileName, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("type", mediaType); err != nil {
		t.Fatalf("WriteField: %v", err)
	}

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	partHeader.Set("Content-Type", contentType)
	part, err := mw.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, h *Handler, roomID, userID, mediaType, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	body, formContentType := multipartUpload(t, mediaType, "clip.png", contentType, []byte("payload-bytes"))
	r := httptest.NewRequest(http.MethodPost, "/api/rooms/"+roomID+"/media", body)
	r.Header.Set("Content-Type", formContentType)
	w := httptest.NewRecorder()
	h.UploadMediaHandler(w, withIdentity(r, userID, map[string]string{"roomId": roomID}))
	return w
}

func TestUploadMediaHandler(t *testing.T) {
	h, repo, dir := newTestHandler(t)
	room := seedRoom(t, repo, "creator-1", "user-a")

	w := upload(t, h, room.ID, "user-a", "image", "image/png")
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: status %d, body %s", w.Code, w.Body.String())
	}

	var resp uploadMediaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Media.Type != domain.MediaImage || resp.Media.PostedBy != "user-a" {
		t.Errorf("media = %+v", resp.Media)
	}
	if resp.Message == nil || len(resp.Message.Media) != 1 {
		t.Errorf("message = %+v, want one media item", resp.Message)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("stored files = %d, want 1", len(files))
	}
	if filepath.Ext(files[0].Name()) != ".png" {
		t.Errorf("stored file %s should keep the upload's extension", files[0].Name())
	}

	stored, _ := repo.GetByID(context.Background(), room.ID)
	if len(stored.Media) != 1 || len(stored.Messages) != 1 {
		t.Errorf("room media = %d, messages = %d, want 1 and 1", len(stored.Media), len(stored.Messages))
	}
}

func TestUploadMediaHandlerRejectsBadType(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	room := seedRoom(t, repo, "creator-1")

	// Links are posted through the message endpoint, not uploaded.
	if w := upload(t, h, room.ID, "creator-1", "link", "image/png"); w.Code != http.StatusBadRequest {
		t.Errorf("link type: status %d, want 400", w.Code)
	}
	if w := upload(t, h, room.ID, "creator-1", "hologram", "image/png"); w.Code != http.StatusBadRequest {
		t.Errorf("unknown type: status %d, want 400", w.Code)
	}
}

func TestUploadMediaHandlerRejectsUnsupportedContent(t *testing.T) {
	h, repo, dir := newTestHandler(t)
	room := seedRoom(t, repo, "creator-1")

	if w := upload(t, h, room.ID, "creator-1", "image", "text/html"); w.Code != http.StatusBadRequest {
		t.Errorf("unsupported content: status %d, want 400", w.Code)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Errorf("stored files = %d, want 0", len(files))
	}
}

func TestUploadMediaHandlerCleansUpOnRejectedPost(t *testing.T) {
	h, repo, dir := newTestHandler(t)
	room := seedRoom(t, repo, "creator-1")

	// A non-member passes the store step but fails the room post, so the
	// uploaded file must not be left behind.
	if w := upload(t, h, room.ID, "stranger", "image", "image/png"); w.Code != http.StatusConflict {
		t.Fatalf("non-member upload: status %d, want 409", w.Code)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Errorf("orphaned files = %d, want 0", len(files))
	}
}

func TestListMediaHandlerPrivacyGate(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	room := seedRoom(t, repo, "creator-1")
	upload(t, h, room.ID, "creator-1", "image", "image/png")

	list := func(userID string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/rooms/"+room.ID+"/media", nil)
		w := httptest.NewRecorder()
		h.ListMediaHandler(w, withIdentity(r, userID, map[string]string{"roomId": room.ID}))
		return w
	}

	// Public room: anyone resolved may browse.
	if w := list("stranger"); w.Code != http.StatusOK {
		t.Errorf("public room stranger: status %d, want 200", w.Code)
	}

	_, err := repo.Mutate(context.Background(), room.ID, func(r *domain.Room) error {
		return r.TogglePrivacy("creator-1", time.Now())
	})
	if err != nil {
		t.Fatalf("toggle privacy: %v", err)
	}

	if w := list("stranger"); w.Code != http.StatusForbidden {
		t.Errorf("private room stranger: status %d, want 403", w.Code)
	}
	w := list("creator-1")
	if w.Code != http.StatusOK {
		t.Fatalf("private room creator: status %d", w.Code)
	}
	var items []domain.MediaItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %d, want 1", len(items))
	}
}

func TestDeleteMediaHandler(t *testing.T) {
	h, repo, _ := newTestHandler(t)
	room := seedRoom(t, repo, "creator-1", "user-a", "user-b")

	w := upload(t, h, room.ID, "user-a", "image", "image/png")
	var resp uploadMediaResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	mediaID := resp.Media.ID

	del := func(userID string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodDelete, "/api/rooms/"+room.ID+"/media/"+mediaID, nil)
		w := httptest.NewRecorder()
		h.DeleteMediaHandler(w, withIdentity(r, userID, map[string]string{"roomId": room.ID, "mediaId": mediaID}))
		return w
	}

	if w := del("user-b"); w.Code != http.StatusForbidden {
		t.Errorf("bystander delete: status %d, want 403", w.Code)
	}
	if w := del("user-a"); w.Code != http.StatusNoContent {
		t.Errorf("poster delete: status %d, want 204", w.Code)
	}
	if w := del("user-a"); w.Code != http.StatusNotFound {
		t.Errorf("delete gone media: status %d, want 404", w.Code)
	}

	// Copies already embedded in messages stay as posted.
	stored, _ := repo.GetByID(context.Background(), room.ID)
	if len(stored.Media) != 0 {
		t.Errorf("media roll = %d, want 0", len(stored.Media))
	}
	if len(stored.Messages) != 1 || len(stored.Messages[0].Media) != 1 {
		t.Errorf("message media should survive roll deletion")
	}
}

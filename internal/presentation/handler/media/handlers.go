package media

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/infrastructure/identity"
	"github.com/croudly/experience-api/internal/infrastructure/json"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
	"github.com/croudly/experience-api/internal/infrastructure/storage"
	"github.com/croudly/experience-api/internal/infrastructure/validate"
)

// Links carry no file to store, so they go through the message endpoint
// instead of the uploader.
var validateUploadType = validate.Field("type", validate.Required(),
	validate.OneOf(string(domain.MediaImage), string(domain.MediaVideo), string(domain.MediaVoice)))

type Handler struct {
	roomRepository domain.RoomRepository
	mediaStore     storage.MediaStore
	logger         logging.Logger
}

func NewHandler(
	roomRepository domain.RoomRepository,
	mediaStore storage.MediaStore,
	logger logging.Logger,
) *Handler {
	return &Handler{
		roomRepository: roomRepository,
		mediaStore:     mediaStore,
		logger:         logger,
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		json.WriteError(w, http.StatusNotFound, err, "Room not found")
	case errors.Is(err, domain.ErrMediaNotFound):
		json.WriteError(w, http.StatusNotFound, err, "Media not found")
	case errors.Is(err, domain.ErrForbidden):
		json.WriteForbiddenError(w, "You are not authorized to perform this action")
	case errors.Is(err, domain.ErrNotMember):
		json.WriteError(w, http.StatusConflict, err, "You are not a member of this room")
	case errors.Is(err, domain.ErrConflict):
		json.WriteError(w, http.StatusConflict, err, "Concurrent update, please retry")
	case errors.Is(err, domain.ErrInvalidInput):
		json.WriteValidationError(w, err)
	default:
		h.logger.Error(logging.IO, logging.MediaUpload, "unexpected error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w, err)
	}
}

// UploadMediaHandler godoc
// @Summary      Upload media into a room
// @Description  Stores the multipart file, then posts it into the room as a message carrying one media item
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        file formData file true "Media file (max 5MB)"
// @Param        type formData string true "Media type: image, video or voice"
// @Success      201 {object} uploadMediaResponse "Media uploaded"
// @Failure      400 {object} json.ErrorResponse "Bad request - bad type, missing file or oversized upload"
// @Failure      403 {object} json.ErrorResponse "Forbidden - sender is blocked"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      409 {object} json.ErrorResponse "Not a member"
// @Failure      502 {object} json.ErrorResponse "Media store unavailable"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/media [post]
func (h *Handler) UploadMediaHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	mediaType := r.FormValue("type")
	if err := validateUploadType(mediaType); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		json.WriteValidationError(w, errors.New("file field is required"))
		return
	}
	defer file.Close()

	if header.Size > storage.MaxFileSize {
		json.WriteBadRequestError(w, "File size exceeds maximum allowed size of 5MB")
		return
	}

	fileName := uuid.NewString() + filepath.Ext(header.Filename)
	contentType := header.Header.Get("Content-Type")

	url, err := h.mediaStore.Store(r.Context(), file, fileName, contentType)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedContent):
			json.WriteValidationError(w, err)
		case errors.Is(err, storage.ErrFileTooLarge):
			json.WriteBadRequestError(w, "File size exceeds maximum allowed size of 5MB")
		default:
			h.logger.Error(logging.IO, logging.MediaUpload, "media store failed", map[logging.ExtraKey]any{
				logging.RoomID:       roomID,
				logging.ErrorMessage: err.Error(),
			})
			json.WriteError(w, http.StatusBadGateway, err, "Media store unavailable")
		}
		return
	}

	now := time.Now()
	item := domain.MediaItem{
		ID:       uuid.NewString(),
		Type:     domain.MediaType(mediaType),
		URL:      url,
		PostedBy: userID,
		PostedAt: now,
	}

	var message *domain.Message
	_, err = h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		msg, err := room.PostMessage(userID, "", []domain.MediaItem{item}, now)
		if err != nil {
			return err
		}
		message = msg
		return nil
	})
	if err != nil {
		// The room rejected the post; drop the orphaned upload best-effort.
		if cleanupErr := h.mediaStore.Delete(r.Context(), fileName); cleanupErr != nil {
			h.logger.Warn(logging.IO, logging.MediaUpload, "failed to clean up orphaned upload", map[logging.ExtraKey]any{
				"file":               fileName,
				logging.ErrorMessage: cleanupErr.Error(),
			})
		}
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, uploadMediaResponse{
		Media:   item,
		Message: message,
	})
}

// ListMediaHandler godoc
// @Summary      Read the room's media roll
// @Description  Private rooms require membership; public rooms admit any resolved identity
// @Tags         media
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {array} domain.MediaItem "Media items"
// @Failure      403 {object} json.ErrorResponse "Forbidden - private room, not a member"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/media [get]
func (h *Handler) ListMediaHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	room, err := h.roomRepository.GetByID(r.Context(), roomID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	items, err := room.ReadMedia(userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.MediaItem{}
	}

	json.Write(w, http.StatusOK, items)
}

// DeleteMediaHandler godoc
// @Summary      Delete a media item
// @Description  Removes one item from the media roll; copies embedded in past messages stay as posted
// @Tags         media
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        mediaId path string true "Media ID"
// @Success      204 "Media deleted successfully"
// @Failure      403 {object} json.ErrorResponse "Forbidden"
// @Failure      404 {object} json.ErrorResponse "Room or media not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/media/{mediaId} [delete]
func (h *Handler) DeleteMediaHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	mediaID := chi.URLParam(r, "mediaId")
	if roomID == "" || mediaID == "" {
		json.WriteValidationError(w, errors.New("room ID and media ID are required"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	_, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.DeleteMedia(userID, mediaID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

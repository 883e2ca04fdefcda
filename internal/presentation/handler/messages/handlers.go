package messages

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/infrastructure/identity"
	"github.com/croudly/experience-api/internal/infrastructure/json"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
)

// Publisher covers the single event these handlers emit.
type Publisher interface {
	PublishMessagePosted(ctx context.Context, room domain.Room, sender string) error
}

type Handler struct {
	roomRepository domain.RoomRepository
	roomPublisher  Publisher
	logger         logging.Logger
}

func NewHandler(
	roomRepository domain.RoomRepository,
	roomPublisher Publisher,
	logger logging.Logger,
) *Handler {
	return &Handler{
		roomRepository: roomRepository,
		roomPublisher:  roomPublisher,
		logger:         logger,
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		json.WriteError(w, http.StatusNotFound, err, "Room not found")
	case errors.Is(err, domain.ErrMessageNotFound):
		json.WriteError(w, http.StatusNotFound, err, "Message not found")
	case errors.Is(err, domain.ErrForbidden):
		json.WriteForbiddenError(w, "You are not authorized to perform this action")
	case errors.Is(err, domain.ErrNotMember):
		json.WriteError(w, http.StatusConflict, err, "You are not a member of this room")
	case errors.Is(err, domain.ErrConflict):
		json.WriteError(w, http.StatusConflict, err, "Concurrent update, please retry")
	case errors.Is(err, domain.ErrInvalidInput):
		json.WriteValidationError(w, err)
	default:
		h.logger.Error(logging.General, logging.Content, "unexpected error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w, err)
	}
}

func mapMediaItems(userID string, items []mediaItemRequest, now time.Time) ([]domain.MediaItem, error) {
	out := make([]domain.MediaItem, 0, len(items))
	for _, item := range items {
		if !domain.ValidMediaType(item.Type) {
			return nil, fmt.Errorf("%w: unknown media type %q", domain.ErrInvalidInput, item.Type)
		}
		if item.URL == "" {
			return nil, fmt.Errorf("%w: media url is required", domain.ErrInvalidInput)
		}
		out = append(out, domain.MediaItem{
			ID:       uuid.NewString(),
			Type:     domain.MediaType(item.Type),
			URL:      item.URL,
			PostedBy: userID,
			PostedAt: now,
		})
	}
	return out, nil
}

// CreateMessageHandler godoc
// @Summary      Post a message
// @Description  Appends a message carrying text, media or both; media items also join the room's media roll
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body createMessageRequest true "Message content"
// @Success      201 {object} createMessageResponse "Message posted"
// @Failure      400 {object} json.ErrorResponse "Bad request - empty message or unknown media type"
// @Failure      403 {object} json.ErrorResponse "Forbidden - sender is blocked"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      409 {object} json.ErrorResponse "Not a member"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/messages [post]
func (h *Handler) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	var req createMessageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID := identity.UserFromContext(r.Context())
	now := time.Now()

	media, err := mapMediaItems(userID, req.Media, now)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	var message *domain.Message
	room, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		msg, err := room.PostMessage(userID, req.Text, media, now)
		if err != nil {
			return err
		}
		message = msg
		return nil
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishMessagePosted(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish message posted", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	json.Write(w, http.StatusCreated, createMessageResponse{Message: message})
}

// ListMessagesHandler godoc
// @Summary      List room messages
// @Description  Returns the room's message log in posting order
// @Tags         messages
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {array} domain.Message "Messages"
// @Failure      403 {object} json.ErrorResponse "Forbidden - not a member"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/messages [get]
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
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

	if !room.IsMember(userID) && room.Creator != userID {
		json.WriteForbiddenError(w, "You are not a member of this room")
		return
	}

	messages := room.Messages
	if messages == nil {
		messages = []domain.Message{}
	}

	json.Write(w, http.StatusOK, messages)
}

// DeleteMessageHandler godoc
// @Summary      Delete a message
// @Description  Removes one message; allowed for its sender, any moderator tier or the creator
// @Tags         messages
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        messageId path string true "Message ID"
// @Success      204 "Message deleted successfully"
// @Failure      403 {object} json.ErrorResponse "Forbidden"
// @Failure      404 {object} json.ErrorResponse "Room or message not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/messages/{messageId} [delete]
func (h *Handler) DeleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	messageID := chi.URLParam(r, "messageId")
	if roomID == "" || messageID == "" {
		json.WriteValidationError(w, errors.New("room ID and message ID are required"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	_, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.DeleteMessage(userID, messageID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PurgeMessagesHandler godoc
// @Summary      Purge all messages
// @Description  Clears the room's message log in one irreversible sweep (creator or any moderator tier)
// @Tags         messages
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      204 "Messages purged successfully"
// @Failure      403 {object} json.ErrorResponse "Forbidden"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/messages [delete]
func (h *Handler) PurgeMessagesHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	_, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.PurgeMessages(userID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

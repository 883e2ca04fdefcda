package rooms

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/croudly/experience-api/internal/domain"
	"github.com/croudly/experience-api/internal/infrastructure/identity"
	"github.com/croudly/experience-api/internal/infrastructure/json"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
	"github.com/croudly/experience-api/internal/infrastructure/validate"
)

var (
	validateRoomName = validate.Field("name", validate.Required(), validate.LengthBetween(3, 100))
	validateRoomMode = validate.Field("mode", validate.OneOf(string(domain.ModePublic), string(domain.ModePrivate)))
)

// Publisher is the slice of the event publisher these handlers emit through.
type Publisher interface {
	PublishRoomCreated(ctx context.Context, room domain.Room) error
	PublishRoomDeleted(ctx context.Context, room domain.Room, actor string) error
	PublishMemberJoined(ctx context.Context, room domain.Room, user string) error
	PublishMemberLeft(ctx context.Context, room domain.Room, user string) error
	PublishMemberRemoved(ctx context.Context, room domain.Room, actor string) error
	PublishMemberBlocked(ctx context.Context, room domain.Room, actor string) error
	PublishRoleAssigned(ctx context.Context, room domain.Room, actor string) error
	PublishModeratorRemoved(ctx context.Context, room domain.Room, actor string) error
	PublishPrivacyToggled(ctx context.Context, room domain.Room, actor string) error
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

// writeDomainError maps domain sentinels onto HTTP statuses. State machine
// violations read as conflicts, authorization failures as forbidden.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		json.WriteError(w, http.StatusNotFound, err, "Room not found")
	case errors.Is(err, domain.ErrInviteNotFound):
		json.WriteError(w, http.StatusNotFound, err, "Invite not found or no longer redeemable")
	case errors.Is(err, domain.ErrForbidden):
		json.WriteForbiddenError(w, "You are not authorized to perform this action")
	case errors.Is(err, domain.ErrNotMember):
		json.WriteError(w, http.StatusConflict, err, "You are not a member of this room")
	case errors.Is(err, domain.ErrAlreadyMember):
		json.WriteError(w, http.StatusConflict, err, "Already a member of this room")
	case errors.Is(err, domain.ErrAlreadyBlocked):
		json.WriteError(w, http.StatusConflict, err, "User is already blocked")
	case errors.Is(err, domain.ErrAlreadyAssigned):
		json.WriteError(w, http.StatusConflict, err, "User already holds this role")
	case errors.Is(err, domain.ErrRoomAlreadyExists):
		json.WriteError(w, http.StatusConflict, err, "Room already exists")
	case errors.Is(err, domain.ErrConflict):
		json.WriteError(w, http.StatusConflict, err, "Concurrent update, please retry")
	case errors.Is(err, domain.ErrInvalidInput):
		json.WriteValidationError(w, err)
	default:
		h.logger.Error(logging.General, logging.Persistence, "unexpected error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w, err)
	}
}

// CreateRoomHandler godoc
// @Summary      Create an experience room
// @Description  Creates a room whose creator starts as sole member and host moderator
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body createRoomRequest true "Room creation parameters"
// @Success      201 {object} createRoomResponse "Room created successfully"
// @Failure      400 {object} json.ErrorResponse "Bad request - validation error"
// @Failure      401 {object} json.ErrorResponse "Unauthorized - missing authentication"
// @Failure      409 {object} json.ErrorResponse "Conflict - room already exists"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms [post]
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validateRoomName(req.Name); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID := identity.UserFromContext(r.Context())

	newRoom, err := domain.NewRoom(req.Name, userID, time.Now())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if req.Mode != "" {
		if err := validateRoomMode(req.Mode); err != nil {
			json.WriteValidationError(w, err)
			return
		}
		newRoom.Mode = domain.Mode(req.Mode)
	}
	newRoom.InvitedUsers = req.InvitedUsers
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(time.Now()) {
			json.WriteValidationError(w, errors.New("expiresAt must be in the future"))
			return
		}
		newRoom.ExpiresAt = *req.ExpiresAt
	}

	ctx := r.Context()
	if err := h.roomRepository.Create(ctx, newRoom); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishRoomCreated(ctx, *newRoom); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish room created", map[logging.ExtraKey]any{
			logging.RoomID:       newRoom.ID,
			logging.ErrorMessage: err.Error(),
		})
	}

	json.Write(w, http.StatusCreated, createRoomResponse{
		RoomID:    newRoom.ID,
		Name:      newRoom.Name,
		Mode:      string(newRoom.Mode),
		Creator:   newRoom.Creator,
		CreatedAt: newRoom.CreatedAt,
	})
}

// ListRoomsHandler godoc
// @Summary      List experience rooms
// @Description  Returns rooms newest first, paginated with offset and limit query parameters
// @Tags         rooms
// @Produce      json
// @Param        offset query int false "Number of rooms to skip"
// @Param        limit query int false "Maximum rooms to return (default 20)"
// @Success      200 {array} domain.Room "Rooms"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms [get]
func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	roomList, err := h.roomRepository.List(r.Context(), offset, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, roomList)
}

// GetRoomHandler godoc
// @Summary      Get room details
// @Description  Retrieves room information including members, moderators, messages and media
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} domain.Room "Room details"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId} [get]
func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	room, err := h.roomRepository.GetByID(r.Context(), roomID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusOK, room)
}

// DeleteRoomHandler godoc
// @Summary      Delete an experience room
// @Description  Permanently deletes a room with everything in it (creator only)
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      204 "Room deleted successfully"
// @Failure      403 {object} json.ErrorResponse "Forbidden - not the creator"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId} [delete]
func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
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

	if room.Creator != userID {
		json.WriteForbiddenError(w, "Only the creator can delete the room")
		return
	}

	if err := h.roomRepository.Delete(r.Context(), roomID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishRoomDeleted(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish room deleted", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// IssueInviteHandler godoc
// @Summary      Issue a single-use invite
// @Description  Generates an invite token and returns the shareable link embedding it
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body issueInviteRequest false "Optional expiry override"
// @Success      201 {object} issueInviteResponse "Invite issued"
// @Failure      400 {object} json.ErrorResponse "Bad request - expiry in the past"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/invites [post]
func (h *Handler) IssueInviteHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	var req issueInviteRequest
	if r.ContentLength > 0 {
		if err := json.Read(r, &req); err != nil {
			json.WriteValidationError(w, err)
			return
		}
	}

	userID := identity.UserFromContext(r.Context())

	now := time.Now()
	expiresAt := now.Add(domain.DefaultInviteTTL)
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	var inviteLink string
	_, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		link, err := room.IssueInvite(userID, expiresAt, now)
		if err != nil {
			return err
		}
		inviteLink = link
		return nil
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, issueInviteResponse{
		InviteLink: inviteLink,
		ExpiresAt:  expiresAt,
	})
}

// RedeemInviteHandler godoc
// @Summary      Redeem an invite token
// @Description  Consumes a single-use invite and joins the caller to the room
// @Tags         rooms
// @Produce      json
// @Param        token path string true "Invite token"
// @Success      200 {object} domain.Room "Joined room"
// @Failure      404 {object} json.ErrorResponse "Invite not found, used or expired"
// @Failure      409 {object} json.ErrorResponse "Already a member"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/join/{token} [post]
func (h *Handler) RedeemInviteHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		json.WriteValidationError(w, errors.New("invite token is missing"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	found, err := h.roomRepository.GetByInviteToken(r.Context(), token)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	room, err := h.roomRepository.Mutate(r.Context(), found.ID, func(room *domain.Room) error {
		return room.Redeem(token, userID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishMemberJoined(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish member joined", map[logging.ExtraKey]any{
			logging.RoomID:       room.ID,
			logging.ErrorMessage: err.Error(),
		})
	}

	json.Write(w, http.StatusOK, room)
}

// LeaveRoomHandler godoc
// @Summary      Leave a room
// @Description  Removes the caller from members only; moderator and blocked standing survive
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      204 "Left room successfully"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      409 {object} json.ErrorResponse "Not a member"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/leave [post]
func (h *Handler) LeaveRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	room, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.Leave(userID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishMemberLeft(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish member left", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMemberHandler godoc
// @Summary      Remove a member
// @Description  Forcibly removes the target, purging membership, invite listing and any moderator entry
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body removeMemberRequest true "User to remove"
// @Success      204 "Member removed successfully"
// @Failure      403 {object} json.ErrorResponse "Forbidden - insufficient standing"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/members/remove [post]
func (h *Handler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	var req removeMemberRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.UserID == "" {
		json.WriteValidationError(w, errors.New("userId is required"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	room, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.RemoveMember(userID, req.UserID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishMemberRemoved(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish member removed", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMembersHandler godoc
// @Summary      List room members
// @Description  Returns members with their effective roles and blocked standing
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {array} memberResponse "Members"
// @Failure      403 {object} json.ErrorResponse "Forbidden - not a member"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/members [get]
func (h *Handler) ListMembersHandler(w http.ResponseWriter, r *http.Request) {
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

	json.Write(w, http.StatusOK, toMemberResponses(room))
}

// AssignRoleHandler godoc
// @Summary      Assign a moderator tier
// @Description  Grants the target one of host, co-host, moderator or helper, replacing any tier they hold
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body assignRoleRequest true "Target user and role"
// @Success      204 "Role assigned successfully"
// @Failure      400 {object} json.ErrorResponse "Bad request - unknown role"
// @Failure      403 {object} json.ErrorResponse "Forbidden - cannot assign this tier"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      409 {object} json.ErrorResponse "User already holds this role"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/moderators [post]
func (h *Handler) AssignRoleHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	var req assignRoleRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.UserID == "" {
		json.WriteValidationError(w, errors.New("userId is required"))
		return
	}

	role, err := domain.ParseModeratorRole(req.Role)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	userID := identity.UserFromContext(r.Context())

	room, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.AssignRole(userID, req.UserID, role, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishRoleAssigned(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish role assigned", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveModeratorHandler godoc
// @Summary      Remove a moderator entry
// @Description  Strips the target's moderator tier, leaving membership intact (creator bypasses rank checks)
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body removeModeratorRequest true "Target user"
// @Success      204 "Moderator removed successfully"
// @Failure      403 {object} json.ErrorResponse "Forbidden - does not outrank target"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/moderators [delete]
func (h *Handler) RemoveModeratorHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	var req removeModeratorRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.UserID == "" {
		json.WriteValidationError(w, errors.New("userId is required"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	room, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.RemoveModerator(userID, req.UserID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishModeratorRemoved(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish moderator removed", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// BlockUserHandler godoc
// @Summary      Block a user
// @Description  Adds the target to the blocklist; membership and moderator standing are untouched
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Param        request body blockUserRequest true "User to block"
// @Success      204 "User blocked successfully"
// @Failure      403 {object} json.ErrorResponse "Forbidden - target outranks actor or is the creator"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      409 {object} json.ErrorResponse "User is already blocked"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/block [post]
func (h *Handler) BlockUserHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	var req blockUserRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.UserID == "" {
		json.WriteValidationError(w, errors.New("userId is required"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	room, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.Block(userID, req.UserID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishMemberBlocked(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish member blocked", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// TogglePrivacyHandler godoc
// @Summary      Toggle room privacy
// @Description  Flips the room between public and private (creator or any moderator tier)
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} privacyResponse "New room mode"
// @Failure      403 {object} json.ErrorResponse "Forbidden"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/privacy [post]
func (h *Handler) TogglePrivacyHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := identity.UserFromContext(r.Context())

	room, err := h.roomRepository.Mutate(r.Context(), roomID, func(room *domain.Room) error {
		return room.TogglePrivacy(userID, time.Now())
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if err := h.roomPublisher.PublishPrivacyToggled(r.Context(), *room, userID); err != nil {
		h.logger.Warn(logging.RabbitMQ, logging.Eventing, "failed to publish privacy toggled", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}

	json.Write(w, http.StatusOK, privacyResponse{Mode: string(room.Mode)})
}

// IsAdminHandler godoc
// @Summary      Check creator standing
// @Description  Reports whether the caller created the room
// @Tags         rooms
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} adminResponse "Creator standing"
// @Failure      404 {object} json.ErrorResponse "Room not found"
// @Failure      500 {object} json.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /rooms/{roomId}/admin [get]
func (h *Handler) IsAdminHandler(w http.ResponseWriter, r *http.Request) {
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

	json.Write(w, http.StatusOK, adminResponse{IsAdmin: room.Creator == userID})
}

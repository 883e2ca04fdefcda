package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RoomEventType string

const (
	EventRoomCreated      RoomEventType = "room_created"
	EventRoomDeleted      RoomEventType = "room_deleted"
	EventInviteIssued     RoomEventType = "invite_issued"
	EventMemberJoined     RoomEventType = "member_joined"
	EventMemberLeft       RoomEventType = "member_left"
	EventMemberRemoved    RoomEventType = "member_removed"
	EventRoleAssigned     RoomEventType = "role_assigned"
	EventModeratorRemoved RoomEventType = "moderator_removed"
	EventUserBlocked      RoomEventType = "user_blocked"
	EventPrivacyToggled   RoomEventType = "privacy_toggled"
	EventMessagePosted    RoomEventType = "message_posted"
	EventMessageDeleted   RoomEventType = "message_deleted"
	EventMessagesPurged   RoomEventType = "messages_purged"
	EventMediaDeleted     RoomEventType = "media_deleted"
)

// RoomAuditLog is an append-only record of a moderation or lifecycle event.
// Audit writes ride alongside the room mutation; they are best-effort and
// never fail the operation that produced them.
type RoomAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	RoomID    string         `bson:"room_id" json:"roomId"`
	EventType RoomEventType  `bson:"event_type" json:"eventType"`
	Actor     string         `bson:"actor,omitempty" json:"actor,omitempty"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]RoomAuditLog, error)
	GetByEventType(ctx context.Context, eventType RoomEventType, from, to time.Time) ([]RoomAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

// NewAuditLog builds an audit entry for a room event. Metadata may be nil.
func NewAuditLog(roomID string, event RoomEventType, actor string, metadata map[string]any) *RoomAuditLog {
	return &RoomAuditLog{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		EventType: event,
		Actor:     actor,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

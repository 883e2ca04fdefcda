package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomID string `json:"roomId"`
	Actor  string `json:"actor,omitempty"`
	Data   []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated      = "room.created"
	EventRoomDeleted      = "room.deleted"
	EventMemberJoined     = "member.joined"
	EventMemberLeft       = "member.left"
	EventMemberRemoved    = "member.removed"
	EventMemberBlocked    = "member.blocked"
	EventRoleAssigned     = "role.assigned"
	EventModeratorRemoved = "moderator.removed"
	EventPrivacyToggled   = "room.privacy_toggled"
	EventMessagePosted    = "message.posted"
)

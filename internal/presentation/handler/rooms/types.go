package rooms

import (
	"time"

	"github.com/croudly/experience-api/internal/domain"
)

// createRoomRequest represents the request to create an experience room
type createRoomRequest struct {
	Name         string     `json:"name" example:"friday-drop" minLength:"1"` // Display name of the room
	Mode         string     `json:"mode,omitempty" example:"public"`          // public (default) or private
	InvitedUsers []string   `json:"invitedUsers,omitempty"`                   // Users pre-listed for invitation
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`                      // Optional expiry; defaults to 24 hours out
}

// createRoomResponse represents the response after creating a room
type createRoomResponse struct {
	RoomID    string    `json:"roomId" example:"550e8400-e29b-41d4-a716-446655440000"` // Unique room identifier
	Name      string    `json:"name" example:"friday-drop"`                            // Room name
	Mode      string    `json:"mode" example:"public"`                                 // Room privacy mode
	Creator   string    `json:"creator"`                                               // User ID of the creator
	CreatedAt time.Time `json:"createdAt" example:"2024-01-01T12:00:00Z"`              // Room creation timestamp
}

// issueInviteRequest represents the request to issue a single-use invite
type issueInviteRequest struct {
	ExpiresAt *time.Time `json:"expiresAt,omitempty"` // Optional expiry; defaults to 24 hours from issuance
}

// issueInviteResponse carries the shareable invite link
type issueInviteResponse struct {
	InviteLink string    `json:"inviteLink"` // Shareable link embedding the invite token
	ExpiresAt  time.Time `json:"expiresAt"`  // When the invite stops being redeemable
}

// removeMemberRequest represents the request to remove a user from a room
type removeMemberRequest struct {
	UserID string `json:"userId" example:"550e8400-e29b-41d4-a716-446655440001"` // User ID to remove
}

// assignRoleRequest represents the request to grant a moderator tier
type assignRoleRequest struct {
	UserID string `json:"userId"`                    // Target user ID
	Role   string `json:"role" example:"moderator"`  // One of host, co-host, moderator, helper
}

// removeModeratorRequest represents the request to strip a moderator entry
type removeModeratorRequest struct {
	UserID string `json:"userId"` // Target user ID
}

// blockUserRequest represents the request to block a user
type blockUserRequest struct {
	UserID string `json:"userId"` // User ID to block
}

// memberResponse represents one room member
type memberResponse struct {
	User     string    `json:"user"`           // User ID
	Role     string    `json:"role"`           // Effective role in the room
	JoinedAt time.Time `json:"joinedAt"`       // When the user joined
	Blocked  bool      `json:"blocked"`        // Whether the user is on the blocklist
}

// adminResponse reports whether the caller created the room
type adminResponse struct {
	IsAdmin bool `json:"isAdmin"`
}

// privacyResponse reports the room mode after a toggle
type privacyResponse struct {
	Mode string `json:"mode" example:"private"`
}

func toMemberResponses(room *domain.Room) []memberResponse {
	out := make([]memberResponse, 0, len(room.Members))
	for _, m := range room.Members {
		out = append(out, memberResponse{
			User:     m.User,
			Role:     room.RoleOf(m.User).String(),
			JoinedAt: m.JoinedAt,
			Blocked:  room.IsBlocked(m.User),
		})
	}
	return out
}

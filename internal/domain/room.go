package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	inviteTokenLength = 32
	inviteTokenChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// DefaultRoomTTL is the stored expiry window. Expiry is recorded on every
	// room but no operation checks it before mutating.
	DefaultRoomTTL = 24 * time.Hour

	// DefaultInviteTTL applies when an invite is issued without an explicit
	// expiry. Invite expiry, unlike room expiry, is enforced at redemption.
	DefaultInviteTTL = 24 * time.Hour

	inviteLinkFormat = "https://croudly/invite/experience-room?token=%s"
)

var inviteCharsetLen = big.NewInt(int64(len(inviteTokenChars)))

// Mode controls who may read room media.
type Mode string

const (
	ModePublic  Mode = "public"
	ModePrivate Mode = "private"
)

// MediaType classifies a posted media item.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaVoice MediaType = "voice"
	MediaLink  MediaType = "link"
)

// ValidMediaType reports whether s names a known media type.
func ValidMediaType(s string) bool {
	switch MediaType(s) {
	case MediaImage, MediaVideo, MediaVoice, MediaLink:
		return true
	}
	return false
}

type Member struct {
	User     string    `bson:"user" json:"user"`
	JoinedAt time.Time `bson:"joined_at" json:"joinedAt"`
}

type Moderator struct {
	User       string    `bson:"user" json:"user"`
	Role       Role      `bson:"role" json:"role"`
	AssignedAt time.Time `bson:"assigned_at" json:"assignedAt"`
}

type Invite struct {
	Token     string    `bson:"token" json:"token"`
	InvitedBy string    `bson:"invited_by" json:"invitedBy"`
	Used      bool      `bson:"used" json:"used"`
	ExpiresAt time.Time `bson:"expires_at" json:"expiresAt"`
}

type MediaItem struct {
	ID       string    `bson:"_id" json:"id"`
	Type     MediaType `bson:"type" json:"type"`
	URL      string    `bson:"url" json:"url"`
	PostedBy string    `bson:"posted_by" json:"postedBy"`
	PostedAt time.Time `bson:"posted_at" json:"postedAt"`
}

type Message struct {
	ID     string      `bson:"_id" json:"id"`
	Sender string      `bson:"sender" json:"sender"`
	Text   string      `bson:"text,omitempty" json:"text,omitempty"`
	Media  []MediaItem `bson:"media,omitempty" json:"media,omitempty"`
	SentAt time.Time   `bson:"sent_at" json:"sentAt"`
}

// Room is the aggregate root. Every mutation loads the whole document,
// applies one of the methods below and persists it back in a single
// version-checked write; no partial updates exist.
type Room struct {
	ID           string      `bson:"_id" json:"id"`
	Name         string      `bson:"name" json:"name"`
	Mode         Mode        `bson:"mode" json:"mode"`
	Creator      string      `bson:"creator" json:"creator"`
	IsLive       bool        `bson:"is_live" json:"isLive"`
	Version      int64       `bson:"version" json:"-"`
	Members      []Member    `bson:"members" json:"members"`
	Moderators   []Moderator `bson:"moderators" json:"moderators"`
	Invites      []Invite    `bson:"invites" json:"-"`
	InvitedUsers []string    `bson:"invited_users" json:"invitedUsers"`
	BlockedUsers []string    `bson:"blocked_users" json:"blockedUsers"`
	Media        []MediaItem `bson:"media" json:"media"`
	Messages     []Message   `bson:"messages" json:"messages"`
	ExpiresAt    time.Time   `bson:"expires_at" json:"expiresAt"`
	CreatedAt    time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updatedAt"`
}

// NewRoom creates a room whose creator is its sole member and carries a host
// moderator entry from the start.
func NewRoom(name, creator string, now time.Time) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	if creator == "" {
		return nil, fmt.Errorf("%w: creator is required", ErrInvalidInput)
	}

	return &Room{
		ID:      uuid.NewString(),
		Name:    name,
		Mode:    ModePublic,
		Creator: creator,
		Members: []Member{
			{User: creator, JoinedAt: now},
		},
		Moderators: []Moderator{
			{User: creator, Role: RoleHost, AssignedAt: now},
		},
		ExpiresAt: now.Add(DefaultRoomTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Clone returns a deep copy so callers can mutate freely before a
// version-checked write.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Members = append([]Member(nil), r.Members...)
	cp.Moderators = append([]Moderator(nil), r.Moderators...)
	cp.Invites = append([]Invite(nil), r.Invites...)
	cp.InvitedUsers = append([]string(nil), r.InvitedUsers...)
	cp.BlockedUsers = append([]string(nil), r.BlockedUsers...)
	cp.Media = append([]MediaItem(nil), r.Media...)
	cp.Messages = make([]Message, len(r.Messages))
	for i, m := range r.Messages {
		cp.Messages[i] = m
		cp.Messages[i].Media = append([]MediaItem(nil), m.Media...)
	}
	return &cp
}

// RoleOf resolves a user's effective role: creator first, then any moderator
// entry, then plain membership.
func (r *Room) RoleOf(userID string) Role {
	if userID == r.Creator {
		return RoleCreator
	}
	if mod := r.moderatorEntry(userID); mod != nil {
		return mod.Role
	}
	if r.IsMember(userID) {
		return RoleMember
	}
	return RoleNonMember
}

func (r *Room) IsMember(userID string) bool {
	for _, m := range r.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

func (r *Room) IsBlocked(userID string) bool {
	for _, b := range r.BlockedUsers {
		if b == userID {
			return true
		}
	}
	return false
}

func (r *Room) moderatorEntry(userID string) *Moderator {
	for i := range r.Moderators {
		if r.Moderators[i].User == userID {
			return &r.Moderators[i]
		}
	}
	return nil
}

// IssueInvite appends a single-use invite and returns the shareable link
// embedding the token. The expiry must be strictly in the future.
func (r *Room) IssueInvite(invitedBy string, expiresAt, now time.Time) (string, error) {
	if !expiresAt.After(now) {
		return "", fmt.Errorf("%w: invite expiry must be in the future", ErrInvalidInput)
	}

	token, err := generateInviteToken()
	if err != nil {
		return "", err
	}

	r.Invites = append(r.Invites, Invite{
		Token:     token,
		InvitedBy: invitedBy,
		Used:      false,
		ExpiresAt: expiresAt,
	})
	r.UpdatedAt = now

	return fmt.Sprintf(inviteLinkFormat, token), nil
}

// Redeem consumes an invite token and adds the user to the room. A token that
// is absent, expired or already used reads the same to the caller. Redeeming
// while already a member mutates nothing and leaves the invite live.
func (r *Room) Redeem(token, userID string, now time.Time) error {
	var invite *Invite
	for i := range r.Invites {
		inv := &r.Invites[i]
		if inv.Token == token && !inv.Used && inv.ExpiresAt.After(now) {
			invite = inv
			break
		}
	}
	if invite == nil {
		return ErrInviteNotFound
	}

	if r.IsMember(userID) {
		return ErrAlreadyMember
	}

	r.Members = append(r.Members, Member{User: userID, JoinedAt: now})
	invite.Used = true
	r.UpdatedAt = now
	return nil
}

// RemoveMember forcibly removes the target and purges every trace of their
// standing: membership, pre-invite listing and any moderator entry go
// together, so a removed user never lingers as a moderator.
func (r *Room) RemoveMember(actorID, targetID string, now time.Time) error {
	actorRole := r.RoleOf(actorID)
	targetIsModerator := r.moderatorEntry(targetID) != nil

	if !CanRemoveMember(actorRole, targetIsModerator) {
		return ErrForbidden
	}

	r.Members = removeMemberEntry(r.Members, targetID)
	r.InvitedUsers = removeString(r.InvitedUsers, targetID)
	r.Moderators = removeModeratorEntry(r.Moderators, targetID)
	r.UpdatedAt = now
	return nil
}

// Leave removes the user from members only. Moderator and blocked standing
// survive, so a user who leaves and is re-invited comes back with the role
// they had; forced removal is the operation that strips everything.
func (r *Room) Leave(userID string, now time.Time) error {
	if !r.IsMember(userID) {
		return ErrNotMember
	}

	r.Members = removeMemberEntry(r.Members, userID)
	r.UpdatedAt = now
	return nil
}

// AssignRole grants the target a moderator tier, replacing any tier they
// already hold. Re-assigning the tier the target already holds is rejected
// before any authorization check.
func (r *Room) AssignRole(actorID, targetID string, role Role, now time.Time) error {
	if !role.IsModeratorTier() {
		return fmt.Errorf("%w: %s is not an assignable role", ErrInvalidInput, role)
	}

	if mod := r.moderatorEntry(targetID); mod != nil && mod.Role == role {
		return ErrAlreadyAssigned
	}

	if !CanAssign(r.RoleOf(actorID), role) {
		return ErrForbidden
	}

	if mod := r.moderatorEntry(targetID); mod != nil {
		mod.Role = role
		mod.AssignedAt = now
	} else {
		r.Moderators = append(r.Moderators, Moderator{User: targetID, Role: role, AssignedAt: now})
	}
	r.UpdatedAt = now
	return nil
}

// RemoveModerator drops the target's moderator entry, leaving membership
// intact. The creator bypasses every check; anyone else must hold an entry
// that strictly outranks the target's.
func (r *Room) RemoveModerator(actorID, targetID string, now time.Time) error {
	if actorID == r.Creator {
		r.Moderators = removeModeratorEntry(r.Moderators, targetID)
		r.UpdatedAt = now
		return nil
	}

	actor := r.moderatorEntry(actorID)
	target := r.moderatorEntry(targetID)
	if actor == nil || target == nil {
		return ErrForbidden
	}
	if !CanRemoveModerator(actor.Role, target.Role) {
		return ErrForbidden
	}

	r.Moderators = removeModeratorEntry(r.Moderators, targetID)
	r.UpdatedAt = now
	return nil
}

// Block adds the target to the blocklist. Membership and moderator standing
// are untouched; a blocked member stays in the room but loses posting rights.
// The creator can never be blocked.
func (r *Room) Block(actorID, targetID string, now time.Time) error {
	if targetID == r.Creator {
		return ErrForbidden
	}
	if r.IsBlocked(targetID) {
		return ErrAlreadyBlocked
	}
	if !CanBlock(r.RoleOf(actorID), r.RoleOf(targetID)) {
		return ErrForbidden
	}

	r.BlockedUsers = append(r.BlockedUsers, targetID)
	r.UpdatedAt = now
	return nil
}

// TogglePrivacy flips the room between public and private. Creator or any
// moderator tier.
func (r *Room) TogglePrivacy(actorID string, now time.Time) error {
	role := r.RoleOf(actorID)
	if role != RoleCreator && !role.IsModeratorTier() {
		return ErrForbidden
	}

	if r.Mode == ModePrivate {
		r.Mode = ModePublic
	} else {
		r.Mode = ModePrivate
	}
	r.UpdatedAt = now
	return nil
}

// PostMessage appends one message, plus each media item to the room's media
// roll. The sender must be an unblocked member and the message must carry
// text or media.
func (r *Room) PostMessage(senderID, text string, media []MediaItem, now time.Time) (*Message, error) {
	if !r.IsMember(senderID) {
		return nil, ErrNotMember
	}
	if r.IsBlocked(senderID) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(text) == "" && len(media) == 0 {
		return nil, fmt.Errorf("%w: either text or media is required", ErrInvalidInput)
	}

	r.Media = append(r.Media, media...)

	msg := Message{
		ID:     uuid.NewString(),
		Sender: senderID,
		Text:   text,
		Media:  media,
		SentAt: now,
	}
	r.Messages = append(r.Messages, msg)
	r.UpdatedAt = now
	return &msg, nil
}

// DeleteMessage removes exactly one message. Only the original sender, a
// moderator-tier holder or the creator may do so.
func (r *Room) DeleteMessage(actorID, messageID string, now time.Time) error {
	var target *Message
	for i := range r.Messages {
		if r.Messages[i].ID == messageID {
			target = &r.Messages[i]
			break
		}
	}
	if target == nil {
		return ErrMessageNotFound
	}

	isSender := target.Sender == actorID
	isModerator := r.moderatorEntry(actorID) != nil
	isCreator := actorID == r.Creator
	if !isSender && !isModerator && !isCreator {
		return ErrForbidden
	}

	kept := r.Messages[:0]
	for _, m := range r.Messages {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	r.Messages = kept
	r.UpdatedAt = now
	return nil
}

// PurgeMessages clears the message log. Creator or any moderator tier;
// irreversible.
func (r *Room) PurgeMessages(actorID string, now time.Time) error {
	role := r.RoleOf(actorID)
	if role != RoleCreator && !role.IsModeratorTier() {
		return ErrForbidden
	}

	r.Messages = nil
	r.UpdatedAt = now
	return nil
}

// DeleteMedia removes one media item from the room's media roll. Copies of
// the item embedded in past messages are left as they were posted.
func (r *Room) DeleteMedia(actorID, mediaID string, now time.Time) error {
	var target *MediaItem
	for i := range r.Media {
		if r.Media[i].ID == mediaID {
			target = &r.Media[i]
			break
		}
	}
	if target == nil {
		return ErrMediaNotFound
	}

	isPoster := target.PostedBy == actorID
	isModerator := r.moderatorEntry(actorID) != nil
	isCreator := actorID == r.Creator
	if !isPoster && !isModerator && !isCreator {
		return ErrForbidden
	}

	kept := r.Media[:0]
	for _, m := range r.Media {
		if m.ID != mediaID {
			kept = append(kept, m)
		}
	}
	r.Media = kept
	r.UpdatedAt = now
	return nil
}

// ReadMedia returns the media roll. Private rooms require membership (the
// creator always qualifies); public rooms admit any resolved identity.
func (r *Room) ReadMedia(userID string) ([]MediaItem, error) {
	if r.Mode == ModePrivate && !r.IsMember(userID) && userID != r.Creator {
		return nil, ErrForbidden
	}
	return r.Media, nil
}

func removeMemberEntry(members []Member, userID string) []Member {
	kept := members[:0]
	for _, m := range members {
		if m.User != userID {
			kept = append(kept, m)
		}
	}
	return kept
}

func removeModeratorEntry(mods []Moderator, userID string) []Moderator {
	kept := mods[:0]
	for _, m := range mods {
		if m.User != userID {
			kept = append(kept, m)
		}
	}
	return kept
}

func removeString(values []string, v string) []string {
	kept := values[:0]
	for _, s := range values {
		if s != v {
			kept = append(kept, s)
		}
	}
	return kept
}

func generateInviteToken() (string, error) {
	var sb strings.Builder
	sb.Grow(inviteTokenLength)

	for i := 0; i < inviteTokenLength; i++ {
		n, err := rand.Int(rand.Reader, inviteCharsetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(inviteTokenChars[n.Int64()])
	}

	return sb.String(), nil
}

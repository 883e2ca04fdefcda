package domain

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Role is the position a user holds inside a single room. The zero value is
// RoleNonMember so a missing lookup never grants anything. Ordering is part
// of the contract: a higher constant outranks a lower one.
type Role int

const (
	RoleNonMember Role = iota
	RoleMember
	RoleHelper
	RoleModerator
	RoleCoHost
	RoleHost
	RoleCreator
)

const (
	roleNonMemberName = "non-member"
	roleMemberName    = "member"
	roleHelperName    = "helper"
	roleModeratorName = "moderator"
	roleCoHostName    = "co-host"
	roleHostName      = "host"
	roleCreatorName   = "creator"
)

var roleNames = map[Role]string{
	RoleNonMember: roleNonMemberName,
	RoleMember:    roleMemberName,
	RoleHelper:    roleHelperName,
	RoleModerator: roleModeratorName,
	RoleCoHost:    roleCoHostName,
	RoleHost:      roleHostName,
	RoleCreator:   roleCreatorName,
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseModeratorRole accepts only the four assignable moderator tiers.
// Creator and member are positions, never assigned roles.
func ParseModeratorRole(s string) (Role, error) {
	switch s {
	case roleHostName:
		return RoleHost, nil
	case roleCoHostName:
		return RoleCoHost, nil
	case roleModeratorName:
		return RoleModerator, nil
	case roleHelperName:
		return RoleHelper, nil
	}
	return RoleNonMember, fmt.Errorf("%w: unknown moderator role %q", ErrInvalidInput, s)
}

// IsModeratorTier reports whether the role is one of the four assignable
// moderator tiers (host, co-host, moderator, helper).
func (r Role) IsModeratorTier() bool {
	return r == RoleHost || r == RoleCoHost || r == RoleModerator || r == RoleHelper
}

// CanAssign reports whether an actor holding actorRole may grant the given
// moderator tier. The creator grants any tier; moderator-tier actors grant
// strictly lower tiers only.
func CanAssign(actorRole, assigned Role) bool {
	if !assigned.IsModeratorTier() {
		return false
	}
	if actorRole == RoleCreator {
		return true
	}
	return actorRole.IsModeratorTier() && assigned < actorRole
}

// CanRemoveModerator reports whether an actor may strip the target's
// moderator entry. The creator removes anyone; otherwise the actor must
// outrank the target strictly, so equal tiers can never remove each other.
func CanRemoveModerator(actorRole, targetRole Role) bool {
	if actorRole == RoleCreator {
		return true
	}
	if !actorRole.IsModeratorTier() || !targetRole.IsModeratorTier() {
		return false
	}
	return targetRole < actorRole
}

// blockable is the explicit table of who may block whom. Helpers hold the
// lowest moderator tier and have no blocking authority at all.
var blockable = map[Role][]Role{
	RoleHost:      {RoleCoHost, RoleModerator, RoleHelper, RoleMember, RoleNonMember},
	RoleCoHost:    {RoleModerator, RoleHelper, RoleMember, RoleNonMember},
	RoleModerator: {RoleMember, RoleNonMember},
}

// CanBlock reports whether an actor may block the target. The creator blocks
// anyone except themselves; that exception is enforced by Room.Block, which
// never lets the creator enter the blocklist.
func CanBlock(actorRole, targetRole Role) bool {
	if actorRole == RoleCreator {
		return true
	}
	for _, t := range blockable[actorRole] {
		if t == targetRole {
			return true
		}
	}
	return false
}

func parseRole(s string) (Role, error) {
	if s == roleCreatorName {
		return RoleCreator, nil
	}
	if s == roleMemberName {
		return RoleMember, nil
	}
	if s == roleNonMemberName {
		return RoleNonMember, nil
	}
	return ParseModeratorRole(s)
}

// Roles travel as their wire names, both in JSON payloads and in the room
// document, so stored rooms stay readable and stable across reorderings of
// the Go constants.

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := parseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(r.String())
}

func (r *Role) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var s string
	if err := bson.UnmarshalValue(t, data, &s); err != nil {
		return err
	}
	parsed, err := parseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// CanRemoveMember reports whether an actor may forcibly remove a member.
// Removing someone holding a moderator entry takes host or co-host standing;
// removing a plain member takes any moderator tier.
func CanRemoveMember(actorRole Role, targetIsModerator bool) bool {
	if actorRole == RoleCreator {
		return true
	}
	if targetIsModerator {
		return actorRole == RoleHost || actorRole == RoleCoHost
	}
	return actorRole.IsModeratorTier()
}

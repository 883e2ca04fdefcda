package domain

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrMessageNotFound   = errors.New("message not found")
	ErrMediaNotFound     = errors.New("media not found")

	// ErrInviteNotFound deliberately covers absent, expired and already-used
	// tokens so callers cannot probe which invites once existed.
	ErrInviteNotFound = errors.New("invite not found")

	ErrForbidden       = errors.New("forbidden")
	ErrNotMember       = errors.New("not a member")
	ErrAlreadyMember   = errors.New("already a member")
	ErrAlreadyBlocked  = errors.New("already blocked")
	ErrAlreadyAssigned = errors.New("role already assigned")

	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict signals a concurrent write detected by the version stamp.
	ErrConflict = errors.New("concurrent modification")
)

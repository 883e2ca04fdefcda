package domain

import "context"

// RoomRepository is the persistence contract for the Room aggregate. Update
// is a version-checked whole-document replace: it fails with ErrConflict when
// the stored version no longer matches the loaded one. Mutate is the
// serialization point every mutating operation goes through: on conflict it
// reloads the document and reapplies fn, so a lost update cannot slip through.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	GetByInviteToken(ctx context.Context, token string) (*Room, error)
	List(ctx context.Context, offset, limit int64) ([]Room, error)
	Update(ctx context.Context, room *Room) error
	Delete(ctx context.Context, id string) error
	Mutate(ctx context.Context, id string, fn func(*Room) error) (*Room, error)
}

package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/croudly/experience-api/internal/domain"
)

// mutateRetries is generous here: contention is process-local and each
// attempt only spans a map operation, so losing many races in a row is the
// pathological case, not the expensive one.
const mutateRetries = 50

type roomRepository struct {
	rooms          map[string]*domain.Room // ID -> Room
	tokenIndex     map[string]string       // invite token -> room ID
	lastAccess     map[string]time.Time    // ID -> last access time
	capacity       uint
	idleRoomExpiry time.Duration
	mu             *sync.RWMutex
}

// NewRoomRepository builds an in-memory room store. Rooms idle past the
// expiry are evicted lazily on the next write.
func NewRoomRepository(capacity uint, idleRoomExpiry time.Duration) domain.RoomRepository {
	if capacity == 0 {
		capacity = 100
	}
	if idleRoomExpiry == 0 {
		idleRoomExpiry = 30 * time.Minute
	}

	return &roomRepository{
		rooms:          make(map[string]*domain.Room),
		tokenIndex:     make(map[string]string),
		lastAccess:     make(map[string]time.Time),
		capacity:       capacity,
		idleRoomExpiry: idleRoomExpiry,
		mu:             &sync.RWMutex{},
	}
}

func (r *roomRepository) touch(roomID string) {
	r.lastAccess[roomID] = time.Now()
}

func (r *roomRepository) evictIdle() {
	cutoff := time.Now().Add(-r.idleRoomExpiry)
	for id, last := range r.lastAccess {
		if last.Before(cutoff) {
			r.dropLocked(id)
		}
	}
}

// enforceCapacity removes oldest-accessed rooms when over capacity.
func (r *roomRepository) enforceCapacity() {
	if uint(len(r.rooms)) <= r.capacity {
		return
	}

	type entry struct {
		id   string
		time time.Time
	}
	var entries []entry
	for id, t := range r.lastAccess {
		entries = append(entries, entry{id, t})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].time.Before(entries[j].time)
	})
	for i := 0; i < len(entries)-int(r.capacity); i++ {
		r.dropLocked(entries[i].id)
	}
}

func (r *roomRepository) dropLocked(id string) {
	if room, exists := r.rooms[id]; exists {
		for _, inv := range room.Invites {
			delete(r.tokenIndex, inv.Token)
		}
	}
	delete(r.rooms, id)
	delete(r.lastAccess, id)
}

// reindexLocked refreshes the token index for one room.
func (r *roomRepository) reindexLocked(room *domain.Room) {
	for _, inv := range room.Invites {
		r.tokenIndex[inv.Token] = room.ID
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictIdle()

	if _, exists := r.rooms[room.ID]; exists {
		return domain.ErrRoomAlreadyExists
	}

	r.enforceCapacity()

	stored := room.Clone()
	r.rooms[stored.ID] = stored
	r.reindexLocked(stored)
	r.touch(stored.ID)

	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}
	r.touch(id)

	return room.Clone(), nil
}

func (r *roomRepository) GetByInviteToken(ctx context.Context, token string) (*domain.Room, error) {
	if token == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, exists := r.tokenIndex[token]
	if !exists {
		return nil, domain.ErrInviteNotFound
	}
	room, exists := r.rooms[roomID]
	if !exists {
		return nil, domain.ErrInviteNotFound
	}

	now := time.Now()
	for _, inv := range room.Invites {
		if inv.Token == token && !inv.Used && inv.ExpiresAt.After(now) {
			r.touch(roomID)
			return room.Clone(), nil
		}
	}

	return nil, domain.ErrInviteNotFound
}

func (r *roomRepository) List(ctx context.Context, offset, limit int64) ([]domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return r.rooms[ids[i]].CreatedAt.After(r.rooms[ids[j]].CreatedAt)
	})

	if offset >= int64(len(ids)) {
		return []domain.Room{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > int64(len(ids)) {
		end = int64(len(ids))
	}

	out := make([]domain.Room, 0, end-offset)
	for _, id := range ids[offset:end] {
		out = append(out, *r.rooms[id].Clone())
	}

	return out, nil
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	if room == nil || room.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.rooms[room.ID]
	if !exists {
		return domain.ErrRoomNotFound
	}
	if existing.Version != room.Version {
		return domain.ErrConflict
	}

	r.evictIdle()

	stored := room.Clone()
	stored.Version++
	r.rooms[stored.ID] = stored
	r.reindexLocked(stored)
	r.touch(stored.ID)

	room.Version = stored.Version

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[id]; !exists {
		return domain.ErrRoomNotFound
	}

	r.dropLocked(id)

	return nil
}

func (r *roomRepository) Mutate(ctx context.Context, id string, fn func(*domain.Room) error) (*domain.Room, error) {
	var lastErr error
	for attempt := 0; attempt < mutateRetries; attempt++ {
		room, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(room); err != nil {
			return nil, err
		}

		if err := r.Update(ctx, room); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}

		return room, nil
	}

	return nil, lastErr
}

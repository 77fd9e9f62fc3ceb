// Package memory provides the in-memory adapters behind the core
// ports. The engine keeps all authoritative state in memory; these
// repositories are the only storage layer.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hotelops/reservation-engine/internal/core/domain"
)

// RoomRepository holds the hotel's room inventory keyed by room
// number.
type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[int]*domain.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{rooms: make(map[int]*domain.Room)}
}

// Add registers a room. Duplicate room numbers are rejected.
func (r *RoomRepository) Add(room *domain.Room) error {
	if room == nil {
		return fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rooms[room.Number]; exists {
		return fmt.Errorf("%w: room %d already exists", domain.ErrValidation, room.Number)
	}
	r.rooms[room.Number] = room
	return nil
}

// Remove withdraws a room from the inventory. A room with committed
// bookings, or one marked unavailable, cannot be removed.
func (r *RoomRepository) Remove(number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[number]
	if !ok {
		return fmt.Errorf("%w: room %d not found", domain.ErrValidation, number)
	}
	if !room.Removable() {
		return fmt.Errorf("%w: room %d is booked or unavailable", domain.ErrStateConflict, number)
	}
	delete(r.rooms, number)
	return nil
}

// GetByNumber returns the room or nil when unknown.
func (r *RoomRepository) GetByNumber(number int) *domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rooms[number]
}

// List returns all rooms ordered by room number.
func (r *RoomRepository) List() []*domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// ByType returns the rooms of one type ordered by room number.
func (r *RoomRepository) ByType(roomType domain.RoomType) []*domain.Room {
	var out []*domain.Room
	for _, room := range r.List() {
		if room.Type == roomType {
			out = append(out, room)
		}
	}
	return out
}

package messaging

import "github.com/croudly/experience-api/internal/domain"

const (
	RoomsQueue      = "experience_rooms"
	DeadLetterQueue = "dead_letter_queue"
)

type RoomEventData struct {
	Room domain.Room `json:"room"`
}

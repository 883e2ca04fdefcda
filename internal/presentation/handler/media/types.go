package media

import "github.com/croudly/experience-api/internal/domain"

// uploadMediaResponse represents the response after uploading media. The
// upload is posted into the room as a message carrying the single item.
type uploadMediaResponse struct {
	Media   domain.MediaItem `json:"media"`   // The stored media item
	Message *domain.Message  `json:"message"` // The message the item was posted with
}

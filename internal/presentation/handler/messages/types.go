package messages

import "github.com/croudly/experience-api/internal/domain"

// mediaItemRequest describes one media attachment on a message. Links carry
// their URL directly; uploaded media goes through the media endpoint first
// and references the returned URL here.
type mediaItemRequest struct {
	Type string `json:"type" example:"image"` // One of image, video, voice, link
	URL  string `json:"url"`                  // Where the media lives
}

// createMessageRequest represents a message to post into a room
type createMessageRequest struct {
	Text  string             `json:"text,omitempty" example:"Hello, world!"` // Message text, optional when media is present
	Media []mediaItemRequest `json:"media,omitempty"`                        // Attached media items
}

// createMessageResponse represents the response after posting a message
type createMessageResponse struct {
	Message *domain.Message `json:"message"` // The stored message
}

package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// PhotoPayload is the transfer representation a client may supply when
// creating or editing a photo. It never carries an identifier or an owner.
type PhotoPayload struct {
	Title       string  `json:"title" binding:"required"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
}

// PhotoResponse describes a stored photo as returned by the list endpoint.
type PhotoResponse struct {
	ID          int       `json:"id"`
	Auth        string    `json:"auth"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newPhotoResponse(photo domain.Photo) PhotoResponse {
	return PhotoResponse{
		ID:          photo.ID,
		Auth:        photo.Auth,
		Title:       photo.Title,
		URL:         photo.URL,
		Description: photo.Description,
		CreatedAt:   photo.CreatedAt,
		UpdatedAt:   photo.UpdatedAt,
	}
}

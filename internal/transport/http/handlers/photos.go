package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FrancoTaaber/photos-api/internal/transport/http/middleware"
	"github.com/FrancoTaaber/photos-api/internal/usecase"
)

// PhotoHandler exposes the photo CRUD surface over HTTP.
type PhotoHandler struct {
	photos *usecase.PhotoService
}

// NewPhotoHandler constructs a PhotoHandler.
func NewPhotoHandler(photos *usecase.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// ListPhotos returns the full current set of photos.
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		actor = middleware.AnonymousActor(c)
	}
	actor.Origin = c.ClientIP()

	photos, err := h.photos.List(c.Request.Context(), actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list photos"))
		return
	}

	response := make([]PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		response = append(response, newPhotoResponse(photo))
	}

	c.JSON(http.StatusOK, response)
}

// AddPhoto creates a new photo owned by the authenticated caller. Creation is
// rate limited per actor; a denied consume yields 429 with a Retry-After
// header and no other side effect.
func (h *PhotoHandler) AddPhoto(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}
	actor.Origin = c.ClientIP()

	var payload PhotoPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid photo payload"))
		return
	}

	_, err := h.photos.Create(c.Request.Context(), actor, usecase.PhotoInput{
		Title:       payload.Title,
		URL:         payload.URL,
		Description: payload.Description,
	})
	if err != nil {
		var limited *usecase.RateLimitedError
		if errors.As(err, &limited) {
			seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
			if seconds < 0 {
				seconds = 0
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.JSON(http.StatusTooManyRequests, NewErrorResponse(c, "too many photo creations, retry later"))
			return
		}

		RespondWithMappedError(c, err, http.StatusInternalServerError, "failed to create photo",
			ErrorCase{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "photo title is required"},
		)
		return
	}

	c.Status(http.StatusOK)
}

// EditPhoto replaces the mutable fields of the photo addressed by the path
// identifier. The caller must own the record.
func (h *PhotoHandler) EditPhoto(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}
	actor.Origin = c.ClientIP()

	photoID, err := strconv.Atoi(c.Param("photo_id"))
	if err != nil || photoID <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid photo id"))
		return
	}

	var payload PhotoPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid photo payload"))
		return
	}

	_, err = h.photos.Edit(c.Request.Context(), actor, photoID, usecase.PhotoInput{
		Title:       payload.Title,
		URL:         payload.URL,
		Description: payload.Description,
	})
	if err != nil {
		RespondWithMappedError(c, err, http.StatusInternalServerError, "failed to edit photo",
			ErrorCase{Err: usecase.ErrPhotoNotFound, Status: http.StatusNotFound, Message: "photo not found"},
			ErrorCase{Err: usecase.ErrNotOwner, Status: http.StatusForbidden, Message: "photo is owned by another user"},
			ErrorCase{Err: usecase.ErrTitleRequired, Status: http.StatusBadRequest, Message: "photo title is required"},
		)
		return
	}

	c.Status(http.StatusOK)
}

// DeletePhoto removes the photo addressed by the path identifier. The route
// table only admits callers holding the admin role.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "invalid authentication"))
		return
	}
	actor.Origin = c.ClientIP()

	photoID, err := strconv.Atoi(c.Param("photo_id"))
	if err != nil || photoID <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid photo id"))
		return
	}

	if _, err := h.photos.Delete(c.Request.Context(), actor, photoID); err != nil {
		RespondWithMappedError(c, err, http.StatusInternalServerError, "failed to delete photo",
			ErrorCase{Err: usecase.ErrPhotoNotFound, Status: http.StatusNotFound, Message: "photo not found"},
		)
		return
	}

	c.Status(http.StatusOK)
}

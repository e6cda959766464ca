package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
	"github.com/FrancoTaaber/photos-api/internal/core/port"
	"github.com/FrancoTaaber/photos-api/internal/repository"
)

var (
	// ErrPhotoNotFound indicates the requested photo does not exist.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrNotOwner indicates the caller does not own the target photo.
	ErrNotOwner = errors.New("photo not owned by caller")
	// ErrRateLimited indicates the caller exhausted the creation allowance.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrTitleRequired indicates the payload carried no usable title.
	ErrTitleRequired = errors.New("photo title is required")
)

// RateLimitedError wraps ErrRateLimited with the delay after which the caller
// may retry. Handlers surface it as a Retry-After header.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// Actor identifies the authenticated caller of an operation. Identity is
// passed explicitly into every operation rather than read from ambient state.
type Actor struct {
	Name   string
	Roles  []string
	Origin string
}

// HasRole reports whether the actor holds the named role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PhotoInput is the transfer representation of a photo: the fields a client
// may supply. It is mapped one way into a domain.Photo and never sets the
// identifier or the owner.
type PhotoInput struct {
	Title       string
	URL         string
	Description *string
}

// CreatePolicy bounds how often a single actor may create photos.
type CreatePolicy struct {
	Limit  int
	Window time.Duration
}

// PhotoService orchestrates the photo operations: rate limiting on create,
// ownership checks on edit, change broadcasting, and audit logging.
type PhotoService struct {
	photos    port.PhotoRepository
	attempts  port.RateLimitStore
	publisher port.ChangePublisher
	audit     port.AuditLog
	policy    CreatePolicy
	logger    *zap.Logger
	now       func() time.Time
}

// NewPhotoService constructs a PhotoService.
func NewPhotoService(photos port.PhotoRepository, attempts port.RateLimitStore, publisher port.ChangePublisher, audit port.AuditLog, policy CreatePolicy, logger *zap.Logger) *PhotoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhotoService{
		photos:    photos,
		attempts:  attempts,
		publisher: publisher,
		audit:     audit,
		policy:    policy,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *PhotoService) WithClock(clock func() time.Time) *PhotoService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// List returns the full current set of photos. The only side effect is the
// audit entry recording the access and its origin.
func (s *PhotoService) List(ctx context.Context, actor Actor) ([]domain.Photo, error) {
	photos, err := s.photos.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}

	s.recordAudit(ctx, domain.AuditEntry{
		Action: domain.AuditActionList,
		Actor:  actor.Name,
		Origin: actor.Origin,
	})

	return photos, nil
}

// Create maps the payload to a new photo owned by the actor, persists it, and
// broadcasts the persisted state. A denied rate-limit consume aborts before
// any other side effect.
func (s *PhotoService) Create(ctx context.Context, actor Actor, input PhotoInput) (*domain.Photo, error) {
	allowed, retryAfter, err := s.tryConsume(ctx, actor.Name)
	if err != nil {
		// The store being unreachable must not take photo creation down
		// with it; the limiter degrades to allowing the request.
		s.logger.Warn("rate limit check failed", zap.String("actor", actor.Name), zap.Error(err))
	} else if !allowed {
		return nil, &RateLimitedError{RetryAfter: retryAfter}
	}

	photo, err := s.mapPhoto(input)
	if err != nil {
		return nil, err
	}
	photo.Auth = actor.Name

	if err := s.photos.Save(ctx, photo); err != nil {
		return nil, fmt.Errorf("create photo: %w", err)
	}

	s.broadcast(ctx, *photo)
	s.recordAudit(ctx, domain.AuditEntry{
		Action:  domain.AuditActionCreate,
		Actor:   actor.Name,
		Origin:  actor.Origin,
		PhotoID: photo.ID,
		After:   photo,
	})

	return photo, nil
}

// Edit replaces the mutable fields of an existing photo. The record must be
// owned by the actor; the persisted identifier always comes from the path
// argument and the original owner and creation time are preserved.
func (s *PhotoService) Edit(ctx context.Context, actor Actor, id int, input PhotoInput) (*domain.Photo, error) {
	existing, err := s.photos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("lookup photo %d: %w", id, err)
	}

	if !existing.OwnedBy(actor.Name) {
		return nil, ErrNotOwner
	}

	// Snapshot at authorization time, immune to later in-place mutation.
	snapshot := existing.Clone()

	photo, err := s.mapPhoto(input)
	if err != nil {
		return nil, err
	}
	photo.ID = id
	photo.Auth = snapshot.Auth
	photo.CreatedAt = snapshot.CreatedAt

	if err := s.photos.Save(ctx, photo); err != nil {
		return nil, fmt.Errorf("edit photo %d: %w", id, err)
	}

	s.broadcast(ctx, *photo)
	s.recordAudit(ctx, domain.AuditEntry{
		Action:  domain.AuditActionEdit,
		Actor:   actor.Name,
		Origin:  actor.Origin,
		PhotoID: id,
		Before:  &snapshot,
		After:   photo,
	})

	return photo, nil
}

// Delete removes a photo by identifier and broadcasts the pre-deletion
// snapshot. The admin capability is enforced by the route table before the
// request reaches this operation.
func (s *PhotoService) Delete(ctx context.Context, actor Actor, id int) (*domain.Photo, error) {
	existing, err := s.photos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("lookup photo %d: %w", id, err)
	}

	snapshot := existing.Clone()

	if err := s.photos.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("delete photo %d: %w", id, err)
	}

	s.broadcast(ctx, snapshot)
	s.recordAudit(ctx, domain.AuditEntry{
		Action:  domain.AuditActionDelete,
		Actor:   actor.Name,
		Origin:  actor.Origin,
		PhotoID: id,
		Before:  &snapshot,
	})

	return &snapshot, nil
}

// mapPhoto builds a fresh entity from the transfer representation. No
// identifier or owner is assigned here.
func (s *PhotoService) mapPhoto(input PhotoInput) (*domain.Photo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := s.now()
	photo := &domain.Photo{
		Title:     title,
		URL:       strings.TrimSpace(input.URL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			photo.Description = &trimmed
		}
	}

	return photo, nil
}

// tryConsume delegates the check-and-record to the attempt store, which
// performs both in a single atomic step so concurrent creates cannot slip
// past the limit together. On denial the retry delay is derived from the
// oldest attempt still holding the window.
func (s *PhotoService) tryConsume(ctx context.Context, identifier string) (bool, time.Duration, error) {
	if s.attempts == nil || s.policy.Limit <= 0 || s.policy.Window <= 0 {
		return true, 0, nil
	}

	now := s.now()

	allowed, oldest, err := s.attempts.TryConsume(ctx, identifier, s.policy.Limit, s.policy.Window, now)
	if err != nil {
		return false, 0, err
	}

	if !allowed {
		retryAfter := s.policy.Window
		if !oldest.IsZero() {
			retryAfter = oldest.Add(s.policy.Window).Sub(now)
			if retryAfter < 0 {
				retryAfter = 0
			}
		}
		return false, retryAfter, nil
	}

	return true, 0, nil
}

// broadcast publishes the photo state on the change topic. Broadcast happens
// after the authoritative persist and is not transactional with it; a publish
// failure is logged and does not fail the request.
func (s *PhotoService) broadcast(ctx context.Context, photo domain.Photo) {
	if s.publisher == nil {
		return
	}

	event := domain.PhotoChangedEvent{
		EventID:    uuid.NewString(),
		Photo:      photo,
		OccurredAt: s.now(),
	}

	if err := s.publisher.PublishPhotoChanged(ctx, event); err != nil {
		s.logger.Warn("publish photo change failed",
			zap.Int("photo_id", photo.ID),
			zap.Error(err),
		)
	}
}

func (s *PhotoService) recordAudit(ctx context.Context, entry domain.AuditEntry) {
	if s.audit == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.audit.Record(ctx, entry)
}

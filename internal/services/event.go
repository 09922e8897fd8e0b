package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/forms"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/store"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrSlugTaken     = errors.New("this URL slug is already in use")
	ErrInvalidStart  = errors.New("invalid start time")
)

// slugAttempts bounds retries when a derived slug loses an insert race.
const slugAttempts = 3

type EventService struct {
	store    *store.Store
	cache    core.Cache[models.Event]
	cacheTTL time.Duration
	audit    *AuditService
	metrics  core.Recorder
	location *time.Location
	now      func() time.Time
}

func NewEventService(
	s *store.Store,
	cache core.Cache[models.Event],
	cacheTTL time.Duration,
	audit *AuditService,
	metrics core.Recorder,
) *EventService {
	return &EventService{
		store:    s,
		cache:    cache,
		cacheTTL: cacheTTL,
		audit:    audit,
		metrics:  metrics,
		location: time.UTC,
		now:      time.Now,
	}
}

func eventCacheKey(slug string) string {
	return "event:" + slug
}

// Create stores a new event owned by owner. An explicit slug must be free
// (ErrSlugTaken); otherwise one is derived from the title and made unique.
func (s *EventService) Create(
	ctx context.Context,
	owner *models.User,
	form forms.CreateEventForm,
) (*models.Event, error) {
	startsAt, err := time.ParseInLocation(forms.StartsAtLayout, form.StartsAt, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStart, err)
	}

	event := &models.Event{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		StartsAt:    startsAt,
		Capacity:    form.Capacity,
		OwnerID:     owner.ID,
	}

	if form.Slug != "" {
		event.ID = uuid.New().String()
		event.Slug = form.Slug
		err = s.store.CreateEvent(ctx, event)
	} else {
		err = s.createWithDerivedSlug(ctx, event)
	}

	s.metrics.RecordEventCreated(err == nil)
	if errors.Is(err, store.ErrSlugTaken) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		s.metrics.RecordDatabaseQueryError("create_event")
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	// a cached miss page for this slug must not outlive the insert
	if err := s.cache.Delete(ctx, eventCacheKey(event.Slug)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate event cache", "slug", event.Slug, "error", err)
	}

	s.audit.Log(ctx, AuditLogEntry{
		EventType:    models.EventEventCreated,
		ActorUserID:  owner.ID,
		ActorEmail:   owner.Email,
		ResourceType: models.ResourceEvent,
		ResourceID:   event.ID,
		ResourceName: event.Title,
		Action:       "Event created",
		Details:      models.AuditDetails{"slug": event.Slug},
		Success:      true,
	})

	return event, nil
}

func (s *EventService) createWithDerivedSlug(ctx context.Context, event *models.Event) error {
	base := Slugify(event.Title)

	var err error
	for range slugAttempts {
		taken, listErr := s.store.EventSlugsWithPrefix(ctx, base)
		if listErr != nil {
			return listErr
		}

		event.ID = uuid.New().String()
		event.Slug = uniqueSlug(base, taken)

		err = s.store.CreateEvent(ctx, event)
		if !errors.Is(err, store.ErrSlugTaken) {
			return err
		}
	}
	return err
}

// GetBySlug returns the event at /events/<slug>, read through the cache.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	slug = strings.ToLower(slug)
	if !forms.ValidSlug(slug) {
		return nil, ErrEventNotFound
	}

	event, err := s.cache.GetWithFetch(
		ctx,
		eventCacheKey(slug),
		s.cacheTTL,
		func(ctx context.Context, _ string) (models.Event, error) {
			found, err := s.store.GetEventBySlug(ctx, slug)
			if err != nil {
				return models.Event{}, err
			}
			return *found, nil
		},
	)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		s.metrics.RecordDatabaseQueryError("get_event_by_slug")
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	return &event, nil
}

// ListUpcoming returns events that have not started yet, soonest first.
func (s *EventService) ListUpcoming(
	ctx context.Context,
	params store.PaginationParams,
) ([]models.Event, store.PaginationResult, error) {
	events, page, err := s.store.ListUpcomingEvents(ctx, s.now(), params)
	if err != nil {
		s.metrics.RecordDatabaseQueryError("list_upcoming_events")
		return nil, store.PaginationResult{}, err
	}
	return events, page, nil
}

package store

import (
	"context"
	"strings"
	"time"

	"github.com/go-authgate/eventgate/internal/models"
)

// CreateEvent inserts event. ErrSlugTaken when the slug is in use.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	return translate(s.db.WithContext(ctx).Create(event).Error, ErrSlugTaken)
}

func (s *Store) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error; err != nil {
		return nil, translate(err, nil)
	}
	return &event, nil
}

// EventSlugsWithPrefix returns every slug equal to prefix or starting with
// prefix followed by "-".
func (s *Store) EventSlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var slugs []string
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where(`slug = ? OR slug LIKE ? ESCAPE '\'`, prefix, escapeLike(prefix)+"-%").
		Pluck("slug", &slugs).
		Error
	return slugs, err
}

// ListUpcomingEvents returns events starting at or after now, soonest first.
func (s *Store) ListUpcomingEvents(
	ctx context.Context,
	now time.Time,
	params PaginationParams,
) ([]models.Event, PaginationResult, error) {
	query := s.db.WithContext(ctx).Model(&models.Event{}).Where("starts_at >= ?", now)
	if search := strings.TrimSpace(params.Search); search != "" {
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(search))+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, PaginationResult{}, err
	}

	var events []models.Event
	err := query.
		Order("starts_at ASC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&events).
		Error
	if err != nil {
		return nil, PaginationResult{}, err
	}

	return events, CalculatePagination(total, params.Page, params.PageSize), nil
}

// escapeLike neutralises LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Store) CountUpcomingEvents(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("starts_at >= ?", now).
		Count(&count).
		Error
	return count, err
}

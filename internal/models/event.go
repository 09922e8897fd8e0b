package models

import (
	"time"
)

// Event is a scheduled gathering reachable at /events/<Slug>.
type Event struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"         json:"id"`
	Slug        string    `gorm:"uniqueIndex;type:varchar(64);not null" json:"slug"`
	Title       string    `gorm:"type:varchar(120);not null"          json:"title"`
	Description string    `gorm:"type:text"                           json:"description"`
	Location    string    `gorm:"type:varchar(200)"                   json:"location"`
	StartsAt    time.Time `gorm:"index;not null"                      json:"starts_at"`
	Capacity    int       `                                           json:"capacity"` // 0 means unlimited
	OwnerID     string    `gorm:"type:varchar(36);index;not null"     json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPast reports whether the event started before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.StartsAt.Before(now)
}

// Path is the site-relative URL of the event page.
func (e *Event) Path() string {
	return "/events/" + e.Slug
}

package templates

import (
	"github.com/go-authgate/eventgate/internal/forms"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/store"
)

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	CSRFToken string
}

// NavbarProps contains properties for the navigation bar
type NavbarProps struct {
	UserEmail  string // empty when signed out
	ActiveLink string // "home", "events", "new-event", "account"
}

// ===== Page Props Structures =====

type ErrorPageProps struct {
	BaseProps
	NavbarProps
	Error   string
	Message string
}

type HomePageProps struct {
	BaseProps
	NavbarProps
	Upcoming []models.Event
}

type LoginPageProps struct {
	BaseProps
	NavbarProps
	Email    string
	Redirect string // already sanitised
	Error    string
	Notice   string
	Errors   forms.Errors
}

type SignUpPageProps struct {
	BaseProps
	NavbarProps
	Email    string
	FullName string
	Redirect string
	Errors   forms.Errors
}

type ForgotPasswordPageProps struct {
	BaseProps
	NavbarProps
	Email    string
	Redirect string
	Sent     bool
	Errors   forms.Errors
}

type ResetPasswordPageProps struct {
	BaseProps
	NavbarProps
	Token    string
	Redirect string
	Error    string // token problem; the form is hidden when set
	Errors   forms.Errors
}

type AccountPageProps struct {
	BaseProps
	NavbarProps
	User          *models.User
	Redirect      string
	Notice        string
	Email         string
	FullName      string
	EmailErrors   forms.Errors
	ProfileErrors forms.Errors
	Activity      []models.AuditLog
}

type EventsPageProps struct {
	BaseProps
	NavbarProps
	Events     []models.Event
	Pagination store.PaginationResult
	Search     string
}

type EventPageProps struct {
	BaseProps
	NavbarProps
	Event   *models.Event
	IsPast  bool
	IsOwner bool
	Created bool
}

type NewEventPageProps struct {
	BaseProps
	NavbarProps
	Form   forms.CreateEventForm
	Errors forms.Errors
}

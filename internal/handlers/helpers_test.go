package handlers

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-authgate/eventgate/internal/cache"
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/metrics"
	"github.com/go-authgate/eventgate/internal/middleware"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://events.example.com/"

// outbox is a core.Mailer that keeps every message.
type outbox struct {
	mu   sync.Mutex
	sent []core.Message
}

func (o *outbox) Send(_ context.Context, msg core.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) Name() string { return "outbox" }

func (o *outbox) messages() []core.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]core.Message(nil), o.sent...)
}

type testApp struct {
	router   *gin.Engine
	store    *store.Store
	accounts *services.AccountService
	audit    *services.AuditService
	mail     *outbox
}

type appOption func(*appConfig)

type appConfig struct {
	auditEnabled bool
	recorder     core.Recorder
}

func withAudit() appOption { return func(c *appConfig) { c.auditEnabled = true } }

func withRecorder(r core.Recorder) appOption { return func(c *appConfig) { c.recorder = r } }

func newTestApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()
	cfg := appConfig{recorder: metrics.NewNoopMetrics()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	audit := services.NewAuditService(s, cfg.auditEnabled, 100)
	mail := &outbox{}
	accounts := services.NewAccountService(
		s,
		token.NewResetTokenProvider("test-secret", "eventgate-test", time.Hour),
		mail,
		audit,
		cfg.recorder,
		services.AccountConfig{BaseURL: testBaseURL, MailFrom: "no-reply@example.com"},
	)
	events := services.NewEventService(s, cache.NewMemoryCache[models.Event](), time.Minute, audit, cfg.recorder)
	redirects := NewRedirectGuard(cfg.recorder, audit)

	authHandler := NewAuthHandler(accounts, redirects)
	passwordHandler := NewPasswordHandler(accounts, redirects)
	accountHandler := NewAccountHandler(accounts, audit, redirects)
	activityHandler := NewActivityHandler(audit)
	eventHandler := NewEventHandler(events)
	homeHandler := NewHomeHandler(events)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(
		sessions.Sessions("eventgate_test", cookie.NewStore([]byte("test-session-secret"))),
		middleware.RequestInfoMiddleware(),
		middleware.LoadUser(accounts),
		middleware.CSRFMiddleware(),
	)
	r.NoRoute(NotFound)

	r.GET("/health", NewHealthHandler(s, map[string]HealthChecker{
		"event_cache": cache.NewMemoryCache[models.Event](),
	}).Health)
	r.GET("/", homeHandler.Home)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/signup", authHandler.SignUpPage)
	r.POST("/signup", authHandler.SignUp)
	r.GET("/logout", authHandler.Logout)
	r.GET("/forgot-password", passwordHandler.ForgotPasswordPage)
	r.POST("/forgot-password", passwordHandler.ForgotPassword)
	r.GET("/reset-password", passwordHandler.ResetPasswordPage)
	r.POST("/reset-password", passwordHandler.ResetPassword)
	r.GET("/events", eventHandler.ListEvents)
	r.GET("/events/:slug", eventHandler.ShowEvent)

	protected := r.Group("", middleware.RequireAuth())
	protected.GET("/account", accountHandler.AccountPage)
	protected.POST("/account/email", accountHandler.UpdateEmail)
	protected.POST("/account/profile", accountHandler.UpdateProfile)
	protected.GET("/account/activity", activityHandler.ListActivity)
	protected.GET("/account/activity.csv", activityHandler.ExportActivity)
	protected.GET("/events/new", eventHandler.NewEventPage)
	protected.POST("/events", eventHandler.CreateEvent)

	return &testApp{router: r, store: s, accounts: accounts, audit: audit, mail: mail}
}

// browser keeps cookies between requests, like a single browser tab.
type browser struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	req.RemoteAddr = "192.0.2.10:4321"
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}
	return w
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

var csrfField = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// csrfToken loads a page and returns its CSRF token.
func (b *browser) csrfToken(page string) string {
	b.t.Helper()
	w := b.get(page)
	m := csrfField.FindStringSubmatch(w.Body.String())
	require.Len(b.t, m, 2, "no csrf_token on %s (status %d)", page, w.Code)
	return m[1]
}

// post submits values to target with the CSRF token from page.
func (b *browser) post(page, target string, values url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	values.Set("csrf_token", b.csrfToken(page))
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// signUp creates an account through the form and leaves the browser logged in.
func (b *browser) signUp(email, password string) {
	b.t.Helper()
	w := b.post("/signup", "/signup", url.Values{
		"email":     {email},
		"password":  {password},
		"full_name": {"Test User"},
	})
	require.Equal(b.t, http.StatusFound, w.Code, w.Body.String())
}

func hiddenRedirect(body string) string {
	m := regexp.MustCompile(`name="redirect" value="([^"]*)"`).FindStringSubmatch(body)
	if len(m) != 2 {
		return ""
	}
	return html.UnescapeString(m[1])
}

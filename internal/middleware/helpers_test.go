package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-authgate/eventgate/internal/mailer"
	"github.com/go-authgate/eventgate/internal/metrics"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/token"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))

	return r
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func newTestAccounts(s *store.Store) *services.AccountService {
	return services.NewAccountService(
		s,
		token.NewResetTokenProvider("test-secret", "eventgate-test", time.Hour),
		mailer.NewLogMailer(nil),
		services.NewAuditService(s, false, 0),
		metrics.NewNoopMetrics(),
		services.AccountConfig{BaseURL: "http://localhost:8080/", MailFrom: "test@example.com"},
	)
}

// loginRoute registers GET /test-login?id=<user id>, which starts a session.
func loginRoute(r *gin.Engine) {
	r.GET("/test-login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUserID, c.Query("id"))
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})
}

// do serves a request with the given cookies and returns the recorder. Like
// httptest.NewRequest it gives the request a remote address, which gin needs
// before it trusts X-Forwarded-For.
func do(r http.Handler, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	if req.RemoteAddr == "" {
		req.RemoteAddr = "192.0.2.1:1234"
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, target, nil)
	return do(r, req, cookies)
}

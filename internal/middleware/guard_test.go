package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragavi522/knee-prime-assessment/internal/auth"
	"github.com/ragavi522/knee-prime-assessment/internal/guard"
	"github.com/ragavi522/knee-prime-assessment/internal/otp"
	"github.com/ragavi522/knee-prime-assessment/internal/profile"
	"github.com/ragavi522/knee-prime-assessment/internal/session"
)

type noopResolver struct{}

func (noopResolver) ByPhone(ctx context.Context, phone string) (*profile.Profile, error) {
	return nil, profile.ErrNotFound
}

func (noopResolver) Provision(ctx context.Context, phone string) (*profile.Profile, error) {
	return &profile.Profile{ID: "p1", Phone: phone, Role: profile.RolePatient}, nil
}

func newGuardedRouter(t *testing.T) (*gin.Engine, *auth.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := auth.NewStore(otp.NewBypassGateway(), noopResolver{}, session.NewMemoryStore(), true)
	routes := guard.DefaultRoutes()

	router := gin.New()
	pages := router.Group("/")
	pages.Use(NewGuard(store, routes).Handle())
	for _, path := range append(routes.Protected, routes.Public...) {
		pages.GET(path, func(c *gin.Context) {
			c.String(http.StatusOK, "page")
		})
	}

	api := router.Group("/api")
	api.Use(RequireAuth(store))
	api.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})

	return router, store
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func getWithSession(router *gin.Engine, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// login authenticates the store and returns the session id the client
// would hold in its cookie.
func login(t *testing.T, store *auth.Store) string {
	t.Helper()
	_, err := store.VerifyCode(context.Background(), "6591234567", "123456")
	require.NoError(t, err)
	return store.Snapshot().SessionID
}

func TestGuardRedirectsUnauthenticatedFromProtected(t *testing.T) {
	router, _ := newGuardedRouter(t)

	w := get(router, "/dashboard")
	require.Equal(t, http.StatusFound, w.Code)

	location := w.Header().Get("Location")
	assert.Contains(t, location, "/login")
	assert.Contains(t, location, "notice=")
	assert.NotContains(t, location, "expired", "no expiry notice without an expired record")
}

func TestGuardRedirectsAuthenticatedOffLoginPages(t *testing.T) {
	router, store := newGuardedRouter(t)
	sid := login(t, store)

	for _, path := range []string{"/login", "/general-login"} {
		w := getWithSession(router, path, sid)
		require.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	}
}

func TestGuardAllowsAuthenticatedOnProtected(t *testing.T) {
	router, store := newGuardedRouter(t)
	sid := login(t, store)

	w := getWithSession(router, "/dashboard", sid)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardIgnoresSessionWithoutItsCookie(t *testing.T) {
	router, store := newGuardedRouter(t)
	login(t, store)

	// A different client without the cookie must not ride the session.
	w := get(router, "/dashboard")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")

	// Nor one presenting a made-up session id.
	w = getWithSession(router, "/dashboard", "forged")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login")
}

func TestGuardLeavesOpenPathsAlone(t *testing.T) {
	router, _ := newGuardedRouter(t)

	w := get(router, "/privacy-policy")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthOnAPI(t *testing.T) {
	router, store := newGuardedRouter(t)

	w := get(router, "/api/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sid := login(t, store)

	w = getWithSession(router, "/api/me", sid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "p1")

	// No cookie or a wrong cookie stays unauthorized even while the
	// session is live.
	w = get(router, "/api/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithSession(router, "/api/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBypassIndicatorHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(BypassIndicator(true))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(router, "/health")
	assert.Equal(t, "active", w.Header().Get("X-Otp-Bypass"))

	off := gin.New()
	off.Use(BypassIndicator(false))
	off.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w = get(off, "/health")
	assert.Empty(t, w.Header().Get("X-Otp-Bypass"))
}

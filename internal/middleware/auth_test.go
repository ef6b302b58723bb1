package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/identity"
	"messaging-service/internal/middleware"
	"messaging-service/internal/mocks"
)

func authRouter(resolver identity.Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(resolver))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"profile_id": c.GetString("profileID")})
	})
	return r
}

func doAuth(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareSetsProfileID(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	resolver.On("Resolve", mock.Anything, "tok-123").Return("p1", nil).Once()

	w := doAuth(authRouter(resolver), "Bearer tok-123")

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"profile_id":"p1"}`, w.Body.String())
	resolver.AssertExpectations(t)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	resolver := new(mocks.ResolverMock)

	w := doAuth(authRouter(resolver), "")

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	resolver := new(mocks.ResolverMock)

	for _, header := range []string{"tok-123", "Basic dXNlcg=="} {
		w := doAuth(authRouter(resolver), header)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestAuthMiddlewareCaseInsensitiveScheme(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	resolver.On("Resolve", mock.Anything, "tok-123").Return("p1", nil).Once()

	w := doAuth(authRouter(resolver), "bearer tok-123")

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectedToken(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	resolver.On("Resolve", mock.Anything, "tok-123").Return("", identity.ErrUnauthenticated).Once()

	w := doAuth(authRouter(resolver), "Bearer tok-123")

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareNoProfile(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	resolver.On("Resolve", mock.Anything, "tok-123").Return("", identity.ErrProfileNotFound).Once()

	w := doAuth(authRouter(resolver), "Bearer tok-123")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddlewareResolutionFailure(t *testing.T) {
	resolver := new(mocks.ResolverMock)
	resolver.On("Resolve", mock.Anything, "tok-123").Return("", errors.New("provider down")).Once()

	w := doAuth(authRouter(resolver), "Bearer tok-123")

	require.Equal(t, http.StatusBadGateway, w.Code)
}

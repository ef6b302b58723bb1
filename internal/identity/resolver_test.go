package identity_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/identity"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func providerServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "anon", r.Header.Get("apikey"))
		require.Equal(t, "Bearer caller-token", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
}

func TestResolve(t *testing.T) {
	srv := providerServer(t, http.StatusOK, `{"id":"ext-1"}`)
	defer srv.Close()

	profiles := new(mocks.ProfileRepositoryMock)
	profiles.On("FindByExternalID", mock.Anything, "ext-1").
		Return(&models.Profile{ID: "p1"}, nil).Once()

	resolver := identity.NewProviderResolver(identity.ProviderConfig{BaseURL: srv.URL, APIKey: "anon"}, srv.Client(), profiles)

	id, err := resolver.Resolve(context.Background(), "caller-token")
	require.NoError(t, err)
	require.Equal(t, "p1", id)
	profiles.AssertExpectations(t)
}

func TestResolveEmptyToken(t *testing.T) {
	resolver := identity.NewProviderResolver(identity.ProviderConfig{}, nil, nil)

	_, err := resolver.Resolve(context.Background(), "")
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestResolveRejectedToken(t *testing.T) {
	srv := providerServer(t, http.StatusUnauthorized, `{"message":"invalid JWT"}`)
	defer srv.Close()

	resolver := identity.NewProviderResolver(identity.ProviderConfig{BaseURL: srv.URL, APIKey: "anon"}, srv.Client(), nil)

	_, err := resolver.Resolve(context.Background(), "caller-token")
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestResolveProviderFailure(t *testing.T) {
	srv := providerServer(t, http.StatusInternalServerError, ``)
	defer srv.Close()

	resolver := identity.NewProviderResolver(identity.ProviderConfig{BaseURL: srv.URL, APIKey: "anon"}, srv.Client(), nil)

	_, err := resolver.Resolve(context.Background(), "caller-token")
	require.Error(t, err)
	require.NotErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestResolveNoProfile(t *testing.T) {
	srv := providerServer(t, http.StatusOK, `{"id":"ext-1"}`)
	defer srv.Close()

	profiles := new(mocks.ProfileRepositoryMock)
	profiles.On("FindByExternalID", mock.Anything, "ext-1").Return(nil, nil).Once()

	resolver := identity.NewProviderResolver(identity.ProviderConfig{BaseURL: srv.URL, APIKey: "anon"}, srv.Client(), profiles)

	_, err := resolver.Resolve(context.Background(), "caller-token")
	require.ErrorIs(t, err, identity.ErrProfileNotFound)
}

func TestResolveProfileLookupFailure(t *testing.T) {
	srv := providerServer(t, http.StatusOK, `{"id":"ext-1"}`)
	defer srv.Close()

	profiles := new(mocks.ProfileRepositoryMock)
	profiles.On("FindByExternalID", mock.Anything, "ext-1").
		Return(nil, errors.New("store down")).Once()

	resolver := identity.NewProviderResolver(identity.ProviderConfig{BaseURL: srv.URL, APIKey: "anon"}, srv.Client(), profiles)

	_, err := resolver.Resolve(context.Background(), "caller-token")
	require.Error(t, err)
	require.NotErrorIs(t, err, identity.ErrProfileNotFound)
}

func TestResolveMissingUserID(t *testing.T) {
	srv := providerServer(t, http.StatusOK, `{}`)
	defer srv.Close()

	resolver := identity.NewProviderResolver(identity.ProviderConfig{BaseURL: srv.URL, APIKey: "anon"}, srv.Client(), nil)

	_, err := resolver.Resolve(context.Background(), "caller-token")
	require.Error(t, err)
}

package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"recipe-finder/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestProvider(t *testing.T, info map[string]any) GoogleProvider {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(info)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewProvider(&oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/auth/google/callback/",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  server.URL + "/auth",
			TokenURL: server.URL + "/token",
		},
	}, server.URL+"/userinfo")
}

func TestAuthCodeURL(t *testing.T) {
	provider := newTestProvider(t, nil)
	state := provider.NewState()

	u, err := url.Parse(provider.AuthCodeURL(state))
	require.NoError(t, err)
	assert.Equal(t, state, u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
}

func TestFetchProfile(t *testing.T) {
	provider := newTestProvider(t, map[string]any{
		"email":          "chef@example.com",
		"email_verified": true,
		"picture":        "https://x/y.jpg",
		"given_name":     "Julia",
		"family_name":    "Child",
	})

	profile, err := provider.FetchProfile(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderProfile{
		Email:      "chef@example.com",
		Picture:    "https://x/y.jpg",
		GivenName:  "Julia",
		FamilyName: "Child",
	}, profile)

	_, err = provider.FetchProfile(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestFetchProfile_UnverifiedEmail(t *testing.T) {
	provider := newTestProvider(t, map[string]any{"email": "chef@example.com", "email_verified": false})

	_, err := provider.FetchProfile(context.Background(), "good-code")
	assert.ErrorIs(t, err, domain.ErrOAuthNoEmail)
}

func TestDisabledProvider(t *testing.T) {
	provider := NewProvider(&oauth2.Config{}, "")
	assert.False(t, provider.Enabled())

	_, err := provider.FetchProfile(context.Background(), "code")
	assert.ErrorIs(t, err, domain.ErrOAuthNotConfigured)
}

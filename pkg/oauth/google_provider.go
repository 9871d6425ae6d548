package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"recipe-finder/domain"
	"recipe-finder/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type (
	GoogleProvider interface {
		Enabled() bool
		NewState() string
		AuthCodeURL(state string) string
		FetchProfile(ctx context.Context, code string) (domain.ProviderProfile, error)
	}

	googleProvider struct {
		config      *oauth2.Config
		userInfoURL string
	}

	userInfo struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Picture       string `json:"picture"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
	}
)

// NewGoogleProvider reads the client settings from config. Without a client
// id the provider reports itself disabled.
func NewGoogleProvider() GoogleProvider {
	return NewProvider(&oauth2.Config{
		ClientID:     utils.GetConfig("GOOGLE_CLIENT_ID"),
		ClientSecret: utils.GetConfig("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  utils.GetConfig("GOOGLE_REDIRECT_URL"),
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}, googleUserInfoURL)
}

func NewProvider(config *oauth2.Config, userInfoURL string) GoogleProvider {
	return &googleProvider{config: config, userInfoURL: userInfoURL}
}

func (p *googleProvider) Enabled() bool {
	return p.config.ClientID != ""
}

func (p *googleProvider) NewState() string {
	return uuid.NewString()
}

func (p *googleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// FetchProfile trades the callback code for a token and loads the userinfo
// document with it.
func (p *googleProvider) FetchProfile(ctx context.Context, code string) (domain.ProviderProfile, error) {
	if !p.Enabled() {
		return domain.ProviderProfile{}, domain.ErrOAuthNotConfigured
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return domain.ProviderProfile{}, err
	}

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ProviderProfile{}, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" || !info.EmailVerified {
		return domain.ProviderProfile{}, domain.ErrOAuthNoEmail
	}

	return domain.ProviderProfile{
		Email:      info.Email,
		Picture:    info.Picture,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}, nil
}

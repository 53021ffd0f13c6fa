package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SundayYogurt/store_service/internal/dto"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ProfileFetcher runs the OAuth code flow and returns the signed-in profile.
type ProfileFetcher interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*dto.GoogleProfile, error)
}

type Client struct {
	oauth       *oauth2.Config
	http        *http.Client
	userInfoURL string
}

func New(clientID, clientSecret, callbackURL string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     googleoauth.Endpoint,
		},
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
		userInfoURL: userInfoURL,
	}
}

func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and loads the user's profile.
func (c *Client) Exchange(ctx context.Context, code string) (*dto.GoogleProfile, error) {
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := c.oauth.Client(ctx, tok).Get(c.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d: %s", resp.StatusCode, string(body))
	}

	var profile dto.GoogleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, errors.New("google profile is missing id or email")
	}
	return &profile, nil
}

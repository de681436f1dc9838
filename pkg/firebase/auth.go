// Package firebase signs in to the service's Firebase project and reads
// documents from its Firestore database.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// Production project settings.
const (
	DefaultProjectID     = "gaposa-prod"
	DefaultTokenEndpoint = "https://securetoken.googleapis.com/v1/token"
)

// ErrSignIn indicates the email/password pair was rejected.
var ErrSignIn = errors.New("firebase sign-in failed")

// Config locates the Firebase project. Endpoint fields are empty in
// production and point at fakes in tests.
type Config struct {
	APIKey            string
	ProjectID         string
	IdentityEndpoint  string
	TokenEndpoint     string
	FirestoreEndpoint string
}

func (c Config) withDefaults() Config {
	if c.ProjectID == "" {
		c.ProjectID = DefaultProjectID
	}
	if c.TokenEndpoint == "" {
		c.TokenEndpoint = DefaultTokenEndpoint
	}
	if c.FirestoreEndpoint == "" {
		c.FirestoreEndpoint = DefaultFirestoreEndpoint
	}
	return c
}

// Session is a signed-in Firebase user.
type Session struct {
	UID    string
	Email  string
	config Config
	tokens oauth2.TokenSource
}

// SignIn exchanges an email and password for a refreshing ID token source.
func SignIn(ctx context.Context, cfg Config, email, password string) (*Session, error) {
	cfg = cfg.withDefaults()

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.IdentityEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.IdentityEndpoint))
	}
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating identity toolkit client: %w", err)
	}

	resp, err := svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignIn, err)
	}
	if resp.IdToken == "" {
		return nil, fmt.Errorf("%w: no id token returned", ErrSignIn)
	}

	initial := &oauth2.Token{
		AccessToken:  resp.IdToken,
		TokenType:    "Bearer",
		RefreshToken: resp.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	return &Session{
		UID:    resp.LocalId,
		Email:  email,
		config: cfg,
		tokens: refreshingSource(ctx, cfg, initial),
	}, nil
}

// NewSession resumes a session from a previously issued token.
func NewSession(ctx context.Context, cfg Config, uid string, token *oauth2.Token) *Session {
	cfg = cfg.withDefaults()
	return &Session{UID: uid, config: cfg, tokens: refreshingSource(ctx, cfg, token)}
}

// TokenSource yields the current ID token, refreshing it when it expires.
func (s *Session) TokenSource() oauth2.TokenSource {
	return s.tokens
}

// Config returns the project settings of the session.
func (s *Session) Config() Config {
	return s.config
}

// refreshingSource uses the secure token service's refresh grant. The
// service answers with an access_token equal to the new ID token.
func refreshingSource(ctx context.Context, cfg Config, initial *oauth2.Token) oauth2.TokenSource {
	oc := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenEndpoint + "?key=" + url.QueryEscape(cfg.APIKey),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return oauth2.ReuseTokenSource(initial, oc.TokenSource(ctx, initial))
}

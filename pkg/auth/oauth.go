package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/planner/pkg/logging"
)

const (
	// ClientSecretsFile is the OAuth client downloaded from the Google Cloud console.
	ClientSecretsFile = "credentials.json"

	// TokenFile holds the user's access and refresh token.
	TokenFile = "token.json"

	// AuthorizationTimeout bounds how long we wait for the browser redirect.
	AuthorizationTimeout = 5 * time.Minute
)

// ErrMissingSecrets is returned when the client secrets file does not exist.
var ErrMissingSecrets = errors.New("missing OAuth client secrets")

// Scopes requested by the planner; free/busy and the calendar list are read-only.
var Scopes = []string{calendar.CalendarReadonlyScope}

// Paths locates the OAuth files on disk.
type Paths struct {
	ClientSecrets string
	Token         string
}

// NewPaths returns the default file names inside dir.
func NewPaths(dir string) Paths {
	return Paths{
		ClientSecrets: filepath.Join(dir, ClientSecretsFile),
		Token:         filepath.Join(dir, TokenFile),
	}
}

// Authenticator produces authorized HTTP clients for the Google APIs.
type Authenticator struct {
	paths  Paths
	scopes []string
	logger *zap.Logger

	// Prompt receives the authorization URL during the web flow.
	Prompt io.Writer
	// OpenURL is called with the authorization URL. It defaults to printing
	// the URL to Prompt.
	OpenURL func(url string) error
	// Timeout overrides AuthorizationTimeout when non-zero.
	Timeout time.Duration
}

// New returns an Authenticator for the given files.
func New(paths Paths, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		paths:  paths,
		scopes: Scopes,
		logger: logger,
		Prompt: os.Stderr,
	}
}

// Paths returns the files the authenticator reads and writes.
func (a *Authenticator) Paths() Paths {
	return a.paths
}

// Config reads the client secrets file.
func (a *Authenticator) Config() (*oauth2.Config, error) {
	b, err := os.ReadFile(a.paths.ClientSecrets)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s; run Google API setup and save %s",
				ErrMissingSecrets, a.paths.ClientSecrets, ClientSecretsFile)
		}
		return nil, fmt.Errorf("unable to read client secret file %s: %w", a.paths.ClientSecrets, err)
	}

	config, err := google.ConfigFromJSON(b, a.scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	return config, nil
}

// Client returns an HTTP client that authorizes requests with the stored
// token, running the browser flow first when no token exists. Refreshed
// tokens are written back to disk.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	config, err := a.Config()
	if err != nil {
		return nil, err
	}

	tok, err := tokenFromFile(a.paths.Token)
	if err != nil {
		a.logger.Info("no usable token, starting web authorization", logging.Path(a.paths.Token), zap.Error(err))
		tok, err = a.tokenFromWeb(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := saveToken(a.paths.Token, tok); err != nil {
			return nil, err
		}
	}

	src := &savingTokenSource{
		base:   config.TokenSource(ctx, tok),
		path:   a.paths.Token,
		last:   tok,
		logger: a.logger,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// Reset removes the stored token so the next Client call re-authorizes.
func (a *Authenticator) Reset() error {
	err := os.Remove(a.paths.Token)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete token file '%s': %w", a.paths.Token, err)
	}
	return nil
}

// tokenFromWeb runs the authorization code flow against a loopback listener.
func (a *Authenticator) tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start loopback listener: %w", err)
	}
	defer listener.Close()

	cfg := *config
	cfg.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "State mismatch", http.StatusBadRequest)
				sendErr(errCh, errors.New("state mismatch in redirect URL"))
				return
			}
			code := q.Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				sendErr(errCh, fmt.Errorf("authorization code not found in redirect URL: %s", q.Get("error")))
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendErr(errCh, fmt.Errorf("HTTP server error: %w", err))
		}
	}()
	defer server.Shutdown(context.Background())

	// AccessTypeOffline makes Google return a refresh token.
	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	if err := a.openURL(authURL); err != nil {
		return nil, err
	}
	a.logger.Debug("waiting for authorization code", zap.String("redirect", cfg.RedirectURL))

	timeout := a.Timeout
	if timeout == 0 {
		timeout = AuthorizationTimeout
	}

	select {
	case code := <-codeCh:
		exCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := cfg.Exchange(exCtx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, errors.New("authorization timed out, please try again")
	}
}

func (a *Authenticator) openURL(authURL string) error {
	if a.OpenURL != nil {
		return a.OpenURL(authURL)
	}
	_, err := fmt.Fprintf(a.Prompt, "Open the following URL in your browser to authorize planner:\n%s\n", authURL)
	return err
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// savingTokenSource persists the token whenever the underlying source
// hands out a different one.
type savingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *zap.Logger

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := saveToken(s.path, tok); err != nil {
			s.logger.Warn("could not persist refreshed token", logging.Path(s.path), zap.Error(err))
		} else {
			s.logger.Debug("token refreshed and saved", logging.Path(s.path))
		}
		s.last = tok
	}
	return tok, nil
}

// tokenFromFile reads an oauth2.Token from a JSON file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

// saveToken writes the token with owner-only permissions.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

package google

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CalendarScope is the only Google OAuth scope this application needs.
const CalendarScope = "https://www.googleapis.com/auth/calendar"

// GetOAuthConfig returns the OAuth2 configuration for the Google
// Calendar API. Client credentials come from the environment so
// deployments can use their own OAuth application.
func GetOAuthConfig() *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes:       []string{CalendarScope},
	}
}

// GetAuthURLForAccount returns the OAuth URL for user authorization of
// the given account.
func GetAuthURLForAccount(account string) string {
	conf := GetOAuthConfig()
	return conf.AuthCodeURL("state-" + account)
}

// SaveTokenForAccount exchanges an authorization code for tokens and
// saves them for the given account.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	conf := GetOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	file := tokenFileForAccount(account)
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// HasTokenForAccount checks whether a stored token exists for the
// given account.
func HasTokenForAccount(account string) bool {
	if account == "" {
		return false
	}
	_, err := os.ReadFile(tokenFileForAccount(account))
	return err == nil
}

// GetTokenSourceForAccount returns an OAuth2 token source backed by the
// stored token for the given account. The token source refreshes the
// access token transparently when it expires.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	conf := GetOAuthConfig()

	slurp, err := os.ReadFile(tokenFileForAccount(account))
	if err != nil {
		return nil, fmt.Errorf("no Google OAuth token found for account %q", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format for account %q", account)
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}

	return ts, nil
}

// tokenFileForAccount returns the path of the token file for an account.
func tokenFileForAccount(account string) string {
	return filepath.Join(userCacheDir(), "bookable", fmt.Sprintf("google-%s.token", account))
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}

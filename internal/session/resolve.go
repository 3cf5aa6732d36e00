package session

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const tokenEnvVar = "BUCKETUSAGE_TOKEN"

// Origin names where a resolved token came from.
type Origin string

const (
	OriginEnv     Origin = "env"
	OriginStored  Origin = "stored"
	OriginBrowser Origin = "browser"
)

// Resolver finds the session token for a console endpoint. Lookups happen in
// order: BUCKETUSAGE_TOKEN, the stored session, then browser cookies when
// BrowserCookie is set.
type Resolver struct {
	Store         *Store
	BrowserCookie bool
	Logger        zerolog.Logger

	readCookies cookieReader
}

// Resolve returns ErrNotFound when no source has a token.
func (r Resolver) Resolve(ctx context.Context, endpoint string) (string, Origin, error) {
	if token := strings.TrimSpace(os.Getenv(tokenEnvVar)); token != "" {
		return token, OriginEnv, nil
	}

	if r.Store != nil {
		token, err := r.Store.Load(endpoint)
		switch {
		case err == nil:
			return token, OriginStored, nil
		case !errors.Is(err, ErrNotFound):
			r.Logger.Debug().Err(err).Str("endpoint", endpoint).Msg("stored session unreadable")
		}
	}

	if r.BrowserCookie {
		read := r.readCookies
		if read == nil {
			read = readBrowserCookies
		}
		token, err := browserToken(ctx, read, endpoint)
		if err == nil {
			return token, OriginBrowser, nil
		}
		if !errors.Is(err, ErrNotFound) {
			r.Logger.Debug().Err(err).Str("endpoint", endpoint).Msg("browser cookie lookup failed")
		}
	}

	return "", "", ErrNotFound
}

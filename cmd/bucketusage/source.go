package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/bucketusage/internal/adminapi"
	"github.com/janekbaraniewski/bucketusage/internal/config"
	"github.com/janekbaraniewski/bucketusage/internal/core"
	"github.com/janekbaraniewski/bucketusage/internal/s3usage"
	"github.com/janekbaraniewski/bucketusage/internal/session"
	"github.com/janekbaraniewski/bucketusage/internal/version"
)

func userAgent() string {
	return "bucketusage/" + version.Version
}

// newFetcher builds the usage fetcher for the configured source.
func newFetcher(ctx context.Context, cfg config.Config, logger zerolog.Logger) (core.UsageFetcher, error) {
	if cfg.Source == config.SourceS3 {
		return s3usage.New(cfg.S3, logger)
	}

	invoker := adminapi.NewHTTPInvoker(adminapi.Options{
		BaseURL:            cfg.Endpoint,
		Token:              resolveToken(ctx, cfg, logger),
		Timeout:            cfg.RequestTimeout(),
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		UserAgent:          userAgent(),
	})
	return adminapi.NewClient(invoker, logger), nil
}

// resolveToken finds a session for the console. A missing session is not an
// error here: the request goes out unauthenticated and the console's own
// rejection becomes the screen's failure message.
func resolveToken(ctx context.Context, cfg config.Config, logger zerolog.Logger) string {
	resolver := session.Resolver{
		Store:         session.NewStore(config.ConfigDir()),
		BrowserCookie: cfg.Session.BrowserCookie,
		Logger:        logger,
	}
	token, origin, err := resolver.Resolve(ctx, cfg.Endpoint)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logger.Debug().Err(err).Msg("session lookup failed")
		}
		logger.Debug().Str("endpoint", cfg.Endpoint).Msg("no session found, sending unauthenticated request")
		return ""
	}
	logger.Debug().Str("origin", string(origin)).Msg("session resolved")
	return token
}

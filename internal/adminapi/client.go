package adminapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/janekbaraniewski/bucketusage/internal/core"
	"github.com/rs/zerolog"
)

// AdminInfoPath is the resource that reports aggregate usage.
const AdminInfoPath = "/api/v1/admin/info"

// Client reads usage through an Invoker. It implements core.UsageFetcher.
type Client struct {
	invoker Invoker
	logger  zerolog.Logger
}

func NewClient(invoker Invoker, logger zerolog.Logger) *Client {
	return &Client{invoker: invoker, logger: logger}
}

// FetchUsage issues exactly one GET against AdminInfoPath. It never retries
// and every error it returns is a *core.FetchFailure.
func (c *Client) FetchUsage(ctx context.Context) (core.UsageSnapshot, error) {
	c.logger.Debug().Str("path", AdminInfoPath).Msg("fetching usage")

	body, err := c.invoker.Invoke(ctx, http.MethodGet, AdminInfoPath)
	if err != nil {
		failure := toFetchFailure(err)
		c.logger.Debug().Err(err).Str("message", failure.Message).Msg("usage fetch failed")
		return core.UsageSnapshot{}, failure
	}

	snap, err := core.ParseUsageSnapshot(body)
	if err != nil {
		c.logger.Debug().Err(err).Int("bytes", len(body)).Msg("usage payload rejected")
		return core.UsageSnapshot{}, core.NewFetchFailure("malformed usage payload: "+err.Error(), err)
	}
	return snap, nil
}

func toFetchFailure(err error) *core.FetchFailure {
	var ff *core.FetchFailure
	if errors.As(err, &ff) {
		return ff
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return core.NewFetchFailure(statusErr.Error(), err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return core.NewFetchFailure(urlErr.Err.Error(), err)
	}
	return core.NewFetchFailure(core.FailureMessage(err), err)
}

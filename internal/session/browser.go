package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all" // register browser cookie stores
	"github.com/samber/lo"

	"github.com/janekbaraniewski/bucketusage/internal/adminapi"
)

// cookieReader returns the console session cookies visible to local browsers
// for host. Replaced in tests.
type cookieReader func(ctx context.Context, host string) ([]*kooky.Cookie, error)

func readBrowserCookies(ctx context.Context, host string) ([]*kooky.Cookie, error) {
	cookies, err := kooky.ReadCookies(ctx, kooky.Valid, kooky.DomainHasSuffix(host), kooky.Name(adminapi.SessionCookie))
	// Some stores fail (locked profiles, missing keychain access); keep what the others returned.
	if len(cookies) > 0 {
		return cookies, nil
	}
	return nil, err
}

// endpointHost extracts the cookie domain for a console endpoint.
func endpointHost(endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("parsing endpoint: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}
	return host, nil
}

// browserToken picks the non-empty cookie with the latest expiry.
func browserToken(ctx context.Context, read cookieReader, endpoint string) (string, error) {
	host, err := endpointHost(endpoint)
	if err != nil {
		return "", err
	}
	cookies, err := read(ctx, host)
	if err != nil {
		return "", fmt.Errorf("reading browser cookies for %s: %w", host, err)
	}
	cookies = lo.Filter(cookies, func(c *kooky.Cookie, _ int) bool {
		return c != nil && c.Value != ""
	})
	if len(cookies) == 0 {
		return "", ErrNotFound
	}
	latest := lo.MaxBy(cookies, func(a, b *kooky.Cookie) bool {
		return a.Expires.After(b.Expires)
	})
	return latest.Value, nil
}

package appupdate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeReleaseVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "valid with prefix", input: "v1.2.3", want: "v1.2.3"},
		{name: "valid without prefix", input: "1.2.3", want: "v1.2.3"},
		{name: "pre-release skipped", input: "v1.2.3-rc.1", want: ""},
		{name: "dev skipped", input: "dev", want: ""},
		{name: "empty skipped", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeReleaseVersion(tt.input))
		})
	}
}

func TestDetectInstallMethod(t *testing.T) {
	t.Setenv("GOBIN", "/opt/gobin")
	t.Setenv("GOPATH", "")

	tests := []struct {
		name string
		path string
		want InstallMethod
	}{
		{name: "homebrew cellar", path: "/opt/homebrew/Cellar/bucketusage/1.2.3/bin/bucketusage", want: InstallMethodHomebrew},
		{name: "gobin", path: "/opt/gobin/bucketusage", want: InstallMethodGoInstall},
		{name: "install script default", path: "/usr/local/bin/bucketusage", want: InstallMethodInstallScript},
		{name: "scoop", path: "C:/Users/test/scoop/apps/bucketusage/current/bucketusage.exe", want: InstallMethodScoop},
		{name: "unknown", path: "/tmp/bucketusage", want: InstallMethodUnknown},
		{name: "empty", path: "", want: InstallMethodUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectInstallMethod(tt.path))
		})
	}
}

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheckUpdateAvailable(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name":"v1.3.0"}`)

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.2.0",
		ExecutablePath:   "/opt/homebrew/Cellar/bucketusage/1.2.0/bin/bucketusage",
		LatestReleaseURL: server.URL,
		HTTPClient:       server.Client(),
		Timeout:          time.Second,
	})
	require.NoError(t, err)
	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "v1.3.0", result.LatestVersion)
	assert.Equal(t, "brew upgrade janekbaraniewski/tap/bucketusage", result.UpgradeHint)
}

func TestCheckNoUpdate(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name":"1.2.0"}`)

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.2.0",
		ExecutablePath:   "/usr/local/bin/bucketusage",
		LatestReleaseURL: server.URL,
		HTTPClient:       server.Client(),
	})
	require.NoError(t, err)
	assert.False(t, result.UpdateAvailable)
}

func TestCheckSkipsDevVersion(t *testing.T) {
	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "dev",
		LatestReleaseURL: "http://127.0.0.1:0/does-not-matter",
	})
	require.NoError(t, err)
	assert.False(t, result.UpdateAvailable)
	assert.Empty(t, result.CurrentVersion)
}

func TestCheckLatestReleaseHTTPError(t *testing.T) {
	server := releaseServer(t, http.StatusTooManyRequests, "")

	_, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.2.0",
		LatestReleaseURL: server.URL,
		HTTPClient:       server.Client(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestCheckRejectsPrereleaseTag(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name":"v2.0.0-beta.1"}`)

	_, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.2.0",
		LatestReleaseURL: server.URL,
		HTTPClient:       server.Client(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a stable semver")
}

func TestCheckUnknownInstallMethodUsesInstallScript(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name":"v1.3.0"}`)

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.2.0",
		ExecutablePath:   "/tmp/bucketusage-old",
		LatestReleaseURL: server.URL,
		HTTPClient:       server.Client(),
	})
	require.NoError(t, err)
	assert.True(t, result.UpdateAvailable)
	assert.True(t, strings.HasPrefix(result.UpgradeHint, "curl "), result.UpgradeHint)
}

type captureTransport struct {
	lastReq *http.Request
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"tag_name":"v1.3.0"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestCheckForwardsGitHubTokenOnlyToGitHubAPI(t *testing.T) {
	t.Setenv(githubTokenEnvVar, "test-token-123")

	tests := []struct {
		name     string
		url      string
		wantAuth string
	}{
		{name: "github api", url: "https://api.github.com/repos/janekbaraniewski/bucketusage/releases/latest", wantAuth: "Bearer test-token-123"},
		{name: "other host", url: "https://example.com/releases/latest", wantAuth: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &captureTransport{}
			_, err := Check(context.Background(), CheckOptions{
				CurrentVersion:   "v1.2.0",
				ExecutablePath:   "/tmp/bucketusage-old",
				LatestReleaseURL: tt.url,
				HTTPClient:       &http.Client{Transport: transport},
			})
			require.NoError(t, err)
			require.NotNil(t, transport.lastReq)
			assert.Equal(t, tt.wantAuth, transport.lastReq.Header.Get("Authorization"))
			assert.Equal(t, "application/vnd.github+json", transport.lastReq.Header.Get("Accept"))
			assert.Equal(t, "bucketusage/v1.2.0", transport.lastReq.Header.Get("User-Agent"))
		})
	}
}

func TestIsGitHubAPI(t *testing.T) {
	assert.True(t, isGitHubAPI("https://api.github.com/repos/x/y/releases/latest"))
	assert.False(t, isGitHubAPI("http://api.github.com/repos/x/y/releases/latest"))
	assert.False(t, isGitHubAPI("https://example.com/repos/x/y/releases/latest"))
	assert.False(t, isGitHubAPI("://bad"))
}

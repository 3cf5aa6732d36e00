// Package appupdate compares the running build against the latest GitHub
// release and suggests an upgrade command for the detected install method.
package appupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/mod/semver"
)

const (
	binaryName              = "bucketusage"
	defaultLatestReleaseURL = "https://api.github.com/repos/janekbaraniewski/bucketusage/releases/latest"
	defaultInstallScriptURL = "https://github.com/janekbaraniewski/bucketusage/releases/latest/download/install.sh"
	defaultRequestTimeout   = 1500 * time.Millisecond
	githubTokenEnvVar       = "BUCKETUSAGE_GITHUB_TOKEN"
)

type InstallMethod string

const (
	InstallMethodUnknown       InstallMethod = "unknown"
	InstallMethodHomebrew      InstallMethod = "homebrew"
	InstallMethodGoInstall     InstallMethod = "go_install"
	InstallMethodInstallScript InstallMethod = "install_script"
	InstallMethodScoop         InstallMethod = "scoop"
)

type CheckOptions struct {
	CurrentVersion   string
	ExecutablePath   string
	LatestReleaseURL string
	Timeout          time.Duration
	HTTPClient       *http.Client
}

type Result struct {
	UpdateAvailable bool          `json:"update_available"`
	CurrentVersion  string        `json:"current_version"`
	LatestVersion   string        `json:"latest_version,omitempty"`
	InstallMethod   InstallMethod `json:"install_method"`
	UpgradeHint     string        `json:"upgrade_hint"`
	ExecutablePath  string        `json:"executable_path,omitempty"`
}

// Check looks up the latest release. Non-release builds (dev, pre-releases)
// skip the network call and report no update.
func Check(ctx context.Context, opts CheckOptions) (Result, error) {
	currentVersion := normalizeReleaseVersion(opts.CurrentVersion)
	executablePath := resolveExecutablePath(opts.ExecutablePath)
	method := detectInstallMethod(executablePath)

	result := Result{
		CurrentVersion: currentVersion,
		InstallMethod:  method,
		UpgradeHint:    upgradeHint(method),
		ExecutablePath: executablePath,
	}
	if currentVersion == "" {
		return result, nil
	}

	latestVersion, err := fetchLatestReleaseVersion(ctx, opts, currentVersion)
	if err != nil {
		return result, err
	}

	result.LatestVersion = latestVersion
	result.UpdateAvailable = semver.Compare(latestVersion, currentVersion) > 0
	return result, nil
}

func fetchLatestReleaseVersion(ctx context.Context, opts CheckOptions, currentVersion string) (string, error) {
	latestURL := strings.TrimSpace(opts.LatestReleaseURL)
	if latestURL == "" {
		latestURL = defaultLatestReleaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, latestURL, nil)
	if err != nil {
		return "", fmt.Errorf("build latest release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", binaryName+"/"+currentVersion)
	if token := strings.TrimSpace(os.Getenv(githubTokenEnvVar)); token != "" && isGitHubAPI(latestURL) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode latest release payload: %w", err)
	}

	latest := normalizeReleaseVersion(payload.TagName)
	if latest == "" {
		return "", fmt.Errorf("latest release tag is not a stable semver: %q", payload.TagName)
	}
	return latest, nil
}

func resolveExecutablePath(explicitPath string) string {
	if p := strings.TrimSpace(explicitPath); p != "" {
		return normalizePath(p)
	}
	exePath, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exePath); err == nil && resolved != "" {
		exePath = resolved
	}
	return normalizePath(exePath)
}

// normalizePath lowercases and slash-separates a path for matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

func detectInstallMethod(executablePath string) InstallMethod {
	path := normalizePath(executablePath)
	if path == "" {
		return InstallMethodUnknown
	}

	switch {
	case strings.Contains(path, "/cellar/"+binaryName+"/"):
		return InstallMethodHomebrew
	case strings.Contains(path, "/scoop/apps/"+binaryName+"/"):
		return InstallMethodScoop
	case lo.Contains(binaryPaths(goBinDirs()), path):
		return InstallMethodGoInstall
	case lo.Contains(binaryPaths(scriptBinDirs()), path):
		return InstallMethodInstallScript
	default:
		return InstallMethodUnknown
	}
}

func goBinDirs() []string {
	dirs := []string{os.Getenv("GOBIN")}
	for _, gp := range filepath.SplitList(os.Getenv("GOPATH")) {
		dirs = append(dirs, filepath.Join(gp, "bin"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "go", "bin"))
	}
	return dirs
}

func scriptBinDirs() []string {
	dirs := []string{"/usr/local/bin", "/usr/bin"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "bin"), filepath.Join(home, "bin"))
	}
	return dirs
}

// binaryPaths expands dirs into the normalized paths the binary would have
// there, with and without the Windows suffix.
func binaryPaths(dirs []string) []string {
	var out []string
	for _, dir := range dirs {
		d := normalizePath(dir)
		if d == "" {
			continue
		}
		out = append(out, d+"/"+binaryName, d+"/"+binaryName+".exe")
	}
	return out
}

func upgradeHint(method InstallMethod) string {
	switch method {
	case InstallMethodHomebrew:
		return "brew upgrade janekbaraniewski/tap/" + binaryName
	case InstallMethodGoInstall:
		return "go install github.com/janekbaraniewski/bucketusage/cmd/bucketusage@latest"
	case InstallMethodScoop:
		return "scoop update " + binaryName
	default:
		return "curl -fsSL " + defaultInstallScriptURL + " | bash"
	}
}

func normalizeReleaseVersion(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return ""
	}
	return semver.Canonical(v)
}

func isGitHubAPI(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Scheme, "https") && strings.EqualFold(parsed.Hostname(), "api.github.com")
}

// Package version holds build-time metadata injected via ldflags.
package version

import "runtime"

// These variables are set at build time using -ldflags:
//
//	-X 'github.com/janekbaraniewski/bucketusage/internal/version.Version=...'
//	-X 'github.com/janekbaraniewski/bucketusage/internal/version.CommitHash=...'
//	-X 'github.com/janekbaraniewski/bucketusage/internal/version.BuildDate=...'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a formatted version string.
func String() string {
	return Version + " (" + CommitHash + ") built " + BuildDate
}

// Package contracts holds the version and wire types shared by the server
// and its clients.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the release of aqserver
	Version = "1.0.0"

	// APIVersion is the version of the /api routes
	APIVersion = "v1"
)

// Stamped by build.go through -ldflags -X.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the body of GET /api/version
type VersionInfo struct {
	Version      string `json:"version"`
	APIVersion   string `json:"api_version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// GetVersionInfo describes the running binary
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		APIVersion:   APIVersion,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}

// String renders the info on one line, as logged at startup
func (v VersionInfo) String() string {
	return fmt.Sprintf("aqserver v%s (api %s, commit %s, built %s, %s %s/%s)",
		v.Version, v.APIVersion, v.GitCommit, v.BuildTime, v.GoVersion, v.OS, v.Architecture)
}

package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.OS+"/"+info.Architecture)
}

func TestVersionInfo_String(t *testing.T) {
	info := VersionInfo{
		Version:      "1.2.3",
		APIVersion:   "v1",
		BuildTime:    "2024-05-01T10:00:00Z",
		GitCommit:    "abc1234",
		GoVersion:    "go1.23.0",
		OS:           "linux",
		Architecture: "amd64",
	}

	assert.Equal(t, "aqserver v1.2.3 (api v1, commit abc1234, built 2024-05-01T10:00:00Z, go1.23.0 linux/amd64)", info.String())
}

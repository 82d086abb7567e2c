package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBuildTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-03-01T10:20:30Z", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2025-03-01T10:20:30", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2025-03-01 10:20:30", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"unknown", time.Time{}},
		{"", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, tt.want.Equal(parseBuildTime(tt.input)))
		})
	}
}

func TestGetUsesLinkerValues(t *testing.T) {
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime })

	Version = "v1.2.0"
	GitCommit = "0123456789abcdef"
	BuildTime = "2025-03-01T10:20:30Z"

	info := Get()
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "v1.2.0", info.Short())
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Contains(t, info.String(), "Commit: 0123456789abcdef")
	assert.Contains(t, info.String(), "Built: 2025-03-01T10:20:30Z")
}

func TestShortDevBuild(t *testing.T) {
	info := BuildInfo{Version: "dev", GitCommit: "0123456789abcdef"}
	assert.Equal(t, "dev-0123456", info.Short())

	info.GitCommit = "unknown"
	assert.Equal(t, "dev", info.Short())
}

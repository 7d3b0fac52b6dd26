package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildInfo(mainVersion string, settings ...string) *debug.BuildInfo {
	info := &debug.BuildInfo{Main: debug.Module{Path: "github.com/fmueller/transcribe", Version: mainVersion}}
	for i := 0; i+1 < len(settings); i += 2 {
		info.Settings = append(info.Settings, debug.BuildSetting{Key: settings[i], Value: settings[i+1]})
	}
	return info
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stamped string
		info    *debug.BuildInfo
		want    string
	}{
		{name: "ldflags stamp wins", stamped: "v1.4.0", info: buildInfo("v1.3.0"), want: "1.4.0"},
		{name: "go install version", info: buildInfo("v1.3.0"), want: "1.3.0"},
		{name: "no build info", want: Base},
		{name: "devel without vcs", info: buildInfo("(devel)"), want: Base},
		{
			name: "devel checkout",
			info: buildInfo("(devel)", "vcs.revision", "0123456789abcdef0123", "vcs.modified", "false"),
			want: Base + "-dev+0123456789ab",
		},
		{
			name: "dirty checkout",
			info: buildInfo("(devel)", "vcs.revision", "abc1234", "vcs.modified", "true"),
			want: Base + "-dev+abc1234.dirty",
		},
		{name: "blank stamp ignored", stamped: "  ", info: buildInfo(""), want: Base},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, resolve(tt.stamped, tt.info))
		})
	}
}

func TestResolveUsesRunningBinary(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Resolve())
}

package version

import (
	"runtime/debug"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Info
		bi   debug.BuildInfo
		want string
	}{
		{
			name: "module version and vcs",
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v1.2.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: "v1.2.0 (0123456789ab+dirty)",
		},
		{
			name: "linker flags win",
			in:   Info{Version: "v9", Commit: "abc"},
			bi: debug.BuildInfo{
				Main:     debug.Module{Version: "v1.2.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
			},
			want: "v9 (abc)",
		},
		{
			name: "devel build",
			in:   Info{Version: "devel"},
			bi:   debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: "devel",
		},
	}
	for _, tt := range tests {
		info := tt.in
		fromBuildInfo(&info, &tt.bi)
		if got := info.String(); got != tt.want {
			t.Errorf("%s: String() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResolveNeverEmpty(t *testing.T) {
	t.Parallel()

	if info := Resolve(); info.Version == "" || info.Go == "" {
		t.Fatalf("Resolve() = %+v", info)
	}
}

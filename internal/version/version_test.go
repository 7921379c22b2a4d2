package version

import (
	"runtime/debug"
	"testing"
)

func TestResolveFromBuildInfo(t *testing.T) {
	read := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.25.0",
			Main:      debug.Module{Version: "v0.3.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
		}, true
	}
	info := resolve(read)
	if info.Version != "v0.3.1" || info.BuildTime != "2026-01-02T03:04:05Z" || info.GoVersion != "go1.25.0" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if got, want := info.String(), "v0.3.1 (0123456789ab)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestResolveDevel(t *testing.T) {
	read := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}
	info := resolve(read)
	if info.Version != "dev" || info.String() != "dev" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info := resolve(func() (*debug.BuildInfo, bool) { return nil, false }); info.Version != "dev" {
		t.Fatalf("missing build info: %+v", info)
	}
}

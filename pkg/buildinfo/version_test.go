package buildinfo

import (
	"strings"
	"testing"
)

func TestStamped(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-01T00:00:00Z"

	got := Get()
	if got != (Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-01T00:00:00Z"}) {
		t.Errorf("Get = %+v", got)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String = %q", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template = %q", Template())
	}
}

func TestUnstamped(t *testing.T) {
	if Get().Version == "" {
		t.Error("empty version")
	}
}

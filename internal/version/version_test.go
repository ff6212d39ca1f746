package version_test

import (
	"strings"
	"testing"

	"github.com/home-assistant-libs/pydroid-ipcam/internal/version"
)

func TestDefaultsAreNonEmpty(t *testing.T) {
	if version.Version == "" {
		t.Error("Version is empty")
	}
	if version.Commit == "" {
		t.Error("Commit is empty")
	}
	if version.BuildDate == "" {
		t.Error("BuildDate is empty")
	}
}

func TestString(t *testing.T) {
	s := version.String()
	if !strings.Contains(s, version.Version) {
		t.Errorf("String() = %q, should contain version", s)
	}
	if !strings.Contains(s, version.Commit) {
		t.Errorf("String() = %q, should contain commit", s)
	}
}

package osutils

import (
	"strings"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"windows", "rundll32 url.dll,FileProtocolHandler http://127.0.0.1:1"},
		{"darwin", "open http://127.0.0.1:1"},
		{"linux", "xdg-open http://127.0.0.1:1"},
	}
	for _, tt := range tests {
		cmd, err := browserCommand(tt.goos, "http://127.0.0.1:1")
		if err != nil {
			t.Fatalf("%s: %v", tt.goos, err)
		}
		if got := strings.Join(cmd.Args, " "); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.goos, tt.want, got)
		}
	}

	if _, err := browserCommand("plan9", "http://x"); err == nil {
		t.Error("Expected error for unsupported platform")
	}
}

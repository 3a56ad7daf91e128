package envutil

import "testing"

func TestExpandWith(t *testing.T) {
	env := map[string]string{
		"TMPDIR": "/var/folders/xy/T",
		"CACHE":  "/Users/me/Library/Caches",
	}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", "/Users/me"},
		{"~/Library/Logs", "/Users/me/Library/Logs"},
		{"$TMPDIR", "/var/folders/xy/T"},
		{"${CACHE}/Homebrew/", "/Users/me/Library/Caches/Homebrew"},
		{"/opt/$MISSING/x", "/opt/x"},
		{"  /tmp/a//b ", "/tmp/a/b"},
	}

	for _, tt := range tests {
		if got := expandWith(tt.in, getenv, "/Users/me"); got != tt.want {
			t.Errorf("expandWith(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

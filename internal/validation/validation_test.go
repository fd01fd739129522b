package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLValidator_ValidateAndNormalize(t *testing.T) {
	v := NewURLValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"adds https", "wallhaven.cc/api/v1/", "https://wallhaven.cc/api/v1/", false},
		{"keeps http", "http://wallhaven.cc/api/v1", "http://wallhaven.cc/api/v1", false},
		{"lower-cases host", "https://WallHaven.cc/w/abc", "https://wallhaven.cc/w/abc", false},
		{"drops fragment", "https://wallhaven.cc/w/abc#top", "https://wallhaven.cc/w/abc", false},
		{"empty", "  ", "", true},
		{"bad scheme", "ftp://wallhaven.cc", "", true},
		{"javascript", "javascript:alert(1)", "", true},
		{"localhost", "http://localhost:8080", "", true},
		{"loopback", "http://127.0.0.1/api", "", true},
		{"private", "http://192.168.1.5/api", "", true},
		{"unspecified", "http://0.0.0.0/", "", true},
		{"traversal", "https://wallhaven.cc/../etc/passwd", "", true},
		{"quotes", `https://wallhaven.cc/"x"`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndNormalize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLValidator_Permissive(t *testing.T) {
	v := NewPermissiveURLValidator()

	got, err := v.ValidateAndNormalize("http://127.0.0.1:9999/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999/api/v1/", got)

	v.RequireHTTPS = true
	_, err = v.ValidateAndNormalize("http://127.0.0.1:9999/")
	assert.Error(t, err)
}

func TestURLValidator_MaxLength(t *testing.T) {
	v := NewURLValidator()
	v.MaxLength = 30
	_, err := v.ValidateAndNormalize("https://wallhaven.cc/a/very/long/path/indeed")
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/wallpapers")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "wallpapers"), got)

	t.Setenv("WALLR_TEST_DIR", "/tmp/wallr-env")
	got, err = ExpandPath("$WALLR_TEST_DIR/pics/../img")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/wallr-env/img", got)

	_, err = ExpandPath("")
	assert.Error(t, err)
	_, err = ExpandPath("bad\x00path")
	assert.Error(t, err)
}

func TestValidateDirectory(t *testing.T) {
	base := t.TempDir()

	dir, err := ValidateDirectory(filepath.Join(base, "new", "nested"), true)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	_, err = ValidateDirectory(filepath.Join(base, "missing"), false)
	assert.Error(t, err)

	file := filepath.Join(base, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = ValidateDirectory(file, false)
	assert.Error(t, err)
}

func TestValidateFile(t *testing.T) {
	base := t.TempDir()

	path, err := ValidateFile(filepath.Join(base, "db", "wallr.db"))
	require.NoError(t, err)
	assert.DirExists(t, filepath.Dir(path))

	_, err = ValidateFile(base)
	assert.Error(t, err)
}

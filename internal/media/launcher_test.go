package media

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/wallr/internal/config"
)

func fakeLookPath(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func mediaFor(viewers ...string) config.MediaConfig {
	return config.MediaConfig{
		Darwin:        viewers,
		Linux:         viewers,
		Windows:       viewers,
		DefaultOpener: "fallback-opener",
	}
}

func TestLauncherPicksFirstAvailableViewer(t *testing.T) {
	reg, err := NewViewerRegistry()
	require.NoError(t, err)

	var started []*exec.Cmd
	l := newLauncher(mediaFor("missing", "feh", "eog"), reg, fakeLookPath("feh", "eog"), func(c *exec.Cmd) error {
		started = append(started, c)
		return nil
	})
	assert.Equal(t, "feh", l.Viewer())

	require.NoError(t, l.Open("https://w.wallhaven.cc/full/ab/wallhaven-abcd12.jpg"))
	require.Len(t, started, 1)
	args := started[0].Args
	assert.Equal(t, "https://w.wallhaven.cc/full/ab/wallhaven-abcd12.jpg", args[len(args)-1])
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
		assert.Contains(t, args, "--scale-down")
	}
}

func TestLauncherFallsBackToOpener(t *testing.T) {
	reg, err := NewViewerRegistry()
	require.NoError(t, err)

	var started *exec.Cmd
	l := newLauncher(mediaFor("imv"), reg, fakeLookPath(), func(c *exec.Cmd) error {
		started = c
		return nil
	})
	assert.Equal(t, "fallback-opener", l.Viewer())

	require.NoError(t, l.Open("/tmp/wall.png"))
	assert.Equal(t, []string{"fallback-opener", "/tmp/wall.png"}, started.Args)
}

func TestLauncherErrors(t *testing.T) {
	reg, err := NewViewerRegistry()
	require.NoError(t, err)

	l := newLauncher(config.MediaConfig{}, reg, fakeLookPath(), func(*exec.Cmd) error { return nil })
	assert.Error(t, l.Open("/tmp/wall.png"), "no viewer and no opener")

	l = newLauncher(mediaFor("x"), reg, fakeLookPath("x"), func(*exec.Cmd) error { return errors.New("boom") })
	assert.ErrorContains(t, l.Open("/tmp/wall.png"), "boom")
	assert.Error(t, l.Open(""))
}

func TestRegistryUserOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewers.toml")
	content := `
[viewers.feh]
description = "custom feh"
platforms = ["` + runtime.GOOS + `"]
args = ["--fullscreen"]

[viewers.myview]
platforms = ["` + runtime.GOOS + `"]
command = "my-viewer-bin"
args = ["-x"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg, err := NewViewerRegistry(path, filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	cmd, err := reg.Command("feh", "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"feh", "--fullscreen", "a.jpg"}, cmd.Args)

	cmd, err = reg.Command("myview", "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"my-viewer-bin", "-x", "a.jpg"}, cmd.Args)

	cmd, err = reg.Command("unknown", "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"unknown", "a.jpg"}, cmd.Args)
}

func TestRegistryPlatformMismatch(t *testing.T) {
	reg := &ViewerRegistry{viewers: map[string]ViewerDefinition{
		"elsewhere": {Platforms: []string{"plan9-only"}},
	}}
	_, err := reg.Command("elsewhere", "a.jpg")
	assert.Error(t, err)
}

func TestArgsFor(t *testing.T) {
	d := ViewerDefinition{Args: []string{"-a"}, ArgsDarwin: []string{"-d"}}
	assert.Equal(t, []string{"-d"}, d.argsFor("darwin"))
	assert.Equal(t, []string{"-a"}, d.argsFor("linux"))
	assert.Equal(t, []string{"-a"}, d.argsFor("windows"))
}

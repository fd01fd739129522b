package media

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

//go:embed viewers.toml
var viewersTOML []byte

// ViewerDefinition describes how an image viewer is invoked.
type ViewerDefinition struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	// Command overrides the executable when it differs from the name.
	Command     string   `toml:"command,omitempty"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
}

type viewersFile struct {
	Viewers map[string]ViewerDefinition `toml:"viewers"`
}

// ViewerRegistry holds viewer definitions
type ViewerRegistry struct {
	viewers map[string]ViewerDefinition
}

// NewViewerRegistry loads the built-in definitions and merges any user file
// found at the given paths.
func NewViewerRegistry(userPaths ...string) (*ViewerRegistry, error) {
	var builtin viewersFile
	if err := toml.Unmarshal(viewersTOML, &builtin); err != nil {
		return nil, fmt.Errorf("parsing viewers.toml: %w", err)
	}
	r := &ViewerRegistry{viewers: builtin.Viewers}
	if r.viewers == nil {
		r.viewers = make(map[string]ViewerDefinition)
	}
	for _, path := range userPaths {
		r.loadUserFile(path)
	}
	return r, nil
}

// DefaultUserViewersPath is where user viewer definitions live.
func DefaultUserViewersPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wallr", "viewers.toml")
}

func (r *ViewerRegistry) loadUserFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var user viewersFile
	if err := toml.Unmarshal(data, &user); err != nil {
		return
	}
	for name, def := range user.Viewers {
		r.viewers[name] = def
	}
}

func (r *ViewerRegistry) Lookup(name string) (ViewerDefinition, bool) {
	def, ok := r.viewers[name]
	return def, ok
}

// Command builds the invocation of viewer for target. Unknown viewers are
// run with the target as their only argument.
func (r *ViewerRegistry) Command(name, target string) (*exec.Cmd, error) {
	def, ok := r.viewers[name]
	if !ok {
		return exec.Command(name, target), nil
	}
	if len(def.Platforms) > 0 && !slices.Contains(def.Platforms, runtime.GOOS) {
		return nil, fmt.Errorf("%s not supported on %s", name, runtime.GOOS)
	}

	args := append(slices.Clone(def.argsFor(runtime.GOOS)), target)
	return exec.Command(def.executable(name), args...), nil
}

func (d ViewerDefinition) executable(name string) string {
	if d.Command != "" {
		return d.Command
	}
	return name
}

func (d ViewerDefinition) argsFor(goos string) []string {
	switch goos {
	case "darwin":
		if len(d.ArgsDarwin) > 0 {
			return d.ArgsDarwin
		}
	case "linux":
		if len(d.ArgsLinux) > 0 {
			return d.ArgsLinux
		}
	case "windows":
		if len(d.ArgsWindows) > 0 {
			return d.ArgsWindows
		}
	}
	return d.Args
}

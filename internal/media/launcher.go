package media

import (
	"fmt"
	"os/exec"

	"github.com/pders01/wallr/internal/config"
	"github.com/pders01/wallr/internal/debuglog"
)

// Launcher opens wallpapers, remote or local, in an external viewer.
type Launcher struct {
	viewer   string
	opener   string
	registry *ViewerRegistry
	start    func(*exec.Cmd) error
	lookPath func(string) (string, error)
}

func NewLauncher(cfg config.MediaConfig) *Launcher {
	registry, err := NewViewerRegistry(DefaultUserViewersPath())
	if err != nil {
		debuglog.Warnf("media: viewer definitions unavailable: %v", err)
		registry = &ViewerRegistry{viewers: make(map[string]ViewerDefinition)}
	}
	return newLauncher(cfg, registry, exec.LookPath, startDetached)
}

func newLauncher(cfg config.MediaConfig, registry *ViewerRegistry, lookPath func(string) (string, error), start func(*exec.Cmd) error) *Launcher {
	l := &Launcher{
		opener:   cfg.DefaultOpener,
		registry: registry,
		start:    start,
		lookPath: lookPath,
	}
	l.viewer = l.findViewer(cfg.Viewers()...)
	if l.viewer == "" {
		l.viewer = l.opener
	}
	return l
}

// Viewer is the program Open will use.
func (l *Launcher) Viewer() string { return l.viewer }

// Open starts the viewer on target without waiting for it to exit.
func (l *Launcher) Open(target string) error {
	if target == "" {
		return fmt.Errorf("nothing to open")
	}
	if l.viewer == "" {
		return fmt.Errorf("no application found to open %s", target)
	}

	cmd, err := l.registry.Command(l.viewer, target)
	if err != nil {
		cmd = exec.Command(l.viewer, target)
	}

	debuglog.WithFields(map[string]any{"viewer": l.viewer, "target": target}).Debugf("media: opening")
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.viewer, err)
	}
	return nil
}

func (l *Launcher) findViewer(names ...string) string {
	for _, name := range names {
		exe := name
		if def, ok := l.registry.Lookup(name); ok {
			exe = def.executable(name)
		}
		if _, err := l.lookPath(exe); err == nil {
			return name
		}
	}
	return ""
}

// GUI viewers are started detached and reaped in the background.
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

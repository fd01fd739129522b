package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/wallr/internal/links"
	"github.com/pders01/wallr/internal/local"
	"github.com/pders01/wallr/internal/tui"
	"github.com/pders01/wallr/internal/validation"
)

var openCmd = &cobra.Command{
	Use:   "open <id|path|url>",
	Short: "Open a wallpaper in the configured viewer",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	target, err := resolveTarget(cmd, e, strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	if err := e.launcher.Open(target); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.MsgOpened(e.launcher.Viewer(), target))
	return nil
}

// resolveTarget turns arg into something a viewer can open. Catalog page
// links are looked up like ids; other URLs are opened as they are.
func resolveTarget(cmd *cobra.Command, e *env, arg string) (string, error) {
	if arg == "" {
		return "", errors.New(tui.MsgNothingToOpen)
	}

	if strings.Contains(arg, "://") {
		link, ok := links.Default().Resolve(arg)
		if !ok || link.Resolver == "image" {
			return validation.NewURLValidator().ValidateAndNormalize(arg)
		}
		arg = link.WallpaperID
	}

	if local.IsImage(arg) {
		path, err := validation.ExpandPath(arg)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%s: %w", arg, err)
		}
		return path, nil
	}

	if e.lister != nil {
		if w, err := e.lister.Get(arg); err == nil {
			return w.Path, nil
		} else if !errors.Is(err, local.ErrNotFound) {
			return "", err
		}
	}

	w, err := e.client.Wallpaper(cmd.Context(), arg)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", arg, err)
	}
	if w.Path != "" {
		return w.Path, nil
	}
	return w.URL, nil
}

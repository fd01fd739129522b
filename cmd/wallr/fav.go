package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/wallr/internal/catalog"
	"github.com/pders01/wallr/internal/favorites"
	"github.com/pders01/wallr/internal/links"
	"github.com/pders01/wallr/internal/storage"
	"github.com/pders01/wallr/internal/tui"
)

var (
	favJSON    bool
	favDetails bool
	favLocal   bool
	favYes     bool
)

var favCmd = &cobra.Command{
	Use:     "fav",
	Aliases: []string{"favorites"},
	Short:   "List and toggle favorites",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites, newest first",
	Args:  cobra.NoArgs,
	RunE:  runFavList,
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <id|url|path>",
	Short: "Add a wallpaper to favorites, or remove it if it is already there",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavToggle,
}

var favClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every favorite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !favYes {
			return errors.New("refusing to remove all favorites without --yes")
		}
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.openStore(); err != nil {
			return err
		}
		if err := e.store.DeleteAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Removed all favorites")
		return nil
	},
}

func init() {
	favListCmd.Flags().BoolVar(&favJSON, "json", false, "Print one JSON object per favorite")
	favListCmd.Flags().BoolVar(&favDetails, "details", false, "Fetch resolution and tags for catalog favorites")
	favToggleCmd.Flags().BoolVar(&favLocal, "local", false, "Treat the argument as a local file path or id")
	favClearCmd.Flags().BoolVar(&favYes, "yes", false, "Confirm removing every favorite")
	favCmd.AddCommand(favListCmd, favToggleCmd, favClearCmd)
}

func runFavList(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}

	favs, err := e.store.All()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if favJSON {
		enc := json.NewEncoder(out)
		for _, f := range favs {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}
		return nil
	}
	if len(favs) == 0 {
		fmt.Fprintln(out, tui.MsgNoFavorites)
		return nil
	}

	details := map[string]catalog.Wallpaper{}
	if favDetails {
		var ids []string
		for _, f := range favs {
			if f.Source == storage.SourceWallhaven {
				ids = append(ids, f.SourceID)
			}
		}
		ws, err := e.client.FetchAll(cmd.Context(), ids)
		if err != nil {
			return fmt.Errorf("fetching details: %w", err)
		}
		for _, w := range ws {
			details[w.ID] = w
		}
	}

	t := newTable("SOURCE", "ID", "RATIO", "ADDED", "IMAGE")
	if favDetails {
		t = newTable("SOURCE", "ID", "RATIO", "ADDED", "IMAGE", "RESOLUTION", "TAGS")
	}
	for _, f := range favs {
		row := []string{string(f.Source), f.SourceID, f.Ratio, f.FavoritedAt().Format("2006-01-02 15:04"), f.MainImgURL}
		if favDetails {
			w := details[f.SourceID]
			row = append(row, w.Resolution, joinTags(w.TagNames(), 5))
		}
		t.Row(row...)
	}
	fmt.Fprintln(out, t)
	fmt.Fprintln(cmd.ErrOrStderr(), tui.MsgResultsCount(len(favs)))
	return nil
}

func runFavToggle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}

	key, meta, err := favoriteTarget(cmd, e, args[0])
	if err != nil {
		return err
	}
	outcome, err := e.favs.Toggle(ctx, key, meta)
	if err != nil {
		return err
	}

	switch outcome {
	case favorites.Removed:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tui.MsgFavoriteRemoved, key)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", tui.MsgFavoriteAdded, key)
	}
	return nil
}

// favoriteTarget resolves arg to a key and the metadata stored on insert.
// Catalog metadata is only fetched when the favorite does not exist yet.
func favoriteTarget(cmd *cobra.Command, e *env, arg string) (storage.Key, favorites.Metadata, error) {
	if favLocal {
		if e.lister == nil {
			return storage.Key{}, favorites.Metadata{}, errors.New(tui.MsgLocalDisabled)
		}
		w, err := e.lister.Get(arg)
		if err != nil {
			return storage.Key{}, favorites.Metadata{}, fmt.Errorf("%s: %w", arg, err)
		}
		key := storage.Key{SourceID: w.ID, Source: storage.SourceLocal}
		return key, favorites.Metadata{ThumbURL: w.Path, MainImgURL: w.Path}, nil
	}

	if strings.Contains(arg, "://") {
		link, ok := links.Default().Resolve(arg)
		if !ok {
			return storage.Key{}, favorites.Metadata{}, fmt.Errorf("%s is not a wallpaper link", arg)
		}
		arg = link.WallpaperID
	}

	key := storage.Key{SourceID: arg, Source: storage.SourceWallhaven}
	exists, err := e.store.Exists(key)
	if err != nil || exists {
		return key, favorites.Metadata{}, err
	}

	w, err := e.client.Wallpaper(cmd.Context(), arg)
	if err != nil {
		return key, favorites.Metadata{}, fmt.Errorf("looking up %s: %w", arg, err)
	}
	return key, favorites.Metadata{ThumbURL: w.Thumbs.Small, MainImgURL: w.Path, Ratio: w.Ratio}, nil
}

func joinTags(names []string, limit int) string {
	if len(names) > limit {
		names = append(names[:limit:limit], "…")
	}
	return strings.Join(names, ", ")
}

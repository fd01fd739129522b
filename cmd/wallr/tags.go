package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/wallr/internal/tui"
)

var (
	tagsRefresh bool
	tagsLimit   int
)

var tagsCmd = &cobra.Command{
	Use:   "tags [prefix]",
	Short: "Suggest tags, or list the cached popular tags",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTags,
}

func init() {
	tagsCmd.Flags().BoolVar(&tagsRefresh, "refresh", false, "Refetch popular tags even if the cache is fresh")
	tagsCmd.Flags().IntVarP(&tagsLimit, "limit", "n", 10, "Maximum number of tags to print")
}

func runTags(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}
	e.tags.SetForceRefresh(tagsRefresh)

	out := cmd.OutOrStdout()
	prefix := ""
	if len(args) == 1 {
		prefix = strings.TrimSpace(args[0])
	}

	if prefix == "" {
		all, err := e.tags.Load(ctx)
		if err != nil {
			return err
		}
		t := newTable("ID", "NAME", "CATEGORY", "PURITY")
		for i, tag := range all {
			if i == tagsLimit {
				break
			}
			t.Row(strconv.FormatInt(tag.ID, 10), tag.Name, tag.Category, tag.Purity)
		}
		fmt.Fprintln(out, t)
		fmt.Fprintf(cmd.ErrOrStderr(), "%d popular tags cached\n", len(all))
		return nil
	}

	results, err := e.tags.Suggest(ctx, prefix, tagsLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, tui.MsgNoResults)
		return nil
	}
	t := newTable("ID", "NAME", "CATEGORY", "SCORE")
	for _, r := range results {
		t.Row(strconv.FormatInt(r.Tag.ID, 10), r.Tag.Name, r.Tag.Category, strconv.FormatFloat(r.Score, 'f', 2, 64))
	}
	fmt.Fprintln(out, t)
	return nil
}

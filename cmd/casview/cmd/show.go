package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"casview/internal/cas"
	"casview/internal/digest"
	"casview/internal/explorer"
	"casview/internal/logging"
	"casview/internal/tree"
	"casview/internal/view"
)

var (
	showExpand []string
	showDepth  int
)

var showCmd = &cobra.Command{
	Use:   "show <snapshot>",
	Short: "Print a snapshot as a tree",
	Long: `Print the tree of a snapshot. Directories are collapsed unless they lie
within --depth levels of the root or their digest key is passed to --expand.
Every occurrence of an expanded digest is expanded.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringArrayVarP(&showExpand, "expand", "e", nil, "Digest key (hash/size) to expand; repeatable")
	showCmd.Flags().IntVarP(&showDepth, "depth", "d", 1, "Expand directories up to this many levels")
	rootCmd.AddCommand(showCmd)
}

func openExplorer(path string) (*explorer.Explorer, *tree.Snapshot, error) {
	snapshot, err := tree.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	e := explorer.New(snapshot.Root, cas.NewMemoryStore(snapshot.Directories), explorer.Options{
		AggregateLimit: cfg.Workers,
		Logger:         logging.L(),
	})
	return e, snapshot, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	e, _, err := openExplorer(args[0])
	if err != nil {
		return err
	}

	for _, key := range showExpand {
		if _, err := digest.Parse(key); err != nil {
			return err
		}
		e.ExpandKey(key)
	}
	if err := e.Settle(cmd.Context()); err != nil {
		return err
	}
	if err := e.ExpandAll(cmd.Context(), showDepth); err != nil {
		return err
	}

	return view.Write(cmd.OutOrStdout(), e.Rows(), glyphs())
}

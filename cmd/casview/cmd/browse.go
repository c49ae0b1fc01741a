package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"casview/internal/browse"
	"casview/internal/format"
)

var browseCmd = &cobra.Command{
	Use:   "browse <snapshot>",
	Short: "Explore a snapshot interactively",
	Args:  cobra.ExactArgs(1),
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	e, snapshot, err := openExplorer(args[0])
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s)", snapshot.RootPath, format.Bytes(snapshot.TotalSize))
	model := browse.New(cmd.Context(), e, glyphs(), title)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}

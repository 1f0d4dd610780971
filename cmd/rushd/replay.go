package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-rush/internal/mines"
)

var replayCmd = &cobra.Command{
	Use:   "replay SNAPSHOT...",
	Short: "Print boards dumped by RUSH_MATCH_SNAPSHOT_DIR",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, path := range args {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			s, err := mines.LoadSnapshot(b)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			board, err := mines.NewBoardFromSnapshot(s, nil)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(out, "%s: %dx%d, %d mines, %s, %d unflagged\n%s\n",
				path, board.Width(), board.Height(), board.TotalMines(),
				board.Phase(), board.UnflaggedMines(), board)
		}
		return nil
	},
}

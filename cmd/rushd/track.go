package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-rush/internal/levels"
)

var trackFile string

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Validate and print a level track",
	Long: `Validate and print a level track. Without a file the built-in track is
printed as YAML, ready to be edited and passed back with -f.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if trackFile == "" {
			b, err := levels.DefaultTrack().Marshal()
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		}

		track, err := levels.LoadTrack(trackFile)
		if err != nil {
			return err
		}
		for i, l := range track.Levels() {
			marker := " "
			if i == track.StartIndex() {
				marker = ">"
			}
			fmt.Fprintf(out, "%s %2d  %2dx%-2d  %s\n", marker, i, l.Width, l.Height, l)
		}
		return nil
	},
}

func init() {
	trackCmd.Flags().StringVarP(&trackFile, "file", "f", "", "level track file")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autobrr/findbrr/internal/torrent"
)

var inspectVerbose bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <torrent-file>",
	Short: "Inspect a torrent file and its rescue plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().SortFlags = false
	inspectCmd.Flags().BoolP("help", "h", false, "help for inspect")
	if err := inspectCmd.Flags().MarkHidden("help"); err != nil {
		fmt.Printf("failed to mark help flag as hidden: %v\n", err)
	}
	inspectCmd.Flags().BoolVarP(&inspectVerbose, "verbose", "v", false, "list every file with its verifiable extents")
}

func runInspect(cmd *cobra.Command, args []string) error {
	t, err := torrent.LoadFromFile(args[0])
	if err != nil {
		return err
	}

	info, err := t.UnmarshalInfo()
	if err != nil {
		return fmt.Errorf("error parsing info: %w", err)
	}

	display := torrent.NewDisplay(torrent.NewFormatter(inspectVerbose))
	display.ShowTorrentInfo(t, &info)

	descriptors := torrent.BuildDescriptors(&info, "")
	display.ShowRescuePlan(&info, descriptors)

	return nil
}

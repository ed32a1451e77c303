package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/autobrr/findbrr/internal/torrent"
)

// checkOptions encapsulates all the flags for the check command
type checkOptions struct {
	HashThreshold float64
	Verbose       bool
	Quiet         bool
}

var checkOpts checkOptions

var checkCmd = &cobra.Command{
	Use:   "check <torrent-file> <content-path>",
	Short: "Verify a reconstructed layout against a torrent file",
	Long: `Checks whether the layout below the content path holds the files the torrent
expects: present, correctly sized, and with their piece hashes intact. Useful
after a link run, or to see how much of a layout is still valid.`,
	Args:                       cobra.ExactArgs(2),
	RunE:                       runCheck,
	DisableFlagsInUseLine:      true,
	SuggestionsMinimumDistance: 1,
	SilenceUsage:               true,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().SortFlags = false
	checkCmd.Flags().Float64Var(&checkOpts.HashThreshold, "hash", 1.0, "fraction of extents to verify per file (0.0-1.0)")
	checkCmd.Flags().BoolVarP(&checkOpts.Verbose, "verbose", "v", false, "show lists of bad and missing files")
	checkCmd.Flags().BoolVar(&checkOpts.Quiet, "quiet", false, "reduced output mode (prints only completion percentage)")
	checkCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}} <torrent-file> <content-path> [flags]

Arguments:
  torrent-file   Path to the .torrent file
  content-path   Path to the directory holding the reconstructed layout

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`)
}

// validateCheckArgs validates the command arguments and returns the paths
func validateCheckArgs(args []string) (torrentPath string, contentPath string, err error) {
	torrentPath = args[0]
	contentPath = args[1]

	if _, err := os.Stat(torrentPath); err != nil {
		return "", "", fmt.Errorf("invalid torrent file path %q: %w", torrentPath, err)
	}

	if _, err := os.Stat(contentPath); err != nil {
		return "", "", fmt.Errorf("invalid content path %q: %w", contentPath, err)
	}

	return torrentPath, contentPath, nil
}

// displayCheckResults handles the display of verification results
func displayCheckResults(display *torrent.Display, result *torrent.CheckResult, duration time.Duration, opts checkOptions) {
	if opts.Quiet {
		fmt.Printf("%.2f%%\n", result.Completion)
	} else {
		display.ShowCheckResult(result, duration)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	torrentPath, contentPath, err := validateCheckArgs(args)
	if err != nil {
		return err
	}

	if checkOpts.HashThreshold < 0 || checkOpts.HashThreshold > 1 {
		return fmt.Errorf("hash threshold must be between 0.0 and 1.0, got %v", checkOpts.HashThreshold)
	}

	start := time.Now()

	display := torrent.NewDisplay(torrent.NewFormatter(checkOpts.Verbose))
	display.SetQuiet(checkOpts.Quiet)

	if !checkOpts.Quiet {
		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(os.Stdout, "\n%s\n", green("Checking:"))
		fmt.Fprintf(os.Stdout, "  Torrent file: %s\n", cyan(torrentPath))
		fmt.Fprintf(os.Stdout, "  Content: %s\n", cyan(contentPath))
	}

	result, err := torrent.CheckLayout(torrent.CheckOptions{
		TorrentPath: torrentPath,
		ContentPath: contentPath,
		Threshold:   checkOpts.HashThreshold,
		Verbose:     checkOpts.Verbose,
		Quiet:       checkOpts.Quiet,
	})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	duration := time.Since(start)
	displayCheckResults(display, result, duration, checkOpts)

	if result.BadFiles > 0 || result.MissingFiles > 0 {
		return fmt.Errorf("layout incomplete or damaged")
	}

	return nil
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/autobrr/findbrr/internal/preset"
	"github.com/autobrr/findbrr/internal/torrent"
)

// linkOptions encapsulates all the flags for the link command
type linkOptions struct {
	inputDirs       []string
	outputDir       string
	excludePatterns []string
	includePatterns []string
	presetName      string
	presetFile      string
	hashThreshold   float64
	symlinks        bool
	followSymlinks  bool
	dryRun          bool
	verbose         bool
	quiet           bool
}

var linkOpts linkOptions

var linkCmd = &cobra.Command{
	Use:   "link <torrent-file>...",
	Short: "Find a torrent's files and link them into its layout",
	Long: `Searches the given input directories for files that belong to one or more
torrents, verifies candidates by re-hashing pieces, and links every verified
file into the torrent's expected directory layout. Data is never copied;
matches are materialized as hard links, or symbolic links with --symlinks.`,
	Args:                       cobra.MinimumNArgs(1),
	RunE:                       runLink,
	DisableFlagsInUseLine:      true,
	SuggestionsMinimumDistance: 1,
	SilenceUsage:               true,
}

func init() {
	rootCmd.AddCommand(linkCmd)

	linkCmd.Flags().SortFlags = false
	linkCmd.Flags().BoolP("help", "h", false, "help for link")
	if err := linkCmd.Flags().MarkHidden("help"); err != nil {
		fmt.Printf("failed to mark help flag as hidden: %v\n", err)
	}

	linkCmd.Flags().StringArrayVarP(&linkOpts.inputDirs, "input", "i", nil, "directory (or file) to search, can be given multiple times")
	linkCmd.Flags().StringVarP(&linkOpts.outputDir, "output", "o", "./", "root directory for the reconstructed layout")
	linkCmd.Flags().BoolVarP(&linkOpts.symlinks, "symlinks", "s", false, "create symbolic links instead of hard links")
	linkCmd.Flags().BoolVar(&linkOpts.followSymlinks, "follow-symlinks", false, "follow symbolic links while searching")
	linkCmd.Flags().Float64Var(&linkOpts.hashThreshold, "hash", 1.0, "fraction of extents to verify per candidate (0.0-1.0)")
	linkCmd.Flags().StringArrayVarP(&linkOpts.excludePatterns, "exclude", "e", nil, "skip files matching these glob patterns (comma-separated)")
	linkCmd.Flags().StringArrayVar(&linkOpts.includePatterns, "include", nil, "only consider files matching these glob patterns (comma-separated)")
	linkCmd.Flags().StringVarP(&linkOpts.presetName, "preset", "P", "", "use preset from config")
	linkCmd.Flags().StringVar(&linkOpts.presetFile, "preset-file", "", "preset config file (default: findbrr.yaml)")
	linkCmd.Flags().BoolVarP(&linkOpts.dryRun, "dry-run", "n", false, "report matches without creating links")
	linkCmd.Flags().BoolVarP(&linkOpts.verbose, "verbose", "v", false, "be verbose")
	linkCmd.Flags().BoolVar(&linkOpts.quiet, "quiet", false, "reduced output mode (prints only match lines)")

	linkCmd.SetUsageTemplate(`Usage:
  {{.CommandPath}} <torrent-file>... [flags]

Arguments:
  torrent-file   Path to one or more .torrent files to rescue

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
`)
}

func runLink(cmd *cobra.Command, args []string) error {
	start := time.Now()

	opts := torrent.SearchOptions{
		FollowSymlinks:  linkOpts.followSymlinks,
		Symlinks:        linkOpts.symlinks,
		Threshold:       linkOpts.hashThreshold,
		ExcludePatterns: linkOpts.excludePatterns,
		IncludePatterns: linkOpts.includePatterns,
	}
	outputDir := linkOpts.outputDir

	// preset values fill in for flags the user left untouched
	if linkOpts.presetName != "" {
		presetPath, err := preset.FindPresetFile(linkOpts.presetFile)
		if err != nil {
			return fmt.Errorf("could not find preset file: %w", err)
		}

		presets, err := preset.Load(presetPath)
		if err != nil {
			return fmt.Errorf("could not load presets: %w", err)
		}

		p, err := presets.GetPreset(linkOpts.presetName)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if !flags.Changed("output") && p.Output != "" {
			outputDir = p.Output
		}
		if !flags.Changed("symlinks") {
			opts.Symlinks = *p.Symlinks
		}
		if !flags.Changed("follow-symlinks") {
			opts.FollowSymlinks = *p.FollowSymlinks
		}
		if !flags.Changed("hash") {
			opts.Threshold = *p.Hash
		}
		if len(opts.ExcludePatterns) == 0 {
			opts.ExcludePatterns = p.ExcludePatterns
		}
		if len(opts.IncludePatterns) == 0 {
			opts.IncludePatterns = p.IncludePatterns
		}
	}

	if len(linkOpts.inputDirs) == 0 {
		return fmt.Errorf("at least one search directory is required, use --input")
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return fmt.Errorf("hash threshold must be between 0.0 and 1.0, got %v", opts.Threshold)
	}
	if err := torrent.ValidatePatterns(opts.ExcludePatterns); err != nil {
		return err
	}
	if err := torrent.ValidatePatterns(opts.IncludePatterns); err != nil {
		return err
	}

	display := torrent.NewDisplay(torrent.NewFormatter(linkOpts.verbose))
	display.SetQuiet(linkOpts.quiet)

	var descriptors []torrent.Descriptor
	for _, torrentPath := range args {
		t, err := torrent.LoadFromFile(torrentPath)
		if err != nil {
			return err
		}
		info, err := t.UnmarshalInfo()
		if err != nil {
			return fmt.Errorf("could not unmarshal info dictionary from %q: %w", torrentPath, err)
		}
		descriptors = append(descriptors, torrent.BuildDescriptors(&info, outputDir)...)
	}

	if !linkOpts.quiet {
		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(os.Stdout, "\n%s\n", green("Rescuing:"))
		for _, torrentPath := range args {
			fmt.Fprintf(os.Stdout, "  Torrent file: %s\n", cyan(torrentPath))
		}
		fmt.Fprintf(os.Stdout, "  Output: %s\n\n", cyan(outputDir))
	}

	search := torrent.NewSearch(torrent.NewIndex(descriptors), opts, display)

	matched := make(map[string]struct{})
	for _, dir := range linkOpts.inputDirs {
		for m := range search.Matches(dir) {
			fmt.Fprintf(os.Stdout, "%s <= %s\n", m.WantPath, m.IsPath)
			matched[m.WantPath] = struct{}{}

			if linkOpts.dryRun {
				continue
			}
			if err := m.Link(opts.Symlinks); err != nil {
				display.ShowWarning(err.Error())
			}
		}
	}

	var recovered int64
	var missing []string
	for i := range descriptors {
		if _, ok := matched[descriptors[i].Path]; ok {
			recovered += descriptors[i].Size
		} else {
			missing = append(missing, descriptors[i].Path)
		}
	}

	display.ShowRescueSummary(len(matched), len(descriptors), recovered, time.Since(start))
	if linkOpts.verbose {
		display.ShowMissing(missing)
	}

	return nil
}

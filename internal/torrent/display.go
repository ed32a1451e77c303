package torrent

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anacrolix/torrent/metainfo"
	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	progressbar "github.com/schollz/progressbar/v3"
)

type Display struct {
	formatter *Formatter
	bar       *progressbar.ProgressBar
	output    io.Writer
	errOutput io.Writer
	quiet     bool
}

func NewDisplay(formatter *Formatter) *Display {
	return &Display{
		formatter: formatter,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}
}

func (d *Display) SetQuiet(quiet bool) {
	d.quiet = quiet
}

func (d *Display) ShowProgress(total int) {
	if d.quiet {
		return
	}
	fmt.Fprintln(d.output)
	d.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(d.output),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]Checking files...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (d *Display) UpdateProgress(completed int) {
	if d.bar != nil {
		if err := d.bar.Set(completed); err != nil {
			log.Printf("failed to update progress bar: %v", err)
		}
	}
}

func (d *Display) FinishProgress() {
	if d.bar != nil {
		if err := d.bar.Finish(); err != nil {
			log.Printf("failed to finish progress bar: %v", err)
		}
		fmt.Fprintln(d.output)
	}
}

// ShowWarning reports a non-fatal problem. Warnings go to the error stream
// so they never mix with match output.
func (d *Display) ShowWarning(message string) {
	fmt.Fprintf(d.errOutput, "%s %s\n", warning("Warning:"), message)
}

var (
	cyan       = color.New(color.FgMagenta, color.Bold).SprintFunc()
	label      = color.New(color.Bold, color.FgHiWhite).SprintFunc()
	success    = color.New(color.FgHiGreen).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
	warning    = color.New(color.FgYellow).SprintFunc()
	white      = fmt.Sprint
)

func (d *Display) ShowTorrentInfo(t *Torrent, info *metainfo.Info) {
	if d.quiet {
		return
	}
	fmt.Fprintf(d.output, "\n%s\n", cyan("Torrent info:"))
	fmt.Fprintf(d.output, "  %-13s %s\n", label("Name:"), info.Name)
	fmt.Fprintf(d.output, "  %-13s %s\n", label("Hash:"), t.HashInfoBytes())
	fmt.Fprintf(d.output, "  %-13s %s\n", label("Size:"), humanize.Bytes(uint64(info.TotalLength())))
	fmt.Fprintf(d.output, "  %-13s %s\n", label("Piece length:"), humanize.Bytes(uint64(info.PieceLength)))
	fmt.Fprintf(d.output, "  %-13s %d\n", label("Pieces:"), len(info.Pieces)/20)

	if info.Private != nil && *info.Private {
		fmt.Fprintf(d.output, "  %-13s %s\n", label("Private:"), "yes")
	}

	if info.Source != "" {
		fmt.Fprintf(d.output, "  %-13s %s\n", label("Source:"), info.Source)
	}

	if t.Comment != "" {
		fmt.Fprintf(d.output, "  %-13s %s\n", label("Comment:"), t.Comment)
	}

	if t.CreatedBy != "" {
		fmt.Fprintf(d.output, "  %-13s %s\n", label("Created by:"), t.CreatedBy)
	}

	if t.CreationDate != 0 {
		creationTime := time.Unix(t.CreationDate, 0)
		fmt.Fprintf(d.output, "  %-13s %s\n", label("Created on:"), creationTime.Format("2006-01-02 15:04:05 MST"))
	}

	if len(info.Files) > 0 {
		fmt.Fprintf(d.output, "  %-13s %d\n", label("Files:"), len(info.Files))
	}
}

// ShowRescuePlan summarizes what a rescue of this torrent could recover:
// how many files carry at least one verifiable extent and how much of the
// payload those extents cover. Verbose mode lists every file.
func (d *Display) ShowRescuePlan(info *metainfo.Info, descriptors []Descriptor) {
	if d.quiet {
		return
	}

	totalFiles := 1
	if info.IsDir() {
		totalFiles = len(info.Files)
	}

	var extents int
	var verifiableBytes int64
	for i := range descriptors {
		extents += len(descriptors[i].Extents)
		verifiableBytes += int64(len(descriptors[i].Extents)) * info.PieceLength
	}

	coverage := 0.0
	if total := info.TotalLength(); total > 0 {
		coverage = (float64(verifiableBytes) / float64(total)) * 100.0
	}

	fmt.Fprintf(d.output, "\n%s\n", cyan("Rescue plan:"))
	fmt.Fprintf(d.output, "  %-18s %d of %d\n", label("Matchable files:"), len(descriptors), totalFiles)
	fmt.Fprintf(d.output, "  %-18s %d\n", label("Verifiable extents:"), extents)
	fmt.Fprintf(d.output, "  %-18s %s (%.1f%% of payload)\n", label("Verifiable bytes:"),
		humanize.Bytes(uint64(verifiableBytes)), coverage)

	unmatchable := unmatchableFiles(info, descriptors)
	if len(unmatchable) > 0 {
		fmt.Fprintf(d.output, "  %-18s %s\n", label("Unmatchable files:"), errorColor(len(unmatchable)))
	}

	if d.formatter.verbose {
		if len(descriptors) > 0 {
			fmt.Fprintf(d.output, "\n%s\n", cyan("Matchable:"))
			for i := range descriptors {
				d.showDescriptorLine(&descriptors[i])
			}
		}
		if len(unmatchable) > 0 {
			fmt.Fprintf(d.output, "\n%s\n", cyan("Unmatchable (no whole piece inside the file):"))
			for _, path := range unmatchable {
				fmt.Fprintf(d.output, "  %s\n", errorColor(path))
			}
		}
	}
}

func (d *Display) showDescriptorLine(desc *Descriptor) {
	noun := "extents"
	if len(desc.Extents) == 1 {
		noun = "extent"
	}
	fmt.Fprintf(d.output, "  %s (%s, %d %s)\n",
		success(desc.Path),
		label(humanize.Bytes(uint64(desc.Size))),
		len(desc.Extents), noun)
}

// unmatchableFiles lists the files of the torrent that got no descriptor,
// joined the same way descriptor paths are.
func unmatchableFiles(info *metainfo.Info, descriptors []Descriptor) []string {
	if !info.IsDir() {
		return nil
	}

	have := make(map[string]bool, len(descriptors))
	for i := range descriptors {
		have[descriptors[i].Path] = true
	}

	var missing []string
	for _, f := range info.Files {
		path := filepath.Join(append([]string{info.Name}, f.Path...)...)
		if !have[path] {
			missing = append(missing, path)
		}
	}
	return missing
}

// ShowRescueSummary prints the closing line of a link run.
func (d *Display) ShowRescueSummary(matched, total int, bytes int64, duration time.Duration) {
	if d.quiet {
		return
	}
	var elapsed string
	if duration < time.Second {
		elapsed = fmt.Sprintf("elapsed %dms", duration.Milliseconds())
	} else {
		elapsed = fmt.Sprintf("elapsed %.2fs", duration.Seconds())
	}
	fmt.Fprintf(d.output, "\n%s %s of %s files (%s) (%s)\n",
		success("Matched"),
		white(matched),
		white(total),
		label(humanize.Bytes(uint64(bytes))),
		cyan(elapsed))
}

// ShowMissing lists descriptor paths no candidate verified for.
func (d *Display) ShowMissing(paths []string) {
	if d.quiet || len(paths) == 0 {
		return
	}
	fmt.Fprintf(d.output, "\n%s\n", cyan("Not found:"))
	for _, path := range paths {
		fmt.Fprintf(d.output, "  %s\n", errorColor(path))
	}
}

// ShowCheckResult prints the outcome of a layout check.
func (d *Display) ShowCheckResult(result *CheckResult, duration time.Duration) {
	if d.quiet {
		return
	}
	fmt.Fprintf(d.output, "\n%s\n", cyan("Check results:"))
	fmt.Fprintf(d.output, "  %-15s %d\n", label("Total files:"), result.TotalFiles)
	fmt.Fprintf(d.output, "  %-15s %s\n", label("Good:"), success(result.GoodFiles))
	fmt.Fprintf(d.output, "  %-15s %s\n", label("Bad:"), errorColor(result.BadFiles))
	fmt.Fprintf(d.output, "  %-15s %s\n", label("Missing:"), errorColor(result.MissingFiles))
	fmt.Fprintf(d.output, "  %-15s %d\n", label("Extents hashed:"), result.ExtentsChecked)
	fmt.Fprintf(d.output, "  %-15s %.2f%%\n", label("Completion:"), result.Completion)
	fmt.Fprintf(d.output, "  %-15s %s\n", label("Check time:"), d.formatter.FormatDuration(duration))

	if d.formatter.verbose {
		if len(result.Bad) > 0 {
			fmt.Fprintf(d.output, "\n%s\n", cyan("Bad files:"))
			for _, path := range result.Bad {
				fmt.Fprintf(d.output, "  %s\n", errorColor(path))
			}
		}
		if len(result.Missing) > 0 {
			fmt.Fprintf(d.output, "\n%s\n", cyan("Missing files:"))
			for _, path := range result.Missing {
				fmt.Fprintf(d.output, "  %s\n", errorColor(path))
			}
		}
	}
}

type Formatter struct {
	verbose bool
}

func NewFormatter(verbose bool) *Formatter {
	return &Formatter{verbose: verbose}
}

func (f *Formatter) FormatBytes(bytes int64) string {
	return humanize.Bytes(uint64(bytes))
}

func (f *Formatter) FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return humanize.RelTime(time.Now().Add(-d), time.Now(), "", "")
}

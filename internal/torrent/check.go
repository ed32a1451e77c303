package torrent

import (
	"fmt"
	"os"
)

// CheckLayout verifies a reconstructed layout against a torrent file. Every
// descriptor derived from the torrent is checked in order: the file must
// exist below ContentPath with the expected size, and the threshold fraction
// of its extents must re-hash cleanly.
func CheckLayout(opts CheckOptions) (*CheckResult, error) {
	t, err := LoadFromFile(opts.TorrentPath)
	if err != nil {
		return nil, err
	}

	info, err := t.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal info dictionary from %q: %w", opts.TorrentPath, err)
	}

	descriptors := BuildDescriptors(&info, opts.ContentPath)

	display := NewDisplay(NewFormatter(opts.Verbose))
	display.SetQuiet(opts.Quiet)

	result := &CheckResult{TotalFiles: len(descriptors)}
	if len(descriptors) == 0 {
		return result, nil
	}

	display.ShowProgress(len(descriptors))

	for i := range descriptors {
		d := &descriptors[i]

		fi, err := os.Stat(d.Path)
		switch {
		case err != nil:
			result.MissingFiles++
			result.Missing = append(result.Missing, d.Path)
		case fi.IsDir():
			result.MissingFiles++
			result.Missing = append(result.Missing, d.Path)
		case fi.Size() != d.Size:
			result.MissingFiles++
			result.Missing = append(result.Missing, d.Path+" (size mismatch)")
		default:
			ok, err := verifyLayoutFile(d, opts.Threshold)
			result.ExtentsChecked += d.verifiedCount(opts.Threshold)
			switch {
			case err != nil:
				display.ShowWarning(fmt.Sprintf("error reading %s: %v", d.Path, err))
				result.BadFiles++
				result.Bad = append(result.Bad, d.Path)
			case !ok:
				result.BadFiles++
				result.Bad = append(result.Bad, d.Path)
			default:
				result.GoodFiles++
			}
		}

		display.UpdateProgress(i + 1)
	}

	display.FinishProgress()

	// Completion covers only files that were present with the right size.
	checkable := result.TotalFiles - result.MissingFiles
	if checkable > 0 {
		result.Completion = (float64(result.GoodFiles) / float64(checkable)) * 100.0
	}

	return result, nil
}

func verifyLayoutFile(d *Descriptor, threshold float64) (bool, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	return d.Verify(f, threshold)
}

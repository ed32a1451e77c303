package torrent

import (
	"crypto/sha1"
	"fmt"

	"github.com/anacrolix/torrent/metainfo"
)

// Extent is a piece-aligned byte range of a file together with the SHA-1
// hash the torrent records for that range.
type Extent struct {
	Offset int64
	Size   int64
	Hash   [sha1.Size]byte
}

// Descriptor describes one file the torrent expects: where it should live
// relative to the output root, how large it is, and which extents of it can
// be verified against piece hashes. Extents may be empty for a single-file
// torrent shorter than one piece.
type Descriptor struct {
	Path    string
	Size    int64
	Extents []Extent
}

// Match pairs a file found on disk with the descriptor path it verified
// against.
type Match struct {
	IsPath   string // existing file on disk
	WantPath string // destination inside the output layout
}

// SearchOptions holds options for scanning directories and verifying
// candidates.
type SearchOptions struct {
	FollowSymlinks  bool
	Symlinks        bool
	Threshold       float64
	ExcludePatterns []string
	IncludePatterns []string
}

// CheckOptions holds options for verifying a reconstructed layout
type CheckOptions struct {
	TorrentPath string
	ContentPath string
	Threshold   float64
	Verbose     bool
	Quiet       bool
}

// CheckResult summarizes a layout verification run
type CheckResult struct {
	TotalFiles     int
	GoodFiles      int
	BadFiles       int
	MissingFiles   int
	ExtentsChecked int
	Completion     float64
	Bad            []string
	Missing        []string
}

// Torrent represents a torrent file with additional functionality
type Torrent struct {
	*metainfo.MetaInfo
}

// LoadFromFile reads and parses a torrent file from disk
func LoadFromFile(path string) (*Torrent, error) {
	mi, err := metainfo.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load torrent file %q: %w", path, err)
	}
	return &Torrent{MetaInfo: mi}, nil
}

// candidate is one regular file seen during a directory scan.
type candidate struct {
	path string
	size int64
}

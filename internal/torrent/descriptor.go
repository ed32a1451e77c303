package torrent

import (
	"crypto/sha1"
	"path/filepath"

	"github.com/anacrolix/torrent/metainfo"
)

// pieceCursor walks the flat list of concatenated piece hashes in an info
// dictionary. All files of a multi-file torrent consume from the same cursor,
// in torrent order.
type pieceCursor struct {
	pieces []byte
	next   int
}

// take returns the next piece hash, or false once the list is exhausted.
// A truncated trailing hash counts as exhausted.
func (c *pieceCursor) take() ([sha1.Size]byte, bool) {
	var hash [sha1.Size]byte
	end := (c.next + 1) * sha1.Size
	if end > len(c.pieces) {
		return hash, false
	}
	copy(hash[:], c.pieces[c.next*sha1.Size:end])
	c.next++
	return hash, true
}

// BuildDescriptors derives the expected identity of every file in the
// torrent: its path below outputRoot, its size, and the extents that can be
// verified in isolation. Pieces that straddle a file boundary are consumed
// but attributed to no file, so a file contributes only the whole pieces
// that lie fully inside it. Files left without a single verifiable extent
// get no descriptor in multi-file mode.
//
// If the metadata holds fewer piece hashes than the file lengths require,
// descriptor construction stops at the last available hash and returns what
// was built up to that point.
func BuildDescriptors(info *metainfo.Info, outputRoot string) []Descriptor {
	if info.PieceLength <= 0 {
		return nil
	}
	if info.IsDir() {
		return buildMultiFile(info, outputRoot)
	}
	return buildSingleFile(info, outputRoot)
}

func buildSingleFile(info *metainfo.Info, outputRoot string) []Descriptor {
	cursor := &pieceCursor{pieces: info.Pieces}

	var extents []Extent
	for offset := int64(0); info.Length-offset >= info.PieceLength; offset += info.PieceLength {
		hash, ok := cursor.take()
		if !ok {
			break
		}
		extents = append(extents, Extent{Offset: offset, Size: info.PieceLength, Hash: hash})
	}

	// A trailing range shorter than one piece shares its hash with padding
	// that is not part of this file, so it stays unverified. The descriptor
	// is still emitted; size remains the only evidence for files shorter
	// than a piece.
	return []Descriptor{{
		Path:    filepath.Join(outputRoot, info.Name),
		Size:    info.Length,
		Extents: extents,
	}}
}

func buildMultiFile(info *metainfo.Info, outputRoot string) []Descriptor {
	cursor := &pieceCursor{pieces: info.Pieces}
	dirName := filepath.Join(outputRoot, info.Name)

	descriptors := make([]Descriptor, 0, len(info.Files))
	fileOffset := int64(0)

	for _, file := range info.Files {
		// The file sits entirely inside the span of a piece consumed for an
		// earlier file. Skip it without consuming a piece.
		if fileOffset >= file.Length {
			fileOffset -= file.Length
			continue
		}

		var extents []Extent
		for file.Length-fileOffset >= info.PieceLength {
			hash, ok := cursor.take()
			if !ok {
				break
			}
			extents = append(extents, Extent{Offset: fileOffset, Size: info.PieceLength, Hash: hash})
			fileOffset += info.PieceLength
		}

		if len(extents) > 0 {
			descriptors = append(descriptors, Descriptor{
				Path:    filepath.Join(append([]string{dirName}, file.Path...)...),
				Size:    file.Length,
				Extents: extents,
			})
		}

		// The next piece straddles into the following file. Consume it and
		// carry the overhang as the next file's starting offset. A file that
		// ends exactly on a piece boundary carries nothing over.
		if remainder := file.Length - fileOffset; remainder > 0 {
			fileOffset = info.PieceLength - remainder
			if _, ok := cursor.take(); !ok {
				break
			}
		} else {
			fileOffset = 0
		}
	}

	return descriptors
}

// Index groups descriptors by file size. Several files of a torrent, or of
// different torrents rescued together, may share a length; a candidate must
// be tried against all of them.
type Index map[int64][]*Descriptor

// NewIndex builds a size index over descriptors. The slice must not be
// appended to afterwards, the index points into it.
func NewIndex(descriptors []Descriptor) Index {
	index := make(Index, len(descriptors))
	for i := range descriptors {
		d := &descriptors[i]
		index[d.Size] = append(index[d.Size], d)
	}
	return index
}

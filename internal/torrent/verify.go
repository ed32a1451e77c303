package torrent

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"io"
)

// hashRange computes the SHA-1 digest of exactly length bytes of r starting
// at offset. Running out of data before length bytes surfaces as
// io.ErrUnexpectedEOF so callers can tell a short file from a real read
// error.
func hashRange(r io.ReadSeeker, offset, length int64) ([sha1.Size]byte, error) {
	var sum [sha1.Size]byte

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return sum, err
	}

	h := sha1.New()
	if _, err := io.CopyN(h, r, length); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return sum, err
	}

	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// Verify re-hashes extents of the file behind r against the descriptor.
// threshold selects the fraction of extents to check, front to back:
// 0 accepts on size alone, 1 re-hashes every verifiable extent. The checked
// count is truncated, so thresholds below 1/len(extents) check nothing.
//
// A hash mismatch or a file too short to cover an extent reports a plain
// non-match. Only real I/O failures return an error.
func (d *Descriptor) Verify(r io.ReadSeeker, threshold float64) (bool, error) {
	count := int(float64(len(d.Extents)) * threshold)
	count = min(max(count, 0), len(d.Extents))

	for _, extent := range d.Extents[:count] {
		sum, err := hashRange(r, extent.Offset, extent.Size)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !bytes.Equal(sum[:], extent.Hash[:]) {
			return false, nil
		}
	}

	return true, nil
}

// verifiedCount mirrors the extent count Verify would check at threshold.
func (d *Descriptor) verifiedCount(threshold float64) int {
	count := int(float64(len(d.Extents)) * threshold)
	return min(max(count, 0), len(d.Extents))
}

package torrent

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"io"
	"testing"
)

func TestHashRange(t *testing.T) {
	data := makeData(20, 100)
	r := bytes.NewReader(data)

	sum, err := hashRange(r, 10, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := sha1.Sum(data[10:40]); sum != want {
		t.Errorf("hash mismatch for range [10, 40)")
	}

	// Ranges reaching past the end report a short read, not a bogus hash.
	if _, err := hashRange(r, 90, 30); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestVerifyFullMatch(t *testing.T) {
	data := makeData(21, 64)
	info := singleFileInfo("file.bin", 16, data)
	d := BuildDescriptors(info, "")[0]

	ok, err := d.Verify(bytes.NewReader(data), 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("identical content did not verify at threshold 1.0")
	}
}

func TestVerifyCorruptContent(t *testing.T) {
	data := makeData(22, 64)
	info := singleFileInfo("file.bin", 16, data)
	d := BuildDescriptors(info, "")[0]

	corrupt := append([]byte(nil), data...)
	corrupt[20] ^= 0xff

	ok, err := d.Verify(bytes.NewReader(corrupt), 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("corrupt content verified at threshold 1.0")
	}
}

func TestVerifyThresholdFrontLoaded(t *testing.T) {
	data := makeData(23, 64)
	info := singleFileInfo("file.bin", 16, data)
	d := BuildDescriptors(info, "")[0]

	// Damage only the last piece: partial verification checks extents from
	// the front, so half a check must still pass.
	corrupt := append([]byte(nil), data...)
	corrupt[60] ^= 0xff

	ok, err := d.Verify(bytes.NewReader(corrupt), 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("tail corruption passed a full verify")
	}

	ok, err = d.Verify(bytes.NewReader(corrupt), 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("tail corruption failed a half verify")
	}

	// The checked count truncates: 4 extents at 0.74 checks two.
	ok, err = d.Verify(bytes.NewReader(corrupt), 0.74)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("threshold 0.74 of 4 extents should check only the first two")
	}
}

func TestVerifyThresholdZero(t *testing.T) {
	data := makeData(24, 64)
	info := singleFileInfo("file.bin", 16, data)
	d := BuildDescriptors(info, "")[0]

	garbage := makeData(99, 64)
	ok, err := d.Verify(bytes.NewReader(garbage), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("threshold 0 must accept on size alone")
	}
}

func TestVerifyShortFile(t *testing.T) {
	data := makeData(25, 64)
	info := singleFileInfo("file.bin", 16, data)
	d := BuildDescriptors(info, "")[0]

	// A truncated candidate is a non-match, not an error.
	ok, err := d.Verify(bytes.NewReader(data[:40]), 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("truncated content verified")
	}
}

func TestVerifyNoExtents(t *testing.T) {
	d := &Descriptor{Path: "tiny.bin", Size: 10}

	ok, err := d.Verify(bytes.NewReader(makeData(26, 10)), 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("descriptor without extents must accept any content")
	}
}

func TestVerifiedCount(t *testing.T) {
	d := &Descriptor{Extents: make([]Extent, 4)}

	tests := []struct {
		threshold float64
		want      int
	}{
		{0, 0},
		{0.24, 0},
		{0.25, 1},
		{0.5, 2},
		{0.74, 2},
		{0.75, 3},
		{1.0, 4},
	}

	for _, tt := range tests {
		if got := d.verifiedCount(tt.threshold); got != tt.want {
			t.Errorf("threshold %v: got %d, want %d", tt.threshold, got, tt.want)
		}
	}
}

package imaging

import (
	"bytes"
	"testing"
)

func TestScanJPEGCountsTablesAcrossSegments(t *testing.T) {
	dqt8 := append([]byte{0x00}, make([]byte, 64)...)
	dqt16 := append([]byte{0x11}, make([]byte, 128)...)

	var data []byte
	data = append(data, 0xFF, 0xD8)
	data = append(data, segment(0xDB, append(dqt8, dqt16...))...)
	data = append(data, segment(0xDB, dqt8)...)
	data = append(data, segment(0xC2, []byte{8, 0x01, 0xE0, 0x02, 0x80, 3})...)
	data = append(data, 0xFF, 0xD9)

	scan, err := scanJPEG(data)
	if err != nil {
		t.Fatalf("scanJPEG returned error: %v", err)
	}
	if scan.quantTables != 3 {
		t.Fatalf("quantTables = %d, want 3", scan.quantTables)
	}
	if scan.width != 640 || scan.height != 480 {
		t.Fatalf("dimensions = %dx%d, want 640x480", scan.width, scan.height)
	}
}

func TestScanJPEGSkipsEntropyData(t *testing.T) {
	var data []byte
	data = append(data, 0xFF, 0xD8)
	data = append(data, segment(0xDA, []byte{1, 1, 0, 0, 63, 0})...)
	// stuffed byte and restart marker inside the scan
	data = append(data, 0x12, 0xFF, 0x00, 0x34, 0xFF, 0xD0, 0x56)
	data = append(data, segment(0xDB, append([]byte{0x00}, make([]byte, 64)...))...)
	data = append(data, 0xFF, 0xD9)

	scan, err := scanJPEG(data)
	if err != nil {
		t.Fatalf("scanJPEG returned error: %v", err)
	}
	if scan.quantTables != 1 {
		t.Fatalf("quantTables = %d, want 1", scan.quantTables)
	}
}

func TestScanJPEGKeepsExifFromTruncatedFile(t *testing.T) {
	payload := []byte("II*\x00\x08\x00\x00\x00")
	var data []byte
	data = append(data, 0xFF, 0xD8)
	data = append(data, segment(0xE1, append([]byte("Exif\x00\x00"), payload...))...)
	data = append(data, 0xFF, 0xDB, 0x00, 0x43, 0x00)

	scan, err := scanJPEG(data)
	if err != nil {
		t.Fatalf("scanJPEG returned error: %v", err)
	}
	if !bytes.Equal(scan.exif, payload) {
		t.Fatalf("exif = % x, want % x", scan.exif, payload)
	}
	if scan.quantTables != 0 {
		t.Fatalf("expected truncated DQT to be ignored, got %d", scan.quantTables)
	}
}

func TestScanJPEGRejectsMissingSOI(t *testing.T) {
	if _, err := scanJPEG([]byte{0x00, 0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected error for missing SOI")
	}
}

func segment(marker byte, payload []byte) []byte {
	length := len(payload) + 2
	out := []byte{0xFF, marker, byte(length >> 8), byte(length)}
	return append(out, payload...)
}

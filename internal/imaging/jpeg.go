package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var exifHeader = []byte("Exif\x00\x00")

type jpegScan struct {
	quantTables int
	exif        []byte
	width       int
	height      int
}

// scanJPEG walks the marker segments of a JPEG stream. A truncated stream
// ends the walk without error so that partial files still yield whatever
// was found before the cut.
func scanJPEG(data []byte) (jpegScan, error) {
	var scan jpegScan
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return scan, errors.New("missing SOI marker")
	}

	i := 2
	for i+1 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			// fill byte
			i++
			continue
		case marker == 0x00, marker == 0x01, marker == 0xD8, marker >= 0xD0 && marker <= 0xD7:
			i += 2
			continue
		case marker == 0xD9:
			return scan, nil
		}

		if i+4 > len(data) {
			return scan, nil
		}
		length := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		end := i + 2 + length
		if length < 2 || end > len(data) {
			return scan, nil
		}
		segment := data[i+4 : end]

		switch {
		case marker == 0xDB:
			scan.quantTables += countQuantTables(segment)
		case marker == 0xE1:
			if scan.exif == nil && bytes.HasPrefix(segment, exifHeader) {
				scan.exif = segment[len(exifHeader):]
			}
		case isStartOfFrame(marker):
			if scan.width == 0 && len(segment) >= 5 {
				scan.height = int(binary.BigEndian.Uint16(segment[1:3]))
				scan.width = int(binary.BigEndian.Uint16(segment[3:5]))
			}
		case marker == 0xDA:
			i = skipEntropyData(data, end)
			continue
		}
		i = end
	}
	return scan, nil
}

// countQuantTables counts the tables packed in one DQT segment. Each table is
// a precision/id byte followed by 64 entries of 8 or 16 bits.
func countQuantTables(segment []byte) int {
	count := 0
	for p := 0; p < len(segment); {
		size := 64
		if segment[p]>>4 != 0 {
			size = 128
		}
		p += 1 + size
		count++
	}
	return count
}

func isStartOfFrame(marker byte) bool {
	if marker < 0xC0 || marker > 0xCF {
		return false
	}
	// DHT, JPG and DAC share the range but are not frame headers.
	return marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

// skipEntropyData returns the offset of the first marker after compressed scan
// data, ignoring stuffed zero bytes and restart markers.
func skipEntropyData(data []byte, from int) int {
	for i := from; i+1 < len(data); i++ {
		if data[i] != 0xFF {
			continue
		}
		next := data[i+1]
		if next == 0x00 || next == 0xFF || (next >= 0xD0 && next <= 0xD7) {
			continue
		}
		return i
	}
	return len(data)
}

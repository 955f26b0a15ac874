package imaging

import (
	"bytes"
	"encoding/binary"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngExif returns the payload of the first eXIf chunk.
func pngExif(data []byte) []byte {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}
	for p := len(pngSignature); p+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[p : p+4]))
		kind := string(data[p+4 : p+8])
		start := p + 8
		end := start + length
		if length < 0 || end+4 > len(data) {
			return nil
		}
		switch kind {
		case "eXIf":
			return trimExifHeader(data[start:end])
		case "IEND":
			return nil
		}
		p = end + 4
	}
	return nil
}

// webpExif returns the payload of the EXIF chunk of an extended WebP file.
func webpExif(data []byte) []byte {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil
	}
	for p := 12; p+8 <= len(data); {
		kind := string(data[p : p+4])
		length := int(binary.LittleEndian.Uint32(data[p+4 : p+8]))
		start := p + 8
		end := start + length
		if length < 0 || end > len(data) {
			return nil
		}
		if kind == "EXIF" {
			return trimExifHeader(data[start:end])
		}
		p = end + length%2
	}
	return nil
}

// Some writers keep the JPEG APP1 "Exif\0\0" prefix inside PNG and WebP chunks.
func trimExifHeader(payload []byte) []byte {
	return bytes.TrimPrefix(payload, exifHeader)
}

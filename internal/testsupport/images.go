package testsupport

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// CameraExif describes the tags written by ExifBlock. Empty strings and zero
// values are omitted.
type CameraExif struct {
	Make             string
	Model            string
	Software         string
	DateTime         string
	DateTimeOriginal string
	LensMake         string
	LensModel        string
	UserComment      string
	// MakerNote is stored verbatim as the vendor MakerNote blob.
	MakerNote   []byte
	Orientation uint16
	GPS         *GPSPoint
}

// GPSPoint is a coordinate in whole degrees, minutes and seconds.
type GPSPoint struct {
	LatRef  string
	Lat     [3]uint32
	LongRef string
	Long    [3]uint32
}

// PhoneExif returns tags resembling a smartphone capture.
func PhoneExif() CameraExif {
	return CameraExif{
		Make:             "Apple",
		Model:            "iPhone 15 Pro",
		Software:         "17.4.1",
		DateTime:         "2024:05:01 10:21:33",
		DateTimeOriginal: "2024:05:01 10:21:33",
		LensMake:         "Apple",
		LensModel:        "iPhone 15 Pro back triple camera 6.765mm f/1.78",
		Orientation:      1,
		GPS: &GPSPoint{
			LatRef:  "N",
			Lat:     [3]uint32{40, 26, 46},
			LongRef: "W",
			Long:    [3]uint32{79, 58, 56},
		},
	}
}

type ifdEntry struct {
	id    uint16
	typ   uint16
	count uint32
	value []byte
}

const (
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeUndefined = 7
)

func asciiEntry(id uint16, s string) ifdEntry {
	v := append([]byte(s), 0)
	return ifdEntry{id: id, typ: typeASCII, count: uint32(len(v)), value: v}
}

func shortEntry(id uint16, v uint16) ifdEntry {
	return ifdEntry{id: id, typ: typeShort, count: 1, value: binary.LittleEndian.AppendUint16(nil, v)}
}

func longEntry(id uint16, v uint32) ifdEntry {
	return ifdEntry{id: id, typ: typeLong, count: 1, value: binary.LittleEndian.AppendUint32(nil, v)}
}

func degreesEntry(id uint16, dms [3]uint32) ifdEntry {
	var v []byte
	for _, part := range dms {
		v = binary.LittleEndian.AppendUint32(v, part)
		v = binary.LittleEndian.AppendUint32(v, 1)
	}
	return ifdEntry{id: id, typ: typeRational, count: 3, value: v}
}

// ExifBlock encodes the tags as a little-endian TIFF structure, the payload
// format carried in JPEG APP1, PNG eXIf and WebP EXIF segments.
func ExifBlock(meta CameraExif) []byte {
	var ifd0, exifIFD, gpsIFD []ifdEntry
	addASCII := func(dst *[]ifdEntry, id uint16, s string) {
		if s != "" {
			*dst = append(*dst, asciiEntry(id, s))
		}
	}
	addASCII(&ifd0, 0x010F, meta.Make)
	addASCII(&ifd0, 0x0110, meta.Model)
	addASCII(&ifd0, 0x0131, meta.Software)
	addASCII(&ifd0, 0x0132, meta.DateTime)
	if meta.Orientation != 0 {
		ifd0 = append(ifd0, shortEntry(0x0112, meta.Orientation))
	}
	addASCII(&exifIFD, 0x9003, meta.DateTimeOriginal)
	addASCII(&exifIFD, 0xA433, meta.LensMake)
	addASCII(&exifIFD, 0xA434, meta.LensModel)
	if meta.UserComment != "" {
		v := append([]byte("ASCII\x00\x00\x00"), meta.UserComment...)
		exifIFD = append(exifIFD, ifdEntry{id: 0x9286, typ: typeUndefined, count: uint32(len(v)), value: v})
	}
	if len(meta.MakerNote) > 0 {
		exifIFD = append(exifIFD, ifdEntry{id: 0x927C, typ: typeUndefined, count: uint32(len(meta.MakerNote)), value: meta.MakerNote})
	}
	if meta.GPS != nil {
		gpsIFD = append(gpsIFD,
			asciiEntry(0x0001, meta.GPS.LatRef),
			degreesEntry(0x0002, meta.GPS.Lat),
			asciiEntry(0x0003, meta.GPS.LongRef),
			degreesEntry(0x0004, meta.GPS.Long),
		)
	}

	// Pointer entries are fixed-size, so IFD0's size is known before the
	// sub-IFD offsets are.
	if len(exifIFD) > 0 {
		ifd0 = append(ifd0, longEntry(0x8769, 0))
	}
	if len(gpsIFD) > 0 {
		ifd0 = append(ifd0, longEntry(0x8825, 0))
	}
	exifOffset := 8 + ifdSize(ifd0)
	gpsOffset := exifOffset + ifdSize(exifIFD)
	for i := range ifd0 {
		switch ifd0[i].id {
		case 0x8769:
			ifd0[i].value = binary.LittleEndian.AppendUint32(nil, uint32(exifOffset))
		case 0x8825:
			ifd0[i].value = binary.LittleEndian.AppendUint32(nil, uint32(gpsOffset))
		}
	}

	out := []byte{'I', 'I', 0x2A, 0x00}
	out = binary.LittleEndian.AppendUint32(out, 8)
	out = appendIFD(out, ifd0)
	if len(exifIFD) > 0 {
		out = appendIFD(out, exifIFD)
	}
	if len(gpsIFD) > 0 {
		out = appendIFD(out, gpsIFD)
	}
	return out
}

func ifdSize(entries []ifdEntry) int {
	if len(entries) == 0 {
		return 0
	}
	size := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.value) > 4 {
			size += len(e.value) + len(e.value)%2
		}
	}
	return size
}

// appendIFD writes entries followed by their out-of-line values. Offsets are
// relative to the start of out, which must begin at the TIFF header.
func appendIFD(out []byte, entries []ifdEntry) []byte {
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	le := binary.LittleEndian
	dataOffset := len(out) + 2 + 12*len(entries) + 4
	var data []byte

	out = le.AppendUint16(out, uint16(len(entries)))
	for _, e := range entries {
		out = le.AppendUint16(out, e.id)
		out = le.AppendUint16(out, e.typ)
		out = le.AppendUint32(out, e.count)
		if len(e.value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.value)
			out = append(out, inline...)
			continue
		}
		out = le.AppendUint32(out, uint32(dataOffset+len(data)))
		data = append(data, e.value...)
		if len(e.value)%2 == 1 {
			data = append(data, 0)
		}
	}
	out = le.AppendUint32(out, 0)
	return append(out, data...)
}

// JPEGOptions controls the synthetic JPEG produced by JPEG.
type JPEGOptions struct {
	Width  int
	Height int
	// Exif is a TIFF block (see ExifBlock) stored in an APP1 segment.
	Exif []byte
	// XMP is stored in a second APP1 segment when non-empty.
	XMP string
	// PadTo appends comment segments until the file reaches this size.
	PadTo int
}

// JPEG encodes a gradient image and splices the requested segments in right
// after the SOI marker.
func JPEG(t testing.TB, opts JPEGOptions) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(opts.Width, opts.Height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	encoded := buf.Bytes()

	var segments []byte
	if len(opts.Exif) > 0 {
		segments = append(segments, jpegSegment(0xE1, append([]byte("Exif\x00\x00"), opts.Exif...))...)
	}
	if opts.XMP != "" {
		segments = append(segments, jpegSegment(0xE1, append([]byte("http://ns.adobe.com/xap/1.0/\x00"), opts.XMP...))...)
	}
	for len(encoded)+len(segments) < opts.PadTo {
		missing := opts.PadTo - len(encoded) - len(segments)
		chunk := min(missing, 60000)
		segments = append(segments, jpegSegment(0xFE, bytes.Repeat([]byte{'x'}, chunk))...)
	}

	out := make([]byte, 0, len(encoded)+len(segments))
	out = append(out, encoded[:2]...)
	out = append(out, segments...)
	return append(out, encoded[2:]...)
}

func jpegSegment(marker byte, payload []byte) []byte {
	seg := []byte{0xFF, marker}
	seg = binary.BigEndian.AppendUint16(seg, uint16(len(payload)+2))
	return append(seg, payload...)
}

// PNG encodes a gradient image with an optional eXIf chunk after IHDR.
func PNG(t testing.TB, width, height int, exifBlock []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(width, height)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	encoded := buf.Bytes()
	if len(exifBlock) == 0 {
		return encoded
	}

	// signature (8) + IHDR chunk (4 length + 4 type + 13 data + 4 crc)
	const afterIHDR = 8 + 25
	chunk := binary.BigEndian.AppendUint32(nil, uint32(len(exifBlock)))
	body := append([]byte("eXIf"), exifBlock...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(body))

	out := make([]byte, 0, len(encoded)+len(chunk))
	out = append(out, encoded[:afterIHDR]...)
	out = append(out, chunk...)
	return append(out, encoded[afterIHDR:]...)
}

// BMP encodes a gradient bitmap.
func BMP(t testing.TB, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := bmp.Encode(&buf, gradient(width, height)); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	return buf.Bytes()
}

// TIFF encodes a gradient image as an uncompressed TIFF.
func TIFF(t testing.TB, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := tiff.Encode(&buf, gradient(width, height), nil); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}
	return buf.Bytes()
}

// WebP builds an extended-format WebP header (VP8X) carrying the canvas size
// and an optional EXIF chunk. It holds no bitstream, so only header decoding
// succeeds.
func WebP(width, height int, exifBlock []byte) []byte {
	le := binary.LittleEndian

	vp8x := make([]byte, 10)
	if len(exifBlock) > 0 {
		vp8x[0] = 1 << 3
	}
	w, h := uint32(width-1), uint32(height-1)
	vp8x[4], vp8x[5], vp8x[6] = byte(w), byte(w>>8), byte(w>>16)
	vp8x[7], vp8x[8], vp8x[9] = byte(h), byte(h>>8), byte(h>>16)

	riffChunk := func(id string, data []byte) []byte {
		c := append([]byte(id), le.AppendUint32(nil, uint32(len(data)))...)
		c = append(c, data...)
		if len(data)%2 == 1 {
			c = append(c, 0)
		}
		return c
	}

	body := []byte("WEBP")
	body = append(body, riffChunk("VP8X", vp8x)...)
	if len(exifBlock) > 0 {
		body = append(body, riffChunk("EXIF", exifBlock)...)
	}
	out := append([]byte("RIFF"), le.AppendUint32(nil, uint32(len(body)))...)
	return append(out, body...)
}

// WriteImage stores data under dir and returns the resulting path.
func WriteImage(t testing.TB, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func gradient(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 0xFF})
		}
	}
	return img
}

package exifdata

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"lenscheck/internal/services"
)

// Tags is the decoded tag mapping of one image.
type Tags struct {
	// Fields maps goexif field names (Make, LensModel, GPSLatitude, ...) to
	// their rendered values.
	Fields map[string]string
	// Partial is set when some sub-directory failed to decode; the fields
	// that did decode are still present.
	Partial bool

	lat, long float64
	hasCoords bool
}

// skippedFields are binary blobs with no useful text rendering.
var skippedFields = map[string]struct{}{
	string(exif.MakerNote): {},
}

// Decode parses a TIFF-structured EXIF payload. Every failure is reported with
// the ErrMetadataMissing marker, which callers treat as non-fatal. Vendor
// MakerNote blobs are left undecoded.
func Decode(payload []byte) (*Tags, error) {
	if len(payload) == 0 {
		return nil, services.Wrap(services.ErrMetadataMissing, "decode exif", "no EXIF payload", nil)
	}

	x, decodeErr := decodeExif(payload)
	if x == nil {
		return nil, services.Wrap(services.ErrMetadataMissing, "decode exif", "payload could not be decoded", decodeErr)
	}

	tags := &Tags{Fields: make(map[string]string), Partial: decodeErr != nil}
	if walkErr := x.Walk(walker{fields: tags.Fields}); walkErr != nil {
		return nil, services.Wrap(services.ErrMetadataMissing, "decode exif", "walk tags", walkErr)
	}
	if len(tags.Fields) == 0 {
		return nil, services.Wrap(services.ErrMetadataMissing, "decode exif", "payload holds no tags", decodeErr)
	}
	if lat, long, llErr := x.LatLong(); llErr == nil {
		tags.lat, tags.long, tags.hasCoords = lat, long, true
	}
	return tags, nil
}

// decodeExif runs the goexif parser, turning a panic on a malformed
// directory into an error.
func decodeExif(payload []byte) (x *exif.Exif, err error) {
	defer func() {
		if r := recover(); r != nil {
			x, err = nil, fmt.Errorf("malformed payload: %v", r)
		}
	}()
	return exif.Decode(bytes.NewReader(payload))
}

type walker struct {
	fields map[string]string
}

func (w walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	key := string(name)
	if _, skip := skippedFields[key]; skip {
		return nil
	}
	if value := renderTag(tag); value != "" {
		w.fields[key] = value
	}
	return nil
}

var charsetPrefixes = []string{"ASCII", "UNICODE", "JIS"}

func renderTag(tag *tiff.Tag) string {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return clean(s)
	case tiff.IntVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Int64(i)
			if err != nil {
				break
			}
			parts = append(parts, strconv.FormatInt(v, 10))
		}
		return strings.Join(parts, ", ")
	case tiff.RatVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				break
			}
			parts = append(parts, fmt.Sprintf("%d/%d", num, den))
		}
		return strings.Join(parts, ", ")
	case tiff.FloatVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Float(i)
			if err != nil {
				break
			}
			parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
		}
		return strings.Join(parts, ", ")
	case tiff.UndefVal:
		s := clean(tag.String())
		for _, prefix := range charsetPrefixes {
			if strings.HasPrefix(s, prefix) {
				return clean(strings.TrimPrefix(s, prefix))
			}
		}
		return s
	default:
		return ""
	}
}

func clean(s string) string {
	return strings.Trim(s, "\x00 \t\r\n\"")
}

// Get returns the trimmed value of a field, or "" when absent.
func (t *Tags) Get(name string) string {
	if t == nil {
		return ""
	}
	return t.Fields[name]
}

// Has reports whether the field is present with a non-empty value.
func (t *Tags) Has(name string) bool {
	return t.Get(name) != ""
}

// Len returns the number of decoded fields.
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Fields)
}

// Names returns the decoded field names in sorted order.
func (t *Tags) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the field mapping, nil when there are no tags.
func (t *Tags) Map() map[string]string {
	if t.Len() == 0 {
		return nil
	}
	out := make(map[string]string, len(t.Fields))
	for k, v := range t.Fields {
		out[k] = v
	}
	return out
}

package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"lenscheck/internal/services"
)

// Format names a supported container.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
	FormatBMP  Format = "bmp"
)

var supportedMIMETypes = []struct {
	mime   string
	format Format
}{
	{"image/jpeg", FormatJPEG},
	{"image/png", FormatPNG},
	{"image/tiff", FormatTIFF},
	{"image/webp", FormatWebP},
	{"image/bmp", FormatBMP},
}

// Image holds the container-level facts for one input.
type Image struct {
	Name     string
	Format   Format
	MIMEType string
	Size     int64
	Width    int
	Height   int

	// QuantTables counts JPEG quantization tables; always zero for other formats.
	QuantTables int
	// Exif is the TIFF-structured EXIF payload, nil when the container has none.
	Exif []byte
	XMP  []byte
}

// Inspect sniffs the format of src and extracts dimensions and metadata
// payloads. Errors carry the ErrUnsupportedFormat or ErrCorrupt markers.
func Inspect(src Source) (*Image, error) {
	if len(src.Data) == 0 {
		return nil, services.Wrap(services.ErrCorrupt, "inspect", "empty file", nil)
	}

	detected := mimetype.Detect(src.Data)
	format, mimeType, ok := resolveFormat(detected)
	if !ok {
		return nil, services.Wrap(
			services.ErrUnsupportedFormat,
			"inspect",
			fmt.Sprintf("detected %s; expected JPEG, PNG, TIFF, WebP or BMP", detected.String()),
			nil,
		)
	}

	img := &Image{
		Name:     src.Name,
		Format:   format,
		MIMEType: mimeType,
		Size:     int64(len(src.Data)),
	}

	var fallbackWidth, fallbackHeight int
	switch format {
	case FormatJPEG:
		scan, err := scanJPEG(src.Data)
		if err != nil {
			return nil, services.Wrap(services.ErrCorrupt, "inspect jpeg", "", err)
		}
		img.QuantTables = scan.quantTables
		img.Exif = scan.exif
		fallbackWidth, fallbackHeight = scan.width, scan.height
	case FormatPNG:
		img.Exif = pngExif(src.Data)
	case FormatWebP:
		img.Exif = webpExif(src.Data)
	case FormatTIFF:
		img.Exif = src.Data
	}
	img.XMP = findXMP(src.Data)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src.Data))
	switch {
	case err == nil:
		img.Width, img.Height = cfg.Width, cfg.Height
	case fallbackWidth > 0 && fallbackHeight > 0:
		img.Width, img.Height = fallbackWidth, fallbackHeight
	default:
		return nil, services.Wrap(services.ErrCorrupt, "inspect "+string(format), "decode dimensions", err)
	}
	return img, nil
}

func resolveFormat(detected *mimetype.MIME) (Format, string, bool) {
	// Walk up so that subtypes such as APNG resolve to their parent container.
	for m := detected; m != nil; m = m.Parent() {
		for _, candidate := range supportedMIMETypes {
			if m.Is(candidate.mime) {
				return candidate.format, candidate.mime, true
			}
		}
	}
	return "", "", false
}

// HasDimensions reports whether both pixel dimensions are known.
func (img *Image) HasDimensions() bool {
	return img != nil && img.Width > 0 && img.Height > 0
}

// Resolution renders the dimensions as WxH, or "" when unknown.
func (img *Image) Resolution() string {
	if !img.HasDimensions() {
		return ""
	}
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}

// AspectRatio returns the long side over the short side, so portrait and
// landscape frames of the same screen compare equal.
func (img *Image) AspectRatio() float64 {
	if !img.HasDimensions() {
		return 0
	}
	long, short := img.Width, img.Height
	if short > long {
		long, short = short, long
	}
	return float64(long) / float64(short)
}

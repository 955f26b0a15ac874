package exifdata

import "strconv"

// cameraFields mark a payload as camera EXIF rather than the bare image
// structure every TIFF file carries.
var cameraFields = []string{
	"Make", "Model", "Software", "DateTime", "DateTimeOriginal", "DateTimeDigitized",
	"ExifIFDPointer", "GPSInfoIFDPointer", "LensMake", "LensModel", "Orientation",
	"Artist", "Copyright", "ExposureTime", "FNumber", "ISOSpeedRatings", "FocalLength",
}

// HasCameraFields reports whether any capture-related field was decoded.
func (t *Tags) HasCameraFields() bool {
	for _, name := range cameraFields {
		if t.Has(name) {
			return true
		}
	}
	return false
}

func (t *Tags) Make() string        { return t.Get("Make") }
func (t *Tags) Model() string       { return t.Get("Model") }
func (t *Tags) Software() string    { return t.Get("Software") }
func (t *Tags) UserComment() string { return t.Get("UserComment") }

// LensModel returns LensModel, falling back to LensMake.
func (t *Tags) LensModel() string {
	if v := t.Get("LensModel"); v != "" {
		return v
	}
	return t.Get("LensMake")
}

// Timestamp returns the capture date-time text, preferring DateTimeOriginal
// over DateTimeDigitized over DateTime.
func (t *Tags) Timestamp() string {
	for _, name := range []string{"DateTimeOriginal", "DateTimeDigitized", "DateTime"} {
		if v := t.Get(name); v != "" {
			return v
		}
	}
	return ""
}

var orientationLabels = map[int]string{
	1: "Horizontal (normal)",
	2: "Mirror horizontal",
	3: "Rotate 180",
	4: "Mirror vertical",
	5: "Mirror horizontal and rotate 270 CW",
	6: "Rotate 90 CW",
	7: "Mirror horizontal and rotate 90 CW",
	8: "Rotate 270 CW",
}

// Orientation returns a human label for the Orientation tag. Values outside
// 1..8 are reported as-is.
func (t *Tags) Orientation() string {
	raw := t.Get("Orientation")
	if raw == "" {
		return ""
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if label, ok := orientationLabels[n]; ok {
			return label
		}
	}
	return "Unknown (" + raw + ")"
}

// GPS summarizes the GPS sub-directory.
type GPS struct {
	Present   bool
	HasCoords bool
	Latitude  float64
	Longitude float64
}

// GPS reports whether latitude or longitude tags exist and, when both decode,
// the signed decimal coordinates.
func (t *Tags) GPS() GPS {
	if t == nil {
		return GPS{}
	}
	return GPS{
		Present:   t.Has("GPSLatitude") || t.Has("GPSLongitude"),
		HasCoords: t.hasCoords,
		Latitude:  t.lat,
		Longitude: t.long,
	}
}

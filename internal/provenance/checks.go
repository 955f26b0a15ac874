package provenance

import (
	"fmt"
	"math"
	"strings"

	"lenscheck/internal/config"
	"lenscheck/internal/exifdata"
	"lenscheck/internal/imaging"
)

// Check names.
const (
	CheckExifPresent      = "exif_present"
	CheckDeviceTags       = "device_tags"
	CheckLensModel        = "lens_model"
	CheckGPSPresent       = "gps_present"
	CheckCaptureTimestamp = "capture_timestamp"
	CheckJPEGQuantTables  = "jpeg_quant_tables"
	CheckSizeResolution   = "size_resolution"
	CheckEditingSoftware  = "editing_software"
	CheckScreenshot       = "screenshot"
)

// Check is the outcome of one heuristic. Passed means the condition held;
// Weight is its contribution to the score (0 when it did not fire).
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Weight int    `json:"weight"`
	Detail string `json:"detail,omitempty"`
}

// evidence is everything the checks read for one input.
type evidence struct {
	image    *imaging.Image
	tags     *exifdata.Tags
	editors  editorMatcher
	redacted bool
}

// outcome pairs a check with an optional note for the report.
type outcome struct {
	check  Check
	reason string
}

type checkFunc func(ev *evidence, h config.Heuristics) (outcome, bool)

// checks run in report order. A check returning false does not apply to the
// input and is left out of the report.
var checks = []checkFunc{
	checkExifPresent,
	checkDeviceTags,
	checkLensModel,
	checkGPSPresent,
	checkCaptureTimestamp,
	checkJPEGQuantTables,
	checkSizeResolution,
	checkEditingSoftware,
	checkScreenshot,
}

func positive(name string, hit bool, detail, missReason string) outcome {
	out := outcome{check: Check{Name: name, Passed: hit, Detail: detail}}
	if hit {
		out.check.Weight = 1
	} else {
		out.reason = missReason
	}
	return out
}

func checkExifPresent(ev *evidence, _ config.Heuristics) (outcome, bool) {
	hit := ev.tags.HasCameraFields()
	detail := "no EXIF payload"
	if hit {
		detail = fmt.Sprintf("%d EXIF tags decoded", ev.tags.Len())
	} else if ev.tags.Len() > 0 {
		detail = "only image-structure tags present"
	}
	return positive(CheckExifPresent, hit, detail, "Missing EXIF metadata"), true
}

func checkDeviceTags(ev *evidence, _ config.Heuristics) (outcome, bool) {
	mk, model := ev.tags.Make(), ev.tags.Model()
	hit := mk != "" || model != ""
	detail := strings.TrimSpace(mk + " " + model)
	if !hit {
		detail = "no Make or Model tag"
	}
	return positive(CheckDeviceTags, hit, detail, "No recognizable make/model detected"), true
}

func checkLensModel(ev *evidence, _ config.Heuristics) (outcome, bool) {
	lens := ev.tags.LensModel()
	detail := lens
	if lens == "" {
		detail = "no LensModel or LensMake tag"
	}
	return positive(CheckLensModel, lens != "", detail, "No lens model recorded"), true
}

func checkGPSPresent(ev *evidence, _ config.Heuristics) (outcome, bool) {
	gps := ev.tags.GPS()
	out := positive(CheckGPSPresent, gps.Present, "no GPS position tags", "")
	if gps.Present {
		out.check.Detail = "GPS position tags present"
		out.reason = "GPS coordinates embedded"
		if ev.redacted {
			out.reason += " (redacted in this report)"
		}
	}
	return out, true
}

func checkCaptureTimestamp(ev *evidence, _ config.Heuristics) (outcome, bool) {
	ts := ev.tags.Timestamp()
	out := outcome{check: Check{Name: CheckCaptureTimestamp, Passed: ts != "", Detail: ts}}
	if ts == "" {
		out.check.Detail = "no date-time tag"
	}
	return out, true
}

func checkJPEGQuantTables(ev *evidence, _ config.Heuristics) (outcome, bool) {
	if ev.image.Format != imaging.FormatJPEG {
		return outcome{}, false
	}
	n := ev.image.QuantTables
	return positive(CheckJPEGQuantTables, n > 0, fmt.Sprintf("%d quantization tables", n), "No JPEG quantization tables found"), true
}

func checkSizeResolution(ev *evidence, h config.Heuristics) (outcome, bool) {
	size := ev.image.Size
	problem := ""
	switch {
	case size < h.MinFileBytes:
		problem = "File too small to be a natural camera photo"
	case size > h.MaxFileBytes:
		problem = "Unusually large for a typical camera capture"
	case ev.image.HasDimensions() && (ev.image.Width < h.MinDimension || ev.image.Height < h.MinDimension):
		problem = "Resolution unusually low"
	case ev.image.HasDimensions() && (ev.image.Width > h.MaxDimension || ev.image.Height > h.MaxDimension):
		problem = "Resolution unusually high (possible synthetic or scan)"
	}
	detail := fmt.Sprintf("%d bytes", size)
	if res := ev.image.Resolution(); res != "" {
		detail += ", " + res
	}
	return positive(CheckSizeResolution, problem == "", detail, problem), true
}

func checkEditingSoftware(ev *evidence, _ config.Heuristics) (outcome, bool) {
	for _, value := range []string{ev.tags.Software(), ev.image.CreatorTool()} {
		if editor, ok := ev.editors.match(value); ok {
			return outcome{
				check:  Check{Name: CheckEditingSoftware, Passed: true, Weight: -1, Detail: value},
				reason: "Editing software tag detected: " + editor,
			}, true
		}
	}
	return outcome{check: Check{Name: CheckEditingSoftware, Detail: "no known editor recorded"}}, true
}

func checkScreenshot(ev *evidence, h config.Heuristics) (outcome, bool) {
	for _, value := range []string{ev.tags.Software(), ev.tags.UserComment()} {
		if strings.Contains(strings.ToLower(value), "screenshot") {
			return outcome{
				check:  Check{Name: CheckScreenshot, Passed: true, Weight: -1, Detail: value},
				reason: "Screenshot marker found in Software/UserComment tag",
			}, true
		}
	}

	if !ev.tags.HasCameraFields() && ev.tags.Make() == "" && ev.tags.Model() == "" {
		if aspect, ok := screenAspect(ev.image, h); ok {
			return outcome{
				check:  Check{Name: CheckScreenshot, Passed: true, Weight: -1, Detail: fmt.Sprintf("no EXIF, aspect ratio %.2f", aspect)},
				reason: "Pattern matches screenshot (no EXIF, common screen aspect ratio)",
			}, true
		}
	}
	return outcome{check: Check{Name: CheckScreenshot, Detail: "no screenshot pattern"}}, true
}

// screenAspect reports the rounded long/short ratio when it is within
// tolerance of a common display ratio.
func screenAspect(img *imaging.Image, h config.Heuristics) (float64, bool) {
	ratio := img.AspectRatio()
	if ratio == 0 {
		return 0, false
	}
	rounded := math.Round(ratio*100) / 100
	for _, target := range h.ScreenshotAspects {
		if math.Abs(rounded-target) < h.AspectTolerance {
			return rounded, true
		}
	}
	return 0, false
}

package provenance

import (
	"fmt"
	"strings"
)

// Verdict sentences.
const (
	VerdictScreenshot   = "Likely screenshot"
	VerdictLikelyCamera = "Likely captured with a real-world camera"
	VerdictPossible     = "Possibly captured with a real-world camera"
	VerdictInsufficient = "Insufficient evidence for camera capture"
)

type scoring struct {
	score      int
	screenshot bool
	device     bool
}

// looksLikeCamera applies the camera threshold. Device tags lower the bar by
// one point.
func looksLikeCamera(s scoring, cameraScore int) bool {
	if s.screenshot {
		return false
	}
	return s.score >= cameraScore || (s.device && s.score >= cameraScore-1)
}

// verdict picks the first matching sentence.
func verdict(r *Report, s scoring, cameraScore int) string {
	switch {
	case s.screenshot:
		return VerdictScreenshot
	case r.DeviceClass == string(ClassCamera):
		return fmt.Sprintf("Likely standalone camera capture (%s)", r.Maker)
	case r.Make != "" || r.Model != "":
		who := firstNonEmpty(r.Maker, r.Make, "unknown make")
		what := firstNonEmpty(r.ModelFamily, r.Model)
		return strings.TrimSpace("Captured with " + who + " " + what)
	case s.score >= cameraScore:
		return VerdictLikelyCamera
	case s.score == cameraScore-1:
		return VerdictPossible
	default:
		return VerdictInsufficient
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

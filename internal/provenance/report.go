package provenance

import (
	"encoding/json"

	"lenscheck/internal/services"
)

// Coordinates are signed decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Warning is a non-fatal problem found while analyzing an input.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ReportError describes why an input could not be analyzed.
type ReportError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Report is the analysis result for one input. It is built once and not
// modified afterwards.
type Report struct {
	File     string `json:"file"`
	Format   string `json:"format,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`

	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Resolution string `json:"resolution,omitempty"`

	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	Maker       string `json:"maker,omitempty"`
	DeviceClass string `json:"device_class,omitempty"`
	ModelFamily string `json:"model_family,omitempty"`
	LensModel   string `json:"lens_model,omitempty"`
	Software    string `json:"software,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
	Orientation string `json:"orientation,omitempty"`

	GPSInfoPresent     bool         `json:"gps_info_present"`
	GPS                *Coordinates `json:"gps,omitempty"`
	ScreenshotDetected bool         `json:"screenshot_detected"`
	LooksLikeCamera    bool         `json:"looks_like_camera"`
	Score              int          `json:"score"`
	Verdict            string       `json:"verdict,omitempty"`

	Checks   []Check           `json:"checks,omitempty"`
	Reasons  []string          `json:"reasons,omitempty"`
	Warnings []Warning         `json:"warnings,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`

	Error *ReportError `json:"error,omitempty"`
}

// ErrorReport builds the entry for an input that could not be analyzed.
func ErrorReport(file string, err error) Report {
	return Report{
		File:  file,
		Error: &ReportError{Kind: services.Kind(err), Message: err.Error()},
	}
}

// Failed reports whether the input could not be analyzed.
func (r Report) Failed() bool {
	return r.Error != nil
}

// Check returns the named check and whether it was evaluated.
func (r Report) Check(name string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// MarshalJSON emits only the file and error for failed inputs.
func (r Report) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			File  string       `json:"file"`
			Error *ReportError `json:"error"`
		}{r.File, r.Error})
	}
	type plain Report
	return json.Marshal(plain(r))
}

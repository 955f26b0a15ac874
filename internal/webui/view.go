package webui

import (
	"encoding/json"
	"fmt"
	"strings"

	"lenscheck/internal/provenance"
)

const acceptedTypes = "image/jpeg,image/png,image/tiff,image/webp,image/bmp"

type pageData struct {
	Accept      string
	MaxUploadMB string
	Error       string
	Result      *resultView
}

type resultView struct {
	Report provenance.Report
	// Banner is "success" for camera-like captures, "warning" otherwise.
	Banner string
	Device string
	JSON   string
}

func (s *Server) newPage() pageData {
	data := pageData{Accept: acceptedTypes}
	if s.maxUpload > 0 {
		data.MaxUploadMB = fmt.Sprintf("%.0f", float64(s.maxUpload)/(1024*1024))
	}
	return data
}

func newResultView(report provenance.Report) (*resultView, error) {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	view := &resultView{
		Report: report,
		Banner: "warning",
		Device: deviceLabel(report),
		JSON:   string(raw),
	}
	if report.LooksLikeCamera {
		view.Banner = "success"
	}
	return view, nil
}

func deviceLabel(report provenance.Report) string {
	label := strings.TrimSpace(report.Make + " " + report.Model)
	if label == "" {
		return "Unknown"
	}
	return label
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

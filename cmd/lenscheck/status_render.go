package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"lenscheck/internal/provenance"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
	reportTitle      = "Photo Provenance Report"
)

// writeReport prints the heading and rule, then a verdict line and the
// indented JSON for every report.
func writeReport(w io.Writer, reports []provenance.Report, colorize bool) error {
	var b strings.Builder
	for _, line := range renderSectionHeader(reportTitle, colorize) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, report := range reports {
		b.WriteByte('\n')
		b.WriteString(renderStatusLine(report.File, reportStatus(report), reportMessage(report), colorize))
		b.WriteByte('\n')
		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report for %s: %w", report.File, err)
		}
		b.Write(raw)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func reportStatus(report provenance.Report) statusKind {
	switch {
	case report.Failed():
		return statusError
	case report.LooksLikeCamera:
		return statusOK
	case report.ScreenshotDetected:
		return statusWarn
	default:
		return statusInfo
	}
}

func reportMessage(report provenance.Report) string {
	if report.Failed() {
		return report.Error.Message
	}
	return fmt.Sprintf("%s (score %d)", report.Verdict, report.Score)
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "CAMERA"
	case statusWarn:
		return "SCREEN"
	case statusError:
		return "ERROR"
	default:
		return "UNSURE"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := strings.TrimSpace(title)
	rule := strings.Repeat("=", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"lenscheck/internal/provenance"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderReportTable(reports []provenance.Report) string {
	headers := []string{"File", "Verdict", "Score", "Camera", "Make/Model", "Resolution", "Timestamp", "GPS"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		if report.Failed() {
			rows = append(rows, []string{report.File, "error: " + report.Error.Message, "", "", "", "", "", ""})
			continue
		}
		rows = append(rows, []string{
			report.File,
			report.Verdict,
			strconv.Itoa(report.Score),
			yesNo(report.LooksLikeCamera),
			fallback(strings.TrimSpace(report.Make+" "+report.Model), "-"),
			fallback(report.Resolution, "-"),
			fallback(report.Timestamp, "-"),
			yesNo(report.GPSInfoPresent),
		})
	}
	return renderTable(headers, rows, aligns)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

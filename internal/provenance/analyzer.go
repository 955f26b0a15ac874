package provenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lenscheck/internal/config"
	"lenscheck/internal/exifdata"
	"lenscheck/internal/imaging"
	"lenscheck/internal/logging"
	"lenscheck/internal/remote"
	"lenscheck/internal/services"
)

// Fetcher downloads remote inputs.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (imaging.Source, error)
}

// Analyzer produces Reports. It holds no per-input state and is safe for
// concurrent use.
type Analyzer struct {
	heuristics config.Heuristics
	report     config.Report
	catalog    *Catalog
	editors    editorMatcher
	fetcher    Fetcher
	logger     *slog.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithFetcher replaces the default resty-backed fetcher.
func WithFetcher(f Fetcher) Option {
	return func(a *Analyzer) {
		a.fetcher = f
	}
}

// NewAnalyzer builds an analyzer from configuration.
func NewAnalyzer(cfg *config.Config, logger *slog.Logger, opts ...Option) *Analyzer {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger = logging.NewComponentLogger(logger, "analyzer")
	a := &Analyzer{
		heuristics: cfg.Heuristics,
		report:     cfg.Report,
		catalog:    NewCatalog(cfg.Heuristics.ExtraMakers),
		editors:    newEditorMatcher(cfg.Heuristics.ExtraEditors),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fetcher == nil {
		a.fetcher = remote.NewClient(cfg.Fetch, logger)
	}
	return a
}

// Analyze loads input (a local path or an http(s) URL) and analyzes it. A
// failure is returned and also recorded in the Report's error field.
func (a *Analyzer) Analyze(ctx context.Context, input string) (Report, error) {
	ctx = services.WithSource(ctx, input)
	if err := ctx.Err(); err != nil {
		return a.fail(ctx, input, services.Wrap(services.ErrUnreadable, "analyze", "canceled", err))
	}

	var (
		src imaging.Source
		err error
	)
	if remote.IsURL(input) {
		src, err = a.fetcher.Fetch(ctx, input)
	} else {
		src, err = imaging.ReadFile(input)
	}
	if err != nil {
		return a.fail(ctx, input, err)
	}
	return a.AnalyzeSource(ctx, src)
}

// AnalyzeSource analyzes bytes that are already in memory, such as uploads.
func (a *Analyzer) AnalyzeSource(ctx context.Context, src imaging.Source) (Report, error) {
	ctx = services.WithSource(ctx, src.Name)
	img, err := imaging.Inspect(src)
	if err != nil {
		return a.fail(ctx, src.Name, err)
	}

	var warnings []Warning
	tags, err := exifdata.Decode(img.Exif)
	switch {
	case services.Fatal(err):
		return a.fail(ctx, src.Name, err)
	case err != nil:
		warnings = append(warnings, Warning{Kind: services.Kind(err), Message: err.Error()})
	case tags.Partial:
		warnings = append(warnings, Warning{
			Kind:    services.KindMetadataMissing,
			Message: "some EXIF directories could not be decoded",
		})
	}

	report := a.evaluate(img, tags)
	report.Warnings = warnings

	logger := logging.WithContext(ctx, a.logger)
	logger.Info("analysis complete",
		logging.String("verdict", report.Verdict),
		logging.Int("score", report.Score),
		logging.Bool("looks_like_camera", report.LooksLikeCamera),
		logging.String("format", report.Format),
		logging.Int64("file_size", report.FileSize),
	)
	if len(warnings) > 0 {
		logger.Debug("metadata warning", logging.String("message", warnings[0].Message))
	}
	return report, nil
}

// AnalyzeAll analyzes inputs in order and returns exactly one Report per
// input. The error joins every per-input failure.
func (a *Analyzer) AnalyzeAll(ctx context.Context, inputs []string) ([]Report, error) {
	reports := make([]Report, 0, len(inputs))
	var errs []error
	for _, input := range inputs {
		report, err := a.Analyze(ctx, input)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", input, err))
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(errs...)
}

func (a *Analyzer) fail(ctx context.Context, input string, err error) (Report, error) {
	logging.WarnWithContext(
		logging.WithContext(ctx, a.logger),
		"analysis failed",
		"analysis_failed",
		logging.String(logging.FieldErrorKind, services.Kind(err)),
		logging.String(logging.FieldErrorHint, hintFor(err)),
		logging.Error(err),
	)
	return ErrorReport(input, err), err
}

func hintFor(err error) string {
	switch services.Kind(err) {
	case services.KindNotFound:
		return "check the path or URL"
	case services.KindUnsupportedFormat:
		return "supported formats are JPEG, PNG, TIFF, WebP and BMP"
	case services.KindTooLarge:
		return "raise fetch.max_download_bytes or server.max_upload_bytes"
	case services.KindCorrupt:
		return "the file header is damaged or truncated"
	default:
		return "check file permissions and connectivity"
	}
}

func (a *Analyzer) evaluate(img *imaging.Image, tags *exifdata.Tags) Report {
	report := Report{
		File:        img.Name,
		Format:      string(img.Format),
		MIMEType:    img.MIMEType,
		FileSize:    img.Size,
		Width:       img.Width,
		Height:      img.Height,
		Resolution:  img.Resolution(),
		Make:        tags.Make(),
		Model:       tags.Model(),
		LensModel:   tags.LensModel(),
		Software:    tags.Software(),
		Timestamp:   tags.Timestamp(),
		Orientation: tags.Orientation(),
		ModelFamily: modelFamily(tags.Model()),
	}

	maker, ok := a.catalog.Lookup(report.Make)
	if !ok {
		maker, ok = a.catalog.Lookup(report.Model)
	}
	if ok {
		report.Maker = maker.Name
		report.DeviceClass = string(maker.Class)
	}

	gps := tags.GPS()
	report.GPSInfoPresent = gps.Present
	if a.report.IncludeGPSCoordinates && gps.HasCoords {
		report.GPS = &Coordinates{Latitude: gps.Latitude, Longitude: gps.Longitude}
	}
	if a.report.IncludeTags {
		report.Tags = tags.Map()
	}

	ev := &evidence{
		image:    img,
		tags:     tags,
		editors:  a.editors,
		redacted: report.GPS == nil,
	}
	s := scoring{device: report.Make != "" || report.Model != ""}
	for _, check := range checks {
		out, applies := check(ev, a.heuristics)
		if !applies {
			continue
		}
		report.Checks = append(report.Checks, out.check)
		if out.reason != "" {
			report.Reasons = append(report.Reasons, out.reason)
		}
		s.score += out.check.Weight
		if out.check.Name == CheckScreenshot && out.check.Passed {
			s.screenshot = true
		}
	}

	report.Score = s.score
	report.ScreenshotDetected = s.screenshot
	report.LooksLikeCamera = looksLikeCamera(s, a.heuristics.CameraScore)
	report.Verdict = verdict(&report, s, a.heuristics.CameraScore)
	return report
}

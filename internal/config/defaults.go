package config

const (
	defaultMinFileBytes        = 100 * 1024
	defaultMaxFileBytes        = 20 * 1024 * 1024
	defaultMinDimension        = 500
	defaultMaxDimension        = 12000
	defaultCameraScore         = 4
	defaultAspectTolerance     = 0.05
	defaultServerBind          = "127.0.0.1:8501"
	defaultMaxUploadBytes      = 32 * 1024 * 1024
	defaultFetchTimeoutSeconds = 15
	defaultMaxDownloadBytes    = 32 * 1024 * 1024
	defaultFetchUserAgent      = "lenscheck/dev"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Common display aspect ratios (long side over short side): 4:3, 3:2, 16:10, 16:9, 2:1.
var defaultScreenshotAspects = []float64{1.33, 1.5, 1.6, 1.77, 2.0}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Heuristics: Heuristics{
			MinFileBytes:      defaultMinFileBytes,
			MaxFileBytes:      defaultMaxFileBytes,
			MinDimension:      defaultMinDimension,
			MaxDimension:      defaultMaxDimension,
			CameraScore:       defaultCameraScore,
			ScreenshotAspects: append([]float64(nil), defaultScreenshotAspects...),
			AspectTolerance:   defaultAspectTolerance,
		},
		Server: Server{
			Bind:           defaultServerBind,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Fetch: Fetch{
			TimeoutSeconds:   defaultFetchTimeoutSeconds,
			MaxDownloadBytes: defaultMaxDownloadBytes,
			UserAgent:        defaultFetchUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

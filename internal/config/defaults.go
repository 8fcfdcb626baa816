package config

const (
	defaultQuarantineDirName = "unused_pics"
	defaultGraphicsMarker    = "includegraphics"
	defaultIgnoreFile        = ".docprepignore"
	defaultSlideColumns      = 3
	defaultSlideRows         = 2
	defaultSlideImageOptions = `width=0.305\textwidth, angle=-90`
	defaultReplaceKeyword    = "%%REPLACE%% "
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// DefaultSuffixes lists the asset suffixes recognized by the cleanup scanner.
func DefaultSuffixes() []string {
	return []string{".png", ".gif", ".pdf", ".ps", ".jpg", ".jpeg"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Cleanup: Cleanup{
			QuarantineDirName: defaultQuarantineDirName,
			Suffixes:          DefaultSuffixes(),
			Marker:            defaultGraphicsMarker,
			IgnoreFile:        defaultIgnoreFile,
			NormalizeUnicode:  true,
		},
		Slides: Slides{
			Columns:      defaultSlideColumns,
			Rows:         defaultSlideRows,
			ImageOptions: defaultSlideImageOptions,
		},
		Replace: Replace{
			Keyword: defaultReplaceKeyword,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

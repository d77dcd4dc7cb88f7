package config

import "seqindex/internal/frameseq"

const (
	defaultConfigPath = "~/.config/seqindex/config.toml"
	defaultStateDir   = "~/.local/share/seqindex"
	defaultLogDir     = "~/.local/share/seqindex/logs"
	defaultExportDir  = "~/seqindex-exports"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultWorkers    = 1
	defaultRetainRuns = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Scan: Scan{
			Extensions: append([]string(nil), frameseq.DefaultExtensions...),
			Recursive:  true,
			Workers:    defaultWorkers,
			MinFrames:  frameseq.DefaultMinFrames,
		},
		Index: Index{
			Enabled:    true,
			RetainRuns: defaultRetainRuns,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

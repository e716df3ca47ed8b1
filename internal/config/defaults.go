package config

const (
	defaultLogDir           = "~/.local/share/sosi2gpkg/logs"
	defaultStateDirFallback = "~/.local/state/sosi2gpkg"
	defaultProjectFile      = "~/.local/share/sosi2gpkg/project.toml"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultBatchSize        = 50000
	defaultStartTimeoutMS   = 5000
	defaultKillTimeoutMS    = 2000
	defaultPollIntervalMS   = 50
	defaultTargetEncoding   = "ISO8859-10"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:      defaultLogDir,
			StateDir:    defaultStateDir(),
			ProjectFile: defaultProjectFile,
		},
		Ogr2ogr: Ogr2ogr{
			BatchSize:      defaultBatchSize,
			StartTimeoutMS: defaultStartTimeoutMS,
			KillTimeoutMS:  defaultKillTimeoutMS,
			PollIntervalMS: defaultPollIntervalMS,
		},
		Workaround: Workaround{
			Enabled:        true,
			ForceVersion:   true,
			TargetEncoding: defaultTargetEncoding,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

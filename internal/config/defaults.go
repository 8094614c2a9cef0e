package config

const (
	defaultConfigPath     = "~/.config/vdesk/config.toml"
	defaultAccountFile    = "~/.config/vdesk/account.yml"
	defaultLogDir         = "~/.local/share/vdesk/logs"
	defaultRequestTimeout = 10
	defaultUnlockTimeout  = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// accountFileEnv overrides paths.account_file.
	accountFileEnv = "VDESK_ACCOUNT_FILE"
)

// Default returns a Config populated with repository defaults. The artifact
// directory is left empty and resolved to the OS temp directory on load.
func Default() Config {
	return Config{
		Paths: Paths{
			AccountFile: defaultAccountFile,
			LogDir:      defaultLogDir,
		},
		API: API{
			RequestTimeout: defaultRequestTimeout,
			UnlockTimeout:  defaultUnlockTimeout,
		},
		Viewer: Viewer{
			Settings: map[string]string{},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `mapstructure:"enabled"          toml:"enabled"`
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" toml:"useConsoleWriter"`
}

// RollingFile describes one lumberjack managed log file.
type RollingFile struct {
	Name       string `mapstructure:"name"       toml:"name"`
	MaxSize    int    `mapstructure:"maxSize"    toml:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups" toml:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge"     toml:"maxAge"` // days
}

// LogFile implements a file based logger.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path"    toml:"path"`

	Access RollingFile `mapstructure:"access" toml:"access"`
	Error  RollingFile `mapstructure:"error"  toml:"error"`
	Info   RollingFile `mapstructure:"info"   toml:"info"`
	Trace  RollingFile `mapstructure:"trace"  toml:"trace"`
	Warn   RollingFile `mapstructure:"warn"   toml:"warn"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `mapstructure:"logLevel" toml:"logLevel"` // trace, debug, info, warn, error.
	LogEnv   string `mapstructure:"logEnv"   toml:"logEnv"`

	// EnableAccessLogToConsole writes the http access log to the console.
	// Does not overrule flag Console.Enabled!
	EnableAccessLogToConsole bool `mapstructure:"enableAccessLogToConsole" toml:"enableAccessLogToConsole"`
	ReportCaller             bool `mapstructure:"reportCaller"             toml:"reportCaller"`
	DisableCheckAlive        bool `mapstructure:"disableCheckAlive"        toml:"disableCheckAlive"` // do not log /checkalive calls

	AppName     string `mapstructure:"appName"     toml:"appName"`
	ServiceName string `mapstructure:"serviceName" toml:"serviceName"`

	// Console used mainly for docker and dev.
	Console Console `mapstructure:"console" toml:"console"`

	// File enables rolling log files split by level.
	File LogFile `mapstructure:"file" toml:"file"`
}

package config

const (
	defaultLogLevel   = "info"
	defaultToConsole  = true
	defaultMaxSize    = 100
	defaultMaxBackups = 10
	defaultMaxAge     = 30
	defaultCompress   = true

	// Large enough for any real contract interface.
	defaultMaxNodes  = 1 << 20
	defaultMaxTokens = 1 << 20

	defaultListen         = "127.0.0.1:8545"
	defaultCacheSize      = 1024
	defaultMaxBodyBytes   = 1 << 20
	defaultReadTimeoutSec = 10
	defaultGinMode        = "release"

	defaultFormat = FormatText
)

// Default returns the compiled-in options.
func Default() *Options {
	return &Options{
		Log: LogOptions{
			Level:      defaultLogLevel,
			ToConsole:  defaultToConsole,
			MaxSize:    defaultMaxSize,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAge,
			Compress:   defaultCompress,
		},
		Parser: ParserOptions{
			MaxNodes:  defaultMaxNodes,
			MaxTokens: defaultMaxTokens,
		},
		Server: ServerOptions{
			Listen:         defaultListen,
			CacheSize:      defaultCacheSize,
			MaxBodyBytes:   defaultMaxBodyBytes,
			ReadTimeoutSec: defaultReadTimeoutSec,
			GinMode:        defaultGinMode,
		},
		Output: OutputOptions{
			Format: defaultFormat,
		},
	}
}

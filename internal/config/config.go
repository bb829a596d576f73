package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/quire/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "QUIRE_"

// LevelNone disables logging.
const LevelNone = "none"

// Config holds every setting.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Logging LoggingConfig `toml:"logging"`
	Watch   WatchConfig   `toml:"watch"`
}

// EditorConfig holds editor behavior settings.
type EditorConfig struct {
	// QuitTimes is how many times quit must be requested in a row to
	// discard unsaved changes.
	QuitTimes int `toml:"quit_times"`
	// Welcome shows the banner when the document is empty.
	Welcome bool `toml:"welcome"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	// Enabled reports external changes to the open file.
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			QuitTimes: 3,
			Welcome:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	path string
	fs   loader.FileSystem
	env  bool
}

// WithPath reads the configuration file at path instead of the default.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithFileSystem sets the file system used to read the configuration file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv enables or disables reading QUIRE_* environment variables.
func WithEnv(enabled bool) Option {
	return func(o *options) {
		o.env = enabled
	}
}

// Load resolves the configuration from defaults, the configuration file
// and the environment. A missing file is not an error.
func Load(opts ...Option) (Config, error) {
	o := options{
		path: DefaultPath(),
		fs:   loader.DefaultFS(),
		env:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var merged map[string]any
	if o.path != "" {
		fileCfg, err := loader.NewTOMLLoaderWithFS(o.fs, o.path).Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, fileCfg)
	}
	if o.env {
		envCfg, err := loader.NewEnvLoader(EnvPrefix).Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, envCfg)
	}

	cfg, err := decode(o.path, merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode applies a raw settings map on top of the defaults. The map is
// round-tripped through TOML so file and environment values share one
// decoder, which also rejects unknown settings.
func decode(source string, raw map[string]any) (Config, error) {
	cfg := Default()
	if len(raw) == 0 {
		return cfg, nil
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return Config{}, fmt.Errorf("encoding settings: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// validLevels are the accepted logging levels.
var validLevels = []string{"debug", "info", "warn", "error", LevelNone}

// Validate checks that every setting holds a usable value.
func (c Config) Validate() error {
	if c.Editor.QuitTimes < 1 {
		return &ValidationError{Path: "editor.quit_times", Message: "must be at least 1", Value: c.Editor.QuitTimes}
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level}
	}
	return nil
}

// DefaultPath returns the default configuration file path, or "" when the
// user configuration directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quire", "config.toml")
}

// LogFile returns the log file path: the configured file, or quire.log in
// the user cache directory.
func (c Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "quire.log")
	}
	return filepath.Join(dir, "quire", "quire.log")
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/splitpad/internal/config/loader"
	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/engine/history"
	"github.com/dshills/splitpad/internal/renderer/layout"
	"github.com/dshills/splitpad/internal/window"
)

// EnvPrefix is the prefix of environment variables read as settings.
const EnvPrefix = "SPLITPAD_"

// Config is the complete set of settings.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	History HistoryConfig `toml:"history"`
	Backup  BackupConfig  `toml:"backup"`
	Panes   PanesConfig   `toml:"panes"`
	Session SessionConfig `toml:"session"`
	Hooks   HooksConfig   `toml:"hooks"`
	Log     LogConfig     `toml:"log"`
}

// EditorConfig controls how views display and edit text.
type EditorConfig struct {
	// Wrap is "off", "words" or "chars".
	Wrap       string `toml:"wrap"`
	TabWidth   int    `toml:"tab_width"`
	ScrollOff  int    `toml:"scroll_off"`
	IndentUnit string `toml:"indent_unit"`
}

// HistoryConfig bounds the undo history of each buffer.
type HistoryConfig struct {
	MaxBytes         int `toml:"max_bytes"`
	SnapshotInterval int `toml:"snapshot_interval"`
}

// BackupConfig controls shadow backups of unsaved edits.
type BackupConfig struct {
	Interval int    `toml:"interval"`
	Prefix   string `toml:"prefix"`
	// Recover loads an existing backup instead of the file when opening.
	Recover bool `toml:"recover"`
}

// PanesConfig limits pane splitting.
type PanesConfig struct {
	MaxPanes  int `toml:"max_panes"`
	MinWidth  int `toml:"min_width"`
	MinHeight int `toml:"min_height"`
}

// SessionConfig controls where the pane layout is persisted.
type SessionConfig struct {
	// Path is the session file. Empty means session.json next to the
	// config file.
	Path string `toml:"path"`
	// ProjectRoot limits persisted panes to files below it. Empty
	// persists every file.
	ProjectRoot string `toml:"project_root"`
}

// HooksConfig names Lua scripts run on buffer events.
type HooksConfig struct {
	BeforeSave string `toml:"before_save"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `toml:"level"`
	// File is the log destination. Empty disables logging.
	File string `toml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Wrap:       layout.WrapWords.String(),
			TabWidth:   layout.DefaultTabWidth,
			ScrollOff:  2,
			IndentUnit: "\t",
		},
		History: HistoryConfig{
			MaxBytes:         history.DefaultMaxBytes,
			SnapshotInterval: buffer.DefaultSnapshotInterval,
		},
		Backup: BackupConfig{
			Interval: buffer.DefaultBackupInterval,
			Prefix:   buffer.DefaultBackupPrefix,
		},
		Panes: PanesConfig{
			MaxPanes:  window.DefaultMaxPanes,
			MinWidth:  window.DefaultMinWidth,
			MinHeight: window.DefaultMinHeight,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs  loader.FileSystem
	env loader.Loader
}

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnv replaces the environment layer.
func WithEnv(l loader.Loader) Option {
	return func(o *options) {
		o.env = l
	}
}

// Load builds the configuration from the defaults, the TOML file at path
// and the environment, then validates it. A missing file is not an error.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), env: loader.NewEnvLoader(EnvPrefix)}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := Default()

	if path != "" {
		data, err := loader.NewTOMLLoaderWithFS(o.fs, path).Load()
		if err != nil {
			return nil, err
		}
		if err := decode(data, cfg, true); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	data, err := o.env.Load()
	if err != nil {
		return nil, err
	}
	if err := decode(data, cfg, false); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies the settings in data on top of cfg. Strict decoding
// rejects keys that name no setting.
func decode(data map[string]any, cfg *Config, strict bool) error {
	if len(data) == 0 {
		return nil
	}
	raw, err := toml.Marshal(data)
	if err != nil {
		return err
	}
	dec := toml.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	err = dec.Decode(cfg)
	var missing *toml.StrictMissingError
	if errors.As(err, &missing) {
		keys := make([]string, len(missing.Errors))
		for i := range missing.Errors {
			keys[i] = strings.Join(missing.Errors[i].Key(), ".")
		}
		return fmt.Errorf("%w: %s", ErrUnknownSetting, strings.Join(keys, ", "))
	}
	return err
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks every setting and returns all failures joined. Each
// failure is a *ValidationError matching ErrValidationFailed.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
		}
	}

	_, err := layout.ParseWrapMode(c.Editor.Wrap)
	check(err == nil, "editor.wrap", `must be "off", "words" or "chars"`, c.Editor.Wrap)
	check(c.Editor.TabWidth >= 1 && c.Editor.TabWidth <= 16, "editor.tab_width", "must be between 1 and 16", c.Editor.TabWidth)
	check(c.Editor.ScrollOff >= 0, "editor.scroll_off", "must not be negative", c.Editor.ScrollOff)
	check(c.Editor.IndentUnit != "" && strings.Trim(c.Editor.IndentUnit, " \t") == "",
		"editor.indent_unit", "must be spaces or tabs", c.Editor.IndentUnit)

	check(c.History.MaxBytes > 0, "history.max_bytes", "must be positive", c.History.MaxBytes)
	check(c.History.SnapshotInterval > 0, "history.snapshot_interval", "must be positive", c.History.SnapshotInterval)

	check(c.Backup.Interval > 0, "backup.interval", "must be positive", c.Backup.Interval)
	check(c.Backup.Prefix != "" && !strings.ContainsAny(c.Backup.Prefix, `/\`),
		"backup.prefix", "must be a non-empty file name", c.Backup.Prefix)

	check(c.Panes.MaxPanes > 0, "panes.max_panes", "must be positive", c.Panes.MaxPanes)
	check(c.Panes.MinWidth > 0, "panes.min_width", "must be positive", c.Panes.MinWidth)
	check(c.Panes.MinHeight > 0, "panes.min_height", "must be positive", c.Panes.MinHeight)

	check(logLevels[strings.ToLower(c.Log.Level)], "log.level", "must be debug, info, warn or error", c.Log.Level)

	return errors.Join(errs...)
}

// WrapMode returns the parsed editor.wrap setting.
func (c *Config) WrapMode() layout.WrapMode {
	mode, _ := layout.ParseWrapMode(c.Editor.Wrap)
	return mode
}

// BufferOptions returns the buffer options the settings select.
func (c *Config) BufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithHistoryLimit(c.History.MaxBytes),
		buffer.WithSnapshotInterval(c.History.SnapshotInterval),
		buffer.WithBackupInterval(c.Backup.Interval),
		buffer.WithBackupPrefix(c.Backup.Prefix),
	}
}

// PaneOptions returns the pane tree options the settings select.
func (c *Config) PaneOptions() []window.Option {
	return []window.Option{
		window.WithMaxPanes(c.Panes.MaxPanes),
		window.WithMinSize(c.Panes.MinWidth, c.Panes.MinHeight),
	}
}

// Dir returns the directory holding splitpad's config file.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "splitpad")
}

// DefaultPath returns the config file to load: $SPLITPAD_CONFIG when set,
// otherwise config.toml in Dir.
func DefaultPath() string {
	return loader.GetEnvOrDefault(loader.ConfigPathVar, filepath.Join(Dir(), "config.toml"))
}

// SessionFile returns the session file path.
func (c *Config) SessionFile() string {
	if c.Session.Path != "" {
		return c.Session.Path
	}
	return filepath.Join(Dir(), "session.json")
}

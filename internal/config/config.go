// Package config loads splitjson settings from defaults, an optional YAML or
// TOML file and SPLITJSON_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-splitjson/pkg/codec"
	"github.com/goliatone/go-splitjson/pkg/render"
	"github.com/goliatone/go-splitjson/pkg/store"
	"github.com/goliatone/go-splitjson/pkg/widget"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPLITJSON_"

// Config is the full settings tree.
type Config struct {
	Separator         string            `yaml:"separator" toml:"separator"`
	Newline           string            `yaml:"newline" toml:"newline"`
	Debug             bool              `yaml:"debug" toml:"debug"`
	TextAreaThreshold int               `yaml:"textarea_threshold" toml:"textarea_threshold"`
	Attrs             map[string]string `yaml:"attrs" toml:"attrs"`
	Server            Server            `yaml:"server" toml:"server"`
	Store             Store             `yaml:"store" toml:"store"`
}

// Server configures the HTTP demo server.
type Server struct {
	Addr  string        `yaml:"addr" toml:"addr"`
	Grace time.Duration `yaml:"grace" toml:"grace"`
}

// Store selects the document backend.
type Store struct {
	Driver    string `yaml:"driver" toml:"driver"`
	DSN       string `yaml:"dsn" toml:"dsn"`
	CacheSize int    `yaml:"cache_size" toml:"cache_size"`
	S3        S3     `yaml:"s3" toml:"s3"`
}

// S3 configures the object storage backend.
type S3 struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	Region    string `yaml:"region" toml:"region"`
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
	Bucket    string `yaml:"bucket" toml:"bucket"`
	Prefix    string `yaml:"prefix" toml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl" toml:"use_ssl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Separator:         codec.DefaultSeparator,
		Newline:           render.DefaultNewline,
		TextAreaThreshold: codec.DefaultTextAreaThreshold,
		Attrs:             map[string]string{"class": render.DefaultInputClass},
		Server: Server{
			Addr:  ":8383",
			Grace: 5 * time.Second,
		},
		Store: Store{
			Driver:    store.DriverMemory,
			CacheSize: store.DefaultCacheSize,
		},
	}
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are skipped; without arguments ".env" is tried.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}
	return nil
}

// Load builds the configuration. path may be empty; otherwise its extension
// selects the format (.yaml, .yml or .toml).
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return c.decode(filepath.Ext(path), data)
}

func (c *Config) decode(ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("config: parse yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		return fmt.Errorf("config: unsupported file type %q", ext)
	}
	return nil
}

// applyEnv overrides fields from SPLITJSON_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = parsed
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			parsed, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = parsed
		}
	}

	str("SEPARATOR", &c.Separator)
	str("NEWLINE", &c.Newline)
	boolean("DEBUG", &c.Debug)
	integer("TEXTAREA_THRESHOLD", &c.TextAreaThreshold)
	if v, ok := lookup(EnvPrefix + "INPUT_CLASS"); ok {
		if c.Attrs == nil {
			c.Attrs = make(map[string]string)
		}
		c.Attrs["class"] = v
	}

	str("ADDR", &c.Server.Addr)
	if v, ok := lookup(EnvPrefix + "GRACE"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sGRACE: %w", EnvPrefix, err))
		} else {
			c.Server.Grace = d
		}
	}

	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_DSN", &c.Store.DSN)
	integer("STORE_CACHE_SIZE", &c.Store.CacheSize)
	str("S3_ENDPOINT", &c.Store.S3.Endpoint)
	str("S3_REGION", &c.Store.S3.Region)
	str("S3_ACCESS_KEY", &c.Store.S3.AccessKey)
	str("S3_SECRET_KEY", &c.Store.S3.SecretKey)
	str("S3_BUCKET", &c.Store.S3.Bucket)
	str("S3_PREFIX", &c.Store.S3.Prefix)
	boolean("S3_USE_SSL", &c.Store.S3.UseSSL)

	return errors.Join(errs...)
}

// Validate rejects settings the codec or server cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.Separator == "" {
		errs = append(errs, errors.New("config: separator must not be empty"))
	}
	if c.TextAreaThreshold < 0 {
		errs = append(errs, errors.New("config: textarea_threshold must not be negative"))
	}
	if c.Server.Grace < 0 {
		errs = append(errs, errors.New("config: server.grace must not be negative"))
	}
	switch strings.ToLower(c.Store.Driver) {
	case "", store.DriverMemory, store.DriverPostgres, store.DriverS3:
	default:
		errs = append(errs, fmt.Errorf("config: unknown store driver %q", c.Store.Driver))
	}
	if strings.EqualFold(c.Store.Driver, store.DriverPostgres) && strings.TrimSpace(c.Store.DSN) == "" {
		errs = append(errs, errors.New("config: store.dsn is required for the postgres driver"))
	}
	return errors.Join(errs...)
}

// Codec builds the codec described by the settings.
func (c Config) Codec() *codec.Codec {
	return codec.New(
		codec.WithSeparator(c.Separator),
		codec.WithTextAreaThreshold(c.TextAreaThreshold),
	)
}

// WidgetOptions returns the widget options described by the settings.
func (c Config) WidgetOptions() []widget.Option {
	return []widget.Option{
		widget.WithCodec(c.Codec()),
		widget.WithAttrs(c.Attrs),
		widget.WithNewline(c.Newline),
		widget.WithDebug(c.Debug),
	}
}

// StoreConfig converts the store section for store.Open.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Driver:    c.Store.Driver,
		DSN:       c.Store.DSN,
		CacheSize: c.Store.CacheSize,
		S3: store.S3Config{
			Endpoint:  c.Store.S3.Endpoint,
			Region:    c.Store.S3.Region,
			AccessKey: c.Store.S3.AccessKey,
			SecretKey: c.Store.S3.SecretKey,
			Bucket:    c.Store.S3.Bucket,
			Prefix:    c.Store.S3.Prefix,
			UseSSL:    c.Store.S3.UseSSL,
		},
	}
}

package config

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-radix/engine"
	errs "github.com/wippyai/wasm-radix/errors"
	"github.com/wippyai/wasm-radix/fetch"
	"github.com/wippyai/wasm-radix/loader"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "RADIX_CONFIG_PATH"

// DefaultListen is the server address when none is configured.
const DefaultListen = ":8080"

type Config struct {
	Source     string     `yaml:"source"`
	BaseURL    string     `yaml:"base_url" validate:"omitempty,url"`
	Fetch      Fetch      `yaml:"fetch"`
	S3         S3         `yaml:"s3"`
	Engine     Engine     `yaml:"engine"`
	Diagnostic Diagnostic `yaml:"diagnostic"`
	Server     Server     `yaml:"server"`
	Log        Log        `yaml:"log"`
}

type Fetch struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxBytes  int64         `yaml:"max_bytes" validate:"gte=0"`
	UserAgent string        `yaml:"user_agent"`
}

type S3 struct {
	Endpoint  string `yaml:"endpoint" validate:"omitempty,url"`
	AccessKey string `yaml:"access_key" validate:"required_with=Endpoint"`
	SecretKey string `yaml:"secret_key" validate:"required_with=Endpoint"`
	Region    string `yaml:"region"`
}

type Engine struct {
	// 64KiB pages; 0 keeps the runtime default.
	MemoryLimitPages uint32 `yaml:"memory_limit_pages" validate:"lte=65536"`
}

type Diagnostic struct {
	Export string `yaml:"export" validate:"omitempty,oneof=decimal_to_radix float_to_fraction fraction_to_unit radix_fraction_to_radix radix_to_decimal"`
}

type Server struct {
	Listen     string `yaml:"listen" validate:"omitempty,hostname_port"`
	ModulePath string `yaml:"module_path" validate:"omitempty,startswith=/"`
	Native     bool   `yaml:"native"`
}

type Log struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Source: fetch.DefaultModuleName,
		Fetch: Fetch{
			Timeout:  30 * time.Second,
			MaxBytes: fetch.DefaultMaxBytes,
		},
		Server: Server{
			Listen:     DefaultListen,
			ModulePath: "/" + fetch.DefaultModuleName,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads, templates, parses and validates the file at path. An empty
// path falls back to $RADIX_CONFIG_PATH; when neither is set the defaults
// are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Config("unable to read configuration file", err)
	}
	return Parse(data)
}

// Parse templates and decodes data over the defaults, then validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(Template(data), cfg); err != nil {
		return nil, errs.Config("unable to parse configuration file", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints. The returned error wraps
// validator.ValidationErrors.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errs.Config("invalid configuration", err)
	}
	return nil
}

var templateRegex = regexp.MustCompile(`\{\{\s*([^}]+)\s*}}`)

// Template expands {{ a || b || ... }} placeholders. Each alternative is
// tried in order: env.NAME yields the variable when set and non-empty, any
// other text is a literal, decoded as JSON and re-encoded as YAML when it
// parses. No usable alternative yields an empty string.
func Template(data []byte) []byte {
	return templateRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		content := strings.TrimSpace(string(match[2 : len(match)-2]))

		for _, part := range strings.Split(content, "||") {
			part = strings.TrimSpace(part)
			if key, ok := strings.CutPrefix(part, "env."); ok {
				if value := os.Getenv(key); value != "" {
					return []byte(value)
				}
				continue
			}
			if part != "" {
				if value, err := nested(part); err == nil {
					return []byte(value)
				}
				return []byte(part)
			}
		}
		return nil
	})
}

func nested(value string) (string, error) {
	var result any
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(result)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// Loader maps the configuration onto loader.Config.
func (c *Config) Loader() loader.Config {
	return loader.Config{
		Source:           c.Source,
		BaseURL:          c.BaseURL,
		DiagnosticExport: c.Diagnostic.Export,
		UserAgent:        c.Fetch.UserAgent,
		S3: fetch.S3Options{
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			Region:    c.S3.Region,
		},
		Engine: engine.Config{
			MemoryLimitPages:   c.Engine.MemoryLimitPages,
			CloseOnContextDone: true,
		},
		Timeout:  c.Fetch.Timeout,
		MaxBytes: c.Fetch.MaxBytes,
	}
}

// Level returns the zap level for Log.Level, defaulting to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zap.InfoLevel
	}
	return lvl
}

package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile          = ".env"
	defaultConfigFile       = "showcase.yaml"
	defaultAddr             = ":8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 15 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultRequestTimeout   = 30 * time.Second
	defaultProjectsPrefix   = "/projects"
	defaultTreeFile         = "data/displayProjectList.json"
	defaultProjectDataDir   = "data/projectData"
	defaultPageTemplate     = "data/templates/projectpage.html"
	defaultComponentsPrefix = "/components"
	defaultComponentsRoot   = "components"
	defaultStaticDir        = "static"
	defaultLogLevel         = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	Showcase   ShowcaseConfig
	Components ComponentsConfig
	Static     StaticConfig
	Log        LogConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// ShowcaseConfig locates the project tree, per-project data and the page template.
type ShowcaseConfig struct {
	Prefix           string
	TreeFile         string
	DataDir          string
	PageTemplate     string
	SanitizeMarkdown bool
}

// ComponentsConfig controls the component mount and its file root.
type ComponentsConfig struct {
	Prefix string
	Root   string
	// Simple lists HTML files registered as pass-through components at startup.
	Simple []string
}

// StaticConfig points at the site-root static directory.
type StaticConfig struct {
	Dir string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	configFile   string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithConfigFile sets the YAML file to read. A file set this way must exist.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv, relying only on provided maps and files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, the YAML file, the .env file,
// the process environment and the explicit env map, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	envLookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	configFile, required := options.configFile, options.configFile != ""
	if !required {
		if value, ok := envLookup("SHOWCASE_CONFIG_FILE"); ok && strings.TrimSpace(value) != "" {
			configFile, required = strings.TrimSpace(value), true
		} else {
			configFile = defaultConfigFile
		}
	}
	fileValues, err := loadYAMLFile(configFile, required)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := envLookup(key); ok {
			return value, true
		}
		if value, ok := fileValues[key]; ok {
			return value, true
		}
		return "", false
	}

	addr := stringWithDefault(lookup, "SHOWCASE_ADDR", "")
	if addr == "" {
		if port := stringWithDefault(lookup, "PORT", ""); port != "" {
			addr = ":" + port
		} else {
			addr = defaultAddr
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:           addr,
			ReadTimeout:    durationWithDefault(lookup, "SHOWCASE_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:   durationWithDefault(lookup, "SHOWCASE_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:    durationWithDefault(lookup, "SHOWCASE_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout: durationWithDefault(lookup, "SHOWCASE_REQUEST_TIMEOUT", defaultRequestTimeout),
		},
		Showcase: ShowcaseConfig{
			Prefix:           stringWithDefault(lookup, "SHOWCASE_PROJECTS_PREFIX", defaultProjectsPrefix),
			TreeFile:         stringWithDefault(lookup, "SHOWCASE_TREE_FILE", defaultTreeFile),
			DataDir:          stringWithDefault(lookup, "SHOWCASE_PROJECT_DATA_DIR", defaultProjectDataDir),
			PageTemplate:     stringWithDefault(lookup, "SHOWCASE_PAGE_TEMPLATE", defaultPageTemplate),
			SanitizeMarkdown: boolWithDefault(lookup, "SHOWCASE_SANITIZE_MARKDOWN", false),
		},
		Components: ComponentsConfig{
			Prefix: stringWithDefault(lookup, "SHOWCASE_COMPONENTS_PREFIX", defaultComponentsPrefix),
			Root:   stringWithDefault(lookup, "SHOWCASE_COMPONENTS_ROOT", defaultComponentsRoot),
			Simple: csvWithDefault(lookup, "SHOWCASE_SIMPLE_COMPONENTS"),
		},
		Static: StaticConfig{
			Dir: stringWithDefault(lookup, "SHOWCASE_STATIC_DIR", defaultStaticDir),
		},
		Log: LogConfig{
			Level: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var fields []string
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		fields = append(fields, "Server.Addr")
	}
	for name, d := range map[string]time.Duration{
		"Server.ReadTimeout":    cfg.Server.ReadTimeout,
		"Server.WriteTimeout":   cfg.Server.WriteTimeout,
		"Server.IdleTimeout":    cfg.Server.IdleTimeout,
		"Server.RequestTimeout": cfg.Server.RequestTimeout,
	} {
		if d <= 0 {
			fields = append(fields, name)
		}
	}
	if !validPrefix(cfg.Showcase.Prefix) {
		fields = append(fields, "Showcase.Prefix")
	}
	if !validPrefix(cfg.Components.Prefix) {
		fields = append(fields, "Components.Prefix")
	}
	if cfg.Showcase.Prefix == cfg.Components.Prefix {
		fields = append(fields, "Components.Prefix")
	}
	for name, dir := range map[string]string{
		"Showcase.TreeFile":     cfg.Showcase.TreeFile,
		"Showcase.DataDir":      cfg.Showcase.DataDir,
		"Showcase.PageTemplate": cfg.Showcase.PageTemplate,
		"Components.Root":       cfg.Components.Root,
		"Static.Dir":            cfg.Static.Dir,
	} {
		if strings.TrimSpace(dir) == "" {
			fields = append(fields, name)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &ValidationError{fields: fields}
}

func validPrefix(prefix string) bool {
	return len(prefix) > 1 && strings.HasPrefix(prefix, "/") && !strings.HasSuffix(prefix, "/")
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ErrConfigFileMissing is wrapped when an explicitly requested YAML file does not exist.
var ErrConfigFileMissing = errors.New("config file not found")

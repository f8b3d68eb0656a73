package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "RELAY_"

// EnvLevelSeparator separates nesting levels in environment variable names.
// Single underscores stay part of the key, so RELAY_RELAY__SWEEP_INTERVAL
// maps to relay.sweep_interval.
const EnvLevelSeparator = "__"

// Loader loads configuration from a YAML file, .env files and the
// environment.
type Loader struct {
	mu        sync.Mutex
	envPrefix string
	filePath  string
	dotEnv    []string
	sources   []string
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDotEnv loads the given .env files into the process environment
// before environment variables are read. Missing files are ignored and
// variables already set in the environment win.
func WithDotEnv(paths ...string) Option {
	return func(l *Loader) {
		l.dotEnv = append(l.dotEnv, paths...)
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FilePath returns the configured YAML file path, if any.
func (l *Loader) FilePath() string {
	return l.filePath
}

// Sources lists the sources applied by the last Load, in order, e.g.
// ["file:relay.yaml", "dotenv:.env", "env:RELAY_"].
func (l *Loader) Sources() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sources...)
}

// Load reads every source into a fresh koanf instance and unmarshals the
// result over target. Keys absent from all sources keep the value target
// already holds, which is how defaults survive.
func (l *Loader) Load(target any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := koanf.New(".")
	var sources []string

	if l.filePath != "" {
		if err := k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return fmt.Errorf("load config file %s: %w", l.filePath, err)
		}
		sources = append(sources, "file:"+l.filePath)
	}

	loaded, err := l.loadDotEnv()
	if err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	for _, path := range loaded {
		sources = append(sources, "dotenv:"+path)
	}

	if err := k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	sources = append(sources, "env:"+l.envPrefix)

	if err := k.Unmarshal("", target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	l.sources = sources
	return nil
}

// Reload loads all sources again into target.
func (l *Loader) Reload(target any) error {
	return l.Load(target)
}

// loadDotEnv applies the configured .env files and returns those found.
func (l *Loader) loadDotEnv() ([]string, error) {
	var loaded []string
	for _, path := range l.dotEnv {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("%s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// envKey maps RELAY_RATELIMIT__NUKE_PER_MINUTE to ratelimit.nuke_per_minute.
func (l *Loader) envKey(s string) string {
	s = strings.TrimPrefix(s, l.envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, EnvLevelSeparator, ".")
}

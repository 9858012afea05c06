// Package config loads ironwood.yaml and resolves runtime settings.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/ironwood-ui/ironwood/pkg/errors"
	"github.com/ironwood-ui/ironwood/pkg/ir"
	"github.com/ironwood-ui/ironwood/pkg/logging"
	"github.com/ironwood-ui/ironwood/pkg/scheduler"
	"github.com/ironwood-ui/ironwood/pkg/theme"
)

// FileName is the configuration file looked up in the project root.
const FileName = "ironwood.yaml"

// Config represents the optional ironwood.yaml configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Extract   ExtractConfig   `yaml:"extract"`
	Theme     ThemeConfig     `yaml:"theme"`
	Log       LogConfig       `yaml:"log"`
	IR        IRConfig        `yaml:"ir"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
	ID   string `yaml:"id,omitempty"`
}

// SchedulerConfig tunes the update scheduler.
type SchedulerConfig struct {
	RecursionLimit int    `yaml:"recursion_limit,omitempty"`
	CancelPolicy   string `yaml:"cancel_policy,omitempty"`
	MaxInFlight    int    `yaml:"max_in_flight,omitempty"`
}

// ExtractConfig tunes view lowering.
type ExtractConfig struct {
	Parallel          bool    `yaml:"parallel,omitempty"`
	ParallelThreshold int     `yaml:"parallel_threshold,omitempty"`
	ScaleFactor       float64 `yaml:"scale_factor,omitempty"`
}

// ThemeConfig selects the ambient theme.
type ThemeConfig struct {
	Brightness string `yaml:"brightness,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// IRConfig pins the IR version backends must accept.
type IRConfig struct {
	Version string `yaml:"version,omitempty"`
}

// TelemetryConfig selects exporters.
type TelemetryConfig struct {
	Exporter    string `yaml:"exporter,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	AppID      string

	RecursionLimit int
	CancelPolicy   scheduler.CancelPolicy
	MaxInFlight    int

	Parallel          bool
	ParallelThreshold int
	ScaleFactor       float64

	Brightness theme.Brightness

	LogLevel  slog.Level
	LogFormat logging.Format

	IRVersion string

	TelemetryExporter string
	MetricsAddr       string
}

// LoadOptional reads ironwood.yaml from dir if present. Unknown keys are
// rejected.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, errors.Newf("config.Load", errors.KindConfig, "failed to read %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Newf("config.Parse", errors.KindConfig, "failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

// Resolve loads ironwood.yaml from dir (if present) and resolves defaults.
// A go.mod in dir is optional; when present it seeds the app name and id.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(dir)
}

// Resolve fills defaults for cfg and validates every value.
func (cfg *Config) Resolve(dir string) (*Resolved, error) {
	modPath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Root:              dir,
		ModulePath:        modPath,
		RecursionLimit:    cfg.Scheduler.RecursionLimit,
		MaxInFlight:       cfg.Scheduler.MaxInFlight,
		Parallel:          cfg.Extract.Parallel,
		ParallelThreshold: cfg.Extract.ParallelThreshold,
		ScaleFactor:       cfg.Extract.ScaleFactor,
		MetricsAddr:       strings.TrimSpace(cfg.Telemetry.MetricsAddr),
	}

	r.AppName = strings.TrimSpace(cfg.App.Name)
	if r.AppName == "" {
		r.AppName = defaultAppName(modPath, dir)
	}
	r.AppID = strings.TrimSpace(cfg.App.ID)
	if r.AppID == "" {
		r.AppID = defaultAppID(modPath, r.AppName)
	}
	if err := validateAppID(r.AppID); err != nil {
		return nil, invalid(err)
	}

	if r.RecursionLimit < 0 {
		return nil, invalid(fmt.Errorf("scheduler.recursion_limit must not be negative (got %d)", r.RecursionLimit))
	}
	if r.MaxInFlight < 0 {
		return nil, invalid(fmt.Errorf("scheduler.max_in_flight must not be negative (got %d)", r.MaxInFlight))
	}
	if r.CancelPolicy, err = scheduler.ParseCancelPolicy(cfg.Scheduler.CancelPolicy); err != nil {
		return nil, invalid(err)
	}

	if r.ParallelThreshold < 0 {
		return nil, invalid(fmt.Errorf("extract.parallel_threshold must not be negative (got %d)", r.ParallelThreshold))
	}
	if r.ScaleFactor < 0 {
		return nil, invalid(fmt.Errorf("extract.scale_factor must not be negative (got %g)", r.ScaleFactor))
	}
	if r.ScaleFactor == 0 {
		r.ScaleFactor = 1
	}

	if r.Brightness, err = theme.ParseBrightness(cfg.Theme.Brightness); err != nil {
		return nil, invalid(err)
	}
	if r.LogLevel, err = logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, invalid(err)
	}
	if r.LogFormat, err = logging.ParseFormat(cfg.Log.Format); err != nil {
		return nil, invalid(err)
	}

	r.IRVersion = strings.TrimSpace(cfg.IR.Version)
	if r.IRVersion == "" {
		r.IRVersion = ir.Version
	}
	if err := validateIRVersion(r.IRVersion); err != nil {
		return nil, invalid(err)
	}

	r.TelemetryExporter = strings.ToLower(strings.TrimSpace(cfg.Telemetry.Exporter))
	switch r.TelemetryExporter {
	case "":
		r.TelemetryExporter = "none"
	case "none", "stdout":
	default:
		return nil, invalid(fmt.Errorf("telemetry.exporter must be none or stdout (got %q)", cfg.Telemetry.Exporter))
	}

	return r, nil
}

func invalid(err error) error {
	return errors.New("config.Resolve", errors.KindConfig, err)
}

// FindProjectRoot walks up from the current directory to the nearest
// directory holding ironwood.yaml or go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf("config.FindProjectRoot", errors.KindConfig, "no %s or go.mod found", FileName)
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", errors.Newf("config.Resolve", errors.KindConfig, "failed to read go.mod: %w", err)
	}
	return modfile.ModulePath(data), nil
}

func validateIRVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("ir.version %q is not a valid semantic version", v)
	}
	if semver.Major(v) != semver.Major(ir.Version) {
		return fmt.Errorf("ir.version %s is incompatible with %s", v, ir.Version)
	}
	if semver.Compare(v, ir.Version) > 0 {
		return fmt.Errorf("ir.version %s is newer than supported %s", v, ir.Version)
	}
	return nil
}

func defaultAppName(modPath, dir string) string {
	base := filepath.Base(dir)
	if modPath != "" {
		if modName, _, ok := module.SplitPathVersion(modPath); ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "ironwood_app"
	}
	return base
}

func defaultAppID(modPath, appName string) string {
	parts := strings.Split(modPath, "/")
	if len(parts) < 2 || !strings.Contains(parts[0], ".") {
		return fmt.Sprintf("com.example.%s", sanitizeSegment(appName))
	}

	host := strings.Split(parts[0], ".")
	for i, j := 0, len(host)-1; i < j; i, j = i+1, j-1 {
		host[i], host[j] = host[j], host[i]
	}

	segments := host
	for _, p := range parts[1:] {
		if p != "" {
			segments = append(segments, p)
		}
	}
	for i, segment := range segments {
		segments[i] = sanitizeSegment(segment)
	}
	return strings.Join(segments, ".")
}

// sanitizeSegment lowers segment into a valid app id segment.
func sanitizeSegment(segment string) string {
	var out []rune
	for _, r := range strings.TrimSpace(segment) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		}
	}
	if len(out) == 0 {
		return "app"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'a'}, out...)
	}
	return string(out)
}

func validateAppID(appID string) error {
	if !strings.Contains(appID, ".") {
		return fmt.Errorf("app.id must contain at least one '.' (got %q)", appID)
	}
	for _, segment := range strings.Split(appID, ".") {
		if segment == "" {
			return fmt.Errorf("app.id contains an empty segment (%q)", appID)
		}
		if segment[0] >= '0' && segment[0] <= '9' {
			return fmt.Errorf("app.id segments cannot start with a digit (%q)", appID)
		}
		if segment[0] == '_' {
			return fmt.Errorf("app.id segments cannot start with '_' (%q)", appID)
		}
		for _, r := range segment {
			if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
				return fmt.Errorf("app.id contains invalid character %q in %q", r, appID)
			}
		}
	}
	return nil
}

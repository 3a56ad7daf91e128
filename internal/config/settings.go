package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lakshaymaurya-felt/macmole/internal/core"
	"github.com/lakshaymaurya-felt/macmole/internal/envutil"
)

// EnvPrefix is the prefix for environment overrides, e.g. MACMOLE_ASSUME_YES.
const EnvPrefix = "MACMOLE"

// Config keys.
const (
	KeyAssumeYes          = "assume_yes"
	KeyDryRun             = "dry_run"
	KeyWhitelist          = "whitelist"
	KeySkipSections       = "skip_sections"
	KeyDisplayThreshold   = "display_threshold"
	KeyDeepScanMinTotal   = "deep_scan_min_total"
	KeyDeepScanMaxAgeDays = "deep_scan_max_age_days"
	KeyFreeSpaceRoot      = "free_space_root"
	KeyPreflightWorkers   = "preflight_workers"
)

// Settings is the resolved configuration: defaults < config file < env < flags.
type Settings struct {
	AssumeYes        bool
	DryRun           bool
	Whitelist        []string
	SkipSections     []string
	DisplayThreshold int64
	DeepScanMinTotal int64
	DeepScanMaxAge   time.Duration
	FreeSpaceRoot    string
	PreflightWorkers int

	// ConfigFile is the file that was read, empty when none was found.
	ConfigFile string
}

// NewViper returns a viper instance with defaults and env lookup installed.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAssumeYes, false)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyWhitelist, []string{})
	v.SetDefault(KeySkipSections, []string{})
	v.SetDefault(KeyDisplayThreshold, "10MiB")
	v.SetDefault(KeyDeepScanMinTotal, "1GiB")
	v.SetDefault(KeyDeepScanMaxAgeDays, 7)
	v.SetDefault(KeyFreeSpaceRoot, "/")
	v.SetDefault(KeyPreflightWorkers, 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ConfigDir returns ~/.config/macmole.
func ConfigDir() string {
	return filepath.Join(userHome(), ".config", "macmole")
}

// Load reads cfgFile (or config.toml from ConfigDir and the working
// directory when cfgFile is empty) into v and resolves Settings. A missing
// config file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Settings, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return resolve(v)
}

// resolve converts raw viper values into typed Settings.
func resolve(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		AssumeYes:        v.GetBool(KeyAssumeYes),
		DryRun:           v.GetBool(KeyDryRun),
		SkipSections:     v.GetStringSlice(KeySkipSections),
		FreeSpaceRoot:    envutil.ExpandPath(v.GetString(KeyFreeSpaceRoot)),
		PreflightWorkers: v.GetInt(KeyPreflightWorkers),
		ConfigFile:       v.ConfigFileUsed(),
	}

	for _, p := range v.GetStringSlice(KeyWhitelist) {
		if exp := envutil.ExpandPath(p); exp != "" {
			s.Whitelist = append(s.Whitelist, exp)
		}
	}

	var err error
	if s.DisplayThreshold, err = core.ParseSize(v.GetString(KeyDisplayThreshold)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyDisplayThreshold, err)
	}
	if s.DeepScanMinTotal, err = core.ParseSize(v.GetString(KeyDeepScanMinTotal)); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyDeepScanMinTotal, err)
	}

	days := v.GetInt(KeyDeepScanMaxAgeDays)
	if days < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyDeepScanMaxAgeDays, days)
	}
	s.DeepScanMaxAge = time.Duration(days) * 24 * time.Hour

	if s.FreeSpaceRoot == "" {
		s.FreeSpaceRoot = "/"
	}
	if s.PreflightWorkers <= 0 {
		s.PreflightWorkers = 4
	}

	return s, nil
}

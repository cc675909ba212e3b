package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the data directory.
type Config interface {
	BasePath() string
}

// Settings is the resolved configuration.
type Settings struct {
	Path         string        `json:"path"`
	Catalog      string        `json:"catalog"`
	Assets       string        `json:"assets"`
	FetchTimeout time.Duration `json:"fetchTimeout"`
	FetchEnabled bool          `json:"fetchEnabled"`
	LogFile      string        `json:"logFile"`
	LogLevel     string        `json:"logLevel"`
}

func (s *Settings) BasePath() string {
	return s.Path
}

// LoadConfig reads .bricks.yaml from BRICKS_CONFIG_PATH or the current
// directory, with BRICKS_* environment overrides. A .env file in the current
// directory is loaded first without overriding variables already set.
func LoadConfig() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("store: load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("path", "~/.bricks")
	v.SetDefault("fetch.timeout", 10*time.Second)
	v.SetDefault("fetch.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetConfigName(".bricks") // .yaml is implicit
	v.SetEnvPrefix("BRICKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("BRICKS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}
	return settingsFrom(v)
}

func settingsFrom(v *viper.Viper) (*Settings, error) {
	base, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	s := &Settings{
		Path:         base,
		FetchTimeout: v.GetDuration("fetch.timeout"),
		FetchEnabled: v.GetBool("fetch.enabled"),
		LogLevel:     v.GetString("log.level"),
	}
	for _, dir := range []struct {
		key      string
		fallback string
		out      *string
	}{
		{"catalog", "catalog", &s.Catalog},
		{"assets", "assets", &s.Assets},
		{"log.file", "bricks.log", &s.LogFile},
	} {
		raw := v.GetString(dir.key)
		if raw == "" {
			*dir.out = filepath.Join(base, dir.fallback)
			continue
		}
		if *dir.out, err = homedir.Expand(raw); err != nil {
			return nil, fmt.Errorf("store: expand %s: %w", dir.key, err)
		}
	}
	return s, nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "MACRO_ATLAS"

type Settings struct {
	Profile         string          `mapstructure:"profile"`
	LogLevel        string          `mapstructure:"log_level"`
	SnapshotDB      string          `mapstructure:"snapshot_db"`
	CollectSchedule string          `mapstructure:"collect_schedule"`
	Server          ServerSettings  `mapstructure:"server"`
	Archive         ArchiveSettings `mapstructure:"archive"`
}

// ArchiveSettings point snapshot exports at an S3 bucket.
type ArchiveSettings struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
}

type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// LoadSettings reads path when it is non-empty and overlays MACRO_ATLAS_*
// environment variables (MACRO_ATLAS_SERVER_PORT for server.port).
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("profile", DefaultProfile)
	v.SetDefault("log_level", "info")
	v.SetDefault("snapshot_db", "macro-atlas.db")
	v.SetDefault("collect_schedule", "")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.prefix", "snapshots")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.path_style", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

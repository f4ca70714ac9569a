package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Auth      AuthConfig      `koanf:"auth"`
	Resources ResourcesConfig `koanf:"resources"`
	Chat      ChatConfig      `koanf:"chat"`
}

type ServerConfig struct {
	BaseURL        string `koanf:"base_url"`
	LogLevel       string `koanf:"log_level"`
	RequestTimeout string `koanf:"request_timeout"`
}

type AuthConfig struct {
	Token string `koanf:"token"`
}

type ResourcesConfig struct {
	ManifestDir string `koanf:"manifest_dir"`
}

type ChatConfig struct {
	Location string `koanf:"location"`
}

const (
	DefaultServerBaseURL        = "http://localhost:8443/ols"
	DefaultServerLogLevel       = "info"
	DefaultServerRequestTimeout = "10m"
	DefaultChatLocation         = ""
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"server.base_url":        DefaultServerBaseURL,
		"server.log_level":       DefaultServerLogLevel,
		"server.request_timeout": DefaultServerRequestTimeout,
		"auth.token":             "",
		"resources.manifest_dir": "",
		"chat.location":          DefaultChatLocation,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config File
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".beacon", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables
	k.Load(env.Provider("BEACON_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "BEACON_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Auth.Token == "" {
		cfg.Auth.Token = os.Getenv("BEACON_AUTH_TOKEN")
	}

	return &cfg, nil
}

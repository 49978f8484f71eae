package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/autocruise/internal/socketrpc"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultPort         = 8080
	defaultFetchTimeout = 15 * time.Second
	defaultPendingTTL   = 2 * time.Minute
	defaultPendingLimit = 1024
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	HostDocument  string        `mapstructure:"host-document"`
	BindHost      string        `mapstructure:"bind-host"`
	Port          int           `mapstructure:"port"`
	Addr          string        `mapstructure:"addr"`
	FetchTimeout  time.Duration `mapstructure:"fetch-timeout"`
	PendingTTL    time.Duration `mapstructure:"pending-ttl"`
	PendingLimit  int           `mapstructure:"pending-limit"`
	SocketEnabled bool          `mapstructure:"socket-enabled"`
	SocketPath    string        `mapstructure:"socket-path"`
	ConfigPath    string        `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("AUTOCRUISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("host-document", "")
	v.SetDefault("bind-host", defaultBindHost)
	v.SetDefault("port", defaultPort)
	v.SetDefault("addr", "")
	v.SetDefault("fetch-timeout", defaultFetchTimeout)
	v.SetDefault("pending-ttl", defaultPendingTTL)
	v.SetDefault("pending-limit", defaultPendingLimit)
	v.SetDefault("socket-enabled", true)
	v.SetDefault("socket-path", socketrpc.DefaultSocketPath())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "autocruise", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	} else {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port: %d", cfg.Port)
	}

	// Expand ~ in host-document
	if strings.HasPrefix(cfg.HostDocument, "~/") {
		cfg.HostDocument = filepath.Join(home, cfg.HostDocument[2:])
	}

	if cfg.Addr == "" {
		cfg.Addr = net.JoinHostPort(cfg.BindHost, strconv.Itoa(cfg.Port))
	}

	return cfg, nil
}

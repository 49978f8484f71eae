package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/autocruise/internal/model"
)

const (
	defaultSkin         = model.DefaultSkin
	defaultFetchTimeout = 15 * time.Second
)

// cliConfig holds only terminal-cruise configuration.
type cliConfig struct {
	Skin         string        `mapstructure:"skin"`
	FetchTimeout time.Duration `mapstructure:"fetch-timeout"`
	HostDocument string        `mapstructure:"host-document"`
	Interval     string        `mapstructure:"interval"`
	View         string        `mapstructure:"view"`
	Config       string        `mapstructure:"config"`
	ConfigBase   string        `mapstructure:"configbase"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("AUTOCRUISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("skin", defaultSkin)
	v.SetDefault("fetch-timeout", defaultFetchTimeout)
	v.SetDefault("host-document", "")
	v.SetDefault("interval", "")
	v.SetDefault("view", "")
	v.SetDefault("config", "")
	v.SetDefault("configbase", "")

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
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if strings.HasPrefix(cfg.HostDocument, "~/") {
		cfg.HostDocument = filepath.Join(home, cfg.HostDocument[2:])
	}

	return cfg, nil
}

package main

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// pipelineConfig drives the demo pipeline built in main.go. Grounded on
// desain-gratis-common's dragonboat_config.go viper.Unmarshal idiom, adapted to read
// from environment variables (REACTORCTL_*) and an optional config file instead of a
// required one, since this is a demo CLI rather than a service with a mandated config.
type pipelineConfig struct {
	Workers     int    `mapstructure:"workers"`
	Attempts    int    `mapstructure:"attempts"`
	FailFirst   int    `mapstructure:"fail_first"`
	LogLevel    string `mapstructure:"log_level"`
	HumanLog    bool   `mapstructure:"human_log"`
}

func defaultPipelineConfig() pipelineConfig {
	return pipelineConfig{
		Workers:   4,
		Attempts:  3,
		FailFirst: 2,
		LogLevel:  "info",
		HumanLog:  true,
	}
}

func loadPipelineConfig(configFile string) pipelineConfig {
	cfg := defaultPipelineConfig()

	v := viper.New()
	v.SetEnvPrefix("reactorctl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("attempts", cfg.Attempts)
	v.SetDefault("fail_first", cfg.FailFirst)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("human_log", cfg.HumanLog)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("file", configFile).Msg("reactorctl: config file not read, using defaults/env")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		log.Warn().Err(err).Msg("reactorctl: config unmarshal failed, using defaults/env")
	}
	return cfg
}

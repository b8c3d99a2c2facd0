package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "posttypes"
	configFileType = "yaml"
	envPrefix      = "POSTTYPES"

	cfgKeyDB          = "db"
	cfgKeySecret      = "secret"
	cfgKeyDefinitions = "definitions"
	cfgKeyNonceLife   = "nonce_life"
	cfgKeyAddr        = "addr"
	cfgKeyLogLevel    = "log_level"

	defaultDefinitions = "definitions"
	defaultAddr        = ":8080"
)

// config is the resolved CLI configuration.
type config struct {
	DB          string
	Secret      string
	Definitions string
	NonceLife   time.Duration
	Addr        string
	LogLevel    string
}

// loadConfig reads posttypes.yaml from path (a file) or from the working
// directory. A missing file is not an error; POSTTYPES_* environment
// variables override file values.
func loadConfig(path string) (config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDB, "")
	v.SetDefault(cfgKeySecret, "")
	v.SetDefault(cfgKeyDefinitions, defaultDefinitions)
	v.SetDefault(cfgKeyNonceLife, 24*time.Hour)
	v.SetDefault(cfgKeyAddr, defaultAddr)
	v.SetDefault(cfgKeyLogLevel, "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return config{
		DB:          v.GetString(cfgKeyDB),
		Secret:      v.GetString(cfgKeySecret),
		Definitions: v.GetString(cfgKeyDefinitions),
		NonceLife:   v.GetDuration(cfgKeyNonceLife),
		Addr:        v.GetString(cfgKeyAddr),
		LogLevel:    v.GetString(cfgKeyLogLevel),
	}, nil
}

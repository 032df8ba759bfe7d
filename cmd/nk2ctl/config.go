package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joshuapare/nk2kit/pkg/codepage"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// Config holds the settings shared by every command.
type Config struct {
	Codepage string `mapstructure:"codepage"`
	Tolerant bool   `mapstructure:"tolerant"`
	Output   string `mapstructure:"output"`
	LogLevel string `mapstructure:"log_level"`
	LogDir   string `mapstructure:"log_dir"`
}

func defaultConfig() *Config {
	return &Config{
		Codepage: codepage.Default.String(),
		Output:   outputText,
		LogLevel: "warn",
	}
}

// flag name -> config key
var configFlags = map[string]string{
	"codepage":  "codepage",
	"tolerant":  "tolerant",
	"log-level": "log_level",
	"log-dir":   "log_dir",
}

// loadConfig merges, from lowest to highest precedence: defaults, the config
// file, NK2CTL_* environment variables and explicitly set flags. A missing
// config file is fine unless file names one.
func loadConfig(flags *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("nk2ctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.nk2ctl")
		v.AddConfigPath("/etc/nk2ctl")
	}

	def := defaultConfig()
	v.SetDefault("codepage", def.Codepage)
	v.SetDefault("tolerant", def.Tolerant)
	v.SetDefault("output", def.Output)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_dir", def.LogDir)

	v.SetEnvPrefix("NK2CTL")
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range configFlags {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if c.Output != outputText && c.Output != outputJSON {
		return nil, fmt.Errorf("invalid output %q (use: %s, %s)", c.Output, outputText, outputJSON)
	}
	if _, err := codepage.Parse(c.Codepage); err != nil {
		return nil, fmt.Errorf("invalid codepage %q: %w", c.Codepage, err)
	}
	return &c, nil
}

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type ApiConfig struct {
	Enable bool   `toml:"enable" mapstructure:"enable"`
	Addr   string `toml:"addr" mapstructure:"addr"`
	Key    string `toml:"key" mapstructure:"key"`
}

type AppConfig struct {
	BotToken    string  `toml:"bot_token" mapstructure:"bot_token" validate:"required"`
	Admins      []int64 `toml:"admins" mapstructure:"admins"`
	PollTimeout int     `toml:"poll_timeout" mapstructure:"poll_timeout" validate:"gte=0"`
	LogDir      string  `toml:"log_dir" mapstructure:"log_dir"`
	Debug       bool    `toml:"debug" mapstructure:"debug"`

	Api ApiConfig `toml:"api" mapstructure:"api"`

	// Commands maps registered names to repository keys or group names; the
	// bot package resolves them against its handler repository when building
	// the registry.
	Commands      map[string]string            `toml:"commands" mapstructure:"commands"`
	CommandGroups map[string]map[string]string `toml:"command_groups" mapstructure:"command_groups"`
}

var C AppConfig

func Init() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")

	viper.SetDefault("poll_timeout", 60)
	viper.SetDefault("log_dir", "data/logs")
	viper.SetDefault("api.addr", ":8080")

	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	if err := viper.Unmarshal(&C); err != nil {
		return err
	}
	return validator.New().Struct(&C)
}

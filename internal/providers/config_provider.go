package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"streamguard/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("cloud.endpoint", "https://api.jsonbin.io/v3/b")
	viper.SetDefault("history.endpoint", "https://ws.audioscrobbler.com/2.0/")
	viper.SetDefault("history.limit", 50)
	viper.SetDefault("cache.ttl", 30)

	viper.BindEnv("logger.level", "STREAMGUARD_LOG_LEVEL")
	viper.BindEnv("cloud.enabled", "STREAMGUARD_CLOUD_ENABLED")
	viper.BindEnv("cloud.binId", "STREAMGUARD_CLOUD_BIN_ID")
	viper.BindEnv("cloud.apiKey", "STREAMGUARD_CLOUD_API_KEY")
	viper.BindEnv("history.endpoint", "STREAMGUARD_HISTORY_ENDPOINT")
	viper.BindEnv("snapshot.saveInterval", "STREAMGUARD_SNAPSHOT_INTERVAL")
	viper.BindEnv("cache.enabled", "STREAMGUARD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "STREAMGUARD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StreamGuard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./vraqlogs")
	viper.SetDefault("exportDir", "./exports")
	viper.SetDefault("compressExports", false)

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.requestTimeout", 30)

	viper.SetDefault("upload.maxFileSize", 10485760)
	viper.SetDefault("upload.allowedExtensions", []string{"png", "jpg", "jpeg", "tiff"})

	viper.SetDefault("board.width", 4.0)
	viper.SetDefault("board.depth", 2.5)
	viper.SetDefault("board.clearance", 0.15)

	viper.SetDefault("render.backend", "memory")
	viper.SetDefault("render.websocketUrl", "ws://localhost:5001/scene")
	viper.SetDefault("render.secret", "")

	viper.SetDefault("autoRefresh.enabled", false)
	viper.SetDefault("autoRefresh.intervalSeconds", 30)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "vraq-scene")
	viper.SetDefault("otel.batchTimeoutSeconds", 5)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "vraq-metrics")

	viper.SetConfigName("vraq_scene.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// OTelConfig is the OpenTelemetry section of the config file.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// GetOTelConfig returns the OTel settings with defaults applied.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: time.Duration(viper.GetInt("otel.batchTimeoutSeconds")) * time.Second,
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStringSlice returns a string slice config value.
func GetStringSlice(key string) []string {
	return viper.GetStringSlice(key)
}

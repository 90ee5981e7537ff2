package config

import "time"

const (
	DefaultConfigName = "config"
	DefaultConfigType = "yaml"
	EnvPrefix         = "OTA"

	DefaultPort = 8080

	DefaultStoreDriver = "sqlite"
	DefaultStorePath   = "data/ota.db"

	DefaultAPIURL          = "https://api.github.com/"
	DefaultRawURL          = "https://raw.githubusercontent.com/"
	DefaultBranch          = "main"
	DefaultFirmwarePath    = ".pio/build/vision-master-e290-arduino/firmware.bin"
	DefaultUserAgent       = "ESP32-OTA-Updater"
	DefaultRequestTimeout  = 15 * time.Second
	DefaultDownloadTimeout = 10 * time.Minute
	DefaultCacheTTL        = 30 * time.Second

	DefaultCheckInterval = 60
	MinCheckInterval     = 1
	MaxCheckInterval     = 1440
	DefaultInitialDelay  = time.Minute
	DefaultGracePeriod   = 3 * time.Second

	ServerPortKey = "server.port"
	LogLevelKey   = "log.level"
)

// ClampCheckInterval bounds an auto-check interval in minutes.
func ClampCheckInterval(minutes int) int {
	return min(max(minutes, MinCheckInterval), MaxCheckInterval)
}

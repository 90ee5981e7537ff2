package config

import (
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	GConfig *Config
	vp      *viper.Viper
)

func New() *Config {
	v := newViper()
	c, err := load(v)
	if err != nil {
		log.Fatalf("Failed to load config file, %v", err)
	}
	vp = v
	GConfig = c
	snapshotListenedKeys()

	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Printf("config file changed, %s\n", e.Name)
			triggerUpdate()
		})
		v.WatchConfig()
	}
	return c
}

// LoadFile reads a single config file on top of the defaults, without watching it.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return load(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType(DefaultConfigType)
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ServerPortKey, DefaultPort)

	v.SetDefault(LogLevelKey, "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "admin")

	v.SetDefault("store.driver", DefaultStoreDriver)
	v.SetDefault("store.path", DefaultStorePath)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("release.api_url", DefaultAPIURL)
	v.SetDefault("release.raw_url", DefaultRawURL)
	v.SetDefault("release.owner", "")
	v.SetDefault("release.repo", "")
	v.SetDefault("release.branch", DefaultBranch)
	v.SetDefault("release.firmware_path", DefaultFirmwarePath)
	v.SetDefault("release.asset_suffixes", []string{".bin"})
	v.SetDefault("release.probe_host", "")
	v.SetDefault("release.user_agent", DefaultUserAgent)
	v.SetDefault("release.request_timeout", DefaultRequestTimeout)
	v.SetDefault("release.download_timeout", DefaultDownloadTimeout)
	v.SetDefault("release.cache_ttl", DefaultCacheTTL)

	v.SetDefault("firmware.version", "")
	v.SetDefault("firmware.build", 0)
	v.SetDefault("firmware.target_path", "")
	v.SetDefault("firmware.staging_dir", "")

	v.SetDefault("credential.token", "")
	v.SetDefault("credential.prefer_fallback", false)

	v.SetDefault("update.auto_check", true)
	v.SetDefault("update.check_interval", DefaultCheckInterval)
	v.SetDefault("update.initial_delay", DefaultInitialDelay)
	v.SetDefault("update.grace_period", DefaultGracePeriod)

	v.SetDefault("watchdog.systemd", true)
}

func load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Println("config file not found, using defaults")
	}

	var c = new(Config)
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}
	normalize(c)
	return c, nil
}

// normalize fills values derived from other keys and clamps ranges.
func normalize(c *Config) {
	c.Update.CheckInterval = ClampCheckInterval(c.Update.CheckInterval)
	if c.Release.ProbeHost == "" {
		if u, err := url.Parse(c.Release.APIURL); err == nil {
			c.Release.ProbeHost = u.Hostname()
		}
	}
}

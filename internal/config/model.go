package config

import "time"

type (
	Config struct {
		Server     ServerConfig     `mapstructure:"server"`
		Log        LogConfig        `mapstructure:"log"`
		Auth       AuthConfig       `mapstructure:"auth"`
		Store      StoreConfig      `mapstructure:"store"`
		Redis      RedisConfig      `mapstructure:"redis"`
		Release    ReleaseConfig    `mapstructure:"release"`
		Firmware   FirmwareConfig   `mapstructure:"firmware"`
		Credential CredentialConfig `mapstructure:"credential"`
		Update     UpdateConfig     `mapstructure:"update"`
		Watchdog   WatchdogConfig   `mapstructure:"watchdog"`
	}
	ServerConfig struct {
		Port int `mapstructure:"port"`
	}

	LogConfig struct {
		Level      string `mapstructure:"level"`
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"max_size"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"`
		Compress   bool   `mapstructure:"compress"`
	}
	AuthConfig struct {
		Enabled  bool   `mapstructure:"enabled"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	}
	StoreConfig struct {
		// Driver is one of sqlite, redis or memory
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	}
	RedisConfig struct {
		Addr     string `mapstructure:"addr"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}
	ReleaseConfig struct {
		APIURL          string        `mapstructure:"api_url"`
		RawURL          string        `mapstructure:"raw_url"`
		Owner           string        `mapstructure:"owner"`
		Repo            string        `mapstructure:"repo"`
		Branch          string        `mapstructure:"branch"`
		FirmwarePath    string        `mapstructure:"firmware_path"`
		AssetSuffixes   []string      `mapstructure:"asset_suffixes"`
		ProbeHost       string        `mapstructure:"probe_host"`
		UserAgent       string        `mapstructure:"user_agent"`
		RequestTimeout  time.Duration `mapstructure:"request_timeout"`
		DownloadTimeout time.Duration `mapstructure:"download_timeout"`
		CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	}
	FirmwareConfig struct {
		// Version wins over Build when both are set
		Version    string `mapstructure:"version"`
		Build      int    `mapstructure:"build"`
		TargetPath string `mapstructure:"target_path"`
		StagingDir string `mapstructure:"staging_dir"`
	}
	CredentialConfig struct {
		Token          string `mapstructure:"token"`
		PreferFallback bool   `mapstructure:"prefer_fallback"`
	}
	UpdateConfig struct {
		AutoCheck     bool          `mapstructure:"auto_check"`
		CheckInterval int           `mapstructure:"check_interval"`
		InitialDelay  time.Duration `mapstructure:"initial_delay"`
		GracePeriod   time.Duration `mapstructure:"grace_period"`
	}
	WatchdogConfig struct {
		Systemd bool `mapstructure:"systemd"`
	}
)

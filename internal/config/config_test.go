package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	c, err := LoadFile(writeConfig(t, "release:\n  owner: acme\n  repo: sensor\n"))
	require.NoError(t, err)

	require.Equal(t, DefaultPort, c.Server.Port)
	require.Equal(t, "acme", c.Release.Owner)
	require.Equal(t, "sensor", c.Release.Repo)
	require.Equal(t, DefaultAPIURL, c.Release.APIURL)
	require.Equal(t, []string{".bin"}, c.Release.AssetSuffixes)
	require.Equal(t, DefaultRequestTimeout, c.Release.RequestTimeout)
	require.Equal(t, DefaultCheckInterval, c.Update.CheckInterval)
	require.Equal(t, 3*time.Second, c.Update.GracePeriod)
	require.True(t, c.Auth.Enabled)
	require.Equal(t, DefaultStoreDriver, c.Store.Driver)
	require.Equal(t, "api.github.com", c.Release.ProbeHost)
}

func TestProbeHostFollowsAPIURL(t *testing.T) {
	testCases := []struct {
		Name     string
		Content  string
		Expected string
	}{
		{
			Name:     "enterprise api",
			Content:  "release:\n  api_url: https://ghe.example.com:8443/api/v3/\n",
			Expected: "ghe.example.com",
		},
		{
			Name:     "explicit probe host",
			Content:  "release:\n  api_url: https://ghe.example.com/api/v3/\n  probe_host: dns.example.com\n",
			Expected: "dns.example.com",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			c, err := LoadFile(writeConfig(t, tc.Content))
			require.NoError(t, err)
			require.Equal(t, tc.Expected, c.Release.ProbeHost)
		})
	}
}

func TestLoadFileOverrides(t *testing.T) {
	c, err := LoadFile(writeConfig(t, `
server:
  port: 9090
update:
  check_interval: 5000
  grace_period: 1s
firmware:
  build: 150
credential:
  prefer_fallback: true
`))
	require.NoError(t, err)

	require.Equal(t, 9090, c.Server.Port)
	require.Equal(t, MaxCheckInterval, c.Update.CheckInterval)
	require.Equal(t, time.Second, c.Update.GracePeriod)
	require.Equal(t, 150, c.Firmware.Build)
	require.True(t, c.Credential.PreferFallback)
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("OTA_RELEASE_OWNER", "from-env")

	c, err := LoadFile(writeConfig(t, "release:\n  owner: from-file\n"))
	require.NoError(t, err)
	require.Equal(t, "from-env", c.Release.Owner)
}

func TestClampCheckInterval(t *testing.T) {
	testCases := []struct {
		Name     string
		Minutes  int
		Expected int
	}{
		{Name: "below range", Minutes: 0, Expected: MinCheckInterval},
		{Name: "negative", Minutes: -10, Expected: MinCheckInterval},
		{Name: "in range", Minutes: 30, Expected: 30},
		{Name: "upper bound", Minutes: MaxCheckInterval, Expected: MaxCheckInterval},
		{Name: "above range", Minutes: MaxCheckInterval + 1, Expected: MaxCheckInterval},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Expected, ClampCheckInterval(tc.Minutes))
		})
	}
}

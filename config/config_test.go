package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 80.0, cfg.Verify.BlurThreshold)
	require.Equal(t, 30.0, cfg.Verify.BrightnessThreshold)
	require.Equal(t, 20.0, cfg.Verify.ContrastThreshold)
	require.Equal(t, 12, cfg.Verify.ExpectedIdpelLen)
	require.Equal(t, []string{"pagar"}, cfg.Verify.Keywords)
	require.Equal(t, 10, cfg.Download.Workers)
	require.Equal(t, 50000, cfg.Split.LinesPerFile)
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
verify:
  format: csv
  kwh_threshold: 0.8
  keywords: [pagar, tembok]
download:
  workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("KWH_KWH_THRESHOLD", "0.9")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("TELEGRAM_ENDPOINT", "http://localhost:8081/bot%s/%s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "csv", cfg.Verify.Format)
	require.Equal(t, 0.9, cfg.Verify.KwhThreshold)
	require.Equal(t, []string{"pagar", "tembok"}, cfg.Verify.Keywords)
	require.Equal(t, 4, cfg.Download.Workers)
	require.Equal(t, int64(-100123), cfg.TelegramChatID)
	require.Equal(t, "http://localhost:8081/bot%s/%s", cfg.TelegramEndpoint)
	// значения, которых нет в YAML, остаются по умолчанию
	require.Equal(t, 0.70, cfg.Verify.NegThreshold)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("KWH_THUMB_SIZE", "big")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"threshold out of range": func(c *Config) { c.Verify.KwhThreshold = 1.5 },
		"unknown format":         func(c *Config) { c.Verify.Format = "pdf" },
		"unknown layout":         func(c *Config) { c.Verify.Layout = "wide" },
		"unknown copy mode":      func(c *Config) { c.Verify.CopyMode = "all" },
		"unknown dtype":          func(c *Config) { c.Verify.InputDType = "int8" },
		"zero thumb":             func(c *Config) { c.Verify.ThumbSize = 0 },
		"zero workers":           func(c *Config) { c.Download.Workers = 0 },
		"negative blur":          func(c *Config) { c.Verify.BlurThreshold = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, Default().Validate())
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, SplitList(" a, ,b ,"))
	require.Nil(t, SplitList(""))
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config содержит настройки всех подкоманд.
type Config struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	// TelegramEndpoint — свой Bot API сервер, формат "https://host/bot%s/%s"
	TelegramEndpoint string `yaml:"telegram_endpoint"`

	Verify   VerifyConfig   `yaml:"verify"`
	Split    SplitConfig    `yaml:"split"`
	Download DownloadConfig `yaml:"download"`
	DLPD     DLPDConfig     `yaml:"dlpd"`
	Filter   FilterConfig   `yaml:"filter"`
}

// VerifyConfig — параметры пакетной проверки фото счётчиков.
type VerifyConfig struct {
	ModelPath  string `yaml:"model"`
	LabelsPath string `yaml:"labels"`
	SrcDir     string `yaml:"src"`
	DstDir     string `yaml:"dst"`
	OutputPath string `yaml:"output"`
	Format     string `yaml:"format"`
	Layout     string `yaml:"layout"`
	PassOnly   bool   `yaml:"pass_only"`
	CopyMode   string `yaml:"copy"`

	NegThreshold        float64 `yaml:"neg_threshold"`
	KwhThreshold        float64 `yaml:"kwh_threshold"`
	BlurThreshold       float64 `yaml:"blur_threshold"`
	BrightnessThreshold float64 `yaml:"brightness_threshold"`
	ContrastThreshold   float64 `yaml:"contrast_threshold"`

	ExpectedIdpelLen int      `yaml:"expected_idpel_len"`
	ExpectedStandLen int      `yaml:"expected_stand_len"`
	RequireIdpel     bool     `yaml:"require_idpel"`
	Keywords         []string `yaml:"keywords"`
	ValidMarker      string   `yaml:"valid_marker"`

	EmbedImages bool `yaml:"embed_images"`
	ThumbSize   int  `yaml:"thumb_size"`

	InputSize  int    `yaml:"input_size"`
	InputDType string `yaml:"input_dtype"`
}

// SplitConfig — параметры разбиения списка idpel.
type SplitConfig struct {
	Input        string `yaml:"input"`
	OutputDir    string `yaml:"output_dir"`
	LinesPerFile int    `yaml:"lines_per_file"`
}

// DownloadConfig — параметры загрузки фото из ACMT.
type DownloadConfig struct {
	Server       string `yaml:"server"`
	Blth         string `yaml:"blth"`
	Cookie       string `yaml:"cookie"`
	Input        string `yaml:"input"`
	OutputDir    string `yaml:"output_dir"`
	LogDir       string `yaml:"log_dir"`
	Workers      int    `yaml:"workers"`
	MaxRetries   int    `yaml:"max_retries"`
	RetryDelayMs int    `yaml:"retry_delay_ms"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

// DLPDConfig — параметры выгрузки отчёта DLPD.
type DLPDConfig struct {
	Server       string `yaml:"server"`
	Blth         string `yaml:"blth"`
	Unitap       string `yaml:"unitap"`
	Unit         string `yaml:"unit"`
	OutputDir    string `yaml:"output_dir"`
	MaxRetries   int    `yaml:"max_retries"`
	RetryDelayMs int    `yaml:"retry_delay_ms"`
}

// FilterConfig — параметры фильтрации таблицы по прошедшим проверку idpel.
type FilterConfig struct {
	IdsFrom   string `yaml:"ids_from"`
	Input     string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`
}

// Load собирает конфигурацию: .env, затем YAML, затем переменные окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	path := "config.yaml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		path = p
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default возвращает значения по умолчанию.
func Default() *Config {
	return &Config{
		Verify: VerifyConfig{
			ModelPath:           "./0_model_training/model_unquant.tflite",
			LabelsPath:          "./0_model_training/labels.txt",
			SrcDir:              "./2_images",
			DstDir:              "./3_scan_output",
			OutputPath:          "./excel_idpel_kwh.xlsx",
			Format:              "xlsx",
			Layout:              "minimal",
			PassOnly:            true,
			CopyMode:            "none",
			NegThreshold:        0.70,
			KwhThreshold:        0.70,
			BlurThreshold:       80.0,
			BrightnessThreshold: 30.0,
			ContrastThreshold:   20.0,
			ExpectedIdpelLen:    12,
			Keywords:            []string{"pagar"},
			ValidMarker:         "kwh",
			EmbedImages:         true,
			ThumbSize:           100,
			InputSize:           224,
			InputDType:          "float32",
		},
		Split: SplitConfig{
			Input:        "idpel.txt",
			OutputDir:    "1_split_idpel",
			LinesPerFile: 50000,
		},
		Download: DownloadConfig{
			Server:       "portalapp.iconpln.co.id",
			OutputDir:    "2_images",
			LogDir:       "4_log_gagal_unduh_foto",
			Workers:      10,
			MaxRetries:   1,
			RetryDelayMs: 1000,
			TimeoutSec:   15,
		},
		DLPD: DLPDConfig{
			Server:       "https://ap2t.pln.co.id",
			Unitap:       "32AMU",
			OutputDir:    ".",
			MaxRetries:   3,
			RetryDelayMs: 5000,
		},
		Filter: FilterConfig{
			IdsFrom:   "3_scan_output",
			OutputDir: ".",
		},
	}
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	v := c.Verify
	if v.NegThreshold < 0 || v.NegThreshold > 1 {
		return fmt.Errorf("invalid neg_threshold %.2f: must be between 0 and 1", v.NegThreshold)
	}
	if v.KwhThreshold < 0 || v.KwhThreshold > 1 {
		return fmt.Errorf("invalid kwh_threshold %.2f: must be between 0 and 1", v.KwhThreshold)
	}
	if v.BlurThreshold < 0 || v.BrightnessThreshold < 0 || v.ContrastThreshold < 0 {
		return errors.New("quality thresholds must be >= 0")
	}
	if v.ExpectedIdpelLen < 0 || v.ExpectedStandLen < 0 {
		return errors.New("expected lengths must be >= 0")
	}
	if v.ThumbSize <= 0 {
		return fmt.Errorf("invalid thumb_size %d: must be > 0", v.ThumbSize)
	}
	if v.InputSize <= 0 {
		return fmt.Errorf("invalid input_size %d: must be > 0", v.InputSize)
	}
	switch v.Format {
	case "xlsx", "csv", "json", "txt":
	default:
		return fmt.Errorf("unknown format %q", v.Format)
	}
	switch v.Layout {
	case "minimal", "extended":
	default:
		return fmt.Errorf("unknown layout %q", v.Layout)
	}
	switch v.CopyMode {
	case "none", "negative", "passed":
	default:
		return fmt.Errorf("unknown copy mode %q", v.CopyMode)
	}
	switch v.InputDType {
	case "float32", "uint8":
	default:
		return fmt.Errorf("unknown input_dtype %q", v.InputDType)
	}
	if c.Split.LinesPerFile < 1 {
		return fmt.Errorf("invalid lines_per_file %d: must be >= 1", c.Split.LinesPerFile)
	}
	if c.Download.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be >= 1", c.Download.Workers)
	}
	if c.Download.MaxRetries < 1 || c.DLPD.MaxRetries < 1 {
		return errors.New("max_retries must be >= 1")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	envString(&cfg.TelegramToken, "TELEGRAM_TOKEN")
	envString(&cfg.TelegramEndpoint, "TELEGRAM_ENDPOINT")
	if err := envInt64(&cfg.TelegramChatID, "TELEGRAM_CHAT_ID"); err != nil {
		return err
	}

	v := &cfg.Verify
	envString(&v.ModelPath, "KWH_MODEL")
	envString(&v.LabelsPath, "KWH_LABELS")
	envString(&v.SrcDir, "KWH_SRC")
	envString(&v.DstDir, "KWH_DST")
	envString(&v.OutputPath, "KWH_OUTPUT")
	envString(&v.Format, "KWH_FORMAT")
	envString(&v.Layout, "KWH_LAYOUT")
	envString(&v.CopyMode, "KWH_COPY")
	if kw := os.Getenv("KWH_KEYWORDS"); kw != "" {
		v.Keywords = SplitList(kw)
	}

	floats := map[string]*float64{
		"KWH_NEG_THRESHOLD":        &v.NegThreshold,
		"KWH_KWH_THRESHOLD":        &v.KwhThreshold,
		"KWH_BLUR_THRESHOLD":       &v.BlurThreshold,
		"KWH_BRIGHTNESS_THRESHOLD": &v.BrightnessThreshold,
		"KWH_CONTRAST_THRESHOLD":   &v.ContrastThreshold,
	}
	for key, field := range floats {
		if err := envFloat(field, key); err != nil {
			return err
		}
	}

	ints := map[string]*int{
		"KWH_EXPECTED_IDPEL_LEN": &v.ExpectedIdpelLen,
		"KWH_EXPECTED_STAND_LEN": &v.ExpectedStandLen,
		"KWH_THUMB_SIZE":         &v.ThumbSize,
		"KWH_INPUT_SIZE":         &v.InputSize,
		"ACMT_WORKERS":           &cfg.Download.Workers,
		"ACMT_MAX_RETRIES":       &cfg.Download.MaxRetries,
	}
	for key, field := range ints {
		if err := envInt(field, key); err != nil {
			return err
		}
	}

	envString(&cfg.Download.Server, "ACMT_SERVER")
	envString(&cfg.Download.Cookie, "ACMT_COOKIE")
	envString(&cfg.Download.Blth, "ACMT_BLTH")
	envString(&cfg.DLPD.Server, "DLPD_SERVER")
	envString(&cfg.DLPD.Blth, "DLPD_BLTH")
	envString(&cfg.DLPD.Unitap, "DLPD_UNITAP")
	return nil
}

// SplitList разбирает список через запятую, пропуская пустые элементы.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envString(field *string, key string) {
	if val := os.Getenv(key); val != "" {
		*field = val
	}
}

func envInt(field *int, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	*field = parsed
	return nil
}

func envInt64(field *int64, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	*field = parsed
	return nil
}

func envFloat(field *float64, key string) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	*field = parsed
	return nil
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/copier"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"weather-globe/internal/logger"
)

// FileName is the preferences file looked up in the config directory.
const FileName = configName + ".json"

const configName = "globe"

// DefaultDir is the config directory relative to the working directory.
const DefaultDir = "config"

// Config holds the application settings. Connection settings usually come from the environment
// (GLOBE_BACKEND_URL, GLOBE_USERNAME); display preferences are saved back to globe.json when
// changed from the console.
type Config struct {
	BackendURL      string        `json:"backendURL" mapstructure:"backendURL" validate:"required,url"`
	Username        string        `json:"username" mapstructure:"username"`
	HTTPTimeout     time.Duration `json:"httpTimeout" mapstructure:"httpTimeout" validate:"gt=0"`
	RefreshInterval time.Duration `json:"refreshInterval" mapstructure:"refreshInterval" validate:"gte=0"`
	PopupTimeout    time.Duration `json:"popupTimeout" mapstructure:"popupTimeout" validate:"gte=0"`

	FlagCacheDir string `json:"flagCacheDir" mapstructure:"flagCacheDir"`
	FlagSize     int    `json:"flagSize" mapstructure:"flagSize" validate:"gte=16,lte=512"`

	LogFile  string `json:"logFile" mapstructure:"logFile"`
	LogLevel string `json:"logLevel" mapstructure:"logLevel" validate:"oneof=trace debug info warn error"`

	Theme      string `json:"theme" mapstructure:"theme" validate:"required"`
	ThemesFile string `json:"themesFile" mapstructure:"themesFile"`
	Stylesheet string `json:"stylesheet" mapstructure:"stylesheet"`
	TextColor  []int  `json:"textColor" mapstructure:"textColor" validate:"len=3,dive,gte=0,lte=255"`
	FontSize   int    `json:"fontSize" mapstructure:"fontSize" validate:"gte=8,lte=64"`
	Font       string `json:"font" mapstructure:"font"`
	ShowFPS    bool   `json:"showFPS" mapstructure:"showFPS"`
	Stars      bool   `json:"stars" mapstructure:"stars"`

	WindowWidth  int  `json:"windowWidth" mapstructure:"windowWidth" validate:"gte=0"`
	WindowHeight int  `json:"windowHeight" mapstructure:"windowHeight" validate:"gte=0"`
	Fullscreen   bool `json:"fullscreen" mapstructure:"fullscreen"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("backendURL", "http://localhost:5000")
	v.SetDefault("username", "")
	v.SetDefault("httpTimeout", "10s")
	v.SetDefault("refreshInterval", "10m")
	v.SetDefault("popupTimeout", "4s")

	v.SetDefault("flagCacheDir", "assets/flags")
	v.SetDefault("flagSize", 64)

	v.SetDefault("logFile", logger.DefaultPath)
	v.SetDefault("logLevel", "info")

	v.SetDefault("theme", "earth")
	v.SetDefault("themesFile", "assets/themes.yaml")
	v.SetDefault("stylesheet", "assets/ui/globe.css")
	v.SetDefault("textColor", []int{255, 255, 255})
	v.SetDefault("fontSize", 18)
	v.SetDefault("font", "")
	v.SetDefault("showFPS", false)
	v.SetDefault("stars", true)

	v.SetDefault("windowWidth", 1280)
	v.SetDefault("windowHeight", 720)
	v.SetDefault("fullscreen", false)
}

// Load reads .env (if present), then dir/globe.json (if present), then GLOBE_* environment
// variables, and validates the result. A missing file is not an error; defaults apply.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configName)
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("GLOBE")
	_ = v.BindEnv("backendURL", "GLOBE_BACKEND_URL")
	_ = v.BindEnv("username", "GLOBE_USERNAME")
	_ = v.BindEnv("logLevel", "GLOBE_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the config as indented JSON to dir/globe.json, creating dir if needed.
// Durations are written as strings so the file stays hand-editable.
func Save(dir string, c *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	out := map[string]any{}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	out["httpTimeout"] = c.HTTPTimeout.String()
	out["refreshInterval"] = c.RefreshInterval.String()
	out["popupTimeout"] = c.PopupTimeout.String()

	data, err := json.MarshalIndent(out, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0644)
}

// Clone returns a deep copy, so preferences can be edited without touching the live config.
func Clone(c *Config) (*Config, error) {
	var out Config
	if err := copier.CopyWithOption(&out, c, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

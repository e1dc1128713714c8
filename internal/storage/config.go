package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const AppName = "mediadeck"

type Config struct {
	v *viper.Viper
}

// Setting describes one user-settable key for the config commands.
type Setting struct {
	Key         string
	Description string
	Options     []string
	Bool        bool
}

var Settings = []Setting{
	{Key: "catalog", Description: "Catalog file (empty uses the built-in sample)"},
	{Key: "autoplay", Description: "Advance to the next item when one ends", Bool: true},
	{Key: "player", Description: "Playback backend (browser opens every item in the browser)", Options: []string{"mpv", "browser"}},
	{Key: "hwdec", Description: "mpv hardware decoding mode", Options: []string{"auto", "auto-safe", "no", "vaapi", "nvdec", "videotoolbox"}},
	{Key: "ytdlFormat", Description: "Format selector passed to yt-dlp"},
	{Key: "browser", Description: "Command that opens embed pages (empty uses the system default)"},
	{Key: "instantSearch", Description: "Filter items while typing", Bool: true},
}

func NewConfig() (*Config, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return NewConfigAt(configDir)
}

// NewConfigAt reads config.yaml from dir, creating it with defaults when missing.
func NewConfigAt(configDir string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MEDIADECK")
	v.AutomaticEnv()

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	config := &Config{v: v}

	if err := config.Load(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		v.SetConfigFile(filepath.Join(configDir, "config.yaml"))
		_ = config.Save()
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog", "")
	v.SetDefault("autoplay", true)

	v.SetDefault("player", "mpv")
	v.SetDefault("hwdec", "auto")
	v.SetDefault("ytdlFormat", "bestvideo[height<=?1080]+bestaudio/best")

	v.SetDefault("browser", "")

	v.SetDefault("instantSearch", true)
}

func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}

func (c *Config) Load() error {
	return c.v.ReadInConfig()
}

func (c *Config) Save() error {
	if err := c.v.WriteConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return c.v.SafeWriteConfig()
		}
		return err
	}
	return nil
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// SetValue validates value against the known settings before storing it.
func (c *Config) SetValue(key, value string) error {
	setting, ok := lookup(key)
	if !ok {
		return fmt.Errorf("unknown configuration key '%s'", key)
	}

	switch {
	case setting.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value '%s' for %s: expected true or false", value, setting.Key)
		}
		c.Set(setting.Key, b)

	case len(setting.Options) > 0:
		value = strings.ToLower(value)
		if !contains(setting.Options, value) {
			return fmt.Errorf("invalid %s '%s'. Valid options: %s", setting.Key, value, strings.Join(setting.Options, ", "))
		}
		c.Set(setting.Key, value)

	default:
		c.Set(setting.Key, value)
	}

	return nil
}

func lookup(key string) (Setting, bool) {
	for _, s := range Settings {
		if strings.EqualFold(s.Key, key) {
			return s, true
		}
	}
	return Setting{}, false
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) GetCatalog() string {
	return c.GetString("catalog")
}

func (c *Config) GetAutoplay() bool {
	return c.GetBool("autoplay")
}

func (c *Config) GetPlayer() string {
	return c.GetString("player")
}

func (c *Config) GetHwdec() string {
	return c.GetString("hwdec")
}

func (c *Config) GetYtdlFormat() string {
	return c.GetString("ytdlFormat")
}

func (c *Config) GetBrowser() string {
	return c.GetString("browser")
}

func (c *Config) GetInstantSearch() bool {
	return c.GetBool("instantSearch")
}

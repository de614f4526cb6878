package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type TTSConfig struct {
	APIKey  string `mapstructure:"api_key"`
	VoiceID string `mapstructure:"voice_id"`
	ModelID string `mapstructure:"model_id"`
}

type StorageConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	PublicURL string `mapstructure:"public_url"`
	Bucket    string `mapstructure:"bucket"`
	Token     string `mapstructure:"token"`
}

type PartyConfig struct {
	// Lobby selects the ready-gated variant: parties start in lobby and
	// members join unready until the host starts the tour.
	Lobby bool `mapstructure:"lobby"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	RedisAddr  string        `mapstructure:"redis_addr"`
	Party      PartyConfig   `mapstructure:"party"`
	TTS        TTSConfig     `mapstructure:"tts"`
	Storage    StorageConfig `mapstructure:"storage"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("redis_addr", "")
	v.SetDefault("party.lobby", false)
	v.SetDefault("tts.api_key", "")
	v.SetDefault("tts.voice_id", "21m00Tcm4TlvDq8ikWAM")
	v.SetDefault("tts.model_id", "eleven_monolingual_v1")
	v.SetDefault("storage.base_url", "")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("storage.bucket", "tourandot-audio")
	v.SetDefault("storage.token", "")

	// Secrets come from the environment: TTS_API_KEY, STORAGE_TOKEN, etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath)
	return &cfg, nil
}

// AudioMissing lists the credentials still unset; the audio pipeline is
// enabled only when it comes back empty.
func (c *Config) AudioMissing() []string {
	var missing []string
	if c.TTS.APIKey == "" {
		missing = append(missing, "TTS_API_KEY")
	}
	if c.Storage.BaseURL == "" {
		missing = append(missing, "STORAGE_BASE_URL")
	}
	if c.Storage.Token == "" {
		missing = append(missing, "STORAGE_TOKEN")
	}
	return missing
}

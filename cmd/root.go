package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-sync"
)

type Config struct {
	Database *DatabaseConfig `mapstructure:"database"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	AI       *AIConfig       `mapstructure:"ai"`
	Server   *ServerConfig   `mapstructure:"server"`
	Sync     *SyncConfig     `mapstructure:"sync"`
	Reembed  *ReembedConfig  `mapstructure:"reembed"`
}

type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	URLFile        string `mapstructure:"url-file"`
	MaxConns       int32  `mapstructure:"max-conns"`
	SimpleProtocol bool   `mapstructure:"simple-protocol"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	CacheTTL time.Duration `mapstructure:"cache-ttl"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type SyncConfig struct {
	Atomic                 bool `mapstructure:"atomic"`
	SkipUnchangedEmbedding bool `mapstructure:"skip-unchanged-embedding"`
}

type ReembedConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	IntervalHours int  `mapstructure:"interval-hours"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-sync stores resumes section by section, keeps their embeddings current and matches them to jobs",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

var defaults = map[string]any{
	"database.url":                  "",
	"database.url-file":             "",
	"database.max-conns":            10,
	"database.simple-protocol":      false,
	"redis.url":                     "",
	"redis.cache-ttl":               "168h",
	"ai.provider":                   "gemini",
	"ai.max-log-length":             200,
	"ai.gemini.api-key":             "",
	"ai.gemini.api-key-file":        "",
	"ai.gemini.model":               "",
	"ai.openai.api-key":             "",
	"ai.openai.api-key-file":        "",
	"ai.openai.model":               "",
	"ai.openai.base-url":            "",
	"server.port":                   8080,
	"sync.atomic":                   false,
	"sync.skip-unchanged-embedding": false,
	"reembed.enabled":               false,
	"reembed.interval-hours":        24,
}

func init() {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	viper.SetEnvPrefix("CV_SYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("database.url", "CV_SYNC_DATABASE_URL", "DATABASE_URL"); err != nil {
		log.Fatalf("binding DATABASE_URL environment variable: %v", err)
	}
	if err := viper.BindEnv("redis.url", "CV_SYNC_REDIS_URL", "REDIS_URL"); err != nil {
		log.Fatalf("binding REDIS_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-sync.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine, everything can come from the environment.
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if config.Database == nil {
		config.Database = &DatabaseConfig{}
	}
	if config.Redis == nil {
		config.Redis = &RedisConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.OpenAI == nil {
		config.AI.OpenAI = &OpenAIConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Sync == nil {
		config.Sync = &SyncConfig{}
	}
	if config.Reembed == nil {
		config.Reembed = &ReembedConfig{}
	}

	return config, nil
}

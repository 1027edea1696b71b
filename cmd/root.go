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
	app       = "folio"
	envPrefix = "FOLIO"
)

type Config struct {
	Server      *ServerConfig `mapstructure:"server"`
	AI          *AIConfig     `mapstructure:"ai"`
	CatalogFile string        `mapstructure:"catalog-file"`
}

type ServerConfig struct {
	Listen          string           `mapstructure:"listen"`
	ReadTimeout     time.Duration    `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration    `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration    `mapstructure:"shutdown-timeout"`
	MaxBodyBytes    int64            `mapstructure:"max-body-bytes"`
	CORSOrigins     []string         `mapstructure:"cors-origins"`
	RateLimit       *RateLimitConfig `mapstructure:"rate-limit"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Disabled bool          `mapstructure:"disabled"`
}

type AIConfig struct {
	Enabled         bool           `mapstructure:"enabled"`
	Provider        string         `mapstructure:"provider"`
	Timeout         time.Duration  `mapstructure:"timeout"`
	MaxOutputTokens int32          `mapstructure:"max-output-tokens"`
	Temperature     float32        `mapstructure:"temperature"`
	HistoryLimit    int            `mapstructure:"history-limit"`
	Gemini          *GeminiConfig  `mapstructure:"gemini"`
	Breaker         *BreakerConfig `mapstructure:"breaker"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	KeyPrefix    string `mapstructure:"key-prefix"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `mapstructure:"failure-threshold"`
	OpenTimeout      time.Duration `mapstructure:"open-timeout"`
	Interval         time.Duration `mapstructure:"interval"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "folio serves the portfolio site API: recommendations, resume analysis and an AI assistant that never fails",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is folio.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.read-timeout", 10*time.Second)
	viper.SetDefault("server.write-timeout", 30*time.Second)
	viper.SetDefault("server.shutdown-timeout", 15*time.Second)
	viper.SetDefault("server.max-body-bytes", 1<<20)
	viper.SetDefault("server.cors-origins", []string{"*"})
	viper.SetDefault("server.rate-limit.requests", 60)
	viper.SetDefault("server.rate-limit.window", time.Minute)
	viper.SetDefault("server.rate-limit.disabled", false)

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", 8*time.Second)
	viper.SetDefault("ai.max-output-tokens", 500)
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.history-limit", 10)
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.key-prefix", "AIza")
	viper.SetDefault("ai.gemini.max-log-length", 120)
	viper.SetDefault("ai.breaker.failure-threshold", 5)
	viper.SetDefault("ai.breaker.open-timeout", 30*time.Second)
	viper.SetDefault("ai.breaker.interval", time.Minute)

	viper.SetDefault("catalog-file", "")
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, defaults and env cover a plain start.
	// A file that exists but does not parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Server.RateLimit == nil {
		config.Server.RateLimit = &RateLimitConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Breaker == nil {
		config.AI.Breaker = &BreakerConfig{}
	}

	return config, nil
}

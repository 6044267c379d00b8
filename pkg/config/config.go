package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Analyzer  AnalyzerConfig
	Chat      ChatConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type LLMConfig struct {
	APIKey            string
	Model             string
	Temperature       float32
	AnalysisMaxTokens int
	ChatMaxTokens     int
	TimeoutSec        int
}

type AnalyzerConfig struct {
	UserAgent       string
	FetchTimeoutSec int
	MaxContentChars int
	CacheTTLMin     int
}

type ChatConfig struct {
	HistoryLimit  int
	HistoryWindow int
}

type RateLimitConfig struct {
	Enabled              bool
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/webotyou")

	viper.SetEnvPrefix("WEBOTYOU")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("sqlite.path", "./data/webotyou.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("llm.model", "gpt-5")
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.analysisMaxTokens", 1000)
	viper.SetDefault("llm.chatMaxTokens", 300)
	viper.SetDefault("llm.timeoutSec", 30)

	viper.SetDefault("analyzer.userAgent", "Mozilla/5.0 (compatible; WeBotYou-Analyzer/1.0)")
	viper.SetDefault("analyzer.fetchTimeoutSec", 10)
	viper.SetDefault("analyzer.maxContentChars", 3000)
	viper.SetDefault("analyzer.cacheTTLMin", 60)

	viper.SetDefault("chat.historyLimit", 20)
	viper.SetDefault("chat.historyWindow", 6)

	viper.SetDefault("ratelimit.enabled", true)
	viper.SetDefault("ratelimit.maxRequestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}

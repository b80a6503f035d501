package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Discord  DiscordConfig  `mapstructure:"discord"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// HTTPConfig 仪表盘 API 配置
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, production
}

// DiscordConfig 网关客户端配置
type DiscordConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	AutoConnect bool   `mapstructure:"auto_connect"` // 启动时自动连接网关
}

// OpenAIConfig 补全服务配置
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"` // 留空使用官方地址
	Model   string `mapstructure:"model"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, postgres, memory
	DSN  string `mapstructure:"dsn"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 加载配置
// 优先级 (低 → 高): 默认值 → ~/.chatbridge/config.yaml → ./config.yaml → 环境变量
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".chatbridge"))
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read global config: %w", err)
		}
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		v2 := viper.New()
		v2.SetConfigFile("config.yaml")
		if err := v2.ReadInConfig(); err == nil {
			_ = v.MergeConfigMap(v2.AllSettings())
		}
	}

	v.SetEnvPrefix("CHATBRIDGE")
	v.AutomaticEnv()

	// 常用密钥也接受无前缀的惯用环境变量名
	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
		v.Set("discord.bot_token", token)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		v.Set("openai.api_key", key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 18790)
	v.SetDefault("http.mode", "production")

	v.SetDefault("discord.auto_connect", true)

	v.SetDefault("openai.model", "gpt-4o-mini")

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "chatbridge.db")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

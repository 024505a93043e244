package config

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "HEALTHMETRICS"

// Config 命令行的默认配置，命令行参数优先
type Config struct {
	LogLevel    string
	LogFormat   string
	RulesPath   string
	RecordsPath string
	ProfilePath string
	GoalsPath   string
}

// Default 默认配置
func Default() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "console",
		RecordsPath: "records.json",
		ProfilePath: "profile.yaml",
		GoalsPath:   "goals.json",
	}
}

// Load 读取可选的 .env 文件后从环境变量加载配置
// 文件不存在时忽略，已存在的环境变量不会被覆盖
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, err
		}
	}

	c := Default()
	c.LoadFromEnv(EnvPrefix)
	return c, nil
}

// LoadFromEnv 从环境变量加载配置
func (c *Config) LoadFromEnv(prefix string) {
	if level := os.Getenv(prefix + "_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv(prefix + "_LOG_FORMAT"); format != "" {
		c.LogFormat = format
	}
	if rules := os.Getenv(prefix + "_RULES"); rules != "" {
		c.RulesPath = rules
	}
	if records := os.Getenv(prefix + "_RECORDS"); records != "" {
		c.RecordsPath = records
	}
	if profile := os.Getenv(prefix + "_PROFILE"); profile != "" {
		c.ProfilePath = profile
	}
	if goals := os.Getenv(prefix + "_GOALS"); goals != "" {
		c.GoalsPath = goals
	}
}

package rules

import "github.com/songzhibin97/healthmetrics/pkg/risk"

// Rule 表示一条风险建议规则
// Condition 形如 "bmi in 肥胖,超重"：对应风险等级命中任一等级时触发
type Rule struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Condition string   `yaml:"condition"`
	Actions   []Action `yaml:"actions"`
}

// Action 表示规则触发后的动作
type Action struct {
	Type        string   `yaml:"type"`
	Severity    string   `yaml:"severity"`
	Title       string   `yaml:"title"`
	Suggestions []string `yaml:"suggestions"`
}

// Finding 表示规则匹配后的发现
type Finding struct {
	RuleID      string   `json:"ruleId"`
	RuleName    string   `json:"ruleName"`
	Severity    string   `json:"severity"`
	Title       string   `json:"title"`
	Level       string   `json:"level"`
	Suggestions []string `json:"suggestions"`
}

// TrendAdvice 某个指标在不同趋势方向下的建议，Metric 为 default 时作为兜底
type TrendAdvice struct {
	Metric     string `yaml:"metric"`
	Increasing string `yaml:"increasing"`
	Decreasing string `yaml:"decreasing"`
	Stable     string `yaml:"stable"`
}

// RulesConfig 规则配置文件结构
type RulesConfig struct {
	Rules         []Rule           `yaml:"rules"`
	TrendAdvice   []TrendAdvice    `yaml:"trend_advice"`
	GeneralAdvice []string         `yaml:"general_advice"`
	LevelScores   risk.LevelScores `yaml:"level_scores"`
}

// condition 解析后的规则条件
type condition struct {
	family string
	levels map[string]bool
}

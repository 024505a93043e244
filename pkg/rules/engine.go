package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/risk"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

const defaultAdviceKey = "default"

// Engine 规则引擎
type Engine struct {
	rules         []Rule
	conditions    []condition
	trendAdvice   map[string]TrendAdvice
	generalAdvice []string
	levelScores   risk.LevelScores
}

// NewEngine 创建规则引擎，从指定路径加载规则
// 路径为空时使用内置的默认规则
func NewEngine(rulesPath string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if rulesPath == "" {
		log.Debug("using built-in rules")
		return parse(defaultRules)
	}

	data, err := os.ReadFile(rulesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("rules file not found: %s", rulesPath)
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	engine, err := parse(data)
	if err != nil {
		return nil, err
	}
	log.Info("rules loaded",
		zap.String("path", rulesPath),
		zap.Int("rules", len(engine.rules)),
		zap.Int("trend_advice", len(engine.trendAdvice)))
	return engine, nil
}

// Default 返回使用内置规则的引擎
func Default() *Engine {
	engine, err := parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("built-in rules are invalid: %v", err))
	}
	return engine
}

func parse(data []byte) (*Engine, error) {
	var config RulesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	// 验证规则结构
	conditions := make([]condition, 0, len(config.Rules))
	for i, rule := range config.Rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule %d: missing id", i)
		}
		if rule.Name == "" {
			return nil, fmt.Errorf("rule %s: missing name", rule.ID)
		}
		if rule.Condition == "" {
			return nil, fmt.Errorf("rule %s: missing condition", rule.ID)
		}
		if len(rule.Actions) == 0 {
			return nil, fmt.Errorf("rule %s: missing actions", rule.ID)
		}
		cond, err := parseCondition(rule.Condition)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		conditions = append(conditions, cond)
	}

	// 验证趋势建议
	trendAdvice := make(map[string]TrendAdvice, len(config.TrendAdvice))
	for i, advice := range config.TrendAdvice {
		if advice.Metric == "" {
			return nil, fmt.Errorf("trend_advice %d: missing metric", i)
		}
		if _, dup := trendAdvice[advice.Metric]; dup {
			return nil, fmt.Errorf("trend_advice %s: duplicate metric", advice.Metric)
		}
		if advice.Metric != defaultAdviceKey {
			if _, ok := model.LookupMetric(advice.Metric); !ok {
				return nil, fmt.Errorf("trend_advice %s: unknown metric", advice.Metric)
			}
		}
		trendAdvice[advice.Metric] = advice
	}

	for level, score := range config.LevelScores.Scores {
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("level_scores %s: score %d out of range [0,100]", level, score)
		}
	}

	return &Engine{
		rules:         config.Rules,
		conditions:    conditions,
		trendAdvice:   trendAdvice,
		generalAdvice: config.GeneralAdvice,
		levelScores:   config.LevelScores,
	}, nil
}

// parseCondition 解析 "<风险项> in <等级>,<等级>"
func parseCondition(s string) (condition, error) {
	family, list, ok := strings.Cut(s, " in ")
	if !ok {
		return condition{}, fmt.Errorf("invalid condition %q (expected \"<item> in <level>,...\")", s)
	}
	family = strings.TrimSpace(family)
	if !lo.Contains(families(), family) {
		return condition{}, fmt.Errorf("invalid condition %q: unknown item %q", s, family)
	}

	levels := lo.Compact(lo.Map(strings.Split(list, ","), func(l string, _ int) string {
		return strings.TrimSpace(l)
	}))
	if len(levels) == 0 {
		return condition{}, fmt.Errorf("invalid condition %q: no levels", s)
	}

	return condition{
		family: family,
		levels: lo.SliceToMap(levels, func(l string) (string, bool) { return l, true }),
	}, nil
}

// families 可在条件中引用的风险项
func families() []string {
	return lo.Map(risk.Assessment{}.Entries(), func(e risk.Entry, _ int) string { return e.Key })
}

func (e *Engine) orDefault() *Engine {
	if e == nil {
		return Default()
	}
	return e
}

// Evaluate 评估规则，返回匹配的发现
func (e *Engine) Evaluate(a risk.Assessment) []Finding {
	e = e.orDefault()

	entries := lo.KeyBy(a.Entries(), func(en risk.Entry) string { return en.Key })

	var findings []Finding
	for i, rule := range e.rules {
		cond := e.conditions[i]
		level := entries[cond.family].Level
		if !cond.levels[level] {
			continue
		}
		for _, action := range rule.Actions {
			findings = append(findings, Finding{
				RuleID:      rule.ID,
				RuleName:    rule.Name,
				Severity:    action.Severity,
				Title:       action.Title,
				Level:       level,
				Suggestions: action.Suggestions,
			})
		}
	}
	return findings
}

// HealthAdvice 根据风险等级生成健康建议，规则建议在前，通用建议在后，去除重复
func (e *Engine) HealthAdvice(a risk.Assessment) []string {
	e = e.orDefault()

	advice := lo.FlatMap(e.Evaluate(a), func(f Finding, _ int) []string { return f.Suggestions })
	advice = append(advice, e.generalAdvice...)
	return lo.Uniq(advice)
}

// TrendAdvice 趋势建议：趋势描述 + "。" + 对应指标和方向的建议
// 未配置的指标使用 default；方向没有对应建议时只返回趋势描述
func (e *Engine) TrendAdvice(analysis model.TrendAnalysis, metric string) string {
	e = e.orDefault()

	advice, ok := e.trendAdvice[metric]
	if !ok {
		advice = e.trendAdvice[defaultAdviceKey]
	}

	var text string
	switch analysis.Direction {
	case model.DirectionIncreasing:
		text = advice.Increasing
	case model.DirectionDecreasing:
		text = advice.Decreasing
	case model.DirectionStable:
		text = advice.Stable
	}
	if text == "" {
		return analysis.Message
	}
	return analysis.Message + "。" + text
}

// LevelScores 身体得分配置
func (e *Engine) LevelScores() risk.LevelScores {
	return e.orDefault().levelScores
}

// BodyScore 计算身体得分
func (e *Engine) BodyScore(a risk.Assessment) risk.BodyScore {
	return risk.Score(a.ScoredLevels(), e.LevelScores())
}

// Rules 已加载的规则
func (e *Engine) Rules() []Rule {
	return e.orDefault().rules
}

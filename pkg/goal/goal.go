package goal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/enrich"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

var (
	// ErrNoData 没有可作为初始值的健康数据
	ErrNoData = errors.New("no health data for goal metric")
	// ErrInvalidGoal 目标参数不合法
	ErrInvalidGoal = errors.New("invalid goal")
)

// Status 目标状态
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Text 状态的中文描述
func (s Status) Text() string {
	switch s {
	case StatusCompleted:
		return "已完成"
	case StatusFailed:
		return "已失败"
	case StatusInProgress:
		return "进行中"
	default:
		return "未知"
	}
}

// Color 状态颜色
func (s Status) Color() string {
	switch s {
	case StatusCompleted:
		return "#27ae60"
	case StatusFailed:
		return "#e74c3c"
	default:
		return "#3498db"
	}
}

// StatusText 返回状态的中文描述
func StatusText(status string) string {
	return Status(status).Text()
}

// Goal 健康目标
type Goal struct {
	ID           string   `json:"id"`
	MetricType   string   `json:"metricType"`
	TargetValue  float64  `json:"targetValue"`
	InitialValue float64  `json:"initialValue"`
	CurrentValue *float64 `json:"currentValue"`
	TargetDate   string   `json:"targetDate"`
	CreatedAt    string   `json:"createdAt"`
	Progress     float64  `json:"progress"`
	Status       Status   `json:"status"`
}

// Input 新建目标的参数
type Input struct {
	MetricType  string
	TargetValue float64
	TargetDate  string
}

// reductionMetrics 通常以减少为目标的指标
var reductionMetrics = []string{model.MetricWeight, model.MetricFatRate, model.MetricWaist}

// IsReductionMetric 指标是否通常以减少为目标
func IsReductionMetric(metric string) bool {
	return lo.Contains(reductionMetrics, metric)
}

// latestRecord 日期最新的记录，日期无法解析的记录被忽略
func latestRecord(records []model.HealthRecord) (model.HealthRecord, bool) {
	dated := lo.Filter(records, func(r model.HealthRecord, _ int) bool {
		_, ok := r.Time()
		return ok
	})
	if len(dated) == 0 {
		return model.HealthRecord{}, false
	}
	return lo.MaxBy(dated, func(a, b model.HealthRecord) bool {
		ta, _ := a.Time()
		tb, _ := b.Time()
		return ta.After(tb)
	}), true
}

// LatestMetricValue 最新一条记录的指标值，衍生指标缺失时按用户资料计算
func LatestMetricValue(records []model.HealthRecord, metric string, profile model.UserProfile) (float64, bool) {
	latest, ok := latestRecord(records)
	if !ok {
		return 0, false
	}
	v, ok := enrich.MetricValue(latest, metric, &profile)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// CalculateProgress 计算目标完成进度，范围 [0,100]
// 目标值小于初始值时按减少计算，否则按增加计算
func CalculateProgress(g Goal, records []model.HealthRecord, profile model.UserProfile) float64 {
	current, ok := LatestMetricValue(records, g.MetricType, profile)
	if !ok {
		return 0
	}

	span := g.TargetValue - g.InitialValue
	if span == 0 {
		if current == g.TargetValue {
			return 100
		}
		return 0
	}

	var progress float64
	if g.TargetValue < g.InitialValue {
		progress = (g.InitialValue - current) / (g.InitialValue - g.TargetValue) * 100
	} else {
		progress = (current - g.InitialValue) / span * 100
	}
	return math.Max(0, math.Min(100, progress))
}

// Update 返回刷新了进度、当前值和状态的目标
// 目标日期当天结束前未完成视为进行中
func Update(g Goal, records []model.HealthRecord, profile model.UserProfile, now time.Time) Goal {
	g.Progress = CalculateProgress(g, records, profile)
	g.CurrentValue = nil
	if v, ok := LatestMetricValue(records, g.MetricType, profile); ok {
		g.CurrentValue = model.Float(v)
	}

	switch {
	case g.Progress >= 100:
		g.Status = StatusCompleted
	case expired(g.TargetDate, now):
		g.Status = StatusFailed
	default:
		g.Status = StatusInProgress
	}
	return g
}

// UpdateAll 刷新所有目标，返回新的切片
func UpdateAll(goals []Goal, records []model.HealthRecord, profile model.UserProfile, now time.Time) []Goal {
	return lo.Map(goals, func(g Goal, _ int) Goal {
		return Update(g, records, profile, now)
	})
}

func expired(targetDate string, now time.Time) bool {
	target, err := model.ParseDate(targetDate)
	if err != nil {
		return false
	}
	return !now.Before(target.AddDate(0, 0, 1))
}

// New 新建目标，以最新记录的指标值作为初始值
func New(records []model.HealthRecord, profile model.UserProfile, in Input, now time.Time) (Goal, error) {
	if _, ok := model.LookupMetric(in.MetricType); !ok {
		return Goal{}, fmt.Errorf("%w: unknown metric %q", ErrInvalidGoal, in.MetricType)
	}
	if math.IsNaN(in.TargetValue) || math.IsInf(in.TargetValue, 0) {
		return Goal{}, fmt.Errorf("%w: target value must be a number", ErrInvalidGoal)
	}
	target, err := model.ParseDate(in.TargetDate)
	if err != nil {
		return Goal{}, fmt.Errorf("%w: target date: %v", ErrInvalidGoal, err)
	}

	initial, ok := LatestMetricValue(records, in.MetricType, profile)
	if !ok {
		return Goal{}, fmt.Errorf("%w: %s", ErrNoData, in.MetricType)
	}

	createdAt := model.FormatDate(now)
	g := Goal{
		ID:           fmt.Sprintf("goal-%s-%s", createdAt, in.MetricType),
		MetricType:   in.MetricType,
		TargetValue:  in.TargetValue,
		InitialValue: initial,
		CurrentValue: model.Float(initial),
		TargetDate:   model.FormatDate(target),
		CreatedAt:    createdAt,
		Status:       StatusInProgress,
	}
	return Update(g, records, profile, now), nil
}

// Remove 删除指定 ID 的目标
func Remove(goals []Goal, id string) ([]Goal, bool) {
	kept := lo.Reject(goals, func(g Goal, _ int) bool { return g.ID == id })
	return kept, len(kept) != len(goals)
}

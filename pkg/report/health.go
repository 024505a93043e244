package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/analyzer"
	"github.com/songzhibin97/healthmetrics/pkg/enrich"
	"github.com/songzhibin97/healthmetrics/pkg/goal"
	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/risk"
	"github.com/songzhibin97/healthmetrics/pkg/rules"
)

// ReportType 健康报告类型，只影响标题
type ReportType string

const (
	ReportComprehensive ReportType = "comprehensive"
	ReportWeight        ReportType = "weight"
	ReportFat           ReportType = "fat"
)

// Title 报告标题
func (t ReportType) Title() string {
	switch t {
	case ReportWeight:
		return "体重管理报告"
	case ReportFat:
		return "体脂管理报告"
	default:
		return "综合健康报告"
	}
}

// trendMetrics 健康报告中计算首尾趋势的指标
var trendMetrics = []string{
	model.MetricWeight,
	model.MetricFatRate,
	model.MetricMuscleMass,
	model.MetricWaterRate,
	model.MetricProtein,
	model.MetricVisceralFat,
	model.MetricWaist,
	model.MetricHip,
}

// HealthOptions 健康报告参数，Now 为零值时使用当前时间
type HealthOptions struct {
	ReportType ReportType
	TimeRange  TimeRange
	Now        time.Time
}

// MetricTrend 单个指标在时间窗口内的首尾变化
type MetricTrend struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Unit      string             `json:"unit"`
	Start     float64            `json:"start"`
	End       float64            `json:"end"`
	Change    float64            `json:"change"`
	Direction model.Direction    `json:"trend"`
	Data      []model.TrendPoint `json:"data"`
}

// HealthReport 健康报告
type HealthReport struct {
	ReportType  ReportType         `json:"reportType"`
	Title       string             `json:"title"`
	TimeRange   TimeRange          `json:"timeRange"`
	GeneratedAt time.Time          `json:"generatedAt"`
	StartDate   string             `json:"startDate"`
	EndDate     string             `json:"endDate"`
	Profile     model.UserProfile  `json:"userInfo"`
	Latest      model.HealthRecord `json:"latestData"`
	Assessment  risk.Assessment    `json:"riskLevels"`
	RiskEntries []risk.Entry       `json:"riskEntries"`
	BodyScore   risk.BodyScore     `json:"bodyScore"`
	Findings    []rules.Finding    `json:"findings"`
	Advice      []string           `json:"healthAdvice"`
	Trends      []MetricTrend      `json:"trends"`
	Goals       []goal.Goal        `json:"goals"`
}

// GenerateHealthReport 生成健康报告
// 最新数据取全部记录中日期最新的一条，趋势只统计时间范围内的记录
func GenerateHealthReport(records []model.HealthRecord, profile model.UserProfile, goals []goal.Goal, opts HealthOptions, engine *rules.Engine) (HealthReport, error) {
	if opts.TimeRange == RangeCustom || !opts.TimeRange.Valid() {
		return HealthReport{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, opts.TimeRange)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	dated := sortedByDate(records)
	if len(dated) == 0 {
		return HealthReport{}, ErrNoRecords
	}

	latest := enrich.CalculateMissingMetrics(dated[len(dated)-1], profile)
	assessment := risk.Assess(latest, profile)

	r := HealthReport{
		ReportType:  opts.ReportType,
		Title:       opts.ReportType.Title(),
		TimeRange:   opts.TimeRange,
		GeneratedAt: now,
		Profile:     profile,
		Latest:      latest,
		Assessment:  assessment,
		RiskEntries: assessment.Entries(),
		BodyScore:   engine.BodyScore(assessment),
		Findings:    engine.Evaluate(assessment),
		Advice:      engine.HealthAdvice(assessment),
		Goals:       goal.UpdateAll(goals, records, profile, now),
	}

	filtered := FilterByTimeRange(dated, opts.TimeRange, "", "", now)
	if len(filtered) > 0 {
		r.StartDate = filtered[0].Date
		r.EndDate = filtered[len(filtered)-1].Date
	}
	r.Trends = lo.Map(trendMetrics, func(key string, _ int) MetricTrend {
		return metricTrend(filtered, key, &profile)
	})
	return r, nil
}

func metricTrend(records []model.HealthRecord, key string, profile *model.UserProfile) MetricTrend {
	info, _ := model.LookupMetric(key)
	t := MetricTrend{
		Key:       key,
		Label:     info.Label,
		Unit:      info.Unit,
		Data:      analyzer.BuildSeries(records, key, profile),
		Direction: model.DirectionInsufficientData,
	}
	if len(t.Data) == 0 {
		return t
	}

	t.Start = t.Data[0].Value
	t.End = t.Data[len(t.Data)-1].Value
	t.Change = metrics.Round(t.End-t.Start, 2)
	switch {
	case t.Change > 0:
		t.Direction = model.DirectionIncreasing
	case t.Change < 0:
		t.Direction = model.DirectionDecreasing
	default:
		t.Direction = model.DirectionStable
	}
	return t
}

// sortedByDate 丢弃日期无法解析的记录，按日期稳定排序并统一日期格式
func sortedByDate(records []model.HealthRecord) []model.HealthRecord {
	out := lo.FilterMap(records, func(r model.HealthRecord, _ int) (model.HealthRecord, bool) {
		t, ok := r.Time()
		if !ok {
			return model.HealthRecord{}, false
		}
		r = r.Clone()
		r.Date = model.FormatDate(t)
		return r, true
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

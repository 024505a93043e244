package report

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/songzhibin97/healthmetrics/pkg/analyzer"
	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// VolatilityAnalysis 波动分析，Volatility 为变异系数（%）
type VolatilityAnalysis struct {
	Volatility        float64 `json:"volatility"`
	StandardDeviation float64 `json:"standardDeviation"`
	Message           string  `json:"message"`
}

// StatisticalReport 统计报告
type StatisticalReport struct {
	Metric             string                  `json:"metric"`
	MetricLabel        string                  `json:"metricLabel"`
	TimeRange          TimeRange               `json:"timeRange"`
	TimeRangeLabel     string                  `json:"timeRangeLabel"`
	StatType           StatType                `json:"statType"`
	StatsData          []model.StatGroup       `json:"statsData"`
	WeeklyChanges      []analyzer.WeeklyChange `json:"weeklyChanges,omitempty"`
	TrendData          []model.TrendPoint      `json:"trendData"`
	TotalStats         model.StatGroup         `json:"totalStats"`
	TrendAnalysis      model.TrendAnalysis     `json:"trendAnalysis"`
	VolatilityAnalysis VolatilityAnalysis      `json:"volatilityAnalysis"`
}

// GenerateStatisticalReport 生成统计报告，参数先经过校验
func GenerateStatisticalReport(records []model.HealthRecord, opts StatOptions, profile *model.UserProfile) (StatisticalReport, error) {
	if err := opts.Validate(); err != nil {
		return StatisticalReport{}, err
	}

	filtered := FilterByTimeRange(records, opts.TimeRange, opts.CustomStart, opts.CustomEnd, opts.now())
	key := opts.Metric

	r := StatisticalReport{
		Metric:         key,
		MetricLabel:    model.MetricLabel(key),
		TimeRange:      opts.TimeRange,
		TimeRangeLabel: opts.RangeLabel(),
		StatType:       opts.StatType,
		TrendData:      analyzer.BuildSeries(filtered, key, profile),
		TotalStats:     analyzer.CalculateMetricStats(filtered, key, profile),
	}

	switch opts.StatType {
	case StatMonthly:
		r.StatsData = analyzer.CalculateMonthlyStats(filtered, key, profile)
	case StatQuarterly:
		r.StatsData = analyzer.CalculateQuarterlyStats(filtered, key, profile)
	case StatYearly:
		r.StatsData = analyzer.CalculateYearlyStats(filtered, key, profile)
	case StatWeekly:
		r.StatsData = analyzer.CalculateWeeklyStats(filtered, key, profile)
		r.WeeklyChanges = analyzer.CalculateWeeklyAverageChange(filtered, key, profile)
	}

	r.TrendAnalysis = AnalyzeTrendDirection(r.TrendData)
	r.VolatilityAnalysis = AnalyzeVolatility(analyzer.MetricValues(filtered, key, profile))
	return r, nil
}

// AnalyzeTrendDirection 比较首尾两点的变化率判断趋势
// 变化率绝对值小于 1% 视为稳定
func AnalyzeTrendDirection(points []model.TrendPoint) model.TrendAnalysis {
	if len(points) < 2 {
		return model.TrendAnalysis{
			Direction: model.DirectionInsufficientData,
			Message:   "数据不足，无法分析趋势",
		}
	}

	first := points[0].Value
	last := points[len(points)-1].Value
	change := last - first
	percent := 0.0
	if first != 0 {
		percent = change / first * 100
	}

	analysis := model.TrendAnalysis{
		Change:        model.Float(metrics.Round(change, 2)),
		PercentChange: model.Float(metrics.Round(percent, 2)),
	}

	abs := math.Abs(percent)
	switch {
	case abs < 1:
		analysis.Direction = model.DirectionStable
		analysis.Message = "指标基本稳定"
	case percent < 0:
		analysis.Direction = model.DirectionDecreasing
		analysis.Strength = math.Min(abs/10, 10)
		analysis.Message = fmt.Sprintf("指标呈下降趋势，变化率: %.1f%%", percent)
	default:
		analysis.Direction = model.DirectionIncreasing
		analysis.Strength = math.Min(abs/10, 10)
		analysis.Message = fmt.Sprintf("指标呈上升趋势，变化率: %.1f%%", percent)
	}
	return analysis
}

// AnalyzeVolatility 变异系数 = 总体标准差 / 平均值 × 100
func AnalyzeVolatility(values []float64) VolatilityAnalysis {
	if len(values) < 2 {
		return VolatilityAnalysis{Message: "数据不足，无法分析波动"}
	}

	data := stats.Float64Data(values)
	mean, _ := data.Mean()
	std, _ := data.StandardDeviationPopulation()

	cv := 0.0
	if mean != 0 {
		cv = std / mean * 100
	}

	v := VolatilityAnalysis{
		Volatility:        metrics.Round(cv, 2),
		StandardDeviation: metrics.Round(std, 2),
	}
	switch {
	case cv < 1:
		v.Message = "数据波动很小，指标稳定"
	case cv < 5:
		v.Message = "数据有轻微波动"
	case cv < 10:
		v.Message = "数据波动中等"
	default:
		v.Message = "数据波动较大"
	}
	return v
}

package analyzer

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/enrich"
	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// WeeklyChange 相邻两周平均值的变化
type WeeklyChange struct {
	Period       string  `json:"period"`
	PrevValue    float64 `json:"prevValue"`
	CurrentValue float64 `json:"currentValue"`
	Change       float64 `json:"change"`
	ChangeRate   float64 `json:"changeRate"` // %
}

// MetricValues 提取记录中的有效指标值，缺失、0 和非法值被丢弃
func MetricValues(records []model.HealthRecord, key string, profile *model.UserProfile) []float64 {
	return lo.FilterMap(records, func(r model.HealthRecord, _ int) (float64, bool) {
		v, ok := enrich.MetricValue(r, key, profile)
		if !ok || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	})
}

// CalculateMetricStats 计算指标的描述统计，结果保留两位小数
// 没有有效值时返回全 0
func CalculateMetricStats(records []model.HealthRecord, key string, profile *model.UserProfile) model.StatGroup {
	values := MetricValues(records, key, profile)
	if len(values) == 0 {
		return model.StatGroup{}
	}

	data := stats.Float64Data(values)
	sum, _ := data.Sum()
	mean, _ := data.Mean()
	median, _ := data.Median()
	stdDev, _ := data.StandardDeviationPopulation()
	minV, _ := data.Min()
	maxV, _ := data.Max()

	return model.StatGroup{
		Count:             len(values),
		Average:           metrics.Round(mean, 2),
		Max:               metrics.Round(maxV, 2),
		Min:               metrics.Round(minV, 2),
		Median:            metrics.Round(median, 2),
		Sum:               metrics.Round(sum, 2),
		StandardDeviation: metrics.Round(stdDev, 2),
		Range:             metrics.Round(maxV-minV, 2),
	}
}

// CalculatePeriodStats 按周期分组后逐组统计，结果按周期排序
func CalculatePeriodStats(records []model.HealthRecord, key string, profile *model.UserProfile, period PeriodFunc) []model.StatGroup {
	return lo.Map(GroupRecords(records, period), func(g RecordGroup, _ int) model.StatGroup {
		s := CalculateMetricStats(g.Records, key, profile)
		s.Period = g.Period
		return s
	})
}

// CalculateMonthlyStats 月度统计
func CalculateMonthlyStats(records []model.HealthRecord, key string, profile *model.UserProfile) []model.StatGroup {
	return CalculatePeriodStats(records, key, profile, MonthKey)
}

// CalculateQuarterlyStats 季度统计
func CalculateQuarterlyStats(records []model.HealthRecord, key string, profile *model.UserProfile) []model.StatGroup {
	return CalculatePeriodStats(records, key, profile, QuarterKey)
}

// CalculateYearlyStats 年度统计
func CalculateYearlyStats(records []model.HealthRecord, key string, profile *model.UserProfile) []model.StatGroup {
	return CalculatePeriodStats(records, key, profile, YearKey)
}

// CalculateWeeklyStats 周统计
func CalculateWeeklyStats(records []model.HealthRecord, key string, profile *model.UserProfile) []model.StatGroup {
	return CalculatePeriodStats(records, key, profile, WeekKey)
}

// CalculateWeeklyAverageChange 计算相邻两周平均值的变化
// n 个周产生 n-1 条结果，没有有效值的周平均值为 0，上周为 0 时变化率为 0
func CalculateWeeklyAverageChange(records []model.HealthRecord, key string, profile *model.UserProfile) []WeeklyChange {
	weeks := CalculateWeeklyStats(records, key, profile)

	changes := make([]WeeklyChange, 0, len(weeks))
	for i := 1; i < len(weeks); i++ {
		prev, cur := weeks[i-1].Average, weeks[i].Average
		change := cur - prev
		rate := 0.0
		if prev != 0 {
			rate = change / prev * 100
		}
		changes = append(changes, WeeklyChange{
			Period:       weeks[i].Period,
			PrevValue:    prev,
			CurrentValue: cur,
			Change:       metrics.Round(change, 2),
			ChangeRate:   metrics.Round(rate, 2),
		})
	}
	return changes
}

package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// LinearRegression 最小二乘线性回归
// x 为距第一个点的天数（而非序号），采样间隔不均匀时结果依然正确
func LinearRegression(points []model.TrendPoint) model.RegressionResult {
	n := float64(len(points))
	if n < 2 {
		return model.RegressionResult{}
	}

	xs, ok := elapsedDays(points)
	if !ok {
		return model.RegressionResult{}
	}

	// 检查是否有无效值
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return model.RegressionResult{}
		}
	}

	// 计算均值
	var sumX, sumY float64
	for i, p := range points {
		sumX += xs[i]
		sumY += p.Value
	}
	meanX := sumX / n
	meanY := sumY / n

	// 计算斜率
	var numerator, denominator float64
	for i, p := range points {
		dx := xs[i] - meanX
		numerator += dx * (p.Value - meanY)
		denominator += dx * dx
	}

	slope := 0.0
	if denominator != 0 {
		slope = numerator / denominator
	}
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return model.RegressionResult{}
	}
	intercept := meanY - slope*meanX

	// R² = 1 - SS_res / SS_tot
	var ssRes, ssTot float64
	for i, p := range points {
		predicted := slope*xs[i] + intercept
		ssRes += (p.Value - predicted) * (p.Value - predicted)
		ssTot += (p.Value - meanY) * (p.Value - meanY)
	}

	r2 := 0.0
	if ssTot != 0 {
		r2 = 1 - ssRes/ssTot
	}
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	r2 = math.Max(0, math.Min(1, r2))

	return model.RegressionResult{Slope: slope, Intercept: intercept, RSquared: r2}
}

// elapsedDays 每个点距第一个点的天数
func elapsedDays(points []model.TrendPoint) ([]float64, bool) {
	first, err := model.ParseDate(points[0].Date)
	if err != nil {
		return nil, false
	}
	xs := make([]float64, len(points))
	for i, p := range points {
		t, err := model.ParseDate(p.Date)
		if err != nil {
			return nil, false
		}
		xs[i] = model.DaysBetween(first, t)
	}
	return xs, true
}

// MovingAverage 尾随窗口移动平均
// 前 windowSize-1 个点保持原值，之后取包含当前点在内的最近 windowSize 个点的均值
func MovingAverage(points []model.TrendPoint, windowSize int) []model.TrendPoint {
	out := make([]model.TrendPoint, len(points))
	copy(out, points)
	if windowSize <= 1 || len(points) < windowSize {
		return out
	}

	for i := windowSize - 1; i < len(points); i++ {
		var sum float64
		for j := i - windowSize + 1; j <= i; j++ {
			sum += points[j].Value
		}
		out[i].Value = sum / float64(windowSize)
	}
	return out
}

// GeneratePredictionPoints 根据回归结果生成未来 horizonDays 天的预测点
// 预测值保留两位小数
func GeneratePredictionPoints(historical []model.TrendPoint, horizonDays int, reg model.RegressionResult) []model.TrendPoint {
	if len(historical) == 0 || horizonDays <= 0 {
		return nil
	}

	xs, ok := elapsedDays(historical)
	if !ok {
		return nil
	}
	lastX := xs[len(xs)-1]
	lastDate, _ := model.ParseDate(historical[len(historical)-1].Date)

	predictions := make([]model.TrendPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		x := lastX + float64(i)
		predictions = append(predictions, model.TrendPoint{
			Date:        model.FormatDate(lastDate.AddDate(0, 0, i)),
			Value:       metrics.Round(reg.Slope*x+reg.Intercept, 2),
			IsPredicted: true,
		})
	}
	return predictions
}

// BuildSeries 构建按日期升序的指标序列
// 缺失的衍生指标按用户资料即时计算，0、非法值和无法解析日期的记录被丢弃
func BuildSeries(records []model.HealthRecord, key string, profile *model.UserProfile) []model.TrendPoint {
	type dated struct {
		t     time.Time
		point model.TrendPoint
	}

	items := lo.FilterMap(records, func(r model.HealthRecord, _ int) (dated, bool) {
		t, ok := r.Time()
		if !ok {
			return dated{}, false
		}
		values := MetricValues([]model.HealthRecord{r}, key, profile)
		if len(values) == 0 {
			return dated{}, false
		}
		return dated{t: t, point: model.TrendPoint{Date: model.FormatDate(t), Value: values[0]}}, true
	})

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].t.Before(items[j].t)
	})

	return lo.Map(items, func(d dated, _ int) model.TrendPoint { return d.point })
}

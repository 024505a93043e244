package analyzer

import (
	"fmt"
	"math"

	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

const (
	MinHorizonDays     = 7
	MaxHorizonDays     = 90
	DefaultHorizonDays = 30

	// recentPoints 回归只使用最近的点，更好地反映近期变化
	recentPoints    = 10
	smoothingWindow = 3
	stableSlope     = 0.001
)

// PredictionResult 趋势预测结果
type PredictionResult struct {
	Metric           string                 `json:"metric"`
	HorizonDays      int                    `json:"horizonDays"`
	HistoricalData   []model.TrendPoint     `json:"historicalData"`
	PredictedData    []model.TrendPoint     `json:"predictedData"`
	RegressionResult model.RegressionResult `json:"regressionResult"`
	TrendAnalysis    model.TrendAnalysis    `json:"trendAnalysis"`
}

// ClampHorizon 将预测天数限制在 [7, 90]
func ClampHorizon(days int) int {
	if days < MinHorizonDays {
		return MinHorizonDays
	}
	if days > MaxHorizonDays {
		return MaxHorizonDays
	}
	return days
}

// PredictHealthTrend 预测指标在未来 horizonDays 天的走势
// 取最近 10 个点做 3 点移动平均后回归；有效点少于 2 个时返回 insufficient_data
func PredictHealthTrend(records []model.HealthRecord, key string, horizonDays int, profile *model.UserProfile) PredictionResult {
	horizonDays = ClampHorizon(horizonDays)
	series := BuildSeries(records, key, profile)

	result := PredictionResult{
		Metric:         key,
		HorizonDays:    horizonDays,
		HistoricalData: series,
		PredictedData:  []model.TrendPoint{},
	}

	if len(series) < 2 {
		result.TrendAnalysis = model.TrendAnalysis{
			Direction: model.DirectionInsufficientData,
			Message:   "数据不足，无法预测趋势",
		}
		return result
	}

	recent := series[max(0, len(series)-recentPoints):]
	smoothed := MovingAverage(recent, smoothingWindow)

	result.RegressionResult = LinearRegression(smoothed)
	result.PredictedData = GeneratePredictionPoints(smoothed, horizonDays, result.RegressionResult)
	result.TrendAnalysis = AnalyzePredictionTrend(result.RegressionResult, series, result.PredictedData)
	return result
}

// AnalyzePredictionTrend 根据回归结果判断趋势方向和强度
// 强度 = min(|斜率|×100, 10) × R²；有预测点时附加预测期内的变化百分比
func AnalyzePredictionTrend(reg model.RegressionResult, historical, predicted []model.TrendPoint) model.TrendAnalysis {
	if len(historical) == 0 {
		return model.TrendAnalysis{
			Direction: model.DirectionInsufficientData,
			Message:   "数据不足，无法分析趋势",
		}
	}

	analysis := model.TrendAnalysis{
		Strength: metrics.Round(math.Min(math.Abs(reg.Slope)*100, 10)*reg.RSquared, 2),
		RSquared: model.Float(metrics.Round(reg.RSquared, 3)),
	}

	switch {
	case math.Abs(reg.Slope) < stableSlope:
		analysis.Direction = model.DirectionStable
		analysis.Message = "指标预计保持稳定"
	case reg.Slope < 0:
		analysis.Direction = model.DirectionDecreasing
		analysis.Message = "指标预计呈下降趋势"
	default:
		analysis.Direction = model.DirectionIncreasing
		analysis.Message = "指标预计呈上升趋势"
	}

	if len(predicted) > 0 {
		lastHistorical := historical[len(historical)-1].Value
		lastPredicted := predicted[len(predicted)-1].Value
		percent := 0.0
		if lastHistorical != 0 {
			percent = (lastPredicted - lastHistorical) / lastHistorical * 100
		}
		sign := ""
		if percent > 0 {
			sign = "+"
		}
		analysis.Message += fmt.Sprintf("，预计%d天内变化%s%.1f%%", len(predicted), sign, percent)
		analysis.PredictedValue = model.Float(metrics.Round(lastPredicted, 2))
	}

	return analysis
}

package model

// TrendPoint 时间序列上的一个点
type TrendPoint struct {
	Date        string  `json:"date"`
	Value       float64 `json:"value"`
	IsPredicted bool    `json:"isPredicted,omitempty"`
}

// RegressionResult 线性回归结果
type RegressionResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"rSquared"`
}

// StatGroup 一个统计周期的描述统计
type StatGroup struct {
	Period            string  `json:"period,omitempty"`
	Count             int     `json:"count"`
	Average           float64 `json:"average"`
	Max               float64 `json:"max"`
	Min               float64 `json:"min"`
	Median            float64 `json:"median"`
	Sum               float64 `json:"sum"`
	StandardDeviation float64 `json:"standardDeviation"`
	Range             float64 `json:"range"`
}

// Direction 趋势方向
type Direction string

const (
	DirectionIncreasing       Direction = "increasing"
	DirectionDecreasing       Direction = "decreasing"
	DirectionStable           Direction = "stable"
	DirectionInsufficientData Direction = "insufficient_data"
)

// TrendAnalysis 趋势分析结果
// 回归分析会填充 RSquared 和 PredictedValue，首尾分析会填充 Change 和 PercentChange
type TrendAnalysis struct {
	Direction      Direction `json:"direction"`
	Strength       float64   `json:"strength"`
	Message        string    `json:"message"`
	RSquared       *float64  `json:"rSquared,omitempty"`
	PredictedValue *float64  `json:"predictedValue,omitempty"`
	Change         *float64  `json:"change,omitempty"`
	PercentChange  *float64  `json:"percentChange,omitempty"`
}

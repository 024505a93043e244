package report

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/enrich"
	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/risk"
)

// ComparisonRow 单个指标的比对结果，值缺失时为 nil
type ComparisonRow struct {
	Key          string   `json:"key"`
	Label        string   `json:"label"`
	Unit         string   `json:"unit"`
	Earlier      *float64 `json:"earlier"`
	Later        *float64 `json:"later"`
	EarlierLevel string   `json:"earlierLevel,omitempty"`
	LaterLevel   string   `json:"laterLevel,omitempty"`
	EarlierColor string   `json:"earlierColor,omitempty"`
	LaterColor   string   `json:"laterColor,omitempty"`
	Change       *float64 `json:"change"`
	ChangeRate   *float64 `json:"changeRate"`
}

// Comparison 两次记录的比对
type Comparison struct {
	EarlierDate string             `json:"earlierDate"`
	LaterDate   string             `json:"laterDate"`
	Earlier     model.HealthRecord `json:"earlier"`
	Later       model.HealthRecord `json:"later"`
	Rows        []ComparisonRow    `json:"rows"`
}

// CompareRecords 比对两个日期的记录，结果按时间先后排列
// 两条记录都会先补全衍生指标；变化量 = 较晚 - 较早
func CompareRecords(records []model.HealthRecord, date1, date2 string, profile model.UserProfile) (Comparison, error) {
	if date1 == "" || date2 == "" {
		return Comparison{}, fmt.Errorf("%w: two dates are required", ErrInvalidRange)
	}
	t1, err := model.ParseDate(date1)
	if err != nil {
		return Comparison{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	t2, err := model.ParseDate(date2)
	if err != nil {
		return Comparison{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	if t1.Equal(t2) {
		return Comparison{}, fmt.Errorf("%w: dates must differ", ErrInvalidRange)
	}
	if t2.Before(t1) {
		t1, t2 = t2, t1
	}

	dated := sortedByDate(records)
	find := func(date string) (model.HealthRecord, error) {
		// 同一日期有多条时取最后一条
		r, _, ok := lo.FindLastIndexOf(dated, func(r model.HealthRecord) bool { return r.Date == date })
		if !ok {
			return model.HealthRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, date)
		}
		return enrich.CalculateMissingMetrics(r, profile), nil
	}

	c := Comparison{EarlierDate: model.FormatDate(t1), LaterDate: model.FormatDate(t2)}
	if c.Earlier, err = find(c.EarlierDate); err != nil {
		return Comparison{}, err
	}
	if c.Later, err = find(c.LaterDate); err != nil {
		return Comparison{}, err
	}

	earlierRisk := risk.Assess(c.Earlier, profile)
	laterRisk := risk.Assess(c.Later, profile)
	c.Rows = lo.Map(model.Metrics, func(info model.MetricInfo, _ int) ComparisonRow {
		row := ComparisonRow{
			Key:     info.Key,
			Label:   info.Label,
			Unit:    info.Unit,
			Earlier: valueOf(c.Earlier, info.Key),
			Later:   valueOf(c.Later, info.Key),
		}
		if e, ok := earlierRisk.EntryFor(info.Key); ok {
			row.EarlierLevel, row.EarlierColor = e.Level, e.Color
		}
		if e, ok := laterRisk.EntryFor(info.Key); ok {
			row.LaterLevel, row.LaterColor = e.Level, e.Color
		}
		if row.Earlier != nil && row.Later != nil {
			diff := *row.Later - *row.Earlier
			row.Change = model.Float(metrics.Round(diff, 1))
			if *row.Earlier != 0 {
				row.ChangeRate = model.Float(metrics.Round(diff / *row.Earlier * 100, 2))
			}
		}
		return row
	})
	return c, nil
}

func valueOf(r model.HealthRecord, key string) *float64 {
	v, ok := r.Value(key)
	if !ok {
		return nil
	}
	return model.Float(v)
}

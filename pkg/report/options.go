package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/analyzer"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

var (
	ErrInvalidRange     = errors.New("invalid custom date range")
	ErrInvalidHorizon   = errors.New("invalid prediction horizon")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidStatType  = errors.New("invalid stat type")
	ErrInvalidMetric    = errors.New("invalid metric")
	ErrRecordNotFound   = errors.New("record not found")
	ErrNoRecords        = errors.New("no health records")
)

// TimeRange 统计时间范围
type TimeRange string

const (
	RangeAll     TimeRange = "all"
	Range1Month  TimeRange = "1month"
	Range3Months TimeRange = "3months"
	Range6Months TimeRange = "6months"
	Range1Year   TimeRange = "1year"
	RangeCustom  TimeRange = "custom"
)

// rangeMonths 非自定义范围向前回溯的月数，0 表示不限
var rangeMonths = map[TimeRange]int{
	RangeAll:     0,
	Range1Month:  1,
	Range3Months: 3,
	Range6Months: 6,
	Range1Year:   12,
}

// Valid 是否为已知范围
func (r TimeRange) Valid() bool {
	_, ok := rangeMonths[r]
	return ok || r == RangeCustom
}

// Label 范围的中文描述
func (r TimeRange) Label() string {
	switch r {
	case RangeAll:
		return "全部时间"
	case Range1Month:
		return "近1个月"
	case Range3Months:
		return "近3个月"
	case Range6Months:
		return "近6个月"
	case Range1Year:
		return "近1年"
	case RangeCustom:
		return "自定义"
	default:
		return string(r)
	}
}

// StatType 统计周期
type StatType string

const (
	StatMonthly   StatType = "monthly"
	StatQuarterly StatType = "quarterly"
	StatYearly    StatType = "yearly"
	StatWeekly    StatType = "weekly"
)

var statTypes = []StatType{StatMonthly, StatQuarterly, StatYearly, StatWeekly}

// Valid 是否为已知统计周期
func (s StatType) Valid() bool {
	return lo.Contains(statTypes, s)
}

// Label 统计周期的中文描述
func (s StatType) Label() string {
	switch s {
	case StatMonthly:
		return "月度统计"
	case StatQuarterly:
		return "季度统计"
	case StatYearly:
		return "年度统计"
	case StatWeekly:
		return "周统计"
	default:
		return string(s)
	}
}

// StatOptions 统计报告参数
// Now 为零值时使用当前时间
type StatOptions struct {
	Metric      string
	TimeRange   TimeRange
	StatType    StatType
	CustomStart string
	CustomEnd   string
	Now         time.Time
}

// Validate 校验参数，自定义范围要求起止日期齐全且开始不晚于结束
func (o StatOptions) Validate() error {
	if _, ok := model.LookupMetric(o.Metric); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMetric, o.Metric)
	}
	if !o.TimeRange.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTimeRange, o.TimeRange)
	}
	if !o.StatType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatType, o.StatType)
	}
	if o.TimeRange == RangeCustom {
		if _, _, err := customBounds(o.CustomStart, o.CustomEnd); err != nil {
			return err
		}
	}
	return nil
}

// RangeLabel 时间范围描述，自定义范围显示起止日期
func (o StatOptions) RangeLabel() string {
	if o.TimeRange == RangeCustom {
		return fmt.Sprintf("%s 至 %s", o.CustomStart, o.CustomEnd)
	}
	return o.TimeRange.Label()
}

func (o StatOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// ValidateHorizon 校验预测天数
func ValidateHorizon(days int) error {
	if days < analyzer.MinHorizonDays || days > analyzer.MaxHorizonDays {
		return fmt.Errorf("%w: %d (expected %d-%d days)", ErrInvalidHorizon, days, analyzer.MinHorizonDays, analyzer.MaxHorizonDays)
	}
	return nil
}

func customBounds(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidRange)
	}
	from, err := model.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	to, err := model.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return from, to, nil
}

// FilterByTimeRange 按时间范围过滤记录，边界包含在内
// 非自定义范围从 now 当天向前回溯 N 个月；自定义范围的结束日期包含当天
// 日期无法解析的记录被丢弃，未知范围或非法的自定义边界返回空结果
func FilterByTimeRange(records []model.HealthRecord, r TimeRange, customStart, customEnd string, now time.Time) []model.HealthRecord {
	var from, to time.Time
	switch {
	case r == RangeCustom:
		start, end, err := customBounds(customStart, customEnd)
		if err != nil {
			return []model.HealthRecord{}
		}
		from, to = start, end.AddDate(0, 0, 1)
	case r.Valid():
		if months := rangeMonths[r]; months > 0 {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			from = today.AddDate(0, -months, 0)
		}
	default:
		return []model.HealthRecord{}
	}

	return lo.Filter(records, func(rec model.HealthRecord, _ int) bool {
		t, ok := rec.Time()
		if !ok {
			return false
		}
		if !from.IsZero() && t.Before(from) {
			return false
		}
		return to.IsZero() || t.Before(to)
	})
}

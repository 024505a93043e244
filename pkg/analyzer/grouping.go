package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// RecordGroup 一个统计周期内的记录
type RecordGroup struct {
	Period  string
	Records []model.HealthRecord
}

// PeriodFunc 根据日期计算周期键
// 周期键按字典序排序即为时间顺序
type PeriodFunc func(t time.Time) string

// MonthKey 月份键，如 2026-03
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// QuarterKey 季度键，如 2026-Q1
func QuarterKey(t time.Time) string {
	return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}

// YearKey 年份键，如 2026
func YearKey(t time.Time) string {
	return fmt.Sprintf("%04d", t.Year())
}

// WeekKey 周键，如 2026-W03
// 周从周日开始，第 1 周包含 1 月 1 日：ceil((已过天数 + 1 月 1 日星期 + 1) / 7)
func WeekKey(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	n := t.YearDay() - 1 + int(jan1.Weekday()) + 1
	return fmt.Sprintf("%04d-W%02d", t.Year(), (n+6)/7)
}

// GroupRecords 按周期键分组，结果按周期排序，组内保持输入顺序
// 日期无法解析的记录不参与分组
func GroupRecords(records []model.HealthRecord, period PeriodFunc) []RecordGroup {
	valid := lo.Filter(records, func(r model.HealthRecord, _ int) bool {
		_, ok := r.Time()
		return ok
	})

	grouped := lo.GroupBy(valid, func(r model.HealthRecord) string {
		t, _ := r.Time()
		return period(t)
	})

	keys := lo.Keys(grouped)
	sort.Strings(keys)

	return lo.Map(keys, func(k string, _ int) RecordGroup {
		return RecordGroup{Period: k, Records: grouped[k]}
	})
}

// GroupByMonth 按月分组
func GroupByMonth(records []model.HealthRecord) []RecordGroup {
	return GroupRecords(records, MonthKey)
}

// GroupByQuarter 按季度分组
func GroupByQuarter(records []model.HealthRecord) []RecordGroup {
	return GroupRecords(records, QuarterKey)
}

// GroupByYear 按年分组
func GroupByYear(records []model.HealthRecord) []RecordGroup {
	return GroupRecords(records, YearKey)
}

// GroupByWeek 按周分组
func GroupByWeek(records []model.HealthRecord) []RecordGroup {
	return GroupRecords(records, WeekKey)
}

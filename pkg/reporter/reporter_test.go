package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/songzhibin97/healthmetrics/pkg/analyzer"
	"github.com/songzhibin97/healthmetrics/pkg/goal"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/report"
	"github.com/songzhibin97/healthmetrics/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	profile = model.UserProfile{Name: "张三", Height: 175, Age: 30, Gender: model.GenderMale, ActivityLevel: 1.55}
)

func records() []model.HealthRecord {
	return []model.HealthRecord{
		{Date: "2026-01-01", Weight: 140, FatRate: model.Float(24), VisceralFat: model.Float(10), Waist: model.Float(90), Hip: model.Float(95)},
		{Date: "2026-02-01", Weight: 136, FatRate: model.Float(23)},
		{Date: "2026-03-01", Weight: 132, FatRate: model.Float(22), VisceralFat: model.Float(9), Waist: model.Float(86), Hip: model.Float(95)},
	}
}

func healthReport(t *testing.T) report.HealthReport {
	t.Helper()
	goals := []goal.Goal{{ID: "g1", MetricType: model.MetricWeight, InitialValue: 140, TargetValue: 130, TargetDate: "2026-06-01"}}
	r, err := report.GenerateHealthReport(records(), profile, goals,
		report.HealthOptions{ReportType: report.ReportComprehensive, TimeRange: report.RangeAll, Now: now}, rules.Default())
	require.NoError(t, err)
	return r
}

func statReport(t *testing.T) report.StatisticalReport {
	t.Helper()
	r, err := report.GenerateStatisticalReport(records(),
		report.StatOptions{Metric: model.MetricWeight, TimeRange: report.RangeAll, StatType: report.StatMonthly, Now: now}, nil)
	require.NoError(t, err)
	return r
}

func TestWriteStatisticalReport(t *testing.T) {
	var buf bytes.Buffer
	WriteStatisticalReport(&buf, statReport(t))
	out := buf.String()

	assert.Contains(t, out, "体重统计报告")
	assert.Contains(t, out, "时间范围: 全部时间")
	assert.Contains(t, out, "统计类型: 月度统计")
	assert.Contains(t, out, "记录数: 3")
	assert.Contains(t, out, "平均值: 136.00斤")
	assert.Contains(t, out, "2026-02")
	assert.Contains(t, out, "📉 指标呈下降趋势，变化率: -5.7%")
	assert.Contains(t, out, "数据有轻微波动")
}

func TestWriteStatisticalReport_Empty(t *testing.T) {
	r, err := report.GenerateStatisticalReport(records(),
		report.StatOptions{Metric: model.MetricHeartRate, TimeRange: report.RangeAll, StatType: report.StatYearly}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteStatisticalReport(&buf, r)
	assert.Contains(t, buf.String(), "没有该指标的数据")
	assert.NotContains(t, buf.String(), "总体统计")
}

func TestWritePrediction(t *testing.T) {
	p := analyzer.PredictHealthTrend(records(), model.MetricWeight, 14, nil)

	var buf bytes.Buffer
	WritePrediction(&buf, p, "指标预计呈下降趋势。体重呈下降趋势")
	out := buf.String()

	assert.Contains(t, out, "体重趋势预测")
	assert.Contains(t, out, "历史数据: 3 条")
	assert.Contains(t, out, "预测天数: 14 天")
	assert.Contains(t, out, "R²:")
	assert.Contains(t, out, p.PredictedData[6].Date)
	assert.Contains(t, out, p.PredictedData[13].Date)
	assert.NotContains(t, out, p.PredictedData[0].Date+" ")
	assert.Contains(t, out, "体重呈下降趋势")
}

func TestWritePrediction_Insufficient(t *testing.T) {
	p := analyzer.PredictHealthTrend(records()[:1], model.MetricWeight, 30, nil)

	var buf bytes.Buffer
	WritePrediction(&buf, p, "")
	assert.Contains(t, buf.String(), "数据不足，无法预测趋势")
	assert.NotContains(t, buf.String(), "线性回归")
}

func TestWriteHealthReport(t *testing.T) {
	var buf bytes.Buffer
	WriteHealthReport(&buf, healthReport(t))
	out := buf.String()

	assert.Contains(t, out, "综合健康报告")
	assert.Contains(t, out, "生成日期: 2026年3月10日")
	assert.Contains(t, out, "姓名: 张三")
	assert.Contains(t, out, "性别: 男")
	assert.Contains(t, out, "88 分 (良好)")
	assert.Contains(t, out, "数据概览 (2026年3月1日)")
	assert.Contains(t, out, "132斤  [正常]")
	assert.Contains(t, out, "2026年1月1日 至 2026年3月1日")
	assert.Contains(t, out, "140斤 → 132斤 (↓ 8.0斤)")
	assert.Contains(t, out, "中心性肥胖")
	assert.Contains(t, out, "规则: 体脂率偏高 (fat_rate_high)")
	assert.Contains(t, out, "• 保持充足的睡眠，建议每天睡眠7-8小时")
	assert.Contains(t, out, "体重目标 [进行中]")
	assert.Contains(t, out, "完成进度:")
	assert.Contains(t, out, "80.0%")
	assert.NotContains(t, out, "肌肉量", "没有数据的指标不输出")
}

func TestWriteComparison(t *testing.T) {
	c, err := report.CompareRecords(records(), "2026-03-01", "2026-01-01", profile)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteComparison(&buf, c)
	out := buf.String()

	assert.Contains(t, out, "2026-01-01  vs  2026-03-01")
	assert.Contains(t, out, "↓ 8.0斤")
	assert.Contains(t, out, "22.9(正常)")
	assert.Contains(t, out, "无变化", "臀围不变")
	assert.NotContains(t, out, "收缩压")
}

func TestWriteGoals(t *testing.T) {
	var buf bytes.Buffer
	WriteGoals(&buf, nil)
	assert.Contains(t, buf.String(), "暂无设置的目标")

	buf.Reset()
	g := goal.Goal{
		ID: "goal-2026-03-01-fatRate", MetricType: model.MetricFatRate, InitialValue: 24, TargetValue: 20,
		CurrentValue: model.Float(22), TargetDate: "2026-01-01", Progress: 50, Status: goal.StatusFailed,
	}
	WriteGoals(&buf, []goal.Goal{g})
	out := buf.String()
	assert.Contains(t, out, "体脂率目标 [已失败]")
	assert.Contains(t, out, "从 24% 到 20%")
	assert.Contains(t, out, "当前: 22%")
	assert.Contains(t, out, "目标日期: 2026年1月1日")
	assert.Contains(t, out, "[██████████░░░░░░░░░░] 50.0%")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "140斤", formatNumber(140, "斤"))
	assert.Equal(t, "22.85", formatNumber(22.849, ""))
	assert.Equal(t, "0.9", formatNumber(0.90, ""))

	assert.Equal(t, "↑ 1.5cm", formatChange(model.Float(1.5), "cm"))
	assert.Equal(t, "↓ 0.3", formatChange(model.Float(-0.26), ""))
	assert.Equal(t, "无变化", formatChange(model.Float(0), ""))
	assert.Equal(t, "-", formatChange(nil, ""))

	assert.Equal(t, "2026年12月5日", formatChineseDate("2026-12-05"))
	assert.Equal(t, "bad", formatChineseDate("bad"))

	assert.Equal(t, "-", formatOptional(nil, "斤", ""))
	assert.Equal(t, "25%", formatOptional(model.Float(25), "%", "N/A"))

	assert.Equal(t, "[░░░░]", progressBar(-10, 4))
	assert.Equal(t, "[████]", progressBar(150, 4))
}

func TestIcons(t *testing.T) {
	assert.Equal(t, "📈", getDirectionIcon(model.DirectionIncreasing))
	assert.Equal(t, "📉", getDirectionIcon(model.DirectionDecreasing))
	assert.Equal(t, "➡️", getDirectionIcon(model.DirectionStable))
	assert.Equal(t, "🔴", getSeverityIcon("high"))
	assert.Equal(t, "⚪", getSeverityIcon("unknown"))
	assert.Equal(t, "🟢", levelIcon("正常"))
	assert.Equal(t, "🟡", levelIcon("高血压前期"))
	assert.Equal(t, "🔴", levelIcon("中心性肥胖"))
	assert.Equal(t, "⚪", levelIcon("N/A"))
}

func TestWriteHealthHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHealthHTML(&buf, healthReport(t)))
	html := buf.String()

	// 自包含的 HTML
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<style>")
	assert.NotContains(t, html, "<script src=")

	assert.Contains(t, html, "<title>综合健康报告</title>")
	assert.Contains(t, html, "生成日期：2026年3月10日")
	assert.Contains(t, html, "姓名：张三")
	assert.Contains(t, html, "#3498db", "身体得分颜色")
	assert.Contains(t, html, "良好")
	assert.Contains(t, html, "中心性肥胖")
	assert.Contains(t, html, "体重变化趋势")
	assert.Contains(t, html, `<polyline class="chart-line" points="40.0,10.0 215.0,60.0 390.0,110.0"/>`)
	assert.Contains(t, html, "体重目标")
	assert.Contains(t, html, "width: 80.0%")
	assert.Contains(t, html, "healthmetrics")
}

func TestWriteHealthHTML_EscapesContent(t *testing.T) {
	r := healthReport(t)
	r.Profile.Name = "<script>alert(1)</script>"

	var buf bytes.Buffer
	require.NoError(t, WriteHealthHTML(&buf, r))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestWriteStatisticalHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStatisticalHTML(&buf, statReport(t)))
	html := buf.String()

	assert.Contains(t, html, "体重统计报告")
	assert.Contains(t, html, "全部时间 · 月度统计")
	assert.Contains(t, html, "<td>2026-03</td>")
	assert.Contains(t, html, "<polyline")
	assert.Contains(t, html, "变异系数")
}

func TestBuildChart(t *testing.T) {
	assert.Nil(t, buildChart("体重", "斤", []model.TrendPoint{{Date: "2026-01-01", Value: 1}}))

	flat := buildChart("体重", "斤", []model.TrendPoint{{Date: "2026-01-01", Value: 100}, {Date: "2026-01-02", Value: 100}})
	require.NotNil(t, flat)
	assert.Equal(t, "40.0,110.0 390.0,110.0", flat.Polyline, "数值相同时不除零")
	assert.Equal(t, "100斤", flat.Max)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, statReport(t)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "weight", decoded["metric"])
	assert.Equal(t, "monthly", decoded["statType"])
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  "), "缩进输出")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("html")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

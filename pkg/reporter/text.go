package reporter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/songzhibin97/healthmetrics/pkg/analyzer"
	"github.com/songzhibin97/healthmetrics/pkg/goal"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/report"
	"github.com/songzhibin97/healthmetrics/pkg/risk"
	"github.com/songzhibin97/healthmetrics/pkg/rules"
)

const (
	heavyRule = "═══════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────"
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, "\n"+heavyRule)
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", max(0, (59-displayWidth(title))/2)), title)
	fmt.Fprintln(w, heavyRule)
}

func printSection(w io.Writer, icon, title string) {
	fmt.Fprintf(w, "\n%s %s\n", icon, title)
	fmt.Fprintln(w, lightRule)
}

// displayWidth 终端显示宽度，中文按两列计算
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if r > 0x7f {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// WriteStatisticalReport 输出统计报告
func WriteStatisticalReport(w io.Writer, r report.StatisticalReport) {
	printHeader(w, fmt.Sprintf("%s统计报告", r.MetricLabel))
	unit := metricUnit(r.Metric)

	fmt.Fprintf(w, "\n  时间范围: %s\n", r.TimeRangeLabel)
	fmt.Fprintf(w, "  统计类型: %s\n", r.StatType.Label())

	if r.TotalStats.Count == 0 {
		fmt.Fprintln(w, "\n📭 所选时间范围内没有该指标的数据")
		fmt.Fprintln(w, "\n"+heavyRule)
		return
	}

	printSection(w, "📊", "总体统计")
	printStatGroup(w, r.TotalStats, unit)

	printSection(w, "📅", r.StatType.Label())
	fmt.Fprintf(w, "  %-10s %5s %10s %10s %10s %10s\n", "周期", "次数", "平均", "最大", "最小", "标准差")
	for _, s := range r.StatsData {
		fmt.Fprintf(w, "  %-10s %5d %10.2f %10.2f %10.2f %10.2f\n",
			s.Period, s.Count, s.Average, s.Max, s.Min, s.StandardDeviation)
	}

	if len(r.WeeklyChanges) > 0 {
		printSection(w, "🔄", "周平均变化")
		for _, c := range r.WeeklyChanges {
			fmt.Fprintf(w, "  %s: %.2f → %.2f (%s, %+.2f%%)\n",
				c.Period, c.PrevValue, c.CurrentValue, formatChange(model.Float(c.Change), unit), c.ChangeRate)
		}
	}

	printSection(w, "📈", "趋势与波动")
	fmt.Fprintf(w, "  %s %s\n", getDirectionIcon(r.TrendAnalysis.Direction), r.TrendAnalysis.Message)
	if r.TrendAnalysis.Strength > 0 {
		fmt.Fprintf(w, "     趋势强度: %.2f\n", r.TrendAnalysis.Strength)
	}
	fmt.Fprintf(w, "  〰️  %s (变异系数 %.2f%%, 标准差 %.2f)\n",
		r.VolatilityAnalysis.Message, r.VolatilityAnalysis.Volatility, r.VolatilityAnalysis.StandardDeviation)

	fmt.Fprintln(w, "\n"+heavyRule)
}

func printStatGroup(w io.Writer, s model.StatGroup, unit string) {
	fmt.Fprintf(w, "  ├─ 记录数: %d\n", s.Count)
	fmt.Fprintf(w, "  ├─ 平均值: %.2f%s\n", s.Average, unit)
	fmt.Fprintf(w, "  ├─ 中位数: %.2f%s\n", s.Median, unit)
	fmt.Fprintf(w, "  ├─ 最大值: %.2f%s\n", s.Max, unit)
	fmt.Fprintf(w, "  ├─ 最小值: %.2f%s\n", s.Min, unit)
	fmt.Fprintf(w, "  ├─ 极差: %.2f%s\n", s.Range, unit)
	fmt.Fprintf(w, "  └─ 标准差: %.2f\n", s.StandardDeviation)
}

// WritePrediction 输出趋势预测
func WritePrediction(w io.Writer, p analyzer.PredictionResult, advice string) {
	label := model.MetricLabel(p.Metric)
	unit := metricUnit(p.Metric)
	printHeader(w, fmt.Sprintf("%s趋势预测", label))

	fmt.Fprintf(w, "\n  历史数据: %d 条\n", len(p.HistoricalData))
	fmt.Fprintf(w, "  预测天数: %d 天\n", p.HorizonDays)

	a := p.TrendAnalysis
	if a.Direction == model.DirectionInsufficientData {
		fmt.Fprintf(w, "\n⚠️  %s\n", a.Message)
		fmt.Fprintln(w, "\n"+heavyRule)
		return
	}

	printSection(w, "📐", "线性回归")
	fmt.Fprintf(w, "  ├─ 斜率: %.4f%s/天\n", p.RegressionResult.Slope, unit)
	fmt.Fprintf(w, "  ├─ 截距: %.2f\n", p.RegressionResult.Intercept)
	fmt.Fprintf(w, "  └─ R²: %.3f\n", p.RegressionResult.RSquared)

	printSection(w, getDirectionIcon(a.Direction), "趋势分析")
	fmt.Fprintf(w, "  %s\n", a.Message)
	fmt.Fprintf(w, "  趋势强度: %.2f\n", a.Strength)
	if a.PredictedValue != nil {
		fmt.Fprintf(w, "  预测终值: %.2f%s\n", *a.PredictedValue, unit)
	}

	// 每周取一个点，最后一天总是输出
	if n := len(p.PredictedData); n > 0 {
		fmt.Fprintln(w, "\n  预测值:")
		for i, pt := range p.PredictedData {
			if (i+1)%7 == 0 || i == n-1 {
				fmt.Fprintf(w, "     %s  %.2f%s\n", pt.Date, pt.Value, unit)
			}
		}
	}

	if advice != "" {
		printSection(w, "💡", "建议")
		fmt.Fprintf(w, "  %s\n", advice)
	}
	fmt.Fprintln(w, "\n"+heavyRule)
}

// WriteHealthReport 输出健康报告
func WriteHealthReport(w io.Writer, r report.HealthReport) {
	printHeader(w, r.Title)

	fmt.Fprintf(w, "\n  生成日期: %s\n", formatChineseDate(model.FormatDate(r.GeneratedAt)))
	if r.Profile.Name != "" {
		fmt.Fprintf(w, "  姓名: %s\n", r.Profile.Name)
	}
	if age := r.Profile.AgeOn(r.GeneratedAt); age > 0 {
		fmt.Fprintf(w, "  年龄: %d岁\n", age)
	}
	if r.Profile.Gender.Valid() {
		fmt.Fprintf(w, "  性别: %s\n", r.Profile.Gender)
	}

	printSection(w, "🏅", "身体得分")
	fmt.Fprintf(w, "  %d 分 (%s)\n", r.BodyScore.Score, r.BodyScore.Level)

	printSection(w, "📋", fmt.Sprintf("数据概览 (%s)", formatChineseDate(r.Latest.Date)))
	levels := make(map[string]risk.Entry)
	for _, m := range model.Metrics {
		if e, ok := r.Assessment.EntryFor(m.Key); ok {
			levels[m.Key] = e
		}
	}
	for _, m := range model.Metrics {
		v, ok := r.Latest.Value(m.Key)
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %-8s %s", m.Label, formatNumber(v, m.Unit))
		if e, ok := levels[m.Key]; ok && e.Level != risk.NotAvailable {
			line += fmt.Sprintf("  [%s]", e.Level)
		}
		fmt.Fprintln(w, line)
	}

	printSection(w, "⚠️ ", "风险评估")
	for _, e := range r.RiskEntries {
		fmt.Fprintf(w, "  %s %-8s %s\n", levelIcon(e.Level), e.Label, e.Level)
	}

	printSection(w, "📈", "趋势分析")
	if r.StartDate != "" {
		fmt.Fprintf(w, "  %s 至 %s\n", formatChineseDate(r.StartDate), formatChineseDate(r.EndDate))
	}
	for _, t := range r.Trends {
		if t.Direction == model.DirectionInsufficientData {
			continue
		}
		fmt.Fprintf(w, "  %s %-8s %s → %s (%s)\n", getDirectionIcon(t.Direction), t.Label,
			formatNumber(t.Start, t.Unit), formatNumber(t.End, t.Unit), formatChange(model.Float(t.Change), t.Unit))
	}

	if len(r.Findings) > 0 {
		printSection(w, "🔍", "规则发现")
		for i, f := range r.Findings {
			printFinding(w, i+1, f)
		}
	}

	printSection(w, "💡", "健康建议")
	for _, a := range r.Advice {
		fmt.Fprintf(w, "  • %s\n", a)
	}

	if len(r.Goals) > 0 {
		printSection(w, "🎯", "健康目标")
		printGoals(w, r.Goals)
	}
	fmt.Fprintln(w, "\n"+heavyRule)
}

// printFinding 打印单个发现
func printFinding(w io.Writer, index int, f rules.Finding) {
	fmt.Fprintf(w, "\n%d. %s %s\n", index, getSeverityIcon(f.Severity), f.Title)
	fmt.Fprintf(w, "   规则: %s (%s)\n", f.RuleName, f.RuleID)
	fmt.Fprintf(w, "   等级: %s\n", f.Level)
	if len(f.Suggestions) > 0 {
		fmt.Fprintln(w, "   建议:")
		for _, s := range f.Suggestions {
			fmt.Fprintf(w, "     • %s\n", s)
		}
	}
}

// WriteComparison 输出两次记录的比对
func WriteComparison(w io.Writer, c report.Comparison) {
	printHeader(w, "数据比对")
	fmt.Fprintf(w, "\n  %s  vs  %s\n", c.EarlierDate, c.LaterDate)
	fmt.Fprintln(w, lightRule)

	for _, row := range c.Rows {
		if row.Earlier == nil && row.Later == nil {
			continue
		}
		fmt.Fprintf(w, "  %-8s %12s %12s   %s\n", row.Label,
			formatOptional(row.Earlier, row.Unit, row.EarlierLevel),
			formatOptional(row.Later, row.Unit, row.LaterLevel),
			formatChange(row.Change, row.Unit))
	}
	fmt.Fprintln(w, "\n"+heavyRule)
}

// WriteGoals 输出目标列表
func WriteGoals(w io.Writer, goals []goal.Goal) {
	printHeader(w, "健康目标")
	if len(goals) == 0 {
		fmt.Fprintln(w, "\n  暂无设置的目标")
		fmt.Fprintln(w, "\n"+heavyRule)
		return
	}
	printGoals(w, goals)
	fmt.Fprintln(w, "\n"+heavyRule)
}

func printGoals(w io.Writer, goals []goal.Goal) {
	for _, g := range goals {
		unit := metricUnit(g.MetricType)
		fmt.Fprintf(w, "\n  %s目标 [%s] (%s)\n", model.MetricLabel(g.MetricType), g.Status.Text(), g.ID)
		fmt.Fprintf(w, "     ├─ 从 %s 到 %s\n", formatNumber(g.InitialValue, unit), formatNumber(g.TargetValue, unit))
		if g.CurrentValue != nil {
			fmt.Fprintf(w, "     ├─ 当前: %s\n", formatNumber(*g.CurrentValue, unit))
		}
		fmt.Fprintf(w, "     ├─ 目标日期: %s\n", formatChineseDate(g.TargetDate))
		fmt.Fprintf(w, "     └─ 完成进度: %s %.1f%%\n", progressBar(g.Progress, 20), g.Progress)
	}
}

// getDirectionIcon 获取趋势方向图标
func getDirectionIcon(direction model.Direction) string {
	switch direction {
	case model.DirectionIncreasing:
		return "📈"
	case model.DirectionDecreasing:
		return "📉"
	case model.DirectionInsufficientData:
		return "❔"
	default:
		return "➡️"
	}
}

// getSeverityIcon 获取严重程度图标
func getSeverityIcon(severity string) string {
	switch severity {
	case "critical":
		return "🔥"
	case "high":
		return "🔴"
	case "medium":
		return "🟡"
	case "low":
		return "🟢"
	default:
		return "⚪"
	}
}

// levelIcon 按等级颜色选择图标
func levelIcon(level string) string {
	switch level {
	case risk.NotAvailable, "":
		return "⚪"
	case "正常", "标准", "优":
		return "🟢"
	case "超重", "偏胖", "偏高", "高血压前期":
		return "🟡"
	case "偏瘦", "消瘦", "不足":
		return "🔵"
	default:
		return "🔴"
	}
}

func metricUnit(key string) string {
	if m, ok := model.LookupMetric(key); ok {
		return m.Unit
	}
	return ""
}

// formatNumber 去掉多余的小数位
func formatNumber(v float64, unit string) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + unit
}

func formatOptional(v *float64, unit, level string) string {
	if v == nil {
		return "-"
	}
	s := formatNumber(*v, unit)
	if level != "" && level != risk.NotAvailable {
		s += "(" + level + ")"
	}
	return s
}

// formatChange 变化量：↑/↓ 加绝对值，0 为无变化
func formatChange(change *float64, unit string) string {
	switch {
	case change == nil:
		return "-"
	case *change > 0:
		return fmt.Sprintf("↑ %.1f%s", *change, unit)
	case *change < 0:
		return fmt.Sprintf("↓ %.1f%s", math.Abs(*change), unit)
	default:
		return "无变化"
	}
}

// formatChineseDate 2026-03-01 → 2026年3月1日
func formatChineseDate(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

func progressBar(progress float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(100, progress)) / 100 * float64(width)))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

package reporter

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/report"
	"github.com/songzhibin97/healthmetrics/pkg/risk"
)

// 图表画布，与模板中的 viewBox 保持一致
const (
	chartLeft   = 40.0
	chartRight  = 390.0
	chartTop    = 10.0
	chartBottom = 110.0
)

// HTMLChart 折线图数据
type HTMLChart struct {
	Title    string
	Unit     string
	Max      string
	Min      string
	Polyline string
	Points   []HTMLChartPoint
}

// HTMLChartPoint 图表数据点
type HTMLChartPoint struct {
	X     float64
	Y     float64
	Label string // 显示标签
	Date  string
}

// HTMLMetric 数据概览中的一项
type HTMLMetric struct {
	Label string
	Value string
	Level string
	Color string
}

// HTMLHealthData 健康报告模板数据
type HTMLHealthData struct {
	Report    report.HealthReport
	Generated string
	Period    string
	Metrics   []HTMLMetric
	Charts    []HTMLChart
}

// HTMLStatisticalData 统计报告模板数据
type HTMLStatisticalData struct {
	Report report.StatisticalReport
	Unit   string
	Chart  *HTMLChart
}

// buildChart 把序列归一化到画布坐标，少于两个点时返回 nil
func buildChart(title, unit string, points []model.TrendPoint) *HTMLChart {
	if len(points) < 2 {
		return nil
	}

	values := lo.Map(points, func(p model.TrendPoint, _ int) float64 { return p.Value })
	minVal, maxVal := lo.Min(values), lo.Max(values)
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1 // 避免除零
	}

	step := (chartRight - chartLeft) / float64(len(points)-1)
	chart := &HTMLChart{
		Title: title,
		Unit:  unit,
		Max:   formatNumber(maxVal, unit),
		Min:   formatNumber(minVal, unit),
	}
	coords := make([]string, 0, len(points))
	for i, p := range points {
		pt := HTMLChartPoint{
			X:     chartLeft + step*float64(i),
			Y:     chartBottom - (p.Value-minVal)/valueRange*(chartBottom-chartTop),
			Label: formatNumber(p.Value, unit),
			Date:  p.Date,
		}
		chart.Points = append(chart.Points, pt)
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", pt.X, pt.Y))
	}
	chart.Polyline = strings.Join(coords, " ")
	return chart
}

var templates = template.Must(template.New("reporter").Funcs(template.FuncMap{
	"num":           formatNumber,
	"chineseDate":   formatChineseDate,
	"change":        formatChange,
	"float":         model.Float,
	"label":         model.MetricLabel,
	"directionIcon": getDirectionIcon,
}).Parse(htmlTemplates))

// WriteHealthHTML 输出自包含的 HTML 健康报告
func WriteHealthHTML(w io.Writer, r report.HealthReport) error {
	data := HTMLHealthData{
		Report:    r,
		Generated: formatChineseDate(model.FormatDate(r.GeneratedAt)),
	}
	if r.StartDate != "" {
		data.Period = fmt.Sprintf("%s 至 %s", formatChineseDate(r.StartDate), formatChineseDate(r.EndDate))
	}

	for _, m := range model.Metrics {
		v, ok := r.Latest.Value(m.Key)
		if !ok {
			continue
		}
		item := HTMLMetric{Label: m.Label, Value: formatNumber(v, m.Unit)}
		if e, ok := r.Assessment.EntryFor(m.Key); ok && e.Level != risk.NotAvailable {
			item.Level, item.Color = e.Level, e.Color
		}
		data.Metrics = append(data.Metrics, item)
	}

	for _, t := range r.Trends {
		if chart := buildChart(t.Label, t.Unit, t.Data); chart != nil {
			data.Charts = append(data.Charts, *chart)
		}
	}

	if err := templates.ExecuteTemplate(w, "health", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// WriteStatisticalHTML 输出自包含的 HTML 统计报告
func WriteStatisticalHTML(w io.Writer, r report.StatisticalReport) error {
	unit := metricUnit(r.Metric)
	data := HTMLStatisticalData{
		Report: r,
		Unit:   unit,
		Chart:  buildChart(r.MetricLabel, unit, r.TrendData),
	}
	if err := templates.ExecuteTemplate(w, "statistical", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

const htmlTemplates = `
{{define "head"}}<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            padding: 20px;
        }
        .container { max-width: 1000px; margin: 0 auto; }
        .header, .section {
            background: white;
            border-radius: 16px;
            padding: 25px;
            margin-bottom: 20px;
            box-shadow: 0 10px 40px rgba(0,0,0,0.1);
        }
        .header { text-align: center; }
        .header h1 { color: #2c3e50; font-size: 2em; margin-bottom: 10px; }
        .header p { color: #7f8c8d; margin-top: 5px; }
        .section h2 {
            color: #2c3e50;
            font-size: 1.3em;
            margin-bottom: 15px;
            padding-bottom: 10px;
            border-bottom: 2px solid #f0f0f0;
        }
        .score { text-align: center; }
        .score .value { font-size: 48px; font-weight: bold; }
        .score .level { font-size: 20px; margin-top: 10px; }
        .metrics-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 15px;
        }
        .metric-card {
            background: #f8f9fa;
            border-radius: 8px;
            padding: 15px;
            text-align: center;
        }
        .metric-label { font-size: 0.9em; color: #3498db; margin-bottom: 8px; }
        .metric-value { font-size: 1.5em; font-weight: 600; color: #2c3e50; }
        .metric-level { font-size: 0.9em; margin-top: 5px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 8px 10px; text-align: left; border-bottom: 1px solid #f0f0f0; }
        th { color: #7f8c8d; font-weight: 600; }
        .advice li { margin: 8px 0 8px 20px; color: #2c3e50; }
        .trend-chart { margin-top: 15px; }
        .trend-chart h3 { font-size: 1em; color: #555; margin-bottom: 8px; }
        .chart-svg { width: 100%; height: 140px; background: #f8f9fa; border-radius: 8px; }
        .chart-line { fill: none; stroke: #667eea; stroke-width: 2; }
        .chart-point { fill: #764ba2; }
        .chart-grid-line { stroke: #e9ecef; stroke-width: 1; }
        .chart-axis-label { font-size: 8px; fill: #888; }
        .progress { height: 10px; background: #ecf0f1; border-radius: 5px; overflow: hidden; }
        .progress div { height: 100%; border-radius: 5px; }
        .goal { background: #f8f9fa; border-radius: 8px; padding: 15px; margin-bottom: 15px; }
        .footer { text-align: center; color: white; padding: 20px; font-size: 0.85em; }
    </style>
</head>
<body>
<div class="container">{{end}}

{{define "chart"}}
<div class="trend-chart">
    <h3>📊 {{.Title}}变化趋势</h3>
    <svg class="chart-svg" viewBox="0 0 400 120" preserveAspectRatio="xMidYMid meet">
        <line class="chart-grid-line" x1="40" y1="10" x2="390" y2="10"/>
        <line class="chart-grid-line" x1="40" y1="60" x2="390" y2="60"/>
        <line class="chart-grid-line" x1="40" y1="110" x2="390" y2="110"/>
        <text class="chart-axis-label" x="35" y="14" text-anchor="end">{{.Max}}</text>
        <text class="chart-axis-label" x="35" y="114" text-anchor="end">{{.Min}}</text>
        <polyline class="chart-line" points="{{.Polyline}}"/>
        {{range .Points}}<circle class="chart-point" cx="{{printf "%.1f" .X}}" cy="{{printf "%.1f" .Y}}" r="3"><title>{{.Date}}: {{.Label}}</title></circle>
        {{end}}
    </svg>
</div>
{{end}}

{{define "health"}}{{template "head" .Report.Title}}
    <div class="header">
        <h1>{{.Report.Title}}</h1>
        <p>生成日期：{{.Generated}}</p>
        {{with .Report.Profile.Name}}<p>姓名：{{.}}</p>{{end}}
        {{if .Report.Profile.Gender.Valid}}<p>性别：{{.Report.Profile.Gender}}</p>{{end}}
    </div>

    <div class="section score">
        <h2>身体得分</h2>
        <div class="value" style="color: {{.Report.BodyScore.Color}}">{{.Report.BodyScore.Score}}</div>
        <div class="level" style="color: {{.Report.BodyScore.Color}}">{{.Report.BodyScore.Level}}</div>
    </div>

    <div class="section">
        <h2>数据概览（{{chineseDate .Report.Latest.Date}}）</h2>
        <div class="metrics-grid">
        {{range .Metrics}}
            <div class="metric-card">
                <div class="metric-label">{{.Label}}</div>
                <div class="metric-value"{{with .Color}} style="color: {{.}}"{{end}}>{{.Value}}</div>
                {{with .Level}}<div class="metric-level">{{.}}</div>{{end}}
            </div>
        {{end}}
        </div>
    </div>

    <div class="section">
        <h2>风险评估</h2>
        <table>
            <tr><th>项目</th><th>等级</th></tr>
            {{range .Report.RiskEntries}}<tr><td>{{.Label}}</td><td{{with .Color}} style="color: {{.}}"{{end}}>{{.Level}}</td></tr>
            {{end}}
        </table>
    </div>

    <div class="section">
        <h2>趋势分析{{with .Period}}（{{.}}）{{end}}</h2>
        <table>
            <tr><th>指标</th><th>起始</th><th>最新</th><th>变化</th></tr>
            {{range .Report.Trends}}{{if ne .Direction "insufficient_data"}}<tr>
                <td>{{directionIcon .Direction}} {{.Label}}</td>
                <td>{{num .Start .Unit}}</td>
                <td>{{num .End .Unit}}</td>
                <td>{{change (float .Change) .Unit}}</td>
            </tr>{{end}}
            {{end}}
        </table>
        {{range .Charts}}{{template "chart" .}}{{end}}
    </div>

    <div class="section advice">
        <h2>健康建议</h2>
        <ul>{{range .Report.Advice}}<li>{{.}}</li>{{end}}</ul>
    </div>

    {{if .Report.Goals}}
    <div class="section">
        <h2>健康目标</h2>
        {{range .Report.Goals}}
        <div class="goal">
            <p><strong>{{label .MetricType}}目标</strong> 从 {{num .InitialValue ""}} 到 {{num .TargetValue ""}}，目标日期：{{chineseDate .TargetDate}}</p>
            <p style="color: {{.Status.Color}}">{{.Status.Text}} {{printf "%.1f" .Progress}}%</p>
            <div class="progress"><div style="width: {{printf "%.1f" .Progress}}%; background: {{.Status.Color}}"></div></div>
        </div>
        {{end}}
    </div>
    {{end}}
{{template "foot"}}{{end}}

{{define "statistical"}}{{template "head" .Report.MetricLabel}}
    <div class="header">
        <h1>{{.Report.MetricLabel}}统计报告</h1>
        <p>{{.Report.TimeRangeLabel}} · {{.Report.StatType.Label}}</p>
    </div>

    <div class="section">
        <h2>总体统计</h2>
        <div class="metrics-grid">
            <div class="metric-card"><div class="metric-label">记录数</div><div class="metric-value">{{.Report.TotalStats.Count}}</div></div>
            <div class="metric-card"><div class="metric-label">平均值</div><div class="metric-value">{{num .Report.TotalStats.Average .Unit}}</div></div>
            <div class="metric-card"><div class="metric-label">中位数</div><div class="metric-value">{{num .Report.TotalStats.Median .Unit}}</div></div>
            <div class="metric-card"><div class="metric-label">最大值</div><div class="metric-value">{{num .Report.TotalStats.Max .Unit}}</div></div>
            <div class="metric-card"><div class="metric-label">最小值</div><div class="metric-value">{{num .Report.TotalStats.Min .Unit}}</div></div>
            <div class="metric-card"><div class="metric-label">标准差</div><div class="metric-value">{{num .Report.TotalStats.StandardDeviation ""}}</div></div>
        </div>
    </div>

    <div class="section">
        <h2>{{.Report.StatType.Label}}</h2>
        <table>
            <tr><th>周期</th><th>次数</th><th>平均</th><th>最大</th><th>最小</th><th>标准差</th></tr>
            {{range .Report.StatsData}}<tr><td>{{.Period}}</td><td>{{.Count}}</td><td>{{num .Average ""}}</td><td>{{num .Max ""}}</td><td>{{num .Min ""}}</td><td>{{num .StandardDeviation ""}}</td></tr>
            {{end}}
        </table>
    </div>

    <div class="section">
        <h2>趋势与波动</h2>
        <p>{{directionIcon .Report.TrendAnalysis.Direction}} {{.Report.TrendAnalysis.Message}}</p>
        <p>{{.Report.VolatilityAnalysis.Message}}（变异系数 {{printf "%.2f" .Report.VolatilityAnalysis.Volatility}}%）</p>
        {{with .Chart}}{{template "chart" .}}{{end}}
    </div>
{{template "foot"}}{{end}}

{{define "foot"}}
    <div class="footer">healthmetrics</div>
</div>
</body>
</html>
{{end}}
`

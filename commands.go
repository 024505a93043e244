package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/songzhibin97/healthmetrics/pkg/analyzer"
	"github.com/songzhibin97/healthmetrics/pkg/enrich"
	"github.com/songzhibin97/healthmetrics/pkg/goal"
	"github.com/songzhibin97/healthmetrics/pkg/loader"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/report"
	"github.com/songzhibin97/healthmetrics/pkg/reporter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) reportCmd() *cobra.Command {
	opts := report.StatOptions{}
	var timeRange, statType string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "生成指标统计报告",
		Example: "  healthmetrics report --metric weight --range 6months --stat monthly\n" +
			"  healthmetrics report --metric fatRate --range custom --start 2026-01-01 --end 2026-03-31 --stat weekly",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.TimeRange = report.TimeRange(timeRange)
			opts.StatType = report.StatType(statType)
			opts.Now = a.now()
			if err := opts.Validate(); err != nil {
				return err
			}

			records, err := a.loadRecords()
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(false)
			if err != nil {
				return err
			}

			r, err := report.GenerateStatisticalReport(records, opts, profile)
			if err != nil {
				return err
			}
			return a.render(cmd, r,
				func(w io.Writer) { reporter.WriteStatisticalReport(w, r) },
				func(w io.Writer) error { return reporter.WriteStatisticalHTML(w, r) })
		},
	}

	cmd.Flags().StringVar(&opts.Metric, "metric", model.MetricWeight, "指标")
	cmd.Flags().StringVar(&timeRange, "range", string(report.RangeAll), "时间范围: all, 1month, 3months, 6months, 1year, custom")
	cmd.Flags().StringVar(&statType, "stat", string(report.StatMonthly), "统计周期: monthly, quarterly, yearly, weekly")
	cmd.Flags().StringVar(&opts.CustomStart, "start", "", "自定义范围开始日期 (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.CustomEnd, "end", "", "自定义范围结束日期 (YYYY-MM-DD)")
	return cmd
}

// predictionOutput 预测结果和建议
type predictionOutput struct {
	analyzer.PredictionResult
	Advice string `json:"advice"`
}

func (a *app) predictCmd() *cobra.Command {
	var metric string
	var days int

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "基于线性回归预测指标趋势",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := model.LookupMetric(metric); !ok {
				return fmt.Errorf("%w: %q", report.ErrInvalidMetric, metric)
			}
			if err := report.ValidateHorizon(days); err != nil {
				return err
			}

			records, err := a.loadRecords()
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(false)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			result := analyzer.PredictHealthTrend(records, metric, days, profile)
			out := predictionOutput{
				PredictionResult: result,
				Advice:           engine.TrendAdvice(result.TrendAnalysis, metric),
			}
			return a.render(cmd, out,
				func(w io.Writer) { reporter.WritePrediction(w, result, out.Advice) },
				nil)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", model.MetricWeight, "指标")
	cmd.Flags().IntVar(&days, "days", analyzer.DefaultHorizonDays,
		fmt.Sprintf("预测天数 (%d-%d)", analyzer.MinHorizonDays, analyzer.MaxHorizonDays))
	return cmd
}

func (a *app) healthCmd() *cobra.Command {
	var reportType, timeRange string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "生成健康报告：风险评估、身体得分、趋势和建议",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadRecords()
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(true)
			if err != nil {
				return err
			}
			goals, err := loader.LoadGoals(a.config.GoalsPath)
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			opts := report.HealthOptions{
				ReportType: report.ReportType(reportType),
				TimeRange:  report.TimeRange(timeRange),
				Now:        a.now(),
			}
			r, err := report.GenerateHealthReport(records, *profile, goals, opts, engine)
			if err != nil {
				return err
			}
			return a.render(cmd, r,
				func(w io.Writer) { reporter.WriteHealthReport(w, r) },
				func(w io.Writer) error { return reporter.WriteHealthHTML(w, r) })
		},
	}

	cmd.Flags().StringVar(&reportType, "type", string(report.ReportComprehensive), "报告类型: comprehensive, weight, fat")
	cmd.Flags().StringVar(&timeRange, "range", string(report.Range3Months), "时间范围: all, 1month, 3months, 6months, 1year")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var date1, date2 string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "比对两个日期的测量数据",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadRecords()
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(true)
			if err != nil {
				return err
			}

			c, err := report.CompareRecords(records, date1, date2, *profile)
			if err != nil {
				return err
			}
			return a.render(cmd, c, func(w io.Writer) { reporter.WriteComparison(w, c) }, nil)
		},
	}

	cmd.Flags().StringVar(&date1, "date1", "", "第一个日期 (YYYY-MM-DD)")
	cmd.Flags().StringVar(&date2, "date2", "", "第二个日期 (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date1")
	_ = cmd.MarkFlagRequired("date2")
	return cmd
}

func (a *app) enrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "按用户资料重新计算所有记录的衍生指标并保存",
		Long: "重新计算 BMI、基础代谢、腰臀比等衍生指标。用户资料变更后需要执行一次。" +
			"默认覆盖 --records 文件，指定 --output 时写入新文件。",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadRecords()
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(true)
			if err != nil {
				return err
			}

			enriched := enrich.RecalculateAllDerivedMetrics(records, *profile)
			path := a.config.OutputPath
			if path == "" {
				path = a.config.RecordsPath
			}
			if err := loader.SaveRecords(path, enriched); err != nil {
				return err
			}

			a.log.Info("derived metrics recalculated", zap.String("path", path), zap.Int("records", len(enriched)))
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 已更新 %d 条记录: %s\n", len(enriched), path)
			return nil
		},
	}
}

func (a *app) goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "管理健康目标",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "列出目标及其最新进度",
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := a.refreshGoals()
			if err != nil {
				return err
			}
			return a.render(cmd, goals, func(w io.Writer) { reporter.WriteGoals(w, goals) }, nil)
		},
	}

	var in goal.Input
	add := &cobra.Command{
		Use:   "add",
		Short: "新增目标，以最新记录作为初始值",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadRecords()
			if err != nil {
				return err
			}
			profile, err := a.loadProfile(true)
			if err != nil {
				return err
			}
			goals, err := loader.LoadGoals(a.config.GoalsPath)
			if err != nil {
				return err
			}

			g, err := goal.New(records, *profile, in, a.now())
			if errors.Is(err, goal.ErrNoData) {
				return fmt.Errorf("暂无%s数据，请先录入健康数据: %w", model.MetricLabel(in.MetricType), err)
			}
			if err != nil {
				return err
			}
			if goal.IsReductionMetric(g.MetricType) && g.TargetValue >= g.InitialValue {
				a.log.Warn("目标值大于当前值",
					zap.String("metric", g.MetricType),
					zap.Float64("initial", g.InitialValue),
					zap.Float64("target", g.TargetValue))
			}

			if err := loader.SaveGoals(a.config.GoalsPath, append(goals, g)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 目标设置成功: %s\n", g.ID)
			return nil
		},
	}
	add.Flags().StringVar(&in.MetricType, "metric", model.MetricWeight, "指标")
	add.Flags().Float64Var(&in.TargetValue, "target", 0, "目标值")
	add.Flags().StringVar(&in.TargetDate, "date", "", "目标日期 (YYYY-MM-DD)")
	_ = add.MarkFlagRequired("target")
	_ = add.MarkFlagRequired("date")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "删除目标",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := loader.LoadGoals(a.config.GoalsPath)
			if err != nil {
				return err
			}
			kept, ok := goal.Remove(goals, args[0])
			if !ok {
				return fmt.Errorf("goal %q not found", args[0])
			}
			if err := loader.SaveGoals(a.config.GoalsPath, kept); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 目标已删除: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

// refreshGoals 刷新所有目标的进度并保存
func (a *app) refreshGoals() ([]goal.Goal, error) {
	goals, err := loader.LoadGoals(a.config.GoalsPath)
	if err != nil || len(goals) == 0 {
		return goals, err
	}
	records, err := a.loadRecords()
	if err != nil {
		return nil, err
	}
	profile, err := a.loadProfile(true)
	if err != nil {
		return nil, err
	}

	goals = goal.UpdateAll(goals, records, *profile, a.now())
	if err := loader.SaveGoals(a.config.GoalsPath, goals); err != nil {
		return nil, err
	}
	return goals, nil
}

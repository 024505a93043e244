package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/songzhibin97/healthmetrics/pkg/config"
	"github.com/songzhibin97/healthmetrics/pkg/loader"
	"github.com/songzhibin97/healthmetrics/pkg/logger"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/songzhibin97/healthmetrics/pkg/reporter"
	"github.com/songzhibin97/healthmetrics/pkg/rules"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Config 命令行配置
type Config struct {
	config.Config
	Format     string // 输出格式: text, json, html
	OutputPath string // 输出文件路径
}

// DefaultHTMLPath HTML 报告默认输出路径
const DefaultHTMLPath = "report.html"

// app 命令共享的状态
type app struct {
	config Config
	log    *zap.Logger
	now    func() time.Time
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg, time.Now).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config, now func() time.Time) *cobra.Command {
	a := &app{config: Config{Config: cfg}, log: zap.NewNop(), now: now}

	root := &cobra.Command{
		Use:   "healthmetrics",
		Short: "healthmetrics 身体数据统计分析工具",
		Long: "healthmetrics 读取体重、体脂等身体测量记录，计算衍生指标，" +
			"生成统计报告、趋势预测、健康报告和数据比对。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.NewLogger(a.config.LogLevel, a.config.LogFormat, "healthmetrics")
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.config.RecordsPath, "records", cfg.RecordsPath, "健康记录文件 (JSON)")
	flags.StringVar(&a.config.ProfilePath, "profile", cfg.ProfilePath, "用户资料文件 (YAML 或 JSON)")
	flags.StringVar(&a.config.RulesPath, "rules", cfg.RulesPath, "建议规则文件，为空时使用内置规则")
	flags.StringVar(&a.config.GoalsPath, "goals", cfg.GoalsPath, "健康目标文件 (JSON)")
	flags.StringVar(&a.config.Format, "format", "text", "输出格式: text, json, html")
	flags.StringVarP(&a.config.OutputPath, "output", "o", "", "输出文件路径，默认输出到标准输出")
	flags.StringVar(&a.config.LogLevel, "log-level", cfg.LogLevel, "日志级别: debug, info, warn, error")
	flags.StringVar(&a.config.LogFormat, "log-format", cfg.LogFormat, "日志格式: console, json")

	root.AddCommand(
		a.reportCmd(),
		a.predictCmd(),
		a.healthCmd(),
		a.compareCmd(),
		a.enrichCmd(),
		a.goalsCmd(),
	)
	return root
}

func (a *app) loadRecords() ([]model.HealthRecord, error) {
	return loader.LoadRecords(a.config.RecordsPath, a.log)
}

// loadProfile 加载用户资料
// required 为 false 时文件不存在只记录日志，返回 nil
func (a *app) loadProfile(required bool) (*model.UserProfile, error) {
	if !required {
		if _, err := os.Stat(a.config.ProfilePath); os.IsNotExist(err) {
			a.log.Debug("profile not found, derived metrics will not be computed",
				zap.String("path", a.config.ProfilePath))
			return nil, nil
		}
	}
	p, err := loader.LoadProfile(a.config.ProfilePath)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *app) engine() (*rules.Engine, error) {
	return rules.NewEngine(a.config.RulesPath, a.log)
}

// render 按输出格式写出结果，html 为 nil 表示该命令不支持 HTML
func (a *app) render(cmd *cobra.Command, v any, text func(io.Writer), html func(io.Writer) error) error {
	format, err := reporter.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	if format == reporter.FormatHTML && html == nil {
		return fmt.Errorf("html output is not supported by %q", cmd.Name())
	}

	outputPath := a.config.OutputPath
	if format == reporter.FormatHTML && outputPath == "" {
		outputPath = DefaultHTMLPath
	}

	w := cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file '%s': %w", outputPath, err)
		}
		defer file.Close()
		w = file
	}

	switch format {
	case reporter.FormatJSON:
		err = reporter.WriteJSON(w, v)
	case reporter.FormatHTML:
		err = html(w)
	default:
		text(w)
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		a.log.Info("report written", zap.String("path", outputPath), zap.String("format", string(format)))
		if format == reporter.FormatHTML {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ HTML 报告已生成: %s\n", outputPath)
		}
	}
	return nil
}

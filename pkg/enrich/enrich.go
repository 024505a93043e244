// Package enrich 为健康记录补充衍生指标
package enrich

import (
	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// derivation 一个衍生指标的计算方式
// 依赖其他衍生字段时读取传入记录上已经写入的值，所以顺序很重要
type derivation struct {
	key     string
	compute func(r model.HealthRecord, p model.UserProfile) (float64, bool)
}

var derivations = []derivation{
	{model.MetricBMI, func(r model.HealthRecord, p model.UserProfile) (float64, bool) {
		return metrics.BMI(r.Weight, p.Height)
	}},
	{model.MetricBMR, func(r model.HealthRecord, p model.UserProfile) (float64, bool) {
		bmr, ok := metrics.BMR(r.Weight, p.Height, ageAt(r, p), p.Gender)
		return metrics.RoundBMR(bmr), ok
	}},
	{model.MetricTDEE, func(r model.HealthRecord, p model.UserProfile) (float64, bool) {
		bmr, ok := r.Value(model.MetricBMR)
		if !ok {
			return 0, false
		}
		return metrics.TDEE(bmr, p.ActivityLevel)
	}},
	{model.MetricWHR, func(r model.HealthRecord, _ model.UserProfile) (float64, bool) {
		return metrics.WHR(deref(r.Waist), deref(r.Hip))
	}},
	{model.MetricMuscleRate, func(r model.HealthRecord, _ model.UserProfile) (float64, bool) {
		return metrics.MuscleRate(deref(r.MuscleMass), r.Weight)
	}},
	{model.MetricLeanBodyMass, func(r model.HealthRecord, _ model.UserProfile) (float64, bool) {
		return metrics.LeanBodyMass(r.Weight, deref(r.FatRate))
	}},
	{model.MetricFatMass, func(r model.HealthRecord, _ model.UserProfile) (float64, bool) {
		return metrics.FatMass(r.Weight, deref(r.FatRate))
	}},
	{model.MetricObesityDegree, func(r model.HealthRecord, p model.UserProfile) (float64, bool) {
		return metrics.ObesityDegree(r.Weight, p.Height, p.Gender)
	}},
}

var derivationByKey = lo.KeyBy(derivations, func(d derivation) string { return d.key })

// DerivedKeys 可由 enrich 计算的指标键
func DerivedKeys() []string {
	return lo.Map(derivations, func(d derivation, _ int) string { return d.key })
}

// CalculateMissingMetrics 只补充缺失的衍生指标，已有值保持不变
func CalculateMissingMetrics(record model.HealthRecord, profile model.UserProfile) model.HealthRecord {
	out := record.Clone()
	for _, d := range derivations {
		if hasValue(out, d.key) {
			continue
		}
		if v, ok := d.compute(out, profile); ok {
			out = out.WithValue(d.key, model.Float(v))
		}
	}
	return out
}

// RecalculateAllDerivedMetrics 无条件重算所有衍生指标，用于用户资料变更之后
// 无法计算的字段被清空，避免保留过期值
func RecalculateAllDerivedMetrics(records []model.HealthRecord, profile model.UserProfile) []model.HealthRecord {
	return lo.Map(records, func(r model.HealthRecord, _ int) model.HealthRecord {
		out := r.Clone()
		for _, d := range derivations {
			// 先清空，依赖链（BMR → TDEE）只读取本轮的结果
			out = out.WithValue(d.key, nil)
			if v, ok := d.compute(out, profile); ok {
				out = out.WithValue(d.key, model.Float(v))
			}
		}
		return out
	})
}

// MetricValue 读取记录中的指标值
// 字段缺失且提供了用户资料时，按公式即时计算衍生指标；profile 为 nil 时只读取已有字段
func MetricValue(record model.HealthRecord, key string, profile *model.UserProfile) (float64, bool) {
	if hasValue(record, key) {
		return record.Value(key)
	}
	d, ok := derivationByKey[key]
	if !ok || profile == nil {
		return 0, false
	}
	p := *profile
	if key == model.MetricTDEE && !hasValue(record, model.MetricBMR) {
		bmr, ok := derivationByKey[model.MetricBMR].compute(record, p)
		if !ok {
			return 0, false
		}
		record = record.WithValue(model.MetricBMR, model.Float(bmr))
	}
	return d.compute(record, p)
}

// hasValue 字段存在且不为 0
func hasValue(r model.HealthRecord, key string) bool {
	v, ok := r.Value(key)
	return ok && v != 0
}

func ageAt(r model.HealthRecord, p model.UserProfile) int {
	t, _ := r.Time()
	return p.AgeOn(t)
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

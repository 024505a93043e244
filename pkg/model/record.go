package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout 记录日期格式
const DateLayout = "2006-01-02"

// HealthRecord 一次身体测量记录
// 体重单位为斤，其余字段为空表示未测量
type HealthRecord struct {
	Date   string  `json:"date" yaml:"date"`
	Weight float64 `json:"weight" yaml:"weight"` // 斤

	// 原始指标
	FatRate     *float64 `json:"fatRate,omitempty" yaml:"fatRate,omitempty"`         // %
	MuscleMass  *float64 `json:"muscleMass,omitempty" yaml:"muscleMass,omitempty"`   // kg
	WaterRate   *float64 `json:"waterRate,omitempty" yaml:"waterRate,omitempty"`     // %
	Protein     *float64 `json:"protein,omitempty" yaml:"protein,omitempty"`         // %
	BoneMass    *float64 `json:"boneMass,omitempty" yaml:"boneMass,omitempty"`       // kg
	VisceralFat *float64 `json:"visceralFat,omitempty" yaml:"visceralFat,omitempty"` // 等级指数
	Waist       *float64 `json:"waist,omitempty" yaml:"waist,omitempty"`             // cm
	Hip         *float64 `json:"hip,omitempty" yaml:"hip,omitempty"`                 // cm
	Systolic    *float64 `json:"systolic,omitempty" yaml:"systolic,omitempty"`       // mmHg
	Diastolic   *float64 `json:"diastolic,omitempty" yaml:"diastolic,omitempty"`     // mmHg
	HeartRate   *float64 `json:"heartRate,omitempty" yaml:"heartRate,omitempty"`     // 次/分

	// 衍生指标
	BMI           *float64 `json:"bmi,omitempty" yaml:"bmi,omitempty"`
	BMR           *float64 `json:"bmr,omitempty" yaml:"bmr,omitempty"`
	TDEE          *float64 `json:"tdee,omitempty" yaml:"tdee,omitempty"`
	WHR           *float64 `json:"whr,omitempty" yaml:"whr,omitempty"`
	MuscleRate    *float64 `json:"muscleRate,omitempty" yaml:"muscleRate,omitempty"`
	LeanBodyMass  *float64 `json:"leanBodyMass,omitempty" yaml:"leanBodyMass,omitempty"`
	FatMass       *float64 `json:"fatMass,omitempty" yaml:"fatMass,omitempty"`
	ObesityDegree *float64 `json:"obesityDegree,omitempty" yaml:"obesityDegree,omitempty"`
}

// Float 返回指向 v 的指针，便于构造可选字段
func Float(v float64) *float64 {
	return &v
}

// Time 解析记录日期
func (r HealthRecord) Time() (time.Time, bool) {
	t, err := ParseDate(r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clone 深拷贝记录，避免共享可选字段指针
func (r HealthRecord) Clone() HealthRecord {
	out := r
	for _, f := range fieldAccessors {
		if p := f.get(&r); p != nil {
			v := *p
			f.set(&out, &v)
		}
	}
	return out
}

// Value 按指标键读取字段值，未测量或未知键返回 false
func (r HealthRecord) Value(key string) (float64, bool) {
	if key == MetricWeight {
		return r.Weight, r.Weight != 0
	}
	f, ok := fieldAccessors[key]
	if !ok {
		return 0, false
	}
	p := f.get(&r)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// WithValue 返回设置了指定字段的新记录
func (r HealthRecord) WithValue(key string, v *float64) HealthRecord {
	out := r.Clone()
	if key == MetricWeight {
		if v != nil {
			out.Weight = *v
		} else {
			out.Weight = 0
		}
		return out
	}
	if f, ok := fieldAccessors[key]; ok {
		if v != nil {
			c := *v
			f.set(&out, &c)
		} else {
			f.set(&out, nil)
		}
	}
	return out
}

type fieldAccessor struct {
	get func(r *HealthRecord) *float64
	set func(r *HealthRecord, v *float64)
}

var fieldAccessors = map[string]fieldAccessor{
	MetricFatRate:       {func(r *HealthRecord) *float64 { return r.FatRate }, func(r *HealthRecord, v *float64) { r.FatRate = v }},
	MetricMuscleMass:    {func(r *HealthRecord) *float64 { return r.MuscleMass }, func(r *HealthRecord, v *float64) { r.MuscleMass = v }},
	MetricWaterRate:     {func(r *HealthRecord) *float64 { return r.WaterRate }, func(r *HealthRecord, v *float64) { r.WaterRate = v }},
	MetricProtein:       {func(r *HealthRecord) *float64 { return r.Protein }, func(r *HealthRecord, v *float64) { r.Protein = v }},
	MetricBoneMass:      {func(r *HealthRecord) *float64 { return r.BoneMass }, func(r *HealthRecord, v *float64) { r.BoneMass = v }},
	MetricVisceralFat:   {func(r *HealthRecord) *float64 { return r.VisceralFat }, func(r *HealthRecord, v *float64) { r.VisceralFat = v }},
	MetricWaist:         {func(r *HealthRecord) *float64 { return r.Waist }, func(r *HealthRecord, v *float64) { r.Waist = v }},
	MetricHip:           {func(r *HealthRecord) *float64 { return r.Hip }, func(r *HealthRecord, v *float64) { r.Hip = v }},
	MetricSystolic:      {func(r *HealthRecord) *float64 { return r.Systolic }, func(r *HealthRecord, v *float64) { r.Systolic = v }},
	MetricDiastolic:     {func(r *HealthRecord) *float64 { return r.Diastolic }, func(r *HealthRecord, v *float64) { r.Diastolic = v }},
	MetricHeartRate:     {func(r *HealthRecord) *float64 { return r.HeartRate }, func(r *HealthRecord, v *float64) { r.HeartRate = v }},
	MetricBMI:           {func(r *HealthRecord) *float64 { return r.BMI }, func(r *HealthRecord, v *float64) { r.BMI = v }},
	MetricBMR:           {func(r *HealthRecord) *float64 { return r.BMR }, func(r *HealthRecord, v *float64) { r.BMR = v }},
	MetricTDEE:          {func(r *HealthRecord) *float64 { return r.TDEE }, func(r *HealthRecord, v *float64) { r.TDEE = v }},
	MetricWHR:           {func(r *HealthRecord) *float64 { return r.WHR }, func(r *HealthRecord, v *float64) { r.WHR = v }},
	MetricMuscleRate:    {func(r *HealthRecord) *float64 { return r.MuscleRate }, func(r *HealthRecord, v *float64) { r.MuscleRate = v }},
	MetricLeanBodyMass:  {func(r *HealthRecord) *float64 { return r.LeanBodyMass }, func(r *HealthRecord, v *float64) { r.LeanBodyMass = v }},
	MetricFatMass:       {func(r *HealthRecord) *float64 { return r.FatMass }, func(r *HealthRecord, v *float64) { r.FatMass = v }},
	MetricObesityDegree: {func(r *HealthRecord) *float64 { return r.ObesityDegree }, func(r *HealthRecord, v *float64) { r.ObesityDegree = v }},
}

// ParseDate 解析记录日期，支持 2006-01-02 和 RFC3339，结果截断到 UTC 当天
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDate 格式化为记录日期
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween 返回两个日期相差的天数（可为小数）
func DaysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

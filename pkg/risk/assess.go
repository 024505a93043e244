package risk

import (
	"math"

	"github.com/samber/lo"
	"github.com/songzhibin97/healthmetrics/pkg/enrich"
	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// ClassifyWeight 体重等级，按体重和身高计算 BMI 后分级
func ClassifyWeight(weightCatty, heightCm float64) BMILevel {
	bmi, ok := metrics.BMI(weightCatty, heightCm)
	if !ok {
		return BMIUnavailable
	}
	return ClassifyBMI(bmi)
}

// Assessment 一条记录的全部风险等级
type Assessment struct {
	BMI           BMILevel           `json:"bmi"`
	FatRate       FatRateLevel       `json:"fatRate"`
	Weight        BMILevel           `json:"weight"`
	VisceralFat   VisceralFatLevel   `json:"visceralFat"`
	WHR           WHRLevel           `json:"whr"`
	BloodPressure BloodPressureLevel `json:"bloodPressure"`
	ObesityDegree ObesityLevel       `json:"obesityDegree"`
	Protein       ProteinLevel       `json:"protein"`
}

// Entry 单项等级，便于展示
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Level string `json:"level"`
	Color string `json:"color"`
}

// Assess 评估记录的风险等级，缺失的衍生指标按用户资料即时计算
func Assess(record model.HealthRecord, profile model.UserProfile) Assessment {
	value := func(key string) float64 {
		v, ok := enrich.MetricValue(record, key, &profile)
		if !ok {
			return 0
		}
		return v
	}

	a := Assessment{
		BMI:           ClassifyBMI(value(model.MetricBMI)),
		FatRate:       ClassifyFatRate(value(model.MetricFatRate), profile.Gender),
		VisceralFat:   ClassifyVisceralFat(value(model.MetricVisceralFat)),
		WHR:           ClassifyWHR(value(model.MetricWHR), profile.Gender),
		BloodPressure: ClassifyBloodPressure(value(model.MetricSystolic), value(model.MetricDiastolic)),
		Protein:       ClassifyProtein(value(model.MetricProtein)),
		ObesityDegree: ObesityUnavailable,
		Weight:        BMIUnavailable,
	}
	if profile.Gender.Valid() {
		a.Weight = ClassifyWeight(record.Weight, profile.Height)
	}
	if degree, ok := enrich.MetricValue(record, model.MetricObesityDegree, &profile); ok {
		a.ObesityDegree = ClassifyObesityDegree(degree)
	}
	return a
}

// Entries 按展示顺序返回各项等级
func (a Assessment) Entries() []Entry {
	return []Entry{
		{model.MetricBMI, "BMI", string(a.BMI), a.BMI.Color()},
		{model.MetricFatRate, "体脂率", string(a.FatRate), a.FatRate.Color()},
		{model.MetricWeight, "体重", string(a.Weight), a.Weight.Color()},
		{model.MetricVisceralFat, "内脏脂肪", string(a.VisceralFat), a.VisceralFat.Color()},
		{model.MetricWHR, "腰臀比", string(a.WHR), a.WHR.Color()},
		{"bloodPressure", "血压", string(a.BloodPressure), a.BloodPressure.Color()},
		{model.MetricObesityDegree, "肥胖度", string(a.ObesityDegree), a.ObesityDegree.Color()},
		{model.MetricProtein, "蛋白质", string(a.Protein), a.Protein.Color()},
	}
}

// ScoredLevels 参与身体得分的等级：BMI、体脂率、体重、内脏脂肪
func (a Assessment) ScoredLevels() []string {
	return []string{string(a.BMI), string(a.FatRate), string(a.Weight), string(a.VisceralFat)}
}

// LevelScores 等级到得分的映射，未配置的等级使用 Default
type LevelScores struct {
	Scores  map[string]int `yaml:"scores" json:"scores"`
	Default int            `yaml:"default" json:"default"`
}

// BodyScore 身体得分
type BodyScore struct {
	Score int    `json:"score"`
	Level string `json:"level"`
	Color string `json:"color"`
}

// Score 计算身体得分：各项等级得分的平均值，N/A 不参与
func Score(levels []string, scores LevelScores) BodyScore {
	valid := lo.Filter(levels, func(l string, _ int) bool {
		return l != "" && l != NotAvailable
	})

	avg := 0
	if len(valid) > 0 {
		sum := lo.SumBy(valid, func(l string) int {
			if s, ok := scores.Scores[l]; ok {
				return s
			}
			return scores.Default
		})
		avg = int(math.Round(float64(sum) / float64(len(valid))))
	}

	switch {
	case avg >= 90:
		return BodyScore{Score: avg, Level: "优秀", Color: colorGreen}
	case avg >= 75:
		return BodyScore{Score: avg, Level: "良好", Color: colorBlue}
	case avg >= 60:
		return BodyScore{Score: avg, Level: "一般", Color: colorYellow}
	default:
		return BodyScore{Score: avg, Level: "需要改善", Color: colorRed}
	}
}

// metricFamilies 指标键到风险项的映射，收缩压和舒张压共用血压等级
var metricFamilies = map[string]string{
	model.MetricWeight:        model.MetricWeight,
	model.MetricFatRate:       model.MetricFatRate,
	model.MetricBMI:           model.MetricBMI,
	model.MetricObesityDegree: model.MetricObesityDegree,
	model.MetricWHR:           model.MetricWHR,
	model.MetricVisceralFat:   model.MetricVisceralFat,
	model.MetricSystolic:      "bloodPressure",
	model.MetricDiastolic:     "bloodPressure",
	model.MetricProtein:       model.MetricProtein,
}

// EntryFor 返回指标对应的风险等级，没有分级的指标返回 false
func (a Assessment) EntryFor(metric string) (Entry, bool) {
	family, ok := metricFamilies[metric]
	if !ok {
		return Entry{}, false
	}
	return lo.Find(a.Entries(), func(e Entry) bool { return e.Key == family })
}

package model

// 指标键，与记录 JSON 字段名一致
const (
	MetricWeight        = "weight"
	MetricFatRate       = "fatRate"
	MetricMuscleMass    = "muscleMass"
	MetricWaterRate     = "waterRate"
	MetricProtein       = "protein"
	MetricBoneMass      = "boneMass"
	MetricVisceralFat   = "visceralFat"
	MetricWaist         = "waist"
	MetricHip           = "hip"
	MetricSystolic      = "systolic"
	MetricDiastolic     = "diastolic"
	MetricHeartRate     = "heartRate"
	MetricBMI           = "bmi"
	MetricBMR           = "bmr"
	MetricTDEE          = "tdee"
	MetricWHR           = "whr"
	MetricMuscleRate    = "muscleRate"
	MetricLeanBodyMass  = "leanBodyMass"
	MetricFatMass       = "fatMass"
	MetricObesityDegree = "obesityDegree"
)

// MetricInfo 指标元数据
type MetricInfo struct {
	Key     string
	Label   string
	Unit    string
	Derived bool
}

// Metrics 所有指标，顺序即展示顺序
var Metrics = []MetricInfo{
	{Key: MetricWeight, Label: "体重", Unit: "斤"},
	{Key: MetricFatRate, Label: "体脂率", Unit: "%"},
	{Key: MetricBMI, Label: "BMI", Derived: true},
	{Key: MetricObesityDegree, Label: "肥胖度", Unit: "%", Derived: true},
	{Key: MetricFatMass, Label: "脂肪重量", Unit: "斤", Derived: true},
	{Key: MetricLeanBodyMass, Label: "瘦体重", Unit: "斤", Derived: true},
	{Key: MetricBMR, Label: "基础代谢率", Unit: "大卡", Derived: true},
	{Key: MetricTDEE, Label: "每日总消耗", Unit: "大卡", Derived: true},
	{Key: MetricMuscleMass, Label: "肌肉量", Unit: "kg"},
	{Key: MetricWaterRate, Label: "水分率", Unit: "%"},
	{Key: MetricProtein, Label: "蛋白质", Unit: "%"},
	{Key: MetricBoneMass, Label: "骨量", Unit: "kg"},
	{Key: MetricVisceralFat, Label: "内脏脂肪"},
	{Key: MetricMuscleRate, Label: "肌肉率", Unit: "%", Derived: true},
	{Key: MetricWaist, Label: "腰围", Unit: "cm"},
	{Key: MetricHip, Label: "臀围", Unit: "cm"},
	{Key: MetricSystolic, Label: "收缩压", Unit: "mmHg"},
	{Key: MetricDiastolic, Label: "舒张压", Unit: "mmHg"},
	{Key: MetricHeartRate, Label: "静息心率", Unit: "次/分"},
	{Key: MetricWHR, Label: "腰臀比", Derived: true},
}

// LookupMetric 查找指标元数据
func LookupMetric(key string) (MetricInfo, bool) {
	for _, m := range Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return MetricInfo{}, false
}

// MetricLabel 返回指标中文名，未知指标返回键本身
func MetricLabel(key string) string {
	if m, ok := LookupMetric(key); ok {
		return m.Label
	}
	return key
}

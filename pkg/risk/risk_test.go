package risk

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/songzhibin97/healthmetrics/pkg/metrics"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBMI(t *testing.T) {
	tests := []struct {
		bmi  float64
		want BMILevel
	}{
		{18.4, BMIUnderweight},
		{18.5, BMINormal},
		{23.95, BMINormal},
		{24, BMIOverweight},
		{27.99, BMIOverweight},
		{28, BMIObese},
		{0, BMIUnavailable},
		{-1, BMIUnavailable},
		{math.NaN(), BMIUnavailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyBMI(tt.bmi), "bmi=%v", tt.bmi)
	}
}

func TestClassifyBloodPressure(t *testing.T) {
	assert.Equal(t, BloodPressureNormal, ClassifyBloodPressure(115, 75))
	assert.Equal(t, BloodPressureElevated, ClassifyBloodPressure(125, 75))
	assert.Equal(t, BloodPressureElevated, ClassifyBloodPressure(110, 85), "舒张压单独进入前期")
	assert.Equal(t, BloodPressureStage1, ClassifyBloodPressure(145, 75))
	assert.Equal(t, BloodPressureElevated, ClassifyBloodPressure(145, 85), "任一值进入前期即为前期")
	assert.Equal(t, BloodPressureStage1, ClassifyBloodPressure(110, 95))
	assert.Equal(t, BloodPressureStage2, ClassifyBloodPressure(165, 105))
	assert.Equal(t, BloodPressureUnavailable, ClassifyBloodPressure(120, 0), "需要两个值")
}

func TestClassifyBloodPressure_FractionalReadings(t *testing.T) {
	assert.Equal(t, BloodPressureElevated, ClassifyBloodPressure(139.5, 70))
	assert.Equal(t, BloodPressureElevated, ClassifyBloodPressure(110, 89.5))
	assert.Equal(t, BloodPressureStage1, ClassifyBloodPressure(159.5, 70))
	assert.Equal(t, BloodPressureStage1, ClassifyBloodPressure(110, 99.5))
	assert.Equal(t, BloodPressureStage2, ClassifyBloodPressure(160, 70))
}

func TestClassifyWHR(t *testing.T) {
	assert.Equal(t, WHRCentralObesity, ClassifyWHR(0.95, model.GenderMale))
	assert.Equal(t, WHRNormal, ClassifyWHR(0.80, model.GenderFemale))
	assert.Equal(t, WHRNormal, ClassifyWHR(0.89, model.GenderMale))
	assert.Equal(t, WHRCentralObesity, ClassifyWHR(0.85, model.GenderFemale))
	assert.Equal(t, WHRUnavailable, ClassifyWHR(0.85, ""))
	assert.Equal(t, WHRUnavailable, ClassifyWHR(0, model.GenderMale))
}

func TestClassifyVisceralFat(t *testing.T) {
	assert.Equal(t, VisceralFatNormal, ClassifyVisceralFat(9))
	assert.Equal(t, VisceralFatHigh, ClassifyVisceralFat(10))
	assert.Equal(t, VisceralFatHigh, ClassifyVisceralFat(14))
	assert.Equal(t, VisceralFatObese, ClassifyVisceralFat(14.5))
	assert.Equal(t, VisceralFatUnavailable, ClassifyVisceralFat(0))
}

func TestClassifyFatRate(t *testing.T) {
	assert.Equal(t, FatRateLean, ClassifyFatRate(9.9, model.GenderMale))
	assert.Equal(t, FatRateNormal, ClassifyFatRate(10, model.GenderMale))
	assert.Equal(t, FatRateOverweight, ClassifyFatRate(20, model.GenderMale))
	assert.Equal(t, FatRateObese, ClassifyFatRate(25, model.GenderMale))

	assert.Equal(t, FatRateLean, ClassifyFatRate(14, model.GenderFemale))
	assert.Equal(t, FatRateNormal, ClassifyFatRate(20, model.GenderFemale))
	assert.Equal(t, FatRateOverweight, ClassifyFatRate(25, model.GenderFemale))
	assert.Equal(t, FatRateObese, ClassifyFatRate(30, model.GenderFemale))

	assert.Equal(t, FatRateUnavailable, ClassifyFatRate(20, "other"))
}

func TestClassifyObesityDegree(t *testing.T) {
	tests := []struct {
		degree float64
		want   ObesityLevel
	}{
		{-25, ObesityWasting},
		{-20, ObesityThin},
		{-10, ObesityStandard},
		{0, ObesityStandard},
		{10, ObesityStandard},
		{10.1, ObesityPlump},
		{20, ObesityPlump},
		{50, ObesityObese},
		{50.1, ObesitySevere},
		{math.NaN(), ObesityUnavailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyObesityDegree(tt.degree), "degree=%v", tt.degree)
	}
}

func TestClassifyProtein(t *testing.T) {
	assert.Equal(t, ProteinLow, ClassifyProtein(15.9))
	assert.Equal(t, ProteinStandard, ClassifyProtein(16))
	assert.Equal(t, ProteinStandard, ClassifyProtein(20))
	assert.Equal(t, ProteinExcellent, ClassifyProtein(20.5))
	assert.Equal(t, ProteinUnavailable, ClassifyProtein(0))
}

func TestColors_PerFamily(t *testing.T) {
	// 同名等级在不同族中颜色独立
	assert.Equal(t, colorGreen, BMINormal.Color())
	assert.Equal(t, colorGreen, BloodPressureNormal.Color())
	assert.Equal(t, colorYellow, BMIUnderweight.Color())
	assert.Equal(t, colorBlue, FatRateLean.Color())
	assert.Equal(t, colorDarkRed, BloodPressureStage2.Color())
	assert.Equal(t, colorNeutral, BMIUnavailable.Color())
}

// Property Test: 先计算 BMI 再分级，与直接对同一 BMI 值分级结果一致
func TestBMI_RoundTrip(t *testing.T) {
	f := func(w, h uint16) bool {
		weight := float64(w%300) + 1
		height := float64(h%120) + 100
		bmi, ok := metrics.BMI(weight, height)
		if !ok {
			return false
		}
		return ClassifyWeight(weight, height) == ClassifyBMI(bmi)
	}

	if err := quick.Check(f, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

// Property Test: 分级结果是确定的
func TestClassify_Deterministic(t *testing.T) {
	f := func(v float64) bool {
		return ClassifyBMI(v) == ClassifyBMI(v) &&
			ClassifyVisceralFat(v) == ClassifyVisceralFat(v) &&
			ClassifyObesityDegree(v) == ClassifyObesityDegree(v) &&
			ClassifyFatRate(v, model.GenderFemale) == ClassifyFatRate(v, model.GenderFemale)
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestAssess(t *testing.T) {
	profile := model.UserProfile{Height: 175, Age: 30, Gender: model.GenderMale}
	record := model.HealthRecord{
		Date:        "2026-01-05",
		Weight:      140,
		FatRate:     model.Float(22),
		VisceralFat: model.Float(12),
		Waist:       model.Float(90),
		Hip:         model.Float(95),
		Systolic:    model.Float(118),
		Diastolic:   model.Float(76),
		Protein:     model.Float(17),
	}

	a := Assess(record, profile)
	assert.Equal(t, BMINormal, a.BMI)
	assert.Equal(t, BMINormal, a.Weight)
	assert.Equal(t, FatRateOverweight, a.FatRate)
	assert.Equal(t, VisceralFatHigh, a.VisceralFat)
	assert.Equal(t, WHRCentralObesity, a.WHR)
	assert.Equal(t, BloodPressureNormal, a.BloodPressure)
	assert.Equal(t, ObesityStandard, a.ObesityDegree)
	assert.Equal(t, ProteinStandard, a.Protein)

	entries := a.Entries()
	assert.Len(t, entries, 8)
	assert.Equal(t, "BMI", entries[0].Label)
	assert.Equal(t, colorGreen, entries[0].Color)
}

func TestAssess_MissingProfile(t *testing.T) {
	a := Assess(model.HealthRecord{Date: "2026-01-05", Weight: 140}, model.UserProfile{})
	assert.Equal(t, BMIUnavailable, a.BMI)
	assert.Equal(t, BMIUnavailable, a.Weight)
	assert.Equal(t, FatRateUnavailable, a.FatRate)
	assert.Equal(t, ObesityUnavailable, a.ObesityDegree)
}

func TestScore(t *testing.T) {
	scores := LevelScores{
		Scores:  map[string]int{"正常": 100, "偏高": 70, "肥胖": 50},
		Default: 50,
	}

	tests := []struct {
		name   string
		levels []string
		score  int
		level  string
	}{
		{"全部正常", []string{"正常", "正常", "正常"}, 100, "优秀"},
		{"忽略 N/A", []string{"正常", NotAvailable, ""}, 100, "优秀"},
		{"含偏高", []string{"正常", "正常", "偏高"}, 90, "优秀"},
		{"一般", []string{"正常", "偏高", "肥胖"}, 73, "一般"},
		{"未知等级", []string{"超重", "肥胖"}, 50, "需要改善"},
		{"无数据", []string{NotAvailable}, 0, "需要改善"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.levels, scores)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.level, got.Level)
		})
	}

	assert.Equal(t, "良好", Score([]string{"正常", "偏高"}, scores).Level)
}

func TestAssessment_EntryFor(t *testing.T) {
	a := Assessment{BMI: BMIObese, BloodPressure: BloodPressureStage1, Weight: BMINormal}

	e, ok := a.EntryFor(model.MetricSystolic)
	require.True(t, ok)
	assert.Equal(t, "bloodPressure", e.Key)
	assert.Equal(t, string(BloodPressureStage1), e.Level)

	e, ok = a.EntryFor(model.MetricDiastolic)
	require.True(t, ok)
	assert.Equal(t, string(BloodPressureStage1), e.Level)

	e, ok = a.EntryFor(model.MetricBMI)
	require.True(t, ok)
	assert.Equal(t, BMIObese.Color(), e.Color)

	_, ok = a.EntryFor(model.MetricHeartRate)
	assert.False(t, ok, "心率没有分级")
}

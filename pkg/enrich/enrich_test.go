package enrich

import (
	"testing"

	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() model.UserProfile {
	return model.UserProfile{Height: 175, Age: 30, Gender: model.GenderMale, ActivityLevel: 1.55}
}

func fullRecord() model.HealthRecord {
	return model.HealthRecord{
		Date:       "2026-01-05",
		Weight:     140,
		FatRate:    model.Float(25),
		MuscleMass: model.Float(50),
		Waist:      model.Float(85),
		Hip:        model.Float(95),
	}
}

func TestCalculateMissingMetrics(t *testing.T) {
	out := CalculateMissingMetrics(fullRecord(), testProfile())

	require.NotNil(t, out.BMI)
	assert.Equal(t, 22.9, *out.BMI)
	require.NotNil(t, out.BMR)
	assert.Equal(t, 1649.0, *out.BMR)
	require.NotNil(t, out.TDEE)
	assert.Equal(t, 2556.0, *out.TDEE)
	assert.Equal(t, 0.89, *out.WHR)
	assert.Equal(t, 71.4, *out.MuscleRate)
	assert.Equal(t, 105.0, *out.LeanBodyMass)
	assert.Equal(t, 35.0, *out.FatMass)
	assert.Equal(t, 5.3, *out.ObesityDegree)
}

func TestCalculateMissingMetrics_NonDestructive(t *testing.T) {
	in := fullRecord()
	in.BMI = model.Float(30)

	out := CalculateMissingMetrics(in, testProfile())
	assert.Equal(t, 30.0, *out.BMI, "已有值不应被覆盖")
	assert.Nil(t, in.BMR, "输入记录不应被修改")
}

func TestCalculateMissingMetrics_MissingInputs(t *testing.T) {
	in := model.HealthRecord{Date: "2026-01-05", Weight: 140}
	out := CalculateMissingMetrics(in, model.UserProfile{Height: 175})

	assert.NotNil(t, out.BMI)
	assert.Nil(t, out.BMR, "缺少年龄和性别")
	assert.Nil(t, out.TDEE)
	assert.Nil(t, out.WHR)
	assert.Nil(t, out.FatMass)
	assert.Nil(t, out.ObesityDegree)
}

func TestRecalculateAllDerivedMetrics(t *testing.T) {
	stale := fullRecord()
	stale.BMI = model.Float(30)
	stale.TDEE = model.Float(9999)
	records := []model.HealthRecord{stale, {Date: "2026-01-12", Weight: 138}}

	out := RecalculateAllDerivedMetrics(records, testProfile())
	require.Len(t, out, 2)

	assert.Equal(t, 22.9, *out[0].BMI, "过期值应被重算")
	assert.Equal(t, 2556.0, *out[0].TDEE)
	assert.Equal(t, 30.0, *records[0].BMI, "输入切片不应被修改")

	assert.Nil(t, out[1].WHR)
	assert.NotNil(t, out[1].BMI)
}

func TestRecalculateAllDerivedMetrics_ClearsUncomputable(t *testing.T) {
	r := model.HealthRecord{Date: "2026-01-05", Weight: 140, BMR: model.Float(1700), TDEE: model.Float(2600)}

	// 资料缺少年龄，BMR 与 TDEE 无法计算
	out := RecalculateAllDerivedMetrics([]model.HealthRecord{r}, model.UserProfile{Height: 175, Gender: model.GenderMale})
	assert.Nil(t, out[0].BMR)
	assert.Nil(t, out[0].TDEE)
}

func TestRecalculateAllDerivedMetrics_Birthdate(t *testing.T) {
	p := model.UserProfile{Height: 175, Birthdate: "1996-01-01", Gender: model.GenderMale}
	out := RecalculateAllDerivedMetrics([]model.HealthRecord{fullRecord()}, p)

	// 2026-01-05 时 30 岁
	require.NotNil(t, out[0].BMR)
	assert.Equal(t, 1649.0, *out[0].BMR)
}

func TestMetricValue(t *testing.T) {
	p := testProfile()
	r := fullRecord()

	v, ok := MetricValue(r, model.MetricWeight, nil)
	assert.True(t, ok)
	assert.Equal(t, 140.0, v)

	v, ok = MetricValue(r, model.MetricBMI, &p)
	assert.True(t, ok)
	assert.Equal(t, 22.9, v)

	v, ok = MetricValue(r, model.MetricTDEE, &p)
	assert.True(t, ok)
	assert.Equal(t, 2556.0, v)

	_, ok = MetricValue(r, model.MetricBMI, nil)
	assert.False(t, ok, "没有用户资料时不计算")

	r.BMI = model.Float(21)
	v, ok = MetricValue(r, model.MetricBMI, &p)
	assert.True(t, ok)
	assert.Equal(t, 21.0, v, "优先使用已存储的值")

	_, ok = MetricValue(r, model.MetricHeartRate, &p)
	assert.False(t, ok)
}

func TestDerivedKeys(t *testing.T) {
	keys := DerivedKeys()
	assert.Len(t, keys, 8)
	for _, k := range keys {
		m, ok := model.LookupMetric(k)
		require.True(t, ok, k)
		assert.True(t, m.Derived, k)
	}
}

package goal

import (
	"errors"
	"testing"
	"time"

	"github.com/songzhibin97/healthmetrics/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	profile = model.UserProfile{Height: 175, Age: 30, Gender: model.GenderMale, ActivityLevel: 1.55}
	now     = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

func records() []model.HealthRecord {
	return []model.HealthRecord{
		{Date: "2026-02-15", Weight: 150, FatRate: model.Float(24)},
		{Date: "2026-03-01", Weight: 140, FatRate: model.Float(22)},
		{Date: "2026-01-01", Weight: 160},
		{Date: "not-a-date", Weight: 100},
	}
}

func TestLatestMetricValue(t *testing.T) {
	v, ok := LatestMetricValue(records(), model.MetricWeight, profile)
	require.True(t, ok)
	assert.Equal(t, 140.0, v)

	// BMI 未记录时按身高计算
	v, ok = LatestMetricValue(records(), model.MetricBMI, profile)
	require.True(t, ok)
	assert.Equal(t, 22.9, v)

	_, ok = LatestMetricValue(records(), model.MetricWaist, profile)
	assert.False(t, ok)

	_, ok = LatestMetricValue(nil, model.MetricWeight, profile)
	assert.False(t, ok)
}

func TestCalculateProgress(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		target  float64
		want    float64
	}{
		{"减重一半", 160, 120, 50},
		{"减重超额", 160, 150, 100},
		{"反向变化", 130, 120, 0},
		{"增加目标", 120, 160, 50},
		{"增加已达成", 100, 140, 100},
		{"目标等于当前值", 140, 140, 100},
		{"目标等于初始值", 150, 150, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Goal{MetricType: model.MetricWeight, InitialValue: tt.initial, TargetValue: tt.target}
			assert.InDelta(t, tt.want, CalculateProgress(g, records(), profile), 1e-9)
		})
	}

	assert.Equal(t, 0.0, CalculateProgress(Goal{MetricType: model.MetricWaist, InitialValue: 90, TargetValue: 80}, records(), profile))
}

func TestUpdate_Status(t *testing.T) {
	g := Goal{MetricType: model.MetricWeight, InitialValue: 160, TargetValue: 120, TargetDate: "2026-06-01"}

	updated := Update(g, records(), profile, now)
	assert.Equal(t, StatusInProgress, updated.Status)
	assert.InDelta(t, 50, updated.Progress, 1e-9)
	require.NotNil(t, updated.CurrentValue)
	assert.Equal(t, 140.0, *updated.CurrentValue)
	assert.Equal(t, 0.0, g.Progress, "原目标不被修改")

	// 目标日期当天仍为进行中，次日起失败
	g.TargetDate = "2026-03-01"
	assert.Equal(t, StatusInProgress, Update(g, records(), profile, now).Status)
	g.TargetDate = "2026-02-28"
	assert.Equal(t, StatusFailed, Update(g, records(), profile, now).Status)

	// 已完成优先于过期
	g.TargetValue = 145
	assert.Equal(t, StatusCompleted, Update(g, records(), profile, now).Status)

	missing := Update(Goal{MetricType: model.MetricWaist, TargetDate: "2026-06-01"}, records(), profile, now)
	assert.Nil(t, missing.CurrentValue)
}

func TestNew(t *testing.T) {
	g, err := New(records(), profile, Input{MetricType: model.MetricWeight, TargetValue: 130, TargetDate: "2026-06-30"}, now)
	require.NoError(t, err)

	assert.Equal(t, "goal-2026-03-01-weight", g.ID)
	assert.Equal(t, 140.0, g.InitialValue)
	assert.Equal(t, "2026-03-01", g.CreatedAt)
	assert.Equal(t, 0.0, g.Progress)
	assert.Equal(t, StatusInProgress, g.Status)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"未知指标", Input{MetricType: "steps", TargetValue: 1, TargetDate: "2026-06-30"}, ErrInvalidGoal},
		{"日期非法", Input{MetricType: model.MetricWeight, TargetValue: 130, TargetDate: "2026/06/30"}, ErrInvalidGoal},
		{"没有数据", Input{MetricType: model.MetricWaist, TargetValue: 80, TargetDate: "2026-06-30"}, ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(records(), profile, tt.in, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestUpdateAllAndRemove(t *testing.T) {
	goals := []Goal{
		{ID: "a", MetricType: model.MetricWeight, InitialValue: 160, TargetValue: 140, TargetDate: "2026-06-01"},
		{ID: "b", MetricType: model.MetricFatRate, InitialValue: 24, TargetValue: 20, TargetDate: "2026-01-01"},
	}

	updated := UpdateAll(goals, records(), profile, now)
	require.Len(t, updated, 2)
	assert.Equal(t, StatusCompleted, updated[0].Status)
	assert.Equal(t, StatusFailed, updated[1].Status)
	assert.InDelta(t, 50, updated[1].Progress, 1e-9)

	kept, ok := Remove(updated, "a")
	assert.True(t, ok)
	require.Len(t, kept, 1)
	assert.Equal(t, "b", kept[0].ID)

	_, ok = Remove(updated, "missing")
	assert.False(t, ok)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "已完成", StatusText("completed"))
	assert.Equal(t, "已失败", StatusText("failed"))
	assert.Equal(t, "进行中", StatusText("in_progress"))
	assert.Equal(t, "未知", StatusText("paused"))
	assert.Equal(t, "#3498db", StatusInProgress.Color())
	assert.True(t, IsReductionMetric(model.MetricWaist))
	assert.False(t, IsReductionMetric(model.MetricMuscleMass))
}

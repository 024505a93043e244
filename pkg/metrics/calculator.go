// Package metrics 根据原始测量值和用户资料计算衍生指标
//
// 所有函数均为纯函数：必需参数缺失（0、负数、NaN）时返回 ok=false，从不 panic。
// 体重输入单位为斤，换算统一通过 CattyToKg / KgToCatty 完成。
package metrics

import (
	"math"

	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// BMI 体重指数 = 千克 / 米²，保留一位小数
func BMI(weightCatty, heightCm float64) (float64, bool) {
	if !present(weightCatty, heightCm) {
		return 0, false
	}
	heightM := heightCm / 100
	return Round(CattyToKg(weightCatty)/(heightM*heightM), 1), true
}

// BMR 基础代谢率（Mifflin-St Jeor），返回未取整的值
func BMR(weightCatty, heightCm float64, age int, gender model.Gender) (float64, bool) {
	if !present(weightCatty, heightCm, float64(age)) || !gender.Valid() {
		return 0, false
	}
	base := 10*CattyToKg(weightCatty) + 6.25*heightCm - 5*float64(age)
	if gender == model.GenderMale {
		return base + 5, true
	}
	return base - 161, true
}

// RoundBMR 将 BMR 取整到大卡
func RoundBMR(bmr float64) float64 {
	return math.Round(bmr)
}

// TDEE 每日总能量消耗 = BMR × 活动系数，取整
func TDEE(bmr, activityLevel float64) (float64, bool) {
	if !present(bmr, activityLevel) {
		return 0, false
	}
	return math.Round(bmr * activityLevel), true
}

// WHR 腰臀比，保留两位小数
func WHR(waistCm, hipCm float64) (float64, bool) {
	if !present(waistCm, hipCm) {
		return 0, false
	}
	return Round(waistCm/hipCm, 2), true
}

// LeanBodyMass 瘦体重（斤），保留一位小数
func LeanBodyMass(weightCatty, fatRate float64) (float64, bool) {
	if !present(weightCatty, fatRate) {
		return 0, false
	}
	return Round(weightCatty*(1-fatRate/100), 1), true
}

// FatMass 脂肪重量（斤），保留一位小数
func FatMass(weightCatty, fatRate float64) (float64, bool) {
	if !present(weightCatty, fatRate) {
		return 0, false
	}
	return Round(weightCatty*(fatRate/100), 1), true
}

// MuscleRate 肌肉率：肌肉量为千克，体重为斤，先统一为斤再计算
func MuscleRate(muscleMassKg, weightCatty float64) (float64, bool) {
	if !present(muscleMassKg, weightCatty) {
		return 0, false
	}
	return Round(KgToCatty(muscleMassKg)/weightCatty*100, 1), true
}

// IdealWeight 理想体重（斤），保留一位小数
// 男：(身高-80)×0.7，女：(身高-70)×0.6，结果为千克再换算为斤
func IdealWeight(heightCm float64, gender model.Gender) (float64, bool) {
	if !present(heightCm) || !gender.Valid() {
		return 0, false
	}
	var kg float64
	if gender == model.GenderMale {
		kg = (heightCm - 80) * 0.7
	} else {
		kg = (heightCm - 70) * 0.6
	}
	return Round(KgToCatty(kg), 1), true
}

// ObesityDegree 肥胖度 = (实际体重 - 理想体重) / 理想体重 × 100，保留一位小数
// 理想体重不为正时无法计算
func ObesityDegree(actualWeightCatty, heightCm float64, gender model.Gender) (float64, bool) {
	if !present(actualWeightCatty) {
		return 0, false
	}
	ideal, ok := IdealWeight(heightCm, gender)
	if !ok || ideal <= 0 {
		return 0, false
	}
	return Round((actualWeightCatty-ideal)/ideal*100, 1), true
}

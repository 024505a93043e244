// Package risk 将指标值映射为离散的风险等级
//
// 每个指标族有独立的等级类型和颜色表，同名等级（如"正常"）在不同族中互不覆盖。
package risk

import (
	"math"

	"github.com/songzhibin97/healthmetrics/pkg/model"
)

// NotAvailable 输入缺失时的等级
const NotAvailable = "N/A"

const (
	colorGreen   = "#27ae60"
	colorYellow  = "#f39c12"
	colorRed     = "#e74c3c"
	colorDarkRed = "#c0392b"
	colorGray    = "#7f8c8d"
	colorBlue    = "#3498db"
	colorNeutral = "#2c3e50"
)

// BMILevel BMI 等级
type BMILevel string

const (
	BMIUnavailable BMILevel = NotAvailable
	BMIUnderweight BMILevel = "偏瘦"
	BMINormal      BMILevel = "正常"
	BMIOverweight  BMILevel = "超重"
	BMIObese       BMILevel = "肥胖"
)

var bmiColors = map[BMILevel]string{
	BMIUnderweight: colorYellow,
	BMINormal:      colorGreen,
	BMIOverweight:  colorYellow,
	BMIObese:       colorRed,
}

// Color 等级颜色
func (l BMILevel) Color() string { return colorOf(bmiColors, l) }

// BloodPressureLevel 血压等级
type BloodPressureLevel string

const (
	BloodPressureUnavailable BloodPressureLevel = NotAvailable
	BloodPressureNormal      BloodPressureLevel = "正常"
	BloodPressureElevated    BloodPressureLevel = "高血压前期"
	BloodPressureStage1      BloodPressureLevel = "高血压1级"
	BloodPressureStage2      BloodPressureLevel = "高血压2级"
)

var bloodPressureColors = map[BloodPressureLevel]string{
	BloodPressureNormal:   colorGreen,
	BloodPressureElevated: colorYellow,
	BloodPressureStage1:   colorRed,
	BloodPressureStage2:   colorDarkRed,
}

// Color 等级颜色
func (l BloodPressureLevel) Color() string { return colorOf(bloodPressureColors, l) }

// WHRLevel 腰臀比等级
type WHRLevel string

const (
	WHRUnavailable    WHRLevel = NotAvailable
	WHRNormal         WHRLevel = "正常"
	WHRCentralObesity WHRLevel = "中心性肥胖"
)

var whrColors = map[WHRLevel]string{
	WHRNormal:         colorGreen,
	WHRCentralObesity: colorRed,
}

// Color 等级颜色
func (l WHRLevel) Color() string { return colorOf(whrColors, l) }

// VisceralFatLevel 内脏脂肪等级
type VisceralFatLevel string

const (
	VisceralFatUnavailable VisceralFatLevel = NotAvailable
	VisceralFatNormal      VisceralFatLevel = "正常"
	VisceralFatHigh        VisceralFatLevel = "偏高"
	VisceralFatObese       VisceralFatLevel = "肥胖"
)

var visceralFatColors = map[VisceralFatLevel]string{
	VisceralFatNormal: colorGreen,
	VisceralFatHigh:   colorYellow,
	VisceralFatObese:  colorRed,
}

// Color 等级颜色
func (l VisceralFatLevel) Color() string { return colorOf(visceralFatColors, l) }

// FatRateLevel 体脂率等级
type FatRateLevel string

const (
	FatRateUnavailable FatRateLevel = NotAvailable
	FatRateLean        FatRateLevel = "偏瘦"
	FatRateNormal      FatRateLevel = "正常"
	FatRateOverweight  FatRateLevel = "超重"
	FatRateObese       FatRateLevel = "肥胖"
)

var fatRateColors = map[FatRateLevel]string{
	FatRateLean:       colorBlue,
	FatRateNormal:     colorGreen,
	FatRateOverweight: colorYellow,
	FatRateObese:      colorRed,
}

// Color 等级颜色
func (l FatRateLevel) Color() string { return colorOf(fatRateColors, l) }

// ObesityLevel 肥胖度等级
type ObesityLevel string

const (
	ObesityUnavailable ObesityLevel = NotAvailable
	ObesityWasting     ObesityLevel = "消瘦"
	ObesityThin        ObesityLevel = "偏瘦"
	ObesityStandard    ObesityLevel = "标准"
	ObesityPlump       ObesityLevel = "偏胖"
	ObesityObese       ObesityLevel = "肥胖"
	ObesitySevere      ObesityLevel = "重度"
)

var obesityColors = map[ObesityLevel]string{
	ObesityWasting:  colorGray,
	ObesityThin:     colorYellow,
	ObesityStandard: colorGreen,
	ObesityPlump:    colorYellow,
	ObesityObese:    colorRed,
	ObesitySevere:   colorDarkRed,
}

// Color 等级颜色
func (l ObesityLevel) Color() string { return colorOf(obesityColors, l) }

// ProteinLevel 蛋白质等级
type ProteinLevel string

const (
	ProteinUnavailable ProteinLevel = NotAvailable
	ProteinLow         ProteinLevel = "不足"
	ProteinStandard    ProteinLevel = "标准"
	ProteinExcellent   ProteinLevel = "优"
)

var proteinColors = map[ProteinLevel]string{
	ProteinLow:       colorRed,
	ProteinStandard:  colorGreen,
	ProteinExcellent: colorBlue,
}

// Color 等级颜色
func (l ProteinLevel) Color() string { return colorOf(proteinColors, l) }

func colorOf[L ~string](table map[L]string, level L) string {
	if c, ok := table[level]; ok {
		return c
	}
	return colorNeutral
}

// usable 0、负数、NaN 视为缺失
func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// ClassifyBMI BMI 等级，区间为 [18.5,24)、[24,28)
func ClassifyBMI(bmi float64) BMILevel {
	if !usable(bmi) {
		return BMIUnavailable
	}
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 24:
		return BMINormal
	case bmi < 28:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// ClassifyBloodPressure 血压等级，需要收缩压和舒张压
func ClassifyBloodPressure(systolic, diastolic float64) BloodPressureLevel {
	if !usable(systolic) || !usable(diastolic) {
		return BloodPressureUnavailable
	}
	switch {
	case systolic < 120 && diastolic < 80:
		return BloodPressureNormal
	case systolic >= 120 && systolic < 140 || diastolic >= 80 && diastolic < 90:
		return BloodPressureElevated
	case systolic >= 140 && systolic < 160 || diastolic >= 90 && diastolic < 100:
		return BloodPressureStage1
	default:
		return BloodPressureStage2
	}
}

// ClassifyWHR 腰臀比等级：男 <0.90、女 <0.85 为正常
func ClassifyWHR(whr float64, gender model.Gender) WHRLevel {
	if !usable(whr) || !gender.Valid() {
		return WHRUnavailable
	}
	if gender == model.GenderMale && whr < 0.90 || gender == model.GenderFemale && whr < 0.85 {
		return WHRNormal
	}
	return WHRCentralObesity
}

// ClassifyVisceralFat 内脏脂肪等级
func ClassifyVisceralFat(visceralFat float64) VisceralFatLevel {
	if !usable(visceralFat) {
		return VisceralFatUnavailable
	}
	switch {
	case visceralFat < 10:
		return VisceralFatNormal
	case visceralFat <= 14:
		return VisceralFatHigh
	default:
		return VisceralFatObese
	}
}

// ClassifyFatRate 体脂率等级，阈值随性别不同
func ClassifyFatRate(fatRate float64, gender model.Gender) FatRateLevel {
	if !usable(fatRate) || !gender.Valid() {
		return FatRateUnavailable
	}
	lean, normal, over := 15.0, 25.0, 30.0
	if gender == model.GenderMale {
		lean, normal, over = 10, 20, 25
	}
	switch {
	case fatRate < lean:
		return FatRateLean
	case fatRate < normal:
		return FatRateNormal
	case fatRate < over:
		return FatRateOverweight
	default:
		return FatRateObese
	}
}

// ClassifyObesityDegree 肥胖度等级
// 肥胖度可以为负数或 0，只有 NaN/Inf 视为缺失
func ClassifyObesityDegree(degree float64) ObesityLevel {
	if math.IsNaN(degree) || math.IsInf(degree, 0) {
		return ObesityUnavailable
	}
	switch {
	case degree < -20:
		return ObesityWasting
	case degree < -10:
		return ObesityThin
	case degree <= 10:
		return ObesityStandard
	case degree <= 20:
		return ObesityPlump
	case degree <= 50:
		return ObesityObese
	default:
		return ObesitySevere
	}
}

// ClassifyProtein 蛋白质等级
func ClassifyProtein(protein float64) ProteinLevel {
	if !usable(protein) {
		return ProteinUnavailable
	}
	switch {
	case protein < 16:
		return ProteinLow
	case protein <= 20:
		return ProteinStandard
	default:
		return ProteinExcellent
	}
}

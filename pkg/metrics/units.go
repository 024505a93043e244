package metrics

import "math"

// cattyPerKg 1 千克 = 2 斤
const cattyPerKg = 2.0

// CattyToKg 斤转千克
func CattyToKg(catty float64) float64 {
	return catty / cattyPerKg
}

// KgToCatty 千克转斤
func KgToCatty(kg float64) float64 {
	return kg * cattyPerKg
}

// Round 按指定小数位四舍五入（远离零方向）
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// present 判断必需参数是否可用：0、负数、NaN 都视为缺失
func present(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

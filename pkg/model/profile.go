package model

import "time"

// Gender 性别
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid 是否为已知性别
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// String 返回中文名称
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "男"
	case GenderFemale:
		return "女"
	default:
		return "未知"
	}
}

// UserProfile 用户资料，多个衍生指标依赖这些字段
type UserProfile struct {
	Name          string  `json:"name,omitempty" yaml:"name,omitempty"`
	Height        float64 `json:"height" yaml:"height"`                           // cm
	Age           int     `json:"age,omitempty" yaml:"age,omitempty"`             // 岁
	Birthdate     string  `json:"birthdate,omitempty" yaml:"birthdate,omitempty"` // YYYY-MM-DD
	Gender        Gender  `json:"gender" yaml:"gender"`
	ActivityLevel float64 `json:"activityLevel" yaml:"activityLevel"` // 1.2 - 1.9
}

// AgeOn 返回指定日期的年龄
// 优先使用 Age，未设置时根据出生日期计算；都缺失时返回 0
func (p UserProfile) AgeOn(date time.Time) int {
	if p.Age > 0 {
		return p.Age
	}
	birth, err := ParseDate(p.Birthdate)
	if err != nil || date.IsZero() {
		return 0
	}
	age := date.Year() - birth.Year()
	if date.Before(birth.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/songzhibin97/healthmetrics/pkg/goal"
	"github.com/songzhibin97/healthmetrics/pkg/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func readFile(path, kind string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", kind, path)
		}
		return nil, fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	return data, nil
}

// LoadRecords 加载 JSON 格式的健康记录
// 同一日期出现多次时保留最后一条；日期非法或缺少体重的记录被丢弃
// 返回按日期升序排列的记录，日期统一为 YYYY-MM-DD
func LoadRecords(path string, log *zap.Logger) ([]model.HealthRecord, error) {
	if log == nil {
		log = zap.NewNop()
	}

	data, err := readFile(path, "records")
	if err != nil {
		return nil, err
	}

	var raw []model.HealthRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse records file %s: %w", path, err)
	}

	byDate := make(map[string]model.HealthRecord, len(raw))
	for i, r := range raw {
		t, ok := r.Time()
		if !ok {
			log.Warn("skipping record with invalid date", zap.Int("index", i), zap.String("date", r.Date))
			continue
		}
		if r.Weight <= 0 {
			log.Warn("skipping record without weight", zap.Int("index", i), zap.String("date", r.Date))
			continue
		}
		r.Date = model.FormatDate(t)
		if _, dup := byDate[r.Date]; dup {
			log.Warn("duplicate record date, keeping the later entry", zap.String("date", r.Date))
		}
		byDate[r.Date] = r
	}

	records := make([]model.HealthRecord, 0, len(byDate))
	for _, r := range byDate {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	log.Info("records loaded",
		zap.String("path", path),
		zap.Int("total", len(raw)),
		zap.Int("kept", len(records)))
	return records, nil
}

// SaveRecords 以缩进 JSON 写入记录
func SaveRecords(path string, records []model.HealthRecord) error {
	return writeJSON(path, records)
}

// LoadProfile 加载用户资料，.json 文件按 JSON 解析，其余按 YAML 解析
func LoadProfile(path string) (model.UserProfile, error) {
	data, err := readFile(path, "profile")
	if err != nil {
		return model.UserProfile{}, err
	}

	var p model.UserProfile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &p)
	} else {
		err = yaml.Unmarshal(data, &p)
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("failed to parse profile file %s: %w", path, err)
	}

	if p.Height <= 0 {
		return model.UserProfile{}, fmt.Errorf("profile %s: missing height", path)
	}
	if p.Gender != "" && !p.Gender.Valid() {
		return model.UserProfile{}, fmt.Errorf("profile %s: unknown gender %q", path, p.Gender)
	}
	if p.Birthdate != "" {
		if _, err := model.ParseDate(p.Birthdate); err != nil {
			return model.UserProfile{}, fmt.Errorf("profile %s: birthdate: %w", path, err)
		}
	}
	return p, nil
}

// LoadGoals 加载健康目标，文件不存在时返回空列表
func LoadGoals(path string) ([]goal.Goal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []goal.Goal{}, nil
		}
		return nil, fmt.Errorf("failed to read goals file: %w", err)
	}

	var goals []goal.Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, fmt.Errorf("failed to parse goals file %s: %w", path, err)
	}
	return goals, nil
}

// SaveGoals 以缩进 JSON 写入目标
func SaveGoals(path string, goals []goal.Goal) error {
	return writeJSON(path, goals)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

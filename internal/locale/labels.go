package locale

import "github.com/habitgarden/internal/cadence"

var cadenceLabels = map[cadence.Cadence][2]string{
	cadence.Daily:     {"Daily", "每天"},
	cadence.Weekly:    {"Weekly", "每周"},
	cadence.Monthly:   {"Monthly", "每月"},
	cadence.Quarterly: {"Quarterly", "每季度"},
	cadence.Annual:    {"Annual", "每年"},
}

var vitalityLabels = map[cadence.Vitality][2]string{
	cadence.Blooming:   {"Blooming", "盛放"},
	cadence.Growing:    {"Growing", "生长"},
	cadence.Resting:    {"Resting", "休憩"},
	cadence.NeedsWater: {"Needs water", "待浇水"},
}

// CadenceLabel 返回周期的展示名称
func CadenceLabel(language string, c cadence.Cadence) string {
	label, ok := cadenceLabels[c]
	if !ok {
		return c.String()
	}
	return Pick(language, label[0], label[1])
}

// VitalityLabel 返回活跃度的展示名称
func VitalityLabel(language string, v cadence.Vitality) string {
	label, ok := vitalityLabels[v]
	if !ok {
		return v.String()
	}
	return Pick(language, label[0], label[1])
}

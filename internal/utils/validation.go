package utils

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

// ValidateWorkplaceSchedule 检查提交的排班只包含已配置的工作地点和班次，日期为 1~31
// 超出当月天数的日期在这里放行，导出时会被忽略
func ValidateWorkplaceSchedule(ws domain.WorkplaceSchedule, workplaces []string, shifts []domain.Shift) error {
	for workplace, days := range ws {
		if !slices.Contains(workplaces, workplace) {
			return fmt.Errorf("未知的工作地点 %q", workplace)
		}

		for day, assignment := range days {
			if err := validateDayKey(day); err != nil {
				return fmt.Errorf("工作地点 %q: %w", workplace, err)
			}

			for shiftKey := range assignment {
				if !containsShift(shifts, shiftKey) {
					return fmt.Errorf("工作地点 %q 第 %s 天包含未知的班次 %q", workplace, day, shiftKey)
				}
			}
		}
	}

	return nil
}

// ValidateEngineers 检查自动排班时传入的工程师列表
func ValidateEngineers(engineers []domain.Engineer, workplaces []string, shifts []domain.Shift) error {
	names := make(map[string]struct{}, len(engineers))

	for _, eng := range engineers {
		if eng.Name == "" {
			return fmt.Errorf("工程师姓名不能为空")
		}
		if _, exists := names[eng.Name]; exists {
			return fmt.Errorf("工程师 %q 重复", eng.Name)
		}
		names[eng.Name] = struct{}{}

		for _, workplace := range eng.Workplaces {
			if !slices.Contains(workplaces, workplace) {
				return fmt.Errorf("工程师 %q 包含未知的工作地点 %q", eng.Name, workplace)
			}
		}

		for day, shiftKeys := range eng.Limitations {
			if err := validateDayKey(day); err != nil {
				return fmt.Errorf("工程师 %q 的限制: %w", eng.Name, err)
			}
			for _, shiftKey := range shiftKeys {
				if !containsShift(shifts, shiftKey) {
					return fmt.Errorf("工程师 %q 的限制包含未知的班次 %q", eng.Name, shiftKey)
				}
			}
		}

		if eng.MinShifts < 0 || eng.MaxShifts < 0 {
			return fmt.Errorf("工程师 %q 的班次数量不能为负数", eng.Name)
		}
		if eng.MaxShifts > 0 && eng.MinShifts > eng.MaxShifts {
			return fmt.Errorf("工程师 %q 的最少班次数不能大于最多班次数", eng.Name)
		}
	}

	return nil
}

func validateDayKey(day string) error {
	n, err := strconv.Atoi(day)
	if err != nil || n < 1 || n > 31 || strconv.Itoa(n) != day {
		return fmt.Errorf("无效的日期 %q", day)
	}
	return nil
}

func containsShift(shifts []domain.Shift, key string) bool {
	for _, shift := range shifts {
		if shift.Key == key {
			return true
		}
	}
	return false
}

package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrMissingPeriod  = errors.New("该时段没有排班数据")
	ErrStorageFailure = errors.New("存储失败")
)

// PeriodKey 标识一个排班周期（伊历年月）
type PeriodKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (k PeriodKey) String() string {
	return fmt.Sprintf("%d-%d", k.Year, k.Month)
}

// ParsePeriodKey 解析 "{year}-{month}" 形式的周期键
func ParsePeriodKey(s string) (PeriodKey, error) {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] != '-' {
			continue
		}
		year, err := strconv.Atoi(s[:i])
		if err != nil {
			return PeriodKey{}, fmt.Errorf("无效的周期键 %q", s)
		}
		month, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return PeriodKey{}, fmt.Errorf("无效的周期键 %q", s)
		}
		return PeriodKey{Year: year, Month: month}, nil
	}
	return PeriodKey{}, fmt.Errorf("无效的周期键 %q", s)
}

// ShiftAssignment: 班次键 -> 工程师姓名
type ShiftAssignment map[string]string

// DaySchedule: 日期字符串（"1".."31"）-> 当天的班次安排
type DaySchedule map[string]ShiftAssignment

// WorkplaceSchedule: 工作地点 -> 该地点整月的排班
type WorkplaceSchedule map[string]DaySchedule

// ScheduleDocument: 周期键 -> 该周期所有工作地点的排班，即持久化的整体文档
type ScheduleDocument map[string]WorkplaceSchedule

func (d DaySchedule) Assignment(day int, shiftKey string) (string, bool) {
	shifts, ok := d[strconv.Itoa(day)]
	if !ok {
		return "", false
	}
	name, ok := shifts[shiftKey]
	return name, ok
}

func (ws WorkplaceSchedule) Clone() WorkplaceSchedule {
	out := make(WorkplaceSchedule, len(ws))
	for workplace, days := range ws {
		outDays := make(DaySchedule, len(days))
		for day, shifts := range days {
			outShifts := make(ShiftAssignment, len(shifts))
			for key, name := range shifts {
				outShifts[key] = name
			}
			outDays[day] = outShifts
		}
		out[workplace] = outDays
	}
	return out
}

type Shift struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var DefaultShifts = []Shift{
	{Key: "shift1", Label: "Shift 1"},
	{Key: "shift2", Label: "Shift 2"},
	{Key: "shift3", Label: "Shift 3"},
}

var DefaultWorkplaces = []string{"Studio Hispan", "Studio Press", "Nodal", "Engineer Room"}

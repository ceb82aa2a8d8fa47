package scheduler

import "github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"

// candidate: 某个工程师在本次自动排班中的状态
type candidate struct {
	name        string
	workplaces  map[string]struct{}
	limitations map[string]map[string]struct{} // 日期 -> 不可值班的班次键
	minShifts   int
	maxShifts   int
	assigned    int
}

// Result: 自动排班的结果，Schedule 不会被持久化
type Result struct {
	Schedule domain.WorkplaceSchedule `json:"schedule"`
	Counts   map[string]int           `json:"counts"`   // 工程师 -> 该周期的总班次数（包括已有的安排）
	Assigned int                      `json:"assigned"` // 本次新填入的班次数
	Unfilled int                      `json:"unfilled"` // 没有可用工程师而留空的班次数
}

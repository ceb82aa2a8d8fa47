package scheduler

import "github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"

func newCandidate(eng domain.Engineer) *candidate {
	c := &candidate{
		name:        eng.Name,
		workplaces:  make(map[string]struct{}, len(eng.Workplaces)),
		limitations: make(map[string]map[string]struct{}, len(eng.Limitations)),
		minShifts:   eng.MinShifts,
		maxShifts:   eng.MaxShifts,
	}

	// 未设置时使用默认值
	if c.minShifts <= 0 {
		c.minShifts = domain.DefaultMinShifts
	}
	if c.maxShifts <= 0 {
		c.maxShifts = domain.DefaultMaxShifts
	}

	for _, workplace := range eng.Workplaces {
		c.workplaces[workplace] = struct{}{}
	}
	for day, shiftKeys := range eng.Limitations {
		set := make(map[string]struct{}, len(shiftKeys))
		for _, key := range shiftKeys {
			set[key] = struct{}{}
		}
		c.limitations[day] = set
	}

	return c
}

func (c *candidate) canWork(workplace, day, shiftKey string) bool {
	if _, ok := c.workplaces[workplace]; !ok {
		return false
	}
	if _, limited := c.limitations[day][shiftKey]; limited {
		return false
	}
	return c.assigned < c.maxShifts
}

func (c *candidate) belowMin() bool {
	return c.assigned < c.minShifts
}

// higherPriority 判断 a 是否应比 b 优先：未达到最少班次的优先，其次是班次更少的，最后按姓名
func higherPriority(a, b *candidate) bool {
	if a.belowMin() != b.belowMin() {
		return a.belowMin()
	}
	if a.assigned != b.assigned {
		return a.assigned < b.assigned
	}
	return a.name < b.name
}

package scheduler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

var (
	ErrNoEngineers       = errors.New("没有可用于自动排班的工程师")
	ErrDuplicateEngineer = errors.New("工程师姓名重复")
)

// Scheduler 使用贪心策略为空缺的班次分配工程师
type Scheduler struct {
	candidates []*candidate
	byName     map[string]*candidate
	workplaces []string
	shifts     []domain.Shift
}

func New(engineers []domain.Engineer, workplaces []string, shifts []domain.Shift) (*Scheduler, error) {
	if len(engineers) == 0 {
		return nil, ErrNoEngineers
	}
	if len(shifts) == 0 {
		shifts = domain.DefaultShifts
	}

	s := &Scheduler{
		candidates: make([]*candidate, 0, len(engineers)),
		byName:     make(map[string]*candidate, len(engineers)),
		workplaces: workplaces,
		shifts:     shifts,
	}

	for _, eng := range engineers {
		if _, exists := s.byName[eng.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEngineer, eng.Name)
		}

		c := newCandidate(eng)
		s.candidates = append(s.candidates, c)
		s.byName[eng.Name] = c
	}

	return s, nil
}

// AutoAssign 在 current 的基础上填充空缺班次，已有的安排保持不变并计入工程师的班次数
func (s *Scheduler) AutoAssign(key domain.PeriodKey, current domain.WorkplaceSchedule) (*Result, error) {
	numDays, err := calendar.DaysInMonth(key.Year, key.Month)
	if err != nil {
		return nil, err
	}

	schedule := current.Clone()
	s.countExisting(schedule)

	result := &Result{}
	for _, workplace := range s.workplaces {
		days, ok := schedule[workplace]
		if !ok {
			days = domain.DaySchedule{}
		}

		for day := 1; day <= numDays; day++ {
			dayKey := strconv.Itoa(day)

			for _, shift := range s.shifts {
				if name := days[dayKey][shift.Key]; name != "" {
					continue
				}

				chosen := s.pick(workplace, dayKey, shift.Key)
				if chosen == nil {
					result.Unfilled++
					continue
				}

				if days[dayKey] == nil {
					days[dayKey] = domain.ShiftAssignment{}
				}
				days[dayKey][shift.Key] = chosen.name
				chosen.assigned++
				result.Assigned++
			}
		}

		schedule[workplace] = days
	}

	result.Schedule = schedule
	result.Counts = make(map[string]int, len(s.candidates))
	for _, c := range s.candidates {
		result.Counts[c.name] = c.assigned
	}

	return result, nil
}

// countExisting 统计已有安排中每个工程师的班次数，名册外的姓名不参与统计
func (s *Scheduler) countExisting(schedule domain.WorkplaceSchedule) {
	for _, c := range s.candidates {
		c.assigned = 0
	}

	for _, days := range schedule {
		for _, shifts := range days {
			for _, name := range shifts {
				if c, ok := s.byName[name]; ok {
					c.assigned++
				}
			}
		}
	}
}

func (s *Scheduler) pick(workplace, day, shiftKey string) *candidate {
	var best *candidate
	for _, c := range s.candidates {
		if !c.canWork(workplace, day, shiftKey) {
			continue
		}
		if best == nil || higherPriority(c, best) {
			best = c
		}
	}
	return best
}

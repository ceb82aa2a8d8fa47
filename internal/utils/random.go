package utils

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// RomanizeChineseName 将中文姓名转换为 "Wang Weiqiang" 形式的拼音姓名
func RomanizeChineseName(chineseName string) string {
	syllables := pinyin.LazyConvert(chineseName, nil)
	if len(syllables) == 0 {
		return chineseName
	}

	surname := capitalize(syllables[0])
	given := ""
	for _, s := range syllables[1:] {
		given += s
	}
	if given == "" {
		return surname
	}
	return surname + " " + capitalize(given)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// GenerateRandomSubset 使用 Fisher-Yates 洗牌算法生成一个非空随机子集
func GenerateRandomSubset(arr []string) []string {
	arrCopy := append([]string{}, arr...) // 复制数组，避免修改原数组
	if len(arrCopy) == 0 {
		return arrCopy
	}

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

// GenerateRandomEngineers 生成 n 个姓名互不相同的工程师
func GenerateRandomEngineers(n int, workplaces []string, shifts []domain.Shift) []domain.Engineer {
	engineers := make([]domain.Engineer, 0, n)
	used := make(map[string]struct{}, n)

	for len(engineers) < n {
		name := RomanizeChineseName(GenerateRandomChineseName())
		if _, exists := used[name]; exists {
			name += " " + strconv.Itoa(len(engineers)+1)
		}
		used[name] = struct{}{}

		eng := domain.Engineer{
			Name:        name,
			Workplaces:  GenerateRandomSubset(workplaces),
			Limitations: map[string][]string{},
			MinShifts:   domain.DefaultMinShifts,
			MaxShifts:   domain.DefaultMaxShifts,
		}

		// 随机几天不可值班的班次
		for range rand.Intn(4) {
			day := strconv.Itoa(rand.Intn(29) + 1)
			shift := shifts[rand.Intn(len(shifts))].Key
			eng.Limitations[day] = append(eng.Limitations[day], shift)
		}

		engineers = append(engineers, eng)
	}

	return engineers
}

// GenerateRandomWorkplaceSchedule 随机填充某个周期的排班，fillRatio 为每个班次被填充的概率
func GenerateRandomWorkplaceSchedule(key domain.PeriodKey, workplaces []string, engineers []domain.Engineer, shifts []domain.Shift, fillRatio float64) (domain.WorkplaceSchedule, error) {
	numDays, err := calendar.DaysInMonth(key.Year, key.Month)
	if err != nil {
		return nil, err
	}

	ws := make(domain.WorkplaceSchedule, len(workplaces))
	for _, workplace := range workplaces {
		eligible := []string{}
		for _, eng := range engineers {
			for _, w := range eng.Workplaces {
				if w == workplace {
					eligible = append(eligible, eng.Name)
					break
				}
			}
		}

		days := domain.DaySchedule{}
		for day := 1; day <= numDays && len(eligible) > 0; day++ {
			assignment := domain.ShiftAssignment{}
			for _, shift := range shifts {
				if rand.Float64() < fillRatio {
					assignment[shift.Key] = eligible[rand.Intn(len(eligible))]
				}
			}
			if len(assignment) > 0 {
				days[strconv.Itoa(day)] = assignment
			}
		}
		ws[workplace] = days
	}

	return ws, nil
}

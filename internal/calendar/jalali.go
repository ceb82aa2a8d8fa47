package calendar

import (
	"errors"
	"time"
)

var (
	ErrInvalidMonth    = errors.New("无效的月份")
	ErrInvalidDate     = errors.New("无效的日期")
	ErrUnsupportedYear = errors.New("不支持的年份")
)

// breaks 为伊历闰年周期的断点年份表（Borkowski 算法）
var breaks = []int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
	1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

const (
	MinYear = -61
	MaxYear = 3177
)

// Weekday 为公历星期的下标，周一为 0，周日为 6
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

type yearInfo struct {
	leap  int // 距离上一个闰年的年数，0 表示当年就是闰年
	gy    int // 伊历年开始时对应的公历年
	march int // 伊历新年（Farvardin 1 日）在公历三月的日期
}

func supported(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// jalCal 计算某一伊历年的闰年信息以及新年对应的公历日期
// 调用方需要保证 year 在支持的范围内
func jalCal(year int) yearInfo {
	gy := year + 621
	leapJ := -14
	jp := breaks[0]
	jump := 0

	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if year < jm {
			break
		}
		leapJ += jump/33*8 + jump%33/4
		jp = jm
	}

	n := year - jp
	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}

	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march := 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap := ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}

	return yearInfo{leap: leap, gy: gy, march: march}
}

// gregorianToJDN 将公历日期转换为儒略日
func gregorianToJDN(gy, gm, gd int) int {
	d := (gy+(gm-8)/6+100100)*1461/4 + (153*((gm+9)%12)+2)/5 + gd - 34840408
	d = d - (gy+100100+(gm-8)/6)/100*3/4 + 752
	return d
}

// jdnToGregorian 将儒略日转换为公历日期
func jdnToGregorian(jdn int) (int, int, int) {
	j := 4*jdn + 139361631
	j = j + (4*jdn+183187720)/146097*3/4*4 - 3908
	i := (j%1461)/4*5 + 308
	gd := (i%153)/5 + 1
	gm := (i/153)%12 + 1
	gy := j/1461 - 100100 + (8-gm)/6
	return gy, gm, gd
}

func jalaliToJDN(year, month, day int) int {
	info := jalCal(year)
	return gregorianToJDN(info.gy, 3, info.march) + (month-1)*31 - month/7*(month-7) + day - 1
}

func IsLeapYear(year int) bool {
	if !supported(year) {
		return false
	}
	return jalCal(year).leap == 0
}

// DaysInMonth 返回伊历某月的天数，前六个月 31 天，之后五个月 30 天，最后一个月平年 29 天、闰年 30 天
// 超出 MinYear..MaxYear 的年份无法判断闰年，第 12 个月返回 ErrUnsupportedYear
func DaysInMonth(year, month int) (int, error) {
	switch {
	case month >= 1 && month <= 6:
		return 31, nil
	case month >= 7 && month <= 11:
		return 30, nil
	case month == 12:
		if !supported(year) {
			return 0, ErrUnsupportedYear
		}
		if IsLeapYear(year) {
			return 30, nil
		}
		return 29, nil
	default:
		return 0, ErrInvalidMonth
	}
}

func validDate(year, month, day int) error {
	if !supported(year) {
		return ErrInvalidDate
	}
	n, err := DaysInMonth(year, month)
	if err != nil {
		return ErrInvalidDate
	}
	if day < 1 || day > n {
		return ErrInvalidDate
	}
	return nil
}

// ToGregorian 将伊历日期转换为 UTC 零点的公历日期
func ToGregorian(year, month, day int) (time.Time, error) {
	if err := validDate(year, month, day); err != nil {
		return time.Time{}, err
	}

	gy, gm, gd := jdnToGregorian(jalaliToJDN(year, month, day))
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, time.UTC), nil
}

// FromGregorian 返回 t 所在日期（按 t 自身的时区）对应的伊历年月日
func FromGregorian(t time.Time) (int, int, int) {
	jdn := gregorianToJDN(t.Year(), int(t.Month()), t.Day())
	gy, _, _ := jdnToGregorian(jdn)

	year := gy - 621
	info := jalCal(year)
	k := jdn - gregorianToJDN(gy, 3, info.march)

	if k >= 0 {
		if k <= 185 {
			return year, 1 + k/31, k%31 + 1
		}
		k -= 186
	} else {
		year--
		k += 179
		if info.leap == 1 {
			k++
		}
	}

	return year, 7 + k/30, k%30 + 1
}

// ToWeekday 返回伊历日期对应的公历星期下标
func ToWeekday(year, month, day int) (Weekday, error) {
	if err := validDate(year, month, day); err != nil {
		return 0, err
	}

	// 儒略日对 7 取模恰好以周一为 0
	return Weekday(jalaliToJDN(year, month, day) % 7), nil
}

func IsWeekend(w Weekday) bool {
	return w >= Saturday
}

package calendar

// Names 为月份和星期的本地化名称表，星期表以周六为第一天
type Names struct {
	Months [12]string
	Days   [7]string
}

var DefaultNames = Names{
	Months: [12]string{
		"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
		"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
	},
	Days: [7]string{
		"شنبه", "یکشنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه", "پنجشنبه", "جمعه",
	},
}

// Converter 在纯函数之上附带构造时注入的名称表，不含可变状态，可并发使用
type Converter struct {
	names Names
}

func NewConverter(names Names) *Converter {
	return &Converter{names: names}
}

func (c *Converter) MonthName(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", ErrInvalidMonth
	}
	return c.names.Months[month-1], nil
}

func (c *Converter) DayName(w Weekday) string {
	idx := (int(w) + 1) % 7
	if idx < 0 {
		idx += 7
	}
	return c.names.Days[idx]
}

func (c *Converter) DaysInMonth(year, month int) (int, error) {
	return DaysInMonth(year, month)
}

func (c *Converter) ToWeekday(year, month, day int) (Weekday, error) {
	return ToWeekday(year, month, day)
}

func (c *Converter) IsWeekend(w Weekday) bool {
	return IsWeekend(w)
}

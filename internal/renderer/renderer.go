package renderer

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	// ErrorLabel 是无法计算星期时写入日期列的占位符
	ErrorLabel = "خطا"

	headerColor  = "4F81BD"
	weekendColor = "DCE6F1"
	columnWidth  = 20
	rowHeight    = 25
	titleRow     = 1
	headerRow    = 3
	firstDataRow = 4
	maxSheetName = 31
)

type Renderer struct {
	conv   *calendar.Converter
	shifts []domain.Shift
	logger *slog.Logger
}

func New(conv *calendar.Converter, shifts []domain.Shift, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(shifts) == 0 {
		shifts = domain.DefaultShifts
	}

	return &Renderer{
		conv:   conv,
		shifts: shifts,
		logger: logger,
	}
}

// Filename 返回工作地点在某周期的导出文件名，同一周期重复导出会覆盖同名文件
func Filename(workplace, year, month string) string {
	name := fmt.Sprintf("%s_%s_%s.xlsx", strings.ReplaceAll(workplace, " ", "_"), year, month)
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}

// RenderRaw 接收未解析的年份和月份，无法解析时生成只有一条错误信息的文档
func (r *Renderer) RenderRaw(workplace, rawYear, rawMonth string, days domain.DaySchedule) *Document {
	year, err := strconv.Atoi(strings.TrimSpace(rawYear))
	if err != nil {
		return r.diagnostic(workplace, rawYear, rawMonth, fmt.Errorf("无效的年份 %q", rawYear))
	}
	month, err := strconv.Atoi(strings.TrimSpace(rawMonth))
	if err != nil {
		return r.diagnostic(workplace, rawYear, rawMonth, fmt.Errorf("%w %q", calendar.ErrInvalidMonth, rawMonth))
	}

	return r.Render(workplace, year, month, days)
}

func (r *Renderer) Render(workplace string, year, month int, days domain.DaySchedule) *Document {
	numDays, err := r.conv.DaysInMonth(year, month)
	if err != nil {
		return r.diagnostic(workplace, strconv.Itoa(year), strconv.Itoa(month), err)
	}
	monthName, err := r.conv.MonthName(month)
	if err != nil {
		return r.diagnostic(workplace, strconv.Itoa(year), strconv.Itoa(month), err)
	}

	doc := &Document{
		Workplace: workplace,
		Year:      year,
		Month:     month,
		Filename:  Filename(workplace, strconv.Itoa(year), strconv.Itoa(month)),
		Title:     fmt.Sprintf("%s - %s %d", workplace, monthName, year),
		Rows:      make([]Row, 0, numDays),
		shifts:    r.shifts,
	}

	for day := 1; day <= numDays; day++ {
		doc.Rows = append(doc.Rows, r.buildRow(workplace, year, month, day, days))
	}

	return doc
}

func (r *Renderer) buildRow(workplace string, year, month, day int, days domain.DaySchedule) Row {
	row := Row{
		Day:    day,
		Status: RowOK,
		Shifts: make([]string, len(r.shifts)),
	}

	weekday, err := r.conv.ToWeekday(year, month, day)
	if err != nil {
		r.logger.Warn("无法计算日期对应的星期", "workplace", workplace, "year", year, "month", month, "day", day, "error", err)
		row.Status = RowDegraded
		row.Reason = err.Error()
		row.Label = fmt.Sprintf("%d - %s", day, ErrorLabel)
	} else {
		row.Label = fmt.Sprintf("%d - %s", day, r.conv.DayName(weekday))
		row.Weekend = r.conv.IsWeekend(weekday)
	}

	for i, shift := range r.shifts {
		if name, ok := days.Assignment(day, shift.Key); ok {
			row.Shifts[i] = name
		}
	}

	return row
}

func (r *Renderer) diagnostic(workplace, rawYear, rawMonth string, err error) *Document {
	r.logger.Error("无法生成排班表", "workplace", workplace, "year", rawYear, "month", rawMonth, "error", err)

	doc := &Document{
		Workplace:  workplace,
		Filename:   Filename(workplace, rawYear, rawMonth),
		Diagnostic: fmt.Sprintf("Invalid period %s-%s: %v", rawYear, rawMonth, err),
	}
	if year, err := strconv.Atoi(strings.TrimSpace(rawYear)); err == nil {
		doc.Year = year
	}
	if month, err := strconv.Atoi(strings.TrimSpace(rawMonth)); err == nil {
		doc.Month = month
	}
	return doc
}

// build 按文档内容生成 excelize 工作簿
func (d *Document) build() (*excelize.File, error) {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)

	if d.Diagnostic != "" {
		if err := f.SetCellValue(defaultSheet, "A1", d.Diagnostic); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}

	sheet := sheetName(d.Workplace)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSheet(f, sheet, d); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, d *Document) error {
	shifts := d.shifts
	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(shifts) + 1)
	if err != nil {
		return err
	}

	// 标题
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", d.Title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}

	// 表头
	headers := make([]any, 0, len(shifts)+1)
	headers = append(headers, "Day")
	for _, shift := range shifts {
		headers = append(headers, shift.Label)
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow), &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), styles.header); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
		return err
	}

	// 每天一行
	for i, row := range d.Rows {
		rowNum := firstDataRow + i
		labelStyle, shiftStyle := styles.label, styles.shift
		if row.Weekend {
			labelStyle, shiftStyle = styles.weekendLabel, styles.weekendShift
		}

		labelCell := fmt.Sprintf("A%d", rowNum)
		if err := f.SetCellValue(sheet, labelCell, row.Label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, labelCell, labelCell, labelStyle); err != nil {
			return err
		}

		for col, name := range row.Shifts {
			cell, err := excelize.CoordinatesToCellName(col+2, rowNum)
			if err != nil {
				return err
			}
			if name != "" {
				if err := f.SetCellValue(sheet, cell, name); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, cell, cell, shiftStyle); err != nil {
				return err
			}
		}
	}

	for rowNum := titleRow; rowNum <= len(d.Rows)+firstDataRow; rowNum++ {
		if err := f.SetRowHeight(sheet, rowNum, rowHeight); err != nil {
			return err
		}
	}

	return nil
}

type styleSet struct {
	title        int
	header       int
	label        int
	shift        int
	weekendLabel int
	weekendShift int
}

func newStyles(f *excelize.File) (*styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center"}
	weekendFill := excelize.Fill{Type: "pattern", Color: []string{weekendColor}, Pattern: 1}

	set := &styleSet{}
	defs := map[*int]*excelize.Style{
		&set.title: {Font: &excelize.Font{Bold: true, Size: 16}, Alignment: centered},
		&set.header: {
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
			Border:    border,
			Alignment: centered,
		},
		&set.label:        {Border: border, Alignment: left},
		&set.shift:        {Border: border, Alignment: centered},
		&set.weekendLabel: {Border: border, Alignment: left, Fill: weekendFill},
		&set.weekendShift: {Border: border, Alignment: centered, Fill: weekendFill},
	}

	for dst, style := range defs {
		id, err := f.NewStyle(style)
		if err != nil {
			return nil, err
		}
		*dst = id
	}

	return set, nil
}

// sheetName 生成符合 Excel 规则的工作表名称（不超过 31 个字符，不含特殊字符）
func sheetName(workplace string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, workplace+" Schedule")
	name = strings.Trim(name, "'")

	runes := []rune(name)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	if len(runes) == 0 {
		return "Schedule"
	}
	return string(runes)
}

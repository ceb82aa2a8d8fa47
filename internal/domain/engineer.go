package domain

const (
	DefaultMinShifts = 10
	DefaultMaxShifts = 30
)

// Engineer 由调用方提供，本服务不维护工程师名册
type Engineer struct {
	Name        string              `json:"name"`
	Workplaces  []string            `json:"workplaces"`
	Limitations map[string][]string `json:"limitations"` // 日期 -> 不可值班的班次键
	MinShifts   int                 `json:"minShifts"`
	MaxShifts   int                 `json:"maxShifts"`
}

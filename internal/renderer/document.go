package renderer

import (
	"bytes"
	"io"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

type RowStatus int

const (
	RowOK RowStatus = iota
	RowDegraded
)

func (s RowStatus) String() string {
	switch s {
	case RowOK:
		return "ok"
	case RowDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Row 是某一天渲染后的结果，Degraded 行的 Reason 记录星期计算失败的原因
type Row struct {
	Day     int
	Status  RowStatus
	Reason  string
	Label   string
	Weekend bool
	Shifts  []string
}

// Document 是一个工作地点一个月的排班表，Diagnostic 非空时文档只包含这条错误信息
type Document struct {
	Workplace  string
	Year       int // 无法解析时为 0
	Month      int // 无法解析时为 0
	Filename   string
	Title      string
	Diagnostic string
	Rows       []Row

	shifts []domain.Shift
}

func (d *Document) DegradedRows() int {
	n := 0
	for _, row := range d.Rows {
		if row.Status == RowDegraded {
			n++
		}
	}
	return n
}

func (d *Document) Write(w io.Writer) error {
	f, err := d.build()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

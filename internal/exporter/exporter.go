package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/renderer"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Recorder 接收导出过程中的指标
type Recorder interface {
	RecordDocument(workplace string, diagnostic bool, degradedRows int)
	ObserveExport(d time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordDocument(string, bool, int) {}
func (noopRecorder) ObserveExport(time.Duration)      {}

type Diagnostic struct {
	Workplace string `json:"workplace"`
	Filename  string `json:"filename"`
	Message   string `json:"message"`
}

type Result struct {
	BatchID      string       `json:"batchID"`
	Year         string       `json:"year"`
	Month        string       `json:"month"`
	Files        []string     `json:"files"`
	Diagnostics  []Diagnostic `json:"diagnostics"`
	DegradedRows int          `json:"degradedRows"`
}

type Exporter struct {
	store      repository.ScheduleStore
	renderer   *renderer.Renderer
	artifacts  ArtifactStore
	workplaces []string
	recorder   Recorder
	logger     *slog.Logger
}

func New(
	store repository.ScheduleStore,
	r *renderer.Renderer,
	artifacts ArtifactStore,
	workplaces []string,
	recorder Recorder,
	logger *slog.Logger,
) *Exporter {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Exporter{
		store:      store,
		renderer:   r,
		artifacts:  artifacts,
		workplaces: workplaces,
		recorder:   recorder,
		logger:     logger,
	}
}

// Export 为每个工作地点生成一份排班表并保存，文件顺序与配置的工作地点顺序一致
func (e *Exporter) Export(rawYear, rawMonth string) (*Result, error) {
	start := time.Now()
	defer func() { e.recorder.ObserveExport(time.Since(start)) }()

	rawYear = strings.TrimSpace(rawYear)
	rawMonth = strings.TrimSpace(rawMonth)

	key, ok := parsePeriod(rawYear, rawMonth)

	var ws domain.WorkplaceSchedule
	if ok {
		stored, found, err := e.store.GetSchedule(key)
		if err != nil {
			return nil, fmt.Errorf("读取排班数据失败: %w", err)
		}
		if !found {
			return nil, domain.ErrMissingPeriod
		}
		ws = stored
	} else {
		// 年月无效时不读取存储，每个工作地点都生成一份错误说明文档
		e.logger.Warn("导出的年月无效", "year", rawYear, "month", rawMonth)
	}

	docs := make([]*renderer.Document, len(e.workplaces))
	g := errgroup.Group{}
	for i, workplace := range e.workplaces {
		g.Go(func() error {
			var doc *renderer.Document
			if ok {
				doc = e.renderer.Render(workplace, key.Year, key.Month, ws[workplace])
			} else {
				doc = e.renderer.RenderRaw(workplace, rawYear, rawMonth, nil)
			}

			data, err := doc.Bytes()
			if err != nil {
				return fmt.Errorf("%w: 生成 %s 失败: %w", domain.ErrStorageFailure, doc.Filename, err)
			}
			if err := e.artifacts.Put(doc.Filename, data); err != nil {
				return fmt.Errorf("%w: 保存 %s 失败: %w", domain.ErrStorageFailure, doc.Filename, err)
			}

			e.recorder.RecordDocument(workplace, doc.Diagnostic != "", doc.DegradedRows())
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		BatchID:     uuid.NewString(),
		Year:        rawYear,
		Month:       rawMonth,
		Files:       make([]string, 0, len(docs)),
		Diagnostics: []Diagnostic{},
	}
	for _, doc := range docs {
		result.Files = append(result.Files, doc.Filename)
		result.DegradedRows += doc.DegradedRows()
		if doc.Diagnostic != "" {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Workplace: doc.Workplace,
				Filename:  doc.Filename,
				Message:   doc.Diagnostic,
			})
		}
	}

	e.logger.Info("排班表导出完成", "batch", result.BatchID, "year", rawYear, "month", rawMonth, "files", len(result.Files), "diagnostics", len(result.Diagnostics))
	return result, nil
}

// Open 读取已导出的文件
func (e *Exporter) Open(name string) (io.ReadCloser, error) {
	return e.artifacts.Open(name)
}

func parsePeriod(rawYear, rawMonth string) (domain.PeriodKey, bool) {
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return domain.PeriodKey{}, false
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return domain.PeriodKey{}, false
	}
	return domain.PeriodKey{Year: year, Month: month}, true
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK         = "ok"
	OutcomeDiagnostic = "diagnostic"
	OutcomeFailed     = "failed"
)

// Metrics 记录导出与保存相关的 Prometheus 指标
type Metrics struct {
	documents    *prometheus.CounterVec
	degradedRows *prometheus.CounterVec
	saves        *prometheus.CounterVec
	exportTime   prometheus.Histogram
}

// New 在给定的 registerer 上注册指标，reg 为 nil 时使用默认 registerer，已注册过的指标会被复用
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	documents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_documents_rendered_total",
		Help: "Total number of rendered workplace documents",
	}, []string{"workplace", "outcome"})
	degradedRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_degraded_rows_total",
		Help: "Total number of day rows rendered with an error placeholder",
	}, []string{"workplace"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_saves_total",
		Help: "Total number of whole-period schedule saves",
	}, []string{"outcome"})
	exportTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_export_duration_seconds",
		Help:    "Time spent exporting all workplaces of a period",
		Buckets: prometheus.DefBuckets,
	})

	var err error
	if documents, err = register(reg, documents); err != nil {
		return nil, err
	}
	if degradedRows, err = register(reg, degradedRows); err != nil {
		return nil, err
	}
	if saves, err = register(reg, saves); err != nil {
		return nil, err
	}
	if exportTime, err = register(reg, exportTime); err != nil {
		return nil, err
	}

	return &Metrics{
		documents:    documents,
		degradedRows: degradedRows,
		saves:        saves,
		exportTime:   exportTime,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) RecordDocument(workplace string, diagnostic bool, degradedRows int) {
	if m == nil {
		return
	}

	outcome := OutcomeOK
	if diagnostic {
		outcome = OutcomeDiagnostic
	}
	m.documents.WithLabelValues(workplace, outcome).Inc()

	if degradedRows > 0 {
		m.degradedRows.WithLabelValues(workplace).Add(float64(degradedRows))
	}
}

func (m *Metrics) RecordSave(err error) {
	if m == nil {
		return
	}

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailed
	}
	m.saves.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveExport(d time.Duration) {
	if m == nil {
		return
	}
	m.exportTime.Observe(d.Seconds())
}

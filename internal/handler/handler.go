package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/exporter"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/notify"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/repository"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      repository.ScheduleStore
	exporter   *exporter.Exporter
	notifier   notify.Notifier
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	translator ut.Translator
	shifts     []domain.Shift
	now        func() time.Time

	Mux *chi.Mux
}

func NewHandler(
	cfg *config.Config,
	store repository.ScheduleStore,
	exp *exporter.Exporter,
	notifier notify.Notifier,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier = notify.Noop{}
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		exporter:   exp,
		notifier:   notifier,
		metrics:    m,
		gatherer:   gatherer,
		translator: trans,
		shifts:     domain.DefaultShifts,
		now:        time.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Route("/api", func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.SaveSchedule)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/auto-assign", h.AutoAssign)
		})

		r.Post("/generate_excel", h.GenerateExcel)
		r.Get("/download/{filename}", h.DownloadFile)
	})
}

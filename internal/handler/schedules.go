package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/utils"
)

type scheduleResponse struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	Workplaces domain.WorkplaceSchedule `json:"workplaces"`
}

// periodFromQuery 读取 year 和 month 参数，缺省时使用今天对应的伊历年月
func (h *Handler) periodFromQuery(r *http.Request) (domain.PeriodKey, error) {
	year, month, _ := calendar.FromGregorian(h.now())
	key := domain.PeriodKey{Year: year, Month: month}

	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return key, errors.New("无效的年份")
		}
		key.Year = n
	}
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			return key, errors.New("无效的月份")
		}
		key.Month = n
	}

	return key, nil
}

// loadSchedule 读取失败时返回空的排班并记录日志
func (h *Handler) loadSchedule(key domain.PeriodKey) domain.WorkplaceSchedule {
	ws, _, err := h.store.GetSchedule(key)
	if err != nil {
		slog.Error("读取排班数据失败，返回空排班", "period", key.String(), "error", err)
		return domain.WorkplaceSchedule{}
	}
	if ws == nil {
		return domain.WorkplaceSchedule{}
	}
	return ws
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	key, err := h.periodFromQuery(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班成功", scheduleResponse{
		Year:       key.Year,
		Month:      key.Month,
		Workplaces: h.loadSchedule(key),
	})
}

func (h *Handler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year       periodInt                `json:"year" validate:"required,min=1"`
		Month      periodInt                `json:"month" validate:"required,min=1,max=12"`
		Workplaces domain.WorkplaceSchedule `json:"workplaces"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateWorkplaceSchedule(req.Workplaces, h.config.Schedule.Workplaces, h.shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	key := domain.PeriodKey{Year: int(req.Year), Month: int(req.Month)}
	if req.Workplaces == nil {
		req.Workplaces = domain.WorkplaceSchedule{}
	}

	// 整个周期直接覆盖，后写入的请求生效
	err := h.store.SaveSchedule(key, req.Workplaces)
	h.metrics.RecordSave(err)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	workplaces := make([]string, 0, len(req.Workplaces))
	for _, workplace := range h.config.Schedule.Workplaces {
		if _, ok := req.Workplaces[workplace]; ok {
			workplaces = append(workplaces, workplace)
		}
	}
	savedBy, _ := r.Context().Value(SubCtxKey).(string)
	h.notifier.Notify(domain.MailMessage{
		Type: domain.MailTypeScheduleSaved,
		To:   h.config.Notify.To,
		Data: domain.ScheduleSavedMailData{
			Period:     key.String(),
			Workplaces: workplaces,
			SavedBy:    savedBy,
		},
	})

	h.successResponse(w, r, "保存排班成功", nil)
}

func (h *Handler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year       periodInt                `json:"year" validate:"required,min=1"`
		Month      periodInt                `json:"month" validate:"required,min=1,max=12"`
		Workplaces domain.WorkplaceSchedule `json:"workplaces"`
		Engineers  []domain.Engineer        `json:"engineers" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateWorkplaceSchedule(req.Workplaces, h.config.Schedule.Workplaces, h.shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateEngineers(req.Engineers, h.config.Schedule.Workplaces, h.shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	key := domain.PeriodKey{Year: int(req.Year), Month: int(req.Month)}

	// 没有传入当前排班时以已保存的排班为基础
	current := req.Workplaces
	if current == nil {
		current = h.loadSchedule(key)
	}

	s, err := scheduler.New(req.Engineers, h.config.Schedule.Workplaces, h.shifts)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	result, err := s.AutoAssign(key, current)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "自动排班成功", result)
}

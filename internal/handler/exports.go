package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/exporter"
)

func (h *Handler) GenerateExcel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year  periodValue `json:"year" validate:"required"`
		Month periodValue `json:"month" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := h.exporter.Export(string(req.Year), string(req.Month))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingPeriod):
			h.notFound(w, r, "所选时段没有排班数据")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifier.Notify(domain.MailMessage{
		Type: domain.MailTypeExportReady,
		To:   h.config.Notify.To,
		Data: domain.ExportReadyMailData{
			Period:  fmt.Sprintf("%s-%s", result.Year, result.Month),
			BatchID: result.BatchID,
			Files:   result.Files,
		},
	})

	h.successResponse(w, r, "生成排班表成功", result)
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !exporter.ValidArtifactName(filename) {
		h.notFound(w, r, "文件不存在")
		return
	}

	rc, err := h.exporter.Open(filename)
	if err != nil {
		switch {
		case errors.Is(err, exporter.ErrArtifactNotFound):
			h.notFound(w, r, "文件不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		// 响应头已经发送，只能记录日志
		slog.Error("发送文件失败", "filename", filename, "error", err)
	}
}

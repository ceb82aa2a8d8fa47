package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/exporter"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/renderer"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/repository"
	"github.com/xuri/excelize/v2"
)

const testSecret = "test-secret"

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []domain.MailMessage
}

func (n *fakeNotifier) Notify(msg domain.MailMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

type brokenStore struct{}

func (brokenStore) GetSchedule(domain.PeriodKey) (domain.WorkplaceSchedule, bool, error) {
	return domain.WorkplaceSchedule{}, false, domain.ErrStorageFailure
}

func (brokenStore) SaveSchedule(domain.PeriodKey, domain.WorkplaceSchedule) error {
	return domain.ErrStorageFailure
}

type testServer struct {
	handler  *Handler
	store    repository.ScheduleStore
	notifier *fakeNotifier
}

func newTestServer(t *testing.T, store repository.ScheduleStore) *testServer {
	t.Helper()

	dir := t.TempDir()
	if store == nil {
		fileStore, err := repository.NewFileStore(filepath.Join(dir, "schedules.json"))
		require.NoError(t, err)
		store = fileStore
	}
	artifacts, err := exporter.NewLocalArtifacts(filepath.Join(dir, "data"))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Schedule.Workplaces = domain.DefaultWorkplaces
	cfg.Notify.To = "ops@example.com"

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := renderer.New(calendar.NewConverter(calendar.DefaultNames), domain.DefaultShifts, logger)
	exp := exporter.New(store, r, artifacts, cfg.Schedule.Workplaces, m, logger)

	notifier := &fakeNotifier{}
	h, err := NewHandler(cfg, store, exp, notifier, m, reg)
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC) }
	h.RegisterRoutes()

	return &testServer{handler: h, store: store, notifier: notifier}
}

func signToken(t *testing.T, role domain.Role, secret string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	ss, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return ss
}

func (s *testServer) do(t *testing.T, method, path string, role domain.Role, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if role != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: signToken(t, role, testSecret)})
	}

	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) Response {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return Response{Success: resp.Success, Message: resp.Message}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/schedule?year=1402&month=1", "", nil)
	resp := decodeResponse(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)
}

func TestAuthRejectsForeignSignature(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, domain.RoleAdmin, "other-secret"))
	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	resp := decodeResponse(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的令牌", resp.Message)
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/schedule?year=1402&month=1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, domain.RoleUser, testSecret))
	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	assert.True(t, decodeResponse(t, rec, nil).Success)
}

func TestGetScheduleDefaultsToToday(t *testing.T) {
	s := newTestServer(t, nil)

	var data scheduleResponse
	rec := s.do(t, http.MethodGet, "/api/schedule", domain.RoleUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec, &data).Success)

	// 2026-10-14 对应伊历 1405 年 7 月 22 日
	assert.Equal(t, 1405, data.Year)
	assert.Equal(t, 7, data.Month)
	assert.Empty(t, data.Workplaces)
}

func TestGetScheduleInvalidQuery(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/schedule?year=1402&month=13", domain.RoleUser, nil)
	assert.False(t, decodeResponse(t, rec, nil).Success)
}

func TestGetScheduleDegradesOnReadFailure(t *testing.T) {
	s := newTestServer(t, brokenStore{})

	var data scheduleResponse
	rec := s.do(t, http.MethodGet, "/api/schedule?year=1402&month=1", domain.RoleUser, nil)
	assert.True(t, decodeResponse(t, rec, &data).Success)
	assert.NotNil(t, data.Workplaces)
	assert.Empty(t, data.Workplaces)
}

func TestSaveAndGetSchedule(t *testing.T) {
	s := newTestServer(t, nil)
	workplaces := domain.WorkplaceSchedule{"Nodal": {"1": {"shift1": "Ali"}}}

	rec := s.do(t, http.MethodPost, "/api/schedule", domain.RoleAdmin, map[string]any{
		"year": 1402, "month": "1", "workplaces": workplaces,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeResponse(t, rec, nil).Success)

	var data scheduleResponse
	rec = s.do(t, http.MethodGet, "/api/schedule?year=1402&month=1", domain.RoleUser, nil)
	assert.True(t, decodeResponse(t, rec, &data).Success)
	assert.Equal(t, workplaces, data.Workplaces)

	require.Len(t, s.notifier.msgs, 1)
	assert.Equal(t, domain.MailTypeScheduleSaved, s.notifier.msgs[0].Type)
	assert.Equal(t, "ops@example.com", s.notifier.msgs[0].To)
	saved := s.notifier.msgs[0].Data.(domain.ScheduleSavedMailData)
	assert.Equal(t, "1402-1", saved.Period)
	assert.Equal(t, []string{"Nodal"}, saved.Workplaces)
	assert.Equal(t, "42", saved.SavedBy)
}

func TestSaveScheduleRequiresAdmin(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/schedule", domain.RoleUser, map[string]any{
		"year": 1402, "month": 1, "workplaces": map[string]any{},
	})
	resp := decodeResponse(t, rec, nil)
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)

	_, found, err := s.store.GetSchedule(domain.PeriodKey{Year: 1402, Month: 1})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveScheduleValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "month 13", body: map[string]any{"year": 1402, "month": 13}},
		{name: "missing year", body: map[string]any{"month": 1}},
		{name: "non numeric", body: map[string]any{"year": "abc", "month": 1}},
		{name: "unknown workplace", body: map[string]any{"year": 1402, "month": 1, "workplaces": map[string]any{"Basement": map[string]any{}}}},
		{name: "unknown shift", body: map[string]any{"year": 1402, "month": 1, "workplaces": map[string]any{"Nodal": map[string]any{"1": map[string]string{"shift9": "Ali"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/schedule", domain.RoleAdmin, tt.body)
			assert.False(t, decodeResponse(t, rec, nil).Success)
		})
	}
	assert.Empty(t, s.notifier.msgs)
}

func TestSaveScheduleStorageFailure(t *testing.T) {
	s := newTestServer(t, brokenStore{})

	rec := s.do(t, http.MethodPost, "/api/schedule", domain.RoleAdmin, map[string]any{
		"year": 1402, "month": 1, "workplaces": map[string]any{},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, s.notifier.msgs)
}

func TestAutoAssign(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.store.SaveSchedule(domain.PeriodKey{Year: 1402, Month: 7}, domain.WorkplaceSchedule{
		"Nodal": {"1": {"shift1": "Reza"}},
	}))

	var data struct {
		Schedule domain.WorkplaceSchedule `json:"schedule"`
		Counts   map[string]int           `json:"counts"`
		Assigned int                      `json:"assigned"`
	}
	rec := s.do(t, http.MethodPost, "/api/schedule/auto-assign", domain.RoleAdmin, map[string]any{
		"year":  1402,
		"month": 7,
		"engineers": []domain.Engineer{
			{Name: "Ali", Workplaces: []string{"Nodal"}},
		},
	})
	require.True(t, decodeResponse(t, rec, &data).Success)

	assert.Equal(t, "Reza", data.Schedule["Nodal"]["1"]["shift1"])
	assert.Equal(t, "Ali", data.Schedule["Nodal"]["1"]["shift2"])
	assert.Equal(t, domain.DefaultMaxShifts, data.Counts["Ali"])
	assert.Equal(t, domain.DefaultMaxShifts, data.Assigned)

	// 自动排班的结果不会被保存
	stored, _, err := s.store.GetSchedule(domain.PeriodKey{Year: 1402, Month: 7})
	require.NoError(t, err)
	assert.Len(t, stored["Nodal"], 1)
}

func TestAutoAssignRequiresEngineers(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/schedule/auto-assign", domain.RoleAdmin, map[string]any{
		"year": 1402, "month": 7, "engineers": []domain.Engineer{},
	})
	assert.False(t, decodeResponse(t, rec, nil).Success)
}

func TestGenerateExcelAndDownload(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.store.SaveSchedule(domain.PeriodKey{Year: 1402, Month: 1}, domain.WorkplaceSchedule{
		"Studio Press": {"1": {"shift1": "Ali"}},
	}))

	var result exporter.Result
	rec := s.do(t, http.MethodPost, "/api/generate_excel", domain.RoleUser, map[string]any{"year": "1402", "month": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeResponse(t, rec, &result).Success)

	assert.Equal(t, []string{
		"Studio_Hispan_1402_1.xlsx",
		"Studio_Press_1402_1.xlsx",
		"Nodal_1402_1.xlsx",
		"Engineer_Room_1402_1.xlsx",
	}, result.Files)
	require.Len(t, s.notifier.msgs, 1)
	assert.Equal(t, domain.MailTypeExportReady, s.notifier.msgs[0].Type)

	rec = s.do(t, http.MethodGet, "/api/download/Studio_Press_1402_1.xlsx", domain.RoleUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Studio_Press_1402_1.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Studio Press Schedule", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Ali", v)
}

func TestGenerateExcelMissingPeriod(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/generate_excel", domain.RoleUser, map[string]any{"year": 1402, "month": 2})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeResponse(t, rec, nil).Success)
	assert.Empty(t, s.notifier.msgs)
}

func TestGenerateExcelInvalidMonth(t *testing.T) {
	s := newTestServer(t, nil)

	var result exporter.Result
	rec := s.do(t, http.MethodPost, "/api/generate_excel", domain.RoleUser, map[string]any{"year": 1402, "month": 13})
	require.True(t, decodeResponse(t, rec, &result).Success)
	assert.Len(t, result.Files, 4)
	assert.Len(t, result.Diagnostics, 4)
}

func TestDownloadRejectsBadNames(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{
		"/api/download/missing.xlsx",
		"/api/download/schedules.json",
		"/api/download/..%2Fschedules.json",
	} {
		rec := s.do(t, http.MethodGet, path, domain.RoleUser, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	s.do(t, http.MethodPost, "/api/schedule", domain.RoleAdmin, map[string]any{
		"year": 1402, "month": 1, "workplaces": map[string]any{},
	})

	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "schedule_saves_total"))
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

// CachedStore 在任意 ScheduleStore 之前加一层 redis 读缓存，缓存出错时只记录日志
type CachedStore struct {
	next      ScheduleStore
	rdb       redis.Cmdable
	ttl       time.Duration
	opTimeout time.Duration
}

func NewCachedStore(next ScheduleStore, rdb redis.Cmdable, ttl time.Duration, opTimeout time.Duration) *CachedStore {
	return &CachedStore{
		next:      next,
		rdb:       rdb,
		ttl:       ttl,
		opTimeout: opTimeout,
	}
}

func cacheKey(key domain.PeriodKey) string {
	return fmt.Sprintf("schedule:%s", key.String())
}

func (s *CachedStore) GetSchedule(key domain.PeriodKey) (domain.WorkplaceSchedule, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	raw, err := s.rdb.Get(ctx, cacheKey(key)).Bytes()
	switch {
	case err == nil:
		ws := domain.WorkplaceSchedule{}
		if err := json.Unmarshal(raw, &ws); err == nil {
			return ws, true, nil
		}
		slog.Warn("排班缓存已损坏，回源读取", "period", key.String())
	case errors.Is(err, redis.Nil):
		// 缓存未命中
	default:
		slog.Warn("读取排班缓存失败", "period", key.String(), "error", err)
	}

	ws, found, err := s.next.GetSchedule(key)
	if err != nil || !found {
		// 不存在的周期不写入缓存，避免首次保存前缓存空值
		return ws, found, err
	}

	s.put(key, ws)
	return ws, true, nil
}

// SaveSchedule 写入底层存储后删除缓存，由下一次读取回填
// 并发保存时缓存不会保留先完成写入的那一份
func (s *CachedStore) SaveSchedule(key domain.PeriodKey, ws domain.WorkplaceSchedule) error {
	err := s.next.SaveSchedule(key, ws)
	s.invalidate(key)
	return err
}

func (s *CachedStore) invalidate(key domain.PeriodKey) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, cacheKey(key)).Err(); err != nil {
		slog.Warn("删除排班缓存失败", "period", key.String(), "error", err)
	}
}

func (s *CachedStore) put(key domain.PeriodKey, ws domain.WorkplaceSchedule) {
	raw, err := json.Marshal(ws)
	if err != nil {
		slog.Warn("序列化排班缓存失败", "period", key.String(), "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, cacheKey(key), raw, s.ttl).Err(); err != nil {
		slog.Warn("写入排班缓存失败", "period", key.String(), "error", err)
		s.invalidate(key)
	}
}

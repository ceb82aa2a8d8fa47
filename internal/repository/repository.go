package repository

import (
	"database/sql"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

// ScheduleStore 按周期整体读写排班，保存时整体替换而不是合并
type ScheduleStore interface {
	// GetSchedule 在周期不存在时返回空的排班和 false，而不是错误
	GetSchedule(key domain.PeriodKey) (domain.WorkplaceSchedule, bool, error)
	SaveSchedule(key domain.PeriodKey, ws domain.WorkplaceSchedule) error
}

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

package seed

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/utils"
)

// ImportDocument 读取 {"1402-1": {...}} 形式的排班文档，逐个周期写入 store
// 无法解析的周期键会被跳过，返回成功写入的周期数
func ImportDocument(store repository.ScheduleStore, r io.Reader) (int, error) {
	doc := domain.ScheduleDocument{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("无法解析排班文档: %w", err)
	}

	// 按周期键排序，使导入过程的日志顺序稳定
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cnt := 0
	for _, k := range keys {
		key, err := domain.ParsePeriodKey(k)
		if err != nil {
			slog.Warn("跳过无效的周期键", "key", k, "error", err)
			continue
		}

		if err := store.SaveSchedule(key, doc[k]); err != nil {
			return cnt, err
		}
		cnt++
	}

	return cnt, nil
}

func ImportFile(store repository.ScheduleStore, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return ImportDocument(store, file)
}

// SeedRandomPeriods 为 year 年的 fromMonth ~ toMonth 月生成随机排班并写入 store
func SeedRandomPeriods(store repository.ScheduleStore, year, fromMonth, toMonth int, workplaces []string, engineerCount int, fillRatio float64) (int, error) {
	if fromMonth < 1 || toMonth > 12 || fromMonth > toMonth {
		return 0, fmt.Errorf("无效的月份范围 %d~%d", fromMonth, toMonth)
	}
	if engineerCount <= 0 {
		return 0, fmt.Errorf("工程师数量必须大于 0")
	}

	engineers := utils.GenerateRandomEngineers(engineerCount, workplaces, domain.DefaultShifts)

	cnt := 0
	for month := fromMonth; month <= toMonth; month++ {
		key := domain.PeriodKey{Year: year, Month: month}

		ws, err := utils.GenerateRandomWorkplaceSchedule(key, workplaces, engineers, domain.DefaultShifts, fillRatio)
		if err != nil {
			return cnt, err
		}
		if err := store.SaveSchedule(key, ws); err != nil {
			return cnt, err
		}

		slog.Info("已生成随机排班", "period", key.String())
		cnt++
	}

	return cnt, nil
}

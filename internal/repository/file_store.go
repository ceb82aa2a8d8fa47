package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sysu-ecnc-dev/shift-sheet/backend/internal/domain"
)

const filePermissions = 0o644

// FileStore 将整个 ScheduleDocument 保存为一个 JSON 文件，键为 "{year}-{month}"
type FileStore struct {
	path string
	mu   sync.Mutex // 保护读-改-写过程，避免不同周期的并发保存互相覆盖
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("排班文件路径不能为空")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) load() (domain.ScheduleDocument, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ScheduleDocument{}, nil
		}
		return nil, err
	}

	doc := domain.ScheduleDocument{}
	if len(content) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *FileStore) persist(doc domain.ScheduleDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	// 先写临时文件再重命名，写入中途失败不会破坏其他周期的数据
	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, filePermissions); err != nil {
		return err
	}

	return os.Rename(tmpFile, s.path)
}

func (s *FileStore) GetSchedule(key domain.PeriodKey) (domain.WorkplaceSchedule, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return domain.WorkplaceSchedule{}, false, fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	ws, ok := doc[key.String()]
	if !ok {
		return domain.WorkplaceSchedule{}, false, nil
	}
	if ws == nil {
		ws = domain.WorkplaceSchedule{}
	}

	return ws, true, nil
}

func (s *FileStore) SaveSchedule(key domain.PeriodKey, ws domain.WorkplaceSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	if ws == nil {
		ws = domain.WorkplaceSchedule{}
	}
	doc[key.String()] = ws

	if err := s.persist(doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	return nil
}

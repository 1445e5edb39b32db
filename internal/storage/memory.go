package storage

import (
	"context"
	"sync"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
)

// Memory реализует Storage в памяти. Используется в тестах и при запуске
// без строки подключения к БД.
type Memory struct {
	mu      sync.RWMutex
	records map[int64]*models.UserRecord
	config  *models.Config
}

// NewMemory создаёт новое хранилище в памяти.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[int64]*models.UserRecord),
	}
}

// LoadUserRecord возвращает копию записи пользователя.
func (s *Memory) LoadUserRecord(ctx context.Context, userID int64) (*models.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyRecord(s.records[userID]), nil
}

// SaveUserRecord применяет частичное обновление записи пользователя.
func (s *Memory) SaveUserRecord(ctx context.Context, userID int64, patch UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		rec = &models.UserRecord{Status: models.StatusMap{}}
		s.records[userID] = rec
	}

	applyPatch(rec, patch)

	return nil
}

// UserStatuses возвращает статусы всех пользователей.
func (s *Memory) UserStatuses(ctx context.Context) (map[int64]models.StatusMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make(map[int64]models.StatusMap, len(s.records))
	for userID, rec := range s.records {
		if len(rec.Status) == 0 {
			continue
		}

		statuses[userID] = rec.Status.Clone()
	}

	return statuses, nil
}

// LoadConfig возвращает копию конфигурации или nil, если она не сохранялась.
func (s *Memory) LoadConfig(ctx context.Context) (*models.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config.Clone(), nil
}

// SaveConfig сохраняет копию конфигурации.
func (s *Memory) SaveConfig(ctx context.Context, cfg *models.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = cfg.Clone()

	return nil
}

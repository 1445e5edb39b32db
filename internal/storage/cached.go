package storage

import (
	"context"
	"sync"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
)

// Cached оборачивает Storage сквозным кэшем. Чтение гидрирует кэш из
// нижележащего хранилища один раз на ключ; запись сначала уходит в хранилище
// и попадает в кэш только после её успеха — копия в памяти никогда не
// опережает то, что было сохранено.
type Cached struct {
	inner Storage

	mu     sync.Mutex
	users  map[int64]*models.UserRecord
	config *models.Config
	hasCfg bool
}

// NewCached создаёт кэширующую обёртку над хранилищем.
func NewCached(inner Storage) *Cached {
	return &Cached{
		inner: inner,
		users: make(map[int64]*models.UserRecord),
	}
}

// LoadUserRecord возвращает запись из кэша, при холодном старте читает её
// из хранилища.
func (c *Cached) LoadUserRecord(ctx context.Context, userID int64) (*models.UserRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.users[userID]; ok {
		return copyRecord(rec), nil
	}

	rec, err := c.inner.LoadUserRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.users[userID] = copyRecord(rec)

	return copyRecord(rec), nil
}

// SaveUserRecord пишет в хранилище и при успехе обновляет кэш.
func (c *Cached) SaveUserRecord(ctx context.Context, userID int64, patch UserPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.inner.SaveUserRecord(ctx, userID, patch); err != nil {
		return err
	}

	if rec, ok := c.users[userID]; ok {
		applyPatch(rec, patch)
	}

	return nil
}

// UserStatuses всегда читает из хранилища: кэш наполняется по одному
// пользователю и полной картины не имеет.
func (c *Cached) UserStatuses(ctx context.Context) (map[int64]models.StatusMap, error) {
	return c.inner.UserStatuses(ctx)
}

// LoadConfig возвращает конфигурацию из кэша, при холодном старте читает её
// из хранилища.
func (c *Cached) LoadConfig(ctx context.Context) (*models.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasCfg {
		return c.config.Clone(), nil
	}

	cfg, err := c.inner.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	c.config = cfg.Clone()
	c.hasCfg = true

	return cfg.Clone(), nil
}

// SaveConfig пишет конфигурацию в хранилище и при успехе обновляет кэш.
func (c *Cached) SaveConfig(ctx context.Context, cfg *models.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.inner.SaveConfig(ctx, cfg); err != nil {
		return err
	}

	c.config = cfg.Clone()
	c.hasCfg = true

	return nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

// Ключ единственной строки конфигурации.
const configKey = "bot_config"

// Таблицы хранят JSON-документы: одна строка на пользователя на вид записи
// и одна строка конфигурации.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS user_status (
		user_id BIGINT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_quiz_progress (
		user_id BIGINT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_training_progress (
		user_id BIGINT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bot_config (
		config_type TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Storage реализует storage.Storage поверх PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage подключается к БД по dsn.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

// EnsureSchema создаёт таблицы, если их нет.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.pool.Close()
}

// LoadUserRecord собирает запись пользователя из трёх таблиц.
// Отсутствующие строки дают пустые поля, а не ошибку.
func (s *Storage) LoadUserRecord(ctx context.Context, userID int64) (*models.UserRecord, error) {
	rec := &models.UserRecord{Status: models.StatusMap{}}

	raw, err := s.loadPayload(ctx, "user_status", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status of user %d: %w", userID, err)
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to decode status of user %d: %w", userID, err)
		}
	}

	raw, err = s.loadPayload(ctx, "user_quiz_progress", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz progress of user %d: %w", userID, err)
	}
	if raw != nil {
		rec.Quiz = &models.QuizProgress{}
		if err := json.Unmarshal(raw, rec.Quiz); err != nil {
			return nil, fmt.Errorf("failed to decode quiz progress of user %d: %w", userID, err)
		}
	}

	raw, err = s.loadPayload(ctx, "user_training_progress", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load training progress of user %d: %w", userID, err)
	}
	if raw != nil {
		rec.Training = &models.TrainingProgress{}
		if err := json.Unmarshal(raw, rec.Training); err != nil {
			return nil, fmt.Errorf("failed to decode training progress of user %d: %w", userID, err)
		}
	}

	return rec, nil
}

// SaveUserRecord применяет частичное обновление: upsert для значений,
// delete для очищаемых полей прогресса.
func (s *Storage) SaveUserRecord(ctx context.Context, userID int64, patch storage.UserPatch) error {
	if patch.Status != nil {
		if err := s.upsertPayload(ctx, "user_status", userID, *patch.Status); err != nil {
			return fmt.Errorf("failed to save status of user %d: %w", userID, err)
		}
	}

	if patch.SetQuiz {
		if err := s.upsertOrDelete(ctx, "user_quiz_progress", userID, patch.Quiz); err != nil {
			return fmt.Errorf("failed to save quiz progress of user %d: %w", userID, err)
		}
	}

	if patch.SetTraining {
		if err := s.upsertOrDelete(ctx, "user_training_progress", userID, patch.Training); err != nil {
			return fmt.Errorf("failed to save training progress of user %d: %w", userID, err)
		}
	}

	return nil
}

// UserStatuses возвращает статусы всех пользователей.
func (s *Storage) UserStatuses(ctx context.Context) (map[int64]models.StatusMap, error) {
	query := `SELECT user_id, payload FROM user_status`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load user statuses: %w", err)
	}
	defer rows.Close()

	statuses := make(map[int64]models.StatusMap)
	for rows.Next() {
		var (
			userID int64
			raw    []byte
		)
		if err := rows.Scan(&userID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan user status row: %w", err)
		}

		status := models.StatusMap{}
		if err := json.Unmarshal(raw, &status); err != nil {
			return nil, fmt.Errorf("failed to decode status of user %d: %w", userID, err)
		}

		statuses[userID] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user statuses: %w", err)
	}

	return statuses, nil
}

// LoadConfig возвращает сохранённую конфигурацию или nil, если её нет.
func (s *Storage) LoadConfig(ctx context.Context) (*models.Config, error) {
	query := `SELECT payload FROM bot_config WHERE config_type = $1`

	var raw []byte
	err := s.pool.QueryRow(ctx, query, configKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := &models.Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// SaveConfig сохраняет конфигурацию целиком.
func (s *Storage) SaveConfig(ctx context.Context, cfg *models.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	query := `
	INSERT INTO bot_config (config_type, payload, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (config_type) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, configKey, raw); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// loadPayload читает JSON-документ пользователя из таблицы table.
// Возвращает nil без ошибки, если строки нет.
func (s *Storage) loadPayload(ctx context.Context, table string, userID int64) ([]byte, error) {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE user_id = $1`, table)

	var raw []byte
	err := s.pool.QueryRow(ctx, query, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return raw, nil
}

// upsertPayload сохраняет JSON-документ пользователя в таблицу table.
func (s *Storage) upsertPayload(ctx context.Context, table string, userID int64, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (user_id, payload, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, table)

	_, err = s.pool.Exec(ctx, query, userID, raw)

	return err
}

// upsertOrDelete сохраняет документ или удаляет строку при nil значении.
func (s *Storage) upsertOrDelete(ctx context.Context, table string, userID int64, value interface{}) error {
	deletable := value == nil
	switch v := value.(type) {
	case *models.QuizProgress:
		deletable = v == nil
	case *models.TrainingProgress:
		deletable = v == nil
	}

	if deletable {
		query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table)
		_, err := s.pool.Exec(ctx, query, userID)

		return err
	}

	return s.upsertPayload(ctx, table, userID, value)
}

package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

// Service владеет конфигурацией бота. Конфигурация читается из хранилища один
// раз при старте, дополняется дефолтами и дальше живёт в памяти. Каждая
// мутация сначала сохраняется в хранилище и только после успеха заменяет
// снимок в памяти.
type Service struct {
	store storage.Storage

	mu  sync.RWMutex
	cfg *models.Config
}

// Load читает конфигурацию из хранилища и накладывает дефолты.
func Load(ctx context.Context, store storage.Storage) (*Service, error) {
	cfg, err := store.LoadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg == nil {
		cfg = &models.Config{}
	}

	ApplyDefaults(cfg)

	return &Service{store: store, cfg: cfg}, nil
}

// Update применяет мутацию к копии конфигурации, сохраняет её и при успехе
// заменяет снимок в памяти. При ошибке сохранения снимок остаётся прежним.
func (s *Service) Update(ctx context.Context, mutate func(cfg *models.Config)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.Clone()
	mutate(next)

	if err := s.store.SaveConfig(ctx, next); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	s.cfg = next

	return nil
}

// OnboardingSteps возвращает шаги онбординга роли.
func (s *Service) OnboardingSteps(role roles.Role) []models.OnboardingStep {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.OnboardingStep(nil), s.cfg.Onboarding[string(role)]...)
}

// Questions возвращает вопросы квиза роли.
func (s *Service) Questions(role roles.Role) []models.QuizQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.QuizQuestion(nil), s.cfg.Quizzes[string(role)]...)
}

// Resources возвращает ссылки на ресурсы роли.
func (s *Service) Resources(role roles.Role) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.cfg.Resources[string(role)]...)
}

// Scenarios возвращает ветвящиеся сценарии роли.
func (s *Service) Scenarios(role roles.Role) []models.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Scenario(nil), s.cfg.Scenarios[string(role)]...)
}

// AnnounceChat возвращает чат для объявлений, 0 — чат не настроен.
func (s *Service) AnnounceChat() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg.AnnounceChat
}

// VacancyChat возвращает чат для объявлений о вакансиях, 0 — чат не настроен.
func (s *Service) VacancyChat() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg.VacancyChat
}

// Vacancies возвращает копию состояния вакансий.
func (s *Service) Vacancies() models.VacancyState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := s.cfg.Clone()

	return clone.Vacancies
}

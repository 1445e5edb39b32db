package vacancy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
)

// Ошибки сервиса вакансий.
var (
	ErrNotFound       = errors.New("position not found")
	ErrInvalidPage    = errors.New("page out of range")
	ErrAlreadyApplied = errors.New("already applied to position")
)

// PerPage — размер страницы списка вакансий.
const PerPage = 5

// Service управляет вакансиями и откликами. Состояние живёт в общей
// конфигурации, все мутации идут через config.Service.Update и потому
// сохраняются до замены снимка в памяти.
type Service struct {
	cfg *config.Service
}

// New создаёт сервис вакансий.
func New(cfg *config.Service) *Service {
	return &Service{cfg: cfg}
}

// Input — поля новой вакансии.
type Input struct {
	Title        string
	Department   string
	Description  string
	Requirements []string
	Salary       string
	Type         string
	Location     string
	Deadline     string
}

// Update — частичное обновление вакансии: nil-поля не трогаются.
type Update struct {
	Title        *string
	Department   *string
	Description  *string
	Requirements *[]string
	Salary       *string
	Type         *string
	Location     *string
	Deadline     *string
	Status       *string
}

// Filter — фильтры списка вакансий. Пустое поле не фильтрует.
// Департамент сравнивается по подстроке без учёта регистра,
// тип и локация — по точному совпадению без учёта регистра.
type Filter struct {
	Department string
	Type       string
	Location   string
}

// Page — одна страница списка вакансий.
type Page struct {
	Positions []models.Position
	Number    int
	Pages     int
	Total     int
}

// Add создаёт вакансию и возвращает её запись.
func (s *Service) Add(ctx context.Context, createdBy int64, input Input) (models.Position, error) {
	position := models.Position{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Department:   input.Department,
		Description:  input.Description,
		Requirements: append([]string(nil), input.Requirements...),
		Salary:       input.Salary,
		Type:         input.Type,
		Location:     input.Location,
		Deadline:     input.Deadline,
		CreatedAt:    time.Now().UTC(),
		CreatedBy:    createdBy,
		Status:       models.PositionActive,
	}

	err := s.cfg.Update(ctx, func(cfg *models.Config) {
		cfg.Vacancies.Positions[position.ID] = position
	})
	if err != nil {
		return models.Position{}, fmt.Errorf("failed to add position: %w", err)
	}

	return position, nil
}

// Edit применяет частичное обновление к вакансии.
func (s *Service) Edit(ctx context.Context, id string, update Update) (models.Position, error) {
	var edited models.Position

	err := s.cfg.Update(ctx, func(cfg *models.Config) {
		position, ok := cfg.Vacancies.Positions[id]
		if !ok {
			return
		}

		applyUpdate(&position, update)
		cfg.Vacancies.Positions[id] = position
		edited = position
	})
	if err != nil {
		return models.Position{}, fmt.Errorf("failed to edit position %s: %w", id, err)
	}

	if edited.ID == "" {
		return models.Position{}, ErrNotFound
	}

	return edited, nil
}

// Delete удаляет вакансию вместе с откликами на неё.
func (s *Service) Delete(ctx context.Context, id string) error {
	found := false

	err := s.cfg.Update(ctx, func(cfg *models.Config) {
		if _, ok := cfg.Vacancies.Positions[id]; !ok {
			return
		}

		found = true
		delete(cfg.Vacancies.Positions, id)
		delete(cfg.Vacancies.Applications, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete position %s: %w", id, err)
	}

	if !found {
		return ErrNotFound
	}

	return nil
}

// Get возвращает вакансию по идентификатору.
func (s *Service) Get(id string) (models.Position, error) {
	state := s.cfg.Vacancies()

	position, ok := state.Positions[id]
	if !ok {
		return models.Position{}, ErrNotFound
	}

	return position, nil
}

// Apply записывает отклик пользователя на активную вакансию.
// Повторный отклик того же пользователя отклоняется.
func (s *Service) Apply(ctx context.Context, positionID string, userID int64, message string) error {
	found := false
	duplicate := false

	err := s.cfg.Update(ctx, func(cfg *models.Config) {
		position, ok := cfg.Vacancies.Positions[positionID]
		if !ok || position.Status != models.PositionActive {
			return
		}

		found = true
		for _, app := range cfg.Vacancies.Applications[positionID] {
			if app.UserID == userID {
				duplicate = true
				return
			}
		}

		cfg.Vacancies.Applications[positionID] = append(
			cfg.Vacancies.Applications[positionID],
			models.Application{
				PositionID:  positionID,
				UserID:      userID,
				Message:     message,
				SubmittedAt: time.Now().UTC(),
			},
		)
	})
	if err != nil {
		return fmt.Errorf("failed to apply to position %s: %w", positionID, err)
	}

	if !found {
		return ErrNotFound
	}
	if duplicate {
		return ErrAlreadyApplied
	}

	return nil
}

// Applications возвращает отклики на вакансию.
func (s *Service) Applications(positionID string) []models.Application {
	state := s.cfg.Vacancies()

	return state.Applications[positionID]
}

// List возвращает страницу активных вакансий, отсортированных от новых к
// старым. Номер страницы начинается с единицы; пустой список даёт одну
// пустую страницу.
func (s *Service) List(filter Filter, page int) (Page, error) {
	state := s.cfg.Vacancies()

	matched := make([]models.Position, 0, len(state.Positions))
	for _, position := range state.Positions {
		if position.Status != models.PositionActive {
			continue
		}
		if !matches(position, filter) {
			continue
		}

		matched = append(matched, position)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	pages := (len(matched) + PerPage - 1) / PerPage
	if pages == 0 {
		pages = 1
	}

	if page < 1 || page > pages {
		return Page{}, ErrInvalidPage
	}

	start := (page - 1) * PerPage
	end := start + PerPage
	if end > len(matched) {
		end = len(matched)
	}

	return Page{
		Positions: matched[start:end],
		Number:    page,
		Pages:     pages,
		Total:     len(matched),
	}, nil
}

// Announcement собирает текст объявления вакансии для канала.
func Announcement(p models.Position) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📢 **New Vacancy: %s**\n\n", p.Title)
	fmt.Fprintf(&b, "**Department:** %s\n", p.Department)
	fmt.Fprintf(&b, "**Type:** %s | **Location:** %s\n", p.Type, p.Location)
	if p.Salary != "" {
		fmt.Fprintf(&b, "**Salary:** %s\n", p.Salary)
	}
	fmt.Fprintf(&b, "\n%s\n", p.Description)
	if len(p.Requirements) > 0 {
		b.WriteString("\n**Requirements:**\n")
		for _, req := range p.Requirements {
			fmt.Fprintf(&b, "• %s\n", req)
		}
	}
	if p.Deadline != "" {
		fmt.Fprintf(&b, "\n**Apply before:** %s\n", p.Deadline)
	}
	fmt.Fprintf(&b, "\nApply with /vacancies apply %s", p.ID)

	return b.String()
}

// Summary собирает краткую строку вакансии для списка.
func Summary(p models.Position) string {
	return fmt.Sprintf("**%s** — %s (%s, %s)\n`%s`", p.Title, p.Department, p.Type, p.Location, p.ID)
}

func applyUpdate(p *models.Position, u Update) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Department != nil {
		p.Department = *u.Department
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Requirements != nil {
		p.Requirements = append([]string(nil), *u.Requirements...)
	}
	if u.Salary != nil {
		p.Salary = *u.Salary
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.Deadline != nil {
		p.Deadline = *u.Deadline
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
}

func matches(p models.Position, f Filter) bool {
	if f.Department != "" &&
		!strings.Contains(strings.ToLower(p.Department), strings.ToLower(f.Department)) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(p.Type, f.Type) {
		return false
	}
	if f.Location != "" && !strings.EqualFold(p.Location, f.Location) {
		return false
	}

	return true
}

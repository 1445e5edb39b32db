package models

import (
	"encoding/json"
	"time"
)

// Файл с моделями, которые разделяют хранилище, драйверы и бот.
// Все структуры сериализуются в JSON и хранятся в БД как документы.

// RoleStatus описывает статус пользователя по одной роли.
// Три флага независимы: прохождение онбординга само по себе не сертифицирует,
// сертификация выставляется только при сдаче квиза. Инвариант: Certified => Quiz.
type RoleStatus struct {
	Onboarding bool `json:"onboarding"`
	Quiz       bool `json:"quiz"`
	Certified  bool `json:"certified"`
}

// StatusMap хранит статусы пользователя по идентификаторам ролей.
type StatusMap map[string]RoleStatus

// Clone возвращает глубокую копию карты статусов.
func (m StatusMap) Clone() StatusMap {
	if m == nil {
		return nil
	}

	clone := make(StatusMap, len(m))
	for role, status := range m {
		clone[role] = status
	}

	return clone
}

// TrainingProgress — курсор активной сессии онбординга.
// Отсутствие записи означает, что сессии нет.
type TrainingProgress struct {
	Role string `json:"role"`
	Step int    `json:"step"`
}

// QuizProgress — курсор активной сессии квиза.
// Инварианты: 0 <= Question <= len(questions), 0 <= Correct <= Question.
type QuizProgress struct {
	Role     string `json:"role"`
	Question int    `json:"q"`
	Correct  int    `json:"correct"`
}

// UserRecord объединяет все долговременные данные одного пользователя.
type UserRecord struct {
	Status   StatusMap
	Quiz     *QuizProgress
	Training *TrainingProgress
}

// OnboardingStep — один шаг онбординга. Media опциональна.
type OnboardingStep struct {
	Text      string `json:"text"`
	Media     string `json:"media,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// Типы медиа шага онбординга.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// QuizQuestion — пара вопрос/ожидаемый ответ.
type QuizQuestion struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// ScenarioOption — вариант ответа в ветвящемся сценарии с готовым фидбеком.
type ScenarioOption struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	FollowUp string `json:"follow_up"`
}

// Scenario — один ветвящийся сценарий: вопрос и минимум два варианта.
type Scenario struct {
	Key      string           `json:"key"`
	Question string           `json:"question"`
	Options  []ScenarioOption `json:"options"`
}

// Position — запись вакансии.
type Position struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Department   string    `json:"department"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Salary       string    `json:"salary"`
	Type         string    `json:"type"`
	Location     string    `json:"location"`
	Deadline     string    `json:"deadline"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedBy    int64     `json:"created_by"`
	Status       string    `json:"status"`
}

// Статусы вакансии.
const (
	PositionActive = "active"
	PositionClosed = "closed"
)

// Application — отклик пользователя на вакансию.
type Application struct {
	PositionID  string    `json:"position_id"`
	UserID      int64     `json:"user_id"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// VacancyState хранит вакансии и отклики.
type VacancyState struct {
	Positions    map[string]Position      `json:"positions"`
	Applications map[string][]Application `json:"applications"`
}

// Config — глобальная конфигурация бота. Загружается один раз при старте,
// мутируется только админскими операциями и сохраняется после каждой мутации.
type Config struct {
	Onboarding   map[string][]OnboardingStep `json:"onboarding"`
	Quizzes      map[string][]QuizQuestion   `json:"quizzes"`
	Resources    map[string][]string         `json:"resources"`
	Scenarios    map[string][]Scenario       `json:"scenarios"`
	AnnounceChat int64                       `json:"announce_chat"`
	VacancyChat  int64                       `json:"vacancy_chat"`
	Vacancies    VacancyState                `json:"vacancies"`
}

// Clone возвращает глубокую копию конфигурации через JSON round-trip.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return &Config{}
	}

	clone := &Config{}
	if err := json.Unmarshal(raw, clone); err != nil {
		return &Config{}
	}

	return clone
}

// Option — кнопка в исходящем сообщении.
type Option struct {
	Key   string
	Label string
}

// Payload — исходящее сообщение для слоя доставки: текст, опциональное медиа
// и опциональные кнопки.
type Payload struct {
	Text      string
	Media     string
	MediaType string
	Options   []Option
}

package storage

import (
	"context"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
)

// UserPatch описывает частичное обновление записи пользователя.
// Поле Status применяется, если указатель не nil. Поля прогресса применяются
// только при выставленном флаге Set*: nil значение при выставленном флаге
// удаляет запись прогресса.
type UserPatch struct {
	Status      *models.StatusMap
	SetQuiz     bool
	Quiz        *models.QuizProgress
	SetTraining bool
	Training    *models.TrainingProgress
}

// Storage определяет интерфейс долговременного хранилища данных бота.
// Отсутствие записи не является ошибкой: методы Load* возвращают пустые
// структуры (для конфигурации — nil, дефолты накладывает слой config).
type Storage interface {
	// LoadUserRecord возвращает все данные пользователя.
	LoadUserRecord(ctx context.Context, userID int64) (*models.UserRecord, error)

	// SaveUserRecord применяет частичное обновление записи пользователя.
	SaveUserRecord(ctx context.Context, userID int64, patch UserPatch) error

	// UserStatuses возвращает статусы всех пользователей, у которых они есть.
	// Нужно отчётным командам: лидерборду и статистике сертификаций.
	UserStatuses(ctx context.Context) (map[int64]models.StatusMap, error)

	// LoadConfig возвращает сохранённую конфигурацию или nil, если её нет.
	LoadConfig(ctx context.Context) (*models.Config, error)

	// SaveConfig сохраняет конфигурацию целиком.
	SaveConfig(ctx context.Context, cfg *models.Config) error
}

// copyRecord возвращает глубокую копию записи пользователя.
func copyRecord(rec *models.UserRecord) *models.UserRecord {
	if rec == nil {
		return &models.UserRecord{Status: models.StatusMap{}}
	}

	clone := &models.UserRecord{Status: rec.Status.Clone()}
	if clone.Status == nil {
		clone.Status = models.StatusMap{}
	}

	if rec.Quiz != nil {
		quiz := *rec.Quiz
		clone.Quiz = &quiz
	}

	if rec.Training != nil {
		training := *rec.Training
		clone.Training = &training
	}

	return clone
}

// applyPatch накладывает частичное обновление на запись.
func applyPatch(rec *models.UserRecord, patch UserPatch) {
	if patch.Status != nil {
		rec.Status = patch.Status.Clone()
	}

	if patch.SetQuiz {
		if patch.Quiz != nil {
			quiz := *patch.Quiz
			rec.Quiz = &quiz
		} else {
			rec.Quiz = nil
		}
	}

	if patch.SetTraining {
		if patch.Training != nil {
			training := *patch.Training
			rec.Training = &training
		} else {
			rec.Training = nil
		}
	}
}

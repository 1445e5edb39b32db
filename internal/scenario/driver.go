package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

// Ошибки драйвера сценариев.
var (
	ErrNoScenarios     = errors.New("no scenarios configured for role")
	ErrUnknownScenario = errors.New("unknown scenario")
	ErrUnknownOption   = errors.New("unknown scenario option")
)

// Driver проводит пользователя по ветвящимся сценариям роли. В отличие от
// онбординга и квиза прогресс не сохраняется: позиция закодирована в ключе
// кнопки, ответ на кнопку сам определяет следующий сценарий.
type Driver struct {
	store storage.Storage
	cfg   *config.Service
}

// New создаёт драйвер сценариев.
func New(store storage.Storage, cfg *config.Service) *Driver {
	return &Driver{store: store, cfg: cfg}
}

// Start проверяет пререквизиты и возвращает первый сценарий роли.
func (d *Driver) Start(ctx context.Context, userID int64, role roles.Role) (*models.Payload, error) {
	rec, err := d.store.LoadUserRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record of user %d: %w", userID, err)
	}

	if err := roles.Check(role, rec.Status); err != nil {
		return nil, err
	}

	scenarios := d.cfg.Scenarios(role)
	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	return scenarioPayload(role, scenarios, 0), nil
}

// Choose обрабатывает выбранный вариант: возвращает отклик на выбор вместе со
// следующим сценарием либо с итоговым сообщением после последнего.
func (d *Driver) Choose(role roles.Role, scenarioKey, optionKey string) (*models.Payload, error) {
	scenarios := d.cfg.Scenarios(role)
	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	index := -1
	for i, s := range scenarios {
		if s.Key == scenarioKey {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrUnknownScenario
	}

	var chosen *models.ScenarioOption
	for i := range scenarios[index].Options {
		if scenarios[index].Options[i].Key == optionKey {
			chosen = &scenarios[index].Options[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrUnknownOption
	}

	if index+1 < len(scenarios) {
		next := scenarioPayload(role, scenarios, index+1)
		next.Text = chosen.FollowUp + "\n\n" + next.Text

		return next, nil
	}

	return &models.Payload{
		Text: fmt.Sprintf(
			"%s\n\n🎉 **Branching scenarios completed!** Great decision-making for the **%s** role.",
			chosen.FollowUp, role.Name(),
		),
	}, nil
}

// OptionKey собирает ключ кнопки варианта. Парный разбор живёт в слое бота.
func OptionKey(role roles.Role, scenarioKey, optionKey string) string {
	return fmt.Sprintf("scenario_%s_%s_%s", role, scenarioKey, optionKey)
}

// scenarioPayload собирает сообщение одного сценария с кнопками вариантов.
func scenarioPayload(role roles.Role, scenarios []models.Scenario, index int) *models.Payload {
	s := scenarios[index]

	options := make([]models.Option, 0, len(s.Options))
	for _, opt := range s.Options {
		options = append(options, models.Option{
			Key:   OptionKey(role, s.Key, opt.Key),
			Label: opt.Label,
		})
	}

	return &models.Payload{
		Text: fmt.Sprintf(
			"**%s Scenario %d/%d:**\n%s",
			role.Name(), index+1, len(scenarios), s.Question,
		),
		Options: options,
	}
}

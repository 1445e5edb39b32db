package roles

import (
	"fmt"
	"strings"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
)

// Role — стабильный идентификатор штатной роли.
type Role string

// Три роли в порядке прогрессии.
const (
	Support Role = "support"
	Admin   Role = "admin"
	SLT     Role = "slt"
)

var names = map[Role]string{
	Support: "Support Staff",
	Admin:   "Administrator",
	SLT:     "Senior Leadership",
}

// prerequisites — статический граф пререквизитов. Порядок в слайсе определяет,
// какой недостающий пререквизит будет назван первым.
var prerequisites = map[Role][]Role{
	Support: {},
	Admin:   {Support},
	SLT:     {Admin},
}

// All возвращает роли в порядке прогрессии.
func All() []Role {
	return []Role{Support, Admin, SLT}
}

// Parse разбирает пользовательский ввод в роль.
func Parse(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := names[role]; !ok {
		return "", false
	}

	return role, true
}

// Name возвращает отображаемое имя роли.
func (r Role) Name() string {
	if name, ok := names[r]; ok {
		return name
	}

	return "Unknown Role"
}

// Prerequisites возвращает пререквизиты роли в порядке объявления.
func (r Role) Prerequisites() []Role {
	prereqs := prerequisites[r]

	return append([]Role(nil), prereqs...)
}

// PrerequisiteError сообщает о первом несданном пререквизите целевой роли.
type PrerequisiteError struct {
	Target  Role
	Missing Role
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf(
		"prerequisite not met: %s requires certification for %s",
		e.Target, e.Missing,
	)
}

// Message возвращает текст для пользователя.
func (e *PrerequisiteError) Message() string {
	return fmt.Sprintf(
		"You must complete **%s** training and certification before accessing **%s** training.\n\nComplete the prerequisites first, then try again.",
		e.Missing.Name(), e.Target.Name(),
	)
}

// Check проверяет, сданы ли все пререквизиты целевой роли.
// Чистая функция: nil, если доступ разрешён, иначе *PrerequisiteError
// с первым несданным пререквизитом в порядке объявления.
func Check(target Role, status models.StatusMap) error {
	for _, prereq := range prerequisites[target] {
		if !status[string(prereq)].Certified {
			return &PrerequisiteError{Target: target, Missing: prereq}
		}
	}

	return nil
}

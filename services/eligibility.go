package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hariom00027/hackathon-system/models"
)

// ApplyInput — параметры подачи заявки.
type ApplyInput struct {
	IsTeam      bool                `json:"is_team"`
	TeamName    string              `json:"team_name"`
	TeamSize    int                 `json:"team_size"`
	TeamMembers []models.TeamMember `json:"team_members"`
}

// EligibilityGate — чистая функция допуска: можно ли создать новую
// заявку на хакатон. Проверки идут по порядку, первая неудача выигрывает.
type EligibilityGate struct {
	deadlines *DeadlineParser
}

func NewEligibilityGate(deadlines *DeadlineParser) *EligibilityGate {
	return &EligibilityGate{deadlines: deadlines}
}

// CheckApply возвращает nil (допуск) либо типизированный отказ с
// человекочитаемой причиной. При допуске нормализует индивидуальный
// режим: имя команды сбрасывается, размер — 1.
func (g *EligibilityGate) CheckApply(
	hackathon *models.Hackathon,
	prior []*models.Application,
	input *ApplyInput,
	now time.Time,
) error {
	// 1. Результаты объявлены — приём закрыт навсегда.
	if hackathon.ResultsPublished {
		return ErrResultsPublished
	}

	// 2. Дедлайн первой фазы. Нечитаемый дедлайн никогда не блокирует.
	if first, ok := hackathon.FirstPhase(); ok && g.deadlines.Passed(first.Deadline, now) {
		return fmt.Errorf("%w: phase %q", ErrPhaseDeadlinePast, first.Name)
	}

	// 3. Отклонённая ранее заявка блокирует повторную подачу навсегда.
	for _, app := range prior {
		if app.Status == models.ApplicationRejected {
			if app.RejectionMessage != nil && *app.RejectionMessage != "" {
				return fmt.Errorf("%w: %s", ErrReapplyForbidden, *app.RejectionMessage)
			}
			return ErrReapplyForbidden
		}
	}

	// 4. Окно регистрации по дате окончания хакатона.
	if g.deadlines.Passed(hackathon.EndDate, now) {
		return ErrRegistrationClosed
	}

	// 5. Параметры команды.
	if input.IsTeam {
		if strings.TrimSpace(input.TeamName) == "" || input.TeamSize <= 1 {
			return ErrInvalidTeamParams
		}
	}

	// 6. Живая заявка уже существует.
	for _, app := range prior {
		if app.Status != models.ApplicationRejected {
			return ErrAlreadyApplied
		}
	}

	if !input.IsTeam {
		input.TeamName = ""
		input.TeamSize = 1
		input.TeamMembers = nil
	}
	return nil
}

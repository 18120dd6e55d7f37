package services

import (
	"github.com/Hariom00027/hackathon-system/models"
)

// Проверки доступа: роль вызывающего плюс владение сущностью.
// Отсутствие личности — это Unauthenticated, не Forbidden.

func requireRole(identity *models.Identity, role models.UserRole) error {
	if identity == nil || identity.ID <= 0 {
		return ErrUnauthenticated
	}
	if identity.Role != role {
		return ErrForbiddenOperation
	}
	return nil
}

func requireApplicant(identity *models.Identity) error {
	return requireRole(identity, models.RoleApplicant)
}

func requireIndustry(identity *models.Identity) error {
	return requireRole(identity, models.RoleIndustry)
}

// requireApplicationOwner — доступ заявителя к собственной заявке.
func requireApplicationOwner(identity *models.Identity, app *models.Application) error {
	if err := requireApplicant(identity); err != nil {
		return err
	}
	if app.ApplicantID != identity.ID {
		return ErrForbiddenOperation
	}
	return nil
}

// requireHackathonOwner — доступ индустрии к хакатону, которым она владеет.
func requireHackathonOwner(identity *models.Identity, hackathon *models.Hackathon) error {
	if err := requireIndustry(identity); err != nil {
		return err
	}
	if hackathon.IndustryID != identity.ID {
		return ErrForbiddenOperation
	}
	return nil
}

// requireApplicationAccess — детали заявки видит её заявитель либо
// владелец родительского хакатона.
func requireApplicationAccess(identity *models.Identity, app *models.Application, hackathon *models.Hackathon) error {
	if identity == nil || identity.ID <= 0 {
		return ErrUnauthenticated
	}
	if identity.Role == models.RoleApplicant && app.ApplicantID == identity.ID {
		return nil
	}
	if identity.Role == models.RoleIndustry && hackathon.IndustryID == identity.ID {
		return nil
	}
	return ErrForbiddenOperation
}

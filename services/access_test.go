package services

import (
	"testing"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	applicant := &models.Identity{ID: 1, Role: models.RoleApplicant}
	industry := &models.Identity{ID: 2, Role: models.RoleIndustry}

	assert.NoError(t, requireApplicant(applicant))
	assert.NoError(t, requireIndustry(industry))

	assert.ErrorIs(t, requireApplicant(industry), ErrForbiddenOperation)
	assert.ErrorIs(t, requireIndustry(applicant), ErrForbiddenOperation)

	// Отсутствие личности — Unauthenticated, не Forbidden.
	assert.ErrorIs(t, requireApplicant(nil), ErrUnauthenticated)
	assert.ErrorIs(t, requireIndustry(&models.Identity{ID: 0, Role: models.RoleIndustry}), ErrUnauthenticated)
}

func TestRequireApplicationOwner(t *testing.T) {
	app := &models.Application{ID: 10, ApplicantID: 1}

	assert.NoError(t, requireApplicationOwner(&models.Identity{ID: 1, Role: models.RoleApplicant}, app))
	assert.ErrorIs(t, requireApplicationOwner(&models.Identity{ID: 2, Role: models.RoleApplicant}, app), ErrForbiddenOperation)
	assert.ErrorIs(t, requireApplicationOwner(&models.Identity{ID: 1, Role: models.RoleIndustry}, app), ErrForbiddenOperation)
	assert.ErrorIs(t, requireApplicationOwner(nil, app), ErrUnauthenticated)
}

func TestRequireHackathonOwner(t *testing.T) {
	hackathon := &models.Hackathon{ID: 5, IndustryID: 2}

	assert.NoError(t, requireHackathonOwner(&models.Identity{ID: 2, Role: models.RoleIndustry}, hackathon))
	assert.ErrorIs(t, requireHackathonOwner(&models.Identity{ID: 3, Role: models.RoleIndustry}, hackathon), ErrForbiddenOperation)
	assert.ErrorIs(t, requireHackathonOwner(&models.Identity{ID: 2, Role: models.RoleApplicant}, hackathon), ErrForbiddenOperation)
	assert.ErrorIs(t, requireHackathonOwner(nil, hackathon), ErrUnauthenticated)
}

func TestRequireApplicationAccess(t *testing.T) {
	app := &models.Application{ID: 10, ApplicantID: 1}
	hackathon := &models.Hackathon{ID: 5, IndustryID: 2}

	// Свою заявку видит заявитель, чужую — владелец хакатона.
	assert.NoError(t, requireApplicationAccess(&models.Identity{ID: 1, Role: models.RoleApplicant}, app, hackathon))
	assert.NoError(t, requireApplicationAccess(&models.Identity{ID: 2, Role: models.RoleIndustry}, app, hackathon))

	assert.ErrorIs(t, requireApplicationAccess(&models.Identity{ID: 3, Role: models.RoleApplicant}, app, hackathon), ErrForbiddenOperation)
	assert.ErrorIs(t, requireApplicationAccess(&models.Identity{ID: 3, Role: models.RoleIndustry}, app, hackathon), ErrForbiddenOperation)
	assert.ErrorIs(t, requireApplicationAccess(nil, app, hackathon), ErrUnauthenticated)
}

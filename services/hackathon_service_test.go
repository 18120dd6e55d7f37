package services

import (
	"context"
	"testing"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHackathonFixture() (HackathonService, *fakeHackathonRepo) {
	repo := newFakeHackathonRepo()
	return NewHackathonService(repo), repo
}

func TestCreateHackathon(t *testing.T) {
	svc, _ := newHackathonFixture()
	industry := &models.Identity{ID: 1, Role: models.RoleIndustry}

	hackathon, err := svc.Create(context.Background(), industry, CreateHackathonInput{
		Title: "AI Challenge",
		Phases: []PhaseInput{
			{Name: "Ideation", Deadline: strPtr("2025-07-01")},
			{Name: "Prototype"},
			{Name: "Final", Deadline: strPtr("2025-09-01")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, industry.ID, hackathon.IndustryID)
	require.Len(t, hackathon.Phases, 3)
	for i, phase := range hackathon.Phases {
		assert.Equal(t, i+1, phase.Position)
	}
}

func TestCreateHackathonValidation(t *testing.T) {
	svc, _ := newHackathonFixture()
	industry := &models.Identity{ID: 1, Role: models.RoleIndustry}
	applicant := &models.Identity{ID: 2, Role: models.RoleApplicant}

	_, err := svc.Create(context.Background(), applicant, CreateHackathonInput{Title: "X"})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = svc.Create(context.Background(), industry, CreateHackathonInput{Title: "   "})
	assert.ErrorIs(t, err, ErrHackathonTitleRequired)

	_, err = svc.Create(context.Background(), industry, CreateHackathonInput{
		Title:  "X",
		Phases: []PhaseInput{{Name: " "}},
	})
	assert.ErrorIs(t, err, ErrHackathonPhaseInvalid)
}

func TestUpdateHackathonReplacesPhases(t *testing.T) {
	svc, repo := newHackathonFixture()
	industry := &models.Identity{ID: 1, Role: models.RoleIndustry}

	created, err := svc.Create(context.Background(), industry, CreateHackathonInput{
		Title:  "AI Challenge",
		Phases: []PhaseInput{{Name: "Ideation"}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), industry, created.ID, UpdateHackathonInput{
		Title: strPtr("AI Challenge 2.0"),
		Phases: []PhaseInput{
			{Name: "Screening"},
			{Name: "Demo Day", Deadline: strPtr("2025-10-01")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "AI Challenge 2.0", updated.Title)
	require.Len(t, updated.Phases, 2)
	assert.Equal(t, "Screening", updated.Phases[0].Name)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Phases, 2)
}

func TestUpdateHackathonOwnerOnly(t *testing.T) {
	svc, _ := newHackathonFixture()
	industry := &models.Identity{ID: 1, Role: models.RoleIndustry}
	rival := &models.Identity{ID: 2, Role: models.RoleIndustry}

	created, err := svc.Create(context.Background(), industry, CreateHackathonInput{Title: "AI Challenge"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), rival, created.ID, UpdateHackathonInput{Title: strPtr("Stolen")})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	err = svc.Delete(context.Background(), rival, created.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestListMineFiltersByOwner(t *testing.T) {
	svc, _ := newHackathonFixture()
	first := &models.Identity{ID: 1, Role: models.RoleIndustry}
	second := &models.Identity{ID: 2, Role: models.RoleIndustry}

	_, err := svc.Create(context.Background(), first, CreateHackathonInput{Title: "One"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), second, CreateHackathonInput{Title: "Two"})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), first)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "One", mine[0].Title)

	all, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetHackathonNotFound(t *testing.T) {
	svc, _ := newHackathonFixture()

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrHackathonNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalScore(t *testing.T) {
	app := &models.Application{
		Submissions: []models.PhaseSubmission{
			{PhaseID: 1, Score: floatPtr(40)},
			{PhaseID: 2, Score: nil},
			{PhaseID: 3, Score: floatPtr(35.5)},
		},
	}
	assert.Equal(t, 75.5, ComputeTotalScore(app))

	assert.Zero(t, ComputeTotalScore(&models.Application{}))
}

func TestSortForResults(t *testing.T) {
	apps := []*models.Application{
		{ID: 1, TotalScore: 90},
		{ID: 2, TotalScore: 50, FinalRank: intPtr(2)},
		{ID: 3, TotalScore: 70},
		{ID: 4, TotalScore: 10, FinalRank: intPtr(1)},
		{ID: 5, TotalScore: 70},
	}

	SortForResults(apps)

	// Ранжированные первыми по возрастанию ранга, затем по убыванию
	// баллов; равные баллы сохраняют исходный порядок.
	ids := make([]int, len(apps))
	for i, a := range apps {
		ids[i] = a.ID
	}
	assert.Equal(t, []int{4, 2, 1, 3, 5}, ids)
}

func TestFinalizeRecomputesAndIsIdempotent(t *testing.T) {
	env := newTestEnv()
	industry := env.addUser(models.RoleIndustry, "org@example.com")
	applicant := env.addUser(models.RoleApplicant, "dev@example.com")
	hackathon := env.addHackathon(industry.ID, strPtr("2025-07-01"))
	phaseID := hackathon.Phases[0].ID

	app, err := env.appService.Apply(context.Background(), applicant, hackathon.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = env.appService.SubmitPhase(context.Background(), applicant, app.ID, phaseID, "https://files.example.com/demo.zip")
	require.NoError(t, err)
	_, err = env.appService.ReviewPhase(context.Background(), industry, app.ID, phaseID, ReviewInput{
		Status: models.SubmissionAccepted,
		Score:  floatPtr(88),
	})
	require.NoError(t, err)

	cfg := CertificateConfig{
		TemplateID:  strPtr("modern"),
		LeftLogoURL: strPtr("https://cdn.example.com/logo.png"),
		Message:     strPtr("Congratulations!"),
	}

	first, err := env.ranking.Finalize(context.Background(), industry, hackathon.ID, cfg)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 88.0, first[0].TotalScore)
	require.NotNil(t, first[0].CertTemplateID)
	assert.Equal(t, "modern", *first[0].CertTemplateID)
	assert.Contains(t, first[0].CertificateURLs, "default")

	// Повторный запуск с теми же входами даёт то же сохранённое состояние.
	second, err := env.ranking.Finalize(context.Background(), industry, hackathon.ID, cfg)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].TotalScore, second[0].TotalScore)
	assert.Equal(t, *first[0].CertTemplateID, *second[0].CertTemplateID)
	assert.Equal(t, first[0].CertificateURLs, second[0].CertificateURLs)
}

func TestFinalizeCertificateConfigSemantics(t *testing.T) {
	env := newTestEnv()
	industry := env.addUser(models.RoleIndustry, "org@example.com")
	applicant := env.addUser(models.RoleApplicant, "dev@example.com")
	hackathon := env.addHackathon(industry.ID)

	_, err := env.appService.Apply(context.Background(), applicant, hackathon.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = env.ranking.Finalize(context.Background(), industry, hackathon.ID, CertificateConfig{
		TemplateID: strPtr("classic"),
		Message:    strPtr("Well done"),
	})
	require.NoError(t, err)

	// Пустой TemplateID не затирает прежний, пустое сообщение — затирает.
	apps, err := env.ranking.Finalize(context.Background(), industry, hackathon.ID, CertificateConfig{
		TemplateID: strPtr("   "),
		Message:    strPtr(""),
	})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.NotNil(t, apps[0].CertTemplateID)
	assert.Equal(t, "classic", *apps[0].CertTemplateID)
	require.NotNil(t, apps[0].CertMessage)
	assert.Empty(t, *apps[0].CertMessage)
}

func TestFinalizePartialFailureConvergesOnRetry(t *testing.T) {
	env := newTestEnv()
	industry := env.addUser(models.RoleIndustry, "org@example.com")
	hackathon := env.addHackathon(industry.ID, nil)
	for _, email := range []string{"a@example.com", "b@example.com"} {
		applicant := env.addUser(models.RoleApplicant, email)
		_, err := env.appService.Apply(context.Background(), applicant, hackathon.ID, ApplyInput{})
		require.NoError(t, err)
	}

	// Первый Update проходит, второй падает: батч без атомарности.
	env.appRepo.updateErrs = []error{nil, assert.AnError}
	_, err := env.ranking.Finalize(context.Background(), industry, 1, CertificateConfig{Message: strPtr("GG")})
	require.Error(t, err)

	// Перезапуск сходится: обе заявки получают конфигурацию.
	apps, err := env.ranking.Finalize(context.Background(), industry, 1, CertificateConfig{Message: strPtr("GG")})
	require.NoError(t, err)
	require.Len(t, apps, 2)
	for _, app := range apps {
		require.NotNil(t, app.CertMessage)
		assert.Equal(t, "GG", *app.CertMessage)
	}
}

func TestFinalizeOwnerOnly(t *testing.T) {
	env := newTestEnv()
	industry := env.addUser(models.RoleIndustry, "org@example.com")
	rival := env.addUser(models.RoleIndustry, "rival@example.com")
	hackathon := env.addHackathon(industry.ID)

	_, err := env.ranking.Finalize(context.Background(), rival, hackathon.ID, CertificateConfig{})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	_, err = env.ranking.Finalize(context.Background(), industry, 999, CertificateConfig{})
	assert.ErrorIs(t, err, ErrHackathonNotFound)
}

func TestHackathonResultsOrdering(t *testing.T) {
	env := newTestEnv()
	industry := env.addUser(models.RoleIndustry, "org@example.com")
	hackathon := env.addHackathon(industry.ID)

	// Три заявителя с разными баллами; второму присвоен явный ранг.
	var appIDs []int
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		applicant := env.addUser(models.RoleApplicant, email)
		app, err := env.appService.Apply(context.Background(), applicant, hackathon.ID, ApplyInput{})
		require.NoError(t, err)
		_, err = env.appService.SetTotalScore(context.Background(), industry, app.ID, float64(50+10*i))
		require.NoError(t, err)
		appIDs = append(appIDs, app.ID)
	}
	_, err := env.appService.AssignRank(context.Background(), industry, appIDs[0], 1)
	require.NoError(t, err)

	got, apps, err := env.ranking.HackathonResults(context.Background(), hackathon.ID)
	require.NoError(t, err)
	assert.Equal(t, hackathon.ID, got.ID)

	require.Len(t, apps, 3)
	assert.Equal(t, appIDs[0], apps[0].ID, "explicit rank wins over score")
	assert.Equal(t, appIDs[2], apps[1].ID)
	assert.Equal(t, appIDs[1], apps[2].ID)
	for _, app := range apps {
		assert.NotEmpty(t, app.CertificateURLs)
	}
}

func TestMyResult(t *testing.T) {
	env := newTestEnv()
	industry := env.addUser(models.RoleIndustry, "org@example.com")
	applicant := env.addUser(models.RoleApplicant, "dev@example.com")
	other := env.addUser(models.RoleApplicant, "other@example.com")
	hackathon := env.addHackathon(industry.ID)

	app, err := env.appService.Apply(context.Background(), applicant, hackathon.ID, ApplyInput{})
	require.NoError(t, err)

	got, err := env.ranking.MyResult(context.Background(), applicant, hackathon.ID)
	require.NoError(t, err)
	assert.Equal(t, app.ID, got.ID)
	assert.Contains(t, got.CertificateURLs, "default")

	_, err = env.ranking.MyResult(context.Background(), other, hackathon.ID)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	_, err = env.ranking.MyResult(context.Background(), industry, hackathon.ID)
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

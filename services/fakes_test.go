package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Hariom00027/hackathon-system/models"
	"github.com/Hariom00027/hackathon-system/repositories"
)

// In-memory фейки репозиториев для сервисных тестов. Хранят копии,
// как это делает БД: мутации видны только после Update/Upsert.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeHackathonRepo struct {
	mu         sync.Mutex
	nextID     int
	hackathons map[int]*models.Hackathon
}

func newFakeHackathonRepo() *fakeHackathonRepo {
	return &fakeHackathonRepo{nextID: 1, hackathons: make(map[int]*models.Hackathon)}
}

func cloneHackathon(h *models.Hackathon) *models.Hackathon {
	clone := *h
	clone.Phases = append([]models.Phase(nil), h.Phases...)
	return &clone
}

func (r *fakeHackathonRepo) Create(_ context.Context, hackathon *models.Hackathon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	hackathon.ID = r.nextID
	r.nextID++
	hackathon.CreatedAt = time.Now()
	for i := range hackathon.Phases {
		hackathon.Phases[i].ID = hackathon.ID*100 + i + 1
		hackathon.Phases[i].HackathonID = hackathon.ID
	}
	r.hackathons[hackathon.ID] = cloneHackathon(hackathon)
	return nil
}

func (r *fakeHackathonRepo) GetByID(_ context.Context, id int) (*models.Hackathon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hackathons[id]
	if !ok {
		return nil, repositories.ErrHackathonNotFound
	}
	return cloneHackathon(h), nil
}

func (r *fakeHackathonRepo) List(_ context.Context, filter repositories.ListHackathonsFilter) ([]models.Hackathon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Hackathon
	for _, h := range r.hackathons {
		if filter.IndustryID != nil && h.IndustryID != *filter.IndustryID {
			continue
		}
		if filter.ResultsPublished != nil && h.ResultsPublished != *filter.ResultsPublished {
			continue
		}
		out = append(out, *cloneHackathon(h))
	}
	return out, nil
}

func (r *fakeHackathonRepo) Update(_ context.Context, hackathon *models.Hackathon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.hackathons[hackathon.ID]
	if !ok {
		return repositories.ErrHackathonNotFound
	}
	stored.Title = hackathon.Title
	stored.Description = hackathon.Description
	stored.EndDate = hackathon.EndDate
	// Флаг публикации монотонный, как и в SQL-варианте.
	stored.ResultsPublished = stored.ResultsPublished || hackathon.ResultsPublished
	return nil
}

func (r *fakeHackathonRepo) ReplacePhases(_ context.Context, hackathonID int, phases []models.Phase) ([]models.Phase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.hackathons[hackathonID]
	if !ok {
		return nil, repositories.ErrHackathonNotFound
	}
	replaced := make([]models.Phase, len(phases))
	for i, p := range phases {
		p.ID = hackathonID*100 + i + 1
		p.HackathonID = hackathonID
		replaced[i] = p
	}
	stored.Phases = replaced
	return append([]models.Phase(nil), replaced...), nil
}

func (r *fakeHackathonRepo) SetResultsPublished(_ context.Context, _ repositories.SQLExecutor, id int, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.hackathons[id]
	if !ok {
		return repositories.ErrHackathonNotFound
	}
	stored.ResultsPublished = stored.ResultsPublished || published
	return nil
}

func (r *fakeHackathonRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hackathons[id]; !ok {
		return repositories.ErrHackathonNotFound
	}
	delete(r.hackathons, id)
	return nil
}

type fakeApplicationRepo struct {
	mu         sync.Mutex
	nextID     int
	nextSubID  int
	apps       map[int]*models.Application
	updateErrs []error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{nextID: 1, nextSubID: 1, apps: make(map[int]*models.Application)}
}

func cloneApplication(a *models.Application) *models.Application {
	clone := *a
	clone.Submissions = append([]models.PhaseSubmission(nil), a.Submissions...)
	clone.TeamMembers = append([]models.TeamMember(nil), a.TeamMembers...)
	clone.CertificateURLs = nil
	clone.Hackathon = nil
	return &clone
}

func (r *fakeApplicationRepo) Create(_ context.Context, application *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.HackathonID == application.HackathonID && a.ApplicantID == application.ApplicantID {
			return repositories.ErrApplicationConflict
		}
	}
	application.ID = r.nextID
	r.nextID++
	application.CreatedAt = time.Now()
	r.apps[application.ID] = cloneApplication(application)
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id int) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	return cloneApplication(a), nil
}

func (r *fakeApplicationRepo) ListByHackathon(_ context.Context, hackathonID int) ([]*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Application
	for id := 1; id < r.nextID; id++ {
		if a, ok := r.apps[id]; ok && a.HackathonID == hackathonID {
			out = append(out, cloneApplication(a))
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, applicantID int) ([]*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Application
	for id := 1; id < r.nextID; id++ {
		if a, ok := r.apps[id]; ok && a.ApplicantID == applicantID {
			out = append(out, cloneApplication(a))
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) FindByHackathonAndApplicant(_ context.Context, hackathonID, applicantID int) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.HackathonID == hackathonID && a.ApplicantID == applicantID {
			return cloneApplication(a), nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

// Update сохраняет только скалярные поля, как SQL UPDATE: сабмиты и
// участники живут в своих "таблицах".
func (r *fakeApplicationRepo) Update(_ context.Context, application *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updateErrs) > 0 {
		err := r.updateErrs[0]
		r.updateErrs = r.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	stored, ok := r.apps[application.ID]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	stored.IsTeam = application.IsTeam
	stored.TeamName = application.TeamName
	stored.TeamSize = application.TeamSize
	stored.Status = application.Status
	stored.RejectionMessage = application.RejectionMessage
	stored.CurrentPhaseID = application.CurrentPhaseID
	stored.TotalScore = application.TotalScore
	stored.FinalRank = application.FinalRank
	stored.CertTemplateID = application.CertTemplateID
	stored.CertLeftLogoURL = application.CertLeftLogoURL
	stored.CertRightLogoURL = application.CertRightLogoURL
	stored.CertSignatureURL = application.CertSignatureURL
	stored.CertMessage = application.CertMessage
	stored.ShowcaseContent = application.ShowcaseContent
	return nil
}

func (r *fakeApplicationRepo) UpsertSubmission(_ context.Context, submission *models.PhaseSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.apps[submission.ApplicationID]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	for i := range stored.Submissions {
		if stored.Submissions[i].PhaseID == submission.PhaseID {
			submission.ID = stored.Submissions[i].ID
			stored.Submissions[i] = *submission
			return nil
		}
	}
	submission.ID = r.nextSubID
	r.nextSubID++
	stored.Submissions = append(stored.Submissions, *submission)
	return nil
}

func (r *fakeApplicationRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return repositories.ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}

// capturingNotifier копит события для проверок.
type capturingNotifier struct {
	mu     sync.Mutex
	events []ApplicationEvent
}

func (n *capturingNotifier) Notify(_ context.Context, event ApplicationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *capturingNotifier) all() []ApplicationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ApplicationEvent(nil), n.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testResultBaseURL = "https://results.example.com/certificate"

// testEnv — полностью собранный сервисный слой на фейках.
type testEnv struct {
	userRepo      *fakeUserRepo
	hackathonRepo *fakeHackathonRepo
	appRepo       *fakeApplicationRepo
	notifier      *capturingNotifier
	apps          *applicationService
	appService    ApplicationService
	ranking       RankingService
	now           time.Time
}

func newTestEnv() *testEnv {
	env := &testEnv{
		userRepo:      newFakeUserRepo(),
		hackathonRepo: newFakeHackathonRepo(),
		appRepo:       newFakeApplicationRepo(),
		notifier:      &capturingNotifier{},
		now:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	logger := discardLogger()
	deadlines := NewDeadlineParser(logger)
	gate := NewEligibilityGate(deadlines)
	svc := NewApplicationService(
		env.appRepo,
		env.hackathonRepo,
		env.userRepo,
		gate,
		deadlines,
		env.notifier,
		logger,
		testResultBaseURL,
	)
	env.appService = svc
	env.apps = svc.(*applicationService)
	env.apps.now = func() time.Time { return env.now }
	env.ranking = NewRankingService(env.appRepo, env.hackathonRepo, env.notifier, logger, testResultBaseURL)
	return env
}

func (env *testEnv) addUser(role models.UserRole, email string) *models.Identity {
	user := &models.User{
		FirstName: "Test",
		LastName:  string(role),
		Email:     email,
		Role:      role,
	}
	if err := env.userRepo.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return &models.Identity{ID: user.ID, Email: user.Email, Name: user.DisplayName(), Role: user.Role}
}

func (env *testEnv) addHackathon(industryID int, phaseDeadlines ...*string) *models.Hackathon {
	phases := make([]models.Phase, len(phaseDeadlines))
	for i, d := range phaseDeadlines {
		phases[i] = models.Phase{Position: i + 1, Name: "Phase " + string(rune('A'+i)), Deadline: d}
	}
	h := &models.Hackathon{
		Title:      "AI Challenge",
		IndustryID: industryID,
		Phases:     phases,
	}
	if err := env.hackathonRepo.Create(context.Background(), h); err != nil {
		panic(err)
	}
	return h
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
